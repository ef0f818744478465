/**
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *   http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package source

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/boriwo/asciivid/internal/failure"
	"github.com/boriwo/asciivid/internal/frame"
)

var (
	imageExtensions = map[string]bool{
		".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
		".bmp": true, ".tif": true, ".tiff": true, ".webp": true,
	}
	trailingNumber = regexp.MustCompile(`(\d+)\D*$`)
)

// DirEntry is one image file of a directory source and the frame index
// parsed from its name.
type DirEntry struct {
	Path  string
	Index int
}

// Dir reads a directory of numbered images (frame-0001.png, 12.jpg, ...)
// in index order.
type Dir struct {
	entries []DirEntry
	pos     int
	fps     float64
	size    frame.Size
}

// NewDir scans path for image files. Every image name must carry its frame
// index; a name without one, or two files with the same index, is fatal.
func NewDir(path string, fps float64) (*Dir, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, failure.Wrap(failure.ErrMissingResource, "image directory", path, err)
		}
		return nil, failure.Wrap(failure.ErrInitialization, "image directory", path, err)
	}
	if !info.IsDir() {
		return nil, failure.Wrap(failure.ErrInitialization, "image directory", path+" is not a directory", nil)
	}
	entries, err := ScanDir(path)
	if err != nil {
		return nil, err
	}

	d := &Dir{entries: entries, fps: fps}
	if len(entries) > 0 {
		size, err := decodeSize(entries[0].Path)
		if err != nil {
			return nil, failure.Wrap(failure.ErrInitialization, "image directory", entries[0].Path, err)
		}
		d.size = size
	}
	return d, nil
}

// ScanDir lists the image files of path sorted by frame index.
func ScanDir(path string) ([]DirEntry, error) {
	items, err := os.ReadDir(path)
	if err != nil {
		return nil, failure.Wrap(failure.ErrInitialization, "image directory", path, err)
	}
	entries := make([]DirEntry, 0, len(items))
	seen := make(map[int]string, len(items))
	for _, item := range items {
		if item.IsDir() {
			continue
		}
		name := item.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if !imageExtensions[ext] {
			continue
		}
		index, err := ParseIndex(name)
		if err != nil {
			return nil, failure.Wrap(failure.ErrInitialization, "image directory", name, err)
		}
		if prev, ok := seen[index]; ok {
			return nil, failure.Wrap(failure.ErrInitialization, "image directory",
				fmt.Sprintf("%s and %s share frame index %d", prev, name, index), nil)
		}
		seen[index] = name
		entries = append(entries, DirEntry{Path: filepath.Join(path, name), Index: index})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Index < entries[j].Index })
	return entries, nil
}

// ParseIndex extracts the frame index from the last run of digits in a file
// name stem.
func ParseIndex(name string) (int, error) {
	stem := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	match := trailingNumber.FindStringSubmatch(stem)
	if match == nil {
		return 0, fmt.Errorf("no frame index in %q", name)
	}
	index, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, fmt.Errorf("frame index in %q: %w", name, err)
	}
	return index, nil
}

func (d *Dir) Next() (frame.Raw, error) {
	if d.pos >= len(d.entries) {
		return frame.Raw{}, io.EOF
	}
	entry := d.entries[d.pos]
	d.pos++
	img, err := decodeFile(entry.Path)
	if err != nil {
		return frame.Raw{}, failure.Wrap(failure.ErrDecode, "image directory", entry.Path, err)
	}
	return frame.FromImage(img), nil
}

func (d *Dir) Info() Info {
	info := Info{Kind: "images", FPS: d.fps, Size: d.size, FrameCount: len(d.entries), Format: "image sequence"}
	if d.fps > 0 {
		info.Duration = time.Duration(float64(len(d.entries)) / d.fps * float64(time.Second))
	}
	return info
}

func (d *Dir) Close() error {
	return nil
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	return img, err
}

func decodeSize(path string) (frame.Size, error) {
	f, err := os.Open(path)
	if err != nil {
		return frame.Size{}, err
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return frame.Size{}, err
	}
	return frame.Size{Width: cfg.Width, Height: cfg.Height}, nil
}
