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

package main

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/boriwo/asciivid/internal/cache"
	"github.com/boriwo/asciivid/internal/failure"
	"github.com/boriwo/asciivid/internal/source"
	"github.com/boriwo/asciivid/internal/source/video"
)

// openSource opens a directory of numbered images, or any other path as a
// media file.
func openSource(path string, fps float64) (source.Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, failure.Wrap(failure.ErrMissingResource, "open source", path, err)
		}
		return nil, failure.Wrap(failure.ErrInitialization, "open source", path, err)
	}
	if info.IsDir() {
		dir, err := source.NewDir(path, fps)
		if err != nil {
			return nil, err
		}
		return dir, nil
	}
	media, err := video.Open(path)
	if err != nil {
		return nil, err
	}
	return media, nil
}

// describe reports the metadata of a cache file, an image directory or a
// media file without converting anything.
func describe(path string, fps float64) (source.Info, error) {
	if isCacheFile(path) {
		v, err := cache.Load(path)
		if err != nil {
			return source.Info{}, err
		}
		return source.Info{
			Kind:       "cache",
			FPS:        v.FPS,
			Duration:   v.Duration,
			Size:       v.Size,
			FrameCount: len(v.Frames),
			Format:     "zstd cbor",
		}, nil
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		dir, err := source.NewDir(path, fps)
		if err != nil {
			return source.Info{}, err
		}
		defer dir.Close()
		return dir.Info(), nil
	}
	return video.Probe(path)
}

func isCacheFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), cache.Ext)
}

// cachePath derives the default cache file name for a source path.
func cachePath(src string) string {
	clean := filepath.Clean(src)
	if info, err := os.Stat(clean); err == nil && info.IsDir() {
		return clean + cache.Ext
	}
	return strings.TrimSuffix(clean, filepath.Ext(clean)) + cache.Ext
}
