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

// Package cache stores a converted video on disk so it can be played again
// without decoding. A cache file is a magic header followed by a
// zstd-compressed CBOR record.
package cache

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/klauspost/compress/zstd"

	"github.com/boriwo/asciivid/internal/failure"
	"github.com/boriwo/asciivid/internal/frame"
)

// Ext is the conventional extension of cache files.
const Ext = ".avc"

var magic = []byte("AVC1")

type record struct {
	FPS      float64       `cbor:"fps"`
	Duration int64         `cbor:"duration_ns"`
	Width    int           `cbor:"width"`
	Height   int           `cbor:"height"`
	Frames   []frameRecord `cbor:"frames"`
}

type frameRecord struct {
	Seq uint64 `cbor:"seq"`
	Pix []byte `cbor:"pix"`
}

// Save writes v to path, replacing any existing file.
func Save(path string, v *frame.Video) error {
	if v == nil || !v.Size.Valid() {
		return failure.Wrap(failure.ErrConfiguration, "cache save", "video has no frame size", nil)
	}
	rec := record{
		FPS:      v.FPS,
		Duration: int64(v.Duration),
		Width:    v.Size.Width,
		Height:   v.Size.Height,
		Frames:   make([]frameRecord, len(v.Frames)),
	}
	for i, p := range v.Frames {
		rec.Frames[i] = frameRecord{Seq: p.Seq, Pix: p.Pix}
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return failure.Wrap(failure.ErrInitialization, "cache save", path, err)
	}
	if err := write(f, &rec); err != nil {
		f.Close()
		os.Remove(tmp)
		return failure.Wrap(failure.ErrInitialization, "cache save", path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return failure.Wrap(failure.ErrInitialization, "cache save", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return failure.Wrap(failure.ErrInitialization, "cache save", path, err)
	}
	return nil
}

func write(w io.Writer, rec *record) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.Write(magic); err != nil {
		return err
	}
	enc, err := zstd.NewWriter(bw)
	if err != nil {
		return err
	}
	if err := cbor.NewEncoder(enc).Encode(rec); err != nil {
		enc.Close()
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	return bw.Flush()
}

// Load reads a cache file written by Save. Every frame is checked against the
// stored size and the sequence numbers must run 0..n-1.
func Load(path string) (*frame.Video, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, failure.Wrap(failure.ErrMissingResource, "cache load", path, err)
		}
		return nil, failure.Wrap(failure.ErrInitialization, "cache load", path, err)
	}
	defer f.Close()

	rec, err := read(bufio.NewReader(f))
	if err != nil {
		return nil, failure.Wrap(failure.ErrInitialization, "cache load", path, err)
	}
	return rec.video(path)
}

func read(r io.Reader) (*record, error) {
	head := make([]byte, len(magic))
	if _, err := io.ReadFull(r, head); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if !bytes.Equal(head, magic) {
		return nil, fmt.Errorf("not a cache file (header %q)", head)
	}
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	var rec record
	if err := cbor.NewDecoder(dec).Decode(&rec); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return &rec, nil
}

func (rec *record) video(path string) (*frame.Video, error) {
	size := frame.Size{Width: rec.Width, Height: rec.Height}
	if !size.Valid() {
		return nil, failure.Wrap(failure.ErrConversionInvariant, "cache load", fmt.Sprintf("%s: invalid frame size %s", path, size), nil)
	}
	v := &frame.Video{
		FPS:      rec.FPS,
		Duration: time.Duration(rec.Duration),
		Size:     size,
		Frames:   make([]frame.Processed, len(rec.Frames)),
	}
	for i, fr := range rec.Frames {
		if fr.Seq != uint64(i) {
			return nil, failure.Wrap(failure.ErrConversionInvariant, "cache load", fmt.Sprintf("%s: position %d holds sequence %d", path, i, fr.Seq), nil)
		}
		if len(fr.Pix) != size.Area() {
			return nil, failure.Wrap(failure.ErrConversionInvariant, "cache load", fmt.Sprintf("%s: frame %d has %d bytes, want %d", path, i, len(fr.Pix), size.Area()), nil)
		}
		v.Frames[i] = frame.Processed{Pix: fr.Pix, Width: size.Width, Height: size.Height, Seq: fr.Seq}
	}
	return v, nil
}
