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

package cache

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/boriwo/asciivid/internal/failure"
	"github.com/boriwo/asciivid/internal/frame"
)

func sampleVideo(n int) *frame.Video {
	size := frame.Size{Width: 3, Height: 2}
	v := &frame.Video{FPS: 24, Duration: 2 * time.Second, Size: size}
	for i := 0; i < n; i++ {
		pix := bytes.Repeat([]byte{byte(i * 10)}, size.Area())
		v.Frames = append(v.Frames, frame.Processed{Pix: pix, Width: 3, Height: 2, Seq: uint64(i)})
	}
	return v
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip"+Ext)
	want := sampleVideo(12)
	if err := Save(path, want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.FPS != want.FPS || got.Duration != want.Duration || got.Size != want.Size {
		t.Fatalf("metadata mismatch: got %+v", got)
	}
	if len(got.Frames) != len(want.Frames) {
		t.Fatalf("got %d frames, want %d", len(got.Frames), len(want.Frames))
	}
	for i := range got.Frames {
		g, w := got.Frames[i], want.Frames[i]
		if g.Seq != w.Seq || g.Width != w.Width || g.Height != w.Height || !bytes.Equal(g.Pix, w.Pix) {
			t.Fatalf("frame %d differs", i)
		}
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temporary file left behind: %v", err)
	}
}

func TestSaveLoadEmptyVideo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty"+Ext)
	if err := Save(path, sampleVideo(0)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got.Frames) != 0 {
		t.Fatalf("expected no frames, got %d", len(got.Frames))
	}
}

func TestSaveRejectsMissingSize(t *testing.T) {
	err := Save(filepath.Join(t.TempDir(), "x"+Ext), &frame.Video{FPS: 30})
	if !errors.Is(err, failure.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent"+Ext))
	if !errors.Is(err, failure.ErrMissingResource) {
		t.Fatalf("expected missing resource, got %v", err)
	}
}

func TestLoadRejectsForeignFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "movie"+Ext)
	if err := os.WriteFile(path, []byte("RIFF....WAVE"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.Is(err, failure.ErrInitialization) {
		t.Fatalf("expected initialization failure, got %v", err)
	}
}

func TestLoadValidatesFrames(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*frame.Video)
	}{
		{"short frame", func(v *frame.Video) { v.Frames[2].Pix = v.Frames[2].Pix[:4] }},
		{"sequence gap", func(v *frame.Video) { v.Frames[3].Seq = 7 }},
		{"swapped frames", func(v *frame.Video) { v.Frames[0], v.Frames[1] = v.Frames[1], v.Frames[0] }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := sampleVideo(5)
			tt.mutate(v)
			path := filepath.Join(t.TempDir(), "bad"+Ext)
			if err := Save(path, v); err != nil {
				t.Fatalf("Save: %v", err)
			}
			if _, err := Load(path); !errors.Is(err, failure.ErrConversionInvariant) {
				t.Fatalf("expected invariant violation, got %v", err)
			}
		})
	}
}
