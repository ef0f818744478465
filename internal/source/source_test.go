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
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/boriwo/asciivid/internal/failure"
	"github.com/boriwo/asciivid/internal/frame"
)

func writePNG(t *testing.T, dir, name string, v uint8) {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 4, 2))
	for i := range img.Pix {
		img.Pix[i] = v
	}
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
}

func TestParseIndex(t *testing.T) {
	tests := []struct {
		name string
		want int
	}{
		{"frame-0001.png", 1},
		{"12.jpg", 12},
		{"out_7_final.png", 7},
		{"shot2-frame-0042.bmp", 42},
	}
	for _, tt := range tests {
		got, err := ParseIndex(tt.name)
		if err != nil {
			t.Fatalf("ParseIndex(%q): %v", tt.name, err)
		}
		if got != tt.want {
			t.Fatalf("ParseIndex(%q) = %d, want %d", tt.name, got, tt.want)
		}
	}
	if _, err := ParseIndex("cover.png"); err == nil {
		t.Fatal("expected error for name without index")
	}
}

func TestDirReadsInIndexOrder(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, dir, "frame-10.png", 30)
	writePNG(t, dir, "frame-2.png", 20)
	writePNG(t, dir, "frame-1.png", 10)
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644); err != nil {
		t.Fatal(err)
	}

	src, err := NewDir(dir, 10)
	if err != nil {
		t.Fatalf("NewDir: %v", err)
	}
	info := src.Info()
	if info.FrameCount != 3 || info.Size != (frame.Size{Width: 4, Height: 2}) {
		t.Fatalf("unexpected info %+v", info)
	}
	if info.Duration.Milliseconds() != 300 {
		t.Fatalf("unexpected duration %v", info.Duration)
	}

	var got []byte
	for {
		raw, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if raw.Channels != 1 || raw.Width != 4 || raw.Height != 2 {
			t.Fatalf("unexpected raw frame %dx%d/%d", raw.Width, raw.Height, raw.Channels)
		}
		got = append(got, raw.Pix[0])
	}
	if string(got) != string([]byte{10, 20, 30}) {
		t.Fatalf("unexpected order %v", got)
	}
}

func TestDirRejectsUnnumberedImage(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, dir, "frame-1.png", 1)
	writePNG(t, dir, "cover.png", 1)
	_, err := NewDir(dir, 10)
	if !errors.Is(err, failure.ErrInitialization) {
		t.Fatalf("expected initialization failure, got %v", err)
	}
}

func TestDirRejectsDuplicateIndex(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, dir, "a-1.png", 1)
	writePNG(t, dir, "b-001.png", 1)
	if _, err := NewDir(dir, 10); err == nil {
		t.Fatal("expected duplicate index error")
	}
}

func TestDirMissing(t *testing.T) {
	_, err := NewDir(filepath.Join(t.TempDir(), "absent"), 10)
	if !errors.Is(err, failure.ErrMissingResource) {
		t.Fatalf("expected missing resource, got %v", err)
	}
}

func TestDirDecodeFailureIsDistinct(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, dir, "frame-1.png", 1)
	if err := os.WriteFile(filepath.Join(dir, "frame-2.png"), []byte("not a png"), 0o644); err != nil {
		t.Fatal(err)
	}
	src, err := NewDir(dir, 10)
	if err != nil {
		t.Fatalf("NewDir: %v", err)
	}
	if _, err := src.Next(); err != nil {
		t.Fatalf("first frame: %v", err)
	}
	_, err = src.Next()
	if !errors.Is(err, failure.ErrDecode) {
		t.Fatalf("expected decode failure, got %v", err)
	}
}

func TestEmptyDir(t *testing.T) {
	src, err := NewDir(t.TempDir(), 24)
	if err != nil {
		t.Fatalf("NewDir: %v", err)
	}
	if _, err := src.Next(); !errors.Is(err, io.EOF) {
		t.Fatalf("expected EOF, got %v", err)
	}
}

func TestSlice(t *testing.T) {
	boom := errors.New("boom")
	src := NewSlice(2, frame.Raw{Width: 1, Height: 1}, frame.Raw{Width: 1, Height: 1}).FailAfter(boom)
	for i := 0; i < 2; i++ {
		if _, err := src.Next(); err != nil {
			t.Fatalf("Next %d: %v", i, err)
		}
	}
	if _, err := src.Next(); !errors.Is(err, boom) {
		t.Fatalf("expected tail error, got %v", err)
	}
	if src.Info().Duration.Seconds() != 1 {
		t.Fatalf("unexpected duration %v", src.Info().Duration)
	}
}

func TestInfoEstimatedFrames(t *testing.T) {
	info := Info{FPS: 30, Duration: 2_000_000_000}
	if info.EstimatedFrames() != 60 {
		t.Fatalf("unexpected estimate %d", info.EstimatedFrames())
	}
	info.FrameCount = 7
	if info.EstimatedFrames() != 7 {
		t.Fatalf("expected explicit count")
	}
}
