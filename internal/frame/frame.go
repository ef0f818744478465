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

// Package frame holds the pixel buffers that travel through the conversion
// pipeline and the transform that turns a decoded frame into a fixed-size
// grayscale grid.
package frame

import (
	"fmt"
	"image"
	"image/draw"
	"time"
)

// Size is a width x height pair in pixels (and, once rendered, characters).
type Size struct {
	Width  int
	Height int
}

// Area returns Width*Height.
func (s Size) Area() int {
	return s.Width * s.Height
}

// Valid reports whether both dimensions are positive.
func (s Size) Valid() bool {
	return s.Width > 0 && s.Height > 0
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// Raw is a frame straight from a source: row-major bytes with Channels bytes
// per pixel (1 = gray, 3 = RGB, 4 = premultiplied RGBA). Seq is assigned by the sequencer.
type Raw struct {
	Pix      []byte
	Width    int
	Height   int
	Channels int
	Seq      uint64
}

// FromImage copies img into a Raw frame. Gray images stay single-channel,
// everything else becomes 4-channel premultiplied RGBA.
func FromImage(img image.Image) Raw {
	switch src := img.(type) {
	case *image.Gray:
		b := src.Bounds()
		if b.Min == (image.Point{}) && src.Stride == b.Dx() {
			return Raw{Pix: append([]byte(nil), src.Pix...), Width: b.Dx(), Height: b.Dy(), Channels: 1}
		}
	case *image.RGBA:
		b := src.Bounds()
		if b.Min == (image.Point{}) && src.Stride == 4*b.Dx() {
			return Raw{Pix: append([]byte(nil), src.Pix...), Width: b.Dx(), Height: b.Dy(), Channels: 4}
		}
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return Raw{Pix: rgba.Pix, Width: b.Dx(), Height: b.Dy(), Channels: 4}
}

// Processed is a grayscale frame at the downscale target. It is never
// modified after Transform returns it.
type Processed struct {
	Pix    []byte
	Width  int
	Height int
	Seq    uint64
}

// At returns the intensity at column x, row y.
func (p Processed) At(x, y int) byte {
	return p.Pix[y*p.Width+x]
}

// Video is a fully materialized clip: every processed frame, in order.
type Video struct {
	FPS      float64
	Duration time.Duration
	Size     Size
	Frames   []Processed
}

// FrameInterval is the pacing sleep between two frames.
func (v *Video) FrameInterval() time.Duration {
	return Interval(v.FPS)
}

// Footprint returns the number of pixel bytes held by the video.
func (v *Video) Footprint() int {
	return len(v.Frames) * v.Size.Area()
}

// Interval converts a frame rate into the per-frame delay.
func Interval(fps float64) time.Duration {
	if fps <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / fps)
}
