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

package frame

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"github.com/boriwo/asciivid/internal/failure"
)

// Transform converts raw to luma and resizes it to exactly target using a
// nearest-neighbour filter. The result always holds target.Area() bytes;
// anything else is reported as failure.ErrConversionInvariant.
func Transform(raw Raw, target Size) (Processed, error) {
	if !target.Valid() {
		return Processed{}, failure.Wrap(failure.ErrConfiguration, "transform", fmt.Sprintf("invalid target %s", target), nil)
	}
	src, err := raw.image()
	if err != nil {
		return Processed{}, err
	}

	var gray image.Image = src
	if raw.Channels != 1 {
		gray = imaging.Grayscale(src)
	}
	resized := imaging.Resize(gray, target.Width, target.Height, imaging.NearestNeighbor)

	b := resized.Bounds()
	if b.Dx() != target.Width || b.Dy() != target.Height {
		return Processed{}, failure.Wrap(failure.ErrConversionInvariant, "transform",
			fmt.Sprintf("frame %d resized to %dx%d, want %s", raw.Seq, b.Dx(), b.Dy(), target), nil)
	}
	pix := make([]byte, 0, target.Area())
	for y := 0; y < b.Dy(); y++ {
		row := resized.Pix[y*resized.Stride:]
		for x := 0; x < b.Dx(); x++ {
			pix = append(pix, row[x*4])
		}
	}
	if len(pix) != target.Area() {
		return Processed{}, failure.Wrap(failure.ErrConversionInvariant, "transform",
			fmt.Sprintf("frame %d has %d bytes, want %d", raw.Seq, len(pix), target.Area()), nil)
	}
	return Processed{Pix: pix, Width: target.Width, Height: target.Height, Seq: raw.Seq}, nil
}

func (r Raw) image() (image.Image, error) {
	if r.Width <= 0 || r.Height <= 0 || len(r.Pix) != r.Width*r.Height*r.Channels {
		return nil, failure.Wrap(failure.ErrConversionInvariant, "transform",
			fmt.Sprintf("frame %d: %d bytes for %dx%d with %d channels", r.Seq, len(r.Pix), r.Width, r.Height, r.Channels), nil)
	}
	rect := image.Rect(0, 0, r.Width, r.Height)
	switch r.Channels {
	case 1:
		return &image.Gray{Pix: r.Pix, Stride: r.Width, Rect: rect}, nil
	case 3:
		img := image.NewNRGBA(rect)
		for i, j := 0, 0; i < len(r.Pix); i, j = i+3, j+4 {
			img.Pix[j] = r.Pix[i]
			img.Pix[j+1] = r.Pix[i+1]
			img.Pix[j+2] = r.Pix[i+2]
			img.Pix[j+3] = 0xff
		}
		return img, nil
	case 4:
		return &image.RGBA{Pix: r.Pix, Stride: 4 * r.Width, Rect: rect}, nil
	default:
		return nil, failure.Wrap(failure.ErrConversionInvariant, "transform",
			fmt.Sprintf("frame %d: unsupported channel count %d", r.Seq, r.Channels), nil)
	}
}
