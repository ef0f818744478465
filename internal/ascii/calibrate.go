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

package ascii

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"

	"github.com/boriwo/asciivid/internal/failure"
)

const (
	glyphWidth  = 12
	glyphHeight = 20
	glyphDPI    = 72
	glyphSize   = 18
)

// Glyph is the measured ink coverage of one ramp symbol.
type Glyph struct {
	Symbol   rune
	Coverage float64 // share of the cell covered by ink, 0..1
}

// ParseFont parses a TrueType font.
func ParseFont(ttf []byte) (*truetype.Font, error) {
	font, err := freetype.ParseFont(ttf)
	if err != nil {
		return nil, failure.Wrap(failure.ErrInitialization, "parse font", "", err)
	}
	return font, nil
}

// Calibrate renders every symbol of ramp black on white and measures how
// much of the cell it darkens.
func Calibrate(font *truetype.Font, ramp string) ([]Glyph, error) {
	glyphs := make([]Glyph, 0, len(ramp))
	for _, r := range ramp {
		cell, err := rasterize(font, r)
		if err != nil {
			return nil, err
		}
		glyphs = append(glyphs, Glyph{Symbol: r, Coverage: coverage(cell)})
	}
	return glyphs, nil
}

// CheckOrder reports the first position where coverage increases along the
// ramp, i.e. where a lighter slot renders denser than the slot before it.
// It returns -1 when the ramp is ordered dark to light.
func CheckOrder(glyphs []Glyph) int {
	for i := 1; i < len(glyphs); i++ {
		if glyphs[i].Coverage > glyphs[i-1].Coverage {
			return i
		}
	}
	return -1
}

func rasterize(font *truetype.Font, r rune) (*image.RGBA, error) {
	cell := image.NewRGBA(image.Rect(0, 0, glyphWidth, glyphHeight))
	draw.Draw(cell, cell.Bounds(), image.White, image.Point{}, draw.Src)
	c := freetype.NewContext()
	c.SetDPI(glyphDPI)
	c.SetFont(font)
	c.SetFontSize(glyphSize)
	c.SetClip(cell.Bounds())
	c.SetDst(cell)
	c.SetSrc(image.Black)
	if _, err := c.DrawString(string(r), freetype.Pt(0, glyphHeight-4)); err != nil {
		return nil, fmt.Errorf("rasterize %q: %w", r, err)
	}
	return cell, nil
}

func coverage(cell *image.RGBA) float64 {
	b := cell.Bounds()
	var ink int
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			off := cell.PixOffset(x, y)
			lum := (int(cell.Pix[off]) + int(cell.Pix[off+1]) + int(cell.Pix[off+2])) / 3
			ink += 255 - lum
		}
	}
	return float64(ink) / float64(255*b.Dx()*b.Dy())
}
