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

// Package ascii maps grayscale intensities to characters.
//
// The ramp is fixed and ordered from the densest glyph (darkest pixels) to a
// blank (lightest pixels). Each symbol covers a band of BandWidth intensity
// levels.
package ascii

import (
	"strings"

	"github.com/boriwo/asciivid/internal/frame"
)

const (
	Ramp      = "@#S%?*+;:, "
	BandWidth = 25
)

// Index returns the ramp position for intensity: intensity/BandWidth,
// clamped to the ramp.
func Index(intensity int) int {
	if intensity < 0 {
		return 0
	}
	idx := intensity / BandWidth
	if idx > len(Ramp)-1 {
		return len(Ramp) - 1
	}
	return idx
}

// SymbolFor returns the ramp symbol for one pixel.
func SymbolFor(intensity byte) byte {
	return Ramp[Index(int(intensity))]
}

// Lines renders p as Height lines of Width characters.
func Lines(p frame.Processed) []string {
	lines := make([]string, p.Height)
	row := make([]byte, p.Width)
	for y := 0; y < p.Height; y++ {
		for x := 0; x < p.Width; x++ {
			row[x] = SymbolFor(p.At(x, y))
		}
		lines[y] = string(row)
	}
	return lines
}

// Render renders p as a single newline-separated text block without a
// trailing newline.
func Render(p frame.Processed) string {
	return strings.Join(Lines(p), "\n")
}
