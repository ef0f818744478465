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
	"strings"
	"testing"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/boriwo/asciivid/internal/frame"
)

func TestRampHasElevenSymbols(t *testing.T) {
	if len(Ramp) != 11 {
		t.Fatalf("expected 11 symbols, got %d", len(Ramp))
	}
}

func TestSymbolForEndpoints(t *testing.T) {
	if got := SymbolFor(0); got != Ramp[0] {
		t.Fatalf("SymbolFor(0) = %q, want %q", got, Ramp[0])
	}
	if got := SymbolFor(255); got != Ramp[len(Ramp)-1] {
		t.Fatalf("SymbolFor(255) = %q, want %q", got, Ramp[len(Ramp)-1])
	}
}

func TestSymbolForIsMonotonicAndTotal(t *testing.T) {
	prev := 0
	for v := 0; v <= 255; v++ {
		idx := strings.IndexByte(Ramp, SymbolFor(byte(v)))
		if idx < 0 {
			t.Fatalf("SymbolFor(%d) not in ramp", v)
		}
		if idx < prev {
			t.Fatalf("ramp index decreased at %d: %d < %d", v, idx, prev)
		}
		if want := v / BandWidth; want <= 10 && idx != want {
			t.Fatalf("SymbolFor(%d) index %d, want %d", v, idx, want)
		}
		prev = idx
	}
}

func TestIndexClamps(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{-1, 0},
		{0, 0},
		{24, 0},
		{25, 1},
		{249, 9},
		{250, 10},
		{255, 10},
		{275, 10},
		{1000, 10},
	}
	for _, tt := range tests {
		if got := Index(tt.in); got != tt.want {
			t.Errorf("Index(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestRender(t *testing.T) {
	p := frame.Processed{Pix: []byte{0, 30, 60, 255, 250, 125}, Width: 3, Height: 2}
	want := "@#S\n  *"
	if got := Render(p); got != want {
		t.Fatalf("Render = %q, want %q", got, want)
	}
	lines := Lines(p)
	if len(lines) != 2 || lines[0] != "@#S" || lines[1] != "  *" {
		t.Fatalf("Lines = %q", lines)
	}
}

func TestRenderEmptyFrame(t *testing.T) {
	if got := Render(frame.Processed{}); got != "" {
		t.Fatalf("expected empty render, got %q", got)
	}
}

func TestCalibrateWithGoFont(t *testing.T) {
	font, err := ParseFont(goregular.TTF)
	if err != nil {
		t.Fatalf("ParseFont: %v", err)
	}
	glyphs, err := Calibrate(font, Ramp)
	if err != nil {
		t.Fatalf("Calibrate: %v", err)
	}
	if len(glyphs) != len(Ramp) {
		t.Fatalf("expected %d glyphs, got %d", len(Ramp), len(glyphs))
	}
	at := func(r rune) float64 {
		for _, g := range glyphs {
			if g.Symbol == r {
				return g.Coverage
			}
		}
		t.Fatalf("symbol %q missing", r)
		return 0
	}
	if at(' ') != 0 {
		t.Fatalf("expected blank coverage 0, got %v", at(' '))
	}
	if !(at('@') > at(':') && at(':') > at(' ')) {
		t.Fatalf("unexpected coverage order @=%v :=%v", at('@'), at(':'))
	}
}

func TestParseFontRejectsGarbage(t *testing.T) {
	if _, err := ParseFont([]byte("nope")); err == nil {
		t.Fatal("expected error")
	}
}

func TestCheckOrder(t *testing.T) {
	ordered := []Glyph{{'@', 0.5}, {'#', 0.4}, {' ', 0}}
	if got := CheckOrder(ordered); got != -1 {
		t.Fatalf("expected ordered ramp, got %d", got)
	}
	unordered := []Glyph{{'@', 0.5}, {'#', 0.2}, {'S', 0.3}}
	if got := CheckOrder(unordered); got != 2 {
		t.Fatalf("expected violation at 2, got %d", got)
	}
}
