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

package failure

import (
	"errors"
	"io"
	"strings"
	"testing"
)

func TestWrapKeepsKindAndCause(t *testing.T) {
	err := Wrap(ErrDecode, "video", "frame 12", io.ErrUnexpectedEOF)
	if !errors.Is(err, ErrDecode) {
		t.Fatalf("expected ErrDecode in chain, got %v", err)
	}
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("expected cause in chain, got %v", err)
	}
	if got := err.Error(); !strings.Contains(got, "video: frame 12") {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestWrapWithoutDetail(t *testing.T) {
	err := Wrap(ErrMissingResource, " ", "", nil)
	if err.Error() != "missing resource: unspecified" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, 0},
		{Wrap(ErrMissingResource, "open", "", nil), 2},
		{Wrap(ErrInitialization, "decoder", "", nil), 3},
		{Wrap(ErrConversionInvariant, "transform", "", nil), 4},
		{Wrap(ErrAudioPlayback, "speaker", "", nil), 5},
		{Wrap(ErrConfiguration, "config", "", nil), 6},
		{errors.New("boom"), 1},
	}
	for _, tt := range tests {
		if got := ExitCode(tt.err); got != tt.want {
			t.Errorf("ExitCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
