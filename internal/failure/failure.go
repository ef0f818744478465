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

// Package failure classifies the fatal and non-fatal error kinds raised while
// decoding, converting and playing a video.
package failure

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMissingResource     = errors.New("missing resource")
	ErrInitialization      = errors.New("initialization failure")
	ErrDecode              = errors.New("decode failure")
	ErrConversionInvariant = errors.New("conversion invariant violation")
	ErrAudioPlayback       = errors.New("audio playback failure")
	ErrConfiguration       = errors.New("configuration error")
)

// Wrap builds an error tagged with kind so callers can classify it with
// errors.Is. The op and message parts are optional.
func Wrap(kind error, op, message string, err error) error {
	detail := buildDetail(op, message)
	if kind == nil {
		kind = ErrInitialization
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", kind, detail, err)
	}
	return fmt.Errorf("%w: %s", kind, detail)
}

// ExitCode maps an error to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrMissingResource):
		return 2
	case errors.Is(err, ErrInitialization):
		return 3
	case errors.Is(err, ErrConversionInvariant):
		return 4
	case errors.Is(err, ErrAudioPlayback):
		return 5
	case errors.Is(err, ErrConfiguration):
		return 6
	default:
		return 1
	}
}

func buildDetail(op, message string) string {
	parts := make([]string, 0, 2)
	if op = strings.TrimSpace(op); op != "" {
		parts = append(parts, op)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "unspecified"
	}
	return strings.Join(parts, ": ")
}
