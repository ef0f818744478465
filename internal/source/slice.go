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
	"io"
	"time"

	"github.com/boriwo/asciivid/internal/frame"
)

// Slice replays frames held in memory. It is mostly useful for tests and for
// synthetic clips.
type Slice struct {
	frames []frame.Raw
	pos    int
	fps    float64
	tail   error
}

// NewSlice returns a source over frames played at fps.
func NewSlice(fps float64, frames ...frame.Raw) *Slice {
	return &Slice{frames: frames, fps: fps, tail: io.EOF}
}

// FailAfter makes the source return err instead of io.EOF once the frames
// run out.
func (s *Slice) FailAfter(err error) *Slice {
	s.tail = err
	return s
}

func (s *Slice) Next() (frame.Raw, error) {
	if s.pos >= len(s.frames) {
		return frame.Raw{}, s.tail
	}
	f := s.frames[s.pos]
	s.pos++
	return f, nil
}

func (s *Slice) Info() Info {
	info := Info{Kind: "memory", FPS: s.fps, FrameCount: len(s.frames)}
	if len(s.frames) > 0 {
		info.Size = frame.Size{Width: s.frames[0].Width, Height: s.frames[0].Height}
	}
	if s.fps > 0 {
		info.Duration = time.Duration(float64(len(s.frames)) / s.fps * float64(time.Second))
	}
	return info
}

func (s *Slice) Close() error {
	return nil
}
