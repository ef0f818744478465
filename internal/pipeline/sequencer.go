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

package pipeline

import (
	"errors"
	"io"
	"sync"

	"github.com/boriwo/asciivid/internal/frame"
	"github.com/boriwo/asciivid/internal/source"
)

// Sequencer owns a source together with the frame counter. Reading a frame
// and numbering it happen under one lock, so sequence number N always labels
// the Nth frame the source emitted, whatever the number of callers.
type Sequencer struct {
	mu   sync.Mutex
	src  source.Source
	next uint64
	done bool
	err  error
}

// NewSequencer takes ownership of src. Nothing else may call src.Next.
func NewSequencer(src source.Source) *Sequencer {
	return &Sequencer{src: src}
}

// FetchAndTag returns the next frame stamped with its sequence number, or
// false once the source is exhausted. A decode failure ends the stream like
// io.EOF does; it is kept and reported by Err.
func (s *Sequencer) FetchAndTag() (frame.Raw, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		return frame.Raw{}, false
	}
	raw, err := s.src.Next()
	if err != nil {
		s.done = true
		if !errors.Is(err, io.EOF) {
			s.err = err
		}
		return frame.Raw{}, false
	}
	raw.Seq = s.next
	s.next++
	return raw, true
}

// Count returns how many frames have been handed out.
func (s *Sequencer) Count() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next
}

// Err returns the decode error that ended the stream, if any.
func (s *Sequencer) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
