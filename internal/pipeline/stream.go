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
	"fmt"
	"iter"
	"sync"

	"github.com/boriwo/asciivid/internal/failure"
	"github.com/boriwo/asciivid/internal/frame"
	"github.com/boriwo/asciivid/internal/source"
)

// Stream is a pipeline whose frames are consumed while conversion is still
// running. Pull workers push into a bounded channel and a reorder buffer
// keyed on sequence number releases frames strictly in order.
type Stream struct {
	out      chan frame.Processed
	done     chan struct{}
	seq      *Sequencer
	err      error
	released uint64
}

// Start launches the workers and the reorder stage. The caller must read
// Frames to completion (or break out of it) and then call Wait.
func Start(src source.Source, opts Options) (*Stream, error) {
	opts, err := opts.normalized()
	if err != nil {
		return nil, err
	}
	s := &Stream{
		out:  make(chan frame.Processed, opts.Buffer),
		done: make(chan struct{}),
		seq:  NewSequencer(src),
	}
	results := make(chan frame.Processed, opts.Buffer)

	var workErr error
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		workErr = runPull(s.seq, opts, func(p frame.Processed) { results <- p })
		close(results)
	}()

	go func() {
		defer close(s.done)
		defer close(s.out)
		pending := make(map[uint64]frame.Processed)
		var next uint64
		for p := range results {
			pending[p.Seq] = p
			for {
				q, ok := pending[next]
				if !ok {
					break
				}
				delete(pending, next)
				s.out <- q
				next++
			}
		}
		wg.Wait()
		s.released = next
		switch {
		case workErr != nil:
			s.err = workErr
		case len(pending) > 0:
			s.err = failure.Wrap(failure.ErrConversionInvariant, "reorder",
				fmt.Sprintf("%d frames held back waiting for sequence %d", len(pending), next), nil)
		}
	}()
	return s, nil
}

// Frames yields processed frames in sequence order. Breaking out early lets
// the remaining frames drain in the background.
func (s *Stream) Frames() iter.Seq[frame.Processed] {
	return func(yield func(frame.Processed) bool) {
		for p := range s.out {
			if !yield(p) {
				go func() {
					for range s.out {
					}
				}()
				return
			}
		}
	}
}

// Wait blocks until every worker has exited. Result.Frames is always empty
// because the frames were already yielded; Result.Truncated carries the
// decode failure that ended the source early, if any.
func (s *Stream) Wait() (Result, error) {
	<-s.done
	if s.err != nil {
		return Result{}, s.err
	}
	return Result{Truncated: s.seq.Err()}, nil
}

// Released returns how many frames left the reorder buffer. Valid after Wait.
func (s *Stream) Released() uint64 {
	<-s.done
	return s.released
}
