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
	"sort"
	"sync"

	"github.com/boriwo/asciivid/internal/failure"
	"github.com/boriwo/asciivid/internal/frame"
)

// Collector gathers processed frames in completion order. Its lock is
// separate from the Sequencer lock so appends never wait on decoding.
type Collector struct {
	mu     sync.Mutex
	frames []frame.Processed
}

func NewCollector(hint int) *Collector {
	if hint < 0 {
		hint = 0
	}
	return &Collector{frames: make([]frame.Processed, 0, hint)}
}

func (c *Collector) Append(p frame.Processed) {
	c.mu.Lock()
	c.frames = append(c.frames, p)
	c.mu.Unlock()
}

// Sorted hands over the collected frames ordered by sequence number and
// checks they are numbered 0..N-1. Call it only after every writer is done;
// the collector is empty afterwards.
func (c *Collector) Sorted() ([]frame.Processed, error) {
	c.mu.Lock()
	frames := c.frames
	c.frames = nil
	c.mu.Unlock()

	sort.Slice(frames, func(i, j int) bool { return frames[i].Seq < frames[j].Seq })
	for i, p := range frames {
		if p.Seq != uint64(i) {
			return nil, failure.Wrap(failure.ErrConversionInvariant, "collect",
				fmt.Sprintf("frame at position %d has sequence %d", i, p.Seq), nil)
		}
	}
	return frames, nil
}
