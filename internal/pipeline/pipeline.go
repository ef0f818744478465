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

// Package pipeline converts every frame of a source with a fixed pool of
// workers and returns the results in the order the source produced them.
//
// Two strategies are available. Pull workers share one live decoder through
// a Sequencer and fetch one frame at a time. Partition decodes the whole
// source first and hands each worker a contiguous chunk. Either way the pool
// is joined before results are touched, and nothing is cancelled early.
package pipeline

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/boriwo/asciivid/internal/failure"
	"github.com/boriwo/asciivid/internal/frame"
	"github.com/boriwo/asciivid/internal/logging"
	"github.com/boriwo/asciivid/internal/source"
)

// Strategy selects how workers obtain raw frames.
type Strategy string

const (
	Pull      Strategy = "pull"
	Partition Strategy = "partition"
)

// Options configures a pipeline run.
type Options struct {
	Workers  int
	Target   frame.Size
	Strategy Strategy
	// Buffer is the channel capacity used by Start.
	Buffer int
	// Progress, when set, is called once per converted frame from worker
	// goroutines.
	Progress func()
	Logger   *slog.Logger
}

func (o Options) normalized() (Options, error) {
	if o.Workers < 1 {
		return o, failure.Wrap(failure.ErrConfiguration, "pipeline", fmt.Sprintf("worker count %d < 1", o.Workers), nil)
	}
	if !o.Target.Valid() {
		return o, failure.Wrap(failure.ErrConfiguration, "pipeline", fmt.Sprintf("invalid target %s", o.Target), nil)
	}
	switch o.Strategy {
	case "":
		o.Strategy = Pull
	case Pull, Partition:
	default:
		return o, failure.Wrap(failure.ErrConfiguration, "pipeline", fmt.Sprintf("unknown strategy %q", o.Strategy), nil)
	}
	if o.Buffer < 1 {
		o.Buffer = o.Workers * 2
	}
	if o.Progress == nil {
		o.Progress = func() {}
	}
	if o.Logger == nil {
		o.Logger = logging.NewNop()
	}
	return o, nil
}

// Result is the ordered output of a run.
type Result struct {
	Frames []frame.Processed
	// Truncated is set when a decode failure ended the source before its
	// natural end. Frames still holds everything decoded up to that point.
	Truncated error
}

// Run converts every frame of src and returns them sorted by sequence
// number. Any conversion failure discards all results.
func Run(src source.Source, opts Options) (Result, error) {
	opts, err := opts.normalized()
	if err != nil {
		return Result{}, err
	}
	start := time.Now()
	collector := NewCollector(src.Info().EstimatedFrames())

	seq := NewSequencer(src)
	if opts.Strategy == Partition {
		err = runPartition(seq, src.Info().EstimatedFrames(), opts, collector.Append)
	} else {
		err = runPull(seq, opts, collector.Append)
	}
	if err != nil {
		return Result{}, err
	}

	frames, err := collector.Sorted()
	if err != nil {
		return Result{}, err
	}
	opts.Logger.Debug("pipeline finished",
		"strategy", string(opts.Strategy),
		"workers", opts.Workers,
		"frames", len(frames),
		"elapsed", time.Since(start),
	)
	return Result{Frames: frames, Truncated: seq.Err()}, nil
}

// runPull starts opts.Workers goroutines that fetch through seq until it is
// exhausted, and blocks until all of them have exited.
func runPull(seq *Sequencer, opts Options, emit func(frame.Processed)) error {
	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)
	for w := 0; w < opts.Workers; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			converted := 0
			for {
				raw, ok := seq.FetchAndTag()
				if !ok {
					break
				}
				p, err := frame.Transform(raw, opts.Target)
				if err != nil {
					errOnce.Do(func() { firstErr = err })
					return
				}
				emit(p)
				opts.Progress()
				converted++
			}
			opts.Logger.Debug("worker done", "worker", id, "frames", converted)
		}(w)
	}
	wg.Wait()
	return firstErr
}

// runPartition decodes everything seq yields on the calling goroutine, then
// splits the frames into contiguous chunks, one per worker. Each worker tags
// its results with chunk start plus local offset.
func runPartition(seq *Sequencer, hint int, opts Options, emit func(frame.Processed)) error {
	raws := make([]frame.Raw, 0, hint)
	for {
		raw, ok := seq.FetchAndTag()
		if !ok {
			break
		}
		raws = append(raws, raw)
	}

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)
	for _, c := range chunks(len(raws), opts.Workers) {
		wg.Add(1)
		go func(c chunk) {
			defer wg.Done()
			for offset := 0; offset < c.end-c.start; offset++ {
				i := c.start + offset
				raw := raws[i]
				raws[i] = frame.Raw{}
				raw.Seq = uint64(c.start + offset)
				p, err := frame.Transform(raw, opts.Target)
				if err != nil {
					errOnce.Do(func() { firstErr = err })
					return
				}
				emit(p)
				opts.Progress()
			}
		}(c)
	}
	wg.Wait()
	return firstErr
}

type chunk struct {
	start, end int
}

// chunks splits n items into at most workers contiguous ranges whose sizes
// differ by at most one.
func chunks(n, workers int) []chunk {
	if n == 0 || workers < 1 {
		return nil
	}
	if workers > n {
		workers = n
	}
	out := make([]chunk, 0, workers)
	size, extra := n/workers, n%workers
	start := 0
	for w := 0; w < workers; w++ {
		end := start + size
		if w < extra {
			end++
		}
		out = append(out, chunk{start: start, end: end})
		start = end
	}
	return out
}
