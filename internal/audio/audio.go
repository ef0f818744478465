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

// Package audio plays a soundtrack on its own goroutine for a fixed amount of
// time. Any failure is fatal for the caller; there is no silent fallback.
package audio

import (
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"

	"github.com/boriwo/asciivid/internal/failure"
	"github.com/boriwo/asciivid/internal/logging"
)

const defaultBuffer = 100 * time.Millisecond

// Sink is an output device.
type Sink interface {
	Init(sampleRate beep.SampleRate, bufferSize int) error
	Play(s beep.Streamer)
	Clear()
}

// Speaker is the system audio device.
type Speaker struct{}

func (Speaker) Init(sampleRate beep.SampleRate, bufferSize int) error {
	return speaker.Init(sampleRate, bufferSize)
}

func (Speaker) Play(s beep.Streamer) {
	speaker.Play(s)
}

func (Speaker) Clear() {
	speaker.Clear()
}

// Options configures a Coordinator.
type Options struct {
	Sink Sink
	// Buffer is the device buffer length.
	Buffer time.Duration
	// Sleep blocks for the playback duration; time.Sleep when nil.
	Sleep func(time.Duration)
	// Open decodes the soundtrack; the package level Open when nil.
	Open   func(path string) (beep.StreamSeekCloser, beep.Format, error)
	Logger *slog.Logger
}

// Coordinator runs one audio playback.
type Coordinator struct {
	sink    Sink
	buffer  time.Duration
	sleep   func(time.Duration)
	open    func(string) (beep.StreamSeekCloser, beep.Format, error)
	logger  *slog.Logger
	errs    chan error
	done    chan struct{}
	err     error
	samples atomic.Int64
}

func NewCoordinator(opts Options) *Coordinator {
	c := &Coordinator{
		sink:   opts.Sink,
		buffer: opts.Buffer,
		sleep:  opts.Sleep,
		open:   opts.Open,
		logger: opts.Logger,
		errs:   make(chan error, 1),
		done:   make(chan struct{}),
	}
	if c.sink == nil {
		c.sink = Speaker{}
	}
	if c.buffer <= 0 {
		c.buffer = defaultBuffer
	}
	if c.sleep == nil {
		c.sleep = time.Sleep
	}
	if c.open == nil {
		c.open = Open
	}
	if c.logger == nil {
		c.logger = logging.NewNop()
	}
	return c
}

// Start opens path and plays it on a new goroutine, which returns after
// duration has elapsed or as soon as the decoder fails. Start must be
// called once.
func (c *Coordinator) Start(path string, duration time.Duration) {
	go func() {
		defer close(c.done)
		defer close(c.errs)
		if err := c.run(path, duration); err != nil {
			c.err = err
			c.errs <- err
		}
	}()
}

// Errors delivers the fatal error of the playback, if one happens, and is
// closed when the playback goroutine exits.
func (c *Coordinator) Errors() <-chan error {
	return c.errs
}

// Wait blocks until the playback goroutine has exited.
func (c *Coordinator) Wait() error {
	<-c.done
	return c.err
}

// SamplesPlayed returns how many samples the device has pulled so far.
func (c *Coordinator) SamplesPlayed() int64 {
	return c.samples.Load()
}

func (c *Coordinator) run(path string, duration time.Duration) error {
	stream, format, err := c.open(path)
	if err != nil {
		return err
	}
	defer stream.Close()

	if err := c.sink.Init(format.SampleRate, format.SampleRate.N(c.buffer)); err != nil {
		return failure.Wrap(failure.ErrAudioPlayback, "init speaker", fmt.Sprintf("%d Hz", format.SampleRate), err)
	}
	c.logger.Info("audio started",
		"path", path,
		"sample_rate", int(format.SampleRate),
		"channels", format.NumChannels,
		"length", format.SampleRate.D(stream.Len()),
		"duration", duration,
	)
	failed := make(chan error, 1)
	c.sink.Play(c.countSamples(stream, failed))

	elapsed := make(chan struct{})
	go func() {
		c.sleep(duration)
		close(elapsed)
	}()
	select {
	case <-elapsed:
	case err := <-failed:
		c.sink.Clear()
		c.logger.Error("audio decode failed", "samples", c.samples.Load(), "error", err)
		return failure.Wrap(failure.ErrAudioPlayback, "decode audio", path, err)
	}
	c.sink.Clear()

	if err := stream.Err(); err != nil {
		return failure.Wrap(failure.ErrAudioPlayback, "decode audio", path, err)
	}
	c.logger.Debug("audio finished", "samples", c.samples.Load())
	return nil
}

// countSamples wraps source so the number of samples handed to the device
// can be reported. A decoder error is sent on failed once, from the device
// goroutine.
func (c *Coordinator) countSamples(source beep.Streamer, failed chan<- error) beep.Streamer {
	var reported atomic.Bool
	return beep.StreamerFunc(func(samples [][2]float64) (n int, ok bool) {
		n, ok = source.Stream(samples)
		c.samples.Add(int64(n))
		if !ok {
			if err := source.Err(); err != nil && reported.CompareAndSwap(false, true) {
				failed <- err
			}
		}
		return n, ok
	})
}
