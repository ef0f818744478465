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

// Package player prints processed frames to a terminal at the source frame
// rate.
package player

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"time"

	"github.com/boriwo/asciivid/internal/ascii"
	"github.com/boriwo/asciivid/internal/frame"
	"github.com/boriwo/asciivid/internal/logging"
	"github.com/boriwo/asciivid/internal/terminal"
)

// Options configures a Player.
type Options struct {
	FPS float64
	// Sleep paces the loop; time.Sleep when nil.
	Sleep func(time.Duration)
	// Abort delivers fatal errors raised elsewhere (the audio goroutine).
	// It is polled before every frame.
	Abort  <-chan error
	Logger *slog.Logger
}

// Player draws frames one after another. Every frame is shown; there is no
// frame dropping, so slow terminals drift behind the audio.
type Player struct {
	out      *bufio.Writer
	interval time.Duration
	sleep    func(time.Duration)
	abort    <-chan error
	logger   *slog.Logger

	framesPlayed int
	started      time.Time
}

func New(w io.Writer, opts Options) *Player {
	p := &Player{
		out:      bufio.NewWriterSize(w, 64*1024),
		interval: frame.Interval(opts.FPS),
		sleep:    opts.Sleep,
		abort:    opts.Abort,
		logger:   opts.Logger,
	}
	if p.sleep == nil {
		p.sleep = time.Sleep
	}
	if p.logger == nil {
		p.logger = logging.NewNop()
	}
	return p
}

// Play clears the screen, prints each frame and sleeps one frame interval,
// until frames is exhausted or a fatal error arrives on Abort. It returns
// how many frames were shown.
func (p *Player) Play(frames iter.Seq[frame.Processed]) (int, error) {
	p.started = time.Now()
	for f := range frames {
		if err := p.checkAbort(); err != nil {
			return p.framesPlayed, err
		}
		if err := p.render(f); err != nil {
			return p.framesPlayed, err
		}
		p.framesPlayed++
		p.sleep(p.interval)
	}
	if err := p.checkAbort(); err != nil {
		return p.framesPlayed, err
	}
	p.logger.Debug("playback finished",
		"frames", p.framesPlayed,
		"elapsed", time.Since(p.started),
		"interval", p.interval,
	)
	return p.framesPlayed, nil
}

// FramesPlayed returns the number of frames shown so far.
func (p *Player) FramesPlayed() int {
	return p.framesPlayed
}

func (p *Player) render(f frame.Processed) error {
	p.out.WriteString(terminal.ClearHome)
	p.out.WriteString(ascii.Render(f))
	p.out.WriteByte('\n')
	if err := p.out.Flush(); err != nil {
		return fmt.Errorf("write frame %d: %w", f.Seq, err)
	}
	return nil
}

func (p *Player) checkAbort() error {
	select {
	case err, ok := <-p.abort:
		if ok && err != nil {
			return err
		}
	default:
	}
	return nil
}
