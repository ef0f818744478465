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

package player_test

import (
	"bytes"
	"errors"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/boriwo/asciivid/internal/frame"
	"github.com/boriwo/asciivid/internal/pipeline"
	"github.com/boriwo/asciivid/internal/player"
	"github.com/boriwo/asciivid/internal/source"
	"github.com/boriwo/asciivid/internal/terminal"
)

type recordingSleeper struct {
	calls []time.Duration
}

func (r *recordingSleeper) Sleep(d time.Duration) {
	r.calls = append(r.calls, d)
}

func uniform(v byte) frame.Raw {
	return frame.Raw{Pix: bytes.Repeat([]byte{v}, 4), Width: 2, Height: 2, Channels: 1}
}

// scenarioSource is four 2x2 frames of uniform intensity 0, 125, 250, 255.
func scenarioSource() source.Source {
	return source.NewSlice(10, uniform(0), uniform(125), uniform(250), uniform(255))
}

const scenarioOutput = terminal.ClearHome + "@@\n@@\n" +
	terminal.ClearHome + "**\n**\n" +
	terminal.ClearHome + "  \n  \n" +
	terminal.ClearHome + "  \n  \n"

func TestPlayZeroFrames(t *testing.T) {
	var out bytes.Buffer
	sleeper := &recordingSleeper{}
	p := player.New(&out, player.Options{FPS: 30, Sleep: sleeper.Sleep})
	n, err := p.Play(slices.Values([]frame.Processed(nil)))
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	if n != 0 || out.Len() != 0 || len(sleeper.calls) != 0 {
		t.Fatalf("expected no output, got n=%d out=%q sleeps=%d", n, out.String(), len(sleeper.calls))
	}
}

func TestPlayPacesEveryFrame(t *testing.T) {
	frames := []frame.Processed{
		{Pix: []byte{0}, Width: 1, Height: 1, Seq: 0},
		{Pix: []byte{100}, Width: 1, Height: 1, Seq: 1},
		{Pix: []byte{255}, Width: 1, Height: 1, Seq: 2},
	}
	var out bytes.Buffer
	sleeper := &recordingSleeper{}
	p := player.New(&out, player.Options{FPS: 25, Sleep: sleeper.Sleep})
	n, err := p.Play(slices.Values(frames))
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	if n != 3 || p.FramesPlayed() != 3 {
		t.Fatalf("expected 3 frames, got %d", n)
	}
	if got := strings.Count(out.String(), terminal.ClearHome); got != 3 {
		t.Fatalf("expected 3 clears, got %d", got)
	}
	want := terminal.ClearHome + "@\n" + terminal.ClearHome + "?\n" + terminal.ClearHome + " \n"
	if out.String() != want {
		t.Fatalf("output %q, want %q", out.String(), want)
	}
	if len(sleeper.calls) != 3 {
		t.Fatalf("expected 3 sleeps, got %d", len(sleeper.calls))
	}
	for _, d := range sleeper.calls {
		if d != 40*time.Millisecond {
			t.Fatalf("unexpected pacing %v", d)
		}
	}
}

func TestPlayStopsOnAbort(t *testing.T) {
	abort := make(chan error, 1)
	boom := errors.New("audio device lost")
	frames := []frame.Processed{{Pix: []byte{0}, Width: 1, Height: 1}, {Pix: []byte{0}, Width: 1, Height: 1, Seq: 1}}

	var out bytes.Buffer
	p := player.New(&out, player.Options{FPS: 30, Abort: abort, Sleep: func(time.Duration) {
		abort <- boom
	}})
	n, err := p.Play(slices.Values(frames))
	if !errors.Is(err, boom) {
		t.Fatalf("expected abort error, got %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 frame before abort, got %d", n)
	}
}

func TestPlayIgnoresClosedAbort(t *testing.T) {
	abort := make(chan error)
	close(abort)
	var out bytes.Buffer
	p := player.New(&out, player.Options{FPS: 30, Abort: abort, Sleep: func(time.Duration) {}})
	n, err := p.Play(slices.Values([]frame.Processed{{Pix: []byte{0}, Width: 1, Height: 1}}))
	if err != nil || n != 1 {
		t.Fatalf("expected clean playback, got n=%d err=%v", n, err)
	}
}

func TestScenarioBatchIsReproducible(t *testing.T) {
	for run := 0; run < 20; run++ {
		res, err := pipeline.Run(scenarioSource(), pipeline.Options{Workers: 2, Target: frame.Size{Width: 2, Height: 2}})
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		for i, f := range res.Frames {
			if f.Seq != uint64(i) {
				t.Fatalf("run %d: frame %d has sequence %d", run, i, f.Seq)
			}
		}
		var out bytes.Buffer
		p := player.New(&out, player.Options{FPS: 10, Sleep: func(time.Duration) {}})
		if _, err := p.Play(slices.Values(res.Frames)); err != nil {
			t.Fatalf("Play: %v", err)
		}
		if out.String() != scenarioOutput {
			t.Fatalf("run %d: output %q, want %q", run, out.String(), scenarioOutput)
		}
	}
}

func TestScenarioStreamingMatchesBatch(t *testing.T) {
	for run := 0; run < 20; run++ {
		stream, err := pipeline.Start(scenarioSource(), pipeline.Options{Workers: 2, Target: frame.Size{Width: 2, Height: 2}, Buffer: 1})
		if err != nil {
			t.Fatalf("Start: %v", err)
		}
		var out bytes.Buffer
		p := player.New(&out, player.Options{FPS: 10, Sleep: func(time.Duration) {}})
		n, err := p.Play(stream.Frames())
		if err != nil {
			t.Fatalf("Play: %v", err)
		}
		if _, err := stream.Wait(); err != nil {
			t.Fatalf("Wait: %v", err)
		}
		if n != 4 || out.String() != scenarioOutput {
			t.Fatalf("run %d: n=%d output %q", run, n, out.String())
		}
	}
}

func TestCheckDrift(t *testing.T) {
	d := player.CheckDrift(300, 30, 10*time.Second)
	if d.Exceeded() {
		t.Fatalf("expected no drift, delta %v", d.Delta())
	}

	d = player.CheckDrift(310, 30, 10*time.Second)
	if !d.Exceeded() {
		t.Fatalf("expected drift warning, delta %v tolerance %v", d.Delta(), d.Tolerance)
	}
	t.Logf("drift warning: video %v audio %v", d.Video, d.Audio)

	if player.CheckDrift(100, 30, 0).Exceeded() {
		t.Fatal("unknown audio length must not count as drift")
	}
}

func TestScenarioDriftIsSoft(t *testing.T) {
	// 4 frames at 10 fps against a 0.4s audio track
	d := player.CheckDrift(4, 10, 400*time.Millisecond)
	if d.Exceeded() {
		t.Logf("drift warning: video %v exceeds audio %v by more than %v", d.Video, d.Audio, d.Tolerance)
	}
}
