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

package player

import (
	"time"

	"github.com/boriwo/asciivid/internal/frame"
)

// Drift compares how long the pacing sleeps add up to with the audio length.
type Drift struct {
	Video     time.Duration
	Audio     time.Duration
	Tolerance time.Duration
}

// CheckDrift computes the drift for frames played at fps against audio.
func CheckDrift(frames int, fps float64, audio time.Duration) Drift {
	interval := frame.Interval(fps)
	return Drift{
		Video:     time.Duration(frames) * interval,
		Audio:     audio,
		Tolerance: interval,
	}
}

// Delta is Video minus Audio.
func (d Drift) Delta() time.Duration {
	return d.Video - d.Audio
}

// Exceeded reports whether video playback outlasts the audio by more than
// one frame interval. Unknown audio length never counts as drift.
func (d Drift) Exceeded() bool {
	if d.Audio <= 0 {
		return false
	}
	return d.Delta() > d.Tolerance
}
