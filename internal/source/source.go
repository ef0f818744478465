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

// Package source yields raw frames from a video decoder, a directory of
// numbered still images, or memory.
//
// A Source is a single sequential stream and is not safe for concurrent use;
// callers that share one between goroutines must serialize access (see the
// pipeline Sequencer). Next returns io.EOF at the end of the stream and an
// error wrapping failure.ErrDecode when a frame cannot be decoded.
package source

import (
	"time"

	"github.com/boriwo/asciivid/internal/frame"
)

// Source produces raw frames in presentation order.
type Source interface {
	Next() (frame.Raw, error)
	Info() Info
	Close() error
}

// Info is the metadata known about a source before decoding starts.
type Info struct {
	Kind         string
	FPS          float64
	Duration     time.Duration
	Size         frame.Size
	FrameCount   int // 0 when unknown
	AudioStreams int
	Format       string
}

// EstimatedFrames returns FrameCount, or FPS*Duration when the count is unknown.
func (i Info) EstimatedFrames() int {
	if i.FrameCount > 0 {
		return i.FrameCount
	}
	if i.FPS <= 0 || i.Duration <= 0 {
		return 0
	}
	return int(i.FPS*i.Duration.Seconds() + 0.5)
}
