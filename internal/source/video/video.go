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

// Package video decodes the first video stream of a media file with reisen
// (FFmpeg) and exposes it as a frame source.
package video

import (
	"errors"
	"io"
	"io/fs"
	"os"

	"github.com/zergon321/reisen"

	"github.com/boriwo/asciivid/internal/failure"
	"github.com/boriwo/asciivid/internal/frame"
	"github.com/boriwo/asciivid/internal/source"
)

// Source reads decoded frames in presentation order.
type Source struct {
	media  *reisen.Media
	stream *reisen.VideoStream
	info   source.Info
	done   bool
}

// Open prepares path for sequential decoding. A missing file yields
// failure.ErrMissingResource, a file FFmpeg cannot open yields
// failure.ErrInitialization.
func Open(path string) (*Source, error) {
	media, info, err := openMedia(path)
	if err != nil {
		return nil, err
	}
	stream := media.VideoStreams()[0]

	if err := media.OpenDecode(); err != nil {
		media.Close()
		return nil, failure.Wrap(failure.ErrInitialization, "open decode", path, err)
	}
	if err := stream.Open(); err != nil {
		media.CloseDecode()
		media.Close()
		return nil, failure.Wrap(failure.ErrInitialization, "open video stream", path, err)
	}
	return &Source{media: media, stream: stream, info: info}, nil
}

// Probe reads container metadata without decoding frames.
func Probe(path string) (source.Info, error) {
	media, info, err := openMedia(path)
	if err != nil {
		return source.Info{}, err
	}
	media.Close()
	return info, nil
}

func openMedia(path string) (*reisen.Media, source.Info, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, source.Info{}, failure.Wrap(failure.ErrMissingResource, "video", path, err)
		}
		return nil, source.Info{}, failure.Wrap(failure.ErrInitialization, "video", path, err)
	}
	media, err := reisen.NewMedia(path)
	if err != nil {
		return nil, source.Info{}, failure.Wrap(failure.ErrInitialization, "open media", path, err)
	}
	streams := media.VideoStreams()
	if len(streams) == 0 {
		media.Close()
		return nil, source.Info{}, failure.Wrap(failure.ErrInitialization, "open media", path+" has no video stream", nil)
	}
	stream := streams[0]

	info := source.Info{
		Kind:         "video",
		Size:         frame.Size{Width: stream.Width(), Height: stream.Height()},
		AudioStreams: len(media.AudioStreams()),
		Format:       media.FormatName(),
	}
	if num, den := stream.FrameRate(); num > 0 && den > 0 {
		info.FPS = float64(num) / float64(den)
	}
	if d, err := media.Duration(); err == nil {
		info.Duration = d
	}
	if info.Duration <= 0 {
		if d, err := stream.Duration(); err == nil {
			info.Duration = d
		}
	}
	return media, info, nil
}

// Next decodes packets until the next video frame is available. Packets of
// other streams are skipped.
func (s *Source) Next() (frame.Raw, error) {
	if s.done {
		return frame.Raw{}, io.EOF
	}
	for {
		packet, gotPacket, err := s.media.ReadPacket()
		if err != nil {
			s.done = true
			return frame.Raw{}, failure.Wrap(failure.ErrDecode, "read packet", "", err)
		}
		if !gotPacket {
			s.done = true
			return frame.Raw{}, io.EOF
		}
		if packet.Type() != reisen.StreamVideo || packet.StreamIndex() != s.stream.Index() {
			continue
		}
		videoFrame, gotFrame, err := s.stream.ReadVideoFrame()
		if err != nil {
			s.done = true
			return frame.Raw{}, failure.Wrap(failure.ErrDecode, "read video frame", "", err)
		}
		if !gotFrame || videoFrame == nil {
			continue
		}
		return frame.FromImage(videoFrame.Image()), nil
	}
}

func (s *Source) Info() source.Info {
	return s.info
}

// Close releases the decoder. It is safe to call more than once.
func (s *Source) Close() error {
	if s.media == nil {
		return nil
	}
	err := s.stream.Close()
	if cerr := s.media.CloseDecode(); err == nil {
		err = cerr
	}
	s.media.Close()
	s.media = nil
	return err
}

