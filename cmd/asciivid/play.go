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

package main

import (
	"iter"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/boriwo/asciivid/internal/audio"
	"github.com/boriwo/asciivid/internal/cache"
	"github.com/boriwo/asciivid/internal/config"
	"github.com/boriwo/asciivid/internal/frame"
	"github.com/boriwo/asciivid/internal/logging"
	"github.com/boriwo/asciivid/internal/pipeline"
	"github.com/boriwo/asciivid/internal/player"
	"github.com/boriwo/asciivid/internal/terminal"
)

type playFlags struct {
	conversionFlags
	audio  string
	cache  string
	stream bool
}

// playback is everything the player needs once the frames are ready or
// being produced.
type playback struct {
	frames iter.Seq[frame.Processed]
	count  int
	fps    float64
	// finish reports conversion errors that surface only after the last
	// frame was shown (streaming mode).
	finish func() error
}

func newPlayCommand(ctx *commandContext) *cobra.Command {
	var flags playFlags

	cmd := &cobra.Command{
		Use:   "play [file]",
		Short: "Convert a video and play it as ASCII art",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("audio") {
				cfg.Audio.File = flags.audio
			}
			if cmd.Flags().Changed("stream") {
				cfg.Pipeline.Streaming = flags.stream
			}
			if err := flags.apply(cmd, cfg); err != nil {
				return err
			}
			logger, err := ctx.logger(cmd, cfg)
			if err != nil {
				return err
			}

			// The soundtrack is checked before any frame is decoded.
			var soundtrack time.Duration
			if cfg.Audio.File != "" {
				if soundtrack, err = audio.Measure(cfg.Audio.File); err != nil {
					return err
				}
			}

			pb, cleanup, err := prepare(cmd, args, &flags, cfg, logger)
			if err != nil {
				return err
			}
			defer cleanup()
			return run(cmd, pb, cfg, soundtrack, logger)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&flags.audio, "audio", "a", "", "Soundtrack to play alongside (mp3, wav, flac, ogg)")
	cmd.Flags().StringVar(&flags.cache, "cache", "", "Play a cache file written by convert instead of decoding")
	cmd.Flags().BoolVar(&flags.stream, "stream", false, "Start playing while frames are still being converted")
	return cmd
}

// prepare loads a cache file, or opens the source and converts it either
// completely (batch) or in the background (streaming).
func prepare(cmd *cobra.Command, args []string, flags *playFlags, cfg *config.Config, logger *slog.Logger) (playback, func(), error) {
	noop := func() {}
	cachePath := strings.TrimSpace(flags.cache)
	if cachePath == "" && flags.file == "" && len(args) == 1 && isCacheFile(args[0]) {
		cachePath = args[0]
	}
	if cachePath != "" {
		v, err := cache.Load(cachePath)
		if err != nil {
			return playback{}, noop, err
		}
		logger.Info("cache loaded", "path", cachePath, "frames", len(v.Frames), "target", v.Size.String())
		return playback{frames: slices.Values(v.Frames), count: len(v.Frames), fps: cfg.FrameRate(v.FPS)}, noop, nil
	}

	path, err := flags.input(args)
	if err != nil {
		return playback{}, noop, err
	}
	src, err := openSource(path, cfg.Playback.FPS)
	if err != nil {
		return playback{}, noop, err
	}
	cleanup := func() { src.Close() }

	target, err := cfg.Target(terminal.Width(cmd.OutOrStdout(), config.FallbackWidth))
	if err != nil {
		cleanup()
		return playback{}, noop, err
	}
	info := src.Info()
	logger.Info("source opened",
		"path", path,
		"kind", info.Kind,
		"size", info.Size.String(),
		"fps", info.FPS,
		"duration", info.Duration,
		"target", target.String(),
	)

	if !cfg.Pipeline.Streaming {
		v, err := materialize(cmd.ErrOrStderr(), src, cfg, target, logger)
		if err != nil {
			cleanup()
			return playback{}, noop, err
		}
		return playback{frames: slices.Values(v.Frames), count: len(v.Frames), fps: v.FPS}, cleanup, nil
	}

	stream, err := pipeline.Start(src, pipelineOptions(cfg, target, logger))
	if err != nil {
		cleanup()
		return playback{}, noop, err
	}
	// Workers keep reading src until the stream is drained, so the source
	// is only closed after Wait. An aborted playback leaves it to exit.
	finished := false
	finish := func() error {
		res, err := stream.Wait()
		finished = true
		if err != nil {
			return err
		}
		return checkTruncation(res.Truncated, int(stream.Released()), cfg, logger)
	}
	streamCleanup := func() {
		if finished {
			src.Close()
		}
	}
	return playback{frames: stream.Frames(), count: info.EstimatedFrames(), fps: cfg.FrameRate(info.FPS), finish: finish}, streamCleanup, nil
}

// run plays the frames and, when configured, the soundtrack of the given
// length. An audio failure stops the video.
func run(cmd *cobra.Command, pb playback, cfg *config.Config, soundtrack time.Duration, logger *slog.Logger) error {
	duration := time.Duration(pb.count) * frame.Interval(pb.fps)

	var (
		coord *audio.Coordinator
		abort <-chan error
	)
	if cfg.Audio.File != "" {
		drift := player.CheckDrift(pb.count, pb.fps, soundtrack)
		if drift.Exceeded() {
			logger.Warn("video outlasts the soundtrack",
				"video", drift.Video,
				"audio", drift.Audio,
				"delta", drift.Delta(),
			)
		} else {
			logger.Debug("audio length", "video", drift.Video, "audio", drift.Audio)
		}
		coord = audio.NewCoordinator(audio.Options{
			Buffer: cfg.AudioBuffer(),
			Logger: logging.NewComponentLogger(logger, "audio"),
		})
		coord.Start(cfg.Audio.File, duration)
		abort = coord.Errors()
	}

	p := player.New(cmd.OutOrStdout(), player.Options{
		FPS:    pb.fps,
		Abort:  abort,
		Logger: logging.NewComponentLogger(logger, "player"),
	})
	played, err := p.Play(pb.frames)
	if err != nil {
		return err
	}
	if pb.finish != nil {
		if err := pb.finish(); err != nil {
			return err
		}
	}
	if coord != nil {
		if err := coord.Wait(); err != nil {
			return err
		}
	}
	logger.Info("playback finished", "frames", played, "fps", pb.fps)
	return nil
}
