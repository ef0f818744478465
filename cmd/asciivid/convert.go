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
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/boriwo/asciivid/internal/cache"
	"github.com/boriwo/asciivid/internal/config"
	"github.com/boriwo/asciivid/internal/failure"
	"github.com/boriwo/asciivid/internal/frame"
	"github.com/boriwo/asciivid/internal/logging"
	"github.com/boriwo/asciivid/internal/pipeline"
	"github.com/boriwo/asciivid/internal/source"
	"github.com/boriwo/asciivid/internal/terminal"
)

// conversionFlags are the flags shared by play and convert. They override
// the config file only when given explicitly.
type conversionFlags struct {
	file     string
	threads  int
	width    int
	height   int
	fps      float64
	strategy string
	strict   bool
}

func (f *conversionFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&f.file, "file", "f", "", "Video file or directory of numbered images")
	flags.IntVarP(&f.threads, "threads", "t", 0, "Conversion goroutines (default: number of CPUs)")
	flags.IntVarP(&f.width, "width", "w", 0, "Output columns (0 = terminal width)")
	flags.IntVar(&f.height, "height", 0, "Output rows (0 = width/2)")
	flags.Float64Var(&f.fps, "fps", 0, "Frames per second (0 = source rate)")
	flags.StringVar(&f.strategy, "strategy", "", "Worker strategy: pull or partition")
	flags.BoolVar(&f.strict, "strict", false, "Fail when a frame cannot be decoded instead of truncating")
}

func (f *conversionFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("threads") {
		cfg.Pipeline.Workers = f.threads
	}
	if flags.Changed("width") {
		cfg.Playback.Width = f.width
	}
	if flags.Changed("height") {
		cfg.Playback.Height = f.height
	}
	if flags.Changed("fps") {
		cfg.Playback.FPS = f.fps
	}
	if flags.Changed("strategy") {
		cfg.Pipeline.Strategy = f.strategy
	}
	if flags.Changed("strict") {
		cfg.Pipeline.StrictDecode = f.strict
	}
	return revalidate(cfg)
}

// input returns --file, or the single positional argument.
func (f *conversionFlags) input(args []string) (string, error) {
	path := strings.TrimSpace(f.file)
	if path == "" && len(args) > 0 {
		path = strings.TrimSpace(args[0])
	}
	if path == "" {
		return "", failure.Wrap(failure.ErrConfiguration, "input", "no video given (use --file)", nil)
	}
	return path, nil
}

func newConvertCommand(ctx *commandContext) *cobra.Command {
	var flags conversionFlags
	var output string

	cmd := &cobra.Command{
		Use:   "convert [file]",
		Short: "Convert a video once and store the frames in a cache file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := flags.apply(cmd, cfg); err != nil {
				return err
			}
			logger, err := ctx.logger(cmd, cfg)
			if err != nil {
				return err
			}
			logger = logging.NewComponentLogger(logger, "convert")

			path, err := flags.input(args)
			if err != nil {
				return err
			}
			target := strings.TrimSpace(output)
			if target == "" {
				target = cachePath(path)
			}

			src, err := openSource(path, cfg.Playback.FPS)
			if err != nil {
				return err
			}
			defer src.Close()

			size, err := cfg.Target(terminal.Width(cmd.OutOrStdout(), config.FallbackWidth))
			if err != nil {
				return err
			}
			v, err := materialize(cmd.ErrOrStderr(), src, cfg, size, logger)
			if err != nil {
				return err
			}
			if err := cache.Save(target, v); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d frames (%s, %s) to %s\n",
				len(v.Frames), v.Size, humanize.Bytes(uint64(v.Footprint())), target)
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "Cache file to write (default: input name with "+cache.Ext+")")
	return cmd
}

func pipelineOptions(cfg *config.Config, target frame.Size, logger *slog.Logger) pipeline.Options {
	return pipeline.Options{
		Workers:  cfg.Pipeline.Workers,
		Target:   target,
		Strategy: pipeline.Strategy(cfg.Pipeline.Strategy),
		Buffer:   cfg.Pipeline.Buffer,
		Logger:   logging.NewComponentLogger(logger, "pipeline"),
	}
}

// materialize converts the whole source before returning. Progress is drawn
// on progress only when it is a terminal.
func materialize(progress io.Writer, src source.Source, cfg *config.Config, target frame.Size, logger *slog.Logger) (*frame.Video, error) {
	info := src.Info()
	opts := pipelineOptions(cfg, target, logger)
	bar := newProgressBar(progress, info.EstimatedFrames())
	if bar != nil {
		opts.Progress = func() { _ = bar.Add(1) }
	}

	start := time.Now()
	res, err := pipeline.Run(src, opts)
	if bar != nil {
		_ = bar.Finish()
	}
	if err != nil {
		return nil, err
	}
	if err := checkTruncation(res.Truncated, len(res.Frames), cfg, logger); err != nil {
		return nil, err
	}

	fps := cfg.FrameRate(info.FPS)
	v := &frame.Video{
		FPS:      fps,
		Duration: time.Duration(len(res.Frames)) * frame.Interval(fps),
		Size:     target,
		Frames:   res.Frames,
	}
	logger.Info("conversion finished",
		"frames", len(v.Frames),
		"target", target.String(),
		"workers", opts.Workers,
		"strategy", string(opts.Strategy),
		"elapsed", time.Since(start).Round(time.Millisecond),
		"footprint", humanize.Bytes(uint64(v.Footprint())),
	)
	return v, nil
}

// checkTruncation turns a decode failure that ended the source early into
// a warning, or into the returned error when strict decoding is on.
func checkTruncation(truncated error, produced int, cfg *config.Config, logger *slog.Logger) error {
	if truncated == nil {
		return nil
	}
	if cfg.Pipeline.StrictDecode {
		return truncated
	}
	logger.Warn("source ended early on a decode failure; playing what was decoded",
		"frames", produced,
		"error", truncated,
	)
	return nil
}

func newProgressBar(w io.Writer, total int) *progressbar.ProgressBar {
	if !terminal.IsTerminal(w) {
		return nil
	}
	if total <= 0 {
		total = -1
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("converting"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("frames"),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetRenderBlankState(true),
	)
}
