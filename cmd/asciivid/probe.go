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
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/boriwo/asciivid/internal/config"
	"github.com/boriwo/asciivid/internal/terminal"
)

func newProbeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "probe <file>",
		Short: "Show metadata of a video, image directory or cache file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			info, err := describe(args[0], cfg.Playback.FPS)
			if err != nil {
				return err
			}

			fps := cfg.FrameRate(info.FPS)
			rows := [][]string{
				{"Kind", info.Kind},
				{"Format", info.Format},
				{"Resolution", info.Size.String()},
				{"Frame rate", formatFPS(info.FPS, fps)},
				{"Duration", formatDuration(info.Duration)},
				{"Frames", formatCount(info.EstimatedFrames(), info.FrameCount > 0)},
				{"Audio streams", strconv.Itoa(info.AudioStreams)},
			}
			if target, err := cfg.Target(terminal.Width(cmd.OutOrStdout(), config.FallbackWidth)); err == nil {
				rows = append(rows, []string{"Output", target.String()})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Field", "Value"}, rows))
			return nil
		},
	}
}

func formatFPS(source, effective float64) string {
	if source > 0 {
		return strconv.FormatFloat(source, 'f', 3, 64)
	}
	return fmt.Sprintf("unknown (playing at %g)", effective)
}

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "unknown"
	}
	return d.Round(time.Millisecond).String()
}

func formatCount(n int, exact bool) string {
	switch {
	case n <= 0:
		return "unknown"
	case exact:
		return strconv.Itoa(n)
	default:
		return "~" + strconv.Itoa(n)
	}
}
