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
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/boriwo/asciivid/internal/ascii"
	"github.com/boriwo/asciivid/internal/failure"
	"github.com/boriwo/asciivid/internal/logging"
)

func newRampCommand(ctx *commandContext) *cobra.Command {
	var fontPath string

	cmd := &cobra.Command{
		Use:   "ramp",
		Short: "Measure how dark each ramp symbol renders in a font",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger(cmd, cfg)
			if err != nil {
				return err
			}
			logger = logging.NewComponentLogger(logger, "ramp")

			ttf := goregular.TTF
			fontName := "Go Regular"
			if path := strings.TrimSpace(fontPath); path != "" {
				ttf, err = os.ReadFile(path)
				if err != nil {
					if os.IsNotExist(err) {
						return failure.Wrap(failure.ErrMissingResource, "font", path, err)
					}
					return failure.Wrap(failure.ErrInitialization, "font", path, err)
				}
				fontName = path
			}
			font, err := ascii.ParseFont(ttf)
			if err != nil {
				return err
			}
			glyphs, err := ascii.Calibrate(font, ascii.Ramp)
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(glyphs))
			for i, g := range glyphs {
				low := i * ascii.BandWidth
				high := low + ascii.BandWidth - 1
				if i == len(glyphs)-1 {
					high = 255
				}
				rows = append(rows, []string{
					strconv.Itoa(i),
					strconv.QuoteRune(g.Symbol),
					fmt.Sprintf("%d-%d", low, high),
					fmt.Sprintf("%.1f%%", g.Coverage*100),
				})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Font: %s\n", fontName)
			fmt.Fprintln(out, renderTable([]string{"Slot", "Symbol", "Intensity", "Coverage"}, rows, 1, 3, 4))
			if bad := ascii.CheckOrder(glyphs); bad >= 0 {
				logger.Warn("ramp is not ordered dark to light in this font",
					"font", fontName,
					"slot", bad,
					"symbol", string(glyphs[bad].Symbol),
					"previous", string(glyphs[bad-1].Symbol),
				)
				fmt.Fprintf(out, "Slot %d (%q) renders denser than slot %d (%q)\n", bad, glyphs[bad].Symbol, bad-1, glyphs[bad-1].Symbol)
				return nil
			}
			fmt.Fprintln(out, "Ramp is ordered dark to light")
			return nil
		},
	}
	cmd.Flags().StringVar(&fontPath, "font", "", "TrueType font to measure (default: Go Regular)")
	return cmd
}
