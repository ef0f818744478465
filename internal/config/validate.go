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

package config

import (
	"fmt"
	"strings"

	"github.com/boriwo/asciivid/internal/failure"
)

// Normalize trims and lowercases enumerated values, fills empty ones with
// defaults and expands file paths. Callers that change fields after Load
// should normalize again before Validate.
func (c *Config) Normalize() error {
	c.Pipeline.Strategy = strings.ToLower(strings.TrimSpace(c.Pipeline.Strategy))
	if c.Pipeline.Strategy == "" {
		c.Pipeline.Strategy = defaultStrategy
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}

	var err error
	if c.Audio.File, err = expandPath(strings.TrimSpace(c.Audio.File)); err != nil {
		return failure.Wrap(failure.ErrConfiguration, "audio.file", "", err)
	}
	if c.Logging.File, err = expandPath(strings.TrimSpace(c.Logging.File)); err != nil {
		return failure.Wrap(failure.ErrConfiguration, "logging.file", "", err)
	}
	return nil
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePlayback(); err != nil {
		return err
	}
	if err := c.validatePipeline(); err != nil {
		return err
	}
	if err := c.validateAudio(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePlayback() error {
	if c.Playback.Width < 0 {
		return invalid("playback.width must be >= 0 (0 = terminal width), got %d", c.Playback.Width)
	}
	if c.Playback.Height < 0 {
		return invalid("playback.height must be >= 0 (0 = width/2), got %d", c.Playback.Height)
	}
	if c.Playback.FPS < 0 {
		return invalid("playback.fps must be >= 0 (0 = source rate), got %g", c.Playback.FPS)
	}
	return nil
}

func (c *Config) validatePipeline() error {
	if c.Pipeline.Workers < 1 {
		return invalid("pipeline.workers must be >= 1, got %d", c.Pipeline.Workers)
	}
	switch c.Pipeline.Strategy {
	case "pull", "partition":
	default:
		return invalid("pipeline.strategy must be pull or partition, got %q", c.Pipeline.Strategy)
	}
	if c.Pipeline.Buffer < 1 {
		return invalid("pipeline.buffer must be >= 1, got %d", c.Pipeline.Buffer)
	}
	return nil
}

func (c *Config) validateAudio() error {
	if c.Audio.BufferMS < 1 {
		return invalid("audio.buffer_ms must be >= 1, got %d", c.Audio.BufferMS)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return invalid("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return invalid("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	return nil
}

func invalid(format string, args ...any) error {
	return failure.Wrap(failure.ErrConfiguration, "config", fmt.Sprintf(format, args...), nil)
}
