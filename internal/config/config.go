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
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/boriwo/asciivid/internal/failure"
	"github.com/boriwo/asciivid/internal/frame"
)

//go:embed sample_config.toml
var sampleConfig string

// Playback controls the output grid and pacing.
type Playback struct {
	Width  int     `toml:"width"`
	Height int     `toml:"height"`
	FPS    float64 `toml:"fps"`
}

// Pipeline controls frame conversion.
type Pipeline struct {
	Workers      int    `toml:"workers"`
	Strategy     string `toml:"strategy"`
	Streaming    bool   `toml:"streaming"`
	Buffer       int    `toml:"buffer"`
	StrictDecode bool   `toml:"strict_decode"`
}

// Audio names the soundtrack and the speaker buffer.
type Audio struct {
	File     string `toml:"file"`
	BufferMS int    `toml:"buffer_ms"`
}

// Logging contains configuration for log output.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	File   string `toml:"file"`
}

// Config encapsulates all configuration values for asciivid.
type Config struct {
	Playback Playback `toml:"playback"`
	Pipeline Pipeline `toml:"pipeline"`
	Audio    Audio    `toml:"audio"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path of the per-user config file.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, normalizes and validates a configuration file. It
// also returns the resolved path and whether that file existed; a missing
// file yields the defaults.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, failure.Wrap(failure.ErrConfiguration, "config", path, err)
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, failure.Wrap(failure.ErrConfiguration, "open config", resolvedPath, err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, failure.Wrap(failure.ErrConfiguration, "parse config", resolvedPath, err)
		}
	}

	if err := cfg.Normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs(projectConfigName)
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

// Target resolves the downscale target. A zero width takes termWidth and a
// zero height takes half the width, since a character cell is about twice
// as tall as it is wide.
func (c *Config) Target(termWidth int) (frame.Size, error) {
	size := frame.Size{Width: c.Playback.Width, Height: c.Playback.Height}
	if size.Width == 0 {
		size.Width = termWidth
	}
	if size.Height == 0 {
		size.Height = size.Width / 2
	}
	if !size.Valid() {
		return size, failure.Wrap(failure.ErrConfiguration, "playback", fmt.Sprintf("target %s is empty (terminal width %d)", size, termWidth), nil)
	}
	return size, nil
}

// FrameRate returns the configured rate, else sourceFPS, else DefaultFPS.
func (c *Config) FrameRate(sourceFPS float64) float64 {
	switch {
	case c.Playback.FPS > 0:
		return c.Playback.FPS
	case sourceFPS > 0:
		return sourceFPS
	default:
		return DefaultFPS
	}
}

// AudioBuffer returns the speaker buffer length.
func (c *Config) AudioBuffer() time.Duration {
	return time.Duration(c.Audio.BufferMS) * time.Millisecond
}

// CreateSample writes a commented sample configuration file to path.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return failure.Wrap(failure.ErrInitialization, "create config directory", dir, err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return failure.Wrap(failure.ErrInitialization, "write sample config", path, err)
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath applies the config path rules (tilde, clean, absolute) to a
// path given on the command line.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}
