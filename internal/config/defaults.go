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

import "runtime"

const (
	defaultConfigPath  = "~/.config/asciivid/config.toml"
	projectConfigName  = "asciivid.toml"
	defaultStrategy    = "pull"
	defaultBuffer      = 64
	defaultAudioBuffer = 100
	defaultLogFormat   = "console"
	defaultLogLevel    = "info"

	// DefaultFPS is used when neither the config nor the source supplies a
	// frame rate.
	DefaultFPS = 30.0
	// FallbackWidth is the column count used when width = 0 and stdout is
	// not a terminal.
	FallbackWidth = 80
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Pipeline: Pipeline{
			Workers:  runtime.NumCPU(),
			Strategy: defaultStrategy,
			Buffer:   defaultBuffer,
		},
		Audio: Audio{
			BufferMS: defaultAudioBuffer,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
