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

// Package config loads, normalizes, and validates asciivid configuration.
//
// Settings come from a TOML file (an explicit --config path, then
// ~/.config/asciivid/config.toml, then ./asciivid.toml) layered over
// Default(). Command line flags are applied by the caller after Load. Zero
// values for width, height and fps are resolved at play time from the
// terminal and the source.
package config
