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

// Command asciivid plays a video (or a directory of numbered images) as
// ASCII art in the terminal, optionally alongside a soundtrack.
//
// Subcommands:
//
//	play     convert and play a video
//	convert  convert once and store the frames in a cache file
//	probe    print source metadata
//	ramp     measure the glyph coverage of the character ramp
//	config   create or validate the configuration file
//
// Frames go to stdout; logs and progress go to stderr.
package main
