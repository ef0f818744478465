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

package terminal

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestNonTerminalWriters(t *testing.T) {
	var buf bytes.Buffer
	if IsTerminal(&buf) {
		t.Fatal("buffer is not a terminal")
	}
	if got := Width(&buf, 80); got != 80 {
		t.Fatalf("expected fallback width, got %d", got)
	}

	f, err := os.Create(filepath.Join(t.TempDir(), "out.txt"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if IsTerminal(f) {
		t.Fatal("regular file is not a terminal")
	}
	if got := Width(f, 100); got != 100 {
		t.Fatalf("expected fallback width, got %d", got)
	}
}

func TestClearHome(t *testing.T) {
	if ClearHome != "\x1b[2J\x1b[1;1H" {
		t.Fatalf("unexpected clear sequence %q", ClearHome)
	}
}
