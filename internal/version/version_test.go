// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package version

import "testing"

func TestGetVersionString(t *testing.T) {
	if got := GetVersionString(); got != "devel (commit none)" {
		t.Fatalf("unexpected version string: %s", got)
	}
	origVersion, origCommit := Version, CommitHash
	defer func() { Version, CommitHash = origVersion, origCommit }()
	Version, CommitHash = "v1.2.3", "abc123"
	if got := GetVersionString(); got != "v1.2.3 (commit abc123)" {
		t.Fatalf("unexpected version string: %s", got)
	}
}
