// Copyright 2024 The symbol-ledger-go Authors
// This file is part of the symbol-ledger-go library.
//
// The symbol-ledger-go library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The symbol-ledger-go library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the symbol-ledger-go library. If not, see <http://www.gnu.org/licenses/>.

package version

import (
	"runtime/debug"
	"strings"
	"testing"
)

func TestBuildInfoVCS(t *testing.T) {
	info := &debug.BuildInfo{Settings: []debug.BuildSetting{
		{Key: "vcs.revision", Value: "9b68875d68b409eb2efdb68a4b623aaacc10a5b6"},
		{Key: "vcs.time", Value: "2024-11-21T08:15:00Z"},
		{Key: "vcs.modified", Value: "true"},
	}}
	vcs, ok := buildInfoVCS(info)
	if !ok {
		t.Fatal("expected vcs info")
	}
	if vcs.Date != "20241121" || !vcs.Dirty {
		t.Errorf("vcs mismatch: %+v", vcs)
	}
	if have := WithCommit(vcs.Commit, vcs.Date); !strings.HasSuffix(have, "-9b68875d-20241121") {
		t.Errorf("version mismatch: %s", have)
	}
	if _, ok := buildInfoVCS(&debug.BuildInfo{}); ok {
		t.Errorf("expected no vcs info for an empty build")
	}
}
