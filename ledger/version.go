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

package ledger

import "fmt"

// Version is the semantic version reported by the Symbol app.
type Version struct {
	Major uint8
	Minor uint8
	Patch uint8
}

// MinimumAppVersion is the oldest Symbol app release this client talks to.
var MinimumAppVersion = Version{Major: 1, Minor: 0, Patch: 0}

// String implements fmt.Stringer.
func (v Version) String() string {
	return fmt.Sprintf("v%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// IsVersionSupported reports whether actual is at least required. Versions are
// compared level by level, the first differing level decides.
//
// IsVersionSupported 报告 actual 是否至少为 required。版本逐级比较，由第一个不同的级别决定。
func IsVersionSupported(actual, required Version) bool {
	if actual.Major > required.Major {
		return true
	}
	if actual.Major == required.Major {
		if actual.Minor > required.Minor {
			return true
		}
		if actual.Minor == required.Minor {
			return actual.Patch >= required.Patch
		}
	}
	return false
}
