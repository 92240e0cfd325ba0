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

import "testing"

func TestIsVersionSupported(t *testing.T) {
	tests := []struct {
		actual, required Version
		want             bool
	}{
		{Version{1, 0, 1}, Version{1, 0, 2}, false},
		{Version{1, 1, 0}, Version{1, 0, 9}, true},
		{Version{2, 0, 0}, Version{1, 9, 9}, true},
		{Version{0, 9, 9}, Version{1, 0, 0}, false},
		{Version{1, 0, 0}, Version{1, 1, 0}, false},
		{Version{1, 2, 3}, Version{1, 2, 3}, true},
		{Version{1, 2, 4}, Version{1, 2, 3}, true},
		{Version{0, 0, 0}, Version{0, 0, 0}, true},
	}
	for i, tt := range tests {
		if have := IsVersionSupported(tt.actual, tt.required); have != tt.want {
			t.Errorf("test %d: %v >= %v: have %v, want %v", i, tt.actual, tt.required, have, tt.want)
		}
	}
}

func TestIsVersionSupportedReflexive(t *testing.T) {
	for major := 0; major < 4; major++ {
		for minor := 0; minor < 4; minor++ {
			for patch := 0; patch < 4; patch++ {
				v := Version{uint8(major), uint8(minor), uint8(patch)}
				if !IsVersionSupported(v, v) {
					t.Errorf("version %v not supported against itself", v)
				}
			}
		}
	}
}

func TestVersionString(t *testing.T) {
	if have := (Version{1, 0, 2}).String(); have != "v1.0.2" {
		t.Errorf("string mismatch: have %s, want v1.0.2", have)
	}
}
