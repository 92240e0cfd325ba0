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

package accounts

import (
	"encoding/json"
	"sort"
	"testing"
)

func TestURLParsing(t *testing.T) {
	url, err := ParseURL("speculos://127.0.0.1:9999")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url.Scheme != SpeculosScheme || url.Path != "127.0.0.1:9999" {
		t.Errorf("parse mismatch: %+v", url)
	}
	for _, bad := range []string{"127.0.0.1:9999", "://path", ""} {
		if _, err := ParseURL(bad); err == nil {
			t.Errorf("expected failure for %q", bad)
		}
	}
}

func TestURLText(t *testing.T) {
	url := URL{Scheme: LedgerScheme, Path: "/dev/hidraw3"}

	blob, err := json.Marshal(url)
	if err != nil {
		t.Fatal(err)
	}
	if string(blob) != `"ledger:///dev/hidraw3"` {
		t.Errorf("json mismatch: have %s", blob)
	}
	var decoded URL
	if err := decoded.UnmarshalText([]byte(url.String())); err != nil {
		t.Fatal(err)
	}
	if decoded != url {
		t.Errorf("roundtrip mismatch: have %v, want %v", decoded, url)
	}
	long := URL{Scheme: LedgerScheme, Path: "/sys/devices/pci0000:00/0000:00:14.0/usb1"}
	if have := long.TerminalString(); len(have) != 33 {
		t.Errorf("terminal string not shortened: %q", have)
	}
}

func TestAccountsByPath(t *testing.T) {
	device := URL{Scheme: EmulatorScheme, Path: "a"}
	other := URL{Scheme: EmulatorScheme, Path: "b"}

	next := AccountIterator(DerivationPath{HardenedBit + 44, HardenedBit + 1, HardenedBit, HardenedBit, HardenedBit})
	p0, p1, p2 := next(), next(), next()

	list := []Account{{URL: other, Path: p0}, {URL: device, Path: p2}, {URL: device, Path: p0}, {URL: device, Path: p1}}
	sort.Sort(AccountsByPath(list))

	want := []Account{{URL: device, Path: p0}, {URL: device, Path: p1}, {URL: device, Path: p2}, {URL: other, Path: p0}}
	for i := range want {
		if list[i].URL != want[i].URL || list[i].Path.Cmp(want[i].Path) != 0 {
			t.Errorf("position %d: have %v %v, want %v %v", i, list[i].URL, list[i].Path, want[i].URL, want[i].Path)
		}
	}
	if p0.Cmp(p0[:4]) != 1 || p0[:4].Cmp(p0) != -1 {
		t.Errorf("prefix ordering mismatch")
	}
}
