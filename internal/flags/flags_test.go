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

package flags

import (
	"flag"
	"os"
	"os/user"
	"runtime"
	"testing"

	"github.com/symbol/symbol-ledger-go/accounts"
)

func TestPathExpansion(t *testing.T) {
	user, _ := user.Current()
	var tests map[string]string

	if runtime.GOOS == "windows" {
		tests = map[string]string{
			`/home/someuser/tmp`: `\home\someuser\tmp`,
			`~/tmp`:              user.HomeDir + `\tmp`,
			`$DDDXXX/a/b`:        `\tmp\a\b`,
		}
	} else {
		tests = map[string]string{
			`/home/someuser/tmp`: "/home/someuser/tmp",
			`~/tmp`:              user.HomeDir + "/tmp",
			`~thisOtherUser/b/`:  "~thisOtherUser/b",
			`$DDDXXX/a/b`:        "/tmp/a/b",
			`/a/b/`:              "/a/b",
		}
	}
	os.Setenv(`DDDXXX`, `/tmp`)
	for test, expected := range tests {
		got := expandPath(test)
		if got != expected {
			t.Errorf(`test %s, got %s, expected %s\n`, test, got, expected)
		}
	}
}

func TestDerivationPathFlag(t *testing.T) {
	f := &DerivationPathFlag{Name: "path", Value: accounts.DerivationPath{0x8000002c, 0x800010f7, 0x80000000, 0x80000000, 0x80000000}}

	set := flag.NewFlagSet("test", flag.ContinueOnError)
	if err := f.Apply(set); err != nil {
		t.Fatal(err)
	}
	if have := f.GetDefaultText(); have != "m/44'/4343'/0'/0'/0'" {
		t.Errorf("default text mismatch: %s", have)
	}
	if err := set.Parse([]string{"--path", "m/44'/1'/2'/0'/0'"}); err != nil {
		t.Fatal(err)
	}
	if have := f.GetValue(); have != "m/44'/1'/2'/0'/0'" {
		t.Errorf("parsed value mismatch: %s", have)
	}
	if err := set.Parse([]string{"--path", "m/44/1/2/0/0"}); err == nil {
		t.Errorf("expected unhardened path to be rejected")
	}
}

func TestEnvVar(t *testing.T) {
	if have := EnvVar("SYMLEDGER", "speculos.addr"); have != "SYMLEDGER_SPECULOS_ADDR" {
		t.Errorf("env var mismatch: %s", have)
	}
}
