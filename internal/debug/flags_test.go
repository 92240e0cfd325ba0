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

package debug

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/log"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func newContext(t *testing.T, args ...string) *cli.Context {
	t.Helper()
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	for _, f := range Flags {
		require.NoError(t, f.Apply(set))
	}
	require.NoError(t, set.Parse(args))
	return cli.NewContext(cli.NewApp(), set, nil)
}

func TestSetupLogFile(t *testing.T) {
	defer log.SetDefault(log.NewLogger(log.DiscardHandler()))

	file := filepath.Join(t.TempDir(), "logs", "symledger.log")
	ctx := newContext(t, "--log.file", file, "--log.format", "logfmt", "--verbosity", "3")
	require.NoError(t, Setup(ctx))

	log.Info("Hello from the test", "key", "value")
	Exit()
	logOutputFile = nil

	blob, err := os.ReadFile(file)
	require.NoError(t, err)
	require.Contains(t, string(blob), "Hello from the test")
	require.Contains(t, string(blob), "key=value")
}

func TestSetupUnknownFormat(t *testing.T) {
	ctx := newContext(t, "--log.format", "xml")
	require.Error(t, Setup(ctx))
}
