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
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/log"
	"github.com/symbol/symbol-ledger-go/internal/version"
	"github.com/urfave/cli/v2"
)

// NewApp creates an app with sane defaults.
func NewApp(usage string) *cli.App {
	git, _ := version.VCS()
	app := cli.NewApp()
	app.EnableBashCompletion = true
	app.Version = version.WithCommit(git.Commit, git.Date)
	app.Usage = usage
	app.Copyright = "Copyright 2024 The symbol-ledger-go Authors"
	return app
}

// CheckEnvVars iterates over all the environment variables and checks if any of
// them look like a CLI flag but are not consumed. This can be used to detect
// misspelled flags in the environment.
func CheckEnvVars(ctx *cli.Context, flags []cli.Flag, prefix string) {
	known := make(map[string]string)
	for _, flag := range flags {
		docflag, ok := flag.(cli.DocGenerationFlag)
		if !ok {
			continue
		}
		for _, envVar := range docflag.GetEnvVars() {
			known[envVar] = flag.Names()[0]
		}
	}
	keyvals := os.Environ()
	for _, keyval := range keyvals {
		key, _, _ := strings.Cut(keyval, "=")
		if !strings.HasPrefix(key, prefix+"_") {
			continue
		}
		if name, ok := known[key]; ok {
			if ctx.IsSet(name) {
				log.Info("Config environment variable found", "envvar", key, "flag", name)
			}
			continue
		}
		log.Warn("Unknown config environment variable", "envvar", key)
	}
}

// EnvVar derives the environment variable backing a flag: the prefix followed
// by the upper cased flag name with dots and dashes turned into underscores.
func EnvVar(prefix, name string) string {
	name = strings.NewReplacer(".", "_", "-", "_").Replace(name)
	return fmt.Sprintf("%s_%s", prefix, strings.ToUpper(name))
}
