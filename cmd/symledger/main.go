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

// symledger is a command-line client for the Symbol app on Ledger devices.
package main

import (
	"fmt"
	"os"
	"slices"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/symbol/symbol-ledger-go/cmd/utils"
	"github.com/symbol/symbol-ledger-go/internal/debug"
	"github.com/symbol/symbol-ledger-go/internal/flags"
	"github.com/symbol/symbol-ledger-go/internal/version"
	"github.com/symbol/symbol-ledger-go/ledger"
	"github.com/urfave/cli/v2"
)

const (
	clientIdentifier = "symledger" // Client identifier printed by the version command
)

var app = flags.NewApp("the Symbol Ledger command line interface")

var versionCommand = &cli.Command{
	Action:    printVersion,
	Name:      "version",
	Usage:     "Print version numbers",
	ArgsUsage: " ",
	Description: `
The output of this command is supposed to be machine-readable.
`,
}

func init() {
	app.Commands = []*cli.Command{
		// See accountcmd.go:
		accountCommand,
		accountsCommand,
		// See signcmd.go:
		signCommand,
		cosignCommand,
		// See devicecmd.go:
		devicesCommand,
		appVersionCommand,
		// See config.go:
		dumpConfigCommand,
		versionCommand,
	}
	app.Flags = slices.Concat(
		[]cli.Flag{configFileFlag},
		utils.DeviceFlags,
		utils.AccountFlags,
		utils.MetricsFlags,
		debug.Flags,
	)

	app.Before = func(ctx *cli.Context) error {
		if err := debug.Setup(ctx); err != nil {
			return err
		}
		flags.CheckEnvVars(ctx, app.Flags, utils.EnvPrefix)
		return nil
	}
	app.After = func(ctx *cli.Context) error {
		debug.Exit()
		return nil
	}
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func printVersion(ctx *cli.Context) error {
	fmt.Fprint(ctx.App.Writer, version.Info(clientIdentifier))
	return nil
}

// withSigner opens a device session according to the configuration, runs fn
// on it and closes it again. The call metrics of the session are printed
// afterwards if enabled.
func withSigner(ctx *cli.Context, fn func(signer ledger.Signer, cfg *symledgerConfig) error) error {
	cfg, err := loadBaseConfig(ctx)
	if err != nil {
		return err
	}
	var reg *prometheus.Registry
	if cfg.Metrics.Enabled {
		reg = prometheus.NewRegistry()
	}
	signer, err := utils.MakeSigner(&cfg.Device, registerer(reg))
	if err != nil {
		return err
	}
	err = runSigner(signer, &cfg, fn)
	if reg != nil {
		if merr := printMetrics(ctx.App.Writer, reg); merr != nil && err == nil {
			err = merr
		}
	}
	return err
}

// runSigner runs fn on the signer and closes it afterwards, also if fn panics.
// A close failure is reported unless fn failed already.
func runSigner(signer ledger.Signer, cfg *symledgerConfig, fn func(signer ledger.Signer, cfg *symledgerConfig) error) (err error) {
	defer func() {
		if cerr := signer.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(signer, cfg)
}

// registerer converts a possibly nil registry into a registerer.
func registerer(reg *prometheus.Registry) prometheus.Registerer {
	if reg == nil {
		return nil
	}
	return reg
}
