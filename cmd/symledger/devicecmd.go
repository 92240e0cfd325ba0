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

package main

import (
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/symbol/symbol-ledger-go/accounts/usbwallet"
	"github.com/symbol/symbol-ledger-go/ledger"
	"github.com/urfave/cli/v2"
)

var (
	devicesCommand = &cli.Command{
		Action:    listDevices,
		Name:      "devices",
		Usage:     "List the Ledger devices attached over USB",
		ArgsUsage: " ",
		Description: `
The devices command enumerates the attached Ledger devices speaking the APDU
protocol. Their URLs can be passed to --device to pick one.`,
	}
	appVersionCommand = &cli.Command{
		Action:    appVersion,
		Name:      "appversion",
		Usage:     "Print the version of the Symbol app running on the device",
		ArgsUsage: " ",
		Description: `
The appversion command reads the version of the Symbol app from the device and
reports whether this client supports it.`,
	}
)

func listDevices(ctx *cli.Context) error {
	hub, err := usbwallet.NewLedgerHub()
	if err != nil {
		return err
	}
	devices, err := hub.Devices()
	if err != nil {
		return err
	}
	if len(devices) == 0 {
		return usbwallet.ErrNoDevice
	}
	table := tablewriter.NewWriter(ctx.App.Writer)
	table.SetHeader([]string{"URL", "Product", "Manufacturer", "Serial"})
	for _, device := range devices {
		table.Append([]string{device.URL.String(), device.Info.Product, device.Info.Manufacturer, device.Info.Serial})
	}
	table.Render()
	return nil
}

func appVersion(ctx *cli.Context) error {
	return withSigner(ctx, func(signer ledger.Signer, cfg *symledgerConfig) error {
		version, err := signer.AppVersion()
		if err != nil {
			return err
		}
		supported := ledger.IsVersionSupported(version, signer.ExpectedAppVersion())
		fmt.Fprintf(ctx.App.Writer, "Symbol app %v (supported: %t, minimum %v)\n", version, supported, signer.ExpectedAppVersion())
		return nil
	})
}
