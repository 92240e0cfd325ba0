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
	"sort"

	"github.com/olekukonko/tablewriter"
	"github.com/symbol/symbol-ledger-go/accounts"
	"github.com/symbol/symbol-ledger-go/cmd/utils"
	"github.com/symbol/symbol-ledger-go/ledger"
	"github.com/urfave/cli/v2"
)

var (
	accountCommand = &cli.Command{
		Action:    showAccount,
		Name:      "account",
		Usage:     "Print the public key of an account held by the device",
		ArgsUsage: " ",
		Flags: []cli.Flag{
			utils.DisplayFlag,
			utils.ChainCodeFlag,
		},
		Description: `
The account command derives the account selected by --path, or by --account,
--change and --address on --network, and prints its public key. With --display
the device shows the account and waits for the user to confirm it.`,
	}
	accountsCommand = &cli.Command{
		Action:    listAccounts,
		Name:      "accounts",
		Usage:     "List consecutive accounts held by the device",
		ArgsUsage: " ",
		Flags: []cli.Flag{
			utils.AccountCountFlag,
		},
		Description: `
The accounts command walks the account level of the derivation path, starting
at the selected account, and prints the public keys of --count accounts.`,
	}
)

func showAccount(ctx *cli.Context) error {
	return withSigner(ctx, func(signer ledger.Signer, cfg *symledgerConfig) error {
		path, err := utils.MakeDerivationPath(&cfg.Account)
		if err != nil {
			return err
		}
		display, chainCode := ctx.Bool(utils.DisplayFlag.Name), ctx.Bool(utils.ChainCodeFlag.Name)
		key, err := signer.Account(path, cfg.Account.Network, display, chainCode, cfg.Account.OptIn)
		if err != nil {
			return err
		}
		fmt.Fprintf(ctx.App.Writer, "Path:       %v\n", path)
		fmt.Fprintf(ctx.App.Writer, "Network:    %v\n", cfg.Account.Network)
		fmt.Fprintf(ctx.App.Writer, "Public key: %s\n", key)
		return nil
	})
}

func listAccounts(ctx *cli.Context) error {
	return withSigner(ctx, func(signer ledger.Signer, cfg *symledgerConfig) error {
		base, err := utils.MakeDerivationPath(&cfg.Account)
		if err != nil {
			return err
		}
		var (
			next  = accounts.AccountIterator(base)
			count = int(ctx.Uint(utils.AccountCountFlag.Name))
			found = make([]accounts.Account, 0, count)
		)
		for i := 0; i < count; i++ {
			path := next()
			key, err := signer.Account(path, cfg.Account.Network, false, false, cfg.Account.OptIn)
			if err != nil {
				return fmt.Errorf("failed to derive %v: %w", path, err)
			}
			found = append(found, accounts.Account{Path: path, Network: cfg.Account.Network, PublicKey: key})
		}
		sort.Sort(accounts.AccountsByPath(found))

		table := tablewriter.NewWriter(ctx.App.Writer)
		table.SetHeader([]string{"Path", "Network", "Public key"})
		for _, account := range found {
			table.Append([]string{account.Path.String(), account.Network.String(), account.PublicKey})
		}
		table.Render()
		return nil
	})
}
