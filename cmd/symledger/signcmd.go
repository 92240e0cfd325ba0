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
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/symbol/symbol-ledger-go/accounts"
	"github.com/symbol/symbol-ledger-go/cmd/utils"
	"github.com/symbol/symbol-ledger-go/core/types"
	"github.com/symbol/symbol-ledger-go/ledger"
	"github.com/urfave/cli/v2"
)

var (
	errMissingTransaction    = errors.New("no transaction given, use --tx")
	errMissingGenerationHash = errors.New("no generation hash given, use --generation-hash")
)

var (
	signCommand = &cli.Command{
		Action:    signTransaction,
		Name:      "sign",
		Usage:     "Sign a serialized transaction on the device",
		ArgsUsage: " ",
		Flags: []cli.Flag{
			utils.TransactionFlag,
			utils.GenerationHashFlag,
			utils.SignerKeyFlag,
		},
		Description: `
The sign command streams the transaction given by --tx to the device, which
shows it to the user for confirmation. On approval the signed payload, the
signature and the transaction hash are printed.`,
	}
	cosignCommand = &cli.Command{
		Action:    cosignTransaction,
		Name:      "cosign",
		Usage:     "Cosign an aggregate transaction on the device",
		ArgsUsage: " ",
		Flags: []cli.Flag{
			utils.TransactionFlag,
			utils.AggregateHashFlag,
			utils.GenerationHashFlag,
			utils.SignerKeyFlag,
		},
		Description: `
The cosign command signs the hash of the aggregate given by --tx. The hash is
taken from --hash, or computed from the aggregate and --generation-hash. The
cosignature is printed in its serialized form.`,
	}
)

// signRequest collects the inputs shared by the signing commands.
type signRequest struct {
	path      accounts.DerivationPath
	tx        *types.RawTransaction
	signerKey string
}

func makeSignRequest(ctx *cli.Context, signer ledger.Signer, cfg *symledgerConfig) (*signRequest, error) {
	if !ctx.IsSet(utils.TransactionFlag.Name) {
		return nil, errMissingTransaction
	}
	tx, err := types.NewRawTransaction(ctx.String(utils.TransactionFlag.Name))
	if err != nil {
		return nil, err
	}
	path, err := utils.MakeDerivationPath(&cfg.Account)
	if err != nil {
		return nil, err
	}
	signerKey := ctx.String(utils.SignerKeyFlag.Name)
	if signerKey == "" {
		if signerKey, err = signer.Account(path, cfg.Account.Network, false, false, cfg.Account.OptIn); err != nil {
			return nil, err
		}
	}
	return &signRequest{path: path, tx: tx, signerKey: signerKey}, nil
}

func signTransaction(ctx *cli.Context) error {
	return withSigner(ctx, func(signer ledger.Signer, cfg *symledgerConfig) error {
		generationHash := ctx.String(utils.GenerationHashFlag.Name)
		if generationHash == "" {
			return errMissingGenerationHash
		}
		req, err := makeSignRequest(ctx, signer, cfg)
		if err != nil {
			return err
		}
		signed, err := signer.SignTransaction(req.path, req.tx, generationHash, req.signerKey, cfg.Account.OptIn)
		if err != nil {
			return err
		}
		fmt.Fprintf(ctx.App.Writer, "Hash:      %v\n", signed.Hash)
		fmt.Fprintf(ctx.App.Writer, "Signer:    %s\n", req.signerKey)
		fmt.Fprintf(ctx.App.Writer, "Signature: %s\n", signed.Signature)
		fmt.Fprintf(ctx.App.Writer, "Payload:   %s\n", signed.Payload)
		return nil
	})
}

func cosignTransaction(ctx *cli.Context) error {
	return withSigner(ctx, func(signer ledger.Signer, cfg *symledgerConfig) error {
		req, err := makeSignRequest(ctx, signer, cfg)
		if err != nil {
			return err
		}
		if !types.IsAggregate(req.tx.Bytes()) {
			return fmt.Errorf("transaction type 0x%04x is not an aggregate", req.tx.Type())
		}
		aggregateHash := ctx.String(utils.AggregateHashFlag.Name)
		if aggregateHash == "" {
			if aggregateHash, err = computeHash(ctx, req.tx); err != nil {
				return err
			}
		}
		signature, err := signer.SignCosignatureTransaction(req.path, req.tx, aggregateHash, req.signerKey, cfg.Account.OptIn)
		if err != nil {
			return err
		}
		cosignature, err := types.NewCosignature(req.signerKey, signature)
		if err != nil {
			return err
		}
		fmt.Fprintf(ctx.App.Writer, "Hash:        %s\n", aggregateHash)
		fmt.Fprintf(ctx.App.Writer, "Signature:   %s\n", signature)
		fmt.Fprintf(ctx.App.Writer, "Cosignature: %s\n", cosignature.Hex())
		return nil
	})
}

// computeHash derives the hash of the transaction on the network given by the
// generation hash flag.
func computeHash(ctx *cli.Context, tx *types.RawTransaction) (string, error) {
	input := ctx.String(utils.GenerationHashFlag.Name)
	if input == "" {
		return "", errMissingGenerationHash
	}
	generationHash, err := hex.DecodeString(input)
	if err != nil || len(generationHash) != types.HashLength {
		return "", fmt.Errorf("invalid generation hash %q", input)
	}
	hash, err := types.TransactionHash(tx.Bytes(), generationHash)
	if err != nil {
		return "", err
	}
	return hash.Hex(), nil
}
