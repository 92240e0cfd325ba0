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

package utils

import (
	"time"

	"github.com/symbol/symbol-ledger-go/accounts"
	"github.com/symbol/symbol-ledger-go/accounts/speculos"
	"github.com/symbol/symbol-ledger-go/internal/flags"
	"github.com/symbol/symbol-ledger-go/ledger"
	"github.com/urfave/cli/v2"
)

// EnvPrefix is the prefix of the environment variables backing the flags.
const EnvPrefix = "SYMLEDGER"

// Transports the device can be reached over.
const (
	TransportHID      = "hid"
	TransportSpeculos = "speculos"
	TransportEmulator = "emulator"
)

// These are all the command line flags we support.
// If you add to this list, please remember to include the
// flag in the appropriate command definition.
//
// The flags are defined here so their names and help texts
// are the same for all commands.

var (
	// Device settings
	TransportFlag = &cli.StringFlag{
		Name:     "transport",
		Usage:    "Device transport (hid, speculos, emulator)",
		Value:    TransportHID,
		EnvVars:  []string{flags.EnvVar(EnvPrefix, "transport")},
		Category: flags.DeviceCategory,
	}
	DeviceURLFlag = &cli.StringFlag{
		Name:     "device",
		Usage:    "URL of the Ledger to open, e.g. ledger://<hid path> (default = first attached)",
		EnvVars:  []string{flags.EnvVar(EnvPrefix, "device")},
		Category: flags.DeviceCategory,
	}
	SpeculosAddrFlag = &cli.StringFlag{
		Name:     "speculos.addr",
		Usage:    "APDU endpoint of the Speculos simulator",
		Value:    speculos.DefaultAddress,
		EnvVars:  []string{flags.EnvVar(EnvPrefix, "speculos.addr")},
		Category: flags.DeviceCategory,
	}
	SpeculosTimeoutFlag = &cli.DurationFlag{
		Name:     "speculos.timeout",
		Usage:    "Time to wait for a Speculos reply, including on-screen confirmation",
		Value:    DefaultDeviceConfig.SpeculosTimeout,
		Category: flags.DeviceCategory,
	}
	EmulatorMnemonicFlag = &cli.StringFlag{
		Name:     "emulator.mnemonic",
		Usage:    "BIP-39 mnemonic of the emulated device (default = random)",
		EnvVars:  []string{flags.EnvVar(EnvPrefix, "emulator.mnemonic")},
		Category: flags.DeviceCategory,
	}
	EmulatorPassphraseFlag = &cli.StringFlag{
		Name:     "emulator.passphrase",
		Usage:    "BIP-39 passphrase of the emulated device",
		EnvVars:  []string{flags.EnvVar(EnvPrefix, "emulator.passphrase")},
		Category: flags.DeviceCategory,
	}
	EmulatorRejectFlag = &cli.BoolFlag{
		Name:     "emulator.reject",
		Usage:    "Reject every request needing confirmation on the emulated device",
		Category: flags.DeviceCategory,
	}

	// Account settings
	NetworkFlag = &cli.StringFlag{
		Name:     "network",
		Usage:    "Symbol network the account belongs to (mainnet, testnet)",
		Value:    "mainnet",
		EnvVars:  []string{flags.EnvVar(EnvPrefix, "network")},
		Category: flags.AccountCategory,
	}
	AccountIndexFlag = &cli.UintFlag{
		Name:     "account",
		Usage:    "Account index of the derivation path",
		Category: flags.AccountCategory,
	}
	ChangeIndexFlag = &cli.UintFlag{
		Name:     "change",
		Usage:    "Change index of the derivation path",
		Category: flags.AccountCategory,
	}
	AddressIndexFlag = &cli.UintFlag{
		Name:     "address",
		Usage:    "Address index of the derivation path",
		Category: flags.AccountCategory,
	}
	DerivationPathFlag = &flags.DerivationPathFlag{
		Name:     "path",
		Usage:    "Full derivation path, overrides the index flags (e.g. m/44'/4343'/0'/0'/0')",
		EnvVars:  []string{flags.EnvVar(EnvPrefix, "path")},
		Category: flags.AccountCategory,
	}
	OptInFlag = &cli.BoolFlag{
		Name:     "optin",
		Usage:    "Use the opt-in (NIS1 migration) key derivation",
		Category: flags.AccountCategory,
	}
	DisplayFlag = &cli.BoolFlag{
		Name:     "display",
		Usage:    "Show the account on the device screen for confirmation",
		Category: flags.AccountCategory,
	}
	ChainCodeFlag = &cli.BoolFlag{
		Name:     "chaincode",
		Usage:    "Request the chain code along with the public key",
		Category: flags.AccountCategory,
	}
	AccountCountFlag = &cli.UintFlag{
		Name:     "count",
		Usage:    "Number of consecutive accounts to list",
		Value:    5,
		Category: flags.AccountCategory,
	}

	// Signing settings
	TransactionFlag = &cli.StringFlag{
		Name:     "tx",
		Usage:    "Hex encoded serialized transaction to sign",
		Category: flags.SigningCategory,
	}
	GenerationHashFlag = &cli.StringFlag{
		Name:     "generation-hash",
		Usage:    "Generation hash of the network, hex encoded",
		Category: flags.SigningCategory,
	}
	SignerKeyFlag = &cli.StringFlag{
		Name:     "signer",
		Usage:    "Public key of the signing account (default = read from the device)",
		Category: flags.SigningCategory,
	}
	AggregateHashFlag = &cli.StringFlag{
		Name:     "hash",
		Usage:    "Hash of the aggregate to cosign (default = computed from --tx and --generation-hash)",
		Category: flags.SigningCategory,
	}

	// Metrics settings
	MetricsEnabledFlag = &cli.BoolFlag{
		Name:     "metrics",
		Usage:    "Print the device call metrics on exit",
		EnvVars:  []string{flags.EnvVar(EnvPrefix, "metrics")},
		Category: flags.MetricsCategory,
	}
	ScrambleKeyFlag = &cli.StringFlag{
		Name:     "scramble-key",
		Usage:    "Scramble key of the Symbol app, used as a metrics label",
		Value:    ledger.DefaultScrambleKey,
		Category: flags.MetricsCategory,
	}
)

var (
	// DeviceFlags selects and configures the transport.
	DeviceFlags = []cli.Flag{
		TransportFlag,
		DeviceURLFlag,
		SpeculosAddrFlag,
		SpeculosTimeoutFlag,
		EmulatorMnemonicFlag,
		EmulatorPassphraseFlag,
		EmulatorRejectFlag,
	}
	// AccountFlags selects the derivation path of the account.
	AccountFlags = []cli.Flag{
		NetworkFlag,
		AccountIndexFlag,
		ChangeIndexFlag,
		AddressIndexFlag,
		DerivationPathFlag,
		OptInFlag,
	}
	// MetricsFlags configures the call metrics.
	MetricsFlags = []cli.Flag{
		MetricsEnabledFlag,
		ScrambleKeyFlag,
	}
)

// DeviceConfig contains the settings the device session is opened with.
type DeviceConfig struct {
	Transport       string
	URL             string `toml:",omitempty"`
	SpeculosAddr    string
	SpeculosTimeout time.Duration
	Mnemonic        string `toml:",omitempty"`
	Passphrase      string `toml:",omitempty"`
	Reject          bool   `toml:",omitempty"`
	ScrambleKey     string
}

// AccountConfig selects the account a command operates on.
type AccountConfig struct {
	Network accounts.NetworkType
	Account uint32
	Change  uint32
	Address uint32
	Path    string `toml:",omitempty"` // Overrides the indices if set
	OptIn   bool
}

// MetricsConfig contains the metrics settings.
type MetricsConfig struct {
	Enabled bool
}

// DefaultDeviceConfig contains the default device settings.
var DefaultDeviceConfig = DeviceConfig{
	Transport:       TransportHID,
	SpeculosAddr:    speculos.DefaultAddress,
	SpeculosTimeout: 30 * time.Second,
	ScrambleKey:     ledger.DefaultScrambleKey,
}

// DefaultAccountConfig contains the default account settings.
var DefaultAccountConfig = AccountConfig{
	Network: accounts.MainNet,
}

// SetDeviceConfig applies device-related command line flags to the config.
func SetDeviceConfig(ctx *cli.Context, cfg *DeviceConfig) {
	if ctx.IsSet(TransportFlag.Name) {
		cfg.Transport = ctx.String(TransportFlag.Name)
	}
	if ctx.IsSet(DeviceURLFlag.Name) {
		cfg.URL = ctx.String(DeviceURLFlag.Name)
	}
	if ctx.IsSet(SpeculosAddrFlag.Name) {
		cfg.SpeculosAddr = ctx.String(SpeculosAddrFlag.Name)
	}
	if ctx.IsSet(SpeculosTimeoutFlag.Name) {
		cfg.SpeculosTimeout = ctx.Duration(SpeculosTimeoutFlag.Name)
	}
	if ctx.IsSet(EmulatorMnemonicFlag.Name) {
		cfg.Mnemonic = ctx.String(EmulatorMnemonicFlag.Name)
	}
	if ctx.IsSet(EmulatorPassphraseFlag.Name) {
		cfg.Passphrase = ctx.String(EmulatorPassphraseFlag.Name)
	}
	if ctx.IsSet(EmulatorRejectFlag.Name) {
		cfg.Reject = ctx.Bool(EmulatorRejectFlag.Name)
	}
	if ctx.IsSet(ScrambleKeyFlag.Name) {
		cfg.ScrambleKey = ctx.String(ScrambleKeyFlag.Name)
	}
}

// SetAccountConfig applies account-related command line flags to the config.
func SetAccountConfig(ctx *cli.Context, cfg *AccountConfig) error {
	if ctx.IsSet(NetworkFlag.Name) {
		network, err := accounts.ParseNetworkType(ctx.String(NetworkFlag.Name))
		if err != nil {
			return err
		}
		cfg.Network = network
	}
	if ctx.IsSet(AccountIndexFlag.Name) {
		cfg.Account = uint32(ctx.Uint(AccountIndexFlag.Name))
	}
	if ctx.IsSet(ChangeIndexFlag.Name) {
		cfg.Change = uint32(ctx.Uint(ChangeIndexFlag.Name))
	}
	if ctx.IsSet(AddressIndexFlag.Name) {
		cfg.Address = uint32(ctx.Uint(AddressIndexFlag.Name))
	}
	if ctx.IsSet(DerivationPathFlag.Name) {
		cfg.Path = flags.GlobalDerivationPath(ctx, DerivationPathFlag.Name).String()
	}
	if ctx.IsSet(OptInFlag.Name) {
		cfg.OptIn = ctx.Bool(OptInFlag.Name)
	}
	return nil
}

// SetMetricsConfig applies metrics-related command line flags to the config.
func SetMetricsConfig(ctx *cli.Context, cfg *MetricsConfig) {
	if ctx.IsSet(MetricsEnabledFlag.Name) {
		cfg.Enabled = ctx.Bool(MetricsEnabledFlag.Name)
	}
}
