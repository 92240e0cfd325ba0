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
	"flag"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"github.com/symbol/symbol-ledger-go/accounts"
	"github.com/symbol/symbol-ledger-go/accounts/emulator"
	"github.com/symbol/symbol-ledger-go/ledger"
	"github.com/urfave/cli/v2"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

func newContext(t *testing.T, flags []cli.Flag, args ...string) *cli.Context {
	t.Helper()
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	for _, f := range flags {
		require.NoError(t, f.Apply(set))
	}
	require.NoError(t, set.Parse(args))
	return cli.NewContext(cli.NewApp(), set, nil)
}

func TestMakeDerivationPath(t *testing.T) {
	tests := []struct {
		cfg  AccountConfig
		want string
		fail bool
	}{
		{cfg: AccountConfig{Network: accounts.MainNet}, want: "m/44'/4343'/0'/0'/0'"},
		{cfg: AccountConfig{Network: accounts.TestNet, Account: 3, Change: 1, Address: 2}, want: "m/44'/1'/3'/1'/2'"},
		{cfg: AccountConfig{Network: accounts.TestNet, Account: 3, Path: "m/44'/1'/9'/0'/0'"}, want: "m/44'/1'/9'/0'/0'"},
		{cfg: AccountConfig{Network: accounts.TestNet, Path: "m/44'/4343'/0'/0'/0'"}, fail: true},
		{cfg: AccountConfig{Network: accounts.NetworkType(0x01)}, fail: true},
	}
	for i, tt := range tests {
		path, err := MakeDerivationPath(&tt.cfg)
		if tt.fail {
			require.Error(t, err, "test %d", i)
			continue
		}
		require.NoError(t, err, "test %d", i)
		require.Equal(t, tt.want, path.String(), "test %d", i)
	}
}

func TestSetAccountConfig(t *testing.T) {
	ctx := newContext(t, AccountFlags, "--network", "testnet", "--change", "4", "--optin")

	cfg := AccountConfig{Network: accounts.MainNet, Account: 7}
	require.NoError(t, SetAccountConfig(ctx, &cfg))
	require.Equal(t, AccountConfig{Network: accounts.TestNet, Account: 7, Change: 4, OptIn: true}, cfg)

	ctx = newContext(t, AccountFlags, "--network", "private")
	require.ErrorIs(t, SetAccountConfig(ctx, &cfg), accounts.ErrUnknownNetwork)
}

func TestSetDeviceConfig(t *testing.T) {
	ctx := newContext(t, append(DeviceFlags, MetricsFlags...), "--transport", "speculos", "--speculos.addr", "10.0.0.1:9999", "--scramble-key", "ABC")

	cfg := DefaultDeviceConfig
	SetDeviceConfig(ctx, &cfg)
	require.Equal(t, TransportSpeculos, cfg.Transport)
	require.Equal(t, "10.0.0.1:9999", cfg.SpeculosAddr)
	require.Equal(t, DefaultDeviceConfig.SpeculosTimeout, cfg.SpeculosTimeout)
	require.Equal(t, "ABC", cfg.ScrambleKey)
}

func TestOpenChannelUnknownTransport(t *testing.T) {
	_, err := OpenChannel(&DeviceConfig{Transport: "bluetooth"})
	require.ErrorContains(t, err, "bluetooth")
}

func TestMakeSignerEmulator(t *testing.T) {
	cfg := DefaultDeviceConfig
	cfg.Transport = TransportEmulator
	cfg.Mnemonic = testMnemonic

	signer, err := MakeSigner(&cfg, nil)
	require.NoError(t, err)
	defer signer.Close()

	version, err := signer.AppVersion()
	require.NoError(t, err)
	require.Equal(t, emulator.DefaultVersion, version)

	supported, err := signer.IsAppSupported()
	require.NoError(t, err)
	require.True(t, supported)
	require.Equal(t, ledger.MinimumAppVersion, signer.ExpectedAppVersion())
}

func TestMakeSignerEphemeralEmulator(t *testing.T) {
	cfg := DefaultDeviceConfig
	cfg.Transport = TransportEmulator

	signer, err := MakeSigner(&cfg, nil)
	require.NoError(t, err)
	require.NoError(t, signer.Close())
}

func TestMakeSignerRegistrationConflict(t *testing.T) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewCounter(prometheus.CounterOpts{Name: "symledger_ledger_calls_total", Help: "Something else."}))

	cfg := DefaultDeviceConfig
	cfg.Transport = TransportEmulator
	cfg.Mnemonic = testMnemonic

	signer, err := MakeSigner(&cfg, reg)
	require.ErrorContains(t, err, "symledger_ledger_calls_total")
	require.Nil(t, signer)
}
