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
	"bytes"
	"encoding/hex"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/symbol/symbol-ledger-go/accounts"
	"github.com/symbol/symbol-ledger-go/accounts/emulator"
	"github.com/symbol/symbol-ledger-go/ledger"
)

const (
	testMnemonic       = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"
	testGenerationHash = "3B5E1FA6445653C971A50687E75E6D09FB30481055E3990C84B25E9222DC1155"
)

// runApp executes the command line with the given arguments and returns what
// it printed.
func runApp(t *testing.T, args ...string) string {
	t.Helper()
	out, err := tryApp(t, args...)
	require.NoError(t, err)
	return out
}

func tryApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	app.Writer = &buf
	err := app.Run(append([]string{clientIdentifier}, args...))
	return buf.String(), err
}

func emulatorArgs(args ...string) []string {
	return append([]string{"--transport", "emulator", "--emulator.mnemonic", testMnemonic, "--network", "testnet"}, args...)
}

func emulatorKey(t *testing.T, account uint32) string {
	t.Helper()
	device, err := emulator.New(emulator.Config{Mnemonic: testMnemonic})
	require.NoError(t, err)
	path, err := accounts.ParseDerivationPath(accounts.BuildPath(accounts.TestNet, account, 0, 0))
	require.NoError(t, err)
	key, err := device.PublicKey(path, false)
	require.NoError(t, err)
	return hex.EncodeToString(key)
}

// testTransfer is an unsigned testnet transfer with a 16 byte message.
func testTransfer() string {
	return "" +
		"B000000000000000" +
		strings.Repeat("00", 64) + strings.Repeat("00", 32) +
		"00000000" + "0198544120A1070000000000" +
		"204F5F1C00000000" +
		"98E04DC8C7F6ED4FE6D55DC6B2B3A2D5CC1C3D8CE33CE1CC" +
		"1000" + "00" + "00000000" + "00" +
		"00000000000000000000000000000000"
}

func TestVersionCommand(t *testing.T) {
	out := runApp(t, "version")
	require.Contains(t, out, clientIdentifier)
	require.Contains(t, out, "Go Version:")
}

func TestAccountCommand(t *testing.T) {
	out := runApp(t, emulatorArgs("--account", "1", "account")...)
	require.Contains(t, out, "m/44'/1'/1'/0'/0'")
	require.Contains(t, out, emulatorKey(t, 1))
}

func TestAccountsCommand(t *testing.T) {
	out := runApp(t, emulatorArgs("accounts", "--count", "3")...)
	for account := uint32(0); account < 3; account++ {
		require.Contains(t, out, emulatorKey(t, account))
	}
	require.NotContains(t, out, "m/44'/1'/3'/0'/0'")
}

func TestAccountInvalidPath(t *testing.T) {
	_, err := tryApp(t, emulatorArgs("--path", "m/44'/4343'/0'/0'/0'", "account")...)
	require.Error(t, err)
}

func TestAppVersionCommand(t *testing.T) {
	out := runApp(t, emulatorArgs("appversion")...)
	require.Contains(t, out, emulator.DefaultVersion.String())
	require.Contains(t, out, "supported: true")
}

func TestSignCommand(t *testing.T) {
	out := runApp(t, emulatorArgs("--metrics", "sign", "--tx", testTransfer(), "--generation-hash", testGenerationHash)...)
	require.Contains(t, out, "Signer:    "+emulatorKey(t, 0))
	require.Contains(t, out, "Payload:   B0000000")
	require.Contains(t, out, "symledger_ledger_calls_total")
}

func TestSignCommandMissingInputs(t *testing.T) {
	_, err := tryApp(t, emulatorArgs("sign", "--tx", testTransfer())...)
	require.ErrorIs(t, err, errMissingGenerationHash)

	_, err = tryApp(t, emulatorArgs("sign", "--generation-hash", testGenerationHash)...)
	require.ErrorIs(t, err, errMissingTransaction)
}

func TestSignCommandRejected(t *testing.T) {
	_, err := tryApp(t, emulatorArgs("--emulator.reject", "sign", "--tx", testTransfer(), "--generation-hash", testGenerationHash)...)
	require.Error(t, err)
}

func TestCosignNonAggregate(t *testing.T) {
	_, err := tryApp(t, emulatorArgs("cosign", "--tx", testTransfer(), "--generation-hash", testGenerationHash)...)
	require.ErrorContains(t, err, "not an aggregate")
}

// closeSigner records Close calls and fails them with err. Other methods are
// not implemented.
type closeSigner struct {
	ledger.Signer
	closes int
	err    error
}

func (s *closeSigner) Close() error {
	s.closes++
	return s.err
}

func TestRunSignerClose(t *testing.T) {
	var (
		errClose = errors.New("close failed")
		errRun   = errors.New("run failed")
		cfg      symledgerConfig
	)
	// Close failure surfaces if the command succeeded
	signer := &closeSigner{err: errClose}
	err := runSigner(signer, &cfg, func(ledger.Signer, *symledgerConfig) error { return nil })
	require.ErrorIs(t, err, errClose)
	require.Equal(t, 1, signer.closes)

	// Command failure takes precedence
	signer = &closeSigner{err: errClose}
	err = runSigner(signer, &cfg, func(ledger.Signer, *symledgerConfig) error { return errRun })
	require.ErrorIs(t, err, errRun)
	require.Equal(t, 1, signer.closes)

	// Signer is closed even if the command panics
	signer = &closeSigner{}
	require.Panics(t, func() {
		runSigner(signer, &cfg, func(ledger.Signer, *symledgerConfig) error { panic("boom") })
	})
	require.Equal(t, 1, signer.closes)
}
