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

// Package emulator implements an in-process simulation of the Symbol app on a
// Ledger device. It speaks the same APDU protocol as the hardware and is meant
// for tests and for exercising tooling without a device at hand.
package emulator

import (
	"crypto/ed25519"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/log"
	"github.com/symbol/symbol-ledger-go/accounts"
	"github.com/symbol/symbol-ledger-go/ledger"
	"github.com/tyler-smith/go-bip39"
)

const (
	maxPathSegments = 10        // Deepest derivation path the app accepts
	maxPayloadSize  = 10 * 1024 // Largest signing payload the app buffers

	p1More = ledger.P1FirstMore // Set on every chunk followed by more
	p1Next = ledger.P1NextLast  // Set on every continuation chunk
)

// DefaultVersion is the Symbol app version reported unless configured.
var DefaultVersion = ledger.Version{Major: 1, Minor: 0, Patch: 2}

// ErrDeviceClosed is returned by exchanges on a closed emulator.
var ErrDeviceClosed = errors.New("emulator: device closed")

// Config contains the settings of an emulated device.
type Config struct {
	Name       string         // Device name used in its URL
	Mnemonic   string         // BIP-39 mnemonic the device keys derive from
	Passphrase string         // Optional BIP-39 passphrase
	Version    ledger.Version // Reported app version, DefaultVersion if zero
}

// pendingSignature is the signing state accumulated across chunks.
type pendingSignature struct {
	path    accounts.DerivationPath
	optin   bool
	payload []byte
}

// Device is an emulated Ledger running the Symbol app. It implements
// ledger.Channel.
//
// Device 是运行 Symbol 应用的模拟 Ledger 设备，实现了 ledger.Channel。
type Device struct {
	seed    []byte
	version ledger.Version
	url     accounts.URL
	log     log.Logger

	reject  bool              // Whether the emulated user rejects every confirmation
	pending *pendingSignature // Signing payload received so far, nil if idle
	closed  bool

	lock sync.Mutex
}

var _ ledger.Channel = (*Device)(nil)

// New creates an emulated device holding the keys of the configured mnemonic.
func New(config Config) (*Device, error) {
	seed, err := bip39.NewSeedWithErrorChecking(config.Mnemonic, config.Passphrase)
	if err != nil {
		return nil, fmt.Errorf("emulator: invalid mnemonic: %w", err)
	}
	version := config.Version
	if version == (ledger.Version{}) {
		version = DefaultVersion
	}
	name := config.Name
	if name == "" {
		name = "symbol"
	}
	url := accounts.URL{Scheme: accounts.EmulatorScheme, Path: name}
	return &Device{
		seed:    seed,
		version: version,
		url:     url,
		log:     log.New("url", url),
	}, nil
}

// URL returns the device URL of the emulator.
func (d *Device) URL() accounts.URL {
	return d.url
}

// SetReject configures the emulated user to reject (or approve) every request
// that needs on-device confirmation.
func (d *Device) SetReject(reject bool) {
	d.lock.Lock()
	defer d.lock.Unlock()

	d.reject = reject
}

// PublicKey derives the public key the device reports for a path.
func (d *Device) PublicKey(path accounts.DerivationPath, optin bool) (ed25519.PublicKey, error) {
	key, err := d.derive(path, optin)
	if err != nil {
		return nil, err
	}
	return key.public(), nil
}

func (d *Device) derive(path accounts.DerivationPath, optin bool) (*derivedKey, error) {
	if optin {
		return deriveOptIn(d.seed, path)
	}
	return deriveEd25519(d.seed, path)
}

// Exchange implements ledger.Channel, processing one command the way the
// Symbol app does. Replies retain their status word; failing status words are
// returned as *ledger.StatusError like the hardware transports do.
func (d *Device) Exchange(cmd ledger.Command) ([]byte, error) {
	d.lock.Lock()
	defer d.lock.Unlock()

	if d.closed {
		return nil, ErrDeviceClosed
	}
	d.log.Trace("Emulator received command", "cmd", cmd)

	data, sw := d.handle(cmd)
	reply := binary.BigEndian.AppendUint16(data, sw)

	d.log.Trace("Emulator replied", "reply", hexutil.Bytes(reply))
	if err := ledger.CheckStatus(reply); err != nil {
		return nil, err
	}
	return reply, nil
}

// Close implements ledger.Channel. Pending signing state is discarded.
func (d *Device) Close() error {
	d.lock.Lock()
	defer d.lock.Unlock()

	d.closed, d.pending = true, nil
	return nil
}

// handle dispatches a command, returning the reply data and status word.
func (d *Device) handle(cmd ledger.Command) ([]byte, uint16) {
	if cmd.Cla != 0xe0 {
		return nil, ledger.StatusClaNotSupported
	}
	switch cmd.Ins {
	case ledger.OpGetVersion:
		return []byte{0x00, d.version.Major, d.version.Minor, d.version.Patch}, ledger.StatusOK
	case ledger.OpGetAccount:
		return d.handleAccount(cmd)
	case ledger.OpSignTransaction:
		return d.handleSign(cmd)
	default:
		return nil, ledger.StatusInsNotSupported
	}
}

// curve decodes the curve selection of p2.
func curve(p2 ledger.Param2) (optin bool, chainCode bool, ok bool) {
	chainCode = p2&ledger.P2ChainCode != 0
	switch p2 &^ ledger.P2ChainCode {
	case ledger.P2Ed25519:
		return false, chainCode, true
	case ledger.P2OptIn:
		return true, chainCode, true
	}
	return false, false, false
}

// readPath decodes the embedded derivation path at the start of data, returning
// the bytes following it.
func readPath(data []byte) (accounts.DerivationPath, []byte, bool) {
	if len(data) == 0 {
		return nil, nil, false
	}
	count := int(data[0])
	if count == 0 || count > maxPathSegments || len(data) < 1+4*count {
		return nil, nil, false
	}
	path := make(accounts.DerivationPath, count)
	for i := range path {
		path[i] = binary.BigEndian.Uint32(data[1+4*i:])
	}
	return path, data[1+4*count:], true
}

func (d *Device) handleAccount(cmd ledger.Command) ([]byte, uint16) {
	optin, chainCode, ok := curve(cmd.P2)
	if !ok || (cmd.P1 != ledger.P1NoConfirm && cmd.P1 != ledger.P1Confirm) {
		return nil, ledger.StatusWrongParameters
	}
	path, rest, ok := readPath(cmd.Data)
	if !ok || len(rest) != 1 {
		return nil, ledger.StatusInvalidData
	}
	key, err := d.derive(path, optin)
	if err != nil {
		return nil, ledger.StatusInvalidData
	}
	if cmd.P1 == ledger.P1Confirm && d.reject {
		return nil, ledger.StatusRejectedByUser
	}
	reply := append([]byte{ed25519.PublicKeySize}, key.public()...)
	if chainCode {
		reply = append(reply, key.chainCode...)
	}
	return reply, ledger.StatusOK
}

func (d *Device) handleSign(cmd ledger.Command) ([]byte, uint16) {
	optin, _, ok := curve(cmd.P2)
	if !ok {
		return nil, ledger.StatusWrongParameters
	}
	if cmd.P1&^(p1More|p1Next) != 0 {
		return nil, ledger.StatusWrongParameters
	}
	var (
		first = cmd.P1&p1Next == 0
		more  = cmd.P1&p1More != 0
	)
	if first {
		// A new first chunk always restarts the signing flow
		path, rest, ok := readPath(cmd.Data)
		if !ok {
			d.pending = nil
			return nil, ledger.StatusInvalidData
		}
		d.pending = &pendingSignature{path: path, optin: optin, payload: append([]byte(nil), rest...)}
	} else {
		if d.pending == nil || d.pending.optin != optin {
			d.pending = nil
			return nil, ledger.StatusInvalidData
		}
		d.pending.payload = append(d.pending.payload, cmd.Data...)
	}
	if len(d.pending.payload) > maxPayloadSize {
		d.pending = nil
		return nil, ledger.StatusTooLarge
	}
	if more {
		return nil, ledger.StatusOK
	}
	pending := d.pending
	d.pending = nil

	if d.reject {
		return nil, ledger.StatusRejectedByUser
	}
	key, err := d.derive(pending.path, pending.optin)
	if err != nil {
		return nil, ledger.StatusInvalidData
	}
	d.log.Debug("Emulator signing payload", "path", pending.path, "size", len(pending.payload))
	return ed25519.Sign(key.private, pending.payload), ledger.StatusOK
}
