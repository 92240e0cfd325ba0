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
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/symbol/symbol-ledger-go/accounts"
	"github.com/symbol/symbol-ledger-go/accounts/emulator"
	"github.com/symbol/symbol-ledger-go/accounts/speculos"
	"github.com/symbol/symbol-ledger-go/accounts/usbwallet"
	"github.com/symbol/symbol-ledger-go/ledger"
	"github.com/tyler-smith/go-bip39"
)

// OpenChannel connects to the device selected by the config.
func OpenChannel(cfg *DeviceConfig) (ledger.Channel, error) {
	switch cfg.Transport {
	case TransportHID:
		hub, err := usbwallet.NewLedgerHub()
		if err != nil {
			return nil, err
		}
		var channel *usbwallet.Channel
		if cfg.URL == "" {
			channel, err = hub.OpenFirst()
		} else {
			var url accounts.URL
			if url, err = accounts.ParseURL(cfg.URL); err == nil {
				channel, err = hub.Open(url)
			}
		}
		if err != nil {
			return nil, err
		}
		return channel, nil

	case TransportSpeculos:
		channel, err := speculos.Dial(cfg.SpeculosAddr, cfg.SpeculosTimeout)
		if err != nil {
			return nil, err
		}
		return channel, nil

	case TransportEmulator:
		mnemonic := cfg.Mnemonic
		if mnemonic == "" {
			entropy, err := bip39.NewEntropy(256)
			if err != nil {
				return nil, err
			}
			if mnemonic, err = bip39.NewMnemonic(entropy); err != nil {
				return nil, err
			}
			log.Warn("Emulated device holds ephemeral keys", "mnemonic", mnemonic)
		}
		device, err := emulator.New(emulator.Config{Mnemonic: mnemonic, Passphrase: cfg.Passphrase})
		if err != nil {
			return nil, err
		}
		device.SetReject(cfg.Reject)
		return device, nil
	}
	return nil, fmt.Errorf("unknown transport %q", cfg.Transport)
}

// MakeSigner opens a traced Symbol app session on the configured device. The
// call metrics are registered with reg unless it is nil.
func MakeSigner(cfg *DeviceConfig, reg prometheus.Registerer) (ledger.Signer, error) {
	channel, err := OpenChannel(cfg)
	if err != nil {
		return nil, err
	}
	session := ledger.New(channel)
	signer, err := ledger.NewTracedSigner(session, cfg.ScrambleKey, reg)
	if err != nil {
		return nil, errors.Join(err, session.Close())
	}
	log.Debug("Opened Symbol app session", "transport", cfg.Transport, "session", session.ID())
	return signer, nil
}

// MakeDerivationPath resolves the derivation path of the configured account.
// An explicit path must belong to the configured network.
func MakeDerivationPath(cfg *AccountConfig) (accounts.DerivationPath, error) {
	text := cfg.Path
	if text == "" {
		text = accounts.BuildPath(cfg.Network, cfg.Account, cfg.Change, cfg.Address)
	}
	if !accounts.IsValidPath(text, cfg.Network) {
		return nil, fmt.Errorf("derivation path %s is not a %v path", text, cfg.Network)
	}
	return accounts.ParseDerivationPath(text)
}
