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

package emulator

import (
	"crypto/ed25519"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/symbol/symbol-ledger-go/accounts"
)

// slip10Curve is the HMAC key of the SLIP-0010 Ed25519 master derivation.
var slip10Curve = []byte("ed25519 seed")

// errUnhardenedSegment is returned for Ed25519 derivations of a public child,
// which SLIP-0010 does not define.
var errUnhardenedSegment = errors.New("ed25519 derivation requires hardened segments")

// derivedKey is a private key along with the chain code of its derivation.
type derivedKey struct {
	private   ed25519.PrivateKey
	chainCode []byte
}

func (k *derivedKey) public() ed25519.PublicKey {
	return k.private.Public().(ed25519.PublicKey)
}

// deriveEd25519 runs the SLIP-0010 Ed25519 derivation of seed along path.
func deriveEd25519(seed []byte, path accounts.DerivationPath) (*derivedKey, error) {
	mac := hmac.New(sha512.New, slip10Curve)
	mac.Write(seed)
	sum := mac.Sum(nil)
	key, chainCode := sum[:32], sum[32:]

	for _, segment := range path {
		if segment < accounts.HardenedBit {
			return nil, fmt.Errorf("%w: %d", errUnhardenedSegment, segment)
		}
		mac = hmac.New(sha512.New, chainCode)
		mac.Write([]byte{0x00})
		mac.Write(key)
		mac.Write(binary.BigEndian.AppendUint32(nil, segment))
		sum = mac.Sum(nil)
		key, chainCode = sum[:32], sum[32:]
	}
	return &derivedKey{private: ed25519.NewKeyFromSeed(key), chainCode: chainCode}, nil
}

// deriveOptIn runs a BIP-32 secp256k1 derivation of seed along path and uses
// the resulting private scalar as the Ed25519 seed, the way opt-in wallets
// recover their keys.
func deriveOptIn(seed []byte, path accounts.DerivationPath) (*derivedKey, error) {
	ext, err := hdkeychain.NewMaster(seed, &chaincfg.MainNetParams)
	if err != nil {
		return nil, err
	}
	for _, segment := range path {
		if ext, err = ext.Derive(segment); err != nil {
			return nil, err
		}
	}
	priv, err := ext.ECPrivKey()
	if err != nil {
		return nil, err
	}
	return &derivedKey{private: ed25519.NewKeyFromSeed(priv.Serialize()), chainCode: ext.ChainCode()}, nil
}
