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

package types

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"
)

// Cosignature is a detached signature over an aggregate transaction hash. It
// is appended to the aggregate by the announcing party, the aggregate bytes
// themselves never change.
type Cosignature struct {
	Version         uint64
	SignerPublicKey [PublicKeyLength]byte
	Signature       [SignatureLength]byte
}

// NewCosignature assembles a version zero cosignature from hex encoded parts.
func NewCosignature(signerPublicKey, signature string) (*Cosignature, error) {
	var c Cosignature
	if err := decodeFixed(c.SignerPublicKey[:], signerPublicKey); err != nil {
		return nil, fmt.Errorf("invalid signer public key: %w", err)
	}
	if err := decodeFixed(c.Signature[:], signature); err != nil {
		return nil, fmt.Errorf("invalid signature: %w", err)
	}
	return &c, nil
}

// Serialize returns the binary layout of the cosignature:
//
//	version (8 bytes LE) || signer public key (32 bytes) || signature (64 bytes)
func (c *Cosignature) Serialize() []byte {
	out := make([]byte, 8, 8+PublicKeyLength+SignatureLength)
	binary.LittleEndian.PutUint64(out, c.Version)
	out = append(out, c.SignerPublicKey[:]...)
	return append(out, c.Signature[:]...)
}

// Hex returns the serialized cosignature in upper case hex.
func (c *Cosignature) Hex() string {
	return strings.ToUpper(hex.EncodeToString(c.Serialize()))
}

func decodeFixed(dst []byte, input string) error {
	blob, err := hex.DecodeString(input)
	if err != nil {
		return err
	}
	if len(blob) != len(dst) {
		return fmt.Errorf("have %d bytes, want %d", len(blob), len(dst))
	}
	copy(dst, blob)
	return nil
}
