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

// Package types contains the minimal view of Symbol transactions the Ledger
// client needs: access to the canonical serialized form and the deterministic
// transaction hash.
package types

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// Layout of the verifiable entity header every serialized Symbol transaction
// starts with.
//
//	Description                  | Offset | Length
//	-----------------------------+--------+--------
//	Size (little endian)         | 0      | 4 bytes
//	Reserved                     | 4      | 4 bytes
//	Signature                    | 8      | 64 bytes
//	Signer public key            | 72     | 32 bytes
//	Reserved                     | 104    | 4 bytes
//	Version                      | 108    | 1 byte
//	Network                      | 109    | 1 byte
//	Entity type (little endian)  | 110    | 2 bytes
//
// 每个序列化的 Symbol 交易都以可验证实体头开始，布局如上。
const (
	SizePrefixLength  = 8  // Size field plus the reserved word after it
	SignatureLength   = 64 // Ed25519 signature
	PublicKeyLength   = 32 // Ed25519 public key
	HashLength        = 32 // SHA3-256 digest, also the generation hash size
	entityReserved    = 4  // Reserved word between the signer key and the body
	entityTypeOffset  = 110
	aggregateBodySize = 52 // Aggregate body bytes covered by its signature

	SignatureOffset = SizePrefixLength
	SignerOffset    = SignatureOffset + SignatureLength
	BodyOffset      = SignerOffset + PublicKeyLength + entityReserved
)

// Aggregate entity types. Only the aggregate header is covered by the hash of
// these, embedded transactions are committed through the transactions hash.
const (
	AggregateCompleteType uint16 = 0x4141
	AggregateBondedType   uint16 = 0x4241
)

// ErrShortPayload is returned if a serialized transaction is too small to
// contain the verifiable entity header.
var ErrShortPayload = errors.New("serialized transaction shorter than entity header")

// Transaction is the serializer collaborator of the Ledger client. Any Symbol
// transaction model able to produce its canonical hex form satisfies it.
//
// Transaction 是 Ledger 客户端的序列化协作者。任何能够生成规范十六进制形式的 Symbol 交易模型都满足该接口。
type Transaction interface {
	// Serialize returns the canonical serialized form of the transaction, hex
	// encoded, with the signature and signer slots zero filled.
	Serialize() (string, error)
}

// RawTransaction is a transaction that has already been serialized by some
// external tool, e.g. an SDK or a wallet backend.
type RawTransaction struct {
	payload []byte
}

// NewRawTransaction validates a hex encoded serialized transaction and wraps
// it into a Transaction.
func NewRawTransaction(payload string) (*RawTransaction, error) {
	blob, err := hex.DecodeString(strings.TrimPrefix(payload, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid transaction hex: %w", err)
	}
	if len(blob) < BodyOffset {
		return nil, fmt.Errorf("%w: have %d bytes, want at least %d", ErrShortPayload, len(blob), BodyOffset)
	}
	return &RawTransaction{payload: blob}, nil
}

// Serialize implements Transaction.
func (tx *RawTransaction) Serialize() (string, error) {
	return strings.ToUpper(hex.EncodeToString(tx.payload)), nil
}

// Bytes returns a copy of the serialized transaction.
func (tx *RawTransaction) Bytes() []byte {
	return append([]byte(nil), tx.payload...)
}

// Size returns the size declared in the entity header.
func (tx *RawTransaction) Size() uint32 {
	return binary.LittleEndian.Uint32(tx.payload)
}

// Type returns the entity type of the transaction.
func (tx *RawTransaction) Type() uint16 {
	return EntityType(tx.payload)
}

// EntityType extracts the entity type of a serialized transaction, or zero if
// the payload is too short to contain one.
func EntityType(payload []byte) uint16 {
	if len(payload) < entityTypeOffset+2 {
		return 0
	}
	return binary.LittleEndian.Uint16(payload[entityTypeOffset:])
}

// IsAggregate reports whether the serialized transaction is an aggregate.
func IsAggregate(payload []byte) bool {
	switch EntityType(payload) {
	case AggregateCompleteType, AggregateBondedType:
		return true
	}
	return false
}
