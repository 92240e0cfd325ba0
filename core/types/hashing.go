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
	"encoding/hex"
	"fmt"
	"hash"
	"strings"
	"sync"

	"golang.org/x/crypto/sha3"
)

// hasherPool holds SHA3-256 hashers for transaction hashing.
var hasherPool = sync.Pool{
	New: func() interface{} { return sha3.New256() },
}

// Hash is the SHA3-256 hash of a Symbol entity.
type Hash [HashLength]byte

// Hex returns the upper case hex form the Symbol REST gateway uses.
func (h Hash) Hex() string {
	return strings.ToUpper(hex.EncodeToString(h[:]))
}

// String implements fmt.Stringer.
func (h Hash) String() string {
	return h.Hex()
}

// SigningBytes returns the bytes a transaction signature covers: the context
// (generation) hash followed by the transaction body. For aggregates only the
// aggregate header is part of it.
//
// SigningBytes 返回交易签名所覆盖的字节：上下文（创世）哈希后接交易主体。对于聚合交易仅包含聚合头。
func SigningBytes(payload []byte, generationHash []byte) ([]byte, error) {
	if len(payload) < BodyOffset {
		return nil, fmt.Errorf("%w: have %d bytes, want at least %d", ErrShortPayload, len(payload), BodyOffset)
	}
	body := payload[BodyOffset:]
	if IsAggregate(payload) && len(body) > aggregateBodySize {
		body = body[:aggregateBodySize]
	}
	out := make([]byte, 0, len(generationHash)+len(body))
	out = append(out, generationHash...)
	return append(out, body...), nil
}

// TransactionHash computes the deterministic hash of a serialized transaction
// on the network identified by the generation hash:
//
//	SHA3-256(signature || signer || generation hash || body)
//
// TransactionHash 计算由创世哈希标识的网络上序列化交易的确定性哈希。
func TransactionHash(payload []byte, generationHash []byte) (h Hash, err error) {
	signing, err := SigningBytes(payload, generationHash)
	if err != nil {
		return Hash{}, err
	}
	sha := hasherPool.Get().(hash.Hash)
	defer hasherPool.Put(sha)
	sha.Reset()
	sha.Write(payload[SignatureOffset : SignerOffset+PublicKeyLength])
	sha.Write(signing)
	sha.Sum(h[:0])
	return h, nil
}
