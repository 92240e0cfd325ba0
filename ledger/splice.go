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

package ledger

import (
	"fmt"

	"github.com/symbol/symbol-ledger-go/core/types"
)

// signingPayload assembles the bytes streamed to the device for signing. The
// reserved entity header (size, empty signature and signer slots) is replaced
// by the 32 byte context hash:
//
//	contextHash || serialized[108:]
func signingPayload(contextHash []byte, serialized []byte) ([]byte, error) {
	if len(contextHash) != types.HashLength {
		return nil, fmt.Errorf("invalid context hash length %d, want %d", len(contextHash), types.HashLength)
	}
	if len(serialized) < types.BodyOffset {
		return nil, fmt.Errorf("%w: have %d bytes, want at least %d", types.ErrShortPayload, len(serialized), types.BodyOffset)
	}
	out := make([]byte, 0, types.HashLength+len(serialized)-types.BodyOffset)
	out = append(out, contextHash...)
	return append(out, serialized[types.BodyOffset:]...), nil
}

// spliceSignature rebuilds a serialized transaction with the signature and
// the signer public key filled into their reserved slots:
//
//	serialized[:8] || signature || signerPublicKey || serialized[104:]
//
// spliceSignature 将签名和签名者公钥填入预留槽位，重建序列化交易。
func spliceSignature(serialized []byte, signature []byte, signerPublicKey []byte) ([]byte, error) {
	if len(signature) != types.SignatureLength {
		return nil, fmt.Errorf("invalid signature length %d, want %d", len(signature), types.SignatureLength)
	}
	if len(signerPublicKey) != types.PublicKeyLength {
		return nil, fmt.Errorf("invalid signer public key length %d, want %d", len(signerPublicKey), types.PublicKeyLength)
	}
	if len(serialized) < types.BodyOffset {
		return nil, fmt.Errorf("%w: have %d bytes, want at least %d", types.ErrShortPayload, len(serialized), types.BodyOffset)
	}
	const tail = types.SignerOffset + types.PublicKeyLength

	out := make([]byte, 0, len(serialized))
	out = append(out, serialized[:types.SignatureOffset]...)
	out = append(out, signature...)
	out = append(out, signerPublicKey...)
	return append(out, serialized[tail:]...), nil
}
