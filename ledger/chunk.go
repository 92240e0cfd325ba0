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
	"encoding/binary"

	"github.com/symbol/symbol-ledger-go/accounts"
)

// encodePath serializes a derivation path the way every Symbol app command
// embeds it: a segment count followed by the big endian segments.
func encodePath(path accounts.DerivationPath) []byte {
	out := make([]byte, 1+4*len(path))
	out[0] = byte(len(path))
	for i, component := range path {
		binary.BigEndian.PutUint32(out[1+4*i:], component)
	}
	return out
}

// splitPayload slices a signing payload into the ordered list of commands the
// device accepts. The first chunk embeds the derivation path in front of the
// payload and so has less room for it, continuation chunks carry payload bytes
// only. An empty payload still produces a single chunk with the path.
//
// splitPayload 将签名负载切分为设备可接受的有序命令列表。第一个分块在负载前嵌入派生路径，
// 后续分块仅携带负载字节。空负载仍会生成一个仅包含路径的分块。
func splitPayload(path accounts.DerivationPath, payload []byte, optin bool, chainCode bool) []Command {
	var (
		header = encodePath(path)
		p2     = curveParam(optin, chainCode)
		cmds   []Command
	)
	for offset := 0; offset < len(payload) || len(cmds) == 0; {
		first := len(cmds) == 0

		capacity := MaxChunkSize
		if first {
			capacity -= len(header)
		}
		size := min(len(payload)-offset, capacity)

		data := make([]byte, 0, MaxChunkSize)
		if first {
			data = append(data, header...)
		}
		data = append(data, payload[offset:offset+size]...)
		offset += size

		// A chunk filled to capacity is flagged as having a successor.
		cmds = append(cmds, newCommand(OpSignTransaction, chunkParam(first, size == capacity), p2, data))
	}
	return cmds
}
