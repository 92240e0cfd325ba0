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

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/log"
)

// desyncSentinel is the rendering of a final reply that consists of nothing but
// the success status word, i.e. the device acknowledged the chunk and is still
// waiting for more data.
const desyncSentinel = "0x9000"

// Channel is a blocking request/response transport to the Symbol app. Replies
// carry the trailing status word, implementations convert failing status words
// into *StatusError.
//
// Channel 是到 Symbol 应用的阻塞式请求/响应传输。应答包含末尾的状态字。
type Channel interface {
	// Exchange sends a single command and waits for the matching reply.
	Exchange(cmd Command) ([]byte, error)

	// Close releases the underlying device connection.
	Close() error
}

// exchangeChunks streams the commands to the device strictly in order, one
// round trip at a time. Only the reply to the last command is returned, the
// device accumulates state across chunks and only answers meaningfully at the
// end. Any failure aborts the stream, a retry has to start from the first
// chunk again.
func exchangeChunks(channel Channel, cmds []Command, logger log.Logger) ([]byte, error) {
	var reply []byte
	for i, cmd := range cmds {
		logger.Trace("Data chunk sent to the Ledger", "index", i, "p1", fmt.Sprintf("%#02x", byte(cmd.P1)), "chunk", hexutil.Bytes(cmd.Data))

		var err error
		if reply, err = channel.Exchange(cmd); err != nil {
			return nil, &ChannelError{Op: fmt.Sprintf("chunk %d/%d", i+1, len(cmds)), Err: err}
		}
		logger.Trace("Data chunk acknowledged by the Ledger", "index", i, "reply", hexutil.Bytes(reply))
	}
	if hexutil.Encode(reply) == desyncSentinel {
		return nil, &ProtocolDesyncError{Chunks: len(cmds), Reply: reply}
	}
	return reply, nil
}
