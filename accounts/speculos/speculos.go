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

// Package speculos implements the APDU channel to a Symbol app running inside
// the Speculos device emulator, reachable over its raw APDU TCP port.
package speculos

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/log"
	"github.com/symbol/symbol-ledger-go/accounts"
	"github.com/symbol/symbol-ledger-go/ledger"
)

// DefaultAddress is the APDU port Speculos listens on unless told otherwise.
const DefaultAddress = "127.0.0.1:9999"

// maxReplySize bounds the reply length announced by the emulator.
const maxReplySize = 1 << 16

// errReplyTooLarge is returned if the emulator announces an implausible reply.
var errReplyTooLarge = errors.New("speculos: reply too large")

// Channel implements ledger.Channel over a Speculos APDU socket. Commands are
// sent as a 4 byte big endian length followed by the APDU, replies arrive as a
// 4 byte big endian data length, the data and the 2 byte status word.
type Channel struct {
	conn    net.Conn
	url     accounts.URL
	timeout time.Duration // Per exchange deadline, zero waits forever
	log     log.Logger

	closeOnce sync.Once
	closeErr  error
}

var _ ledger.Channel = (*Channel)(nil)

// Dial connects to the Speculos APDU port at addr. The timeout bounds the
// connection attempt and each exchange; user confirmations on the emulated
// screen count towards it, so keep it generous or zero.
func Dial(addr string, timeout time.Duration) (*Channel, error) {
	conn, err := net.DialTimeout("tcp", addr, dialTimeout(timeout))
	if err != nil {
		return nil, fmt.Errorf("speculos: failed to connect to %s: %w", addr, err)
	}
	return NewChannel(conn, timeout), nil
}

func dialTimeout(timeout time.Duration) time.Duration {
	if timeout == 0 {
		return 5 * time.Second
	}
	return timeout
}

// NewChannel wraps an established connection into an APDU channel.
func NewChannel(conn net.Conn, timeout time.Duration) *Channel {
	url := accounts.URL{Scheme: accounts.SpeculosScheme, Path: conn.RemoteAddr().String()}
	return &Channel{
		conn:    conn,
		url:     url,
		timeout: timeout,
		log:     log.New("url", url),
	}
}

// URL returns the device URL of the emulator.
func (c *Channel) URL() accounts.URL {
	return c.url
}

// Exchange implements ledger.Channel.
func (c *Channel) Exchange(cmd ledger.Command) ([]byte, error) {
	apdu, err := cmd.Encode()
	if err != nil {
		return nil, err
	}
	if c.timeout > 0 {
		if err := c.conn.SetDeadline(time.Now().Add(c.timeout)); err != nil {
			return nil, err
		}
	}
	request := binary.BigEndian.AppendUint32(make([]byte, 0, 4+len(apdu)), uint32(len(apdu)))
	request = append(request, apdu...)

	c.log.Trace("APDU sent to Speculos", "apdu", hexutil.Bytes(apdu))
	if _, err := c.conn.Write(request); err != nil {
		return nil, err
	}
	var size [4]byte
	if _, err := io.ReadFull(c.conn, size[:]); err != nil {
		return nil, err
	}
	length := binary.BigEndian.Uint32(size[:])
	if length > maxReplySize {
		return nil, fmt.Errorf("%w: %d bytes", errReplyTooLarge, length)
	}
	reply := make([]byte, length+2)
	if _, err := io.ReadFull(c.conn, reply); err != nil {
		return nil, err
	}
	c.log.Trace("APDU reply from Speculos", "reply", hexutil.Bytes(reply))

	if err := ledger.CheckStatus(reply); err != nil {
		return nil, err
	}
	return reply, nil
}

// Close implements ledger.Channel.
func (c *Channel) Close() error {
	c.closeOnce.Do(func() {
		c.closeErr = c.conn.Close()
	})
	return c.closeErr
}
