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

package usbwallet

import (
	"encoding/binary"
	"errors"
	"io"
	"sync"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/log"
	"github.com/symbol/symbol-ledger-go/ledger"
)

const (
	hidPacketSize = 64     // Size of every HID report exchanged with the device
	hidChannelID  = 0x0101 // Ledger transport channel
	hidCommandTag = 0x05   // APDU tag of the Ledger transport
)

// errReplyInvalidHeader is returned by a data exchange if the device replies
// with a mismatching header. This usually means the device is in browser mode.
var errReplyInvalidHeader = errors.New("usbwallet: invalid reply header")

// Channel implements ledger.Channel on top of the Ledger HID framing.
//
// Channel 在 Ledger HID 分帧之上实现 ledger.Channel。
type Channel struct {
	device io.ReadWriteCloser // USB device connection to communicate through
	log    log.Logger         // Contextual logger to tag the channel with its device

	closeOnce sync.Once
	closeErr  error
}

var _ ledger.Channel = (*Channel)(nil)

// NewChannel wraps an opened HID connection into an APDU channel.
func NewChannel(device io.ReadWriteCloser, logger log.Logger) *Channel {
	return &Channel{device: device, log: logger}
}

// Exchange implements ledger.Channel. The command is wrapped in the transport
// framing below and streamed in 64 byte packets, the reply is read back the
// same way:
//
//	Description                      | Length
//	---------------------------------+--------
//	Channel ID (0x0101)              | 2 bytes
//	Command tag (0x05)               | 1 byte
//	Packet sequence index            | 2 bytes
//	Payload length (first packet)    | 2 bytes
//	Payload                          | arbitrary
//
// The returned reply retains its trailing status word.
func (c *Channel) Exchange(cmd ledger.Command) ([]byte, error) {
	apdu, err := cmd.Encode()
	if err != nil {
		return nil, err
	}
	// Construct the message payload, possibly split into multiple packets
	message := make([]byte, 2, 2+len(apdu))
	binary.BigEndian.PutUint16(message, uint16(len(apdu)))
	message = append(message, apdu...)

	// Stream all the packets to the device
	header := []byte{hidChannelID >> 8, hidChannelID & 0xff, hidCommandTag, 0x00, 0x00}
	packet := make([]byte, 0, hidPacketSize)
	space := hidPacketSize - len(header)

	for i := 0; len(message) > 0; i++ {
		packet = append(packet[:0], header...)
		binary.BigEndian.PutUint16(packet[3:], uint16(i))

		if len(message) > space {
			packet = append(packet, message[:space]...)
			message = message[space:]
		} else {
			packet = append(packet, message...)
			message = nil
		}
		c.log.Trace("Data chunk sent to the Ledger", "chunk", hexutil.Bytes(packet))
		if _, err := c.device.Write(packet); err != nil {
			return nil, err
		}
	}
	// Stream the reply back from the wallet in 64 byte packets
	var reply []byte
	packet = packet[:hidPacketSize]
	for {
		if _, err := io.ReadFull(c.device, packet); err != nil {
			return nil, err
		}
		c.log.Trace("Data chunk received from the Ledger", "chunk", hexutil.Bytes(packet))

		// Make sure the transport header matches
		if packet[0] != header[0] || packet[1] != header[1] || packet[2] != header[2] {
			return nil, errReplyInvalidHeader
		}
		// If it's the first packet, retrieve the total message length
		var payload []byte

		if packet[3] == 0x00 && packet[4] == 0x00 {
			reply = make([]byte, 0, int(binary.BigEndian.Uint16(packet[5:7])))
			payload = packet[7:]
		} else {
			payload = packet[5:]
		}
		// Append to the reply and stop when filled up
		if left := cap(reply) - len(reply); left > len(payload) {
			reply = append(reply, payload...)
		} else {
			reply = append(reply, payload[:left]...)
			break
		}
	}
	if err := ledger.CheckStatus(reply); err != nil {
		return nil, err
	}
	return reply, nil
}

// Close implements ledger.Channel, releasing the USB connection once.
func (c *Channel) Close() error {
	c.closeOnce.Do(func() {
		c.closeErr = c.device.Close()
	})
	return c.closeErr
}
