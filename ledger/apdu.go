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

// Package ledger implements the host side of the Symbol Ledger application
// protocol: command framing, payload chunking and the signing flows built on
// top of them. The protocol itself is documented in the Symbol app repository:
// https://github.com/symbol/ledger-app-symbol
package ledger

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Opcode is an enumeration encoding the supported Symbol app instructions.
type Opcode byte

// Param1 is an enumeration encoding the first command parameter. The same
// values are reused between opcodes with different meanings.
type Param1 byte

// Param2 is an enumeration encoding the second command parameter. For every
// opcode it selects the signing curve and whether a chain code is requested.
type Param2 byte

const (
	claSymbol byte = 0xe0 // Class byte of every Symbol app command

	OpGetAccount      Opcode = 0x02 // Returns the public key for a given BIP 32 path
	OpSignTransaction Opcode = 0x04 // Signs a transaction after having the user validate it
	OpGetVersion      Opcode = 0x06 // Returns the version of the Symbol app

	P1NoConfirm Param1 = 0x00 // Return the public key directly from the wallet
	P1Confirm   Param1 = 0x01 // Show the public key on screen before returning it

	P1FirstLast Param1 = 0x00 // Only chunk of a signing payload
	P1FirstMore Param1 = 0x80 // First chunk of a signing payload, more follow
	P1NextLast  Param1 = 0x01 // Final continuation chunk of a signing payload
	P1NextMore  Param1 = 0x81 // Continuation chunk, more follow

	P2Ed25519   Param2 = 0x80 // Standard Ed25519 derivation
	P2OptIn     Param2 = 0x40 // Alternate derivation used by opt-in wallets
	P2ChainCode Param2 = 0x01 // Return the chain code along with the key

	// MaxChunkSize is the largest payload a single command can carry.
	MaxChunkSize = 255
)

// p1 bit masks of the chunk states.
const (
	p1MaskMore Param1 = 0x80
	p1MaskNext Param1 = 0x01
)

// errCommandTooLarge is returned if a command payload exceeds what the single
// length byte of the frame can describe.
var errCommandTooLarge = errors.New("ledger: command payload too large")

// Command is a single Symbol app APDU: a fixed header followed by a payload of
// at most MaxChunkSize bytes.
//
// Command 是单个 Symbol 应用 APDU：固定头部后接最多 MaxChunkSize 字节的负载。
type Command struct {
	Cla  byte
	Ins  Opcode
	P1   Param1
	P2   Param2
	Data []byte
}

// newCommand creates a Symbol app command with the standard class byte.
func newCommand(op Opcode, p1 Param1, p2 Param2, data []byte) Command {
	return Command{Cla: claSymbol, Ins: op, P1: p1, P2: p2, Data: data}
}

// Encode serializes the command into its wire form:
//
//	cla || ins || p1 || p2 || len(data) || data
func (c Command) Encode() ([]byte, error) {
	if len(c.Data) > MaxChunkSize {
		return nil, fmt.Errorf("%w: %d bytes", errCommandTooLarge, len(c.Data))
	}
	apdu := make([]byte, 0, 5+len(c.Data))
	apdu = append(apdu, c.Cla, byte(c.Ins), byte(c.P1), byte(c.P2), byte(len(c.Data)))
	return append(apdu, c.Data...), nil
}

// String implements fmt.Stringer, used when tracing commands.
func (c Command) String() string {
	return fmt.Sprintf("cla=%#02x ins=%#02x p1=%#02x p2=%#02x data=%s", c.Cla, byte(c.Ins), byte(c.P1), byte(c.P2), hexutil.Bytes(c.Data))
}

// DecodeCommand parses the wire form of a command, the inverse of Encode.
func DecodeCommand(apdu []byte) (Command, error) {
	if len(apdu) < 5 {
		return Command{}, fmt.Errorf("ledger: short command: %d bytes", len(apdu))
	}
	if size := int(apdu[4]); len(apdu) != 5+size {
		return Command{}, fmt.Errorf("ledger: command length mismatch: header %d, have %d", size, len(apdu)-5)
	}
	data := append([]byte(nil), apdu[5:]...)
	return Command{Cla: apdu[0], Ins: Opcode(apdu[1]), P1: Param1(apdu[2]), P2: Param2(apdu[3]), Data: data}, nil
}

// curveParam assembles the p2 byte for the requested curve and chain code.
func curveParam(optin bool, chainCode bool) Param2 {
	p2 := P2Ed25519
	if optin {
		p2 = P2OptIn
	}
	if chainCode {
		p2 |= P2ChainCode
	}
	return p2
}

// chunkParam assembles the p1 byte of a signing chunk.
func chunkParam(first bool, more bool) Param1 {
	var p1 Param1
	if !first {
		p1 |= p1MaskNext
	}
	if more {
		p1 |= p1MaskMore
	}
	return p1
}
