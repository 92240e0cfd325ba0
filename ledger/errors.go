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
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// StatusOK is the status word closing every successful device reply.
const StatusOK uint16 = 0x9000

// Status words the Symbol app and the Ledger dashboard are known to return.
const (
	StatusWrongLength      uint16 = 0x6700
	StatusDeviceLocked     uint16 = 0x5515
	StatusSecurityStatus   uint16 = 0x6982
	StatusRejectedByUser   uint16 = 0x6985
	StatusInvalidData      uint16 = 0x6a80
	StatusTooLarge         uint16 = 0x6a84
	StatusWrongParameters  uint16 = 0x6b00
	StatusInsNotSupported  uint16 = 0x6d00
	StatusClaNotSupported  uint16 = 0x6e00
	StatusAppNotOpen       uint16 = 0x6e01
	StatusAppNotOpenLegacy uint16 = 0x6511
	StatusTechnicalProblem uint16 = 0x6f00
)

var statusText = map[uint16]string{
	StatusWrongLength:      "incorrect length",
	StatusDeviceLocked:     "device is locked",
	StatusSecurityStatus:   "security status not satisfied, is the device unlocked?",
	StatusRejectedByUser:   "request rejected by the user",
	StatusInvalidData:      "invalid data received",
	StatusTooLarge:         "transaction too large",
	StatusWrongParameters:  "incorrect parameters P1 or P2",
	StatusInsNotSupported:  "instruction not supported, is the Symbol app open?",
	StatusClaNotSupported:  "class not supported, is the Symbol app open?",
	StatusAppNotOpen:       "Symbol app is not open",
	StatusAppNotOpenLegacy: "Symbol app is not open",
	StatusTechnicalProblem: "technical problem inside the device",
}

var (
	// ErrSessionClosed is returned if an operation is attempted on a session
	// whose channel was already released.
	ErrSessionClosed = errors.New("ledger: session closed")

	// ErrSessionBusy is returned if an operation is attempted while another one
	// is still in flight on the same session.
	ErrSessionBusy = errors.New("ledger: session busy")

	// errShortReply is returned if a device reply cannot even hold a status word.
	errShortReply = errors.New("ledger: reply shorter than status word")

	// errInvalidSignatureReply is returned if a signing reply arrives, but it
	// does not contain a full signature.
	errInvalidSignatureReply = errors.New("ledger: invalid signature reply")

	// errInvalidVersionReply is returned by a version retrieval when a response
	// does arrive, but it does not contain the expected data.
	errInvalidVersionReply = errors.New("ledger: invalid version reply")
)

// StatusError is returned by transports when the device closes a reply with a
// status word other than StatusOK.
type StatusError struct {
	Code uint16
}

// Error implements the standard error interface.
func (err *StatusError) Error() string {
	if text, ok := statusText[err.Code]; ok {
		return fmt.Sprintf("ledger: status %#04x: %s", err.Code, text)
	}
	return fmt.Sprintf("ledger: status %#04x", err.Code)
}

// CheckStatus inspects the trailing status word of a raw device reply and
// converts anything but StatusOK into a *StatusError.
func CheckStatus(reply []byte) error {
	if len(reply) < 2 {
		return errShortReply
	}
	if sw := binary.BigEndian.Uint16(reply[len(reply)-2:]); sw != StatusOK {
		return &StatusError{Code: sw}
	}
	return nil
}

// UnexpectedKeyLengthError is returned if the device reports a public key of
// any length other than 32 bytes.
type UnexpectedKeyLengthError struct {
	Length int
}

// Error implements the standard error interface.
func (err *UnexpectedKeyLengthError) Error() string {
	return fmt.Sprintf("ledger: unexpected public key length %d, want 32", err.Length)
}

// ProtocolDesyncError is returned if the device answers the final chunk of a
// payload as if it was still waiting for more data.
//
// ProtocolDesyncError 在设备对负载的最后一个分块的应答表明其仍在等待更多数据时返回。
type ProtocolDesyncError struct {
	Chunks int    // Number of chunks sent before the desync was detected
	Reply  []byte // Final reply of the device
}

// Error implements the standard error interface.
func (err *ProtocolDesyncError) Error() string {
	return fmt.Sprintf("ledger: protocol desync after %d chunks, device replied %s", err.Chunks, hexutil.Bytes(err.Reply))
}

// ChannelError wraps any failure of the transport channel. The original
// transport error is available through errors.Unwrap.
type ChannelError struct {
	Op  string // Operation during which the channel failed
	Err error
}

// Error implements the standard error interface.
func (err *ChannelError) Error() string {
	return fmt.Sprintf("ledger: %s: %v", err.Op, err.Err)
}

// Unwrap returns the transport error.
func (err *ChannelError) Unwrap() error {
	return err.Err
}
