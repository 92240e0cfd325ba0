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
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/log"
	"github.com/google/uuid"
	"github.com/symbol/symbol-ledger-go/accounts"
	"github.com/symbol/symbol-ledger-go/core/types"
)

// accountKeyLength is the only public key length the Symbol app may report.
const accountKeyLength = 32

// SignedTransaction is the result of a device signature over a transaction.
type SignedTransaction struct {
	Payload   string     // Serialized transaction with signature and signer filled in (upper case hex)
	Signature string     // Device signature (lower case hex)
	Hash      types.Hash // Transaction hash of the signed payload
}

// Ledger is a session with the Symbol app on a Ledger device. It exclusively
// owns its channel until Close is called.
//
// A session supports one call in flight at a time, the device cannot
// interleave commands. Use NewTracedSigner to have that enforced.
//
// Ledger 是与 Ledger 设备上 Symbol 应用的会话。在调用 Close 之前独占其通道。
type Ledger struct {
	channel Channel    // Device connection, nil after the session is closed
	id      uuid.UUID  // Unique session id for log correlation
	log     log.Logger // Contextual logger to tag the session with its id
}

// New creates a session on top of an already opened device channel.
func New(channel Channel) *Ledger {
	id := uuid.New()
	return &Ledger{
		channel: channel,
		id:      id,
		log:     log.New("session", id.String()),
	}
}

// ID returns the unique identifier of the session.
func (l *Ledger) ID() string {
	return l.id.String()
}

// ExpectedAppVersion returns the minimum Symbol app version the session
// supports.
func (l *Ledger) ExpectedAppVersion() Version {
	return MinimumAppVersion
}

// IsAppSupported retrieves the running app version and checks it against the
// minimum supported one.
func (l *Ledger) IsAppSupported() (bool, error) {
	version, err := l.AppVersion()
	if err != nil {
		return false, err
	}
	supported := IsVersionSupported(version, l.ExpectedAppVersion())
	l.log.Debug("Checked Symbol app version", "version", version, "minimum", l.ExpectedAppVersion(), "supported", supported)
	return supported, nil
}

// AppVersion retrieves the version of the Symbol app running on the device.
//
// The version retrieval protocol is defined as follows:
//
//	CLA | INS | P1 | P2 | Lc
//	----+-----+----+----+----
//	 E0 | 06  | 00 | 00 | 00
//
// With no input data, and the output data being:
//
//	Description                       | Length
//	----------------------------------+--------
//	Reserved                          | 1 byte
//	Application major version         | 1 byte
//	Application minor version         | 1 byte
//	Application patch version         | 1 byte
func (l *Ledger) AppVersion() (Version, error) {
	reply, err := l.exchange("version", newCommand(OpGetVersion, 0, 0, nil))
	if err != nil {
		return Version{}, err
	}
	if len(reply) < 4 {
		return Version{}, errInvalidVersionReply
	}
	return Version{Major: reply[1], Minor: reply[2], Patch: reply[3]}, nil
}

// Account retrieves the public key of the account at the given derivation
// path, optionally asking the user to confirm it on the device screen.
//
// The public key retrieval protocol is defined as follows:
//
//	CLA | INS | P1                   | P2                     | Lc  | Le
//	----+-----+----------------------+------------------------+-----+---
//	 E0 | 02  | 00 return directly   | 80 Ed25519 / 40 opt-in | var | 00
//	    |     | 01 confirm on screen | OR 01 with chain code  |     |
//
// Where the input data is:
//
//	Description                                      | Length
//	-------------------------------------------------+----------
//	Number of BIP 32 derivations to perform (max 10) | 1 byte
//	First derivation index (big endian)              | 4 bytes
//	...                                              | 4 bytes
//	Last derivation index (big endian)               | 4 bytes
//	Network type                                     | 1 byte
//
// And the output data is:
//
//	Description             | Length
//	------------------------+-------------------
//	Public key length       | 1 byte
//	Public key              | arbitrary
//	Chain code if requested | 32 bytes
func (l *Ledger) Account(path accounts.DerivationPath, network accounts.NetworkType, display bool, chainCode bool, optin bool) (string, error) {
	p1 := P1NoConfirm
	if display {
		p1 = P1Confirm
	}
	data := append(encodePath(path), byte(network))

	reply, err := l.exchange("account", newCommand(OpGetAccount, p1, curveParam(optin, chainCode), data))
	if err != nil {
		return "", err
	}
	if len(reply) == 0 {
		return "", &UnexpectedKeyLengthError{Length: 0}
	}
	if size := int(reply[0]); size != accountKeyLength || len(reply) < 1+size {
		return "", &UnexpectedKeyLengthError{Length: size}
	}
	key := hex.EncodeToString(reply[1 : 1+accountKeyLength])
	l.log.Debug("Retrieved Symbol account", "path", path, "network", network, "key", key)
	return key, nil
}

// SignTransaction sends the transaction to the device for signing and returns
// it with the signature and the signer public key spliced into their slots.
// The generation hash identifies the network and is part of the signed data.
//
// The transaction signing protocol is defined as follows:
//
//	CLA | INS | P1                     | P2                     | Lc  | Le
//	----+-----+------------------------+------------------------+-----+---
//	 E0 | 04  | 00 only chunk          | 80 Ed25519 / 40 opt-in | var | 00
//	    |     | 80 first chunk, more   |                        |     |
//	    |     | 01 last continuation   |                        |     |
//	    |     | 81 continuation, more  |                        |     |
//
// Where the input data of the first chunk is the derivation path followed by
// the generation hash and the transaction body, the remaining chunks carry the
// rest of the body. The output data of the last chunk is the 64 byte
// signature.
func (l *Ledger) SignTransaction(path accounts.DerivationPath, tx types.Transaction, generationHash string, signerPublicKey string, optin bool) (*SignedTransaction, error) {
	res, err := l.sign(path, tx, generationHash, signerPublicKey, optin)
	if err != nil {
		return nil, err
	}
	payload, err := spliceSignature(res.serialized, res.signature, res.signer)
	if err != nil {
		return nil, err
	}
	hash, err := types.TransactionHash(payload, res.contextHash)
	if err != nil {
		return nil, err
	}
	l.log.Info("Signed Symbol transaction", "path", path, "hash", hash)
	return &SignedTransaction{
		Payload:   strings.ToUpper(hex.EncodeToString(payload)),
		Signature: hex.EncodeToString(res.signature),
		Hash:      hash,
	}, nil
}

// SignCosignatureTransaction cosigns an aggregate transaction. The send path
// is the same as for SignTransaction, with the aggregate hash in place of the
// generation hash. Only the signature is returned, cosignatures are attached
// to the aggregate by the announcer.
func (l *Ledger) SignCosignatureTransaction(path accounts.DerivationPath, aggregate types.Transaction, aggregateHash string, signerPublicKey string, optin bool) (string, error) {
	res, err := l.sign(path, aggregate, aggregateHash, signerPublicKey, optin)
	if err != nil {
		return "", err
	}
	l.log.Info("Cosigned Symbol aggregate", "path", path, "hash", aggregateHash)
	return hex.EncodeToString(res.signature), nil
}

// Close releases the device channel. It is safe to call on a session in any
// state, repeated calls are no-ops.
func (l *Ledger) Close() error {
	if l.channel == nil {
		return nil
	}
	channel := l.channel
	l.channel = nil

	l.log.Debug("Closing Ledger session")
	return channel.Close()
}

// signResult is a completed signing exchange together with the decoded
// request fields it was made from.
type signResult struct {
	serialized  []byte // Transaction as sent to the device
	contextHash []byte // Generation hash or aggregate hash
	signer      []byte // Signer public key
	signature   []byte
}

// sign validates the signing request, streams it to the device and extracts
// the signature from the final reply.
func (l *Ledger) sign(path accounts.DerivationPath, tx types.Transaction, contextHash string, signerPublicKey string, optin bool) (*signResult, error) {
	if l.channel == nil {
		return nil, ErrSessionClosed
	}
	hash, err := decodeHex("context hash", contextHash, types.HashLength)
	if err != nil {
		return nil, err
	}
	signer, err := decodeHex("signer public key", signerPublicKey, types.PublicKeyLength)
	if err != nil {
		return nil, err
	}
	text, err := tx.Serialize()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize transaction: %w", err)
	}
	serialized, err := hex.DecodeString(strings.TrimPrefix(text, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid serialized transaction: %w", err)
	}
	payload, err := signingPayload(hash, serialized)
	if err != nil {
		return nil, err
	}
	cmds := splitPayload(path, payload, optin, false)
	l.log.Debug("Requesting Ledger signature", "path", path, "size", len(payload), "chunks", len(cmds))

	reply, err := exchangeChunks(l.channel, cmds, l.log)
	if err != nil {
		return nil, err
	}
	// Reply carries the status word after the signature
	if len(reply) < types.SignatureLength+2 {
		return nil, errInvalidSignatureReply
	}
	return &signResult{
		serialized:  serialized,
		contextHash: hash,
		signer:      signer,
		signature:   reply[:types.SignatureLength],
	}, nil
}

// exchange sends a single command over the session channel.
func (l *Ledger) exchange(op string, cmd Command) ([]byte, error) {
	if l.channel == nil {
		return nil, ErrSessionClosed
	}
	l.log.Trace("Command sent to the Ledger", "op", op, "cmd", cmd)
	reply, err := l.channel.Exchange(cmd)
	if err != nil {
		return nil, &ChannelError{Op: op, Err: err}
	}
	return reply, nil
}

// decodeHex parses a fixed size hex field of a signing request.
func decodeHex(field string, input string, size int) ([]byte, error) {
	blob, err := hex.DecodeString(strings.TrimPrefix(input, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", field, err)
	}
	if len(blob) != size {
		return nil, fmt.Errorf("invalid %s: have %d bytes, want %d", field, len(blob), size)
	}
	return blob, nil
}
