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
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/symbol/symbol-ledger-go/accounts"
)

func testPath(t *testing.T) accounts.DerivationPath {
	t.Helper()
	path, err := accounts.ParseDerivationPath("m/44'/4343'/0'/0'/0'")
	require.NoError(t, err)
	return path
}

func TestEncodePath(t *testing.T) {
	want := []byte{5, 128, 0, 0, 44, 128, 0, 16, 247, 128, 0, 0, 0, 128, 0, 0, 0, 128, 0, 0, 0}
	require.Equal(t, want, encodePath(testPath(t)))
}

func TestSplitEmptyPayload(t *testing.T) {
	path := testPath(t)
	cmds := splitPayload(path, nil, false, false)

	require.Len(t, cmds, 1)
	assert.Equal(t, encodePath(path), cmds[0].Data)
	assert.Equal(t, P1FirstLast, cmds[0].P1)
	assert.Equal(t, P2Ed25519, cmds[0].P2)
	assert.Equal(t, OpSignTransaction, cmds[0].Ins)
	assert.Equal(t, claSymbol, cmds[0].Cla)
}

func TestSplitReassembly(t *testing.T) {
	path := testPath(t)
	header := encodePath(path)
	first := MaxChunkSize - len(header)

	for _, size := range []int{1, first - 1, first, first + 1, first + MaxChunkSize, first + MaxChunkSize + 1, 4096} {
		payload := make([]byte, size)
		for i := range payload {
			payload[i] = byte(i * 7)
		}
		cmds := splitPayload(path, payload, false, false)

		if size > first && len(cmds) < 2 {
			t.Errorf("size %d: have %d chunks, want at least 2", size, len(cmds))
		}
		require.True(t, bytes.HasPrefix(cmds[0].Data, header), "size %d: first chunk lacks path", size)

		var joined []byte
		for i, cmd := range cmds {
			if len(cmd.Data) > MaxChunkSize {
				t.Errorf("size %d: chunk %d too large: %d bytes", size, i, len(cmd.Data))
			}
			data := cmd.Data
			if i == 0 {
				data = data[len(header):]
			}
			joined = append(joined, data...)
		}
		if !bytes.Equal(joined, payload) {
			t.Errorf("size %d: reassembled payload mismatch", size)
		}
	}
}

func TestSplitChunkStates(t *testing.T) {
	path := testPath(t)
	first := MaxChunkSize - len(encodePath(path))

	tests := []struct {
		size int
		want []Param1
	}{
		{0, []Param1{P1FirstLast}},
		{10, []Param1{P1FirstLast}},
		{first - 1, []Param1{P1FirstLast}},
		{first, []Param1{P1FirstMore}},
		{first + 1, []Param1{P1FirstMore, P1NextLast}},
		{first + MaxChunkSize - 1, []Param1{P1FirstMore, P1NextLast}},
		{first + MaxChunkSize, []Param1{P1FirstMore, P1NextMore}},
		{first + MaxChunkSize + 1, []Param1{P1FirstMore, P1NextMore, P1NextLast}},
		{first + 3*MaxChunkSize, []Param1{P1FirstMore, P1NextMore, P1NextMore, P1NextMore}},
		{first + 3*MaxChunkSize + 7, []Param1{P1FirstMore, P1NextMore, P1NextMore, P1NextMore, P1NextLast}},
	}
	for _, tt := range tests {
		cmds := splitPayload(path, make([]byte, tt.size), false, false)

		have := make([]Param1, len(cmds))
		for i, cmd := range cmds {
			have[i] = cmd.P1
		}
		assert.Equal(t, tt.want, have, "payload size %d", tt.size)
	}
}

func TestCurveParam(t *testing.T) {
	assert.Equal(t, Param2(0x80), curveParam(false, false))
	assert.Equal(t, Param2(0x81), curveParam(false, true))
	assert.Equal(t, Param2(0x40), curveParam(true, false))
	assert.Equal(t, Param2(0x41), curveParam(true, true))

	for _, cmd := range splitPayload(testPath(t), make([]byte, 600), true, true) {
		assert.Equal(t, Param2(0x41), cmd.P2)
	}
}

func TestCommandEncoding(t *testing.T) {
	cmd := newCommand(OpGetAccount, P1Confirm, P2Ed25519, []byte{0xde, 0xad})

	apdu, err := cmd.Encode()
	require.NoError(t, err)
	require.Equal(t, []byte{0xe0, 0x02, 0x01, 0x80, 0x02, 0xde, 0xad}, apdu)

	decoded, err := DecodeCommand(apdu)
	require.NoError(t, err)
	require.Equal(t, cmd, decoded)

	_, err = newCommand(OpSignTransaction, 0, 0, make([]byte, MaxChunkSize+1)).Encode()
	require.ErrorIs(t, err, errCommandTooLarge)

	_, err = DecodeCommand([]byte{0xe0, 0x02, 0x00})
	require.Error(t, err)
	_, err = DecodeCommand([]byte{0xe0, 0x02, 0x00, 0x00, 0x03, 0x01})
	require.Error(t, err)
}
