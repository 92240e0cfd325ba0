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
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	testGenerationHash = "3B5E1FA6445653C971A50687E75E6D09FB30481055E3990C84B25E9222DC1155"

	// Unsigned transfer with a "test-message" plain message.
	testTransfer = "BD00000000000000" +
		"0000000000000000000000000000000000000000000000000000000000000000" +
		"0000000000000000000000000000000000000000000000000000000000000000" +
		"0000000000000000000000000000000000000000000000000000000000000000" +
		"00000000" +
		"01685441A09D120000000000E803000000000000680AC8255FEC8A4D3ACDC865E03CFCD262112C658F0727860D00010000000000EEAFF441BA994BE700E1F5050000000000746573742D6D657373616765"

	// Same transfer after signing on the device.
	testSignedTransfer = "BD00000000000000" +
		"C1210AA01F3CAD1911C1874D53B73660840357CA50665EE949712D74ED307F660D790B33487743029E9A6BBAF89E02E787B0233BF9346E94F1F617A46A86CA08" +
		"4C1C263B986EEBC681BB95CBD5812A7FA0530472E1E90B299C026D31792EF97E" +
		"00000000" +
		"01685441A09D120000000000E803000000000000680AC8255FEC8A4D3ACDC865E03CFCD262112C658F0727860D00010000000000EEAFF441BA994BE700E1F5050000000000746573742D6D657373616765"

	// Unsigned aggregate bonded embedding three transfers.
	testAggregate = "f801000000000000" +
		"0000000000000000000000000000000000000000000000000000000000000000" +
		"0000000000000000000000000000000000000000000000000000000000000000" +
		"0000000000000000000000000000000000000000000000000000000000000000" +
		"00000000" +
		"01684142c0d4010000000000e8030000000000000e8149cdca05e2a4381bf88db823cbd37f56f49132f182ed4a3ff70ae8ab2ec95001000000000000" +
		"6d000000000000004c1c263b986eebc681bb95cbd5812a7fa0530472e1e90b299c026d31792ef97e0000000001685441680ac8255fec8a4d3acdc865e03cfcd262112c658f0727860d00010000000000eeaff441ba994be700e1f5050000000000746573742d6d657373616765000000" +
		"6d000000000000004c1c263b986eebc681bb95cbd5812a7fa0530472e1e90b299c026d31792ef97e0000000001685441680ac8255fec8a4d3acdc865e03cfcd262112c658f0727860d00010000000000eeaff441ba994be700e1f5050000000000746573742d6d657373616765000000" +
		"6d000000000000004c1c263b986eebc681bb95cbd5812a7fa0530472e1e90b299c026d31792ef97e0000000001685441680ac8255fec8a4d3acdc865e03cfcd262112c658f0727860d00010000000000eeaff441ba994be700e1f5050000000000746573742d6d657373616765000000"
)

func mustDecode(t *testing.T, input string) []byte {
	t.Helper()
	blob, err := hex.DecodeString(input)
	require.NoError(t, err)
	return blob
}

func TestTransactionHash(t *testing.T) {
	genHash := mustDecode(t, testGenerationHash)

	tests := []struct {
		name    string
		payload string
		want    string
	}{
		{"unsigned transfer", testTransfer, "A7C2F77FBF3037C5209368A9FCE05118D44474BFFACE6E704B25E56FE55CF7F1"},
		{"signed transfer", testSignedTransfer, "CA90D91836577EE39D1164324F47D93B12FFDC0AB18F8D2A98C29F812D605EDB"},
		{"aggregate bonded", testAggregate, "94F6AC97748B96E9B337E117EC218BDCF02FBE96F3811DBCC496D0D20D3D18F2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := TransactionHash(mustDecode(t, tt.payload), genHash)
			require.NoError(t, err)
			require.Equal(t, tt.want, hash.Hex())
		})
	}
}

func TestTransactionHashShortPayload(t *testing.T) {
	_, err := TransactionHash(make([]byte, BodyOffset-1), nil)
	if !errors.Is(err, ErrShortPayload) {
		t.Fatalf("error mismatch: have %v, want %v", err, ErrShortPayload)
	}
}

func TestSigningBytesAggregate(t *testing.T) {
	genHash := mustDecode(t, testGenerationHash)
	payload := mustDecode(t, testAggregate)

	require.True(t, IsAggregate(payload))
	require.Equal(t, AggregateBondedType, EntityType(payload))

	signing, err := SigningBytes(payload, genHash)
	require.NoError(t, err)
	require.Len(t, signing, HashLength+aggregateBodySize)
	require.Equal(t, genHash, signing[:HashLength])
	require.Equal(t, payload[BodyOffset:BodyOffset+aggregateBodySize], signing[HashLength:])

	// Regular transactions sign their full body.
	transfer := mustDecode(t, testTransfer)
	require.False(t, IsAggregate(transfer))
	signing, err = SigningBytes(transfer, genHash)
	require.NoError(t, err)
	require.Len(t, signing, HashLength+len(transfer)-BodyOffset)
}

func TestNewRawTransaction(t *testing.T) {
	tx, err := NewRawTransaction("0x" + strings.ToLower(testTransfer))
	require.NoError(t, err)

	serialized, err := tx.Serialize()
	require.NoError(t, err)
	require.Equal(t, testTransfer, serialized)
	require.Equal(t, uint32(0xbd), tx.Size())
	require.Equal(t, uint16(0x5441), tx.Type())

	// Mutating the copy must not leak into the transaction.
	blob := tx.Bytes()
	blob[0] = 0xff
	serialized, _ = tx.Serialize()
	require.Equal(t, testTransfer, serialized)

	for _, bad := range []string{"zz", "abc", testTransfer[:2*BodyOffset-2]} {
		if _, err := NewRawTransaction(bad); err == nil {
			t.Errorf("expected failure for %q", bad)
		}
	}
	_, err = NewRawTransaction(testTransfer[:2*BodyOffset-2])
	require.ErrorIs(t, err, ErrShortPayload)
}

func TestCosignatureSerialize(t *testing.T) {
	key := "4c1c263b986eebc681bb95cbd5812a7fa0530472e1e90b299c026d31792ef97e"
	sig := "d0da1f575093dc92ba73ef9274fb61f73668bcfc823d65c5736dccf6acf62e314467bf9f53e5e5a48d59e0f2b053d7375d3376ae0ac7200dd74d3c7c2836cd0e"

	cosig, err := NewCosignature(key, sig)
	require.NoError(t, err)
	require.Equal(t, strings.ToUpper("0000000000000000"+key+sig), cosig.Hex())
	require.Len(t, cosig.Serialize(), 8+PublicKeyLength+SignatureLength)

	_, err = NewCosignature(key[:62], sig)
	require.Error(t, err)
	_, err = NewCosignature(key, sig+"00")
	require.Error(t, err)
}
