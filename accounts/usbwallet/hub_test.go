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
	"testing"

	"github.com/karalabe/hid"
	"github.com/stretchr/testify/require"
)

// hidInfos mimics a Nano X enumeration: several interfaces of which only the
// APDU one may be used, plus an unknown product.
func hidInfos() []hid.DeviceInfo {
	return []hid.DeviceInfo{
		{Path: "apdu-usage", VendorID: ledgerVendorID, ProductID: 0x4015, UsagePage: 0xffa0, Interface: -1},
		{Path: "fido", VendorID: ledgerVendorID, ProductID: 0x4015, UsagePage: 0xf1d0, Interface: 1},
		{Path: "apdu-interface", VendorID: ledgerVendorID, ProductID: 0x4015, UsagePage: 0, Interface: 0},
		{Path: "unknown", VendorID: ledgerVendorID, ProductID: 0x7777, UsagePage: 0xffa0, Interface: 0},
	}
}

func TestHubFilter(t *testing.T) {
	hub := &Hub{vendorID: ledgerVendorID, productIDs: []uint16{0x4015}, usageID: 0xffa0, endpointID: 0}

	devices := hub.filter(hidInfos())
	require.Len(t, devices, 2)
	require.Equal(t, "ledger://apdu-usage", devices[0].URL.String())
	require.Equal(t, "ledger://apdu-interface", devices[1].URL.String())
}
