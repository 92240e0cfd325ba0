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

// Package usbwallet implements the USB HID transport to Ledger devices running
// the Symbol app.
package usbwallet

import (
	"errors"
	"fmt"
	"sort"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/log"
	"github.com/karalabe/hid"
	"github.com/symbol/symbol-ledger-go/accounts"
)

// ledgerVendorID is the USB vendor id of all Ledger devices.
const ledgerVendorID = 0x2c97

// ErrNoDevice is returned if no Ledger device is plugged in.
var ErrNoDevice = errors.New("usbwallet: no Ledger device found")

// ErrUnsupportedPlatform is returned if the platform has no USB HID support
// compiled in.
var ErrUnsupportedPlatform = errors.New("usbwallet: unsupported platform")

// Device is a USB device that advertises itself as a Ledger.
type Device struct {
	URL  accounts.URL   // Canonical device URL, the HID path under the ledger scheme
	Info hid.DeviceInfo // Known USB device infos
}

// Hub finds Ledger devices attached to the machine.
type Hub struct {
	vendorID   uint16   // USB vendor identifier used for device discovery
	productIDs []uint16 // USB product identifiers used for device discovery
	usageID    uint16   // USB usage page identifier used for macOS device discovery
	endpointID int      // USB endpoint identifier used for non-macOS device discovery

	enumFails atomic.Uint32 // Number of consecutive enumeration failures
}

// NewLedgerHub creates a new device finder for Ledger devices.
func NewLedgerHub() (*Hub, error) {
	if !hid.Supported() {
		return nil, ErrUnsupportedPlatform
	}
	return &Hub{
		vendorID: ledgerVendorID,
		productIDs: []uint16{
			// Device definitions taken from
			// https://github.com/LedgerHQ/ledger-live/blob/38012bc8899e0f07149ea9cfe7e64b2c146bc92b/libs/ledgerjs/packages/devices/src/index.ts

			// Original product IDs
			0x0000, /* Ledger Blue */
			0x0001, /* Ledger Nano S */
			0x0004, /* Ledger Nano X */
			0x0005, /* Ledger Nano S Plus */
			0x0006, /* Ledger Nano FTS */

			0x0015, /* HID + U2F + WebUSB Ledger Blue */
			0x1015, /* HID + U2F + WebUSB Ledger Nano S */
			0x4015, /* HID + U2F + WebUSB Ledger Nano X */
			0x5015, /* HID + U2F + WebUSB Ledger Nano S Plus */
			0x6015, /* HID + U2F + WebUSB Ledger Nano FTS */

			0x0011, /* HID + WebUSB Ledger Blue */
			0x1011, /* HID + WebUSB Ledger Nano S */
			0x4011, /* HID + WebUSB Ledger Nano X */
			0x5011, /* HID + WebUSB Ledger Nano S Plus */
			0x6011, /* HID + WebUSB Ledger Nano FTS */
		},
		usageID:    0xffa0,
		endpointID: 0,
	}, nil
}

// Devices enumerates the Ledger devices currently attached, ordered by URL.
func (hub *Hub) Devices() ([]Device, error) {
	infos, err := hid.Enumerate(hub.vendorID, 0)
	if err != nil {
		failcount := hub.enumFails.Add(1)
		log.Error("Failed to enumerate USB devices", "vendor", hub.vendorID, "failcount", failcount, "err", err)
		return nil, err
	}
	hub.enumFails.Store(0)

	devices := hub.filter(infos)
	sort.Slice(devices, func(i, j int) bool { return devices[i].URL.Cmp(devices[j].URL) < 0 })
	return devices, nil
}

// filter keeps the HID interfaces of known Ledger products that speak APDUs.
func (hub *Hub) filter(infos []hid.DeviceInfo) []Device {
	var devices []Device
	for _, info := range infos {
		for _, id := range hub.productIDs {
			// Windows and Macos use UsageID matching, Linux uses Interface matching
			if info.ProductID == id && (info.UsagePage == hub.usageID || info.Interface == hub.endpointID) {
				devices = append(devices, Device{
					URL:  accounts.URL{Scheme: accounts.LedgerScheme, Path: info.Path},
					Info: info,
				})
				break
			}
		}
	}
	return devices
}

// Open connects to the device at the given URL.
func (hub *Hub) Open(url accounts.URL) (*Channel, error) {
	if url.Scheme != accounts.LedgerScheme {
		return nil, fmt.Errorf("usbwallet: unsupported scheme %q", url.Scheme)
	}
	devices, err := hub.Devices()
	if err != nil {
		return nil, err
	}
	for _, device := range devices {
		if device.URL.Cmp(url) == 0 {
			return openDevice(device)
		}
	}
	return nil, fmt.Errorf("%w at %s", ErrNoDevice, url)
}

// OpenFirst connects to the first attached Ledger device.
func (hub *Hub) OpenFirst() (*Channel, error) {
	devices, err := hub.Devices()
	if err != nil {
		return nil, err
	}
	if len(devices) == 0 {
		return nil, ErrNoDevice
	}
	return openDevice(devices[0])
}

func openDevice(device Device) (*Channel, error) {
	conn, err := device.Info.Open()
	if err != nil {
		return nil, err
	}
	return NewChannel(conn, log.New("url", device.URL)), nil
}
