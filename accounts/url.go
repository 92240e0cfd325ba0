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

package accounts

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Device URL schemes of the supported transports.
const (
	LedgerScheme   = "ledger"   // USB HID device, path is the platform HID path
	SpeculosScheme = "speculos" // Speculos emulator APDU port, path is host:port
	EmulatorScheme = "emulator" // In-process Symbol app simulator
)

// errMissingScheme is returned if a device URL has no transport scheme.
var errMissingScheme = errors.New("protocol scheme missing")

// URL identifies a Symbol app device across the supported transports.
//
// Like the wallet URLs it is modelled after, it only holds value-copyable
// components and performs no escaping, so each device has one single
// canonical form.
//
// URL 跨所支持的传输标识一个 Symbol 应用设备。
type URL struct {
	Scheme string // Transport able to reach the device
	Path   string // Transport specific device locator
}

// ParseURL converts a user supplied device URL into its structured form.
func ParseURL(url string) (URL, error) {
	scheme, path, ok := strings.Cut(url, "://")
	if !ok || scheme == "" {
		return URL{}, fmt.Errorf("invalid device url %q: %w", url, errMissingScheme)
	}
	return URL{Scheme: scheme, Path: path}, nil
}

// String implements the stringer interface.
func (u URL) String() string {
	if u.Scheme != "" {
		return fmt.Sprintf("%s://%s", u.Scheme, u.Path)
	}
	return u.Path
}

// TerminalString implements the log.TerminalStringer interface.
func (u URL) TerminalString() string {
	url := u.String()
	if len(url) > 32 {
		return url[:31] + ".."
	}
	return url
}

// MarshalText implements encoding.TextMarshaler, used by TOML and JSON alike.
func (u URL) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (u *URL) UnmarshalText(input []byte) error {
	url, err := ParseURL(string(input))
	if err != nil {
		return err
	}
	*u = url
	return nil
}

// MarshalJSON implements the json.Marshaller interface.
func (u URL) MarshalJSON() ([]byte, error) {
	return json.Marshal(u.String())
}

// Cmp compares x and y and returns:
//
//	-1 if x <  y
//	 0 if x == y
//	+1 if x >  y
func (u URL) Cmp(url URL) int {
	if u.Scheme == url.Scheme {
		return strings.Compare(u.Path, url.Path)
	}
	return strings.Compare(u.Scheme, url.Scheme)
}
