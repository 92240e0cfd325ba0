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

// Package accounts implements the Symbol account model shared by the Ledger
// transports: derivation paths, networks and device URLs.
package accounts

// Account represents a Symbol account held by a device at a specific
// derivation path.
//
// Account 表示设备在特定派生路径上持有的 Symbol 账户。
type Account struct {
	URL       URL            `json:"url"`       // Device holding the account key
	Path      DerivationPath `json:"path"`      // Derivation path of the account key
	Network   NetworkType    `json:"network"`   // Network the account is derived for
	PublicKey string         `json:"publicKey"` // Hex encoded Ed25519 public key
}

// Cmp orders derivation paths segment by segment, shorter paths first on a
// common prefix.
func (path DerivationPath) Cmp(other DerivationPath) int {
	for i := 0; i < len(path) && i < len(other); i++ {
		switch {
		case path[i] < other[i]:
			return -1
		case path[i] > other[i]:
			return 1
		}
	}
	switch {
	case len(path) < len(other):
		return -1
	case len(path) > len(other):
		return 1
	}
	return 0
}
