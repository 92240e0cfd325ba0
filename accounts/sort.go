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

// AccountsByPath implements sort.Interface for []Account, ordering by device
// first and derivation path second.
type AccountsByPath []Account

func (a AccountsByPath) Len() int      { return len(a) }
func (a AccountsByPath) Swap(i, j int) { a[i], a[j] = a[j], a[i] }
func (a AccountsByPath) Less(i, j int) bool {
	if c := a[i].URL.Cmp(a[j].URL); c != 0 {
		return c < 0
	}
	return a[i].Path.Cmp(a[j].Path) < 0
}

// URLsByScheme implements sort.Interface for []URL.
type URLsByScheme []URL

func (u URLsByScheme) Len() int           { return len(u) }
func (u URLsByScheme) Swap(i, j int)      { u[i], u[j] = u[j], u[i] }
func (u URLsByScheme) Less(i, j int) bool { return u[i].Cmp(u[j]) < 0 }
