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
	"errors"
	"fmt"
)

// ErrUnknownNetwork is returned when a network name cannot be mapped to one of
// the supported Symbol networks.
var ErrUnknownNetwork = errors.New("unknown network")

// MalformedPathError is returned for any derivation path text that does not
// have the Symbol path shape, or which has a segment that cannot be hardened
// within 32 bits.
//
// MalformedPathError 在派生路径文本不符合 Symbol 路径格式，或某个段无法在 32 位内硬化时返回。
type MalformedPathError struct {
	Path   string // Offending path text
	Reason string // Human readable explanation of the failure
}

// Error implements the standard error interface.
func (err *MalformedPathError) Error() string {
	return fmt.Sprintf("malformed derivation path %q: %s", err.Path, err.Reason)
}
