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
	"fmt"
	"strings"
)

// NetworkType is the Symbol network identifier byte, as embedded in addresses
// and sent to the Ledger app alongside account requests.
// NetworkType 是 Symbol 网络标识字节，嵌入在地址中，并随账户请求一起发送给 Ledger 应用。
type NetworkType byte

const (
	MainNet NetworkType = 0x68 // Public main network (addresses start with N)
	TestNet NetworkType = 0x98 // Public test network (addresses start with T)
)

// SLIP-44 coin types of the two logical networks.
const (
	CoinTypeMain = 4343
	CoinTypeTest = 1
)

// CoinType returns the SLIP-44 coin type level used in derivation paths of the
// network. Anything but the main network derives like the test network.
func (n NetworkType) CoinType() uint32 {
	if n == MainNet {
		return CoinTypeMain
	}
	return CoinTypeTest
}

// String implements fmt.Stringer.
func (n NetworkType) String() string {
	switch n {
	case MainNet:
		return "mainnet"
	case TestNet:
		return "testnet"
	}
	return fmt.Sprintf("network(0x%02x)", byte(n))
}

// MarshalText implements encoding.TextMarshaler.
func (n NetworkType) MarshalText() ([]byte, error) {
	return []byte(n.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler, used when the network is
// read from a configuration file.
func (n *NetworkType) UnmarshalText(input []byte) error {
	network, err := ParseNetworkType(string(input))
	if err != nil {
		return err
	}
	*n = network
	return nil
}

// ParseNetworkType converts a user supplied network name into its type.
func ParseNetworkType(name string) (NetworkType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "main", "mainnet":
		return MainNet, nil
	case "test", "testnet":
		return TestNet, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownNetwork, name)
}
