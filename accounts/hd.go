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
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// HardenedBit is the flag added to a derivation index to mark it hardened.
// HardenedBit 是添加到派生索引上用于标记硬化派生的标志位。
const HardenedBit = 0x80000000

// PathSegments is the number of levels in every Symbol derivation path.
const PathSegments = 5

// purposeSegment is the BIP-44 purpose level shared by every Symbol path.
const purposeSegment = 44

// DerivationPath represents the computer friendly version of a Symbol account
// derivation path, as sent to the Ledger device.
//
// Symbol uses fully hardened BIP-44 style paths of the form:
//
//	m / 44' / coin_type' / account' / change' / address_index'
//
// where coin_type is 4343' for the main network and 1' for the test network.
// Every segment stored in the slice already carries the hardened bit.
//
// DerivationPath 表示 Symbol 账户派生路径的计算机友好版本，即发送给 Ledger 设备的形式。
// 切片中存储的每个段都已带有硬化位。
type DerivationPath []uint32

// validPathPatterns caches the validation expression of each network.
var validPathPatterns = map[NetworkType]*regexp.Regexp{
	MainNet: regexp.MustCompile(`^m/44'/4343'/[0-9]+'/[0-9]+'/[0-9]+'`),
	TestNet: regexp.MustCompile(`^m/44'/1'/[0-9]+'/[0-9]+'/[0-9]+'`),
}

// IsValidPath reports whether the textual path is a Symbol derivation path for
// the given network. Malformed input simply yields false.
//
// IsValidPath 报告文本路径是否为给定网络的 Symbol 派生路径。格式错误的输入仅返回 false。
func IsValidPath(path string, network NetworkType) bool {
	pattern, ok := validPathPatterns[network]
	if !ok {
		return false
	}
	return pattern.MatchString(path)
}

// BuildPath generates the canonical textual path of the network with the given
// account, change and address indexes. All segments are hardened.
//
// BuildPath 根据网络和给定的账户、找零、地址索引生成规范的文本路径。所有段均为硬化段。
func BuildPath(network NetworkType, account, change, address uint32) string {
	return fmt.Sprintf("m/%d'/%d'/%d'/%d'/%d'", purposeSegment, network.CoinType(), account, change, address)
}

// ParseDerivationPath converts a user specified Symbol derivation path string
// to the internal binary representation.
//
// The path must start with the `m/` prefix and contain exactly five decimal
// components, each suffixed with a `'` to mark it hardened. Whitespace is not
// tolerated, the output is meant to be sent verbatim to the hardware.
//
// ParseDerivationPath 将用户指定的 Symbol 派生路径字符串转换为内部二进制表示。
// 路径必须以 `m/` 开头，并且恰好包含五个十进制组件，每个组件以 `'` 结尾表示硬化。
func ParseDerivationPath(path string) (DerivationPath, error) {
	components := strings.Split(path, "/")
	if len(components) == 0 || components[0] != "m" {
		return nil, &MalformedPathError{Path: path, Reason: "missing 'm/' prefix"}
	}
	components = components[1:]
	if len(components) != PathSegments {
		return nil, &MalformedPathError{Path: path, Reason: fmt.Sprintf("expected %d components, got %d", PathSegments, len(components))}
	}
	result := make(DerivationPath, 0, PathSegments)
	for _, component := range components {
		digits, hardened := strings.CutSuffix(component, "'")
		if !hardened {
			return nil, &MalformedPathError{Path: path, Reason: fmt.Sprintf("component %q is not hardened", component)}
		}
		value, err := strconv.ParseUint(digits, 10, 32)
		if err != nil {
			return nil, &MalformedPathError{Path: path, Reason: fmt.Sprintf("invalid component %q", component)}
		}
		if value >= HardenedBit {
			return nil, &MalformedPathError{Path: path, Reason: fmt.Sprintf("component %d out of allowed hardened range [0, %d]", value, HardenedBit-1)}
		}
		result = append(result, HardenedBit+uint32(value))
	}
	return result, nil
}

// String implements the stringer interface, converting a binary derivation path
// to its canonical representation.
func (path DerivationPath) String() string {
	var b strings.Builder
	b.WriteString("m")
	for _, component := range path {
		hardened := component >= HardenedBit
		if hardened {
			component -= HardenedBit
		}
		b.WriteString("/")
		b.WriteString(strconv.FormatUint(uint64(component), 10))
		if hardened {
			b.WriteString("'")
		}
	}
	return b.String()
}

// Network returns the network the path's coin type level belongs to.
func (path DerivationPath) Network() (NetworkType, bool) {
	if len(path) < 2 {
		return 0, false
	}
	switch path[1] {
	case HardenedBit + CoinTypeMain:
		return MainNet, true
	case HardenedBit + CoinTypeTest:
		return TestNet, true
	}
	return 0, false
}

// MarshalJSON turns a derivation path into its json-serialized string
func (path DerivationPath) MarshalJSON() ([]byte, error) {
	return json.Marshal(path.String())
}

// UnmarshalJSON a json-serialized string back into a derivation path
func (path *DerivationPath) UnmarshalJSON(b []byte) error {
	var dp string
	var err error
	if err = json.Unmarshal(b, &dp); err != nil {
		return err
	}
	*path, err = ParseDerivationPath(dp)
	return err
}

// AccountIterator creates a path iterator in the style of Ledger Live, which
// progresses by increasing the account level rather than the address level:
// i.e. m/44'/4343'/0'/0'/0', m/44'/4343'/1'/0'/0', ... m/44'/4343'/N'/0'/0'.
//
// Every returned path is a fresh copy, callers may keep them around.
//
// AccountIterator 创建 Ledger Live 风格的路径迭代器，递增账户层而不是地址层。
func AccountIterator(base DerivationPath) func() DerivationPath {
	path := make(DerivationPath, len(base))
	copy(path, base)
	// Set it back by one, so the first call gives the first result
	path[2]--
	return func() DerivationPath {
		path[2]++
		next := make(DerivationPath, len(path))
		copy(next, path)
		return next
	}
}
