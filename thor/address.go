// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"encoding"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rlp"
)

const AddressLength = common.AddressLength

// Address identifies an account, a bounty instance or the factory.
type Address common.Address

var (
	_ encoding.TextMarshaler   = Address{}
	_ encoding.TextUnmarshaler = (*Address)(nil)
)

// String returns the lower case 0x prefixed hex form.
func (a Address) String() string {
	return hexutil.Encode(a[:])
}

func (a Address) Bytes() []byte {
	return a[:]
}

func (a Address) IsZero() bool {
	return a == Address{}
}

// MarshalText encodes a the way String does, so it is a plain string in
// JSON values, map keys and yaml.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Address) UnmarshalText(text []byte) error {
	parsed, err := ParseAddress(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// ParseAddress parses a 40 digit hex string, optionally 0x prefixed.
func ParseAddress(s string) (addr Address, err error) {
	err = decodeFixedHex(s, addr[:])
	return
}

// MustParseAddress is like ParseAddress but panics on malformed input.
func MustParseAddress(s string) Address {
	addr, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return addr
}

// BytesToAddress keeps the trailing 20 bytes of b, left padding shorter input.
func BytesToAddress(b []byte) Address {
	return Address(common.BytesToAddress(b))
}

// CreateInstanceAddress derives the address of a contract instance created by the
// given factory on behalf of the creator. nonce is the factory's creation count.
func CreateInstanceAddress(factory Address, creator Address, nonce uint64) Address {
	data, _ := rlp.EncodeToBytes([]any{factory, creator, nonce})
	return BytesToAddress(Keccak256(data).Bytes()[12:])
}
