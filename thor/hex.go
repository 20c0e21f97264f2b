// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"encoding/hex"
	"errors"
	"strings"
)

var (
	errInvalidPrefix = errors.New("invalid prefix")
	errInvalidLength = errors.New("invalid length")
)

// decodeFixedHex decodes s into out, which s must fill exactly.
func decodeFixedHex(s string, out []byte) error {
	switch len(s) {
	case len(out) * 2:
	case len(out)*2 + 2:
		if !strings.EqualFold(s[:2], "0x") {
			return errInvalidPrefix
		}
		s = s[2:]
	default:
		return errInvalidLength
	}
	_, err := hex.Decode(out, []byte(s))
	return err
}
