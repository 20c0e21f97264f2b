// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/bounty/builtin/bounty"
	"github.com/vechain/bounty/runtime"
	"github.com/vechain/bounty/thor"
	"github.com/vechain/bounty/xenv"
)

func TestConvertReceipt(t *testing.T) {
	addr := thor.BytesToAddress([]byte("bounty"))
	account := thor.BytesToAddress([]byte("funder"))
	receipt, err := ConvertReceipt(&runtime.Receipt{
		TxID: thor.Blake2b([]byte("tx")),
		Time: 42,
		Logs: []*xenv.Log{
			{Address: addr, Event: &bounty.Deposited{Account: account, Amount: thor.Units(3)}},
		},
	})
	require.NoError(t, err)

	data, err := json.Marshal(receipt)
	require.NoError(t, err)

	var decoded Receipt
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, receipt.TxID, decoded.TxID)
	assert.Equal(t, uint64(42), decoded.Time)
	require.Len(t, decoded.Events, 1)
	assert.Equal(t, addr, decoded.Events[0].Address)
	assert.Equal(t, "Deposited", decoded.Events[0].Name)

	var ev bounty.Deposited
	require.NoError(t, json.Unmarshal(decoded.Events[0].Data, &ev))
	assert.Equal(t, account, ev.Account)
	assert.Zero(t, ev.Amount.Cmp(thor.Units(3)))
}

func TestConvertReceiptNoLogs(t *testing.T) {
	receipt, err := ConvertReceipt(&runtime.Receipt{})
	require.NoError(t, err)

	data, err := json.Marshal(receipt)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"events":[]`)
}
