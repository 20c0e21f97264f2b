// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package state manages account balances and contract storage.
//
// Writes are journalled in memory and can be reverted to any checkpoint. Nothing
// reaches the underlying store until the state is staged and committed, which
// writes every change in a single batch.
package state
