// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"bytes"
	"fmt"
	"math/big"
	"os"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vechain/bounty/builtin/factory"
	"github.com/vechain/bounty/log"
	"github.com/vechain/bounty/state"
	"github.com/vechain/bounty/thor"
)

var logger = log.WithContext("pkg", "genesis")

// DefaultFactory is the factory account used when genesis names none.
var DefaultFactory = thor.BytesToAddress([]byte("bounty-factory"))

// Account is an allocation applied at genesis.
type Account struct {
	Address thor.Address          `yaml:"address"`
	Balance *math.HexOrDecimal256 `yaml:"balance"`
}

// Genesis describes the initial state of a node.
type Genesis struct {
	Name         string        `yaml:"name"`
	Factory      *thor.Address `yaml:"factory,omitempty"`
	FeeRecipient *thor.Address `yaml:"feeRecipient,omitempty"`
	Accounts     []Account     `yaml:"accounts"`
}

// Load reads a genesis from a yaml file.
func Load(path string) (*Genesis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read genesis file")
	}
	gen, err := Parse(data)
	if err != nil {
		return nil, errors.WithMessage(err, path)
	}
	return gen, nil
}

// Parse decodes and validates a yaml genesis. Unknown fields are rejected.
func Parse(data []byte) (*Genesis, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var gen Genesis
	if err := dec.Decode(&gen); err != nil {
		return nil, errors.Wrap(err, "decode genesis")
	}
	if err := gen.Validate(); err != nil {
		return nil, err
	}
	return &gen, nil
}

// Validate checks allocations.
func (g *Genesis) Validate() error {
	seen := make(map[thor.Address]bool, len(g.Accounts))
	for _, a := range g.Accounts {
		if a.Balance == nil {
			return fmt.Errorf("%s: balance must be set", a.Address)
		}
		if (*big.Int)(a.Balance).Sign() < 1 {
			return fmt.Errorf("%s: balance must be a non-zero integer", a.Address)
		}
		if seen[a.Address] {
			return fmt.Errorf("%s: duplicated account", a.Address)
		}
		seen[a.Address] = true
	}
	return nil
}

// FactoryAddress returns the factory account.
func (g *Genesis) FactoryAddress() thor.Address {
	if g.Factory != nil {
		return *g.Factory
	}
	return DefaultFactory
}

// Faucet returns the first allocated account, which funds the dev faucet.
func (g *Genesis) Faucet() (thor.Address, bool) {
	if len(g.Accounts) == 0 {
		return thor.Address{}, false
	}
	return g.Accounts[0].Address, true
}

// Apply writes the genesis state, unless it was applied before.
// It reports whether the state was written.
func (g *Genesis) Apply(stater *state.Stater) (bool, error) {
	st := stater.NewState()

	var feeRecipient thor.Address
	if g.FeeRecipient != nil {
		feeRecipient = *g.FeeRecipient
	}
	applied, err := factory.New(g.FactoryAddress(), st, nil).Configure(feeRecipient)
	if err != nil {
		return false, err
	}
	if !applied {
		logger.Debug("genesis already applied", "name", g.Name)
		return false, nil
	}

	supply := new(big.Int)
	for _, a := range g.Accounts {
		amount := (*big.Int)(a.Balance)
		if err := st.SetBalance(a.Address, amount); err != nil {
			return false, err
		}
		supply.Add(supply, amount)
	}

	stage, err := st.Stage()
	if err != nil {
		return false, err
	}
	if err := stage.Commit(); err != nil {
		return false, errors.Wrap(err, "commit genesis")
	}
	logger.Info("genesis applied", "name", g.Name, "accounts", len(g.Accounts), "supply", supply)
	return true, nil
}
