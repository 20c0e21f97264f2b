// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/bounty/api/utils"
	"github.com/vechain/bounty/runtime"
	"github.com/vechain/bounty/thor"
	"github.com/vechain/bounty/xenv"
)

type Accounts struct {
	rt     *runtime.Runtime
	faucet *thor.Address
}

// New creates the accounts api. A nil faucet disables funding requests.
func New(rt *runtime.Runtime, faucet *thor.Address) *Accounts {
	return &Accounts{
		rt,
		faucet,
	}
}

func (a *Accounts) handleGetAccount(w http.ResponseWriter, req *http.Request) error {
	addr, err := thor.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "address"))
	}
	var balance *big.Int
	if err := a.rt.View(func(env *xenv.Environment) (err error) {
		balance, err = env.State().GetBalance(addr)
		return
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, &Account{Balance: (*math.HexOrDecimal256)(balance)})
}

func (a *Accounts) handleFaucet(w http.ResponseWriter, req *http.Request) error {
	if a.faucet == nil {
		return utils.Forbidden(errors.New("faucet disabled"))
	}
	addr, err := thor.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "address"))
	}
	var body FaucetRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	amount := (*big.Int)(body.Amount)
	if amount == nil || amount.Sign() <= 0 {
		return utils.BadRequest(errors.New("amount: must be positive"))
	}

	receipt, err := a.rt.Exec(req.Context(), *a.faucet, addr, amount, func(*xenv.Environment) error { return nil })
	if err != nil {
		return utils.HTTPError(err, http.StatusServiceUnavailable)
	}
	converted, err := utils.ConvertReceipt(receipt)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, converted)
}

func (a *Accounts) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{address}").
		Methods(http.MethodGet).
		Name("GET /accounts/{address}").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetAccount))
	sub.Path("/{address}").
		Methods(http.MethodPost).
		Name("POST /accounts/{address}").
		HandlerFunc(utils.WrapHandlerFunc(a.handleFaucet))
}
