// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package bounties

import (
	"math/big"
	"net/http"
	"strconv"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/bounty/api/utils"
	"github.com/vechain/bounty/builtin/bounty"
	"github.com/vechain/bounty/builtin/factory"
	"github.com/vechain/bounty/runtime"
	"github.com/vechain/bounty/thor"
	"github.com/vechain/bounty/xenv"
)

const defaultPageSize = 100

type Bounties struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *Bounties {
	return &Bounties{rt}
}

func parseAddress(req *http.Request, name string) (thor.Address, error) {
	addr, err := thor.ParseAddress(mux.Vars(req)[name])
	if err != nil {
		return thor.Address{}, utils.BadRequest(errors.WithMessage(err, name))
	}
	return addr, nil
}

func parseUint(req *http.Request, name string) (uint64, error) {
	n, err := strconv.ParseUint(mux.Vars(req)[name], 0, 64)
	if err != nil {
		return 0, utils.BadRequest(errors.WithMessage(err, name))
	}
	return n, nil
}

func parsePage(req *http.Request) (offset, limit uint64, err error) {
	query := req.URL.Query()
	if offset, err = utils.StringToUint64(query.Get("offset"), 0); err != nil {
		return 0, 0, utils.BadRequest(errors.WithMessage(err, "offset"))
	}
	if limit, err = utils.StringToUint64(query.Get("limit"), defaultPageSize); err != nil {
		return 0, 0, utils.BadRequest(errors.WithMessage(err, "limit"))
	}
	if limit > factory.MaxListLimit {
		return 0, 0, utils.BadRequest(errors.Errorf("limit: exceeds %d", factory.MaxListLimit))
	}
	return offset, limit, nil
}

func requireCaller(caller *thor.Address) (thor.Address, error) {
	if caller == nil {
		return thor.Address{}, utils.BadRequest(errors.New("caller: required"))
	}
	return *caller, nil
}

// view runs fn against the bounty at the address in the request path. Unknown bounties are not found.
func (b *Bounties) view(req *http.Request, fn func(*bounty.Bounty) error) error {
	addr, err := parseAddress(req, "address")
	if err != nil {
		return err
	}
	return b.rt.View(func(env *xenv.Environment) error {
		inst := env.Bounty(addr)
		ok, err := inst.Initialized()
		if err != nil {
			return err
		}
		if !ok {
			return utils.NotFound(errors.New("bounty not found"))
		}
		return fn(inst)
	})
}

// exec runs op as a transaction from caller to the bounty at the address in the request path.
func (b *Bounties) exec(req *http.Request, caller thor.Address, value *big.Int, op func(*bounty.Bounty, *xenv.Environment) error) (*runtime.Receipt, error) {
	addr, err := parseAddress(req, "address")
	if err != nil {
		return nil, err
	}
	return b.rt.Exec(req.Context(), caller, addr, value, func(env *xenv.Environment) error {
		return op(env.Bounty(env.To()), env)
	})
}

func (b *Bounties) handleCreate(w http.ResponseWriter, req *http.Request) error {
	var body CreateRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	caller, err := requireCaller(body.Caller)
	if err != nil {
		return err
	}
	value := (*big.Int)(body.Value)
	if value != nil && value.Sign() < 0 {
		return utils.BadRequest(errors.New("value: negative"))
	}

	var addr thor.Address
	receipt, err := b.rt.Exec(req.Context(), caller, b.rt.Factory(), value, func(env *xenv.Environment) error {
		f := env.Factory()
		var feeRecipient thor.Address
		if body.FeeRecipient != nil {
			feeRecipient = *body.FeeRecipient
		} else {
			var err error
			if feeRecipient, err = f.DefaultFeeRecipient(); err != nil {
				return err
			}
		}
		var err error
		addr, err = f.Instantiate(env.Caller(), feeRecipient, body.MetadataRef, body.Joinable, env.Value())
		return err
	})
	if err != nil {
		return err
	}
	converted, err := utils.ConvertReceipt(receipt)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Created{Address: addr, Receipt: converted})
}

func (b *Bounties) handleList(w http.ResponseWriter, req *http.Request) error {
	offset, limit, err := parsePage(req)
	if err != nil {
		return err
	}
	var reg Registry
	if err := b.rt.View(func(env *xenv.Environment) (err error) {
		f := env.Factory()
		if reg.Count, err = f.Count(); err != nil {
			return
		}
		reg.Addresses, err = f.List(offset, limit)
		return
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, &reg)
}

func (b *Bounties) handleGetBounty(w http.ResponseWriter, req *http.Request) error {
	var sum *bounty.Summary
	if err := b.view(req, func(inst *bounty.Bounty) (err error) {
		sum, err = inst.Summary()
		return
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, convertSummary(sum))
}

func (b *Bounties) handleGetClaims(w http.ResponseWriter, req *http.Request) error {
	offset, limit, err := parsePage(req)
	if err != nil {
		return err
	}
	list := []*Claim{}
	if err := b.view(req, func(inst *bounty.Bounty) error {
		count, err := inst.ClaimCount()
		if err != nil {
			return err
		}
		for i := offset; i < count && uint64(len(list)) < limit; i++ {
			c, err := inst.ClaimAt(i)
			if err != nil {
				return err
			}
			list = append(list, convertClaim(i, c))
		}
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, list)
}

func (b *Bounties) handleGetClaim(w http.ResponseWriter, req *http.Request) error {
	index, err := parseUint(req, "index")
	if err != nil {
		return err
	}
	var claim *Claim
	if err := b.view(req, func(inst *bounty.Bounty) error {
		c, err := inst.ClaimAt(index)
		if err != nil {
			return err
		}
		claim = convertClaim(index, c)
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, claim)
}

func (b *Bounties) handleGetStake(w http.ResponseWriter, req *http.Request) error {
	account, err := parseAddress(req, "account")
	if err != nil {
		return err
	}
	var balance *big.Int
	if err := b.view(req, func(inst *bounty.Bounty) (err error) {
		balance, err = inst.BalanceOf(account)
		return
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, &Stake{Balance: (*math.HexOrDecimal256)(balance)})
}

func (b *Bounties) handleGetRound(w http.ResponseWriter, req *http.Request) error {
	var round *Round
	if err := b.view(req, func(inst *bounty.Bounty) error {
		r, err := inst.CurrentRound()
		if err != nil {
			return err
		}
		round = convertRound(r)
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, round)
}

func (b *Bounties) handleGetVote(w http.ResponseWriter, req *http.Request) error {
	account, err := parseAddress(req, "account")
	if err != nil {
		return err
	}
	round, err := parseUint(req, "round")
	if err != nil {
		return err
	}
	var vote Vote
	if err := b.view(req, func(inst *bounty.Bounty) (err error) {
		vote.Voted, err = inst.HasVoted(account, round)
		return
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, &vote)
}

func (b *Bounties) handleDeposit(w http.ResponseWriter, req *http.Request) error {
	var body DepositRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	caller, err := requireCaller(body.Caller)
	if err != nil {
		return err
	}
	value := (*big.Int)(body.Value)
	if value == nil {
		value = new(big.Int)
	}
	if value.Sign() < 0 {
		return utils.BadRequest(errors.New("value: negative"))
	}
	receipt, err := b.exec(req, caller, value, func(inst *bounty.Bounty, env *xenv.Environment) error {
		return inst.Deposit(env.Caller(), env.Value())
	})
	if err != nil {
		return err
	}
	converted, err := utils.ConvertReceipt(receipt)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, converted)
}

func (b *Bounties) handleWithdraw(w http.ResponseWriter, req *http.Request) error {
	return b.handleCall(w, req, func(inst *bounty.Bounty, env *xenv.Environment) error {
		return inst.WithdrawSelf(env.Caller())
	})
}

func (b *Bounties) handleResolve(w http.ResponseWriter, req *http.Request) error {
	return b.handleCall(w, req, func(inst *bounty.Bounty, env *xenv.Environment) error {
		return inst.Resolve(env.Caller(), env.Time())
	})
}

func (b *Bounties) handleCancel(w http.ResponseWriter, req *http.Request) error {
	return b.handleCall(w, req, func(inst *bounty.Bounty, env *xenv.Environment) error {
		return inst.Cancel(env.Caller())
	})
}

func (b *Bounties) handleCall(w http.ResponseWriter, req *http.Request, op func(*bounty.Bounty, *xenv.Environment) error) error {
	var body CallRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	caller, err := requireCaller(body.Caller)
	if err != nil {
		return err
	}
	receipt, err := b.exec(req, caller, nil, op)
	if err != nil {
		return err
	}
	converted, err := utils.ConvertReceipt(receipt)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, converted)
}

func (b *Bounties) handleRefund(w http.ResponseWriter, req *http.Request) error {
	var body RefundRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	caller, err := requireCaller(body.Caller)
	if err != nil {
		return err
	}
	if body.Account == nil {
		return utils.BadRequest(errors.New("account: required"))
	}
	receipt, err := b.exec(req, caller, nil, func(inst *bounty.Bounty, env *xenv.Environment) error {
		return inst.WithdrawFor(env.Caller(), *body.Account)
	})
	if err != nil {
		return err
	}
	converted, err := utils.ConvertReceipt(receipt)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, converted)
}

func (b *Bounties) handleSubmit(w http.ResponseWriter, req *http.Request) error {
	var body SubmitRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	caller, err := requireCaller(body.Caller)
	if err != nil {
		return err
	}
	var index uint64
	receipt, err := b.exec(req, caller, nil, func(inst *bounty.Bounty, env *xenv.Environment) (err error) {
		index, err = inst.Submit(env.Caller(), body.Title, body.ProofRef)
		return
	})
	if err != nil {
		return err
	}
	converted, err := utils.ConvertReceipt(receipt)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Submitted{Index: index, Receipt: converted})
}

func (b *Bounties) handleNominate(w http.ResponseWriter, req *http.Request) error {
	var body NominateRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	caller, err := requireCaller(body.Caller)
	if err != nil {
		return err
	}
	if body.Index == nil {
		return utils.BadRequest(errors.New("index: required"))
	}
	receipt, err := b.exec(req, caller, nil, func(inst *bounty.Bounty, env *xenv.Environment) error {
		return inst.Nominate(env.Caller(), *body.Index, env.Time())
	})
	if err != nil {
		return err
	}
	converted, err := utils.ConvertReceipt(receipt)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, converted)
}

func (b *Bounties) handleVote(w http.ResponseWriter, req *http.Request) error {
	var body VoteRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	caller, err := requireCaller(body.Caller)
	if err != nil {
		return err
	}
	if body.Support == nil {
		return utils.BadRequest(errors.New("support: required"))
	}
	receipt, err := b.exec(req, caller, nil, func(inst *bounty.Bounty, env *xenv.Environment) error {
		return inst.CastVote(env.Caller(), *body.Support, env.Time())
	})
	if err != nil {
		return err
	}
	converted, err := utils.ConvertReceipt(receipt)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, converted)
}

func (b *Bounties) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	routes := []struct {
		method  string
		path    string
		handler utils.HandlerFunc
	}{
		{http.MethodPost, "", b.handleCreate},
		{http.MethodGet, "", b.handleList},
		{http.MethodGet, "/{address}", b.handleGetBounty},
		{http.MethodGet, "/{address}/claims", b.handleGetClaims},
		{http.MethodGet, "/{address}/claims/{index}", b.handleGetClaim},
		{http.MethodGet, "/{address}/stakes/{account}", b.handleGetStake},
		{http.MethodGet, "/{address}/round", b.handleGetRound},
		{http.MethodGet, "/{address}/votes/{account}/{round}", b.handleGetVote},
		{http.MethodPost, "/{address}/deposit", b.handleDeposit},
		{http.MethodPost, "/{address}/withdraw", b.handleWithdraw},
		{http.MethodPost, "/{address}/refund", b.handleRefund},
		{http.MethodPost, "/{address}/claims", b.handleSubmit},
		{http.MethodPost, "/{address}/nominate", b.handleNominate},
		{http.MethodPost, "/{address}/votes", b.handleVote},
		{http.MethodPost, "/{address}/resolve", b.handleResolve},
		{http.MethodPost, "/{address}/cancel", b.handleCancel},
	}
	for _, r := range routes {
		sub.Path(r.path).
			Methods(r.method).
			Name(r.method + " " + pathPrefix + r.path).
			HandlerFunc(utils.WrapHandlerFunc(r.handler))
	}
}
