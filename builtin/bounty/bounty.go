// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package bounty

import (
	"math/big"

	"github.com/vechain/bounty/builtin/bounty/claims"
	"github.com/vechain/bounty/builtin/bounty/payout"
	"github.com/vechain/bounty/builtin/bounty/reverts"
	"github.com/vechain/bounty/builtin/bounty/stakes"
	"github.com/vechain/bounty/builtin/bounty/voting"
	"github.com/vechain/bounty/builtin/solidity"
	"github.com/vechain/bounty/log"
	"github.com/vechain/bounty/state"
	"github.com/vechain/bounty/thor"
)

var logger = log.WithContext("pkg", "bounty")

var (
	slotInitialized  = thor.BytesToBytes32([]byte("initialized"))
	slotStatus       = thor.BytesToBytes32([]byte("status"))
	slotIssuer       = thor.BytesToBytes32([]byte("issuer"))
	slotFeeRecipient = thor.BytesToBytes32([]byte("fee-recipient"))
	slotMetadataRef  = thor.BytesToBytes32([]byte("metadata-ref"))
	slotJoinable     = thor.BytesToBytes32([]byte("joinable"))
	slotLock         = thor.BytesToBytes32([]byte("reentrancy-lock"))
)

const opInitialize = "initialize"

// Host is the environment a bounty executes in.
type Host interface {
	// Transfer moves amount between accounts. The recipient may reject it.
	Transfer(from, to thor.Address, amount *big.Int) error
	// Emit records an event of the bounty at address.
	Emit(address thor.Address, ev Event)
}

// Bounty is a handle over the storage of one bounty instance.
type Bounty struct {
	addr  thor.Address
	state *state.State
	host  Host

	initialized  *solidity.Bool
	status       *solidity.Uint64
	issuer       *solidity.Address
	feeRecipient *solidity.Address
	metadataRef  *solidity.String
	joinable     *solidity.Bool
	lock         *solidity.Bool

	stakes *stakes.Service
	claims *claims.Service
	voting *voting.Service
}

// New binds a bounty handle to addr in st.
func New(addr thor.Address, st *state.State, host Host) *Bounty {
	sctx := solidity.NewContext(addr, st)
	return &Bounty{
		addr:         addr,
		state:        st,
		host:         host,
		initialized:  solidity.NewBool(sctx, slotInitialized),
		status:       solidity.NewUint64(sctx, slotStatus),
		issuer:       solidity.NewAddress(sctx, slotIssuer),
		feeRecipient: solidity.NewAddress(sctx, slotFeeRecipient),
		metadataRef:  solidity.NewString(sctx, slotMetadataRef),
		joinable:     solidity.NewBool(sctx, slotJoinable),
		lock:         solidity.NewBool(sctx, slotLock),
		stakes:       stakes.New(sctx),
		claims:       claims.New(sctx),
		voting:       voting.New(sctx),
	}
}

func (b *Bounty) Address() thor.Address {
	return b.addr
}

// call runs fn as one all-or-nothing operation under the reentrancy lock.
// Events are handed to the host only when fn succeeds.
func (b *Bounty) call(op string, fn func(emit func(Event)) error) (err error) {
	defer func() {
		recordOperation(op, err)
		if err != nil {
			logger.Info("operation failed", "bounty", b.addr, "op", op, "err", err)
		}
	}()

	locked, err := b.lock.Get()
	if err != nil {
		return err
	}
	if locked {
		return reverts.ErrReentrantCall
	}

	var before *Status
	initialized, err := b.initialized.Get()
	if err != nil {
		return err
	}
	if initialized {
		s, err := b.State()
		if err != nil {
			return err
		}
		before = &s
	} else if op != opInitialize {
		return reverts.ErrNotInitialized
	}

	checkpoint := b.state.NewCheckpoint()
	b.lock.Set(true)

	var events []Event
	if err := fn(func(ev Event) { events = append(events, ev) }); err != nil {
		b.state.RevertTo(checkpoint)
		return err
	}
	b.lock.Set(false)

	after, err := b.State()
	if err != nil {
		b.state.RevertTo(checkpoint)
		return err
	}
	if before == nil || *before != after {
		from := "none"
		if before != nil {
			from = before.String()
		}
		logger.Debug("state transition", "bounty", b.addr, "op", op, "from", from, "to", after)
	}
	for _, ev := range events {
		b.host.Emit(b.addr, ev)
	}
	return nil
}

func (b *Bounty) setStatus(s Status) {
	b.status.Set(uint64(s))
}

// requireStatus fails with err unless the bounty is in want.
func (b *Bounty) requireStatus(want Status, err error) error {
	s, serr := b.State()
	if serr != nil {
		return serr
	}
	if s != want {
		return err
	}
	return nil
}

func (b *Bounty) requireIssuer(caller thor.Address) (thor.Address, error) {
	issuer, err := b.issuer.Get()
	if err != nil {
		return thor.Address{}, err
	}
	if caller != issuer {
		return issuer, reverts.ErrOnlyIssuer
	}
	return issuer, nil
}

// transfer moves amount out of the bounty account. Any failure of the host is a transfer revert.
func (b *Bounty) transfer(to thor.Address, amount *big.Int) error {
	if err := b.host.Transfer(b.addr, to, amount); err != nil {
		logger.Info("outbound transfer failed", "bounty", b.addr, "to", to, "amount", amount, "err", err)
		return reverts.ErrTransferFailed
	}
	return nil
}

// Initialize sets up a fresh instance. value has already been moved into the
// bounty account and is credited to the issuer.
func (b *Bounty) Initialize(issuer, feeRecipient thor.Address, metadataRef string, joinable bool, value *big.Int) error {
	return b.call(opInitialize, func(emit func(Event)) error {
		ok, err := b.initialized.Get()
		if err != nil {
			return err
		}
		if ok {
			return reverts.ErrAlreadyInitialized
		}
		b.initialized.Set(true)
		b.setStatus(StatusOpen)
		b.issuer.Set(issuer)
		b.feeRecipient.Set(feeRecipient)
		if err := b.metadataRef.Set(metadataRef); err != nil {
			return err
		}
		b.joinable.Set(joinable)
		b.voting.Init()

		amount := new(big.Int)
		if value != nil && value.Sign() > 0 {
			if err := b.stakes.Add(issuer, value); err != nil {
				return err
			}
			amount.Set(value)
		}
		emit(&Created{
			Issuer:       issuer,
			FeeRecipient: feeRecipient,
			MetadataRef:  metadataRef,
			Joinable:     joinable,
			Amount:       amount,
		})
		if amount.Sign() > 0 {
			emit(&Deposited{Account: issuer, Amount: amount})
		}
		return nil
	})
}

// Deposit credits value to caller's stake. value has already been moved into the bounty account.
func (b *Bounty) Deposit(caller thor.Address, value *big.Int) error {
	return b.call("deposit", func(emit func(Event)) error {
		if err := b.requireStatus(StatusOpen, reverts.ErrNotOpen); err != nil {
			return err
		}
		joinable, err := b.joinable.Get()
		if err != nil {
			return err
		}
		if !joinable {
			return reverts.ErrNotJoinable
		}
		if err := b.stakes.Add(caller, value); err != nil {
			return err
		}
		emit(&Deposited{Account: caller, Amount: new(big.Int).Set(value)})
		return nil
	})
}

// WithdrawSelf returns the whole stake of caller while the bounty is open.
func (b *Bounty) WithdrawSelf(caller thor.Address) error {
	return b.call("withdrawSelf", func(emit func(Event)) error {
		s, err := b.State()
		if err != nil {
			return err
		}
		switch s {
		case StatusOpen:
		case StatusVoting:
			return reverts.ErrLockedDuringVoting
		default:
			return reverts.ErrNotOpen
		}
		issuer, err := b.issuer.Get()
		if err != nil {
			return err
		}
		if caller == issuer {
			return reverts.ErrIssuerCannotWithdraw
		}
		amount, err := b.stakes.Remove(caller)
		if err != nil {
			return err
		}
		if err := b.transfer(caller, amount); err != nil {
			return err
		}
		emit(&Withdrawn{Account: caller, Amount: amount})
		return nil
	})
}

// WithdrawFor refunds the stake of target after cancellation. Anyone may call it.
func (b *Bounty) WithdrawFor(caller, target thor.Address) error {
	return b.call("withdrawFor", func(emit func(Event)) error {
		if err := b.requireStatus(StatusCancelled, reverts.ErrNotCancelled); err != nil {
			return err
		}
		amount, err := b.stakes.Remove(target)
		if err != nil {
			return err
		}
		if err := b.transfer(target, amount); err != nil {
			return err
		}
		emit(&Refunded{Account: target, Caller: caller, Amount: amount})
		return nil
	})
}

// Submit appends a claim by caller and returns its index.
func (b *Bounty) Submit(caller thor.Address, title, proofRef string) (index uint64, err error) {
	err = b.call("submit", func(emit func(Event)) error {
		if err := b.requireStatus(StatusOpen, reverts.ErrNotOpen); err != nil {
			return err
		}
		i, err := b.claims.Submit(caller, title, proofRef)
		if err != nil {
			return err
		}
		index = i
		emit(&ClaimSubmitted{Index: i, Claimant: caller, Title: title, ProofRef: proofRef})
		return nil
	})
	return
}

// Nominate puts claim index to a vote.
func (b *Bounty) Nominate(caller thor.Address, index uint64, now uint64) error {
	return b.call("nominate", func(emit func(Event)) error {
		if _, err := b.requireIssuer(caller); err != nil {
			return err
		}
		if err := b.requireStatus(StatusOpen, reverts.ErrNotOpen); err != nil {
			return err
		}
		count, err := b.claims.Count()
		if err != nil {
			return err
		}
		if index >= count {
			return reverts.ErrInvalidIndex
		}
		if err := b.voting.Open(index, now); err != nil {
			return err
		}
		b.setStatus(StatusVoting)

		round, err := b.voting.Current()
		if err != nil {
			return err
		}
		emit(&Nominated{Index: index, Round: round.Number, Deadline: round.Deadline})
		return nil
	})
}

// CastVote records the vote of caller weighted by its stake.
func (b *Bounty) CastVote(caller thor.Address, support bool, now uint64) error {
	return b.call("castVote", func(emit func(Event)) error {
		if err := b.requireStatus(StatusVoting, reverts.ErrNotVoting); err != nil {
			return err
		}
		round, err := b.voting.Current()
		if err != nil {
			return err
		}
		if now >= round.Deadline {
			return reverts.ErrVotingEnded
		}
		issuer, err := b.issuer.Get()
		if err != nil {
			return err
		}
		if caller == issuer {
			return reverts.ErrIssuerCannotVote
		}
		voted, err := b.voting.HasVoted(caller, round.Number)
		if err != nil {
			return err
		}
		if voted {
			return reverts.ErrAlreadyVoted
		}
		weight, err := b.stakes.Balance(caller)
		if err != nil {
			return err
		}
		if weight.Sign() == 0 {
			return reverts.ErrNoStake
		}
		if err := b.voting.Cast(caller, support, weight); err != nil {
			return err
		}
		emit(&VoteCast{Voter: caller, Support: support, Weight: weight, Round: round.Number})
		return nil
	})
}

// Resolve concludes the active round, paying out on ratification or reopening otherwise.
func (b *Bounty) Resolve(caller thor.Address, now uint64) error {
	return b.call("resolve", func(emit func(Event)) error {
		if err := b.requireStatus(StatusVoting, reverts.ErrNotVoting); err != nil {
			return err
		}
		round, err := b.voting.Current()
		if err != nil {
			return err
		}
		total, err := b.stakes.Total()
		if err != nil {
			return err
		}
		if !round.Concluded(total, now) {
			return reverts.ErrVotingNotEnded
		}

		if !round.Passed() {
			if err := b.voting.Advance(); err != nil {
				return err
			}
			b.setStatus(StatusOpen)
			emit(&Resolved{Passed: false, Round: round.Number})
			return nil
		}

		b.setStatus(StatusClosed)
		emit(&Resolved{Passed: true, Round: round.Number})
		return b.payout(round.NominatedClaim, emit)
	})
}

// payout sweeps the pool to the claimant of index, less the fee.
func (b *Bounty) payout(index uint64, emit func(Event)) error {
	claim, err := b.claims.Get(index)
	if err != nil {
		return err
	}
	feeRecipient, err := b.feeRecipient.Get()
	if err != nil {
		return err
	}
	// zero the pool before any funds leave
	amount, err := b.stakes.Sweep()
	if err != nil {
		return err
	}
	fee, reward := payout.Split(amount, !feeRecipient.IsZero())
	if fee.Sign() > 0 {
		if err := b.transfer(feeRecipient, fee); err != nil {
			return err
		}
	}
	if reward.Sign() > 0 {
		if err := b.transfer(claim.Claimant, reward); err != nil {
			return err
		}
	}
	emit(&PaidOut{Claimant: claim.Claimant, Reward: reward, FeeRecipient: feeRecipient, Fee: fee})
	return nil
}

// Cancel terminates an open bounty. Funds are recovered with WithdrawFor.
func (b *Bounty) Cancel(caller thor.Address) error {
	return b.call("cancel", func(emit func(Event)) error {
		issuer, err := b.requireIssuer(caller)
		if err != nil {
			return err
		}
		if err := b.requireStatus(StatusOpen, reverts.ErrNotOpen); err != nil {
			return err
		}
		b.setStatus(StatusCancelled)
		emit(&Cancelled{Issuer: issuer})
		return nil
	})
}
