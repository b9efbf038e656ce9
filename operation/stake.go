// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package operation

import (
	"github.com/bitmark-inc/registerd/address"
	"github.com/bitmark-inc/registerd/fault"
	"github.com/bitmark-inc/registerd/object"
	"github.com/bitmark-inc/registerd/state"
	"github.com/bitmark-inc/registerd/stream"
)

// trust account values in one place
type trustAccount struct {
	o       *object.Object
	balance uint64
	stake   uint64
	trust   uint64
}

// the caller's trust account, loaded and checked
func loadTrust(env *Env) error {
	if _, err := env.Load(address.ForTrust(env.Caller())); nil != err {
		return err
	}
	_, err := env.owned(object.TrustStandard)
	return err
}

func readTrust(env *Env) (*trustAccount, error) {
	o, err := env.Object()
	if nil != err {
		return nil, err
	}
	t := &trustAccount{o: o}
	if t.balance, err = o.Uint64(object.FieldBalance); nil != err {
		return nil, err
	}
	if t.stake, err = o.Uint64(object.FieldStake); nil != err {
		return nil, err
	}
	if t.trust, err = o.Uint64(object.FieldTrust); nil != err {
		return nil, err
	}
	return t, nil
}

func (t *trustAccount) store(timestamp uint64) (*state.State, error) {
	for _, f := range []struct {
		name  string
		value uint64
	}{
		{object.FieldBalance, t.balance},
		{object.FieldStake, t.stake},
		{object.FieldTrust, t.trust},
	} {
		if err := t.o.Set(f.name, object.U64(f.value), timestamp); nil != err {
			return nil, err
		}
	}
	return t.o.State, nil
}

// move amount from balance to stake
func (t *trustAccount) stakeAmount(amount uint64) error {
	if amount > t.balance {
		return fault.InsufficientBalance
	}
	t.balance -= amount
	t.stake += amount
	return nil
}

// move amount from stake to balance
func (t *trustAccount) unstakeAmount(amount uint64) error {
	if amount > t.stake {
		return fault.InsufficientStake
	}
	t.stake -= amount
	t.balance += amount
	return nil
}

// Stake - move balance into stake on the caller's trust account
type Stake struct {
	Amount uint64
}

// Opcode - STAKE
func (op *Stake) Opcode() Opcode { return OpStake }

func (op *Stake) pack(w *stream.Stream) {
	w.WriteU64(op.Amount)
}

func (op *Stake) unpack(r *stream.Stream) error {
	var err error
	op.Amount, err = r.ReadU64()
	return err
}

// Verify - caller's own trust account
func (op *Stake) Verify(env *Env) error {
	if 0 == op.Amount {
		return fault.ZeroAmount
	}
	return loadTrust(env)
}

// Execute - balance -= Amount, stake += Amount
func (op *Stake) Execute(env *Env) (*state.State, error) {
	t, err := readTrust(env)
	if nil != err {
		return nil, err
	}
	if err := t.stakeAmount(op.Amount); nil != err {
		return nil, err
	}
	return t.store(env.Timestamp())
}

// Commit - store the trust account
func (op *Stake) Commit(env *Env, post *state.State) error {
	return env.db.WriteState(env.Address, post, env.overlay())
}

// Unstake - move stake back to balance, losing trust
type Unstake struct {
	Amount  uint64
	Penalty uint64
}

// Opcode - UNSTAKE
func (op *Unstake) Opcode() Opcode { return OpUnstake }

func (op *Unstake) pack(w *stream.Stream) {
	w.WriteU64(op.Amount)
	w.WriteU64(op.Penalty)
}

func (op *Unstake) unpack(r *stream.Stream) error {
	var err error
	if op.Amount, err = r.ReadU64(); nil != err {
		return err
	}
	op.Penalty, err = r.ReadU64()
	return err
}

// Verify - caller's own trust account
func (op *Unstake) Verify(env *Env) error {
	if 0 == op.Amount {
		return fault.ZeroAmount
	}
	return loadTrust(env)
}

// Execute - penalty must match the penalty rule, trust floors at zero
func (op *Unstake) Execute(env *Env) (*state.State, error) {
	t, err := readTrust(env)
	if nil != err {
		return nil, err
	}
	if op.Amount > t.stake {
		return nil, fault.InsufficientStake
	}
	if expected := env.penalty(t.trust, t.stake, op.Amount); expected != op.Penalty {
		return nil, fault.InvalidPenalty
	}

	if err := t.unstakeAmount(op.Amount); nil != err {
		return nil, err
	}
	if op.Penalty > t.trust {
		t.trust = 0
	} else {
		t.trust -= op.Penalty
	}
	return t.store(env.Timestamp())
}

// Commit - store the trust account
func (op *Unstake) Commit(env *Env, post *state.State) error {
	return env.db.WriteState(env.Address, post, env.overlay())
}

// MaxTrustScore - trust score ceiling, thirteen 28 day periods in seconds
const MaxTrustScore = 60 * 60 * 24 * 28 * 13

// Trust - new trust score with a stake adjustment
//
// the score can rise by at most the seconds elapsed since the trust
// account was last modified; a positive Change stakes from balance, a
// negative one unstakes and must carry the penalty an Unstake would
type Trust struct {
	Score   uint64
	Change  int64
	Penalty uint64
}

// Opcode - TRUST
func (op *Trust) Opcode() Opcode { return OpTrust }

func (op *Trust) pack(w *stream.Stream) {
	w.WriteU64(op.Score)
	w.WriteI64(op.Change)
	w.WriteU64(op.Penalty)
}

func (op *Trust) unpack(r *stream.Stream) error {
	var err error
	if op.Score, err = r.ReadU64(); nil != err {
		return err
	}
	if op.Change, err = r.ReadI64(); nil != err {
		return err
	}
	op.Penalty, err = r.ReadU64()
	return err
}

// Verify - caller's own trust account
func (op *Trust) Verify(env *Env) error {
	if op.Change >= 0 && 0 != op.Penalty {
		return fault.InvalidPenalty
	}
	return loadTrust(env)
}

// Execute - check and set the score then apply the change
func (op *Trust) Execute(env *Env) (*state.State, error) {
	t, err := readTrust(env)
	if nil != err {
		return nil, err
	}

	if op.Score > trustCeiling(t.trust, t.o.State.Modified, env.Timestamp()) {
		return nil, fault.InvalidTrustScore
	}
	t.trust = op.Score

	switch {
	case op.Change > 0:
		err = t.stakeAmount(uint64(op.Change))
	case op.Change < 0:
		amount := uint64(-op.Change)
		if amount > t.stake {
			return nil, fault.InsufficientStake
		}
		if expected := env.penalty(t.trust, t.stake, amount); expected != op.Penalty {
			return nil, fault.InvalidPenalty
		}
		err = t.unstakeAmount(amount)
		if op.Penalty > t.trust {
			t.trust = 0
		} else {
			t.trust -= op.Penalty
		}
	}
	if nil != err {
		return nil, err
	}
	return t.store(env.Timestamp())
}

// highest score reachable from previous after the time between
// modified and now
func trustCeiling(previous uint64, modified uint64, now uint64) uint64 {
	elapsed := uint64(0)
	if now > modified {
		elapsed = now - modified
	}
	ceiling := previous + elapsed
	if ceiling < previous || ceiling > MaxTrustScore {
		ceiling = MaxTrustScore
	}
	if previous > ceiling {
		return previous
	}
	return ceiling
}

// Commit - store the trust account
func (op *Trust) Commit(env *Env, post *state.State) error {
	return env.db.WriteState(env.Address, post, env.overlay())
}
