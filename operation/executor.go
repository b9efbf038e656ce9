// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package operation

import (
	"math/bits"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/registerd/address"
	"github.com/bitmark-inc/registerd/digest"
	"github.com/bitmark-inc/registerd/fault"
	"github.com/bitmark-inc/registerd/object"
	"github.com/bitmark-inc/registerd/register"
	"github.com/bitmark-inc/registerd/stream"
)

// PenaltyFunc - trust lost when unstaking amount out of stake
type PenaltyFunc func(trust uint64, stake uint64, amount uint64) uint64

// DefaultPenalty - trust * amount / stake
func DefaultPenalty(trust uint64, stake uint64, amount uint64) uint64 {
	if 0 == stake {
		return 0
	}
	hi, lo := bits.Mul64(trust, amount)
	if hi >= stake {
		return trust
	}
	q, _ := bits.Div64(hi, lo, stake)
	return q
}

// Executor - runs contracts against a register database
type Executor struct {
	db      register.Database
	penalty PenaltyFunc
	log     *logger.L
}

// New - executor with a penalty rule, nil selects DefaultPenalty
func New(db register.Database, penalty PenaltyFunc) *Executor {
	if nil == penalty {
		penalty = DefaultPenalty
	}
	return &Executor{
		db:      db,
		penalty: penalty,
		log:     logger.New("operation"),
	}
}

// Execute - verify, execute, check and, with WRITE, commit a contract
func (e *Executor) Execute(contract *Contract, flags Flags) error {
	if nil == contract {
		return fault.InvalidOperation
	}
	op, err := e.run(contract, flags, false)
	if nil != err {
		e.log.Warnf("tx: %s[%d]  %s  flags: %s  rejected: %s", contract.TxID, contract.Index, opName(op), flags, err)
		return err
	}
	e.log.Debugf("tx: %s[%d]  %s  flags: %s  accepted", contract.TxID, contract.Index, opName(op), flags)
	return nil
}

// Build - fill the register stream from the current database
//
// only the MEMPOOL bit of flags is used, to select the view
func (e *Executor) Build(contract *Contract, flags Flags) error {
	if nil == contract {
		return fault.InvalidOperation
	}
	op, err := e.run(contract, flags.Overlay()&^FlagBlock, true)
	if nil != err {
		e.log.Debugf("build: %s  failed: %s", opName(op), err)
	}
	return err
}

func opName(op Operation) string {
	if nil == op {
		return "-"
	}
	return op.Opcode().String()
}

func (e *Executor) run(contract *Contract, flags Flags, build bool) (Operation, error) {
	op, err := contract.Operation()
	if nil != err {
		return nil, err
	}

	if build || nil == contract.Registers {
		contract.Registers = stream.NewEmpty()
	}
	contract.Registers.Reset()

	env := &Env{
		Contract: contract,
		Flags:    flags,
		db:       e.db,
		penalty:  e.penalty,
		build:    build,
	}

	if err := op.Verify(env); nil != err {
		return op, err
	}
	post, err := op.Execute(env)
	if nil != err {
		return op, err
	}
	if err := env.settle(post); nil != err {
		return op, err
	}

	if build || 0 == flags&FlagWrite {
		return op, nil
	}
	return op, op.Commit(env, post)
}

// Penalty - the penalty rule in use
func (e *Executor) Penalty(trust uint64, stake uint64, amount uint64) uint64 {
	return e.penalty(trust, stake, amount)
}

// UnstakePenalty - penalty for an identity unstaking amount now
func (e *Executor) UnstakePenalty(genesis digest.Digest, amount uint64, flags Flags) (uint64, error) {
	o, err := e.db.ReadObject(address.ForTrust(genesis), flags.Overlay())
	if nil != err {
		return 0, err
	}
	if object.TrustStandard != o.Standard() {
		return 0, fault.InvalidStandard
	}
	trust, err := o.Uint64(object.FieldTrust)
	if nil != err {
		return 0, err
	}
	stake, err := o.Uint64(object.FieldStake)
	if nil != err {
		return 0, err
	}
	if amount > stake {
		return 0, fault.InsufficientStake
	}
	return e.penalty(trust, stake, amount), nil
}
