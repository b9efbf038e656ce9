// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package operation

import (
	"github.com/bitmark-inc/registerd/address"
	"github.com/bitmark-inc/registerd/digest"
	"github.com/bitmark-inc/registerd/fault"
	"github.com/bitmark-inc/registerd/object"
	"github.com/bitmark-inc/registerd/state"
	"github.com/bitmark-inc/registerd/stream"
)

// registers that hold a balance
var balanceStandards = []object.Standard{
	object.AccountStandard,
	object.TokenStandard,
	object.TrustStandard,
}

// Debit - remove an amount from a balance, pending a credit
type Debit struct {
	From      address.Address
	To        address.Address
	Amount    uint64
	Reference uint64
}

// Opcode - DEBIT
func (op *Debit) Opcode() Opcode { return OpDebit }

func (op *Debit) pack(w *stream.Stream) {
	writeAddress(w, op.From)
	writeAddress(w, op.To)
	w.WriteU64(op.Amount)
	w.WriteU64(op.Reference)
}

func (op *Debit) unpack(r *stream.Stream) error {
	var err error
	if op.From, err = readAddress(r); nil != err {
		return err
	}
	if op.To, err = readAddress(r); nil != err {
		return err
	}
	if op.Amount, err = r.ReadU64(); nil != err {
		return err
	}
	op.Reference, err = r.ReadU64()
	return err
}

// Verify - caller owns the source, destination exists or is a wildcard
func (op *Debit) Verify(env *Env) error {
	if 0 == op.Amount {
		return fault.ZeroAmount
	}
	if op.From == op.To {
		return fault.InvalidAddress
	}
	if !op.To.IsValid() {
		return fault.InvalidAddress
	}
	if op.To.IsReserved() {
		return fault.ReservedAddress
	}
	if !op.To.IsWildcard() && !env.db.HasState(op.To, env.overlay()) {
		return fault.RegisterNotFound
	}

	if _, err := env.Load(op.From); nil != err {
		return err
	}
	_, err := env.owned(balanceStandards...)
	return err
}

// Execute - balance reduced by Amount
func (op *Debit) Execute(env *Env) (*state.State, error) {
	return withdraw(env, op.Amount)
}

func withdraw(env *Env, amount uint64) (*state.State, error) {
	o, err := env.Object()
	if nil != err {
		return nil, err
	}
	balance, err := o.Uint64(object.FieldBalance)
	if nil != err {
		return nil, err
	}
	if amount > balance {
		return nil, fault.InsufficientBalance
	}
	if err := o.Set(object.FieldBalance, object.U64(balance-amount), env.Timestamp()); nil != err {
		return nil, err
	}
	return o.State, nil
}

// Commit - store the register and the debit for its credit
func (op *Debit) Commit(env *Env, post *state.State) error {
	if err := env.db.WriteState(op.From, post, env.overlay()); nil != err {
		return err
	}
	return env.record(op)
}

// Credit - receive the amount of a recorded debit
type Credit struct {
	TxID     digest.Digest
	Contract uint32
	Proof    address.Address
	To       address.Address
	Amount   uint64
}

// Opcode - CREDIT
func (op *Credit) Opcode() Opcode { return OpCredit }

func (op *Credit) pack(w *stream.Stream) {
	w.WriteDigest(op.TxID)
	w.WriteU32(op.Contract)
	writeAddress(w, op.Proof)
	writeAddress(w, op.To)
	w.WriteU64(op.Amount)
}

func (op *Credit) unpack(r *stream.Stream) error {
	var err error
	if op.TxID, err = r.ReadDigest(); nil != err {
		return err
	}
	if op.Contract, err = r.ReadU32(); nil != err {
		return err
	}
	if op.Proof, err = readAddress(r); nil != err {
		return err
	}
	if op.To, err = readAddress(r); nil != err {
		return err
	}
	op.Amount, err = r.ReadU64()
	return err
}

// Verify - matches its debit, same token, credited only once
func (op *Credit) Verify(env *Env) error {
	_, recorded, err := env.fetch(op.TxID, op.Contract)
	if nil != err {
		return err
	}
	debit, ok := recorded.(*Debit)
	if !ok || debit.From != op.Proof {
		return fault.WrongDebitContract
	}

	// the named destination, any account for a wildcard, or back to the source
	if debit.To != op.To && !debit.To.IsWildcard() && debit.From != op.To {
		return fault.CreditWrongAccount
	}
	if debit.Amount != op.Amount {
		return fault.CreditAmountMismatch
	}
	if env.db.HasProof(op.Proof, op.TxID, op.Contract, env.overlay()) {
		return fault.AlreadyCredited
	}

	if _, err := env.Load(op.To); nil != err {
		return err
	}
	if env.Pre.Owner != env.Caller() {
		return fault.CreditNotAuthorised
	}
	to, err := env.owned(balanceStandards...)
	if nil != err {
		return err
	}

	from, err := env.db.ReadObject(debit.From, env.overlay())
	if nil != err {
		return err
	}
	fromToken, err := from.Digest(object.FieldToken)
	if nil != err {
		return err
	}
	toToken, err := to.Digest(object.FieldToken)
	if nil != err {
		return err
	}
	if fromToken != toToken {
		return fault.IdentifierMismatch
	}
	return nil
}

// Execute - balance increased by Amount
func (op *Credit) Execute(env *Env) (*state.State, error) {
	o, err := env.Object()
	if nil != err {
		return nil, err
	}
	balance, err := o.Uint64(object.FieldBalance)
	if nil != err {
		return nil, err
	}
	if balance+op.Amount < balance {
		return nil, fault.InvalidAmount
	}
	if err := o.Set(object.FieldBalance, object.U64(balance+op.Amount), env.Timestamp()); nil != err {
		return nil, err
	}
	return o.State, nil
}

// Commit - store the register and the proof of credit
func (op *Credit) Commit(env *Env, post *state.State) error {
	return env.commitWithProof(op.To, post, op.Proof, op.TxID, op.Contract)
}

// Legacy - debit toward an output outside the register engine
//
// Script is passed through unchanged
type Legacy struct {
	From   address.Address
	Amount uint64
	Script []byte
}

// Opcode - LEGACY
func (op *Legacy) Opcode() Opcode { return OpLegacy }

func (op *Legacy) pack(w *stream.Stream) {
	writeAddress(w, op.From)
	w.WriteU64(op.Amount)
	w.WriteBytes(op.Script)
}

func (op *Legacy) unpack(r *stream.Stream) error {
	var err error
	if op.From, err = readAddress(r); nil != err {
		return err
	}
	if op.Amount, err = r.ReadU64(); nil != err {
		return err
	}
	op.Script, err = r.ReadBytes()
	return err
}

// Verify - caller owns the source
func (op *Legacy) Verify(env *Env) error {
	if 0 == op.Amount {
		return fault.ZeroAmount
	}
	if 0 == len(op.Script) || len(op.Script) > MaxRegisterSize {
		return fault.InvalidOperation
	}
	if _, err := env.Load(op.From); nil != err {
		return err
	}
	_, err := env.owned(object.AccountStandard, object.TrustStandard)
	return err
}

// Execute - balance reduced by Amount
func (op *Legacy) Execute(env *Env) (*state.State, error) {
	return withdraw(env, op.Amount)
}

// Commit - store the register and the output record
func (op *Legacy) Commit(env *Env, post *state.State) error {
	if err := env.db.WriteState(op.From, post, env.overlay()); nil != err {
		return err
	}
	return env.record(op)
}
