// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package operation

import (
	"github.com/bitmark-inc/registerd/address"
	"github.com/bitmark-inc/registerd/digest"
	"github.com/bitmark-inc/registerd/fault"
	"github.com/bitmark-inc/registerd/state"
	"github.com/bitmark-inc/registerd/stream"
)

// Transfer - release a register to a recipient
//
// without Force the register becomes unowned until claimed
type Transfer struct {
	Address   address.Address
	Recipient digest.Digest
	Force     bool
}

// Opcode - TRANSFER
func (op *Transfer) Opcode() Opcode { return OpTransfer }

func (op *Transfer) pack(w *stream.Stream) {
	writeAddress(w, op.Address)
	w.WriteDigest(op.Recipient)
	if op.Force {
		w.WriteU8(1)
	} else {
		w.WriteU8(0)
	}
}

func (op *Transfer) unpack(r *stream.Stream) error {
	var err error
	if op.Address, err = readAddress(r); nil != err {
		return err
	}
	if op.Recipient, err = r.ReadDigest(); nil != err {
		return err
	}
	force, err := r.ReadU8()
	if nil != err {
		return err
	}
	switch force {
	case 0:
	case 1:
		op.Force = true
	default:
		return fault.InvalidOperation
	}
	return nil
}

// Verify - owner only; TRUST never moves, NAME only when forced
func (op *Transfer) Verify(env *Env) error {
	switch op.Address.Type() {
	case address.Trust:
		return fault.CannotTransferRegister
	case address.Name:
		if !op.Force {
			return fault.CannotTransferRegister
		}
	}
	if op.Recipient.IsZero() {
		return fault.InvalidOwner
	}
	if op.Recipient == env.Caller() {
		return fault.TransferToSelf
	}

	pre, err := env.Load(op.Address)
	if nil != err {
		return err
	}
	if pre.Owner != env.Caller() {
		return fault.OwnerTransferNotAuthorised
	}
	return nil
}

// Execute - owner becomes zero, or the recipient when forced
func (op *Transfer) Execute(env *Env) (*state.State, error) {
	post := env.Pre.Clone()
	if op.Force {
		post.Owner = op.Recipient
	} else {
		post.Owner = digest.Zero
	}
	post.Modified = env.Timestamp()
	post.SetChecksum()
	return post, nil
}

// Commit - store the register and the transfer for its claim
func (op *Transfer) Commit(env *Env, post *state.State) error {
	if err := env.db.WriteState(op.Address, post, env.overlay()); nil != err {
		return err
	}
	return env.record(op)
}

// Claim - take ownership of a transferred register
type Claim struct {
	TxID     digest.Digest
	Contract uint32
	Address  address.Address
}

// Opcode - CLAIM
func (op *Claim) Opcode() Opcode { return OpClaim }

func (op *Claim) pack(w *stream.Stream) {
	w.WriteDigest(op.TxID)
	w.WriteU32(op.Contract)
	writeAddress(w, op.Address)
}

func (op *Claim) unpack(r *stream.Stream) error {
	var err error
	if op.TxID, err = r.ReadDigest(); nil != err {
		return err
	}
	if op.Contract, err = r.ReadU32(); nil != err {
		return err
	}
	op.Address, err = readAddress(r)
	return err
}

// Verify - caller is the recipient or the sender; only once per transfer
func (op *Claim) Verify(env *Env) error {
	sender, recorded, err := env.fetch(op.TxID, op.Contract)
	if nil != err {
		return err
	}
	transfer, ok := recorded.(*Transfer)
	if !ok || transfer.Address != op.Address {
		return fault.WrongTransferContract
	}
	if env.Caller() != transfer.Recipient && env.Caller() != sender {
		return fault.ClaimNotAuthorised
	}
	if env.db.HasProof(op.Address, op.TxID, op.Contract, env.overlay()) {
		return fault.AlreadyClaimed
	}

	pre, err := env.Load(op.Address)
	if nil != err {
		return err
	}
	if !pre.Owner.IsZero() {
		return fault.NotTransferred
	}
	return nil
}

// Execute - owner becomes the caller
func (op *Claim) Execute(env *Env) (*state.State, error) {
	post := env.Pre.Clone()
	post.Owner = env.Caller()
	post.Modified = env.Timestamp()
	post.SetChecksum()
	return post, nil
}

// Commit - store the register and its proof of claim
func (op *Claim) Commit(env *Env, post *state.State) error {
	return env.commitWithProof(op.Address, post, op.Address, op.TxID, op.Contract)
}
