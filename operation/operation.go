// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package operation

import (
	"github.com/bitmark-inc/registerd/address"
	"github.com/bitmark-inc/registerd/fault"
	"github.com/bitmark-inc/registerd/state"
	"github.com/bitmark-inc/registerd/stream"
)

// Operation - one decoded instruction
//
// every operation changes exactly one register, the one loaded by
// Verify into the environment
type Operation interface {
	Opcode() Opcode

	// read-only checks, loads the pre-state
	Verify(*Env) error

	// the post-state, computed on a copy of the pre-state
	Execute(*Env) (*state.State, error)

	// durable write of the post-state and any index
	Commit(*Env, *state.State) error

	pack(*stream.Stream)
	unpack(*stream.Stream) error
}

// Pack - opcode ++ arguments
func Pack(op Operation) []byte {
	w := stream.NewEmpty()
	w.WriteU8(uint8(op.Opcode()))
	op.pack(w)
	return w.Bytes()
}

// Decode - read one operation
func Decode(r *stream.Stream) (Operation, error) {
	code, err := r.ReadU8()
	if nil != err {
		return nil, err
	}

	var op Operation
	switch Opcode(code) {
	case OpWrite:
		op = &Write{}
	case OpAppend:
		op = &Append{}
	case OpCreate:
		op = &Create{}
	case OpTransfer:
		op = &Transfer{}
	case OpClaim:
		op = &Claim{}
	case OpDebit:
		op = &Debit{}
	case OpCredit:
		op = &Credit{}
	case OpStake:
		op = &Stake{}
	case OpUnstake:
		op = &Unstake{}
	case OpTrust:
		op = &Trust{}
	case OpLegacy:
		op = &Legacy{}
	default:
		return nil, fault.UnknownOperation
	}

	if err := op.unpack(r); nil != err {
		return nil, err
	}
	return op, nil
}

func readAddress(r *stream.Stream) (address.Address, error) {
	d, err := r.ReadDigest()
	return address.Address(d), err
}

func writeAddress(w *stream.Stream, a address.Address) {
	w.WriteDigest(a)
}
