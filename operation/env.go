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
	"github.com/bitmark-inc/registerd/register"
	"github.com/bitmark-inc/registerd/state"
)

// Env - one contract in progress
//
// when building, pre-states come from the database and both markers
// are written to the register stream; otherwise they are read from it
type Env struct {
	Contract *Contract
	Flags    Flags

	// the register the operation changes, Pre is nil for CREATE
	Address address.Address
	Pre     *state.State

	db      register.Database
	penalty PenaltyFunc
	build   bool
}

// Caller - identity that signed the contract
func (env *Env) Caller() digest.Digest {
	return env.Contract.Caller
}

// Timestamp - modification time for every changed register
func (env *Env) Timestamp() uint64 {
	return env.Contract.Timestamp
}

func (env *Env) overlay() register.Flags {
	return env.Flags.Overlay()
}

// store post at a together with its proof; if the state write fails
// the proof is erased again so neither exists without the other
func (env *Env) commitWithProof(a address.Address, post *state.State, proof address.Address, txid digest.Digest, contract uint32) error {
	if err := env.db.WriteProof(proof, txid, contract, env.overlay()); nil != err {
		return err
	}
	if err := env.db.WriteState(a, post, env.overlay()); nil != err {
		_ = env.db.EraseProof(proof, txid, contract, env.overlay())
		return err
	}
	return nil
}

func checkAddress(a address.Address) error {
	if !a.IsValid() {
		return fault.InvalidAddress
	}
	if a.IsReserved() {
		return fault.ReservedAddress
	}
	if a.IsWildcard() {
		return fault.WildcardAddress
	}
	return nil
}

// Load - the pre-state of the register to change
func (env *Env) Load(a address.Address) (*state.State, error) {
	if err := checkAddress(a); nil != err {
		return nil, err
	}
	env.Address = a

	if env.build {
		s, err := env.db.ReadState(a, env.overlay())
		if nil != err {
			return nil, err
		}
		if err := s.IsValid(); nil != err {
			return nil, err
		}
		env.Contract.Registers.WriteU8(MarkerPreState)
		env.Contract.Registers.WriteFixed(s.Serialize())
		env.Pre = s
		return s, nil
	}

	r := env.Contract.Registers
	marker, err := r.ReadU8()
	if nil != err || MarkerPreState != marker {
		return nil, fault.MissingPreState
	}
	s, err := state.Read(r)
	if nil != err {
		return nil, err
	}
	if err := s.IsValid(); nil != err {
		return nil, err
	}

	if 0 != env.Flags&FlagPreState {
		current, err := env.db.ReadState(a, env.overlay())
		if nil != err {
			return nil, err
		}
		if !current.Equal(s) {
			return nil, fault.PreStateMismatch
		}
	}

	env.Pre = s
	return s, nil
}

// Fresh - the register to create must not exist
func (env *Env) Fresh(a address.Address) error {
	if err := checkAddress(a); nil != err {
		return err
	}
	if env.db.HasState(a, env.overlay()) {
		return fault.AlreadyExists
	}
	env.Address = a
	env.Pre = nil
	return nil
}

// Object - the pre-state as an object register, on a copy
func (env *Env) Object() (*object.Object, error) {
	if nil == env.Pre {
		return nil, fault.MissingPreState
	}
	return object.FromState(env.Pre.Clone())
}

// standard object with the caller as owner
func (env *Env) owned(standards ...object.Standard) (*object.Object, error) {
	if env.Pre.Owner != env.Caller() {
		return nil, fault.AccountNotOwned
	}
	o, err := env.Object()
	if nil != err {
		return nil, err
	}
	s := o.Standard()
	for _, want := range standards {
		if want == s {
			return o, nil
		}
	}
	return nil, fault.InvalidStandard
}

// settle - check or record the post-state checksum
func (env *Env) settle(post *state.State) error {
	if nil == post {
		return fault.InvalidState
	}
	if err := post.IsValid(); nil != err {
		return err
	}

	if env.build {
		env.Contract.Registers.WriteU8(MarkerPostState)
		env.Contract.Registers.WriteU64(post.Checksum)
		return nil
	}

	if 0 == env.Flags&FlagPostState {
		return nil
	}

	r := env.Contract.Registers
	marker, err := r.ReadU8()
	if nil != err || MarkerPostState != marker {
		return fault.MissingPostState
	}
	checksum, err := r.ReadU64()
	if nil != err {
		return fault.MissingPostState
	}
	if checksum != post.Checksum {
		return fault.PostStateMismatch
	}
	if !r.End() {
		return fault.TrailingData
	}
	return nil
}

// record - keep this contract for its counterpart
func (env *Env) record(op Operation) error {
	return env.db.WriteContract(env.Contract.TxID, env.Contract.Index, packRecord(env.Caller(), op), env.overlay())
}

// fetch - a recorded contract
func (env *Env) fetch(txId digest.Digest, index uint32) (digest.Digest, Operation, error) {
	data, err := env.db.ReadContract(txId, index, env.overlay())
	if nil != err {
		return digest.Zero, nil, err
	}
	return unpackRecord(data)
}
