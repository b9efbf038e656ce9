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

// Write - replace a RAW payload or update OBJECT fields
//
// for objects Data is a packed update list (object.PackUpdates)
type Write struct {
	Address address.Address
	Data    []byte

	updates []object.Update
}

// Opcode - WRITE
func (op *Write) Opcode() Opcode { return OpWrite }

func (op *Write) pack(w *stream.Stream) {
	writeAddress(w, op.Address)
	w.WriteBytes(op.Data)
}

func (op *Write) unpack(r *stream.Stream) error {
	var err error
	if op.Address, err = readAddress(r); nil != err {
		return err
	}
	op.Data, err = r.ReadBytes()
	return err
}

// Verify - owner only, READONLY and APPEND registers refuse writes
func (op *Write) Verify(env *Env) error {
	if len(op.Data) > MaxRegisterSize {
		return fault.PayloadTooLarge
	}
	pre, err := env.Load(op.Address)
	if nil != err {
		return err
	}
	if pre.Owner != env.Caller() {
		return fault.InvalidOwner
	}

	switch pre.Type {
	case state.Raw:
		return nil
	case state.Object:
		op.updates, err = object.ParseUpdates(op.Data)
		return err
	default:
		return fault.InvalidRegisterType
	}
}

// Execute - apply the new payload or the field updates
func (op *Write) Execute(env *Env) (*state.State, error) {
	if state.Raw == env.Pre.Type {
		post := env.Pre.Clone()
		post.Modified = env.Timestamp()
		post.SetState(op.Data)
		return post, nil
	}

	o, err := env.Object()
	if nil != err {
		return nil, err
	}
	if err := o.Apply(op.updates, env.Timestamp()); nil != err {
		return nil, err
	}
	return o.State, nil
}

// Commit - store the register
func (op *Write) Commit(env *Env, post *state.State) error {
	return env.db.WriteState(op.Address, post, env.overlay())
}

// Append - grow an APPEND register
type Append struct {
	Address address.Address
	Data    []byte
}

// Opcode - APPEND
func (op *Append) Opcode() Opcode { return OpAppend }

func (op *Append) pack(w *stream.Stream) {
	writeAddress(w, op.Address)
	w.WriteBytes(op.Data)
}

func (op *Append) unpack(r *stream.Stream) error {
	var err error
	if op.Address, err = readAddress(r); nil != err {
		return err
	}
	op.Data, err = r.ReadBytes()
	return err
}

// Verify - owner only, result within MaxRegisterSize
func (op *Append) Verify(env *Env) error {
	if 0 == len(op.Data) {
		return fault.InvalidOperation
	}
	pre, err := env.Load(op.Address)
	if nil != err {
		return err
	}
	if pre.Owner != env.Caller() {
		return fault.InvalidOwner
	}
	if state.Append != pre.Type {
		return fault.InvalidRegisterType
	}
	if len(pre.Payload)+len(op.Data) > MaxRegisterSize {
		return fault.PayloadTooLarge
	}
	return nil
}

// Execute - payload grows by Data
func (op *Append) Execute(env *Env) (*state.State, error) {
	post := env.Pre.Clone()
	post.Modified = env.Timestamp()
	post.Append(op.Data)
	return post, nil
}

// Commit - store the register
func (op *Append) Commit(env *Env, post *state.State) error {
	return env.db.WriteState(op.Address, post, env.overlay())
}
