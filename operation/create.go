// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package operation

import (
	"strings"

	"github.com/bitmark-inc/registerd/address"
	"github.com/bitmark-inc/registerd/digest"
	"github.com/bitmark-inc/registerd/fault"
	"github.com/bitmark-inc/registerd/object"
	"github.com/bitmark-inc/registerd/state"
	"github.com/bitmark-inc/registerd/stream"
)

// namespaces that cannot be created
// names in this namespace are shared by every identity
const globalNamespace = "global"

var reservedNamespaces = map[string]struct{}{
	globalNamespace: {},
	"namespace": {},
	"system":    {},
	"trust":     {},
}

// register type implied by an address type
var addressRegister = map[address.Type]state.Type{
	address.ReadOnly:  state.ReadOnly,
	address.Append:    state.Append,
	address.Raw:       state.Raw,
	address.Object:    state.Object,
	address.Crypto:    state.Object,
	address.Account:   state.Object,
	address.Token:     state.Object,
	address.Trust:     state.Object,
	address.Name:      state.Object,
	address.Namespace: state.Object,
}

// object standard implied by an address type
var addressStandard = map[address.Type]object.Standard{
	address.Object:    object.NonStandard,
	address.Crypto:    object.CryptoStandard,
	address.Account:   object.AccountStandard,
	address.Token:     object.TokenStandard,
	address.Trust:     object.TrustStandard,
	address.Name:      object.NameStandard,
	address.Namespace: object.NamespaceStandard,
}

// Create - new register owned by the caller
type Create struct {
	Address address.Address
	Type    state.Type
	Data    []byte
}

// Opcode - CREATE
func (op *Create) Opcode() Opcode { return OpCreate }

func (op *Create) pack(w *stream.Stream) {
	writeAddress(w, op.Address)
	w.WriteU8(uint8(op.Type))
	w.WriteBytes(op.Data)
}

func (op *Create) unpack(r *stream.Stream) error {
	var err error
	if op.Address, err = readAddress(r); nil != err {
		return err
	}
	t, err := r.ReadU8()
	if nil != err {
		return err
	}
	op.Type = state.Type(t)
	op.Data, err = r.ReadBytes()
	return err
}

// Verify - type, size and address rules; the register must not exist
func (op *Create) Verify(env *Env) error {
	if !op.Type.IsValidType() || state.System == op.Type {
		return fault.InvalidRegisterType
	}
	if len(op.Data) > MaxRegisterSize {
		return fault.PayloadTooLarge
	}
	if t, ok := addressRegister[op.Address.Type()]; !ok || t != op.Type {
		return fault.AddressTypeMismatch
	}
	return env.Fresh(op.Address)
}

// Execute - the initial state, objects must meet their standard
func (op *Create) Execute(env *Env) (*state.State, error) {
	s := state.New(op.Type, env.Caller())
	s.Created = env.Timestamp()
	s.Modified = env.Timestamp()
	s.SetState(op.Data)

	if state.Object != op.Type {
		return s, nil
	}

	o, err := object.FromState(s)
	if nil != err {
		return nil, err
	}
	if addressStandard[op.Address.Type()] != o.Standard() {
		return nil, fault.InvalidStandard
	}

	switch op.Address.Type() {
	case address.Object:
		for _, f := range o.Fields() {
			if object.IsReserved(f.Name) {
				return nil, fault.ReservedField
			}
		}
	case address.Account:
		err = createAccount(env, o)
	case address.Token:
		err = createToken(env, o)
	case address.Trust:
		err = createTrust(env, op.Address, o)
	case address.Namespace:
		err = createNamespace(op.Address, o)
	case address.Name:
		err = createName(env, op.Address, o)
	}
	if nil != err {
		return nil, err
	}
	return s, nil
}

func createAccount(env *Env, o *object.Object) error {
	balance, err := o.Uint64(object.FieldBalance)
	if nil != err {
		return err
	}
	if 0 != balance {
		return fault.ZeroBalanceRequired
	}
	token, err := o.Digest(object.FieldToken)
	if nil != err {
		return err
	}
	if token.IsZero() {
		return nil
	}
	_, err = env.db.ReadIdentifier(token)
	return err
}

func createToken(env *Env, o *object.Object) error {
	token, err := o.Digest(object.FieldToken)
	if nil != err {
		return err
	}
	if token.IsZero() {
		return fault.TokenIdentifierRequired
	}
	balance, err := o.Uint64(object.FieldBalance)
	if nil != err {
		return err
	}
	supply, err := o.Uint64(object.FieldSupply)
	if nil != err {
		return err
	}
	if balance != supply {
		return fault.TokenSupplyMismatch
	}
	if _, err := env.db.ReadIdentifier(token); nil == err {
		return fault.AlreadyExists
	}
	return nil
}

func createTrust(env *Env, a address.Address, o *object.Object) error {
	if address.ForTrust(env.Caller()) != a {
		return fault.TrustAddressMismatch
	}
	for _, name := range []string{object.FieldBalance, object.FieldStake, object.FieldTrust} {
		n, err := o.Uint64(name)
		if nil != err {
			return err
		}
		if 0 != n {
			return fault.ZeroTrustRequired
		}
	}
	token, err := o.Digest(object.FieldToken)
	if nil != err {
		return err
	}
	if !token.IsZero() {
		return fault.IdentifierMismatch
	}
	return nil
}

func createNamespace(a address.Address, o *object.Object) error {
	ns, err := o.String(object.FieldNamespace)
	if nil != err {
		return err
	}
	if "" == ns {
		return fault.InvalidName
	}
	if strings.Contains(ns, ":") {
		return fault.NamespaceContainsColon
	}
	if _, ok := reservedNamespaces[strings.ToLower(ns)]; ok {
		return fault.NamespaceReserved
	}
	if address.ForNamespace(ns) != a {
		return fault.NamespaceAddressMismatch
	}
	return nil
}

func createName(env *Env, a address.Address, o *object.Object) error {
	name, err := o.String(object.FieldName)
	if nil != err {
		return err
	}
	ns, err := o.String(object.FieldNamespace)
	if nil != err {
		return err
	}
	if "" == name {
		return fault.InvalidName
	}
	if strings.HasPrefix(name, ":") {
		return fault.NameStartsWithColon
	}

	var parent [address.Length]byte
	switch ns {
	case "":
		parent = env.Caller()
	case globalNamespace:
		if strings.Contains(name, ":") {
			return fault.GlobalNameContainsColon
		}
		parent = address.ForNamespace(globalNamespace)
	default:
		nsAddress := address.ForNamespace(ns)
		owner, err := env.db.ReadState(nsAddress, env.overlay())
		if nil != err {
			return err
		}
		if owner.Owner != env.Caller() {
			return fault.InvalidOwner
		}
		parent = nsAddress
	}

	if address.ForName(parent, name) != a {
		return fault.NameAddressMismatch
	}
	return nil
}

// Commit - write the register, index tokens and trust accounts
func (op *Create) Commit(env *Env, post *state.State) error {
	if err := env.db.WriteState(op.Address, post, env.overlay()); nil != err {
		return err
	}
	if !env.Flags.Durable() {
		return nil
	}

	switch op.Address.Type() {
	case address.Token:
		o, err := object.FromState(post)
		if nil != err {
			return err
		}
		token, err := o.Digest(object.FieldToken)
		if nil != err {
			return err
		}
		return env.db.WriteIdentifier(token, op.Address)
	case address.Trust:
		return env.db.WriteTrust(env.Caller(), op.Address)
	}
	return nil
}

// TokenIdentifier - identifier for a token created by an identity
func TokenIdentifier(name string, creator digest.Digest) digest.Digest {
	return digest.NewDigestOf([]byte("token"), creator[:], []byte(name))
}
