// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package object

import (
	"github.com/bitmark-inc/registerd/digest"
)

// Standard - structural class of an object
type Standard uint8

// object standards
const (
	NonStandard Standard = iota
	AccountStandard
	TokenStandard
	TrustStandard
	NameStandard
	NamespaceStandard
	CryptoStandard
)

// well known field names
const (
	FieldAddress   = "address"
	FieldBalance   = "balance"
	FieldDecimals  = "decimals"
	FieldName      = "name"
	FieldNamespace = "namespace"
	FieldStake     = "stake"
	FieldSupply    = "supply"
	FieldToken     = "token"
	FieldTrust     = "trust"
)

// keys held by a CRYPTO object
var cryptoFields = []string{
	"auth", "lisp", "network", "sign", "verify", "cert", "app1", "app2", "app3",
}

func (s Standard) String() string {
	switch s {
	case AccountStandard:
		return "account"
	case TokenStandard:
		return "token"
	case TrustStandard:
		return "trust"
	case NameStandard:
		return "name"
	case NamespaceStandard:
		return "namespace"
	case CryptoStandard:
		return "crypto"
	default:
		return "nonstandard"
	}
}

func (o *Object) is(name string, kind Type) bool {
	i, ok := o.index[name]
	return ok && kind == o.fields[i].Value.kind
}

// Standard - classify by reserved field names and their types
func (o *Object) Standard() Standard {
	balance := o.is(FieldBalance, Uint64)
	token := o.is(FieldToken, Uint256)

	switch {
	case balance && token && o.is(FieldStake, Uint64) && o.is(FieldTrust, Uint64):
		return TrustStandard

	case balance && token && o.is(FieldSupply, Uint64):
		if o.Has(FieldDecimals) && !o.is(FieldDecimals, Uint8) {
			return NonStandard
		}
		return TokenStandard

	case balance && token && !o.Has(FieldStake) && !o.Has(FieldTrust) && !o.Has(FieldSupply):
		return AccountStandard

	case o.is(FieldNamespace, String) && o.is(FieldName, String) && o.is(FieldAddress, Uint256):
		return NameStandard

	case o.is(FieldNamespace, String) && !o.Has(FieldName):
		for _, f := range o.fields {
			if FieldNamespace != f.Name && IsReserved(f.Name) {
				return NonStandard
			}
		}
		return NamespaceStandard
	}

	for _, name := range cryptoFields {
		if !o.is(name, Uint256) {
			return NonStandard
		}
	}
	return CryptoStandard
}

func mutable(name string, v Value) Field {
	return Field{Name: name, Mutable: true, Value: v}
}

// CreateAccount - empty account holding a token
func CreateAccount(token digest.Digest) (*Object, error) {
	return New(
		mutable(FieldBalance, U64(0)),
		Field{Name: FieldToken, Value: U256(token)},
	)
}

// CreateToken - token register with the whole supply as its balance
func CreateToken(token digest.Digest, supply uint64, decimals uint8) (*Object, error) {
	return New(
		mutable(FieldBalance, U64(supply)),
		Field{Name: FieldSupply, Value: U64(supply)},
		Field{Name: FieldToken, Value: U256(token)},
		Field{Name: FieldDecimals, Value: U8(decimals)},
	)
}

// CreateTrust - empty trust account for the native token
func CreateTrust() (*Object, error) {
	return New(
		mutable(FieldBalance, U64(0)),
		mutable(FieldStake, U64(0)),
		mutable(FieldTrust, U64(0)),
		Field{Name: FieldToken, Value: U256(digest.Zero)},
	)
}

// CreateName - name register pointing at target
func CreateName(namespace string, name string, target [32]byte) (*Object, error) {
	return New(
		Field{Name: FieldNamespace, Value: Str(namespace)},
		Field{Name: FieldName, Value: Str(name)},
		mutable(FieldAddress, U256(target)),
	)
}

// CreateNamespace - namespace reservation
func CreateNamespace(namespace string) (*Object, error) {
	return New(
		Field{Name: FieldNamespace, Value: Str(namespace)},
	)
}

// CreateCrypto - key set with every slot zero
func CreateCrypto() (*Object, error) {
	fields := make([]Field, 0, len(cryptoFields))
	for _, name := range cryptoFields {
		fields = append(fields, mutable(name, U256(digest.Zero)))
	}
	return New(fields...)
}
