// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package address_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/registerd/address"
	"github.com/bitmark-inc/registerd/digest"
	"github.com/bitmark-inc/registerd/fault"
)

func TestNew(t *testing.T) {
	a, err := address.New(address.Account)
	assert.Nil(t, err, "new address")
	assert.Equal(t, address.Account, a.Type(), "wrong type")
	assert.True(t, a.IsValid(), "should be valid")
	assert.False(t, a.IsReserved(), "random address is not reserved")

	b, _ := address.New(address.Account)
	assert.NotEqual(t, a, b, "random addresses must differ")
}

func TestReserved(t *testing.T) {
	var system address.Address
	system[0] = byte(address.Object)
	assert.True(t, system.IsReserved(), "system range")

	var legacy address.Address
	legacy[0] = byte(address.Reserved)
	legacy[5] = 1
	assert.True(t, legacy.IsReserved(), "reserved leading byte")
	assert.False(t, legacy.IsValid(), "reserved leading byte is not valid")

	assert.True(t, address.Null.IsReserved(), "null")
}

func TestDerivation(t *testing.T) {
	genesis := digest.NewDigest([]byte("genesis"))

	trust := address.ForTrust(genesis)
	assert.Equal(t, address.Trust, trust.Type(), "trust type")
	assert.Equal(t, trust, address.ForTrust(genesis), "trust derivation must be deterministic")

	ns := address.ForNamespace("company")
	assert.Equal(t, address.Namespace, ns.Type(), "namespace type")

	name := address.ForName(ns, "widget")
	assert.Equal(t, address.Name, name.Type(), "name type")
	assert.NotEqual(t, name, address.ForName(genesis, "widget"), "namespace must change the address")
}

func TestBase58(t *testing.T) {
	a, _ := address.New(address.Token)

	decoded, err := address.FromBase58(a.String())
	assert.Nil(t, err, "decode")
	assert.Equal(t, a, decoded, "round trip")

	text, _ := a.MarshalText()
	var back address.Address
	assert.Nil(t, back.UnmarshalText(text), "unmarshal")
	assert.Equal(t, a, back, "text round trip")

	_, err = address.FromBase58("111")
	assert.Equal(t, fault.InvalidAddress, err, "short address")
}
