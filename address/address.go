// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package address

import (
	"bytes"
	"crypto/rand"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/sha3"

	"github.com/bitmark-inc/registerd/digest"
	"github.com/bitmark-inc/registerd/fault"
)

// Length - bytes in an address
const Length = 32

// Type - leading byte of an address
type Type uint8

// address types
const (
	Reserved  Type = 0xa1
	Reserved2 Type = 0xa2

	ReadOnly  Type = 0xd1
	Append    Type = 0xd2
	Raw       Type = 0xd3
	Object    Type = 0xd4
	Crypto    Type = 0xd5
	Account   Type = 0xd6
	Token     Type = 0xd7
	Trust     Type = 0xd8
	Name      Type = 0xd9
	Namespace Type = 0xda

	Wildcard Type = 0xff
)

// namespaces used for derived addresses
const (
	trustNamespace     = "trust"
	namespaceNamespace = "namespace"
)

const checksumLength = 4

// Address - a 256 bit register identifier, byte 0 holds the type
type Address [Length]byte

// Null - the zero address
var Null Address

// New - random address of a given type
func New(t Type) (Address, error) {
	var a Address
	if _, err := rand.Read(a[:]); nil != err {
		return Null, err
	}
	a[0] = byte(t)
	return a, nil
}

// FromName - deterministic address of type t for namespace ++ name
func FromName(t Type, namespace []byte, name []byte) Address {
	h := sha3.New256()
	h.Write(namespace)
	h.Write(name)
	var a Address
	copy(a[:], h.Sum(nil))
	a[0] = byte(t)
	return a
}

// ForTrust - the single trust register of a genesis
func ForTrust(genesis digest.Digest) Address {
	return FromName(Trust, []byte(trustNamespace), genesis[:])
}

// ForNamespace - the register that reserves a namespace
func ForNamespace(name string) Address {
	return FromName(Namespace, []byte(namespaceNamespace), []byte(name))
}

// ForName - a name register inside a namespace (or a genesis for local names)
func ForName(namespace [Length]byte, name string) Address {
	return FromName(Name, namespace[:], []byte(name))
}

// FromBytes - convert and validate a byte slice
func FromBytes(a *Address, buffer []byte) error {
	if Length != len(buffer) {
		return fault.InvalidKeyLength
	}
	copy(a[:], buffer)
	return nil
}

// Type - the address type byte
func (a Address) Type() Type {
	return Type(a[0])
}

// IsNull - the zero address
func (a Address) IsNull() bool {
	return Null == a
}

// IsValid - known type byte
func (a Address) IsValid() bool {
	switch a.Type() {
	case ReadOnly, Append, Raw, Object, Crypto, Account, Token, Trust, Name, Namespace, Wildcard:
		return true
	}
	return false
}

// IsWildcard - address that matches any credit destination
func (a Address) IsWildcard() bool {
	return Wildcard == a.Type()
}

// IsReserved - legacy genesis bytes and the system range
//
// the system range is every address whose body (bytes 1..31) is zero
func (a Address) IsReserved() bool {
	if Reserved == a.Type() || Reserved2 == a.Type() {
		return true
	}
	for _, b := range a[1:] {
		if 0 != b {
			return false
		}
	}
	return true
}

// String - base58 with a four byte SHA3 checksum
func (a Address) String() string {
	checksum := sha3.Sum256(a[:])
	buffer := make([]byte, 0, Length+checksumLength)
	buffer = append(buffer, a[:]...)
	buffer = append(buffer, checksum[:checksumLength]...)
	return base58.Encode(buffer)
}

// FromBase58 - decode the String form
func FromBase58(s string) (Address, error) {
	buffer, err := base58.Decode(s)
	if nil != err {
		return Null, fault.InvalidAddress
	}
	if Length+checksumLength != len(buffer) {
		return Null, fault.InvalidAddress
	}
	checksum := sha3.Sum256(buffer[:Length])
	if !bytes.Equal(checksum[:checksumLength], buffer[Length:]) {
		return Null, fault.ChecksumMismatch
	}
	var a Address
	copy(a[:], buffer[:Length])
	return a, nil
}

// MarshalText - base58 text
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText - base58 text
func (a *Address) UnmarshalText(s []byte) error {
	decoded, err := FromBase58(string(s))
	if nil != err {
		return err
	}
	*a = decoded
	return nil
}
