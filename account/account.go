// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package account

import (
	"bytes"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/ed25519"
	"golang.org/x/crypto/sha3"

	"github.com/bitmark-inc/registerd/digest"
	"github.com/bitmark-inc/registerd/fault"
	"github.com/bitmark-inc/registerd/stream"
)

// miscellaneous constants
const (
	checksumLength = 4

	// key variant: bit 0 = public key, bits 4.. = algorithm
	publicKeyCode  = 0x01
	algorithmShift = 4
	ed25519Code    = 1
)

// Account - the public half of an identity
type Account struct {
	PublicKey ed25519.PublicKey
}

// NewAccount - wrap and check a raw public key
func NewAccount(publicKey []byte) (*Account, error) {
	if ed25519.PublicKeySize != len(publicKey) {
		return nil, fault.InvalidPublicKey
	}
	key := make([]byte, ed25519.PublicKeySize)
	copy(key, publicKey)
	return &Account{PublicKey: key}, nil
}

// Genesis - identity hash used as register owner
func (account *Account) Genesis() digest.Digest {
	return digest.NewDigest(account.PublicKey)
}

// CheckSignature - verify a signature made by this account
func (account *Account) CheckSignature(message []byte, signature Signature) error {
	if ed25519.SignatureSize != len(signature) {
		return fault.InvalidSignature
	}
	if !ed25519.Verify(account.PublicKey, message, signature) {
		return fault.InvalidSignature
	}
	return nil
}

// String - base58 of key variant ++ public key ++ checksum
func (account *Account) String() string {
	buffer := stream.ToVarint64(ed25519Code<<algorithmShift | publicKeyCode)
	buffer = append(buffer, account.PublicKey...)
	checksum := sha3.Sum256(buffer)
	buffer = append(buffer, checksum[:checksumLength]...)
	return base58.Encode(buffer)
}

// FromBase58 - decode the String form
func FromBase58(s string) (*Account, error) {
	buffer, err := base58.Decode(s)
	if nil != err || len(buffer) <= checksumLength {
		return nil, fault.InvalidPublicKey
	}

	variant, variantLength := stream.FromVarint64(buffer)
	if 0 == variantLength || publicKeyCode != variant&publicKeyCode || ed25519Code != variant>>algorithmShift {
		return nil, fault.InvalidPublicKey
	}

	checksumStart := len(buffer) - checksumLength
	checksum := sha3.Sum256(buffer[:checksumStart])
	if !bytes.Equal(checksum[:checksumLength], buffer[checksumStart:]) {
		return nil, fault.ChecksumMismatch
	}
	return NewAccount(buffer[variantLength:checksumStart])
}

// MarshalText - base58 text
func (account *Account) MarshalText() ([]byte, error) {
	return []byte(account.String()), nil
}
