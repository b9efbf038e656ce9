// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package account

import (
	"crypto/rand"

	"golang.org/x/crypto/ed25519"

	"github.com/bitmark-inc/registerd/digest"
	"github.com/bitmark-inc/registerd/fault"
)

// credential key derivation cost
const (
	credentialIterations = 4
	credentialMemory     = 1 << 16 // KiB
)

// PrivateKey - the signing half of an identity
type PrivateKey struct {
	key ed25519.PrivateKey
}

// NewPrivateKey - random identity
func NewPrivateKey() (*PrivateKey, error) {
	_, key, err := ed25519.GenerateKey(rand.Reader)
	if nil != err {
		return nil, err
	}
	return &PrivateKey{key: key}, nil
}

// PrivateKeyFromSeed - deterministic identity from a 32 byte seed
func PrivateKeyFromSeed(seed []byte) (*PrivateKey, error) {
	if ed25519.SeedSize != len(seed) {
		return nil, fault.InvalidKeyLength
	}
	return &PrivateKey{key: ed25519.NewKeyFromSeed(seed)}, nil
}

// NewFromCredentials - identity derived from username, password and pin
//
// the username salts the password and the pin is the argon2 secret
func NewFromCredentials(username string, password string, pin string) (*PrivateKey, error) {
	if "" == username || "" == password {
		return nil, fault.InvalidName
	}
	salt := digest.NewDigest([]byte(username))
	seed, err := digest.Argon2([]byte(password), salt[:], []byte(pin), credentialIterations, credentialMemory)
	if nil != err {
		return nil, err
	}
	return PrivateKeyFromSeed(seed[:])
}

// Account - public half
func (privateKey *PrivateKey) Account() *Account {
	return &Account{PublicKey: privateKey.key.Public().(ed25519.PublicKey)}
}

// Sign - ed25519 signature of message
func (privateKey *PrivateKey) Sign(message []byte) Signature {
	return ed25519.Sign(privateKey.key, message)
}

// Seed - the 32 byte seed this key expands from
func (privateKey *PrivateKey) Seed() []byte {
	return privateKey.key.Seed()
}
