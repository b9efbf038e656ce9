// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package stakechange

import (
	"github.com/bitmark-inc/registerd/account"
	"github.com/bitmark-inc/registerd/digest"
	"github.com/bitmark-inc/registerd/fault"
	"github.com/bitmark-inc/registerd/stream"
)

// Request - a signed change to the stake of a trust account
//
// positive Amount stakes from balance, negative unstakes;
// Timestamp and Expires are unix seconds
type Request struct {
	Genesis   digest.Digest
	Amount    int64
	Timestamp uint64
	Expires   uint64
	Processed bool
	PublicKey []byte
	Signature account.Signature
}

// the signed part of the record
func (r *Request) body() *stream.Stream {
	w := stream.NewEmpty()
	w.WriteDigest(r.Genesis)
	w.WriteI64(r.Amount)
	w.WriteU64(r.Timestamp)
	w.WriteU64(r.Expires)
	w.WriteBytes(r.PublicKey)
	return w
}

// Hash - identifies the request, used as the contract transaction id
func (r *Request) Hash() digest.Digest {
	return digest.NewDigest(r.body().Bytes())
}

// Pack - stored form: body | processed u8 | signature
func (r *Request) Pack() []byte {
	w := r.body()
	if r.Processed {
		w.WriteU8(1)
	} else {
		w.WriteU8(0)
	}
	w.WriteBytes(r.Signature)
	return w.Bytes()
}

// Unpack - decode a stored request
func Unpack(buffer []byte) (*Request, error) {
	s := stream.New(buffer)
	r := &Request{}

	var err error
	if r.Genesis, err = s.ReadDigest(); nil != err {
		return nil, err
	}
	if r.Amount, err = s.ReadI64(); nil != err {
		return nil, err
	}
	if r.Timestamp, err = s.ReadU64(); nil != err {
		return nil, err
	}
	if r.Expires, err = s.ReadU64(); nil != err {
		return nil, err
	}
	if r.PublicKey, err = s.ReadBytes(); nil != err {
		return nil, err
	}
	processed, err := s.ReadU8()
	if nil != err {
		return nil, err
	}
	switch processed {
	case 0:
	case 1:
		r.Processed = true
	default:
		return nil, fault.InvalidState
	}
	signature, err := s.ReadBytes()
	if nil != err {
		return nil, err
	}
	r.Signature = signature
	if !s.End() {
		return nil, fault.TrailingData
	}
	return r, nil
}

// Sign - fill in the public key and sign
func (r *Request) Sign(key *account.PrivateKey) error {
	a := key.Account()
	if a.Genesis() != r.Genesis {
		return fault.GenesisMismatch
	}
	r.PublicKey = a.PublicKey
	r.Signature = key.Sign(r.body().Bytes())
	return nil
}

// Verify - non-zero amount, sane expiry, signed by the genesis key
func (r *Request) Verify() error {
	if 0 == r.Amount {
		return fault.UnsupportedStakeChange
	}
	if r.Expires <= r.Timestamp {
		return fault.ExpiredRequest
	}
	a, err := account.NewAccount(r.PublicKey)
	if nil != err {
		return err
	}
	if a.Genesis() != r.Genesis {
		return fault.GenesisMismatch
	}
	return a.CheckSignature(r.body().Bytes(), r.Signature)
}

// Expired - past its own expiry or older than maxAge
func (r *Request) Expired(now uint64, maxAge uint64) bool {
	if now >= r.Expires {
		return true
	}
	return 0 != maxAge && now >= r.Timestamp+maxAge
}
