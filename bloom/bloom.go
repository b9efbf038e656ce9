// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package bloom

import (
	"sync"

	"golang.org/x/crypto/sha3"

	"github.com/bitmark-inc/registerd/fault"
)

// limits
const (
	DefaultBits   = 1 << 23
	DefaultHashes = 7
	MaxHashes     = 32
	MaxBits       = 1 << 32
)

// Filter - concurrent bloom filter
//
// bit j of the filter is bit j%64 of word j/64
type Filter struct {
	sync.RWMutex

	bits     uint64
	hashes   uint8
	inserted uint64
	words    []uint64
}

// New - empty filter of at least one bit
func New(bits uint64, hashes uint8) (*Filter, error) {
	if 0 == bits {
		bits = DefaultBits
	}
	if 0 == hashes {
		hashes = DefaultHashes
	}
	if hashes > MaxHashes || bits > MaxBits {
		return nil, fault.InvalidCount
	}
	return &Filter{
		bits:   bits,
		hashes: hashes,
		words:  make([]uint64, (bits+63)/64),
	}, nil
}

// h1 and h2 are the first two little endian words of SHA3-256(key)
func hashPair(key []byte) (uint64, uint64) {
	sum := sha3.Sum256(key)
	h1 := uint64(0)
	h2 := uint64(0)
	for i := 7; i >= 0; i -= 1 {
		h1 = h1<<8 | uint64(sum[i])
		h2 = h2<<8 | uint64(sum[8+i])
	}
	if 0 == h2 {
		h2 = 1
	}
	return h1, h2
}

// Insert - add a key
func (f *Filter) Insert(key []byte) {
	h1, h2 := hashPair(key)

	f.Lock()
	defer f.Unlock()

	for i := uint64(0); i < uint64(f.hashes); i += 1 {
		j := (h1 + i*h2) % f.bits
		f.words[j>>6] |= 1 << (j & 63)
	}
	f.inserted += 1
}

// Has - false means definitely absent
func (f *Filter) Has(key []byte) bool {
	h1, h2 := hashPair(key)

	f.RLock()
	defer f.RUnlock()

	for i := uint64(0); i < uint64(f.hashes); i += 1 {
		j := (h1 + i*h2) % f.bits
		if 0 == f.words[j>>6]&(1<<(j&63)) {
			return false
		}
	}
	return true
}

// Count - number of Insert calls since creation or Reset
func (f *Filter) Count() uint64 {
	f.RLock()
	defer f.RUnlock()
	return f.inserted
}

// Bits - size of the bit array
func (f *Filter) Bits() uint64 {
	return f.bits
}

// Hashes - probes per key
func (f *Filter) Hashes() uint8 {
	return f.hashes
}

// Reset - clear every bit
func (f *Filter) Reset() {
	f.Lock()
	defer f.Unlock()

	for i := range f.words {
		f.words[i] = 0
	}
	f.inserted = 0
}
