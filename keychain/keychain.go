// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package keychain

import (
	"github.com/bitmark-inc/registerd/digest"
)

// defaults applied by Config.normalise
const (
	DefaultBuckets     = 256 * 256
	DefaultMaxKeySize  = 32
	DefaultMaxFileSize = 1 << 30
)

// Keychain - maps keys onto sector locations
type Keychain interface {
	Initialize() error
	Put(SectorKey) error
	Get([]byte) (SectorKey, error)
	Erase([]byte) error
	Restore([]byte) error
	HasKey([]byte) bool
	GetBucket([]byte) uint32
	Flush() error
	Close() error
}

// Config - location and geometry of a keychain
type Config struct {
	Directory   string
	Name        string
	Buckets     uint32
	MaxKeySize  uint16
	MaxFileSize uint32
	AppendMode  bool
}

func (c *Config) normalise() {
	if 0 == c.Buckets {
		c.Buckets = DefaultBuckets
	}
	if 0 == c.MaxKeySize {
		c.MaxKeySize = DefaultMaxKeySize
	}
	if 0 == c.MaxFileSize {
		c.MaxFileSize = DefaultMaxFileSize
	}
}

// Fold - XOR fold a key into at most size bytes
//
// keys that already fit are returned unchanged
func Fold(key []byte, size int) []byte {
	if len(key) <= size {
		return key
	}
	folded := make([]byte, size)
	for i, b := range key {
		folded[i%size] ^= b
	}
	return folded
}

func bucket(key []byte, buckets uint32) uint32 {
	return digest.Bucket(key, buckets)
}
