// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package digest

import (
	"github.com/cespare/xxhash/v2"
)

// Bucket - XXH64 of a key reduced to [0, buckets)
//
// only for spreading keys, never for identity; the result depends only
// on the key bytes and bucket count so it is stable across restarts
func Bucket(key []byte, buckets uint32) uint32 {
	if 0 == buckets {
		return 0
	}
	return uint32(xxhash.Sum64(key) % uint64(buckets))
}

// Hash64 - plain XXH64 of a key
func Hash64(key []byte) uint64 {
	return xxhash.Sum64(key)
}
