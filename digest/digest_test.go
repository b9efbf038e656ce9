// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package digest_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/registerd/digest"
)

func TestDigest(t *testing.T) {
	// echo -n 'hello world' | sha3sum -a 256
	d := digest.NewDigest([]byte("hello world"))
	assert.Equal(t, "644bcc7e564373040999aac89e7622f3ca71fba1d972fd94a31c3bfbf24e3938", fmt.Sprintf("%x", d[:]), "wrong hash")

	assert.Equal(t, d, digest.NewDigestOf([]byte("hello"), []byte(" "), []byte("world")), "concatenated hash")
}

func TestText(t *testing.T) {
	d := digest.NewDigest([]byte("register"))

	text, err := d.MarshalText()
	assert.Nil(t, err, "marshal")

	var back digest.Digest
	err = back.UnmarshalText(text)
	assert.Nil(t, err, "unmarshal")
	assert.Equal(t, d, back, "text round trip")

	err = back.UnmarshalText([]byte("abcd"))
	assert.NotNil(t, err, "short text must fail")
}

func TestChecksumChangesWithInput(t *testing.T) {
	a := digest.Checksum64([]byte{1, 2, 3, 4})
	b := digest.Checksum64([]byte{1, 2, 3, 5})
	assert.NotEqual(t, a, b, "single byte change must change the checksum")
	assert.Equal(t, a, digest.Checksum64([]byte{1, 2, 3, 4}), "checksum must be deterministic")
}

func TestBucketStable(t *testing.T) {
	key := []byte("state-key")
	first := digest.Bucket(key, 1024)
	for i := 0; i < 10; i += 1 {
		assert.Equal(t, first, digest.Bucket(key, 1024), "bucket changed")
	}
	assert.True(t, first < 1024, "bucket out of range")
	assert.Equal(t, uint32(0), digest.Bucket(key, 0), "zero buckets")
}

func TestUint64(t *testing.T) {
	d := digest.FromUint64(77)
	assert.Equal(t, uint64(77), d.Uint64(), "round trip")
	assert.False(t, d.IsZero(), "not zero")
	assert.True(t, digest.Zero.IsZero(), "zero")
}
