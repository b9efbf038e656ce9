// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package digest

import (
	"encoding/binary"
	"encoding/hex"

	"golang.org/x/crypto/sha3"

	"github.com/bitmark-inc/registerd/fault"
)

// Length - number of bytes in the digest
const Length = 32

// Digest - a 256 bit value
//
// used for owners (genesis ids), token identifiers and transaction ids
// stored as little endian byte array
// represented as big endian hex value for print
// represented as little endian hex text for JSON encoding
type Digest [Length]byte

// Zero - the null digest, used as "no owner"
var Zero Digest

// NewDigest - SHA3-256 of a byte slice
func NewDigest(record []byte) Digest {
	return sha3.Sum256(record)
}

// NewDigestOf - SHA3-256 of the concatenation of several slices
func NewDigestOf(parts ...[]byte) Digest {
	h := sha3.New256()
	for _, p := range parts {
		h.Write(p)
	}
	var d Digest
	copy(d[:], h.Sum(nil))
	return d
}

// Checksum64 - 64 bit checksum: low 8 bytes of SHA3-256, little endian
func Checksum64(record []byte) uint64 {
	d := sha3.Sum256(record)
	return binary.LittleEndian.Uint64(d[:8])
}

// IsZero - true for the null digest
func (digest Digest) IsZero() bool {
	return Zero == digest
}

// Uint64 - low 64 bits as a little endian number
func (digest Digest) Uint64() uint64 {
	return binary.LittleEndian.Uint64(digest[:8])
}

// FromUint64 - digest holding a small number, used for short token ids
func FromUint64(n uint64) Digest {
	var d Digest
	binary.LittleEndian.PutUint64(d[:8], n)
	return d
}

func reversed(d Digest) []byte {
	result := make([]byte, Length)
	for i := 0; i < Length; i += 1 {
		result[i] = d[Length-1-i]
	}
	return result
}

// String - big endian hex for the fmt package (for %s)
func (digest Digest) String() string {
	return hex.EncodeToString(reversed(digest))
}

// GoString - tagged big endian hex (for %#v)
func (digest Digest) GoString() string {
	return "<SHA3-256:" + hex.EncodeToString(reversed(digest)) + ">"
}

// MarshalText - little endian hex text
func (digest Digest) MarshalText() ([]byte, error) {
	buffer := make([]byte, hex.EncodedLen(Length))
	hex.Encode(buffer, digest[:])
	return buffer, nil
}

// UnmarshalText - little endian hex text into a digest
func (digest *Digest) UnmarshalText(s []byte) error {
	if Length != hex.DecodedLen(len(s)) {
		return fault.InvalidKeyLength
	}
	_, err := hex.Decode(digest[:], s)
	return err
}

// FromBytes - convert and validate a little endian byte slice
func FromBytes(digest *Digest, buffer []byte) error {
	if Length != len(buffer) {
		return fault.InvalidKeyLength
	}
	copy(digest[:], buffer)
	return nil
}
