// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package object

import (
	"bytes"

	"github.com/bitmark-inc/registerd/digest"
	"github.com/bitmark-inc/registerd/fault"
	"github.com/bitmark-inc/registerd/stream"
)

// Type - field type tag
type Type uint8

// field types
const (
	Unsupported Type = iota
	Uint8
	Uint16
	Uint32
	Uint64
	Uint256
	Uint512
	Uint1024
	String
	Bytes

	typeLimit
)

// Mutable - marker byte preceding the type tag of a writable field
const Mutable = 0xff

// MaxValueSize - largest STRING or BYTES value
const MaxValueSize = 1024

// byte width of the fixed size types
var widths = map[Type]int{
	Uint8:    1,
	Uint16:   2,
	Uint32:   4,
	Uint64:   8,
	Uint256:  32,
	Uint512:  64,
	Uint1024: 128,
}

// String - name of a field type
func (t Type) String() string {
	switch t {
	case Uint8:
		return "uint8"
	case Uint16:
		return "uint16"
	case Uint32:
		return "uint32"
	case Uint64:
		return "uint64"
	case Uint256:
		return "uint256"
	case Uint512:
		return "uint512"
	case Uint1024:
		return "uint1024"
	case String:
		return "string"
	case Bytes:
		return "bytes"
	default:
		return "*unsupported*"
	}
}

// Value - tagged union of the supported field types
//
// integers up to 64 bits are held in number, everything else in data
type Value struct {
	kind   Type
	number uint64
	data   []byte
}

// U8 - uint8 value
func U8(v uint8) Value { return Value{kind: Uint8, number: uint64(v)} }

// U16 - uint16 value
func U16(v uint16) Value { return Value{kind: Uint16, number: uint64(v)} }

// U32 - uint32 value
func U32(v uint32) Value { return Value{kind: Uint32, number: uint64(v)} }

// U64 - uint64 value
func U64(v uint64) Value { return Value{kind: Uint64, number: v} }

// U256 - 256 bit value
func U256(d [32]byte) Value {
	return Value{kind: Uint256, data: append([]byte{}, d[:]...)}
}

// U512 - 512 bit value, little endian bytes
func U512(b []byte) (Value, error) {
	return fixed(Uint512, b)
}

// U1024 - 1024 bit value, little endian bytes
func U1024(b []byte) (Value, error) {
	return fixed(Uint1024, b)
}

func fixed(kind Type, b []byte) (Value, error) {
	if widths[kind] != len(b) {
		return Value{}, fault.InvalidKeyLength
	}
	return Value{kind: kind, data: append([]byte{}, b...)}, nil
}

// Str - string value
func Str(s string) Value { return Value{kind: String, data: []byte(s)} }

// Raw - bytes value
func Raw(b []byte) Value { return Value{kind: Bytes, data: append([]byte{}, b...)} }

// Type - the tag of the value
func (v Value) Type() Type {
	return v.kind
}

// Uint - any integer up to 64 bits
func (v Value) Uint() (uint64, error) {
	switch v.kind {
	case Uint8, Uint16, Uint32, Uint64:
		return v.number, nil
	}
	return 0, fault.FieldTypeMismatch
}

// Digest - a 256 bit value
func (v Value) Digest() (digest.Digest, error) {
	var d digest.Digest
	if Uint256 != v.kind {
		return d, fault.FieldTypeMismatch
	}
	copy(d[:], v.data)
	return d, nil
}

// Fixed - raw little endian bytes of a 256, 512 or 1024 bit value
func (v Value) Fixed() ([]byte, error) {
	switch v.kind {
	case Uint256, Uint512, Uint1024:
		return append([]byte{}, v.data...), nil
	}
	return nil, fault.FieldTypeMismatch
}

// Text - a string value
func (v Value) Text() (string, error) {
	if String != v.kind {
		return "", fault.FieldTypeMismatch
	}
	return string(v.data), nil
}

// Data - a bytes value
func (v Value) Data() ([]byte, error) {
	if Bytes != v.kind {
		return nil, fault.FieldTypeMismatch
	}
	return append([]byte{}, v.data...), nil
}

// Equal - same type and same content
func (v Value) Equal(other Value) bool {
	return v.kind == other.kind && v.number == other.number && bytes.Equal(v.data, other.data)
}

// size for the variable length types, width for the others
func (v Value) size() int {
	if w, ok := widths[v.kind]; ok {
		return w
	}
	return len(v.data)
}

func (v Value) write(w *stream.Stream) {
	switch v.kind {
	case Uint8:
		w.WriteU8(uint8(v.number))
	case Uint16:
		w.WriteU16(uint16(v.number))
	case Uint32:
		w.WriteU32(uint32(v.number))
	case Uint64:
		w.WriteU64(v.number)
	case Uint256, Uint512, Uint1024:
		w.WriteFixed(v.data)
	case String, Bytes:
		w.WriteBytes(v.data)
	}
}

func readValue(r *stream.Stream, kind Type) (Value, error) {
	v := Value{kind: kind}
	var err error
	switch kind {
	case Uint8:
		var n uint8
		n, err = r.ReadU8()
		v.number = uint64(n)
	case Uint16:
		var n uint16
		n, err = r.ReadU16()
		v.number = uint64(n)
	case Uint32:
		var n uint32
		n, err = r.ReadU32()
		v.number = uint64(n)
	case Uint64:
		v.number, err = r.ReadU64()
	case Uint256, Uint512, Uint1024:
		v.data, err = r.ReadFixed(widths[kind])
	case String, Bytes:
		v.data, err = r.ReadBytes()
		if nil == err && len(v.data) > MaxValueSize {
			err = fault.ValueTooLarge
		}
	default:
		err = fault.InvalidFieldType
	}
	return v, err
}
