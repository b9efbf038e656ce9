// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package stream

import (
	"encoding/binary"

	"github.com/bitmark-inc/registerd/fault"
)

// DigestLength - bytes in a serialized 256 bit value
const DigestLength = 32

// Stream - a byte buffer with a read cursor
//
// writes always append to the end, reads advance the cursor
type Stream struct {
	buffer []byte
	pos    int
}

// New - create a stream positioned at the start of a copy of data
func New(data []byte) *Stream {
	buffer := make([]byte, len(data))
	copy(buffer, data)
	return &Stream{buffer: buffer}
}

// NewEmpty - create an empty stream for writing
func NewEmpty() *Stream {
	return &Stream{buffer: make([]byte, 0, 64)}
}

// Bytes - the complete buffer, not a copy
func (s *Stream) Bytes() []byte {
	return s.buffer
}

// Len - total bytes in the stream
func (s *Stream) Len() int {
	return len(s.buffer)
}

// Pos - current read position
func (s *Stream) Pos() int {
	return s.pos
}

// Remaining - unread bytes
func (s *Stream) Remaining() int {
	return len(s.buffer) - s.pos
}

// End - true when all bytes have been read
func (s *Stream) End() bool {
	return s.pos >= len(s.buffer)
}

// Reset - move the read cursor to the start
func (s *Stream) Reset() {
	s.pos = 0
}

// Seek - move the read cursor relative to its current position
func (s *Stream) Seek(n int) error {
	p := s.pos + n
	if p < 0 || p > len(s.buffer) {
		return fault.StreamSeekOutOfRange
	}
	s.pos = p
	return nil
}

// Rewind - move the read cursor back n bytes
func (s *Stream) Rewind(n int) error {
	return s.Seek(-n)
}

// Clone - independent copy including the cursor
func (s *Stream) Clone() *Stream {
	c := New(s.buffer)
	c.pos = s.pos
	return c
}

func (s *Stream) take(n int) ([]byte, error) {
	if n < 0 || s.Remaining() < n {
		return nil, fault.StreamEndOfBuffer
	}
	b := s.buffer[s.pos : s.pos+n]
	s.pos += n
	return b, nil
}

// WriteU8 - append a byte
func (s *Stream) WriteU8(v uint8) {
	s.buffer = append(s.buffer, v)
}

// WriteU16 - append a little endian uint16
func (s *Stream) WriteU16(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	s.buffer = append(s.buffer, b[:]...)
}

// WriteU32 - append a little endian uint32
func (s *Stream) WriteU32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	s.buffer = append(s.buffer, b[:]...)
}

// WriteU64 - append a little endian uint64
func (s *Stream) WriteU64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	s.buffer = append(s.buffer, b[:]...)
}

// WriteI64 - append a two's complement int64
func (s *Stream) WriteI64(v int64) {
	s.WriteU64(uint64(v))
}

// WriteFixed - append raw bytes with no length prefix
func (s *Stream) WriteFixed(b []byte) {
	s.buffer = append(s.buffer, b...)
}

// WriteDigest - append a 256 bit value
func (s *Stream) WriteDigest(d [DigestLength]byte) {
	s.buffer = append(s.buffer, d[:]...)
}

// WriteCompactSize - append a length prefix
func (s *Stream) WriteCompactSize(n uint64) {
	s.buffer = append(s.buffer, ToVarint64(n)...)
}

// WriteBytes - append length prefixed bytes
func (s *Stream) WriteBytes(b []byte) {
	s.WriteCompactSize(uint64(len(b)))
	s.buffer = append(s.buffer, b...)
}

// WriteString - append a length prefixed string
func (s *Stream) WriteString(str string) {
	s.WriteCompactSize(uint64(len(str)))
	s.buffer = append(s.buffer, str...)
}

// ReadU8 - read one byte
func (s *Stream) ReadU8() (uint8, error) {
	b, err := s.take(1)
	if nil != err {
		return 0, err
	}
	return b[0], nil
}

// ReadU16 - read a little endian uint16
func (s *Stream) ReadU16() (uint16, error) {
	b, err := s.take(2)
	if nil != err {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// ReadU32 - read a little endian uint32
func (s *Stream) ReadU32() (uint32, error) {
	b, err := s.take(4)
	if nil != err {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// ReadU64 - read a little endian uint64
func (s *Stream) ReadU64() (uint64, error) {
	b, err := s.take(8)
	if nil != err {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// ReadI64 - read a two's complement int64
func (s *Stream) ReadI64() (int64, error) {
	v, err := s.ReadU64()
	return int64(v), err
}

// ReadFixed - read exactly n bytes, returned as a copy
func (s *Stream) ReadFixed(n int) ([]byte, error) {
	b, err := s.take(n)
	if nil != err {
		return nil, err
	}
	result := make([]byte, n)
	copy(result, b)
	return result, nil
}

// ReadDigest - read a 256 bit value
func (s *Stream) ReadDigest() ([DigestLength]byte, error) {
	var d [DigestLength]byte
	b, err := s.take(DigestLength)
	if nil != err {
		return d, err
	}
	copy(d[:], b)
	return d, nil
}

// ReadCompactSize - read a length prefix
func (s *Stream) ReadCompactSize() (uint64, error) {
	n, count := FromVarint64(s.buffer[s.pos:])
	if 0 == count {
		return 0, fault.StreamEndOfBuffer
	}
	if n > MaxCompactSize {
		return 0, fault.ValueTooLarge
	}
	s.pos += count
	return n, nil
}

// ReadBytes - read length prefixed bytes
//
// on error the cursor is left where it was
func (s *Stream) ReadBytes() ([]byte, error) {
	start := s.pos
	n, err := s.ReadCompactSize()
	if nil != err {
		return nil, err
	}
	b, err := s.ReadFixed(int(n))
	if nil != err {
		s.pos = start
		return nil, err
	}
	return b, nil
}

// ReadString - read a length prefixed string
func (s *Stream) ReadString() (string, error) {
	start := s.pos
	n, err := s.ReadCompactSize()
	if nil != err {
		return "", err
	}
	b, err := s.take(int(n))
	if nil != err {
		s.pos = start
		return "", err
	}
	return string(b), nil
}
