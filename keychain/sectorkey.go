// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package keychain

import (
	"encoding/binary"

	"github.com/bitmark-inc/registerd/fault"
)

// key states
const (
	Empty uint8 = 0
	Ready uint8 = 1
	Txn   uint8 = 2
)

// HeaderSize - packed size of a sector key without its key bytes
const HeaderSize = 13

// SectorKey - location of one record inside the sector data files
type SectorKey struct {
	State  uint8
	Length uint16 // bytes of Key that are significant
	File   uint16
	Size   uint32
	Start  uint32
	Key    []byte
}

// IsEmpty - slot is free or the key was erased
func (k SectorKey) IsEmpty() bool {
	return Empty == k.State
}

// pack the header followed by the key padded to width
//
// width 0 means no padding
func (k SectorKey) pack(width int) []byte {
	n := len(k.Key)
	if width > n {
		n = width
	}
	buffer := make([]byte, HeaderSize+n)
	buffer[0] = k.State
	binary.LittleEndian.PutUint16(buffer[1:], uint16(len(k.Key)))
	binary.LittleEndian.PutUint16(buffer[3:], k.File)
	binary.LittleEndian.PutUint32(buffer[5:], k.Size)
	binary.LittleEndian.PutUint32(buffer[9:], k.Start)
	copy(buffer[HeaderSize:], k.Key)
	return buffer
}

// unpack a header and its key, returns the number of bytes consumed
// not counting any padding
func unpack(buffer []byte) (SectorKey, int, error) {
	if len(buffer) < HeaderSize {
		return SectorKey{}, 0, fault.StreamEndOfBuffer
	}
	k := SectorKey{
		State:  buffer[0],
		Length: binary.LittleEndian.Uint16(buffer[1:]),
		File:   binary.LittleEndian.Uint16(buffer[3:]),
		Size:   binary.LittleEndian.Uint32(buffer[5:]),
		Start:  binary.LittleEndian.Uint32(buffer[9:]),
	}
	end := HeaderSize + int(k.Length)
	if len(buffer) < end {
		return SectorKey{}, 0, fault.StreamEndOfBuffer
	}
	k.Key = append([]byte{}, buffer[HeaderSize:end]...)
	return k, end, nil
}
