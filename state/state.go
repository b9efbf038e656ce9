// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package state

import (
	"bytes"

	"github.com/bitmark-inc/registerd/digest"
	"github.com/bitmark-inc/registerd/fault"
	"github.com/bitmark-inc/registerd/stream"
)

// Type - register type
type Type uint8

// register types
const (
	Reserved Type = iota
	ReadOnly
	Append
	Raw
	Object
	System

	typeLimit // one greater than last valid type
)

// record versions
const (
	PrunedVersion  = 0x0000
	CurrentVersion = 0x0001
)

// MaxPayloadSize - largest payload accepted in a record
const MaxPayloadSize = 1 << 20

// State - durable representation of one register
type State struct {
	Version  uint16
	Type     Type
	Owner    digest.Digest
	Created  uint64
	Modified uint64
	Payload  []byte
	Checksum uint64
}

// New - empty record of a type with an owner
func New(t Type, owner digest.Digest) *State {
	return &State{
		Version: CurrentVersion,
		Type:    t,
		Owner:   owner,
		Payload: []byte{},
	}
}

// String - name of a register type
func (t Type) String() string {
	switch t {
	case Reserved:
		return "reserved"
	case ReadOnly:
		return "readonly"
	case Append:
		return "append"
	case Raw:
		return "raw"
	case Object:
		return "object"
	case System:
		return "system"
	default:
		return "*unknown*"
	}
}

// IsValidType - within range and not RESERVED
func (t Type) IsValidType() bool {
	return t > Reserved && t < typeLimit
}

func (s *State) pack(withChecksum bool) []byte {
	w := stream.NewEmpty()
	w.WriteU16(s.Version)
	w.WriteU8(uint8(s.Type))
	w.WriteDigest(s.Owner)
	w.WriteU64(s.Created)
	w.WriteU64(s.Modified)
	w.WriteBytes(s.Payload)
	if withChecksum {
		w.WriteU64(s.Checksum)
	}
	return w.Bytes()
}

// Serialize - complete on-disk form including the checksum
func (s *State) Serialize() []byte {
	return s.pack(true)
}

// Deserialize - decode a complete record, rejecting trailing bytes
func Deserialize(buffer []byte) (*State, error) {
	r := stream.New(buffer)
	s, err := Read(r)
	if nil != err {
		return nil, err
	}
	if !r.End() {
		return nil, fault.TrailingData
	}
	return s, nil
}

// Read - decode one record from a stream
func Read(r *stream.Stream) (*State, error) {
	var err error
	s := &State{}

	if s.Version, err = r.ReadU16(); nil != err {
		return nil, err
	}
	t, err := r.ReadU8()
	if nil != err {
		return nil, err
	}
	s.Type = Type(t)
	if s.Owner, err = r.ReadDigest(); nil != err {
		return nil, err
	}
	if s.Created, err = r.ReadU64(); nil != err {
		return nil, err
	}
	if s.Modified, err = r.ReadU64(); nil != err {
		return nil, err
	}
	if s.Payload, err = r.ReadBytes(); nil != err {
		return nil, err
	}
	if len(s.Payload) > MaxPayloadSize {
		return nil, fault.PayloadTooLarge
	}
	if s.Checksum, err = r.ReadU64(); nil != err {
		return nil, err
	}
	return s, nil
}

// GetHash - checksum of the record without its checksum field
func (s *State) GetHash() uint64 {
	return digest.Checksum64(s.pack(false))
}

// SetChecksum - store the current hash
func (s *State) SetChecksum() {
	s.Checksum = s.GetHash()
}

// SetState - replace the payload and recompute the checksum
func (s *State) SetState(payload []byte) {
	s.Payload = append([]byte{}, payload...)
	s.SetChecksum()
}

// ClearState - empty the payload, checksum is left for the caller
func (s *State) ClearState() {
	s.Payload = []byte{}
}

// Append - grow the payload of an append register
func (s *State) Append(data []byte) {
	s.Payload = append(s.Payload, data...)
	s.SetChecksum()
}

// IsNull - a record that was never set
func (s *State) IsNull() bool {
	return nil == s || (Reserved == s.Type && s.Owner.IsZero() && 0 == len(s.Payload) && 0 == s.Checksum)
}

// IsPruned - payload reclaimed, checksum retained
func (s *State) IsPruned() bool {
	return PrunedVersion == s.Version && 0 == len(s.Payload) && 0 != s.Checksum
}

// Prune - drop the payload keeping the checksum of the full record
func (s *State) Prune() {
	s.Version = PrunedVersion
	s.Payload = []byte{}
}

// IsValid - every caller must check this before trusting a record
func (s *State) IsValid() error {
	if s.IsNull() {
		return fault.InvalidState
	}
	if CurrentVersion != s.Version {
		return fault.InvalidStateVersion
	}
	if !s.Type.IsValidType() {
		return fault.InvalidRegisterType
	}
	if len(s.Payload) > MaxPayloadSize {
		return fault.PayloadTooLarge
	}
	if 0 == s.Checksum || s.Checksum != s.GetHash() {
		return fault.ChecksumMismatch
	}
	return nil
}

// Clone - deep copy
func (s *State) Clone() *State {
	c := *s
	c.Payload = append([]byte{}, s.Payload...)
	return &c
}

// Equal - field by field comparison
func (s *State) Equal(other *State) bool {
	if nil == s || nil == other {
		return s == other
	}
	if s.Version != other.Version || s.Type != other.Type || s.Owner != other.Owner ||
		s.Created != other.Created || s.Modified != other.Modified || s.Checksum != other.Checksum {
		return false
	}
	return bytes.Equal(s.Payload, other.Payload)
}
