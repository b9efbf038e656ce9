// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package object

import (
	"bytes"

	"github.com/bitmark-inc/registerd/digest"
	"github.com/bitmark-inc/registerd/fault"
	"github.com/bitmark-inc/registerd/state"
	"github.com/bitmark-inc/registerd/stream"
)

// MaxNameLength - longest field name
const MaxNameLength = 255

// field names that only the operation layer may change
var reservedNames = map[string]struct{}{
	"balance":   {},
	"decimals":  {},
	"digits":    {},
	"name":      {},
	"namespace": {},
	"require":   {},
	"stake":     {},
	"supply":    {},
	"system":    {},
	"token":     {},
	"trust":     {},
}

// IsReserved - true for field names outside user control
func IsReserved(name string) bool {
	_, ok := reservedNames[name]
	return ok
}

// Field - one named value
type Field struct {
	Name    string
	Mutable bool
	Value   Value
}

// Object - typed view over the payload of an OBJECT register
//
// fields keep their encounter order so serialization is lossless
type Object struct {
	State  *state.State
	fields []Field
	index  map[string]int
}

// New - build an object register from fields, unowned
func New(fields ...Field) (*Object, error) {
	o := &Object{
		State: state.New(state.Object, digest.Zero),
		index: make(map[string]int, len(fields)),
	}
	for _, f := range fields {
		if err := o.add(f); nil != err {
			return nil, err
		}
	}
	o.State.SetState(o.serialize())
	return o, nil
}

// FromState - parse the payload of an existing state
//
// the object shares the state; use state.Clone first to work on a copy
func FromState(s *state.State) (*Object, error) {
	if state.Object != s.Type {
		return nil, fault.InvalidRegisterType
	}
	o := &Object{State: s}
	if err := o.Parse(); nil != err {
		return nil, err
	}
	return o, nil
}

func (o *Object) add(f Field) error {
	if "" == f.Name {
		return fault.EmptyFieldName
	}
	if len(f.Name) > MaxNameLength {
		return fault.InvalidName
	}
	if _, ok := o.index[f.Name]; ok {
		return fault.DuplicateField
	}
	if f.Value.kind <= Unsupported || f.Value.kind >= typeLimit {
		return fault.InvalidFieldType
	}
	o.index[f.Name] = len(o.fields)
	o.fields = append(o.fields, f)
	return nil
}

// Parse - rebuild the field list from the state payload
func (o *Object) Parse() error {
	o.fields = nil
	o.index = make(map[string]int)

	r := stream.New(o.State.Payload)
	for !r.End() {
		name, err := r.ReadString()
		if nil != err {
			return err
		}

		tag, err := r.ReadU8()
		if nil != err {
			return err
		}
		mutable := false
		if Mutable == tag {
			mutable = true
			if tag, err = r.ReadU8(); nil != err {
				return err
			}
		}

		kind := Type(tag)
		if kind <= Unsupported || kind >= typeLimit {
			return fault.InvalidFieldType
		}
		value, err := readValue(r, kind)
		if nil != err {
			return err
		}
		if err := o.add(Field{Name: name, Mutable: mutable, Value: value}); nil != err {
			return err
		}
	}

	// one byte sequence per object, so Sync never re-encodes a payload
	if !bytes.Equal(o.serialize(), o.State.Payload) {
		return fault.NonCanonicalEncoding
	}
	return nil
}

func (o *Object) serialize() []byte {
	w := stream.NewEmpty()
	for _, f := range o.fields {
		w.WriteString(f.Name)
		if f.Mutable {
			w.WriteU8(Mutable)
		}
		w.WriteU8(uint8(f.Value.kind))
		f.Value.write(w)
	}
	return w.Bytes()
}

// Serialize - the payload bytes for the current fields
func (o *Object) Serialize() []byte {
	return o.serialize()
}

// Fields - copy of the ordered field list
func (o *Object) Fields() []Field {
	return append([]Field{}, o.fields...)
}

// Has - field present
func (o *Object) Has(name string) bool {
	_, ok := o.index[name]
	return ok
}

// Get - value of a field
func (o *Object) Get(name string) (Value, error) {
	i, ok := o.index[name]
	if !ok {
		return Value{}, fault.FieldNotFound
	}
	return o.fields[i].Value, nil
}

// Uint - an integer field of any width up to 64 bits
func (o *Object) Uint(name string) (uint64, error) {
	v, err := o.Get(name)
	if nil != err {
		return 0, err
	}
	return v.Uint()
}

func (o *Object) exact(name string, kind Type) (uint64, error) {
	v, err := o.Get(name)
	if nil != err {
		return 0, err
	}
	if kind != v.kind {
		return 0, fault.FieldTypeMismatch
	}
	return v.number, nil
}

// Uint8 - a field that must be exactly uint8
func (o *Object) Uint8(name string) (uint8, error) {
	n, err := o.exact(name, Uint8)
	return uint8(n), err
}

// Uint16 - a field that must be exactly uint16
func (o *Object) Uint16(name string) (uint16, error) {
	n, err := o.exact(name, Uint16)
	return uint16(n), err
}

// Uint32 - a field that must be exactly uint32
func (o *Object) Uint32(name string) (uint32, error) {
	n, err := o.exact(name, Uint32)
	return uint32(n), err
}

// Uint64 - a field that must be exactly uint64
func (o *Object) Uint64(name string) (uint64, error) {
	return o.exact(name, Uint64)
}

// Fixed - raw bytes of a uint256, uint512 or uint1024 field
func (o *Object) Fixed(name string) ([]byte, error) {
	v, err := o.Get(name)
	if nil != err {
		return nil, err
	}
	return v.Fixed()
}

// Digest - a uint256 field
func (o *Object) Digest(name string) (digest.Digest, error) {
	v, err := o.Get(name)
	if nil != err {
		return digest.Digest{}, err
	}
	return v.Digest()
}

// String - a string field
func (o *Object) String(name string) (string, error) {
	v, err := o.Get(name)
	if nil != err {
		return "", err
	}
	return v.Text()
}

// Bytes - a bytes field
func (o *Object) Bytes(name string) ([]byte, error) {
	v, err := o.Get(name)
	if nil != err {
		return nil, err
	}
	return v.Data()
}

// Write - change a field on behalf of a user
func (o *Object) Write(name string, v Value, timestamp uint64) error {
	if IsReserved(name) {
		return fault.ReservedField
	}
	return o.update(name, v, timestamp)
}

// Set - change a field from a governed operation, reserved names allowed
func (o *Object) Set(name string, v Value, timestamp uint64) error {
	return o.update(name, v, timestamp)
}

func (o *Object) update(name string, v Value, timestamp uint64) error {
	i, ok := o.index[name]
	if !ok {
		return fault.FieldNotFound
	}
	f := &o.fields[i]
	if !f.Mutable {
		return fault.FieldNotMutable
	}
	if f.Value.kind != v.kind {
		return fault.FieldTypeMismatch
	}
	if f.Value.size() != v.size() {
		return fault.FieldSizeChanged
	}
	f.Value = v
	o.Sync(timestamp)
	return nil
}

// Sync - re-serialize the fields into the state, stamp and checksum it
func (o *Object) Sync(timestamp uint64) {
	o.State.Payload = o.serialize()
	o.State.Modified = timestamp
	o.State.SetChecksum()
}

// Clone - deep copy of the object and its state
func (o *Object) Clone() *Object {
	c := &Object{
		State:  o.State.Clone(),
		fields: make([]Field, len(o.fields)),
		index:  make(map[string]int, len(o.index)),
	}
	copy(c.fields, o.fields)
	for k, v := range o.index {
		c.index[k] = v
	}
	return c
}
