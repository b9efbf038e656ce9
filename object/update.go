// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package object

import (
	"github.com/bitmark-inc/registerd/fault"
	"github.com/bitmark-inc/registerd/stream"
)

// Update - new value for an existing field
type Update struct {
	Name  string
	Value Value
}

// PackUpdates - encode as: compact-size name | type u8 | value, repeated
func PackUpdates(updates ...Update) []byte {
	w := stream.NewEmpty()
	for _, u := range updates {
		w.WriteString(u.Name)
		w.WriteU8(uint8(u.Value.kind))
		u.Value.write(w)
	}
	return w.Bytes()
}

// ParseUpdates - decode a packed update list
func ParseUpdates(data []byte) ([]Update, error) {
	updates := []Update{}
	seen := make(map[string]struct{})

	r := stream.New(data)
	for !r.End() {
		name, err := r.ReadString()
		if nil != err {
			return nil, err
		}
		if "" == name {
			return nil, fault.EmptyFieldName
		}
		if _, ok := seen[name]; ok {
			return nil, fault.DuplicateField
		}
		seen[name] = struct{}{}

		tag, err := r.ReadU8()
		if nil != err {
			return nil, err
		}
		kind := Type(tag)
		if kind <= Unsupported || kind >= typeLimit {
			return nil, fault.InvalidFieldType
		}
		value, err := readValue(r, kind)
		if nil != err {
			return nil, err
		}
		updates = append(updates, Update{Name: name, Value: value})
	}
	if 0 == len(updates) {
		return nil, fault.FieldNotFound
	}
	return updates, nil
}

// Apply - write every update through the user path
//
// the object is left unchanged if any update fails
func (o *Object) Apply(updates []Update, timestamp uint64) error {
	c := o.Clone()
	for _, u := range updates {
		if err := c.Write(u.Name, u.Value, timestamp); nil != err {
			return err
		}
	}
	o.State = c.State
	o.fields = c.fields
	o.index = c.index
	return nil
}
