// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/bitmark-inc/registerd/address"
	"github.com/bitmark-inc/registerd/digest"
	"github.com/bitmark-inc/registerd/object"
	"github.com/bitmark-inc/registerd/stakechange"
	"github.com/bitmark-inc/registerd/state"
)

type stateView struct {
	Address  address.Address `json:"address"`
	Version  uint16          `json:"version"`
	Type     string          `json:"type"`
	Owner    digest.Digest   `json:"owner"`
	Created  uint64          `json:"created"`
	Modified uint64          `json:"modified"`
	Payload  string          `json:"payload"`
	Checksum string          `json:"checksum"`
}

func newStateView(a address.Address, s *state.State) *stateView {
	return &stateView{
		Address:  a,
		Version:  s.Version,
		Type:     s.Type.String(),
		Owner:    s.Owner,
		Created:  s.Created,
		Modified: s.Modified,
		Payload:  hex.EncodeToString(s.Payload),
		Checksum: fmt.Sprintf("%016x", s.Checksum),
	}
}

type fieldView struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Mutable bool   `json:"mutable"`
	Value   string `json:"value"`
}

type objectView struct {
	State    *stateView  `json:"state"`
	Standard string      `json:"standard"`
	Fields   []fieldView `json:"fields"`
}

func newObjectView(a address.Address, o *object.Object) *objectView {
	fields := o.Fields()
	v := &objectView{
		State:    newStateView(a, o.State),
		Standard: o.Standard().String(),
		Fields:   make([]fieldView, 0, len(fields)),
	}
	for _, f := range fields {
		v.Fields = append(v.Fields, fieldView{
			Name:    f.Name,
			Type:    f.Value.Type().String(),
			Mutable: f.Mutable,
			Value:   valueText(f.Value),
		})
	}
	return v
}

// integers in decimal, strings as is, everything else as hex
func valueText(v object.Value) string {
	if n, err := v.Uint(); nil == err {
		return strconv.FormatUint(n, 10)
	}
	if s, err := v.Text(); nil == err {
		return s
	}
	if b, err := v.Fixed(); nil == err {
		return hex.EncodeToString(b)
	}
	if b, err := v.Data(); nil == err {
		return hex.EncodeToString(b)
	}
	return ""
}

type requestView struct {
	Hash      digest.Digest `json:"hash"`
	Genesis   digest.Digest `json:"genesis"`
	Amount    int64         `json:"amount"`
	Timestamp uint64        `json:"timestamp"`
	Expires   uint64        `json:"expires"`
	Processed bool          `json:"processed"`
}

func newRequestView(r *stakechange.Request) requestView {
	return requestView{
		Hash:      r.Hash(),
		Genesis:   r.Genesis,
		Amount:    r.Amount,
		Timestamp: r.Timestamp,
		Expires:   r.Expires,
		Processed: r.Processed,
	}
}

func printJson(handle io.Writer, message interface{}) error {

	b, err := json.MarshalIndent(message, "", "  ")
	if nil != err {
		return err
	}

	fmt.Fprintf(handle, "%s\n", b)
	return nil
}
