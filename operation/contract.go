// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package operation

import (
	"github.com/bitmark-inc/registerd/digest"
	"github.com/bitmark-inc/registerd/fault"
	"github.com/bitmark-inc/registerd/stream"
)

// Contract - one operation with the register states it claims
type Contract struct {
	Operations *stream.Stream
	Registers  *stream.Stream
	Caller     digest.Digest
	Timestamp  uint64
	TxID       digest.Digest
	Index      uint32
}

// NewContract - contract for an operation with an empty register stream
func NewContract(op Operation, caller digest.Digest, timestamp uint64) *Contract {
	return &Contract{
		Operations: stream.New(Pack(op)),
		Registers:  stream.NewEmpty(),
		Caller:     caller,
		Timestamp:  timestamp,
	}
}

// Operation - decode the operation stream from its start
func (c *Contract) Operation() (Operation, error) {
	if nil == c.Operations {
		return nil, fault.InvalidOperation
	}
	c.Operations.Reset()
	op, err := Decode(c.Operations)
	if nil != err {
		return nil, err
	}
	if !c.Operations.End() {
		return nil, fault.TrailingData
	}
	return op, nil
}

// stored with TRANSFER, DEBIT and LEGACY: caller ++ packed operation
func packRecord(caller digest.Digest, op Operation) []byte {
	w := stream.NewEmpty()
	w.WriteDigest(caller)
	w.WriteFixed(Pack(op))
	return w.Bytes()
}

func unpackRecord(data []byte) (digest.Digest, Operation, error) {
	r := stream.New(data)
	caller, err := r.ReadDigest()
	if nil != err {
		return digest.Zero, nil, err
	}
	op, err := Decode(r)
	if nil != err {
		return digest.Zero, nil, err
	}
	if !r.End() {
		return digest.Zero, nil, fault.TrailingData
	}
	return caller, op, nil
}
