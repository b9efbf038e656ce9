// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package register

import (
	"github.com/bitmark-inc/registerd/address"
	"github.com/bitmark-inc/registerd/digest"
	"github.com/bitmark-inc/registerd/object"
	"github.com/bitmark-inc/registerd/state"
)

// Database - query and update surface of the register store
//
// flags select the mempool overlay: MEMPOOL reads see speculative
// writes, MEMPOOL writes stay in memory and BLOCK writes go to disk
// clearing any speculative copy
type Database interface {
	ReadState(address.Address, Flags) (*state.State, error)
	WriteState(address.Address, *state.State, Flags) error
	HasState(address.Address, Flags) bool
	EraseState(address.Address, Flags) error
	ReadObject(address.Address, Flags) (*object.Object, error)

	WriteProof(address.Address, digest.Digest, uint32, Flags) error
	HasProof(address.Address, digest.Digest, uint32, Flags) bool
	EraseProof(address.Address, digest.Digest, uint32, Flags) error

	WriteContract(digest.Digest, uint32, []byte, Flags) error
	ReadContract(digest.Digest, uint32, Flags) ([]byte, error)

	WriteTrust(digest.Digest, address.Address) error
	ReadTrust(digest.Digest) (address.Address, error)
	WriteIdentifier(digest.Digest, address.Address) error
	ReadIdentifier(digest.Digest) (address.Address, error)

	Close() error
}
