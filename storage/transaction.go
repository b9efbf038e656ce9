// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"sync"

	"github.com/bitmark-inc/registerd/fault"
)

// Transaction - group of pool writes committed atomically
type Transaction interface {
	Put(*PoolHandle, []byte, []byte)
	PutN(*PoolHandle, []byte, uint64)
	Delete(*PoolHandle, []byte)
	Get(*PoolHandle, []byte) []byte
	GetN(*PoolHandle, []byte) (uint64, bool)
	Has(*PoolHandle, []byte) bool
	Commit() error
	Abort()
}

type transaction struct {
	sync.Mutex
	access Access
	done   func()
	open   bool
}

func newTransaction(access Access, done func()) Transaction {
	return &transaction{
		access: access,
		done:   done,
		open:   true,
	}
}

func (t *transaction) Put(handle *PoolHandle, key []byte, value []byte) {
	handle.put(key, value)
}

func (t *transaction) PutN(handle *PoolHandle, key []byte, value uint64) {
	handle.putN(key, value)
}

func (t *transaction) Delete(handle *PoolHandle, key []byte) {
	handle.remove(key)
}

func (t *transaction) Get(handle *PoolHandle, key []byte) []byte {
	return handle.Get(key)
}

func (t *transaction) GetN(handle *PoolHandle, key []byte) (uint64, bool) {
	return handle.GetN(key)
}

func (t *transaction) Has(handle *PoolHandle, key []byte) bool {
	return handle.Has(key)
}

func (t *transaction) finish() bool {
	t.Lock()
	defer t.Unlock()

	if !t.open {
		return false
	}
	t.open = false
	return true
}

// Commit - write everything; the transaction cannot be reused
func (t *transaction) Commit() error {
	if !t.finish() {
		return fault.NoTransaction
	}
	defer t.done()
	return t.access.Commit()
}

// Abort - discard everything, a no-op after Commit
func (t *transaction) Abort() {
	if !t.finish() {
		return
	}
	t.access.Abort()
	t.done()
}
