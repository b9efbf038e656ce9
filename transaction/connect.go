// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transaction

import (
	"github.com/bitmark-inc/registerd/operation"
)

// Executor - the part of operation.Executor a transaction needs
type Executor interface {
	Execute(*operation.Contract, operation.Flags) error
	Build(*operation.Contract, operation.Flags) error
}

// Connect - verify the signature then execute every contract in order
//
// processing stops at the first failing contract; contracts before it
// keep their effects when flags include WRITE
func (tx *Transaction) Connect(executor Executor, flags operation.Flags) error {
	if err := tx.Verify(); nil != err {
		return err
	}
	txId := tx.Hash()
	for i := range tx.Contracts {
		if err := executor.Execute(tx.contract(txId, i), flags); nil != err {
			return err
		}
	}
	return nil
}

// Build - fill every register stream from the current database
//
// the signature no longer matches afterwards, so sign after building.
// each contract is built against the database as it is now, so
// contracts in one transaction must not change the same register
func (tx *Transaction) Build(executor Executor, flags operation.Flags) error {
	txId := tx.Hash()
	for i := range tx.Contracts {
		c := tx.contract(txId, i)
		if err := executor.Build(c, flags); nil != err {
			return err
		}
		tx.Contracts[i].Registers = append([]byte{}, c.Registers.Bytes()...)
	}
	tx.Signature = nil
	return nil
}
