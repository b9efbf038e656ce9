// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transaction

import (
	"github.com/bitmark-inc/registerd/account"
	"github.com/bitmark-inc/registerd/digest"
	"github.com/bitmark-inc/registerd/fault"
	"github.com/bitmark-inc/registerd/operation"
	"github.com/bitmark-inc/registerd/stream"
)

// CurrentVersion - the only version accepted by Unpack
const CurrentVersion = 1

// MaxContracts - limit on contracts in one transaction
const MaxContracts = 256

// Contract - one packed operation with its register stream
type Contract struct {
	Operations []byte
	Registers  []byte
}

// Transaction - contracts signed by one identity
type Transaction struct {
	Version   uint8
	Genesis   digest.Digest
	Sequence  uint64
	Timestamp uint64
	Contracts []Contract
	PublicKey []byte
	Signature account.Signature
}

// New - unsigned transaction with a contract per operation
//
// register streams are empty until Build
func New(publicKey []byte, sequence uint64, timestamp uint64, ops ...operation.Operation) (*Transaction, error) {
	a, err := account.NewAccount(publicKey)
	if nil != err {
		return nil, err
	}
	if 0 == len(ops) || len(ops) > MaxContracts {
		return nil, fault.InvalidCount
	}
	tx := &Transaction{
		Version:   CurrentVersion,
		Genesis:   a.Genesis(),
		Sequence:  sequence,
		Timestamp: timestamp,
		Contracts: make([]Contract, 0, len(ops)),
		PublicKey: a.PublicKey,
	}
	for _, op := range ops {
		tx.Contracts = append(tx.Contracts, Contract{Operations: operation.Pack(op)})
	}
	return tx, nil
}

func (tx *Transaction) body() *stream.Stream {
	w := stream.NewEmpty()
	w.WriteU8(tx.Version)
	w.WriteDigest(tx.Genesis)
	w.WriteU64(tx.Sequence)
	w.WriteU64(tx.Timestamp)
	w.WriteCompactSize(uint64(len(tx.Contracts)))
	for _, c := range tx.Contracts {
		w.WriteBytes(c.Operations)
		w.WriteBytes(c.Registers)
	}
	w.WriteBytes(tx.PublicKey)
	return w
}

// Pack - the signed wire form
func (tx *Transaction) Pack() []byte {
	w := tx.body()
	w.WriteBytes(tx.Signature)
	return w.Bytes()
}

// Unpack - decode a packed transaction, the whole buffer must be used
func Unpack(buffer []byte) (*Transaction, error) {
	r := stream.New(buffer)
	tx := &Transaction{}

	var err error
	if tx.Version, err = r.ReadU8(); nil != err {
		return nil, err
	}
	if CurrentVersion != tx.Version {
		return nil, fault.InvalidTransactionVersion
	}
	if tx.Genesis, err = r.ReadDigest(); nil != err {
		return nil, err
	}
	if tx.Sequence, err = r.ReadU64(); nil != err {
		return nil, err
	}
	if tx.Timestamp, err = r.ReadU64(); nil != err {
		return nil, err
	}
	count, err := r.ReadCompactSize()
	if nil != err {
		return nil, err
	}
	if 0 == count || count > MaxContracts {
		return nil, fault.InvalidCount
	}
	tx.Contracts = make([]Contract, count)
	for i := range tx.Contracts {
		c := &tx.Contracts[i]
		if c.Operations, err = r.ReadBytes(); nil != err {
			return nil, err
		}
		if c.Registers, err = r.ReadBytes(); nil != err {
			return nil, err
		}
	}
	if tx.PublicKey, err = r.ReadBytes(); nil != err {
		return nil, err
	}
	signature, err := r.ReadBytes()
	if nil != err {
		return nil, err
	}
	tx.Signature = signature
	if !r.End() {
		return nil, fault.TrailingData
	}
	return tx, nil
}

// Hash - transaction id, SHA3-256 of the unsigned body
func (tx *Transaction) Hash() digest.Digest {
	return digest.NewDigest(tx.body().Bytes())
}

// Sign - sign the body with the key that owns Genesis
func (tx *Transaction) Sign(key *account.PrivateKey) error {
	a := key.Account()
	if a.Genesis() != tx.Genesis {
		return fault.GenesisMismatch
	}
	tx.PublicKey = a.PublicKey
	tx.Signature = key.Sign(tx.body().Bytes())
	return nil
}

// Verify - the public key hashes to Genesis and signed the body
func (tx *Transaction) Verify() error {
	a, err := account.NewAccount(tx.PublicKey)
	if nil != err {
		return err
	}
	if a.Genesis() != tx.Genesis {
		return fault.GenesisMismatch
	}
	return a.CheckSignature(tx.body().Bytes(), tx.Signature)
}

// contract i prepared for the executor
func (tx *Transaction) contract(txId digest.Digest, i int) *operation.Contract {
	c := tx.Contracts[i]
	return &operation.Contract{
		Operations: stream.New(c.Operations),
		Registers:  stream.New(c.Registers),
		Caller:     tx.Genesis,
		Timestamp:  tx.Timestamp,
		TxID:       txId,
		Index:      uint32(i),
	}
}
