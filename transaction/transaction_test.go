// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transaction_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/registerd/account"
	"github.com/bitmark-inc/registerd/address"
	"github.com/bitmark-inc/registerd/fault"
	"github.com/bitmark-inc/registerd/operation"
	"github.com/bitmark-inc/registerd/register"
	"github.com/bitmark-inc/registerd/sector"
	"github.com/bitmark-inc/registerd/state"
	"github.com/bitmark-inc/registerd/storage"
	"github.com/bitmark-inc/registerd/transaction"
	"github.com/bitmark-inc/registerd/transaction/mocks"
)

const testingDirName = "testing"

const blockFlags = operation.FlagPreState | operation.FlagPostState | operation.FlagWrite | operation.FlagBlock

func TestMain(m *testing.M) {
	_ = os.RemoveAll(testingDirName)
	_ = os.Mkdir(testingDirName, 0o700)

	logging := logger.Configuration{
		Directory: testingDirName,
		File:      "testing.log",
		Size:      1048576,
		Count:     10,
		Console:   false,
		Levels: map[string]string{
			logger.DefaultTag: "critical",
		},
	}
	_ = logger.Initialise(logging)

	result := m.Run()

	logger.Finalise()
	_ = os.RemoveAll(testingDirName)
	os.Exit(result)
}

func openStore(t *testing.T) *register.Store {
	dir := filepath.Join(testingDirName, t.Name())
	states, err := sector.Open(sector.Config{
		Directory: dir,
		Name:      "states",
		Buckets:   64,
	})
	if nil != err {
		t.Fatalf("sector open error: %s", err)
	}
	pools, err := storage.Open(filepath.Join(dir, "index"), storage.ReadWrite)
	if nil != err {
		t.Fatalf("storage open error: %s", err)
	}
	return register.New(states, pools, time.Minute)
}

func key(t *testing.T, seed byte) *account.PrivateKey {
	k, err := account.PrivateKeyFromSeed(bytes.Repeat([]byte{seed}, 32))
	if nil != err {
		t.Fatalf("key error: %s", err)
	}
	return k
}

func rawCreate(t *testing.T, data string) (*operation.Create, address.Address) {
	a, err := address.New(address.Raw)
	if nil != err {
		t.Fatalf("address error: %s", err)
	}
	return &operation.Create{Address: a, Type: state.Raw, Data: []byte(data)}, a
}

func TestPackUnpack(t *testing.T) {
	k := key(t, 1)
	op1, _ := rawCreate(t, "one")
	op2, _ := rawCreate(t, "two")

	tx, err := transaction.New(k.Account().PublicKey, 7, 1234, op1, op2)
	assert.Nil(t, err, "new error")
	tx.Contracts[0].Registers = []byte{1, 2, 3}
	assert.Nil(t, tx.Sign(k), "sign error")

	packed := tx.Pack()
	unpacked, err := transaction.Unpack(packed)
	assert.Nil(t, err, "unpack error")
	assert.Equal(t, packed, unpacked.Pack(), "round trip")
	assert.Equal(t, tx.Genesis, unpacked.Genesis, "genesis")
	assert.Equal(t, uint64(7), unpacked.Sequence, "sequence")
	assert.Equal(t, 2, len(unpacked.Contracts), "contracts")
	assert.Equal(t, []byte{1, 2, 3}, unpacked.Contracts[0].Registers, "registers")
	assert.Equal(t, tx.Hash(), unpacked.Hash(), "hash")
	assert.Nil(t, unpacked.Verify(), "verify error")

	_, err = transaction.Unpack(append(packed, 0))
	assert.Equal(t, fault.TrailingData, err, "trailing byte")

	_, err = transaction.Unpack(packed[:len(packed)-3])
	assert.Equal(t, fault.StreamEndOfBuffer, err, "truncated")

	bad := append([]byte{}, packed...)
	bad[0] = 9
	_, err = transaction.Unpack(bad)
	assert.Equal(t, fault.InvalidTransactionVersion, err, "version")
}

func TestNewRejects(t *testing.T) {
	k := key(t, 1)

	_, err := transaction.New(k.Account().PublicKey, 1, 1)
	assert.Equal(t, fault.InvalidCount, err, "no contracts")

	op, _ := rawCreate(t, "x")
	_, err = transaction.New([]byte{1, 2, 3}, 1, 1, op)
	assert.Equal(t, fault.InvalidPublicKey, err, "short public key")
}

func TestSignatureRejection(t *testing.T) {
	alice := key(t, 1)
	bob := key(t, 2)

	op, _ := rawCreate(t, "data")
	tx, err := transaction.New(alice.Account().PublicKey, 1, 1, op)
	assert.Nil(t, err, "new error")

	assert.Equal(t, fault.GenesisMismatch, tx.Sign(bob), "signed by other key")
	assert.Nil(t, tx.Sign(alice), "sign error")
	assert.Nil(t, tx.Verify(), "verify error")

	tx.Sequence += 1
	assert.Equal(t, fault.InvalidSignature, tx.Verify(), "altered body")
	tx.Sequence -= 1

	tx.PublicKey = bob.Account().PublicKey
	assert.Equal(t, fault.GenesisMismatch, tx.Verify(), "swapped public key")
}

func TestBuildAndConnect(t *testing.T) {
	db := openStore(t)
	defer db.Close()
	executor := operation.New(db, nil)

	k := key(t, 3)
	op1, a1 := rawCreate(t, "first")
	op2, a2 := rawCreate(t, "second")

	tx, err := transaction.New(k.Account().PublicKey, 1, 500, op1, op2)
	assert.Nil(t, err, "new error")

	assert.Nil(t, tx.Build(executor, blockFlags), "build error")
	assert.Equal(t, fault.InvalidSignature, tx.Connect(executor, blockFlags), "unsigned connect")
	assert.Nil(t, tx.Sign(k), "sign error")

	assert.Nil(t, tx.Connect(executor, blockFlags), "connect error")

	s, err := db.ReadState(a1, 0)
	assert.Nil(t, err, "read first")
	assert.Equal(t, []byte("first"), s.Payload, "first payload")
	assert.Equal(t, k.Account().Genesis(), s.Owner, "owner is signer")
	assert.Equal(t, uint64(500), s.Created, "created")

	s, err = db.ReadState(a2, 0)
	assert.Nil(t, err, "read second")
	assert.Equal(t, []byte("second"), s.Payload, "second payload")

	// replay is rejected by the first contract
	assert.Equal(t, fault.AlreadyExists, tx.Connect(executor, blockFlags), "replay")
}

func TestConnectStopsAtFirstFailure(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	k := key(t, 4)
	op1, _ := rawCreate(t, "a")
	op2, _ := rawCreate(t, "b")
	op3, _ := rawCreate(t, "c")

	tx, err := transaction.New(k.Account().PublicKey, 1, 1, op1, op2, op3)
	assert.Nil(t, err, "new error")
	assert.Nil(t, tx.Sign(k), "sign error")

	txId := tx.Hash()
	index := uint32(0)
	executor := mocks.NewMockExecutor(ctl)
	gomock.InOrder(
		executor.EXPECT().Execute(gomock.Any(), blockFlags).DoAndReturn(func(c *operation.Contract, flags operation.Flags) error {
			assert.Equal(t, txId, c.TxID, "tx id")
			assert.Equal(t, index, c.Index, "index")
			assert.Equal(t, k.Account().Genesis(), c.Caller, "caller")
			index += 1
			return nil
		}).Times(1),
		executor.EXPECT().Execute(gomock.Any(), blockFlags).Return(fault.InsufficientBalance).Times(1),
	)

	assert.Equal(t, fault.InsufficientBalance, tx.Connect(executor, blockFlags), "second contract error")
}
