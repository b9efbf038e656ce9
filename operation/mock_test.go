// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package operation_test

import (
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/registerd/address"
	"github.com/bitmark-inc/registerd/fault"
	"github.com/bitmark-inc/registerd/object"
	"github.com/bitmark-inc/registerd/operation"
	"github.com/bitmark-inc/registerd/register/mocks"
	"github.com/bitmark-inc/registerd/state"
)

func TestCreateExistingRegister(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	db := mocks.NewMockDatabase(ctl)
	a, _ := address.New(address.Raw)

	db.EXPECT().HasState(a, operation.Flags(0)).Return(true).Times(1)

	e := operation.New(db, nil)
	c := operation.NewContract(&operation.Create{Address: a, Type: state.Raw, Data: []byte("x")}, alice, 1)
	err := e.Build(c, blockFlags)
	assert.Equal(t, fault.AlreadyExists, err, "existing register")
}

func TestCreateTrustIndexed(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	db := mocks.NewMockDatabase(ctl)
	a := address.ForTrust(alice)
	o, _ := object.CreateTrust()

	e := operation.New(db, nil)
	c := operation.NewContract(&operation.Create{Address: a, Type: state.Object, Data: o.Serialize()}, alice, 1)

	gomock.InOrder(
		db.EXPECT().HasState(a, operation.Flags(0)).Return(false).Times(1),
		db.EXPECT().HasState(a, operation.FlagBlock).Return(false).Times(1),
		db.EXPECT().WriteState(a, gomock.Any(), operation.FlagBlock).Return(nil).Times(1),
		db.EXPECT().WriteTrust(alice, a).Return(nil).Times(1),
	)

	err := e.Build(c, blockFlags)
	assert.Nil(t, err, "build error")

	err = e.Execute(c, blockFlags)
	assert.Nil(t, err, "execute error")
}

func TestCreateTrustMempoolNotIndexed(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	db := mocks.NewMockDatabase(ctl)
	a := address.ForTrust(alice)
	o, _ := object.CreateTrust()
	mempool := operation.FlagPreState | operation.FlagPostState | operation.FlagWrite | operation.FlagMempool

	e := operation.New(db, nil)
	c := operation.NewContract(&operation.Create{Address: a, Type: state.Object, Data: o.Serialize()}, alice, 1)

	gomock.InOrder(
		db.EXPECT().HasState(a, operation.FlagMempool).Return(false).Times(2),
		db.EXPECT().WriteState(a, gomock.Any(), operation.FlagMempool).Return(nil).Times(1),
	)

	err := e.Build(c, mempool)
	assert.Nil(t, err, "build error")

	err = e.Execute(c, mempool)
	assert.Nil(t, err, "execute error")
}

func TestCommitFailureReported(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	db := mocks.NewMockDatabase(ctl)
	a, _ := address.New(address.Raw)

	db.EXPECT().HasState(a, gomock.Any()).Return(false).AnyTimes()
	db.EXPECT().WriteState(a, gomock.Any(), gomock.Any()).Return(fault.InvalidState).Times(1)

	e := operation.New(db, nil)
	c := operation.NewContract(&operation.Create{Address: a, Type: state.Raw, Data: []byte("x")}, alice, 1)
	assert.Nil(t, e.Build(c, 0), "build error")
	assert.Equal(t, fault.InvalidState, e.Execute(c, blockFlags), "commit error")
}

// queries go to the fixture's store, writes are left to the test
func forwardQueries(db *mocks.MockDatabase, f *fixture) {
	db.EXPECT().ReadState(gomock.Any(), gomock.Any()).DoAndReturn(f.db.ReadState).AnyTimes()
	db.EXPECT().HasState(gomock.Any(), gomock.Any()).DoAndReturn(f.db.HasState).AnyTimes()
	db.EXPECT().ReadObject(gomock.Any(), gomock.Any()).DoAndReturn(f.db.ReadObject).AnyTimes()
	db.EXPECT().HasProof(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(f.db.HasProof).AnyTimes()
	db.EXPECT().ReadContract(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(f.db.ReadContract).AnyTimes()
	db.EXPECT().ReadTrust(gomock.Any()).DoAndReturn(f.db.ReadTrust).AnyTimes()
	db.EXPECT().ReadIdentifier(gomock.Any()).DoAndReturn(f.db.ReadIdentifier).AnyTimes()
}

func TestCreditProofFailureKeepsBalance(t *testing.T) {
	f := setup(t)
	defer f.teardown()

	tokenAddress, id := f.createToken(alice, "coin", 1000)
	account := f.createAccount(bob, id)
	debit := f.mustApply(&operation.Debit{From: tokenAddress, To: account, Amount: 300}, alice)
	credit := &operation.Credit{TxID: debit.TxID, Contract: debit.Index, Proof: tokenAddress, To: account, Amount: 300}

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	db := mocks.NewMockDatabase(ctl)
	forwardQueries(db, f)
	db.EXPECT().WriteProof(tokenAddress, debit.TxID, debit.Index, operation.FlagBlock).Return(fault.InvalidState).Times(1)
	db.EXPECT().WriteState(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	e := operation.New(db, nil)
	c := operation.NewContract(credit, bob, f.clock+1)
	assert.Nil(t, e.Build(c, 0), "build error")
	assert.Equal(t, fault.InvalidState, e.Execute(c, blockFlags), "proof failure")

	assert.Equal(t, uint64(0), f.value(account, object.FieldBalance), "balance credited without proof")

	f.mustApply(credit, bob)
	assert.Equal(t, uint64(300), f.value(account, object.FieldBalance), "credit after failure")
}

func TestCreditStateFailureErasesProof(t *testing.T) {
	f := setup(t)
	defer f.teardown()

	tokenAddress, id := f.createToken(alice, "coin", 1000)
	account := f.createAccount(bob, id)
	debit := f.mustApply(&operation.Debit{From: tokenAddress, To: account, Amount: 300}, alice)
	credit := &operation.Credit{TxID: debit.TxID, Contract: debit.Index, Proof: tokenAddress, To: account, Amount: 300}

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	db := mocks.NewMockDatabase(ctl)
	forwardQueries(db, f)
	gomock.InOrder(
		db.EXPECT().WriteProof(tokenAddress, debit.TxID, debit.Index, operation.FlagBlock).DoAndReturn(f.db.WriteProof).Times(1),
		db.EXPECT().WriteState(account, gomock.Any(), operation.FlagBlock).Return(fault.InvalidState).Times(1),
		db.EXPECT().EraseProof(tokenAddress, debit.TxID, debit.Index, operation.FlagBlock).DoAndReturn(f.db.EraseProof).Times(1),
	)

	e := operation.New(db, nil)
	c := operation.NewContract(credit, bob, f.clock+1)
	assert.Nil(t, e.Build(c, 0), "build error")
	assert.Equal(t, fault.InvalidState, e.Execute(c, blockFlags), "state failure")

	assert.False(t, f.db.HasProof(tokenAddress, debit.TxID, debit.Index, operation.FlagMempool), "proof kept without state")
	assert.Equal(t, uint64(0), f.value(account, object.FieldBalance), "balance")

	f.mustApply(credit, bob)
	assert.Equal(t, uint64(300), f.value(account, object.FieldBalance), "credit after failure")
}

func TestClaimStateFailureErasesProof(t *testing.T) {
	f := setup(t)
	defer f.teardown()

	r := f.createRaw(alice, "asset")
	transfer := f.mustApply(&operation.Transfer{Address: r, Recipient: bob}, alice)
	claim := &operation.Claim{TxID: transfer.TxID, Contract: transfer.Index, Address: r}

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	db := mocks.NewMockDatabase(ctl)
	forwardQueries(db, f)
	gomock.InOrder(
		db.EXPECT().WriteProof(r, transfer.TxID, transfer.Index, operation.FlagBlock).DoAndReturn(f.db.WriteProof).Times(1),
		db.EXPECT().WriteState(r, gomock.Any(), operation.FlagBlock).Return(fault.InvalidState).Times(1),
		db.EXPECT().EraseProof(r, transfer.TxID, transfer.Index, operation.FlagBlock).DoAndReturn(f.db.EraseProof).Times(1),
	)

	e := operation.New(db, nil)
	c := operation.NewContract(claim, bob, f.clock+1)
	assert.Nil(t, e.Build(c, 0), "build error")
	assert.Equal(t, fault.InvalidState, e.Execute(c, blockFlags), "state failure")

	assert.False(t, f.db.HasProof(r, transfer.TxID, transfer.Index, operation.FlagMempool), "proof kept without state")
	assert.True(t, f.read(r).Owner.IsZero(), "owner changed")

	f.mustApply(claim, bob)
	assert.Equal(t, bob, f.read(r).Owner, "claim after failure")
}
