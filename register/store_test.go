// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package register_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/registerd/address"
	"github.com/bitmark-inc/registerd/digest"
	"github.com/bitmark-inc/registerd/fault"
	"github.com/bitmark-inc/registerd/object"
	"github.com/bitmark-inc/registerd/register"
	"github.com/bitmark-inc/registerd/sector"
	"github.com/bitmark-inc/registerd/state"
	"github.com/bitmark-inc/registerd/storage"
)

const testingDirName = "testing"

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
		Directory:   dir,
		Name:        "states",
		MaxFileSize: 1 << 20,
		CacheSize:   16,
		Buckets:     64,
		BloomBits:   1 << 14,
		BloomHashes: 5,
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

func testState(t *testing.T, payload string) *state.State {
	s := state.New(state.Raw, digest.NewDigest([]byte("owner")))
	s.Created = 100
	s.Modified = 100
	s.SetState([]byte(payload))
	return s
}

func testAddress(t *testing.T, kind address.Type) address.Address {
	a, err := address.New(kind)
	if nil != err {
		t.Fatalf("address error: %s", err)
	}
	return a
}

func TestWriteReadState(t *testing.T) {
	db := openStore(t)
	defer db.Close()

	a := testAddress(t, address.Raw)
	s := testState(t, "hello")

	_, err := db.ReadState(a, 0)
	assert.Equal(t, fault.RegisterNotFound, err, "missing register")
	assert.False(t, db.HasState(a, 0), "missing register present")

	err = db.WriteState(a, s, 0)
	assert.Nil(t, err, "write error")

	r, err := db.ReadState(a, 0)
	assert.Nil(t, err, "read error")
	assert.True(t, s.Equal(r), "read back differs")
	assert.True(t, db.HasState(a, register.Mempool), "register absent through mempool")

	err = db.EraseState(a, register.Block)
	assert.Nil(t, err, "erase error")
	assert.False(t, db.HasState(a, 0), "erased register present")
}

func TestWriteRejectsInvalidState(t *testing.T) {
	db := openStore(t)
	defer db.Close()

	s := testState(t, "hello")
	s.Checksum ^= 1

	err := db.WriteState(testAddress(t, address.Raw), s, 0)
	assert.Equal(t, fault.ChecksumMismatch, err, "wrong error")
}

func TestMempoolOverlay(t *testing.T) {
	db := openStore(t)
	defer db.Close()

	a := testAddress(t, address.Raw)
	onDisk := testState(t, "disk")
	speculative := testState(t, "mempool")

	assert.Nil(t, db.WriteState(a, onDisk, register.Block), "block write error")
	assert.Nil(t, db.WriteState(a, speculative, register.Mempool), "mempool write error")

	r, err := db.ReadState(a, 0)
	assert.Nil(t, err, "disk read error")
	assert.True(t, onDisk.Equal(r), "disk read sees mempool")

	r, err = db.ReadState(a, register.Mempool)
	assert.Nil(t, err, "mempool read error")
	assert.True(t, speculative.Equal(r), "mempool read misses overlay")

	// mempool erase hides only the speculative view
	assert.Nil(t, db.EraseState(a, register.Mempool), "mempool erase error")
	_, err = db.ReadState(a, register.Mempool)
	assert.Equal(t, fault.RegisterNotFound, err, "erased in mempool")
	assert.True(t, db.HasState(a, 0), "mempool erase reached disk")

	// a block write replaces the overlay entry
	assert.Nil(t, db.WriteState(a, speculative, register.Mempool|register.Block), "block write error")
	r, err = db.ReadState(a, register.Mempool)
	assert.Nil(t, err, "read after block error")
	assert.True(t, speculative.Equal(r), "block write lost")
	r, err = db.ReadState(a, 0)
	assert.Nil(t, err, "disk read error")
	assert.True(t, speculative.Equal(r), "block write not on disk")
}

func TestProofs(t *testing.T) {
	db := openStore(t)
	defer db.Close()

	proof := testAddress(t, address.Account)
	txId := digest.NewDigest([]byte("tx"))

	assert.False(t, db.HasProof(proof, txId, 1, register.Mempool), "proof before write")

	assert.Nil(t, db.WriteProof(proof, txId, 1, register.Mempool), "mempool proof error")
	assert.True(t, db.HasProof(proof, txId, 1, register.Mempool), "mempool proof missing")
	assert.False(t, db.HasProof(proof, txId, 1, 0), "mempool proof on disk")
	assert.False(t, db.HasProof(proof, txId, 2, register.Mempool), "other contract has proof")

	assert.Nil(t, db.WriteProof(proof, txId, 1, register.Block), "block proof error")
	assert.True(t, db.HasProof(proof, txId, 1, 0), "block proof missing")

	assert.Nil(t, db.EraseProof(proof, txId, 1, 0), "erase proof error")
	assert.False(t, db.HasProof(proof, txId, 1, register.Mempool), "erased proof present")
}

func TestContracts(t *testing.T) {
	db := openStore(t)
	defer db.Close()

	txId := digest.NewDigest([]byte("tx"))

	_, err := db.ReadContract(txId, 0, register.Mempool)
	assert.Equal(t, fault.ContractNotFound, err, "missing contract")

	assert.Nil(t, db.WriteContract(txId, 0, []byte("pending"), register.Mempool), "mempool contract error")
	data, err := db.ReadContract(txId, 0, register.Mempool)
	assert.Nil(t, err, "mempool contract read error")
	assert.Equal(t, []byte("pending"), data, "mempool contract")

	_, err = db.ReadContract(txId, 0, 0)
	assert.Equal(t, fault.ContractNotFound, err, "mempool contract on disk")

	assert.Nil(t, db.WriteContract(txId, 0, []byte("final"), 0), "contract error")
	data, err = db.ReadContract(txId, 0, register.Mempool)
	assert.Nil(t, err, "contract read error")
	assert.Equal(t, []byte("final"), data, "disk contract")
}

func TestIndices(t *testing.T) {
	db := openStore(t)
	defer db.Close()

	genesis := digest.NewDigest([]byte("identity"))
	trust := address.ForTrust(genesis)

	_, err := db.ReadTrust(genesis)
	assert.Equal(t, fault.RegisterNotFound, err, "missing trust")

	assert.Nil(t, db.WriteTrust(genesis, trust), "write trust error")
	a, err := db.ReadTrust(genesis)
	assert.Nil(t, err, "read trust error")
	assert.Equal(t, trust, a, "trust address")

	token := digest.NewDigest([]byte("token"))
	holder := testAddress(t, address.Token)
	assert.Nil(t, db.WriteIdentifier(token, holder), "write identifier error")
	a, err = db.ReadIdentifier(token)
	assert.Nil(t, err, "read identifier error")
	assert.Equal(t, holder, a, "identifier address")
}

func TestReadObject(t *testing.T) {
	db := openStore(t)
	defer db.Close()

	o, err := object.CreateAccount(digest.Zero)
	assert.Nil(t, err, "create error")
	o.State.Owner = digest.NewDigest([]byte("owner"))
	o.Sync(200)

	a := testAddress(t, address.Account)
	assert.Nil(t, db.WriteState(a, o.State, 0), "write error")

	r, err := db.ReadObject(a, 0)
	assert.Nil(t, err, "read object error")
	assert.Equal(t, object.AccountStandard, r.Standard(), "standard")

	raw := testAddress(t, address.Raw)
	assert.Nil(t, db.WriteState(raw, testState(t, "raw"), 0), "write raw error")
	_, err = db.ReadObject(raw, 0)
	assert.Equal(t, fault.InvalidRegisterType, err, "raw read as object")
}

func TestFlagsString(t *testing.T) {
	assert.Equal(t, "NONE", register.Flags(0).String(), "no flags")
	assert.Equal(t, "PRESTATE|WRITE|BLOCK", (register.PreState | register.Write | register.Block).String(), "flags")
	assert.True(t, register.Block.Durable(), "block durable")
	assert.False(t, register.Mempool.Durable(), "mempool durable")
	assert.True(t, (register.Mempool | register.Block).Durable(), "mempool+block durable")
}
