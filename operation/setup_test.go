// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package operation_test

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/registerd/address"
	"github.com/bitmark-inc/registerd/digest"
	"github.com/bitmark-inc/registerd/object"
	"github.com/bitmark-inc/registerd/operation"
	"github.com/bitmark-inc/registerd/register"
	"github.com/bitmark-inc/registerd/sector"
	"github.com/bitmark-inc/registerd/state"
	"github.com/bitmark-inc/registerd/storage"
)

const testingDirName = "testing"

// flags used when a contract is accepted into a block
const blockFlags = operation.FlagPreState | operation.FlagPostState | operation.FlagWrite | operation.FlagBlock

var (
	alice = digest.NewDigest([]byte("alice"))
	bob   = digest.NewDigest([]byte("bob"))
	carol = digest.NewDigest([]byte("carol"))
)

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

type fixture struct {
	t        *testing.T
	dir      string
	db       *register.Store
	executor *operation.Executor
	clock    uint64
	sequence uint32
}

func setup(t *testing.T) *fixture {
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
	db := register.New(states, pools, time.Minute)
	return &fixture{
		t:        t,
		dir:      dir,
		db:       db,
		executor: operation.New(db, nil),
		clock:    1000,
	}
}

func (f *fixture) teardown() {
	_ = f.db.Close()
}

// build a contract against the current database
func (f *fixture) contract(op operation.Operation, caller digest.Digest, buildFlags operation.Flags) (*operation.Contract, error) {
	f.clock += 1
	f.sequence += 1

	c := operation.NewContract(op, caller, f.clock)
	seq := make([]byte, 4)
	binary.BigEndian.PutUint32(seq, f.sequence)
	c.TxID = digest.NewDigestOf([]byte(f.t.Name()), seq)

	if err := f.executor.Build(c, buildFlags); nil != err {
		return nil, err
	}
	return c, nil
}

// build then execute with flags
func (f *fixture) apply(op operation.Operation, caller digest.Digest, flags operation.Flags) (*operation.Contract, error) {
	c, err := f.contract(op, caller, flags)
	if nil != err {
		return nil, err
	}
	return c, f.executor.Execute(c, flags)
}

func (f *fixture) mustApply(op operation.Operation, caller digest.Digest) *operation.Contract {
	c, err := f.apply(op, caller, blockFlags)
	if nil != err {
		f.t.Fatalf("%s by %s failed: %s", op.Opcode(), caller, err)
	}
	return c
}

func (f *fixture) newAddress(kind address.Type) address.Address {
	a, err := address.New(kind)
	if nil != err {
		f.t.Fatalf("address error: %s", err)
	}
	return a
}

func (f *fixture) createRaw(owner digest.Digest, data string) address.Address {
	a := f.newAddress(address.Raw)
	f.mustApply(&operation.Create{Address: a, Type: state.Raw, Data: []byte(data)}, owner)
	return a
}

func (f *fixture) createObject(owner digest.Digest, kind address.Type, o *object.Object) address.Address {
	a := f.newAddress(kind)
	f.mustApply(&operation.Create{Address: a, Type: state.Object, Data: o.Serialize()}, owner)
	return a
}

// token register holding the whole supply
func (f *fixture) createToken(owner digest.Digest, name string, supply uint64) (address.Address, digest.Digest) {
	id := operation.TokenIdentifier(name, owner)
	o, err := object.CreateToken(id, supply, 2)
	if nil != err {
		f.t.Fatalf("token error: %s", err)
	}
	return f.createObject(owner, address.Token, o), id
}

func (f *fixture) createAccount(owner digest.Digest, token digest.Digest) address.Address {
	o, err := object.CreateAccount(token)
	if nil != err {
		f.t.Fatalf("account error: %s", err)
	}
	return f.createObject(owner, address.Account, o)
}

// trust account written directly with the given values
func (f *fixture) seedTrust(owner digest.Digest, balance uint64, stake uint64, trust uint64) address.Address {
	o, err := object.CreateTrust()
	if nil != err {
		f.t.Fatalf("trust error: %s", err)
	}
	o.State.Owner = owner
	o.State.Created = f.clock
	_ = o.Set(object.FieldBalance, object.U64(balance), f.clock)
	_ = o.Set(object.FieldStake, object.U64(stake), f.clock)
	_ = o.Set(object.FieldTrust, object.U64(trust), f.clock)

	a := address.ForTrust(owner)
	if err := f.db.WriteState(a, o.State, 0); nil != err {
		f.t.Fatalf("write trust error: %s", err)
	}
	return a
}

func (f *fixture) read(a address.Address) *state.State {
	s, err := f.db.ReadState(a, operation.FlagMempool)
	if nil != err {
		f.t.Fatalf("read %s error: %s", a, err)
	}
	return s
}

func (f *fixture) value(a address.Address, field string) uint64 {
	o, err := f.db.ReadObject(a, operation.FlagMempool)
	if nil != err {
		f.t.Fatalf("read object %s error: %s", a, err)
	}
	n, err := o.Uint64(field)
	if nil != err {
		f.t.Fatalf("read field %s error: %s", field, err)
	}
	return n
}
