// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package register

import (
	"encoding/binary"
	"sync"
	"time"

	"github.com/bitmark-inc/logger"
	cache "github.com/patrickmn/go-cache"

	"github.com/bitmark-inc/registerd/address"
	"github.com/bitmark-inc/registerd/digest"
	"github.com/bitmark-inc/registerd/fault"
	"github.com/bitmark-inc/registerd/object"
	"github.com/bitmark-inc/registerd/sector"
	"github.com/bitmark-inc/registerd/state"
	"github.com/bitmark-inc/registerd/storage"
)

// mempool overlay lifetimes
const (
	DefaultMempoolExpiry = 2 * time.Hour
	mempoolCleanup       = 10 * time.Minute
)

// overlay key prefixes
const (
	stateTag    = 's'
	proofTag    = 'p'
	contractTag = 'c'
)

// overlay entry, nil data marks an erased key
type pending struct {
	data []byte
}

// Store - register database over a sector table and the index pools
type Store struct {
	sync.RWMutex

	states  *sector.Database
	pools   *storage.Pools
	mempool *cache.Cache
	log     *logger.L
}

// New - combine an open sector table with open index pools
//
// the store takes ownership of both
func New(states *sector.Database, pools *storage.Pools, expiry time.Duration) *Store {
	if expiry <= 0 {
		expiry = DefaultMempoolExpiry
	}
	return &Store{
		states:  states,
		pools:   pools,
		mempool: cache.New(expiry, mempoolCleanup),
		log:     logger.New("register"),
	}
}

func overlayKey(tag byte, parts ...[]byte) string {
	n := 1
	for _, p := range parts {
		n += len(p)
	}
	key := make([]byte, 1, n)
	key[0] = tag
	for _, p := range parts {
		key = append(key, p...)
	}
	return string(key)
}

// look in the overlay: data, erased flag, found flag
func (s *Store) overlay(key string) ([]byte, bool, bool) {
	obj, found := s.mempool.Get(key)
	if !found {
		return nil, false, false
	}
	p := obj.(pending)
	if nil == p.data {
		return nil, true, true
	}
	return p.data, false, true
}

func (s *Store) speculative(key string, data []byte) {
	s.mempool.Set(key, pending{data: data}, cache.DefaultExpiration)
}

// ReadState - current state of a register
func (s *Store) ReadState(a address.Address, flags Flags) (*state.State, error) {
	s.RLock()
	defer s.RUnlock()

	var buffer []byte
	if 0 != flags&Mempool {
		data, erased, found := s.overlay(overlayKey(stateTag, a[:]))
		if erased {
			return nil, fault.RegisterNotFound
		}
		if found {
			buffer = data
		}
	}

	if nil == buffer {
		data, err := s.states.Read(a[:])
		if fault.KeyNotFound == err {
			return nil, fault.RegisterNotFound
		} else if nil != err {
			return nil, err
		}
		buffer = data
	}

	st, err := state.Deserialize(buffer)
	if nil != err {
		s.log.Criticalf("register: %s  corrupt state: %s", a, err)
		return nil, err
	}
	return st, nil
}

// WriteState - store a state record
func (s *Store) WriteState(a address.Address, st *state.State, flags Flags) error {
	if nil == st {
		return fault.InvalidState
	}
	if err := st.IsValid(); nil != err {
		return err
	}

	s.Lock()
	defer s.Unlock()

	key := overlayKey(stateTag, a[:])
	if !flags.Durable() {
		s.speculative(key, st.Serialize())
		s.log.Debugf("mempool write: %s  checksum: %016x", a, st.Checksum)
		return nil
	}

	if err := s.states.Write(a[:], st.Serialize()); nil != err {
		return err
	}
	s.mempool.Delete(key)
	s.log.Debugf("write: %s  checksum: %016x", a, st.Checksum)
	return nil
}

// HasState - register exists and is not erased
func (s *Store) HasState(a address.Address, flags Flags) bool {
	s.RLock()
	defer s.RUnlock()

	if 0 != flags&Mempool {
		_, erased, found := s.overlay(overlayKey(stateTag, a[:]))
		if found {
			return !erased
		}
	}
	return s.states.Has(a[:])
}

// EraseState - hide a register; BLOCK erases on disk
func (s *Store) EraseState(a address.Address, flags Flags) error {
	s.Lock()
	defer s.Unlock()

	key := overlayKey(stateTag, a[:])
	if !flags.Durable() {
		s.speculative(key, nil)
		return nil
	}

	s.mempool.Delete(key)
	err := s.states.Erase(a[:])
	if fault.KeyNotFound == err {
		return fault.RegisterNotFound
	}
	return err
}

// ReadObject - current state parsed as an object register
func (s *Store) ReadObject(a address.Address, flags Flags) (*object.Object, error) {
	st, err := s.ReadState(a, flags)
	if nil != err {
		return nil, err
	}
	return object.FromState(st)
}

func contractKey(txId digest.Digest, contract uint32) []byte {
	key := make([]byte, digest.Length+4)
	copy(key, txId[:])
	binary.BigEndian.PutUint32(key[digest.Length:], contract)
	return key
}

func proofKey(proof address.Address, txId digest.Digest, contract uint32) []byte {
	return append(append([]byte{}, proof[:]...), contractKey(txId, contract)...)
}

// run one write against the index pools
func (s *Store) update(f func(storage.Transaction)) error {
	tx, err := s.pools.Begin()
	if nil != err {
		return err
	}
	f(tx)
	return tx.Commit()
}

// WriteProof - record that a claim or credit was applied
func (s *Store) WriteProof(proof address.Address, txId digest.Digest, contract uint32, flags Flags) error {
	s.Lock()
	defer s.Unlock()

	key := proofKey(proof, txId, contract)
	if !flags.Durable() {
		s.speculative(overlayKey(proofTag, key), []byte{})
		return nil
	}

	s.mempool.Delete(overlayKey(proofTag, key))
	return s.update(func(tx storage.Transaction) {
		tx.Put(s.pools.Proofs, key, []byte{})
	})
}

// HasProof - claim or credit already applied
func (s *Store) HasProof(proof address.Address, txId digest.Digest, contract uint32, flags Flags) bool {
	s.RLock()
	defer s.RUnlock()

	key := proofKey(proof, txId, contract)
	if 0 != flags&Mempool {
		_, erased, found := s.overlay(overlayKey(proofTag, key))
		if found {
			return !erased
		}
	}
	return s.pools.Proofs.Has(key)
}

// EraseProof - forget a proof, used when rolling back
func (s *Store) EraseProof(proof address.Address, txId digest.Digest, contract uint32, flags Flags) error {
	s.Lock()
	defer s.Unlock()

	key := proofKey(proof, txId, contract)
	if !flags.Durable() {
		s.speculative(overlayKey(proofTag, key), nil)
		return nil
	}

	s.mempool.Delete(overlayKey(proofTag, key))
	return s.update(func(tx storage.Transaction) {
		tx.Delete(s.pools.Proofs, key)
	})
}

// WriteContract - keep a committed contract for its counterpart
func (s *Store) WriteContract(txId digest.Digest, contract uint32, data []byte, flags Flags) error {
	s.Lock()
	defer s.Unlock()

	key := contractKey(txId, contract)
	if !flags.Durable() {
		s.speculative(overlayKey(contractTag, key), append([]byte{}, data...))
		return nil
	}

	s.mempool.Delete(overlayKey(contractTag, key))
	return s.update(func(tx storage.Transaction) {
		tx.Put(s.pools.Contracts, key, data)
	})
}

// ReadContract - a previously committed contract
func (s *Store) ReadContract(txId digest.Digest, contract uint32, flags Flags) ([]byte, error) {
	s.RLock()
	defer s.RUnlock()

	key := contractKey(txId, contract)
	if 0 != flags&Mempool {
		data, erased, found := s.overlay(overlayKey(contractTag, key))
		if erased {
			return nil, fault.ContractNotFound
		}
		if found {
			return data, nil
		}
	}

	data := s.pools.Contracts.Get(key)
	if nil == data {
		return nil, fault.ContractNotFound
	}
	return data, nil
}

// WriteTrust - index the trust register of an identity
func (s *Store) WriteTrust(genesis digest.Digest, a address.Address) error {
	return s.update(func(tx storage.Transaction) {
		tx.Put(s.pools.Trust, genesis[:], a[:])
	})
}

// ReadTrust - trust register of an identity
func (s *Store) ReadTrust(genesis digest.Digest) (address.Address, error) {
	return readAddress(s.pools.Trust, genesis[:])
}

// WriteIdentifier - index the register holding a token's supply
func (s *Store) WriteIdentifier(id digest.Digest, a address.Address) error {
	return s.update(func(tx storage.Transaction) {
		tx.Put(s.pools.Identifiers, id[:], a[:])
	})
}

// ReadIdentifier - register holding a token's supply
func (s *Store) ReadIdentifier(id digest.Digest) (address.Address, error) {
	return readAddress(s.pools.Identifiers, id[:])
}

func readAddress(pool *storage.PoolHandle, key []byte) (address.Address, error) {
	var a address.Address
	data := pool.Get(key)
	if nil == data {
		return a, fault.RegisterNotFound
	}
	if err := address.FromBytes(&a, data); nil != err {
		return a, err
	}
	return a, nil
}

// Flush - sync the sector table and its bloom snapshot
func (s *Store) Flush() error {
	s.Lock()
	defer s.Unlock()

	return s.states.Flush()
}

// ClearMempool - forget every speculative write
func (s *Store) ClearMempool() {
	s.mempool.Flush()
}

// Close - close the sector table and the index pools
func (s *Store) Close() error {
	s.Lock()
	defer s.Unlock()

	s.mempool.Flush()
	err := s.states.Close()
	s.pools.Close()
	s.log.Info("closed")
	s.log.Flush()
	return err
}
