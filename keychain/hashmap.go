// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package keychain

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/registerd/fault"
)

// index file header: bucket count, max key size
const indexHeaderSize = 8

// HashMap - bucket table spread over layered fixed-slot files
//
// layer n of every bucket lives in file <name>.<n>; the index file
// records how many layers each bucket currently uses
type HashMap struct {
	sync.Mutex

	config Config
	log    *logger.L
	slot   int64

	layers []uint32
	index  *os.File
	files  map[uint32]*os.File
}

// NewHashMap - create an unopened hash map keychain
func NewHashMap(config Config) *HashMap {
	config.normalise()
	return &HashMap{
		config: config,
		slot:   int64(HeaderSize) + int64(config.MaxKeySize),
		files:  make(map[uint32]*os.File),
	}
}

// Initialize - open or create the index
func (m *HashMap) Initialize() error {
	m.Lock()
	defer m.Unlock()

	if nil != m.index {
		return fault.AlreadyInitialised
	}
	m.log = logger.New("keychain")

	if err := os.MkdirAll(m.config.Directory, 0o700); nil != err {
		return fault.NewIOError("mkdir", err)
	}

	name := filepath.Join(m.config.Directory, m.config.Name+".index")
	f, err := os.OpenFile(name, os.O_RDWR|os.O_CREATE, 0o600)
	if nil != err {
		return fault.NewIOError("open index", err)
	}

	info, err := f.Stat()
	if nil != err {
		f.Close()
		return fault.NewIOError("stat index", err)
	}

	buckets := int64(m.config.Buckets)
	expected := indexHeaderSize + 4*buckets
	m.layers = make([]uint32, buckets)

	if 0 == info.Size() {
		header := make([]byte, indexHeaderSize)
		binary.LittleEndian.PutUint32(header[0:], m.config.Buckets)
		binary.LittleEndian.PutUint32(header[4:], uint32(m.config.MaxKeySize))
		if _, err := f.WriteAt(header, 0); nil != err {
			f.Close()
			return fault.NewIOError("write index", err)
		}
		if err := f.Truncate(expected); nil != err {
			f.Close()
			return fault.NewIOError("size index", err)
		}
		m.log.Infof("created index: %s  buckets: %d", name, buckets)
		m.index = f
		return nil
	}

	buffer := make([]byte, info.Size())
	if _, err := io.ReadFull(f, buffer); nil != err {
		f.Close()
		return fault.NewIOError("read index", err)
	}
	if len(buffer) < indexHeaderSize {
		f.Close()
		fault.Panicf("keychain: index: %s truncated to %d bytes", name, len(buffer))
	}
	if binary.LittleEndian.Uint32(buffer[0:]) != m.config.Buckets ||
		binary.LittleEndian.Uint32(buffer[4:]) != uint32(m.config.MaxKeySize) {
		f.Close()
		return fault.BucketCountMismatch
	}
	if int64(len(buffer)) != expected {
		f.Close()
		fault.Panicf("keychain: index: %s size: %d expected: %d", name, len(buffer), expected)
	}

	total := uint64(0)
	for i := range m.layers {
		n := binary.LittleEndian.Uint32(buffer[indexHeaderSize+4*i:])
		m.layers[i] = n
		total += uint64(n)
	}
	m.log.Infof("opened index: %s  buckets: %d  slots in use: %d", name, buckets, total)
	m.index = f
	return nil
}

// GetBucket - bucket of a full key
func (m *HashMap) GetBucket(key []byte) uint32 {
	return bucket(key, m.config.Buckets)
}

func (m *HashMap) layerFile(layer uint32, create bool) (*os.File, error) {
	if f, ok := m.files[layer]; ok {
		return f, nil
	}

	name := filepath.Join(m.config.Directory, fmt.Sprintf("%s.%05d", m.config.Name, layer))
	flags := os.O_RDWR
	if create {
		flags |= os.O_CREATE
	}
	f, err := os.OpenFile(name, flags, 0o600)
	if nil != err {
		return nil, fault.NewIOError("open layer", err)
	}

	size := int64(m.config.Buckets) * m.slot
	info, err := f.Stat()
	if nil != err {
		f.Close()
		return nil, fault.NewIOError("stat layer", err)
	}
	if info.Size() < size {
		if err := f.Truncate(size); nil != err {
			f.Close()
			return nil, fault.NewIOError("size layer", err)
		}
		m.log.Infof("new layer: %s", name)
	}
	m.files[layer] = f
	return f, nil
}

func (m *HashMap) readSlot(layer uint32, b uint32) (SectorKey, error) {
	f, err := m.layerFile(layer, false)
	if nil != err {
		return SectorKey{}, err
	}
	buffer := make([]byte, m.slot)
	if _, err := f.ReadAt(buffer, int64(b)*m.slot); nil != err {
		return SectorKey{}, fault.NewIOError("read slot", err)
	}
	k, _, err := unpack(buffer)
	return k, err
}

func (m *HashMap) writeSlot(layer uint32, b uint32, k SectorKey) error {
	f, err := m.layerFile(layer, true)
	if nil != err {
		return err
	}
	if _, err := f.WriteAt(k.pack(int(m.config.MaxKeySize)), int64(b)*m.slot); nil != err {
		return fault.NewIOError("write slot", err)
	}
	return nil
}

func (m *HashMap) setLayers(b uint32, n uint32) error {
	var buffer [4]byte
	binary.LittleEndian.PutUint32(buffer[:], n)
	if _, err := m.index.WriteAt(buffer[:], indexHeaderSize+4*int64(b)); nil != err {
		return fault.NewIOError("write index", err)
	}
	m.layers[b] = n
	return nil
}

// find a slot holding key, newest layer first
func (m *HashMap) find(key []byte, b uint32, wantEmpty bool) (uint32, SectorKey, error) {
	for i := m.layers[b]; i > 0; i -= 1 {
		k, err := m.readSlot(i-1, b)
		if nil != err {
			return 0, SectorKey{}, err
		}
		if 0 == k.Length || k.IsEmpty() != wantEmpty {
			continue
		}
		if bytes.Equal(k.Key, key) {
			return i - 1, k, nil
		}
	}
	return 0, SectorKey{}, fault.KeyNotFound
}

// Put - store or replace the location of a key
func (m *HashMap) Put(k SectorKey) error {
	if 0 == len(k.Key) {
		return fault.InvalidKeyLength
	}

	m.Lock()
	defer m.Unlock()

	if nil == m.index {
		return fault.NotInitialised
	}

	b := bucket(k.Key, m.config.Buckets)
	k.Key = Fold(k.Key, int(m.config.MaxKeySize))

	free := -1
	for i := m.layers[b]; i > 0; i -= 1 {
		slot, err := m.readSlot(i-1, b)
		if nil != err {
			return err
		}
		if 0 != slot.Length && bytes.Equal(slot.Key, k.Key) {
			m.log.Debugf("replace bucket: %d  layer: %d", b, i-1)
			return m.writeSlot(i-1, b, k)
		}
		if slot.IsEmpty() {
			free = int(i - 1)
		}
	}

	if free >= 0 && !m.config.AppendMode {
		m.log.Debugf("reuse bucket: %d  layer: %d", b, free)
		return m.writeSlot(uint32(free), b, k)
	}

	layer := m.layers[b]
	if layer > 0xffff {
		return fault.InvalidCount
	}
	if err := m.writeSlot(layer, b, k); nil != err {
		return err
	}
	m.log.Debugf("insert bucket: %d  layer: %d", b, layer)
	return m.setLayers(b, layer+1)
}

// Get - location of a key
func (m *HashMap) Get(key []byte) (SectorKey, error) {
	m.Lock()
	defer m.Unlock()

	if nil == m.index {
		return SectorKey{}, fault.NotInitialised
	}
	b := bucket(key, m.config.Buckets)
	_, k, err := m.find(Fold(key, int(m.config.MaxKeySize)), b, false)
	return k, err
}

// HasKey - key present and not erased
func (m *HashMap) HasKey(key []byte) bool {
	_, err := m.Get(key)
	return nil == err
}

func (m *HashMap) flip(key []byte, erased bool, state uint8) error {
	m.Lock()
	defer m.Unlock()

	if nil == m.index {
		return fault.NotInitialised
	}
	b := bucket(key, m.config.Buckets)
	layer, k, err := m.find(Fold(key, int(m.config.MaxKeySize)), b, erased)
	if nil != err {
		return err
	}
	k.State = state
	return m.writeSlot(layer, b, k)
}

// Erase - mark a key empty, its bytes stay for Restore
func (m *HashMap) Erase(key []byte) error {
	return m.flip(key, false, Empty)
}

// Restore - undo an Erase
func (m *HashMap) Restore(key []byte) error {
	return m.flip(key, true, Ready)
}

// Flush - sync every open file
func (m *HashMap) Flush() error {
	m.Lock()
	defer m.Unlock()

	return m.flush()
}

func (m *HashMap) flush() error {
	if nil == m.index {
		return nil
	}
	if err := m.index.Sync(); nil != err {
		return fault.NewIOError("sync index", err)
	}
	for _, f := range m.files {
		if err := f.Sync(); nil != err {
			return fault.NewIOError("sync layer", err)
		}
	}
	return nil
}

// Close - flush and release files
func (m *HashMap) Close() error {
	m.Lock()
	defer m.Unlock()

	if nil == m.index {
		return nil
	}
	err := m.flush()
	for layer, f := range m.files {
		f.Close()
		delete(m.files, layer)
	}
	m.index.Close()
	m.index = nil
	if nil != m.log {
		m.log.Info("closed")
		m.log.Flush()
	}
	return err
}
