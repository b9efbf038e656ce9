// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package sector

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/registerd/bloom"
	"github.com/bitmark-inc/registerd/fault"
	"github.com/bitmark-inc/registerd/keychain"
	"github.com/bitmark-inc/registerd/lru"
	"github.com/bitmark-inc/registerd/stream"
)

// defaults
const (
	DefaultMaxFileSize = 512 * 1024 * 1024
	DefaultCacheSize   = 1024
)

const (
	dataFormat = "_sector.%05d"
	bloomName  = "_bloom"
	keysName   = "_keys"
)

// Config - one logical table
type Config struct {
	Directory   string
	Name        string
	MaxFileSize uint32
	CacheSize   int
	Buckets     uint32
	MaxKeySize  uint16
	BloomBits   uint64
	BloomHashes uint8
	AppendMode  bool
	FileMap     bool
}

// Stats - counters since open
type Stats struct {
	Reads        uint64
	CacheHits    uint64
	BloomRejects uint64
	Writes       uint64
	Erases       uint64
	BytesRead    uint64
	BytesWritten uint64
}

// Database - sector files addressed through a keychain
//
// every record is: compact-size key | compact-size value
type Database struct {
	sync.Mutex

	config Config
	path   string
	log    *logger.L

	keys   keychain.Keychain
	cache  *lru.Cache
	filter *bloom.Filter

	// the bloom snapshot on disk matches filter; cleared by the first
	// write after a flush, which also deletes the snapshot
	snapshot bool

	files   map[uint16]*os.File
	current uint16
	size    int64

	stats Stats
}

// Open - open or create the table directory
func Open(config Config) (*Database, error) {
	if "" == config.Name {
		return nil, fault.InvalidName
	}
	if 0 == config.MaxFileSize {
		config.MaxFileSize = DefaultMaxFileSize
	}
	if 0 == config.CacheSize {
		config.CacheSize = DefaultCacheSize
	}

	path := filepath.Join(config.Directory, config.Name)
	if err := os.MkdirAll(path, 0o700); nil != err {
		return nil, fault.NewIOError("mkdir", err)
	}

	db := &Database{
		config: config,
		path:   path,
		log:    logger.New("sector"),
		cache:  lru.New(config.CacheSize),
		files:  make(map[uint16]*os.File),
	}

	kc := keychain.Config{
		Directory:   path,
		Name:        keysName,
		Buckets:     config.Buckets,
		MaxKeySize:  config.MaxKeySize,
		MaxFileSize: config.MaxFileSize,
		AppendMode:  config.AppendMode,
	}
	if config.FileMap {
		db.keys = keychain.NewFileMap(kc)
	} else {
		db.keys = keychain.NewHashMap(kc)
	}
	if err := db.keys.Initialize(); nil != err {
		return nil, err
	}

	if err := db.openData(); nil != err {
		db.keys.Close()
		return nil, err
	}

	if err := db.openBloom(); nil != err {
		db.closeFiles()
		db.keys.Close()
		return nil, err
	}

	db.log.Infof("opened: %s  data files: %d  size: %d", path, db.current+1, db.size)
	return db, nil
}

func (db *Database) dataName(n uint16) string {
	return filepath.Join(db.path, fmt.Sprintf(dataFormat, n))
}

// open every existing data file and continue writing the last one
func (db *Database) openData() error {
	n := uint16(0)
	for {
		if _, err := os.Stat(db.dataName(n + 1)); nil != err {
			break
		}
		n += 1
	}
	f, err := db.dataFile(n, true)
	if nil != err {
		return err
	}
	info, err := f.Stat()
	if nil != err {
		return fault.NewIOError("stat data", err)
	}
	db.current = n
	db.size = info.Size()
	return nil
}

func (db *Database) dataFile(n uint16, create bool) (*os.File, error) {
	if f, ok := db.files[n]; ok {
		return f, nil
	}
	flags := os.O_RDWR
	if create {
		flags |= os.O_CREATE
	}
	f, err := os.OpenFile(db.dataName(n), flags, 0o600)
	if nil != err {
		return nil, fault.NewIOError("open data", err)
	}
	db.files[n] = f
	return f, nil
}

// a snapshot only exists while no write has happened since the last
// Flush, so a crash at any point leaves either a complete snapshot or
// none and the filter is rebuilt from the data files
func (db *Database) openBloom() error {
	name := filepath.Join(db.path, bloomName)
	filter, err := bloom.Load(name)
	if nil == err {
		db.filter = filter
		db.snapshot = true
		db.log.Infof("bloom snapshot loaded: %d keys", filter.Count())
		return nil
	}
	if !os.IsNotExist(err) {
		db.log.Warnf("bloom snapshot: %s  error: %s", name, err)
	}

	filter, err = bloom.New(db.config.BloomBits, db.config.BloomHashes)
	if nil != err {
		return err
	}
	db.filter = filter

	if 0 == db.current && 0 == db.size {
		return nil
	}
	db.log.Warn("bloom snapshot missing: rebuilding from data files")
	return db.rebuildBloom()
}

func (db *Database) rebuildBloom() error {
	for n := uint16(0); n <= db.current; n += 1 {
		f, err := db.dataFile(n, false)
		if nil != err {
			return err
		}
		info, err := f.Stat()
		if nil != err {
			return fault.NewIOError("stat data", err)
		}
		buffer := make([]byte, info.Size())
		if _, err := f.ReadAt(buffer, 0); nil != err {
			return fault.NewIOError("read data", err)
		}

		r := stream.New(buffer)
		for !r.End() {
			key, err := r.ReadBytes()
			if nil != err {
				break
			}
			if _, err := r.ReadBytes(); nil != err {
				break
			}
			db.filter.Insert(key)
		}
	}
	db.log.Infof("bloom rebuilt: %d keys", db.filter.Count())
	return nil
}

func pack(key []byte, value []byte) []byte {
	w := stream.NewEmpty()
	w.WriteBytes(key)
	w.WriteBytes(value)
	return w.Bytes()
}

// Write - append a record and point the key at it
func (db *Database) Write(key []byte, value []byte) error {
	if 0 == len(key) {
		return fault.InvalidKeyLength
	}
	record := pack(key, value)
	if len(record) > int(db.config.MaxFileSize) {
		return fault.PayloadTooLarge
	}

	db.Lock()
	defer db.Unlock()

	if nil == db.keys {
		return fault.NotInitialised
	}

	if db.size > 0 && db.size+int64(len(record)) > int64(db.config.MaxFileSize) {
		if err := db.roll(); nil != err {
			return err
		}
	}

	if err := db.dropSnapshot(); nil != err {
		return err
	}

	f, err := db.dataFile(db.current, true)
	if nil != err {
		return err
	}

	// pinned so a concurrent reader cannot see a half written key
	db.cache.Put(key, value, true)
	defer db.cache.Reserve(key, false)

	start := db.size
	if n, err := f.WriteAt(record, start); nil != err {
		db.cache.Remove(key)
		if n > 0 {
			fault.Panicf("sector: %s  short write: %d of %d  error: %s", db.path, n, len(record), err)
		}
		return fault.NewIOError("write data", err)
	}
	db.size += int64(len(record))

	sk := keychain.SectorKey{
		State: keychain.Ready,
		File:  db.current,
		Size:  uint32(len(record)),
		Start: uint32(start),
		Key:   key,
	}
	if err := db.keys.Put(sk); nil != err {
		db.cache.Remove(key)
		return err
	}
	db.filter.Insert(key)

	atomic.AddUint64(&db.stats.Writes, 1)
	atomic.AddUint64(&db.stats.BytesWritten, uint64(len(record)))
	db.log.Debugf("write file: %d  start: %d  size: %d", sk.File, sk.Start, sk.Size)
	return nil
}

// must run before anything is appended to the data files
func (db *Database) dropSnapshot() error {
	if !db.snapshot {
		return nil
	}
	err := os.Remove(filepath.Join(db.path, bloomName))
	if nil != err && !os.IsNotExist(err) {
		return fault.NewIOError("remove snapshot", err)
	}
	db.snapshot = false
	return nil
}

func (db *Database) roll() error {
	if f, ok := db.files[db.current]; ok {
		if err := f.Sync(); nil != err {
			return fault.NewIOError("sync data", err)
		}
	}
	if 0xffff == db.current {
		return fault.InvalidCount
	}
	db.current += 1
	db.size = 0
	db.log.Infof("roll to data file: %d", db.current)
	return nil
}

// Read - value of a key
func (db *Database) Read(key []byte) ([]byte, error) {
	atomic.AddUint64(&db.stats.Reads, 1)

	if value, ok := db.cache.Get(key); ok {
		atomic.AddUint64(&db.stats.CacheHits, 1)
		return value, nil
	}

	db.Lock()
	defer db.Unlock()

	if nil == db.keys {
		return nil, fault.NotInitialised
	}

	if !db.filter.Has(key) {
		atomic.AddUint64(&db.stats.BloomRejects, 1)
		return nil, fault.KeyNotFound
	}

	sk, err := db.keys.Get(key)
	if nil != err {
		return nil, err
	}

	f, err := db.dataFile(sk.File, false)
	if nil != err {
		return nil, err
	}
	buffer := make([]byte, sk.Size)
	if _, err := f.ReadAt(buffer, int64(sk.Start)); nil != err {
		return nil, fault.NewIOError("read data", err)
	}

	r := stream.New(buffer)
	stored, err := r.ReadBytes()
	if nil != err {
		return nil, err
	}
	if !bytes.Equal(stored, key) {
		// folded keychain entry belongs to a different key
		return nil, fault.SectorKeyMismatch
	}
	value, err := r.ReadBytes()
	if nil != err {
		return nil, err
	}

	db.cache.Put(key, value, false)
	atomic.AddUint64(&db.stats.BytesRead, uint64(sk.Size))
	return value, nil
}

// Has - key present and not erased
func (db *Database) Has(key []byte) bool {
	db.Lock()
	defer db.Unlock()

	if nil == db.keys {
		return false
	}
	if !db.filter.Has(key) {
		return false
	}
	return db.keys.HasKey(key)
}

// Erase - hide a key; its record stays on disk
func (db *Database) Erase(key []byte) error {
	db.Lock()
	defer db.Unlock()

	if nil == db.keys {
		return fault.NotInitialised
	}
	if err := db.keys.Erase(key); nil != err {
		return err
	}
	db.cache.Remove(key)
	atomic.AddUint64(&db.stats.Erases, 1)
	return nil
}

// Restore - make an erased key visible again
func (db *Database) Restore(key []byte) error {
	db.Lock()
	defer db.Unlock()

	if nil == db.keys {
		return fault.NotInitialised
	}
	return db.keys.Restore(key)
}

// Flush - sync data, keys and the bloom snapshot
func (db *Database) Flush() error {
	db.Lock()
	defer db.Unlock()

	return db.flush()
}

func (db *Database) flush() error {
	if nil == db.keys {
		return nil
	}
	for _, f := range db.files {
		if err := f.Sync(); nil != err {
			return fault.NewIOError("sync data", err)
		}
	}
	if err := db.keys.Flush(); nil != err {
		return err
	}
	if db.snapshot {
		return nil
	}
	if err := db.filter.Save(filepath.Join(db.path, bloomName)); nil != err {
		return err
	}
	db.snapshot = true
	return nil
}

// Resize - change the record cache capacity
func (db *Database) Resize(entries int) {
	db.cache.Resize(entries)
	db.log.Infof("cache resized to: %d", entries)
}

// Stats - snapshot of the counters
func (db *Database) Stats() Stats {
	return Stats{
		Reads:        atomic.LoadUint64(&db.stats.Reads),
		CacheHits:    atomic.LoadUint64(&db.stats.CacheHits),
		BloomRejects: atomic.LoadUint64(&db.stats.BloomRejects),
		Writes:       atomic.LoadUint64(&db.stats.Writes),
		Erases:       atomic.LoadUint64(&db.stats.Erases),
		BytesRead:    atomic.LoadUint64(&db.stats.BytesRead),
		BytesWritten: atomic.LoadUint64(&db.stats.BytesWritten),
	}
}

func (db *Database) closeFiles() {
	for n, f := range db.files {
		f.Close()
		delete(db.files, n)
	}
}

// Close - flush then release every file
func (db *Database) Close() error {
	db.Lock()
	defer db.Unlock()

	if nil == db.keys {
		return nil
	}
	err := db.flush()
	db.closeFiles()
	if kerr := db.keys.Close(); nil == err {
		err = kerr
	}
	db.keys = nil
	db.log.Infof("closed: %s", db.path)
	db.log.Flush()
	return err
}
