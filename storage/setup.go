// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"encoding/binary"
	"fmt"
	"reflect"
	"sync"

	"github.com/bitmark-inc/logger"
	"github.com/syndtr/goleveldb/leveldb"
	ldb_opt "github.com/syndtr/goleveldb/leveldb/opt"

	"github.com/bitmark-inc/registerd/fault"
)

// Pools - the index database split into prefixed pools
//
// note all pools must be exported (i.e. initial capital) or Open will fail
type Pools struct {
	Proofs       *PoolHandle `prefix:"P"`
	Contracts    *PoolHandle `prefix:"C"`
	Trust        *PoolHandle `prefix:"T"`
	Identifiers  *PoolHandle `prefix:"I"`
	StakeChanges *PoolHandle `prefix:"S"`

	db     *leveldb.DB
	access Access
	log    *logger.L

	// held from Begin until Commit or Abort
	txLock sync.Mutex
}

// for database version
var versionKey = []byte{0x00, 'V', 'E', 'R', 'S', 'I', 'O', 'N'}

const currentIndexDBVersion = 0x100

// pool access modes
const (
	ReadOnly  = true
	ReadWrite = false
)

// Open - open the index database <database>-index.leveldb
func Open(database string, readOnly bool) (*Pools, error) {
	log := logger.New("storage")

	name := database + "-index.leveldb"
	db, version, err := getDB(name, readOnly)
	if nil != err {
		return nil, err
	}

	// ensure no database downgrade
	if version > currentIndexDBVersion {
		log.Criticalf("index database version: %d > current version: %d", version, currentIndexDBVersion)
		db.Close()
		return nil, fault.InvalidDatabaseVersion
	}

	if 0 == version {
		if readOnly {
			db.Close()
			return nil, fault.InvalidDatabaseVersion
		}
		// database was empty so tag as current version
		if err := putVersion(db, currentIndexDBVersion); nil != err {
			db.Close()
			return nil, fault.NewIOError("put version", err)
		}
	}

	p := &Pools{
		db:     db,
		access: newDA(db, new(leveldb.Batch), newCache()),
		log:    log,
	}
	if err := p.bind(); nil != err {
		db.Close()
		return nil, err
	}

	log.Infof("opened: %s  version: 0x%x", name, currentIndexDBVersion)
	return p, nil
}

// fill every tagged pool field with a handle
func (p *Pools) bind() error {
	poolType := reflect.TypeOf(p).Elem()
	poolValue := reflect.ValueOf(p).Elem()
	handleType := reflect.TypeOf((*PoolHandle)(nil))

	seen := make(map[byte]string)
	for i := 0; i < poolType.NumField(); i += 1 {
		fieldInfo := poolType.Field(i)

		prefixTag, ok := fieldInfo.Tag.Lookup("prefix")
		if !ok {
			continue
		}
		if 1 != len(prefixTag) || fieldInfo.Type != handleType {
			return fmt.Errorf("pool: %s has invalid prefix: %q", fieldInfo.Name, prefixTag)
		}

		prefix := prefixTag[0]
		if other, ok := seen[prefix]; ok {
			return fmt.Errorf("pool: %s reuses prefix of: %s", fieldInfo.Name, other)
		}
		seen[prefix] = fieldInfo.Name

		limit := []byte(nil)
		if prefix < 255 {
			limit = []byte{prefix + 1}
		}

		h := &PoolHandle{
			prefix: prefix,
			limit:  limit,
			access: p.access,
		}
		poolValue.Field(i).Set(reflect.ValueOf(h))
	}
	return nil
}

// Begin - start a transaction, waiting for any other to finish
func (p *Pools) Begin() (Transaction, error) {
	p.txLock.Lock()
	if err := p.access.Begin(); nil != err {
		p.txLock.Unlock()
		return nil, err
	}
	return newTransaction(p.access, p.txLock.Unlock), nil
}

// Close - close the database connection
func (p *Pools) Close() {
	if nil == p.db {
		return
	}
	p.db.Close()
	p.db = nil
	p.log.Info("closed")
	p.log.Flush()
}

// return:
//   database handle
//   version number
func getDB(name string, readOnly bool) (*leveldb.DB, int, error) {
	opt := &ldb_opt.Options{
		ErrorIfExist:   false,
		ErrorIfMissing: readOnly,
		ReadOnly:       readOnly,
	}

	db, err := leveldb.OpenFile(name, opt)
	if nil != err {
		return nil, 0, fault.NewIOError("open index", err)
	}

	versionValue, err := db.Get(versionKey, nil)
	if leveldb.ErrNotFound == err {
		return db, 0, nil
	} else if nil != err {
		db.Close()
		return nil, 0, fault.NewIOError("read version", err)
	}

	if 4 != len(versionValue) {
		db.Close()
		return nil, 0, fault.InvalidDatabaseVersion
	}

	version := int(binary.BigEndian.Uint32(versionValue))
	return db, version, nil
}

func putVersion(db *leveldb.DB, version int) error {
	currentVersion := make([]byte, 4)
	binary.BigEndian.PutUint32(currentVersion, uint32(version))

	return db.Put(versionKey, currentVersion, nil)
}
