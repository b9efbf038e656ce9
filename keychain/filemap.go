// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package keychain

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"sync"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/registerd/fault"
)

// FileMap - append-only key files with the whole index held in memory
type FileMap struct {
	sync.Mutex

	config Config
	log    *logger.L

	keys    map[string]SectorKey
	current *os.File
	file    uint32
	size    int64
}

// NewFileMap - create an unopened file map keychain
func NewFileMap(config Config) *FileMap {
	config.normalise()
	return &FileMap{
		config: config,
	}
}

func (m *FileMap) fileName(n uint32) string {
	return filepath.Join(m.config.Directory, fmt.Sprintf("%s.%05d", m.config.Name, n))
}

// Initialize - replay every key file to rebuild the index
func (m *FileMap) Initialize() error {
	m.Lock()
	defer m.Unlock()

	if nil != m.keys {
		return fault.AlreadyInitialised
	}
	m.log = logger.New("keychain")

	if err := os.MkdirAll(m.config.Directory, 0o700); nil != err {
		return fault.NewIOError("mkdir", err)
	}

	keys := make(map[string]SectorKey)
	n := uint32(0)
	for ; ; n += 1 {
		buffer, err := ioutil.ReadFile(m.fileName(n))
		if os.IsNotExist(err) {
			break
		}
		if nil != err {
			return fault.NewIOError("read keys", err)
		}

		for offset := 0; offset < len(buffer); {
			k, used, err := unpack(buffer[offset:])
			if nil != err {
				m.log.Warnf("file: %d  discard partial record at: %d", n, offset)
				if err := os.Truncate(m.fileName(n), int64(offset)); nil != err {
					return fault.NewIOError("truncate keys", err)
				}
				break
			}
			offset += used
			keys[string(k.Key)] = k
		}
	}

	// append to the last file
	if n > 0 {
		n -= 1
	}
	f, err := os.OpenFile(m.fileName(n), os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o600)
	if nil != err {
		return fault.NewIOError("open keys", err)
	}
	info, err := f.Stat()
	if nil != err {
		f.Close()
		return fault.NewIOError("stat keys", err)
	}

	m.keys = keys
	m.current = f
	m.file = n
	m.size = info.Size()
	m.log.Infof("opened: %s  files: %d  keys: %d", m.config.Name, n+1, len(keys))
	return nil
}

func (m *FileMap) append(k SectorKey) error {
	if m.size >= int64(m.config.MaxFileSize) {
		if err := m.current.Close(); nil != err {
			return fault.NewIOError("close keys", err)
		}
		f, err := os.OpenFile(m.fileName(m.file+1), os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o600)
		if nil != err {
			return fault.NewIOError("open keys", err)
		}
		m.current = f
		m.file += 1
		m.size = 0
		m.log.Infof("roll to file: %d", m.file)
	}

	buffer := k.pack(0)
	if _, err := m.current.Write(buffer); nil != err {
		return fault.NewIOError("write keys", err)
	}
	m.size += int64(len(buffer))
	k.Length = uint16(len(k.Key))
	m.keys[string(k.Key)] = k
	return nil
}

// GetBucket - bucket a key would hash to
func (m *FileMap) GetBucket(key []byte) uint32 {
	return bucket(key, m.config.Buckets)
}

// Put - record the location of a key
func (m *FileMap) Put(k SectorKey) error {
	if 0 == len(k.Key) || len(k.Key) > 0xffff {
		return fault.InvalidKeyLength
	}

	m.Lock()
	defer m.Unlock()

	if nil == m.keys {
		return fault.NotInitialised
	}
	k.Key = append([]byte{}, k.Key...)
	return m.append(k)
}

// Get - location of a key
func (m *FileMap) Get(key []byte) (SectorKey, error) {
	m.Lock()
	defer m.Unlock()

	k, ok := m.keys[string(key)]
	if !ok || k.IsEmpty() {
		return SectorKey{}, fault.KeyNotFound
	}
	return k, nil
}

// HasKey - key present and not erased
func (m *FileMap) HasKey(key []byte) bool {
	_, err := m.Get(key)
	return nil == err
}

func (m *FileMap) flip(key []byte, erased bool, state uint8) error {
	m.Lock()
	defer m.Unlock()

	k, ok := m.keys[string(key)]
	if !ok || k.IsEmpty() != erased {
		return fault.KeyNotFound
	}
	k.State = state
	return m.append(k)
}

// Erase - mark a key empty
func (m *FileMap) Erase(key []byte) error {
	return m.flip(key, false, Empty)
}

// Restore - undo an Erase
func (m *FileMap) Restore(key []byte) error {
	return m.flip(key, true, Ready)
}

// Flush - sync the current file
func (m *FileMap) Flush() error {
	m.Lock()
	defer m.Unlock()

	if nil == m.current {
		return nil
	}
	return fault.NewIOError("sync keys", m.current.Sync())
}

// Close - release the current file
func (m *FileMap) Close() error {
	m.Lock()
	defer m.Unlock()

	if nil == m.current {
		return nil
	}
	err := m.current.Sync()
	m.current.Close()
	m.current = nil
	m.keys = nil
	m.log.Info("closed")
	m.log.Flush()
	return fault.NewIOError("sync keys", err)
}
