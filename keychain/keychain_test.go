// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package keychain

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/bitmark-inc/logger"
	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/registerd/fault"
)

const testingDirName = "testing"

func TestMain(m *testing.M) {
	removeFiles()
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
	removeFiles()
	os.Exit(result)
}

func removeFiles() {
	_ = os.RemoveAll(testingDirName)
}

func testConfig(t *testing.T, buckets uint32) Config {
	return Config{
		Directory:   filepath.Join(testingDirName, t.Name()),
		Name:        "keys",
		Buckets:     buckets,
		MaxKeySize:  32,
		MaxFileSize: 1 << 20,
	}
}

func key(i int) []byte {
	return []byte(fmt.Sprintf("key-%04d", i))
}

func location(i int) SectorKey {
	return SectorKey{
		State: Ready,
		File:  uint16(i % 3),
		Size:  uint32(100 + i),
		Start: uint32(1000 * i),
		Key:   key(i),
	}
}

func checkLocation(t *testing.T, kc Keychain, i int) {
	k, err := kc.Get(key(i))
	if !assert.Nil(t, err, "get key %d", i) {
		return
	}
	expected := location(i)
	assert.Equal(t, Ready, k.State, "state %d", i)
	assert.Equal(t, expected.File, k.File, "file %d", i)
	assert.Equal(t, expected.Size, k.Size, "size %d", i)
	assert.Equal(t, expected.Start, k.Start, "start %d", i)
	assert.Equal(t, expected.Key, k.Key, "key bytes %d", i)
}

func TestHashMapPutGet(t *testing.T) {
	kc := NewHashMap(testConfig(t, 8))
	assert.Nil(t, kc.Initialize(), "initialize")
	defer kc.Close()

	for i := 0; i < 50; i += 1 {
		assert.Nil(t, kc.Put(location(i)), "put %d", i)
	}
	for i := 0; i < 50; i += 1 {
		checkLocation(t, kc, i)
	}

	_, err := kc.Get([]byte("absent"))
	assert.Equal(t, fault.KeyNotFound, err, "absent key")

	// 50 keys in 8 buckets must have needed more than one layer
	total := uint32(0)
	for _, n := range kc.layers {
		total += n
	}
	assert.Equal(t, uint32(50), total, "one slot per key")
}

func TestHashMapReplace(t *testing.T) {
	kc := NewHashMap(testConfig(t, 4))
	assert.Nil(t, kc.Initialize(), "initialize")
	defer kc.Close()

	assert.Nil(t, kc.Put(location(1)), "put")
	moved := location(1)
	moved.Start = 77
	assert.Nil(t, kc.Put(moved), "replace")

	k, err := kc.Get(key(1))
	assert.Nil(t, err, "get")
	assert.Equal(t, uint32(77), k.Start, "replaced start")
	assert.Equal(t, uint32(1), kc.layers[kc.GetBucket(key(1))], "replace must not add a layer")
}

func TestHashMapEraseRestore(t *testing.T) {
	kc := NewHashMap(testConfig(t, 16))
	assert.Nil(t, kc.Initialize(), "initialize")
	defer kc.Close()

	assert.Nil(t, kc.Put(location(5)), "put")
	assert.Nil(t, kc.Erase(key(5)), "erase")
	assert.False(t, kc.HasKey(key(5)), "erased key visible")
	assert.Equal(t, fault.KeyNotFound, kc.Erase(key(5)), "double erase")

	assert.Nil(t, kc.Restore(key(5)), "restore")
	checkLocation(t, kc, 5)
	assert.Equal(t, fault.KeyNotFound, kc.Restore(key(5)), "restore of live key")
}

func TestHashMapReuseEmptySlot(t *testing.T) {
	cfg := testConfig(t, 1)
	kc := NewHashMap(cfg)
	assert.Nil(t, kc.Initialize(), "initialize")
	defer kc.Close()

	assert.Nil(t, kc.Put(location(1)), "put 1")
	assert.Nil(t, kc.Put(location(2)), "put 2")
	assert.Equal(t, uint32(2), kc.layers[0], "two layers")

	assert.Nil(t, kc.Erase(key(1)), "erase 1")
	assert.Nil(t, kc.Put(location(3)), "put 3")
	assert.Equal(t, uint32(2), kc.layers[0], "erased slot reused")
	checkLocation(t, kc, 2)
	checkLocation(t, kc, 3)
}

func TestHashMapAppendMode(t *testing.T) {
	cfg := testConfig(t, 1)
	cfg.AppendMode = true
	kc := NewHashMap(cfg)
	assert.Nil(t, kc.Initialize(), "initialize")
	defer kc.Close()

	assert.Nil(t, kc.Put(location(1)), "put 1")
	assert.Nil(t, kc.Erase(key(1)), "erase 1")
	assert.Nil(t, kc.Put(location(2)), "put 2")
	assert.Equal(t, uint32(2), kc.layers[0], "append mode always adds a layer")
}

func TestHashMapStableAcrossReopen(t *testing.T) {
	cfg := testConfig(t, 64)

	kc := NewHashMap(cfg)
	assert.Nil(t, kc.Initialize(), "initialize")
	buckets := make(map[int]uint32)
	for i := 0; i < 200; i += 1 {
		assert.Nil(t, kc.Put(location(i)), "put %d", i)
		buckets[i] = kc.GetBucket(key(i))
	}
	assert.Nil(t, kc.Close(), "close")

	reopened := NewHashMap(cfg)
	assert.Nil(t, reopened.Initialize(), "reopen")
	for i := 0; i < 200; i += 1 {
		assert.Equal(t, buckets[i], reopened.GetBucket(key(i)), "bucket %d moved", i)
		checkLocation(t, reopened, i)
	}
	assert.Nil(t, reopened.Close(), "close")

	cfg.Buckets = 65
	wrong := NewHashMap(cfg)
	assert.Equal(t, fault.BucketCountMismatch, wrong.Initialize(), "bucket count change")
}

func TestHashMapLongKey(t *testing.T) {
	kc := NewHashMap(testConfig(t, 8))
	assert.Nil(t, kc.Initialize(), "initialize")
	defer kc.Close()

	long := make([]byte, 80)
	for i := range long {
		long[i] = byte(i)
	}
	assert.Nil(t, kc.Put(SectorKey{State: Ready, Size: 9, Key: long}), "put long key")

	k, err := kc.Get(long)
	assert.Nil(t, err, "get long key")
	assert.Equal(t, Fold(long, 32), k.Key, "slot holds the folded key")
	assert.Equal(t, uint32(9), k.Size, "size")
}

func TestFold(t *testing.T) {
	short := []byte{1, 2, 3}
	assert.Equal(t, short, Fold(short, 4), "short key unchanged")
	assert.Equal(t, []byte{1 ^ 3, 2 ^ 4}, Fold([]byte{1, 2, 3, 4}, 2), "xor fold")
}

func TestFileMap(t *testing.T) {
	cfg := testConfig(t, 16)
	cfg.MaxFileSize = 64

	kc := NewFileMap(cfg)
	assert.Nil(t, kc.Initialize(), "initialize")
	for i := 0; i < 30; i += 1 {
		assert.Nil(t, kc.Put(location(i)), "put %d", i)
	}
	assert.True(t, kc.file > 0, "small max file size must roll")
	assert.Nil(t, kc.Erase(key(7)), "erase")
	assert.Nil(t, kc.Close(), "close")

	reopened := NewFileMap(cfg)
	assert.Nil(t, reopened.Initialize(), "reopen")
	defer reopened.Close()

	for i := 0; i < 30; i += 1 {
		if 7 == i {
			assert.False(t, reopened.HasKey(key(i)), "erase survived reopen")
			continue
		}
		checkLocation(t, reopened, i)
	}
	assert.Nil(t, reopened.Restore(key(7)), "restore")
	checkLocation(t, reopened, 7)
}

func TestSectorKeyPack(t *testing.T) {
	k := location(3)
	buffer := k.pack(32)
	assert.Equal(t, HeaderSize+32, len(buffer), "padded size")

	decoded, used, err := unpack(buffer)
	assert.Nil(t, err, "unpack")
	assert.Equal(t, HeaderSize+len(k.Key), used, "consumed")
	assert.Equal(t, k.Key, decoded.Key, "key")
	assert.Equal(t, uint16(len(k.Key)), decoded.Length, "length")

	_, _, err = unpack(buffer[:5])
	assert.Equal(t, fault.StreamEndOfBuffer, err, "short header")
}
