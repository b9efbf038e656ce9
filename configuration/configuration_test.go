// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package configuration_test

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/registerd/configuration"
	"github.com/bitmark-inc/registerd/fault"
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

func writeFile(t *testing.T, name string, content string) string {
	dir := filepath.Join(testingDirName, t.Name())
	if err := os.MkdirAll(dir, 0o700); nil != err {
		t.Fatalf("mkdir error: %s", err)
	}
	fileName := filepath.Join(dir, name)
	if err := ioutil.WriteFile(fileName, []byte(content), 0o600); nil != err {
		t.Fatalf("write error: %s", err)
	}
	return fileName
}

const fullConfiguration = `
local name = "example"
return {
    data_directory = ".",
    pidfile = "registerd.pid",
    database = {
        directory = "db",
        name = name,
    },
    sector = {
        bucket_count = 1024,
        cache_size = 64,
        bloom_hashes = 4,
        append_mode = true,
    },
    mempool_expiry = 600,
    stake_change = {
        expiry = 3600,
        requests_per_second = 0.5,
        burst = 2,
    },
    logging = {
        size = 4096,
        count = 3,
        levels = {
            DEFAULT = "info",
            sector = "debug",
        },
    },
}
`

func TestGet(t *testing.T) {
	fileName := writeFile(t, "registerd.conf", fullConfiguration)
	dir, _ := filepath.Abs(filepath.Dir(fileName))

	c, err := configuration.Get(fileName)
	assert.Nil(t, err, "get error")

	assert.Equal(t, filepath.Clean(dir), filepath.Clean(c.DataDirectory), "data directory")
	assert.Equal(t, filepath.Join(dir, "registerd.pid"), c.PidFile, "pid file")
	assert.Equal(t, filepath.Join(dir, "db"), c.Database.Directory, "database directory")
	assert.Equal(t, filepath.Join(dir, "db", "example"), c.IndexPath(), "index path")

	s := c.SectorConfig()
	assert.Equal(t, uint32(1024), s.Buckets, "buckets")
	assert.Equal(t, 64, s.CacheSize, "cache size")
	assert.Equal(t, uint8(4), s.BloomHashes, "bloom hashes")
	assert.True(t, s.AppendMode, "append mode")
	assert.Equal(t, "example-states", s.Name, "sector name")

	sc := c.StakeChangeConfig()
	assert.Equal(t, time.Hour, sc.Expiry, "stake change expiry")
	assert.Equal(t, 0.5, sc.RequestsPerSecond, "rate")
	assert.Equal(t, 2, sc.Burst, "burst")
	assert.Equal(t, time.Minute, sc.SweepInterval, "default sweep interval")
	assert.Equal(t, 10*time.Minute, c.MempoolTimeout(), "mempool expiry")

	assert.EqualValues(t, 4096, c.Logging.Size, "log size")
	assert.Equal(t, "debug", c.Logging.Levels["sector"], "sector log level")

	info, err := os.Stat(c.Logging.Directory)
	assert.Nil(t, err, "log directory not created")
	assert.True(t, info.IsDir(), "log directory")
}

func TestGetRejects(t *testing.T) {
	fileName := writeFile(t, "missing.conf", `return { database = { name = "x" } }`)
	_, err := configuration.Get(fileName)
	assert.NotNil(t, err, "missing data directory accepted")

	fileName = writeFile(t, "path.conf", `return { data_directory = ".", database = { name = "a/b" } }`)
	_, err = configuration.Get(fileName)
	assert.NotNil(t, err, "database name with path accepted")

	fileName = writeFile(t, "number.conf", `return 42`)
	var c configuration.Configuration
	err = configuration.ParseConfigurationFile(fileName, &c)
	assert.Equal(t, fault.ConfigurationNotTable, err, "non table result")

	fileName = writeFile(t, "syntax.conf", `return {`)
	err = configuration.ParseConfigurationFile(fileName, &c)
	assert.NotNil(t, err, "syntax error accepted")
}

func TestWatcher(t *testing.T) {
	fileName := writeFile(t, "watched.conf", fullConfiguration)

	w, err := configuration.NewWatcher(fileName)
	assert.Nil(t, err, "new watcher error")
	defer w.Close()
	assert.Nil(t, w.Start(), "start error")

	err = ioutil.WriteFile(fileName, []byte(fullConfiguration+"\n"), 0o600)
	assert.Nil(t, err, "rewrite error")

	select {
	case <-w.Change():
	case <-time.After(2 * time.Second):
		t.Fatal("no change event")
	}

	assert.Nil(t, os.Remove(fileName), "remove error")
	select {
	case <-w.Remove():
	case <-time.After(2 * time.Second):
		t.Fatal("no remove event")
	}
}

func TestWatcherMissingFile(t *testing.T) {
	_, err := configuration.NewWatcher(filepath.Join(testingDirName, "no-such-file"))
	assert.NotNil(t, err, "missing file accepted")

	fileName := writeFile(t, "idle.conf", "return {}")
	w, err := configuration.NewWatcher(fileName)
	assert.Nil(t, err, "new watcher error")
	assert.Nil(t, w.Close(), "close without start")
	assert.Nil(t, w.Close(), "close twice")
}
