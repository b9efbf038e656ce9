// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package configuration

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/registerd/bloom"
	"github.com/bitmark-inc/registerd/keychain"
	"github.com/bitmark-inc/registerd/register"
	"github.com/bitmark-inc/registerd/sector"
	"github.com/bitmark-inc/registerd/stakechange"
)

// basic defaults (directories and files are relative to the "DataDirectory" from Configuration file)
const (
	defaultDataDirectory = "" // this will error; use "." for the same directory as the config file

	defaultDatabaseDirectory = "data"
	defaultDatabaseName      = "registers"

	defaultLogDirectory = "log"
	defaultLogFile      = "registerd.log"
	defaultLogCount     = 10          //  number of log files retained
	defaultLogSize      = 1024 * 1024 // rotate when <logfile> exceeds this size
)

// DatabaseType - where the index and sector files live
type DatabaseType struct {
	Directory string `gluamapper:"directory" json:"directory"`
	Name      string `gluamapper:"name" json:"name"`
}

// SectorType - register table tuning
type SectorType struct {
	MaxFileSize uint32 `gluamapper:"max_file_size" json:"max_file_size"`
	CacheSize   int    `gluamapper:"cache_size" json:"cache_size"`
	BucketCount uint32 `gluamapper:"bucket_count" json:"bucket_count"`
	MaxKeySize  uint16 `gluamapper:"max_key_size" json:"max_key_size"`
	BloomBits   uint64 `gluamapper:"bloom_bits" json:"bloom_bits"`
	BloomHashes uint8  `gluamapper:"bloom_hashes" json:"bloom_hashes"`
	AppendMode  bool   `gluamapper:"append_mode" json:"append_mode"`
	FileMap     bool   `gluamapper:"file_map" json:"file_map"`
}

// StakeChangeType - pending request limits, times in seconds
type StakeChangeType struct {
	Expiry            int     `gluamapper:"expiry" json:"expiry"`
	RequestsPerSecond float64 `gluamapper:"requests_per_second" json:"requests_per_second"`
	Burst             int     `gluamapper:"burst" json:"burst"`
	SweepInterval     int     `gluamapper:"sweep_interval" json:"sweep_interval"`
}

// Configuration - the daemon settings
type Configuration struct {
	DataDirectory string               `gluamapper:"data_directory" json:"data_directory"`
	PidFile       string               `gluamapper:"pidfile" json:"pidfile"`
	Database      DatabaseType         `gluamapper:"database" json:"database"`
	Sector        SectorType           `gluamapper:"sector" json:"sector"`
	MempoolExpiry int                  `gluamapper:"mempool_expiry" json:"mempool_expiry"`
	StakeChange   StakeChangeType      `gluamapper:"stake_change" json:"stake_change"`
	Logging       logger.Configuration `gluamapper:"logging" json:"logging"`
}

// Get - read, default and verify the configuration
//
// all relative paths are made absolute against the data directory and
// the database and log directories are created
func Get(configurationFileName string) (*Configuration, error) {
	configurationFileName, err := filepath.Abs(filepath.Clean(configurationFileName))
	if nil != err {
		return nil, err
	}

	// absolute path to the main directory
	dataDirectory, _ := filepath.Split(configurationFileName)

	options := &Configuration{
		DataDirectory: defaultDataDirectory,
		PidFile:       "", // no PidFile by default

		Database: DatabaseType{
			Directory: defaultDatabaseDirectory,
			Name:      defaultDatabaseName,
		},

		Sector: SectorType{
			MaxFileSize: sector.DefaultMaxFileSize,
			CacheSize:   sector.DefaultCacheSize,
			BucketCount: keychain.DefaultBuckets,
			MaxKeySize:  keychain.DefaultMaxKeySize,
		},

		MempoolExpiry: int(register.DefaultMempoolExpiry / time.Second),

		StakeChange: StakeChangeType{
			Expiry:            int(stakechange.DefaultExpiry / time.Second),
			RequestsPerSecond: stakechange.DefaultRequestsPerSecond,
			Burst:             stakechange.DefaultBurst,
			SweepInterval:     int(stakechange.DefaultSweepInterval / time.Second),
		},

		Logging: logger.Configuration{
			Directory: defaultLogDirectory,
			File:      defaultLogFile,
			Size:      defaultLogSize,
			Count:     defaultLogCount,
			Levels: map[string]string{
				logger.DefaultTag: "critical",
			},
		},
	}

	if err := ParseConfigurationFile(configurationFileName, options); nil != err {
		return nil, err
	}

	// ensure absolute data directory
	if "" == options.DataDirectory || "~" == options.DataDirectory {
		return nil, fmt.Errorf("path: %q is not a valid directory", options.DataDirectory)
	} else if "." == options.DataDirectory {
		options.DataDirectory = dataDirectory // same directory as the configuration file
	} else {
		options.DataDirectory = ensureAbsolute(dataDirectory, filepath.Clean(options.DataDirectory))
	}

	// this directory must exist - i.e. must be created prior to running
	if fileInfo, err := os.Stat(options.DataDirectory); nil != err {
		return nil, err
	} else if !fileInfo.IsDir() {
		return nil, fmt.Errorf("path: %q is not a directory", options.DataDirectory)
	}

	if "" != options.PidFile {
		options.PidFile = ensureAbsolute(options.DataDirectory, options.PidFile)
	}

	// must be plain names, the directory is added later
	for _, f := range []string{options.Database.Name, options.Logging.File} {
		switch filepath.Dir(f) {
		case "", ".":
		default:
			return nil, fmt.Errorf("files: %q is not plain name", f)
		}
	}

	// make absolute and create directories if they do not already exist
	for _, d := range []*string{
		&options.Database.Directory,
		&options.Logging.Directory,
	} {
		*d = ensureAbsolute(options.DataDirectory, *d)
		if err := os.MkdirAll(*d, 0o700); nil != err {
			return nil, err
		}
	}

	if options.Sector.BloomHashes > bloom.MaxHashes {
		return nil, fmt.Errorf("sector: bloom_hashes: %d is too large", options.Sector.BloomHashes)
	}
	if options.Sector.BloomBits > bloom.MaxBits {
		return nil, fmt.Errorf("sector: bloom_bits: %d is too large", options.Sector.BloomBits)
	}
	if options.MempoolExpiry <= 0 {
		return nil, fmt.Errorf("mempool_expiry: %d must be positive", options.MempoolExpiry)
	}

	return options, nil
}

// IndexPath - the leveldb index name passed to storage.Open
func (c *Configuration) IndexPath() string {
	return filepath.Join(c.Database.Directory, c.Database.Name)
}

// SectorConfig - settings for the register table
func (c *Configuration) SectorConfig() sector.Config {
	return sector.Config{
		Directory:   c.Database.Directory,
		Name:        c.Database.Name + "-states",
		MaxFileSize: c.Sector.MaxFileSize,
		CacheSize:   c.Sector.CacheSize,
		Buckets:     c.Sector.BucketCount,
		MaxKeySize:  c.Sector.MaxKeySize,
		BloomBits:   c.Sector.BloomBits,
		BloomHashes: c.Sector.BloomHashes,
		AppendMode:  c.Sector.AppendMode,
		FileMap:     c.Sector.FileMap,
	}
}

// StakeChangeConfig - settings for the stake change pool
func (c *Configuration) StakeChangeConfig() stakechange.Config {
	return stakechange.Config{
		Expiry:            time.Duration(c.StakeChange.Expiry) * time.Second,
		RequestsPerSecond: c.StakeChange.RequestsPerSecond,
		Burst:             c.StakeChange.Burst,
		SweepInterval:     time.Duration(c.StakeChange.SweepInterval) * time.Second,
	}
}

// MempoolTimeout - lifetime of speculative register writes
func (c *Configuration) MempoolTimeout() time.Duration {
	return time.Duration(c.MempoolExpiry) * time.Second
}

// prefix a relative path with a directory
func ensureAbsolute(directory string, filePath string) string {
	if !filepath.IsAbs(filePath) {
		filePath = filepath.Join(directory, filePath)
	}
	return filepath.Clean(filePath)
}
