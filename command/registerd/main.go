// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/getoptions"
	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/registerd/background"
	"github.com/bitmark-inc/registerd/configuration"
	"github.com/bitmark-inc/registerd/operation"
	"github.com/bitmark-inc/registerd/register"
	"github.com/bitmark-inc/registerd/sector"
	"github.com/bitmark-inc/registerd/stakechange"
	"github.com/bitmark-inc/registerd/storage"
)

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

// everything opened by main, shared with the data commands
type services struct {
	states   *sector.Database
	store    *register.Store
	executor *operation.Executor
	pool     *stakechange.Pool
}

// main program
func main() {
	// ensure exit handler is first
	defer exitwithstatus.Handler()

	flags := []getoptions.Option{
		{Long: "help", HasArg: getoptions.NO_ARGUMENT, Short: 'h'},
		{Long: "verbose", HasArg: getoptions.NO_ARGUMENT, Short: 'v'},
		{Long: "quiet", HasArg: getoptions.NO_ARGUMENT, Short: 'q'},
		{Long: "version", HasArg: getoptions.NO_ARGUMENT, Short: 'V'},
		{Long: "config-file", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'c'},
		{Long: "memory-stats", HasArg: getoptions.NO_ARGUMENT, Short: 'm'},
	}

	program, options, arguments, err := getoptions.GetOS(flags)
	if nil != err {
		exitwithstatus.Message("%s: getoptions error: %s", program, err)
	}

	if len(options["version"]) > 0 {
		processSetupCommand(program, []string{"version"})
		return
	}

	if len(options["help"]) > 0 {
		processSetupCommand(program, []string{"help"})
		return
	}

	// these commands do not require the configuration
	if len(arguments) > 0 && processSetupCommand(program, arguments) {
		return
	}

	if 1 != len(options["config-file"]) {
		exitwithstatus.Message("%s: only one config-file option is required, %d were detected", program, len(options["config-file"]))
	}

	// read options and parse the configuration file
	configurationFile := options["config-file"][0]
	theConfiguration, err := configuration.Get(configurationFile)
	if nil != err {
		exitwithstatus.Message("%s: failed to read configuration from: %q  error: %s", program, configurationFile, err)
	}

	// these commands only inspect the configuration
	if len(arguments) > 0 && processConfigCommand(arguments, theConfiguration) {
		return
	}

	// start logging
	if err = logger.Initialise(theConfiguration.Logging); nil != err {
		exitwithstatus.Message("%s: logger setup failed with error: %s", program, err)
	}
	defer logger.Finalise()

	// create a logger channel for the main program
	log := logger.New("main")
	defer log.Info("finished")
	log.Info("starting…")
	log.Infof("version: %s", version)
	log.Debugf("theConfiguration: %v", theConfiguration)

	// optional PID file
	// use if not running under a supervisor program like daemon(8)
	if "" != theConfiguration.PidFile {
		lockFile, err := os.OpenFile(theConfiguration.PidFile, os.O_WRONLY|os.O_EXCL|os.O_CREATE, os.ModeExclusive|0600)
		if err != nil {
			if os.IsExist(err) {
				exitwithstatus.Message("%s: another instance is already running", program)
			}
			exitwithstatus.Message("%s: PID file: %q creation failed, error: %s", program, theConfiguration.PidFile, err)
		}
		fmt.Fprintf(lockFile, "%d\n", os.Getpid())
		lockFile.Close()
		defer os.Remove(theConfiguration.PidFile)
	}

	log.Infof("database: %q", theConfiguration.IndexPath())

	// register table
	log.Info("initialise sector")
	states, err := sector.Open(theConfiguration.SectorConfig())
	if nil != err {
		log.Criticalf("sector open error: %s", err)
		exitwithstatus.Message("sector open error: %s", err)
	}

	// index pools
	log.Info("initialise storage")
	pools, err := storage.Open(theConfiguration.IndexPath(), storage.ReadWrite)
	if nil != err {
		states.Close()
		log.Criticalf("storage open error: %s", err)
		exitwithstatus.Message("storage open error: %s", err)
	}

	// the store owns both from here on
	store := register.New(states, pools, theConfiguration.MempoolTimeout())
	defer func() {
		if err := store.Close(); nil != err {
			log.Errorf("store close error: %s", err)
		}
	}()

	executor := operation.New(store, operation.DefaultPenalty)

	log.Info("initialise stake change pool")
	pool, err := stakechange.New(pools, theConfiguration.StakeChangeConfig())
	if nil != err {
		log.Criticalf("stake change pool error: %s", err)
		exitwithstatus.Message("stake change pool error: %s", err)
	}
	defer pool.Close()

	s := &services{
		states:   states,
		store:    store,
		executor: executor,
		pool:     pool,
	}

	// these commands are allowed to access the internal database
	if len(arguments) > 0 && processDataCommand(log, arguments, s) {
		return
	}

	// start background processes
	processes := background.Processes{
		pool,
		newFlusher(store, states),
	}
	if len(options["memory-stats"]) > 0 {
		processes = append(processes, background.Process(memoryStats{}))
	}
	workers := background.Start(processes, nil)
	defer workers.Stop()

	// follow configuration changes
	watcher, err := configuration.NewWatcher(configurationFile)
	if nil != err {
		log.Criticalf("configuration watcher error: %s", err)
		exitwithstatus.Message("configuration watcher error: %s", err)
	}
	defer watcher.Close()
	if err := watcher.Start(); nil != err {
		log.Criticalf("configuration watcher start error: %s", err)
		exitwithstatus.Message("configuration watcher start error: %s", err)
	}

	// wait for CTRL-C before shutting down to allow manual testing
	if 0 == len(options["quiet"]) {
		fmt.Printf("\n\nWaiting for CTRL-C (SIGINT) or 'kill <pid>' (SIGTERM)…")
	}

	// turn Signals into channel messages
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)

loop:
	for {
		select {
		case sig := <-ch:
			log.Infof("received signal: %v", sig)
			if 0 == len(options["quiet"]) {
				fmt.Printf("\nreceived signal: %v\n", sig)
				fmt.Printf("\nshutting down…\n")
			}
			break loop

		case <-watcher.Change():
			reload(log, configurationFile, s)

		case <-watcher.Remove():
			log.Warnf("configuration file: %q removed, keeping current settings", configurationFile)
		}
	}

	log.Info("shutting down…")
}

// apply the settings that can change while running
func reload(log *logger.L, fileName string, s *services) {
	c, err := configuration.Get(fileName)
	if nil != err {
		log.Errorf("configuration reload error: %s", err)
		return
	}

	sc := c.SectorConfig()
	s.states.Resize(sc.CacheSize)
	s.pool.SetExpiry(c.StakeChangeConfig().Expiry)

	log.Infof("configuration reloaded  cache size: %d  stake change expiry: %s", sc.CacheSize, c.StakeChangeConfig().Expiry)
}
