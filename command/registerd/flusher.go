// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/registerd/register"
	"github.com/bitmark-inc/registerd/sector"
)

const flushInterval = 30 * time.Second

// periodic sync of the register table and its bloom snapshot
type flusher struct {
	log    *logger.L
	store  *register.Store
	states *sector.Database
}

func newFlusher(store *register.Store, states *sector.Database) *flusher {
	return &flusher{
		log:    logger.New("flusher"),
		store:  store,
		states: states,
	}
}

func (f *flusher) Run(args interface{}, shutdown <-chan struct{}) {
	f.log.Info("starting…")

	tick := time.NewTicker(flushInterval)
	defer tick.Stop()

loop:
	for {
		select {
		case <-shutdown:
			break loop
		case <-tick.C:
			f.flush()
		}
	}

	// final sync before the store is closed
	f.flush()
	f.log.Info("stopped")
}

func (f *flusher) flush() {
	if err := f.store.Flush(); nil != err {
		f.log.Errorf("flush error: %s", err)
		return
	}
	s := f.states.Stats()
	f.log.Debugf("reads: %d  cache hits: %d  bloom rejects: %d  writes: %d  erases: %d",
		s.Reads, s.CacheHits, s.BloomRejects, s.Writes, s.Erases)
}
