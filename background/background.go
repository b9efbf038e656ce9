// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package background - long running maintenance goroutines
//
// each process runs until its shutdown channel is closed; Stop closes
// every channel then waits for all processes to return
package background

// Process - a background task
type Process interface {
	Run(args interface{}, shutdown <-chan struct{})
}

// Processes - list of processes to start
type Processes []Process

type handle struct {
	shutdown chan struct{}
	finished chan struct{}
}

// T - running set of processes
type T struct {
	h []handle
}

// Start - run each process in its own goroutine
func Start(processes Processes, args interface{}) *T {
	t := &T{
		h: make([]handle, len(processes)),
	}
	for i, p := range processes {
		shutdown := make(chan struct{})
		finished := make(chan struct{})
		t.h[i].shutdown = shutdown
		t.h[i].finished = finished
		go func(p Process) {
			defer close(finished)
			p.Run(args, shutdown)
		}(p)
	}
	return t
}

// Stop - signal every process and wait for them all to return
func (t *T) Stop() {
	if nil == t {
		return
	}
	for _, h := range t.h {
		close(h.shutdown)
	}
	for _, h := range t.h {
		<-h.finished
	}
	t.h = nil
}
