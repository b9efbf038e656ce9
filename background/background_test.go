// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package background_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/registerd/background"
)

type sweeper struct {
	sweeps  int64
	stopped int32
	args    interface{}
}

func (s *sweeper) Run(args interface{}, shutdown <-chan struct{}) {
	s.args = args
	tick := time.NewTicker(time.Millisecond)
	defer tick.Stop()

loop:
	for {
		select {
		case <-shutdown:
			break loop
		case <-tick.C:
			atomic.AddInt64(&s.sweeps, 1)
		}
	}
	atomic.StoreInt32(&s.stopped, 1)
}

func TestStartStop(t *testing.T) {
	s1 := &sweeper{}
	s2 := &sweeper{}

	p := background.Start(background.Processes{s1, s2}, "configuration")
	time.Sleep(50 * time.Millisecond)
	p.Stop()

	for i, s := range []*sweeper{s1, s2} {
		assert.Equal(t, int32(1), atomic.LoadInt32(&s.stopped), "process %d not stopped", i)
		assert.True(t, atomic.LoadInt64(&s.sweeps) > 0, "process %d never ran", i)
		assert.Equal(t, "configuration", s.args, "process %d args", i)
	}

	// stopped processes stay stopped
	n := atomic.LoadInt64(&s1.sweeps)
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, n, atomic.LoadInt64(&s1.sweeps), "sweeps after stop")
}

func TestStopTwice(t *testing.T) {
	p := background.Start(background.Processes{&sweeper{}}, nil)
	p.Stop()
	p.Stop()

	var none *background.T
	none.Stop()
}
