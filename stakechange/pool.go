// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package stakechange

import (
	"sort"
	"sync"
	"time"

	"github.com/bitmark-inc/logger"
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/registerd/digest"
	"github.com/bitmark-inc/registerd/fault"
	"github.com/bitmark-inc/registerd/operation"
	"github.com/bitmark-inc/registerd/storage"
)

// defaults for zero configuration values
const (
	DefaultExpiry            = 24 * time.Hour
	DefaultRequestsPerSecond = 0.2
	DefaultBurst             = 3
	DefaultSweepInterval     = time.Minute
)

// Config - pool limits
type Config struct {
	Expiry            time.Duration
	RequestsPerSecond float64
	Burst             int
	SweepInterval     time.Duration
}

// Executor - the part of operation.Executor that applies a request
type Executor interface {
	Build(*operation.Contract, operation.Flags) error
	Execute(*operation.Contract, operation.Flags) error
	UnstakePenalty(digest.Digest, uint64, operation.Flags) (uint64, error)
}

// flags for applying a request directly to disk
const applyFlags = operation.FlagPreState | operation.FlagPostState | operation.FlagWrite | operation.FlagBlock

// Pool - pending stake change requests, one per genesis
type Pool struct {
	sync.RWMutex

	log      *logger.L
	storage  *storage.PoolHandle
	begin    func() (storage.Transaction, error)
	config   Config
	requests map[digest.Digest]*Request
	limiters map[digest.Digest]*rate.Limiter
	now      func() time.Time
}

// New - load the persisted requests
func New(pools *storage.Pools, config Config) (*Pool, error) {
	p := &Pool{
		log:      logger.New("stakechange"),
		storage:  pools.StakeChanges,
		begin:    pools.Begin,
		config:   withDefaults(config),
		requests: make(map[digest.Digest]*Request),
		limiters: make(map[digest.Digest]*rate.Limiter),
		now:      time.Now,
	}

	err := p.storage.NewFetchCursor().Map(func(key []byte, value []byte) error {
		r, err := Unpack(value)
		if nil != err {
			p.log.Warnf("discard corrupt request: %x  error: %s", key, err)
			return nil
		}
		p.requests[r.Genesis] = r
		return nil
	})
	if nil != err {
		return nil, err
	}

	p.log.Infof("loaded: %d requests", len(p.requests))
	return p, nil
}

func withDefaults(config Config) Config {
	if config.Expiry <= 0 {
		config.Expiry = DefaultExpiry
	}
	if config.RequestsPerSecond <= 0 {
		config.RequestsPerSecond = DefaultRequestsPerSecond
	}
	if config.Burst <= 0 {
		config.Burst = DefaultBurst
	}
	if config.SweepInterval <= 0 {
		config.SweepInterval = DefaultSweepInterval
	}
	return config
}

// SetExpiry - change the maximum request age, applies at the next sweep
func (p *Pool) SetExpiry(expiry time.Duration) {
	if expiry <= 0 {
		return
	}
	p.Lock()
	p.config.Expiry = expiry
	p.Unlock()
	p.log.Infof("expiry: %s", expiry)
}

func (p *Pool) unixNow() uint64 {
	return uint64(p.now().Unix())
}

func (p *Pool) maxAge() uint64 {
	return uint64(p.config.Expiry / time.Second)
}

// write or delete one record in its own index transaction
func (p *Pool) persist(genesis digest.Digest, r *Request) error {
	tx, err := p.begin()
	if nil != err {
		return err
	}
	if nil == r {
		tx.Delete(p.storage, genesis[:])
	} else {
		tx.Put(p.storage, genesis[:], r.Pack())
	}
	return tx.Commit()
}

// Submit - accept a signed request, replacing any earlier one
func (p *Pool) Submit(r *Request) error {
	if nil == r {
		return fault.InvalidOperation
	}
	if err := r.Verify(); nil != err {
		return err
	}

	p.Lock()
	defer p.Unlock()

	if r.Expired(p.unixNow(), p.maxAge()) {
		return fault.ExpiredRequest
	}

	limiter, ok := p.limiters[r.Genesis]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(p.config.RequestsPerSecond), p.config.Burst)
		p.limiters[r.Genesis] = limiter
	}
	if !limiter.Allow() {
		p.log.Warnf("genesis: %s  rate limited", r.Genesis)
		return fault.RateLimiting
	}

	stored := *r
	stored.Processed = false
	if err := p.persist(r.Genesis, &stored); nil != err {
		return err
	}
	p.requests[r.Genesis] = &stored
	p.log.Infof("genesis: %s  amount: %d  expires: %d", r.Genesis, r.Amount, r.Expires)
	return nil
}

// Get - copy of the request for a genesis
func (p *Pool) Get(genesis digest.Digest) (*Request, error) {
	p.RLock()
	defer p.RUnlock()

	r, ok := p.requests[genesis]
	if !ok {
		return nil, fault.RequestNotFound
	}
	c := *r
	return &c, nil
}

// Remove - drop the request for a genesis
func (p *Pool) Remove(genesis digest.Digest) error {
	p.Lock()
	defer p.Unlock()

	if _, ok := p.requests[genesis]; !ok {
		return fault.RequestNotFound
	}
	if err := p.persist(genesis, nil); nil != err {
		return err
	}
	delete(p.requests, genesis)
	return nil
}

// MarkProcessed - request applied, removed at the next sweep
func (p *Pool) MarkProcessed(genesis digest.Digest) error {
	p.Lock()
	defer p.Unlock()
	return p.markProcessed(genesis)
}

func (p *Pool) markProcessed(genesis digest.Digest) error {
	r, ok := p.requests[genesis]
	if !ok {
		return fault.RequestNotFound
	}
	if r.Processed {
		return nil
	}
	c := *r
	c.Processed = true
	if err := p.persist(genesis, &c); nil != err {
		return err
	}
	p.requests[genesis] = &c
	return nil
}

// Pending - unprocessed, unexpired requests, oldest first
func (p *Pool) Pending() []*Request {
	p.RLock()
	defer p.RUnlock()

	now := p.unixNow()
	maxAge := p.maxAge()
	pending := make([]*Request, 0, len(p.requests))
	for _, r := range p.requests {
		if r.Processed || r.Expired(now, maxAge) {
			continue
		}
		c := *r
		pending = append(pending, &c)
	}
	sort.Slice(pending, func(i, j int) bool {
		if pending[i].Timestamp == pending[j].Timestamp {
			return pending[i].Genesis.String() < pending[j].Genesis.String()
		}
		return pending[i].Timestamp < pending[j].Timestamp
	})
	return pending
}

// Sweep - delete expired and processed requests, returns the count
func (p *Pool) Sweep() int {
	p.Lock()
	defer p.Unlock()

	now := p.unixNow()
	maxAge := p.maxAge()
	n := 0
	for genesis, r := range p.requests {
		if !r.Processed && !r.Expired(now, maxAge) {
			continue
		}
		if err := p.persist(genesis, nil); nil != err {
			p.log.Errorf("genesis: %s  delete error: %s", genesis, err)
			continue
		}
		delete(p.requests, genesis)
		n += 1
	}
	for genesis := range p.limiters {
		if _, ok := p.requests[genesis]; !ok {
			delete(p.limiters, genesis)
		}
	}
	if n > 0 {
		p.log.Infof("swept: %d requests", n)
	}
	return n
}

// Run - background sweep until shutdown
func (p *Pool) Run(args interface{}, shutdown <-chan struct{}) {
	p.RLock()
	interval := p.config.SweepInterval
	p.RUnlock()

	p.log.Info("sweeper starting…")
	tick := time.NewTicker(interval)
	defer tick.Stop()

loop:
	for {
		select {
		case <-shutdown:
			break loop
		case <-tick.C:
			p.Sweep()
		}
	}
	p.log.Info("sweeper stopped")
}

// Apply - execute the request for a genesis as a STAKE or UNSTAKE
// contract against the block state, then mark it processed
func (p *Pool) Apply(genesis digest.Digest, executor Executor) error {
	p.Lock()
	defer p.Unlock()

	r, ok := p.requests[genesis]
	if !ok {
		return fault.RequestNotFound
	}
	if r.Processed {
		return fault.RequestProcessed
	}
	now := p.unixNow()
	if r.Expired(now, p.maxAge()) {
		return fault.ExpiredRequest
	}

	var op operation.Operation
	if r.Amount > 0 {
		op = &operation.Stake{Amount: uint64(r.Amount)}
	} else {
		amount := uint64(-r.Amount)
		penalty, err := executor.UnstakePenalty(genesis, amount, applyFlags)
		if nil != err {
			return err
		}
		op = &operation.Unstake{Amount: amount, Penalty: penalty}
	}

	c := operation.NewContract(op, genesis, now)
	c.TxID = r.Hash()
	if err := executor.Build(c, applyFlags); nil != err {
		return err
	}
	if err := executor.Execute(c, applyFlags); nil != err {
		p.log.Warnf("genesis: %s  apply error: %s", genesis, err)
		return err
	}
	return p.markProcessed(genesis)
}

// Close - flush the log
func (p *Pool) Close() {
	p.log.Info("closed")
	p.log.Flush()
}
