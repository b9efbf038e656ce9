// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package lru

import (
	"sync"

	"github.com/bitmark-inc/registerd/digest"
)

const none = int32(-1)

type node struct {
	key      string
	value    []byte
	reserved bool
	prev     int32
	next     int32
}

// Cache - fixed capacity binary LRU
//
// nodes live in one slice and link by index; slots freed by
// eviction or removal are reused before the slice grows
type Cache struct {
	sync.Mutex

	capacity int
	nodes    []node
	free     []int32
	index    map[string]int32

	// head is most recently used
	head int32
	tail int32
}

// New - create a cache holding up to capacity entries
func New(capacity int) *Cache {
	if capacity < 1 {
		capacity = 1
	}
	return &Cache{
		capacity: capacity,
		nodes:    make([]node, 0, capacity),
		index:    make(map[string]int32, capacity),
		head:     none,
		tail:     none,
	}
}

func (c *Cache) unlink(i int32) {
	n := &c.nodes[i]
	if none != n.prev {
		c.nodes[n.prev].next = n.next
	} else {
		c.head = n.next
	}
	if none != n.next {
		c.nodes[n.next].prev = n.prev
	} else {
		c.tail = n.prev
	}
	n.prev = none
	n.next = none
}

func (c *Cache) pushFront(i int32) {
	n := &c.nodes[i]
	n.prev = none
	n.next = c.head
	if none != c.head {
		c.nodes[c.head].prev = i
	}
	c.head = i
	if none == c.tail {
		c.tail = i
	}
}

func (c *Cache) allocate() int32 {
	if l := len(c.free); l > 0 {
		i := c.free[l-1]
		c.free = c.free[:l-1]
		return i
	}
	c.nodes = append(c.nodes, node{prev: none, next: none})
	return int32(len(c.nodes) - 1)
}

func (c *Cache) release(i int32) {
	c.unlink(i)
	delete(c.index, c.nodes[i].key)
	c.nodes[i] = node{prev: none, next: none}
	c.free = append(c.free, i)
}

// drop the least recently used entry that is not reserved or kept
func (c *Cache) evict(keep int32) bool {
	for i := c.tail; none != i; i = c.nodes[i].prev {
		if i != keep && !c.nodes[i].reserved {
			c.release(i)
			return true
		}
	}
	return false
}

// keep is an entry that must survive, none if any may go
func (c *Cache) shrink(keep int32) {
	for len(c.index) > c.capacity {
		if !c.evict(keep) {
			return
		}
	}
}

// Put - add or replace an entry and make it most recent
//
// a reserved entry is never evicted until Reserve(key, false)
func (c *Cache) Put(key []byte, value []byte, reserve bool) {
	c.Lock()
	defer c.Unlock()

	k := string(key)
	if i, ok := c.index[k]; ok {
		c.nodes[i].value = append([]byte{}, value...)
		c.nodes[i].reserved = reserve
		c.unlink(i)
		c.pushFront(i)
		return
	}

	i := c.allocate()
	c.nodes[i].key = k
	c.nodes[i].value = append([]byte{}, value...)
	c.nodes[i].reserved = reserve
	c.index[k] = i
	c.pushFront(i)
	c.shrink(i)
}

// Get - copy of a value, promoting the entry
func (c *Cache) Get(key []byte) ([]byte, bool) {
	c.Lock()
	defer c.Unlock()

	i, ok := c.index[string(key)]
	if !ok {
		return nil, false
	}
	c.unlink(i)
	c.pushFront(i)
	return append([]byte{}, c.nodes[i].value...), true
}

// Has - presence without promotion
func (c *Cache) Has(key []byte) bool {
	c.Lock()
	defer c.Unlock()

	_, ok := c.index[string(key)]
	return ok
}

// Reserve - pin or unpin an entry, false if absent
func (c *Cache) Reserve(key []byte, reserve bool) bool {
	c.Lock()
	defer c.Unlock()

	i, ok := c.index[string(key)]
	if !ok {
		return false
	}
	c.nodes[i].reserved = reserve
	if !reserve {
		c.shrink(none)
	}
	return true
}

// Remove - delete an entry regardless of reservation
func (c *Cache) Remove(key []byte) bool {
	c.Lock()
	defer c.Unlock()

	i, ok := c.index[string(key)]
	if !ok {
		return false
	}
	c.release(i)
	return true
}

// Len - entries held
func (c *Cache) Len() int {
	c.Lock()
	defer c.Unlock()
	return len(c.index)
}

// Capacity - configured size
func (c *Cache) Capacity() int {
	c.Lock()
	defer c.Unlock()
	return c.capacity
}

// Resize - change capacity, evicting as needed
func (c *Cache) Resize(capacity int) {
	if capacity < 1 {
		capacity = 1
	}
	c.Lock()
	defer c.Unlock()

	c.capacity = capacity
	c.shrink(none)
}

// Keys - most recent first
func (c *Cache) Keys() [][]byte {
	c.Lock()
	defer c.Unlock()

	keys := make([][]byte, 0, len(c.index))
	for i := c.head; none != i; i = c.nodes[i].next {
		keys = append(keys, []byte(c.nodes[i].key))
	}
	return keys
}

// Bucket - XXH64 bucket of a key over the current capacity
func (c *Cache) Bucket(key []byte) uint32 {
	return digest.Bucket(key, uint32(c.Capacity()))
}
