// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/registerd/fault"
)

func fillPool(t *testing.T, p *Pools, keys ...[]byte) {
	tx, err := p.Begin()
	assert.Nil(t, err, "begin error")
	for _, k := range keys {
		tx.Put(p.Contracts, k, append([]byte("v-"), k...))
	}
	tx.Put(p.Identifiers, []byte("outside"), []byte("x"))
	assert.Nil(t, tx.Commit(), "commit error")
}

func TestFetchCursorPages(t *testing.T) {
	p := openPools(t, "cursor")
	defer p.Close()

	fillPool(t, p, []byte("a"), []byte("b"), []byte("b\xff"), []byte("c"), []byte("d"))

	cursor := p.Contracts.NewFetchCursor()

	page, err := cursor.Fetch(2)
	assert.Nil(t, err, "fetch error")
	assert.Equal(t, 2, len(page), "first page")
	assert.Equal(t, []byte("a"), page[0].Key, "first key")
	assert.Equal(t, []byte("b"), page[1].Key, "second key")

	page, err = cursor.Fetch(2)
	assert.Nil(t, err, "fetch error")
	assert.Equal(t, 2, len(page), "second page")
	assert.Equal(t, []byte("b\xff"), page[0].Key, "third key")
	assert.Equal(t, []byte("v-c"), page[1].Value, "fourth value")

	page, err = cursor.Fetch(10)
	assert.Nil(t, err, "fetch error")
	assert.Equal(t, 1, len(page), "last page")
	assert.Equal(t, []byte("d"), page[0].Key, "last key")

	page, err = cursor.Fetch(10)
	assert.Nil(t, err, "fetch error")
	assert.Equal(t, 0, len(page), "exhausted cursor")
}

func TestFetchCursorSeek(t *testing.T) {
	p := openPools(t, "seek")
	defer p.Close()

	fillPool(t, p, []byte("a"), []byte("b"), []byte("c"))

	page, err := p.Contracts.NewFetchCursor().Seek([]byte("b")).Fetch(10)
	assert.Nil(t, err, "fetch error")
	assert.Equal(t, 2, len(page), "page after seek")
	assert.Equal(t, []byte("b"), page[0].Key, "seek key included")
}

func TestFetchCursorErrors(t *testing.T) {
	p := openPools(t, "cursor-errors")
	defer p.Close()

	var cursor *FetchCursor
	_, err := cursor.Fetch(1)
	assert.Equal(t, fault.InvalidCursor, err, "nil cursor")

	_, err = p.Contracts.NewFetchCursor().Fetch(0)
	assert.Equal(t, fault.InvalidCount, err, "zero count")
}

func TestCursorMap(t *testing.T) {
	p := openPools(t, "map")
	defer p.Close()

	fillPool(t, p, []byte("a"), []byte("b"), []byte("c"))

	keys := []string{}
	err := p.Contracts.NewFetchCursor().Map(func(key []byte, value []byte) error {
		keys = append(keys, string(key))
		return nil
	})
	assert.Nil(t, err, "map error")
	assert.Equal(t, []string{"a", "b", "c"}, keys, "mapped keys")

	stop := errors.New("stop")
	count := 0
	err = p.Contracts.NewFetchCursor().Map(func(key []byte, value []byte) error {
		count += 1
		return stop
	})
	assert.Equal(t, stop, err, "map did not return callback error")
	assert.Equal(t, 1, count, "map continued after error")
}
