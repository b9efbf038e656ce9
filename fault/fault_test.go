// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/registerd/fault"
)

type classes struct {
	consistency bool
	exists      bool
	invalid     bool
	io          bool
	length      bool
	notFound    bool
	process     bool
	record      bool
}

func classify(err error) classes {
	return classes{
		consistency: fault.IsErrConsistency(err),
		exists:      fault.IsErrExists(err),
		invalid:     fault.IsErrInvalid(err),
		io:          fault.IsErrIO(err),
		length:      fault.IsErrLength(err),
		notFound:    fault.IsErrNotFound(err),
		process:     fault.IsErrProcess(err),
		record:      fault.IsErrRecord(err),
	}
}

// each error must belong to exactly one class
func TestClasses(t *testing.T) {
	errorList := []struct {
		err      error
		expected classes
	}{
		{fault.AlreadyClaimed, classes{consistency: true}},
		{fault.PostStateMismatch, classes{consistency: true}},
		{fault.AlreadyExists, classes{exists: true}},
		{fault.InsufficientBalance, classes{invalid: true}},
		{fault.NewIOError("write", errors.New("disk full")), classes{io: true}},
		{fault.StreamEndOfBuffer, classes{length: true}},
		{fault.KeyNotFound, classes{notFound: true}},
		{fault.RateLimiting, classes{process: true}},
		{fault.DuplicateField, classes{record: true}},
	}

	for i, e := range errorList {
		assert.Equal(t, e.expected, classify(e.err), "%d: wrong class for: %s", i, e.err)
	}
}

func TestValidation(t *testing.T) {
	assert.True(t, fault.IsValidation(fault.InsufficientBalance), "balance is a validation error")
	assert.True(t, fault.IsValidation(fault.RegisterNotFound), "not found is a validation error")
	assert.False(t, fault.IsValidation(fault.AlreadyClaimed), "duplicate claim is a consistency error")
	assert.False(t, fault.IsValidation(fault.NewIOError("read", errors.New("eof"))), "i/o is not validation")
}

func TestIOErrorText(t *testing.T) {
	err := fault.NewIOError("sector write", errors.New("no space left on device"))
	assert.Equal(t, "sector write: no space left on device", err.Error(), "wrong text")
	assert.Nil(t, fault.NewIOError("sector write", nil), "nil error must stay nil")
}

func TestPanicIfError(t *testing.T) {
	assert.NotPanics(t, func() { fault.PanicIfError("nothing", nil) }, "nil error must not panic")
	assert.Panics(t, func() { fault.PanicIfError("broken", errors.New("bad")) }, "error must panic")
}
