// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/bitmark-inc/logger"
)

// last chance log channel, used just before a panic
var panicLog struct {
	sync.Mutex
	log *logger.L
}

// time for the logger to write out before a panic unwinds
const flushDelay = 100 * time.Millisecond

// Initialise - open the critical log channel
func Initialise() error {
	panicLog.Lock()
	defer panicLog.Unlock()

	if nil != panicLog.log {
		return AlreadyInitialised
	}
	panicLog.log = logger.New("PANIC")
	return nil
}

// Finalise - flush any pending critical messages
func Finalise() {
	panicLog.Lock()
	defer panicLog.Unlock()

	if nil != panicLog.log {
		panicLog.log.Flush()
		panicLog.log = nil
	}
}

// Criticalf - log a formatted message prefixed with the caller's position
func Criticalf(format string, arguments ...interface{}) {
	critical(2, format, arguments...)
}

// Panicf - log a formatted message then abort
func Panicf(format string, arguments ...interface{}) {
	critical(2, format, arguments...)
	abort(fmt.Sprintf(format, arguments...))
}

// PanicIfError - abort if err is not nil
func PanicIfError(message string, err error) {
	if nil == err {
		return
	}
	critical(2, "%s failed with error: %s", message, err)
	abort(message)
}

func critical(depth int, format string, arguments ...interface{}) {
	if _, file, line, ok := runtime.Caller(depth); ok {
		format = fmt.Sprintf("(%q:%d) ", file, line) + format
	}

	panicLog.Lock()
	defer panicLog.Unlock()

	if nil == panicLog.log {
		fmt.Printf("*** "+format+"\n", arguments...)
		return
	}
	panicLog.log.Criticalf(format, arguments...)
	panicLog.log.Flush()
}

func abort(message string) {
	time.Sleep(flushDelay)
	panic(message)
}
