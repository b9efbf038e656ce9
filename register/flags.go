// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package register

import (
	"strings"
)

// Flags - processing controls passed down from the ledger layer
type Flags uint8

// flag bits
const (
	PreState  Flags = 0x01
	PostState Flags = 0x02
	Write     Flags = 0x04
	Mempool   Flags = 0x08
	Block     Flags = 0x10
)

// Overlay - only the bits the register database acts on
func (f Flags) Overlay() Flags {
	return f & (Mempool | Block)
}

// Durable - writes reach disk
func (f Flags) Durable() bool {
	return 0 != f&Block || 0 == f&Mempool
}

func (f Flags) String() string {
	names := []string{}
	for _, n := range []struct {
		bit  Flags
		name string
	}{
		{PreState, "PRESTATE"},
		{PostState, "POSTSTATE"},
		{Write, "WRITE"},
		{Mempool, "MEMPOOL"},
		{Block, "BLOCK"},
	} {
		if 0 != f&n.bit {
			names = append(names, n.name)
		}
	}
	if 0 == len(names) {
		return "NONE"
	}
	return strings.Join(names, "|")
}
