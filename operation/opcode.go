// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package operation

import (
	"fmt"

	"github.com/bitmark-inc/registerd/register"
)

// Opcode - first byte of an operation stream
type Opcode uint8

// operations
const (
	OpWrite    Opcode = 0x01
	OpAppend   Opcode = 0x02
	OpCreate   Opcode = 0x03
	OpTransfer Opcode = 0x04
	OpClaim    Opcode = 0x05
	OpDebit    Opcode = 0x10
	OpCredit   Opcode = 0x11
	OpStake    Opcode = 0x12
	OpUnstake  Opcode = 0x13
	OpTrust    Opcode = 0x14
	OpLegacy   Opcode = 0x20
)

func (op Opcode) String() string {
	switch op {
	case OpWrite:
		return "WRITE"
	case OpAppend:
		return "APPEND"
	case OpCreate:
		return "CREATE"
	case OpTransfer:
		return "TRANSFER"
	case OpClaim:
		return "CLAIM"
	case OpDebit:
		return "DEBIT"
	case OpCredit:
		return "CREDIT"
	case OpStake:
		return "STAKE"
	case OpUnstake:
		return "UNSTAKE"
	case OpTrust:
		return "TRUST"
	case OpLegacy:
		return "LEGACY"
	default:
		return fmt.Sprintf("OP(0x%02x)", uint8(op))
	}
}

// register stream markers
const (
	MarkerPreState  = 0x01
	MarkerPostState = 0x02
)

// MaxRegisterSize - largest payload a contract may create or grow to
const MaxRegisterSize = 1024

// Flags - processing controls, shared with the register database
type Flags = register.Flags

// flag bits
const (
	FlagPreState  = register.PreState
	FlagPostState = register.PostState
	FlagWrite     = register.Write
	FlagMempool   = register.Mempool
	FlagBlock     = register.Block
)
