// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package operation - apply contracts to registers
//
// every contract carries one operation and a register stream:
//
//   operations: opcode u8 ++ arguments
//   registers:  [PRESTATE u8 ++ state] ++ POSTSTATE u8 ++ checksum u64
//
// the pre-state is absent for CREATE. Processing runs:
//
//   Verify   - decode, authorise, load the pre-state
//   Execute  - compute the post-state on a copy
//   check    - post-state checksum must equal the contract's claim
//   Commit   - write the register and its indices (WRITE flag only)
//
// a rejection at any step leaves the database untouched
package operation
