// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package transaction - signed batch of contracts
//
// packed layout (all integers little endian):
//
//   version   u8
//   genesis   32 bytes, SHA3-256 of the signer's public key
//   sequence  u64
//   timestamp u64
//   count     compact-size, number of contracts
//   contracts count * (compact-size operations | compact-size registers)
//   publicKey compact-size bytes
//   signature compact-size bytes
//
// the hash and the signed message are everything before the signature
package transaction
