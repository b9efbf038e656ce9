// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package storage - the register index database
//
// maintain separate pools of a number of elements in key->value form
//
// This maintains a LevelDB database split into a series of tables.
// Each table is defined by a prefix byte that is obtained from the
// prefix tag in the struct defining the available tables.
//
// Notes:
// 1. each separate pool has a single byte prefix (to spread the keys in LevelDB)
// 2. ++           = concatenation of byte data
// 3. txId         = transaction digest as 32 byte SHA3-256(data)
// 4. contract     = index of a contract in its transaction, big endian uint32
// 5. address      = 32 byte register address, first byte is the address type
// 6. genesis      = 32 byte SHA3-256(ed25519 public key)
//
// Proofs:
//
//   P ++ proof ++ txId ++ contract - claim or credit already applied
//                                    data: empty
//
// Contracts:
//
//   C ++ txId ++ contract          - committed TRANSFER and DEBIT operations
//                                    data: packed operation stream
//
// Indices:
//
//   T ++ genesis                   - trust register of an identity
//                                    data: address
//   I ++ token id                  - token register of an identifier
//                                    data: address
//
// Stake changes:
//
//   S ++ genesis                   - pending stake change request
//                                    data: packed request
//
// Version:
//
//   0x00 ++ "VERSION"              - database version, big endian uint32
package storage
