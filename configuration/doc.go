// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package configuration - parse a Lua configuration file
//
// most of base Lua is available such as reading files to set key data
// and getenv to extract environment supplied items.
//
// the script must return a table, e.g.
//
//   return {
//       data_directory = ".",
//       database = { directory = "data", name = "registers" },
//       sector = { bucket_count = 65536, cache_size = 4096 },
//       stake_change = { expiry = 86400, requests_per_second = 0.2, burst = 3 },
//       logging = { size = 1048576, count = 10, levels = { DEFAULT = "info" } },
//   }
package configuration
