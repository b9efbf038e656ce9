// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package fault - error instances
//
// Provides a single instance of each error so results can be
// compared by identity.  Each error belongs to a class which maps to
// the way a caller must react:
//
//   validation   - InvalidError, NotFoundError, ExistsError,
//                  LengthError, RecordError: reject one contract,
//                  nothing was changed
//   i/o          - IOError: the storage operation failed
//   consistency  - ConsistencyError: a tampered or replayed contract,
//                  always rejected
package fault
