// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package digest

import (
	"github.com/bitmark-inc/go-argon2"
)

// fixed parameters for key derivation
const (
	argon2Parallelism = 1
	argon2Mode        = argon2.ModeArgon2i
	argon2Version     = argon2.Version13
)

// Argon2 - memory hard key derivation
//
// cost is the number of iterations, memory is in KiB
func Argon2(password []byte, salt []byte, secret []byte, cost int, memory int) (Digest, error) {
	ctx := &argon2.Context{
		Iterations:  cost,
		Memory:      memory,
		Parallelism: argon2Parallelism,
		HashLen:     Length,
		Mode:        argon2Mode,
		Version:     argon2Version,
		Secret:      secret,
	}

	var d Digest
	hash, err := argon2.Hash(ctx, password, salt)
	if nil != err {
		return d, err
	}
	copy(d[:], hash)
	return d, nil
}
