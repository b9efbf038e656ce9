// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"github.com/urfave/cli"
)

func runStakeChanges(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	pending := m.pool.Pending()
	result := make([]requestView, 0, len(pending))
	for _, r := range pending {
		result = append(result, newRequestView(r))
	}
	return printJson(m.w, result)
}

func runStats(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	return printJson(m.w, m.states.Stats())
}
