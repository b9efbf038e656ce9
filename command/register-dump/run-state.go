// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/registerd/address"
	"github.com/bitmark-inc/registerd/digest"
	"github.com/bitmark-inc/registerd/register"
)

func checkAddress(s string) (address.Address, error) {
	if "" == s {
		return address.Address{}, fmt.Errorf("address is required")
	}
	return address.FromBase58(s)
}

func runState(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	a, err := checkAddress(c.String("address"))
	if nil != err {
		return err
	}

	if m.verbose {
		fmt.Fprintf(m.e, "address: %s\n", a)
	}

	s, err := m.store.ReadState(a, register.Block)
	if nil != err {
		return err
	}

	return printJson(m.w, newStateView(a, s))
}

func runObject(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	var a address.Address
	var err error

	addr := c.String("address")
	trust := c.String("trust")
	switch {
	case "" != addr && "" != trust:
		return fmt.Errorf("only one of address or trust is allowed")
	case "" != trust:
		var genesis digest.Digest
		if err = genesis.UnmarshalText([]byte(trust)); nil != err {
			return err
		}
		a, err = m.store.ReadTrust(genesis)
	default:
		a, err = checkAddress(addr)
	}
	if nil != err {
		return err
	}

	if m.verbose {
		fmt.Fprintf(m.e, "address: %s\n", a)
	}

	o, err := m.store.ReadObject(a, register.Block)
	if nil != err {
		return err
	}

	return printJson(m.w, newObjectView(a, o))
}
