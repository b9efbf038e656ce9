// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/registerd/digest"
	"github.com/bitmark-inc/registerd/register"
)

type proofView struct {
	Applied  bool          `json:"applied"`
	Contract *contractView `json:"contract,omitempty"`
	TxId     digest.Digest `json:"txId"`
}

// the stored TRANSFER or DEBIT of the proven contract
type contractView struct {
	Index uint32 `json:"index"`
	Data  string `json:"data"`
}

func runProof(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	a, err := checkAddress(c.String("address"))
	if nil != err {
		return err
	}

	txid := c.String("txid")
	if "" == txid {
		return fmt.Errorf("txid is required")
	}
	var txId digest.Digest
	if err := txId.UnmarshalText([]byte(txid)); nil != err {
		return err
	}
	contract := uint32(c.Uint("contract"))

	if m.verbose {
		fmt.Fprintf(m.e, "address: %s\n", a)
		fmt.Fprintf(m.e, "txid: %s  contract: %d\n", txId, contract)
	}

	result := proofView{
		Applied: m.store.HasProof(a, txId, contract, register.Block),
		TxId:    txId,
	}
	if data, err := m.store.ReadContract(txId, contract, register.Block); nil == err {
		result.Contract = &contractView{
			Index: contract,
			Data:  fmt.Sprintf("%x", data),
		}
	}

	return printJson(m.w, result)
}
