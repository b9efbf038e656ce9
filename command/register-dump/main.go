// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/bitmark-inc/logger"
	"github.com/urfave/cli"

	"github.com/bitmark-inc/registerd/configuration"
	"github.com/bitmark-inc/registerd/register"
	"github.com/bitmark-inc/registerd/sector"
	"github.com/bitmark-inc/registerd/stakechange"
	"github.com/bitmark-inc/registerd/storage"
)

type metadata struct {
	config  *configuration.Configuration
	states  *sector.Database
	store   *register.Store
	pool    *stakechange.Pool
	verbose bool
	e       io.Writer
	w       io.Writer
}

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

func main() {

	app := cli.NewApp()
	app.Name = "register-dump"
	app.Usage = "inspect a stopped registerd database"
	app.Version = version
	app.HideVersion = true

	app.Writer = os.Stdout
	app.ErrWriter = os.Stderr

	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "verbose, v",
			Usage: " verbose result",
		},
		cli.StringFlag{
			Name:  "config-file, c",
			Value: "registerd.conf",
			Usage: " registerd configuration `FILE`",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:      "state",
			Usage:     "display the state record of a register",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "address, a",
					Value: "",
					Usage: "*register `ADDRESS` in base58",
				},
			},
			Action: runState,
		},
		{
			Name:      "object",
			Usage:     "display the fields of an object register",
			ArgsUsage: "\n   (* = required, + = select one)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "address, a",
					Value: "",
					Usage: "+register `ADDRESS` in base58",
				},
				cli.StringFlag{
					Name:  "trust, t",
					Value: "",
					Usage: "+trust account of identity `GENESIS`",
				},
			},
			Action: runObject,
		},
		{
			Name:      "proof",
			Usage:     "check if a claim or credit was already applied",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "address, a",
					Value: "",
					Usage: "*claimed or credited register `ADDRESS`",
				},
				cli.StringFlag{
					Name:  "txid, t",
					Value: "",
					Usage: "*transaction id of the contract `TXID`",
				},
				cli.UintFlag{
					Name:  "contract, n",
					Value: 0,
					Usage: " contract index in the transaction `NUMBER`",
				},
			},
			Action: runProof,
		},
		{
			Name:   "stake-changes",
			Usage:  "list the pending stake change requests",
			Action: runStakeChanges,
		},
		{
			Name:   "stats",
			Usage:  "display register table counters after opening",
			Action: runStats,
		},
		{
			Name:  "version",
			Usage: "display register-dump version",
			Action: func(c *cli.Context) error {
				fmt.Fprintf(c.App.Writer, "%s\n", version)
				return nil
			},
		},
	}

	// open the database
	app.Before = func(c *cli.Context) error {

		e := c.App.ErrWriter
		w := c.App.Writer
		verbose := c.GlobalBool("verbose")

		command := c.Args().Get(0)
		switch command {
		case "", "version", "help", "h":
			return nil
		}

		file := c.GlobalString("config-file")
		if verbose {
			fmt.Fprintf(e, "reading config file: %s\n", file)
		}
		config, err := configuration.Get(file)
		if nil != err {
			return err
		}

		// only critical messages, kept apart from the daemon log
		logging := config.Logging
		logging.File = "register-dump.log"
		logging.Levels = map[string]string{
			logger.DefaultTag: "critical",
		}
		if err := logger.Initialise(logging); nil != err {
			return err
		}

		states, err := sector.Open(config.SectorConfig())
		if nil != err {
			return err
		}
		pools, err := storage.Open(config.IndexPath(), storage.ReadOnly)
		if nil != err {
			states.Close()
			return err
		}
		pool, err := stakechange.New(pools, config.StakeChangeConfig())
		if nil != err {
			states.Close()
			pools.Close()
			return err
		}

		c.App.Metadata["config"] = &metadata{
			config:  config,
			states:  states,
			store:   register.New(states, pools, config.MempoolTimeout()),
			pool:    pool,
			verbose: verbose,
			e:       e,
			w:       w,
		}
		return nil
	}

	app.After = func(c *cli.Context) error {
		m, ok := c.App.Metadata["config"].(*metadata)
		if !ok {
			return nil
		}
		m.pool.Close()
		err := m.store.Close()
		logger.Finalise()
		return err
	}

	err := app.Run(os.Args)
	if nil != err {
		fmt.Fprintf(app.ErrWriter, "terminated with error: %s\n", err)
		os.Exit(1)
	}
}
