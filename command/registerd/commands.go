// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/registerd/account"
	"github.com/bitmark-inc/registerd/configuration"
	"github.com/bitmark-inc/registerd/digest"
	"github.com/bitmark-inc/registerd/stakechange"
)

// setup command handler
//
// commands that need neither the configuration file nor the database
func processSetupCommand(program string, arguments []string) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
		arguments = arguments[1:]
	}

	switch command {
	case "generate-identity", "gen":
		generateIdentity(arguments)

	case "start", "run":
		return false // continue processing

	case "config-test", "cfg":
		return false // defer processing until configuration is read

	case "pending", "apply", "submit", "stats":
		return false // defer processing until database is opened

	case "version", "v":
		fmt.Printf("%s\n", version)
		return true

	default:
		switch command {
		case "help", "h", "?":
		case "", " ":
			fmt.Printf("error: missing command\n")
		default:
			fmt.Printf("error: no such command: %q\n", command)
		}
		fmt.Printf("usage: %s [--help] [--verbose] [--quiet] --config-file=FILE [[command|help] arguments...]\n", program)

		fmt.Printf("supported commands:\n\n")
		fmt.Printf("  help                       (h)      - display this message\n\n")
		fmt.Printf("  version                    (v)      - display version sting\n\n")

		fmt.Printf("  generate-identity [U P [PIN]] (gen) - create a random identity or derive one\n")
		fmt.Printf("                                        from username, password and optional pin\n")
		fmt.Printf("\n")

		fmt.Printf("  start                      (run)    - just run the program, same as no arguments\n")
		fmt.Printf("                                        for convienience when passing script arguments\n")
		fmt.Printf("\n")

		fmt.Printf("  config-test                (cfg)    - just check the configuration file\n")
		fmt.Printf("\n")

		fmt.Printf("  pending                             - list pending stake change requests as JSON\n")
		fmt.Printf("\n")

		fmt.Printf("  submit HEX                          - add a packed stake change request\n")
		fmt.Printf("\n")

		fmt.Printf("  apply GENESIS                       - apply the pending request of an identity\n")
		fmt.Printf("\n")

		fmt.Printf("  stats                               - display register table statistics\n")
		fmt.Printf("\n")

		exitwithstatus.Exit(1)
	}

	// indicate processing complete and preform normal exit from main
	return true
}

// print a new identity: random or derived from credentials
func generateIdentity(arguments []string) {
	var privateKey *account.PrivateKey
	var err error

	switch len(arguments) {
	case 0:
		privateKey, err = account.NewPrivateKey()
	case 2:
		privateKey, err = account.NewFromCredentials(arguments[0], arguments[1], "")
	case 3:
		privateKey, err = account.NewFromCredentials(arguments[0], arguments[1], arguments[2])
	default:
		exitwithstatus.Message("error: expected no arguments or: USERNAME PASSWORD [PIN]")
	}
	if nil != err {
		exitwithstatus.Message("error: generate identity: %s", err)
	}

	a := privateKey.Account()
	fmt.Printf("account: %s\n", a)
	fmt.Printf("genesis: %s\n", a.Genesis())
	fmt.Printf("seed:    %x\n", privateKey.Seed())
}

// configuration file enquiry commands
// have configuration file read and decoded, but nothing else
func processConfigCommand(arguments []string, options *configuration.Configuration) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
	}

	switch command {
	case "config-test", "cfg":
		printJSON(options)

	default: // unknown commands fall through to data command
		return false
	}

	// indicate processing complete and perform normal exit from main
	return true
}

// data command handler
// the register table and index are open so these commands can
// access and/or change them
func processDataCommand(log *logger.L, arguments []string, s *services) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
		arguments = arguments[1:]
	}

	switch command {

	case "start", "run":
		return false // continue processing

	case "pending":
		printJSON(s.pool.Pending())

	case "submit":
		if len(arguments) < 1 {
			exitwithstatus.Message("missing request argument")
		}
		buffer, err := hex.DecodeString(strings.TrimSpace(arguments[0]))
		if nil != err {
			exitwithstatus.Message("error: request hex: %s", err)
		}
		r, err := stakechange.Unpack(buffer)
		if nil != err {
			exitwithstatus.Message("error: request decode: %s", err)
		}
		if err := s.pool.Submit(r); nil != err {
			exitwithstatus.Message("error: submit: %s", err)
		}
		log.Infof("submitted request: %s  genesis: %s", r.Hash(), r.Genesis)
		fmt.Printf("submitted: %s\n", r.Hash())

	case "apply":
		if len(arguments) < 1 {
			exitwithstatus.Message("missing genesis argument")
		}
		var genesis digest.Digest
		if err := genesis.UnmarshalText([]byte(arguments[0])); nil != err {
			exitwithstatus.Message("error in genesis: %s", err)
		}
		if err := s.pool.Apply(genesis, s.executor); nil != err {
			exitwithstatus.Message("apply error: %s", err)
		}
		if err := s.store.Flush(); nil != err {
			exitwithstatus.Message("flush error: %s", err)
		}
		log.Infof("applied stake change for: %s", genesis)
		fmt.Printf("applied: %s\n", genesis)

	case "stats":
		printJSON(s.states.Stats())

	default:
		exitwithstatus.Message("error: no such command: %s", command)

	}

	// indicate processing complete and perform normal exit from main
	return true
}

func printJSON(item interface{}) {
	b, err := json.Marshal(item)
	if nil != err {
		exitwithstatus.Message("error: %s", err)
	}
	var out bytes.Buffer
	json.Indent(&out, b, "", "  ")
	out.WriteTo(os.Stdout)
	os.Stdout.WriteString("\n")
}
