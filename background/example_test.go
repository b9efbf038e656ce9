// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package background_test

import (
	"fmt"

	"github.com/bitmark-inc/registerd/background"
)

type flusher struct {
	name string
}

func (f *flusher) Run(args interface{}, shutdown <-chan struct{}) {
	<-shutdown
	fmt.Printf("flush: %s\n", f.name)
}

func Example() {
	p := background.Start(background.Processes{&flusher{name: "states"}}, nil)
	p.Stop()

	// Output:
	// flush: states
}
