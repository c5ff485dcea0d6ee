// Copyright 2025 The Bcn Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"io"
	"log"
	"os"
)

// Logs go to stderr: stdout may carry the encoded image.
var (
	debuglog = log.New(io.Discard, "[debug] ", log.Ltime|log.Lmicroseconds)
	infolog  = log.New(os.Stderr, "[info] ", log.Ltime)
	warnlog  = log.New(os.Stderr, "[warn] ", log.Ltime)
)

func setVerbose(verbose bool) {
	if verbose {
		debuglog.SetOutput(os.Stderr)
	} else {
		debuglog.SetOutput(io.Discard)
	}
}
