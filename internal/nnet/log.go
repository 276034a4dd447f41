// Copyright 2026 Lamina ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nnet

import (
	"log"
	"os"
)

// All console output goes through these two loggers so it can be captured
// or redirected in one place.
var (
	info = log.New(os.Stdout, "", 0)
	warn = log.New(os.Stderr, "warning: ", 0)
)
