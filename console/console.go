// Copyright 2026 Lamina ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package console exposes the runtime command queue a trainer polls
// between samples.
package console

import "github.com/lamina-ml/lamina/internal/console"

// Queue is a thread-safe FIFO of command lines. The zero value is ready to
// use; Push never blocks.
type Queue = console.Queue
