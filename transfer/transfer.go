// Copyright 2026 Lamina ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package transfer exposes the registry of neuron transfer functions.
package transfer

import "github.com/lamina-ml/lamina/internal/transfer"

// Func is a scalar transfer function or its derivative.
type Func = transfer.Func

// Pair bundles a transfer function with its derivative.
type Pair = transfer.Pair

// Lookup resolves a transfer function by registry name; the empty string
// selects the default (tanh).
func Lookup(name string) (Pair, error) {
	return transfer.Lookup(name)
}

// Known reports whether name is a registered transfer function.
func Known(name string) bool {
	return transfer.Known(name)
}
