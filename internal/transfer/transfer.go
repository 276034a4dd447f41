// Copyright 2026 Lamina ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package transfer provides the named transfer (activation) functions that
// layers apply to their weighted input sums.
//
// Every function is registered together with its derivative, because the
// backward pass needs the derivative evaluated at the neuron's output.
// All the neurons in any one layer use the same transfer function.
package transfer

import (
	"math"

	"github.com/pkg/errors"
)

// Func is a scalar transfer function or its derivative.
type Func func(x float64) float64

// Pair bundles a transfer function with its derivative.
type Pair struct {
	Name string
	F    Func
	D    Func
}

// Tanh is the default pair. Output ranges -1..+1.
var Tanh = Pair{Name: "tanh", F: math.Tanh, D: func(x float64) float64 {
	t := math.Tanh(x)
	return 1.0 - t*t
}}

// Logistic is a sigmoid that ranges 0..1.
var Logistic = Pair{
	Name: "logistic",
	F:    func(x float64) float64 { return 1.0 / (1.0 + math.Exp(-x)) },
	D: func(x float64) float64 {
		e := math.Exp(-x)
		return e / ((e + 1.0) * (e + 1.0))
	},
}

// Linear is a constant slope; ranges -inf..+inf.
var Linear = Pair{
	Name: "linear",
	F:    func(x float64) float64 { return x },
	D:    func(x float64) float64 { return 1.0 },
}

// Ramp is a clamped identity: constant slope for -1 <= x <= 1, flat
// elsewhere. Output ranges -1..+1.
var Ramp = Pair{
	Name: "ramp",
	F: func(x float64) float64 {
		if x < -1.0 {
			return -1.0
		}
		if x > 1.0 {
			return 1.0
		}
		return x
	},
	D: func(x float64) float64 {
		if x < -1.0 || x > 1.0 {
			return 0.0
		}
		return 1.0
	},
}

// Gaussian is exp(-x^2/2); output ranges 0..1.
var Gaussian = Pair{
	Name: "gaussian",
	F:    func(x float64) float64 { return math.Exp(-(x * x) / 2.0) },
	D:    func(x float64) float64 { return -x * math.Exp(-(x*x)/2.0) },
}

// ReLU is a softplus approximation of a rectified linear unit.
var ReLU = Pair{
	Name: "relu",
	F:    func(x float64) float64 { return math.Log(1.0 + math.Exp(x)) },
	D:    func(x float64) float64 { return 1.0 / (1.0 + math.Exp(-x)) },
}

// Identity passes its input through unchanged. Convolution filter layers
// use this pair regardless of the name declared for them.
var Identity = Pair{
	Name: "identity",
	F:    func(x float64) float64 { return x },
	D:    func(x float64) float64 { return 1.0 },
}

var registry = map[string]Pair{
	"tanh":     Tanh,
	"logistic": Logistic,
	"linear":   Linear,
	"ramp":     Ramp,
	"gaussian": Gaussian,
	"relu":     ReLU,
	"identity": Identity,
}

// Lookup resolves a transfer function name to its (function, derivative)
// pair. The empty string selects the default, tanh. An unknown name is a
// configuration error.
func Lookup(name string) (Pair, error) {
	if name == "" {
		return Tanh, nil
	}
	if p, ok := registry[name]; ok {
		return p, nil
	}
	return Pair{}, errors.Errorf("undefined transfer function %q", name)
}

// Known reports whether name resolves to a registered transfer function.
func Known(name string) bool {
	_, err := Lookup(name)
	return err == nil
}
