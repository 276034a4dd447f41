// Copyright 2026 Lamina ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package topology exposes the layer specification types used to describe
// a network before construction.
package topology

import "github.com/lamina-ml/lamina/internal/topology"

// LayerSpec is one layer declaration.
type LayerSpec = topology.LayerSpec

// Kind discriminates the four layer kinds.
type Kind = topology.Kind

const (
	Regular            = topology.Regular
	ConvolutionFilter  = topology.ConvolutionFilter
	ConvolutionNetwork = topology.ConvolutionNetwork
	Pooling            = topology.Pooling
)

// PoolMethod selects the reduction a pooling layer applies.
type PoolMethod = topology.PoolMethod

const (
	PoolMax = topology.PoolMax
	PoolAvg = topology.PoolAvg
)

// Size3 is a layer geometry: depth planes of X by Y neurons.
type Size3 = topology.Size3

// Size2 holds a radius, kernel, or pool window size in units of neurons.
type Size2 = topology.Size2

// ErrTopology is the class of all topology specification errors.
var ErrTopology = topology.ErrTopology

// Validate checks an ordered spec list against the construction contract.
func Validate(specs []LayerSpec) error {
	return topology.Validate(specs)
}
