// Copyright 2026 Lamina ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package topology defines the layer specification contract consumed by the
// network construction engine.
//
// A topology is an ordered list of LayerSpec values: the input layer first,
// the output layer last, every other layer drawing from one or more
// previously declared layers. A layer name may appear more than once; the
// repeats add further source layers to the already created layer. The engine
// assumes the list has already been validated and ordered; Validate is the
// producer side of that contract.
package topology

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/lamina-ml/lamina/internal/transfer"
)

// ErrTopology is the class of all topology specification errors.
var ErrTopology = errors.New("invalid topology")

// Kind discriminates the four layer kinds.
type Kind int

const (
	// Regular layers use per-connection weights and a radius-limited
	// (default: whole-layer) projection window.
	Regular Kind = iota

	// ConvolutionFilter layers apply a fixed, untrained kernel.
	ConvolutionFilter

	// ConvolutionNetwork layers train one kernel per depth plane, shared
	// across all spatial positions of the plane.
	ConvolutionNetwork

	// Pooling layers reduce their window by max or average, without
	// weights.
	Pooling
)

func (k Kind) String() string {
	switch k {
	case Regular:
		return "regular"
	case ConvolutionFilter:
		return "convolution-filter"
	case ConvolutionNetwork:
		return "convolution-network"
	case Pooling:
		return "pooling"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// PoolMethod selects the reduction a pooling layer applies.
type PoolMethod int

const (
	PoolNone PoolMethod = iota
	PoolMax
	PoolAvg
)

func (m PoolMethod) String() string {
	switch m {
	case PoolMax:
		return "max"
	case PoolAvg:
		return "avg"
	default:
		return "none"
	}
}

// Size3 is a layer geometry: depth planes of X by Y neurons.
type Size3 struct {
	Depth int
	X     int
	Y     int
}

// Size2 holds a radius, kernel, or pool window size in units of neurons.
type Size2 struct {
	X int
	Y int
}

// HugeRadius is the effective radius of a regular layer that did not
// declare one: it covers any source layer after window clipping.
const HugeRadius = 999999

// LayerSpec is one layer declaration.
//
// FromIndex is the index of the source layer within the containing spec
// list; Validate resolves it from From. The input layer has no source.
type LayerSpec struct {
	Name      string
	From      string
	FromIndex int
	Kind      Kind
	Size      Size3

	// Radius applies to regular layers only. When RadiusSpecified is
	// false the layer is fully connected (HugeRadius).
	Radius          Size2
	RadiusSpecified bool

	// TransferFunction is a transfer registry name; empty selects the
	// default. Ignored by pooling layers, forced to identity by
	// convolution filter layers.
	TransferFunction string

	// Channel names the color channel decoders should extract for input
	// samples ("R", "G", "B", "BW"). Meaningful on the input layer only.
	Channel string

	// Convolution parameters. Kernels holds one flattened kernel per
	// depth plane, indexed ky*KernelSize.X + kx. For filter layers the
	// values are the fixed filter; for network layers the engine
	// initializes them and Kernels may be nil.
	KernelSize Size2
	Kernels    [][]float64

	// Pooling parameters.
	PoolMethod PoolMethod
	PoolSize   Size2
}

// EffectiveRadius returns the declared radius, or HugeRadius in both axes
// when none was declared.
func (s *LayerSpec) EffectiveRadius() Size2 {
	if s.RadiusSpecified {
		return s.Radius
	}
	return Size2{X: HugeRadius, Y: HugeRadius}
}

// DepthCompatible reports whether a source layer of depth from may feed a
// destination layer of depth to and kind k:
//
//   - from == 1: always (everything connects to the single source plane)
//   - from == to: always (plane-to-matching-plane)
//   - from > to: regular and pooling destinations only (full fan-in)
//
// Any other combination cannot be wired meaningfully.
func DepthCompatible(from, to int, k Kind) bool {
	switch {
	case from == 1 || from == to:
		return true
	case from > to:
		return k == Regular || k == Pooling
	default:
		return false
	}
}

// Validate checks an ordered spec list against the construction contract
// and resolves every FromIndex from its From name. It enforces:
//
//   - exactly one layer named "input", declared first, without a source
//   - at least two layers, with the last acting as the output layer
//   - positive dimensions everywhere, non-zero kernel/pool windows on
//     convolution/pooling layers, kernel value planes matching the depth
//     on filter layers
//   - every From naming an earlier layer
//   - known transfer function names
//   - depth compatibility between each layer and each of its sources
//
// Validate mutates the slice only by filling in FromIndex.
func Validate(specs []LayerSpec) error {
	if len(specs) < 2 {
		return errors.Wrap(ErrTopology, "need at least an input and an output layer")
	}

	index := make(map[string]int) // name -> index of first declaration
	for i := range specs {
		s := &specs[i]

		if s.Name == "" {
			return errors.Wrapf(ErrTopology, "layer %d has no name", i)
		}
		if s.Size.Depth <= 0 || s.Size.X <= 0 || s.Size.Y <= 0 {
			return errors.Wrapf(ErrTopology, "layer %q has non-positive size %d*%dx%d",
				s.Name, s.Size.Depth, s.Size.X, s.Size.Y)
		}

		if i == 0 {
			if s.Name != "input" {
				return errors.Wrap(ErrTopology, "first layer must be named \"input\"")
			}
			if s.From != "" {
				return errors.Wrap(ErrTopology, "input layer cannot have a source layer")
			}
			if s.Kind != Regular {
				return errors.Wrap(ErrTopology, "input layer must be a regular layer")
			}
			index[s.Name] = 0
			continue
		}
		if s.Name == "input" {
			return errors.Wrap(ErrTopology, "layer \"input\" may be declared only once")
		}

		from, ok := index[s.From]
		if !ok {
			return errors.Wrapf(ErrTopology, "layer %q drawn from undeclared layer %q", s.Name, s.From)
		}
		s.FromIndex = from

		if _, seen := index[s.Name]; !seen {
			index[s.Name] = i
		} else if prev := specs[index[s.Name]]; prev.Size != s.Size || prev.Kind != s.Kind {
			return errors.Wrapf(ErrTopology, "layer %q re-declared with different geometry or kind", s.Name)
		}

		if !transfer.Known(s.TransferFunction) && s.TransferFunction != "" {
			return errors.Wrapf(ErrTopology, "layer %q: unknown transfer function %q", s.Name, s.TransferFunction)
		}

		switch s.Kind {
		case ConvolutionFilter, ConvolutionNetwork:
			if s.KernelSize.X <= 0 || s.KernelSize.Y <= 0 {
				return errors.Wrapf(ErrTopology, "layer %q has zero kernel size", s.Name)
			}
			if s.Kind == ConvolutionFilter {
				if len(s.Kernels) != s.Size.Depth {
					return errors.Wrapf(ErrTopology,
						"layer %q declares %d kernel planes for depth %d",
						s.Name, len(s.Kernels), s.Size.Depth)
				}
				for d, k := range s.Kernels {
					if len(k) != s.KernelSize.X*s.KernelSize.Y {
						return errors.Wrapf(ErrTopology,
							"layer %q kernel plane %d has %d elements, want %d",
							s.Name, d, len(k), s.KernelSize.X*s.KernelSize.Y)
					}
				}
			}
		case Pooling:
			if s.PoolSize.X <= 0 || s.PoolSize.Y <= 0 {
				return errors.Wrapf(ErrTopology, "layer %q has zero pool size", s.Name)
			}
			if s.PoolMethod != PoolMax && s.PoolMethod != PoolAvg {
				return errors.Wrapf(ErrTopology, "layer %q has no pool method", s.Name)
			}
		}

		srcDepth := specs[from].Size.Depth
		if !DepthCompatible(srcDepth, s.Size.Depth, s.Kind) {
			return errors.Wrapf(ErrTopology,
				"layer %q (depth %d, %s) cannot be fed from %q (depth %d)",
				s.Name, s.Size.Depth, s.Kind, s.From, srcDepth)
		}
	}

	return nil
}
