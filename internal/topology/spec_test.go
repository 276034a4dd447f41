// Copyright 2026 Lamina ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package topology

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func input(x, y int) LayerSpec {
	return LayerSpec{Name: "input", Kind: Regular, Size: Size3{Depth: 1, X: x, Y: y}}
}

func TestValidateResolvesSourceIndices(t *testing.T) {
	specs := []LayerSpec{
		input(4, 4),
		{Name: "hidden", From: "input", Kind: Regular, Size: Size3{Depth: 1, X: 3, Y: 3}},
		{Name: "output", From: "hidden", Kind: Regular, Size: Size3{Depth: 1, X: 1, Y: 1}},
	}
	require.NoError(t, Validate(specs))
	assert.Equal(t, 0, specs[1].FromIndex)
	assert.Equal(t, 1, specs[2].FromIndex)
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name  string
		specs []LayerSpec
	}{
		{
			"too few layers",
			[]LayerSpec{input(2, 2)},
		},
		{
			"first layer not input",
			[]LayerSpec{
				{Name: "in", Kind: Regular, Size: Size3{1, 2, 2}},
				{Name: "output", From: "in", Kind: Regular, Size: Size3{1, 1, 1}},
			},
		},
		{
			"input with source",
			[]LayerSpec{
				{Name: "input", From: "x", Kind: Regular, Size: Size3{1, 2, 2}},
				{Name: "output", From: "input", Kind: Regular, Size: Size3{1, 1, 1}},
			},
		},
		{
			"undeclared source",
			[]LayerSpec{
				input(2, 2),
				{Name: "output", From: "phantom", Kind: Regular, Size: Size3{1, 1, 1}},
			},
		},
		{
			"forward reference",
			[]LayerSpec{
				input(2, 2),
				{Name: "a", From: "b", Kind: Regular, Size: Size3{1, 2, 2}},
				{Name: "b", From: "input", Kind: Regular, Size: Size3{1, 1, 1}},
			},
		},
		{
			"zero size",
			[]LayerSpec{
				input(2, 2),
				{Name: "output", From: "input", Kind: Regular, Size: Size3{1, 0, 1}},
			},
		},
		{
			"unknown transfer function",
			[]LayerSpec{
				input(2, 2),
				{Name: "output", From: "input", Kind: Regular, Size: Size3{1, 1, 1},
					TransferFunction: "softmax"},
			},
		},
		{
			"convolution without kernel size",
			[]LayerSpec{
				input(4, 4),
				{Name: "output", From: "input", Kind: ConvolutionNetwork, Size: Size3{1, 4, 4}},
			},
		},
		{
			"filter kernel plane count mismatch",
			[]LayerSpec{
				input(4, 4),
				{Name: "output", From: "input", Kind: ConvolutionFilter,
					Size: Size3{2, 4, 4}, KernelSize: Size2{3, 3},
					Kernels: [][]float64{make([]float64, 9)}},
			},
		},
		{
			"filter kernel element count mismatch",
			[]LayerSpec{
				input(4, 4),
				{Name: "output", From: "input", Kind: ConvolutionFilter,
					Size: Size3{1, 4, 4}, KernelSize: Size2{3, 3},
					Kernels: [][]float64{make([]float64, 4)}},
			},
		},
		{
			"pooling without method",
			[]LayerSpec{
				input(4, 4),
				{Name: "output", From: "input", Kind: Pooling,
					Size: Size3{1, 2, 2}, PoolSize: Size2{2, 2}},
			},
		},
		{
			"incompatible depth fan-in",
			[]LayerSpec{
				input(4, 4),
				{Name: "conv", From: "input", Kind: ConvolutionNetwork,
					Size: Size3{3, 4, 4}, KernelSize: Size2{3, 3}},
				{Name: "output", From: "conv", Kind: ConvolutionNetwork,
					Size: Size3{2, 4, 4}, KernelSize: Size2{3, 3}},
			},
		},
		{
			"re-declared with different geometry",
			[]LayerSpec{
				input(4, 4),
				{Name: "mid", From: "input", Kind: Regular, Size: Size3{1, 3, 3}},
				{Name: "mid", From: "input", Kind: Regular, Size: Size3{1, 2, 2}},
				{Name: "output", From: "mid", Kind: Regular, Size: Size3{1, 1, 1}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.specs)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrTopology), "want ErrTopology, got %v", err)
		})
	}
}

func TestValidateAcceptsRepeatDeclaration(t *testing.T) {
	specs := []LayerSpec{
		input(4, 4),
		{Name: "a", From: "input", Kind: Regular, Size: Size3{1, 3, 3}},
		{Name: "b", From: "input", Kind: Regular, Size: Size3{1, 3, 3}},
		{Name: "mix", From: "a", Kind: Regular, Size: Size3{1, 2, 2}},
		{Name: "mix", From: "b", Kind: Regular, Size: Size3{1, 2, 2}},
		{Name: "output", From: "mix", Kind: Regular, Size: Size3{1, 1, 1}},
	}
	require.NoError(t, Validate(specs))
	assert.Equal(t, 1, specs[3].FromIndex)
	assert.Equal(t, 2, specs[4].FromIndex)
}

func TestDepthCompatible(t *testing.T) {
	assert.True(t, DepthCompatible(1, 5, ConvolutionNetwork))
	assert.True(t, DepthCompatible(5, 5, ConvolutionNetwork))
	assert.True(t, DepthCompatible(5, 1, Regular))
	assert.True(t, DepthCompatible(5, 1, Pooling))
	assert.False(t, DepthCompatible(5, 1, ConvolutionNetwork))
	assert.False(t, DepthCompatible(2, 5, Regular))
}

func TestEffectiveRadius(t *testing.T) {
	s := LayerSpec{Radius: Size2{2, 3}, RadiusSpecified: true}
	assert.Equal(t, Size2{2, 3}, s.EffectiveRadius())

	s = LayerSpec{}
	assert.Equal(t, Size2{HugeRadius, HugeRadius}, s.EffectiveRadius())
}
