// Copyright 2026 Lamina ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nnet

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lamina-ml/lamina/internal/topology"
)

func persistenceSpecs() []topology.LayerSpec {
	return []topology.LayerSpec{
		inputSpec(3, 3),
		{Name: "conv", From: "input", Kind: topology.ConvolutionNetwork,
			Size:       topology.Size3{Depth: 2, X: 3, Y: 3},
			KernelSize: topology.Size2{X: 3, Y: 3}},
		{Name: "pool", From: "conv", Kind: topology.Pooling,
			Size:       topology.Size3{Depth: 2, X: 3, Y: 3},
			PoolMethod: topology.PoolMax, PoolSize: topology.Size2{X: 1, Y: 1}},
		{Name: "output", From: "pool", Kind: topology.Regular,
			Size: topology.Size3{Depth: 1, X: 2, Y: 1}},
	}
}

// regularWeights collects the per-connection weights of all regular layers
// in persistence order.
func regularWeights(net *Net) []float64 {
	var out []float64
	for _, l := range net.layers {
		rl, ok := l.(*regularLayer)
		if !ok {
			continue
		}
		for _, plane := range rl.planes {
			for i := range plane {
				for _, idx := range plane[i].Back {
					out = append(out, rl.arena.at(idx).Weight)
				}
			}
		}
	}
	return out
}

func kernels(net *Net, name string) [][]float64 {
	return net.LayerByName(name).(*convNetworkLayer).kernels
}

func TestSaveLoadRoundTrip(t *testing.T) {
	file := filepath.Join(t.TempDir(), "weights.txt")

	a := buildNet(t, Config{Seed: 3}, persistenceSpecs())
	require.NoError(t, a.SaveWeights(file))

	// A net built from the same topology but different random weights must
	// end up identical after loading.
	b := buildNet(t, Config{Seed: 99}, persistenceSpecs())
	require.NotEqual(t, regularWeights(a), regularWeights(b))
	require.NoError(t, b.LoadWeights(file))

	assert.Equal(t, regularWeights(a), regularWeights(b))
	assert.Equal(t, kernels(a, "conv"), kernels(b, "conv"))
}

func TestSaveWritesOneValuePerLine(t *testing.T) {
	file := filepath.Join(t.TempDir(), "weights.txt")
	net := buildNet(t, Config{Seed: 3}, persistenceSpecs())
	require.NoError(t, net.SaveWeights(file))

	raw, err := os.ReadFile(file)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(raw), "\n"), "\n")

	// Fixed filter kernels and pooling layers persist nothing: the file
	// holds the conv kernels plus the output layer's connections.
	convVals := 2 * 9
	outVals := len(regularWeights(net)) // output layer only; input has no back edges
	assert.Len(t, lines, convVals+outVals)
}

func TestLoadToleratesShortFile(t *testing.T) {
	dir := t.TempDir()
	full := filepath.Join(dir, "full.txt")
	short := filepath.Join(dir, "short.txt")

	a := buildNet(t, Config{Seed: 3}, persistenceSpecs())
	require.NoError(t, a.SaveWeights(full))

	raw, err := os.ReadFile(full)
	require.NoError(t, err)
	lines := strings.SplitAfter(string(raw), "\n")
	require.NoError(t, os.WriteFile(short, []byte(strings.Join(lines[:2], "")), 0o644))

	b := buildNet(t, Config{Seed: 99}, persistenceSpecs())
	before := kernels(b, "conv")[0][2]
	require.NoError(t, b.LoadWeights(short))

	// The first two kernel values come from the file; everything after the
	// end of file keeps its previous value.
	assert.Equal(t, kernels(a, "conv")[0][0], kernels(b, "conv")[0][0])
	assert.Equal(t, kernels(a, "conv")[0][1], kernels(b, "conv")[0][1])
	assert.Equal(t, before, kernels(b, "conv")[0][2])
}

func TestLoadRejectsMalformedLine(t *testing.T) {
	file := filepath.Join(t.TempDir(), "weights.txt")
	require.NoError(t, os.WriteFile(file, []byte("0.5\nnot-a-number\n"), 0o644))

	net := buildNet(t, Config{Seed: 3}, persistenceSpecs())
	err := net.LoadWeights(file)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrWeightsFile))
}

func TestLoadMissingFile(t *testing.T) {
	net := buildNet(t, Config{Seed: 3}, persistenceSpecs())
	err := net.LoadWeights(filepath.Join(t.TempDir(), "absent.txt"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrWeightsFile))
}
