// Copyright 2026 Lamina ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lamina-ml/lamina/internal/topology"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), "topology.yaml")
	require.NoError(t, os.WriteFile(file, []byte(content), 0o644))
	return file
}

const mnistStyle = `
net:
  eta: 0.05
  alpha: 0.2
  dynamic-eta: true
  seed: 7
layers:
  - name: input
    size: 32x32
    channel: BW
  - name: conv1
    from: input
    kind: convolution-network
    size: 10*28x28
    kernel-size: 5x5
    tf: relu
  - name: pool1
    from: conv1
    kind: pooling
    size: 10*14x14
    pool: max 2x2
  - name: output
    from: pool1
    size: 10
    tf: logistic
`

func TestLoadFullConfig(t *testing.T) {
	f, err := Load(writeConfig(t, mnistStyle))
	require.NoError(t, err)

	assert.Equal(t, 0.05, f.Net.Eta)
	assert.Equal(t, 0.2, f.Net.Alpha)
	assert.True(t, f.Net.DynamicEta)
	assert.Equal(t, int64(7), f.Net.Seed)

	specs, err := f.LayerSpecs()
	require.NoError(t, err)
	require.Len(t, specs, 4)

	assert.Equal(t, topology.Size3{Depth: 1, X: 32, Y: 32}, specs[0].Size)
	assert.Equal(t, "BW", specs[0].Channel)

	conv := specs[1]
	assert.Equal(t, topology.ConvolutionNetwork, conv.Kind)
	assert.Equal(t, topology.Size3{Depth: 10, X: 28, Y: 28}, conv.Size)
	assert.Equal(t, topology.Size2{X: 5, Y: 5}, conv.KernelSize)
	assert.Equal(t, "relu", conv.TransferFunction)

	pool := specs[2]
	assert.Equal(t, topology.Pooling, pool.Kind)
	assert.Equal(t, topology.PoolMax, pool.PoolMethod)
	assert.Equal(t, topology.Size2{X: 2, Y: 2}, pool.PoolSize)

	out := specs[3]
	assert.Equal(t, topology.Regular, out.Kind)
	assert.Equal(t, topology.Size3{Depth: 1, X: 10, Y: 1}, out.Size)
	assert.Equal(t, 2, out.FromIndex)
}

func TestFilterKernelsFlattenRowMajor(t *testing.T) {
	f, err := Load(writeConfig(t, `
layers:
  - name: input
    size: 8x8
  - name: edges
    from: input
    kind: convolution-filter
    size: 8x8
    kernels:
      - - [0, 1, 0]
        - [1, -4, 1]
        - [0, 1, 0]
`))
	require.NoError(t, err)

	specs, err := f.LayerSpecs()
	require.NoError(t, err)
	edges := specs[1]
	assert.Equal(t, topology.Size2{X: 3, Y: 3}, edges.KernelSize, "inferred from the rows")
	assert.Equal(t, []float64{0, 1, 0, 1, -4, 1, 0, 1, 0}, edges.Kernels[0])
}

func TestRadiusParsing(t *testing.T) {
	f, err := Load(writeConfig(t, `
layers:
  - name: input
    size: 16x16
  - name: output
    from: input
    size: 4x4
    radius: 2x3
`))
	require.NoError(t, err)
	specs, err := f.LayerSpecs()
	require.NoError(t, err)
	assert.True(t, specs[1].RadiusSpecified)
	assert.Equal(t, topology.Size2{X: 2, Y: 3}, specs[1].Radius)
}

func TestConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"no layers", "net:\n  eta: 0.1\n"},
		{"bad yaml", "layers: ["},
		{"unknown kind", `
layers:
  - name: input
    size: 4x4
  - name: output
    from: input
    kind: recurrent
    size: 2x2
`},
		{"bad size", `
layers:
  - name: input
    size: 4by4
  - name: output
    from: input
    size: 2x2
`},
		{"bad pool", `
layers:
  - name: input
    size: 4x4
  - name: output
    from: input
    kind: pooling
    size: 2x2
    pool: median 2x2
`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Load(writeConfig(t, tt.content))
			if err == nil {
				_, err = f.LayerSpecs()
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrConfigFile))
		})
	}
}

func TestTopologyErrorsSurfaceFromLayerSpecs(t *testing.T) {
	f, err := Load(writeConfig(t, `
layers:
  - name: input
    size: 4x4
  - name: output
    from: nowhere
    size: 2x2
`))
	require.NoError(t, err)
	_, err = f.LayerSpecs()
	require.Error(t, err)
	assert.True(t, errors.Is(err, topology.ErrTopology))
}
