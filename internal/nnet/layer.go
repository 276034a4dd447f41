// Copyright 2026 Lamina ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nnet

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/lamina-ml/lamina/internal/topology"
	"github.com/lamina-ml/lamina/internal/transfer"
)

// Layer is the common contract of the four layer kinds. Each kind differs
// in how it feeds forward, how it computes gradients, and where (if
// anywhere) its weights live; the orchestrator dispatches once per layer
// per pass.
type Layer interface {
	// FeedForward computes the output of every neuron in the layer from
	// the outputs of its source neurons.
	FeedForward()

	// CalcGradients computes the error gradient of every neuron. The
	// targets are consulted only by the output layer.
	CalcGradients(targets []float64)

	// UpdateWeights applies one training step with learning rate eta and
	// momentum alpha. Pooling and filter kernels are not trained.
	UpdateWeights(eta, alpha float64)

	base() *layerBase
}

// layerBase carries the state common to all layer kinds. Geometry is
// immutable after construction.
type layerBase struct {
	name     string
	kind     topology.Kind
	size     topology.Size3
	radius   topology.Size2
	isOutput bool

	projectRectangular bool

	tf      transfer.Func
	tfDeriv transfer.Func
	tfName  string

	// planes[depth] is a flat row-major plane of neurons, index y*X + x.
	planes [][]Neuron

	arena *arena

	totalBackConnections int
}

func (l *layerBase) base() *layerBase { return l }

// Name returns the layer's declared name.
func (l *layerBase) Name() string { return l.name }

// Kind returns the layer kind.
func (l *layerBase) Kind() topology.Kind { return l.kind }

// Size returns the layer geometry.
func (l *layerBase) Size() topology.Size3 { return l.size }

// BackConnections returns the number of incoming edges of the layer,
// including bias edges.
func (l *layerBase) BackConnections() int { return l.totalBackConnections }

// flat converts plane coordinates to the row-major plane index.
func (l *layerBase) flat(x, y int) int {
	return y*l.size.X + x
}

// Neuron returns the neuron at (depth, x, y).
func (l *layerBase) Neuron(depth, x, y int) *Neuron {
	return &l.planes[depth][l.flat(x, y)]
}

// sumDOW sums, over the neuron's forward connections, the product of the
// connection weight and the downstream gradient. This is the hidden-layer
// contribution of the errors at the neurons this one feeds.
func (l *layerBase) sumDOW(n *Neuron) float64 {
	sum := 0.0
	for _, idx := range n.Forward {
		c := l.arena.at(idx)
		sum += c.Weight * c.To.Gradient
	}
	return sum
}

// calcOutputGradients computes (target - output) * tfDeriv(output) for
// every neuron of plane 0. Output layers are depth 1 by convention.
func (l *layerBase) calcOutputGradients(targets []float64) {
	plane := l.planes[0]
	for i := range plane {
		n := &plane[i]
		delta := targets[i] - n.Output
		n.Gradient = delta * l.tfDeriv(n.Output)
	}
}

// regularLayer is a fully or sparsely connected layer with per-connection
// weights and a bias input per neuron.
type regularLayer struct {
	layerBase
	channel string // input layer only: color channel for sample decoding
}

// convLayer holds the state shared by the two convolution kinds: one
// flattened kernel per depth plane, indexed ky*kernelSize.X + kx, plus the
// gradient and pending-delta accumulators the network kind trains with.
// Kernels are layer-owned and shared by every spatial position; the
// connections carry only offsets into them.
type convLayer struct {
	layerBase
	kernelSize   topology.Size2
	kernels      [][]float64
	kernelGrads  [][]float64
	kernelDeltas [][]float64
}

// convFilterLayer applies a fixed kernel; it is never trained and always
// uses the identity transfer function.
type convFilterLayer struct {
	convLayer
}

// convNetworkLayer trains its kernels by backpropagation with the
// gradients of all sharing neurons accumulated per kernel element.
type convNetworkLayer struct {
	convLayer
}

// poolLayer reduces its projection window by max or average. It carries no
// weights, no bias, and no transfer function.
type poolLayer struct {
	layerBase
	method   topology.PoolMethod
	poolSize topology.Size2
}

// newLayer creates an empty layer of the kind the spec declares, with all
// neuron planes allocated (and, for convolution kinds, the kernel arrays).
// No connections are wired yet.
func newLayer(spec *topology.LayerSpec, a *arena, rng *rand.Rand, projectRectangular bool) (Layer, error) {
	tfPair, err := transfer.Lookup(spec.TransferFunction)
	if err != nil {
		return nil, err
	}
	if spec.Kind == topology.ConvolutionFilter {
		// Filter layers do linear filtering; the declared name is ignored.
		tfPair = transfer.Identity
	}

	base := layerBase{
		name:               spec.Name,
		kind:               spec.Kind,
		size:               spec.Size,
		radius:             spec.EffectiveRadius(),
		projectRectangular: projectRectangular,
		tf:                 tfPair.F,
		tfDeriv:            tfPair.D,
		tfName:             tfPair.Name,
		arena:              a,
	}
	base.planes = make([][]Neuron, spec.Size.Depth)
	for d := range base.planes {
		base.planes[d] = make([]Neuron, spec.Size.X*spec.Size.Y)
	}

	switch spec.Kind {
	case topology.Regular:
		return &regularLayer{layerBase: base, channel: spec.Channel}, nil

	case topology.ConvolutionFilter:
		l := &convFilterLayer{convLayer: newConvState(base, spec)}
		for d, kernel := range spec.Kernels {
			copy(l.kernels[d], kernel)
		}
		return l, nil

	case topology.ConvolutionNetwork:
		l := &convNetworkLayer{convLayer: newConvState(base, spec)}
		// Initialize each kernel once for the whole layer; connectivity
		// construction never touches the shared weights again.
		scale := 1.0 / math.Sqrt(float64(spec.Size.X*spec.Size.Y))
		for _, kernel := range l.kernels {
			for i := range kernel {
				kernel[i] = (rng.Float64()*2 - 1.0) * scale
			}
		}
		return l, nil

	case topology.Pooling:
		return &poolLayer{layerBase: base, method: spec.PoolMethod, poolSize: spec.PoolSize}, nil
	}

	return nil, fmt.Errorf("unknown layer kind %v", spec.Kind)
}

func newConvState(base layerBase, spec *topology.LayerSpec) convLayer {
	l := convLayer{layerBase: base, kernelSize: spec.KernelSize}
	cells := spec.KernelSize.X * spec.KernelSize.Y
	l.kernels = make([][]float64, spec.Size.Depth)
	l.kernelGrads = make([][]float64, spec.Size.Depth)
	l.kernelDeltas = make([][]float64, spec.Size.Depth)
	for d := 0; d < spec.Size.Depth; d++ {
		l.kernels[d] = make([]float64, cells)
		l.kernelGrads[d] = make([]float64, cells)
		l.kernelDeltas[d] = make([]float64, cells)
	}
	return l
}

// Kernel returns the flattened kernel of one depth plane. Valid for
// convolution layers only.
func (c *convLayer) Kernel(depth int) []float64 { return c.kernels[depth] }

// KernelSize returns the kernel dimensions.
func (c *convLayer) KernelSize() topology.Size2 { return c.kernelSize }

// debugString summarizes the layer for topology dumps.
func debugString(l Layer) string {
	b := l.base()
	fwd, back := 0, 0
	for _, plane := range b.planes {
		for i := range plane {
			fwd += len(plane[i].Forward)
			back += len(plane[i].Back)
		}
	}
	return fmt.Sprintf("%s: %s %d*%dx%d = %d neurons, %d back, %d forward connections",
		b.name, b.kind, b.size.Depth, b.size.X, b.size.Y,
		b.size.Depth*b.size.X*b.size.Y, back, fwd)
}
