// Copyright 2026 Lamina ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nnet implements a configurable feed-forward neural network
// simulator operating on per-neuron scalars and explicit connection lists.
//
// A Net is built from an ordered, validated list of layer specifications
// (see the topology package). Construction wires four kinds of layers
// (regular, convolution-filter, convolution-network, pooling), each of
// which projects a destination neuron's coordinates onto its source layer
// through a kind-specific window rule. Training is plain backpropagation
// with momentum, with convolution-network kernels trained through
// per-kernel-element gradient accumulation because many neurons share one
// kernel weight.
//
// Example:
//
//	net := nnet.New(nnet.Config{Eta: 0.1, Alpha: 0.1, Seed: 1})
//	if err := net.Configure(specs); err != nil {
//	    log.Fatal(err)
//	}
//	net.FeedForward(inputs)
//	if err := net.BackProp(targets); err != nil {
//	    log.Fatal(err)
//	}
package nnet

import (
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/pkg/errors"

	"github.com/lamina-ml/lamina/internal/topology"
)

// Config holds the construction-time network parameters. The zero value
// selects the defaults noted on each field.
type Config struct {
	Eta    float64 // learning rate (default 0.01)
	Alpha  float64 // momentum, multiplier of the last delta weight (default 0.1)
	Lambda float64 // regularization strength; 0 disables

	// DynamicEta enables automatic learning-rate adjustment driven by the
	// running average error.
	DynamicEta bool

	// ProjectRectangular selects rectangular instead of elliptical
	// projection windows for radius-limited regular layers. It cannot be
	// changed after the network is wired.
	ProjectRectangular bool

	// RecentErrorSmoothing is the number of samples the running average
	// error is smoothed over (default 125).
	RecentErrorSmoothing float64

	// Seed seeds the weight-initialization RNG; 0 means time-based.
	Seed int64
}

// Net owns the layers, the connection arena, and the bias unit, and
// sequences construction, forward evaluation, and backward training.
//
// The exported fields are runtime-tunable parameters; they may be adjusted
// between samples (the command interpreter does exactly that).
type Net struct {
	Eta            float64
	Alpha          float64
	Lambda         float64
	DynamicEta     bool
	EnableTraining bool

	// Error is the overall net error of the most recent sample with known
	// targets; RecentAverageError smooths it over RecentErrorSmoothing
	// samples.
	Error                float64
	RecentAverageError   float64
	RecentErrorSmoothing float64

	// InputSampleNumber increments on every FeedForward call.
	InputSampleNumber int

	projectRectangular bool

	layers []Layer
	byName map[string]int
	arena  *arena

	// bias is a synthetic neuron with constant output 1.0 that feeds one
	// weighted connection to every regular-layer neuron. It is created
	// once and outlives all layers.
	bias Neuron

	lastRecentAverageError float64
	totalBackConnections   int
	totalNeurons           int
	rng                    *rand.Rand
}

// New creates an empty network. Call Configure to build layers and
// connections before feeding samples.
func New(cfg Config) *Net {
	if cfg.Eta == 0 {
		cfg.Eta = 0.01
	}
	if cfg.Alpha == 0 {
		cfg.Alpha = 0.1
	}
	if cfg.RecentErrorSmoothing == 0 {
		cfg.RecentErrorSmoothing = 125.0
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	net := &Net{
		Eta:                    cfg.Eta,
		Alpha:                  cfg.Alpha,
		Lambda:                 cfg.Lambda,
		DynamicEta:             cfg.DynamicEta,
		EnableTraining:         true,
		Error:                  1.0,
		RecentAverageError:     1.0,
		RecentErrorSmoothing:   cfg.RecentErrorSmoothing,
		projectRectangular:     cfg.ProjectRectangular,
		byName:                 make(map[string]int),
		arena:                  &arena{},
		lastRecentAverageError: 1.0,
		rng:                    rand.New(rand.NewSource(seed)),
	}
	net.bias.Output = 1.0
	return net
}

// Configure builds layers, neurons, and connections from an ordered,
// already-validated specification list. A spec whose layer name was
// already created adds the connections of its additional source layer to
// the existing layer; duplicate edges are suppressed.
func (net *Net) Configure(specs []topology.LayerSpec) error {
	if err := topology.Validate(specs); err != nil {
		return err
	}

	for i := range specs {
		spec := &specs[i]

		if idx, exists := net.byName[spec.Name]; exists {
			// Repeat declaration: wire the additional source into the
			// existing layer. Bias edges were already created on the
			// first pass and are not repeated.
			net.connectLayers(net.layers[idx], net.layers[net.layerIndex(spec.From)])
			continue
		}

		info.Printf("creating layer %s (%s %d*%dx%d)",
			spec.Name, spec.Kind, spec.Size.Depth, spec.Size.X, spec.Size.Y)

		l, err := newLayer(spec, net.arena, net.rng, net.projectRectangular)
		if err != nil {
			return err
		}
		net.byName[spec.Name] = len(net.layers)
		net.layers = append(net.layers, l)
		net.totalNeurons += spec.Size.Depth * spec.Size.X * spec.Size.Y

		if spec.Name == "input" {
			continue
		}

		// Regular layers get their bias inputs first, before the sample
		// edges of the first wiring pass; no other kind carries bias.
		if spec.Kind == topology.Regular {
			net.connectBias(l)
		}
		net.connectLayers(l, net.layers[net.layerIndex(spec.From)])
	}

	net.layers[len(net.layers)-1].base().isOutput = true

	net.finishConstruction()
	return nil
}

func (net *Net) layerIndex(name string) int {
	idx, ok := net.byName[name]
	if !ok {
		panic(fmt.Sprintf("nnet: source layer %q not constructed", name))
	}
	return idx
}

// finishConstruction releases the duplicate-detection sets and reports
// probably-unintended topology: a neuron with no forward connections in a
// non-output layer feeds nothing, which is worth a warning but is not an
// error.
func (net *Net) finishConstruction() {
	noSink := 0
	for li, l := range net.layers {
		b := l.base()
		for d := range b.planes {
			plane := b.planes[d]
			for i := range plane {
				plane[i].releaseConstructionState()
				if li < len(net.layers)-1 && len(plane[i].Forward) == 0 {
					noSink++
				}
			}
		}
	}
	if noSink > 0 {
		warn.Printf("%d neurons have no forward connections; check the topology", noSink)
	}
}

// FeedForward copies the sample data into the input layer and evaluates
// every subsequent layer in declaration order.
//
// A sample whose length differs from the input layer's neuron count is
// used as far as it overlaps: one bad sample should not halt a long
// training session, so the mismatch is logged, not fatal.
func (net *Net) FeedForward(data []float64) {
	net.InputSampleNumber++

	input := net.layers[0].base().planes[0]
	if len(data) != len(input) {
		warn.Printf("sample %d has %d components, input layer expects %d",
			net.InputSampleNumber, len(data), len(input))
	}
	n := len(data)
	if n > len(input) {
		n = len(input)
	}
	for i := 0; i < n; i++ {
		input[i].Output = data[i]
	}

	for _, l := range net.layers[1:] {
		l.FeedForward()
	}
}

// BackProp computes gradients from the output layer backward and applies
// one weight update with momentum. It does nothing when training is
// disabled.
func (net *Net) BackProp(targets []float64) error {
	if !net.EnableTraining {
		return nil
	}

	out := net.layers[len(net.layers)-1].base()
	if len(targets) != out.size.X*out.size.Y {
		return errors.Errorf("wrong number of target values: got %d, want %d",
			len(targets), out.size.X*out.size.Y)
	}

	for i := len(net.layers) - 1; i > 0; i-- {
		net.layers[i].CalcGradients(targets)
	}
	for i := len(net.layers) - 1; i > 0; i-- {
		net.layers[i].UpdateWeights(net.Eta, net.Alpha)
	}

	if net.DynamicEta {
		net.Eta = net.adjustedEta()
	}
	return nil
}

// ComputeError updates Error and RecentAverageError from the output
// neurons and the target values. With no targets known, Error is zeroed
// and the running average is left alone.
func (net *Net) ComputeError(targets []float64) {
	net.Error = 0
	if len(targets) == 0 {
		return
	}

	out := net.layers[len(net.layers)-1].base().planes[0]
	n := len(targets)
	if len(out) != n {
		warn.Printf("sample %d: %d target values for %d output neurons",
			net.InputSampleNumber, n, len(out))
		if len(out) < n {
			n = len(out)
		}
	}
	for i := 0; i < n; i++ {
		delta := targets[i] - out[i].Output
		net.Error += delta * delta
	}
	net.Error /= 2.0 * float64(len(out))

	// The sum-of-squared-weights penalty covers per-connection weights
	// only; shared convolution kernel weights are excluded.
	if net.Lambda != 0 {
		sum := 0.0
		for i := range net.arena.conns {
			w := net.arena.conns[i].Weight
			sum += w * w
		}
		if denom := net.totalBackConnections - net.totalNeurons; denom > 0 {
			net.Error += sum * net.Lambda / (2.0 * float64(denom))
		}
	}

	net.lastRecentAverageError = net.RecentAverageError
	net.RecentAverageError =
		(net.RecentAverageError*net.RecentErrorSmoothing + net.Error) /
			(net.RecentErrorSmoothing + 1.0)
}

// adjustedEta nudges the learning rate based on the relative change of the
// running average error: shrink when the error worsened beyond a small
// threshold, grow when it improved beyond a larger one.
func (net *Net) adjustedEta() float64 {
	const (
		thresholdUp   = 0.001 // ignore error increases smaller than this
		thresholdDown = 0.01  // ignore error decreases smaller than this
		factorUp      = 1.005
		factorDown    = 0.999
	)

	if net.RecentAverageError == 0 {
		return net.Eta
	}
	errorGradient := (net.RecentAverageError - net.lastRecentAverageError) / net.RecentAverageError
	if errorGradient > thresholdUp {
		return factorDown * net.Eta
	}
	if errorGradient < -thresholdDown {
		return factorUp * net.Eta
	}
	return net.Eta
}

// OutputValues returns the outputs of the final layer's first plane in
// index order.
func (net *Net) OutputValues() []float64 {
	out := net.layers[len(net.layers)-1].base().planes[0]
	vals := make([]float64, len(out))
	for i := range out {
		vals[i] = out[i].Output
	}
	return vals
}

// Layers returns the layer list in construction order.
func (net *Net) Layers() []Layer { return net.layers }

// LayerByName returns the named layer, or nil.
func (net *Net) LayerByName(name string) Layer {
	if idx, ok := net.byName[name]; ok {
		return net.layers[idx]
	}
	return nil
}

// ConnectionCount returns the total number of connections in the arena,
// bias edges included.
func (net *Net) ConnectionCount() int { return net.arena.len() }

// BiasNeuron returns the network's bias unit.
func (net *Net) BiasNeuron() *Neuron { return &net.bias }

// InputChannel returns the color channel declared on the input layer.
func (net *Net) InputChannel() string {
	if l, ok := net.layers[0].(*regularLayer); ok {
		return l.channel
	}
	return ""
}

// DebugDump writes a per-layer topology summary.
func (net *Net) DebugDump(w io.Writer) {
	fmt.Fprintln(w, "net configuration (incl. bias connections):")
	for _, l := range net.layers {
		fmt.Fprintln(w, "  "+debugString(l))
	}
}
