// Copyright 2026 Lamina ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nnet

// Neuron is one unit of a layer plane. Neurons live in per-plane slices
// that are allocated once when their layer is created and never resized,
// so pointers to them stay valid; the connection lists hold indices into
// the growable connection arena instead.
type Neuron struct {
	Output   float64
	Gradient float64 // transient, recomputed every backward pass

	// Back lists the incoming edges (this neuron is the destination);
	// Forward lists the outgoing edges. Both hold arena indices.
	Back    []int32
	Forward []int32

	// sources tracks already-connected source neurons while the network
	// is being wired, to reject duplicate edges when a layer is
	// re-declared with an additional source. It is released as soon as
	// construction finishes.
	sources map[*Neuron]struct{}
}

func (n *Neuron) hasSource(src *Neuron) bool {
	_, ok := n.sources[src]
	return ok
}

func (n *Neuron) noteSource(src *Neuron) {
	if n.sources == nil {
		n.sources = make(map[*Neuron]struct{})
	}
	n.sources[src] = struct{}{}
}

// releaseConstructionState drops the duplicate-detection set; it is not
// part of the steady-state data model.
func (n *Neuron) releaseConstructionState() {
	n.sources = nil
}
