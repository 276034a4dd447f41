// Copyright 2026 Lamina ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nnet

// Connection is one directed edge in the network graph, from a source
// neuron to a destination neuron in a later layer (or from the bias unit).
//
// Weight and DeltaWeight are meaningful for regular layers only. For
// convolution layers the trainable (or fixed) weight lives in the owning
// layer's flattened kernel array and KernelIndex is the offset into it;
// pooling connections carry no weight at all.
//
// Connections are append-only: once created they are never deleted or
// moved, so an arena index identifies a connection for the lifetime of the
// network.
type Connection struct {
	From *Neuron
	To   *Neuron

	Weight      float64
	DeltaWeight float64 // weight change from the previous training iteration

	KernelIndex int
}

// arena is the single growable container of all Connection records. The
// backing slice may reallocate while the network is being wired, so neurons
// refer to connections by arena index, never by pointer.
type arena struct {
	conns []Connection
}

func (a *arena) add(c Connection) int32 {
	a.conns = append(a.conns, c)
	return int32(len(a.conns) - 1)
}

func (a *arena) at(i int32) *Connection {
	return &a.conns[i]
}

func (a *arena) len() int {
	return len(a.conns)
}
