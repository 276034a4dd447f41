// Copyright 2026 Lamina ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nnet

// CalcGradients is the shared gradient rule for layers whose weights live
// on the connections (regular and convolution-filter layers): the output
// layer compares against the targets, hidden layers sum their
// contributions to the downstream errors.
func (l *layerBase) CalcGradients(targets []float64) {
	if l.isOutput {
		l.calcOutputGradients(targets)
		return
	}
	for d := range l.planes {
		plane := l.planes[d]
		for i := range plane {
			n := &plane[i]
			n.Gradient = l.sumDOW(n) * l.tfDeriv(n.Output)
		}
	}
}

// CalcGradients for a convolution network layer. The downstream
// contributions are weighted by the layer's own kernel at each forward
// connection's kernel index, and every neuron's gradient is accumulated
// into the layer-level per-kernel-element accumulator through its back
// connections: many neurons share one kernel weight, and the accumulator,
// not the per-neuron gradient, drives the weight update.
func (l *convNetworkLayer) CalcGradients(targets []float64) {
	for d := range l.planes {
		kernel := l.kernels[d]
		grads := l.kernelGrads[d]
		plane := l.planes[d]
		for i := range plane {
			n := &plane[i]
			if l.isOutput {
				delta := targets[i] - n.Output
				n.Gradient = delta * l.tfDeriv(n.Output)
			} else {
				sum := 0.0
				for _, idx := range n.Forward {
					c := l.arena.at(idx)
					// A downstream layer with a larger kernel carries
					// offsets with no local analogue; skip those.
					if c.KernelIndex >= len(kernel) {
						continue
					}
					sum += kernel[c.KernelIndex] * c.To.Gradient
				}
				n.Gradient = sum * l.tfDeriv(n.Output)
			}
			for _, idx := range n.Back {
				grads[l.arena.at(idx).KernelIndex] += n.Gradient
			}
		}
	}
}

// CalcGradients for a pooling layer passes the downstream error through
// structurally; pooling has no transfer function and no weights of its
// own.
func (l *poolLayer) CalcGradients(targets []float64) {
	if l.isOutput {
		l.calcOutputGradients(targets)
		return
	}
	for d := range l.planes {
		plane := l.planes[d]
		for i := range plane {
			n := &plane[i]
			n.Gradient = l.sumDOW(n)
		}
	}
}

// UpdateWeights is the shared per-connection update with momentum, used by
// regular and convolution-filter layers.
func (l *layerBase) UpdateWeights(eta, alpha float64) {
	for d := range l.planes {
		plane := l.planes[d]
		for i := range plane {
			n := &plane[i]
			for _, idx := range n.Back {
				c := l.arena.at(idx)
				newDelta := eta*c.From.Output*n.Gradient + alpha*c.DeltaWeight
				c.DeltaWeight = newDelta
				c.Weight += newDelta
			}
		}
	}
}

// UpdateWeights for a convolution network layer accumulates the deltas per
// shared kernel element across all contributing neurons, applies them to
// the kernel once per plane, and zeroes both accumulators so the next
// sample starts clean.
func (l *convNetworkLayer) UpdateWeights(eta, alpha float64) {
	for d := range l.planes {
		grads := l.kernelGrads[d]
		deltas := l.kernelDeltas[d]
		plane := l.planes[d]
		for i := range plane {
			n := &plane[i]
			for _, idx := range n.Back {
				c := l.arena.at(idx)
				k := c.KernelIndex
				newDelta := eta*c.From.Output*grads[k] + alpha*deltas[k]
				deltas[k] += newDelta
			}
		}

		kernel := l.kernels[d]
		for k := range kernel {
			kernel[k] += deltas[k]
			deltas[k] = 0
			grads[k] = 0
		}
	}
}

// UpdateWeights is a no-op for pooling layers; they have nothing to train.
func (l *poolLayer) UpdateWeights(eta, alpha float64) {}
