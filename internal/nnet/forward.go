// Copyright 2026 Lamina ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nnet

import (
	"math"

	"github.com/lamina-ml/lamina/internal/topology"
)

// FeedForward for a regular layer: each neuron's output is the transfer
// function of the weighted sum of its inputs, bias included.
func (l *regularLayer) FeedForward() {
	for d := range l.planes {
		plane := l.planes[d]
		for i := range plane {
			n := &plane[i]
			sum := 0.0
			for _, idx := range n.Back {
				c := l.arena.at(idx)
				sum += c.From.Output * c.Weight
			}
			n.Output = l.tf(sum)
		}
	}
}

// feedForward for the convolution kinds: the weights come from the owning
// layer's shared kernel at each connection's kernel index. Filter layers
// were constructed with the identity transfer, so applying tf covers both
// kinds.
func (c *convLayer) feedForward() {
	for d := range c.planes {
		kernel := c.kernels[d]
		plane := c.planes[d]
		for i := range plane {
			n := &plane[i]
			sum := 0.0
			for _, idx := range n.Back {
				conn := c.arena.at(idx)
				sum += conn.From.Output * kernel[conn.KernelIndex]
			}
			n.Output = c.tf(sum)
		}
	}
}

func (l *convFilterLayer) FeedForward()  { l.feedForward() }
func (l *convNetworkLayer) FeedForward() { l.feedForward() }

// FeedForward for a pooling layer: the max or average of the raw source
// outputs. No weights, no bias, no transfer function.
func (l *poolLayer) FeedForward() {
	for d := range l.planes {
		plane := l.planes[d]
		for i := range plane {
			n := &plane[i]
			switch l.method {
			case topology.PoolMax:
				out := -math.MaxFloat64
				for _, idx := range n.Back {
					if v := l.arena.at(idx).From.Output; v > out {
						out = v
					}
				}
				n.Output = out
			default: // PoolAvg
				sum := 0.0
				for _, idx := range n.Back {
					sum += l.arena.at(idx).From.Output
				}
				n.Output = sum / float64(len(n.Back))
			}
		}
	}
}
