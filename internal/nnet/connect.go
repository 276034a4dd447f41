// Copyright 2026 Lamina ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nnet

import (
	"fmt"
	"math"

	"github.com/lamina-ml/lamina/internal/topology"
)

// elliptDist, for an ellipse centered at 0,0 and aligned with the axes,
// is positive when (x,y) lies outside the ellipse, zero on it, and
// negative inside it.
func elliptDist(x, y, radiusX, radiusY float64) float64 {
	return radiusY*radiusY*x*x + radiusX*radiusX*y*y - radiusX*radiusX*radiusY*radiusY
}

// clip clamps a window to the valid coordinate range of a source layer.
func clip(xmin, xmax, ymin, ymax int, size topology.Size3) (int, int, int, int) {
	cl := func(v, max int) int {
		if v < 0 {
			return 0
		}
		if v >= max {
			return max - 1
		}
		return v
	}
	return cl(xmin, size.X), cl(xmax, size.X), cl(ymin, size.Y), cl(ymax, size.Y)
}

func asConv(l Layer) *convLayer {
	switch c := l.(type) {
	case *convFilterLayer:
		return &c.convLayer
	case *convNetworkLayer:
		return &c.convLayer
	}
	return nil
}

// connectLayers wires every neuron of dst to its projection window in src.
// Calling it again with another source layer adds the new edges while the
// duplicate-detection sets suppress re-creation of existing ones.
func (net *Net) connectLayers(dst, src Layer) {
	b := dst.base()
	for depth := 0; depth < b.size.Depth; depth++ {
		for ny := 0; ny < b.size.Y; ny++ {
			for nx := 0; nx < b.size.X; nx++ {
				net.connectOneNeuron(dst, src, b.Neuron(depth, nx, ny), depth, nx, ny)
			}
		}
	}
}

// connectOneNeuron creates the back connections of a single destination
// neuron at (depth, nx, ny), projecting its position onto the source layer
// through the window rule of the destination layer's kind.
func (net *Net) connectOneNeuron(dst, src Layer, to *Neuron, depth, nx, ny int) {
	b := dst.base()
	sb := src.base()

	// Normalized [0..1] center of the destination neuron, mapped to the
	// nearest source-layer coordinates.
	normX := (float64(nx) + 0.5) / float64(b.size.X)
	normY := (float64(ny) + 0.5) / float64(b.size.Y)
	lfx := int(normX * float64(sb.size.X))
	lfy := int(normY * float64(sb.size.Y))

	var xmin, xmax, ymin, ymax int
	var kernelW int

	switch b.kind {
	case topology.Regular:
		xmin, xmax = lfx-b.radius.X, lfx+b.radius.X
		ymin, ymax = lfy-b.radius.Y, lfy+b.radius.Y
		xmin, xmax, ymin, ymax = clip(xmin, xmax, ymin, ymax, sb.size)

	case topology.ConvolutionFilter, topology.ConvolutionNetwork:
		ks := asConv(dst).kernelSize
		kernelW = ks.X
		xmin = lfx - ks.X/2
		xmax = xmin + ks.X - 1
		ymin = lfy - ks.Y/2
		ymax = ymin + ks.Y - 1

	case topology.Pooling:
		ps := dst.(*poolLayer).poolSize
		xmin = lfx - ps.X/2
		xmax = xmin + ps.X - 1
		ymin = lfy - ps.Y/2
		ymax = ymin + ps.Y - 1
	}

	// The window center, for the elliptical membership test.
	centerX := (float64(xmin) + float64(xmax)) / 2.0
	centerY := (float64(ymin) + float64(ymax)) / 2.0

	// Symmetry-breaking scale for fresh weights, from the rectangular
	// window area before elliptical filtering.
	windowCells := (xmax - xmin + 1) * (ymax - ymin + 1)
	weightScale := 1.0 / math.Sqrt(float64(windowCells))

	depthLo, depthHi := sourceDepthRange(sb.size.Depth, b.size.Depth, depth, b.kind)

	for sy := ymin; sy <= ymax; sy++ {
		for sx := xmin; sx <= xmax; sx++ {
			kernelIndex := 0

			switch b.kind {
			case topology.Regular:
				if !b.projectRectangular &&
					elliptDist(centerX-float64(sx), centerY-float64(sy),
						float64(b.radius.X), float64(b.radius.Y)) >= 1.0 {
					continue // outside the ellipse
				}

			default:
				// Convolution and pooling windows are not clipped; cells
				// that fall outside the source layer are skipped.
				if sx < 0 || sy < 0 || sx >= sb.size.X || sy >= sb.size.Y {
					continue
				}
				if b.kind != topology.Pooling {
					kernelIndex = (sy-ymin)*kernelW + (sx - xmin)
					if b.kind == topology.ConvolutionFilter &&
						asConv(dst).kernels[depth][kernelIndex] == 0.0 {
						continue // fixed zero filter cell, no edge needed
					}
				}
			}

			for sd := depthLo; sd <= depthHi; sd++ {
				from := sb.Neuron(sd, sx, sy)
				if to.hasSource(from) {
					continue // already wired by an earlier pass
				}

				c := Connection{From: from, To: to}
				switch b.kind {
				case topology.Regular:
					c.Weight = (net.rng.Float64()*2 - 1.0) * weightScale
				case topology.ConvolutionFilter, topology.ConvolutionNetwork:
					c.KernelIndex = kernelIndex
				}

				idx := net.arena.add(c)
				to.Back = append(to.Back, idx)
				to.noteSource(from)
				from.Forward = append(from.Forward, idx)

				b.totalBackConnections++
				net.totalBackConnections++
			}
		}
	}
}

// sourceDepthRange resolves depth fan-in between a source layer of depth
// from and a destination layer of depth to, for the destination plane
// destDepth. An incompatible combination reaching this point means the
// upstream validation is broken, so the engine fails loudly rather than
// mis-wire.
func sourceDepthRange(from, to, destDepth int, kind topology.Kind) (int, int) {
	switch {
	case from == 1:
		return 0, 0
	case from == to:
		return destDepth, destDepth
	case from > to && (kind == topology.Regular || kind == topology.Pooling):
		return 0, from - 1
	}
	panic(fmt.Sprintf("nnet: unreachable depth combination %d -> %d for %s layer", from, to, kind))
}

// connectBias gives every neuron of a freshly populated layer one weighted
// input from the network's bias unit. Only regular non-input layers carry
// bias inputs; pooling and convolution layers never do.
func (net *Net) connectBias(l Layer) {
	b := l.base()
	scale := 1.0 / float64(b.size.X*b.size.Y)
	for d := range b.planes {
		plane := b.planes[d]
		for i := range plane {
			n := &plane[i]
			idx := net.arena.add(Connection{
				From:   &net.bias,
				To:     n,
				Weight: net.rng.Float64() * scale,
			})
			n.Back = append(n.Back, idx)
			net.bias.Forward = append(net.bias.Forward, idx)

			b.totalBackConnections++
			net.totalBackConnections++
		}
	}
}
