// Copyright 2026 Lamina ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nnet

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ErrWeightsFile is the class of all weight persistence errors.
var ErrWeightsFile = errors.New("weights file error")

// weightWriter and weightReader implement the plain-text persistence
// contract: one floating-point literal per line, no blank lines, in exact
// model iteration order. The reader deliberately does not validate the
// line count against the model; a short file leaves the remaining weights
// unchanged and extra lines are ignored.
type weightReader struct {
	sc  *bufio.Scanner
	err error
}

func (r *weightReader) next(dst *float64) {
	if r.err != nil {
		return
	}
	if !r.sc.Scan() {
		return // short file: leave the value as-is
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(r.sc.Text()), 64)
	if err != nil {
		r.err = errors.Wrapf(ErrWeightsFile, "bad weight line %q", r.sc.Text())
		return
	}
	*dst = v
}

type weightSaver interface {
	saveWeights(w io.Writer) error
}

type weightLoader interface {
	loadWeights(r *weightReader)
}

// Regular layers persist one weight per back connection, bias edges
// included, neurons in plane-then-index order.
func (l *regularLayer) saveWeights(w io.Writer) error {
	for d := range l.planes {
		plane := l.planes[d]
		for i := range plane {
			for _, idx := range plane[i].Back {
				if _, err := fmt.Fprintf(w, "%g\n", l.arena.at(idx).Weight); err != nil {
					return errors.Wrap(err, "write weight")
				}
			}
		}
	}
	return nil
}

func (l *regularLayer) loadWeights(r *weightReader) {
	for d := range l.planes {
		plane := l.planes[d]
		for i := range plane {
			for _, idx := range plane[i].Back {
				r.next(&l.arena.at(idx).Weight)
			}
		}
	}
}

// Convolution network layers persist their flattened kernel arrays in
// plane order instead of per-connection weights.
func (l *convNetworkLayer) saveWeights(w io.Writer) error {
	for _, kernel := range l.kernels {
		for _, weight := range kernel {
			if _, err := fmt.Fprintf(w, "%g\n", weight); err != nil {
				return errors.Wrap(err, "write kernel weight")
			}
		}
	}
	return nil
}

func (l *convNetworkLayer) loadWeights(r *weightReader) {
	for _, kernel := range l.kernels {
		for k := range kernel {
			r.next(&kernel[k])
		}
	}
}

// SaveWeights writes every trainable weight to filename in the fixed
// iteration order: layers in construction order, regular layers by
// neuron-then-back-connection, convolution network layers by flattened
// kernel plane. Fixed filter kernels and pooling layers contribute
// nothing.
func (net *Net) SaveWeights(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return errors.Wrapf(ErrWeightsFile, "create %q: %v", filename, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, l := range net.layers {
		if s, ok := l.(weightSaver); ok {
			if err := s.saveWeights(w); err != nil {
				return errors.Wrapf(ErrWeightsFile, "save %q: %v", filename, err)
			}
		}
	}
	if err := w.Flush(); err != nil {
		return errors.Wrapf(ErrWeightsFile, "save %q: %v", filename, err)
	}
	return nil
}

// LoadWeights restores weights saved by SaveWeights. It must be called on
// a network built from the same topology; the reader consumes values in
// the identical iteration order and does not cross-check the line count.
func (net *Net) LoadWeights(filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return errors.Wrapf(ErrWeightsFile, "open %q: %v", filename, err)
	}
	defer f.Close()

	r := &weightReader{sc: bufio.NewScanner(f)}
	for _, l := range net.layers {
		if ld, ok := l.(weightLoader); ok {
			ld.loadWeights(r)
		}
	}
	return r.err
}
