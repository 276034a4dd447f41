// Copyright 2026 Lamina ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package config reads a network description from a YAML file and turns it
// into the validated layer specification list the construction engine
// consumes.
//
// Example:
//
//	net:
//	  eta: 0.1
//	  alpha: 0.1
//	layers:
//	  - name: input
//	    size: 32x32
//	  - name: conv1
//	    from: input
//	    kind: convolution-network
//	    size: 10*28x28
//	    kernel-size: 5x5
//	  - name: pool1
//	    from: conv1
//	    kind: pooling
//	    size: 10*14x14
//	    pool: max 2x2
//	  - name: output
//	    from: pool1
//	    size: 10x1
//	    tf: logistic
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/lamina-ml/lamina/internal/topology"
)

// ErrConfigFile is the class of all configuration file errors.
var ErrConfigFile = errors.New("config file error")

// File is the top-level YAML document.
type File struct {
	Net    NetConfig     `yaml:"net"`
	Layers []LayerConfig `yaml:"layers"`
}

// NetConfig holds the network-wide training parameters. Zero values fall
// back to the engine defaults.
type NetConfig struct {
	Eta                  float64 `yaml:"eta"`
	Alpha                float64 `yaml:"alpha"`
	Lambda               float64 `yaml:"lambda"`
	DynamicEta           bool    `yaml:"dynamic-eta"`
	ProjectRectangular   bool    `yaml:"project-rectangular"`
	RecentErrorSmoothing float64 `yaml:"error-smoothing"`
	Seed                 int64   `yaml:"seed"`
}

// LayerConfig is one layer declaration. Sizes are compact strings:
// "X", "XxY", or "D*XxY".
type LayerConfig struct {
	Name       string        `yaml:"name"`
	From       string        `yaml:"from"`
	Kind       string        `yaml:"kind"`
	Size       string        `yaml:"size"`
	Radius     string        `yaml:"radius"`
	TF         string        `yaml:"tf"`
	Channel    string        `yaml:"channel"`
	KernelSize string        `yaml:"kernel-size"`
	Kernels    [][][]float64 `yaml:"kernels"`
	Pool       string        `yaml:"pool"`
}

// Load reads and parses a YAML network description.
func Load(filename string) (*File, error) {
	raw, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrapf(ErrConfigFile, "read %q: %v", filename, err)
	}
	var f File
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, errors.Wrapf(ErrConfigFile, "parse %q: %v", filename, err)
	}
	if len(f.Layers) == 0 {
		return nil, errors.Wrapf(ErrConfigFile, "%q declares no layers", filename)
	}
	return &f, nil
}

// LayerSpecs converts the layer declarations to validated topology specs.
func (f *File) LayerSpecs() ([]topology.LayerSpec, error) {
	specs := make([]topology.LayerSpec, 0, len(f.Layers))
	for i := range f.Layers {
		spec, err := f.Layers[i].spec()
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	if err := topology.Validate(specs); err != nil {
		return nil, err
	}
	return specs, nil
}

func (lc *LayerConfig) spec() (topology.LayerSpec, error) {
	spec := topology.LayerSpec{
		Name:             lc.Name,
		From:             lc.From,
		TransferFunction: lc.TF,
		Channel:          lc.Channel,
	}

	switch strings.ToLower(lc.Kind) {
	case "", "regular":
		spec.Kind = topology.Regular
	case "convolution-filter", "convolve":
		spec.Kind = topology.ConvolutionFilter
	case "convolution-network", "convnet":
		spec.Kind = topology.ConvolutionNetwork
	case "pooling", "pool":
		spec.Kind = topology.Pooling
	default:
		return spec, errors.Wrapf(ErrConfigFile, "layer %q: unknown kind %q", lc.Name, lc.Kind)
	}

	size, err := parseSize3(lc.Size)
	if err != nil {
		return spec, errors.Wrapf(ErrConfigFile, "layer %q: %v", lc.Name, err)
	}
	spec.Size = size

	if lc.Radius != "" {
		r, err := parseSize2(lc.Radius)
		if err != nil {
			return spec, errors.Wrapf(ErrConfigFile, "layer %q: %v", lc.Name, err)
		}
		spec.Radius = r
		spec.RadiusSpecified = true
	}

	if lc.KernelSize != "" {
		k, err := parseSize2(lc.KernelSize)
		if err != nil {
			return spec, errors.Wrapf(ErrConfigFile, "layer %q: %v", lc.Name, err)
		}
		spec.KernelSize = k
	}
	if len(lc.Kernels) > 0 {
		spec.Kernels = make([][]float64, len(lc.Kernels))
		for d, rows := range lc.Kernels {
			for _, row := range rows {
				spec.Kernels[d] = append(spec.Kernels[d], row...)
			}
		}
		if spec.KernelSize == (topology.Size2{}) && len(lc.Kernels[0]) > 0 {
			spec.KernelSize = topology.Size2{
				X: len(lc.Kernels[0][0]),
				Y: len(lc.Kernels[0]),
			}
		}
	}

	if lc.Pool != "" {
		fields := strings.Fields(lc.Pool)
		if len(fields) != 2 {
			return spec, errors.Wrapf(ErrConfigFile, "layer %q: pool wants \"max|avg WxH\", got %q", lc.Name, lc.Pool)
		}
		switch strings.ToLower(fields[0]) {
		case "max":
			spec.PoolMethod = topology.PoolMax
		case "avg":
			spec.PoolMethod = topology.PoolAvg
		default:
			return spec, errors.Wrapf(ErrConfigFile, "layer %q: unknown pool method %q", lc.Name, fields[0])
		}
		p, err := parseSize2(fields[1])
		if err != nil {
			return spec, errors.Wrapf(ErrConfigFile, "layer %q: %v", lc.Name, err)
		}
		spec.PoolSize = p
	}

	return spec, nil
}

// parseSize3 parses "X", "XxY", or "D*XxY". A one-dimensional size means a
// row of X neurons.
func parseSize3(s string) (topology.Size3, error) {
	size := topology.Size3{Depth: 1, X: 0, Y: 1}
	if s == "" {
		return size, errors.New("missing size")
	}
	rest := s
	if star := strings.Index(rest, "*"); star >= 0 {
		d, err := strconv.Atoi(strings.TrimSpace(rest[:star]))
		if err != nil {
			return size, errors.Errorf("bad size %q", s)
		}
		size.Depth = d
		rest = rest[star+1:]
	}
	xy, err := parseSize2(rest)
	if err != nil {
		return size, errors.Errorf("bad size %q", s)
	}
	size.X, size.Y = xy.X, xy.Y
	return size, nil
}

// parseSize2 parses "X" or "XxY"; a bare X means Y = 1.
func parseSize2(s string) (topology.Size2, error) {
	s = strings.TrimSpace(s)
	parts := strings.SplitN(s, "x", 2)
	x, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return topology.Size2{}, errors.Errorf("bad size %q", s)
	}
	y := 1
	if len(parts) == 2 {
		y, err = strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return topology.Size2{}, errors.Errorf("bad size %q", s)
		}
	}
	return topology.Size2{X: x, Y: y}, nil
}
