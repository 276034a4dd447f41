// Copyright 2026 Lamina ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package sample loads and manages the input samples a network trains or
// validates on. A sample is either a reference to an image file or a
// literal list of input values, optionally followed by target values.
package sample

import (
	"bufio"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ErrSamplesFile is the class of all sample-set parse and load errors.
var ErrSamplesFile = errors.New("samples file error")

// Channel selects which color component of an image becomes the neuron
// input values.
type Channel int

const (
	ChannelBW Channel = iota
	ChannelR
	ChannelG
	ChannelB
)

func (c Channel) String() string {
	switch c {
	case ChannelR:
		return "R"
	case ChannelG:
		return "G"
	case ChannelB:
		return "B"
	default:
		return "BW"
	}
}

// ParseChannel maps a channel name from a topology or command line to a
// Channel. The empty string selects BW.
func ParseChannel(s string) (Channel, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "BW":
		return ChannelBW, nil
	case "R":
		return ChannelR, nil
	case "G":
		return ChannelG, nil
	case "B":
		return ChannelB, nil
	}
	return ChannelBW, errors.Wrapf(ErrSamplesFile, "unknown channel %q", s)
}

// ImageReader decodes an image file into one float value per pixel in
// row-major order for the requested channel.
type ImageReader interface {
	ReadImage(filename string, channel Channel) (data []float64, width, height int, err error)
}

// Sample is one input case. Either ImageFilename or literal data is set,
// never both. Image pixel data is cached per channel after the first read.
type Sample struct {
	ImageFilename string
	TargetVals    []float64

	data        []float64
	dataChannel Channel
	haveData    bool
}

// Data returns the sample's input values. Literal samples return their
// stored values; image samples are decoded through reader on first use and
// cached until ClearCache or a channel change.
func (s *Sample) Data(reader ImageReader, channel Channel) ([]float64, error) {
	if s.ImageFilename == "" {
		return s.data, nil
	}
	if s.haveData && s.dataChannel == channel {
		return s.data, nil
	}
	if reader == nil {
		return nil, errors.Wrapf(ErrSamplesFile, "no image reader for %q", s.ImageFilename)
	}
	data, w, h, err := reader.ReadImage(s.ImageFilename, channel)
	if err != nil {
		return nil, err
	}
	if w == 0 || h == 0 {
		return nil, errors.Wrapf(ErrSamplesFile, "image %q decoded to zero size", s.ImageFilename)
	}
	s.data = data
	s.dataChannel = channel
	s.haveData = true
	return s.data, nil
}

// ClearCache drops cached image pixel data so the next Data call re-reads
// the file. Literal data is kept.
func (s *Sample) ClearCache() {
	if s.ImageFilename != "" {
		s.data = nil
		s.haveData = false
	}
}

// Set is an ordered collection of samples.
type Set struct {
	Samples []Sample
}

// Load parses a samples file. Each non-empty, non-comment line is one
// sample:
//
//	{ v1 v2 v3 ... } t1 t2 ...     literal input values
//	path/to/image.png t1 t2 ...    image file reference
//	path_prefix = dir              prefix for subsequent image paths
//
// Target values are optional. Comments start with '#'.
func Load(filename string) (*Set, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrapf(ErrSamplesFile, "open %q: %v", filename, err)
	}
	defer f.Close()

	set := &Set{}
	prefix := ""
	sc := bufio.NewScanner(f)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasPrefix(line, "path_prefix") {
			parts := strings.SplitN(line, "=", 2)
			if len(parts) != 2 {
				return nil, errors.Wrapf(ErrSamplesFile, "%s:%d: malformed path_prefix", filename, lineNo)
			}
			prefix = strings.TrimSpace(parts[1])
			continue
		}

		var s Sample
		if strings.HasPrefix(line, "{") {
			end := strings.Index(line, "}")
			if end < 0 {
				return nil, errors.Wrapf(ErrSamplesFile, "%s:%d: unterminated input list", filename, lineNo)
			}
			s.data, err = parseFloats(line[1:end])
			if err != nil {
				return nil, errors.Wrapf(ErrSamplesFile, "%s:%d: %v", filename, lineNo, err)
			}
			s.TargetVals, err = parseFloats(line[end+1:])
		} else {
			fields := strings.Fields(line)
			s.ImageFilename = fields[0]
			if prefix != "" {
				s.ImageFilename = filepath.Join(prefix, s.ImageFilename)
			}
			s.TargetVals, err = parseFloats(strings.Join(fields[1:], " "))
		}
		if err != nil {
			return nil, errors.Wrapf(ErrSamplesFile, "%s:%d: %v", filename, lineNo, err)
		}
		set.Samples = append(set.Samples, s)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrapf(ErrSamplesFile, "read %q: %v", filename, err)
	}
	if len(set.Samples) == 0 {
		return nil, errors.Wrapf(ErrSamplesFile, "%q contains no samples", filename)
	}
	return set, nil
}

func parseFloats(s string) ([]float64, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil, nil
	}
	vals := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, errors.Errorf("bad value %q", f)
		}
		vals[i] = v
	}
	return vals, nil
}

// Shuffle reorders the samples in place using the given swap source.
func (set *Set) Shuffle(shuffler interface{ Shuffle(int, func(i, j int)) }) {
	shuffler.Shuffle(len(set.Samples), func(i, j int) {
		set.Samples[i], set.Samples[j] = set.Samples[j], set.Samples[i]
	})
}

// ClearImageCache drops all cached pixel data, forcing re-reads. Used when
// the input channel changes at runtime.
func (set *Set) ClearImageCache() {
	for i := range set.Samples {
		set.Samples[i].ClearCache()
	}
}
