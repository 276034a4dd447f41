// Copyright 2026 Lamina ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package sample exposes input sample sets: literal value lists or image
// file references, with optional target values.
package sample

import "github.com/lamina-ml/lamina/internal/sample"

// Sample is one input case.
type Sample = sample.Sample

// Set is an ordered collection of samples.
type Set = sample.Set

// Channel selects the color component extracted from image samples.
type Channel = sample.Channel

const (
	ChannelBW = sample.ChannelBW
	ChannelR  = sample.ChannelR
	ChannelG  = sample.ChannelG
	ChannelB  = sample.ChannelB
)

// ImageReader decodes an image file into per-pixel input values.
type ImageReader = sample.ImageReader

// FileImageReader decodes PNG, JPEG, and GIF files from disk.
type FileImageReader = sample.FileImageReader

// ErrSamplesFile is the class of all sample-set parse and load errors.
var ErrSamplesFile = sample.ErrSamplesFile

// Load parses a samples file.
func Load(filename string) (*Set, error) {
	return sample.Load(filename)
}

// ParseChannel maps a channel name to a Channel.
func ParseChannel(s string) (Channel, error) {
	return sample.ParseChannel(s)
}
