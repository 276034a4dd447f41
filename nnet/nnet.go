// Copyright 2026 Lamina ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nnet is the public face of the network engine: construction from
// layer specs, forward evaluation, backpropagation training, weight
// persistence, and the trainer loop with its runtime command queue.
package nnet

import (
	"github.com/lamina-ml/lamina/internal/console"
	"github.com/lamina-ml/lamina/internal/nnet"
	"github.com/lamina-ml/lamina/internal/sample"
)

// Net is a configurable feed-forward network.
type Net = nnet.Net

// Config holds construction-time network parameters.
type Config = nnet.Config

// Layer is the common contract of the four layer kinds.
type Layer = nnet.Layer

// New creates an empty network; call Configure before feeding samples.
//
// Example:
//
//	net := nnet.New(nnet.Config{Eta: 0.1, Seed: 1})
//	if err := net.Configure(specs); err != nil {
//	    log.Fatal(err)
//	}
func New(cfg Config) *Net {
	return nnet.New(cfg)
}

// Trainer drives a Net over a sample set.
type Trainer = nnet.Trainer

// Mode selects what a training run does with each sample.
type Mode = nnet.Mode

const (
	ModeTraining = nnet.ModeTraining
	ModeValidate = nnet.ModeValidate
	ModeTrained  = nnet.ModeTrained
)

// NewTrainer builds a trainer with the stock session defaults.
func NewTrainer(net *Net, samples *sample.Set, commands *console.Queue) *Trainer {
	return nnet.NewTrainer(net, samples, commands)
}

// ParseMode maps a mode name from the command line to a Mode.
func ParseMode(s string) (Mode, error) {
	return nnet.ParseMode(s)
}

// ErrWeightsFile is the class of all weight persistence errors.
var ErrWeightsFile = nnet.ErrWeightsFile
