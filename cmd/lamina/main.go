// Copyright 2026 Lamina ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package main provides the Lamina training CLI.
//
// It builds a network from a YAML topology file, runs it over a samples
// file in one of three modes (training, validate, trained), and forwards
// lines typed on stdin to the trainer's runtime command queue.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/lamina-ml/lamina/console"
	"github.com/lamina-ml/lamina/internal/config"
	"github.com/lamina-ml/lamina/nnet"
	"github.com/lamina-ml/lamina/sample"
)

const version = "v0.1.0-dev"

func main() {
	var (
		configFile  = flag.String("config", "topology.yaml", "network topology file")
		samplesFile = flag.String("samples", "samples.txt", "input samples file")
		modeName    = flag.String("mode", "training", "training, validate, or trained")
		weightsFile = flag.String("weights", "weights.txt", "weights file to save or load")
		startPaused = flag.Bool("paused", false, "start paused, waiting for a resume command")
		showVersion = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("Lamina %s\n", version)
		return
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatal(err)
	}
	specs, err := cfg.LayerSpecs()
	if err != nil {
		log.Fatal(err)
	}

	net := nnet.New(nnet.Config{
		Eta:                  cfg.Net.Eta,
		Alpha:                cfg.Net.Alpha,
		Lambda:               cfg.Net.Lambda,
		DynamicEta:           cfg.Net.DynamicEta,
		ProjectRectangular:   cfg.Net.ProjectRectangular,
		RecentErrorSmoothing: cfg.Net.RecentErrorSmoothing,
		Seed:                 cfg.Net.Seed,
	})
	if err := net.Configure(specs); err != nil {
		log.Fatal(err)
	}
	net.DebugDump(os.Stdout)

	samples, err := sample.Load(*samplesFile)
	if err != nil {
		log.Fatal(err)
	}

	mode, err := nnet.ParseMode(*modeName)
	if err != nil {
		log.Fatal(err)
	}

	commands := &console.Queue{}
	trainer := nnet.NewTrainer(net, samples, commands)
	trainer.Mode = mode
	trainer.WeightsFilename = *weightsFile
	if *startPaused {
		trainer.Pause()
	}

	if mode != nnet.ModeTraining {
		if err := net.LoadWeights(*weightsFile); err != nil {
			log.Fatal(err)
		}
	}

	// Anything typed on stdin becomes a runtime command; the trainer polls
	// the queue between samples.
	go func() {
		sc := bufio.NewScanner(os.Stdin)
		for sc.Scan() {
			commands.Push(sc.Text())
		}
	}()

	if err := trainer.Run(); err != nil {
		log.Fatal(err)
	}
}
