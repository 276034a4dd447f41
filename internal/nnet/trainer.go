// Copyright 2026 Lamina ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nnet

import (
	"time"

	"github.com/pkg/errors"

	"github.com/lamina-ml/lamina/internal/console"
	"github.com/lamina-ml/lamina/internal/sample"
)

// Mode selects what a training run does with each sample.
type Mode int

const (
	// ModeTraining backpropagates every sample and repeats passes until
	// the running average error drops below the stop threshold.
	ModeTraining Mode = iota
	// ModeValidate feeds every sample once with weight updates disabled
	// and reports the error against the known targets.
	ModeValidate
	// ModeTrained feeds every sample once and reports the outputs; no
	// targets are needed.
	ModeTrained
)

func (m Mode) String() string {
	switch m {
	case ModeValidate:
		return "validate"
	case ModeTrained:
		return "trained"
	default:
		return "training"
	}
}

// ParseMode maps a mode name from the command line to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "training", "train":
		return ModeTraining, nil
	case "validate":
		return ModeValidate, nil
	case "trained":
		return ModeTrained, nil
	}
	return ModeTraining, errors.Errorf("unknown mode %q", s)
}

// Trainer drives a Net over a sample set and services runtime commands
// between samples. The exported fields are the runtime-tunable session
// parameters; all of them can be changed through the command queue.
type Trainer struct {
	Net      *Net
	Samples  *sample.Set
	Reader   sample.ImageReader
	Commands *console.Queue

	Mode               Mode
	RepeatSamples      bool
	ShuffleSamples     bool
	ReportEveryNth     int
	DoneErrorThreshold float64
	WeightsFilename    string
	Channel            sample.Channel

	paused  bool
	stopped bool

	// pausePoll is how long Run sleeps between command polls while
	// paused; tests shorten it.
	pausePoll time.Duration
}

// NewTrainer builds a trainer with the stock session defaults. The input
// channel starts out as whatever the topology declared on the input layer.
func NewTrainer(net *Net, samples *sample.Set, commands *console.Queue) *Trainer {
	channel, err := sample.ParseChannel(net.InputChannel())
	if err != nil {
		channel = sample.ChannelBW
	}
	return &Trainer{
		Net:                net,
		Samples:            samples,
		Reader:             sample.FileImageReader{},
		Commands:           commands,
		RepeatSamples:      true,
		ShuffleSamples:     true,
		ReportEveryNth:     1,
		DoneErrorThreshold: 0.01,
		WeightsFilename:    "weights.txt",
		Channel:            channel,
		pausePoll:          100 * time.Millisecond,
	}
}

// Run processes the sample set according to the trainer's mode. In
// training mode it repeats passes until the running average error drops
// below DoneErrorThreshold (saving the weights when it does) or a stop
// command arrives; the other modes make a single pass.
func (t *Trainer) Run() error {
	t.stopped = false
	t.Net.EnableTraining = t.Mode == ModeTraining

	for pass := 1; !t.stopped; pass++ {
		if t.ShuffleSamples && t.Mode == ModeTraining {
			t.Samples.Shuffle(t.Net.rng)
		}

		for i := range t.Samples.Samples {
			if err := t.waitIfPaused(); err != nil {
				return err
			}
			if t.stopped {
				return nil
			}
			if err := t.runSample(&t.Samples.Samples[i]); err != nil {
				return err
			}
			if t.Mode == ModeTraining && t.Net.RecentAverageError < t.DoneErrorThreshold {
				info.Printf("average error %g is below %g, training complete",
					t.Net.RecentAverageError, t.DoneErrorThreshold)
				return t.Net.SaveWeights(t.WeightsFilename)
			}
		}

		if t.Mode != ModeTraining || !t.RepeatSamples {
			return nil
		}
	}
	return nil
}

func (t *Trainer) runSample(s *sample.Sample) error {
	data, err := s.Data(t.Reader, t.Channel)
	if err != nil {
		return err
	}
	t.Net.FeedForward(data)

	if t.Mode == ModeTraining {
		if err := t.Net.BackProp(s.TargetVals); err != nil {
			return err
		}
	}
	t.Net.ComputeError(s.TargetVals)
	t.report(s)
	return nil
}

// report prints the sample outcome every Nth sample.
func (t *Trainer) report(s *sample.Sample) {
	if t.ReportEveryNth < 1 || t.Net.InputSampleNumber%t.ReportEveryNth != 0 {
		return
	}
	info.Printf("pass %d: outputs %v expected %v error %g avg %g eta %g",
		t.Net.InputSampleNumber, t.Net.OutputValues(), s.TargetVals,
		t.Net.Error, t.Net.RecentAverageError, t.Net.Eta)
}

// waitIfPaused services commands and, while paused, sleeps between polls
// so a resume command can arrive.
func (t *Trainer) waitIfPaused() error {
	if err := t.PollCommands(); err != nil {
		return err
	}
	for t.paused && !t.stopped {
		time.Sleep(t.pausePoll)
		if err := t.PollCommands(); err != nil {
			return err
		}
	}
	return nil
}

// Pause suspends sample processing until Resume or a resume command.
func (t *Trainer) Pause() { t.paused = true }

// Resume continues a paused run.
func (t *Trainer) Resume() { t.paused = false }

// Stop ends the run after the current sample.
func (t *Trainer) Stop() { t.stopped = true }
