// Copyright 2026 Lamina ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nnet

import (
	"strconv"
	"strings"

	"github.com/lamina-ml/lamina/internal/sample"
)

// PollCommands drains the command queue and applies each command. Unknown
// commands and malformed values are logged and skipped so a typo cannot
// kill a long training session.
func (t *Trainer) PollCommands() error {
	if t.Commands == nil {
		return nil
	}
	for {
		line, ok := t.Commands.Pop()
		if !ok {
			return nil
		}
		if err := t.execCommand(line); err != nil {
			return err
		}
	}
}

// execCommand interprets one "key" or "key=value" command line.
func (t *Trainer) execCommand(line string) error {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}

	key, value := line, ""
	if eq := strings.Index(line, "="); eq >= 0 {
		key = strings.TrimSpace(line[:eq])
		value = strings.TrimSpace(line[eq+1:])
	}
	key = strings.ToLower(key)

	switch key {
	case "run", "resume":
		t.Resume()
	case "pause":
		t.Pause()
	case "stop":
		t.Stop()

	case "train":
		t.Net.EnableTraining = parseBool(value, t.Net.EnableTraining)
	case "eta":
		parseFloatInto(key, value, &t.Net.Eta)
	case "alpha":
		parseFloatInto(key, value, &t.Net.Alpha)
	case "lambda":
		parseFloatInto(key, value, &t.Net.Lambda)
	case "dynamiceta":
		t.Net.DynamicEta = parseBool(value, t.Net.DynamicEta)
	case "stoperror":
		parseFloatInto(key, value, &t.DoneErrorThreshold)
	case "averageover", "smoothingfactor":
		parseFloatInto(key, value, &t.Net.RecentErrorSmoothing)
	case "reporteverynth":
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			t.ReportEveryNth = n
		} else {
			warn.Printf("bad value for reportEveryNth: %q", value)
		}
	case "repeat":
		t.RepeatSamples = parseBool(value, t.RepeatSamples)
	case "shuffle":
		t.ShuffleSamples = parseBool(value, t.ShuffleSamples)

	case "channel":
		ch, err := sample.ParseChannel(value)
		if err != nil {
			warn.Printf("bad value for channel: %q", value)
			break
		}
		if ch != t.Channel {
			t.Channel = ch
			t.Samples.ClearImageCache()
		}

	case "weightsfile":
		if value != "" {
			t.WeightsFilename = value
		}
	case "savew":
		name := value
		if name == "" {
			name = t.WeightsFilename
		}
		if err := t.Net.SaveWeights(name); err != nil {
			warn.Printf("save weights: %v", err)
		}
	case "loadw":
		name := value
		if name == "" {
			name = t.WeightsFilename
		}
		if err := t.Net.LoadWeights(name); err != nil {
			warn.Printf("load weights: %v", err)
		}

	default:
		warn.Printf("unknown command %q ignored", line)
	}
	return nil
}

func parseBool(value string, fallback bool) bool {
	switch strings.ToLower(value) {
	case "1", "true", "on", "yes":
		return true
	case "0", "false", "off", "no":
		return false
	}
	warn.Printf("bad boolean value %q", value)
	return fallback
}

func parseFloatInto(key, value string, dst *float64) {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		warn.Printf("bad value for %s: %q", key, value)
		return
	}
	*dst = v
}
