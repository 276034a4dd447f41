// Copyright 2026 Lamina ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package sample

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSamples(t *testing.T, content string) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), "samples.txt")
	require.NoError(t, os.WriteFile(file, []byte(content), 0o644))
	return file
}

func TestLoadLiteralSamples(t *testing.T) {
	set, err := Load(writeSamples(t, `
# XOR truth table
{ 0 0 } 0
{ 0 1 } 1
{ 1 0 } 1
{ 1 1 } 0
`))
	require.NoError(t, err)
	require.Len(t, set.Samples, 4)

	data, err := set.Samples[1].Data(nil, ChannelBW)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1}, data)
	assert.Equal(t, []float64{1}, set.Samples[1].TargetVals)
}

func TestLoadImageReferencesWithPrefix(t *testing.T) {
	set, err := Load(writeSamples(t, `
path_prefix = images/train
digit3.png 0 0 0 1 0
digit7.png 0 1 0 0 0
`))
	require.NoError(t, err)
	require.Len(t, set.Samples, 2)
	assert.Equal(t, filepath.Join("images/train", "digit3.png"), set.Samples[0].ImageFilename)
	assert.Equal(t, []float64{0, 0, 0, 1, 0}, set.Samples[0].TargetVals)
}

func TestLoadSampleWithoutTargets(t *testing.T) {
	set, err := Load(writeSamples(t, "{ 0.5 0.25 }\nunlabeled.png\n"))
	require.NoError(t, err)
	require.Len(t, set.Samples, 2)
	assert.Nil(t, set.Samples[0].TargetVals)
	assert.Nil(t, set.Samples[1].TargetVals)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unterminated list", "{ 1 2 3\n"},
		{"bad value", "{ 1 two } 0\n"},
		{"bad target", "image.png high\n"},
		{"empty file", "# nothing here\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeSamples(t, tt.content))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrSamplesFile))
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.txt"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSamplesFile))
}

func TestShuffleKeepsAllSamples(t *testing.T) {
	set := &Set{}
	for i := 0; i < 16; i++ {
		set.Samples = append(set.Samples, Sample{data: []float64{float64(i)}})
	}

	set.Shuffle(rand.New(rand.NewSource(5)))

	seen := map[float64]bool{}
	for i := range set.Samples {
		seen[set.Samples[i].data[0]] = true
	}
	assert.Len(t, seen, 16)
}

func TestParseChannel(t *testing.T) {
	for in, want := range map[string]Channel{
		"": ChannelBW, "BW": ChannelBW, "bw": ChannelBW,
		"R": ChannelR, "g": ChannelG, " B ": ChannelB,
	} {
		got, err := ParseChannel(in)
		require.NoError(t, err, "%q", in)
		assert.Equal(t, want, got, "%q", in)
	}

	_, err := ParseChannel("RGB")
	assert.Error(t, err)
}

type stubReader struct {
	calls int
	value float64
}

func (r *stubReader) ReadImage(string, Channel) ([]float64, int, int, error) {
	r.calls++
	return []float64{r.value}, 1, 1, nil
}

type emptyReader struct{}

func (emptyReader) ReadImage(string, Channel) ([]float64, int, int, error) {
	return nil, 0, 0, nil
}

func TestZeroSizeImageIsAnError(t *testing.T) {
	s := Sample{ImageFilename: "broken.png"}
	_, err := s.Data(emptyReader{}, ChannelBW)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSamplesFile))
}

func TestImageDataIsCachedPerChannel(t *testing.T) {
	reader := &stubReader{value: 0.5}
	s := Sample{ImageFilename: "x.png"}

	for i := 0; i < 3; i++ {
		data, err := s.Data(reader, ChannelBW)
		require.NoError(t, err)
		assert.Equal(t, []float64{0.5}, data)
	}
	assert.Equal(t, 1, reader.calls, "repeat reads must hit the cache")

	// A channel change invalidates the cache, as does an explicit clear.
	_, err := s.Data(reader, ChannelR)
	require.NoError(t, err)
	assert.Equal(t, 2, reader.calls)

	s.ClearCache()
	_, err = s.Data(reader, ChannelR)
	require.NoError(t, err)
	assert.Equal(t, 3, reader.calls)
}
