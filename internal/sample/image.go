// Copyright 2026 Lamina ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package sample

import (
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/pkg/errors"
)

// FileImageReader decodes PNG, JPEG, and GIF files from disk. Pixel values
// are scaled to [0, 1]; the BW channel is the weighted luminance
// 0.3R + 0.6G + 0.1B.
type FileImageReader struct{}

func (FileImageReader) ReadImage(filename string, channel Channel) ([]float64, int, int, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, 0, 0, errors.Wrapf(ErrSamplesFile, "open image %q: %v", filename, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, 0, 0, errors.Wrapf(ErrSamplesFile, "decode image %q: %v", filename, err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	data := make([]float64, 0, w*h)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			rf := float64(r) / 65535.0
			gf := float64(g) / 65535.0
			bf := float64(b) / 65535.0
			var v float64
			switch channel {
			case ChannelR:
				v = rf
			case ChannelG:
				v = gf
			case ChannelB:
				v = bf
			default:
				v = 0.3*rf + 0.6*gf + 0.1*bf
			}
			data = append(data, v)
		}
	}
	return data, w, h, nil
}
