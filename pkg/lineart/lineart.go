// Package lineart prepares background line art: loading existing assets
// and generating high-contrast stencils from arbitrary source images.
package lineart

import (
	"bytes"
	"image"

	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"

	"github.com/mhuels/posterforge/pkg/errors"
)

// defaultThreshold splits a high-contrast grayscale image into line and
// background.
const defaultThreshold = 128

// Load reads and decodes a line art asset from disk.
func Load(path string) (image.Image, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "loading line art %s", path)
	}
	return img, nil
}

// Decode decodes line art from a downloaded byte buffer.
func Decode(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decoding line art")
	}
	return img, nil
}

// Stencil converts an image into a binary black-and-white stencil:
// grayscale, contrast boost, then a hard threshold. Pixels below the
// threshold become black lines, everything else white.
func Stencil(img image.Image, threshold uint8) *image.NRGBA {
	if threshold == 0 {
		threshold = defaultThreshold
	}

	gray := imaging.Grayscale(img)
	contrasted := imaging.AdjustContrast(gray, 60)

	out := imaging.Clone(contrasted)
	for i := 0; i < len(out.Pix); i += 4 {
		v := uint8(255)
		if out.Pix[i] < threshold {
			v = 0
		}
		out.Pix[i] = v
		out.Pix[i+1] = v
		out.Pix[i+2] = v
		out.Pix[i+3] = 255
	}
	return out
}
