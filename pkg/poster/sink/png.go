// Package sink encodes render results into output file formats.
package sink

import (
	"bytes"
	"image"
	"image/png"

	"github.com/mhuels/posterforge/pkg/errors"
)

// EncodePNG encodes the flattened poster as a PNG byte buffer.
func EncodePNG(img image.Image) ([]byte, error) {
	if img == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no image to encode")
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encoding png")
	}
	return buf.Bytes(), nil
}
