package sink

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"image"
	"image/draw"
	"image/png"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"github.com/mhuels/posterforge/pkg/errors"
	"github.com/mhuels/posterforge/pkg/poster"
)

// oraMimetype is the required archive media type. The entry must be the
// first file in the zip and stored uncompressed so readers can sniff it.
const oraMimetype = "image/openraster"

// thumbnailMax bounds the embedded thumbnail's longest edge.
const thumbnailMax = 256

type oraImage struct {
	XMLName xml.Name `xml:"image"`
	Version string   `xml:"version,attr"`
	W       int      `xml:"w,attr"`
	H       int      `xml:"h,attr"`
	XRes    int      `xml:"xres,attr,omitempty"`
	YRes    int      `xml:"yres,attr,omitempty"`
	Stack   oraStack `xml:"stack"`
}

type oraStack struct {
	Layers []oraLayer `xml:"layer"`
}

type oraLayer struct {
	Name        string  `xml:"name,attr"`
	Src         string  `xml:"src,attr"`
	X           int     `xml:"x,attr"`
	Y           int     `xml:"y,attr"`
	Opacity     float64 `xml:"opacity,attr"`
	CompositeOp string  `xml:"composite-op,attr"`
	Visibility  string  `xml:"visibility,attr"`
	UUID        string  `xml:"uuid,attr"`
}

// EncodeORA packs the layer stack into an OpenRaster archive readable by
// GIMP and Krita. Layers arrive bottom-to-top; stack.xml lists them
// top-first per the format, and every layer keeps its full-canvas
// placement. A merged image and thumbnail are embedded for viewers that
// do not composite layers themselves.
func EncodeORA(rc poster.RenderContext, layers []poster.Layer, dpi int) ([]byte, error) {
	if len(layers) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no layers to encode")
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	// Stored, not deflated.
	mimeWriter, err := zw.CreateHeader(&zip.FileHeader{
		Name:   "mimetype",
		Method: zip.Store,
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "creating mimetype entry")
	}
	if _, err := mimeWriter.Write([]byte(oraMimetype)); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "writing mimetype entry")
	}

	doc := oraImage{
		Version: "0.0.3",
		W:       rc.Width,
		H:       rc.Height,
		XRes:    dpi,
		YRes:    dpi,
	}

	merged := image.NewRGBA(image.Rect(0, 0, rc.Width, rc.Height))

	for i, layer := range layers {
		if layer.Image == nil {
			continue
		}
		src := fmt.Sprintf("data/layer_%d.png", i)
		if err := writePNGEntry(zw, src, layer.Image); err != nil {
			return nil, err
		}
		// Prepend: the first stack child is the topmost layer.
		doc.Stack.Layers = append([]oraLayer{{
			Name:        layer.Name,
			Src:         src,
			Opacity:     1.0,
			CompositeOp: "svg:src-over",
			Visibility:  "visible",
			UUID:        "{" + uuid.NewString() + "}",
		}}, doc.Stack.Layers...)

		draw.Draw(merged, merged.Bounds(), layer.Image, image.Point{}, draw.Over)
	}

	stackXML, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "marshaling stack.xml")
	}
	xmlWriter, err := zw.Create("stack.xml")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "creating stack.xml entry")
	}
	if _, err := xmlWriter.Write(append([]byte(xml.Header), stackXML...)); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "writing stack.xml entry")
	}

	if err := writePNGEntry(zw, "mergedimage.png", merged); err != nil {
		return nil, err
	}
	thumb := imaging.Fit(merged, thumbnailMax, thumbnailMax, imaging.Lanczos)
	if err := writePNGEntry(zw, "Thumbnails/thumbnail.png", thumb); err != nil {
		return nil, err
	}

	if err := zw.Close(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "closing archive")
	}
	return buf.Bytes(), nil
}

func writePNGEntry(zw *zip.Writer, name string, img image.Image) error {
	w, err := zw.Create(name)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "creating %s entry", name)
	}
	if err := png.Encode(w, img); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encoding %s", name)
	}
	return nil
}
