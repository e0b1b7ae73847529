package res

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	"github.com/disintegration/imaging"
	"github.com/h2non/filetype"
)

// svgRasterWidth is the pixel width SVG images are rasterized at
const svgRasterWidth = 600

// Image is a decoded picture ready to be embedded into the output document
type Image struct {
	// Key identifies the image content
	Key string
	// Width and Height are pixel dimensions after orientation is applied
	Width  int
	Height int
	// Type is the embedding format, "JPG" or "PNG"
	Type string
	Data []byte
}

// HeightAt returns the rendered height of the image scaled to width,
// preserving aspect ratio
func (im *Image) HeightAt(width float64) float64 {
	if im == nil || im.Width <= 0 {
		return 0
	}
	return float64(im.Height) * (width / float64(im.Width))
}

// WidthAt returns the rendered width of the image scaled to height
func (im *Image) WidthAt(height float64) float64 {
	if im == nil || im.Height <= 0 {
		return 0
	}
	return float64(im.Width) * (height / float64(im.Height))
}

// DecodeImage probes data and normalizes it into a format the PDF writer
// accepts. JPEG and plain PNG data is kept as is, everything else is re-encoded.
func DecodeImage(key string, data []byte) (*Image, error) {
	if isSVG(data) {
		img, err := RasterizeSVG(data, svgRasterWidth)
		if err != nil {
			return nil, fmt.Errorf("unable to rasterize svg: %w", err)
		}
		return encodePNG(key, img)
	}

	kind, err := filetype.Match(data)
	if err != nil {
		return nil, err
	}
	if kind == filetype.Unknown || !filetype.IsImage(data) {
		return nil, fmt.Errorf("unsupported content type")
	}

	// orientation from EXIF is applied so portrait photos measure as portrait
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, err
	}
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("empty image %dx%d", w, h)
	}

	switch kind.Extension {
	case "jpg":
		cfg, err := jpeg.DecodeConfig(bytes.NewReader(data))
		if err == nil && cfg.Width == w && cfg.Height == h {
			return &Image{Key: key, Width: w, Height: h, Type: "JPG", Data: data}, nil
		}
		var buf bytes.Buffer
		if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(90)); err != nil {
			return nil, fmt.Errorf("unable to encode oriented jpeg: %w", err)
		}
		return &Image{Key: key, Width: w, Height: h, Type: "JPG", Data: buf.Bytes()}, nil
	case "png":
		if embeddablePNG(data) {
			return &Image{Key: key, Width: w, Height: h, Type: "PNG", Data: data}, nil
		}
	}
	return encodePNG(key, img)
}

// embeddablePNG reports whether the PNG header describes an 8-bit,
// non-interlaced image. The PDF writer rejects anything else.
func embeddablePNG(data []byte) bool {
	// 8 byte signature, IHDR: length(4) type(4) width(4) height(4) depth(1) color(1) compression(1) filter(1) interlace(1)
	if len(data) < 29 {
		return false
	}
	return data[24] <= 8 && data[28] == 0
}

func encodePNG(key string, img image.Image) (*Image, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, imaging.Clone(img), imaging.PNG); err != nil {
		return nil, fmt.Errorf("unable to encode png: %w", err)
	}
	b := img.Bounds()
	return &Image{Key: key, Width: b.Dx(), Height: b.Dy(), Type: "PNG", Data: buf.Bytes()}, nil
}
