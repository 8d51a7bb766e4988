// Package imaging converts uploaded product images into the single format
// served to browsers: JPEG, bounded to a fixed box, fixed quality.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// MaxWidth and MaxHeight bound the stored image dimensions.
// Images are scaled to fit inside this box, never enlarged.
const (
	MaxWidth  = 800
	MaxHeight = 600
)

// JPEGQuality is the compression quality for JPEG output.
const JPEGQuality = 80

// ContentType is the MIME type of every processed image.
const ContentType = "image/jpeg"

// Ext is the file extension matching ContentType.
const Ext = ".jpg"

// allowedMIME lists the accepted input MIME types.
var allowedMIME = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// Result contains the processed image data.
type Result struct {
	Data   []byte
	MIME   string
	Width  int
	Height int
}

// Process reads image data, validates the format by sniffing bytes,
// downscales to fit inside MaxWidth×MaxHeight, and re-encodes as JPEG.
func Process(r io.Reader) (*Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading image data: %w", err)
	}

	// Sniff actual MIME type from bytes (not trusting client headers).
	detected := http.DetectContentType(data)
	if !allowedMIME[detected] {
		return nil, fmt.Errorf("unsupported image format: %s (only JPEG, PNG and WebP accepted)", detected)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	img = fitInside(img, MaxWidth, MaxHeight)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, fmt.Errorf("encoding JPEG: %w", err)
	}

	bounds := img.Bounds()
	return &Result{
		Data:   buf.Bytes(),
		MIME:   ContentType,
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}, nil
}

// fitInside resizes the image so it fits inside maxW×maxH, preserving
// aspect ratio. Uses high-quality Catmull-Rom interpolation.
// Returns the original image if already within bounds.
func fitInside(img image.Image, maxW, maxH int) image.Image {
	bounds := img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()

	if w <= maxW && h <= maxH {
		return img
	}

	scale := float64(maxW) / float64(w)
	if s := float64(maxH) / float64(h); s < scale {
		scale = s
	}

	newW := int(float64(w)*scale + 0.5)
	newH := int(float64(h)*scale + 0.5)
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}
