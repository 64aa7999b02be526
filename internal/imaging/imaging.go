// Package imaging decodes screenshot payloads and prepares them for
// saving: PNG/JPEG decode, optional downscale, PNG re-encode.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
)

// Decode parses PNG or JPEG bytes and reports the detected format.
func Decode(data []byte) (image.Image, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}
	return img, format, nil
}

// Downscale resizes img to at most maxWidth pixels wide, preserving the
// aspect ratio. Images already within the limit (or a non-positive
// maxWidth) return the original unchanged.
func Downscale(img image.Image, maxWidth int) image.Image {
	src := img.Bounds()
	w, h := src.Dx(), src.Dy()
	if maxWidth <= 0 || w <= maxWidth {
		return img
	}
	scaledH := h * maxWidth / w
	if scaledH < 1 {
		scaledH = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, scaledH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, src, draw.Src, nil)
	return dst
}

// EncodePNG renders img as PNG bytes.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// ToPNG converts raw screenshot bytes to PNG, optionally downscaling to
// maxWidth. PNG input that needs no resize passes through untouched.
func ToPNG(data []byte, maxWidth int) ([]byte, error) {
	img, format, err := Decode(data)
	if err != nil {
		return nil, err
	}
	if format == "png" && (maxWidth <= 0 || img.Bounds().Dx() <= maxWidth) {
		return data, nil
	}
	return EncodePNG(Downscale(img, maxWidth))
}
