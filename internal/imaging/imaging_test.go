package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func fill(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	return img
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, fill(w, h)); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func jpegBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, fill(w, h), nil); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}
	return buf.Bytes()
}

func TestDecodeFormats(t *testing.T) {
	tests := []struct {
		name   string
		data   []byte
		format string
	}{
		{"png", pngBytes(t, 40, 30), "png"},
		{"jpeg", jpegBytes(t, 40, 30), "jpeg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, format, err := Decode(tt.data)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if format != tt.format {
				t.Errorf("format = %q, want %q", format, tt.format)
			}
			if img.Bounds().Dx() != 40 || img.Bounds().Dy() != 30 {
				t.Errorf("bounds = %v, want 40x30", img.Bounds())
			}
		})
	}
}

func TestDecodeGarbage(t *testing.T) {
	if _, _, err := Decode([]byte("not an image")); err == nil {
		t.Fatal("expected error for non-image bytes")
	}
}

func TestDownscaleDimensions(t *testing.T) {
	tests := []struct {
		name         string
		w, h         int
		maxWidth     int
		wantW, wantH int
	}{
		{"halved", 800, 600, 400, 400, 300},
		{"odd ratio", 1000, 300, 640, 640, 192},
		{"very wide", 2000, 1, 100, 100, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Downscale(fill(tt.w, tt.h), tt.maxWidth)
			if got.Bounds().Dx() != tt.wantW || got.Bounds().Dy() != tt.wantH {
				t.Errorf("bounds = %v, want %dx%d", got.Bounds(), tt.wantW, tt.wantH)
			}
		})
	}
}

func TestDownscaleNoOp(t *testing.T) {
	img := fill(100, 50)
	if got := Downscale(img, 100); got != image.Image(img) {
		t.Error("image at the limit should pass through unchanged")
	}
	if got := Downscale(img, 0); got != image.Image(img) {
		t.Error("non-positive maxWidth should pass through unchanged")
	}
}

func TestEncodePNGRoundTrip(t *testing.T) {
	data, err := EncodePNG(fill(20, 10))
	if err != nil {
		t.Fatalf("EncodePNG: %v", err)
	}
	img, format, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if format != "png" {
		t.Errorf("format = %q, want png", format)
	}
	if img.Bounds().Dx() != 20 || img.Bounds().Dy() != 10 {
		t.Errorf("bounds = %v, want 20x10", img.Bounds())
	}
}

func TestToPNGConvertsJPEG(t *testing.T) {
	out, err := ToPNG(jpegBytes(t, 60, 40), 0)
	if err != nil {
		t.Fatalf("ToPNG: %v", err)
	}
	_, format, err := Decode(out)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if format != "png" {
		t.Errorf("format = %q, want png", format)
	}
}

func TestToPNGPassThrough(t *testing.T) {
	in := pngBytes(t, 60, 40)
	out, err := ToPNG(in, 0)
	if err != nil {
		t.Fatalf("ToPNG: %v", err)
	}
	if !bytes.Equal(in, out) {
		t.Error("PNG within the width limit should pass through byte-identical")
	}
}

func TestToPNGDownscales(t *testing.T) {
	out, err := ToPNG(pngBytes(t, 200, 100), 50)
	if err != nil {
		t.Fatalf("ToPNG: %v", err)
	}
	img, _, err := Decode(out)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if img.Bounds().Dx() != 50 || img.Bounds().Dy() != 25 {
		t.Errorf("bounds = %v, want 50x25", img.Bounds())
	}
}
