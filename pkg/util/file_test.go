package util

import "testing"

// a 1x1 PNG: signature + an IHDR chunk declaring width=1, height=1.
var onePixelPNG = []byte{
	0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A,
	0x00, 0x00, 0x00, 0x0D, 'I', 'H', 'D', 'R',
	0x00, 0x00, 0x00, 0x01, // width = 1
	0x00, 0x00, 0x00, 0x01, // height = 1
	0x08, 0x06, 0x00, 0x00, 0x00,
}

func TestDetermineImageTypeRecognizesPNGDimensions(t *testing.T) {
	kind, w, h, err := DetermineImageType("", onePixelPNG)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if kind != "png" {
		t.Errorf("expected kind png, got %q", kind)
	}
	if w != 1 || h != 1 {
		t.Errorf("expected 1x1, got %dx%d", w, h)
	}
}

func TestDetermineImageTypeRejectsEmptyContent(t *testing.T) {
	if _, _, _, err := DetermineImageType("photo.png", nil); err == nil {
		t.Fatal("expected an error for empty content")
	}
}

func TestDetermineImageTypeRejectsUnrecognizedContent(t *testing.T) {
	if _, _, _, err := DetermineImageType("", []byte("not an image")); err == nil {
		t.Fatal("expected an error for unrecognized content")
	}
}

func TestExtractSVGDimensionsFromAttributes(t *testing.T) {
	svg := `<svg width="200px" height="100px"><rect/></svg>`
	w, h := extractSVGDimensions(svg)
	if w != 200 || h != 100 {
		t.Errorf("expected 200x100, got %dx%d", w, h)
	}
}

func TestExtractSVGDimensionsFallsBackToViewBox(t *testing.T) {
	svg := `<svg viewBox="0 0 320 240"><rect/></svg>`
	w, h := extractSVGDimensions(svg)
	if w != 320 || h != 240 {
		t.Errorf("expected 320x240 from viewBox, got %dx%d", w, h)
	}
}

func TestDetermineImageTypeRecognizesSVG(t *testing.T) {
	svg := []byte(`<svg width="64px" height="32px"></svg>`)
	kind, w, h, err := DetermineImageType("", svg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if kind != "svg" || w != 64 || h != 32 {
		t.Errorf("expected svg 64x32, got %s %dx%d", kind, w, h)
	}
}
