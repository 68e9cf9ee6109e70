package imaging

import (
	"bytes"
	"encoding/base64"
	"image/color"
	"image/png"
	"testing"
)

func TestDrawMarkers(t *testing.T) {
	img := createInMemoryImage(200, 100, color.RGBA{128, 128, 128, 255})
	palette := Palette{{255, 0, 0, 255}, {0, 0, 255, 255}}
	markers := []Marker{{X: 40, Strand: 1}, {X: 150, Strand: 2}}

	result, err := DrawMarkers(img, markers, 50, 10, palette)
	if err != nil {
		t.Fatalf("DrawMarkers failed: %v", err)
	}

	if result.Width != 200 || result.Height != 100 {
		t.Errorf("dimensions: got %dx%d, want 200x100", result.Width, result.Height)
	}
	if result.MimeType != "image/png" {
		t.Errorf("MimeType: got %s, want image/png", result.MimeType)
	}
	if result.Markers != 2 {
		t.Errorf("Markers: got %d, want 2", result.Markers)
	}

	data, err := base64.StdEncoding.DecodeString(result.ImageBase64)
	if err != nil {
		t.Fatalf("failed to decode base64: %v", err)
	}
	decoded, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("failed to decode PNG: %v", err)
	}

	// Disc rim, away from the label glyphs
	if r, g, b, _ := decoded.At(40, 50-9).RGBA(); r>>8 != 255 || g>>8 != 0 || b>>8 != 0 {
		t.Errorf("strand 1 marker should be red, got (%d,%d,%d)", r>>8, g>>8, b>>8)
	}
	if r, _, b, _ := decoded.At(150+9, 50).RGBA(); r>>8 != 0 || b>>8 != 255 {
		t.Errorf("strand 2 marker should be blue, got r=%d b=%d", r>>8, b>>8)
	}
	// Outside any disc stays untouched
	if r, _, _, _ := decoded.At(100, 10).RGBA(); r>>8 != 128 {
		t.Errorf("background should be unchanged, got %d", r>>8)
	}
}

func TestRenderMarkers_ClipsAtEdges(t *testing.T) {
	img := createInMemoryImage(30, 30, color.White)
	palette := Palette{{255, 0, 0, 255}}

	// Centered on the corner; must not panic
	out := RenderMarkers(img, []Marker{{X: 0, Strand: 1}}, 0, 15, palette)
	if r, g, _, _ := out.At(10, 5).RGBA(); r>>8 != 255 || g>>8 != 0 {
		t.Errorf("pixel near the corner should be inside the marker, got r=%d g=%d", r>>8, g>>8)
	}
}

func TestRenderMarkers_DoesNotModifySource(t *testing.T) {
	img := createInMemoryImage(40, 40, color.White)
	RenderMarkers(img, []Marker{{X: 20, Strand: 1}}, 20, 5, Palette{{0, 0, 0, 255}})

	if r, _, _, _ := img.At(20, 20).RGBA(); r>>8 != 255 {
		t.Error("RenderMarkers must draw on a copy")
	}
}
