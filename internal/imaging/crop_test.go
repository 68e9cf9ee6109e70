package imaging

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

// createInMemoryImage creates a solid-color image in memory
func createInMemoryImage(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// createStripedImage creates a white image whose rows [from, to) are black
func createStripedImage(width, height, from, to int) *image.RGBA {
	img := createInMemoryImage(width, height, color.White)
	for y := from; y < to; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.Black)
		}
	}
	return img
}

func TestBand_Height(t *testing.T) {
	if h := (Band{Top: 10, Bottom: 35}).Height(); h != 25 {
		t.Errorf("Height: got %d, want 25", h)
	}
}

func TestCropBand(t *testing.T) {
	img := createStripedImage(120, 100, 40, 50)

	band, err := CropBand(img, Band{Top: 30, Bottom: 60})
	if err != nil {
		t.Fatalf("CropBand failed: %v", err)
	}

	bounds := band.Bounds()
	if bounds.Min != (image.Point{}) {
		t.Errorf("bounds should start at origin, got %v", bounds.Min)
	}
	if bounds.Dx() != 120 || bounds.Dy() != 30 {
		t.Errorf("dimensions: got %dx%d, want 120x30", bounds.Dx(), bounds.Dy())
	}

	// Band row 10 is frame row 40: the first black row
	if r, _, _, _ := band.At(5, 9).RGBA(); r>>8 != 255 {
		t.Errorf("row 9 should be white, got r=%d", r>>8)
	}
	if r, _, _, _ := band.At(5, 10).RGBA(); r>>8 != 0 {
		t.Errorf("row 10 should be black, got r=%d", r>>8)
	}
}

func TestCropBand_OffsetBounds(t *testing.T) {
	// Frames decoded from sub-images may not start at (0,0)
	full := createStripedImage(50, 80, 20, 21)
	sub := full.SubImage(image.Rect(0, 10, 50, 80))

	band, err := CropBand(sub, Band{Top: 10, Bottom: 12})
	if err != nil {
		t.Fatalf("CropBand failed: %v", err)
	}
	if r, _, _, _ := band.At(0, 0).RGBA(); r>>8 != 0 {
		t.Errorf("band row 0 should be frame row 20 (black), got r=%d", r>>8)
	}
}

func TestCropBand_InvalidFrame(t *testing.T) {
	img := createInMemoryImage(100, 100, color.White)

	tests := []struct {
		name string
		band Band
	}{
		{"bottom beyond frame", Band{Top: 50, Bottom: 101}},
		{"empty band", Band{Top: 50, Bottom: 50}},
		{"inverted band", Band{Top: 60, Bottom: 40}},
		{"negative top", Band{Top: -1, Bottom: 40}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CropBand(img, tt.band)
			if err == nil {
				t.Fatal("CropBand should fail")
			}
			var frameErr *InvalidFrameError
			if !errors.As(err, &frameErr) {
				t.Fatalf("want *InvalidFrameError, got %T", err)
			}
			if frameErr.Width != 100 || frameErr.Height != 100 {
				t.Errorf("error should carry frame size, got %dx%d", frameErr.Width, frameErr.Height)
			}
		})
	}
}

func TestCropBand_ExactFit(t *testing.T) {
	img := createInMemoryImage(64, 48, color.White)
	band, err := CropBand(img, Band{Top: 0, Bottom: 48})
	if err != nil {
		t.Fatalf("CropBand failed: %v", err)
	}
	if band.Bounds().Dy() != 48 {
		t.Errorf("height: got %d, want 48", band.Bounds().Dy())
	}
}
