package imaging

import (
	"image"
	"image/color"
	"math"
	"testing"
)

func defaultOptions(band Band) PreprocessOptions {
	return PreprocessOptions{
		Band:      band,
		BlurSize:  7,
		Threshold: 25,
	}
}

func TestPreprocess_Shape(t *testing.T) {
	sizes := []struct {
		w, h int
		band Band
	}{
		{100, 80, Band{Top: 10, Bottom: 50}},
		{33, 17, Band{Top: 0, Bottom: 17}},
		{256, 300, Band{Top: 120, Bottom: 121}},
	}

	for _, sz := range sizes {
		img := createInMemoryImage(sz.w, sz.h, color.RGBA{200, 180, 160, 255})
		mask, err := Preprocess(img, defaultOptions(sz.band))
		if err != nil {
			t.Fatalf("Preprocess(%dx%d) failed: %v", sz.w, sz.h, err)
		}
		if mask.Width != sz.w || mask.Height != sz.band.Height() {
			t.Errorf("shape: got %dx%d, want %dx%d", mask.Width, mask.Height, sz.w, sz.band.Height())
		}
		if len(mask.Pix) != mask.Width*mask.Height {
			t.Errorf("Pix length: got %d, want %d", len(mask.Pix), mask.Width*mask.Height)
		}
	}
}

func TestPreprocess_DarkStripeIsMarked(t *testing.T) {
	// 20 black rows inside the band survive a 7x7 blur in their core
	img := createStripedImage(80, 100, 40, 60)

	mask, err := Preprocess(img, defaultOptions(Band{Top: 20, Bottom: 80}))
	if err != nil {
		t.Fatalf("Preprocess failed: %v", err)
	}

	for x := 0; x < mask.Width; x++ {
		if !mask.At(x, 30) {
			t.Fatalf("stripe core at (%d,30) should be marked", x)
		}
		if mask.At(x, 2) {
			t.Fatalf("background at (%d,2) should not be marked", x)
		}
	}
}

func TestPreprocess_UniformBackground(t *testing.T) {
	img := createInMemoryImage(60, 60, color.White)
	mask, err := Preprocess(img, defaultOptions(Band{Top: 0, Bottom: 30}))
	if err != nil {
		t.Fatalf("Preprocess failed: %v", err)
	}
	if n := mask.Count(); n != 0 {
		t.Errorf("white frame should give an empty mask, got %d cells", n)
	}
}

func TestPreprocess_InvalidFrame(t *testing.T) {
	img := createInMemoryImage(60, 60, color.White)
	if _, err := Preprocess(img, defaultOptions(Band{Top: 10, Bottom: 61})); err == nil {
		t.Error("Preprocess should fail when the frame is shorter than the band")
	}
}

func TestPreprocess_EvenBlurSize(t *testing.T) {
	img := createInMemoryImage(60, 60, color.White)
	opts := defaultOptions(Band{Top: 0, Bottom: 10})
	opts.BlurSize = 4
	if _, err := Preprocess(img, opts); err == nil {
		t.Error("Preprocess should reject an even blur size")
	}
}

func TestGaussianWeights(t *testing.T) {
	w := gaussianWeights(7, 0)
	if len(w) != 7 {
		t.Fatalf("length: got %d, want 7", len(w))
	}

	var sum float64
	for _, v := range w {
		sum += v
	}
	if math.Abs(sum-1) > 1e-12 {
		t.Errorf("weights should sum to 1, got %f", sum)
	}

	for i := 0; i < 3; i++ {
		if math.Abs(w[i]-w[6-i]) > 1e-12 {
			t.Errorf("weights not symmetric at %d: %f vs %f", i, w[i], w[6-i])
		}
		if w[i] >= w[i+1] {
			t.Errorf("weights should rise toward the center: w[%d]=%f, w[%d]=%f", i, w[i], i+1, w[i+1])
		}
	}
}

func TestGaussianBlur_Uniform(t *testing.T) {
	img := createInMemoryImage(20, 20, color.RGBA{90, 90, 90, 255})
	out, err := GaussianBlur(img, 5, 0)
	if err != nil {
		t.Fatalf("GaussianBlur failed: %v", err)
	}
	// Replicated borders keep a uniform image uniform
	for _, p := range []image.Point{{0, 0}, {10, 10}, {19, 19}} {
		r, _, _, _ := out.At(p.X, p.Y).RGBA()
		if d := int(r>>8) - 90; d < -1 || d > 1 {
			t.Errorf("pixel %v: got %d, want 90", p, r>>8)
		}
	}
}

func TestGreyscale_Luma(t *testing.T) {
	tests := []struct {
		name string
		c    color.RGBA
		want uint8
	}{
		{"white", color.RGBA{255, 255, 255, 255}, 255},
		{"black", color.RGBA{0, 0, 0, 255}, 0},
		{"red", color.RGBA{255, 0, 0, 255}, 76},
		{"green", color.RGBA{0, 255, 0, 255}, 149},
		{"blue", color.RGBA{0, 0, 255, 255}, 29},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grey := Greyscale(createInMemoryImage(2, 2, tt.c))
			got := grey.GrayAt(0, 0).Y
			if d := int(got) - int(tt.want); d < -1 || d > 1 {
				t.Errorf("got %d, want %d±1", got, tt.want)
			}
		})
	}
}

func TestGreyscale_SingleChannel(t *testing.T) {
	// Left half black, right half white, with bounds away from the origin.
	src := image.NewRGBA(image.Rect(5, 5, 9, 7))
	for y := 5; y < 7; y++ {
		for x := 5; x < 9; x++ {
			c := color.RGBA{0, 0, 0, 255}
			if x >= 7 {
				c = color.RGBA{255, 255, 255, 255}
			}
			src.SetRGBA(x, y, c)
		}
	}

	var out image.Image = Greyscale(src)
	grey, ok := out.(*image.Gray)
	if !ok {
		t.Fatalf("Greyscale returned %T, want *image.Gray", out)
	}
	if grey.Bounds() != image.Rect(0, 0, 4, 2) {
		t.Fatalf("bounds: got %v, want (0,0)-(4,2)", grey.Bounds())
	}
	if len(grey.Pix) != 8 {
		t.Errorf("Pix length: got %d, want one byte per pixel", len(grey.Pix))
	}
	for y := 0; y < 2; y++ {
		if v := grey.GrayAt(1, y).Y; v != 0 {
			t.Errorf("(1,%d): got %d, want 0", y, v)
		}
		if v := grey.GrayAt(3, y).Y; v < 254 {
			t.Errorf("(3,%d): got %d, want 255", y, v)
		}
	}
}

func TestThreshold(t *testing.T) {
	grey := image.NewGray(image.Rect(0, 0, 4, 1))
	grey.Pix = []uint8{0, 24, 25, 200}

	mask := Threshold(grey, 25)
	want := []bool{true, true, false, false}
	for i, w := range want {
		if mask.Pix[i] != w {
			t.Errorf("Pix[%d] (grey %d): got %v, want %v", i, grey.Pix[i], mask.Pix[i], w)
		}
	}
}

func TestThreshold_SubImage(t *testing.T) {
	grey := image.NewGray(image.Rect(0, 0, 4, 4))
	grey.SetGray(2, 2, color.Gray{Y: 0})
	for i := range grey.Pix {
		if i != grey.PixOffset(2, 2) {
			grey.Pix[i] = 255
		}
	}
	sub := grey.SubImage(image.Rect(1, 1, 4, 4)).(*image.Gray)

	mask := Threshold(sub, 25)
	if mask.Width != 3 || mask.Height != 3 {
		t.Fatalf("shape: got %dx%d, want 3x3", mask.Width, mask.Height)
	}
	if !mask.At(1, 1) || mask.Count() != 1 {
		t.Errorf("only (1,1) should be set, count=%d", mask.Count())
	}
}
