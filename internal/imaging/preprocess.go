package imaging

import (
	"fmt"
	"image"
	"math"

	"github.com/anthonynsimon/bild/convolution"
	"github.com/anthonynsimon/bild/effect"
)

// ITU-R BT.601 luma weights.
const (
	lumaR = 0.299
	lumaG = 0.587
	lumaB = 0.114
)

// PreprocessOptions configures Preprocess.
type PreprocessOptions struct {
	// Band selects the frame rows to keep.
	Band Band

	// BlurSize is the Gaussian kernel size; must be odd and positive.
	BlurSize int

	// BlurSigma is the Gaussian standard deviation. Zero derives it from
	// BlurSize the same way OpenCV does.
	BlurSigma float64

	// Threshold is the greyscale level; pixels strictly darker become true.
	Threshold uint8
}

// Preprocess crops a frame to the band, smooths it, converts it to greyscale
// and thresholds it into a Mask of shape (band height, frame width).
func Preprocess(img image.Image, opts PreprocessOptions) (*Mask, error) {
	band, err := CropBand(img, opts.Band)
	if err != nil {
		return nil, err
	}

	blurred, err := GaussianBlur(band, opts.BlurSize, opts.BlurSigma)
	if err != nil {
		return nil, err
	}

	grey := Greyscale(blurred)
	return Threshold(grey, opts.Threshold), nil
}

// GaussianBlur applies a size x size Gaussian blur as two separable passes.
// Border pixels use replicated edge values.
func GaussianBlur(img image.Image, size int, sigma float64) (*image.RGBA, error) {
	if size <= 0 || size%2 == 0 {
		return nil, fmt.Errorf("blur kernel size must be odd and positive, got %d", size)
	}
	weights := gaussianWeights(size, sigma)

	horizontal := convolution.NewKernel(size, 1)
	vertical := convolution.NewKernel(1, size)
	copy(horizontal.Matrix, weights)
	copy(vertical.Matrix, weights)

	opts := &convolution.Options{Bias: 0, Wrap: false, KeepAlpha: true}
	pass := convolution.Convolve(img, horizontal, opts)
	return convolution.Convolve(pass, vertical, opts), nil
}

// gaussianWeights returns a normalized 1-D Gaussian of the given odd size.
// A non-positive sigma is derived from the size using OpenCV's rule
// 0.3*((size-1)*0.5-1)+0.8.
func gaussianWeights(size int, sigma float64) []float64 {
	if sigma <= 0 {
		sigma = 0.3*(float64(size-1)*0.5-1) + 0.8
	}
	weights := make([]float64, size)
	radius := size / 2
	var sum float64
	for i := range weights {
		d := float64(i - radius)
		weights[i] = math.Exp(-(d * d) / (2 * sigma * sigma))
		sum += weights[i]
	}
	for i := range weights {
		weights[i] /= sum
	}
	return weights
}

// Greyscale converts an image to single-channel intensity using BT.601 luma.
// The result has bounds starting at (0,0).
func Greyscale(img image.Image) *image.Gray {
	rgba := effect.GrayscaleWithWeights(img, lumaR, lumaG, lumaB)

	// bild writes the luma into R, G and B alike; keep R.
	bounds := rgba.Bounds()
	grey := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := 0; y < bounds.Dy(); y++ {
		src := rgba.Pix[rgba.PixOffset(bounds.Min.X, bounds.Min.Y+y):]
		dst := grey.Pix[y*grey.Stride : y*grey.Stride+bounds.Dx()]
		for x := range dst {
			dst[x] = src[x*4]
		}
	}
	return grey
}

// Threshold marks every pixel strictly darker than level.
func Threshold(grey *image.Gray, level uint8) *Mask {
	bounds := grey.Bounds()
	mask := NewMask(bounds.Dx(), bounds.Dy())
	for y := 0; y < mask.Height; y++ {
		off := grey.PixOffset(bounds.Min.X, bounds.Min.Y+y)
		row := grey.Pix[off : off+mask.Width]
		for x, v := range row {
			mask.Pix[y*mask.Width+x] = v < level
		}
	}
	return mask
}
