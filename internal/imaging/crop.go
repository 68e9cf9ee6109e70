package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// Band is a horizontal strip of a frame: rows [Top, Bottom) across the full width.
type Band struct {
	Top    int `json:"top"`
	Bottom int `json:"bottom"`
}

// Height returns the number of rows in the band.
func (b Band) Height() int {
	return b.Bottom - b.Top
}

// InvalidFrameError reports a frame that cannot be processed with the
// configured band or detection window.
type InvalidFrameError struct {
	Width  int
	Height int
	Reason string
}

func (e *InvalidFrameError) Error() string {
	return fmt.Sprintf("invalid frame %dx%d: %s", e.Width, e.Height, e.Reason)
}

// CropBand extracts the band from a frame.
//
// The returned image always has bounds starting at (0,0), with width equal to
// the frame width and height equal to band.Height().
//
// # Errors
//
//   - *InvalidFrameError if the band is empty or starts above the frame
//   - *InvalidFrameError if the frame is shorter than band.Bottom
func CropBand(img image.Image, band Band) (*image.NRGBA, error) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	if band.Top < 0 || band.Height() <= 0 {
		return nil, &InvalidFrameError{Width: w, Height: h,
			Reason: fmt.Sprintf("empty band rows [%d, %d)", band.Top, band.Bottom)}
	}
	if h < band.Bottom {
		return nil, &InvalidFrameError{Width: w, Height: h,
			Reason: fmt.Sprintf("frame height %d is smaller than band bottom %d", h, band.Bottom)}
	}

	rect := image.Rect(bounds.Min.X, bounds.Min.Y+band.Top, bounds.Max.X, bounds.Min.Y+band.Bottom)
	return imaging.Crop(img, rect), nil
}
