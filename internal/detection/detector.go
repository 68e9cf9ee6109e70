package detection

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/ironsheep/strand-counter/internal/imaging"
)

// DetectorOptions configures a Detector.
type DetectorOptions struct {
	MinHeight float64
	MinWidth  float64

	// TrailingMargin columns are dropped from the right edge of the mask
	// before convolving, to keep template edge artifacts out of the response.
	TrailingMargin int

	// SampleRow is the mask row the response profile is taken from.
	SampleRow int
}

// Detector finds strand crossings in a band mask.
//
// Kernel transforms are cached per window width, so a Detector is not safe
// for concurrent use.
type Detector struct {
	template *Template
	opts     DetectorOptions
	filters  map[int]*RowFilter
}

// Detection is the result of one Detect call.
type Detection struct {
	// Profile is the response along the sample row, with both end samples zeroed.
	Profile []float64 `json:"profile"`

	// Peaks are the accepted crossings, left to right.
	Peaks []Peak `json:"peaks"`

	// WindowWidth is the number of mask columns that were convolved.
	WindowWidth int `json:"window_width"`
}

// NewDetector returns a Detector for the template.
func NewDetector(t *Template, opts DetectorOptions) (*Detector, error) {
	if t == nil {
		return nil, fmt.Errorf("detector needs a template")
	}
	if opts.MinHeight <= 0 || opts.MinWidth <= 0 {
		return nil, fmt.Errorf("min height and width must be positive, got %g and %g", opts.MinHeight, opts.MinWidth)
	}
	if opts.TrailingMargin < 0 || opts.SampleRow < 0 {
		return nil, fmt.Errorf("trailing margin and sample row must be >= 0, got %d and %d", opts.TrailingMargin, opts.SampleRow)
	}
	return &Detector{template: t, opts: opts, filters: make(map[int]*RowFilter)}, nil
}

// Template returns the detector's kernel.
func (d *Detector) Template() *Template {
	return d.template
}

// Detect convolves the mask with the template and returns the peaks along the
// sample row. No crossings is a valid result and returns an empty Peaks slice.
//
// # Errors
//
//   - *imaging.InvalidFrameError if the window is narrower than the template
//   - *imaging.InvalidFrameError if the mask has no SampleRow
func (d *Detector) Detect(mask *imaging.Mask) (*Detection, error) {
	_, kc := d.template.Dims()
	window := mask.Width - d.opts.TrailingMargin

	if window < kc || window <= 0 {
		return nil, &imaging.InvalidFrameError{Width: mask.Width, Height: mask.Height,
			Reason: fmt.Sprintf("processed window of %d columns is narrower than the %d column template", window, kc)}
	}
	if d.opts.SampleRow >= mask.Height {
		return nil, &imaging.InvalidFrameError{Width: mask.Width, Height: mask.Height,
			Reason: fmt.Sprintf("band has %d rows, sample row is %d", mask.Height, d.opts.SampleRow)}
	}

	response := d.filter(window).Apply(maskWindow{mask: mask, width: window}, d.opts.SampleRow)
	profile := responseProfile(response)

	peaks := FindPeaks(profile, PeakOptions{
		MinHeight: d.opts.MinHeight,
		MinWidth:  d.opts.MinWidth,
	})

	return &Detection{
		Profile:     profile,
		Peaks:       peaks,
		WindowWidth: window,
	}, nil
}

// Positions returns the peak positions in order.
func (d *Detection) Positions() []int {
	out := make([]int, len(d.Peaks))
	for i, p := range d.Peaks {
		out[i] = p.Position
	}
	return out
}

func (d *Detector) filter(width int) *RowFilter {
	f, ok := d.filters[width]
	if !ok {
		f = NewRowFilter(d.template.Kernel, width)
		d.filters[width] = f
	}
	return f
}

// maskWindow exposes the leftmost width columns of a mask as a 0/1 matrix.
type maskWindow struct {
	mask  *imaging.Mask
	width int
}

func (w maskWindow) Dims() (r, c int) { return w.mask.Height, w.width }

func (w maskWindow) At(i, j int) float64 {
	if i < 0 || i >= w.mask.Height || j < 0 || j >= w.width {
		panic(mat.ErrIndexOutOfRange)
	}
	if w.mask.Pix[i*w.mask.Width+j] {
		return 1
	}
	return 0
}

func (w maskWindow) T() mat.Matrix { return mat.Transpose{Matrix: w} }

// responseProfile rounds a response row in place. Both inputs are binary, so
// samples are rounded back to the integer overlap counts the FFT approximates.
// The end samples are zeroed so a crossing at the very edge still forms a peak.
func responseProfile(row []float64) []float64 {
	for i, v := range row {
		row[i] = math.Round(v)
	}
	row[0] = 0
	row[len(row)-1] = 0
	return row
}
