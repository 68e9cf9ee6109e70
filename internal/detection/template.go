package detection

import (
	"fmt"
	"image"
	"math"

	"gonum.org/v1/gonum/mat"
)

// TemplateGeometry describes the matched filter for one strand crossing: two
// parallel diagonal stripes, Offset columns apart, drawn along y = Slope*x.
type TemplateGeometry struct {
	Height    int     `json:"height"`
	Width     int     `json:"width"`
	Columns   int     `json:"columns"`   // stripe length in columns, starting at x=0
	Slope     float64 `json:"slope"`     // rows per column
	Thickness int     `json:"thickness"` // horizontal run drawn at each column
	Offset    int     `json:"offset"`    // column distance between the two stripes
}

// Template is a binary detection kernel. Kernel cells are 0 or 1.
type Template struct {
	Geometry TemplateGeometry
	Kernel   *mat.Dense
}

// BuildTemplate draws the two stripes of g into a Height x Width grid.
//
// For every column x in [0, Columns) it computes y = round(Slope*x), rounding
// halves to even, and sets the runs [x, x+Thickness) and
// [x+Offset, x+Offset+Thickness) on row y. The result depends only on g.
//
// # Errors
//
// Returns an error if any dimension is non-positive or a stripe falls outside
// the grid.
func BuildTemplate(g TemplateGeometry) (*Template, error) {
	if g.Height <= 0 || g.Width <= 0 {
		return nil, fmt.Errorf("template dimensions must be positive, got %dx%d", g.Width, g.Height)
	}
	if g.Columns <= 0 || g.Thickness <= 0 || g.Offset < 0 {
		return nil, fmt.Errorf("invalid stripe geometry: columns=%d thickness=%d offset=%d", g.Columns, g.Thickness, g.Offset)
	}

	kernel := mat.NewDense(g.Height, g.Width, nil)
	for x := 0; x < g.Columns; x++ {
		y := int(math.RoundToEven(g.Slope * float64(x)))
		if y < 0 || y >= g.Height {
			return nil, fmt.Errorf("column %d maps to row %d outside template height %d", x, y, g.Height)
		}
		if x+g.Offset+g.Thickness > g.Width {
			return nil, fmt.Errorf("stripe at column %d extends past template width %d", x+g.Offset, g.Width)
		}
		for dx := 0; dx < g.Thickness; dx++ {
			kernel.Set(y, x+dx, 1)
			kernel.Set(y, x+g.Offset+dx, 1)
		}
	}

	return &Template{Geometry: g, Kernel: kernel}, nil
}

// Dims returns the kernel's rows and columns.
func (t *Template) Dims() (rows, cols int) {
	return t.Kernel.Dims()
}

// Cells returns the number of set kernel cells.
func (t *Template) Cells() int {
	n := 0
	rows, cols := t.Kernel.Dims()
	for y := 0; y < rows; y++ {
		for _, v := range t.Kernel.RawRowView(y)[:cols] {
			if v != 0 {
				n++
			}
		}
	}
	return n
}

// Image renders the kernel for display: set cells white, the rest black.
func (t *Template) Image() *image.Gray {
	rows, cols := t.Kernel.Dims()
	img := image.NewGray(image.Rect(0, 0, cols, rows))
	for y := 0; y < rows; y++ {
		for x, v := range t.Kernel.RawRowView(y)[:cols] {
			if v != 0 {
				img.Pix[y*img.Stride+x] = 255
			}
		}
	}
	return img
}
