package detection

import (
	"fmt"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/mat"
)

// RowFilter computes single rows of the "same" mode 2-D convolution of an
// input of fixed width with a kernel.
//
// A row of a 2-D convolution is the sum of 1-D convolutions of each input row
// with the kernel row that lines up with it, so only the kernel rows that
// touch the requested row are transformed. Kernel spectra are computed once,
// at a 5-smooth transform length, and reused by every Apply call.
//
// A RowFilter holds scratch buffers and is not safe for concurrent use.
type RowFilter struct {
	width  int
	kr, kc int
	n      int

	fft  *fourier.FFT
	rows []rowSpectrum

	seq   []float64
	coeff []complex128
	acc   []complex128
	out   []float64
}

type rowSpectrum struct {
	row   int
	coeff []complex128
}

// NewRowFilter transforms the kernel for inputs that are width columns wide.
func NewRowFilter(kernel *mat.Dense, width int) *RowFilter {
	kr, kc := kernel.Dims()
	n := nextFastLen(width + kc - 1)

	f := &RowFilter{
		width: width,
		kr:    kr,
		kc:    kc,
		n:     n,
		fft:   fourier.NewFFT(n),
		seq:   make([]float64, n),
		coeff: make([]complex128, n/2+1),
		acc:   make([]complex128, n/2+1),
		out:   make([]float64, n),
	}

	for ky := 0; ky < kr; ky++ {
		if !f.load(kernel.RawRowView(ky)) {
			continue
		}
		f.rows = append(f.rows, rowSpectrum{
			row:   ky,
			coeff: f.fft.Coefficients(nil, f.seq),
		})
	}
	return f
}

// Width returns the input width the filter was built for.
func (f *RowFilter) Width() int {
	return f.width
}

// Apply returns row of the "same" mode convolution of a with the kernel,
// matching a full convolution cropped by ((kr-1)/2, (kc-1)/2).
// It panics if a is not the filter's width.
func (f *RowFilter) Apply(a mat.Matrix, row int) []float64 {
	ar, ac := a.Dims()
	if ac != f.width {
		panic(fmt.Sprintf("detection: row filter built for width %d, got %d", f.width, ac))
	}

	for i := range f.acc {
		f.acc[i] = 0
	}

	full := row + (f.kr-1)/2
	buf := make([]float64, ac)
	for _, ks := range f.rows {
		ay := full - ks.row
		if ay < 0 || ay >= ar {
			continue
		}
		if !f.load(matrixRow(a, ay, buf)) {
			continue
		}
		f.fft.Coefficients(f.coeff, f.seq)
		for i, c := range f.coeff {
			f.acc[i] += c * ks.coeff[i]
		}
	}

	f.fft.Sequence(f.out, f.acc)

	// The inverse transform is unnormalized.
	scale := 1 / float64(f.n)
	left := (f.kc - 1) / 2
	result := make([]float64, f.width)
	for x := range result {
		result[x] = f.out[x+left] * scale
	}
	return result
}

// load zero-pads src into the sequence buffer and reports whether it has any
// non-zero sample.
func (f *RowFilter) load(src []float64) bool {
	nonZero := false
	for i := range f.seq {
		f.seq[i] = 0
	}
	for i, v := range src {
		f.seq[i] = v
		if v != 0 {
			nonZero = true
		}
	}
	return nonZero
}

func matrixRow(a mat.Matrix, y int, buf []float64) []float64 {
	if rv, ok := a.(mat.RawRowViewer); ok {
		return rv.RawRowView(y)[:len(buf)]
	}
	for x := range buf {
		buf[x] = a.At(y, x)
	}
	return buf
}

// nextFastLen returns the smallest length >= n whose only prime factors are
// 2, 3 and 5.
func nextFastLen(n int) int {
	if n <= 1 {
		return 1
	}
	for m := n; ; m++ {
		r := m
		for _, p := range []int{2, 3, 5} {
			for r%p == 0 {
				r /= p
			}
		}
		if r == 1 {
			return m
		}
	}
}
