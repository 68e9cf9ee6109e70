package detection

// Peak is a local maximum of a 1-D response that passed the height and width filters.
type Peak struct {
	// Position is the sample index of the peak.
	Position int `json:"position"`

	// Height is the response value at Position.
	Height float64 `json:"height"`

	// Prominence is how far the peak rises above the higher of its two bases.
	Prominence float64 `json:"prominence"`

	// Width is measured at Height - RelHeight*Prominence, with linear
	// interpolation between samples. LeftIP and RightIP are the crossing points.
	Width   float64 `json:"width"`
	LeftIP  float64 `json:"left_ip"`
	RightIP float64 `json:"right_ip"`
}

// PeakOptions filters the peaks returned by FindPeaks.
type PeakOptions struct {
	MinHeight float64
	MinWidth  float64

	// RelHeight chooses where the width is measured, as a fraction of the
	// prominence below the peak. Zero means 0.5.
	RelHeight float64
}

// FindPeaks returns the peaks of x in increasing position order.
//
// # Algorithm
//
//  1. Candidates are samples strictly greater than their left neighbour and
//     greater than the first differing sample to their right. A flat plateau
//     yields its middle sample. The first and last samples are never candidates.
//  2. Candidates lower than MinHeight are dropped.
//  3. The prominence of each candidate is its height minus the higher of the
//     minima found walking left and right until a higher sample or the border.
//  4. The width is the distance between the points where the response falls
//     to Height - RelHeight*Prominence on each side, within the bases from step 3.
//     Candidates narrower than MinWidth are dropped.
func FindPeaks(x []float64, opts PeakOptions) []Peak {
	rel := opts.RelHeight
	if rel == 0 {
		rel = 0.5
	}

	peaks := make([]Peak, 0)
	for _, p := range localMaxima(x) {
		if x[p] < opts.MinHeight {
			continue
		}
		prom, leftBase, rightBase := prominence(x, p)
		left, right := widthAt(x, p, x[p]-prom*rel, leftBase, rightBase)
		width := right - left
		if width < opts.MinWidth {
			continue
		}
		peaks = append(peaks, Peak{
			Position:   p,
			Height:     x[p],
			Prominence: prom,
			Width:      width,
			LeftIP:     left,
			RightIP:    right,
		})
	}
	return peaks
}

// localMaxima finds strict local maxima, reducing flat plateaus to their middle.
func localMaxima(x []float64) []int {
	maxima := make([]int, 0)
	n := len(x)
	i := 1
	for i < n-1 {
		if x[i-1] < x[i] {
			ahead := i + 1
			for ahead < n-1 && x[ahead] == x[i] {
				ahead++
			}
			if x[ahead] < x[i] {
				maxima = append(maxima, (i+ahead-1)/2)
				i = ahead
			}
		}
		i++
	}
	return maxima
}

func prominence(x []float64, peak int) (prom float64, leftBase, rightBase int) {
	top := x[peak]

	leftMin := top
	leftBase = peak
	for i := peak; i >= 0 && x[i] <= top; i-- {
		if x[i] < leftMin {
			leftMin = x[i]
			leftBase = i
		}
	}

	rightMin := top
	rightBase = peak
	for i := peak; i < len(x) && x[i] <= top; i++ {
		if x[i] < rightMin {
			rightMin = x[i]
			rightBase = i
		}
	}

	return top - max(leftMin, rightMin), leftBase, rightBase
}

// widthAt returns the interpolated positions where x falls to level on
// either side of peak, searching no further than the bases.
func widthAt(x []float64, peak int, level float64, leftBase, rightBase int) (left, right float64) {
	i := peak
	for leftBase < i && level < x[i] {
		i--
	}
	left = float64(i)
	if x[i] < level {
		left += (level - x[i]) / (x[i+1] - x[i])
	}

	i = peak
	for i < rightBase && level < x[i] {
		i++
	}
	right = float64(i)
	if x[i] < level {
		right -= (level - x[i]) / (x[i-1] - x[i])
	}
	return left, right
}
