// Package detection finds strand crossings in a thresholded band of a frame.
//
// A strand crossing the band shows up as a pair of dark diagonal edges at a
// known angle. The detector is a matched filter for that shape:
//
//  1. Template: BuildTemplate draws two parallel diagonal stripes into a
//     binary kernel from fixed geometry constants.
//  2. Convolution: the band mask, minus a trailing margin, is convolved with
//     the kernel in "same" mode. Only the sample row is computed, as a sum of
//     1-D real FFT convolutions of the band rows with the kernel rows. Kernel
//     spectra are cached per window width by RowFilter.
//  3. Profile: the sample row of the response is the 1-D profile, with its
//     first and last samples forced to zero.
//  4. Peaks: FindPeaks keeps local maxima that are high and wide enough.
//
// # Coordinate System
//
// Peak positions are column indices into the band, which are also frame
// columns because the band spans the full frame width.
//
// # Limitations
//
// The template geometry is tuned by hand for one camera setup. Crossings at a
// different angle or scale respond weakly. The detector does not check the
// number of peaks against the strand total; counting is done by package counter.
package detection
