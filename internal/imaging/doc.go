// Package imaging provides the frame-level image operations of the strand counter.
//
// This package turns a raw camera frame into the binary mask the crossing
// detector works on, and renders the results back onto a frame for display.
// All operations work with standard Go image.Image types and use a coordinate
// system where (0,0) is at the top-left corner, X increases rightward, and Y
// increases downward.
//
// # Preprocessing
//
// Preprocess runs four pure steps, none of which share mutable state:
//
//  1. Crop: rows [Top, Bottom) of the frame at full width (CropBand)
//  2. Smooth: separable Gaussian blur with an odd kernel size
//  3. Greyscale: ITU-R BT.601 luma (0.299*R + 0.587*G + 0.114*B)
//  4. Threshold: pixels darker than the threshold become true in the Mask
//
// Strands appear as dark regions against a lighter background, so a true mask
// cell means "strand material present".
//
// # Coordinate System
//
// Band rows are absolute frame rows. Mask coordinates are relative to the band:
// mask row 0 is frame row Band.Top.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. The preprocessing and overlay
// functions are stateless and can be called concurrently on different frames.
//
// # Error Handling
//
// A frame that does not cover the configured band is reported as an
// *InvalidFrameError rather than silently cropped to whatever rows exist.
package imaging
