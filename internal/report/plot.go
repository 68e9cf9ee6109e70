// Package report writes diagnostic plots of a detection step.
package report

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/ironsheep/strand-counter/internal/detection"
)

var (
	profileColor = color.RGBA{R: 40, G: 90, B: 200, A: 255}
	peakColor    = color.RGBA{R: 220, G: 30, B: 30, A: 255}
)

// PlotProfile writes the response profile as a line plot with the accepted
// peaks marked. The image format follows the file extension (.png, .svg, .pdf).
func PlotProfile(profile []float64, peaks []detection.Peak, path string) error {
	if len(profile) == 0 {
		return fmt.Errorf("profile is empty")
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Crossing response (%d peaks)", len(peaks))
	p.X.Label.Text = "Column"
	p.Y.Label.Text = "Overlap"

	pts := make(plotter.XYs, len(profile))
	for i, v := range profile {
		pts[i] = plotter.XY{X: float64(i), Y: v}
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("failed to create profile line: %w", err)
	}
	line.Color = profileColor
	line.Width = vg.Points(1)
	p.Add(line)
	p.Legend.Add("response", line)

	if len(peaks) > 0 {
		peakPts := make(plotter.XYs, len(peaks))
		for i, pk := range peaks {
			peakPts[i] = plotter.XY{X: float64(pk.Position), Y: pk.Height}
		}
		scatter, err := plotter.NewScatter(peakPts)
		if err != nil {
			return fmt.Errorf("failed to create peak markers: %w", err)
		}
		scatter.GlyphStyle.Color = peakColor
		scatter.GlyphStyle.Radius = vg.Points(3)
		scatter.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(scatter)
		p.Legend.Add("peaks", scatter)
	}

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create plot directory: %w", err)
		}
	}
	if err := p.Save(10*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save plot: %w", err)
	}
	return nil
}
