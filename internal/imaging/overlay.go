package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strconv"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Marker is a strand label to draw at column X of the marker row.
type Marker struct {
	X      int
	Strand int
}

// OverlayResult contains a frame with strand markers drawn on it
type OverlayResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
	Markers     int    `json:"markers"`
}

// DrawMarkers draws a filled circle in the strand's palette color at (X, row)
// for each marker, labels it with the strand index, and returns the result
// as a base64 PNG.
func DrawMarkers(img image.Image, markers []Marker, row, radius int, palette Palette) (*OverlayResult, error) {
	result := RenderMarkers(img, markers, row, radius, palette)

	var buf bytes.Buffer
	if err := png.Encode(&buf, result); err != nil {
		return nil, fmt.Errorf("failed to encode overlay: %w", err)
	}

	bounds := result.Bounds()
	return &OverlayResult{
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
		Markers:     len(markers),
	}, nil
}

// RenderMarkers is DrawMarkers without the PNG encoding.
func RenderMarkers(img image.Image, markers []Marker, row, radius int, palette Palette) *image.RGBA {
	bounds := img.Bounds()
	result := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(result, result.Bounds(), img, bounds.Min, draw.Src)

	for _, m := range markers {
		c := palette.ForStrand(m.Strand)
		fillCircle(result, m.X, row, radius, c)
		drawLabel(result, m.X, row, strconv.Itoa(m.Strand), labelColor(c))
	}
	return result
}

// fillCircle paints a filled disc clipped to the image bounds.
func fillCircle(img *image.RGBA, cx, cy, radius int, c color.RGBA) {
	bounds := img.Bounds()
	r2 := radius * radius
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy > r2 {
				continue
			}
			p := image.Pt(cx+dx, cy+dy)
			if p.In(bounds) {
				img.SetRGBA(p.X, p.Y, c)
			}
		}
	}
}

// drawLabel centers text on (cx, cy) using the 7x13 bitmap face.
func drawLabel(img *image.RGBA, cx, cy int, text string, fg color.RGBA) {
	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(fg),
		Face: face,
	}
	width := d.MeasureString(text).Round()
	metrics := face.Metrics()
	ascent := metrics.Ascent.Round()
	height := ascent + metrics.Descent.Round()
	d.Dot = fixed.P(cx-width/2, cy-height/2+ascent)
	d.DrawString(text)
}
