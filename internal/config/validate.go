package config

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// ConfigurationError reports a configuration value the engine cannot be built from.
type ConfigurationError struct {
	// Field is the YAML path of the offending value, e.g. "template.width".
	Field string

	// Reason describes what is wrong with it.
	Reason string

	// Err is the underlying cause, if any.
	Err error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid configuration: %s: %s: %v", e.Field, e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

func invalid(field, format string, args ...interface{}) error {
	return &ConfigurationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// Validate checks every value the engine depends on and returns the first
// problem found as a *ConfigurationError.
func (c *Config) Validate() error {
	if c.Band.Top < 0 {
		return invalid("band.top", "must be >= 0, got %d", c.Band.Top)
	}
	if c.Band.Bottom <= c.Band.Top {
		return invalid("band.bottom", "must be greater than band.top (%d), got %d", c.Band.Top, c.Band.Bottom)
	}
	if c.Threshold <= 0 || c.Threshold > 255 {
		return invalid("threshold", "must be in 1..255, got %d", c.Threshold)
	}
	if c.Strands <= 0 {
		return invalid("strands", "must be positive, got %d", c.Strands)
	}

	if c.Blur.KernelSize <= 0 || c.Blur.KernelSize%2 == 0 {
		return invalid("blur.kernelSize", "must be odd and positive, got %d", c.Blur.KernelSize)
	}
	if c.Blur.Sigma < 0 {
		return invalid("blur.sigma", "must be >= 0, got %g", c.Blur.Sigma)
	}

	d := c.Detection
	if d.MinHeight <= 0 {
		return invalid("detection.minHeight", "must be positive, got %g", d.MinHeight)
	}
	if d.MinWidth <= 0 {
		return invalid("detection.minWidth", "must be positive, got %g", d.MinWidth)
	}
	if d.TrailingMargin < 0 {
		return invalid("detection.trailingMargin", "must be >= 0, got %d", d.TrailingMargin)
	}
	if d.SampleRow < 0 || d.SampleRow >= c.BandHeight() {
		return invalid("detection.sampleRow", "must be inside the band (0..%d), got %d", c.BandHeight()-1, d.SampleRow)
	}

	if err := c.validateTemplate(); err != nil {
		return err
	}

	if d.ExpectedFrameWidth > 0 {
		window := d.ExpectedFrameWidth - d.TrailingMargin
		if c.Template.Width > window {
			return invalid("template.width", "%d exceeds the processed window width %d", c.Template.Width, window)
		}
	}

	if c.Markers.Radius < 0 {
		return invalid("markers.radius", "must be >= 0, got %d", c.Markers.Radius)
	}
	if len(c.Markers.Colors) != c.Strands {
		return invalid("markers.colors", "need one color per strand (%d), got %d", c.Strands, len(c.Markers.Colors))
	}
	for i, hex := range c.Markers.Colors {
		if _, err := colorful.Hex(hex); err != nil {
			return &ConfigurationError{Field: fmt.Sprintf("markers.colors[%d]", i), Reason: "not a #RRGGBB color", Err: err}
		}
	}

	return nil
}

func (c *Config) validateTemplate() error {
	t := c.Template
	if t.Height <= 0 || t.Width <= 0 {
		return invalid("template", "dimensions must be positive, got %dx%d", t.Width, t.Height)
	}
	if t.Columns <= 0 || t.Thickness <= 0 {
		return invalid("template", "columns and thickness must be positive, got %d and %d", t.Columns, t.Thickness)
	}
	if t.Offset < 0 {
		return invalid("template.offset", "must be >= 0, got %d", t.Offset)
	}
	if math.IsNaN(t.Slope) || math.IsInf(t.Slope, 0) {
		return invalid("template.slope", "must be finite")
	}
	for _, x := range []int{0, t.Columns - 1} {
		y := int(math.RoundToEven(t.Slope * float64(x)))
		if y < 0 || y >= t.Height {
			return invalid("template.slope", "column %d maps to row %d outside height %d", x, y, t.Height)
		}
	}
	if right := t.Columns - 1 + t.Offset + t.Thickness; right > t.Width {
		return invalid("template.width", "stripes extend to column %d beyond width %d", right, t.Width)
	}
	return nil
}
