// Package engine runs one navigation step of the strand counter: preprocess
// the current frame, detect crossings, and number them.
//
// An Engine is not safe for concurrent use. Callers serialize steps.
package engine

import (
	"errors"
	"fmt"
	"image"
	"io"
	"log"

	"github.com/ironsheep/strand-counter/internal/config"
	"github.com/ironsheep/strand-counter/internal/counter"
	"github.com/ironsheep/strand-counter/internal/detection"
	"github.com/ironsheep/strand-counter/internal/imaging"
)

// Engine owns the template, the detector and the counter state for a session.
type Engine struct {
	cfg      *config.Config
	prep     imaging.PreprocessOptions
	detector *detection.Detector
	counter  counter.Counter
	palette  imaging.Palette
	state    counter.State
	logger   *log.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sends per-marker debug lines to l. By default nothing is logged.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// StepResult is the outcome of one Step.
type StepResult struct {
	// Processed is false when there was no previous frame; every other field
	// except State is then empty.
	Processed bool `json:"processed"`

	Markers []counter.Marker `json:"markers"`
	Profile []float64        `json:"profile,omitempty"`
	Peaks   []detection.Peak `json:"peaks"`
	State   counter.State    `json:"state"`

	// MarkerRow is the frame row overlays are drawn on.
	MarkerRow int `json:"marker_row"`
}

// New validates cfg and builds the template, detector and palette.
//
// # Errors
//
// Every failure is a *config.ConfigurationError.
func New(cfg *config.Config, opts ...Option) (*Engine, error) {
	if cfg == nil {
		return nil, &config.ConfigurationError{Field: "config", Reason: "missing"}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	tmpl, err := detection.BuildTemplate(detection.TemplateGeometry{
		Height:    cfg.Template.Height,
		Width:     cfg.Template.Width,
		Columns:   cfg.Template.Columns,
		Slope:     cfg.Template.Slope,
		Thickness: cfg.Template.Thickness,
		Offset:    cfg.Template.Offset,
	})
	if err != nil {
		return nil, &config.ConfigurationError{Field: "template", Reason: "failed to build template", Err: err}
	}

	detector, err := detection.NewDetector(tmpl, detection.DetectorOptions{
		MinHeight:      cfg.Detection.MinHeight,
		MinWidth:       cfg.Detection.MinWidth,
		TrailingMargin: cfg.Detection.TrailingMargin,
		SampleRow:      cfg.Detection.SampleRow,
	})
	if err != nil {
		return nil, &config.ConfigurationError{Field: "detection", Reason: "failed to create detector", Err: err}
	}

	palette, err := imaging.ParsePalette(cfg.Markers.Colors)
	if err != nil {
		return nil, &config.ConfigurationError{Field: "markers.colors", Reason: "failed to parse palette", Err: err}
	}

	e := &Engine{
		cfg: cfg,
		prep: imaging.PreprocessOptions{
			Band:      imaging.Band{Top: cfg.Band.Top, Bottom: cfg.Band.Bottom},
			BlurSize:  cfg.Blur.KernelSize,
			BlurSigma: cfg.Blur.Sigma,
			Threshold: uint8(cfg.Threshold),
		},
		detector: detector,
		counter:  counter.Counter{Strands: cfg.Strands},
		palette:  palette,
		logger:   log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.state = e.counter.Initial()

	e.logger.Printf("engine ready: strands=%d band=%d..%d template=%dx%d cells=%d",
		cfg.Strands, cfg.Band.Top, cfg.Band.Bottom, cfg.Template.Width, cfg.Template.Height, tmpl.Cells())
	return e, nil
}

// Step processes the current frame for a move in direction dir.
//
// A nil previous frame means the current frame is the first of the sequence;
// nothing is detected and the counter state is left alone. On error the
// state is also unchanged.
//
// # Errors
//
//   - *imaging.InvalidFrameError if the frame does not contain the band or is
//     too narrow for the template
func (e *Engine) Step(current, previous image.Image, dir counter.Direction) (*StepResult, error) {
	result := &StepResult{
		Markers:   []counter.Marker{},
		Peaks:     []detection.Peak{},
		State:     e.state,
		MarkerRow: e.cfg.MarkerRow(),
	}
	if current == nil {
		return nil, errors.New("current frame is required")
	}
	if previous == nil {
		e.logger.Printf("%s: no previous frame, skipping detection", dir)
		return result, nil
	}

	mask, err := imaging.Preprocess(current, e.prep)
	if err != nil {
		return nil, fmt.Errorf("failed to preprocess frame: %w", err)
	}

	det, err := e.detector.Detect(mask)
	if err != nil {
		return nil, fmt.Errorf("failed to detect crossings: %w", err)
	}

	markers, next := e.counter.Advance(det.Positions(), dir, e.state)
	e.state = next

	verb := "forward"
	if dir == counter.Backward {
		verb = "recount"
	}
	for _, m := range markers {
		e.logger.Printf("%s strand=%d pos=%d", verb, m.Strand, m.Position)
	}
	e.logger.Printf("%s: %d peaks, state index=%d last=%d", dir, len(det.Peaks), next.Index, next.LastPeakCount)

	result.Processed = true
	result.Markers = markers
	result.Profile = det.Profile
	result.Peaks = det.Peaks
	result.State = next
	return result, nil
}

// Overlay draws the step's markers on frame as a base64 PNG.
func (e *Engine) Overlay(frame image.Image, markers []counter.Marker) (*imaging.OverlayResult, error) {
	out := make([]imaging.Marker, len(markers))
	for i, m := range markers {
		out[i] = imaging.Marker{X: m.Position, Strand: m.Strand}
	}
	return imaging.DrawMarkers(frame, out, e.cfg.MarkerRow(), e.cfg.Markers.Radius, e.palette)
}

// Reset puts the counter back to its initial state.
func (e *Engine) Reset() {
	e.state = e.counter.Initial()
	e.logger.Printf("counter reset to index=%d", e.state.Index)
}

// Restore puts back a state previously returned by State, undoing any steps
// taken since. It is used when work that follows a step fails.
func (e *Engine) Restore(st counter.State) error {
	if st.Index < 1 || st.Index > e.counter.Strands || st.LastPeakCount < 0 {
		return fmt.Errorf("state %+v is out of range for %d strands", st, e.counter.Strands)
	}
	e.state = st
	e.logger.Printf("counter restored to index=%d last=%d", st.Index, st.LastPeakCount)
	return nil
}

// State returns the current counter state.
func (e *Engine) State() counter.State {
	return e.state
}

// Template returns the matched-filter kernel.
func (e *Engine) Template() *detection.Template {
	return e.detector.Template()
}

// Palette returns the marker colors, one per strand.
func (e *Engine) Palette() imaging.Palette {
	return e.palette
}

// Strands returns N.
func (e *Engine) Strands() int {
	return e.counter.Strands
}
