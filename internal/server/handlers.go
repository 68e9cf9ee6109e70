package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"log"
	"path/filepath"

	"github.com/ironsheep/strand-counter/internal/counter"
	"github.com/ironsheep/strand-counter/internal/engine"
	"github.com/ironsheep/strand-counter/internal/imaging"
	"github.com/ironsheep/strand-counter/internal/report"
)

var errNoSession = errors.New("no folder open, call strand_open_folder first")

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "strand_open_folder", "strand_next").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Session
	case "strand_open_folder":
		return s.handleOpenFolder(args)
	case "strand_state":
		return s.handleState()

	// Navigation
	case "strand_next":
		return s.handleStep(args, counter.Forward)
	case "strand_previous":
		return s.handleStep(args, counter.Backward)

	// Diagnostics
	case "strand_template":
		return s.handleTemplate()

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Session Handlers ===

type openFolderArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleOpenFolder(args json.RawMessage) (interface{}, error) {
	var a openFolderArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, errors.New("path is required")
	}

	sess, err := newSession(a.Path)
	if err != nil {
		return nil, err
	}

	s.cache.Clear()
	s.engine.Reset()
	s.session = sess
	log.Printf("Opened %s: %d frames (session %s)", sess.Folder, len(sess.Images), sess.ID)

	return s.sessionInfo(), nil
}

func (s *Server) handleState() (interface{}, error) {
	if s.session == nil {
		return nil, errNoSession
	}
	return s.sessionInfo(), nil
}

func (s *Server) sessionInfo() *SessionInfo {
	return &SessionInfo{
		SessionID: s.session.ID,
		Folder:    s.session.Folder,
		Image:     filepath.Base(s.session.current()),
		Position:  s.session.Position,
		Total:     len(s.session.Images),
		Strands:   s.engine.Strands(),
		State:     s.engine.State(),
	}
}

// === Navigation Handlers ===

type stepArgs struct {
	Overlay  bool   `json:"overlay"`
	PlotPath string `json:"plot_path"`
}

// StepResponse is the result of strand_next and strand_previous.
type StepResponse struct {
	SessionInfo
	Direction counter.Direction      `json:"direction"`
	Step      *engine.StepResult     `json:"step"`
	Colors    []string               `json:"colors"`
	Overlay   *imaging.OverlayResult `json:"overlay,omitempty"`
	PlotPath  string                 `json:"plot_path,omitempty"`
}

func (s *Server) handleStep(args json.RawMessage, dir counter.Direction) (interface{}, error) {
	var a stepArgs
	if len(args) > 0 {
		if err := json.Unmarshal(args, &a); err != nil {
			return nil, err
		}
	}
	if s.session == nil {
		return nil, errNoSession
	}

	// A failed step leaves position and counter as they were so a retry
	// sees the same frames and numbering.
	from, before := s.session.Position, s.engine.State()
	rollback := func(err error) (interface{}, error) {
		s.session.Position = from
		if rerr := s.engine.Restore(before); rerr != nil {
			log.Printf("Failed to restore counter: %v", rerr)
		}
		return nil, err
	}
	s.session.move(dir)

	current, previous, err := s.loadPair()
	if err != nil {
		return rollback(err)
	}

	step, err := s.engine.Step(current, previous, dir)
	if err != nil {
		return rollback(fmt.Errorf("failed to process %s: %w", filepath.Base(s.session.current()), err))
	}

	resp := &StepResponse{
		SessionInfo: *s.sessionInfo(),
		Direction:   dir,
		Step:        step,
		Colors:      s.markerColors(step),
	}

	if a.Overlay {
		overlay, err := s.engine.Overlay(current, step.Markers)
		if err != nil {
			return rollback(fmt.Errorf("failed to draw overlay: %w", err))
		}
		resp.Overlay = overlay
	}

	if a.PlotPath != "" && step.Processed {
		if err := report.PlotProfile(step.Profile, step.Peaks, a.PlotPath); err != nil {
			return rollback(fmt.Errorf("failed to write plot: %w", err))
		}
		resp.PlotPath = a.PlotPath
	}

	for _, p := range s.session.stale() {
		s.cache.Evict(p)
	}
	return resp, nil
}

// loadPair loads the current frame and, except at the start of the folder,
// the frame before it.
func (s *Server) loadPair() (current, previous image.Image, err error) {
	current, err = s.cache.Load(s.session.current())
	if err != nil {
		return nil, nil, err
	}
	if path := s.session.previous(); path != "" {
		previous, err = s.cache.Load(path)
		if err != nil {
			return nil, nil, err
		}
	}
	return current, previous, nil
}

// markerColors returns the hex color of each marker, in marker order.
func (s *Server) markerColors(step *engine.StepResult) []string {
	hex := s.engine.Palette().Hex()
	colors := make([]string, len(step.Markers))
	for i, m := range step.Markers {
		colors[i] = hex[m.Strand-1]
	}
	return colors
}

// === Diagnostic Handlers ===

// TemplateResult describes the matched-filter kernel.
type TemplateResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Cells       int    `json:"cells"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

func (s *Server) handleTemplate() (interface{}, error) {
	tmpl := s.engine.Template()
	rows, cols := tmpl.Dims()

	var buf bytes.Buffer
	if err := png.Encode(&buf, tmpl.Image()); err != nil {
		return nil, fmt.Errorf("failed to encode template: %w", err)
	}

	return &TemplateResult{
		Width:       cols,
		Height:      rows,
		Cells:       tmpl.Cells(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}
