package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// stepProperties are the optional arguments shared by the navigation tools.
func stepProperties() map[string]interface{} {
	return map[string]interface{}{
		"overlay": map[string]interface{}{
			"type":        "boolean",
			"description": "Return the frame with colored strand markers as base64 PNG. Default false",
			"default":     false,
		},
		"plot_path": map[string]interface{}{
			"type":        "string",
			"description": "Optional file path (.png, .svg or .pdf) to write a plot of the crossing response",
		},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Session
		{
			Name:        "strand_open_folder",
			Description: "Open a folder of frames (.jpg, .jpeg, .png, sorted by name). Positions the session on the first frame and resets the strand counter.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the folder",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "strand_state",
			Description: "Get the current frame, its position in the folder, and the strand counter state.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},

		// Navigation
		{
			Name:        "strand_next",
			Description: "Move to the next frame (wrapping to the first) and number the strand crossings found in it. The first frame of the folder is never processed because it has no previous frame.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": stepProperties(),
			},
		},
		{
			Name:        "strand_previous",
			Description: "Move to the previous frame (wrapping to the last) and recount its strand crossings so numbering stays consistent with forward navigation.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": stepProperties(),
			},
		},

		// Diagnostics
		{
			Name:        "strand_template",
			Description: "Get the matched-filter template used to detect crossings: dimensions, marked cell count and a base64 PNG of the kernel.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
