// Package server implements the MCP (Model Context Protocol) server for the strand counter.
//
// This package provides a JSON-RPC 2.0 server that lets an operator (or an
// MCP-compatible assistant) step through a folder of rope frames and see the
// strand number assigned to every crossing.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Session:
//   - strand_open_folder: Enumerate frames and reset the counter
//   - strand_state: Current frame, position and counter state
//
// Navigation:
//   - strand_next: Step forward and number the crossings
//   - strand_previous: Step backward and recount the crossings
//
// Diagnostics:
//   - strand_template: The matched-filter kernel as a PNG
//
// # Navigation
//
// Positions wrap in both directions. A frame is processed against the frame
// before it in folder order, so the first frame is shown without markers and
// leaves the counter untouched. Requests are handled one at a time, which
// keeps counter updates serialized.
//
// # Image Caching
//
// Only the current and previous frames are kept decoded. Frames that fall
// out of that pair are evicted after each step, and opening a folder clears
// the cache.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// A failed step leaves both the position and the counter where they were.
//
// # Usage
//
//	srv, err := server.New(config.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
