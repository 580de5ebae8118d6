package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/1broseidon/xveearr/internal/binding"
	"github.com/1broseidon/xveearr/internal/cursor"
	"github.com/1broseidon/xveearr/internal/daemon"
	"github.com/1broseidon/xveearr/internal/platform"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandReload      CommandType = "RELOAD"
	CommandGetStatus   CommandType = "GET_STATUS"
	CommandListWindows CommandType = "LIST_WINDOWS"
	CommandGetWindow   CommandType = "GET_WINDOW"
	CommandGetCursor   CommandType = "GET_CURSOR"
	CommandGetDisplays CommandType = "GET_DISPLAYS"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	WindowSystem  string       `json:"window_system"`
	Renderer      string       `json:"renderer"`
	HostPID       int          `json:"host_pid"`
	OwnPID        int          `json:"own_pid"`
	WindowCount   int          `json:"window_count"`
	CursorSerial  uint32       `json:"cursor_serial"`
	Stats         daemon.Stats `json:"stats"`
	UptimeSeconds int64        `json:"uptime_seconds"`
	DaemonRunning bool         `json:"daemon_running"`
	// Pipeline is omitted when the daemon does not report it.
	Pipeline *PipelineStats `json:"pipeline,omitempty"`
}

// PipelineStats describes the binding pipeline between the event and render
// threads.
type PipelineStats struct {
	QueueDepth    int           `json:"queue_depth"`
	Binder        binding.Stats `json:"binder"`
	CachedCursors int           `json:"cached_cursors"`
}

// WindowsData represents the data returned by LIST_WINDOWS
type WindowsData struct {
	Windows []daemon.Window `json:"windows"`
}

// GetWindowPayload represents the payload for GET_WINDOW
type GetWindowPayload struct {
	Window uint32 `json:"window"`
}

// CursorData represents the data returned by GET_CURSOR
type CursorData struct {
	cursor.Info
	Valid bool `json:"valid"`
}

// DisplaysData represents the data returned by GET_DISPLAYS
type DisplaysData struct {
	Displays []platform.Display `json:"displays"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
