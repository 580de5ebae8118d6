package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) handleGetStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ GetStatusInput) (*mcpsdk.CallToolResult, GetStatusOutput, error) {
	st, err := s.daemon.GetStatus()
	if err != nil {
		return nil, GetStatusOutput{}, err
	}
	return nil, statusOutput(st), nil
}

func (s *Server) handleListWindows(_ context.Context, _ *mcpsdk.CallToolRequest, args ListWindowsInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	data, err := s.daemon.ListWindows()
	if err != nil {
		return nil, ListWindowsOutput{}, err
	}
	windows := make([]WindowInfo, 0, len(data.Windows))
	for _, w := range data.Windows {
		if args.PID != 0 && w.PID != args.PID {
			continue
		}
		windows = append(windows, windowInfo(w))
	}
	s.logger.Debug("mcp list_windows", "count", len(windows), "pid", args.PID)
	return nil, ListWindowsOutput{Count: len(windows), Windows: windows}, nil
}

func (s *Server) handleGetWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args GetWindowInput) (*mcpsdk.CallToolResult, WindowInfo, error) {
	if args.Window == 0 {
		return nil, WindowInfo{}, fmt.Errorf("window is required")
	}
	w, err := s.daemon.GetWindow(args.Window)
	if err != nil {
		return nil, WindowInfo{}, err
	}
	return nil, windowInfo(*w), nil
}

func (s *Server) handleGetCursor(_ context.Context, _ *mcpsdk.CallToolRequest, _ GetCursorInput) (*mcpsdk.CallToolResult, GetCursorOutput, error) {
	cur, err := s.daemon.GetCursor()
	if err != nil {
		return nil, GetCursorOutput{}, err
	}
	return nil, cursorOutput(cur), nil
}

func (s *Server) handleListDisplays(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListDisplaysInput) (*mcpsdk.CallToolResult, ListDisplaysOutput, error) {
	data, err := s.daemon.GetDisplays()
	if err != nil {
		return nil, ListDisplaysOutput{}, err
	}
	out := ListDisplaysOutput{Displays: make([]DisplayInfo, len(data.Displays))}
	for i, d := range data.Displays {
		out.Displays[i] = DisplayInfo{
			ID:     d.ID,
			Name:   d.Name,
			X:      d.Bounds.X,
			Y:      d.Bounds.Y,
			Width:  d.Bounds.Width,
			Height: d.Bounds.Height,
		}
	}
	return nil, out, nil
}

func (s *Server) handleReloadConfig(_ context.Context, _ *mcpsdk.CallToolRequest, _ ReloadConfigInput) (*mcpsdk.CallToolResult, ReloadConfigOutput, error) {
	if err := s.daemon.Reload(); err != nil {
		return nil, ReloadConfigOutput{}, err
	}
	s.logger.Info("mcp requested config reload")
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: "configuration reloaded"},
		},
	}, ReloadConfigOutput{Reloaded: true}, nil
}
