package mcp

import (
	"context"
	"log/slog"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/xveearr/internal/daemon"
	"github.com/1broseidon/xveearr/internal/ipc"
)

const (
	ServerName    = "xveearr"
	ServerVersion = "0.1.0"
)

// Daemon is the subset of the IPC client the tools use.
type Daemon interface {
	GetStatus() (*ipc.StatusData, error)
	ListWindows() (*ipc.WindowsData, error)
	GetWindow(id uint32) (*daemon.Window, error)
	GetCursor() (*ipc.CursorData, error)
	GetDisplays() (*ipc.DisplaysData, error)
	Reload() error
}

var _ Daemon = (*ipc.Client)(nil)

// Server exposes a running compositor's scene over MCP.
type Server struct {
	mcpServer *mcpsdk.Server
	daemon    Daemon
	logger    *slog.Logger
}

// NewServer creates an MCP server that queries the daemon over IPC.
func NewServer(d Daemon, logger *slog.Logger) *Server {
	if d == nil {
		d = ipc.NewClient()
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{daemon: d, logger: logger}
	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)
	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_status",
		Description: "Report the compositor's window system, renderer, host and own process IDs, scene window count, cursor serial and event counters.",
	}, s.handleGetStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_windows",
		Description: "List the windows currently composited into the scene in draw order, with texture handle, owning PID and bounds. Optionally filter by pid.",
	}, s.handleListWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_window",
		Description: "Fetch one scene window by its X11 window ID.",
	}, s.handleGetWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_cursor",
		Description: "Fetch the current pointer image metadata: serial, texture handle, size and hotspot.",
	}, s.handleGetCursor)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_displays",
		Description: "List the host's outputs (RandR CRTCs on X11) with name and bounds in desktop coordinates.",
	}, s.handleListDisplays)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "reload_config",
		Description: "Ask the daemon to reload its configuration file. Only the log level applies without a restart.",
	}, s.handleReloadConfig)
}
