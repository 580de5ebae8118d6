package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"

	"github.com/1broseidon/xveearr/internal/config"
	"github.com/1broseidon/xveearr/internal/daemon"
	"github.com/1broseidon/xveearr/internal/platform"
	"github.com/1broseidon/xveearr/internal/runtimepath"
)

// ServerConfig wires the IPC server to a running compositor.
type ServerConfig struct {
	// SocketPath defaults to runtimepath.SocketPath().
	SocketPath string
	Scene      *daemon.Scene
	Config     *config.Config
	// Load reloads the configuration for RELOAD. Defaults to config.Load.
	Load func() (*config.Config, error)
	// Reload is signalled (non-blocking) after a successful RELOAD.
	Reload chan<- *config.Config
	// Displays answers GET_DISPLAYS when the backend can list outputs.
	Displays platform.DisplayLister
	// Pipeline reports binding pipeline state for GET_STATUS. It is called
	// from connection goroutines.
	Pipeline func() PipelineStats

	WindowSystem string
	Renderer     string
	HostPID      int
	OwnPID       int
	Logger       *slog.Logger
}

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	listener     net.Listener
	scene        *daemon.Scene
	cfg          *config.Config
	cfgMu        sync.RWMutex
	load         func() (*config.Config, error)
	reloadChan   chan<- *config.Config
	displays     platform.DisplayLister
	pipeline     func() PipelineStats
	status       StatusData
	logger       *slog.Logger
	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer creates a new IPC server
func NewServer(sc ServerConfig) (*Server, error) {
	if sc.Scene == nil {
		return nil, fmt.Errorf("ipc server requires a scene")
	}
	socketPath := sc.SocketPath
	if socketPath == "" {
		var err error
		socketPath, err = runtimepath.SocketPath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
		}
	}
	load := sc.Load
	if load == nil {
		load = config.Load
	}
	logger := sc.Logger
	if logger == nil {
		logger = slog.Default()
	}

	// Remove existing socket if present
	os.Remove(socketPath)

	return &Server{
		socketPath: socketPath,
		scene:      sc.Scene,
		cfg:        sc.Config,
		load:       load,
		reloadChan: sc.Reload,
		displays:   sc.Displays,
		pipeline:   sc.Pipeline,
		status: StatusData{
			WindowSystem:  sc.WindowSystem,
			Renderer:      sc.Renderer,
			HostPID:       sc.HostPID,
			OwnPID:        sc.OwnPID,
			DaemonRunning: true,
		},
		logger: logger,
	}, nil
}

// SocketPath returns the path the server listens on.
func (s *Server) SocketPath() string { return s.socketPath }

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.logger.Info("IPC server listening", "socket", s.socketPath)

	go s.acceptLoop()

	return nil
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			if s.shuttingDown {
				s.shutdownMu.Unlock()
				return
			}
			s.shutdownMu.Unlock()
			s.logger.Warn("IPC accept error", "err", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

// handleConnection serves one newline-terminated request per connection.
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.logger.Warn("IPC read error", "err", err)
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	resp := s.handleCommand(req)

	respData, err := resp.Marshal()
	if err != nil {
		s.logger.Error("failed to marshal IPC response", "err", err)
		return
	}

	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		s.logger.Warn("failed to send IPC response", "err", err)
	}
}

func (s *Server) handleCommand(req *Request) *Response {
	s.logger.Debug("IPC request", "command", req.Command)
	switch req.Command {
	case CommandReload:
		return s.handleReload()
	case CommandGetStatus:
		return s.handleGetStatus()
	case CommandListWindows:
		return s.handleListWindows()
	case CommandGetWindow:
		return s.handleGetWindow(req.Payload)
	case CommandGetCursor:
		return s.handleGetCursor()
	case CommandGetDisplays:
		return s.handleGetDisplays()
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func (s *Server) handleReload() *Response {
	newCfg, err := s.load()
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to reload config: %v", err))
	}

	s.cfgMu.Lock()
	s.cfg = newCfg
	s.cfgMu.Unlock()

	select {
	case s.reloadChan <- newCfg:
	default:
	}

	s.logger.Info("config reloaded over IPC", "log_level", newCfg.LogLevel)

	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleGetStatus() *Response {
	status := s.status
	status.Stats = s.scene.Stats()
	status.WindowCount = status.Stats.Windows
	status.CursorSerial = s.scene.Cursor().Serial
	status.UptimeSeconds = int64(s.scene.Uptime().Seconds())
	if s.pipeline != nil {
		p := s.pipeline()
		status.Pipeline = &p
	}

	resp, _ := NewOKResponse(status)
	return resp
}

func (s *Server) handleListWindows() *Response {
	resp, _ := NewOKResponse(WindowsData{Windows: s.scene.Windows()})
	return resp
}

func (s *Server) handleGetWindow(payload json.RawMessage) *Response {
	var req GetWindowPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid window payload: %v", err))
	}
	w, ok := s.scene.Window(platform.WindowID(req.Window))
	if !ok {
		return NewErrorResponse(fmt.Sprintf("Unknown window: %d", req.Window))
	}
	resp, _ := NewOKResponse(w)
	return resp
}

func (s *Server) handleGetCursor() *Response {
	info := s.scene.Cursor()
	resp, _ := NewOKResponse(CursorData{Info: info, Valid: info.Valid()})
	return resp
}

func (s *Server) handleGetDisplays() *Response {
	if s.displays == nil {
		return NewErrorResponse("window system cannot list displays")
	}
	displays, err := s.displays.Displays()
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to get displays: %v", err))
	}
	resp, _ := NewOKResponse(DisplaysData{Displays: displays})
	return resp
}

func (s *Server) sendError(conn net.Conn, errMsg string) {
	resp := NewErrorResponse(errMsg)
	data, _ := resp.Marshal()
	data = append(data, '\n')
	conn.Write(data)
}

// Stop gracefully shuts down the IPC server
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	os.Remove(s.socketPath)
}

// GetConfig returns the current config (thread-safe)
func (s *Server) GetConfig() *config.Config {
	s.cfgMu.RLock()
	defer s.cfgMu.RUnlock()
	return s.cfg
}

// UpdateConfig updates the config (thread-safe)
func (s *Server) UpdateConfig(cfg *config.Config) {
	s.cfgMu.Lock()
	defer s.cfgMu.Unlock()
	s.cfg = cfg
}
