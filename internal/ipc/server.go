package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/1broseidon/splitscreen/internal/config"
	"github.com/1broseidon/splitscreen/internal/daemon"
	"github.com/1broseidon/splitscreen/internal/platform"
	"github.com/1broseidon/splitscreen/internal/runtimepath"
	"github.com/1broseidon/splitscreen/internal/screeninfo"
)

// commandTimeout bounds commands that must round-trip through the tracker.
const commandTimeout = 5 * time.Second

// Tracker is the part of the daemon the server talks to.
type Tracker interface {
	State() daemon.State
	WaitForChange(ctx context.Context, generation uint64) (daemon.State, error)
	Emulate(ctx context.Context, count int, kind screeninfo.SplitKind) (daemon.State, error)
	ApplyConfig(ctx context.Context, cfg daemon.TrackerConfig) (daemon.State, error)
	Displays() ([]platform.Display, error)
}

// ServerConfig holds optional server settings.
type ServerConfig struct {
	// ConfigPath is re-read on RELOAD.
	ConfigPath string
	// WindowOverride, when set, replaces the window setting of every
	// reloaded config.
	WindowOverride string
	Version        string
	Logger         *slog.Logger
}

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	listener     net.Listener
	tracker      Tracker
	configPath   string
	window       string
	version      string
	logger       *slog.Logger
	startTime    time.Time
	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer creates a new IPC server
func NewServer(tracker Tracker, cfg ServerConfig) (*Server, error) {
	if tracker == nil {
		return nil, fmt.Errorf("IPC server requires a tracker")
	}
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
	}

	// Remove existing socket if present
	os.Remove(socketPath)

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Server{
		socketPath: socketPath,
		tracker:    tracker,
		configPath: cfg.ConfigPath,
		window:     cfg.WindowOverride,
		version:    cfg.Version,
		logger:     logger,
		startTime:  time.Now(),
	}, nil
}

// SocketPath returns the path the server listens on.
func (s *Server) SocketPath() string {
	return s.socketPath
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	// Set socket permissions
	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.logger.Info("IPC server listening", "socket", s.socketPath)

	// Accept connections
	go s.acceptLoop()

	return nil
}

// acceptLoop accepts incoming connections
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
			s.logger.Warn("IPC accept error", "error", err)
			if errors.Is(err, net.ErrClosed) {
				return
			}
			continue
		}

		go s.handleConnection(conn)
	}
}

// handleConnection handles a single IPC connection
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)

	// Read the request (expect JSON on a single line)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.logger.Warn("IPC read error", "error", err)
		return
	}

	// Parse request
	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	// Handle command
	resp := s.handleCommand(req)

	// Send response
	respData, err := resp.Marshal()
	if err != nil {
		s.logger.Error("failed to marshal IPC response", "error", err)
		return
	}

	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		s.logger.Warn("failed to send IPC response", "error", err)
	}
}

// handleCommand processes an IPC command and returns a response
func (s *Server) handleCommand(req *Request) *Response {
	s.logger.Debug("IPC command", "command", req.Command)

	switch req.Command {
	case CommandPing:
		return okResponse(PingData{Pong: true, Version: s.version})
	case CommandReload:
		return s.handleReload()
	case CommandGetStatus:
		return s.handleGetStatus()
	case CommandGetScreenInfo:
		return okResponse(NewScreenInfoData(s.tracker.State()))
	case CommandGetDisplays:
		return s.handleGetDisplays()
	case CommandEmulate:
		return s.handleEmulate(req.Payload)
	case CommandWaitChange:
		return s.handleWaitChange(req.Payload)
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

// handleReload re-reads the configuration and applies it to the tracker
func (s *Server) handleReload() *Response {
	s.logger.Info("IPC: received RELOAD command")

	if s.configPath == "" {
		return NewErrorResponse("Failed to reload config: no config path")
	}
	res, err := config.LoadFromPath(s.configPath)
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to reload config: %v", err))
	}
	if s.window != "" {
		res.Config.Window = s.window
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()
	st, err := s.tracker.ApplyConfig(ctx, daemon.TrackerConfigFrom(res.Config, s.logger))
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to apply config: %v", err))
	}

	s.logger.Info("IPC: config reloaded", "path", s.configPath)
	return okResponse(NewScreenInfoData(st))
}

// handleGetStatus returns current daemon status
func (s *Server) handleGetStatus() *Response {
	st := s.tracker.State()
	return okResponse(StatusData{
		Version:       s.version,
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
		DaemonRunning: true,
		ConfigPath:    s.configPath,
		Window:        uint32(st.Window),
		WindowClass:   st.WindowClass,
		Split:         st.Split.String(),
		RectCount:     len(st.ContentRects),
		Emulating:     st.Emulating,
		DisplayCount:  st.DisplayCount,
		Generation:    st.Generation,
	})
}

// handleGetDisplays returns information about all displays
func (s *Server) handleGetDisplays() *Response {
	displays, err := s.tracker.Displays()
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to get displays: %v", err))
	}

	infos := make([]DisplayInfo, len(displays))
	for i, d := range displays {
		infos[i] = DisplayInfo{
			ID:     d.ID,
			Name:   d.Name,
			Bounds: d.Bounds,
			Usable: d.Usable,
		}
	}

	return okResponse(DisplaysData{Displays: infos})
}

// handleEmulate starts or stops screen emulation
func (s *Server) handleEmulate(payload json.RawMessage) *Response {
	var p EmulatePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid payload: %v", err))
	}

	count, kind := -1, screeninfo.SplitUnknown
	if !p.Off && p.Screens >= 0 {
		kind = screeninfo.SplitVertical
		if split := strings.TrimSpace(p.Split); split != "" {
			parsed, err := screeninfo.ParseSplitKind(split)
			if err != nil {
				return NewErrorResponse(fmt.Sprintf("Invalid split: %v", err))
			}
			kind = parsed
		}
		count = p.Screens
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()
	st, err := s.tracker.Emulate(ctx, count, kind)
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to emulate screens: %v", err))
	}
	return okResponse(NewScreenInfoData(st))
}

// handleWaitChange blocks until the state moves past the given generation
// or the timeout expires; either way it answers with the current state.
func (s *Server) handleWaitChange(payload json.RawMessage) *Response {
	var p WaitChangePayload
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &p); err != nil {
			return NewErrorResponse(fmt.Sprintf("Invalid payload: %v", err))
		}
	}
	timeout := time.Duration(p.TimeoutMS) * time.Millisecond
	if timeout <= 0 || timeout > MaxWaitTimeout {
		timeout = MaxWaitTimeout
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	st, err := s.tracker.WaitForChange(ctx, p.Generation)
	if err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return NewErrorResponse(fmt.Sprintf("Failed to wait for change: %v", err))
	}
	return okResponse(NewScreenInfoData(st))
}

func okResponse(data interface{}) *Response {
	resp, err := NewOKResponse(data)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

// sendError sends an error response
func (s *Server) sendError(conn net.Conn, errMsg string) {
	resp := NewErrorResponse(errMsg)
	data, _ := resp.Marshal()
	data = append(data, '\n')
	conn.Write(data)
}

// Stop stops the IPC server
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	os.Remove(s.socketPath)
}
