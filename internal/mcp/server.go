package mcp

import (
	"context"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/splitscreen/internal/ipc"
)

const (
	ServerName    = "splitscreen"
	ServerVersion = "0.1.0"

	defaultWaitTimeout = 30 * time.Second
)

// DaemonClient is the subset of the IPC client the tools need.
type DaemonClient interface {
	GetScreenInfo() (*ipc.ScreenInfoData, error)
	GetDisplays() (*ipc.DisplaysData, error)
	Emulate(screens int, split string) (*ipc.ScreenInfoData, error)
	StopEmulating() (*ipc.ScreenInfoData, error)
	WaitForChange(generation uint64, timeout time.Duration) (*ipc.ScreenInfoData, error)
}

var _ DaemonClient = (*ipc.Client)(nil)

// Server is the MCP server exposing the daemon's screen information.
type Server struct {
	mcpServer *mcpsdk.Server
	daemon    DaemonClient
}

// NewServer creates a new MCP server that answers from the running daemon.
func NewServer(daemon DaemonClient) *Server {
	s := &Server{daemon: daemon}
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
		Name:        "get_screen_info",
		Description: "Describe how the tracked window is split across physical screens: the split kind (none, vertical, horizontal or unknown), the content rects in window client coordinates (reading order), and which rect is widest, tallest and best suited to horizontally flowing content. The generation increases whenever the configuration changes.",
	}, s.handleGetScreenInfo)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_displays",
		Description: "List the active displays with their full bounds and the usable area left free by panels and docks, in screen coordinates.",
	}, s.handleListDisplays)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "emulate_screens",
		Description: "Pretend the tracked window spans several screens by dividing its client area into equal columns (vertical) or rows (horizontal). Useful for testing multi-screen layouts on one monitor. Pass off=true to return to the real displays.",
	}, s.handleEmulateScreens)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "wait_for_change",
		Description: "Block until the screen configuration changes past the given generation or the timeout passes. Returns the current screen info with changed=true if a newer generation was published.",
	}, s.handleWaitForChange)
}
