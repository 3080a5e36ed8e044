package ipc

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/1broseidon/splitscreen/internal/daemon"
	"github.com/1broseidon/splitscreen/internal/platform"
	"github.com/1broseidon/splitscreen/internal/screeninfo"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandPing          CommandType = "PING"
	CommandReload        CommandType = "RELOAD"
	CommandGetStatus     CommandType = "GET_STATUS"
	CommandGetScreenInfo CommandType = "GET_SCREEN_INFO"
	CommandGetDisplays   CommandType = "GET_DISPLAYS"
	CommandEmulate       CommandType = "EMULATE"
	CommandWaitChange    CommandType = "WAIT_CHANGE"
)

// MaxWaitTimeout bounds how long a WAIT_CHANGE request may block.
const MaxWaitTimeout = time.Minute

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

// PingData represents the data returned by PING
type PingData struct {
	Pong    bool   `json:"pong"`
	Version string `json:"version,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	Version       string `json:"version,omitempty"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	DaemonRunning bool   `json:"daemon_running"`
	ConfigPath    string `json:"config_path,omitempty"`
	Window        uint32 `json:"window"`
	WindowClass   string `json:"window_class,omitempty"`
	Split         string `json:"split"`
	RectCount     int    `json:"rect_count"`
	Emulating     bool   `json:"emulating"`
	DisplayCount  int    `json:"display_count"`
	Generation    uint64 `json:"generation"`
}

// ScreenInfoData represents the data returned by GET_SCREEN_INFO,
// WAIT_CHANGE, EMULATE and RELOAD.
type ScreenInfoData struct {
	Generation      uint64            `json:"generation"`
	UpdatedAt       time.Time         `json:"updated_at"`
	Window          uint32            `json:"window"`
	WindowClass     string            `json:"window_class,omitempty"`
	WindowTitle     string            `json:"window_title,omitempty"`
	FollowingActive bool              `json:"following_active"`
	Split           string            `json:"split"`
	ClientRect      screeninfo.Rect   `json:"client_rect"`
	WindowRect      screeninfo.Rect   `json:"window_rect"`
	ContentRects    []screeninfo.Rect `json:"content_rects"`
	WidestIndex     int               `json:"widest_index"`
	TallestIndex    int               `json:"tallest_index"`
	HorizontalIndex int               `json:"horizontal_content_index"`
	Emulating       bool              `json:"emulating"`
	EmulatedScreens int               `json:"emulated_screens,omitempty"`
	EmulatedSplit   string            `json:"emulated_split,omitempty"`
	MinRectSize     int               `json:"min_rect_size"`
	SplitTolerance  int               `json:"split_tolerance"`
	DisplayCount    int               `json:"display_count"`
	MultipleScreens bool              `json:"multiple_screens"`
}

// DisplayInfo represents information about a single display
type DisplayInfo struct {
	ID     int           `json:"id"`
	Name   string        `json:"name"`
	Bounds platform.Rect `json:"bounds"`
	Usable platform.Rect `json:"usable"`
}

// DisplaysData represents the data returned by GET_DISPLAYS
type DisplaysData struct {
	Displays []DisplayInfo `json:"displays"`
}

// EmulatePayload represents the payload for the EMULATE command. Off, or a
// negative Screens, stops emulating.
type EmulatePayload struct {
	Screens int    `json:"screens"`
	Split   string `json:"split,omitempty"`
	Off     bool   `json:"off,omitempty"`
}

// WaitChangePayload represents the payload for the WAIT_CHANGE command.
type WaitChangePayload struct {
	Generation uint64 `json:"generation"`
	TimeoutMS  int    `json:"timeout_ms"`
}

// NewScreenInfoData converts a published tracker state to its wire form.
func NewScreenInfoData(st daemon.State) ScreenInfoData {
	data := ScreenInfoData{
		Generation:      st.Generation,
		UpdatedAt:       st.UpdatedAt,
		Window:          uint32(st.Window),
		WindowClass:     st.WindowClass,
		WindowTitle:     st.WindowTitle,
		FollowingActive: st.Following,
		Split:           st.Split.String(),
		ClientRect:      st.ClientRect,
		WindowRect:      st.WindowRect,
		ContentRects:    st.ContentRects,
		WidestIndex:     st.WidestIndex,
		TallestIndex:    st.TallestIndex,
		HorizontalIndex: st.HorizontalIndex,
		Emulating:       st.Emulating,
		MinRectSize:     st.MinRectSize,
		SplitTolerance:  st.SplitTolerance,
		DisplayCount:    st.DisplayCount,
		MultipleScreens: st.MultipleScreens,
	}
	if data.ContentRects == nil {
		data.ContentRects = []screeninfo.Rect{}
	}
	if st.Emulating {
		data.EmulatedScreens = st.EmulatedScreens
		data.EmulatedSplit = st.EmulatedSplit.String()
	}
	return data
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
