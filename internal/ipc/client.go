package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/splitscreen/internal/runtimepath"
)

// DefaultTimeout bounds a single request/response exchange.
const DefaultTimeout = 5 * time.Second

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a new IPC client
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}

	return &Client{
		socketPath: socketPath,
		timeout:    DefaultTimeout,
	}
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(req *Request) (*Response, error) {
	return c.sendRequestTimeout(req, c.timeout)
}

func (c *Client) sendRequestTimeout(req *Request, timeout time.Duration) (*Response, error) {
	// Connect to socket
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()

	// Set deadline
	conn.SetDeadline(time.Now().Add(timeout))

	// Marshal request
	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	// Send request
	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	// Read response
	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	// Parse response
	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	// Check for error response
	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}

	return &resp, nil
}

func decodeData[T any](resp *Response, what string) (*T, error) {
	var out T
	if err := json.Unmarshal(resp.Data, &out); err != nil {
		return nil, fmt.Errorf("failed to parse %s data: %w", what, err)
	}
	return &out, nil
}

// Ping checks if the daemon is responding
func (c *Client) Ping() error {
	_, err := c.sendRequest(&Request{Command: CommandPing})
	return err
}

// Reload asks the daemon to re-read its config file
func (c *Client) Reload() (*ScreenInfoData, error) {
	resp, err := c.sendRequest(&Request{Command: CommandReload})
	if err != nil {
		return nil, err
	}
	return decodeData[ScreenInfoData](resp, "screen info")
}

// GetStatus retrieves daemon status
func (c *Client) GetStatus() (*StatusData, error) {
	resp, err := c.sendRequest(&Request{Command: CommandGetStatus})
	if err != nil {
		return nil, err
	}
	return decodeData[StatusData](resp, "status")
}

// GetScreenInfo retrieves the tracked window's content rects and split
func (c *Client) GetScreenInfo() (*ScreenInfoData, error) {
	resp, err := c.sendRequest(&Request{Command: CommandGetScreenInfo})
	if err != nil {
		return nil, err
	}
	return decodeData[ScreenInfoData](resp, "screen info")
}

// GetDisplays retrieves display information
func (c *Client) GetDisplays() (*DisplaysData, error) {
	resp, err := c.sendRequest(&Request{Command: CommandGetDisplays})
	if err != nil {
		return nil, err
	}
	return decodeData[DisplaysData](resp, "displays")
}

// Emulate makes the daemon synthesize screens content rects split along
// split ("vertical" or "horizontal").
func (c *Client) Emulate(screens int, split string) (*ScreenInfoData, error) {
	return c.emulate(EmulatePayload{Screens: screens, Split: split})
}

// StopEmulating returns the daemon to real display geometry
func (c *Client) StopEmulating() (*ScreenInfoData, error) {
	return c.emulate(EmulatePayload{Off: true})
}

func (c *Client) emulate(p EmulatePayload) (*ScreenInfoData, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal emulate payload: %w", err)
	}

	resp, err := c.sendRequest(&Request{Command: CommandEmulate, Payload: payload})
	if err != nil {
		return nil, err
	}
	return decodeData[ScreenInfoData](resp, "screen info")
}

// WaitForChange blocks until the daemon publishes a state newer than
// generation or timeout passes, and returns the state at that point.
func (c *Client) WaitForChange(generation uint64, timeout time.Duration) (*ScreenInfoData, error) {
	if timeout <= 0 || timeout > MaxWaitTimeout {
		timeout = MaxWaitTimeout
	}
	payload, err := json.Marshal(WaitChangePayload{
		Generation: generation,
		TimeoutMS:  int(timeout / time.Millisecond),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal wait payload: %w", err)
	}

	resp, err := c.sendRequestTimeout(&Request{Command: CommandWaitChange, Payload: payload}, timeout+c.timeout)
	if err != nil {
		return nil, err
	}
	return decodeData[ScreenInfoData](resp, "screen info")
}
