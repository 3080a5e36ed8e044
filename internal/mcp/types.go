package mcp

// RectInfo is a rectangle in the shape MCP clients get it: edges plus the
// derived size.
type RectInfo struct {
	Index  int `json:"index"`
	Left   int `json:"left"`
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// GetScreenInfoInput is the input for the get_screen_info tool.
type GetScreenInfoInput struct{}

// ScreenInfoOutput is the output for get_screen_info, emulate_screens and
// wait_for_change.
type ScreenInfoOutput struct {
	Generation      uint64     `json:"generation"`
	Window          string     `json:"window"`
	WindowClass     string     `json:"window_class,omitempty"`
	WindowTitle     string     `json:"window_title,omitempty"`
	FollowingActive bool       `json:"following_active"`
	Split           string     `json:"split"`
	ClientRect      RectInfo   `json:"client_rect"`
	WindowRect      RectInfo   `json:"window_rect"`
	ContentRects    []RectInfo `json:"content_rects"`
	// Index fields are -1 when there are no content rects.
	WidestIndex            int    `json:"widest_index"`
	TallestIndex           int    `json:"tallest_index"`
	HorizontalContentIndex int    `json:"horizontal_content_index"`
	Emulating              bool   `json:"emulating"`
	EmulatedScreens        int    `json:"emulated_screens,omitempty"`
	EmulatedSplit          string `json:"emulated_split,omitempty"`
	DisplayCount           int    `json:"display_count"`
	MultipleScreens        bool   `json:"multiple_screens"`
	// Changed is only set by wait_for_change.
	Changed bool `json:"changed,omitempty"`
}

// ListDisplaysInput is the input for the list_displays tool.
type ListDisplaysInput struct{}

// DisplayOutput describes one display.
type DisplayOutput struct {
	ID     int      `json:"id"`
	Name   string   `json:"name"`
	Bounds RectInfo `json:"bounds"`
	Usable RectInfo `json:"usable"`
}

// ListDisplaysOutput is the output for the list_displays tool.
type ListDisplaysOutput struct {
	Displays []DisplayOutput `json:"displays"`
	Count    int             `json:"count"`
}

// EmulateScreensInput is the input for the emulate_screens tool.
type EmulateScreensInput struct {
	Screens int    `json:"screens" jsonschema:"Number of screens to emulate. 1 means a single region; a negative value stops emulating."`
	Split   string `json:"split,omitempty" jsonschema:"How to divide the window: vertical (side-by-side columns) or horizontal (stacked rows). Default: vertical."`
	Off     bool   `json:"off,omitempty" jsonschema:"When true, stop emulating and return to the real displays. Overrides screens."`
}

// WaitForChangeInput is the input for the wait_for_change tool.
type WaitForChangeInput struct {
	Generation     uint64 `json:"generation" jsonschema:"Generation from a previous get_screen_info call. The tool returns as soon as a newer generation exists."`
	TimeoutSeconds int    `json:"timeout_seconds,omitempty" jsonschema:"Maximum seconds to wait (default: 30, max: 60)."`
}
