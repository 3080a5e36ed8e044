package mcp

import (
	"context"
	"fmt"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/splitscreen/internal/ipc"
	"github.com/1broseidon/splitscreen/internal/platform"
	"github.com/1broseidon/splitscreen/internal/screeninfo"
)

func (s *Server) handleGetScreenInfo(_ context.Context, _ *mcpsdk.CallToolRequest, _ GetScreenInfoInput) (*mcpsdk.CallToolResult, ScreenInfoOutput, error) {
	data, err := s.daemon.GetScreenInfo()
	if err != nil {
		return nil, ScreenInfoOutput{}, fmt.Errorf("get_screen_info: %w", err)
	}
	return nil, screenInfoOutput(data), nil
}

func (s *Server) handleListDisplays(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListDisplaysInput) (*mcpsdk.CallToolResult, ListDisplaysOutput, error) {
	data, err := s.daemon.GetDisplays()
	if err != nil {
		return nil, ListDisplaysOutput{}, fmt.Errorf("list_displays: %w", err)
	}

	out := ListDisplaysOutput{Displays: make([]DisplayOutput, 0, len(data.Displays))}
	for _, d := range data.Displays {
		out.Displays = append(out.Displays, DisplayOutput{
			ID:     d.ID,
			Name:   d.Name,
			Bounds: platformRectInfo(d.Bounds),
			Usable: platformRectInfo(d.Usable),
		})
	}
	out.Count = len(out.Displays)
	return nil, out, nil
}

func (s *Server) handleEmulateScreens(_ context.Context, _ *mcpsdk.CallToolRequest, args EmulateScreensInput) (*mcpsdk.CallToolResult, ScreenInfoOutput, error) {
	var (
		data *ipc.ScreenInfoData
		err  error
	)
	if args.Off || args.Screens < 0 {
		data, err = s.daemon.StopEmulating()
	} else {
		split := args.Split
		if split == "" {
			split = screeninfo.SplitVertical.String()
		}
		if _, perr := screeninfo.ParseSplitKind(split); perr != nil {
			return nil, ScreenInfoOutput{}, fmt.Errorf("emulate_screens: %w", perr)
		}
		data, err = s.daemon.Emulate(args.Screens, split)
	}
	if err != nil {
		return nil, ScreenInfoOutput{}, fmt.Errorf("emulate_screens: %w", err)
	}
	return nil, screenInfoOutput(data), nil
}

func (s *Server) handleWaitForChange(_ context.Context, _ *mcpsdk.CallToolRequest, args WaitForChangeInput) (*mcpsdk.CallToolResult, ScreenInfoOutput, error) {
	timeout := defaultWaitTimeout
	if args.TimeoutSeconds > 0 {
		timeout = time.Duration(args.TimeoutSeconds) * time.Second
	}
	if timeout > ipc.MaxWaitTimeout {
		timeout = ipc.MaxWaitTimeout
	}

	data, err := s.daemon.WaitForChange(args.Generation, timeout)
	if err != nil {
		return nil, ScreenInfoOutput{}, fmt.Errorf("wait_for_change: %w", err)
	}
	out := screenInfoOutput(data)
	out.Changed = data.Generation > args.Generation
	return nil, out, nil
}

func screenInfoOutput(data *ipc.ScreenInfoData) ScreenInfoOutput {
	out := ScreenInfoOutput{
		Generation:             data.Generation,
		Window:                 fmt.Sprintf("0x%x", data.Window),
		WindowClass:            data.WindowClass,
		WindowTitle:            data.WindowTitle,
		FollowingActive:        data.FollowingActive,
		Split:                  data.Split,
		ClientRect:             rectInfo(0, data.ClientRect),
		WindowRect:             rectInfo(0, data.WindowRect),
		ContentRects:           make([]RectInfo, 0, len(data.ContentRects)),
		WidestIndex:            data.WidestIndex,
		TallestIndex:           data.TallestIndex,
		HorizontalContentIndex: data.HorizontalIndex,
		Emulating:              data.Emulating,
		EmulatedScreens:        data.EmulatedScreens,
		EmulatedSplit:          data.EmulatedSplit,
		DisplayCount:           data.DisplayCount,
		MultipleScreens:        data.MultipleScreens,
	}
	for i, r := range data.ContentRects {
		out.ContentRects = append(out.ContentRects, rectInfo(i, r))
	}
	return out
}

func rectInfo(index int, r screeninfo.Rect) RectInfo {
	return RectInfo{
		Index:  index,
		Left:   r.Left,
		Top:    r.Top,
		Right:  r.Right,
		Bottom: r.Bottom,
		Width:  screeninfo.RectWidth(r),
		Height: screeninfo.RectHeight(r),
	}
}

func platformRectInfo(r platform.Rect) RectInfo {
	return rectInfo(0, r.Edges())
}
