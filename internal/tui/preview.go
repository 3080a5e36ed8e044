package tui

import (
	"fmt"
	"strings"

	"github.com/1broseidon/splitscreen/internal/ipc"
	"github.com/1broseidon/splitscreen/internal/screeninfo"
)

func summarizeScreenInfo(info *ipc.ScreenInfoData) string {
	if info == nil {
		return "no data"
	}
	if len(info.ContentRects) == 0 {
		return fmt.Sprintf("split %s • no content rects", info.Split)
	}

	sizes := make([]string, len(info.ContentRects))
	for i, r := range info.ContentRects {
		sizes[i] = fmt.Sprintf("%d×%d", screeninfo.RectWidth(r), screeninfo.RectHeight(r))
	}

	parts := []string{
		"split " + info.Split,
		fmt.Sprintf("%d rects (%s)", len(info.ContentRects), strings.Join(sizes, ", ")),
		fmt.Sprintf("widest #%d", info.WidestIndex+1),
		fmt.Sprintf("horizontal content #%d", info.HorizontalIndex+1),
	}
	if info.Emulating {
		parts = append(parts, fmt.Sprintf("emulating %d %s", info.EmulatedScreens, info.EmulatedSplit))
	}
	return strings.Join(parts, " • ")
}

// renderASCIIPreview draws the client rect as the canvas border and each
// content rect inside it, numbered in reading order. The rect preferred for
// horizontal content is marked with '*'.
func renderASCIIPreview(info *ipc.ScreenInfoData, width, height int) []string {
	if info == nil || width < 5 || height < 3 {
		return emptyCanvas(width, height)
	}
	client := info.ClientRect
	clientW, clientH := screeninfo.RectWidth(client), screeninfo.RectHeight(client)
	if clientW <= 0 || clientH <= 0 {
		return emptyCanvas(width, height)
	}

	// Create a character canvas
	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	for i, r := range info.ContentRects {
		label := fmt.Sprintf("%d", i+1)
		if i == info.HorizontalIndex {
			label += "*"
		}
		local := r.Offset(-client.Left, -client.Top)
		drawTile(canvas, local, label, clientW, clientH, width, height)
	}

	// Draw border around the entire preview area
	drawBorder(canvas, width, height)

	lines := make([]string, height)
	for i, row := range canvas {
		lines[i] = string(row)
	}
	return lines
}

func drawTile(canvas [][]rune, rect screeninfo.Rect, label string, srcW, srcH, canvasW, canvasH int) {
	// Map rect coordinates to canvas coordinates
	x1 := rect.Left * (canvasW - 1) / srcW
	y1 := rect.Top * (canvasH - 1) / srcH
	x2 := rect.Right * (canvasW - 1) / srcW
	y2 := rect.Bottom * (canvasH - 1) / srcH

	// Keep tiles inside the outer border
	x1 = max(x1, 1)
	y1 = max(y1, 1)
	x2 = min(x2, canvasW-2)
	y2 = min(y2, canvasH-2)

	// Need at least 2x2 for a tile
	if x2 <= x1 || y2 <= y1 {
		return
	}

	for x := x1; x <= x2; x++ {
		canvas[y1][x] = '─'
		canvas[y2][x] = '─'
	}
	for y := y1; y <= y2; y++ {
		canvas[y][x1] = '│'
		canvas[y][x2] = '│'
	}
	canvas[y1][x1] = '┌'
	canvas[y1][x2] = '┐'
	canvas[y2][x1] = '└'
	canvas[y2][x2] = '┘'

	// Draw label in center
	centerY := (y1 + y2) / 2
	centerX := (x1 + x2) / 2
	if centerY > y1 && centerY < y2 && centerX > x1 && centerX < x2 {
		startX := centerX - len(label)/2
		for i, r := range label {
			if startX+i > x1 && startX+i < x2 {
				canvas[centerY][startX+i] = r
			}
		}
	}
}

func drawBorder(canvas [][]rune, width, height int) {
	// Top and bottom borders
	for x := 0; x < width; x++ {
		canvas[0][x] = '═'
		canvas[height-1][x] = '═'
	}

	// Left and right borders
	for y := 0; y < height; y++ {
		canvas[y][0] = '║'
		canvas[y][width-1] = '║'
	}

	// Corners
	canvas[0][0] = '╔'
	canvas[0][width-1] = '╗'
	canvas[height-1][0] = '╚'
	canvas[height-1][width-1] = '╝'
}

func emptyCanvas(width, height int) []string {
	lines := make([]string, max(height, 0))
	empty := strings.Repeat(" ", max(width, 0))
	for i := range lines {
		lines[i] = empty
	}
	return lines
}
