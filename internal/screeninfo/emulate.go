package screeninfo

// EmulateScreens makes subsequent Updates synthesize count content rects
// by dividing the client rect into equal columns (SplitVertical) or rows
// (SplitHorizontal) instead of asking the provider for content rects.
//
// A negative count turns emulation off. A count of zero, or a directionless
// kind, is normalized to a single region with SplitNone.
func (s *ScreenInfo) EmulateScreens(count int, kind SplitKind) {
	if count < 0 {
		s.StopEmulating()
		return
	}
	if count == 0 || kind == SplitNone || kind == SplitUnknown {
		count = 1
	}
	if count == 1 {
		kind = SplitNone
	}
	if s.emulatedScreenCount != count || s.emulatedSplit != kind {
		s.dirty = true
	}
	s.emulatedScreenCount = count
	s.emulatedSplit = kind
}

// StopEmulating returns to provider-reported content rects on the next
// Update.
func (s *ScreenInfo) StopEmulating() {
	if s.emulatedScreenCount >= 0 {
		s.dirty = true
	}
	s.emulatedScreenCount = -1
	s.emulatedSplit = SplitUnknown
}

// IsEmulating reports whether content rects are synthesized.
func (s *ScreenInfo) IsEmulating() bool {
	return s.emulatedScreenCount >= 0
}

// EmulatedScreens returns the active emulation parameters, or (-1,
// SplitUnknown) when not emulating.
func (s *ScreenInfo) EmulatedScreens() (int, SplitKind) {
	return s.emulatedScreenCount, s.emulatedSplit
}

// emulatedRects divides client into count equal regions along the axis of
// kind. The last region absorbs any remainder so the regions tile client
// exactly. An empty client yields no regions.
func emulatedRects(client Rect, count int, kind SplitKind) []Rect {
	if count <= 0 || client.Empty() {
		return nil
	}
	if count == 1 || (kind != SplitVertical && kind != SplitHorizontal) {
		return []Rect{client}
	}

	rects := make([]Rect, count)
	switch kind {
	case SplitVertical:
		step := RectWidth(client) / count
		for i := range rects {
			r := client
			r.Left = client.Left + i*step
			r.Right = r.Left + step
			if i == count-1 {
				r.Right = client.Right
			}
			rects[i] = r
		}
	case SplitHorizontal:
		step := RectHeight(client) / count
		for i := range rects {
			r := client
			r.Top = client.Top + i*step
			r.Bottom = r.Top + step
			if i == count-1 {
				r.Bottom = client.Bottom
			}
			rects[i] = r
		}
	}
	return rects
}
