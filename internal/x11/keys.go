package x11

import (
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
)

var ignoreModsOnce sync.Once

// BindKey grabs keySequence on the root window. The callback runs on the
// event loop goroutine.
func (c *Connection) BindKey(keySequence string, callback func()) error {
	ignoreModsOnce.Do(func() {
		configureIgnoreMods(c.XUtil)
	})
	return keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		callback()
	}).Connect(c.XUtil, c.Root, keySequence, true)
}

// configureIgnoreMods makes grabs fire regardless of the lock modifiers.
func configureIgnoreMods(xu *xgbutil.XUtil) {
	caps := uint16(xproto.ModMaskLock)

	numLock := modMaskForKeysym(xu, "Num_Lock")
	scrollLock := modMaskForKeysym(xu, "Scroll_Lock")

	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}

	xevent.IgnoreMods = lockCombinations(base)
}

// lockCombinations returns every OR-combination of masks, including 0.
func lockCombinations(masks []uint16) []uint16 {
	seen := map[uint16]bool{0: true}
	out := []uint16{0}
	for subset := 1; subset < (1 << len(masks)); subset++ {
		var mask uint16
		for bit := range masks {
			if subset&(1<<bit) != 0 {
				mask |= masks[bit]
			}
		}
		if !seen[mask] {
			seen[mask] = true
			out = append(out, mask)
		}
	}
	return out
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
