package screeninfo

// DisplayTopology reports the physical displays attached to the host.
type DisplayTopology interface {
	DisplayCount() (int, error)
}

// AreMultipleScreensPresent reports whether topology has more than one
// active display, regardless of whether any tracked window spans them.
// A failing or nil topology counts as a single display.
func AreMultipleScreensPresent(topology DisplayTopology) bool {
	if topology == nil {
		return false
	}
	n, err := topology.DisplayCount()
	if err != nil {
		return false
	}
	return n > 1
}
