package route

// History is a browser-style location stack.
type History struct {
	entries []Location
	index   int
}

// NewHistory starts a history at start.
func NewHistory(start Location) *History {
	return &History{entries: []Location{start}}
}

func (h *History) Current() Location {
	return h.entries[h.index]
}

// Push adds loc after the current entry, dropping any forward entries.
func (h *History) Push(loc Location) {
	h.entries = append(h.entries[:h.index+1], loc)
	h.index++
}

// Replace swaps the current entry for loc.
func (h *History) Replace(loc Location) {
	h.entries[h.index] = loc
}

func (h *History) CanBack() bool { return h.index > 0 }
func (h *History) CanForward() bool { return h.index < len(h.entries)-1 }

// Back moves one entry back and reports whether it moved.
func (h *History) Back() (Location, bool) {
	if !h.CanBack() {
		return h.Current(), false
	}
	h.index--
	return h.Current(), true
}

// Forward moves one entry forward and reports whether it moved.
func (h *History) Forward() (Location, bool) {
	if !h.CanForward() {
		return h.Current(), false
	}
	h.index++
	return h.Current(), true
}
