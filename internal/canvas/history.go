package canvas

import "image"

// history is a linear undo/redo sequence of immutable bitmap snapshots.
// Snapshots live in an arena; truncation on a new commit only shrinks the
// logical length, entries past it stay allocated until overwritten.
type history struct {
	arena  []*image.RGBA
	length int // logical entry count, arena[:length] are live
	index  int // current position, 0 <= index < length once non-empty
}

// push commits snap as the new tip, discarding any redo entries.
func (h *history) push(snap *image.RGBA) {
	if h.length > 0 && h.index+1 < h.length {
		h.length = h.index + 1
	}
	if h.length < len(h.arena) {
		h.arena[h.length] = snap
	} else {
		h.arena = append(h.arena, snap)
	}
	h.length++
	h.index = h.length - 1
}

// reset drops everything and starts over with snap as the only entry.
func (h *history) reset(snap *image.RGBA) {
	h.arena = h.arena[:0]
	h.arena = append(h.arena, snap)
	h.length = 1
	h.index = 0
}

func (h *history) current() *image.RGBA {
	if h.length == 0 {
		return nil
	}
	return h.arena[h.index]
}

func (h *history) undo() bool {
	if h.index <= 0 {
		return false
	}
	h.index--
	return true
}

func (h *history) redo() bool {
	if h.index+1 >= h.length {
		return false
	}
	h.index++
	return true
}
