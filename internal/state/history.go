package state

// History is a linear undo log of shape list snapshots. The cursor indexes
// the snapshot matching the board; -1 is the empty canvas. Snapshots are
// deep copies and never alias the live list.
type History struct {
	snapshots []ShapeList
	cursor    int
	floor     int // lowest cursor Undo may reach
}

// NewHistory returns an empty history.
func NewHistory() *History {
	return &History{cursor: -1, floor: -1}
}

// Commit drops any redo entries past the cursor and appends a copy of l.
func (h *History) Commit(l ShapeList) {
	if h.cursor < len(h.snapshots)-1 {
		h.snapshots = h.snapshots[:h.cursor+1]
	}
	h.snapshots = append(h.snapshots, l.Clone())
	h.cursor++
}

// Seal replaces the snapshot at the cursor with a copy of l. It records the
// finished state of the gesture whose snapshot was committed when it began
// and leaves the cursor and the redo branch alone. Seal on an empty history
// is a Commit.
func (h *History) Seal(l ShapeList) {
	if h.cursor < 0 {
		h.Commit(l)
		return
	}
	h.snapshots[h.cursor] = l.Clone()
}

// Undo steps back one snapshot and returns a copy of the list now current.
// Stepping back from the first snapshot yields the empty canvas, unless the
// history was Reset. ok is false when there is nothing to undo.
func (h *History) Undo() (l ShapeList, ok bool) {
	if h.cursor <= h.floor {
		return nil, false
	}
	h.cursor--
	if h.cursor < 0 {
		return ShapeList{}, true
	}
	return h.snapshots[h.cursor].Clone(), true
}

// Redo steps forward one snapshot and returns a copy of it. ok is false when
// there is nothing to redo.
func (h *History) Redo() (l ShapeList, ok bool) {
	if h.cursor >= len(h.snapshots)-1 {
		return nil, false
	}
	h.cursor++
	return h.snapshots[h.cursor].Clone(), true
}

// Clear empties the history.
func (h *History) Clear() {
	h.snapshots = nil
	h.cursor = -1
	h.floor = -1
}

// Reset replaces the whole history with a single snapshot of l, so nothing
// before it can be undone.
func (h *History) Reset(l ShapeList) {
	h.snapshots = []ShapeList{l.Clone()}
	h.cursor = 0
	h.floor = 0
}

// Len is the number of snapshots, redo entries included.
func (h *History) Len() int { return len(h.snapshots) }

// Cursor is the index of the current snapshot, -1 for the empty canvas.
func (h *History) Cursor() int { return h.cursor }

func (h *History) CanUndo() bool { return h.cursor > h.floor }

func (h *History) CanRedo() bool { return h.cursor < len(h.snapshots)-1 }
