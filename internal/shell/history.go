package shell

import "strings"

// History is the root shell's line history with a recall cursor.
// The cursor is always in [0, Len()]; Len() means "not recalling".
type History struct {
	lines  []string
	cursor int
	limit  int
}

// NewHistory keeps at most limit lines; limit <= 0 means unbounded.
func NewHistory(limit int) *History {
	return &History{limit: limit}
}

// Push records a submitted line and resets the cursor. Blank lines are
// ignored.
func (h *History) Push(line string) {
	if strings.TrimSpace(line) == "" {
		h.cursor = len(h.lines)
		return
	}
	h.lines = append(h.lines, line)
	if h.limit > 0 && len(h.lines) > h.limit {
		h.lines = append([]string(nil), h.lines[len(h.lines)-h.limit:]...)
	}
	h.cursor = len(h.lines)
}

// Prev moves toward older lines, stopping at the oldest.
func (h *History) Prev() (string, bool) {
	if len(h.lines) == 0 {
		return "", false
	}
	if h.cursor > 0 {
		h.cursor--
	}
	return h.lines[h.cursor], true
}

// Next moves toward newer lines. Stepping past the newest clears the line.
func (h *History) Next() (string, bool) {
	if h.cursor < len(h.lines) {
		h.cursor++
	}
	if h.cursor == len(h.lines) {
		return "", true
	}
	return h.lines[h.cursor], true
}

func (h *History) Len() int    { return len(h.lines) }
func (h *History) Cursor() int { return h.cursor }
