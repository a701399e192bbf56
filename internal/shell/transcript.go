package shell

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Kind selects how a transcript line is styled.
type Kind int

const (
	KindPlain Kind = iota
	KindEcho
	KindOK
	KindInfo
	KindWarn
	KindError
	KindMuted
	KindTitle
)

// Block is anything the transcript can render. Lines are static; a list
// navigator re-renders as its selection moves.
type Block interface {
	Render(th Theme, width int) string
}

// Line is a static transcript line.
type Line struct {
	Kind Kind
	Text string
}

func (l Line) Render(th Theme, width int) string {
	st := th.forKind(l.Kind)
	if width > 0 {
		st = st.Width(width)
	}
	return st.Render(l.Text)
}

// Transcript is the scrollback of the root shell.
type Transcript struct {
	blocks []Block
	limit  int
}

// NewTranscript keeps at most limit blocks; limit <= 0 means unbounded.
func NewTranscript(limit int) *Transcript {
	return &Transcript{limit: limit}
}

func (t *Transcript) Append(b Block) {
	t.blocks = append(t.blocks, b)
	if t.limit > 0 && len(t.blocks) > t.limit {
		t.blocks = append([]Block(nil), t.blocks[len(t.blocks)-t.limit:]...)
	}
}

// Remove drops b and reports whether it was present.
func (t *Transcript) Remove(b Block) bool {
	for i := range t.blocks {
		if t.blocks[i] == b {
			t.blocks = append(t.blocks[:i], t.blocks[i+1:]...)
			return true
		}
	}
	return false
}

func (t *Transcript) Clear() { t.blocks = nil }

func (t *Transcript) Len() int { return len(t.blocks) }

// Blocks returns a copy of the current blocks.
func (t *Transcript) Blocks() []Block {
	return append([]Block(nil), t.blocks...)
}

// Render joins every block and keeps the last height lines.
func (t *Transcript) Render(th Theme, width, height int) string {
	parts := make([]string, 0, len(t.blocks))
	for _, b := range t.blocks {
		parts = append(parts, b.Render(th, width))
	}
	out := lipgloss.JoinVertical(lipgloss.Left, parts...)
	if height <= 0 {
		return out
	}
	lines := strings.Split(out, "\n")
	if len(lines) > height {
		lines = lines[len(lines)-height:]
	}
	return strings.Join(lines, "\n")
}

// Text renders every block without styling. Tests and the non-interactive
// commands use it.
func (t *Transcript) Text() string {
	th := PlainTheme()
	parts := make([]string, 0, len(t.blocks))
	for _, b := range t.blocks {
		parts = append(parts, b.Render(th, 0))
	}
	return strings.Join(parts, "\n")
}
