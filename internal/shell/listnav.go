package shell

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"github.com/jask/termjournal/internal/errs"
	"github.com/jask/termjournal/internal/keys"
)

const (
	PageStep   = 5
	listWindow = 10
	listPrompt = "view>"
)

// ListItem is one selectable record: its key and a one-line preview.
type ListItem struct {
	Key     string
	Preview string
}

// ListKeyMap is the list navigator's bindings. It satisfies help.KeyMap.
type ListKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding
	Open     key.Binding
	Close    key.Binding
}

// ListKeys reads the list scope of r.
func ListKeys(r *keys.Registry) ListKeyMap {
	if r == nil {
		r = keys.NewRegistry()
	}
	return ListKeyMap{
		Up:       r.Key(keys.ScopeList, keys.ActionUp),
		Down:     r.Key(keys.ScopeList, keys.ActionDown),
		PageUp:   r.Key(keys.ScopeList, keys.ActionPageUp),
		PageDown: r.Key(keys.ScopeList, keys.ActionPageDown),
		Home:     r.Key(keys.ScopeList, keys.ActionHome),
		End:      r.Key(keys.ScopeList, keys.ActionEnd),
		Open:     r.Key(keys.ScopeList, keys.ActionOpen),
		Close:    r.Key(keys.ScopeList, keys.ActionClose),
	}
}

func (k ListKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.PageDown, k.Open, k.Close}
}

func (k ListKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down, k.PageUp, k.PageDown}, {k.Home, k.End, k.Open, k.Close}}
}

// ListNavigator presents items for single selection. It renders in place
// inside the transcript, so a suspended list stays visible.
type ListNavigator struct {
	sh        *Shell
	title     string
	items     []ListItem
	selected  int
	suspended bool
	keys      ListKeyMap
	help      help.Model
	onOpen    func(ListItem) tea.Cmd
}

// NewListNavigator builds a navigator over items. An empty sequence is
// rejected: callers report "no entries" instead of entering an empty list.
func NewListNavigator(sh *Shell, title string, items []ListItem, km ListKeyMap, onOpen func(ListItem) tea.Cmd) (*ListNavigator, error) {
	if len(items) == 0 {
		return nil, errs.NotFound("no entries to list")
	}
	return &ListNavigator{
		sh:     sh,
		title:  title,
		items:  append([]ListItem(nil), items...),
		keys:   km,
		help:   help.New(),
		onOpen: onOpen,
	}, nil
}

// Start shows the list and makes it the active subprogram.
func (n *ListNavigator) Start() {
	n.sh.Append(n)
	n.sh.Enter(n)
}

func (n *ListNavigator) Prompt() string { return listPrompt }

// Consume is only reached when a line is submitted without a key reaching
// the list first. The list steps aside and the line runs as a command.
func (n *ListNavigator) Consume(line string) (tea.Cmd, error) {
	n.sh.Suspend()
	return n.sh.Execute(line), nil
}

func (n *ListNavigator) OnKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch {
	case key.Matches(msg, n.keys.Down):
		n.move(1)
	case key.Matches(msg, n.keys.Up):
		n.move(-1)
	case key.Matches(msg, n.keys.PageDown):
		n.move(PageStep)
	case key.Matches(msg, n.keys.PageUp):
		n.move(-PageStep)
	case key.Matches(msg, n.keys.Home):
		n.selected = 0
	case key.Matches(msg, n.keys.End):
		n.selected = len(n.items) - 1
	case key.Matches(msg, n.keys.Close):
		n.sh.Suspend()
	case key.Matches(msg, n.keys.Open):
		item := n.items[n.selected]
		n.sh.Suspend()
		if n.onOpen == nil {
			return true, nil
		}
		return true, n.onOpen(item)
	default:
		return false, nil
	}
	return true, nil
}

func (n *ListNavigator) move(delta int) {
	n.selected = max(0, min(len(n.items)-1, n.selected+delta))
}

func (n *ListNavigator) Disable() { n.suspended = true }

func (n *ListNavigator) Destroy() { n.sh.Remove(n) }

func (n *ListNavigator) Selected() int     { return n.selected }
func (n *ListNavigator) Suspended() bool   { return n.suspended }
func (n *ListNavigator) Items() []ListItem { return append([]ListItem(nil), n.items...) }

// Render draws the title, a window of rows around the selection and, while
// active, the key help.
func (n *ListNavigator) Render(th Theme, width int) string {
	var b strings.Builder
	b.WriteString(th.Title.Render(n.title))
	b.WriteByte('\n')

	start, end := window(len(n.items), n.selected, listWindow)
	keyWidth := 0
	for _, it := range n.items[start:end] {
		keyWidth = max(keyWidth, runewidth.StringWidth(it.Key))
	}
	for i := start; i < end; i++ {
		it := n.items[i]
		row := runewidth.FillRight(it.Key, keyWidth) + "  " + collapse(it.Preview)
		if width > 0 {
			row = runewidth.Truncate(row, width, "…")
		}
		style := th.Plain
		if i == n.selected && !n.suspended {
			style = th.Selected
		}
		b.WriteString(style.Render(row))
		b.WriteByte('\n')
	}
	pos := fmt.Sprintf("%d/%d", n.selected+1, len(n.items))
	if n.suspended {
		b.WriteString(th.Muted.Render(pos))
		return b.String()
	}
	n.help.Width = width
	b.WriteString(th.Muted.Render(pos) + "  " + n.help.View(n.keys))
	return b.String()
}

// window returns the [start, end) slice of n rows of at most size rows that
// keeps sel visible.
func window(n, sel, size int) (int, int) {
	if n <= size {
		return 0, n
	}
	start := max(0, sel-size/2)
	if start+size > n {
		start = n - size
	}
	return start, start + size
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
