package tui

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/termjournal/internal/keys"
	"github.com/jask/termjournal/internal/service"
	"github.com/jask/termjournal/internal/shell"
)

const (
	editorPrompt = "journal>"
	indentUnit   = "  "
)

var (
	listStart = regexp.MustCompile(`^\s*(?:[-+*]\s|\d+\.\s|>\s)`)
	todoBox   = regexp.MustCompile(`^(\s*[-+*]\s+\[)([ xX])(\])`)
	bullet    = regexp.MustCompile(`^(\s*)[-+*]\s+`)
)

type editorKeyMap struct {
	Save    key.Binding
	Exit    key.Binding
	Todo    key.Binding
	Indent  key.Binding
	Outdent key.Binding
}

func editorKeys(r *keys.Registry) editorKeyMap {
	return editorKeyMap{
		Save:    r.Key(keys.ScopeEditor, keys.ActionSave),
		Exit:    r.Key(keys.ScopeEditor, keys.ActionExit),
		Todo:    r.Key(keys.ScopeEditor, keys.ActionTodo),
		Indent:  r.Key(keys.ScopeEditor, keys.ActionIndent),
		Outdent: r.Key(keys.ScopeEditor, keys.ActionOutdent),
	}
}

func (k editorKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Save, k.Exit, k.Todo, k.Indent}
}

func (k editorKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Save, k.Exit}, {k.Todo, k.Indent, k.Outdent}}
}

// editor is the full-screen writer for one day's entry. It owns every key
// while active.
type editor struct {
	app     *App
	date    string
	area    textarea.Model
	keys    editorKeyMap
	help    help.Model
	saved   string // content as last persisted
	pending string // content of an in-flight save
	status  string
}

func newEditor(a *App, date, content string) *editor {
	area := textarea.New()
	area.ShowLineNumbers = false
	area.Prompt = ""
	area.CharLimit = 0
	area.MaxHeight = 0
	if !a.cfg.UI.CursorBlink {
		area.Cursor.SetMode(cursor.CursorStatic)
	}
	area.SetValue(content)
	return &editor{
		app:   a,
		date:  date,
		area:  area,
		keys:  editorKeys(a.keys),
		help:  help.New(),
		saved: content,
	}
}

func (e *editor) Prompt() string { return editorPrompt }

// Consume appends a line submitted outside the key path to the buffer.
func (e *editor) Consume(line string) (tea.Cmd, error) {
	e.area.InsertString(line + "\n")
	return nil, nil
}

func (e *editor) HandleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, e.keys.Save):
		return e.save()
	case key.Matches(msg, e.keys.Exit):
		e.exit()
		return nil
	case key.Matches(msg, e.keys.Todo):
		e.toggleTodo()
		return nil
	case key.Matches(msg, e.keys.Indent):
		e.indent()
		return nil
	case key.Matches(msg, e.keys.Outdent):
		e.outdent()
		return nil
	}
	var cmd tea.Cmd
	e.area, cmd = e.area.Update(msg)
	return cmd
}

func (e *editor) Dirty() bool { return e.area.Value() != e.saved }

func (e *editor) save() tea.Cmd {
	content := e.area.Value()
	e.pending = content
	e.status = "Saving..."
	return e.app.saveEntryCmd(e.date, content)
}

func (e *editor) markSaved(content string) {
	e.saved = content
	if e.pending == content {
		e.pending = ""
	}
	n := strings.Count(content, "\n") + 1
	e.status = fmt.Sprintf("Saved (%d %s)", n, plural(n, "line", "lines"))
}

func (e *editor) saveFailed(error) {
	e.pending = ""
}

func (e *editor) exit() {
	value := e.area.Value()
	dropped := value != e.saved && value != e.pending
	sh := e.app.shell
	sh.Exit()
	if dropped {
		sh.Warn("Unsaved changes to %s were discarded.", e.date)
	}
	sh.OK("Exited writer")
}

func (e *editor) Destroy() {
	e.area.Blur()
}

func (e *editor) Resize(width, height int) {
	// header, status and help rows plus the frame
	e.area.SetWidth(max(10, width-4))
	e.area.SetHeight(max(3, height-5))
	e.help.Width = width
}

func (e *editor) View(width, _ int) string {
	th := e.app.theme
	header := th.Title.Render("JOURNAL - " + service.LongDate(e.date))
	if e.Dirty() {
		header += th.Warn.Render(" *")
	}
	status := e.status
	if status == "" {
		status = e.date
	}
	body := strings.Join([]string{
		header,
		e.area.View(),
		th.Muted.Render(status),
		e.help.View(e.keys),
	}, "\n")
	return shell.Framed(body, width)
}

// cursorLine returns the logical row under the cursor, its text and the
// cursor column within it.
func (e *editor) cursorLine() (int, string, int) {
	row := e.area.Line()
	lines := strings.Split(e.area.Value(), "\n")
	if row >= len(lines) {
		row = len(lines) - 1
	}
	li := e.area.LineInfo()
	return row, lines[row], li.StartColumn + li.ColumnOffset
}

// replaceLine rewrites one logical row and puts the cursor back on it.
func (e *editor) replaceLine(row int, text string, col int) {
	lines := strings.Split(e.area.Value(), "\n")
	lines[row] = text
	value := strings.Join(lines, "\n")
	e.area.SetValue(value)
	for guard := len(value) + len(lines); e.area.Line() > row && guard > 0; guard-- {
		e.area.CursorUp()
	}
	e.area.SetCursor(max(0, col))
}

// toggleTodo flips "- [ ]" and "- [x]" on the cursor line. A bullet gains
// an empty box; any other line becomes an open todo.
func (e *editor) toggleTodo() {
	row, text, col := e.cursorLine()
	var next string
	switch m := todoBox.FindStringSubmatchIndex(text); {
	case m != nil:
		mark := "x"
		if text[m[4]:m[5]] != " " {
			mark = " "
		}
		next = text[:m[4]] + mark + text[m[5]:]
	case bullet.MatchString(text):
		loc := bullet.FindStringIndex(text)
		next = text[:loc[1]] + "[ ] " + text[loc[1]:]
		col += 4
	default:
		next = "- [ ] " + text
		col += 6
	}
	e.replaceLine(row, next, col)
}

// indent shifts a list or quote line right; elsewhere it inserts spaces.
func (e *editor) indent() {
	row, text, col := e.cursorLine()
	if !listStart.MatchString(text) {
		e.area.InsertString(indentUnit)
		return
	}
	e.replaceLine(row, indentUnit+text, col+len(indentUnit))
}

func (e *editor) outdent() {
	row, text, col := e.cursorLine()
	if !listStart.MatchString(text) {
		return
	}
	n := len(text) - len(strings.TrimLeft(text, " "))
	n = min(n, len(indentUnit))
	if n == 0 {
		return
	}
	e.replaceLine(row, text[n:], col-n)
}

// openEditor installs the writer for an opened entry.
func (a *App) openEditor(m entryOpenedMsg) tea.Cmd {
	ed := newEditor(a, m.Entry.Date, m.Entry.Content)
	a.shell.Enter(ed)
	if a.width > 0 {
		ed.Resize(a.width, a.height)
	}
	if m.Created {
		ed.status = "New entry"
	}
	return ed.area.Focus()
}

func (a *App) entrySaved(m entrySavedMsg) {
	if ed, ok := a.shell.Active().(*editor); ok && ed.date == m.Date {
		ed.markSaved(m.Content)
		return
	}
	a.shell.OK("Saved %s.", m.Date)
}
