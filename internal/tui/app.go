// Package tui hosts the shell inside a bubbletea program and binds the
// journal and team commands to it.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/jask/termjournal/internal/config"
	"github.com/jask/termjournal/internal/keys"
	"github.com/jask/termjournal/internal/service"
	"github.com/jask/termjournal/internal/shell"
)

const (
	appName    = "TERMJOURNAL"
	appVersion = "v1.0"
)

// App ties the shell, the input line and the services together.
type App struct {
	ctx      context.Context
	cfg      config.Config
	services Services
	keys     *keys.Registry
	keymap   rootKeyMap
	shell    *shell.Shell
	input    textinput.Model
	theme    shell.Theme
	logger   *zap.Logger
	now      func() time.Time
	loc      *time.Location
	width    int
	height   int
	quitting bool
}

type Services struct {
	Journal     *service.JournalService
	Team        *service.TeamService
	Maintenance *service.MaintenanceService
}

// Options carries the optional collaborators of an App.
type Options struct {
	Logger   *zap.Logger
	Keys     *keys.Registry
	Theme    *shell.Theme
	Now      func() time.Time
	Location *time.Location
}

type rootKeyMap struct {
	Quit        key.Binding
	Submit      key.Binding
	HistoryPrev key.Binding
	HistoryNext key.Binding
}

// resizer is implemented by surfaces that lay themselves out.
type resizer interface {
	Resize(width, height int)
}

func New(ctx context.Context, cfg config.Config, services Services, opts Options) *App {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Keys == nil {
		opts.Keys = keys.NewRegistry()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	theme := shell.DefaultTheme()
	if opts.Theme != nil {
		theme = *opts.Theme
	}

	a := &App{
		ctx:      ctx,
		cfg:      cfg,
		services: services,
		keys:     opts.Keys,
		keymap: rootKeyMap{
			Quit:        opts.Keys.Key(keys.ScopeGlobal, keys.ActionQuit),
			Submit:      opts.Keys.Key(keys.ScopeGlobal, keys.ActionSubmit),
			HistoryPrev: opts.Keys.Key(keys.ScopeGlobal, keys.ActionHistoryPrev),
			HistoryNext: opts.Keys.Key(keys.ScopeGlobal, keys.ActionHistoryNext),
		},
		theme:  theme,
		logger: opts.Logger,
		now:    opts.Now,
		loc:    opts.Location,
	}

	reg := shell.NewRegistry()
	a.registerCommands(reg)
	a.shell = shell.New(reg, shell.Options{
		Prompt:      cfg.UI.Prompt,
		HistorySize: cfg.UI.HistorySize,
		Scrollback:  cfg.UI.Scrollback,
		Logger:      opts.Logger.Named("shell"),
	})

	a.input = textinput.New()
	a.input.Prompt = ""
	if !cfg.UI.CursorBlink {
		a.input.Cursor.SetMode(cursor.CursorStatic)
	}
	a.input.Focus()

	a.banner()
	return a
}

// Shell exposes the router, mainly for tests.
func (a *App) Shell() *shell.Shell { return a.shell }

func (a *App) Init() tea.Cmd {
	if a.cfg.UI.CursorBlink {
		return textinput.Blink
	}
	return nil
}

func (a *App) banner() {
	stamp := a.now().In(a.loc).Format("15:04:05")
	a.shell.Print(shell.KindTitle, "%s %s - %s", appName, appVersion, stamp)
	a.shell.Muted("Type help to list commands.")
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = m.Width, m.Height
		a.input.Width = max(0, m.Width-lipgloss.Width(a.shell.Prompt())-2)
		if r, ok := a.shell.Active().(resizer); ok {
			r.Resize(m.Width, m.Height)
		}
	case tea.KeyMsg:
		return a, a.handleKey(m)
	case errMsg:
		a.report(m.error)
	case entryOpenedMsg:
		return a, a.openEditor(m)
	case entrySavedMsg:
		a.entrySaved(m)
	case entrySaveFailedMsg:
		if ed, ok := a.shell.Active().(*editor); ok && ed.date == m.Date {
			ed.saveFailed(m.Err)
		}
		a.report(m.Err)
	case entryReadMsg:
		a.printMarkdown(m.Entry)
	case entryDeletedMsg:
		if m.Count == 0 {
			a.shell.Warn("No entry for %s.", m.Date)
		} else {
			a.shell.OK("Deleted entry %s.", m.Date)
		}
	case wipedMsg:
		a.shell.OK("Wiped %d %s.", m.Count, plural(int(m.Count), "entry", "entries"))
	case previewsMsg:
		a.showList(m)
	case rosterMsg:
		return a, a.startWizard(m)
	case teamCommittedMsg:
		a.shell.OK("%s", m.Message)
	}
	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, a.keymap.Quit) {
		a.quitting = true
		return tea.Quit
	}
	if handled, cmd := a.shell.DispatchKey(msg); handled {
		return cmd
	}
	switch {
	case key.Matches(msg, a.keymap.Submit):
		line := a.input.Value()
		a.input.Reset()
		return a.shell.SubmitLine(line)
	case key.Matches(msg, a.keymap.HistoryPrev):
		if line, ok := a.shell.HistoryPrev(); ok {
			a.setInput(line)
		}
		return nil
	case key.Matches(msg, a.keymap.HistoryNext):
		if line, ok := a.shell.HistoryNext(); ok {
			a.setInput(line)
		}
		return nil
	}
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return cmd
}

func (a *App) setInput(line string) {
	a.input.SetValue(line)
	a.input.CursorEnd()
}

// Input returns the current contents of the input line.
func (a *App) Input() string { return a.input.Value() }

// report prints err in the transcript and, when the editor is open, on its
// status line as well.
func (a *App) report(err error) {
	if err == nil {
		return
	}
	if ed, ok := a.shell.Active().(*editor); ok {
		ed.status = err.Error()
	}
	a.shell.ReportError(err)
}

func (a *App) View() string {
	if a.quitting {
		return ""
	}
	if s, ok := a.shell.Active().(shell.Surface); ok {
		return s.View(a.width, a.height)
	}
	line := a.theme.Prompt.Render(a.shell.Prompt()) + " " + a.input.View()
	body := a.shell.Transcript().Render(a.theme, a.width, max(0, a.height-1))
	if body == "" {
		return line
	}
	return body + "\n" + line
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
