package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jask/termjournal/internal/errs"
	"github.com/jask/termjournal/internal/keys"
	"github.com/jask/termjournal/internal/service"
	"github.com/jask/termjournal/internal/shell"
	"github.com/jask/termjournal/internal/team"
)

func (a *App) registerCommands(reg *shell.Registry) {
	reg.MustRegister(
		shell.Command{Name: "help", Description: "List available commands (help -keys for key bindings)", Handler: a.cmdHelp},
		shell.Command{Name: "clear", Description: "Clear the screen", Handler: a.cmdClear},
		shell.Command{Name: "about", Description: "About this console", Handler: a.cmdAbout},
		shell.Command{Name: "quit", Description: "Leave the console", Handler: a.cmdQuit},
		shell.Command{Name: "journal", Description: "Write the entry for a day (journal -help)", Handler: a.cmdJournal},
		shell.Command{Name: "view", Description: "Browse recent entries or a month (view -help)", Handler: a.cmdView},
		shell.Command{Name: "search", Description: "Find entries containing text (search -help)", Handler: a.cmdSearch},
		shell.Command{Name: "read", Description: "Print an entry as formatted markdown", Handler: a.cmdRead},
		shell.Command{Name: "delete", Description: "Delete the entry for a day", Handler: a.cmdDelete},
		shell.Command{Name: "wipe", Description: "Delete every journal entry (wipe --yes)", Handler: a.cmdWipe},
		shell.Command{Name: "add", Description: "Add an employee", Handler: a.teamCommand(team.OpAdd)},
		shell.Command{Name: "edit", Description: "Edit an employee", Handler: a.teamCommand(team.OpEdit)},
		shell.Command{Name: "remove", Description: "Remove an employee", Handler: a.teamCommand(team.OpRemove)},
		shell.Command{Name: "display", Description: "Show an employee's details", Handler: a.teamCommand(team.OpDisplay)},
		shell.Command{Name: "list", Description: "List employees", Handler: a.teamCommand(team.OpList)},
	)
}

var (
	journalUsage = []string{
		"usage: journal [YYYY-MM-DD | MM-DD | -y | -t]",
		"  (none)       today",
		"  -y           yesterday",
		"  -t           tomorrow",
		"  MM-DD        that day this year",
		"  YYYY-MM-DD   that exact day",
		"  ctrl+s saves, ctrl+x returns to the console",
	}
	viewUsage = []string{
		"usage: view [MM | YYYY-MM]",
		"  (none)   most recent entries",
		"  MM       that month this year",
		"  YYYY-MM  that exact month",
		"  arrows move, pgup/pgdown page, enter opens, esc closes",
	}
	searchUsage = []string{
		`usage: search "terms"`,
		"  lists entries whose text contains the terms (case sensitive)",
	}
)

func wantsHelp(argv []string) bool {
	return len(argv) > 1 && (argv[1] == "-help" || argv[1] == "--help" || argv[1] == "-h")
}

func (a *App) printUsage(lines []string) {
	for _, l := range lines {
		a.shell.Info("%s", l)
	}
}

func (a *App) today() time.Time { return a.now().In(a.loc) }

var keyScopes = []struct {
	scope keys.Scope
	title string
}{
	{keys.ScopeGlobal, "Shell keys"},
	{keys.ScopeEditor, "Journal editor keys"},
	{keys.ScopeList, "Entry list keys"},
}

func (a *App) cmdHelp(sh *shell.Shell, argv []string) (tea.Cmd, error) {
	switch {
	case len(argv) == 1:
		for _, c := range sh.Registry().List() {
			sh.Println(fmt.Sprintf("  %-10s - %s", c.Name, c.Description))
		}
	case len(argv) == 2 && (argv[1] == "-keys" || argv[1] == "--keys"):
		for _, s := range keyScopes {
			sh.Info("%s", s.title)
			for _, b := range a.keys.HelpBindings(s.scope) {
				sh.Println(fmt.Sprintf("  %-10s - %s", strings.Join(b.Keys(), ", "), b.Help().Desc))
			}
		}
	default:
		return nil, errs.Validation("usage: help [-keys]")
	}
	return nil, nil
}

func (a *App) cmdClear(sh *shell.Shell, _ []string) (tea.Cmd, error) {
	sh.Transcript().Clear()
	a.banner()
	return nil, nil
}

func (a *App) cmdAbout(sh *shell.Shell, _ []string) (tea.Cmd, error) {
	sh.Println("termjournal: a terminal journal with a small team roster utility.")
	sh.Muted("Entries are stored per day in %s.", a.cfg.Database.Path)
	return nil, nil
}

func (a *App) cmdQuit(sh *shell.Shell, _ []string) (tea.Cmd, error) {
	sh.Println("Goodbye.")
	a.quitting = true
	return tea.Quit, nil
}

func (a *App) dateArg(argv []string, usage []string) (string, error) {
	if len(argv) > 2 {
		return "", errs.Validation("%s", usage[0])
	}
	arg := ""
	if len(argv) == 2 {
		arg = argv[1]
	}
	return service.ResolveDate(arg, a.today())
}

func (a *App) cmdJournal(_ *shell.Shell, argv []string) (tea.Cmd, error) {
	if wantsHelp(argv) {
		a.printUsage(journalUsage)
		return nil, nil
	}
	date, err := a.dateArg(argv, journalUsage)
	if err != nil {
		return nil, err
	}
	return a.openEntryCmd(date), nil
}

func (a *App) cmdView(_ *shell.Shell, argv []string) (tea.Cmd, error) {
	if wantsHelp(argv) {
		a.printUsage(viewUsage)
		return nil, nil
	}
	switch len(argv) {
	case 1:
		return a.recentCmd(a.cfg.Journal.RecentLimit), nil
	case 2:
		ym, err := service.ResolveMonth(argv[1], a.today())
		if err != nil {
			return nil, err
		}
		return a.monthCmd(ym), nil
	default:
		return nil, errs.Validation("%s", viewUsage[0])
	}
}

func (a *App) cmdSearch(_ *shell.Shell, argv []string) (tea.Cmd, error) {
	if wantsHelp(argv) {
		a.printUsage(searchUsage)
		return nil, nil
	}
	q := strings.TrimSpace(strings.Join(argv[1:], " "))
	if q == "" {
		return nil, errs.Validation("%s", searchUsage[0])
	}
	return a.searchCmd(q), nil
}

func (a *App) cmdRead(_ *shell.Shell, argv []string) (tea.Cmd, error) {
	date, err := a.dateArg(argv, []string{"usage: read [YYYY-MM-DD | MM-DD | -y | -t]"})
	if err != nil {
		return nil, err
	}
	return a.readCmd(date), nil
}

func (a *App) cmdDelete(_ *shell.Shell, argv []string) (tea.Cmd, error) {
	date, err := a.dateArg(argv, []string{"usage: delete [YYYY-MM-DD | MM-DD | -y | -t]"})
	if err != nil {
		return nil, err
	}
	return a.deleteCmd(date), nil
}

func (a *App) cmdWipe(sh *shell.Shell, argv []string) (tea.Cmd, error) {
	if len(argv) != 2 || argv[1] != "--yes" {
		sh.Warn(`This deletes every journal entry. Run "wipe --yes" to confirm.`)
		return nil, nil
	}
	return a.wipeCmd(), nil
}

func (a *App) teamCommand(op team.Operation) shell.Handler {
	return func(_ *shell.Shell, argv []string) (tea.Cmd, error) {
		selector := ""
		if op != team.OpAdd && op != team.OpList {
			selector = strings.Join(argv[1:], " ")
		}
		return a.rosterCmd(op, selector), nil
	}
}

// Asynchronous work. Each command runs off the update loop and reports back
// with a message.

func (a *App) openEntryCmd(date string) tea.Cmd {
	return func() tea.Msg {
		e, created, err := a.services.Journal.Open(a.ctx, date)
		if err != nil {
			return errMsg{err}
		}
		return entryOpenedMsg{Entry: e, Created: created}
	}
}

func (a *App) saveEntryCmd(date, content string) tea.Cmd {
	return func() tea.Msg {
		e, err := a.services.Journal.Save(a.ctx, date, content)
		if err != nil {
			return entrySaveFailedMsg{Date: date, Err: err}
		}
		return entrySavedMsg{Date: date, Content: content, Entry: e}
	}
}

func (a *App) recentCmd(limit int) tea.Cmd {
	return func() tea.Msg {
		p, err := a.services.Journal.Recent(a.ctx, limit)
		if err != nil {
			return errMsg{err}
		}
		return previewsMsg{Title: "Recent entries", Empty: "No entries yet. Type journal to write one.", Previews: p}
	}
}

func (a *App) monthCmd(ym string) tea.Cmd {
	return func() tea.Msg {
		p, err := a.services.Journal.Month(a.ctx, ym)
		if err != nil {
			return errMsg{err}
		}
		title := service.MonthTitle(ym)
		return previewsMsg{Title: title, Empty: "No entries for " + title + ".", Previews: p}
	}
}

func (a *App) searchCmd(q string) tea.Cmd {
	return func() tea.Msg {
		p, err := a.services.Journal.Search(a.ctx, q)
		if err != nil {
			return errMsg{err}
		}
		return previewsMsg{Title: fmt.Sprintf("Search: %q", q), Empty: fmt.Sprintf("No entries match %q.", q), Previews: p}
	}
}

func (a *App) readCmd(date string) tea.Cmd {
	return func() tea.Msg {
		e, err := a.services.Journal.Get(a.ctx, date)
		if err != nil {
			return errMsg{err}
		}
		return entryReadMsg{Entry: e}
	}
}

func (a *App) deleteCmd(date string) tea.Cmd {
	return func() tea.Msg {
		n, err := a.services.Journal.Delete(a.ctx, date)
		if err != nil {
			return errMsg{err}
		}
		return entryDeletedMsg{Date: date, Count: n}
	}
}

func (a *App) wipeCmd() tea.Cmd {
	return func() tea.Msg {
		n, err := a.services.Maintenance.Wipe(a.ctx)
		if err != nil {
			return errMsg{err}
		}
		return wipedMsg{Count: n}
	}
}

func (a *App) rosterCmd(op team.Operation, selector string) tea.Cmd {
	return func() tea.Msg {
		roster, err := a.services.Team.Roster(a.ctx)
		if err != nil {
			return errMsg{err}
		}
		return rosterMsg{Op: op, Selector: selector, Roster: roster}
	}
}

func (a *App) commitCmd(c team.Commit) tea.Cmd {
	return func() tea.Msg {
		if _, err := a.services.Team.Apply(a.ctx, c); err != nil {
			return errMsg{err}
		}
		return teamCommittedMsg{Message: c.SuccessMessage()}
	}
}

// showList enters a list navigator over m, or prints m.Empty.
func (a *App) showList(m previewsMsg) {
	if len(m.Previews) == 0 {
		a.shell.Warn("%s", m.Empty)
		return
	}
	items := make([]shell.ListItem, 0, len(m.Previews))
	for _, p := range m.Previews {
		items = append(items, shell.ListItem{Key: p.Date, Preview: p.Text})
	}
	nav, err := shell.NewListNavigator(a.shell, m.Title, items, shell.ListKeys(a.keys), func(it shell.ListItem) tea.Cmd {
		return a.openEntryCmd(it.Key)
	})
	if err != nil {
		a.report(err)
		return
	}
	a.logger.Debug("list opened", zap.String("title", m.Title), zap.Int("items", len(items)))
	nav.Start()
}
