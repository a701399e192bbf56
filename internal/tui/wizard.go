package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jask/termjournal/internal/shell"
	"github.com/jask/termjournal/internal/team"
)

const wizardPrompt = "team>"

// wizard adapts the pure team transition table to the shell. It holds the
// state and the roster snapshot taken when the command ran.
type wizard struct {
	app    *App
	state  team.State
	roster []team.Employee
}

func (w *wizard) Prompt() string { return wizardPrompt }

func (w *wizard) Consume(line string) (tea.Cmd, error) {
	return w.apply(team.Step(w.state, line, w.roster)), nil
}

func (w *wizard) Destroy() { w.state = team.State{} }

// apply prints res, hands any commit to the team service and releases the
// shell once the wizard is idle.
func (w *wizard) apply(res team.Result) tea.Cmd {
	w.state = res.State
	for _, l := range res.Lines {
		w.app.shell.Print(kindForTone(l.Tone), "%s", l.Text)
	}
	var cmd tea.Cmd
	if res.Commit != nil {
		w.app.logger.Debug("team commit",
			zap.String("op", w.state.Op.String()),
			zap.String("employee", res.Commit.Employee.Name))
		cmd = w.app.commitCmd(*res.Commit)
	}
	if res.Done() && w.app.shell.Active() == w {
		w.app.shell.Exit()
	}
	return cmd
}

func kindForTone(t team.Tone) shell.Kind {
	switch t {
	case team.ToneInfo:
		return shell.KindMuted
	case team.ToneOK:
		return shell.KindOK
	case team.ToneWarn:
		return shell.KindWarn
	case team.ToneError:
		return shell.KindError
	case team.TonePrompt:
		return shell.KindInfo
	default:
		return shell.KindPlain
	}
}

func (a *App) startWizard(m rosterMsg) tea.Cmd {
	w := &wizard{app: a, roster: m.Roster}
	res := team.Start(m.Op, m.Selector, m.Roster)
	if !res.Done() {
		a.shell.Enter(w)
	}
	return w.apply(res)
}
