package shell

import tea "github.com/charmbracelet/bubbletea"

// Subprogram is a modal consumer of the input stream. While one is active
// the root command dispatcher does not run. Instances are single use.
type Subprogram interface {
	Consume(line string) (tea.Cmd, error)
}

// KeyHandler is offered navigation keys before normal input editing.
type KeyHandler interface {
	OnKey(msg tea.KeyMsg) (handled bool, cmd tea.Cmd)
}

// Disabler freezes a subprogram's visible state when it is suspended.
type Disabler interface {
	Disable()
}

// Destroyer releases everything a subprogram rendered.
type Destroyer interface {
	Destroy()
}

// Prompter replaces the prompt while the subprogram is active.
type Prompter interface {
	Prompt() string
}

// InputOwner receives every key, not only navigation keys.
type InputOwner interface {
	HandleKey(msg tea.KeyMsg) tea.Cmd
}

// Surface replaces the transcript with its own full-screen view.
type Surface interface {
	View(width, height int) string
}

// IsNavigationKey reports whether msg is directional, paging, escape, enter,
// or home/end.
func IsNavigationKey(msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeyUp, tea.KeyDown, tea.KeyLeft, tea.KeyRight,
		tea.KeyPgUp, tea.KeyPgDown, tea.KeyHome, tea.KeyEnd,
		tea.KeyEsc, tea.KeyEnter:
		return !msg.Alt
	default:
		return false
	}
}
