package shell

import "github.com/charmbracelet/lipgloss"

// ---------------------------------------------------------------------------
// Catppuccin Mocha palette
// https://catppuccin.com/palette
// ---------------------------------------------------------------------------

const (
	colorRed      lipgloss.Color = "#f38ba8"
	colorPeach    lipgloss.Color = "#fab387"
	colorYellow   lipgloss.Color = "#f9e2af"
	colorGreen    lipgloss.Color = "#a6e3a1"
	colorTeal     lipgloss.Color = "#94e2d5"
	colorLavender lipgloss.Color = "#b4befe"
	colorPink     lipgloss.Color = "#f5c2e7"
	colorText     lipgloss.Color = "#cdd6f4"
	colorOverlay1 lipgloss.Color = "#7f849c"
	colorSurface1 lipgloss.Color = "#45475a"
	colorBase     lipgloss.Color = "#1e1e2e"
)

const (
	colorAccent  = colorPink
	colorFocus   = colorLavender
	colorSuccess = colorGreen
	colorError   = colorRed
	colorWarning = colorYellow
	colorInfo    = colorTeal
)

// Theme maps transcript line kinds and list states to styles.
type Theme struct {
	Plain    lipgloss.Style
	Echo     lipgloss.Style
	Prompt   lipgloss.Style
	OK       lipgloss.Style
	Info     lipgloss.Style
	Warn     lipgloss.Style
	Error    lipgloss.Style
	Muted    lipgloss.Style
	Title    lipgloss.Style
	Selected lipgloss.Style
	Key      lipgloss.Style
}

func DefaultTheme() Theme {
	return Theme{
		Plain:    lipgloss.NewStyle().Foreground(colorText),
		Echo:     lipgloss.NewStyle().Foreground(colorOverlay1),
		Prompt:   lipgloss.NewStyle().Foreground(colorAccent).Bold(true),
		OK:       lipgloss.NewStyle().Foreground(colorSuccess),
		Info:     lipgloss.NewStyle().Foreground(colorInfo),
		Warn:     lipgloss.NewStyle().Foreground(colorWarning),
		Error:    lipgloss.NewStyle().Foreground(colorError).Bold(true),
		Muted:    lipgloss.NewStyle().Foreground(colorOverlay1),
		Title:    lipgloss.NewStyle().Foreground(colorPeach).Bold(true).Underline(true),
		Selected: lipgloss.NewStyle().Foreground(colorBase).Background(colorFocus).Bold(true),
		Key:      lipgloss.NewStyle().Foreground(colorFocus),
	}
}

// PlainTheme renders without any styling. Tests use it to compare text.
func PlainTheme() Theme {
	s := lipgloss.NewStyle()
	return Theme{Plain: s, Echo: s, Prompt: s, OK: s, Info: s, Warn: s, Error: s, Muted: s, Title: s, Selected: s, Key: s}
}

func (t Theme) forKind(k Kind) lipgloss.Style {
	switch k {
	case KindEcho:
		return t.Echo
	case KindOK:
		return t.OK
	case KindInfo:
		return t.Info
	case KindWarn:
		return t.Warn
	case KindError:
		return t.Error
	case KindMuted:
		return t.Muted
	case KindTitle:
		return t.Title
	default:
		return t.Plain
	}
}

// surfaceBorder frames full-screen subprograms.
var surfaceBorder = lipgloss.NewStyle().
	Border(lipgloss.NormalBorder()).
	BorderForeground(colorSurface1)

// Framed wraps body in the surface border sized to width.
func Framed(body string, width int) string {
	if width > 2 {
		return surfaceBorder.Width(width - 2).Render(body)
	}
	return surfaceBorder.Render(body)
}
