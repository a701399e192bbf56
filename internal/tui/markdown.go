package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/jask/termjournal/internal/database/repository"
	"github.com/jask/termjournal/internal/service"
	"github.com/jask/termjournal/internal/shell"
)

// printMarkdown renders an entry with glamour into the transcript. A
// render failure falls back to the raw text.
func (a *App) printMarkdown(e repository.Entry) {
	a.shell.Print(shell.KindTitle, "%s", service.LongDate(e.Date))
	if strings.TrimSpace(e.Content) == "" {
		a.shell.Muted("(empty)")
		return
	}
	width := a.width
	if width <= 0 {
		width = 80
	}
	style := a.cfg.UI.MarkdownStyle
	if style == "" {
		style = "dark"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width-2),
	)
	if err == nil {
		var out string
		if out, err = r.Render(e.Content); err == nil {
			a.shell.Println(strings.TrimRight(out, "\n"))
			return
		}
	}
	a.logger.Sugar().Warnw("markdown render failed", "date", e.Date, "error", err)
	a.shell.Println(e.Content)
}
