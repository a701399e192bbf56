// Package shell is the modal command shell: it owns the prompt, the command
// registry, the root history and the single active-subprogram slot, and
// routes every submitted line and navigation key to exactly one consumer.
package shell

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jask/termjournal/internal/errs"
)

// Options configures a Shell.
type Options struct {
	Prompt      string
	HistorySize int
	Scrollback  int
	Logger      *zap.Logger
}

// Shell is the router. It is not safe for concurrent use; bubbletea calls it
// from the single update goroutine.
type Shell struct {
	rootPrompt string
	prompt     string
	registry   *Registry
	history    *History
	transcript *Transcript
	active     Subprogram
	logger     *zap.Logger
}

func New(reg *Registry, opts Options) *Shell {
	if reg == nil {
		reg = NewRegistry()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	prompt := strings.TrimSpace(opts.Prompt)
	if prompt == "" {
		prompt = "$"
	}
	return &Shell{
		rootPrompt: prompt,
		prompt:     prompt,
		registry:   reg,
		history:    NewHistory(opts.HistorySize),
		transcript: NewTranscript(opts.Scrollback),
		logger:     opts.Logger,
	}
}

func (s *Shell) Prompt() string          { return s.prompt }
func (s *Shell) RootPrompt() string      { return s.rootPrompt }
func (s *Shell) Registry() *Registry     { return s.registry }
func (s *Shell) Transcript() *Transcript { return s.transcript }
func (s *Shell) History() *History       { return s.history }
func (s *Shell) Logger() *zap.Logger     { return s.logger }

// Active returns the subprogram that owns input, or nil.
func (s *Shell) Active() Subprogram { return s.active }

// Print appends a styled line to the transcript. Multi-line text becomes
// one line per row.
func (s *Shell) Print(kind Kind, format string, args ...any) {
	text := format
	if len(args) > 0 {
		text = fmt.Sprintf(format, args...)
	}
	for _, row := range strings.Split(text, "\n") {
		s.transcript.Append(Line{Kind: kind, Text: row})
	}
}

func (s *Shell) Println(text string)               { s.Print(KindPlain, "%s", text) }
func (s *Shell) OK(format string, args ...any)     { s.Print(KindOK, format, args...) }
func (s *Shell) Info(format string, args ...any)   { s.Print(KindInfo, format, args...) }
func (s *Shell) Warn(format string, args ...any)   { s.Print(KindWarn, format, args...) }
func (s *Shell) Errorf(format string, args ...any) { s.Print(KindError, format, args...) }
func (s *Shell) Muted(format string, args ...any)  { s.Print(KindMuted, format, args...) }
func (s *Shell) Append(b Block)                    { s.transcript.Append(b) }
func (s *Shell) Remove(b Block) bool               { return s.transcript.Remove(b) }

// ReportError prints err by kind: validation problems as warnings the user
// can retry, everything else as an error line.
func (s *Shell) ReportError(err error) {
	if err == nil {
		return
	}
	kind, _ := errs.KindOf(err)
	switch kind {
	case errs.KindValidation:
		s.Warn("%s", err.Error())
	case errs.KindCollaborator:
		s.logger.Error("collaborator failure", zap.Error(err))
		s.Errorf("error: %s", err.Error())
	default:
		s.Errorf("%s", err.Error())
	}
}

// SubmitLine handles one entered line. The line is echoed after the current
// prompt; an active subprogram consumes it, otherwise it runs as a command.
func (s *Shell) SubmitLine(raw string) tea.Cmd {
	s.transcript.Append(Line{Kind: KindEcho, Text: s.prompt + " " + raw})
	if s.active != nil {
		return s.consume(raw)
	}
	return s.Execute(raw)
}

// Execute runs raw through the root dispatcher without echoing it. Blank
// lines are a no-op.
func (s *Shell) Execute(raw string) tea.Cmd {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	s.history.Push(raw)
	argv := Parse(raw)
	if len(argv) == 0 {
		return nil
	}
	c, ok := s.registry.Lookup(argv[0])
	if !ok {
		s.logger.Info("command not found", zap.String("name", argv[0]))
		s.Errorf("command not found: %s", argv[0])
		if alt, ok := s.registry.Suggest(argv[0]); ok {
			s.Muted("did you mean %q?", alt)
		}
		return nil
	}
	s.logger.Debug("dispatch", zap.String("command", c.Name), zap.Int("argc", len(argv)-1))
	return s.run(c, argv)
}

func (s *Shell) run(c Command, argv []string) (cmd tea.Cmd) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("command panicked", zap.String("command", c.Name), zap.Any("panic", r))
			s.Errorf("%s: %v", c.Name, r)
			cmd = nil
		}
	}()
	cmd, err := c.Handler(s, argv)
	if err != nil {
		s.logger.Debug("command failed", zap.String("command", c.Name), zap.Error(err))
		s.ReportError(err)
	}
	return cmd
}

func (s *Shell) consume(raw string) (cmd tea.Cmd) {
	sp := s.active
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("subprogram panicked", zap.String("subprogram", fmt.Sprintf("%T", sp)), zap.Any("panic", r))
			s.Errorf("%v", r)
			if s.active == sp {
				s.Exit()
			}
			cmd = nil
		}
	}()
	cmd, err := sp.Consume(raw)
	if err != nil {
		s.ReportError(err)
	}
	return cmd
}

// DispatchKey offers msg to the active subprogram. It reports whether the
// key was consumed; when it was not, the caller applies normal input
// editing. A non-navigation key suspends a subprogram that handles keys.
func (s *Shell) DispatchKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	if s.active == nil {
		return false, nil
	}
	if owner, ok := s.active.(InputOwner); ok {
		return true, owner.HandleKey(msg)
	}
	kh, ok := s.active.(KeyHandler)
	if !ok {
		return false, nil
	}
	if IsNavigationKey(msg) {
		return kh.OnKey(msg)
	}
	s.Suspend()
	return false, nil
}

// Enter installs sp as the active subprogram. A previously active one is
// exited first.
func (s *Shell) Enter(sp Subprogram) {
	if sp == nil {
		return
	}
	if s.active != nil && s.active != sp {
		s.Exit()
	}
	s.active = sp
	if p, ok := sp.(Prompter); ok && strings.TrimSpace(p.Prompt()) != "" {
		s.prompt = p.Prompt()
	}
	s.logger.Debug("subprogram entered", zap.String("subprogram", fmt.Sprintf("%T", sp)))
}

// Exit destroys the active subprogram and restores the root prompt.
func (s *Shell) Exit() {
	sp := s.release()
	if sp == nil {
		return
	}
	if d, ok := sp.(Destroyer); ok {
		d.Destroy()
	}
	s.logger.Debug("subprogram exited", zap.String("subprogram", fmt.Sprintf("%T", sp)))
}

// Suspend disables the active subprogram, keeping what it rendered, and
// restores the root prompt.
func (s *Shell) Suspend() {
	sp := s.release()
	if sp == nil {
		return
	}
	if d, ok := sp.(Disabler); ok {
		d.Disable()
	}
	s.logger.Debug("subprogram suspended", zap.String("subprogram", fmt.Sprintf("%T", sp)))
}

// release clears the slot before any callback runs so that a callback which
// re-enters the router sees a consistent state.
func (s *Shell) release() Subprogram {
	sp := s.active
	s.active = nil
	s.prompt = s.rootPrompt
	return sp
}

// HistoryPrev recalls an older line. Recall is disabled while a subprogram
// owns input.
func (s *Shell) HistoryPrev() (string, bool) {
	if s.active != nil {
		return "", false
	}
	return s.history.Prev()
}

// HistoryNext recalls a newer line, clearing past the newest.
func (s *Shell) HistoryNext() (string, bool) {
	if s.active != nil {
		return "", false
	}
	return s.history.Next()
}
