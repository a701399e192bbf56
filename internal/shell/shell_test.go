package shell

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap/zaptest"

	"github.com/jask/termjournal/internal/errs"
)

// fakeProgram records every protocol call it receives.
type fakeProgram struct {
	prompt    string
	consumed  []string
	keys      []tea.KeyType
	disabled  int
	destroyed int
	err       error
}

func (f *fakeProgram) Consume(line string) (tea.Cmd, error) {
	f.consumed = append(f.consumed, line)
	return nil, f.err
}
func (f *fakeProgram) Prompt() string { return f.prompt }
func (f *fakeProgram) Disable()       { f.disabled++ }
func (f *fakeProgram) Destroy()       { f.destroyed++ }
func (f *fakeProgram) OnKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	f.keys = append(f.keys, msg.Type)
	return true, nil
}

// bareProgram implements only Consume.
type bareProgram struct{ lines []string }

func (b *bareProgram) Consume(line string) (tea.Cmd, error) {
	b.lines = append(b.lines, line)
	return nil, nil
}

func newTestShell(t *testing.T, cmds ...Command) *Shell {
	t.Helper()
	reg := NewRegistry()
	reg.MustRegister(cmds...)
	return New(reg, Options{Prompt: "user@journal:~$", Logger: zaptest.NewLogger(t)})
}

func TestSubmitLineDispatchesAndEchoes(t *testing.T) {
	var got []string
	sh := newTestShell(t, Command{Name: "echo", Handler: func(sh *Shell, argv []string) (tea.Cmd, error) {
		got = argv
		sh.Println(strings.Join(argv[1:], "|"))
		return nil, nil
	}})

	sh.SubmitLine(`echo "a b" c`)
	if len(got) != 3 || got[1] != "a b" {
		t.Fatalf("argv = %q", got)
	}
	text := sh.Transcript().Text()
	if !strings.Contains(text, `user@journal:~$ echo "a b" c`) || !strings.Contains(text, "a b|c") {
		t.Fatalf("transcript:\n%s", text)
	}
	if sh.History().Len() != 1 {
		t.Fatalf("history len = %d, want 1", sh.History().Len())
	}
}

func TestBlankLineIsNoop(t *testing.T) {
	sh := newTestShell(t)
	if cmd := sh.SubmitLine("   "); cmd != nil {
		t.Fatal("blank line returned a command")
	}
	if sh.History().Len() != 0 {
		t.Fatal("blank line recorded in history")
	}
	if strings.Contains(sh.Transcript().Text(), "command not found") {
		t.Fatal("blank line reported as unknown")
	}
}

func TestUnknownCommandSuggests(t *testing.T) {
	sh := newTestShell(t, Command{Name: "journal", Handler: noop})
	sh.SubmitLine("jornal")
	text := sh.Transcript().Text()
	if !strings.Contains(text, "command not found: jornal") {
		t.Fatalf("missing not-found line:\n%s", text)
	}
	if !strings.Contains(text, `did you mean "journal"?`) {
		t.Fatalf("missing suggestion:\n%s", text)
	}
}

func TestHandlerErrorsAndPanicsAreReported(t *testing.T) {
	sh := newTestShell(t,
		Command{Name: "bad", Handler: func(*Shell, []string) (tea.Cmd, error) {
			return nil, errs.Validation("bad date %q", "x")
		}},
		Command{Name: "boom", Handler: func(*Shell, []string) (tea.Cmd, error) {
			panic("kaboom")
		}},
		Command{Name: "io", Handler: func(*Shell, []string) (tea.Cmd, error) {
			return nil, errs.Collaborator("get", errors.New("disk gone"))
		}},
	)
	sh.SubmitLine("bad")
	sh.SubmitLine("boom")
	sh.SubmitLine("io")
	blocks := sh.Transcript().Blocks()
	want := map[string]Kind{
		`bad date "x"`:          KindWarn,
		"boom: kaboom":          KindError,
		"error: get: disk gone": KindError,
	}
	for text, kind := range want {
		found := false
		for _, b := range blocks {
			if l, ok := b.(Line); ok && l.Text == text {
				found = true
				if l.Kind != kind {
					t.Errorf("%q kind = %v, want %v", text, l.Kind, kind)
				}
			}
		}
		if !found {
			t.Errorf("missing line %q", text)
		}
	}
}

func TestEnterRoutesLinesAndSkipsHistory(t *testing.T) {
	sh := newTestShell(t)
	sp := &fakeProgram{prompt: "team>"}
	sh.Enter(sp)
	if sh.Prompt() != "team>" {
		t.Fatalf("prompt = %q", sh.Prompt())
	}
	sh.SubmitLine("Jane")
	if len(sp.consumed) != 1 || sp.consumed[0] != "Jane" {
		t.Fatalf("consumed = %q", sp.consumed)
	}
	if sh.History().Len() != 0 {
		t.Fatal("subprogram input recorded in root history")
	}
	if !strings.Contains(sh.Transcript().Text(), "team> Jane") {
		t.Fatal("echo should use the subprogram prompt")
	}
	if _, ok := sh.HistoryPrev(); ok {
		t.Fatal("history recall must be off while a subprogram is active")
	}
}

func TestEnterReplacesPreviousSubprogram(t *testing.T) {
	sh := newTestShell(t)
	first := &fakeProgram{prompt: "view>"}
	second := &fakeProgram{prompt: "journal>"}
	sh.Enter(first)
	sh.Enter(second)
	if first.destroyed != 1 {
		t.Fatalf("first destroyed %d times, want 1", first.destroyed)
	}
	if sh.Active() != second || sh.Prompt() != "journal>" {
		t.Fatalf("active = %v prompt = %q", sh.Active(), sh.Prompt())
	}
}

func TestExitAndSuspend(t *testing.T) {
	sh := newTestShell(t)
	sp := &fakeProgram{prompt: "view>"}
	sh.Enter(sp)
	sh.Suspend()
	if sp.disabled != 1 || sp.destroyed != 0 {
		t.Fatalf("suspend: disabled=%d destroyed=%d", sp.disabled, sp.destroyed)
	}
	if sh.Active() != nil || sh.Prompt() != sh.RootPrompt() {
		t.Fatal("suspend must clear the slot and restore the prompt")
	}

	sh.Enter(sp)
	sh.Exit()
	if sp.destroyed != 1 || sh.Active() != nil {
		t.Fatalf("exit: destroyed=%d active=%v", sp.destroyed, sh.Active())
	}
	sh.Exit()
	sh.Suspend()
	if sp.destroyed != 1 || sp.disabled != 1 {
		t.Fatal("exit/suspend with an empty slot must be no-ops")
	}
}

func TestOptionalCapabilitiesMayBeAbsent(t *testing.T) {
	sh := newTestShell(t)
	bp := &bareProgram{}
	sh.Enter(bp)
	if sh.Prompt() != sh.RootPrompt() {
		t.Fatal("prompt should stay when the subprogram has none")
	}
	if handled, _ := sh.DispatchKey(tea.KeyMsg{Type: tea.KeyDown}); handled {
		t.Fatal("key handled without OnKey")
	}
	sh.SubmitLine("x")
	if len(bp.lines) != 1 {
		t.Fatal("line not consumed")
	}
	sh.Exit()
	sh.Enter(bp)
	sh.Suspend()
	if sh.Active() != nil {
		t.Fatal("slot not cleared")
	}
}

func TestDispatchKey(t *testing.T) {
	sh := newTestShell(t)
	if handled, _ := sh.DispatchKey(tea.KeyMsg{Type: tea.KeyUp}); handled {
		t.Fatal("no subprogram should mean not handled")
	}
	sp := &fakeProgram{}
	sh.Enter(sp)
	if handled, _ := sh.DispatchKey(tea.KeyMsg{Type: tea.KeyPgDown}); !handled {
		t.Fatal("navigation key not handled")
	}
	if handled, _ := sh.DispatchKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("v")}); handled {
		t.Fatal("typing must fall through to the input")
	}
	if sp.disabled != 1 || sh.Active() != nil {
		t.Fatal("typing should suspend a key-handling subprogram")
	}
	if len(sp.keys) != 1 || sp.keys[0] != tea.KeyPgDown {
		t.Fatalf("keys = %v", sp.keys)
	}
}

func TestConsumeErrorAndPanic(t *testing.T) {
	sh := newTestShell(t)
	sp := &fakeProgram{err: errs.NotFound("No matching employee found.")}
	sh.Enter(sp)
	sh.SubmitLine("9")
	if !strings.Contains(sh.Transcript().Text(), "No matching employee found.") {
		t.Fatal("consume error not reported")
	}
	if sh.Active() != sp {
		t.Fatal("an error alone must not drop the subprogram")
	}

	sh.Exit()
	sh.Enter(panicky{})
	sh.SubmitLine("x")
	if sh.Active() != nil {
		t.Fatal("a panicking subprogram should be exited")
	}
}

type panicky struct{}

func (panicky) Consume(string) (tea.Cmd, error) { panic("broken") }
