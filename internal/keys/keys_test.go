package keys

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func boundKeys(r *Registry, scope Scope, action Action) string {
	for _, b := range r.BindingsForScope(scope) {
		if b.Action == action {
			return strings.Join(b.Keys, ",")
		}
	}
	return ""
}

func TestBindingsAreScoped(t *testing.T) {
	r := NewRegistry()

	if got := boundKeys(r, ScopeEditor, ActionSave); got != "ctrl+s" {
		t.Fatalf("editor save = %q, want ctrl+s", got)
	}
	if got := boundKeys(r, ScopeList, ActionSave); got != "" {
		t.Fatalf("did not expect save in list scope, got %q", got)
	}
	if got := boundKeys(r, ScopeGlobal, ActionQuit); got != "ctrl+c" {
		t.Fatalf("global quit = %q, want ctrl+c", got)
	}
}

func TestNoDuplicateKeyInSameScope(t *testing.T) {
	r := &Registry{
		bindingsByScope: make(map[Scope][]*Binding),
		indexByScope:    make(map[Scope]map[string]*Binding),
	}
	r.Register(Binding{Action: ActionSave, Keys: []string{"x"}, Scope: "a"})
	r.Register(Binding{Action: ActionExit, Keys: []string{"X"}, Scope: "a"})
	r.Register(Binding{Action: ActionExit, Keys: []string{"x"}, Scope: "b"})

	if got := r.BindingsForScope("a"); len(got) != 1 || got[0].Action != ActionSave {
		t.Fatalf("scope a = %+v, want only save", got)
	}
	if got := r.BindingsForScope("b"); len(got) != 1 {
		t.Fatalf("scope b bindings = %d, want 1", len(got))
	}
}

func TestKeyMatchesMessage(t *testing.T) {
	r := NewRegistry()
	if !key.Matches(tea.KeyMsg{Type: tea.KeyPgDown}, r.Key(ScopeList, ActionPageDown)) {
		t.Fatal("pgdown should match page_down")
	}
	if !key.Matches(tea.KeyMsg{Type: tea.KeyCtrlS}, r.Key(ScopeEditor, ActionSave)) {
		t.Fatal("ctrl+s should match save")
	}
	if key.Matches(tea.KeyMsg{Type: tea.KeyEnter}, r.Key(ScopeList, "nope")) {
		t.Fatal("unknown action must never match")
	}
}

func TestApplyOverrides(t *testing.T) {
	r := NewRegistry()
	if err := r.Apply(map[string][]string{"editor.save": {"Ctrl+W"}}); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if got := boundKeys(r, ScopeEditor, ActionSave); got != "ctrl+w" {
		t.Fatalf("editor save = %q, want ctrl+w", got)
	}
	if key.Matches(tea.KeyMsg{Type: tea.KeyCtrlS}, r.Key(ScopeEditor, ActionSave)) {
		t.Fatal("old key still bound to save")
	}
}

func TestApplyRejectsBadOverrides(t *testing.T) {
	cases := map[string]map[string][]string{
		"no dot":         {"save": {"ctrl+w"}},
		"unknown action": {"editor.launch": {"ctrl+w"}},
		"empty keys":     {"editor.save": {" "}},
		"conflict":       {"editor.save": {"ctrl+x"}},
		"list non-nav":   {"list.open": {"o"}},
	}
	for name, overrides := range cases {
		t.Run(name, func(t *testing.T) {
			if err := NewRegistry().Apply(overrides); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestHelpBindingsUseFirstKey(t *testing.T) {
	help := NewRegistry().HelpBindings(ScopeEditor)
	if len(help) != 5 {
		t.Fatalf("editor help bindings = %d, want 5", len(help))
	}
	if got := help[0].Help(); got.Key != "ctrl+s" || got.Desc != "save" {
		t.Fatalf("first help = %+v", got)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	r, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := boundKeys(r, ScopeEditor, ActionExit); got != "ctrl+x" {
		t.Fatalf("editor exit = %q, want the default ctrl+x", got)
	}
}

func TestLoadAppliesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keybindings.toml")
	body := "version = 1\n\n[bindings]\n\"list.close\" = [\"left\"]\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	r, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := boundKeys(r, ScopeList, ActionClose); got != "left" {
		t.Fatalf("list close = %q, want left", got)
	}
}

func TestLoadRejectsVersionAndSyntax(t *testing.T) {
	dir := t.TempDir()
	for name, body := range map[string]string{
		"version.toml": "version = 2\n",
		"broken.toml":  "this is not valid toml [[[",
	} {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
		r, err := Load(path)
		if err == nil {
			t.Fatalf("%s: expected error", name)
		}
		if r == nil || boundKeys(r, ScopeEditor, ActionSave) != "ctrl+s" {
			t.Fatalf("%s: want default registry alongside the error", name)
		}
	}
}

func TestWriteDefaultsRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "keybindings.toml")
	wrote, err := WriteDefaults(path)
	if err != nil || !wrote {
		t.Fatalf("write defaults = %v, %v", wrote, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "version = 1\n") || !strings.Contains(string(data), `"editor.save" = ["ctrl+s"]`) {
		t.Fatalf("unexpected file:\n%s", data)
	}
	if _, err := Load(path); err != nil {
		t.Fatalf("reload: %v", err)
	}
	wrote, err = WriteDefaults(path)
	if err != nil || wrote {
		t.Fatalf("second write = %v, %v, want no-op", wrote, err)
	}
}
