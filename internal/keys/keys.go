// Package keys holds the scoped key bindings for the shell, the editor and
// the list navigator, and loads user overrides from keybindings.toml.
package keys

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

type Action string

type Scope string

const (
	ScopeGlobal Scope = "global"
	ScopeEditor Scope = "editor"
	ScopeList   Scope = "list"
)

const (
	ActionQuit        Action = "quit"
	ActionSubmit      Action = "submit"
	ActionHistoryPrev Action = "history_prev"
	ActionHistoryNext Action = "history_next"

	ActionSave    Action = "save"
	ActionExit    Action = "exit"
	ActionTodo    Action = "todo"
	ActionIndent  Action = "indent"
	ActionOutdent Action = "outdent"

	ActionUp       Action = "up"
	ActionDown     Action = "down"
	ActionPageUp   Action = "page_up"
	ActionPageDown Action = "page_down"
	ActionHome     Action = "home"
	ActionEnd      Action = "end"
	ActionOpen     Action = "open"
	ActionClose    Action = "close"
)

type Binding struct {
	Action Action
	Keys   []string
	Help   string
	Scope  Scope
}

// Registry indexes bindings per scope. A key may be bound once per scope.
type Registry struct {
	bindingsByScope map[Scope][]*Binding
	indexByScope    map[Scope]map[string]*Binding
}

func NewRegistry() *Registry {
	r := &Registry{
		bindingsByScope: make(map[Scope][]*Binding),
		indexByScope:    make(map[Scope]map[string]*Binding),
	}

	reg := func(scope Scope, action Action, keys []string, help string) {
		r.Register(Binding{Action: action, Keys: keys, Help: help, Scope: scope})
	}

	reg(ScopeGlobal, ActionQuit, []string{"ctrl+c"}, "quit")
	reg(ScopeGlobal, ActionSubmit, []string{"enter"}, "run")
	reg(ScopeGlobal, ActionHistoryPrev, []string{"up"}, "older")
	reg(ScopeGlobal, ActionHistoryNext, []string{"down"}, "newer")

	reg(ScopeEditor, ActionSave, []string{"ctrl+s"}, "save")
	reg(ScopeEditor, ActionExit, []string{"ctrl+x"}, "exit")
	reg(ScopeEditor, ActionTodo, []string{"ctrl+t"}, "todo")
	reg(ScopeEditor, ActionIndent, []string{"tab"}, "indent")
	reg(ScopeEditor, ActionOutdent, []string{"shift+tab"}, "outdent")

	reg(ScopeList, ActionUp, []string{"up"}, "up")
	reg(ScopeList, ActionDown, []string{"down"}, "down")
	reg(ScopeList, ActionPageUp, []string{"pgup"}, "page up")
	reg(ScopeList, ActionPageDown, []string{"pgdown"}, "page down")
	reg(ScopeList, ActionHome, []string{"home"}, "first")
	reg(ScopeList, ActionEnd, []string{"end"}, "last")
	reg(ScopeList, ActionOpen, []string{"enter"}, "open")
	reg(ScopeList, ActionClose, []string{"esc"}, "close")

	return r
}

// Register adds b unless one of its keys is already bound in the scope.
func (r *Registry) Register(b Binding) {
	if r == nil || strings.TrimSpace(string(b.Scope)) == "" {
		return
	}
	keys := normalizeKeyList(b.Keys)
	if len(keys) == 0 || r.scopeHasAnyKey(b.Scope, keys) {
		return
	}
	if _, ok := r.indexByScope[b.Scope]; !ok {
		r.indexByScope[b.Scope] = make(map[string]*Binding)
	}
	cp := b
	cp.Keys = keys
	r.bindingsByScope[b.Scope] = append(r.bindingsByScope[b.Scope], &cp)
	for _, k := range cp.Keys {
		r.indexByScope[b.Scope][k] = &cp
	}
}

func (r *Registry) BindingsForScope(scope Scope) []Binding {
	if r == nil {
		return nil
	}
	items := r.bindingsByScope[scope]
	out := make([]Binding, 0, len(items))
	for _, b := range items {
		out = append(out, *b)
	}
	return out
}

// Key returns the bubbles binding for action in scope. An unknown action
// yields a disabled binding that never matches.
func (r *Registry) Key(scope Scope, action Action) key.Binding {
	for _, b := range r.BindingsForScope(scope) {
		if b.Action == action {
			return key.NewBinding(key.WithKeys(b.Keys...), key.WithHelp(b.Keys[0], b.Help))
		}
	}
	return key.NewBinding(key.WithDisabled())
}

// HelpBindings lists the bindings of scope for help output, labelled by
// their first key.
func (r *Registry) HelpBindings(scope Scope) []key.Binding {
	items := r.BindingsForScope(scope)
	out := make([]key.Binding, 0, len(items))
	for _, b := range items {
		out = append(out, key.NewBinding(key.WithKeys(b.Keys...), key.WithHelp(b.Keys[0], b.Help)))
	}
	return out
}

// Apply replaces the keys of existing bindings. Each override is keyed by
// "scope.action". Conflicting keys within one scope are rejected.
func (r *Registry) Apply(overrides map[string][]string) error {
	if r == nil || len(overrides) == 0 {
		return nil
	}
	names := make([]string, 0, len(overrides))
	for name := range overrides {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		scope, action, err := splitID(name)
		if err != nil {
			return err
		}
		keys := normalizeKeyList(overrides[name])
		if len(keys) == 0 {
			return fmt.Errorf("binding %q: keys are required", name)
		}
		if scope == ScopeList {
			for _, k := range keys {
				if !navigationKeys[k] {
					return fmt.Errorf("binding %q: %q is not a navigation key", name, k)
				}
			}
		}
		target := r.find(scope, action)
		if target == nil {
			return fmt.Errorf("binding %q: unknown action", name)
		}
		target.Keys = keys
	}

	r.rebuildIndex()
	for scope, bindings := range r.bindingsByScope {
		seen := make(map[string]Action)
		for _, b := range bindings {
			for _, k := range b.Keys {
				if prev, ok := seen[k]; ok {
					return fmt.Errorf("binding conflict in scope %q: key %q used by both %q and %q", scope, k, prev, b.Action)
				}
				seen[k] = b.Action
			}
		}
	}
	return nil
}

// Export returns every binding keyed by "scope.action".
func (r *Registry) Export() map[string][]string {
	out := make(map[string][]string)
	for scope, bindings := range r.bindingsByScope {
		for _, b := range bindings {
			out[string(scope)+"."+string(b.Action)] = append([]string(nil), b.Keys...)
		}
	}
	return out
}

func (r *Registry) find(scope Scope, action Action) *Binding {
	for _, b := range r.bindingsByScope[scope] {
		if b.Action == action {
			return b
		}
	}
	return nil
}

func (r *Registry) rebuildIndex() {
	r.indexByScope = make(map[Scope]map[string]*Binding, len(r.bindingsByScope))
	for scope, bindings := range r.bindingsByScope {
		r.indexByScope[scope] = make(map[string]*Binding)
		for _, b := range bindings {
			for _, k := range b.Keys {
				r.indexByScope[scope][k] = b
			}
		}
	}
}

func (r *Registry) scopeHasAnyKey(scope Scope, keys []string) bool {
	lookup := r.indexByScope[scope]
	for _, k := range keys {
		if _, exists := lookup[k]; exists {
			return true
		}
	}
	return false
}

// navigationKeys are the only keys the shell routes to a list while it is
// active.
var navigationKeys = map[string]bool{
	"up": true, "down": true, "left": true, "right": true,
	"pgup": true, "pgdown": true, "home": true, "end": true,
	"esc": true, "enter": true,
}

func splitID(id string) (Scope, Action, error) {
	scope, action, ok := strings.Cut(strings.TrimSpace(id), ".")
	if !ok || scope == "" || action == "" {
		return "", "", fmt.Errorf("binding %q: want scope.action", id)
	}
	return Scope(scope), Action(action), nil
}

func normalizeKeyList(keys []string) []string {
	out := make([]string, 0, len(keys))
	seen := make(map[string]bool)
	for _, k := range keys {
		n := normalizeKeyName(k)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

func normalizeKeyName(k string) string {
	if k == " " {
		return "space"
	}
	s := strings.ToLower(strings.TrimSpace(k))
	if s == "" {
		return ""
	}
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "control+", "ctrl+")
	s = strings.ReplaceAll(s, "ctl+", "ctrl+")
	s = strings.ReplaceAll(s, "return", "enter")
	s = strings.ReplaceAll(s, "escape", "esc")
	s = strings.ReplaceAll(s, "pageup", "pgup")
	s = strings.ReplaceAll(s, "pagedown", "pgdown")
	return s
}
