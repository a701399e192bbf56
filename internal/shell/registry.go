package shell

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	tea "github.com/charmbracelet/bubbletea"
)

// Handler runs a command. argv[0] is the command name. A returned tea.Cmd
// carries any asynchronous work; its message comes back through Update.
type Handler func(sh *Shell, argv []string) (tea.Cmd, error)

// Command is one registry entry.
type Command struct {
	Name        string
	Description string
	Handler     Handler
}

// Registry maps command names to commands.
type Registry struct {
	commands map[string]Command
}

func NewRegistry() *Registry {
	return &Registry{commands: make(map[string]Command)}
}

// Register adds c. Names are unique and may not contain whitespace.
func (r *Registry) Register(c Command) error {
	name := strings.TrimSpace(c.Name)
	if name == "" || strings.ContainsAny(name, " \t\n") {
		return fmt.Errorf("register command: invalid name %q", c.Name)
	}
	if c.Handler == nil {
		return fmt.Errorf("register command %q: nil handler", name)
	}
	if _, exists := r.commands[name]; exists {
		return fmt.Errorf("register command %q: already registered", name)
	}
	c.Name = name
	r.commands[name] = c
	return nil
}

// MustRegister is Register for static tables.
func (r *Registry) MustRegister(cmds ...Command) {
	for _, c := range cmds {
		if err := r.Register(c); err != nil {
			panic(err)
		}
	}
}

func (r *Registry) Lookup(name string) (Command, bool) {
	c, ok := r.commands[name]
	return c, ok
}

// List returns every command sorted by name.
func (r *Registry) List() []Command {
	out := make([]Command, 0, len(r.commands))
	for _, c := range r.commands {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

const maxSuggestDistance = 2

// Suggest returns the registered name closest to name when it is within a
// small edit distance.
func (r *Registry) Suggest(name string) (string, bool) {
	name = strings.ToLower(name)
	best, bestDist := "", maxSuggestDistance+1
	for _, c := range r.List() {
		d := levenshtein.ComputeDistance(name, strings.ToLower(c.Name))
		if d < bestDist {
			best, bestDist = c.Name, d
		}
	}
	return best, best != ""
}
