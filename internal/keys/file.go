package keys

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// File is the on-disk shape of keybindings.toml.
type File struct {
	Version  int                 `toml:"version"`
	Bindings map[string][]string `toml:"bindings"`
}

// Load builds the default registry and applies the overrides in path. An
// empty path or a missing file leaves the defaults in place.
func Load(path string) (*Registry, error) {
	r := NewRegistry()
	if strings.TrimSpace(path) == "" {
		return r, nil
	}
	var f File
	if _, err := toml.DecodeFile(path, &f); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return r, nil
		}
		return r, fmt.Errorf("parse %s: %w", path, err)
	}
	if f.Version == 0 {
		f.Version = 1
	}
	if f.Version != 1 {
		return r, fmt.Errorf("validate %s: unsupported version %d", path, f.Version)
	}
	if err := r.Apply(f.Bindings); err != nil {
		return NewRegistry(), fmt.Errorf("validate %s: %w", path, err)
	}
	return r, nil
}

// WriteDefaults writes the default bindings to path unless a file is
// already there. It reports whether it wrote.
func WriteDefaults(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("stat %s: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(Render(NewRegistry().Export())), 0o644); err != nil {
		return false, fmt.Errorf("write %s: %w", path, err)
	}
	return true, nil
}

// Render formats bindings as keybindings.toml with stable ordering.
func Render(bindings map[string][]string) string {
	ids := make([]string, 0, len(bindings))
	for id := range bindings {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var b bytes.Buffer
	b.WriteString("version = 1\n\n[bindings]\n")
	for _, id := range ids {
		b.WriteString(fmt.Sprintf("%q = %s\n", id, formatArray(bindings[id])))
	}
	return b.String()
}

func formatArray(values []string) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		parts = append(parts, fmt.Sprintf("%q", v))
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
