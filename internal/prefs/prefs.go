// Package prefs persists per-user TUI preferences: the colour theme and the
// last list address, so a relaunch reopens the same search.
// Preferences are stored in ~/.config/portal/prefs.toml.
package prefs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/portal/internal/config"
)

// Prefs holds user preferences for portal.
type Prefs struct {
	Theme     string `toml:"theme"`
	LastQuery string `toml:"last_query,omitempty"`
}

const (
	defaultPrefsPath = "~/.config/portal/prefs.toml"
	defaultTheme     = "Nightfox"
)

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// Default returns the preferences used when nothing has been saved.
func Default() Prefs {
	return Prefs{Theme: defaultTheme}
}

// Load reads preferences from path. A missing, unreadable or malformed file
// yields the defaults; preferences never block startup.
func Load(path string) Prefs {
	resolved, err := resolvePath(path)
	if err != nil {
		return Default()
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		return Default()
	}

	p := Default()
	if err := toml.Unmarshal(data, &p); err != nil {
		return Default()
	}

	if strings.TrimSpace(p.Theme) == "" {
		p.Theme = defaultTheme
	}
	p.LastQuery = strings.TrimSpace(p.LastQuery)
	return p
}

// Save writes preferences to the given path, creating directories as needed.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	data, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	if err := os.WriteFile(resolved, data, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return config.ExpandPath(defaultPrefsPath)
	}
	return config.ExpandPath(path)
}
