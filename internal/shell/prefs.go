// ABOUTME: Display preferences for the interactive shell, loaded from an optional TOML file
// ABOUTME: A missing file yields defaults; a malformed one is an error

package shell

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Prefs controls shell presentation only; nothing here changes semantics.
type Prefs struct {
	// Colors toggles ANSI color output. On by default.
	Colors bool `toml:"colors"`
	// ClearScreen redraws menus on a cleared terminal, like the original
	// curses-less UIs do. On by default.
	ClearScreen bool `toml:"clear_screen"`
}

// DefaultPrefs returns the built-in presentation defaults.
func DefaultPrefs() Prefs {
	return Prefs{
		Colors:      true,
		ClearScreen: true,
	}
}

// LoadPrefs reads preferences from path. A missing file is not an error and
// yields the defaults.
func LoadPrefs(path string) (Prefs, error) {
	prefs := DefaultPrefs()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return prefs, nil
	}
	if err != nil {
		return prefs, fmt.Errorf("reading prefs file: %w", err)
	}

	if _, err := toml.Decode(string(data), &prefs); err != nil {
		return prefs, fmt.Errorf("parsing prefs file: %w", err)
	}

	return prefs, nil
}
