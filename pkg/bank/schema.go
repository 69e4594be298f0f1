package bank

import "github.com/bezalel6/computer-chess/pkg/challenge"

// BankFile represents the structure of a catalogue override file,
// in JSON or YAML.
type BankFile struct {
	Version    string         `json:"version" yaml:"version"`
	Name       string         `json:"name" yaml:"name"`
	Challenges []Definition   `json:"challenges" yaml:"challenges"`
	Metadata   map[string]any `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Definition configures how one challenge type is presented.
type Definition struct {
	// Type names the catalogue entry.
	Type challenge.Type `json:"type" yaml:"type"`

	// Description replaces the built-in objective text.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Window is the time horizon challenges of this type are
	// offered with. Empty keeps the current window.
	Window challenge.TimeWindow `json:"time_window,omitempty" yaml:"time_window,omitempty"`

	// Disabled removes the type from selection.
	Disabled bool `json:"disabled,omitempty" yaml:"disabled,omitempty"`
}

func validWindow(w challenge.TimeWindow) bool {
	switch w {
	case "", challenge.WindowTurn, challenge.WindowGame, challenge.WindowTenMoves:
		return true
	}
	return false
}
