// Package bank holds the challenge catalogue: one definition per
// challenge type, with the built-in defaults overridable from JSON
// or YAML files.
package bank

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/bezalel6/computer-chess/pkg/challenge"
	"github.com/bezalel6/computer-chess/pkg/detector"
)

// Bank manages the catalogue definitions.
type Bank struct {
	mu          sync.RWMutex
	definitions map[challenge.Type]*Definition
	sources     []string
}

// New creates a Bank holding the built-in definition of every
// current and legacy type.
func New() *Bank {
	b := &Bank{
		definitions: make(map[challenge.Type]*Definition),
	}
	for _, t := range allTypes() {
		b.definitions[t] = &Definition{
			Type:        t,
			Description: challenge.DefaultDescription(t),
			Window:      challenge.WindowTurn,
		}
	}
	return b
}

func allTypes() []challenge.Type {
	return append(append([]challenge.Type(nil), challenge.Catalogue...), challenge.LegacyCatalogue...)
}

// LoadFile merges the definitions of a JSON or YAML file into the
// bank. Non-empty fields replace the current values.
func (b *Bank) LoadFile(path string) error {
	file, err := readFile(path)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for i := range file.Challenges {
		def := file.Challenges[i]
		if def.Type == "" {
			return fmt.Errorf("challenge at index %d in %s has no type", i, path)
		}
		cur, ok := b.definitions[def.Type]
		if !ok {
			return fmt.Errorf("challenge at index %d in %s: unknown type %q", i, path, def.Type)
		}
		if !validWindow(def.Window) {
			return fmt.Errorf("challenge at index %d in %s: invalid time window %q", i, path, def.Window)
		}
		if def.Description != "" {
			cur.Description = def.Description
		}
		if def.Window != "" {
			cur.Window = def.Window
		}
		cur.Disabled = def.Disabled
	}
	b.sources = append(b.sources, path)
	return nil
}

// LoadDir loads all .json, .yaml and .yml files from a directory.
func (b *Bank) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read bank directory %s: %w", dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !supported(entry.Name()) {
			continue
		}
		if err := b.LoadFile(filepath.Join(dir, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

func supported(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}

func readFile(path string) (*BankFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bank file %s: %w", path, err)
	}

	var file BankFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &file)
	default:
		err = json.Unmarshal(data, &file)
	}
	if err != nil {
		return nil, fmt.Errorf("parse bank file %s: %w", path, err)
	}
	return &file, nil
}

// Get retrieves a copy of the definition for t.
func (b *Bank) Get(t challenge.Type) (Definition, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	def, ok := b.definitions[t]
	if !ok {
		return Definition{}, false
	}
	return *def, true
}

// All returns every definition in catalogue order, legacy last.
func (b *Bank) All() []Definition {
	b.mu.RLock()
	defer b.mu.RUnlock()
	result := make([]Definition, 0, len(b.definitions))
	for _, t := range allTypes() {
		result = append(result, *b.definitions[t])
	}
	return result
}

// Enabled reports whether t is known and not disabled.
func (b *Bank) Enabled(t challenge.Type) bool {
	def, ok := b.Get(t)
	return ok && !def.Disabled
}

// Detectors filters ds down to the enabled types.
func (b *Bank) Detectors(ds []detector.Detector) []detector.Detector {
	var result []detector.Detector
	for _, d := range ds {
		if b.Enabled(d.Type()) {
			result = append(result, d)
		}
	}
	return result
}

// Apply stamps the bank's window onto c and replaces its
// description unless the detector wrote a specific one.
func (b *Bank) Apply(c *challenge.Challenge) {
	def, ok := b.Get(c.Type)
	if !ok {
		return
	}
	if def.Window != "" {
		c.Window = def.Window
	}
	if def.Description != "" && c.Description == challenge.DefaultDescription(c.Type) {
		c.Description = def.Description
	}
}

// Count returns the number of definitions.
func (b *Bank) Count() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.definitions)
}

// Sources returns the list of loaded file paths.
func (b *Bank) Sources() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	result := make([]string, len(b.sources))
	copy(result, b.sources)
	return result
}
