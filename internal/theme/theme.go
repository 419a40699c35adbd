// Package theme stores the user's color theme preference.
package theme

import (
	"fmt"

	"github.com/nikbrunner/linkdeck/internal/storage"
)

// Key is the storage key of the preference.
const Key = "theme.v1"

// Theme is a color theme preference.
type Theme string

const (
	Light  Theme = "light"
	Dark   Theme = "dark"
	System Theme = "system"
)

// Parse converts s into a Theme.
func Parse(s string) (Theme, error) {
	switch t := Theme(s); t {
	case Light, Dark, System:
		return t, nil
	}
	return "", fmt.Errorf("unknown theme %q (want light, dark or system)", s)
}

// Load returns the stored preference, or System when none is stored, the
// stored value is unknown, or storage cannot be read.
func Load(s storage.Storage) Theme {
	if s == nil {
		return System
	}
	raw, ok, err := s.Get(Key)
	if err != nil || !ok {
		return System
	}
	switch t := Theme(raw); t {
	case Light, Dark:
		return t
	}
	return System
}

// Save stores the preference. System is the absence of a preference, so it
// removes the key.
func Save(s storage.Storage, t Theme) error {
	if s == nil {
		return nil
	}
	switch t {
	case Light, Dark:
		return s.Set(Key, string(t))
	case System:
		return s.Remove(Key)
	}
	return fmt.Errorf("unknown theme %q", t)
}

// Resolve returns the effective theme, "light" or "dark".
func Resolve(t Theme, systemDark bool) Theme {
	switch t {
	case Light, Dark:
		return t
	}
	if systemDark {
		return Dark
	}
	return Light
}

// Next cycles light → dark → system → light.
func Next(t Theme) Theme {
	switch t {
	case Light:
		return Dark
	case Dark:
		return System
	default:
		return Light
	}
}
