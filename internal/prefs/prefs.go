// Package prefs keeps small UI flags on disk between sessions.
package prefs

import (
	"strconv"

	"github.com/peterbourgon/diskv/v3"
)

const (
	keyTheme   = "theme"
	keySidebar = "sidebar"
)

type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

// Store is a flat diskv directory with one file per key.
type Store struct {
	d *diskv.Diskv
}

func Open(dir string) *Store {
	return &Store{d: diskv.New(diskv.Options{
		BasePath:     dir,
		Transform:    func(string) []string { return nil },
		CacheSizeMax: 64 * 1024,
	})}
}

// Theme is light unless dark was saved.
func (s *Store) Theme() Theme {
	if s.read(keyTheme) == string(Dark) {
		return Dark
	}
	return Light
}

func (s *Store) SetTheme(t Theme) error {
	return s.d.WriteString(keyTheme, string(t))
}

// Sidebar reports whether the entry list was left open. It starts hidden.
func (s *Store) Sidebar() bool {
	v, err := strconv.ParseBool(s.read(keySidebar))
	return err == nil && v
}

func (s *Store) SetSidebar(visible bool) error {
	return s.d.WriteString(keySidebar, strconv.FormatBool(visible))
}

func (s *Store) read(key string) string {
	if !s.d.Has(key) {
		return ""
	}
	return s.d.ReadString(key)
}
