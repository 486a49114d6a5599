package treesync

import (
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// Filter excludes entries whose path relative to the walked root matches
// one of its doublestar patterns. A nil Filter excludes nothing.
type Filter struct {
	patterns []string
}

// NewFilter validates patterns and returns a Filter.
func NewFilter(patterns []string) (*Filter, error) {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return nil, &ConfigError{Field: "exclude", Reason: "bad pattern " + p, Cause: doublestar.ErrBadPattern}
		}
	}
	return &Filter{patterns: append([]string(nil), patterns...)}, nil
}

// Excluded reports whether rel, a path relative to a root, is excluded.
// The root itself is never excluded.
func (f *Filter) Excluded(rel string) bool {
	if f == nil || rel == "." || rel == "" {
		return false
	}
	name := filepath.ToSlash(rel)
	for _, p := range f.patterns {
		if ok, _ := doublestar.Match(p, name); ok {
			return true
		}
	}
	return false
}
