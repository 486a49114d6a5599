package treesync

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Roots is a tree pair. Every path under Source has exactly one
// counterpart under Destination with the same relative suffix, and vice
// versa, whether or not that counterpart exists.
type Roots struct {
	Source      string
	Destination string
}

// Reversed returns the pair with source and destination swapped.
func (r Roots) Reversed() Roots {
	return Roots{Source: r.Destination, Destination: r.Source}
}

// Relativize returns p relative to ancestor. It fails when p is not
// ancestor itself or a descendant of it.
func Relativize(ancestor, p string) (string, error) {
	rel, err := filepath.Rel(filepath.Clean(ancestor), filepath.Clean(p))
	if err != nil {
		return "", fmt.Errorf("relativize %s against %s: %w", p, ancestor, err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("relativize %s against %s: path is outside of root", p, ancestor)
	}
	return rel, nil
}

// MirrorPath maps p, a path under from, to its counterpart under to.
func MirrorPath(from, to, p string) (string, error) {
	rel, err := Relativize(from, p)
	if err != nil {
		return "", err
	}
	return filepath.Join(to, rel), nil
}

// contains reports whether p is root or lies beneath it.
func contains(root, p string) bool {
	_, err := Relativize(root, p)
	return err == nil
}

// absPath cleans p and makes it absolute. p is only cleaned when the
// working directory is unknown.
func absPath(p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}
