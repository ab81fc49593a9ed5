// Package cli provides label matching shared by the commands and the MCP
// server.
package cli

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/forest6511/passkeep/pkg/vault"
)

// NormalizeLabel trims s and converts it to Unicode NFC so that labels typed
// on different terminals compare equal.
func NormalizeLabel(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// IsGlob reports whether pattern contains glob characters (*?[).
func IsGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[")
}

// ValidatePattern checks the glob syntax of pattern.
func ValidatePattern(pattern string) error {
	if _, err := filepath.Match(pattern, ""); err != nil {
		return fmt.Errorf("invalid pattern '%s': %w", pattern, err)
	}
	return nil
}

// MatchLabel reports whether label is selected by pattern. A pattern with
// glob characters is matched with filepath.Match, anything else must equal
// the label exactly. An empty pattern selects everything.
func MatchLabel(pattern, label string) (bool, error) {
	if pattern == "" {
		return true, nil
	}
	if !IsGlob(pattern) {
		return label == pattern, nil
	}
	return filepath.Match(pattern, label)
}

// FilterEntries returns the entries whose label is selected by pattern,
// preserving stored order.
func FilterEntries(pattern string, entries []vault.Entry) ([]vault.Entry, error) {
	if err := ValidatePattern(pattern); err != nil {
		return nil, err
	}

	matches := make([]vault.Entry, 0, len(entries))
	for _, e := range entries {
		ok, err := MatchLabel(pattern, e.SiteApp)
		if err != nil {
			return nil, err
		}
		if ok {
			matches = append(matches, e)
		}
	}
	return matches, nil
}

// ExpandPattern expands a pattern against the available labels, returning
// each matching label once in sorted order. Unlike FilterEntries it fails
// when nothing matches.
func ExpandPattern(pattern string, labels []string) ([]string, error) {
	if err := ValidatePattern(pattern); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	for _, label := range labels {
		ok, err := MatchLabel(pattern, label)
		if err != nil {
			return nil, err
		}
		if ok {
			seen[label] = struct{}{}
		}
	}

	if len(seen) == 0 {
		if IsGlob(pattern) {
			return nil, fmt.Errorf("no labels match pattern '%s'", pattern)
		}
		return nil, fmt.Errorf("label '%s' not found", pattern)
	}
	return MapKeys(seen), nil
}

// CompleteLabels returns the distinct labels starting with prefix, compared
// case-insensitively, in sorted order.
func CompleteLabels(prefix string, labels []string) []string {
	lowerPrefix := strings.ToLower(prefix)
	set := make(map[string]struct{})
	for _, label := range labels {
		if strings.HasPrefix(strings.ToLower(label), lowerPrefix) {
			set[label] = struct{}{}
		}
	}
	return MapKeys(set)
}

// MapKeys extracts keys from a map and returns them sorted.
func MapKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
