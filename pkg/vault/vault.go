// Package vault stores credentials in a single local JSON file.
//
// The file holds one document of the form
//
//	{"list": [{"site_app": "...", "username": "...", "password": "..."}]}
//
// and is rewritten in full on every change.
package vault

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Constants
const (
	DefaultFileName = "passwords.json"
	LockSuffix      = ".lock"
	FileMode        = 0600 // Owner read/write only
	DirMode         = 0700 // Owner read/write/execute only

	// Disk capacity thresholds
	MinDiskSpaceBytes  = 1024 * 1024 // 1 MB minimum free space
	DiskWarningPercent = 95          // Warn when disk is 95% full
)

// Errors
var (
	ErrVaultCorrupted   = errors.New("vault: vault file is corrupted")
	ErrEntryNotFound    = errors.New("vault: entry not found")
	ErrInsufficientDisk = errors.New("vault: insufficient disk space")
)

// Vault is the ordered collection of entries. Duplicate labels are allowed.
type Vault struct {
	Entries []Entry `json:"list"`
}

// Len returns the number of entries.
func (v *Vault) Len() int {
	return len(v.Entries)
}

// Append adds e after every existing entry.
func (v *Vault) Append(e Entry) {
	v.Entries = append(v.Entries, e)
}

// Find returns the first entry labelled siteApp.
func (v *Vault) Find(siteApp string) (Entry, bool) {
	for _, e := range v.Entries {
		if e.SiteApp == siteApp {
			return e, true
		}
	}
	return Entry{}, false
}

// FindAll returns every entry labelled siteApp in stored order.
func (v *Vault) FindAll(siteApp string) []Entry {
	var matches []Entry
	for _, e := range v.Entries {
		if e.SiteApp == siteApp {
			matches = append(matches, e)
		}
	}
	return matches
}

// Labels returns the label of every entry in stored order.
func (v *Vault) Labels() []string {
	labels := make([]string, 0, len(v.Entries))
	for _, e := range v.Entries {
		labels = append(labels, e.SiteApp)
	}
	return labels
}

// document mirrors the file layout with pointers so that absent keys can be
// told apart from empty values.
type document struct {
	List *[]entryDocument `json:"list"`
}

type entryDocument struct {
	SiteApp  *string `json:"site_app"`
	Username *string `json:"username"`
	Password *string `json:"password"`
}

// Decode parses a serialized vault. Any content that is not a complete vault
// document yields an error wrapping ErrVaultCorrupted.
func Decode(data []byte) (*Vault, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrVaultCorrupted, err)
	}
	if doc.List == nil {
		return nil, fmt.Errorf("%w: missing %q array", ErrVaultCorrupted, "list")
	}

	v := &Vault{Entries: make([]Entry, 0, len(*doc.List))}
	for i, ed := range *doc.List {
		switch {
		case ed.SiteApp == nil:
			return nil, fmt.Errorf("%w: entry %d has no %q", ErrVaultCorrupted, i, "site_app")
		case ed.Username == nil:
			return nil, fmt.Errorf("%w: entry %d has no %q", ErrVaultCorrupted, i, "username")
		case ed.Password == nil:
			return nil, fmt.Errorf("%w: entry %d has no %q", ErrVaultCorrupted, i, "password")
		}
		v.Entries = append(v.Entries, NewEntry(*ed.SiteApp, *ed.Username, *ed.Password))
	}
	return v, nil
}

// Encode serializes v. An empty vault is written as an empty list, never null.
func Encode(v *Vault) ([]byte, error) {
	entries := v.Entries
	if entries == nil {
		entries = []Entry{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Vault{Entries: entries}); err != nil {
		return nil, fmt.Errorf("vault: failed to encode vault: %w", err)
	}
	return buf.Bytes(), nil
}
