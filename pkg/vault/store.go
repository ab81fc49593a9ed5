package vault

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
)

// Store owns the backing file of a vault.
//
// Every operation reads the file afresh; nothing is cached between calls.
// Writers serialize on an advisory lock held on a sibling ".lock" file, so
// cooperating processes never lose each other's appends. The file itself is
// replaced through a temporary file and a rename, so readers see either the
// old or the new document.
type Store struct {
	path   string
	logger *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for debug and warning output.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a Store for the vault file at path.
func New(path string, opts ...Option) *Store {
	s := &Store{
		path:   path,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the location of the backing file.
func (s *Store) Path() string {
	return s.path
}

// Load reads the whole vault. A missing file is a first run and yields an
// empty vault.
func (s *Store) Load() (*Vault, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Debug("vault file not found, starting empty", "path", s.path)
			return &Vault{Entries: []Entry{}}, nil
		}
		return nil, fmt.Errorf("vault: failed to read vault file: %w", err)
	}

	v, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}
	s.logger.Debug("vault loaded", "path", s.path, "entries", v.Len())
	return v, nil
}

// AppendAndPersist adds e to the end of the stored vault and rewrites the
// file. The read-modify-write runs under the exclusive lock.
func (s *Store) AppendAndPersist(e Entry) error {
	if err := os.MkdirAll(filepath.Dir(s.path), DirMode); err != nil {
		return fmt.Errorf("vault: failed to create vault directory: %w", err)
	}

	unlock, err := s.lock()
	if err != nil {
		return err
	}
	defer unlock()

	v, err := s.Load()
	if err != nil {
		return err
	}
	v.Append(e)

	data, err := Encode(v)
	if err != nil {
		return err
	}

	if err := s.checkDiskSpaceForWrite(len(data)); err != nil {
		return err
	}

	if err := atomic.WriteFile(s.path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("vault: failed to write vault file: %w", err)
	}
	if err := os.Chmod(s.path, FileMode); err != nil {
		return fmt.Errorf("vault: failed to set vault file permissions: %w", err)
	}

	s.logger.Debug("entry appended", "path", s.path, "site_app", e.SiteApp, "entries", v.Len())
	return nil
}

// ListAll returns every entry in stored order.
func (s *Store) ListAll() ([]Entry, error) {
	v, err := s.Load()
	if err != nil {
		return nil, err
	}
	return v.Entries, nil
}

// Find returns the first entry whose label equals siteApp exactly.
func (s *Store) Find(siteApp string) (Entry, error) {
	v, err := s.Load()
	if err != nil {
		return Entry{}, err
	}
	e, ok := v.Find(siteApp)
	if !ok {
		return Entry{}, fmt.Errorf("%w: %q", ErrEntryNotFound, siteApp)
	}
	return e, nil
}

// FindAll returns every entry whose label equals siteApp exactly. No match
// is not an error.
func (s *Store) FindAll(siteApp string) ([]Entry, error) {
	v, err := s.Load()
	if err != nil {
		return nil, err
	}
	return v.FindAll(siteApp), nil
}

// lock takes the exclusive writer lock and returns its release function.
func (s *Store) lock() (func(), error) {
	lockPath := s.path + LockSuffix
	f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, FileMode)
	if err != nil {
		return nil, fmt.Errorf("vault: failed to open lock file: %w", err)
	}
	if err := lockFile(f); err != nil {
		f.Close()
		return nil, fmt.Errorf("vault: failed to acquire lock: %w", err)
	}

	return func() {
		if err := unlockFile(f); err != nil {
			s.logger.Warn("failed to release vault lock", "path", lockPath, "error", err)
		}
		f.Close()
	}, nil
}

// checkDiskSpaceForWrite refuses a write that could fill the disk.
func (s *Store) checkDiskSpaceForWrite(dataSize int) error {
	info, err := s.CheckDiskSpace()
	if err != nil {
		// Not knowing is not a reason to refuse the write.
		s.logger.Warn("failed to check disk space", "path", s.path, "error", err)
		return nil
	}

	// Need at least MinDiskSpaceBytes or 2x the data size, whichever is larger
	required := uint64(MinDiskSpaceBytes)
	if uint64(dataSize*2) > required {
		required = uint64(dataSize * 2)
	}

	if info.Available < required {
		return fmt.Errorf("%w: only %d KB available, need at least %d KB",
			ErrInsufficientDisk,
			info.Available/1024,
			required/1024)
	}

	if info.UsedPct >= DiskWarningPercent {
		s.logger.Warn("disk almost full", "path", s.path, "used_pct", info.UsedPct)
	}
	return nil
}

// DiskSpaceInfo describes the filesystem holding the vault.
type DiskSpaceInfo struct {
	Total     uint64 `json:"total"`     // Total disk space in bytes
	Free      uint64 `json:"free"`      // Free disk space in bytes
	Available uint64 `json:"available"` // Available to non-root users
	UsedPct   int    `json:"used_pct"`  // Percentage of disk used
}
