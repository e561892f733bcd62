// Package store owns the on-disk record for a single mailbox: its session
// credential, cache files, and directory layout. It has no cross-mailbox
// knowledge; the registry builds one Store per discovered directory.
//
// Cache reads never fail: a missing, unreadable, malformed, or stale cache
// degrades to a miss. Cache writes go through a scoped temp file followed
// by an atomic rename so a concurrent reader never sees a torn file.
package store

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Layout inside a mailbox directory.
const (
	credentialFile = "credential"
	settingsFile   = "settings"
	metadataFile   = "metadata"
	cacheDirName   = "cache"
	labelsFile     = "labels"
	profileFile    = "profile"
)

// cacheTTL bounds how long cached labels and profile data stay usable.
const cacheTTL = 24 * time.Hour

// Store manages persistent state for one mailbox directory.
type Store struct {
	dir string
	log *slog.Logger
}

// New returns a Store rooted at dir. No filesystem access happens until
// EnsureLayout or one of the cache operations is called.
func New(dir string, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{dir: dir, log: log}
}

// Dir returns the mailbox directory.
func (s *Store) Dir() string { return s.dir }

// CredentialPath returns where the session credential lives. It does not
// check that the file exists.
func (s *Store) CredentialPath() string {
	return filepath.Join(s.dir, credentialFile)
}

// SettingsPath returns the reserved settings document location.
func (s *Store) SettingsPath() string {
	return filepath.Join(s.dir, settingsFile)
}

// MetadataPath returns the reserved metadata document location.
func (s *Store) MetadataPath() string {
	return filepath.Join(s.dir, metadataFile)
}

func (s *Store) cacheDir() string {
	return filepath.Join(s.dir, cacheDirName)
}

func (s *Store) labelsPath() string {
	return filepath.Join(s.cacheDir(), labelsFile)
}

func (s *Store) profilePath() string {
	return filepath.Join(s.cacheDir(), profileFile)
}

// EnsureLayout creates the mailbox directory and its cache subdirectory.
// Idempotent: existing directories are not an error.
func (s *Store) EnsureLayout() error {
	return os.MkdirAll(s.cacheDir(), 0o700)
}

// HasCredential reports whether a credential file is present.
func (s *Store) HasCredential() bool {
	info, err := os.Stat(s.CredentialPath())
	return err == nil && !info.IsDir()
}

// HasCache reports whether the cache directory exists.
func (s *Store) HasCache() bool {
	info, err := os.Stat(s.cacheDir())
	return err == nil && info.IsDir()
}

// ClearCaches deletes the label and profile cache files. The credential is
// untouched. A failed deletion is logged and does not stop the others.
func (s *Store) ClearCaches() {
	for _, path := range []string{s.labelsPath(), s.profilePath()} {
		err := os.Remove(path)
		switch {
		case err == nil:
			s.log.Info("cleared cache file", "path", path)
		case os.IsNotExist(err):
			// nothing to clear
		default:
			s.log.Error("clear cache file", "path", path, "error", err)
		}
	}
}

// FileStatus describes one cache file for status reporting.
type FileStatus struct {
	Exists   bool  `json:"exists"`
	Size     int64 `json:"size"`
	Modified int64 `json:"modified,omitempty"`
}

// CacheStatus summarizes the cache directory contents.
type CacheStatus struct {
	CacheDir    string                `json:"cache_dir"`
	CacheExists bool                  `json:"cache_exists"`
	Files       map[string]FileStatus `json:"files"`
}

// Status reports the cache directory and per-file state.
func (s *Store) Status() CacheStatus {
	st := CacheStatus{
		CacheDir:    s.cacheDir(),
		CacheExists: s.HasCache(),
		Files:       map[string]FileStatus{},
	}
	if !st.CacheExists {
		return st
	}
	for _, name := range []string{labelsFile, profileFile} {
		var fs FileStatus
		if info, err := os.Stat(filepath.Join(s.cacheDir(), name)); err == nil {
			fs = FileStatus{Exists: true, Size: info.Size(), Modified: info.ModTime().Unix()}
		}
		st.Files[name] = fs
	}
	return st
}
