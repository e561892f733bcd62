package registry

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/inboxd/inboxd/internal/store"
)

// Rename moves a mailbox to a new id: the directory is copied to the new
// name, the old directory is removed, and the in-memory maps are re-keyed
// in one registry mutation. Rename fails closed on copy errors: the
// half-built destination is removed and the registry is untouched. Once
// the copy is complete the new directory is authoritative; a failed
// old-directory removal keeps it and reports the leftover.
func (r *Registry) Rename(oldID, newID string) error {
	if oldID == newID {
		return fmt.Errorf("rename mailbox: old and new id are both %q", oldID)
	}
	oldStore, ok := r.stores[oldID]
	if !ok {
		return fmt.Errorf("rename mailbox: unknown mailbox %q", oldID)
	}
	if _, exists := r.stores[newID]; exists {
		return fmt.Errorf("rename mailbox: %q already exists", newID)
	}
	newDir := r.mailboxDir(newID)
	if _, err := os.Stat(newDir); err == nil {
		return fmt.Errorf("rename mailbox: directory %s already exists", newDir)
	}

	if err := copyTree(oldStore.Dir(), newDir); err != nil {
		os.RemoveAll(newDir)
		return fmt.Errorf("rename mailbox %q: %w", oldID, err)
	}

	// The copy is complete, so the new directory is now the good record.
	// A failed old-directory removal must not delete it; re-key anyway and
	// report the leftover for manual cleanup.
	removeErr := os.RemoveAll(oldStore.Dir())
	r.rekey(oldID, newID, newDir)
	if removeErr != nil {
		r.log.Warn("old mailbox directory left behind", "dir", oldStore.Dir(), "error", removeErr)
		return fmt.Errorf("rename mailbox %q: remove old directory (new record %s is active): %w",
			oldID, newDir, removeErr)
	}

	r.log.Info("renamed mailbox", "from", oldID, "to", newID)
	return nil
}

func (r *Registry) rekey(oldID, newID, newDir string) {
	r.stores[newID] = store.New(newDir, r.log)
	delete(r.stores, oldID)
	if sess, ok := r.sessions[oldID]; ok {
		r.sessions[newID] = sess
		delete(r.sessions, oldID)
	}
	if r.current == oldID {
		r.current = newID
	}
}

// copyTree copies a directory tree, preserving file modes.
func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		if d.IsDir() {
			return os.MkdirAll(target, 0o700)
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		in, err := os.Open(path)
		if err != nil {
			return err
		}
		defer in.Close()

		out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
		if err != nil {
			return err
		}
		defer out.Close()

		_, err = io.Copy(out, in)
		return err
	})
}
