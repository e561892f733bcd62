// Package registry holds the live collection of mailboxes: one session and
// one on-disk store per mailbox id, plus the single "current" mailbox that
// untargeted requests implicitly address.
//
// The registry is not internally synchronized; callers serialize access,
// one operation in flight at a time.
package registry

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"

	"github.com/inboxd/inboxd/internal/session"
	"github.com/inboxd/inboxd/internal/store"
)

// Registry tracks every known mailbox under one root directory.
type Registry struct {
	root    string
	factory session.Factory
	log     *slog.Logger

	sessions map[string]*session.Session
	stores   map[string]*store.Store
	current  string
}

// New returns an empty registry rooted at root. Call Discover to populate it.
func New(root string, factory session.Factory, log *slog.Logger) *Registry {
	if log == nil {
		log = slog.Default()
	}
	return &Registry{
		root:     root,
		factory:  factory,
		log:      log,
		sessions: map[string]*session.Session{},
		stores:   map[string]*store.Store{},
	}
}

// Root returns the mailbox root directory.
func (r *Registry) Root() string { return r.root }

// AddResult reports a successful Add.
type AddResult struct {
	MailboxID      string `json:"mailbox_id"`
	Email          string `json:"email"`
	CurrentMailbox string `json:"current_mailbox"`
	TotalMailboxes int    `json:"total_mailboxes"`
	MailboxPath    string `json:"mailbox_path"`
}

// Add creates the on-disk record for mailboxID (reusing an existing one),
// obtains a session (possibly via the interactive authorization flow) and
// inserts it. The first mailbox ever added becomes current. On failure
// nothing is inserted.
func (r *Registry) Add(ctx context.Context, mailboxID string) (*AddResult, error) {
	st := store.New(r.mailboxDir(mailboxID), r.log)
	if err := st.EnsureLayout(); err != nil {
		return nil, fmt.Errorf("create mailbox layout: %w", err)
	}

	sess, err := r.factory.Obtain(ctx, st.CredentialPath())
	if err != nil {
		return nil, fmt.Errorf("add mailbox %q: %w", mailboxID, err)
	}

	r.sessions[mailboxID] = sess
	r.stores[mailboxID] = st
	if r.current == "" {
		r.current = mailboxID
	}

	r.log.Info("added mailbox", "mailbox", mailboxID, "email", sess.Email, "current", r.current)
	return &AddResult{
		MailboxID:      mailboxID,
		Email:          sess.Email,
		CurrentMailbox: r.current,
		TotalMailboxes: len(r.sessions),
		MailboxPath:    st.Dir(),
	}, nil
}

// Switch makes mailboxID current. Unknown ids leave the current mailbox
// unchanged and report failure.
func (r *Registry) Switch(mailboxID string) bool {
	if _, ok := r.sessions[mailboxID]; !ok {
		r.log.Warn("switch to unknown mailbox", "mailbox", mailboxID)
		return false
	}
	r.current = mailboxID
	r.log.Info("switched mailbox", "mailbox", mailboxID)
	return true
}

// CurrentID returns the current mailbox id, or "" when none is set.
func (r *Registry) CurrentID() string { return r.current }

// CurrentSession returns the session of the current mailbox, or nil.
func (r *Registry) CurrentSession() *session.Session {
	return r.sessions[r.current]
}

// Session looks up the live session for a mailbox.
func (r *Registry) Session(mailboxID string) (*session.Session, bool) {
	s, ok := r.sessions[mailboxID]
	return s, ok
}

// Store looks up the on-disk record handle for a mailbox. Present for every
// discovered directory, even ones whose session failed to load.
func (r *Registry) Store(mailboxID string) (*store.Store, bool) {
	s, ok := r.stores[mailboxID]
	return s, ok
}

// IDs returns the ids of all mailboxes with live sessions, sorted.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// MailboxInfo summarizes one known mailbox for listings.
type MailboxInfo struct {
	MailboxID string `json:"mailbox_id"`
	Email     string `json:"email,omitempty"`
	Loaded    bool   `json:"loaded"`
	Current   bool   `json:"current"`
}

// List returns a summary of every known mailbox, including ones whose
// directory exists but whose session did not load.
func (r *Registry) List() []MailboxInfo {
	ids := make([]string, 0, len(r.stores))
	for id := range r.stores {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	infos := make([]MailboxInfo, 0, len(ids))
	for _, id := range ids {
		info := MailboxInfo{MailboxID: id, Current: id == r.current}
		if sess, ok := r.sessions[id]; ok {
			info.Email = sess.Email
			info.Loaded = true
		}
		infos = append(infos, info)
	}
	return infos
}

// ClearAllCaches clears the cache files of every known mailbox. Per-file
// failures are logged inside the store and do not stop the sweep.
func (r *Registry) ClearAllCaches() {
	for id, st := range r.stores {
		r.log.Info("clearing mailbox caches", "mailbox", id)
		st.ClearCaches()
	}
}

// RefreshCache clears one mailbox's caches so the next read repopulates
// them. Returns false for unknown ids.
func (r *Registry) RefreshCache(mailboxID string) bool {
	st, ok := r.stores[mailboxID]
	if !ok {
		r.log.Warn("cache refresh for unknown mailbox", "mailbox", mailboxID)
		return false
	}
	st.ClearCaches()
	return true
}

// CacheStatus reports cache directory state for every known mailbox.
func (r *Registry) CacheStatus() map[string]store.CacheStatus {
	out := make(map[string]store.CacheStatus, len(r.stores))
	for id, st := range r.stores {
		out[id] = st.Status()
	}
	return out
}

func (r *Registry) mailboxDir(mailboxID string) string {
	return filepath.Join(r.root, mailboxID)
}
