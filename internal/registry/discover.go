package registry

import (
	"context"
	"fmt"
	"os"

	"github.com/inboxd/inboxd/internal/session"
	"github.com/inboxd/inboxd/internal/store"
)

// Per-mailbox discovery outcomes. Only loaded mailboxes participate in
// routing; the others stay visible in reports so the operator can fix them.
const (
	StatusLoaded            = "loaded"
	StatusMissingCredential = "missing_credential"
	StatusServiceError      = "service_error"
)

// MailboxStatus is one entry of a discovery report.
type MailboxStatus struct {
	MailboxID string `json:"mailbox_id"`
	Status    string `json:"status"`
	Message   string `json:"message"`
	Email     string `json:"email,omitempty"`
	HasCache  bool   `json:"has_cache"`
}

// DiscoveryReport is the result of one full scan of the mailbox root.
type DiscoveryReport struct {
	Status     string          `json:"status"`
	Message    string          `json:"message"`
	Discovered []MailboxStatus `json:"discovered"`
}

// Discover rebuilds the registry's in-memory state from the mailbox root.
// Every immediate subdirectory is one mailbox. Per-mailbox failures are
// recorded and never abort the scan; a completed scan is a success even
// with zero usable mailboxes. A missing root is a structural error.
func (r *Registry) Discover(ctx context.Context) (DiscoveryReport, error) {
	info, err := os.Stat(r.root)
	if err != nil || !info.IsDir() {
		report := DiscoveryReport{
			Status:  "error",
			Message: fmt.Sprintf("mailbox directory does not exist: %s", r.root),
		}
		return report, fmt.Errorf("mailbox directory does not exist: %s", r.root)
	}

	entries, err := os.ReadDir(r.root)
	if err != nil {
		report := DiscoveryReport{Status: "error", Message: err.Error()}
		return report, fmt.Errorf("read mailbox directory: %w", err)
	}

	// Rebuild from scratch; stale entries from a previous scan never leak
	// into the new state.
	r.sessions = map[string]*session.Session{}
	r.stores = map[string]*store.Store{}

	report := DiscoveryReport{Status: "success"}
	loaded := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		mailboxID := entry.Name()
		r.log.Info("discovering mailbox", "mailbox", mailboxID)
		status := r.discoverOne(ctx, mailboxID)
		report.Discovered = append(report.Discovered, status)
		if status.Status == StatusLoaded {
			loaded++
		}
	}

	// Keep current only if it survived the rebuild.
	if _, ok := r.sessions[r.current]; !ok {
		r.current = ""
	}

	switch {
	case len(report.Discovered) == 0:
		report.Message = "empty mailbox directory - ready for new mailbox creation"
	case loaded == 0:
		report.Message = "discovery completed - no valid mailboxes found but ready for creation"
	default:
		report.Message = fmt.Sprintf("discovered %d valid mailboxes", loaded)
	}
	r.log.Info("discovery finished", "found", len(report.Discovered), "loaded", loaded)
	return report, nil
}

// discoverOne builds the store for one mailbox directory and, when a
// credential is present, attempts a session. One bad mailbox never touches
// its neighbors.
func (r *Registry) discoverOne(ctx context.Context, mailboxID string) MailboxStatus {
	st := store.New(r.mailboxDir(mailboxID), r.log)
	r.stores[mailboxID] = st

	if err := st.EnsureLayout(); err != nil {
		return MailboxStatus{
			MailboxID: mailboxID,
			Status:    StatusServiceError,
			Message:   fmt.Sprintf("create layout: %v", err),
		}
	}

	if !st.HasCredential() {
		return MailboxStatus{
			MailboxID: mailboxID,
			Status:    StatusMissingCredential,
			Message:   "no credential file found",
			HasCache:  st.HasCache(),
		}
	}

	sess, err := r.factory.Obtain(ctx, st.CredentialPath())
	if err != nil {
		r.log.Warn("session construction failed", "mailbox", mailboxID, "error", err)
		return MailboxStatus{
			MailboxID: mailboxID,
			Status:    StatusServiceError,
			Message:   err.Error(),
			HasCache:  st.HasCache(),
		}
	}

	r.sessions[mailboxID] = sess

	// Seed the profile cache so status tooling can report the owning
	// address without another remote call. Misses only; a fresh cache
	// is left alone.
	if st.LoadProfileCache() == nil {
		st.SaveProfileCache(map[string]any{"emailAddress": sess.Email})
	}

	return MailboxStatus{
		MailboxID: mailboxID,
		Status:    StatusLoaded,
		Message:   "successfully loaded",
		Email:     sess.Email,
		HasCache:  st.HasCache(),
	}
}
