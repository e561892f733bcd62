// Package session turns a stored per-mailbox credential into a ready,
// authenticated mail service handle. It owns the refresh-or-reauthorize
// decision; the registry only sees the resulting Session or a typed failure.
package session

import (
	"context"
	"errors"

	"github.com/inboxd/inboxd/internal/mail"
)

// Failure kinds for session construction. Each failure path wraps exactly
// one of these so callers can distinguish them without parsing messages.
var (
	// ErrAuthFlow: no usable credential and the interactive flow failed.
	ErrAuthFlow = errors.New("authorization flow failed")
	// ErrRefresh: stored credential expired, refresh and re-auth both failed.
	ErrRefresh = errors.New("credential refresh failed")
	// ErrTransport: building the mail transport from a valid credential failed.
	ErrTransport = errors.New("transport construction failed")
	// ErrIdentity: the account's own identity could not be resolved. A session
	// without a verified identity is never returned.
	ErrIdentity = errors.New("identity resolution failed")
)

// Session is an authenticated, ready-to-use connection to the mail
// transport for one mailbox. Email is the owning account's verified address.
type Session struct {
	Email string
	Mail  mail.Service
}

// Factory produces a Session from the credential stored at credentialPath,
// running the interactive authorization flow when no usable credential
// exists. Obtain blocks for the duration of that flow.
type Factory interface {
	Obtain(ctx context.Context, credentialPath string) (*Session, error)
}
