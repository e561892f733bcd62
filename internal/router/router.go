// Package router resolves a requested operation plus an optional target
// mailbox set to live sessions and fans the operation out across them,
// sequentially, tagging every result item with its originating mailbox.
package router

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/inboxd/inboxd/internal/registry"
	"github.com/inboxd/inboxd/internal/session"
)

// TargetAll is the sentinel mailbox id meaning "every known mailbox".
const TargetAll = "all"

// ErrNoCurrent is returned when an operation needs the current mailbox and
// none is set.
var ErrNoCurrent = errors.New("no current mailbox")

// ErrNoTargets is returned when an explicitly requested target set resolves
// to zero live sessions.
var ErrNoTargets = errors.New("no requested mailbox is available")

// Router fans mail operations out across registry sessions.
type Router struct {
	Registry *registry.Registry
	Log      *slog.Logger

	// MaxItems caps the merged result list of a fan-out. Results are
	// concatenated in mailbox order, then truncated; never re-sorted.
	MaxItems int
}

// New returns a router over reg.
func New(reg *registry.Registry, log *slog.Logger) *Router {
	if log == nil {
		log = slog.Default()
	}
	return &Router{Registry: reg, Log: log}
}

// Target is one resolved fan-out destination.
type Target struct {
	MailboxID string
	Session   *session.Session
}

// Resolve maps a requested target list to live sessions.
//
// nil means "use the current mailbox"; an empty list or the TargetAll
// sentinel means "all known mailboxes"; both tolerate an empty result.
// An explicit list drops unknown ids with a warning and fails only when
// nothing at all resolved.
func (r *Router) Resolve(targets []string) ([]Target, error) {
	switch {
	case targets == nil:
		id := r.Registry.CurrentID()
		sess := r.Registry.CurrentSession()
		if sess == nil {
			return nil, nil
		}
		return []Target{{MailboxID: id, Session: sess}}, nil

	case len(targets) == 0, len(targets) == 1 && targets[0] == TargetAll:
		var resolved []Target
		for _, id := range r.Registry.IDs() {
			sess, _ := r.Registry.Session(id)
			resolved = append(resolved, Target{MailboxID: id, Session: sess})
		}
		return resolved, nil

	default:
		var resolved []Target
		for _, id := range targets {
			sess, ok := r.Registry.Session(id)
			if !ok {
				r.Log.Warn("requested mailbox not available, dropping", "mailbox", id)
				continue
			}
			resolved = append(resolved, Target{MailboxID: id, Session: sess})
		}
		if len(resolved) == 0 {
			return nil, fmt.Errorf("%w: %v", ErrNoTargets, targets)
		}
		return resolved, nil
	}
}

// Tagged wraps one result item with the mailbox it came from.
type Tagged[T any] struct {
	MailboxID string `json:"mailbox_id"`
	Item      T      `json:"item"`
}

// Fanout runs call once per resolved session, in order, collecting tagged
// results. One mailbox's remote calls complete before the next begins. A
// per-session failure is logged and skipped; the merged list is truncated
// to the router's item cap.
func Fanout[T any](ctx context.Context, r *Router, targets []string, op string, call func(context.Context, *session.Session) ([]T, error)) ([]Tagged[T], error) {
	resolved, err := r.Resolve(targets)
	if err != nil {
		return nil, err
	}

	var merged []Tagged[T]
	for _, t := range resolved {
		items, err := call(ctx, t.Session)
		if err != nil {
			r.Log.Error("operation failed for mailbox", "op", op, "mailbox", t.MailboxID, "error", err)
			continue
		}
		for _, item := range items {
			merged = append(merged, Tagged[T]{MailboxID: t.MailboxID, Item: item})
		}
		r.Log.Info("operation completed for mailbox", "op", op, "mailbox", t.MailboxID, "items", len(items))
	}

	if r.MaxItems > 0 && len(merged) > r.MaxItems {
		merged = merged[:r.MaxItems]
	}
	return merged, nil
}

// Current returns the current mailbox session for single-mailbox operations.
func (r *Router) Current() (*session.Session, error) {
	sess := r.Registry.CurrentSession()
	if sess == nil {
		return nil, ErrNoCurrent
	}
	return sess, nil
}
