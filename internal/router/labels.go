package router

import (
	"context"
	"fmt"

	"github.com/inboxd/inboxd/internal/mail"
)

// LabelNames returns the label id to name mapping for the current mailbox.
// A fresh on-disk cache is used when available; otherwise the live list is
// fetched and written back through the store.
func (r *Router) LabelNames(ctx context.Context) (map[string]string, error) {
	sess, err := r.Current()
	if err != nil {
		return nil, err
	}

	st, hasStore := r.Registry.Store(r.Registry.CurrentID())
	if hasStore {
		if cached := st.LoadLabelCache(); len(cached) > 0 {
			return cached, nil
		}
	}

	labels, err := sess.Mail.ListLabels(ctx)
	if err != nil {
		return nil, fmt.Errorf("list labels: %w", err)
	}
	names := make(map[string]string, len(labels))
	for _, l := range labels {
		names[l.ID] = l.Name
	}
	if hasStore {
		st.SaveLabelCache(names)
	}
	return names, nil
}

// FindLabels fuzzy-matches a user-supplied name against the current
// mailbox's live labels.
func (r *Router) FindLabels(ctx context.Context, term string, max int) ([]mail.LabelMatch, error) {
	sess, err := r.Current()
	if err != nil {
		return nil, err
	}
	labels, err := sess.Mail.ListLabels(ctx)
	if err != nil {
		return nil, fmt.Errorf("list labels: %w", err)
	}
	return mail.MatchLabels(labels, term, max), nil
}

// ResolveLabel maps an identifier (exact label id, exact name, or an
// approximate name) to a concrete label. Exact matches win; otherwise the
// best fuzzy candidate is returned with its score.
func (r *Router) ResolveLabel(ctx context.Context, identifier string) (mail.LabelMatch, error) {
	sess, err := r.Current()
	if err != nil {
		return mail.LabelMatch{}, err
	}
	labels, err := sess.Mail.ListLabels(ctx)
	if err != nil {
		return mail.LabelMatch{}, fmt.Errorf("list labels: %w", err)
	}

	for _, l := range labels {
		if l.ID == identifier || l.Name == identifier {
			return mail.LabelMatch{ID: l.ID, Name: l.Name, Type: l.Type, Score: 100}, nil
		}
	}

	matches := mail.MatchLabels(labels, identifier, 1)
	if len(matches) == 0 {
		return mail.LabelMatch{}, fmt.Errorf("no label matches %q", identifier)
	}
	r.Log.Info("fuzzy-matched label", "input", identifier, "label", matches[0].Name, "score", matches[0].Score)
	return matches[0], nil
}
