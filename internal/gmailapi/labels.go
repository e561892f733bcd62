package gmailapi

import (
	"context"
	"fmt"
	"slices"

	gm "google.golang.org/api/gmail/v1"

	"github.com/inboxd/inboxd/internal/mail"
)

// ListLabels returns every label on the account.
func (c *Client) ListLabels(ctx context.Context) ([]mail.Label, error) {
	resp, err := c.svc.Users.Labels.List(userID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("list labels: %w", err)
	}

	labels := make([]mail.Label, 0, len(resp.Labels))
	for _, l := range resp.Labels {
		labels = append(labels, mail.Label{
			ID:             l.Id,
			Name:           l.Name,
			Type:           defaultStr(l.Type, "user"),
			MessagesTotal:  l.MessagesTotal,
			MessagesUnread: l.MessagesUnread,
		})
	}
	return labels, nil
}

// ListFolders returns the user-created labels, which Gmail treats as folders.
func (c *Client) ListFolders(ctx context.Context) ([]mail.Label, error) {
	labels, err := c.ListLabels(ctx)
	if err != nil {
		return nil, err
	}
	folders := labels[:0]
	for _, l := range labels {
		if l.Type == "user" {
			folders = append(folders, l)
		}
	}
	return folders, nil
}

// CreateLabel creates a visible label.
func (c *Client) CreateLabel(ctx context.Context, name string) (*mail.Label, error) {
	res, err := c.svc.Users.Labels.Create(userID, &gm.Label{
		Name:                  name,
		LabelListVisibility:   "labelShow",
		MessageListVisibility: "show",
	}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("create label %q: %w", name, err)
	}
	return &mail.Label{ID: res.Id, Name: res.Name, Type: "user"}, nil
}

// ApplyLabel adds a label to a message.
func (c *Client) ApplyLabel(ctx context.Context, id, labelID string) error {
	return c.modify(ctx, id, []string{labelID}, nil)
}

// RemoveLabel removes a label from a message.
func (c *Client) RemoveLabel(ctx context.Context, id, labelID string) error {
	return c.modify(ctx, id, nil, []string{labelID})
}

// RenameLabel updates a label's display name in place.
func (c *Client) RenameLabel(ctx context.Context, labelID, newName string) (*mail.Label, error) {
	current, err := c.svc.Users.Labels.Get(userID, labelID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("get label %s: %w", labelID, err)
	}
	current.Name = newName

	res, err := c.svc.Users.Labels.Update(userID, labelID, current).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("rename label %s: %w", labelID, err)
	}
	return &mail.Label{ID: res.Id, Name: res.Name, Type: defaultStr(res.Type, "user")}, nil
}

// DeleteLabel deletes a label.
func (c *Client) DeleteLabel(ctx context.Context, labelID string) error {
	if err := c.svc.Users.Labels.Delete(userID, labelID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("delete label %s: %w", labelID, err)
	}
	return nil
}

// SearchByLabel lists messages carrying the given label.
func (c *Client) SearchByLabel(ctx context.Context, labelID string, max int64) ([]mail.EmailSummary, error) {
	label, err := c.svc.Users.Labels.Get(userID, labelID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("get label %s: %w", labelID, err)
	}
	return c.listSummaries(ctx, fmt.Sprintf("label:%q", label.Name), max, false)
}

// ListFilters returns every filter rule on the account.
func (c *Client) ListFilters(ctx context.Context) ([]mail.Filter, error) {
	resp, err := c.svc.Users.Settings.Filters.List(userID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("list filters: %w", err)
	}
	filters := make([]mail.Filter, 0, len(resp.Filter))
	for _, f := range resp.Filter {
		filters = append(filters, fromAPIFilter(f))
	}
	return filters, nil
}

// GetFilter fetches one filter by id.
func (c *Client) GetFilter(ctx context.Context, id string) (*mail.Filter, error) {
	res, err := c.svc.Users.Settings.Filters.Get(userID, id).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("get filter %s: %w", id, err)
	}
	f := fromAPIFilter(res)
	return &f, nil
}

// CreateFilter creates a filter from the given criteria and action.
func (c *Client) CreateFilter(ctx context.Context, criteria mail.FilterCriteria, action mail.FilterAction) (*mail.Filter, error) {
	req := &gm.Filter{
		Criteria: &gm.FilterCriteria{
			From:           criteria.From,
			To:             criteria.To,
			Subject:        criteria.Subject,
			Query:          criteria.Query,
			ExcludeChats:   criteria.ExcludeChats,
			HasAttachment:  criteria.HasAttachment,
			Size:           criteria.Size,
			SizeComparison: criteria.SizeComparison,
		},
		Action: &gm.FilterAction{
			AddLabelIds:    action.AddLabelIDs,
			RemoveLabelIds: action.RemoveLabelIDs,
			Forward:        action.Forward,
		},
	}
	// "Never send to spam" is expressed by the API as removing the SPAM label.
	if action.NeverSpam && !slices.Contains(req.Action.RemoveLabelIds, "SPAM") {
		req.Action.RemoveLabelIds = append(req.Action.RemoveLabelIds, "SPAM")
	}
	res, err := c.svc.Users.Settings.Filters.Create(userID, req).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("create filter: %w", err)
	}
	f := fromAPIFilter(res)
	return &f, nil
}

// DeleteFilter deletes a filter by id.
func (c *Client) DeleteFilter(ctx context.Context, id string) error {
	if err := c.svc.Users.Settings.Filters.Delete(userID, id).Context(ctx).Do(); err != nil {
		return fmt.Errorf("delete filter %s: %w", id, err)
	}
	return nil
}

func fromAPIFilter(f *gm.Filter) mail.Filter {
	out := mail.Filter{ID: f.Id}
	if f.Criteria != nil {
		out.Criteria = mail.FilterCriteria{
			From:           f.Criteria.From,
			To:             f.Criteria.To,
			Subject:        f.Criteria.Subject,
			Query:          f.Criteria.Query,
			ExcludeChats:   f.Criteria.ExcludeChats,
			HasAttachment:  f.Criteria.HasAttachment,
			Size:           f.Criteria.Size,
			SizeComparison: f.Criteria.SizeComparison,
		}
	}
	if f.Action != nil {
		out.Action = mail.FilterAction{
			AddLabelIDs:    f.Action.AddLabelIds,
			RemoveLabelIDs: f.Action.RemoveLabelIds,
			Forward:        f.Action.Forward,
		}
	}
	return out
}
