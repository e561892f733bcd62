// Package gmailapi adapts google.golang.org/api/gmail/v1 to the mail.Service
// contract. Every method is a direct translation from one logical operation
// to REST calls and back; no state beyond the wrapped service handle.
package gmailapi

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	gm "google.golang.org/api/gmail/v1"

	"github.com/inboxd/inboxd/internal/mail"
)

const userID = "me"

// Client implements mail.Service over a Gmail API service.
type Client struct {
	svc *gm.Service
}

// New wraps an authenticated Gmail service.
func New(svc *gm.Service) *Client {
	return &Client{svc: svc}
}

var _ mail.Service = (*Client)(nil)

// Unread lists inbox messages still marked unread.
func (c *Client) Unread(ctx context.Context, max int64) ([]mail.EmailSummary, error) {
	return c.listSummaries(ctx, "in:inbox is:unread", max, true)
}

// Search lists messages matching a raw Gmail query.
func (c *Client) Search(ctx context.Context, query string, max int64) ([]mail.EmailSummary, error) {
	return c.listSummaries(ctx, query, max, false)
}

// ListArchived lists messages no longer in the inbox.
func (c *Client) ListArchived(ctx context.Context, max int64) ([]mail.EmailSummary, error) {
	return c.listSummaries(ctx, "-in:inbox", max, false)
}

// listSummaries runs a query and hydrates metadata for each hit. A failure
// on an individual message is skipped so one bad message cannot sink the
// whole listing. withLabels additionally resolves label names.
func (c *Client) listSummaries(ctx context.Context, query string, max int64, withLabels bool) ([]mail.EmailSummary, error) {
	resp, err := c.svc.Users.Messages.List(userID).Q(query).MaxResults(max).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	if len(resp.Messages) == 0 {
		return nil, nil
	}

	var names map[string]string
	if withLabels {
		names = c.labelNames(ctx)
	}

	summaries := make([]mail.EmailSummary, 0, len(resp.Messages))
	for _, m := range resp.Messages {
		detail, err := c.svc.Users.Messages.Get(userID, m.Id).
			Format("metadata").
			MetadataHeaders("From", "To", "Subject", "Date").
			Context(ctx).Do()
		if err != nil {
			continue
		}

		h := headerMap(detail.Payload.Headers)
		sum := mail.EmailSummary{
			ID:      detail.Id,
			Subject: defaultStr(h["Subject"], "(no subject)"),
			From:    h["From"],
			To:      h["To"],
			Date:    h["Date"],
			Snippet: detail.Snippet,
		}
		if withLabels {
			for _, id := range detail.LabelIds {
				sum.Labels = append(sum.Labels, mail.LabelRef{ID: id, Name: labelDisplayName(id, names)})
			}
		}
		summaries = append(summaries, sum)
	}
	return summaries, nil
}

// labelNames fetches the id to name mapping; failures degrade to ids only.
func (c *Client) labelNames(ctx context.Context) map[string]string {
	resp, err := c.svc.Users.Labels.List(userID).Context(ctx).Do()
	if err != nil {
		return nil
	}
	names := make(map[string]string, len(resp.Labels))
	for _, l := range resp.Labels {
		names[l.Id] = l.Name
	}
	return names
}

// labelDisplayName prefers the fetched name, prettifies known system ids,
// and falls back to the raw id.
func labelDisplayName(id string, names map[string]string) string {
	if name, ok := names[id]; ok {
		return name
	}
	if rest, ok := strings.CutPrefix(id, "CATEGORY_"); ok {
		return rest[:1] + strings.ToLower(rest[1:])
	}
	return id
}

// Read fetches a full message and decodes its plain-text body.
func (c *Client) Read(ctx context.Context, id string) (*mail.Email, error) {
	msg, err := c.svc.Users.Messages.Get(userID, id).Format("full").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("get message %s: %w", id, err)
	}

	h := headerMap(msg.Payload.Headers)
	return &mail.Email{
		ID:      id,
		Subject: defaultStr(h["Subject"], "(no subject)"),
		From:    h["From"],
		To:      h["To"],
		Date:    h["Date"],
		Body:    extractBody(msg.Payload),
		Snippet: msg.Snippet,
	}, nil
}

// Send delivers a plain-text message and returns the new message id.
func (c *Client) Send(ctx context.Context, to, subject, body string) (string, error) {
	raw := encodeRFC822(to, subject, body)
	res, err := c.svc.Users.Messages.Send(userID, &gm.Message{Raw: raw}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("send message: %w", err)
	}
	return res.Id, nil
}

// Trash moves a message to the trash.
func (c *Client) Trash(ctx context.Context, id string) error {
	if _, err := c.svc.Users.Messages.Trash(userID, id).Context(ctx).Do(); err != nil {
		return fmt.Errorf("trash message %s: %w", id, err)
	}
	return nil
}

// MarkRead clears the UNREAD label.
func (c *Client) MarkRead(ctx context.Context, id string) error {
	return c.modify(ctx, id, nil, []string{"UNREAD"})
}

// Archive removes the message from the inbox.
func (c *Client) Archive(ctx context.Context, id string) error {
	return c.modify(ctx, id, nil, []string{"INBOX"})
}

// Restore puts an archived message back in the inbox.
func (c *Client) Restore(ctx context.Context, id string) error {
	return c.modify(ctx, id, []string{"INBOX"}, nil)
}

// MoveToFolder files the message under a folder label and archives it.
func (c *Client) MoveToFolder(ctx context.Context, id, folderID string) error {
	return c.modify(ctx, id, []string{folderID}, []string{"INBOX"})
}

func (c *Client) modify(ctx context.Context, id string, add, remove []string) error {
	req := &gm.ModifyMessageRequest{AddLabelIds: add, RemoveLabelIds: remove}
	if _, err := c.svc.Users.Messages.Modify(userID, id, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("modify message %s: %w", id, err)
	}
	return nil
}

// BatchArchive archives every message matching the query, collecting
// per-message failures instead of aborting.
func (c *Client) BatchArchive(ctx context.Context, query string, max int64) (mail.BatchArchiveResult, error) {
	resp, err := c.svc.Users.Messages.List(userID).Q(query).MaxResults(max).Context(ctx).Do()
	if err != nil {
		return mail.BatchArchiveResult{}, fmt.Errorf("list messages: %w", err)
	}

	result := mail.BatchArchiveResult{TotalFound: len(resp.Messages)}
	for _, m := range resp.Messages {
		if err := c.Archive(ctx, m.Id); err != nil {
			result.Errors = append(result.Errors, err.Error())
			continue
		}
		result.ArchivedCount++
	}
	return result, nil
}

// CreateDraft creates a plain-text draft.
func (c *Client) CreateDraft(ctx context.Context, to, subject, body string) (*mail.Draft, error) {
	raw := encodeRFC822(to, subject, body)
	res, err := c.svc.Users.Drafts.Create(userID, &gm.Draft{Message: &gm.Message{Raw: raw}}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("create draft: %w", err)
	}
	return &mail.Draft{ID: res.Id, MessageID: res.Message.Id, Subject: subject, To: to}, nil
}

// ListDrafts lists drafts with their headline metadata. Individual draft
// hydration failures are skipped.
func (c *Client) ListDrafts(ctx context.Context) ([]mail.Draft, error) {
	resp, err := c.svc.Users.Drafts.List(userID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("list drafts: %w", err)
	}

	drafts := make([]mail.Draft, 0, len(resp.Drafts))
	for _, d := range resp.Drafts {
		detail, err := c.svc.Users.Drafts.Get(userID, d.Id).Context(ctx).Do()
		if err != nil {
			continue
		}
		h := headerMap(detail.Message.Payload.Headers)
		drafts = append(drafts, mail.Draft{
			ID:        d.Id,
			MessageID: detail.Message.Id,
			Subject:   defaultStr(h["Subject"], "(no subject)"),
			To:        h["To"],
			Snippet:   detail.Message.Snippet,
		})
	}
	return drafts, nil
}

// encodeRFC822 builds a minimal RFC 822 message in Gmail's raw format.
func encodeRFC822(to, subject, body string) string {
	msg := fmt.Sprintf("To: %s\r\nSubject: %s\r\nContent-Type: text/plain; charset=\"UTF-8\"\r\n\r\n%s", to, subject, body)
	return base64.URLEncoding.WithPadding(base64.NoPadding).EncodeToString([]byte(msg))
}

// extractBody gets the plain text body from a message payload, recursing
// through multipart structures and falling back to HTML.
func extractBody(payload *gm.MessagePart) string {
	if payload.Body != nil && payload.Body.Data != "" {
		if decoded, err := decodeBase64URL(payload.Body.Data); err == nil {
			return decoded
		}
	}

	for _, part := range payload.Parts {
		if part.MimeType == "text/plain" && part.Body != nil && part.Body.Data != "" {
			if decoded, err := decodeBase64URL(part.Body.Data); err == nil {
				return decoded
			}
		}
		if len(part.Parts) > 0 {
			if body := extractBody(part); body != "" {
				return body
			}
		}
	}

	for _, part := range payload.Parts {
		if part.MimeType == "text/html" && part.Body != nil && part.Body.Data != "" {
			if decoded, err := decodeBase64URL(part.Body.Data); err == nil {
				return "(HTML content)\n" + decoded
			}
		}
	}

	return ""
}

// decodeBase64URL decodes Gmail's base64url content, tolerating missing
// padding.
func decodeBase64URL(data string) (string, error) {
	decoded, err := base64.URLEncoding.WithPadding(base64.NoPadding).DecodeString(strings.TrimRight(data, "="))
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}

func headerMap(headers []*gm.MessagePartHeader) map[string]string {
	m := make(map[string]string, len(headers))
	for _, h := range headers {
		m[h.Name] = h.Value
	}
	return m
}

func defaultStr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
