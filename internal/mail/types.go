// Package mail defines the transport contract the registry routes against.
//
// The types here are the structured results the Gmail adapter translates
// API responses into; the core never inspects them beyond the ID field.
package mail

// LabelRef pairs a label id with its display name.
type LabelRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// EmailSummary is the metadata-only view of a message used by list results.
type EmailSummary struct {
	ID      string     `json:"id"`
	Subject string     `json:"subject"`
	From    string     `json:"sender"`
	To      string     `json:"recipient,omitempty"`
	Date    string     `json:"date"`
	Snippet string     `json:"snippet,omitempty"`
	Labels  []LabelRef `json:"labels,omitempty"`
}

// Email is the full message view, body decoded.
type Email struct {
	ID      string `json:"id"`
	Subject string `json:"subject"`
	From    string `json:"sender"`
	To      string `json:"recipient"`
	Date    string `json:"date"`
	Body    string `json:"body"`
	Snippet string `json:"snippet,omitempty"`
}

// Draft describes a draft message.
type Draft struct {
	ID        string `json:"id"`
	MessageID string `json:"message_id"`
	Subject   string `json:"subject"`
	To        string `json:"recipient"`
	Snippet   string `json:"snippet,omitempty"`
}

// Label describes a Gmail label. Type is "system" or "user".
type Label struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Type           string `json:"type"`
	MessagesTotal  int64  `json:"messages_total"`
	MessagesUnread int64  `json:"messages_unread"`
}

// FilterCriteria mirrors the Gmail filter criteria surface.
type FilterCriteria struct {
	From           string `json:"from,omitempty"`
	To             string `json:"to,omitempty"`
	Subject        string `json:"subject,omitempty"`
	Query          string `json:"query,omitempty"`
	ExcludeChats   bool   `json:"exclude_chats,omitempty"`
	HasAttachment  bool   `json:"has_attachment,omitempty"`
	Size           int64  `json:"size,omitempty"`
	SizeComparison string `json:"size_comparison,omitempty"`
}

// FilterAction mirrors the Gmail filter action surface.
type FilterAction struct {
	AddLabelIDs    []string `json:"add_label_ids,omitempty"`
	RemoveLabelIDs []string `json:"remove_label_ids,omitempty"`
	Forward        string   `json:"forward,omitempty"`
	NeverSpam      bool     `json:"never_spam,omitempty"`
}

// Filter is one mail filter rule.
type Filter struct {
	ID       string         `json:"id"`
	Criteria FilterCriteria `json:"criteria"`
	Action   FilterAction   `json:"action"`
}

// BatchArchiveResult reports the outcome of a batch archive run.
// Per-message failures are collected, not fatal.
type BatchArchiveResult struct {
	ArchivedCount int      `json:"archived_count"`
	TotalFound    int      `json:"total_found"`
	Errors        []string `json:"errors,omitempty"`
}
