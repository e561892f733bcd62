package mail

import "context"

// Service is the capability set one authenticated session exposes.
// Every method is a stateless translation to a remote call; errors come
// back wrapped with the failing operation so callers can report them
// without string-sniffing payloads.
type Service interface {
	// Message operations.
	Unread(ctx context.Context, max int64) ([]EmailSummary, error)
	Search(ctx context.Context, query string, max int64) ([]EmailSummary, error)
	Send(ctx context.Context, to, subject, body string) (string, error)
	Read(ctx context.Context, id string) (*Email, error)
	Trash(ctx context.Context, id string) error
	MarkRead(ctx context.Context, id string) error
	Archive(ctx context.Context, id string) error
	Restore(ctx context.Context, id string) error
	MoveToFolder(ctx context.Context, id, folderID string) error
	BatchArchive(ctx context.Context, query string, max int64) (BatchArchiveResult, error)
	ListArchived(ctx context.Context, max int64) ([]EmailSummary, error)

	// Draft operations.
	CreateDraft(ctx context.Context, to, subject, body string) (*Draft, error)
	ListDrafts(ctx context.Context) ([]Draft, error)

	// Label operations. Folders are user labels.
	ListLabels(ctx context.Context) ([]Label, error)
	CreateLabel(ctx context.Context, name string) (*Label, error)
	ApplyLabel(ctx context.Context, id, labelID string) error
	RemoveLabel(ctx context.Context, id, labelID string) error
	RenameLabel(ctx context.Context, labelID, newName string) (*Label, error)
	DeleteLabel(ctx context.Context, labelID string) error
	SearchByLabel(ctx context.Context, labelID string, max int64) ([]EmailSummary, error)
	ListFolders(ctx context.Context) ([]Label, error)

	// Filter operations.
	ListFilters(ctx context.Context) ([]Filter, error)
	GetFilter(ctx context.Context, id string) (*Filter, error)
	CreateFilter(ctx context.Context, criteria FilterCriteria, action FilterAction) (*Filter, error)
	DeleteFilter(ctx context.Context, id string) error
}
