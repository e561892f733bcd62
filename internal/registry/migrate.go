package registry

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/inboxd/inboxd/internal/session"
	"github.com/inboxd/inboxd/internal/store"
)

// MigrationResult reports a completed legacy migration.
type MigrationResult struct {
	Migrated int             `json:"migrated"`
	Report   DiscoveryReport `json:"report"`
}

// MigrateFromLegacy copies flat legacy credential files into the new
// per-mailbox layout under newRoot, then builds and discovers a fresh
// registry rooted there. A missing legacy directory is a structural error;
// individual bad credential files are skipped.
func MigrateFromLegacy(ctx context.Context, legacyDir, newRoot string, factory session.Factory, log *slog.Logger) (*Registry, MigrationResult, error) {
	if err := os.MkdirAll(newRoot, 0o700); err != nil {
		return nil, MigrationResult{}, fmt.Errorf("create mailbox root: %w", err)
	}
	migrated, err := store.MigrateLegacy(legacyDir, newRoot, log)
	if err != nil {
		return nil, MigrationResult{}, err
	}

	reg := New(newRoot, factory, log)
	report, err := reg.Discover(ctx)
	if err != nil {
		return nil, MigrationResult{Migrated: migrated, Report: report}, err
	}
	return reg, MigrationResult{Migrated: migrated, Report: report}, nil
}
