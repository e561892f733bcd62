package store

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// legacyCredentialSuffix names the flat credential files of the old layout:
// one "<mailbox_id>-credential" file per mailbox, no cache directory.
const legacyCredentialSuffix = "-credential"

// MigrateLegacy copies every legacy credential file under legacyDir into a
// new-layout mailbox record under rootDir and returns how many mailboxes
// were migrated. A single bad file is logged and skipped; a missing source
// directory is a structural error.
func MigrateLegacy(legacyDir, rootDir string, log *slog.Logger) (int, error) {
	if log == nil {
		log = slog.Default()
	}

	info, err := os.Stat(legacyDir)
	if err != nil || !info.IsDir() {
		return 0, fmt.Errorf("legacy credential directory does not exist: %s", legacyDir)
	}

	entries, err := os.ReadDir(legacyDir)
	if err != nil {
		return 0, fmt.Errorf("read legacy directory: %w", err)
	}

	migrated := 0
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, legacyCredentialSuffix) {
			continue
		}
		mailboxID := strings.TrimSuffix(name, legacyCredentialSuffix)
		if mailboxID == "" {
			continue
		}

		dst := New(filepath.Join(rootDir, mailboxID), log)
		if err := migrateOne(filepath.Join(legacyDir, name), dst); err != nil {
			log.Error("migrate mailbox", "mailbox", mailboxID, "error", err)
			continue
		}
		log.Info("migrated mailbox credential", "mailbox", mailboxID, "path", dst.CredentialPath())
		migrated++
	}

	log.Info("legacy migration finished", "migrated", migrated, "from", legacyDir, "to", rootDir)
	return migrated, nil
}

func migrateOne(src string, dst *Store) error {
	if err := dst.EnsureLayout(); err != nil {
		return fmt.Errorf("create layout: %w", err)
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open legacy credential: %w", err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst.CredentialPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("create credential: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy credential: %w", err)
	}
	return nil
}
