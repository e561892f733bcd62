package registry

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestMigrateFromLegacy(t *testing.T) {
	legacy := t.TempDir()
	for _, id := range []string{"personal", "work"} {
		path := filepath.Join(legacy, id+"-credential")
		if err := os.WriteFile(path, []byte(`{"token":"x"}`), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	newRoot := filepath.Join(t.TempDir(), "mailboxes")

	reg, result, err := MigrateFromLegacy(context.Background(), legacy, newRoot, &fakeFactory{}, testLogger())
	if err != nil {
		t.Fatalf("MigrateFromLegacy: %v", err)
	}
	if result.Migrated != 2 {
		t.Errorf("migrated = %d, want 2", result.Migrated)
	}
	if result.Report.Status != "success" {
		t.Errorf("report status = %q", result.Report.Status)
	}
	if got := reg.IDs(); len(got) != 2 {
		t.Errorf("discovered sessions = %v, want 2", got)
	}
}

func TestMigrateFromLegacyEmptySource(t *testing.T) {
	newRoot := filepath.Join(t.TempDir(), "mailboxes")

	reg, result, err := MigrateFromLegacy(context.Background(), t.TempDir(), newRoot, &fakeFactory{}, testLogger())
	if err != nil {
		t.Fatalf("MigrateFromLegacy with empty source: %v", err)
	}
	if result.Migrated != 0 {
		t.Errorf("migrated = %d, want 0", result.Migrated)
	}
	// The new root exists and is usable even though nothing moved.
	if len(reg.IDs()) != 0 {
		t.Errorf("sessions = %v, want none", reg.IDs())
	}
}

func TestMigrateFromLegacyMissingSource(t *testing.T) {
	_, _, err := MigrateFromLegacy(context.Background(),
		filepath.Join(t.TempDir(), "absent"), t.TempDir(), &fakeFactory{}, testLogger())
	if err == nil {
		t.Fatal("expected error for missing legacy directory")
	}
}
