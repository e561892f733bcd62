package registry

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/inboxd/inboxd/internal/mail"
	"github.com/inboxd/inboxd/internal/session"
	"github.com/inboxd/inboxd/internal/store"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeMail satisfies mail.Service for wiring; tests here never invoke it.
type fakeMail struct{ mail.Service }

// fakeFactory derives the mailbox id from the credential path's parent
// directory and fails for ids listed in errs.
type fakeFactory struct {
	errs  map[string]error
	calls []string
}

func (f *fakeFactory) Obtain(ctx context.Context, credentialPath string) (*session.Session, error) {
	_ = ctx
	id := filepath.Base(filepath.Dir(credentialPath))
	f.calls = append(f.calls, id)
	if err, ok := f.errs[id]; ok {
		return nil, err
	}
	return &session.Session{Email: id + "@example.com", Mail: fakeMail{}}, nil
}

func seedMailbox(t *testing.T, root, id string, withCredential bool) {
	t.Helper()
	s := store.New(filepath.Join(root, id), testLogger())
	if err := s.EnsureLayout(); err != nil {
		t.Fatal(err)
	}
	if withCredential {
		if err := os.WriteFile(s.CredentialPath(), []byte(`{"token":"x"}`), 0o600); err != nil {
			t.Fatal(err)
		}
	}
}

func TestDiscoverMissingRoot(t *testing.T) {
	r := New(filepath.Join(t.TempDir(), "nope"), &fakeFactory{}, testLogger())

	report, err := r.Discover(context.Background())
	if err == nil {
		t.Fatal("expected error for missing root")
	}
	if report.Status != "error" {
		t.Errorf("report status = %q, want error", report.Status)
	}
}

func TestDiscoverEmptyRoot(t *testing.T) {
	r := New(t.TempDir(), &fakeFactory{}, testLogger())

	report, err := r.Discover(context.Background())
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if report.Status != "success" {
		t.Errorf("status = %q, want success", report.Status)
	}
	if len(report.Discovered) != 0 {
		t.Errorf("discovered = %v, want none", report.Discovered)
	}
	if report.Message != "empty mailbox directory - ready for new mailbox creation" {
		t.Errorf("message = %q", report.Message)
	}
}

func TestDiscoverStatuses(t *testing.T) {
	root := t.TempDir()
	seedMailbox(t, root, "ok", true)
	seedMailbox(t, root, "nocred", false)
	seedMailbox(t, root, "broken", true)
	factory := &fakeFactory{errs: map[string]error{
		"broken": errors.New("token refresh rejected"),
	}}
	r := New(root, factory, testLogger())

	report, err := r.Discover(context.Background())
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if report.Status != "success" {
		t.Fatalf("scan-level status = %q, want success", report.Status)
	}
	if report.Message != "discovered 1 valid mailboxes" {
		t.Errorf("message = %q", report.Message)
	}

	byID := map[string]MailboxStatus{}
	for _, st := range report.Discovered {
		byID[st.MailboxID] = st
	}
	if got := byID["ok"].Status; got != StatusLoaded {
		t.Errorf("ok status = %q, want %q", got, StatusLoaded)
	}
	if byID["ok"].Email != "ok@example.com" {
		t.Errorf("ok email = %q", byID["ok"].Email)
	}
	if got := byID["nocred"].Status; got != StatusMissingCredential {
		t.Errorf("nocred status = %q, want %q", got, StatusMissingCredential)
	}
	if got := byID["broken"].Status; got != StatusServiceError {
		t.Errorf("broken status = %q, want %q", got, StatusServiceError)
	}

	// Only loaded mailboxes get sessions; every directory gets a store.
	if got := r.IDs(); len(got) != 1 || got[0] != "ok" {
		t.Errorf("IDs = %v, want [ok]", got)
	}
	for _, id := range []string{"ok", "nocred", "broken"} {
		if _, present := r.Store(id); !present {
			t.Errorf("store missing for %s", id)
		}
	}

	// No credential, no factory call.
	for _, id := range factory.calls {
		if id == "nocred" {
			t.Errorf("factory called for credential-less mailbox")
		}
	}
}

func TestDiscoverSeedsProfileCache(t *testing.T) {
	root := t.TempDir()
	seedMailbox(t, root, "ok", true)
	r := New(root, &fakeFactory{}, testLogger())

	if _, err := r.Discover(context.Background()); err != nil {
		t.Fatal(err)
	}

	st, _ := r.Store("ok")
	profile := st.LoadProfileCache()
	if profile == nil {
		t.Fatal("profile cache not seeded")
	}
	if profile["emailAddress"] != "ok@example.com" {
		t.Errorf("emailAddress = %v", profile["emailAddress"])
	}
}

func TestDiscoverUnchangedRootIsStable(t *testing.T) {
	root := t.TempDir()
	seedMailbox(t, root, "ok", true)
	seedMailbox(t, root, "nocred", false)
	seedMailbox(t, root, "broken", true)
	factory := &fakeFactory{errs: map[string]error{"broken": errors.New("refresh rejected")}}
	r := New(root, factory, testLogger())

	statuses := func(report DiscoveryReport) map[string]string {
		out := make(map[string]string, len(report.Discovered))
		for _, st := range report.Discovered {
			out[st.MailboxID] = st.Status
		}
		return out
	}

	first, err := r.Discover(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	second, err := r.Discover(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	// Rescanning an untouched root changes nothing.
	a, b := statuses(first), statuses(second)
	if len(a) != 3 || len(b) != 3 {
		t.Fatalf("scan sizes = %d, %d, want 3", len(a), len(b))
	}
	for id, status := range a {
		if b[id] != status {
			t.Errorf("mailbox %s: first scan %q, second scan %q", id, status, b[id])
		}
	}
	if first.Message != second.Message {
		t.Errorf("messages differ: %q vs %q", first.Message, second.Message)
	}
	if got := r.IDs(); len(got) != 1 || got[0] != "ok" {
		t.Errorf("IDs after rescan = %v, want [ok]", got)
	}
}

func TestDiscoverRebuildsAndClearsCurrent(t *testing.T) {
	root := t.TempDir()
	seedMailbox(t, root, "a", true)
	seedMailbox(t, root, "b", true)
	r := New(root, &fakeFactory{}, testLogger())

	if _, err := r.Discover(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !r.Switch("b") {
		t.Fatal("switch to b")
	}

	if err := os.RemoveAll(filepath.Join(root, "b")); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Discover(context.Background()); err != nil {
		t.Fatal(err)
	}

	if got := r.IDs(); len(got) != 1 || got[0] != "a" {
		t.Errorf("IDs after rescan = %v, want [a]", got)
	}
	if r.CurrentID() != "" {
		t.Errorf("current = %q after its mailbox vanished, want empty", r.CurrentID())
	}
}

func TestAddFirstBecomesCurrent(t *testing.T) {
	r := New(t.TempDir(), &fakeFactory{}, testLogger())

	res, err := r.Add(context.Background(), "personal")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if res.CurrentMailbox != "personal" || r.CurrentID() != "personal" {
		t.Errorf("first add did not become current: %+v", res)
	}
	if res.Email != "personal@example.com" {
		t.Errorf("email = %q", res.Email)
	}

	res2, err := r.Add(context.Background(), "work")
	if err != nil {
		t.Fatalf("second Add: %v", err)
	}
	if res2.CurrentMailbox != "personal" {
		t.Errorf("second add stole current: %+v", res2)
	}
	if res2.TotalMailboxes != 2 {
		t.Errorf("total = %d, want 2", res2.TotalMailboxes)
	}
}

func TestAddFailureInsertsNothing(t *testing.T) {
	factory := &fakeFactory{errs: map[string]error{"bad": errors.New("authorization declined")}}
	r := New(t.TempDir(), factory, testLogger())

	if _, err := r.Add(context.Background(), "bad"); err == nil {
		t.Fatal("expected Add to fail")
	}
	if len(r.IDs()) != 0 {
		t.Errorf("failed add left sessions: %v", r.IDs())
	}
	if _, present := r.Store("bad"); present {
		t.Errorf("failed add left a store entry")
	}
	if r.CurrentID() != "" {
		t.Errorf("failed add set current = %q", r.CurrentID())
	}
}

func TestSwitch(t *testing.T) {
	r := New(t.TempDir(), &fakeFactory{}, testLogger())
	if _, err := r.Add(context.Background(), "a"); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Add(context.Background(), "b"); err != nil {
		t.Fatal(err)
	}

	if !r.Switch("b") || r.CurrentID() != "b" {
		t.Errorf("switch to known mailbox failed")
	}
	if r.Switch("ghost") {
		t.Errorf("switch to unknown mailbox reported success")
	}
	if r.CurrentID() != "b" {
		t.Errorf("failed switch changed current to %q", r.CurrentID())
	}
}

func TestList(t *testing.T) {
	root := t.TempDir()
	seedMailbox(t, root, "ok", true)
	seedMailbox(t, root, "nocred", false)
	r := New(root, &fakeFactory{}, testLogger())
	if _, err := r.Discover(context.Background()); err != nil {
		t.Fatal(err)
	}
	r.Switch("ok")

	infos := r.List()
	if len(infos) != 2 {
		t.Fatalf("List = %v, want 2 entries", infos)
	}
	// Sorted by id: nocred, ok.
	if infos[0].MailboxID != "nocred" || infos[0].Loaded {
		t.Errorf("nocred entry = %+v", infos[0])
	}
	if infos[1].MailboxID != "ok" || !infos[1].Loaded || !infos[1].Current {
		t.Errorf("ok entry = %+v", infos[1])
	}
}

func TestRefreshCacheUnknown(t *testing.T) {
	r := New(t.TempDir(), &fakeFactory{}, testLogger())
	if r.RefreshCache("ghost") {
		t.Error("refresh for unknown mailbox reported success")
	}
}
