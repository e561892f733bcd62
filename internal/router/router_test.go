package router

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/inboxd/inboxd/internal/mail"
	"github.com/inboxd/inboxd/internal/registry"
	"github.com/inboxd/inboxd/internal/session"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeMail answers label calls from a fixed list and counts remote hits.
// Everything else panics via the embedded nil interface.
type fakeMail struct {
	mail.Service
	labels    []mail.Label
	listCalls int
	listErr   error
}

func (f *fakeMail) ListLabels(ctx context.Context) ([]mail.Label, error) {
	_ = ctx
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.labels, nil
}

type fakeFactory struct {
	mails map[string]*fakeMail
}

func (f *fakeFactory) Obtain(ctx context.Context, credentialPath string) (*session.Session, error) {
	_ = ctx
	id := filepath.Base(filepath.Dir(credentialPath))
	m := f.mails[id]
	if m == nil {
		m = &fakeMail{}
	}
	return &session.Session{Email: id + "@example.com", Mail: m}, nil
}

// newTestRouter adds the given mailboxes through a fake factory; the first
// one becomes current.
func newTestRouter(t *testing.T, mails map[string]*fakeMail, ids ...string) (*Router, *registry.Registry) {
	t.Helper()
	reg := registry.New(t.TempDir(), &fakeFactory{mails: mails}, testLogger())
	for _, id := range ids {
		if _, err := reg.Add(context.Background(), id); err != nil {
			t.Fatalf("add %s: %v", id, err)
		}
	}
	return New(reg, testLogger()), reg
}

func targetIDs(targets []Target) []string {
	ids := make([]string, 0, len(targets))
	for _, tg := range targets {
		ids = append(ids, tg.MailboxID)
	}
	return ids
}

func sameIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name    string
		targets []string
		want    []string
		wantErr error
	}{
		{"nil means current", nil, []string{"alpha"}, nil},
		{"empty means all", []string{}, []string{"alpha", "beta", "gamma"}, nil},
		{"all sentinel", []string{"all"}, []string{"alpha", "beta", "gamma"}, nil},
		{"explicit subset", []string{"gamma", "alpha"}, []string{"gamma", "alpha"}, nil},
		{"unknown dropped", []string{"beta", "ghost"}, []string{"beta"}, nil},
		{"all unknown", []string{"ghost", "phantom"}, nil, ErrNoTargets},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newTestRouter(t, nil, "alpha", "beta", "gamma")
			got, err := r.Resolve(tt.targets)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if !sameIDs(targetIDs(got), tt.want) {
				t.Fatalf("resolved %v, want %v", targetIDs(got), tt.want)
			}
		})
	}
}

func TestResolveNilWithNoCurrent(t *testing.T) {
	reg := registry.New(t.TempDir(), &fakeFactory{}, testLogger())
	r := New(reg, testLogger())

	got, err := r.Resolve(nil)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != nil {
		t.Fatalf("resolved %v, want nothing", got)
	}
}

func TestCurrentErrNoCurrent(t *testing.T) {
	reg := registry.New(t.TempDir(), &fakeFactory{}, testLogger())
	r := New(reg, testLogger())

	if _, err := r.Current(); !errors.Is(err, ErrNoCurrent) {
		t.Fatalf("err = %v, want ErrNoCurrent", err)
	}
}

func TestFanoutTagsResultsInMailboxOrder(t *testing.T) {
	r, reg := newTestRouter(t, nil, "beta", "alpha")

	items := map[string][]string{
		"alpha": {"a1", "a2"},
		"beta":  {"b1"},
	}
	var callOrder []string
	got, err := Fanout(context.Background(), r, []string{"all"}, "list",
		func(ctx context.Context, s *session.Session) ([]string, error) {
			_ = ctx
			var id string
			for _, candidate := range reg.IDs() {
				if sess, _ := reg.Session(candidate); sess == s {
					id = candidate
				}
			}
			callOrder = append(callOrder, id)
			return items[id], nil
		})
	if err != nil {
		t.Fatalf("Fanout: %v", err)
	}

	// All-target fan-out walks mailboxes in sorted id order, one at a time.
	if !sameIDs(callOrder, []string{"alpha", "beta"}) {
		t.Fatalf("call order = %v", callOrder)
	}
	want := []Tagged[string]{
		{MailboxID: "alpha", Item: "a1"},
		{MailboxID: "alpha", Item: "a2"},
		{MailboxID: "beta", Item: "b1"},
	}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("result[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestFanoutSkipsFailingMailbox(t *testing.T) {
	r, reg := newTestRouter(t, nil, "alpha", "beta", "gamma")

	got, err := Fanout(context.Background(), r, []string{"all"}, "list",
		func(ctx context.Context, s *session.Session) ([]string, error) {
			_ = ctx
			if sess, _ := reg.Session("beta"); sess == s {
				return nil, errors.New("transport exhausted")
			}
			return []string{"ok"}, nil
		})
	if err != nil {
		t.Fatalf("Fanout: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d items, want 2: %v", len(got), got)
	}
	for _, item := range got {
		if item.MailboxID == "beta" {
			t.Errorf("failed mailbox contributed a result")
		}
	}
}

func TestFanoutCapsMergedResults(t *testing.T) {
	r, _ := newTestRouter(t, nil, "alpha", "beta")
	r.MaxItems = 3

	got, err := Fanout(context.Background(), r, []string{"all"}, "list",
		func(ctx context.Context, s *session.Session) ([]string, error) {
			_ = ctx
			return []string{"1", "2"}, nil
		})
	if err != nil {
		t.Fatalf("Fanout: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d items, want 3", len(got))
	}
	// Truncation keeps the head of the merged list.
	if got[0].MailboxID != "alpha" || got[2].MailboxID != "beta" {
		t.Errorf("unexpected surviving items: %v", got)
	}
}

func TestFanoutNilTargetsNoCurrentIsEmpty(t *testing.T) {
	reg := registry.New(t.TempDir(), &fakeFactory{}, testLogger())
	r := New(reg, testLogger())

	got, err := Fanout(context.Background(), r, nil, "list",
		func(ctx context.Context, s *session.Session) ([]string, error) {
			t.Fatal("call invoked with no targets")
			return nil, nil
		})
	if err != nil {
		t.Fatalf("Fanout: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("got %v, want empty", got)
	}
}
