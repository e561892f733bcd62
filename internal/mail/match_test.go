package mail

import "testing"

func label(id, name string) Label {
	return Label{ID: id, Name: name, Type: "user"}
}

func TestMatchLabelsScoring(t *testing.T) {
	tests := []struct {
		name      string
		labels    []Label
		term      string
		wantName  string
		wantScore int
	}{
		{
			name:      "exact",
			labels:    []Label{label("1", "Work")},
			term:      "work",
			wantName:  "Work",
			wantScore: 100,
		},
		{
			name:      "prefix",
			labels:    []Label{label("1", "Workflows")},
			term:      "work",
			wantName:  "Workflows",
			wantScore: 90,
		},
		{
			name:      "segment prefix",
			labels:    []Label{label("1", "Clients/Acme Corp")},
			term:      "acme",
			wantName:  "Clients/Acme Corp",
			wantScore: 80,
		},
		{
			name:      "substring",
			labels:    []Label{label("1", "My Work Stuff")},
			term:      "work",
			wantName:  "My Work Stuff",
			wantScore: 70,
		},
		{
			name:      "term contains short label",
			labels:    []Label{label("1", "Tax")},
			term:      "my taxes",
			wantName:  "Tax",
			wantScore: 60,
		},
		{
			name:      "shared characters",
			labels:    []Label{label("1", "Receipts")},
			term:      "recpt",
			wantName:  "Receipts",
			wantScore: 30,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchLabels(tt.labels, tt.term, 0)
			if len(got) != 1 {
				t.Fatalf("got %d matches, want 1: %v", len(got), got)
			}
			if got[0].Name != tt.wantName || got[0].Score != tt.wantScore {
				t.Fatalf("got %s score %d, want %s score %d",
					got[0].Name, got[0].Score, tt.wantName, tt.wantScore)
			}
		})
	}
}

func TestMatchLabelsBestFirstStableTies(t *testing.T) {
	labels := []Label{
		label("1", "Workouts"),
		label("2", "Homework"),
		label("3", "Work"),
		label("4", "Workshops"),
	}

	got := MatchLabels(labels, "work", 0)
	if len(got) != 4 {
		t.Fatalf("got %d matches, want 4", len(got))
	}
	if got[0].Name != "Work" || got[0].Score != 100 {
		t.Fatalf("best match = %s (%d), want Work (100)", got[0].Name, got[0].Score)
	}
	// Both prefix matches score 90; first-seen order wins the tie.
	if got[1].Name != "Workouts" || got[2].Name != "Workshops" {
		t.Fatalf("tie order = %s, %s; want Workouts, Workshops", got[1].Name, got[2].Name)
	}
	if got[3].Name != "Homework" || got[3].Score != 70 {
		t.Fatalf("last = %s (%d), want Homework (70)", got[3].Name, got[3].Score)
	}
}

func TestMatchLabelsLimit(t *testing.T) {
	labels := []Label{
		label("1", "Work"),
		label("2", "Workouts"),
		label("3", "Workshops"),
	}
	got := MatchLabels(labels, "work", 2)
	if len(got) != 2 {
		t.Fatalf("got %d matches, want 2", len(got))
	}
}

func TestMatchLabelsNoMatch(t *testing.T) {
	labels := []Label{label("1", "Receipts")}
	if got := MatchLabels(labels, "zzz", 0); len(got) != 0 {
		t.Fatalf("expected no matches, got %v", got)
	}
}

func TestMatchLabelsBlankTerm(t *testing.T) {
	labels := []Label{label("1", "Work")}
	for _, term := range []string{"", "   "} {
		if got := MatchLabels(labels, term, 0); got != nil {
			t.Fatalf("term %q: expected nil, got %v", term, got)
		}
	}
}

func TestMatchLabelsCaseInsensitive(t *testing.T) {
	labels := []Label{label("1", "WORK")}
	got := MatchLabels(labels, "WoRk", 0)
	if len(got) != 1 || got[0].Score != 100 {
		t.Fatalf("case-insensitive exact match failed: %v", got)
	}
}
