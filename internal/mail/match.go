package mail

import (
	"sort"
	"strings"
)

// LabelMatch is one fuzzy-match candidate for a user-supplied label name.
type LabelMatch struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Type  string `json:"type"`
	Score int    `json:"match_score"`
}

// MatchLabels scores labels against an approximate name and returns up to
// max candidates, best first. Ties keep first-seen order.
//
// Scoring: 100 exact, 90 prefix, 80 path-segment prefix, 70 substring,
// 60 reverse substring for short labels, 50 path-segment substring,
// 30 shared-character fallback.
func MatchLabels(labels []Label, term string, max int) []LabelMatch {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return nil
	}

	var matches []LabelMatch
	for _, l := range labels {
		score := scoreLabel(strings.ToLower(l.Name), term, len(l.Name))
		if score == 0 {
			continue
		}
		matches = append(matches, LabelMatch{ID: l.ID, Name: l.Name, Type: l.Type, Score: score})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if max > 0 && len(matches) > max {
		matches = matches[:max]
	}
	return matches
}

func scoreLabel(name, term string, nameLen int) int {
	switch {
	case name == term:
		return 100
	case strings.HasPrefix(name, term):
		return 90
	case segmentHasPrefix(name, term):
		return 80
	case strings.Contains(name, term):
		return 70
	case strings.Contains(term, name) && nameLen >= 3:
		return 60
	case segmentContains(name, term):
		return 50
	case sharedChars(name, term):
		return 30
	}
	return 0
}

func segmentHasPrefix(name, term string) bool {
	for _, seg := range strings.Split(name, "/") {
		if strings.HasPrefix(seg, term) {
			return true
		}
	}
	return false
}

func segmentContains(name, term string) bool {
	for _, seg := range strings.Split(name, "/") {
		if strings.Contains(seg, term) {
			return true
		}
	}
	return false
}

// sharedChars is a last-resort similarity check: enough distinct characters
// of the search term must appear in the label name.
func sharedChars(name, term string) bool {
	common := map[rune]bool{}
	for _, r := range term {
		if strings.ContainsRune(name, r) {
			common[r] = true
		}
	}
	need := len(term) / 2
	if need > 3 {
		need = 3
	}
	return need > 0 && len(common) >= need
}
