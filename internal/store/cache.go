package store

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
)

// cacheVersion tags the envelope schema written by this build.
const cacheVersion = "1.0"

type labelEnvelope struct {
	CapturedAt int64             `json:"capturedAt"`
	Version    string            `json:"version"`
	Labels     map[string]string `json:"labels"`
}

type profileEnvelope struct {
	CapturedAt int64          `json:"capturedAt"`
	Version    string         `json:"version"`
	Profile    map[string]any `json:"profile"`
}

func fresh(capturedAt int64) bool {
	return time.Since(time.Unix(capturedAt, 0)) < cacheTTL
}

// LoadLabelCache returns the cached label id to name mapping. A missing,
// unreadable, malformed, or stale cache returns an empty map.
func (s *Store) LoadLabelCache() map[string]string {
	data, err := os.ReadFile(s.labelsPath())
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn("read labels cache", "path", s.labelsPath(), "error", err)
		}
		return map[string]string{}
	}

	var env labelEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		s.log.Warn("parse labels cache", "path", s.labelsPath(), "error", err)
		return map[string]string{}
	}
	if !fresh(env.CapturedAt) {
		s.log.Info("labels cache expired", "path", s.labelsPath())
		return map[string]string{}
	}
	if env.Labels == nil {
		return map[string]string{}
	}
	return env.Labels
}

// SaveLabelCache persists the label mapping atomically. Write failures are
// logged and swallowed; a lost cache write costs one extra remote fetch.
func (s *Store) SaveLabelCache(labels map[string]string) {
	env := labelEnvelope{CapturedAt: time.Now().Unix(), Version: cacheVersion, Labels: labels}
	if err := s.writeAtomic(s.labelsPath(), env); err != nil {
		s.log.Error("save labels cache", "path", s.labelsPath(), "error", err)
		return
	}
	s.log.Info("cached labels", "count", len(labels), "path", s.labelsPath())
}

// LoadProfileCache returns the cached profile attributes, or nil on a miss.
func (s *Store) LoadProfileCache() map[string]any {
	data, err := os.ReadFile(s.profilePath())
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn("read profile cache", "path", s.profilePath(), "error", err)
		}
		return nil
	}

	var env profileEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		s.log.Warn("parse profile cache", "path", s.profilePath(), "error", err)
		return nil
	}
	if !fresh(env.CapturedAt) {
		return nil
	}
	return env.Profile
}

// SaveProfileCache persists profile attributes with the same atomic-write
// and non-fatal contract as SaveLabelCache.
func (s *Store) SaveProfileCache(profile map[string]any) {
	env := profileEnvelope{CapturedAt: time.Now().Unix(), Version: cacheVersion, Profile: profile}
	if err := s.writeAtomic(s.profilePath(), env); err != nil {
		s.log.Error("save profile cache", "path", s.profilePath(), "error", err)
		return
	}
}

// writeAtomic serializes v to a uniquely named sibling temp file and renames
// it over path. Readers see either the old content or the new, never a
// partial write.
func (s *Store) writeAtomic(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	tmp := fmt.Sprintf("%s.%s.tmp", path, uuid.NewString())
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write temp: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}
