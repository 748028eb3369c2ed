// Package state persists the recent-selection history and the metadata of
// the last applied wallpaper.
package state

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"git.asdf.cafe/abs3nt/wallhaven_wallpaper/constants"
	"git.asdf.cafe/abs3nt/wallhaven_wallpaper/errors"
)

// State is the single persisted record. RecentIDs is most-recent-first,
// unique, and never longer than the configured history size.
type State struct {
	RecentIDs  []string  `json:"recent_ids"`
	LastImage  string    `json:"last_image,omitempty"`
	SelectedID string    `json:"selected_id,omitempty"`
	Timestamp  time.Time `json:"timestamp,omitzero"`
}

// UnmarshalJSON also accepts files written by the older Python tool, which
// stored the timestamp as float epoch seconds and the id as wallhaven_id.
func (s *State) UnmarshalJSON(data []byte) error {
	var raw struct {
		RecentIDs   []string        `json:"recent_ids"`
		LastImage   string          `json:"last_image"`
		SelectedID  string          `json:"selected_id"`
		WallhavenID string          `json:"wallhaven_id"`
		Timestamp   json.RawMessage `json:"timestamp"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	ts, err := parseTimestamp(raw.Timestamp)
	if err != nil {
		return err
	}

	*s = State{
		RecentIDs:  raw.RecentIDs,
		LastImage:  raw.LastImage,
		SelectedID: raw.SelectedID,
		Timestamp:  ts,
	}
	if s.SelectedID == "" {
		s.SelectedID = raw.WallhavenID
	}
	return nil
}

// parseTimestamp reads an RFC 3339 string or a number of seconds since the
// epoch. Missing, null and empty values are the zero time.
func parseTimestamp(raw json.RawMessage) (time.Time, error) {
	switch text := string(raw); text {
	case "", "null", `""`:
		return time.Time{}, nil
	}

	if raw[0] == '"' {
		var t time.Time
		if err := t.UnmarshalJSON(raw); err != nil {
			return time.Time{}, fmt.Errorf("timestamp: %w", err)
		}
		return t, nil
	}

	var secs float64
	if err := json.Unmarshal(raw, &secs); err != nil {
		return time.Time{}, fmt.Errorf("timestamp: %w", err)
	}
	whole, frac := math.Modf(secs)
	return time.Unix(int64(whole), int64(math.Round(frac*1e6))*1e3).UTC(), nil
}

// Recent returns the history as a set for membership tests.
func (s State) Recent() map[string]struct{} {
	set := make(map[string]struct{}, len(s.RecentIDs))
	for _, id := range s.RecentIDs {
		set[id] = struct{}{}
	}
	return set
}

// UpdateHistory returns s with id moved to the front of RecentIDs, any
// earlier occurrence removed, truncated to limit entries. s is not modified.
func UpdateHistory(s State, id string, limit int) State {
	if limit <= 0 {
		limit = constants.DefaultHistorySize
	}
	history := make([]string, 0, min(len(s.RecentIDs)+1, limit))
	history = append(history, id)
	for _, existing := range s.RecentIDs {
		if len(history) == limit {
			break
		}
		if existing != id {
			history = append(history, existing)
		}
	}
	s.RecentIDs = history
	return s
}

// Store reads and writes State as JSON at a fixed path.
type Store struct {
	path string
}

// NewStore returns a store backed by the file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file.
func (s *Store) Path() string {
	return s.path
}

// Load returns the persisted state, or an empty State if none exists yet.
func (s *Store) Load() (State, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return State{}, nil
		}
		return State{}, fmt.Errorf("%w: read %s: %v", errors.ErrStateOperation, s.path, err)
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return State{}, fmt.Errorf("%w: parse %s: %v", errors.ErrStateOperation, s.path, err)
	}
	return st, nil
}

// Save overwrites the state file, creating parent directories as needed.
func (s *Store) Save(st State) error {
	if err := os.MkdirAll(filepath.Dir(s.path), constants.DirPermissions); err != nil {
		return fmt.Errorf("%w: create state directory: %v", errors.ErrStateOperation, err)
	}
	if st.RecentIDs == nil {
		st.RecentIDs = []string{}
	}

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode state: %v", errors.ErrStateOperation, err)
	}
	if err := os.WriteFile(s.path, append(data, '\n'), constants.FilePermissions); err != nil {
		return fmt.Errorf("%w: write %s: %v", errors.ErrStateOperation, s.path, err)
	}
	return nil
}
