// Package leaderboard keeps per-mode win counts in a JSON file.
package leaderboard

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// Record is one player's stored result in one mode.
type Record struct {
	Wins int     `json:"wins"`
	Last float64 `json:"last"` // unix seconds of the most recent win
}

// Entry is a ranked row returned by Top.
type Entry struct {
	Name string  `json:"name"`
	Wins int     `json:"wins"`
	Last float64 `json:"last"`
	Rank int     `json:"rank"`
}

// Store is a mode → name → Record table persisted to a JSON file after
// every win. It is safe for concurrent use.
type Store struct {
	mu   sync.RWMutex
	path string
	data map[string]map[string]*Record

	now func() time.Time
}

// Open loads the store at path. A missing file starts empty; an unreadable
// or corrupt one also starts empty but the error is returned so the caller
// can log it.
func Open(path string) (*Store, error) {
	s := &Store{
		path: path,
		data: make(map[string]map[string]*Record),
		now:  time.Now,
	}
	if path == "" {
		return s, nil
	}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return s, errors.Wrapf(err, "read leaderboard %s", path)
	}
	if len(raw) == 0 {
		return s, nil
	}

	var data map[string]map[string]*Record
	if err := json.Unmarshal(raw, &data); err != nil {
		return s, errors.Wrapf(err, "parse leaderboard %s", path)
	}
	if data == nil {
		// A literal null decodes without error.
		return s, nil
	}
	for mode, names := range data {
		for name, rec := range names {
			if rec == nil {
				delete(names, name)
			}
		}
		if names == nil {
			delete(data, mode)
		}
	}
	s.data = data
	return s, nil
}

// Path returns the backing file, empty for an in-memory store.
func (s *Store) Path() string {
	return s.path
}

// RecordWin adds one win for name in mode and saves the file. Blank names
// are ignored. The in-memory count is kept even when saving fails.
func (s *Store) RecordWin(mode, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	names, ok := s.data[mode]
	if !ok {
		names = make(map[string]*Record)
		s.data[mode] = names
	}
	rec, ok := names[name]
	if !ok {
		rec = &Record{}
		names[name] = rec
	}
	rec.Wins++
	rec.Last = float64(s.now().UnixNano()) / 1e9

	return s.saveLocked()
}

// Wins returns the win count for name in mode.
func (s *Store) Wins(mode, name string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if rec, ok := s.data[mode][name]; ok {
		return rec.Wins
	}
	return 0
}

// Top returns up to limit entries for mode, most wins first. Ties are
// broken by name so the order is stable. limit <= 0 returns every entry.
func (s *Store) Top(mode string, limit int) []Entry {
	s.mu.RLock()
	entries := make([]Entry, 0, len(s.data[mode]))
	for name, rec := range s.data[mode] {
		entries = append(entries, Entry{Name: name, Wins: rec.Wins, Last: rec.Last})
	}
	s.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Wins != entries[j].Wins {
			return entries[i].Wins > entries[j].Wins
		}
		return entries[i].Name < entries[j].Name
	})

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

// Modes returns every mode with at least one recorded win, sorted.
func (s *Store) Modes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	modes := make([]string, 0, len(s.data))
	for m := range s.data {
		modes = append(modes, m)
	}
	sort.Strings(modes)
	return modes
}

// saveLocked writes the table through a temp file and rename. Caller
// holds mu.
func (s *Store) saveLocked() error {
	if s.path == "" {
		return nil
	}

	data, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode leaderboard")
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".leaderboard-*.json")
	if err != nil {
		return errors.Wrapf(err, "save leaderboard %s", s.path)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return errors.Wrapf(err, "write leaderboard %s", s.path)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrapf(err, "write leaderboard %s", s.path)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrapf(err, "save leaderboard %s", s.path)
	}
	return nil
}
