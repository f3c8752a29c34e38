package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"eventpipe/internal/models"
)

// Load reads the canonical dataset file. A missing file yields an
// empty dataset, not an error.
func Load(path string) ([]models.Event, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []models.Event{}, nil
		}

		return nil, fmt.Errorf("read dataset: %w", err)
	}

	var events []models.Event
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("parse dataset: %w", err)
	}

	return events, nil
}

// Query holds the read contract's filter parameters.
type Query struct {
	Category string
	City     string
	Source   string
	Text     string
	Start    *time.Time
	End      *time.Time
	Limit    int
	Offset   int
}

// Filter applies the query to an event set and returns matches sorted
// by start time ascending. Category matches exactly against the
// enumeration, city case-insensitively, text as a substring over
// title and description.
func Filter(events []models.Event, q Query) []models.Event {
	matched := make([]models.Event, 0, len(events))

	text := strings.ToLower(strings.TrimSpace(q.Text))

	for _, e := range events {
		if q.Category != "" && string(e.Category) != q.Category {
			continue
		}

		if q.City != "" && !strings.EqualFold(e.Location.City, q.City) {
			continue
		}

		if q.Source != "" && !eventHasSource(e, q.Source) {
			continue
		}

		if q.Start != nil && e.StartDatetime.Before(*q.Start) {
			continue
		}

		if q.End != nil && e.StartDatetime.After(*q.End) {
			continue
		}

		if text != "" {
			haystack := strings.ToLower(e.Title + " " + e.Description)
			if !strings.Contains(haystack, text) {
				continue
			}
		}

		matched = append(matched, e)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].StartDatetime.Before(matched[j].StartDatetime)
	})

	if q.Offset > 0 {
		if q.Offset >= len(matched) {
			return []models.Event{}
		}

		matched = matched[q.Offset:]
	}

	if q.Limit > 0 && q.Limit < len(matched) {
		matched = matched[:q.Limit]
	}

	return matched
}

func eventHasSource(e models.Event, source string) bool {
	for _, p := range e.Provenance {
		if strings.EqualFold(p.SourceName, source) {
			return true
		}
	}

	return false
}

// CountByCategory aggregates events per category value.
func CountByCategory(events []models.Event) map[string]int {
	counts := make(map[string]int)

	for _, e := range events {
		counts[string(e.Category)]++
	}

	return counts
}

// CountBySource aggregates events per contributing source name.
func CountBySource(events []models.Event) map[string]int {
	counts := make(map[string]int)

	for _, e := range events {
		for _, p := range e.Provenance {
			counts[p.SourceName]++
		}
	}

	return counts
}

// Store serves the dataset to the read API, reloading the file when
// its modification time changes.
type Store struct {
	path string

	mu     sync.RWMutex
	events []models.Event
	mtime  time.Time
}

// NewStore creates a store over the dataset path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Events returns the current dataset, reloading it if the file on
// disk changed since the last read.
func (s *Store) Events() ([]models.Event, error) {
	info, err := os.Stat(s.path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("stat dataset: %w", err)
	}

	var mtime time.Time
	if err == nil {
		mtime = info.ModTime()
	}

	s.mu.RLock()
	if !mtime.After(s.mtime) && s.events != nil {
		events := s.events
		s.mu.RUnlock()

		return events, nil
	}
	s.mu.RUnlock()

	events, err := Load(s.path)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.events = events
	s.mtime = mtime
	s.mu.Unlock()

	return events, nil
}
