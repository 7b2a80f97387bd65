package classutil

import (
	"sort"
	"strings"

	"github.com/antzucaro/matchr"
)

// Entry is one key of a Schedule with its records in insertion order.
type Entry struct {
	Key      string
	Sessions []SessionRecord
}

// Schedule maps a grouping key to the session records filed under it. Keys
// keep the order in which they were first inserted.
type Schedule struct {
	groupBy  GroupingStrategy
	keys     []string
	sessions map[string][]SessionRecord
}

// NewSchedule creates an empty schedule, a nil strategy groups by course.
func NewSchedule(groupBy GroupingStrategy) *Schedule {
	if groupBy == nil {
		groupBy = GroupByCourse{}
	}
	return &Schedule{
		groupBy:  groupBy,
		sessions: map[string][]SessionRecord{},
	}
}

// RestoreSchedule rebuilds a schedule from previously exported entries.
func RestoreSchedule(groupBy GroupingStrategy, entries []Entry) *Schedule {
	s := NewSchedule(groupBy)
	for _, e := range entries {
		s.insert(e.Key, e.Sessions...)
	}
	return s
}

func (s *Schedule) insert(key string, records ...SessionRecord) {
	existing, ok := s.sessions[key]
	if !ok {
		s.keys = append(s.keys, key)
	}
	s.sessions[key] = append(existing, records...)
}

// AddSession turns a validated row into a record and files it under the keys
// chosen by the grouping strategy. It returns false when nothing was inserted.
func (s *Schedule) AddSession(id CourseIdentity, row SessionRow) bool {
	if len(row) < MinSessionCells || id.Code == "" {
		return false
	}

	record := SessionRecord{
		CourseName:    id.Name,
		ComponentType: ComponentType(row[componentCell]),
		ClassCode:     row[classCodeCell],
		Location:      row[len(row)-1],
	}

	keys := s.groupBy.Keys(id, record)
	for _, key := range keys {
		s.insert(key, record)
	}
	return len(keys) > 0
}

func (s *Schedule) GroupBy() GroupingStrategy {
	return s.groupBy
}

func (s *Schedule) Keys() []string {
	keys := make([]string, len(s.keys))
	copy(keys, s.keys)
	return keys
}

func (s *Schedule) Get(key string) ([]SessionRecord, bool) {
	records, ok := s.sessions[key]
	if !ok {
		return nil, false
	}
	out := make([]SessionRecord, len(records))
	copy(out, records)
	return out, true
}

// Len is the number of keys.
func (s *Schedule) Len() int {
	return len(s.keys)
}

// SessionCount is the number of records across all keys.
func (s *Schedule) SessionCount() int {
	count := 0
	for _, records := range s.sessions {
		count += len(records)
	}
	return count
}

// Entries returns every key with its records, in key insertion order.
func (s *Schedule) Entries() []Entry {
	entries := make([]Entry, 0, len(s.keys))
	for _, key := range s.keys {
		records, _ := s.Get(key)
		entries = append(entries, Entry{Key: key, Sessions: records})
	}
	return entries
}

const minSuggestionSimilarity = 0.7

// Suggest returns up to limit keys that look like the given key, most
// similar first.
func Suggest(keys []string, key string, limit int) []string {
	type candidate struct {
		key        string
		similarity float64
	}

	target := strings.ToUpper(strings.TrimSpace(key))
	candidates := []candidate{}
	for _, k := range keys {
		similarity := matchr.JaroWinkler(target, strings.ToUpper(k), false)
		if similarity < minSuggestionSimilarity {
			continue
		}
		candidates = append(candidates, candidate{key: k, similarity: similarity})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].similarity > candidates[j].similarity
	})

	out := []string{}
	for i := 0; i < len(candidates) && i < limit; i++ {
		out = append(out, candidates[i].key)
	}
	return out
}
