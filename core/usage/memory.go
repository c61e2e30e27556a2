package usage

import (
	"sort"
	"sync"
	"time"
)

// MemoryStore keeps usage records in memory.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string]map[time.Time]*Record
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: map[string]map[time.Time]*Record{}}
}

// Add inserts or updates the record aggregated by day and provider.
func (s *MemoryStore) Add(r Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data[r.Provider] == nil {
		s.data[r.Provider] = map[time.Time]*Record{}
	}
	d := Day(r.Date)
	rec := s.data[r.Provider][d]
	if rec == nil {
		rec = &Record{Provider: r.Provider, Date: d}
		s.data[r.Provider][d] = rec
	}
	rec.Placed += r.Placed
	rec.Cycles += r.Cycles
	return nil
}

// Query returns records between start and end inclusive, ordered by day.
func (s *MemoryStore) Query(provider string, start, end time.Time) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	start = Day(start)
	end = Day(end)
	var res []Record
	for d, r := range s.data[provider] {
		if d.Before(start) || d.After(end) {
			continue
		}
		res = append(res, *r)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Date.Before(res[j].Date) })
	return res, nil
}
