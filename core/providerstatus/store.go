package providerstatus

import (
	"sort"
	"sync"
	"time"

	"github.com/careops/bookd/core/model"
)

// LastAssignment mirrors the summary of an assignment decision for one provider.
type LastAssignment struct {
	CycleID   string         `json:"cycle_id"`
	Strategy  string         `json:"strategy"`
	Placed    int            `json:"placed"`
	BySlot    map[string]int `json:"by_slot,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// Status captures the current known state of a provider.
type Status struct {
	ProviderName   string             `json:"provider_name"`
	Categories     []model.CategoryID `json:"categories,omitempty"`
	Capacity       int                `json:"capacity"`
	Sink           bool               `json:"sink,omitempty"`
	CurrentStatus  string             `json:"current_status"`
	LastAssignment LastAssignment     `json:"last_assignment"`
}

type Filter struct {
	Category model.CategoryID
	Status   string
}

type Store interface {
	Set(Status)
	List(Filter) []Status
	RecordAssignment(name string, a LastAssignment)
}

type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]Status
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: map[string]Status{}}
}

func (s *MemoryStore) Set(st Status) {
	s.mu.Lock()
	s.data[st.ProviderName] = st
	s.mu.Unlock()
}

func (s *MemoryStore) RecordAssignment(name string, a LastAssignment) {
	s.mu.Lock()
	st := s.data[name]
	if st.ProviderName == "" {
		st.ProviderName = name
	}
	st.LastAssignment = a
	if a.Placed > 0 {
		st.CurrentStatus = "assigned"
	} else {
		st.CurrentStatus = "idle"
	}
	s.data[name] = st
	s.mu.Unlock()
}

func (s *MemoryStore) List(f Filter) []Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]Status, 0, len(s.data))
	for _, st := range s.data {
		if f.Category != "" && !hasCategory(st, f.Category) {
			continue
		}
		if f.Status != "" && st.CurrentStatus != f.Status {
			continue
		}
		res = append(res, st)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ProviderName < res[j].ProviderName })
	return res
}

func hasCategory(st Status, id model.CategoryID) bool {
	if st.Sink {
		return true
	}
	for _, c := range st.Categories {
		if c == id {
			return true
		}
	}
	return false
}
