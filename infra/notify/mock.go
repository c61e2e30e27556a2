package notify

import (
	"fmt"
	"sync"

	corenotify "github.com/careops/bookd/core/notify"
)

// MockNotifier records notices in memory. It is used in tests.
type MockNotifier struct {
	mu            sync.Mutex
	Notices       map[string]corenotify.ProviderNotice
	Summaries     []corenotify.CycleSummary
	FailProviders map[string]bool
	Closed        bool
}

// NewMockNotifier creates a new MockNotifier.
func NewMockNotifier() *MockNotifier {
	return &MockNotifier{
		Notices:       make(map[string]corenotify.ProviderNotice),
		FailProviders: make(map[string]bool),
	}
}

// NotifyProvider records the notice or returns an error if configured to fail.
func (m *MockNotifier) NotifyProvider(n corenotify.ProviderNotice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailProviders[n.Provider] {
		return fmt.Errorf("publish failed")
	}
	m.Notices[n.Provider] = n
	return nil
}

// NotifyCycle records the summary.
func (m *MockNotifier) NotifyCycle(s corenotify.CycleSummary) error {
	m.mu.Lock()
	m.Summaries = append(m.Summaries, s)
	m.mu.Unlock()
	return nil
}

// Close marks the notifier closed.
func (m *MockNotifier) Close() error {
	m.mu.Lock()
	m.Closed = true
	m.mu.Unlock()
	return nil
}

// Summary returns a copy of the recorded summaries.
func (m *MockNotifier) Summary() []corenotify.CycleSummary {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]corenotify.CycleSummary, len(m.Summaries))
	copy(out, m.Summaries)
	return out
}
