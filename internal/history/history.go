package history

import (
	"context"
	"sync"
)

// ReadHistory is the ordered, duplicate-free list of headlines one session
// has opened. It is safe for concurrent use.
type ReadHistory struct {
	mu      sync.RWMutex
	entries []string
	seen    map[string]struct{}
}

// New returns a history seeded with entries, dropping duplicates and
// empty strings while keeping first-seen order.
func New(entries ...string) *ReadHistory {
	h := &ReadHistory{seen: make(map[string]struct{}, len(entries))}
	for _, e := range entries {
		h.AppendIfAbsent(e)
	}
	return h
}

// AppendIfAbsent appends title unless it is empty or already present.
// It reports whether the history changed.
func (h *ReadHistory) AppendIfAbsent(title string) bool {
	if title == "" {
		return false
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.seen == nil {
		h.seen = make(map[string]struct{})
	}
	if _, ok := h.seen[title]; ok {
		return false
	}
	h.seen[title] = struct{}{}
	h.entries = append(h.entries, title)
	return true
}

// Contains reports whether title was already read.
func (h *ReadHistory) Contains(title string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.seen[title]
	return ok
}

// Entries returns a snapshot copy in insertion order.
func (h *ReadHistory) Entries() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]string, len(h.entries))
	copy(out, h.entries)
	return out
}

func (h *ReadHistory) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.entries)
}

// Store keeps one ReadHistory per session.
type Store interface {
	// History returns the session's headlines in insertion order.
	History(ctx context.Context, session string) ([]string, error)
	// AppendIfAbsent records an opened headline and reports whether it was new.
	AppendIfAbsent(ctx context.Context, session, title string) (bool, error)
}

// MemoryStore keeps histories in process memory.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*ReadHistory
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*ReadHistory)}
}

func (m *MemoryStore) session(id string, create bool) *ReadHistory {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sessions == nil {
		m.sessions = make(map[string]*ReadHistory)
	}
	h, ok := m.sessions[id]
	if !ok && create {
		h = New()
		m.sessions[id] = h
	}
	return h
}

func (m *MemoryStore) History(_ context.Context, session string) ([]string, error) {
	h := m.session(session, false)
	if h == nil {
		return nil, nil
	}
	return h.Entries(), nil
}

func (m *MemoryStore) AppendIfAbsent(_ context.Context, session, title string) (bool, error) {
	return m.session(session, true).AppendIfAbsent(title), nil
}
