package theme

import (
	"sort"
	"sync"
)

// MemoryStore is a Store held in memory, keyed like local storage.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]string
	saves  int
}

// StorageKey is the key the theme is persisted under.
const StorageKey = "theme"

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

// Set writes a raw value, bypassing validation.
func (s *MemoryStore) Set(key, value string) {
	s.mu.Lock()
	s.values[key] = value
	s.mu.Unlock()
}

// Raw returns the stored string for key.
func (s *MemoryStore) Raw(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *MemoryStore) Load() (Theme, bool) {
	v, ok := s.Raw(StorageKey)
	if !ok {
		return "", false
	}
	return Parse(v)
}

func (s *MemoryStore) Save(t Theme) error {
	s.mu.Lock()
	s.values[StorageKey] = string(t)
	s.saves++
	s.mu.Unlock()
	return nil
}

// Saves counts successful Save calls.
func (s *MemoryStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

// ClassList is a Marker recording the classes on the document root.
type ClassList struct {
	mu      sync.Mutex
	classes map[string]struct{}
}

// NewClassList returns a class list holding the given classes.
func NewClassList(classes ...string) *ClassList {
	l := &ClassList{classes: make(map[string]struct{})}
	for _, c := range classes {
		l.classes[c] = struct{}{}
	}
	return l
}

// Apply removes prev and adds next. It trusts prev, so a caller passing the
// wrong previous theme leaves both markers behind.
func (l *ClassList) Apply(prev, next Theme) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if prev != "" {
		delete(l.classes, string(prev))
	}
	l.classes[string(next)] = struct{}{}
}

// Has reports whether class is present.
func (l *ClassList) Has(class string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.classes[class]
	return ok
}

// Classes returns the classes in sorted order.
func (l *ClassList) Classes() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, 0, len(l.classes))
	for c := range l.classes {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
