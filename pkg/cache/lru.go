package cache

import (
	"container/list"
	"sync"
	"time"
)

type lruStore[V any] struct {
	mu                 sync.Mutex
	maxEntriesPerScope int
	// scopeLists maps scope -> LRU list of *Entry (front = most recent)
	scopeLists map[string]*list.List
	// elements maps entryKey -> *list.Element for O(1) lookup
	elements map[string]*list.Element
}

// NewLRU returns a Store backed by a per-scope LRU eviction policy.
// maxEntriesPerScope is the maximum number of entries retained per scope;
// values below 1 are treated as 1.
func NewLRU[V any](maxEntriesPerScope int) Store[V] {
	if maxEntriesPerScope < 1 {
		maxEntriesPerScope = 1
	}
	return &lruStore[V]{
		maxEntriesPerScope: maxEntriesPerScope,
		scopeLists:         make(map[string]*list.List),
		elements:           make(map[string]*list.Element),
	}
}

func entryKey(scope, key string) string {
	return scope + "\x00" + key
}

func (s *lruStore[V]) Set(scope, key string, value V, opts ...Option) {
	o := &setOptions{}
	for _, opt := range opts {
		opt(o)
	}

	now := time.Now()
	var expiresAt *time.Time
	if o.ttl > 0 {
		t := now.Add(o.ttl)
		expiresAt = &t
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ek := entryKey(scope, key)

	if elem, ok := s.elements[ek]; ok {
		e := elem.Value.(*Entry[V])
		e.Value = value
		e.ExpiresAt = expiresAt
		e.UpdatedAt = now
		s.scopeLists[scope].MoveToFront(elem)
		return
	}

	entry := &Entry[V]{
		Key:       key,
		Value:     value,
		Scope:     scope,
		ExpiresAt: expiresAt,
		UpdatedAt: now,
		CreatedAt: now,
	}

	l, ok := s.scopeLists[scope]
	if !ok {
		l = list.New()
		s.scopeLists[scope] = l
	}

	if l.Len() >= s.maxEntriesPerScope {
		if back := l.Back(); back != nil {
			evicted := l.Remove(back).(*Entry[V])
			delete(s.elements, entryKey(evicted.Scope, evicted.Key))
		}
	}

	s.elements[ek] = l.PushFront(entry)
}

func (s *lruStore[V]) Get(scope, key string) (Entry[V], bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	elem, ok := s.elements[entryKey(scope, key)]
	if !ok {
		return Entry[V]{}, false
	}

	e := elem.Value.(*Entry[V])

	// Lazy TTL eviction.
	if e.ExpiresAt != nil && time.Now().After(*e.ExpiresAt) {
		s.removeLocked(elem)
		return Entry[V]{}, false
	}

	s.scopeLists[scope].MoveToFront(elem)
	return *e, true
}

func (s *lruStore[V]) Delete(scope, key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	elem, ok := s.elements[entryKey(scope, key)]
	if !ok {
		return false
	}
	s.removeLocked(elem)
	return true
}

func (s *lruStore[V]) Invalidate(scope string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.scopeLists[scope]
	if !ok {
		return 0
	}
	n := l.Len()
	for elem := l.Front(); elem != nil; elem = elem.Next() {
		e := elem.Value.(*Entry[V])
		delete(s.elements, entryKey(e.Scope, e.Key))
	}
	delete(s.scopeLists, scope)
	return n
}

// Keys lists live keys in scope, most recently used first.
func (s *lruStore[V]) Keys(scope string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.scopeLists[scope]
	if !ok {
		return nil
	}

	now := time.Now()
	var keys []string
	var expired []*list.Element
	for elem := l.Front(); elem != nil; elem = elem.Next() {
		e := elem.Value.(*Entry[V])
		if e.ExpiresAt != nil && now.After(*e.ExpiresAt) {
			expired = append(expired, elem)
			continue
		}
		keys = append(keys, e.Key)
	}
	for _, elem := range expired {
		s.removeLocked(elem)
	}
	return keys
}

func (s *lruStore[V]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, l := range s.scopeLists {
		total += l.Len()
	}
	return total
}

func (s *lruStore[V]) removeLocked(elem *list.Element) {
	e := elem.Value.(*Entry[V])
	l := s.scopeLists[e.Scope]
	l.Remove(elem)
	delete(s.elements, entryKey(e.Scope, e.Key))
	if l.Len() == 0 {
		delete(s.scopeLists, e.Scope)
	}
}
