package sync

import (
	"sync"
)

type itemStatus struct {
	existsLocally  bool
	existsRemotely bool
}

// StatusTracker records, per artifact name, whether the artifact is known
// to exist locally and/or on the hub. It is shared across all artifact
// types of a session; mutations are atomic per name.
type StatusTracker struct {
	items map[string]*itemStatus
	mu    sync.RWMutex
}

func NewStatusTracker() *StatusTracker {
	return &StatusTracker{
		items: make(map[string]*itemStatus),
	}
}

func (s *StatusTracker) key(typeName, name string) string {
	return typeName + "/" + name
}

// MarkLocal records whether the named artifact exists locally.
func (s *StatusTracker) MarkLocal(typeName, name string, exists bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.getOrCreate(s.key(typeName, name))
	st.existsLocally = exists
}

// MarkRemote records whether the named artifact exists on the hub.
func (s *StatusTracker) MarkRemote(typeName, name string, exists bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.getOrCreate(s.key(typeName, name))
	st.existsRemotely = exists
}

// ExistsLocally reports whether the artifact was last seen to exist
// locally.
func (s *StatusTracker) ExistsLocally(typeName, name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if st, ok := s.items[s.key(typeName, name)]; ok {
		return st.existsLocally
	}
	return false
}

// ExistsRemotely reports whether the artifact was last seen to exist on
// the hub.
func (s *StatusTracker) ExistsRemotely(typeName, name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if st, ok := s.items[s.key(typeName, name)]; ok {
		return st.existsRemotely
	}
	return false
}

func (s *StatusTracker) getOrCreate(key string) *itemStatus {
	if st, ok := s.items[key]; ok {
		return st
	}
	st := &itemStatus{}
	s.items[key] = st
	return st
}
