// PlexIntel - Recommendation Client for Plex
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexintel

package session

import (
	"context"
	"sync"
)

// MemoryStore keeps sessions for the life of the process only.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*Session)}
}

// Save stores a copy of s.
func (m *MemoryStore) Save(ctx context.Context, s *Session) error {
	cp := *s
	cp.Cookies = append([]Cookie(nil), s.Cookies...)

	m.mu.Lock()
	m.sessions[s.Host] = &cp
	m.mu.Unlock()
	return nil
}

// Load returns a copy of the session for host.
func (m *MemoryStore) Load(ctx context.Context, host string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[host]
	m.mu.RUnlock()

	if !ok {
		return nil, ErrSessionNotFound
	}
	if s.IsExpired() {
		return nil, ErrSessionExpired
	}

	cp := *s
	cp.Cookies = append([]Cookie(nil), s.Cookies...)
	return &cp, nil
}

// Delete removes the session for host.
func (m *MemoryStore) Delete(ctx context.Context, host string) error {
	m.mu.Lock()
	delete(m.sessions, host)
	m.mu.Unlock()
	return nil
}

// Close is a no-op.
func (m *MemoryStore) Close() error {
	return nil
}
