// CarMatch - Vehicle Listing Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carmatch

package recommend

import (
	"context"
	"hash/fnv"
	"sync"
)

// ProfileStore persists session profiles.
// Implementations must return ErrProfileNotFound for unknown sessions and
// must not retain the pointer passed to Put.
type ProfileStore interface {
	// Get returns the stored profile for sessionID.
	Get(ctx context.Context, sessionID string) (*UserProfile, error)

	// Put stores profile under sessionID, replacing any previous value.
	Put(ctx context.Context, sessionID string, profile *UserProfile) error

	// Delete removes the profile. Deleting an unknown session is not an error.
	Delete(ctx context.Context, sessionID string) error
}

// MemoryStore is an in-process ProfileStore. Profiles are cloned on the way
// in and out so callers never share state with the store.
type MemoryStore struct {
	mu       sync.RWMutex
	profiles map[string]*UserProfile
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{profiles: make(map[string]*UserProfile)}
}

// Get implements ProfileStore.
func (s *MemoryStore) Get(_ context.Context, sessionID string) (*UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[sessionID]
	if !ok {
		return nil, ErrProfileNotFound
	}
	return p.Clone(), nil
}

// Put implements ProfileStore.
func (s *MemoryStore) Put(_ context.Context, sessionID string, profile *UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.profiles[sessionID] = profile.Clone()
	return nil
}

// Delete implements ProfileStore.
func (s *MemoryStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.profiles, sessionID)
	return nil
}

// Len returns the number of stored profiles.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.profiles)
}

// Compile-time interface check.
var _ ProfileStore = (*MemoryStore)(nil)

// sessionStripes is the number of mutexes guarding profile writes.
const sessionStripes = 64

// sessionLocks serializes read-modify-write cycles per session.
// Sessions hashing to the same stripe share a mutex.
type sessionLocks struct {
	stripes [sessionStripes]sync.Mutex
}

// lock acquires the stripe for sessionID and returns its unlock function.
func (l *sessionLocks) lock(sessionID string) func() {
	h := fnv.New32a()
	_, _ = h.Write([]byte(sessionID)) //nolint:errcheck // hash.Hash.Write never fails
	mu := &l.stripes[h.Sum32()%sessionStripes]
	mu.Lock()
	return mu.Unlock
}
