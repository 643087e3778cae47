// CarMatch - Vehicle Listing Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carmatch

package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/carmatch/internal/recommend"
)

// profileKeyPrefix namespaces profile keys in BadgerDB.
const profileKeyPrefix = "profile:"

// gcDiscardRatio is passed to RunValueLogGC.
const gcDiscardRatio = 0.5

// Options configures a BadgerStore.
type Options struct {
	// Path is the BadgerDB directory. Ignored when InMemory is set.
	Path string

	// InMemory keeps all data in memory. Used by tests.
	InMemory bool

	// SyncWrites fsyncs every write.
	SyncWrites bool

	// TTL expires profiles that have not been written for this long. Zero keeps them forever.
	TTL time.Duration

	// GCInterval is how often Serve runs value log garbage collection.
	GCInterval time.Duration
}

// BadgerStore implements recommend.ProfileStore using BadgerDB.
type BadgerStore struct {
	db         *badger.DB
	ttl        time.Duration
	gcInterval time.Duration
	logger     zerolog.Logger
	ownsDB     bool
}

// Open opens (or creates) a BadgerDB database and wraps it in a BadgerStore.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func Open(opts Options, logger zerolog.Logger) (*BadgerStore, error) {
	if !opts.InMemory && opts.Path == "" {
		return nil, errors.New("storage path is required")
	}

	bopts := badger.DefaultOptions(opts.Path)
	if opts.InMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	}
	bopts.Logger = nil // Suppress BadgerDB internal logs
	bopts.SyncWrites = opts.SyncWrites
	// Profiles are small; the default 1GB value log is oversized.
	bopts.ValueLogFileSize = 16 << 20

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("open badger db for profiles: %w", err)
	}

	s := NewBadgerStoreFromDB(db, opts.TTL, logger)
	s.ownsDB = true
	if opts.GCInterval > 0 {
		s.gcInterval = opts.GCInterval
	}

	s.logger.Info().
		Str("path", opts.Path).
		Bool("in_memory", opts.InMemory).
		Dur("ttl", opts.TTL).
		Msg("profile store opened")
	return s, nil
}

// NewBadgerStoreFromDB wraps an existing database. The caller keeps ownership of db.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewBadgerStoreFromDB(db *badger.DB, ttl time.Duration, logger zerolog.Logger) *BadgerStore {
	return &BadgerStore{
		db:         db,
		ttl:        ttl,
		gcInterval: 10 * time.Minute,
		logger:     logger.With().Str("component", "profile_store").Logger(),
	}
}

// Get implements recommend.ProfileStore.
func (s *BadgerStore) Get(_ context.Context, sessionID string) (*recommend.UserProfile, error) {
	var profile recommend.UserProfile

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(profileKey(sessionID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return recommend.ErrProfileNotFound
		}
		if err != nil {
			return fmt.Errorf("get profile: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &profile)
		})
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// Put implements recommend.ProfileStore.
func (s *BadgerStore) Put(_ context.Context, sessionID string, profile *recommend.UserProfile) error {
	if profile == nil {
		return errors.New("profile cannot be nil")
	}
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry(profileKey(sessionID), data)
		if s.ttl > 0 {
			entry = entry.WithTTL(s.ttl)
		}
		return txn.SetEntry(entry)
	})
}

// Delete implements recommend.ProfileStore.
func (s *BadgerStore) Delete(_ context.Context, sessionID string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(profileKey(sessionID)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("delete profile: %w", err)
		}
		return nil
	})
}

// Len counts stored, unexpired profiles.
func (s *BadgerStore) Len() (int, error) {
	count := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(profileKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			count++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("count profiles: %w", err)
	}
	return count, nil
}

// RunGC runs one value log garbage collection cycle.
// Nothing to reclaim and in-memory mode are not errors.
func (s *BadgerStore) RunGC() error {
	err := s.db.RunValueLogGC(gcDiscardRatio)
	if err == nil || errors.Is(err, badger.ErrNoRewrite) || errors.Is(err, badger.ErrGCInMemoryMode) {
		return nil
	}
	return err
}

// Serve runs garbage collection every GCInterval until ctx is done.
// It implements suture.Service.
func (s *BadgerStore) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.gcInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.RunGC(); err != nil {
				s.logger.Warn().Err(err).Msg("profile store garbage collection failed")
			}
		}
	}
}

// String names the service in supervisor logs.
func (s *BadgerStore) String() string {
	return "profile-store-gc"
}

// Close closes the database if the store opened it.
func (s *BadgerStore) Close() error {
	if !s.ownsDB {
		return nil
	}
	return s.db.Close()
}

func profileKey(sessionID string) []byte {
	return []byte(profileKeyPrefix + sessionID)
}

// Compile-time interface assertion
var _ recommend.ProfileStore = (*BadgerStore)(nil)
