// CarMatch - Vehicle Listing Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carmatch

package catalog

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// loadTimeout bounds a single CSV reload.
const loadTimeout = 30 * time.Second

// Service reloads the catalog CSV when its modification time changes.
// It implements suture.Service.
type Service struct {
	catalog  *Catalog
	path     string
	interval time.Duration
	logger   zerolog.Logger

	lastMod time.Time

	// OnReload is called after every reload attempt of a changed file with
	// the new listing count, or with the load error.
	OnReload func(count int, err error)
}

// NewService creates a refresh service for c. When c is empty the service
// performs the initial load on its first Refresh.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewService(c *Catalog, path string, interval time.Duration, logger zerolog.Logger) *Service {
	s := &Service{
		catalog:  c,
		path:     path,
		interval: interval,
		logger:   logger.With().Str("component", "catalog").Logger(),
	}
	// An empty catalog has not loaded the file yet, so the first Refresh
	// loads it regardless of its modification time.
	if c.Len() > 0 {
		if info, err := os.Stat(path); err == nil {
			s.lastMod = info.ModTime()
		}
	}
	return s
}

// Serve polls the file until ctx is cancelled.
func (s *Service) Serve(ctx context.Context) error {
	if s.interval <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := s.Refresh(ctx); err != nil {
				s.logger.Warn().Err(err).Str("path", s.path).Msg("catalog reload failed, keeping previous snapshot")
			}
		}
	}
}

// Refresh reloads the CSV if it changed since the last load.
// It reports whether a new snapshot was installed.
func (s *Service) Refresh(ctx context.Context) (bool, error) {
	info, err := os.Stat(s.path)
	if err != nil {
		return false, fmt.Errorf("stat catalog: %w", err)
	}
	if !info.ModTime().After(s.lastMod) {
		return false, nil
	}

	loadCtx, cancel := context.WithTimeout(ctx, loadTimeout)
	defer cancel()

	start := time.Now()
	listings, err := LoadCSV(loadCtx, s.path)
	if err != nil {
		if s.OnReload != nil {
			s.OnReload(0, err)
		}
		return false, err
	}
	s.catalog.Replace(listings)
	s.lastMod = info.ModTime()

	s.logger.Info().
		Int("listings", len(listings)).
		Dur("duration", time.Since(start)).
		Msg("catalog reloaded")
	if s.OnReload != nil {
		s.OnReload(len(listings), nil)
	}
	return true, nil
}

// String names the service in supervisor logs.
func (s *Service) String() string {
	return "catalog-refresh"
}
