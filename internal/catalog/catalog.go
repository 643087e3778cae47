// CarMatch - Vehicle Listing Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carmatch

package catalog

import (
	"sync/atomic"

	"github.com/tomtom215/carmatch/internal/recommend"
)

// snapshot is one immutable generation of the catalog.
type snapshot struct {
	listings []recommend.Listing
	byID     map[int]int
}

func newSnapshot(listings []recommend.Listing) *snapshot {
	s := &snapshot{
		listings: listings,
		byID:     make(map[int]int, len(listings)),
	}
	for i := range listings {
		s.byID[listings[i].ID] = i
	}
	return s
}

// Catalog holds the current listing snapshot. Readers never block: Replace
// swaps in a new snapshot atomically and in-flight requests keep the old one.
type Catalog struct {
	current atomic.Pointer[snapshot]
}

// New creates a catalog over listings. The slice must not be mutated afterwards.
func New(listings []recommend.Listing) *Catalog {
	c := &Catalog{}
	c.current.Store(newSnapshot(listings))
	return c
}

// Listings implements recommend.Catalog.
func (c *Catalog) Listings() []recommend.Listing {
	return c.current.Load().listings
}

// Lookup implements recommend.Catalog.
func (c *Catalog) Lookup(id int) (recommend.Listing, bool) {
	s := c.current.Load()
	i, ok := s.byID[id]
	if !ok {
		return recommend.Listing{}, false
	}
	return s.listings[i], true
}

// Replace installs a new snapshot.
func (c *Catalog) Replace(listings []recommend.Listing) {
	c.current.Store(newSnapshot(listings))
}

// Len returns the number of listings in the current snapshot.
func (c *Catalog) Len() int {
	return len(c.current.Load().listings)
}

var _ recommend.Catalog = (*Catalog)(nil)
