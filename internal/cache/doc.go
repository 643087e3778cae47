// CarMatch - Vehicle Listing Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carmatch

/*
Package cache provides a generic, thread-safe LRU cache with per-entry TTL.

The recommendation engine keeps generated listing descriptions here, keyed by
session, listing and filter fingerprint, so repeated requests within a
session do not call the text generator again.

# Usage Example

	c := cache.NewLRU[string](5000, 30*time.Minute)
	c.Add("s1:42:abc", "Roomy hybrid within budget.")

	if text, ok := c.Get("s1:42:abc"); ok {
	    fmt.Println(text)
	}

	// Drop everything belonging to a session.
	c.RemoveFunc(func(key string) bool { return strings.HasPrefix(key, "s1:") })

# Expiration

Entries expire lazily on Get. CleanupExpired sweeps the whole cache and
returns how many entries were removed. A non-positive TTL or capacity
falls back to 30 minutes and 10000 entries.

# Thread Safety

All methods are safe for concurrent use. Get updates recency, so it takes
the same exclusive lock as Add.
*/
package cache
