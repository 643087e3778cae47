// CarMatch - Vehicle Listing Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carmatch

/*
Package services provides suture.Service wrappers for long-running components.

Each wrapper implements the suture v4 interface plus fmt.Stringer:

	type Service interface {
	    Serve(ctx context.Context) error
	}

Available services:

  - HTTPServerService: runs an *http.Server, converting ListenAndServe into
    Serve with graceful Shutdown on cancellation
  - StatsReporter: publishes app_info and app_uptime_seconds and logs engine
    activity deltas on an interval

Components that already implement Serve and String are added to the tree
directly: catalog.Service (periodic CSV reload) and storage.BadgerStore
(value log GC).
*/
package services
