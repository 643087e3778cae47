// CarMatch - Vehicle Listing Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carmatch

/*
Package supervisor provides process supervision using suture v4.

The tree has two layers:

	carmatch
	├── data-layer
	│   ├── catalog.Service ("catalog-refresh")
	│   └── storage.BadgerStore ("profile-store-gc", badger store only)
	└── api-layer
	    ├── services.HTTPServerService ("http-server")
	    └── services.StatsReporter ("stats-reporter")

Crashed services restart with suture's backoff. Failures are counted per
layer, so a failing catalog reload never restarts the HTTP server.

Supervisor events go to slog through sutureslog; main builds that logger
with logging.NewSlogLogger so they share the zerolog output.

Usage:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(logger), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddDataService(catalogService)
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second, logger))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	err = tree.Serve(ctx)
*/
package supervisor
