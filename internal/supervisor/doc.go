// Tripatlas - Taxi Trip Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripatlas

/*
Package supervisor runs the long-lived parts of the Tripatlas server under a
suture v4 supervisor tree.

# Overview

	RootSupervisor ("tripatlas")
	├── DataSupervisor ("data-layer")
	│   ├── db-checkpoint
	│   ├── cache-sweeper
	│   └── uptime
	└── APISupervisor ("api-layer")
	    └── http-server(<addr>)

Crashed services restart with backoff. Failures are counted per layer, so a
maintenance task that keeps failing backs off on its own while the HTTP
server keeps answering.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddAPIService(services.NewHTTPServerService(srv.Addr, srv, 10*time.Second))
	tree.AddDataService(services.NewCheckpointService(db, 5*time.Minute))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    return err
	}

Supervisor events (start, failure, backoff) are logged through sutureslog.

See also internal/supervisor/services for the service wrappers.
*/
package supervisor
