// PlexIntel - Recommendation Client for Plex
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexintel

/*
Package supervisor runs PlexIntel's long-running services under suture v4.

Most commands are one-shot and never start a tree. Watch mode and the local
diagnostics server do:

	Root ("plexintel")
	├── ClientSupervisor ("client-layer")
	│   └── RefreshService (recs --watch)
	└── DiagnosticsSupervisor ("diagnostics-layer")
	    └── HTTPServerService (diagnostics.addr)

Supervisor events go through sutureslog into the zerolog logger:

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddDiagnosticsService(services.NewHTTPServerService("diagnostics", srv, 0))
	errCh := tree.ServeBackground(ctx)
*/
package supervisor
