// PlexIntel - Recommendation Client for Plex
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexintel

/*
Package auth runs the Plex PIN login handshake against the PlexIntel backend.

The backend brokers the Plex PIN flow. The client asks it for a short code,
shows the code (and the hosted login link) to the user, then polls the status
endpoint until the backend reports the login confirmed. The session cookie the
backend sets on that final response is what authenticates later calls.

# Lifecycle

	Start/Resume ──► awaiting_confirmation ──► authenticated
	                        │
	                        ├──► failed     (MaxWait elapsed)
	                        └──► cancelled  (Task.Cancel)

Initiation failures are returned from Start and never retried. Poll errors
are logged at debug level and polling continues.

# Usage

	h := auth.NewHandshake(client, auth.Config{PollInterval: 10 * time.Second})
	task, err := h.Start(ctx)
	if err != nil {
	    return err
	}
	fmt.Println("Enter code", task.PIN().Code, "at https://plex.tv/link")
	identity, err := task.Wait(ctx)
*/
package auth
