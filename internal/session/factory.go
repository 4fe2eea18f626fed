// PlexIntel - Recommendation Client for Plex
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexintel

package session

import "fmt"

// StoreType defines the type of session storage backend.
type StoreType string

const (
	// StoreMemory keeps sessions in memory only.
	StoreMemory StoreType = "memory"

	// StoreBadger persists sessions in a BadgerDB directory.
	StoreBadger StoreType = "badger"
)

// Open creates a Store of the given type. path is only used for badger.
func Open(storeType StoreType, path string) (Store, error) {
	switch storeType {
	case StoreBadger:
		return OpenBadgerStore(path)
	case StoreMemory, "":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown session store type %q", storeType)
	}
}
