// Package store is the persistence boundary for rpt: a handful of
// string-keyed slots, each holding one whole JSON document.
package store

import (
	"context"
	"errors"
	"fmt"
)

// Slot keys. Each collection and the check-in settings live in their own slot.
const (
	KeyIdeas     = "rpt-ideas"
	KeyProjects  = "rpt-projects"
	KeyDeadlines = "rpt-deadlines"
	KeyCheckIn   = "rpt-checkin"
)

// SlotKeys returns every slot rpt persists.
func SlotKeys() []string {
	return []string{KeyIdeas, KeyProjects, KeyDeadlines, KeyCheckIn}
}

func isSlotKey(key string) bool {
	for _, k := range SlotKeys() {
		if k == key {
			return true
		}
	}
	return false
}

// ErrNotFound is returned by Read when a slot has never been written.
var ErrNotFound = errors.New("store: slot not found")

// Persistence defines the persistence contract for slot documents.
type Persistence interface {
	Read(key string) ([]byte, error)
	Write(key string, val []byte) error
	// WriteBatch writes several slots. Backends that can, apply the whole
	// batch atomically.
	WriteBatch(batch map[string][]byte) error
	Erase(key string) error
	Keys(ctx context.Context) []string
	Watch(ctx context.Context) (<-chan Event, error)
	Path() string
	Close() error
}

// Load opens the backend selected by cfg, reading the config from disk when
// cfg is nil.
func Load(cfg Config) (Persistence, error) {
	if cfg == nil {
		var err error
		cfg, err = LoadConfig()
		if err != nil {
			return nil, err
		}
	}

	switch b := cfg.Backend(); b {
	case "", BackendDiskv:
		return openDiskv(cfg.BasePath())
	case BackendSQLite:
		return openSQLite(cfg.BasePath())
	default:
		return nil, fmt.Errorf("store: unknown backend %q", b)
	}
}
