package storage

import (
	"errors"
	"time"
)

var ErrDisabled = errors.New("storage disabled")

// Config configures the audit store.
//
// Driver values:
//   - "file": append-only JSON Lines file
//   - "sqlite": SQLite database file (sqlite build tag)
//
// If Driver is empty or "none", storage is disabled.
type Config struct {
	Driver string
	Path   string
}

// AuditEntry records one schedule lifecycle operation.
// Keep it compact and schema-stable.
type AuditEntry struct {
	At      time.Time `json:"at"`
	Op      string    `json:"op"` // create | enable | disable | delete
	Task    string    `json:"task"`
	Project string    `json:"project"`
	Error   string    `json:"error,omitempty"`
}
