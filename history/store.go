// Package history persists the record of past runs and mints fresh run names.
//
// Two backends are provided: an append-only history file (the default) and a
// redis set for shared history across launcher hosts. The launch core only
// reads history (existence checks) or asks it to mint a name; all mutation
// of stored records happens inside this package.
package history

import (
	"io"
	"time"
)

// DefaultFileName is the history file location relative to the working
// directory when no explicit path is configured.
const DefaultFileName = ".nextflow/history"

// Record associates a run name with the metadata of one past run.
type Record struct {
	// Timestamp is when the run was launched.
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	// Duration is the wall-clock run duration, zero while still running.
	Duration time.Duration `json:"duration" yaml:"duration"`
	// Name is the resolved run name.
	Name string `json:"run_name" yaml:"run_name"`
	// Status is the terminal status, e.g. "OK" or "ERR".
	Status string `json:"status" yaml:"status"`
	// Revision is the pipeline revision identifier, if known.
	Revision string `json:"revision,omitempty" yaml:"revision,omitempty"`
	// SessionID is the UUID minted for the launch session.
	SessionID string `json:"session_id" yaml:"session_id"`
	// Command is the command line that started the run.
	Command string `json:"command,omitempty" yaml:"command,omitempty"`
}

// Store is the persisted run history.
//
// Exists and MintName satisfy the resolver's read-only view; Append and List
// serve the launch bookkeeping and the log command.
type Store interface {
	// Exists reports whether a run with the given name was recorded.
	Exists(name string) (bool, error)

	// MintName returns a fresh run name not present in the store.
	// Freshness is guaranteed at mint time only; backends differ in whether
	// the minted name is also reserved (see FileStore vs RedisStore).
	MintName() (string, error)

	// Append records a run.
	Append(rec Record) error

	// List returns recorded runs, newest first, at most limit entries
	// (0 = no limit).
	List(limit int) ([]Record, error)

	io.Closer
}
