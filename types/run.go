// Package types defines core domain types for the launch runtime.
//
//nolint:revive // types is a common Go package naming convention
package types

import "fmt"

// RunInfo is the run identity attached to logs and driver input.
type RunInfo struct {
	// Name is the resolved run name (cluster-safe after normalization).
	Name string `json:"run_name"`
	// Namespace is the cluster namespace the run targets.
	Namespace string `json:"namespace,omitempty"`
	// SessionID is the unique session identifier minted per invocation.
	SessionID string `json:"session_id,omitempty"`
}

// Validate checks that the run identity is usable.
func (r *RunInfo) Validate() error {
	if r == nil {
		return fmt.Errorf("run info is nil")
	}
	if r.Name == "" {
		return fmt.Errorf("run name is required")
	}
	return nil
}
