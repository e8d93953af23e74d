package runname

import (
	"errors"
	"fmt"
)

// Sentinel errors for run-name resolution failures.
// Use errors.Is(err, ErrXxx) for typed assertions.
var (
	// ErrInvalidClusterName indicates the supplied name violates the cluster
	// resource-name grammar.
	ErrInvalidClusterName = errors.New("invalid cluster resource name")

	// ErrReservedName indicates the supplied name is the reserved literal.
	ErrReservedName = errors.New("reserved run name")

	// ErrMalformedName indicates the supplied name violates the general
	// run-name grammar.
	ErrMalformedName = errors.New("malformed run name")

	// ErrDuplicateName indicates the supplied name already exists in history.
	ErrDuplicateName = errors.New("duplicate run name")

	// ErrMissingName indicates no name was supplied and history is disabled,
	// so none can be generated.
	ErrMissingName = errors.New("missing run name")
)

// NameError wraps a resolution failure with the offending name.
// It preserves the sentinel in the chain for errors.Is.
type NameError struct {
	// Kind is the sentinel error classifying the failure.
	Kind error
	// Name is the supplied run name, if any.
	Name string
	// Detail is a user-facing explanation.
	Detail string
}

func (e *NameError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("run name %q: %v: %s", e.Name, e.Kind, e.Detail)
	}
	return fmt.Sprintf("%v: %s", e.Kind, e.Detail)
}

// Unwrap returns the sentinel for errors.Is chain traversal.
func (e *NameError) Unwrap() error {
	return e.Kind
}

func newNameError(kind error, name, detail string) *NameError {
	return &NameError{Kind: kind, Name: name, Detail: detail}
}
