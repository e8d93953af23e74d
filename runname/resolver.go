package runname

import "fmt"

// grammarDescription is the user-facing description of the general run-name
// grammar, included in malformed-name errors.
const grammarDescription = "must start with a letter, contain only letters, " +
	"digits, hyphens or underscores (each separator followed by a letter or " +
	"digit), and be at most 80 characters"

// Store is the slice of run history the resolver needs: existence checks and
// fresh-name minting. A nil Store means history is disabled and an explicit
// name is mandatory.
type Store interface {
	// Exists reports whether a run with the given name was already recorded.
	Exists(name string) (bool, error)

	// MintName returns a fresh name not present in the store at mint time.
	MintName() (string, error)
}

// Resolver produces a validated, normalized run name, or generates a fresh
// unique one from the history store.
type Resolver struct {
	store Store
}

// NewResolver creates a resolver backed by the given history store.
// Pass nil to run without history.
func NewResolver(store Store) *Resolver {
	return &Resolver{store: store}
}

// Resolve validates the supplied run name, or mints one when absent, and
// returns the normalized result. When clusterBound is set the name must also
// satisfy the cluster resource-name grammar.
//
// Validation order is significant. The cluster grammar is checked against the
// raw supplied name, before normalization and before the general grammar: a
// name such as "My_Run" is rejected as an invalid cluster name even though
// its normalized form would pass. Kept deliberately, not an oversight.
func (r *Resolver) Resolve(supplied string, clusterBound bool) (string, error) {
	if clusterBound && supplied != "" && !MatchesClusterResource(supplied) {
		return "", newNameError(ErrInvalidClusterName, supplied,
			"cluster resource names are lowercase alphanumeric segments separated by single hyphens or dots")
	}

	if supplied == Reserved {
		return "", newNameError(ErrReservedName, supplied,
			fmt.Sprintf("%q is reserved and cannot be used as a run name", Reserved))
	}

	if supplied != "" && !MatchesRunName(supplied) {
		return "", newNameError(ErrMalformedName, supplied, grammarDescription)
	}

	if supplied == "" {
		if r.store == nil {
			return "", newNameError(ErrMissingName, "",
				"run history is disabled, so a run name must be supplied explicitly")
		}
		minted, err := r.store.MintName()
		if err != nil {
			return "", fmt.Errorf("minting run name: %w", err)
		}
		// Minted names are fresh by construction; no existence re-check.
		return Normalize(minted), nil
	}

	if r.store != nil {
		exists, err := r.store.Exists(supplied)
		if err != nil {
			return "", fmt.Errorf("checking run name %q: %w", supplied, err)
		}
		if exists {
			return "", newNameError(ErrDuplicateName, supplied,
				"a run with this name already exists in the history")
		}
	}

	return Normalize(supplied), nil
}
