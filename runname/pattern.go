// Package runname validates and resolves run names for cluster launches.
//
// Two independent grammars apply. The general run-name grammar is
// case-insensitive and allows underscores; the cluster resource-name grammar
// is the stricter lowercase form required for names used as cluster resource
// identifiers. A name can satisfy one and not the other: underscores pass
// the run-name grammar but fail the resource grammar until normalized.
package runname

import (
	"regexp"
	"strings"
)

// MaxLength is the maximum run name length.
const MaxLength = 80

// Reserved is the run name reserved for "most recent run" lookups and is
// never valid as a user-supplied name.
const Reserved = "last"

var (
	// runNamePattern: starts with a letter; every hyphen or underscore must
	// be immediately followed by an alphanumeric, so separators never trail
	// or double up.
	runNamePattern = regexp.MustCompile(`(?i)^[a-z](?:[a-z0-9]|[-_][a-z0-9])*$`)

	// clusterNamePattern: lowercase dot-separated segments, each one or more
	// alphanumeric runs joined by single hyphens.
	clusterNamePattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*(?:\.[a-z0-9]+(?:-[a-z0-9]+)*)*$`)
)

// MatchesRunName reports whether name satisfies the general run-name grammar.
func MatchesRunName(name string) bool {
	return len(name) <= MaxLength && runNamePattern.MatchString(name)
}

// MatchesClusterResource reports whether name satisfies the cluster
// resource-name grammar as-is, without normalization.
func MatchesClusterResource(name string) bool {
	return len(name) <= MaxLength && clusterNamePattern.MatchString(name)
}

// Normalize maps a run name onto the cluster resource-name character set by
// replacing every underscore with a hyphen.
func Normalize(name string) string {
	return strings.ReplaceAll(name, "_", "-")
}
