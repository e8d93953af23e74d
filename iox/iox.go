// Package iox provides small I/O cleanup helpers.
package iox

import "io"

// DiscardClose closes c, discarding the error. For defer statements where
// a close failure is unactionable:
//
//	defer iox.DiscardClose(f)
func DiscardClose(c io.Closer) { _ = c.Close() }

// CloseFunc returns a cleanup function closing c, for t.Cleanup registration:
//
//	t.Cleanup(iox.CloseFunc(store))
func CloseFunc(c io.Closer) func() {
	return func() { _ = c.Close() }
}
