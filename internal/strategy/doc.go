// Package strategy orders and applies processing strategies.
//
// Every strategy carries a pipeline position. A Pipeline applies all
// strategies of one position in registration order before moving to the
// next position (post-source, post-field-match, pre-decimate,
// post-decimate). Ordering is derived from a dependency graph in which each
// position is a barrier vertex, which also lets the pipeline be exported as
// DOT for inspection.
//
// Sequences are never mutated: each strategy returns a new handle, so an
// aborted run leaves the caller's input untouched.
package strategy
