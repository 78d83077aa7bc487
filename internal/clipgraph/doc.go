// Package clipgraph is a symbolic runtime: every clip.Sequence it produces
// is an immutable node that records the operation and inputs that created
// it. Nothing is decoded; the graph can be rendered to show exactly which
// filters a processing run would invoke and on which frames.
//
// The CLI uses it to preview a project's processing plan, and tests use it
// to assert on the operations strategies perform.
package clipgraph
