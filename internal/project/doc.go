// Package project loads Wobbly project files into the annotation model.
//
// A Project bundles the source description (input file, source filter, trim,
// field order) with every frame-indexed annotation the processing run needs.
// Loading validates all annotations at construction; nothing is deferred to
// the pipeline.
package project
