// Package clip describes the external video-processing runtime the
// reconciliation core calls into: an opaque frame sequence handle plus the
// capabilities (field separation, similarity scoring, deinterlacing, field
// matching, decimation, freeze frames, presets) a runtime may provide.
//
// Sequences follow copy-on-transform semantics: every operation returns a new
// handle and leaves its input untouched. Capabilities are optional; a
// Toolkit reports the ones that are missing through a *DependencyError that
// unwraps to services.ErrDependencyUnavailable.
package clip
