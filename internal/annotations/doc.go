// Package annotations holds the frame-indexed records authored during manual
// inverse telecine: field matches, decimated frames, sections, freeze frames,
// presets, and custom lists.
//
// Every collection validates its frame indices when constructed and fails
// with a *ValidationError that unwraps to services.ErrValidation (or
// services.ErrUnknownMatchSymbol for corrupt match data). Collections are
// logically immutable once built; the only exception is the working copy of
// FieldMatches, which orphan reconciliation rewrites in place while a frozen
// copy of the authored matches is kept alongside it.
//
// Translate maps an original frame number onto the decimated output timeline
// by subtracting the number of decimated frames that precede it.
package annotations
