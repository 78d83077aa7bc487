// Package orphans finds frames whose field match leaves a field without a
// clean partner and decides, per orphan, whether the frame can keep its
// field match or must be deinterlaced.
//
// Orphan records are always derived from the current match sequence; they
// are never stored independently. Reconcile gates each orphan on a
// similarity score against the neighbouring frame the match points at:
// scores at or above the threshold are deinterlaced, the rest keep their
// authored match. All scores are gathered before the match sequence is
// touched, so a failing similarity source leaves the sequence unchanged.
package orphans
