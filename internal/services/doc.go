// Package services defines shared error markers and context helpers consumed
// by the reconciliation core, the strategy pipeline, and the CLI.
//
// Key responsibilities:
//   - Sentinel markers (validation, unknown match symbol, missing runtime
//     capability, strategy failure) that typed errors unwrap to, so callers can
//     classify failures with errors.Is.
//   - The Wrap helper that prefixes an error with stage and operation detail
//     while keeping the marker reachable.
//   - Context helpers that stamp run IDs and pipeline stages for logging.
package services
