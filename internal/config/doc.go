// Package config loads, normalizes, and validates wobble configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the WOBBLE_LOG_LEVEL environment
// fallback. The Config type gathers the orphan reconciliation knobs, tool
// locations, and logging settings the CLI needs in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
