// Package process runs a project through the full processing order: source
// strategies, orphan reconciliation, field matching, pre- and post-decimation
// strategies. It also exports section keyframes.
package process
