// Package ffprobe wraps ffprobe's JSON report for the first video stream of
// a file: field order, frame rate and frame count.
//
// Inspect runs the binary; Parse decodes a saved report.
package ffprobe
