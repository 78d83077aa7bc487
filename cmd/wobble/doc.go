// Command wobble inspects and reconciles the interlacing annotations of
// Wobbly projects.
//
// Subcommands classify orphan fields, replay the similarity-gated
// deinterlace decisions from cached scores, export keyframes, manage the
// score cache and check project inputs with ffprobe. Logs go to stderr and
// to the log file under paths.log_dir; results go to stdout.
package main
