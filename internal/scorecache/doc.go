// Package scorecache persists field difference scores in SQLite so orphan
// reconciliation can be replayed without the frame server.
//
// Scores are keyed by source (usually the project's input file), frame and
// neighbour. Writers serialize through a lock file next to the database;
// readers rely on SQLite's WAL mode.
package scorecache
