// Package history records estimation runs in SQLite.
//
// Each run row captures its inputs, the run directory, stage counts, the
// grand total and any failure. The cleaned line items of a completed run are
// stored in run_items so past estimates can be listed and inspected without
// the run directory.
//
// Schema changes bump schemaVersion in schema.go; an older database must be
// removed before it can be reopened.
package history
