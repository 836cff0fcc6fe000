// Package audit appends a JSONL trail of backup runs and per-plugin
// outcomes to the per-user data directory. Entries from one run share a
// run UUID. Audit failures are deliberately swallowed: diagnostics never
// block a backup.
package audit
