// Package corpus provides a durable record of coercion outcomes for
// drift detection.
//
// A corpus run stores every check of a scenario: the scalar, the input,
// the outcome, and the canonical wire form. Replaying a corpus re-runs
// each stored entry against the current coercion rules and reports any
// entry whose outcome or wire form differs. Coercion is referentially
// transparent, so any drift between a stored entry and its replay is a
// behavior change.
//
// Storage is SQLite with WAL mode. Run tokens are UUIDv7 so runs sort
// by creation time.
package corpus
