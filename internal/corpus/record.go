package corpus

import (
	"context"
	"fmt"
)

// Entry is one recorded coercion outcome.
type Entry struct {
	Seq       int
	Scalar    string
	Surface   string // "literal", "variable", or "resolve"
	InputKind string // literal token kind; "json" for variables; "" for resolve
	Input     string
	Outcome   string // "ok", "decode_error", "unexpected_token"
	Wire      string // canonical JSON, ok outcomes only
	Error     string // failure outcomes only
}

// Run describes a recorded scenario run.
type Run struct {
	Token     string
	Scenario  string
	CreatedAt string
}

// Record stores a scenario run and its entries in one transaction.
// Re-recording an existing run token is idempotent: the run row and any
// already-present entries are silently kept.
func (s *Store) Record(ctx context.Context, runToken, scenario string, entries []Entry) error {
	if runToken == "" {
		return fmt.Errorf("record: run token is required")
	}
	if len(entries) == 0 {
		return fmt.Errorf("record: no entries")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("record: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (token, scenario)
		VALUES (?, ?)
		ON CONFLICT(token) DO NOTHING
	`, runToken, scenario)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}

	for _, e := range entries {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO entries
			(run_token, seq, scalar, surface, input_kind, input, outcome, wire, error)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(run_token, seq) DO NOTHING
		`,
			runToken,
			e.Seq,
			e.Scalar,
			e.Surface,
			e.InputKind,
			e.Input,
			e.Outcome,
			e.Wire,
			e.Error,
		)
		if err != nil {
			return fmt.Errorf("record entry %d: %w", e.Seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("record: %w", err)
	}
	return nil
}

// Runs lists recorded runs in creation order.
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT token, scenario, created_at
		FROM runs
		ORDER BY token
	`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.Token, &r.Scenario, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// StoredEntry is an entry read back with its run token.
type StoredEntry struct {
	RunToken string
	Entry
}

// Entries reads all stored entries ordered by run token and sequence.
func (s *Store) Entries(ctx context.Context) ([]StoredEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_token, seq, scalar, surface, input_kind, input, outcome, wire, error
		FROM entries
		ORDER BY run_token, seq
	`)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var entries []StoredEntry
	for rows.Next() {
		var e StoredEntry
		err := rows.Scan(
			&e.RunToken,
			&e.Seq,
			&e.Scalar,
			&e.Surface,
			&e.InputKind,
			&e.Input,
			&e.Outcome,
			&e.Wire,
			&e.Error,
		)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
