package db

import (
	"context"
	"database/sql"

	"github.com/hpungsan/gauge/internal/errors"
)

// Entry is one history row: an equation and the formatted result it produced.
type Entry struct {
	ID        string `json:"id"`
	Domain    string `json:"domain"`
	Equation  string `json:"equation"`
	Result    string `json:"result"`
	CreatedAt int64  `json:"created_at"`
}

// InsertEntry appends an entry to the history.
func InsertEntry(ctx context.Context, q DBTX, e *Entry) error {
	query := `
		INSERT INTO history (id, domain, equation, result, created_at)
		VALUES (?, ?, ?, ?, ?)
	`
	if _, err := q.ExecContext(ctx, query, e.ID, e.Domain, e.Equation, e.Result, e.CreatedAt); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// ListEntries returns up to limit entries for domain, most recent first.
// A limit <= 0 returns every entry.
func ListEntries(ctx context.Context, q DBTX, domain string, limit int) ([]Entry, error) {
	query := `
		SELECT id, domain, equation, result, created_at
		FROM history
		WHERE domain = ?
		ORDER BY seq DESC
	`
	args := []any{domain}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	entries := make([]Entry, 0)
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Domain, &e.Equation, &e.Result, &e.CreatedAt); err != nil {
			return nil, errors.NewInternal(err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}

	return entries, nil
}

// TrimEntries deletes all but the keep most recent entries for domain.
// Returns the number of entries removed.
func TrimEntries(ctx context.Context, q DBTX, domain string, keep int) (int, error) {
	query := `
		DELETE FROM history
		WHERE domain = ? AND seq NOT IN (
			SELECT seq FROM history WHERE domain = ? ORDER BY seq DESC LIMIT ?
		)
	`
	res, err := q.ExecContext(ctx, query, domain, domain, keep)
	if err != nil {
		return 0, errors.NewInternal(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.NewInternal(err)
	}
	return int(n), nil
}

// ClearEntries deletes every entry for domain.
func ClearEntries(ctx context.Context, q DBTX, domain string) (int, error) {
	res, err := q.ExecContext(ctx, "DELETE FROM history WHERE domain = ?", domain)
	if err != nil {
		return 0, errors.NewInternal(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.NewInternal(err)
	}
	return int(n), nil
}

// CountEntries returns the number of entries stored for domain.
func CountEntries(ctx context.Context, q DBTX, domain string) (int, error) {
	var n int
	err := q.QueryRowContext(ctx, "SELECT COUNT(*) FROM history WHERE domain = ?", domain).Scan(&n)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, errors.NewInternal(err)
	}
	return n, nil
}
