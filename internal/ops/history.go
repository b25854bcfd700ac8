package ops

import (
	"context"
	"database/sql"

	"github.com/hpungsan/gauge/internal/db"
)

// HistoryInput contains parameters for the History and ClearHistory operations.
type HistoryInput struct {
	Domain string // required
}

// HistoryOutput contains the result of the History operation.
type HistoryOutput struct {
	Domain  string     `json:"domain"`
	Entries []db.Entry `json:"entries"`
}

// ClearHistoryOutput contains the result of the ClearHistory operation.
type ClearHistoryOutput struct {
	Domain  string `json:"domain"`
	Cleared int    `json:"cleared"`
}

// History returns a domain's recent calculations, most recent first.
func History(ctx context.Context, database *sql.DB, input HistoryInput) (*HistoryOutput, error) {
	domain, err := ValidateDomain(input.Domain)
	if err != nil {
		return nil, err
	}

	entries, err := db.ListEntries(ctx, database, string(domain), HistoryCapacity)
	if err != nil {
		return nil, err
	}

	return &HistoryOutput{Domain: string(domain), Entries: entries}, nil
}

// ClearHistory removes every history entry of a domain.
func ClearHistory(ctx context.Context, database *sql.DB, input HistoryInput) (*ClearHistoryOutput, error) {
	domain, err := ValidateDomain(input.Domain)
	if err != nil {
		return nil, err
	}

	n, err := db.ClearEntries(ctx, database, string(domain))
	if err != nil {
		return nil, err
	}

	return &ClearHistoryOutput{Domain: string(domain), Cleared: n}, nil
}
