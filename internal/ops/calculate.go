package ops

import (
	"context"
	"database/sql"
	"time"

	"github.com/hpungsan/gauge/internal/convert"
	"github.com/hpungsan/gauge/internal/db"
	"github.com/hpungsan/gauge/internal/errors"
)

// CalculateInput contains parameters for the Calculate operation.
type CalculateInput struct {
	Domain     string // required: "length" or "weight"
	Expression string // empty or whitespace-only is a no-op
	Explain    bool   // include the output of each rewrite pass
}

// CalculateOutput contains the result of the Calculate operation.
type CalculateOutput struct {
	Domain  convert.Domain  `json:"domain"`
	NoOp    bool            `json:"no_op,omitempty"`
	Result  *convert.Result `json:"result,omitempty"`
	Steps   []convert.Step  `json:"steps,omitempty"`
	History []db.Entry      `json:"history"`
}

// Calculate evaluates an expression and, on success, records it in the
// session history. A nil database skips history entirely.
func Calculate(ctx context.Context, database *sql.DB, input CalculateInput) (*CalculateOutput, error) {
	domain, err := ValidateDomain(input.Domain)
	if err != nil {
		return nil, err
	}
	conv, err := convert.For(domain)
	if err != nil {
		return nil, err
	}

	out := &CalculateOutput{Domain: domain, History: []db.Entry{}}

	if input.Explain {
		steps, err := conv.Explain(input.Expression)
		if err != nil {
			return nil, err
		}
		out.Steps = steps
	}

	res, err := conv.Calculate(input.Expression)
	if err != nil {
		return nil, err
	}

	if res == nil {
		// Empty input: keep everything as it was.
		out.NoOp = true
		out.Steps = nil
		if database != nil {
			if out.History, err = db.ListEntries(ctx, database, string(domain), HistoryCapacity); err != nil {
				return nil, err
			}
		}
		return out, nil
	}
	out.Result = res

	if database == nil {
		return out, nil
	}

	history, err := record(ctx, database, string(domain), input.Expression, res.Formatted)
	if err != nil {
		return nil, err
	}
	out.History = history
	return out, nil
}

// record appends an entry and evicts the oldest beyond HistoryCapacity in one
// transaction, returning the history after the change.
func record(ctx context.Context, database *sql.DB, domain, equation, result string) ([]db.Entry, error) {
	id, err := generateULID()
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	tx, err := database.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer func() { _ = tx.Rollback() }()

	entry := &db.Entry{
		ID:        id,
		Domain:    domain,
		Equation:  equation,
		Result:    result,
		CreatedAt: time.Now().Unix(),
	}
	if err := db.InsertEntry(ctx, tx, entry); err != nil {
		return nil, err
	}
	if _, err := db.TrimEntries(ctx, tx, domain, HistoryCapacity); err != nil {
		return nil, err
	}
	history, err := db.ListEntries(ctx, tx, domain, HistoryCapacity)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return history, nil
}
