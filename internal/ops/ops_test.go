package ops

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/hpungsan/gauge/internal/convert"
	"github.com/hpungsan/gauge/internal/db"
	"github.com/hpungsan/gauge/internal/errors"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.Open(strings.ReplaceAll(t.Name(), "/", "_"))
	if err != nil {
		t.Fatalf("db.Open failed: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

func TestValidateDomain(t *testing.T) {
	tests := []struct {
		in   string
		want convert.Domain
	}{
		{"length", convert.DomainLength},
		{"WEIGHT", convert.DomainWeight},
		{"  Length ", convert.DomainLength},
	}
	for _, tt := range tests {
		got, err := ValidateDomain(tt.in)
		if err != nil {
			t.Fatalf("ValidateDomain(%q) failed: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ValidateDomain(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidateDomain_Rejects(t *testing.T) {
	for _, in := range []string{"", "   ", "volume"} {
		_, err := ValidateDomain(in)
		if !errors.Is(err, errors.ErrInvalidRequest) {
			t.Errorf("ValidateDomain(%q) error = %v, want INVALID_REQUEST", in, err)
		}
	}
}

func TestCalculate_NoDatabase(t *testing.T) {
	out, err := Calculate(context.Background(), nil, CalculateInput{Domain: "length", Expression: "1FT"})
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}
	if out.Result == nil || out.Result.Formatted != `1' 0"` {
		t.Fatalf("Result = %+v, want 1' 0\"", out.Result)
	}
	if len(out.History) != 0 {
		t.Errorf("History = %v, want empty", out.History)
	}
}

func TestCalculate_Explain(t *testing.T) {
	out, err := Calculate(context.Background(), nil, CalculateInput{
		Domain:     "weight",
		Expression: "1/2 lb",
		Explain:    true,
	})
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}
	if len(out.Steps) != 5 {
		t.Fatalf("len(Steps) = %d, want 5", len(out.Steps))
	}
	if got := out.Steps[len(out.Steps)-1].Output; got != "226.796" {
		t.Errorf("sanitized = %q, want %q", got, "226.796")
	}
	if out.Result.Formatted != "8.000 oz" {
		t.Errorf("Formatted = %q, want %q", out.Result.Formatted, "8.000 oz")
	}
}

func TestCalculate_EmptyIsNoOp(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()

	out, err := Calculate(ctx, database, CalculateInput{Domain: "length", Expression: "  ", Explain: true})
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}
	if !out.NoOp {
		t.Error("NoOp = false, want true")
	}
	if out.Result != nil {
		t.Errorf("Result = %+v, want nil", out.Result)
	}
	if out.Steps != nil {
		t.Errorf("Steps = %v, want nil", out.Steps)
	}

	n, err := db.CountEntries(ctx, database, "length")
	if err != nil {
		t.Fatalf("CountEntries failed: %v", err)
	}
	if n != 0 {
		t.Errorf("count = %d, want 0", n)
	}
}

func TestCalculate_ErrorsLeaveHistoryUntouched(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()

	if _, err := Calculate(ctx, database, CalculateInput{Domain: "length", Expression: "1FT"}); err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}

	tests := []struct {
		expr string
		code errors.ErrorCode
	}{
		{"1FT / 0", errors.ErrDivisionByZero},
		{"1/0 IN", errors.ErrInvalidFraction},
		{"1FT +", errors.ErrInvalidExpression},
	}
	for _, tt := range tests {
		_, err := Calculate(ctx, database, CalculateInput{Domain: "length", Expression: tt.expr})
		if !errors.Is(err, tt.code) {
			t.Errorf("Calculate(%q) error = %v, want %s", tt.expr, err, tt.code)
		}
	}

	n, err := db.CountEntries(ctx, database, "length")
	if err != nil {
		t.Fatalf("CountEntries failed: %v", err)
	}
	if n != 1 {
		t.Errorf("count = %d, want 1", n)
	}
}

func TestCalculate_UnknownDomain(t *testing.T) {
	_, err := Calculate(context.Background(), nil, CalculateInput{Domain: "volume", Expression: "1"})
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("error = %v, want INVALID_REQUEST", err)
	}
}

func TestHistory_DomainsAreSeparate(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()

	if _, err := Calculate(ctx, database, CalculateInput{Domain: "length", Expression: "3IN"}); err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}

	out, err := History(ctx, database, HistoryInput{Domain: "weight"})
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(out.Entries) != 0 {
		t.Errorf("weight history = %v, want empty", out.Entries)
	}

	out, err = History(ctx, database, HistoryInput{Domain: "length"})
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(out.Entries) != 1 {
		t.Fatalf("length history len = %d, want 1", len(out.Entries))
	}
	if out.Entries[0].Equation != "3IN" || out.Entries[0].Result != `3"` {
		t.Errorf("entry = %+v, want 3IN -> 3\"", out.Entries[0])
	}
}

func TestClearHistory(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()

	for _, e := range []string{"1FT", "2FT", "3FT"} {
		if _, err := Calculate(ctx, database, CalculateInput{Domain: "length", Expression: e}); err != nil {
			t.Fatalf("Calculate(%q) failed: %v", e, err)
		}
	}

	out, err := ClearHistory(ctx, database, HistoryInput{Domain: "length"})
	if err != nil {
		t.Fatalf("ClearHistory failed: %v", err)
	}
	if out.Cleared != HistoryCapacity {
		t.Errorf("Cleared = %d, want %d", out.Cleared, HistoryCapacity)
	}

	hist, err := History(ctx, database, HistoryInput{Domain: "length"})
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(hist.Entries) != 0 {
		t.Errorf("history = %v, want empty", hist.Entries)
	}
}

func TestUnits(t *testing.T) {
	out, err := Units(UnitsInput{})
	if err != nil {
		t.Fatalf("Units failed: %v", err)
	}
	if len(out.Domains) != 2 {
		t.Fatalf("len(Domains) = %d, want 2", len(out.Domains))
	}
	if out.Domains[0].Domain != "length" || out.Domains[0].BaseUnit != "inch" {
		t.Errorf("Domains[0] = %+v, want length/inch", out.Domains[0])
	}
	if out.Domains[1].Domain != "weight" || out.Domains[1].BaseUnit != "gram" {
		t.Errorf("Domains[1] = %+v, want weight/gram", out.Domains[1])
	}

	out, err = Units(UnitsInput{Domain: "Weight"})
	if err != nil {
		t.Fatalf("Units failed: %v", err)
	}
	if len(out.Domains) != 1 || out.Domains[0].Units[0].Symbol != "LB" {
		t.Errorf("Domains = %+v, want only weight starting with LB", out.Domains)
	}

	if _, err := Units(UnitsInput{Domain: "volume"}); !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("error = %v, want INVALID_REQUEST", err)
	}
}

func TestNewSession(t *testing.T) {
	a, err := NewSession()
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	defer a.Close()
	b, err := NewSession()
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	defer b.Close()

	if a.ID == b.ID {
		t.Fatalf("session IDs collide: %s", a.ID)
	}

	ctx := context.Background()
	if _, err := Calculate(ctx, a.DB, CalculateInput{Domain: "length", Expression: "1IN"}); err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}
	hist, err := History(ctx, b.DB, HistoryInput{Domain: "length"})
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(hist.Entries) != 0 {
		t.Errorf("second session sees %d entries, want 0", len(hist.Entries))
	}
}
