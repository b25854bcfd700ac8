package db

import (
	"context"
	"fmt"
	"testing"
)

func seed(t *testing.T, q DBTX, domain string, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		e := &Entry{
			ID:        fmt.Sprintf("%s-%d", domain, i),
			Domain:    domain,
			Equation:  fmt.Sprintf("%dFT", i),
			Result:    fmt.Sprintf(`%d' 0"`, i),
			CreatedAt: int64(1000 + i),
		}
		if err := InsertEntry(context.Background(), q, e); err != nil {
			t.Fatalf("InsertEntry() error = %v", err)
		}
	}
}

func TestListEntries_MostRecentFirst(t *testing.T) {
	db := openTestDB(t)
	seed(t, db, "length", 3)

	entries, err := ListEntries(context.Background(), db, "length", 0)
	if err != nil {
		t.Fatalf("ListEntries() error = %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("len = %d, want 3", len(entries))
	}
	if entries[0].Equation != "2FT" || entries[2].Equation != "0FT" {
		t.Errorf("order = %v, want newest first", entries)
	}
	if entries[0].CreatedAt != 1002 {
		t.Errorf("CreatedAt = %d, want 1002", entries[0].CreatedAt)
	}
}

func TestListEntries_Limit(t *testing.T) {
	db := openTestDB(t)
	seed(t, db, "length", 5)

	entries, err := ListEntries(context.Background(), db, "length", 2)
	if err != nil {
		t.Fatalf("ListEntries() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len = %d, want 2", len(entries))
	}
	if entries[0].ID != "length-4" {
		t.Errorf("entries[0].ID = %q, want length-4", entries[0].ID)
	}
}

func TestListEntries_Empty(t *testing.T) {
	db := openTestDB(t)

	entries, err := ListEntries(context.Background(), db, "weight", 0)
	if err != nil {
		t.Fatalf("ListEntries() error = %v", err)
	}
	if entries == nil || len(entries) != 0 {
		t.Errorf("entries = %v, want empty non-nil slice", entries)
	}
}

func TestTrimEntries(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	seed(t, db, "length", 4)
	seed(t, db, "weight", 3)

	removed, err := TrimEntries(ctx, db, "length", 2)
	if err != nil {
		t.Fatalf("TrimEntries() error = %v", err)
	}
	if removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}

	entries, err := ListEntries(ctx, db, "length", 0)
	if err != nil {
		t.Fatalf("ListEntries() error = %v", err)
	}
	if len(entries) != 2 || entries[0].ID != "length-3" || entries[1].ID != "length-2" {
		t.Errorf("remaining = %v, want length-3, length-2", entries)
	}

	// Other domains are untouched.
	n, err := CountEntries(ctx, db, "weight")
	if err != nil {
		t.Fatalf("CountEntries() error = %v", err)
	}
	if n != 3 {
		t.Errorf("weight count = %d, want 3", n)
	}
}

func TestClearEntries(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	seed(t, db, "weight", 2)

	removed, err := ClearEntries(ctx, db, "weight")
	if err != nil {
		t.Fatalf("ClearEntries() error = %v", err)
	}
	if removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}
	n, _ := CountEntries(ctx, db, "weight")
	if n != 0 {
		t.Errorf("count after clear = %d, want 0", n)
	}
}

func TestInsertEntry_DuplicateID(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	e := &Entry{ID: "dup", Domain: "length", Equation: "1", Result: `1"`}

	if err := InsertEntry(ctx, db, e); err != nil {
		t.Fatalf("first InsertEntry() error = %v", err)
	}
	if err := InsertEntry(ctx, db, e); err == nil {
		t.Error("expected error on duplicate id")
	}
}
