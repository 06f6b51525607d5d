package services

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"spendora/internal/core"
	"spendora/internal/settings"
	"spendora/internal/store/memory"
)

func newTestService(t *testing.T) *ExpenseService {
	t.Helper()
	svc := NewExpenseService(memory.New(), settings.NewMemoryRepository())
	svc.now = func() time.Time { return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { svc.Close() })
	return svc
}

func amt(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad amount %q: %v", s, err)
	}
	return d
}

func mustAdd(t *testing.T, svc *ExpenseService, title, amount, category string, date time.Time) int64 {
	t.Helper()
	id, err := svc.AddExpense(context.Background(), core.Expense{
		Title:    title,
		Amount:   amt(t, amount),
		Category: category,
		Date:     date,
	})
	if err != nil {
		t.Fatalf("AddExpense(%q) failed: %v", title, err)
	}
	return id
}

func TestAddExpenseRejectsInvalid(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	date := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		expense core.Expense
		wantErr error
	}{
		{"empty title", core.Expense{Amount: amt(t, "10"), Category: "Food", Date: date}, core.ErrEmptyTitle},
		{"zero amount", core.Expense{Title: "Lunch", Category: "Food", Date: date}, core.ErrInvalidAmount},
		{"negative amount", core.Expense{Title: "Lunch", Amount: amt(t, "-5"), Category: "Food", Date: date}, core.ErrInvalidAmount},
		{"empty category", core.Expense{Title: "Lunch", Amount: amt(t, "10"), Date: date}, core.ErrEmptyCategory},
		{"zero date", core.Expense{Title: "Lunch", Amount: amt(t, "10"), Category: "Food"}, core.ErrInvalidDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.AddExpense(ctx, tt.expense); !errors.Is(err, tt.wantErr) {
				t.Fatalf("AddExpense() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	expenses, err := svc.ListExpenses(ctx, ListFilter{})
	if err != nil {
		t.Fatalf("ListExpenses() failed: %v", err)
	}
	if len(expenses) != 0 {
		t.Fatalf("rejected expenses were stored: %d records", len(expenses))
	}
}

func TestUpdateExpenseNotFound(t *testing.T) {
	svc := newTestService(t)
	title := "Renamed"
	err := svc.UpdateExpense(context.Background(), 99, core.ExpenseUpdate{Title: &title})
	if !errors.Is(err, core.ErrExpenseNotFound) {
		t.Fatalf("UpdateExpense() error = %v, want ErrExpenseNotFound", err)
	}
}

func TestListExpensesNewestFirst(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	old := mustAdd(t, svc, "Old", "10", "Food", time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC))
	first := mustAdd(t, svc, "Same day first", "10", "Food", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	second := mustAdd(t, svc, "Same day second", "10", "Food", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))

	expenses, err := svc.ListExpenses(ctx, ListFilter{})
	if err != nil {
		t.Fatalf("ListExpenses() failed: %v", err)
	}
	got := []int64{expenses[0].ID, expenses[1].ID, expenses[2].ID}
	want := []int64{second, first, old}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestListExpensesFilters(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	date := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	mustAdd(t, svc, "Lunch at cafe", "12", "Food", date)
	mustAdd(t, svc, "Bus ticket", "3", "Transport", date)
	mustAdd(t, svc, "CAFE beans", "8", "Shopping", date)

	t.Run("search is case-insensitive substring", func(t *testing.T) {
		got, err := svc.ListExpenses(ctx, ListFilter{Search: "cafe"})
		if err != nil {
			t.Fatalf("ListExpenses() failed: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("got %d results, want 2", len(got))
		}
	})

	t.Run("category is exact", func(t *testing.T) {
		got, err := svc.ListExpenses(ctx, ListFilter{Category: "Transport"})
		if err != nil {
			t.Fatalf("ListExpenses() failed: %v", err)
		}
		if len(got) != 1 || got[0].Title != "Bus ticket" {
			t.Fatalf("got %v, want the single Transport record", got)
		}
	})

	t.Run("combined filters intersect", func(t *testing.T) {
		got, err := svc.ListExpenses(ctx, ListFilter{Search: "cafe", Category: "Food"})
		if err != nil {
			t.Fatalf("ListExpenses() failed: %v", err)
		}
		if len(got) != 1 || got[0].Title != "Lunch at cafe" {
			t.Fatalf("got %v, want only the Food cafe record", got)
		}
	})
}

func TestOverview(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	mustAdd(t, svc, "Groceries", "80", "Food", time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC))
	mustAdd(t, svc, "Last month", "999", "Food", time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC))

	if err := svc.SetBudget(ctx, amt(t, "200")); err != nil {
		t.Fatalf("SetBudget() failed: %v", err)
	}
	if err := svc.SetSavingsGoal(ctx, amt(t, "100")); err != nil {
		t.Fatalf("SetSavingsGoal() failed: %v", err)
	}

	ov, err := svc.Overview(ctx, core.PeriodThisMonth)
	if err != nil {
		t.Fatalf("Overview() failed: %v", err)
	}
	if !ov.Summary.Total.Equal(amt(t, "80")) {
		t.Errorf("Total = %s, want 80", ov.Summary.Total)
	}
	if !ov.Status.Active {
		t.Error("budget status should be active for the month period")
	}
	if !ov.Status.Savings.Equal(amt(t, "120")) {
		t.Errorf("Savings = %s, want 120", ov.Status.Savings)
	}
	if !ov.Status.GoalReached {
		t.Error("goal should be reached")
	}

	t.Run("inactive outside month period", func(t *testing.T) {
		ov, err := svc.Overview(ctx, core.PeriodAllTime)
		if err != nil {
			t.Fatalf("Overview() failed: %v", err)
		}
		if ov.Status.Active {
			t.Error("budget status should be inactive for the all-time period")
		}
	})

	t.Run("invalid period", func(t *testing.T) {
		if _, err := svc.Overview(ctx, core.Period("year")); !errors.Is(err, core.ErrInvalidPeriod) {
			t.Fatalf("Overview() error = %v, want ErrInvalidPeriod", err)
		}
	})
}

func TestBackupRoundTrip(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	id := mustAdd(t, svc, "Dinner", "42.50", "Food", time.Date(2025, 6, 1, 19, 30, 0, 0, time.UTC))
	if err := SeedDefaultCategories(ctx, svc.store); err != nil {
		t.Fatalf("seeding failed: %v", err)
	}

	data, err := svc.ExportBackup(ctx)
	if err != nil {
		t.Fatalf("ExportBackup() failed: %v", err)
	}

	restored := newTestService(t)
	if err := restored.ImportBackup(ctx, data); err != nil {
		t.Fatalf("ImportBackup() failed: %v", err)
	}

	got, err := restored.GetExpense(ctx, id)
	if err != nil {
		t.Fatalf("GetExpense() after restore failed: %v", err)
	}
	if got.Title != "Dinner" || !got.Amount.Equal(amt(t, "42.50")) {
		t.Fatalf("restored expense = %+v", got)
	}

	cats, err := restored.Categories(ctx)
	if err != nil {
		t.Fatalf("Categories() failed: %v", err)
	}
	if len(cats) != len(DefaultCategories) {
		t.Fatalf("restored %d categories, want %d", len(cats), len(DefaultCategories))
	}
}

func TestImportBackupMalformedLeavesStoreUntouched(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	mustAdd(t, svc, "Keep me", "10", "Food", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))

	bad := [][]byte{
		[]byte(`not json`),
		[]byte(`[]`),
		[]byte(`{"expenses": []}`),
		[]byte(`{"expenses": {}, "categories": []}`),
	}
	for _, data := range bad {
		if err := svc.ImportBackup(ctx, data); err == nil {
			t.Fatalf("ImportBackup(%s) succeeded, want error", data)
		}
	}

	expenses, err := svc.ListExpenses(ctx, ListFilter{})
	if err != nil {
		t.Fatalf("ListExpenses() failed: %v", err)
	}
	if len(expenses) != 1 || expenses[0].Title != "Keep me" {
		t.Fatalf("store mutated by rejected import: %+v", expenses)
	}
}

func TestImportBackupReplacesExistingData(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	mustAdd(t, svc, "Only record", "10", "Food", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	data, err := svc.ExportBackup(ctx)
	if err != nil {
		t.Fatalf("ExportBackup() failed: %v", err)
	}

	mustAdd(t, svc, "Added after backup", "20", "Food", time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC))
	if err := svc.ImportBackup(ctx, data); err != nil {
		t.Fatalf("ImportBackup() failed: %v", err)
	}

	expenses, err := svc.ListExpenses(ctx, ListFilter{})
	if err != nil {
		t.Fatalf("ListExpenses() failed: %v", err)
	}
	if len(expenses) != 1 || expenses[0].Title != "Only record" {
		t.Fatalf("restore did not replace store contents: %+v", expenses)
	}
}

func TestExportCSV(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	t.Run("empty set writes nothing", func(t *testing.T) {
		var buf bytes.Buffer
		n, err := svc.ExportCSV(ctx, &buf)
		if err != nil {
			t.Fatalf("ExportCSV() failed: %v", err)
		}
		if n != 0 || buf.Len() != 0 {
			t.Fatalf("empty export wrote %d rows, %d bytes", n, buf.Len())
		}
	})

	mustAdd(t, svc, "Lunch", "12.50", "Food", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))

	var buf bytes.Buffer
	n, err := svc.ExportCSV(ctx, &buf)
	if err != nil {
		t.Fatalf("ExportCSV() failed: %v", err)
	}
	if n != 1 {
		t.Fatalf("rows = %d, want 1", n)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "id,title,amount,category,date,") {
		t.Fatalf("missing header: %q", out)
	}
	if !strings.Contains(out, `"Lunch"`) {
		t.Fatalf("missing quoted title: %q", out)
	}
}
