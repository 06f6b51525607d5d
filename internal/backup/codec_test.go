package backup

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"spendora/internal/core"
)

func sampleRecords() ([]core.Expense, []core.Category) {
	createdAt := time.Date(2025, 5, 2, 9, 30, 15, 123456789, time.UTC)
	updatedAt := createdAt.Add(48 * time.Hour)
	expenses := []core.Expense{
		{
			ID:         1,
			Title:      "Groceries",
			Amount:     decimal.RequireFromString("54.30"),
			Category:   "Food",
			Date:       time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
			ReceiptURI: "file:///receipts/1.png",
			CreatedAt:  createdAt,
			UpdatedAt:  &updatedAt,
		},
		{
			ID:        2,
			Title:     "Bus ticket",
			Amount:    decimal.RequireFromString("2.5"),
			Category:  "Transport",
			Date:      time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC),
			CreatedAt: createdAt,
		},
	}
	categories := []core.Category{
		{ID: 1, Name: "Food", Description: "Groceries and dining out"},
		{ID: 2, Name: "Transport"},
	}
	return expenses, categories
}

func TestBackupRoundTrip(t *testing.T) {
	expenses, categories := sampleRecords()

	data, err := Serialize(expenses, categories)
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	gotExpenses, gotCategories, err := Parse(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if len(gotExpenses) != len(expenses) || len(gotCategories) != len(categories) {
		t.Fatalf("expected %d/%d records, got %d/%d",
			len(expenses), len(categories), len(gotExpenses), len(gotCategories))
	}
	for i, want := range expenses {
		got := gotExpenses[i]
		if got.ID != want.ID || got.Title != want.Title || got.Category != want.Category || got.ReceiptURI != want.ReceiptURI {
			t.Fatalf("expense %d fields differ: got %+v want %+v", i, got, want)
		}
		if !got.Amount.Equal(want.Amount) {
			t.Fatalf("expense %d amount: got %s want %s", i, got.Amount, want.Amount)
		}
		if !got.Date.Equal(want.Date) || !got.CreatedAt.Equal(want.CreatedAt) {
			t.Fatalf("expense %d timestamps must round-trip exactly", i)
		}
		if (got.UpdatedAt == nil) != (want.UpdatedAt == nil) {
			t.Fatalf("expense %d updated_at presence differs", i)
		}
		if got.UpdatedAt != nil && !got.UpdatedAt.Equal(*want.UpdatedAt) {
			t.Fatalf("expense %d updated_at: got %v want %v", i, got.UpdatedAt, want.UpdatedAt)
		}
	}
	for i, want := range categories {
		if gotCategories[i] != want {
			t.Fatalf("category %d: got %+v want %+v", i, gotCategories[i], want)
		}
	}
}

func TestParseRejectsBadDocuments(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"malformed json", `{"expenses": [`},
		{"top-level array", `[]`},
		{"missing expenses", `{"categories": []}`},
		{"missing categories", `{"expenses": []}`},
		{"null categories", `{"expenses": [], "categories": null}`},
		{"expenses not an array", `{"expenses": {}, "categories": []}`},
		{"categories not an array", `{"expenses": [], "categories": "nope"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := Parse([]byte(tc.data))
			if !errors.Is(err, ErrFormat) {
				t.Fatalf("expected ErrFormat, got %v", err)
			}
		})
	}
}

func TestParseEmptyArrays(t *testing.T) {
	expenses, categories, err := Parse([]byte(`{"expenses": [], "categories": []}`))
	if err != nil {
		t.Fatalf("empty arrays are a valid backup: %v", err)
	}
	if len(expenses) != 0 || len(categories) != 0 {
		t.Fatalf("expected empty sets, got %d/%d", len(expenses), len(categories))
	}
}
