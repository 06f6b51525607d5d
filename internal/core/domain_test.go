package core

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestExpenseValidate(t *testing.T) {
	good := Expense{
		Title:    "Lunch",
		Amount:   decimal.NewFromInt(12),
		Category: "Food",
		Date:     time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		name string
		e    Expense
		want error
	}{
		{"blank title", Expense{Title: "   ", Amount: decimal.NewFromInt(1), Category: "Food", Date: good.Date}, ErrEmptyTitle},
		{"zero amount", Expense{Title: "a", Amount: decimal.Zero, Category: "Food", Date: good.Date}, ErrInvalidAmount},
		{"negative amount", Expense{Title: "a", Amount: decimal.NewFromInt(-3), Category: "Food", Date: good.Date}, ErrInvalidAmount},
		{"empty category", Expense{Title: "a", Amount: decimal.NewFromInt(1), Category: "", Date: good.Date}, ErrEmptyCategory},
		{"zero date", Expense{Title: "a", Amount: decimal.NewFromInt(1), Category: "Food"}, ErrInvalidDate},
	}
	for _, tc := range cases {
		if err := tc.e.Validate(); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestExpenseUpdateValidate(t *testing.T) {
	title := "Dinner"
	blank := "  "
	neg := decimal.NewFromInt(-1)
	pos := decimal.NewFromInt(5)

	if err := (ExpenseUpdate{}).Validate(); err != nil {
		t.Fatalf("empty update should validate, got %v", err)
	}
	if err := (ExpenseUpdate{Title: &title, Amount: &pos}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (ExpenseUpdate{Title: &blank}).Validate(); !errors.Is(err, ErrEmptyTitle) {
		t.Fatalf("expected ErrEmptyTitle, got %v", err)
	}
	if err := (ExpenseUpdate{Amount: &neg}).Validate(); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestExpenseUpdateIsEmpty(t *testing.T) {
	if !(ExpenseUpdate{}).IsEmpty() {
		t.Fatal("zero update should be empty")
	}
	title := "x"
	if (ExpenseUpdate{Title: &title}).IsEmpty() {
		t.Fatal("update with title should not be empty")
	}
}

func TestCategoryValidate(t *testing.T) {
	if err := (Category{Name: "Food"}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Category{Name: " "}).Validate(); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
}
