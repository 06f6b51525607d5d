package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type (
	// Expense is a single recorded spend transaction.
	Expense struct {
		ID         int64
		Title      string
		Amount     decimal.Decimal
		Category   string
		Date       time.Time // occurrence date, user-selectable
		ReceiptURI string    // optional reference to an external receipt, empty when absent
		CreatedAt  time.Time
		UpdatedAt  *time.Time // stamped on every edit, nil until then
	}

	// Category is a named grouping label for expenses.
	Category struct {
		ID          int64
		Name        string
		Description string
	}

	// ExpenseUpdate carries the fields of a merge-update.
	// Nil fields leave the stored value untouched.
	ExpenseUpdate struct {
		Title      *string
		Amount     *decimal.Decimal
		Category   *string
		Date       *time.Time
		ReceiptURI *string
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyTitle       = errors.New("empty title")
	ErrEmptyCategory    = errors.New("empty category")
	ErrInvalidDate      = errors.New("invalid date")
	ErrEmptyName        = errors.New("empty category name")
	ErrExpenseNotFound  = errors.New("expense not found")
	ErrCategoryNotFound = errors.New("category not found")
)

func (e Expense) Validate() error {
	if len(strings.TrimSpace(e.Title)) == 0 {
		return ErrEmptyTitle
	}
	if !e.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	if e.Date.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// Validate checks only the fields present in the update.
func (u ExpenseUpdate) Validate() error {
	if u.Title != nil && len(strings.TrimSpace(*u.Title)) == 0 {
		return ErrEmptyTitle
	}
	if u.Amount != nil && !u.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if u.Category != nil && strings.TrimSpace(*u.Category) == "" {
		return ErrEmptyCategory
	}
	if u.Date != nil && u.Date.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// IsEmpty reports whether the update would change nothing.
func (u ExpenseUpdate) IsEmpty() bool {
	return u.Title == nil && u.Amount == nil && u.Category == nil && u.Date == nil && u.ReceiptURI == nil
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	return nil
}
