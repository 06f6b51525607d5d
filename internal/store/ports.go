// Package store defines the record store port implemented by the storage
// backends.
package store

import (
	"context"
	"time"

	"spendora/internal/core"
)

// ExpenseFilter narrows ListExpenses to an inclusive date range.
// Nil bounds are open.
type ExpenseFilter struct {
	From *time.Time
	To   *time.Time
}

// Matches reports whether an occurrence date falls inside the range.
func (f ExpenseFilter) Matches(date time.Time) bool {
	if f.From != nil && date.Before(*f.From) {
		return false
	}
	if f.To != nil && date.After(*f.To) {
		return false
	}
	return true
}

// Store is the durable keyed storage for expenses and categories. The store
// owns every persisted record; callers hold transient copies of query
// results. It is permissive by design: field validation happens in the
// service layer before a record reaches the store.
type Store interface {
	// CreateExpense assigns a fresh unique id, stamps CreatedAt and leaves
	// UpdatedAt unset. Returns the assigned id.
	CreateExpense(ctx context.Context, e core.Expense) (int64, error)

	// UpdateExpense merges the set fields into the stored record and stamps
	// UpdatedAt. Returns core.ErrExpenseNotFound when the id does not exist;
	// it never creates a record.
	UpdateExpense(ctx context.Context, id int64, upd core.ExpenseUpdate) error

	// DeleteExpense removes the record. Deleting an absent id is a no-op.
	DeleteExpense(ctx context.Context, id int64) error

	// GetExpense returns core.ErrExpenseNotFound when the id does not exist.
	GetExpense(ctx context.Context, id int64) (core.Expense, error)

	// ListExpenses returns the matching expenses in no guaranteed order;
	// callers that need chronological order sort explicitly.
	ListExpenses(ctx context.Context, filter ExpenseFilter) ([]core.Expense, error)

	ListCategories(ctx context.Context) ([]core.Category, error)
	CreateCategory(ctx context.Context, c core.Category) (int64, error)

	// ClearAll deletes every expense and category. Used only by restore.
	ClearAll(ctx context.Context) error

	// BulkInsertExpenses inserts pre-formed records preserving the supplied
	// id values. Used only by restore.
	BulkInsertExpenses(ctx context.Context, expenses []core.Expense) error
	// BulkInsertCategories inserts pre-formed records preserving the supplied
	// id values. Used only by restore.
	BulkInsertCategories(ctx context.Context, categories []core.Category) error

	Close() error
}
