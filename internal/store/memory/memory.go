// Package memory provides the in-memory record store backend, used by tests
// and as a throwaway backend when no database path is configured.
package memory

import (
	"context"
	"sync"
	"time"

	"spendora/internal/core"
	"spendora/internal/store"
)

type Store struct {
	mu             sync.Mutex
	expenses       map[int64]core.Expense
	categories     map[int64]core.Category
	nextExpenseID  int64
	nextCategoryID int64
	now            func() time.Time
}

func New() *Store {
	return &Store{
		expenses:       make(map[int64]core.Expense),
		categories:     make(map[int64]core.Category),
		nextExpenseID:  1,
		nextCategoryID: 1,
		now:            time.Now,
	}
}

var _ store.Store = (*Store)(nil)

func (s *Store) CreateExpense(_ context.Context, e core.Expense) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e.ID = s.nextExpenseID
	s.nextExpenseID++
	e.CreatedAt = s.now()
	e.UpdatedAt = nil
	s.expenses[e.ID] = e
	return e.ID, nil
}

func (s *Store) UpdateExpense(_ context.Context, id int64, upd core.ExpenseUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.expenses[id]
	if !ok {
		return core.ErrExpenseNotFound
	}
	if upd.Title != nil {
		e.Title = *upd.Title
	}
	if upd.Amount != nil {
		e.Amount = *upd.Amount
	}
	if upd.Category != nil {
		e.Category = *upd.Category
	}
	if upd.Date != nil {
		e.Date = *upd.Date
	}
	if upd.ReceiptURI != nil {
		e.ReceiptURI = *upd.ReceiptURI
	}
	ts := s.now()
	e.UpdatedAt = &ts
	s.expenses[id] = e
	return nil
}

func (s *Store) DeleteExpense(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.expenses, id)
	return nil
}

func (s *Store) GetExpense(_ context.Context, id int64) (core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.expenses[id]
	if !ok {
		return core.Expense{}, core.ErrExpenseNotFound
	}
	return e, nil
}

func (s *Store) ListExpenses(_ context.Context, filter store.ExpenseFilter) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Expense, 0, len(s.expenses))
	for _, e := range s.expenses {
		if filter.Matches(e.Date) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *Store) ListCategories(_ context.Context) ([]core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Category, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, c)
	}
	return out, nil
}

func (s *Store) CreateCategory(_ context.Context, c core.Category) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = s.nextCategoryID
	s.nextCategoryID++
	s.categories[c.ID] = c
	return c.ID, nil
}

func (s *Store) ClearAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expenses = make(map[int64]core.Expense)
	s.categories = make(map[int64]core.Category)
	s.nextExpenseID = 1
	s.nextCategoryID = 1
	return nil
}

func (s *Store) BulkInsertExpenses(_ context.Context, expenses []core.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range expenses {
		s.expenses[e.ID] = e
		if e.ID >= s.nextExpenseID {
			s.nextExpenseID = e.ID + 1
		}
	}
	return nil
}

func (s *Store) BulkInsertCategories(_ context.Context, categories []core.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range categories {
		s.categories[c.ID] = c
		if c.ID >= s.nextCategoryID {
			s.nextCategoryID = c.ID + 1
		}
	}
	return nil
}

func (s *Store) Close() error {
	return nil
}
