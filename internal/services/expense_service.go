package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"spendora/internal/backup"
	"spendora/internal/core"
	"spendora/internal/settings"
	"spendora/internal/store"
)

// ExpenseService orchestrates expense operations across the record store and
// the settings repository. Field validation happens here, before a record
// reaches the permissive store.
type ExpenseService struct {
	store    store.Store
	settings settings.Repository
	now      func() time.Time
}

// ListFilter narrows ListExpenses results. Search matches the title
// case-insensitively, Category matches exactly; both come from the history
// view. From/To bound the occurrence date inclusively.
type ListFilter struct {
	Search   string
	Category string
	From     *time.Time
	To       *time.Time
}

// Overview is the dashboard payload: aggregates for the selected period plus
// the budget/savings evaluation (active only for the this-month period).
type Overview struct {
	Summary     core.Summary
	Budget      decimal.Decimal
	SavingsGoal decimal.Decimal
	Status      core.BudgetStatus
}

func NewExpenseService(st store.Store, set settings.Repository) *ExpenseService {
	return &ExpenseService{
		store:    st,
		settings: set,
		now:      time.Now,
	}
}

// AddExpense validates and records a new expense, returning the assigned id.
func (s *ExpenseService) AddExpense(ctx context.Context, e core.Expense) (int64, error) {
	if err := e.Validate(); err != nil {
		return 0, err
	}
	id, err := s.store.CreateExpense(ctx, e)
	if err != nil {
		return 0, fmt.Errorf("create expense: %w", err)
	}

	slog.InfoContext(ctx, "Expense recorded",
		"id", id,
		"title", e.Title,
		"amount", e.Amount.String(),
		"category", e.Category)

	return id, nil
}

// UpdateExpense merges the set fields into an existing expense. A missing id
// surfaces core.ErrExpenseNotFound; the caller aborts rather than creating a
// new record.
func (s *ExpenseService) UpdateExpense(ctx context.Context, id int64, upd core.ExpenseUpdate) error {
	if err := upd.Validate(); err != nil {
		return err
	}
	if err := s.store.UpdateExpense(ctx, id, upd); err != nil {
		return fmt.Errorf("update expense %d: %w", id, err)
	}

	slog.InfoContext(ctx, "Expense updated", "id", id)
	return nil
}

func (s *ExpenseService) GetExpense(ctx context.Context, id int64) (core.Expense, error) {
	return s.store.GetExpense(ctx, id)
}

func (s *ExpenseService) DeleteExpense(ctx context.Context, id int64) error {
	if err := s.store.DeleteExpense(ctx, id); err != nil {
		return fmt.Errorf("delete expense %d: %w", id, err)
	}
	slog.InfoContext(ctx, "Expense deleted", "id", id)
	return nil
}

// ListExpenses returns the matching expenses newest first. The store itself
// guarantees no order, so the chronological sort happens here.
func (s *ExpenseService) ListExpenses(ctx context.Context, f ListFilter) ([]core.Expense, error) {
	expenses, err := s.store.ListExpenses(ctx, store.ExpenseFilter{From: f.From, To: f.To})
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}

	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := expenses[:0]
	for _, e := range expenses {
		if search != "" && !strings.Contains(strings.ToLower(e.Title), search) {
			continue
		}
		if f.Category != "" && e.Category != f.Category {
			continue
		}
		out = append(out, e)
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *ExpenseService) Categories(ctx context.Context) ([]core.Category, error) {
	cats, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i].ID < cats[j].ID })
	return cats, nil
}

// Overview loads the expense set, aggregates it over the period and evaluates
// the budget settings against the result.
func (s *ExpenseService) Overview(ctx context.Context, period core.Period) (Overview, error) {
	if !period.IsValid() {
		return Overview{}, core.ErrInvalidPeriod
	}

	var (
		expenses []core.Expense
		budget   decimal.Decimal
		goal     decimal.Decimal
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		expenses, err = s.store.ListExpenses(gctx, store.ExpenseFilter{})
		return err
	})
	g.Go(func() error {
		var err error
		if budget, err = s.settings.Budget(gctx); err != nil {
			return err
		}
		goal, err = s.settings.SavingsGoal(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return Overview{}, fmt.Errorf("load overview data: %w", err)
	}

	summary := core.Summarize(expenses, period, s.now())
	return Overview{
		Summary:     summary,
		Budget:      budget,
		SavingsGoal: goal,
		Status:      core.EvaluateBudget(summary.Total, budget, goal, period),
	}, nil
}

// SetBudget stores the monthly budget; zero clears it.
func (s *ExpenseService) SetBudget(ctx context.Context, v decimal.Decimal) error {
	if err := s.settings.SetBudget(ctx, v); err != nil {
		return fmt.Errorf("set budget: %w", err)
	}
	slog.InfoContext(ctx, "Monthly budget saved", "budget", v.String())
	return nil
}

// SetSavingsGoal stores the monthly savings goal; zero clears it.
func (s *ExpenseService) SetSavingsGoal(ctx context.Context, v decimal.Decimal) error {
	if err := s.settings.SetSavingsGoal(ctx, v); err != nil {
		return fmt.Errorf("set savings goal: %w", err)
	}
	slog.InfoContext(ctx, "Savings goal saved", "goal", v.String())
	return nil
}

// ExportBackup serializes the full record set into the backup document.
func (s *ExpenseService) ExportBackup(ctx context.Context) ([]byte, error) {
	var (
		expenses   []core.Expense
		categories []core.Category
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		expenses, err = s.store.ListExpenses(gctx, store.ExpenseFilter{})
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = s.store.ListCategories(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load records for backup: %w", err)
	}

	sort.Slice(expenses, func(i, j int) bool { return expenses[i].ID < expenses[j].ID })
	sort.Slice(categories, func(i, j int) bool { return categories[i].ID < categories[j].ID })

	data, err := backup.Serialize(expenses, categories)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Backup exported",
		"expenses", len(expenses),
		"categories", len(categories))
	return data, nil
}

// ImportBackup restores the store from a backup document. Parsing happens
// before any mutation, so a malformed document leaves the store exactly as it
// was. The restore itself is three independent operations with no spanning
// transaction: clear, insert categories, insert expenses.
func (s *ExpenseService) ImportBackup(ctx context.Context, data []byte) error {
	expenses, categories, err := backup.Parse(data)
	if err != nil {
		return err
	}

	if err := s.store.ClearAll(ctx); err != nil {
		return fmt.Errorf("clear store for restore: %w", err)
	}
	if err := s.store.BulkInsertCategories(ctx, categories); err != nil {
		return fmt.Errorf("restore categories: %w", err)
	}
	if err := s.store.BulkInsertExpenses(ctx, expenses); err != nil {
		return fmt.Errorf("restore expenses: %w", err)
	}

	slog.InfoContext(ctx, "Backup restored",
		"expenses", len(expenses),
		"categories", len(categories))
	return nil
}

// ExportCSV writes the expense report and returns the number of rows written.
// An empty record set writes nothing and returns zero; the caller decides
// whether to warn.
func (s *ExpenseService) ExportCSV(ctx context.Context, w io.Writer) (int, error) {
	expenses, err := s.store.ListExpenses(ctx, store.ExpenseFilter{})
	if err != nil {
		return 0, fmt.Errorf("list expenses: %w", err)
	}
	if len(expenses) == 0 {
		return 0, nil
	}
	sort.Slice(expenses, func(i, j int) bool { return expenses[i].ID < expenses[j].ID })

	if err := backup.WriteCSV(w, expenses); err != nil {
		return 0, err
	}
	return len(expenses), nil
}

// Close releases the underlying store.
func (s *ExpenseService) Close() error {
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			return fmt.Errorf("close store: %w", err)
		}
	}
	return nil
}
