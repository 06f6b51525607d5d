// Package settings persists the monthly budget and savings goal. These are
// plain key-value scalars kept outside the record store, scoped to
// current-month semantics.
package settings

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"spendora/internal/core"
)

const (
	keyBudget      = "monthlyBudget"
	keySavingsGoal = "monthlySavingsGoal"
)

var ErrNegativeValue = errors.New("setting value cannot be negative")

// Repository reads and writes the budget and savings-goal settings. Absent
// values read as zero, which means "not set".
type Repository interface {
	Budget(ctx context.Context) (decimal.Decimal, error)
	SetBudget(ctx context.Context, v decimal.Decimal) error
	SavingsGoal(ctx context.Context) (decimal.Decimal, error)
	SetSavingsGoal(ctx context.Context, v decimal.Decimal) error
}

// FileRepository stores settings in an env-format file next to the database.
type FileRepository struct {
	mu   sync.Mutex
	path string
}

var _ Repository = (*FileRepository)(nil)

func NewFileRepository(path string) (*FileRepository, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create settings directory: %w", err)
	}
	return &FileRepository{path: path}, nil
}

func (r *FileRepository) Budget(_ context.Context) (decimal.Decimal, error) {
	return r.get(keyBudget)
}

func (r *FileRepository) SetBudget(_ context.Context, v decimal.Decimal) error {
	return r.set(keyBudget, v)
}

func (r *FileRepository) SavingsGoal(_ context.Context) (decimal.Decimal, error) {
	return r.get(keySavingsGoal)
}

func (r *FileRepository) SetSavingsGoal(_ context.Context, v decimal.Decimal) error {
	return r.set(keySavingsGoal, v)
}

func (r *FileRepository) get(key string) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	values, err := r.read()
	if err != nil {
		return decimal.Zero, err
	}
	v, err := core.ParseSetting(values[key])
	if err != nil {
		return decimal.Zero, fmt.Errorf("setting %s: %w", key, err)
	}
	return v, nil
}

func (r *FileRepository) set(key string, v decimal.Decimal) error {
	if v.IsNegative() {
		return ErrNegativeValue
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	values, err := r.read()
	if err != nil {
		return err
	}
	values[key] = v.String()
	if err := godotenv.Write(values, r.path); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}
	return nil
}

func (r *FileRepository) read() (map[string]string, error) {
	if _, err := os.Stat(r.path); os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	values, err := godotenv.Read(r.path)
	if err != nil {
		return nil, fmt.Errorf("read settings file: %w", err)
	}
	return values, nil
}

// MemoryRepository keeps settings in memory for tests.
type MemoryRepository struct {
	mu     sync.Mutex
	budget decimal.Decimal
	goal   decimal.Decimal
}

var _ Repository = (*MemoryRepository)(nil)

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{budget: decimal.Zero, goal: decimal.Zero}
}

func (r *MemoryRepository) Budget(_ context.Context) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.budget, nil
}

func (r *MemoryRepository) SetBudget(_ context.Context, v decimal.Decimal) error {
	if v.IsNegative() {
		return ErrNegativeValue
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.budget = v
	return nil
}

func (r *MemoryRepository) SavingsGoal(_ context.Context) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.goal, nil
}

func (r *MemoryRepository) SetSavingsGoal(_ context.Context, v decimal.Decimal) error {
	if v.IsNegative() {
		return ErrNegativeValue
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.goal = v
	return nil
}
