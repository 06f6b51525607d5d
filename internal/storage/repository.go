package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"spendora/internal/core"
	"spendora/internal/store"

	_ "modernc.org/sqlite"
)

// timeLayout is a fixed-width RFC 3339 form so stored timestamps compare
// lexicographically in chronological order. All values are normalized to UTC
// on write.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteRepository is the file-backed record store.
type SQLiteRepository struct {
	db  *sql.DB
	now func() time.Time
}

var _ store.Store = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Run migrations
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db, now: time.Now}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) CreateExpense(ctx context.Context, e core.Expense) (int64, error) {
	createdAt := r.now()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (title, amount, category, date, receipt_uri, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.Title, e.Amount.String(), e.Category, encodeTime(e.Date), e.ReceiptURI, encodeTime(createdAt),
	)
	if err != nil {
		return 0, fmt.Errorf("insert expense: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("expense id: %w", err)
	}

	slog.InfoContext(ctx, "Expense saved to SQLite",
		"id", id,
		"title", e.Title,
		"amount", e.Amount.String(),
		"category", e.Category)

	return id, nil
}

func (r *SQLiteRepository) UpdateExpense(ctx context.Context, id int64, upd core.ExpenseUpdate) error {
	// Read, merge in Go, write back: the merge contract is the same for every
	// backend and the record set is tiny.
	e, err := r.GetExpense(ctx, id)
	if err != nil {
		return err
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
	updatedAt := r.now()

	_, err = r.db.ExecContext(ctx,
		`UPDATE expenses
		 SET title = ?, amount = ?, category = ?, date = ?, receipt_uri = ?, updated_at = ?
		 WHERE id = ?`,
		e.Title, e.Amount.String(), e.Category, encodeTime(e.Date), e.ReceiptURI, encodeTime(updatedAt), id,
	)
	if err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteExpense(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetExpense(ctx context.Context, id int64) (core.Expense, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, title, amount, category, date, receipt_uri, created_at, updated_at
		 FROM expenses WHERE id = ?`, id)
	e, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, core.ErrExpenseNotFound
	}
	if err != nil {
		return core.Expense{}, fmt.Errorf("get expense: %w", err)
	}
	return e, nil
}

func (r *SQLiteRepository) ListExpenses(ctx context.Context, filter store.ExpenseFilter) ([]core.Expense, error) {
	query := `SELECT id, title, amount, category, date, receipt_uri, created_at, updated_at FROM expenses`
	var args []any
	switch {
	case filter.From != nil && filter.To != nil:
		query += ` WHERE date >= ? AND date <= ?`
		args = append(args, encodeTime(*filter.From), encodeTime(*filter.To))
	case filter.From != nil:
		query += ` WHERE date >= ?`
		args = append(args, encodeTime(*filter.From))
	case filter.To != nil:
		query += ` WHERE date <= ?`
		args = append(args, encodeTime(*filter.To))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var out []core.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) ListCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, description FROM categories`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []core.Category
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) CreateCategory(ctx context.Context, c core.Category) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (name, description) VALUES (?, ?)`,
		c.Name, c.Description,
	)
	if err != nil {
		return 0, fmt.Errorf("insert category: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("category id: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) ClearAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM expenses`); err != nil {
		return fmt.Errorf("clear expenses: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM categories`); err != nil {
		return fmt.Errorf("clear categories: %w", err)
	}
	slog.InfoContext(ctx, "Record store cleared")
	return nil
}

func (r *SQLiteRepository) BulkInsertExpenses(ctx context.Context, expenses []core.Expense) error {
	stmt, err := r.db.PrepareContext(ctx,
		`INSERT INTO expenses (id, title, amount, category, date, receipt_uri, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare bulk expense insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range expenses {
		var updatedAt any
		if e.UpdatedAt != nil {
			updatedAt = encodeTime(*e.UpdatedAt)
		}
		if _, err := stmt.ExecContext(ctx,
			e.ID, e.Title, e.Amount.String(), e.Category,
			encodeTime(e.Date), e.ReceiptURI, encodeTime(e.CreatedAt), updatedAt,
		); err != nil {
			return fmt.Errorf("bulk insert expense %d: %w", e.ID, err)
		}
	}
	return nil
}

func (r *SQLiteRepository) BulkInsertCategories(ctx context.Context, categories []core.Category) error {
	stmt, err := r.db.PrepareContext(ctx,
		`INSERT INTO categories (id, name, description) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare bulk category insert: %w", err)
	}
	defer stmt.Close()

	for _, c := range categories {
		if _, err := stmt.ExecContext(ctx, c.ID, c.Name, c.Description); err != nil {
			return fmt.Errorf("bulk insert category %d: %w", c.ID, err)
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (core.Expense, error) {
	var (
		e         core.Expense
		amount    string
		date      string
		createdAt string
		updatedAt sql.NullString
	)
	if err := row.Scan(&e.ID, &e.Title, &amount, &e.Category, &date, &e.ReceiptURI, &createdAt, &updatedAt); err != nil {
		return core.Expense{}, err
	}

	var err error
	if e.Amount, err = decimal.NewFromString(amount); err != nil {
		return core.Expense{}, fmt.Errorf("decode amount %q: %w", amount, err)
	}
	if e.Date, err = decodeTime(date); err != nil {
		return core.Expense{}, fmt.Errorf("decode date: %w", err)
	}
	if e.CreatedAt, err = decodeTime(createdAt); err != nil {
		return core.Expense{}, fmt.Errorf("decode created_at: %w", err)
	}
	if updatedAt.Valid {
		ts, err := decodeTime(updatedAt.String)
		if err != nil {
			return core.Expense{}, fmt.Errorf("decode updated_at: %w", err)
		}
		e.UpdatedAt = &ts
	}
	return e, nil
}

func encodeTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func decodeTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}
