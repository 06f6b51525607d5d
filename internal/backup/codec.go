// Package backup implements the portable backup document used for full
// export/import and the one-way CSV expense report.
package backup

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"spendora/internal/core"
)

// ErrFormat marks a backup document that cannot be restored: malformed JSON,
// a non-object top level, or a missing or non-array expenses/categories key.
var ErrFormat = errors.New("malformed backup document")

type (
	expenseRecord struct {
		ID         int64       `json:"id"`
		Title      string      `json:"title"`
		Amount     json.Number `json:"amount"`
		Category   string      `json:"category"`
		Date       time.Time   `json:"date"`
		ReceiptURI string      `json:"receipt_uri,omitempty"`
		CreatedAt  time.Time   `json:"created_at"`
		UpdatedAt  *time.Time  `json:"updated_at,omitempty"`
	}

	categoryRecord struct {
		ID          int64  `json:"id"`
		Name        string `json:"name"`
		Description string `json:"description,omitempty"`
	}

	document struct {
		Expenses   []expenseRecord  `json:"expenses"`
		Categories []categoryRecord `json:"categories"`
	}
)

// Serialize renders the full record set as an indented JSON document. Dates
// carry full RFC 3339 precision and amounts keep their exact decimal text, so
// a round trip through Parse reproduces the records exactly.
func Serialize(expenses []core.Expense, categories []core.Category) ([]byte, error) {
	doc := document{
		Expenses:   make([]expenseRecord, 0, len(expenses)),
		Categories: make([]categoryRecord, 0, len(categories)),
	}
	for _, e := range expenses {
		doc.Expenses = append(doc.Expenses, expenseRecord{
			ID:         e.ID,
			Title:      e.Title,
			Amount:     json.Number(e.Amount.String()),
			Category:   e.Category,
			Date:       e.Date,
			ReceiptURI: e.ReceiptURI,
			CreatedAt:  e.CreatedAt,
			UpdatedAt:  e.UpdatedAt,
		})
	}
	for _, c := range categories {
		doc.Categories = append(doc.Categories, categoryRecord{
			ID:          c.ID,
			Name:        c.Name,
			Description: c.Description,
		})
	}

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode backup document: %w", err)
	}
	return out, nil
}

// Parse validates and decodes a backup document. Both top-level keys must be
// present and array-valued; any other shape fails with ErrFormat and nothing
// is partially applied. Per-record field values are trusted as exported:
// ids and timestamps pass through untouched.
func Parse(data []byte) ([]core.Expense, []core.Category, error) {
	var raw struct {
		Expenses   json.RawMessage `json:"expenses"`
		Categories json.RawMessage `json:"categories"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	if missing(raw.Expenses) {
		return nil, nil, fmt.Errorf("%w: missing expenses array", ErrFormat)
	}
	if missing(raw.Categories) {
		return nil, nil, fmt.Errorf("%w: missing categories array", ErrFormat)
	}

	var expenseRecords []expenseRecord
	if err := json.Unmarshal(raw.Expenses, &expenseRecords); err != nil {
		return nil, nil, fmt.Errorf("%w: expenses is not an array of expense records: %v", ErrFormat, err)
	}
	var categoryRecords []categoryRecord
	if err := json.Unmarshal(raw.Categories, &categoryRecords); err != nil {
		return nil, nil, fmt.Errorf("%w: categories is not an array of category records: %v", ErrFormat, err)
	}

	expenses := make([]core.Expense, 0, len(expenseRecords))
	for _, rec := range expenseRecords {
		amount, err := decimal.NewFromString(rec.Amount.String())
		if err != nil {
			return nil, nil, fmt.Errorf("%w: expense %d amount %q: %v", ErrFormat, rec.ID, rec.Amount, err)
		}
		expenses = append(expenses, core.Expense{
			ID:         rec.ID,
			Title:      rec.Title,
			Amount:     amount,
			Category:   rec.Category,
			Date:       rec.Date,
			ReceiptURI: rec.ReceiptURI,
			CreatedAt:  rec.CreatedAt,
			UpdatedAt:  rec.UpdatedAt,
		})
	}
	categories := make([]core.Category, 0, len(categoryRecords))
	for _, rec := range categoryRecords {
		categories = append(categories, core.Category{
			ID:          rec.ID,
			Name:        rec.Name,
			Description: rec.Description,
		})
	}
	return expenses, categories, nil
}

// missing treats an absent key and an explicit null the same way: the
// document does not carry the required array.
func missing(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
