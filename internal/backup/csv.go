package backup

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"spendora/internal/core"
)

// csvHeader is the fixed column order of the expense report.
const csvHeader = "id,title,amount,category,date,receipt_uri,created_at,updated_at"

// WriteCSV writes the one-way expense report: one row per expense under the
// fixed header, rows separated by CRLF. Text fields are always
// double-quoted with internal quotes doubled; numeric and date fields are
// bare, dates in RFC 3339. There is no corresponding import.
//
// The stdlib csv writer quotes only when it must and cannot force the
// always-quoted text fields this report specifies, so rows are assembled
// directly.
func WriteCSV(w io.Writer, expenses []core.Expense) error {
	if _, err := io.WriteString(w, csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, e := range expenses {
		updatedAt := ""
		if e.UpdatedAt != nil {
			updatedAt = e.UpdatedAt.Format(time.RFC3339Nano)
		}
		fields := []string{
			strconv.FormatInt(e.ID, 10),
			quote(e.Title),
			e.Amount.String(),
			quote(e.Category),
			e.Date.Format(time.RFC3339Nano),
			quote(e.ReceiptURI),
			e.CreatedAt.Format(time.RFC3339Nano),
			updatedAt,
		}
		if _, err := io.WriteString(w, "\r\n"+strings.Join(fields, ",")); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	return nil
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
