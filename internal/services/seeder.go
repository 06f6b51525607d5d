package services

import (
	"context"
	"fmt"
	"log/slog"

	"spendora/internal/core"
	"spendora/internal/store"
)

// DefaultCategories are created on first run so a fresh install has a usable
// category list. Matching is by exact name, so a renamed or deleted default
// is never resurrected with different casing.
var DefaultCategories = []core.Category{
	{Name: "Food", Description: "Groceries and dining out"},
	{Name: "Transport", Description: "Public transport and fuel"},
	{Name: "Bills", Description: "Utilities and subscriptions"},
	{Name: "Entertainment", Description: "Movies, games, and leisure"},
	{Name: "Shopping", Description: "Clothes and personal items"},
	{Name: "Other", Description: "Miscellaneous expenses"},
}

// SeedDefaultCategories creates any default category not already present.
// Running it repeatedly is a no-op once all defaults exist. On failure the
// categories created so far are kept; the next run picks up where this one
// stopped.
func SeedDefaultCategories(ctx context.Context, st store.Store) error {
	existing, err := st.ListCategories(ctx)
	if err != nil {
		return fmt.Errorf("list categories for seeding: %w", err)
	}

	present := make(map[string]bool, len(existing))
	for _, c := range existing {
		present[c.Name] = true
	}

	created := 0
	for _, c := range DefaultCategories {
		if present[c.Name] {
			continue
		}
		if _, err := st.CreateCategory(ctx, c); err != nil {
			return fmt.Errorf("seed category %q: %w", c.Name, err)
		}
		created++
	}

	if created > 0 {
		slog.InfoContext(ctx, "Default categories seeded", "created", created)
	}
	return nil
}
