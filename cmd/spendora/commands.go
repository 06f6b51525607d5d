package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"

	"spendora/internal/core"
	"spendora/internal/log"
	"spendora/internal/services"
)

type app struct {
	svc    *services.ExpenseService
	logger *log.Logger
}

func (a *app) runAdd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	title := fs.String("title", "", "expense title (required)")
	amount := fs.String("amount", "", "amount, e.g. 12.50 (required)")
	category := fs.String("category", "", "category name (required)")
	date := fs.String("date", "", "occurrence date YYYY-MM-DD (default: today)")
	receipt := fs.String("receipt", "", "receipt reference")
	if err := fs.Parse(args); err != nil {
		return err
	}

	amt, err := core.ParseAmount(*amount)
	if err != nil {
		return fmt.Errorf("amount %q: %w", *amount, err)
	}
	day, err := parseDay(*date, time.Now())
	if err != nil {
		return err
	}

	id, err := a.svc.AddExpense(ctx, core.Expense{
		Title:      strings.TrimSpace(*title),
		Amount:     amt,
		Category:   strings.TrimSpace(*category),
		Date:       day,
		ReceiptURI: *receipt,
	})
	if err != nil {
		return describeFieldError(err)
	}

	fmt.Printf("Added expense %d: %s %s (%s)\n", id, *title, core.FormatAmount(amt), *category)
	return nil
}

func (a *app) runEdit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("edit", flag.ExitOnError)
	id := fs.Int64("id", 0, "expense id (required)")
	title := fs.String("title", "", "new title")
	amount := fs.String("amount", "", "new amount")
	category := fs.String("category", "", "new category")
	date := fs.String("date", "", "new occurrence date YYYY-MM-DD")
	receipt := fs.String("receipt", "", "new receipt reference")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id <= 0 {
		return errors.New("edit requires -id")
	}

	// Only flags the user actually passed become part of the update, so an
	// empty -receipt still clears the field while an omitted one keeps it.
	var upd core.ExpenseUpdate
	var parseErr error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "title":
			upd.Title = title
		case "amount":
			amt, err := core.ParseAmount(*amount)
			if err != nil {
				parseErr = fmt.Errorf("amount %q: %w", *amount, err)
				return
			}
			upd.Amount = &amt
		case "category":
			upd.Category = category
		case "date":
			day, err := parseDay(*date, time.Now())
			if err != nil {
				parseErr = err
				return
			}
			upd.Date = &day
		case "receipt":
			upd.ReceiptURI = receipt
		}
	})
	if parseErr != nil {
		return parseErr
	}
	if upd.IsEmpty() {
		return errors.New("edit requires at least one field flag")
	}

	if err := a.svc.UpdateExpense(ctx, *id, upd); err != nil {
		return describeFieldError(err)
	}
	fmt.Printf("Updated expense %d\n", *id)
	return nil
}

func (a *app) runDelete(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	id := fs.Int64("id", 0, "expense id (required)")
	yes := fs.Bool("y", false, "skip confirmation")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id <= 0 {
		return errors.New("delete requires -id")
	}

	e, err := a.svc.GetExpense(ctx, *id)
	if err != nil {
		if errors.Is(err, core.ErrExpenseNotFound) {
			fmt.Printf("Expense %d does not exist\n", *id)
			return nil
		}
		return err
	}

	if !*yes && !confirm(fmt.Sprintf("Delete expense %d (%s, %s)?", e.ID, e.Title, core.FormatAmount(e.Amount))) {
		fmt.Println("Aborted")
		return nil
	}

	if err := a.svc.DeleteExpense(ctx, *id); err != nil {
		return err
	}
	fmt.Printf("Deleted expense %d\n", *id)
	return nil
}

func (a *app) runList(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	search := fs.String("search", "", "match titles containing this text")
	category := fs.String("category", "", "match this category exactly")
	from := fs.String("from", "", "earliest occurrence date YYYY-MM-DD")
	to := fs.String("to", "", "latest occurrence date YYYY-MM-DD")
	if err := fs.Parse(args); err != nil {
		return err
	}

	filter := services.ListFilter{Search: *search, Category: *category}
	if *from != "" {
		day, err := parseDay(*from, time.Time{})
		if err != nil {
			return err
		}
		filter.From = &day
	}
	if *to != "" {
		day, err := parseDay(*to, time.Time{})
		if err != nil {
			return err
		}
		filter.To = &day
	}

	expenses, err := a.svc.ListExpenses(ctx, filter)
	if err != nil {
		return err
	}
	if len(expenses) == 0 {
		fmt.Println("No expenses found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tTITLE\tCATEGORY\tAMOUNT")
	for _, e := range expenses {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			e.ID, e.Date.Format(core.DayFormat), e.Title, e.Category, core.FormatAmount(e.Amount))
	}
	return w.Flush()
}

func (a *app) runSummary(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("summary", flag.ExitOnError)
	periodFlag := fs.String("period", string(core.PeriodThisMonth), "period: today, month or all")
	if err := fs.Parse(args); err != nil {
		return err
	}

	period, err := core.ParsePeriod(*periodFlag)
	if err != nil {
		return fmt.Errorf("period %q: %w", *periodFlag, err)
	}

	ov, err := a.svc.Overview(ctx, period)
	if err != nil {
		return err
	}

	fmt.Printf("Total (%s): %s\n", period, core.FormatAmount(ov.Summary.Total))

	if len(ov.Summary.ByCategory) > 0 {
		fmt.Println("\nBy category:")
		w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
		for _, category := range sortedKeys(ov.Summary.ByCategory) {
			fmt.Fprintf(w, "  %s\t%s\n", category, core.FormatAmount(ov.Summary.ByCategory[category]))
		}
		w.Flush()
	}
	if len(ov.Summary.ByDay) > 0 {
		fmt.Println("\nBy day:")
		w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
		for _, day := range sortedKeys(ov.Summary.ByDay) {
			fmt.Fprintf(w, "  %s\t%s\n", day, core.FormatAmount(ov.Summary.ByDay[day]))
		}
		w.Flush()
	}

	if ov.Status.Active {
		fmt.Printf("\nBudget: %s", core.FormatAmount(ov.Budget))
		if ov.Status.OverBudget {
			fmt.Print("  (over budget)")
		}
		fmt.Println()
		fmt.Printf("Savings: %s", core.FormatAmount(ov.Status.Savings))
		if ov.SavingsGoal.IsPositive() {
			fmt.Printf(" of %s goal (%.0f%%)", core.FormatAmount(ov.SavingsGoal), ov.Status.SavingsPercent)
			if ov.Status.GoalReached {
				fmt.Print(" - goal reached")
			}
		}
		fmt.Println()
	}
	return nil
}

func (a *app) runCategories(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("categories", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cats, err := a.svc.Categories(ctx)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tDESCRIPTION")
	for _, c := range cats {
		fmt.Fprintf(w, "%d\t%s\t%s\n", c.ID, c.Name, c.Description)
	}
	return w.Flush()
}

func (a *app) runBudget(ctx context.Context, args []string) error {
	return a.runSetting(ctx, "budget", args)
}

func (a *app) runGoal(ctx context.Context, args []string) error {
	return a.runSetting(ctx, "goal", args)
}

// runSetting handles the shared show/set shape of the budget and goal
// commands: no argument prints the value, "set <amount>" stores it and
// "set 0" clears it.
func (a *app) runSetting(ctx context.Context, name string, args []string) error {
	if len(args) == 0 {
		ov, err := a.svc.Overview(ctx, core.PeriodThisMonth)
		if err != nil {
			return err
		}
		switch name {
		case "budget":
			fmt.Printf("Monthly budget: %s\n", core.FormatAmount(ov.Budget))
		case "goal":
			fmt.Printf("Monthly savings goal: %s\n", core.FormatAmount(ov.SavingsGoal))
		}
		return nil
	}

	if args[0] != "set" || len(args) != 2 {
		return fmt.Errorf("usage: spendora %s [set <amount>]", name)
	}
	value, err := core.ParseSetting(args[1])
	if err != nil {
		return fmt.Errorf("%s %q: %w", name, args[1], err)
	}

	switch name {
	case "budget":
		if err := a.svc.SetBudget(ctx, value); err != nil {
			return err
		}
		fmt.Printf("Monthly budget set to %s\n", core.FormatAmount(value))
	case "goal":
		if err := a.svc.SetSavingsGoal(ctx, value); err != nil {
			return err
		}
		fmt.Printf("Monthly savings goal set to %s\n", core.FormatAmount(value))
	}
	return nil
}

func (a *app) runExport(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	out := fs.String("o", "", "output file (default: stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	data, err := a.svc.ExportBackup(ctx)
	if err != nil {
		return err
	}
	if *out == "" {
		fmt.Println(string(data))
		return nil
	}
	if err := os.WriteFile(*out, data, 0644); err != nil {
		return fmt.Errorf("write backup file: %w", err)
	}
	fmt.Printf("Backup written to %s\n", *out)
	return nil
}

func (a *app) runImport(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	in := fs.String("i", "", "backup file to restore (required)")
	yes := fs.Bool("y", false, "skip confirmation")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" {
		return errors.New("import requires -i <file>")
	}

	data, err := os.ReadFile(*in)
	if err != nil {
		return fmt.Errorf("read backup file: %w", err)
	}

	if !*yes && !confirm("Importing replaces ALL existing expenses and categories. Continue?") {
		fmt.Println("Aborted")
		return nil
	}

	if err := a.svc.ImportBackup(ctx, data); err != nil {
		return err
	}
	fmt.Println("Backup restored")
	return nil
}

func (a *app) runExportCSV(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("export-csv", flag.ExitOnError)
	out := fs.String("o", "", "output file (default: stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var w *os.File
	if *out == "" {
		w = os.Stdout
	} else {
		f, err := os.Create(*out)
		if err != nil {
			return fmt.Errorf("create csv file: %w", err)
		}
		defer f.Close()
		w = f
	}

	n, err := a.svc.ExportCSV(ctx, w)
	if err != nil {
		return err
	}
	if n == 0 {
		a.logger.Warn("No expenses to export, nothing written")
		if *out != "" {
			os.Remove(*out)
		}
		return nil
	}
	if *out != "" {
		fmt.Printf("Exported %d expenses to %s\n", n, *out)
	}
	return nil
}

// parseDay parses a YYYY-MM-DD argument in local time. An empty argument
// returns fallback; a zero fallback means the argument is required.
func parseDay(s string, fallback time.Time) (time.Time, error) {
	if s == "" {
		if fallback.IsZero() {
			return time.Time{}, errors.New("date is required")
		}
		y, m, d := fallback.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, fallback.Location()), nil
	}
	day, err := time.ParseInLocation(core.DayFormat, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q: expected YYYY-MM-DD", s)
	}
	return day, nil
}

func sortedKeys(m map[string]decimal.Decimal) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

// describeFieldError prefixes validation sentinels with the field they
// belong to so the message points at the flag to fix.
func describeFieldError(err error) error {
	switch {
	case errors.Is(err, core.ErrEmptyTitle):
		return fmt.Errorf("-title: %w", err)
	case errors.Is(err, core.ErrInvalidAmount):
		return fmt.Errorf("-amount: %w", err)
	case errors.Is(err, core.ErrEmptyCategory):
		return fmt.Errorf("-category: %w", err)
	case errors.Is(err, core.ErrInvalidDate):
		return fmt.Errorf("-date: %w", err)
	default:
		return err
	}
}
