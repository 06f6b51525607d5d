package main

import (
	"context"
	"fmt"
	"os"

	"spendora/internal/cli"
	"spendora/internal/log"
	"spendora/internal/services"
)

const usage = `spendora - personal expense tracker

Usage:
  spendora <command> [flags]

Commands:
  add         Record a new expense
  edit        Update fields of an existing expense
  delete      Delete an expense
  list        List expenses, optionally filtered
  summary     Show totals for a period (today, month, all)
  categories  List categories
  budget      Show or set the monthly budget
  goal        Show or set the monthly savings goal
  export      Write a JSON backup to stdout or a file
  import      Restore from a JSON backup, replacing all data
  export-csv  Write the expense report as CSV

Run 'spendora <command> -h' for command flags.`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(logger)
	logger = cli.SetupLogger(cfg.LogLevel)

	st := cli.OpenStore(logger, cfg)
	set := cli.OpenSettings(logger, cfg)
	svc := services.NewExpenseService(st, set)
	defer func() {
		if err := svc.Close(); err != nil {
			logger.Error("Failed to close store", log.FieldError, err)
		}
	}()

	ctx := context.Background()
	if err := services.SeedDefaultCategories(ctx, st); err != nil {
		logger.Error("Failed to seed default categories", log.FieldError, err)
		os.Exit(1)
	}

	app := &app{svc: svc, logger: logger}

	var err error
	switch cmd := os.Args[1]; cmd {
	case "add":
		err = app.runAdd(ctx, os.Args[2:])
	case "edit":
		err = app.runEdit(ctx, os.Args[2:])
	case "delete":
		err = app.runDelete(ctx, os.Args[2:])
	case "list":
		err = app.runList(ctx, os.Args[2:])
	case "summary":
		err = app.runSummary(ctx, os.Args[2:])
	case "categories":
		err = app.runCategories(ctx, os.Args[2:])
	case "budget":
		err = app.runBudget(ctx, os.Args[2:])
	case "goal":
		err = app.runGoal(ctx, os.Args[2:])
	case "export":
		err = app.runExport(ctx, os.Args[2:])
	case "import":
		err = app.runImport(ctx, os.Args[2:])
	case "export-csv":
		err = app.runExportCSV(ctx, os.Args[2:])
	case "help", "-h", "--help":
		fmt.Println(usage)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s\n", cmd, usage)
		os.Exit(2)
	}
	if err != nil {
		logger.Error("Command failed", log.FieldError, err)
		os.Exit(1)
	}
}
