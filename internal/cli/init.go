// Package cli provides common CLI initialization utilities shared by the
// spendora entrypoint and its subcommands.
package cli

import (
	"os"

	"github.com/joho/godotenv"

	"spendora/internal/backend"
	"spendora/internal/config"
	"spendora/internal/log"
	"spendora/internal/settings"
	"spendora/internal/store"
)

// SetupLogger initializes structured logging at the given level and sets it
// as the process default.
func SetupLogger(level string) *log.Logger {
	cfg := log.DefaultConfig()
	cfg.Level = log.ParseLevel(level)
	cfg.Component = log.ComponentCLI
	logger := log.New(cfg)
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *log.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	return cfg
}

// OpenStore constructs the record store named by the configuration.
// Returns the store or exits the process on failure.
func OpenStore(logger *log.Logger, cfg *config.Config) store.Store {
	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", log.FieldError, err)
		os.Exit(1)
	}
	st, err := backend.Open(backendCfg)
	if err != nil {
		logger.Error("Failed to open store",
			log.FieldError, err,
			log.FieldBackend, backendCfg.Type.String())
		os.Exit(1)
	}
	logger.Debug("Store opened", log.FieldBackend, backendCfg.Type.String())
	return st
}

// OpenSettings constructs the file-backed settings repository.
// Returns the repository or exits the process on failure.
func OpenSettings(logger *log.Logger, cfg *config.Config) settings.Repository {
	repo, err := settings.NewFileRepository(cfg.SettingsPath)
	if err != nil {
		logger.Error("Failed to open settings file",
			log.FieldError, err,
			log.FieldPath, cfg.SettingsPath)
		os.Exit(1)
	}
	return repo
}
