package main

import (
	"log/slog"
	"os"

	"github.com/jstyp/storefront-backend/internal/config"
	"github.com/jstyp/storefront-backend/internal/database"
	"github.com/jstyp/storefront-backend/internal/logging"
)

func main() {
	logging.Setup()
	cfg := config.Load()

	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	if err := database.Migrate(); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}
	if err := database.Seed(database.DB); err != nil {
		slog.Error("seed failed", "error", err)
		os.Exit(1)
	}
}
