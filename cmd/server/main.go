package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"globecli/internal/app"
)

func main() {
	// A local .env is a development convenience; absence is not an error.
	if err := godotenv.Load(); err == nil {
		slog.Info("loaded environment from .env")
	}

	application, err := app.New()
	if err != nil {
		slog.Error("failed to initialize application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
