package main

import (
	"context"
	"fmt"
	"os"

	"github.com/zeroedbooks/ledger/internal/infrastructure/config"
	"github.com/zeroedbooks/ledger/internal/infrastructure/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logg := logger.New(logger.Config{Level: cfg.LogLevel, Format: "console", Output: os.Stderr})
	logger.SetDefault(logg)

	app := newApp(cfg, logg)
	root := app.rootCmd()

	if err := root.ExecuteContext(logg.WithContext(context.Background())); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
