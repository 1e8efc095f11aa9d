package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dgallion1/pmguide/internal/app"
	"github.com/dgallion1/pmguide/internal/config"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, config.Load(), log); err != nil {
		log.Error("pmguide exited", "error", err)
		os.Exit(1)
	}
}
