// Copyright (c) 2026 BookCircle. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command admin is the operator CLI for BookCircle.
//
//	bookcircle-admin migrate up
//	bookcircle-admin migrate version
//	bookcircle-admin seed ./data/seed.yaml
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/taibuivan/bookcircle/internal/admin"
	"github.com/taibuivan/bookcircle/internal/platform/constants"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})).
		With(slog.String(constants.FieldApp, constants.AppName+"-admin"))

	context, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := admin.NewRootCommand(admin.Options{Logger: logger}).ExecuteContext(context); err != nil {
		logger.Error("command_failed", slog.Any("error", err))
		stop()
		os.Exit(1)
	}
}
