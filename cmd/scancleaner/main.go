package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/wb-go/wbf/zlog"
)

func main() {
	// Context & signals: lets a long batch stop cleanly between files.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	zlog.Init()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		zlog.Logger.Error().Err(err).Msg("run failed")
		os.Exit(1)
	}
}
