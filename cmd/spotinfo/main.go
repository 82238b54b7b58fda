package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"spotinfo/pkg/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		logger, logErr := logging.New(logging.Config{})
		if logErr != nil {
			logger = zap.NewExample()
		}
		logger.Error("spotinfo failed", zap.Error(err))
		stop()
		os.Exit(1)
	}
}
