package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"limbo/internal/bat"
	"limbo/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch <bat-file>",
	Short: "Re-parse and re-validate the theory on every write, until interrupted",
	Args:  cobra.ExactArgs(1),
	RunE:  runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	path := args[0]

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal")
		cancel()
	}()

	reload := func() {
		b, _, err := loadBAT(path)
		if err != nil {
			logger.Warn("reload failed", zap.Error(err))
			return
		}
		logGroundingStats(b)
	}
	reload()

	debounce := time.Duration(cfg.Watch.DebounceMS) * time.Millisecond
	w, err := watch.New(path, debounce, reload, logger)
	if err != nil {
		return err
	}
	if err := w.Start(ctx); err != nil {
		return err
	}
	defer w.Stop()

	logger.Info("watching theory", zap.String("path", path))
	<-ctx.Done()
	return nil
}

// logGroundingStats reports the reloaded theory's declaration counts, a
// cheap signal that the edit parsed into the shape the watcher's user
// expected.
func logGroundingStats(b *bat.BAT) {
	logger.Info("theory reloaded",
		zap.Int("sorts", len(b.Sorts)),
		zap.Int("names", len(b.Names)),
		zap.Int("funs", len(b.Funs)),
		zap.Int("static_clauses", len(b.Static)),
		zap.Int("boxed_clauses", len(b.Boxed)),
	)
}
