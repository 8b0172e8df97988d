package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"psclassify/internal/report"
	"psclassify/internal/watch"
)

// watchCmd keeps classifying a table as it is edited, printing a fresh
// summary after every save.
var watchCmd = &cobra.Command{
	Use:   "watch [table.csv]",
	Short: "Re-classify a prescale table whenever it changes on disk",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		mode, _ := report.ParseMode(cfg.Mode)
		path := args[0]

		reclassify := func() {
			res, err := classifyTable(cmd.Context(), path)
			if err != nil {
				logger.Warn("classification failed", zap.Error(err))
				return
			}
			fmt.Print(report.Summary(res, mode))
		}

		w, err := watch.New(path, reclassify, logger)
		if err != nil {
			return err
		}
		if err := w.Start(cmd.Context()); err != nil {
			return err
		}
		defer w.Stop()

		reclassify()
		logger.Info("watching table", zap.String("path", path))

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-sigCh:
		case <-cmd.Context().Done():
		}
		return nil
	},
}
