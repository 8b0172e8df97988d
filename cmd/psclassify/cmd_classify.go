package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"psclassify/internal/dominance"
	"psclassify/internal/partition"
	"psclassify/internal/pstable"
	"psclassify/internal/report"
	"psclassify/internal/store"
)

var (
	classifyMode         string
	classifyKeepZero     bool
	classifyNoPSChecks   bool
	classifyKnownBackups []string
	classifyOutputDir    string
	classifyStorePath    string
)

// classifyCmd runs the full pipeline on one prescale table.
var classifyCmd = &cobra.Command{
	Use:   "classify [table.csv]",
	Short: "Classify the seeds of a prescale table into backup and signal seeds",
	Long: `Reads a prescale table, evaluates every ordered seed pair against the
dominance criteria, and writes backup/signal/unparsed CSV artifacts plus a
terminal summary. With --store, the run is also recorded in the history
database.`,
	Args: cobra.ExactArgs(1),
	RunE: runClassify,
}

func init() {
	classifyCmd.Flags().StringVar(&classifyMode, "mode", "", "output row filter: inclusive, unprescaled or prescaled")
	classifyCmd.Flags().BoolVar(&classifyKeepZero, "keep-zero-prescales", false, "include disabled (prescale 0) seeds")
	classifyCmd.Flags().BoolVar(&classifyNoPSChecks, "no-prescale-checks", false, "drop the backup-prescale >= main-prescale constraint")
	classifyCmd.Flags().StringSliceVar(&classifyKnownBackups, "known-backup", nil, "seed name to force-classify as backup (repeatable)")
	classifyCmd.Flags().StringVarP(&classifyOutputDir, "output", "o", "", "directory for the CSV artifacts")
	classifyCmd.Flags().StringVar(&classifyStorePath, "store", "", "SQLite run-history database path")
}

func runClassify(cmd *cobra.Command, args []string) error {
	applyClassifyFlags(cmd)
	if err := cfg.Validate(); err != nil {
		return err
	}
	mode, _ := report.ParseMode(cfg.Mode)

	res, err := classifyTable(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	outDir := cfg.OutputDir
	backupRows := report.BackupRows(res, mode)
	if err := report.WriteBackupCSV(filepath.Join(outDir, "backup_seeds.csv"), backupRows); err != nil {
		return err
	}
	if err := report.WriteSignalCSV(filepath.Join(outDir, "signal_seeds.csv"), res, mode); err != nil {
		return err
	}
	if len(res.Unparsed) > 0 {
		if err := report.WriteUnparsedCSV(filepath.Join(outDir, "unparsed_seeds.csv"), res); err != nil {
			return err
		}
	}

	if cfg.StorePath != "" {
		st, err := store.Open(cfg.StorePath)
		if err != nil {
			return err
		}
		defer st.Close()
		runID, err := st.SaveRun(cmd.Context(), args[0], mode, res)
		if err != nil {
			return err
		}
		logger.Info("run recorded", zap.String("run_id", runID))
	}

	fmt.Print(report.Summary(res, mode))
	return nil
}

// applyClassifyFlags layers explicitly set flags over the loaded config.
func applyClassifyFlags(cmd *cobra.Command) {
	if cmd.Flags().Changed("mode") {
		cfg.Mode = classifyMode
	}
	if cmd.Flags().Changed("keep-zero-prescales") {
		cfg.KeepZeroPrescales = classifyKeepZero
	}
	if cmd.Flags().Changed("no-prescale-checks") {
		cfg.NoPrescaleChecks = classifyNoPSChecks
	}
	if cmd.Flags().Changed("known-backup") {
		cfg.KnownBackupSeeds = classifyKnownBackups
	}
	if cmd.Flags().Changed("output") {
		cfg.OutputDir = classifyOutputDir
	}
	if cmd.Flags().Changed("store") {
		cfg.StorePath = classifyStorePath
	}
}

// classifyTable reads one table and runs the partition builder on it.
func classifyTable(ctx context.Context, path string) (*partition.Result, error) {
	table, err := pstable.ReadCSV(path)
	if err != nil {
		return nil, err
	}
	records, err := table.Records()
	if err != nil {
		return nil, err
	}
	logger.Debug("table loaded",
		zap.String("path", path),
		zap.Int("rows", len(records)))

	return partition.Classify(ctx, records, partition.Options{
		Options: dominance.Options{
			KeepZeroPrescales: cfg.KeepZeroPrescales,
			NoPrescaleChecks:  cfg.NoPrescaleChecks,
		},
		KnownBackups: cfg.KnownBackupSeeds,
		Workers:      cfg.Workers,
	})
}
