package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"psclassify/internal/store"
)

var (
	historyStorePath string
	historyLimit     int
	historyRunID     string
)

// historyCmd inspects the run-history database written by classify --store.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded classification runs or show one run in full",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfg.StorePath
		if cmd.Flags().Changed("store") {
			path = historyStorePath
		}
		if path == "" {
			return fmt.Errorf("no run-history database configured (use --store or store_path in the config)")
		}

		st, err := store.Open(path)
		if err != nil {
			return err
		}
		defer st.Close()

		if historyRunID != "" {
			results, err := st.RunResults(cmd.Context(), historyRunID)
			if err != nil {
				return err
			}
			for _, r := range results {
				if r.Class == "backup" {
					fmt.Printf("%-8s %-28s main=%-28s %s (PS %d)\n", r.Class, r.Seed, r.Main, r.Criterion, r.Prescale)
				} else {
					fmt.Printf("%-8s %-28s (PS %d)\n", r.Class, r.Seed, r.Prescale)
				}
			}
			return nil
		}

		runs, err := st.ListRuns(cmd.Context(), historyLimit)
		if err != nil {
			return err
		}
		for _, r := range runs {
			fmt.Printf("%s  %s  %-24s mode=%-12s backups=%d signals=%d unparsed=%d\n",
				r.ID, r.StartedAt.Format("2006-01-02 15:04:05"), r.Source, r.Mode,
				r.Backups, r.Signals, r.Unparsed)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().StringVar(&historyStorePath, "store", "", "SQLite run-history database path")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "number of runs to list")
	historyCmd.Flags().StringVar(&historyRunID, "run", "", "show every classified seed of this run id")
}
