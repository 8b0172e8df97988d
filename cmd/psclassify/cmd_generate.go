package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"psclassify/internal/menu"
	"psclassify/internal/pstable"
)

var generateOutput string

// generateCmd builds a prescale table for a new menu by carrying values
// over from an existing table, reporting every cell that had to be
// estimated.
var generateCmd = &cobra.Command{
	Use:   "generate [old-table.csv] [menu.xml]",
	Short: "Generate a prescale table for a new menu from an existing table",
	Long: `Creates a table with the old table's column layout and one row per
algorithm of the new menu. Prescale values are copied from the old table
where the seed exists there; missing values are filled with 0 (disabled)
and listed so an operator can review them.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		old, err := pstable.ReadCSV(args[0])
		if err != nil {
			return err
		}
		algos, err := menu.ParseXML(args[1])
		if err != nil {
			return err
		}

		out, missing := pstable.CarryOver(old, algos)
		if err := out.WriteCSV(generateOutput); err != nil {
			return err
		}
		logger.Info("table generated",
			zap.String("output", generateOutput),
			zap.Int("seeds", len(out.Rows)),
			zap.Int("missing_values", len(missing)))

		if len(missing) > 0 {
			fmt.Println("missing prescale values (estimated):")
			prev := -1
			for _, m := range missing {
				if m.Index == prev {
					fmt.Printf("  %28s  column %s -> %s\n", "", m.Column, m.Value)
					continue
				}
				prev = m.Index
				fmt.Printf("  %4d %-22s  column %s -> %s\n", m.Index, m.Seed, m.Column, m.Value)
			}
		}
		return nil
	},
}

func init() {
	generateCmd.Flags().StringVarP(&generateOutput, "output", "o", "new_PStable.csv", "output table path")
}
