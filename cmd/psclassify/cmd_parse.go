package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"psclassify/internal/seed"
)

// parseCmd is a debugging aid: it shows how the parser decomposes seed
// names, which is the first thing to check when a seed lands in the
// unparsed bucket.
var parseCmd = &cobra.Command{
	Use:   "parse [seed name...]",
	Short: "Show the structured descriptor for one or more seed names",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, name := range args {
			d, err := seed.Parse(name)
			if err != nil {
				fmt.Printf("%s\n  %v\n", name, err)
				continue
			}
			printDescriptor(d)
		}
		return nil
	},
}

func printDescriptor(d *seed.Descriptor) {
	fmt.Println(d.Name)
	fmt.Printf("  family:      %s (arity %d)\n", d.Family, d.Family.Arity)
	fmt.Printf("  thresholds:  %v\n", d.Thresholds)
	if d.EtaRestriction != nil {
		fmt.Printf("  er:          %g\n", *d.EtaRestriction)
	}
	if d.DRMin != nil {
		fmt.Printf("  dR_Min:      %g\n", *d.DRMin)
	}
	if d.DRMax != nil {
		fmt.Printf("  dR_Max:      %g\n", *d.DRMax)
	}
	if d.MassMin != nil && d.MassMax != nil {
		fmt.Printf("  mass:        %g to %g\n", *d.MassMin, *d.MassMax)
	}
	if d.Family.Object == seed.ObjectMu {
		suffix := " (default)"
		if d.QualityExplicit {
			suffix = ""
		}
		fmt.Printf("  quality:     %s%s\n", d.Quality, suffix)
	}
	if d.Isolation != seed.IsolationNone {
		fmt.Printf("  isolation:   %s\n", d.Isolation)
	}
	for _, tag := range []seed.AuxTag{seed.AuxEG, seed.AuxETMHF, seed.AuxHTT, seed.AuxMt, seed.AuxTau, seed.AuxMassMin} {
		if v, ok := d.Aux[tag]; ok {
			fmt.Printf("  aux %-8s %g\n", tag+":", v)
		}
	}
	if len(d.Residual) > 0 {
		fmt.Printf("  residual:    %s\n", strings.Join(d.Residual, " "))
	}
	fmt.Printf("  canonical:   %s\n", d.CanonicalName())
}
