package cmd

import (
	"github.com/spf13/cobra"

	"github.com/jjtimmons/oligo/internal/oligo"
)

// thermoCmd is for the thermodynamic properties of a sequence
var thermoCmd = &cobra.Command{
	Use:     "thermo [seq] [partner]",
	Short:   "Calculate the melting temperature and secondary structure ΔG of a sequence",
	Run:     oligo.ThermoCmd,
	Example: "  oligo thermo GCGCGCAAAAGCGCGC --model nn",
	Long: `Calculate the length, GC content, melting temperature, and the ΔG of the most
stable hairpin and self-dimer of a sequence at the configured conditions.
If a partner sequence is passed, its dimers with the first are calculated too.`,
	Args: cobra.RangeArgs(1, 2),
}

func init() {
	thermoCmd.Flags().IntP("window", "w", 5, "number of 3' bases in the 3' end calculations")

	RootCmd.AddCommand(thermoCmd)
}
