package cmd

import (
	"github.com/spf13/cobra"

	"github.com/jjtimmons/oligo/internal/oligo"
)

// poolCmd is for inspecting the sequence pool
var poolCmd = &cobra.Command{
	Use:   "pool",
	Short: "Summarize or draw from the sequence pool",
	Run:   oligo.PoolCmd,
	Example: `  oligo pool --pool sequences.fa
  oligo pool --length 20 --gc 45 --count 5`,
	Long: `Summarize the sequence pool by length and GC content.

With --length, draw --count distinct sequences the way a domain would be
drawn: from pool sequences within the GC tolerance, else by the configured
fallback.`,
}

func init() {
	poolCmd.Flags().IntP("length", "l", 0, "length of sequences to draw")
	poolCmd.Flags().Float64P("gc", "g", 50, "target GC% of sequences drawn")
	poolCmd.Flags().IntP("count", "c", 1, "number of sequences to draw")

	RootCmd.AddCommand(poolCmd)
}
