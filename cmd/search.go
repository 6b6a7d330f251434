package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/jjtimmons/oligo/internal/oligo"
)

// searchCmd is for searching random domain assignments for strand sets
var searchCmd = &cobra.Command{
	Use:   "search [request]",
	Short: "Search for strand sets that pass validation and don't cross-react",
	Run:   oligo.SearchCmd,
	Example: `  oligo search --in targets.yaml -n 5000 --timeout 1m --out sets.json`,
	Long: `Search random assignments of sequences to domains for the best sets of
target strands.

Each generation draws a sequence for every base domain, assembles the target
strands, and rejects the set if a strand fails validation or the 3' end of one
strand binds another below the cross-dimer threshold. Surviving sets are scored
from 100 down by hairpin, dimer and 3' end penalties and the best are written
as JSON.

  target_strands:
    - {name: s1, domains: [a, b]}
    - {name: s2, domains: [b*, c]}
  num_generations: 1000
  settings:
    domain_lengths: {a: 10, b: 15, c: 10}

Flags override the request's settings.`,
}

func init() {
	searchCmd.Flags().StringP("in", "i", "", "search request file, \"-\" for stdin")
	searchCmd.Flags().StringP("out", "o", "", "output file name, stdout if empty")
	searchCmd.Flags().IntP("generations", "n", 0, "number of trials")
	searchCmd.Flags().IntP("workers", "w", 0, "concurrent trials, the number of CPUs if 0")
	searchCmd.Flags().IntP("top-k", "k", 10, "number of strand sets to write, all if 0")
	searchCmd.Flags().Int("target-valid", 0, "stop after this many valid sets")
	searchCmd.Flags().Duration("timeout", time.Duration(0), "stop the search after this long")

	RootCmd.AddCommand(searchCmd)
}
