package cmd

import (
	"github.com/spf13/cobra"

	"github.com/jjtimmons/oligo/internal/oligo"
)

// designCmd is for designing strands from their domains
var designCmd = &cobra.Command{
	Use:   "design [request]",
	Short: "Design strands from a request of named domains",
	Run:   oligo.DesignCmd,
	Example: `  oligo design --in request.yaml --out strands.json
  cat request.json | oligo design -`,
	Long: `Design strands from a YAML or JSON request of named domains.

Each domain is taken from its fixed sequence, drawn from the sequence pool near
its target GC content, or, for a complement domain like "b*", derived from
domain "b". A request either names a single strand:

  strand_name: s1
  domains:
    - {name: a, length: 10}
    - {name: b, length: 12, target_gc_content: 40}

or lists several under "strands". Strands are designed in order, so "b*" in a
later strand is the reverse complement of "b" in an earlier one.
"global_params" and "validation_settings" overlay the configured conditions
and checks.

Every strand is validated and written as JSON. The command exits with an
error if a strand couldn't be designed.`,
}

func init() {
	designCmd.Flags().StringP("in", "i", "", "design request file, \"-\" for stdin")
	designCmd.Flags().StringP("out", "o", "", "output file name, stdout if empty")

	RootCmd.AddCommand(designCmd)
}
