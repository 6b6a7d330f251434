package oligo

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jjtimmons/oligo/config"
	"github.com/jjtimmons/oligo/internal/seq"
	"github.com/jjtimmons/oligo/internal/thermo"
	"github.com/jjtimmons/oligo/internal/validate"
)

// SequenceValidation is the validation of a single sequence
type SequenceValidation struct {
	Sequence string          `json:"sequence"`
	Result   validate.Result `json:"validation"`
}

// ValidateCmd validates each sequence passed against the configured checks.
// Each sequence is checked for cross-dimers against the others.
func ValidateCmd(cmd *cobra.Command, args []string) {
	if len(args) < 1 {
		cmd.Help()
		stderr.Fatalln("\nno sequence passed.")
	}

	flags, conf := parseCmdFlags(cmd, nil)
	domain, _ := cmd.Flags().GetBool("domain")
	asJSON, _ := cmd.Flags().GetBool("json")

	names, vals, err := validateSeqs(args, conf, domain)
	if err != nil {
		stderr.Fatalln(err)
	}

	if asJSON || flags.out != "" {
		err = writeJSON(flags.out, vals)
	} else {
		err = writeValidations(stdout, names, vals)
	}
	if err != nil {
		stderr.Fatalln(err)
	}

	for _, v := range vals {
		if !v.Result.OverallPass {
			stderr.Fatalf("%s failed: %v", v.Sequence, v.Result.Failed())
		}
	}
}

// validateSeqs runs the configured checks on each sequence. It returns the
// names of the checks run, in registry order.
func validateSeqs(seqs []string, conf *config.Config, domain bool) ([]string, []SequenceValidation, error) {
	calc, err := conf.Calculator()
	if err != nil {
		return nil, nil, err
	}
	reg := validate.NewRegistry(conf.Validation, calc)

	normalized := make([]string, len(seqs))
	for i, s := range seqs {
		if normalized[i], err = seq.Normalize(s); err != nil {
			return nil, nil, fmt.Errorf("sequence %d: %w", i+1, err)
		}
	}

	vals := make([]SequenceValidation, len(normalized))
	for i, s := range normalized {
		var res validate.Result
		if domain {
			res, err = reg.ValidateDomain(s)
		} else {
			others := make([]string, 0, len(normalized)-1)
			others = append(others, normalized[:i]...)
			others = append(others, normalized[i+1:]...)
			res, err = reg.Validate(s, others)
		}
		if err != nil {
			return nil, nil, err
		}
		vals[i] = SequenceValidation{Sequence: s, Result: res}
	}
	return reg.Names(), vals, nil
}

// writeValidations writes a table of check results per sequence
func writeValidations(w io.Writer, names []string, vals []SequenceValidation) error {
	writer := tabwriter.NewWriter(w, 0, 4, 3, ' ', 0)
	for _, v := range vals {
		verdict := "pass"
		if !v.Result.OverallPass {
			verdict = "fail"
		}
		fmt.Fprintf(writer, "%s\t%s\t\n", v.Sequence, verdict)

		for _, name := range names {
			check, ok := v.Result.Checks[name]
			if !ok {
				continue
			}
			pass := "pass"
			switch {
			case check.Inconclusive:
				pass = "inconclusive"
			case !check.Pass:
				pass = "fail"
			}
			fmt.Fprintf(writer, "  %s\t%s\t%s\n", name, pass, check.Message)
		}
	}
	return writer.Flush()
}

// property is a row of the thermo command's output
type property struct {
	name  string
	value string
	note  string
}

// ThermoCmd logs the melting temperature, composition and secondary
// structure ΔG of a sequence, and its dimers with a second if passed
func ThermoCmd(cmd *cobra.Command, args []string) {
	if len(args) < 1 {
		cmd.Help()
		stderr.Fatalln("\nno sequence passed.")
	}

	_, conf := parseCmdFlags(cmd, nil)
	window, _ := cmd.Flags().GetInt("window")

	props, err := thermoProps(args, conf, window)
	if err != nil {
		stderr.Fatalln(err)
	}

	writer := tabwriter.NewWriter(stdout, 0, 4, 3, ' ', 0)
	fmt.Fprintf(writer, "property\tvalue\tnote\t\n")
	for _, p := range props {
		fmt.Fprintf(writer, "%s\t%s\t%s\t\n", p.name, p.value, p.note)
	}
	writer.Flush()
}

// thermoProps computes the properties of the first sequence in args and
// its dimers with the second, if any
func thermoProps(args []string, conf *config.Config, window int) ([]property, error) {
	calc, err := conf.Calculator()
	if err != nil {
		return nil, err
	}

	s, err := seq.Normalize(args[0])
	if err != nil {
		return nil, err
	}

	props := []property{
		{"length", fmt.Sprintf("%d", len(s)), "bp"},
		{"gc", fmt.Sprintf("%.1f", seq.GC(s)), "%"},
		{"tm", fmt.Sprintf("%.1f", calc.Tm(s)), "°C"},
	}

	type estimator struct {
		name string
		est  func() (thermo.Estimate, error)
	}
	estimators := []estimator{
		{"hairpin", func() (thermo.Estimate, error) { return calc.Hairpin(s) }},
		{"three_prime_hairpin", func() (thermo.Estimate, error) { return calc.ThreePrimeHairpin(s, window) }},
		{"self_dimer", func() (thermo.Estimate, error) { return calc.SelfDimer(s) }},
		{"three_prime_self_dimer", func() (thermo.Estimate, error) { return calc.EndStability(s, s, window) }},
	}

	if len(args) > 1 {
		partner, err := seq.Normalize(args[1])
		if err != nil {
			return nil, err
		}
		estimators = append(estimators,
			estimator{"dimer", func() (thermo.Estimate, error) { return calc.Dimer(s, partner) }},
			estimator{"three_prime_on_partner", func() (thermo.Estimate, error) { return calc.EndStability(s, partner, window) }},
			estimator{"partner_three_prime_on_sequence", func() (thermo.Estimate, error) { return calc.EndStability(partner, s, window) }},
		)
	}

	for _, e := range estimators {
		est, err := e.est()
		if err != nil {
			return nil, err
		}
		note := "kcal/mol"
		if est.Inconclusive {
			note = "inconclusive: " + est.Reason
		}
		props = append(props, property{e.name, fmt.Sprintf("%.2f", est.DG), note})
	}
	return props, nil
}
