package oligo

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jjtimmons/oligo/config"
	"github.com/jjtimmons/oligo/internal/optimize"
)

// SearchCmd searches for the best strand sets of a request file and writes
// the ranked sets as JSON
func SearchCmd(cmd *cobra.Command, args []string) {
	flags, conf := parseCmdFlags(cmd, args)
	if flags.in == "" {
		cmd.Help()
		stderr.Fatalln("\nno search request passed.")
	}

	logger := newLogger(flags.verbose)
	defer logger.Sync()

	data, err := readInput(flags.in)
	if err != nil {
		stderr.Fatalln(err)
	}
	req, err := parseSearchRequest(data, conf)
	if err != nil {
		stderr.Fatalln(err)
	}
	if err = overrideSearch(cmd, req); err != nil {
		stderr.Fatalln(err)
	}

	out, err := runSearch(cmd.Context(), req, conf, logger)
	if err != nil {
		stderr.Fatalln(err)
	}
	if err = writeJSON(flags.out, out); err != nil {
		stderr.Fatalln(err)
	}

	if out.TotalValid == 0 {
		stderr.Printf("no valid strand sets in %d generations: %v", out.TotalGenerated, out.Rejected)
	}
}

// overrideSearch applies the flags a user set on the command line over the
// settings of a request file
func overrideSearch(cmd *cobra.Command, req *optimize.Request) (err error) {
	fs := cmd.Flags()
	if fs.Changed("generations") {
		if req.Generations, err = fs.GetInt("generations"); err != nil {
			return fmt.Errorf("failed to parse generations flag: %w", err)
		}
	}
	if fs.Changed("workers") {
		if req.Settings.Workers, err = fs.GetInt("workers"); err != nil {
			return fmt.Errorf("failed to parse workers flag: %w", err)
		}
	}
	if fs.Changed("top-k") {
		if req.Settings.TopK, err = fs.GetInt("top-k"); err != nil {
			return fmt.Errorf("failed to parse top-k flag: %w", err)
		}
	}
	if fs.Changed("target-valid") {
		if req.Settings.TargetValid, err = fs.GetInt("target-valid"); err != nil {
			return fmt.Errorf("failed to parse target-valid flag: %w", err)
		}
	}
	if fs.Changed("timeout") {
		if req.Settings.Timeout, err = fs.GetDuration("timeout"); err != nil {
			return fmt.Errorf("failed to parse timeout flag: %w", err)
		}
	}
	return nil
}

// runSearch loads the configured pool and searches it
func runSearch(ctx context.Context, req *optimize.Request, conf *config.Config, logger *zap.Logger) (*optimize.Output, error) {
	p, err := conf.LoadPool(ctx)
	if err != nil {
		return nil, err
	}

	logger.Debug("starting search",
		zap.Int("strands", len(req.TargetStrands)),
		zap.Int("generations", req.Generations),
		zap.Int("pool", p.Len()),
	)
	return (&optimize.Searcher{Log: logger}).Search(ctx, p, *req)
}
