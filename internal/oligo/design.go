package oligo

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jjtimmons/oligo/config"
	"github.com/jjtimmons/oligo/internal/design"
	"github.com/jjtimmons/oligo/internal/thermo"
)

// DesignOutput is written by the design command
type DesignOutput struct {
	// Time, ex: "2018-01-01 20:41:00"
	Time string `json:"time"`

	// Results of each strand, in request order
	Results []design.Result `json:"results"`

	// Domains are the forward sequences of every base domain resolved
	Domains map[string]string `json:"domains"`
}

// failed is the number of strands that couldn't be designed
func (o *DesignOutput) failed() int {
	n := 0
	for _, r := range o.Results {
		if !r.Success {
			n++
		}
	}
	return n
}

// DesignCmd designs the strands of a request file and writes them as JSON
func DesignCmd(cmd *cobra.Command, args []string) {
	flags, conf := parseCmdFlags(cmd, args)
	if flags.in == "" {
		cmd.Help()
		stderr.Fatalln("\nno design request passed.")
	}

	logger := newLogger(flags.verbose)
	defer logger.Sync()

	out, err := designFile(cmd.Context(), flags.in, conf, logger)
	if err != nil {
		stderr.Fatalln(err)
	}
	if err = writeJSON(flags.out, out); err != nil {
		stderr.Fatalln(err)
	}

	if n := out.failed(); n > 0 {
		stderr.Fatalf("%d of %d strands failed", n, len(out.Results))
	}
}

// designFile reads the request at path and designs its strands
func designFile(ctx context.Context, path string, conf *config.Config, logger *zap.Logger) (*DesignOutput, error) {
	data, err := readInput(path)
	if err != nil {
		return nil, err
	}
	req, err := parseDesignRequest(data, conf)
	if err != nil {
		return nil, err
	}
	return runDesign(ctx, req, conf, logger)
}

// runDesign designs each strand of req, in order, with a single Service
func runDesign(ctx context.Context, req *DesignRequest, conf *config.Config, logger *zap.Logger) (*DesignOutput, error) {
	p, err := conf.LoadPool(ctx)
	if err != nil {
		return nil, err
	}
	model, err := thermo.ModelByName(conf.Model)
	if err != nil {
		return nil, err
	}

	designer := design.NewDesigner(p, conf.Pool.Options, conf.Seed)
	designer.Model = model
	designer.Divalent = conf.Divalent
	designer.Log = logger
	svc := design.NewService(designer, logger)

	out := &DesignOutput{
		Time:    time.Now().Format("2006/01/02 15:04:05"),
		Domains: map[string]string{},
	}
	for _, s := range req.strands() {
		res := svc.Design(s.Name, s.Domains, req.GlobalParams, req.ValidationSettings)
		if !res.Success {
			logger.Warn("strand failed", zap.String("strand", s.Name), zap.String("error", res.ErrorMessage))
		}
		out.Results = append(out.Results, res)
	}

	for _, name := range svc.Domains() {
		if s, ok := svc.Domain(name); ok {
			out.Domains[name] = s
		}
	}
	return out, nil
}
