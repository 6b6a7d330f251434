// Package oligo runs the commands of the oligo CLI: it reads request files,
// drives design, validation and search, and writes their output.
package oligo

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jjtimmons/oligo/config"
)

var (
	// stderr is for logging to Stderr (without an annoying timestamp)
	stderr = log.New(os.Stderr, "", 0)

	// stdout is where output goes without an --out path
	stdout io.Writer = os.Stdout
)

// Flags are the parsed cobra flags shared by several commands
type Flags struct {
	// path to the request file, "-" for stdin
	in string

	// path to write output to, stdout if empty
	out string

	// whether to log at debug level
	verbose bool
}

// parseCmdFlags gathers the in path, out path, etc from a cobra cmd object.
// The first argument is used as the in path if --in isn't set.
func parseCmdFlags(cmd *cobra.Command, args []string) (*Flags, *config.Config) {
	fs := &Flags{}
	if fs.in, _ = cmd.Flags().GetString("in"); fs.in == "" && len(args) > 0 {
		fs.in = args[0]
	}
	fs.out, _ = cmd.Flags().GetString("out")
	fs.verbose, _ = cmd.Flags().GetBool("verbose")

	return fs, config.New()
}

// newLogger returns a JSON logger to stderr, or a console logger at debug
// level if verbose
func newLogger(verbose bool) *zap.Logger {
	zc := zap.NewProductionConfig()
	if verbose {
		zc = zap.NewDevelopmentConfig()
	}
	zc.OutputPaths = []string{"stderr"}

	logger, err := zc.Build()
	if err != nil {
		stderr.Printf("failed to build logger, logging disabled: %v", err)
		return zap.NewNop()
	}
	return logger
}

// readInput reads the file at path, or stdin if path is "-"
func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// writeJSON serializes v and writes it to filename, or stdout if it's empty
func writeJSON(filename string, v interface{}) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize output: %w", err)
	}

	if filename == "" {
		_, err = fmt.Fprintln(stdout, string(output))
		return err
	}
	if err = os.WriteFile(filename, output, 0666); err != nil {
		return fmt.Errorf("failed to write the output: %w", err)
	}
	return nil
}
