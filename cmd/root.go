// Package cmd is for command line interactions with the oligo application
package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jjtimmons/oligo/config"
)

// path to a settings file passed with --config
var cfgFile string

// RootCmd represents the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use: "oligo",
	Short: `Design DNA strands from named domains, validate them, and search
for sets of strands that don't cross-react`,
	Version: "0.1.0",
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
// An interrupt cancels the command's context so a search returns what it has.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := RootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		log.Fatalf("%v", err)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML settings file to overlay on the defaults")
	RootCmd.PersistentFlags().BoolP("verbose", "v", false, "log at debug level")
	RootCmd.PersistentFlags().Int64P("seed", "s", 1, "seed of the random sources")
	RootCmd.PersistentFlags().StringP("model", "m", "linear", "thermodynamic model: linear or nn")
	RootCmd.PersistentFlags().StringP("pool", "p", "", "FASTA, YAML or SQLite file of curated sequences")

	viper.BindPFlag("seed", RootCmd.PersistentFlags().Lookup("seed"))
	viper.BindPFlag("model", RootCmd.PersistentFlags().Lookup("model"))
	viper.BindPFlag("pool.path", RootCmd.PersistentFlags().Lookup("pool"))
}

// initConfig reads the default settings and the --config file into viper
func initConfig() {
	if err := config.Setup(viper.GetViper(), cfgFile); err != nil {
		log.Fatalf("%v", err)
	}
}
