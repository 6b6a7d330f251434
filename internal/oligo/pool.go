package oligo

import (
	"fmt"
	"io"
	"math/rand"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/stat"

	"github.com/jjtimmons/oligo/config"
	"github.com/jjtimmons/oligo/internal/pool"
	"github.com/jjtimmons/oligo/internal/seq"
)

// PoolCmd summarizes the configured sequence pool. With --length it draws
// --count distinct sequences the way a domain would be drawn.
func PoolCmd(cmd *cobra.Command, args []string) {
	_, conf := parseCmdFlags(cmd, nil)
	length, _ := cmd.Flags().GetInt("length")
	gc, _ := cmd.Flags().GetFloat64("gc")
	count, _ := cmd.Flags().GetInt("count")

	p, err := conf.LoadPool(cmd.Context())
	if err != nil {
		stderr.Fatalln(err)
	}

	if length <= 0 {
		if err = writePoolSummary(stdout, p); err != nil {
			stderr.Fatalln(err)
		}
		return
	}

	drawn, err := drawSequences(p, conf, length, gc, count)
	if err != nil {
		stderr.Fatalln(err)
	}
	writer := tabwriter.NewWriter(stdout, 0, 4, 3, ' ', 0)
	fmt.Fprintf(writer, "sequence\tgc\tsource\t\n")
	for _, s := range drawn {
		source := "pool"
		if !p.Contains(s) {
			source = string(conf.Pool.Fallback)
		}
		fmt.Fprintf(writer, "%s\t%.1f\t%s\t\n", s, seq.GC(s), source)
	}
	writer.Flush()
}

// writePoolSummary writes the number of sequences and their GC% per length
func writePoolSummary(w io.Writer, p *pool.Pool) error {
	writer := tabwriter.NewWriter(w, 0, 4, 3, ' ', 0)
	fmt.Fprintf(writer, "length\tcount\tmean gc\tmin gc\tmax gc\t\n")
	for _, l := range p.Lengths() {
		seqs := p.Sequences(l)
		gcs := make([]float64, len(seqs))
		for i, s := range seqs {
			gcs[i] = seq.GC(s)
		}
		lo, hi := gcs[0], gcs[0]
		for _, g := range gcs {
			lo, hi = min(lo, g), max(hi, g)
		}
		fmt.Fprintf(writer, "%d\t%d\t%.1f\t%.1f\t%.1f\t\n", l, len(seqs), stat.Mean(gcs, nil), lo, hi)
	}
	fmt.Fprintf(writer, "total\t%d\t\t\t\t\n", p.Len())
	return writer.Flush()
}

// drawSequences draws count distinct sequences from p
func drawSequences(p *pool.Pool, conf *config.Config, length int, gc float64, count int) ([]string, error) {
	sampler := pool.NewSampler(p, conf.Pool.Options, rand.New(rand.NewSource(conf.Seed)))
	exclude := make(map[string]bool)

	var drawn []string
	for i := 0; i < count; i++ {
		s, err := sampler.Get(length, gc, exclude)
		if err != nil {
			return drawn, err
		}
		if exclude[s] {
			break // nothing new left
		}
		exclude[s] = true
		drawn = append(drawn, s)
	}
	return drawn, nil
}
