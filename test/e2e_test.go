package test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/jjtimmons/oligo/cmd"
	"github.com/jjtimmons/oligo/internal/design"
	"github.com/jjtimmons/oligo/internal/optimize"
	"github.com/jjtimmons/oligo/internal/seq"
)

// run executes the oligo CLI and decodes the JSON written to out into v
func run(t *testing.T, out string, v interface{}, args ...string) {
	t.Helper()

	cmd.RootCmd.SetArgs(args)
	if err := cmd.RootCmd.Execute(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		t.Fatalf("failed to decode %s: %v", out, err)
	}
}

type designOutput struct {
	Results []design.Result   `json:"results"`
	Domains map[string]string `json:"domains"`
}

func Test_Design(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		strands int
	}{
		{"toehold and invader", filepath.Join("input", "strands.yaml"), 2},
		{"fixed primer", filepath.Join("input", "fixed.json"), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := filepath.Join(t.TempDir(), "out.json")
			var got designOutput
			run(t, out, &got, "design", "--in", tt.in, "--out", out)

			if len(got.Results) != tt.strands {
				t.Fatalf("%d results, want %d", len(got.Results), tt.strands)
			}
			for _, r := range got.Results {
				if !r.Success || r.ID == "" || r.Strand == nil || r.Validation == nil {
					t.Errorf("result = %+v", r)
				}
			}
		})
	}
}

func Test_DesignComplements(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.json")
	var got designOutput
	run(t, out, &got, "design", "--in", filepath.Join("input", "strands.yaml"), "--out", out, "--seed", "3")

	toehold, invader := got.Results[0].Strand, got.Results[1].Strand
	if invader.Sequence != seq.ReverseComplement(toehold.Sequence) {
		t.Errorf("invader %s isn't the reverse complement of toehold %s", invader.Sequence, toehold.Sequence)
	}
}

func Test_DesignPool(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.json")
	var got designOutput
	run(t, out, &got, "design", "--in", filepath.Join("input", "strands.yaml"), "--out", out,
		"--pool", filepath.Join("input", "pool.fa"))

	if x := got.Domains["x"]; x != "GACTTCAGACGTACGTCAGT" {
		t.Errorf("x = %s, want the only 20mer in the pool", x)
	}
}

func Test_Search(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.json")
	var got optimize.Output
	run(t, out, &got, "search", "--in", filepath.Join("input", "search.yaml"), "--out", out, "--pool", "")

	rejected := 0
	for _, n := range got.Rejected {
		rejected += n
	}
	if got.TotalGenerated != 40 || got.TotalValid+rejected != 40 {
		t.Errorf("generated %d, valid %d, rejected %v", got.TotalGenerated, got.TotalValid, got.Rejected)
	}
	if len(got.TopStrandSets) > 3 {
		t.Errorf("%d strand sets, want at most 3", len(got.TopStrandSets))
	}
	for i := 1; i < len(got.TopStrandSets); i++ {
		if got.TopStrandSets[i].Score.Total > got.TopStrandSets[i-1].Score.Total {
			t.Errorf("strand sets aren't ranked by score")
		}
	}
}
