package design

import (
	"errors"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/jjtimmons/oligo/internal/pool"
	"github.com/jjtimmons/oligo/internal/seq"
	"github.com/jjtimmons/oligo/internal/thermo"
	"github.com/jjtimmons/oligo/internal/validate"
)

func gc(v float64) *float64 { return &v }

func newDesigner(t *testing.T, seqs []string, fallback pool.Fallback) *Designer {
	t.Helper()
	p := pool.Default()
	if seqs != nil {
		var err error
		if p, err = pool.New(seqs); err != nil {
			t.Fatal(err)
		}
	}
	return NewDesigner(p, pool.Options{Tolerance: 15, Fallback: fallback}, 1)
}

func TestDesign_singleDomain(t *testing.T) {
	d := newDesigner(t, nil, pool.Synthesize)

	res := d.Design("s1", []DomainSpec{{Name: "A", Length: 10, TargetGC: gc(50)}}, thermo.DefaultConditions(), validate.DefaultSettings())
	if !res.Success {
		t.Fatalf("Design() failed: %s", res.ErrorMessage)
	}

	s := res.Strand
	if s.TotalLength != 10 || len(s.Sequence) != 10 {
		t.Errorf("strand %s, want 10bp", s.Sequence)
	}
	if err := seq.Check(s.Sequence); err != nil {
		t.Error(err)
	}
	if g := seq.GC(s.Sequence); math.Abs(g-50) > 15 {
		t.Errorf("strand GC = %.1f, want within 15 of 50", g)
	}
	if res.Validation == nil || len(res.Validation.Checks) != 5 {
		t.Errorf("Validation = %+v, want the 5 default checks", res.Validation)
	}
	if res.GeneratedAt.IsZero() || res.GenerationTime < 0 {
		t.Errorf("GeneratedAt = %v, GenerationTime = %f", res.GeneratedAt, res.GenerationTime)
	}
}

func TestDesign_complements(t *testing.T) {
	tests := []struct {
		name  string
		specs []DomainSpec
		want  []string
	}{
		{
			"fixed forward domain",
			[]DomainSpec{{Name: "b", Length: 10, FixedSequence: "aaaaccccgg"}, {Name: "b*", Length: 10}},
			[]string{"AAAACCCCGG", "CCGGGGTTTT"},
		},
		{
			"fixed complement domain",
			[]DomainSpec{{Name: "b", Length: 10}, {Name: "b*", Length: 10, FixedSequence: "CCGGGGTTTT"}},
			[]string{"AAAACCCCGG", "CCGGGGTTTT"},
		},
		{
			"complement first",
			[]DomainSpec{{Name: "b*", Length: 10}, {Name: "x", Length: 4, FixedSequence: "TTTT"}, {Name: "b", Length: 10}},
			nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newDesigner(t, nil, pool.Synthesize)
			res := d.Design("s", tt.specs, thermo.DefaultConditions(), validate.DefaultSettings())
			if !res.Success {
				t.Fatalf("Design() failed: %s", res.ErrorMessage)
			}

			domains := res.Strand.Domains
			for i, w := range tt.want {
				if domains[i].Sequence != w {
					t.Errorf("domain %s = %s, want %s", domains[i].Name, domains[i].Sequence, w)
				}
			}

			// every complement pairs with its partner
			byName := map[string]string{}
			for _, dom := range domains {
				byName[dom.Name] = dom.Sequence
			}
			for name, s := range byName {
				if base, ok := seq.IsComplementName(name); ok {
					if fwd, ok := byName[base]; ok && seq.ReverseComplement(fwd) != s {
						t.Errorf("%s = %s doesn't pair with %s = %s", name, s, base, fwd)
					}
				}
			}

			var joined strings.Builder
			for _, dom := range domains {
				joined.WriteString(dom.Sequence)
			}
			if joined.String() != res.Strand.Sequence {
				t.Errorf("Sequence = %s, want the domains joined %s", res.Strand.Sequence, joined.String())
			}
		})
	}
}

func TestDesign_invalidInput(t *testing.T) {
	tests := []struct {
		name   string
		strand string
		specs  []DomainSpec
	}{
		{"no strand name", " ", []DomainSpec{{Name: "a", Length: 10}}},
		{"no domains", "s", nil},
		{"no domain name", "s", []DomainSpec{{Length: 10}}},
		{"zero length", "s", []DomainSpec{{Name: "a", Length: 0}}},
		{"invalid base", "s", []DomainSpec{{Name: "a", Length: 4, FixedSequence: "ATNG"}}},
		{"fixed length mismatch", "s", []DomainSpec{{Name: "a", Length: 5, FixedSequence: "ATCG"}}},
		{"target GC over 100", "s", []DomainSpec{{Name: "a", Length: 10, TargetGC: gc(120)}}},
		{"double marker", "s", []DomainSpec{{Name: "a**", Length: 10}}},
		{"complement length mismatch", "s", []DomainSpec{{Name: "a", Length: 10}, {Name: "a*", Length: 12}}},
		{"unpaired fixed sequences", "s", []DomainSpec{
			{Name: "a", Length: 4, FixedSequence: "AAAA"},
			{Name: "a*", Length: 4, FixedSequence: "AAAA"},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newDesigner(t, nil, pool.Synthesize)
			res := d.Design(tt.strand, tt.specs, thermo.DefaultConditions(), validate.DefaultSettings())
			if res.Success || res.Strand != nil || res.Validation != nil {
				t.Fatalf("Design() = %+v, want a failure", res)
			}
			if res.ErrorMessage == "" {
				t.Error("failed Design() has no error message")
			}
		})
	}

	bad := thermo.DefaultConditions()
	bad.SaltConc = -1
	d := newDesigner(t, nil, pool.Synthesize)
	if res := d.Design("s", []DomainSpec{{Name: "a", Length: 10}}, bad, validate.DefaultSettings()); res.Success {
		t.Error("Design() with negative salt should fail")
	}
}

// two 10mers are in the pool, a third domain can't be drawn without a repeat
func TestDesign_exclusionAndAtomicFailure(t *testing.T) {
	d := newDesigner(t, []string{"ATCGATCGAT", "GCTAGCTAGT"}, pool.None)
	cond, settings := thermo.DefaultConditions(), validate.DefaultSettings()

	res := d.Design("two", []DomainSpec{{Name: "a", Length: 10}, {Name: "b", Length: 10}}, cond, settings)
	if !res.Success {
		t.Fatalf("Design() failed: %s", res.ErrorMessage)
	}
	if a, b := res.Strand.Domains[0].Sequence, res.Strand.Domains[1].Sequence; a == b {
		t.Errorf("domains a and b are both %s", a)
	}

	res = d.Design("three", []DomainSpec{
		{Name: "x", Length: 4, FixedSequence: "ACGT"},
		{Name: "a", Length: 10},
		{Name: "b", Length: 10},
		{Name: "c", Length: 10},
	}, cond, settings)
	if res.Success || res.Strand != nil {
		t.Fatalf("Design() = %+v, want an unresolved failure", res)
	}
	if !strings.Contains(res.ErrorMessage, ErrUnresolved.Error()) {
		t.Errorf("ErrorMessage = %q, want it to mention %q", res.ErrorMessage, ErrUnresolved)
	}
}

func TestDesign_unresolvedError(t *testing.T) {
	d := newDesigner(t, []string{}, pool.None)
	_, err := d.resolve([]DomainSpec{{Name: "a", Length: 10}}, nil, pool.NewSampler(d.Pool, d.PoolOptions, nil))
	if !errors.Is(err, ErrUnresolved) || !errors.Is(err, pool.ErrNoSequence) {
		t.Errorf("resolve() error = %v, want ErrUnresolved and ErrNoSequence", err)
	}
}

func TestDesign_domainValidation(t *testing.T) {
	d := newDesigner(t, nil, pool.Synthesize)
	specs := []DomainSpec{
		{Name: "good", Length: 10, FixedSequence: "ACCATCACCT"}, // 50% GC
		{Name: "poly", Length: 10, FixedSequence: "AAAAAAAAAA"}, // 0% GC
	}

	res := d.Design("s", specs, thermo.DefaultConditions(), validate.DefaultSettings())
	if !res.Success {
		t.Fatal(res.ErrorMessage)
	}
	if !res.Strand.Domains[0].ValidationPassed {
		t.Error("domain good failed validation")
	}
	if res.Strand.Domains[1].ValidationPassed {
		t.Error("domain poly passed validation")
	}
}

func TestStrand_ReverseComplement(t *testing.T) {
	s := Strand{
		Name:        "s",
		TotalLength: 14,
		Sequence:    "AAAACCCCGGTTGC",
		Domains: []Domain{
			{Name: "a", Length: 10, Sequence: "AAAACCCCGG"},
			{Name: "b*", Length: 4, Sequence: "TTGC"},
		},
	}

	rc := s.ReverseComplement()
	if rc.Name != "s*" || rc.Sequence != seq.ReverseComplement(s.Sequence) {
		t.Errorf("ReverseComplement() = %s %s", rc.Name, rc.Sequence)
	}
	if rc.Domains[0].Name != "b" || rc.Domains[0].Sequence != "GCAA" {
		t.Errorf("first domain = %+v, want b GCAA", rc.Domains[0])
	}
	if rc.Domains[1].Name != "a*" || rc.Domains[1].Sequence != "CCGGGGTTTT" {
		t.Errorf("second domain = %+v, want a* CCGGGGTTTT", rc.Domains[1])
	}
}

func TestService(t *testing.T) {
	svc := NewService(newDesigner(t, nil, pool.Synthesize), nil)
	cond, settings := thermo.DefaultConditions(), validate.DefaultSettings()

	first := svc.Design("s1", []DomainSpec{{Name: "a", Length: 10}, {Name: "b", Length: 15}}, cond, settings)
	if !first.Success || first.ID == "" {
		t.Fatalf("Design() = %+v", first)
	}

	// b* in a later strand pairs with b from the first
	second := svc.Design("s2", []DomainSpec{{Name: "b*", Length: 15}}, cond, settings)
	if !second.Success {
		t.Fatal(second.ErrorMessage)
	}
	b := first.Strand.Domains[1].Sequence
	if got := second.Strand.Sequence; got != seq.ReverseComplement(b) {
		t.Errorf("b* = %s, want the reverse complement of b %s", got, b)
	}

	if got, ok := svc.Domain("b*"); !ok || got != seq.ReverseComplement(b) {
		t.Errorf("Domain(b*) = %s, %v", got, ok)
	}
	if _, ok := svc.Domain("z"); ok {
		t.Error("Domain(z) found an unknown domain")
	}
	if got := svc.Domains(); strings.Join(got, ",") != "a,b" {
		t.Errorf("Domains() = %v, want [a b]", got)
	}

	if got, ok := svc.Strand(first.ID); !ok || got.Strand.Sequence != first.Strand.Sequence {
		t.Errorf("Strand(%s) = %+v, %v", first.ID, got, ok)
	}

	failed := svc.Design("", nil, cond, settings)
	if failed.Success {
		t.Fatal("Design() of an empty request succeeded")
	}
	if _, ok := svc.Strand(failed.ID); ok {
		t.Error("failed design was stored")
	}

	all := svc.Strands()
	if len(all) != 2 || all[0].ID != first.ID || all[1].ID != second.ID {
		t.Errorf("Strands() = %d results, want s1 then s2", len(all))
	}
}

func TestService_concurrent(t *testing.T) {
	svc := NewService(newDesigner(t, nil, pool.Synthesize), nil)
	cond, settings := thermo.DefaultConditions(), validate.DefaultSettings()

	const n = 16
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			svc.Design("s", []DomainSpec{{Name: "a", Length: 20}, {Name: "b*", Length: 10}}, cond, settings)
			svc.Strands()
			svc.Domain("a")
		}()
	}
	wg.Wait()

	all := svc.Strands()
	if len(all) != n {
		t.Fatalf("Strands() = %d, want %d", len(all), n)
	}
	ids := map[string]bool{}
	for _, r := range all {
		if ids[r.ID] {
			t.Errorf("duplicate ID %s", r.ID)
		}
		ids[r.ID] = true
	}
}
