package validate

import (
	"fmt"

	"github.com/jjtimmons/oligo/internal/seq"
	"github.com/jjtimmons/oligo/internal/thermo"
)

func ptr(f float64) *float64 { return &f }

func verdict(pass bool) string {
	if pass {
		return "pass"
	}
	return "fail"
}

// dgCheck builds a Check for a ΔG that passes if it's >= maxDG
func dgCheck(label string, e thermo.Estimate, err error, maxDG float64) Check {
	if err != nil {
		return Check{Pass: false, Threshold: ptr(maxDG), Message: fmt.Sprintf("%s: %v", label, err)}
	}
	if e.Inconclusive {
		return Check{
			Pass:         true,
			DeltaG:       ptr(0),
			Threshold:    ptr(maxDG),
			Inconclusive: true,
			Message:      fmt.Sprintf("%s ΔG inconclusive (%s), threshold %.1f kcal/mol: pass", label, e.Reason, maxDG),
		}
	}

	pass := e.DG >= maxDG
	return Check{
		Pass:      pass,
		DeltaG:    ptr(e.DG),
		Threshold: ptr(maxDG),
		Message:   fmt.Sprintf("%s ΔG = %.1f kcal/mol (threshold %.1f): %s", label, e.DG, maxDG, verdict(pass)),
	}
}

// worst returns the most stable estimate, keeping the first error
func worst(estimates func(yield func(thermo.Estimate, error))) (thermo.Estimate, error) {
	best := thermo.Estimate{}
	var firstErr error
	estimates(func(e thermo.Estimate, err error) {
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			return
		}
		if e.DG < best.DG {
			best = e
		}
	})
	return best, firstErr
}

// others without identical copies of s
func distinct(s string, others []string) []string {
	var out []string
	for _, o := range others {
		if o != s {
			out = append(out, o)
		}
	}
	return out
}

type meltingTemp struct{ TmSettings }

func (meltingTemp) Name() string { return "melting_temperature" }

func (c meltingTemp) Evaluate(s string, ctx Context) Check {
	tm := ctx.Calc.Tm(s)
	lo := ctx.Calc.Conditions.ReactionTemp + c.MinOffset
	hi := ctx.Calc.Conditions.ReactionTemp + c.MaxOffset

	pass := lo <= tm && tm <= hi
	return Check{
		Pass:        pass,
		Value:       ptr(tm),
		TargetRange: []float64{lo, hi},
		Message:     fmt.Sprintf("Tm = %.1f°C (target: %.1f-%.1f°C): %s", tm, lo, hi, verdict(pass)),
	}
}

type hairpin struct {
	name string
	DGSettings
}

func (c hairpin) Name() string { return c.name }

func (c hairpin) Evaluate(s string, ctx Context) Check {
	e, err := ctx.Calc.Hairpin(s)
	return dgCheck("hairpin", e, err, c.MaxDG)
}

type selfDimer struct{ DGSettings }

func (selfDimer) Name() string { return "self_dimerization" }

func (c selfDimer) Evaluate(s string, ctx Context) Check {
	e, err := ctx.Calc.SelfDimer(s)
	return dgCheck("self-dimer", e, err, c.MaxDG)
}

type crossDimer struct{ DGSettings }

func (crossDimer) Name() string { return "cross_dimerization" }

func (c crossDimer) Evaluate(s string, ctx Context) Check {
	others := distinct(s, ctx.Others)
	e, err := worst(func(yield func(thermo.Estimate, error)) {
		for _, o := range others {
			yield(ctx.Calc.Dimer(s, o))
		}
	})

	check := dgCheck("cross-dimer", e, err, c.MaxDG)
	if len(others) == 0 {
		check.Message = fmt.Sprintf("cross-dimer ΔG = 0.0 kcal/mol, no other sequences (threshold %.1f): pass", c.MaxDG)
	}
	return check
}

type gcContent struct{ GCSettings }

func (gcContent) Name() string { return "gc_content" }

func (c gcContent) Evaluate(s string, _ Context) Check {
	gc := seq.GC(s)
	pass := c.MinPercent <= gc && gc <= c.MaxPercent

	message := fmt.Sprintf("GC content %.1f%% (target: %.1f-%.1f%%): pass", gc, c.MinPercent, c.MaxPercent)
	if gc < c.MinPercent {
		message = fmt.Sprintf("GC content too low %.1f%% (target: %.1f-%.1f%%): fail", gc, c.MinPercent, c.MaxPercent)
	} else if gc > c.MaxPercent {
		message = fmt.Sprintf("GC content too high %.1f%% (target: %.1f-%.1f%%): fail", gc, c.MinPercent, c.MaxPercent)
	}

	return Check{
		Pass:        pass,
		Value:       ptr(gc),
		TargetRange: []float64{c.MinPercent, c.MaxPercent},
		Message:     message,
	}
}

type threePrimeHairpin struct{ WindowSettings }

func (threePrimeHairpin) Name() string { return "three_prime_hairpin" }

func (c threePrimeHairpin) Evaluate(s string, ctx Context) Check {
	e, err := ctx.Calc.ThreePrimeHairpin(s, c.Window)
	return dgCheck(fmt.Sprintf("3' hairpin (last %dnt)", c.Window), e, err, c.MaxDG)
}

type threePrimeSelfDimer struct{ WindowSettings }

func (threePrimeSelfDimer) Name() string { return "three_prime_self_dimer" }

func (c threePrimeSelfDimer) Evaluate(s string, ctx Context) Check {
	e, err := ctx.Calc.EndStability(s, s, c.Window)
	return dgCheck(fmt.Sprintf("3' self-dimer (last %dnt)", c.Window), e, err, c.MaxDG)
}

type threePrimeCrossDimer struct{ WindowSettings }

func (threePrimeCrossDimer) Name() string { return "three_prime_cross_dimer" }

// Evaluate takes the worst of s's 3' end on each other sequence and each
// other sequence's 3' end on s
func (c threePrimeCrossDimer) Evaluate(s string, ctx Context) Check {
	e, err := worst(func(yield func(thermo.Estimate, error)) {
		for _, o := range distinct(s, ctx.Others) {
			yield(ctx.Calc.EndStability(s, o, c.Window))
			yield(ctx.Calc.EndStability(o, s, c.Window))
		}
	})
	return dgCheck(fmt.Sprintf("3' cross-dimer (last %dnt)", c.Window), e, err, c.MaxDG)
}

type repeats struct{ RepeatSettings }

func (repeats) Name() string { return "repeats" }

func (c repeats) Evaluate(s string, _ Context) Check {
	run := seq.MaxHomopolymerRun(s)
	if run > c.MaxRun {
		return Check{
			Pass:      false,
			Value:     ptr(float64(run)),
			Threshold: ptr(float64(c.MaxRun)),
			Message:   fmt.Sprintf("homopolymer run of %d (max %d): fail", run, c.MaxRun),
		}
	}

	n, di := seq.MaxDinucleotideRepeats(s)
	if n > c.MaxRepeats {
		return Check{
			Pass:      false,
			Value:     ptr(float64(n)),
			Threshold: ptr(float64(c.MaxRepeats)),
			Message:   fmt.Sprintf("dinucleotide %s repeated %d times (max %d): fail", di, n, c.MaxRepeats),
		}
	}

	return Check{
		Pass:      true,
		Value:     ptr(float64(run)),
		Threshold: ptr(float64(c.MaxRun)),
		Message:   fmt.Sprintf("longest homopolymer %d (max %d), dinucleotide repeats %d (max %d): pass", run, c.MaxRun, n, c.MaxRepeats),
	}
}

type gcClamp struct{ ClampSettings }

func (gcClamp) Name() string { return "gc_clamp" }

func (c gcClamp) Evaluate(s string, _ Context) Check {
	end := seq.ThreePrime(s, c.Window)
	n := seq.GCCount(end)
	pass := c.Min <= n && n <= c.Max

	return Check{
		Pass:        pass,
		Value:       ptr(float64(n)),
		TargetRange: []float64{float64(c.Min), float64(c.Max)},
		Message:     fmt.Sprintf("%d G/C in the 3' %dnt (target: %d-%d): %s", n, len(end), c.Min, c.Max, verdict(pass)),
	}
}

type complexity struct{ ComplexitySettings }

func (complexity) Name() string { return "complexity" }

func (c complexity) Evaluate(s string, _ Context) Check {
	v := seq.Complexity(s)
	pass := v >= c.Min

	return Check{
		Pass:      pass,
		Value:     ptr(v),
		Threshold: ptr(c.Min),
		Message:   fmt.Sprintf("sequence complexity %.2f (min %.2f): %s", v, c.Min, verdict(pass)),
	}
}
