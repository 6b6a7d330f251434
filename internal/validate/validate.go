// Package validate runs a configurable set of threshold checks against
// a DNA sequence and reports a verdict with diagnostics for each.
package validate

import (
	"fmt"
	"sort"

	"github.com/jjtimmons/oligo/internal/seq"
	"github.com/jjtimmons/oligo/internal/thermo"
)

// Check is the outcome of a single criterion
type Check struct {
	Pass         bool      `json:"pass" yaml:"pass"`
	Value        *float64  `json:"value,omitempty" yaml:"value,omitempty"`
	DeltaG       *float64  `json:"delta_g,omitempty" yaml:"delta_g,omitempty"`
	Threshold    *float64  `json:"threshold,omitempty" yaml:"threshold,omitempty"`
	TargetRange  []float64 `json:"target_range,omitempty" yaml:"target_range,omitempty"`
	Message      string    `json:"message" yaml:"message"`
	Inconclusive bool      `json:"inconclusive,omitempty" yaml:"inconclusive,omitempty"`
}

// Result is the outcome of every enabled check on a sequence
type Result struct {
	// OverallPass is true if every check passed
	OverallPass bool `json:"overall_pass" yaml:"overall_pass"`

	// Checks by result name, ex: "hairpin_formation"
	Checks map[string]Check `json:"checks" yaml:"checks"`
}

// Failed returns the names of failed checks, sorted
func (r Result) Failed() []string {
	var failed []string
	for name, c := range r.Checks {
		if !c.Pass {
			failed = append(failed, name)
		}
	}
	sort.Strings(failed)
	return failed
}

// Context is what a Checker can use beyond the sequence itself
type Context struct {
	// Calc computes thermodynamic properties at the design's conditions
	Calc *thermo.Calculator

	// Others are the sequences to check for cross-reactivity against
	Others []string
}

// Checker is a single validation criterion
type Checker interface {
	// Name is the key of the Check in a Result
	Name() string

	// Evaluate checks seq
	Evaluate(s string, ctx Context) Check
}

// Registry evaluates an ordered list of checkers
type Registry struct {
	calc     *thermo.Calculator
	checkers []Checker
	domain   []Checker
}

// NewRegistry returns a Registry with every check enabled in settings
func NewRegistry(settings Settings, calc *thermo.Calculator) *Registry {
	if calc == nil {
		calc = thermo.NewCalculator(nil, thermo.DefaultConditions())
	}

	r := &Registry{calc: calc}
	if settings.MeltingTemp.Enabled {
		r.Register(meltingTemp{settings.MeltingTemp})
	}
	if settings.Hairpin.Enabled {
		r.Register(hairpin{name: "hairpin_formation", DGSettings: settings.Hairpin})
		r.domain = append(r.domain, hairpin{name: "hairpin", DGSettings: settings.Hairpin})
	}
	if settings.SelfDimer.Enabled {
		r.Register(selfDimer{settings.SelfDimer})
	}
	if settings.CrossDimer.Enabled {
		r.Register(crossDimer{settings.CrossDimer})
	}
	if settings.GCContent.Enabled {
		r.Register(gcContent{settings.GCContent})
		r.domain = append([]Checker{gcContent{settings.GCContent}}, r.domain...)
	}
	if settings.ThreePrimeHairpin.Enabled {
		r.Register(threePrimeHairpin{settings.ThreePrimeHairpin})
	}
	if settings.ThreePrimeSelfDimer.Enabled {
		r.Register(threePrimeSelfDimer{settings.ThreePrimeSelfDimer})
	}
	if settings.ThreePrimeCrossDimer.Enabled {
		r.Register(threePrimeCrossDimer{settings.ThreePrimeCrossDimer})
	}
	if settings.Repeats.Enabled {
		r.Register(repeats{settings.Repeats})
	}
	if settings.GCClamp.Enabled {
		r.Register(gcClamp{settings.GCClamp})
	}
	if settings.Complexity.Enabled {
		r.Register(complexity{settings.Complexity})
	}
	return r
}

// Register adds a checker to the end of the strand checks
func (r *Registry) Register(c Checker) {
	r.checkers = append(r.checkers, c)
}

// Names of the registered strand checks in evaluation order
func (r *Registry) Names() []string {
	names := make([]string, len(r.checkers))
	for i, c := range r.checkers {
		names[i] = c.Name()
	}
	return names
}

// Calculator used by the registry's checks
func (r *Registry) Calculator() *thermo.Calculator {
	return r.calc
}

// Validate runs every registered check on s. others are the sequences it
// should not cross-react with.
func (r *Registry) Validate(s string, others []string) (Result, error) {
	return r.run(r.checkers, s, others)
}

// ValidateDomain runs only the GC content and hairpin checks on a
// single domain's sequence
func (r *Registry) ValidateDomain(s string) (Result, error) {
	return r.run(r.domain, s, nil)
}

func (r *Registry) run(checkers []Checker, s string, others []string) (Result, error) {
	if err := seq.Check(s); err != nil {
		return Result{}, fmt.Errorf("failed to validate %s: %w", s, err)
	}
	for _, o := range others {
		if err := seq.Check(o); err != nil {
			return Result{}, fmt.Errorf("failed to validate against %s: %w", o, err)
		}
	}

	ctx := Context{Calc: r.calc, Others: others}
	result := Result{OverallPass: true, Checks: make(map[string]Check, len(checkers))}
	for _, c := range checkers {
		check := c.Evaluate(s, ctx)
		result.Checks[c.Name()] = check
		result.OverallPass = result.OverallPass && check.Pass
	}
	return result, nil
}
