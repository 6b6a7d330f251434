package optimize

import (
	"errors"
	"fmt"
	"time"

	"github.com/jjtimmons/oligo/internal/pool"
	"github.com/jjtimmons/oligo/internal/seq"
	"github.com/jjtimmons/oligo/internal/thermo"
	"github.com/jjtimmons/oligo/internal/validate"
)

var (
	// ErrNoPool is returned when Search is called without a sequence pool
	ErrNoPool = errors.New("no sequence pool")

	// ErrInvalidRequest is returned for a malformed search request
	ErrInvalidRequest = errors.New("invalid search request")
)

// TargetStrand is a strand to assemble in every trial
type TargetStrand struct {
	Name string `json:"name" yaml:"name"`

	// Domains by name, 5' to 3'. "b*" is the reverse complement of "b".
	Domains []string `json:"domains" yaml:"domains"`
}

// ScoringSettings are the thresholds and weights of each penalty
type ScoringSettings struct {
	HairpinThreshold float64 `mapstructure:"hairpin-threshold" json:"hairpin_threshold" yaml:"hairpin_threshold"`
	HairpinWeight    float64 `mapstructure:"hairpin-weight" json:"hairpin_weight" yaml:"hairpin_weight"`

	SelfDimerThreshold float64 `mapstructure:"self-dimer-threshold" json:"self_dimer_threshold" yaml:"self_dimer_threshold"`
	SelfDimerWeight    float64 `mapstructure:"self-dimer-weight" json:"self_dimer_weight" yaml:"self_dimer_weight"`

	ThreePrimeHairpinThreshold float64 `mapstructure:"three-prime-hairpin-threshold" json:"three_prime_hairpin_threshold" yaml:"three_prime_hairpin_threshold"`
	ThreePrimeHairpinWeight    float64 `mapstructure:"three-prime-hairpin-weight" json:"three_prime_hairpin_weight" yaml:"three_prime_hairpin_weight"`

	// ThreePrimeWindow is the number of 3' bases in the 3' hairpin and stability terms
	ThreePrimeWindow int `mapstructure:"three-prime-window" json:"three_prime_window" yaml:"three_prime_window"`

	// the ideal band of ΔG for a strand's 3' end on its complement
	StabilityFloor   float64 `mapstructure:"stability-floor" json:"stability_floor" yaml:"stability_floor"`
	StabilityCeiling float64 `mapstructure:"stability-ceiling" json:"stability_ceiling" yaml:"stability_ceiling"`

	// weights for a 3' end that's too weak (above the ceiling) or too strong (below the floor)
	AboveCeilingWeight float64 `mapstructure:"above-ceiling-weight" json:"above_ceiling_weight" yaml:"above_ceiling_weight"`
	BelowFloorWeight   float64 `mapstructure:"below-floor-weight" json:"below_floor_weight" yaml:"below_floor_weight"`

	// cross-dimers below the threshold are critical, below threshold+WarningMargin are warnings
	CriticalWeight float64 `mapstructure:"critical-weight" json:"critical_weight" yaml:"critical_weight"`
	WarningWeight  float64 `mapstructure:"warning-weight" json:"warning_weight" yaml:"warning_weight"`
	WarningMargin  float64 `mapstructure:"warning-margin" json:"warning_margin" yaml:"warning_margin"`
}

// DefaultScoring returns the default penalty weights
func DefaultScoring() ScoringSettings {
	return ScoringSettings{
		HairpinThreshold:           -3,
		HairpinWeight:              5,
		SelfDimerThreshold:         -6,
		SelfDimerWeight:            3,
		ThreePrimeHairpinThreshold: -2,
		ThreePrimeHairpinWeight:    6,
		ThreePrimeWindow:           5,
		StabilityFloor:             -6,
		StabilityCeiling:           -3,
		AboveCeilingWeight:         4,
		BelowFloorWeight:           6,
		CriticalWeight:             15,
		WarningWeight:              3,
		WarningMargin:              2,
	}
}

// Settings of a strand set search
type Settings struct {
	// DomainLengths by base domain name, every domain used needs one
	DomainLengths map[string]int `mapstructure:"domain-lengths" json:"domain_lengths" yaml:"domain_lengths"`

	// DomainGC is the target GC% by base domain name, GCTarget if missing
	DomainGC map[string]float64 `mapstructure:"domain-gc" json:"domain_gc" yaml:"domain_gc"`

	// GCTarget is the default target GC% of drawn domains
	GCTarget float64 `mapstructure:"gc-target" json:"gc_target" yaml:"gc_target"`

	// Conditions of the reaction
	Conditions thermo.Conditions `mapstructure:"conditions" json:"conditions" yaml:"conditions"`

	// Model is the thermodynamic model name: "linear" or "nn"
	Model string `mapstructure:"model" json:"model" yaml:"model"`

	// Divalent folds Mg2+ into the Tm salt correction
	Divalent bool `mapstructure:"divalent" json:"divalent" yaml:"divalent"`

	// Validation each strand must pass on its own
	Validation validate.Settings `mapstructure:"validation" json:"validation" yaml:"validation"`

	// Pool options for drawing domains
	Pool pool.Options `mapstructure:"pool" json:"pool" yaml:"pool"`

	// CrossDimerThreshold rejects trials with a 3' cross-dimer ΔG below it
	CrossDimerThreshold float64 `mapstructure:"cross-dimer-threshold" json:"cross_dimer_threshold" yaml:"cross_dimer_threshold"`

	// Scoring penalties of surviving trials
	Scoring ScoringSettings `mapstructure:"scoring" json:"scoring" yaml:"scoring"`

	// TopK is the number of ranked trials returned
	TopK int `mapstructure:"top-k" json:"top_k" yaml:"top_k"`

	// Workers running trials, GOMAXPROCS if <= 0
	Workers int `mapstructure:"workers" json:"workers" yaml:"workers"`

	// Seed of trial g's random source is Seed+g
	Seed int64 `mapstructure:"seed" json:"seed" yaml:"seed"`

	// Timeout bounds the search if > 0
	Timeout time.Duration `mapstructure:"timeout" json:"timeout" yaml:"timeout"`

	// TargetValid stops scheduling trials once this many survive if > 0
	TargetValid int `mapstructure:"target-valid" json:"target_valid" yaml:"target_valid"`
}

// DefaultSettings returns settings for a search with every default
func DefaultSettings() Settings {
	return Settings{
		DomainLengths:       map[string]int{},
		DomainGC:            map[string]float64{},
		GCTarget:            50,
		Conditions:          thermo.DefaultConditions(),
		Model:               "linear",
		Validation:          validate.DefaultSettings(),
		Pool:                pool.DefaultOptions(),
		CrossDimerThreshold: -8,
		Scoring:             DefaultScoring(),
		TopK:                10,
		Seed:                1,
	}
}

// Request is a search for strand sets
type Request struct {
	TargetStrands []TargetStrand `json:"target_strands" yaml:"target_strands"`
	Settings      Settings       `json:"settings" yaml:"settings"`
	Generations   int            `json:"num_generations" yaml:"num_generations"`
}

// NewRequest returns a request with default settings
func NewRequest(strands []TargetStrand, generations int) Request {
	return Request{TargetStrands: strands, Settings: DefaultSettings(), Generations: generations}
}

// domains returns the base domain names used by the strands in order of
// first appearance
func (r Request) domains() []string {
	var names []string
	seen := make(map[string]bool)
	for _, s := range r.TargetStrands {
		for _, d := range s.Domains {
			base := seq.BaseName(d)
			if !seen[base] {
				seen[base] = true
				names = append(names, base)
			}
		}
	}
	return names
}

// check returns an error for a request that can't be searched
func (r Request) check() error {
	if len(r.TargetStrands) == 0 {
		return fmt.Errorf("%w: no target strands", ErrInvalidRequest)
	}
	if r.Generations <= 0 {
		return fmt.Errorf("%w: num_generations must be > 0, got %d", ErrInvalidRequest, r.Generations)
	}
	for i, s := range r.TargetStrands {
		if s.Name == "" {
			return fmt.Errorf("%w: target strand %d has no name", ErrInvalidRequest, i+1)
		}
		if len(s.Domains) == 0 {
			return fmt.Errorf("%w: target strand %s has no domains", ErrInvalidRequest, s.Name)
		}
	}
	for _, d := range r.domains() {
		if r.Settings.DomainLengths[d] <= 0 {
			return fmt.Errorf("%w: no length for domain %s", ErrInvalidRequest, d)
		}
	}

	if err := r.Settings.Conditions.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if err := r.Settings.Validation.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if err := r.Settings.Pool.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return nil
}
