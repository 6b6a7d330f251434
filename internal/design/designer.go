package design

import (
	"fmt"
	"math/rand"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/jjtimmons/oligo/internal/pool"
	"github.com/jjtimmons/oligo/internal/seq"
	"github.com/jjtimmons/oligo/internal/thermo"
	"github.com/jjtimmons/oligo/internal/validate"
)

// Designer resolves domain sequences and validates the strands they make.
// It's safe for concurrent use: each call to Design draws from its own
// random source.
type Designer struct {
	// Pool of curated sequences that domains are drawn from
	Pool *pool.Pool

	// PoolOptions set the GC tolerance and fallback when drawing
	PoolOptions pool.Options

	// Model estimates hairpin and dimer ΔG, linear if nil
	Model thermo.Model

	// Divalent folds Mg2+ into the Tm salt correction
	Divalent bool

	// Log is a no-op logger if nil
	Log *zap.Logger

	seed  int64
	calls atomic.Int64
}

// NewDesigner returns a Designer that draws from p. Each Design call is
// seeded with seed plus the number of prior calls.
func NewDesigner(p *pool.Pool, opts pool.Options, seed int64) *Designer {
	return &Designer{Pool: p, PoolOptions: opts, seed: seed}
}

func (d *Designer) log() *zap.Logger {
	if d.Log == nil {
		return zap.NewNop()
	}
	return d.Log
}

// Design builds the strand name from specs and validates it at cond with
// settings. It never returns an error: failures are reported in the Result.
func (d *Designer) Design(name string, specs []DomainSpec, cond thermo.Conditions, settings validate.Settings) Result {
	res, _ := d.design(name, specs, cond, settings, nil)
	return res
}

// design is Design with domain sequences known from earlier designs. It
// also returns the forward sequence of every base domain it resolved.
func (d *Designer) design(name string, specs []DomainSpec, cond thermo.Conditions, settings validate.Settings, known map[string]string) (Result, map[string]string) {
	start := time.Now()
	strand, validation, resolved, err := d.build(name, specs, cond, settings, known)
	end := time.Now()

	res := Result{GenerationTime: end.Sub(start).Seconds(), GeneratedAt: end}
	if err != nil {
		d.log().Info("design failed", zap.String("strand", name), zap.Error(err))
		res.ErrorMessage = err.Error()
		return res, nil
	}

	res.Success = true
	res.Strand = strand
	res.Validation = validation
	d.log().Info("designed strand",
		zap.String("strand", name),
		zap.Int("length", strand.TotalLength),
		zap.Bool("overall_pass", validation.OverallPass),
		zap.Float64("seconds", res.GenerationTime),
	)
	return res, resolved
}

func (d *Designer) build(name string, specs []DomainSpec, cond thermo.Conditions, settings validate.Settings, known map[string]string) (*Strand, *validate.Result, map[string]string, error) {
	if err := checkSpecs(name, specs); err != nil {
		return nil, nil, nil, err
	}
	if err := cond.Validate(); err != nil {
		return nil, nil, nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := settings.Validate(); err != nil {
		return nil, nil, nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	rng := rand.New(rand.NewSource(d.seed + d.calls.Add(1) - 1))
	sampler := pool.NewSampler(d.Pool, d.PoolOptions, rng)

	forward, err := d.resolve(specs, known, sampler)
	if err != nil {
		return nil, nil, nil, err
	}

	strand := &Strand{Name: strings.TrimSpace(name)}
	var sequences []string
	var b strings.Builder
	for _, s := range specs {
		base, comp := seq.IsComplementName(s.Name)
		domainSeq := forward[base]
		if comp {
			domainSeq = seq.ReverseComplement(domainSeq)
		}

		fixed, _ := seq.Normalize(s.FixedSequence)
		strand.Domains = append(strand.Domains, Domain{
			Name:          s.Name,
			Length:        s.Length,
			FixedSequence: fixed,
			TargetGC:      s.targetGC(),
			Sequence:      domainSeq,
		})
		sequences = append(sequences, domainSeq)
		b.WriteString(domainSeq)
	}
	strand.Sequence = b.String()
	strand.TotalLength = len(strand.Sequence)

	calc := thermo.NewCalculator(d.Model, cond)
	calc.Divalent = d.Divalent
	registry := validate.NewRegistry(settings, calc)

	validation, err := registry.Validate(strand.Sequence, sequences)
	if err != nil {
		return nil, nil, nil, err
	}
	for i := range strand.Domains {
		domainResult, err := registry.ValidateDomain(strand.Domains[i].Sequence)
		if err != nil {
			return nil, nil, nil, err
		}
		strand.Domains[i].ValidationPassed = domainResult.OverallPass
	}

	return strand, &validation, forward, nil
}

// resolve returns the forward sequence of every base domain in specs.
//
// Fixed sequences (and the reverse complement of fixed complement domains)
// are set first. The rest are resolved in order: a complement whose partner
// isn't in the strand uses the known sequence of the partner if there is
// one. Otherwise the partner is drawn from the pool excluding every
// sequence resolved before it in the strand.
func (d *Designer) resolve(specs []DomainSpec, known map[string]string, sampler *pool.Sampler) (map[string]string, error) {
	lengths := make(map[string]int)
	gcTargets := make(map[string]float64)
	inStrand := make(map[string]bool)
	forward := make(map[string]string)

	for _, s := range specs {
		base, comp := seq.IsComplementName(s.Name)
		lengths[base] = s.Length
		if !comp {
			inStrand[base] = true
		}
		if _, ok := gcTargets[base]; !ok || (!comp && s.TargetGC != nil) {
			gcTargets[base] = s.targetGC()
		}

		if s.FixedSequence == "" {
			continue
		}
		fwd, _ := seq.Normalize(s.FixedSequence)
		if comp {
			fwd = seq.ReverseComplement(fwd)
		}
		if prior, ok := forward[base]; ok && prior != fwd {
			return nil, fmt.Errorf("%w: conflicting fixed sequences for domain %s", ErrInvalidInput, base)
		}
		forward[base] = fwd
	}

	exclude := make(map[string]bool)
	for _, s := range specs {
		base, comp := seq.IsComplementName(s.Name)

		fwd, ok := forward[base]
		if !ok && comp && !inStrand[base] {
			if k, cached := known[base]; cached {
				if len(k) != s.Length {
					return nil, fmt.Errorf("%w: %s is %dbp but %s is %dbp", ErrInvalidInput, s.Name, s.Length, base, len(k))
				}
				fwd, ok = k, true
				forward[base] = k
			}
		}
		if !ok {
			drawn, err := sampler.Get(lengths[base], gcTargets[base], exclude)
			if err != nil {
				return nil, fmt.Errorf("%w %s: %w", ErrUnresolved, s.Name, err)
			}
			fwd = drawn
			forward[base] = drawn
			d.log().Debug("drew domain", zap.String("domain", base), zap.String("sequence", drawn))
		}

		exclude[fwd] = true
		if comp {
			exclude[seq.ReverseComplement(fwd)] = true
		}
	}

	return forward, nil
}

// checkSpecs returns an error for the first malformed part of a request
func checkSpecs(name string, specs []DomainSpec) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: strand name is required", ErrInvalidInput)
	}
	if len(specs) == 0 {
		return fmt.Errorf("%w: strand %s has no domains", ErrInvalidInput, name)
	}

	lengths := make(map[string]int)
	for i, s := range specs {
		if strings.TrimSpace(s.Name) == "" {
			return fmt.Errorf("%w: domain %d has no name", ErrInvalidInput, i+1)
		}
		base, _ := seq.IsComplementName(s.Name)
		if base == seq.ComplementMarker || strings.HasSuffix(base, seq.ComplementMarker) {
			return fmt.Errorf("%w: domain name %q", ErrInvalidInput, s.Name)
		}
		if s.Length <= 0 {
			return fmt.Errorf("%w: domain %s length must be > 0, got %d", ErrInvalidInput, s.Name, s.Length)
		}
		if gc := s.targetGC(); gc < 0 || gc > 100 {
			return fmt.Errorf("%w: domain %s target GC must be 0-100, got %.1f", ErrInvalidInput, s.Name, gc)
		}
		if s.FixedSequence != "" {
			fixed, err := seq.Normalize(s.FixedSequence)
			if err != nil {
				return fmt.Errorf("%w: domain %s: %w", ErrInvalidInput, s.Name, err)
			}
			if len(fixed) != s.Length {
				return fmt.Errorf("%w: domain %s fixed sequence is %dbp, length is %d", ErrInvalidInput, s.Name, len(fixed), s.Length)
			}
		}

		if l, ok := lengths[base]; ok && l != s.Length {
			return fmt.Errorf("%w: domain %s is %dbp but %s was %dbp", ErrInvalidInput, s.Name, s.Length, base, l)
		}
		lengths[base] = s.Length
	}
	return nil
}
