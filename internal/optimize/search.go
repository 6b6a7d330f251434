// Package optimize searches random domain assignments for sets of strands
// that pass validation and don't prime off one another.
package optimize

import (
	"context"
	"fmt"
	"math/rand"
	"runtime"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/jjtimmons/oligo/internal/pool"
	"github.com/jjtimmons/oligo/internal/seq"
	"github.com/jjtimmons/oligo/internal/thermo"
	"github.com/jjtimmons/oligo/internal/validate"
)

// reasons a trial is discarded
const (
	RejectUnassignable  = "unassignable"
	RejectInvalidStrand = "invalid_strand"
	RejectCrossDimer    = "cross_dimer"
)

// TrialStrand is a target strand assembled in a trial
type TrialStrand struct {
	Name       string          `json:"name"`
	Domains    []string        `json:"domains"`
	Sequence   string          `json:"sequence"`
	Validation validate.Result `json:"validation"`
}

// CrossDimer is the ΔG of Strand1's 3' end on Strand2
type CrossDimer struct {
	Strand1 string  `json:"strand1"`
	Strand2 string  `json:"strand2"`
	DG      float64 `json:"dg"`
}

// Trial is a surviving assignment of sequences to domains
type Trial struct {
	// Generation is the 0-based index of the trial
	Generation int `json:"generation"`

	// Domains are the forward sequences of each base domain
	Domains map[string]string `json:"domains"`

	Strands     []TrialStrand `json:"strands"`
	CrossDimers []CrossDimer  `json:"cross_dimer_results"`
	Score       Score         `json:"score"`
}

// Summary statistics of the scores of every surviving trial
type Summary struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Best   float64 `json:"best"`
}

// Output of a search
type Output struct {
	// TotalGenerated is the number of trials run
	TotalGenerated int `json:"total_generated"`

	// TotalValid is the number of trials that survived
	TotalValid int `json:"total_valid"`

	// Rejected counts discarded trials by reason
	Rejected map[string]int `json:"rejected"`

	// TopStrandSets are the best trials, by score descending
	TopStrandSets []Trial `json:"top_strand_sets"`

	Summary Summary `json:"summary"`
}

// Searcher runs strand set searches
type Searcher struct {
	// Log is a no-op logger if nil
	Log *zap.Logger
}

// Search runs a search without logging
func Search(ctx context.Context, p *pool.Pool, req Request) (*Output, error) {
	return (&Searcher{}).Search(ctx, p, req)
}

// search is the read-only state shared by every trial
type search struct {
	pool     *pool.Pool
	req      Request
	domains  []string
	calc     *thermo.Calculator
	registry *validate.Registry
	scorer   *scorer
	log      *zap.Logger
}

// Search runs req.Generations independent trials against p and ranks the
// ones that survive. Trials run concurrently on Settings.Workers workers.
// The search stops early, without error, when ctx is done, the timeout
// passes, or TargetValid trials have survived.
func (s *Searcher) Search(ctx context.Context, p *pool.Pool, req Request) (*Output, error) {
	log := s.Log
	if log == nil {
		log = zap.NewNop()
	}
	if p == nil {
		return nil, ErrNoPool
	}
	if err := req.check(); err != nil {
		return nil, err
	}
	model, err := thermo.ModelByName(req.Settings.Model)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	calc := thermo.NewCalculator(model, req.Settings.Conditions)
	calc.Divalent = req.Settings.Divalent
	sr := &search{
		pool:     p,
		req:      req,
		domains:  req.domains(),
		calc:     calc,
		registry: validate.NewRegistry(req.Settings.Validation, calc),
		scorer:   &scorer{calc: calc, settings: req.Settings.Scoring, cross: req.Settings.CrossDimerThreshold},
		log:      log,
	}

	if req.Settings.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Settings.Timeout)
		defer cancel()
	}

	workers := req.Settings.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	var (
		mu       sync.Mutex
		trials   []Trial
		rejected = map[string]int{}
		ran      int
		valid    atomic.Int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for gen := 0; gen < req.Generations; gen++ {
		if gctx.Err() != nil || sr.enough(valid.Load()) {
			break
		}

		gen := gen // per-iteration copy; go.mod targets go1.21 loop semantics
		g.Go(func() error {
			if gctx.Err() != nil || sr.enough(valid.Load()) {
				return nil
			}

			trial, reason, err := sr.trial(gen)
			if err != nil {
				return err
			}

			mu.Lock()
			defer mu.Unlock()
			ran++
			if reason != "" {
				rejected[reason]++
				return nil
			}
			trials = append(trials, trial)
			valid.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// completion order is arbitrary, rank on score then generation
	sort.Slice(trials, func(i, j int) bool {
		if trials[i].Score.Total != trials[j].Score.Total {
			return trials[i].Score.Total > trials[j].Score.Total
		}
		return trials[i].Generation < trials[j].Generation
	})

	out := &Output{
		TotalGenerated: ran,
		TotalValid:     len(trials),
		Rejected:       rejected,
		TopStrandSets:  []Trial{},
		Summary:        summarize(trials),
	}
	topK := req.Settings.TopK
	if topK <= 0 || topK > len(trials) {
		topK = len(trials)
	}
	out.TopStrandSets = append(out.TopStrandSets, trials[:topK]...)

	log.Info("search complete",
		zap.Int("generated", out.TotalGenerated),
		zap.Int("valid", out.TotalValid),
		zap.Any("rejected", rejected),
		zap.Float64("best", out.Summary.Best),
		zap.Bool("stopped_early", ctx.Err() != nil),
	)
	return out, nil
}

func (sr *search) enough(valid int64) bool {
	target := sr.req.Settings.TargetValid
	return target > 0 && valid >= int64(target)
}

// trial runs a single generation. A rejected trial returns the reason.
// Errors are only returned for failures unrelated to the trial's sequences.
func (sr *search) trial(gen int) (Trial, string, error) {
	settings := sr.req.Settings
	rng := rand.New(rand.NewSource(settings.Seed + int64(gen)))
	sampler := pool.NewSampler(sr.pool, settings.Pool, rng)
	log := sr.log.With(zap.Int("generation", gen))

	// draw every base domain, excluding earlier draws
	forward := make(map[string]string, len(sr.domains))
	exclude := make(map[string]bool)
	for _, d := range sr.domains {
		gc, ok := settings.DomainGC[d]
		if !ok {
			gc = settings.GCTarget
		}
		s, err := sampler.Get(settings.DomainLengths[d], gc, exclude)
		if err != nil {
			log.Debug("trial rejected", zap.String("reason", RejectUnassignable), zap.String("domain", d), zap.Error(err))
			return Trial{}, RejectUnassignable, nil
		}
		forward[d] = s
		exclude[s] = true
	}

	// assemble and validate each strand alone
	strands := make([]TrialStrand, len(sr.req.TargetStrands))
	for i, target := range sr.req.TargetStrands {
		var b strings.Builder
		for _, name := range target.Domains {
			base, comp := seq.IsComplementName(name)
			if comp {
				b.WriteString(seq.ReverseComplement(forward[base]))
			} else {
				b.WriteString(forward[base])
			}
		}

		strand := TrialStrand{Name: target.Name, Domains: target.Domains, Sequence: b.String()}
		result, err := sr.registry.Validate(strand.Sequence, nil)
		if err != nil {
			return Trial{}, "", err
		}
		if !result.OverallPass {
			log.Debug("trial rejected", zap.String("reason", RejectInvalidStrand), zap.String("strand", target.Name), zap.Strings("failed", result.Failed()))
			return Trial{}, RejectInvalidStrand, nil
		}
		strand.Validation = result
		strands[i] = strand
	}

	// 3' end of each strand against the full length of every other
	var dimers []CrossDimer
	for i, a := range strands {
		for j, b := range strands {
			if i == j {
				continue
			}
			e, err := sr.calc.EndStability(a.Sequence, b.Sequence, 0)
			if err != nil {
				return Trial{}, "", err
			}
			if e.DG < settings.CrossDimerThreshold {
				log.Debug("trial rejected", zap.String("reason", RejectCrossDimer), zap.String("strand1", a.Name), zap.String("strand2", b.Name), zap.Float64("dg", e.DG))
				return Trial{}, RejectCrossDimer, nil
			}
			dimers = append(dimers, CrossDimer{Strand1: a.Name, Strand2: b.Name, DG: e.DG})
		}
	}

	score, err := sr.scorer.score(strands, dimers)
	if err != nil {
		return Trial{}, "", err
	}

	if dimers == nil {
		dimers = []CrossDimer{}
	}
	return Trial{
		Generation:  gen,
		Domains:     forward,
		Strands:     strands,
		CrossDimers: dimers,
		Score:       score,
	}, "", nil
}

// summarize the scores of every surviving trial, sorted best first
func summarize(trials []Trial) Summary {
	if len(trials) == 0 {
		return Summary{}
	}

	scores := make([]float64, len(trials))
	for i, t := range trials {
		scores[i] = t.Score.Total
	}

	sum := Summary{Mean: stat.Mean(scores, nil), Best: scores[0]}
	if len(scores) > 1 {
		sum.StdDev = stat.StdDev(scores, nil)
	}
	return sum
}
