package pool

import (
	"fmt"
	"math"
	"math/rand"
	"strings"

	"github.com/jjtimmons/oligo/internal/seq"
)

// Fallback is what a Sampler does when no pool sequence fits a request
type Fallback string

const (
	// Synthesize builds a random sequence with exact base counts
	Synthesize Fallback = "synthesize"

	// Construct builds a sequence from pieces of other pool sequences
	Construct Fallback = "construct"

	// None gives up with ErrNoSequence
	None Fallback = "none"
)

// synthesisRetries is the number of synthesized sequences tried before
// accepting one that's in the exclusion set
const synthesisRetries = 1000

// Options for drawing sequences from a pool
type Options struct {
	// Tolerance is the max distance in GC% percentage points from the target
	Tolerance float64 `mapstructure:"tolerance" json:"tolerance" yaml:"tolerance"`

	// Fallback when no pool sequence is within tolerance
	Fallback Fallback `mapstructure:"fallback" json:"fallback" yaml:"fallback"`
}

// DefaultOptions draws within 15 GC% points and synthesizes otherwise
func DefaultOptions() Options {
	return Options{Tolerance: 15, Fallback: Synthesize}
}

// Tolerance bounds, in GC% percentage points
const (
	MinTolerance = 10
	MaxTolerance = 15
)

// Validate checks the Fallback is known and the Tolerance within
// [MinTolerance, MaxTolerance]
func (o Options) Validate() error {
	switch o.Fallback {
	case Synthesize, Construct, None:
	default:
		return fmt.Errorf("unknown pool fallback %q, use one of: synthesize, construct, none", o.Fallback)
	}
	if o.Tolerance < MinTolerance || o.Tolerance > MaxTolerance {
		return fmt.Errorf("pool tolerance must be within [%d, %d]: %.2f", MinTolerance, MaxTolerance, o.Tolerance)
	}
	return nil
}

// Sampler draws sequences from a Pool with its own random source.
// It is not safe for concurrent use.
type Sampler struct {
	pool *Pool
	opts Options
	rng  *rand.Rand
}

// NewSampler returns a Sampler over p. A nil p is treated as an empty pool.
func NewSampler(p *Pool, opts Options, rng *rand.Rand) *Sampler {
	if p == nil {
		p, _ = New(nil)
	}
	if opts.Fallback == "" {
		opts.Fallback = Synthesize
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &Sampler{pool: p, opts: opts, rng: rng}
}

// Get returns a sequence of exactly length bases near gcTarget percent GC
// that isn't in exclude.
func (s *Sampler) Get(length int, gcTarget float64, exclude map[string]bool) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("%w: %d", ErrInvalidLength, length)
	}
	gcTarget = math.Max(0, math.Min(100, gcTarget))

	var candidates []string
	for _, c := range s.pool.byLength[length] {
		if exclude[c] {
			continue
		}
		if math.Abs(seq.GC(c)-gcTarget) <= s.opts.Tolerance {
			candidates = append(candidates, c)
		}
	}
	if len(candidates) > 0 {
		return candidates[s.rng.Intn(len(candidates))], nil
	}

	switch s.opts.Fallback {
	case Synthesize:
		return s.synthesize(length, gcTarget, exclude), nil
	case Construct:
		return s.construct(length)
	default:
		return "", fmt.Errorf("%w: %dbp at %.1f%% GC", ErrNoSequence, length, gcTarget)
	}
}

// synthesize shuffles a sequence with exactly the base counts for gcTarget.
// The last attempt is returned even if it's excluded.
func (s *Sampler) synthesize(length int, gcTarget float64, exclude map[string]bool) string {
	gc := int(math.Round(gcTarget / 100 * float64(length)))
	if gc > length {
		gc = length
	}
	at := length - gc

	g := gc / 2
	c := gc - g
	a := at / 2
	t := at - a

	bases := []byte(strings.Repeat("G", g) + strings.Repeat("C", c) + strings.Repeat("A", a) + strings.Repeat("T", t))

	var out string
	for i := 0; i < synthesisRetries; i++ {
		s.rng.Shuffle(len(bases), func(i, j int) { bases[i], bases[j] = bases[j], bases[i] })
		out = string(bases)
		if !exclude[out] {
			return out
		}
	}
	return out
}

// construct builds a sequence from shorter pool sequences, concatenated and
// truncated, or else truncates the shortest longer one.
func (s *Sampler) construct(length int) (string, error) {
	shorter, longer := 0, 0
	for _, l := range s.pool.lengths {
		if l < length {
			shorter = l
		} else if l > length && longer == 0 {
			longer = l
		}
	}

	switch {
	case shorter > 0:
		bucket := s.pool.byLength[shorter]
		var b strings.Builder
		for b.Len() < length {
			b.WriteString(bucket[s.rng.Intn(len(bucket))])
		}
		return b.String()[:length], nil
	case longer > 0:
		bucket := s.pool.byLength[longer]
		return bucket[s.rng.Intn(len(bucket))][:length], nil
	default:
		return "", fmt.Errorf("%w: empty pool can't construct %dbp", ErrNoSequence, length)
	}
}
