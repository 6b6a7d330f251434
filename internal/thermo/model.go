package thermo

import (
	"fmt"
	"math"
	"strings"

	"github.com/jjtimmons/oligo/internal/seq"
)

const (
	// minStem is the fewest base pairs in a hairpin stem or dimer duplex
	minStem = 3

	// minLoop is the fewest unpaired bases in a hairpin loop
	minLoop = 3

	// refTemp is the temperature the linear coefficients are fit at
	refTemp = 37.0
)

// Estimate is the outcome of a free energy calculation.
//
// Inputs the model can't evaluate (ex: too short for a hairpin) are not
// errors: they produce a neutral ΔG of 0 with Inconclusive set.
type Estimate struct {
	// DG is the most stable (most negative) ΔG found in kcal/mol, 0 if none
	DG float64

	// Inconclusive is true if the input was outside what the model supports
	Inconclusive bool

	// Reason the estimate is inconclusive
	Reason string
}

func inconclusive(format string, args ...interface{}) Estimate {
	return Estimate{Inconclusive: true, Reason: fmt.Sprintf(format, args...)}
}

// Model estimates the free energy of unwanted secondary structures
type Model interface {
	// Name of the model, ex: "linear"
	Name() string

	// Hairpin is the ΔG of the most stable intramolecular fold of s
	Hairpin(s string, tempC float64) (Estimate, error)

	// ThreePrimeHairpin is the ΔG of the most stable fold whose downstream
	// arm ends at the 3' terminal base and lies within its last window bases
	ThreePrimeHairpin(s string, window int, tempC float64) (Estimate, error)

	// Dimer is the ΔG of the most stable antiparallel duplex between a and b
	Dimer(a, b string, tempC float64) (Estimate, error)
}

// ModelByName returns the model registered under name
func ModelByName(name string) (Model, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "linear":
		return Linear{}, nil
	case "nn", "nearest-neighbor":
		return NearestNeighbor{}, nil
	default:
		return nil, fmt.Errorf("unknown thermodynamic model %q, use \"linear\" or \"nn\"", name)
	}
}

// stem is a hairpin candidate: a contiguous run of pairs closing a loop
type stem struct {
	// start is the 5' base of the upstream arm
	start int

	// pairs is the number of base pairs in the stem
	pairs int

	// loop is the number of unpaired bases between the arms
	loop int
}

// end is the index just past the 3' base of the downstream arm
func (h stem) end() int {
	return h.start + 2*h.pairs + h.loop
}

// stems calls visit with every hairpin in s. For each loop position and
// length the stem is grown outward from the loop while the arms pair.
func stems(s string, visit func(stem)) {
	n := len(s)
	for p := 1; p < n; p++ {
		for l := minLoop; p+l < n; l++ {
			m := 0
			for p-1-m >= 0 && p+l+m < n && seq.Complementary(s[p-1-m], s[p+l+m]) {
				m++
			}
			if m >= minStem {
				visit(stem{start: p - m, pairs: m, loop: l})
			}
		}
	}
}

// bestHairpin scores every stem accepted by keep and returns the most negative
func bestHairpin(s string, keep func(stem) bool, score func(stem) float64) float64 {
	best := 0.0
	stems(s, func(h stem) {
		if keep != nil && !keep(h) {
			return
		}
		if dg := score(h); dg < best {
			best = dg
		}
	})
	return best
}

// diagonals calls visit for each antiparallel register of a against b.
// In a register a[i] faces b[d-i] so that both strands run 5'→3' in
// opposite directions.
func diagonals(a, b string, visit func(d, lo, hi int)) {
	for d := 0; d <= len(a)+len(b)-2; d++ {
		lo := d - (len(b) - 1)
		if lo < 0 {
			lo = 0
		}
		hi := d
		if hi > len(a)-1 {
			hi = len(a) - 1
		}
		if lo <= hi {
			visit(d, lo, hi)
		}
	}
}

func checkInputs(ss ...string) error {
	for _, s := range ss {
		if err := seq.Check(s); err != nil {
			return err
		}
	}
	return nil
}

// Linear scores structures with linear functions of their base pair count
// and loop or overlap length, fit at 37 °C and shifted linearly with temperature.
//
//	hairpin: ΔG = −1.5·pairs + 3.0 + 0.5·loop + 0.02·(T − 37)
//	dimer:   ΔG = −1.2·matches + 0.5·overlap + 2.0 + 0.015·(T − 37)
type Linear struct{}

// Name of the model
func (Linear) Name() string { return "linear" }

func (Linear) hairpinDG(h stem, tempC float64) float64 {
	return -1.5*float64(h.pairs) + 3.0 + 0.5*float64(h.loop) + 0.02*(tempC-refTemp)
}

// Hairpin implements Model
func (l Linear) Hairpin(s string, tempC float64) (Estimate, error) {
	if err := checkInputs(s); err != nil {
		return Estimate{}, err
	}
	if len(s) < 2*minStem+minLoop {
		return inconclusive("%dbp is too short for a hairpin", len(s)), nil
	}

	dg := bestHairpin(s, nil, func(h stem) float64 { return l.hairpinDG(h, tempC) })
	return Estimate{DG: dg}, nil
}

// ThreePrimeHairpin implements Model
func (l Linear) ThreePrimeHairpin(s string, window int, tempC float64) (Estimate, error) {
	if err := checkInputs(s); err != nil {
		return Estimate{}, err
	}
	if len(s) < 2*minStem+minLoop {
		return inconclusive("%dbp is too short for a hairpin", len(s)), nil
	}

	dg := bestHairpin(s, threePrimeStem(len(s), window), func(h stem) float64 { return l.hairpinDG(h, tempC) })
	return Estimate{DG: dg}, nil
}

// Dimer implements Model
func (Linear) Dimer(a, b string, tempC float64) (Estimate, error) {
	if err := checkInputs(a, b); err != nil {
		return Estimate{}, err
	}
	if len(a) < minStem || len(b) < minStem {
		return inconclusive("sequences must be at least %dbp", minStem), nil
	}

	best := 0.0
	diagonals(a, b, func(d, lo, hi int) {
		overlap := hi - lo + 1
		matches := 0
		for i := lo; i <= hi; i++ {
			if seq.Complementary(a[i], b[d-i]) {
				matches++
			}
		}

		if overlap >= minStem && matches >= minStem {
			dg := -1.2*float64(matches) + 0.5*float64(overlap) + 2.0 + 0.015*(tempC-refTemp)
			if dg < best {
				best = dg
			}
		}
	})

	return Estimate{DG: best}, nil
}

// NearestNeighbor scores contiguous duplexes with nearest-neighbor stacking
// free energies at the reaction temperature, terminal corrections, and a
// hairpin loop initiation penalty.
type NearestNeighbor struct{}

// Name of the model
func (NearestNeighbor) Name() string { return "nn" }

// hairpin loop initiation ΔG37 by loop length (SantaLucia & Hicks, 2004)
var loopDG37 = map[int]float64{3: 3.5, 4: 3.5, 5: 3.3, 6: 4.0, 7: 4.2, 8: 4.3, 9: 4.5}

// loopDG is the loop initiation penalty, treated as purely entropic so it
// scales with absolute temperature. Loops beyond the table are extrapolated
// with 2.44·R·T·ln(n/9).
func loopDG(n int, tempC float64) float64 {
	t := tempC + kelvin
	scale := t / (refTemp + kelvin)
	if dg, ok := loopDG37[n]; ok {
		return dg * scale
	}
	return loopDG37[9]*scale + 2.44*R*t/1000*math.Log(float64(n)/9)
}

func (NearestNeighbor) hairpinDG(s string, h stem, tempC float64) float64 {
	top := s[h.start : h.start+h.pairs]
	return stackDG(top, tempC) + endDG(top[0], tempC) + loopDG(h.loop, tempC)
}

// Hairpin implements Model
func (n NearestNeighbor) Hairpin(s string, tempC float64) (Estimate, error) {
	if err := checkInputs(s); err != nil {
		return Estimate{}, err
	}
	if len(s) < 2*minStem+minLoop {
		return inconclusive("%dbp is too short for a hairpin", len(s)), nil
	}

	dg := bestHairpin(s, nil, func(h stem) float64 { return n.hairpinDG(s, h, tempC) })
	return Estimate{DG: dg}, nil
}

// ThreePrimeHairpin implements Model
func (n NearestNeighbor) ThreePrimeHairpin(s string, window int, tempC float64) (Estimate, error) {
	if err := checkInputs(s); err != nil {
		return Estimate{}, err
	}
	if len(s) < 2*minStem+minLoop {
		return inconclusive("%dbp is too short for a hairpin", len(s)), nil
	}

	dg := bestHairpin(s, threePrimeStem(len(s), window), func(h stem) float64 { return n.hairpinDG(s, h, tempC) })
	return Estimate{DG: dg}, nil
}

// Dimer implements Model
func (NearestNeighbor) Dimer(a, b string, tempC float64) (Estimate, error) {
	if err := checkInputs(a, b); err != nil {
		return Estimate{}, err
	}
	if len(a) < minStem || len(b) < minStem {
		return inconclusive("sequences must be at least %dbp", minStem), nil
	}

	best := 0.0
	diagonals(a, b, func(d, lo, hi int) {
		// score each maximal run of pairs in this register
		for i := lo; i <= hi; {
			if !seq.Complementary(a[i], b[d-i]) {
				i++
				continue
			}
			j := i
			for j <= hi && seq.Complementary(a[j], b[d-j]) {
				j++
			}
			if j-i >= minStem {
				if dg := duplexDG(a[i:j], tempC); dg < best {
					best = dg
				}
			}
			i = j
		}
	})

	return Estimate{DG: best}, nil
}

// duplexDG is the free energy of a perfectly paired duplex with two ends
func duplexDG(top string, tempC float64) float64 {
	return stackDG(top, tempC) + endDG(top[0], tempC) + endDG(top[len(top)-1], tempC)
}

// threePrimeStem keeps stems whose downstream arm ends at the 3' terminal
// base and starts within the last window bases
func threePrimeStem(n, window int) func(stem) bool {
	return func(h stem) bool {
		if h.end() != n {
			return false
		}
		return window <= 0 || h.end()-h.pairs >= n-window
	}
}
