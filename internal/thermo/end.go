package thermo

import (
	"github.com/jjtimmons/oligo/internal/seq"
)

// EndStability is the nearest-neighbor ΔG of the most stable duplex that
// includes the 3' terminal base of a paired with any base of b.
//
// The duplex is anchored at a's 3' end and extended toward its 5' end while
// the bases pair, for at most window bases (no limit if window <= 0). This is
// the stability that matters for unwanted extension by a polymerase: a 3' end
// that sits stably on another strand can prime it. The reference is used
// regardless of the Model since it's defined by contiguous pairing.
func EndStability(a, b string, window int, tempC float64) (Estimate, error) {
	if err := checkInputs(a, b); err != nil {
		return Estimate{}, err
	}
	if len(a) < minStem || len(b) < minStem {
		return inconclusive("sequences must be at least %dbp", minStem), nil
	}

	last := len(a) - 1
	best := 0.0
	for q := 0; q < len(b); q++ {
		// a[last-k] faces b[q+k] in the antiparallel duplex
		k := 0
		for last-k >= 0 && q+k < len(b) && seq.Complementary(a[last-k], b[q+k]) {
			k++
			if window > 0 && k == window {
				break
			}
		}

		if k >= minStem {
			if dg := duplexDG(a[len(a)-k:], tempC); dg < best {
				best = dg
			}
		}
	}

	return Estimate{DG: best}, nil
}
