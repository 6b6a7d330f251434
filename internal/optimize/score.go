package optimize

import (
	"fmt"
	"math"

	"github.com/jjtimmons/oligo/internal/seq"
	"github.com/jjtimmons/oligo/internal/thermo"
)

// penalty categories
const (
	hairpinPenalty             = "hairpin"
	selfDimerPenalty           = "self_dimer"
	threePrimeHairpinPenalty   = "three_prime_hairpin"
	threePrimeStabilityPenalty = "three_prime_stability"
	crossDimerPenalty          = "cross_dimer"
)

// Score of a trial: 100 less its penalties, floored at 0
type Score struct {
	// Total is in [0, 100], rounded to two decimals
	Total float64 `json:"total"`

	// Penalties by category. They sum to 100-Total unless the floor was hit.
	Penalties map[string]float64 `json:"penalties"`

	// Details has a message per violation
	Details []string `json:"penalty_details"`
}

type scorer struct {
	calc     *thermo.Calculator
	settings ScoringSettings
	cross    float64 // cross-dimer threshold
}

type scoreSheet struct {
	penalties map[string]float64
	details   []string
}

func (s *scoreSheet) add(category string, penalty float64, format string, args ...interface{}) {
	s.penalties[category] += penalty
	s.details = append(s.details, fmt.Sprintf(format, args...)+fmt.Sprintf(" (penalty %.2f)", penalty))
}

// score a trial whose strands and cross-dimers are already computed
func (sc *scorer) score(strands []TrialStrand, dimers []CrossDimer) (Score, error) {
	set := sc.settings
	sheet := &scoreSheet{penalties: map[string]float64{
		hairpinPenalty:             0,
		selfDimerPenalty:           0,
		threePrimeHairpinPenalty:   0,
		threePrimeStabilityPenalty: 0,
		crossDimerPenalty:          0,
	}, details: []string{}}

	for _, s := range strands {
		hp, err := sc.calc.Hairpin(s.Sequence)
		if err != nil {
			return Score{}, err
		}
		if hp.DG < set.HairpinThreshold {
			sheet.add(hairpinPenalty, math.Abs(hp.DG-set.HairpinThreshold)*set.HairpinWeight,
				"%s hairpin ΔG %.2f below %.2f", s.Name, hp.DG, set.HairpinThreshold)
		}

		sd, err := sc.calc.SelfDimer(s.Sequence)
		if err != nil {
			return Score{}, err
		}
		if sd.DG < set.SelfDimerThreshold {
			sheet.add(selfDimerPenalty, math.Abs(sd.DG-set.SelfDimerThreshold)*set.SelfDimerWeight,
				"%s self-dimer ΔG %.2f below %.2f", s.Name, sd.DG, set.SelfDimerThreshold)
		}

		tp, err := sc.calc.ThreePrimeHairpin(s.Sequence, set.ThreePrimeWindow)
		if err != nil {
			return Score{}, err
		}
		if tp.DG < set.ThreePrimeHairpinThreshold {
			sheet.add(threePrimeHairpinPenalty, math.Abs(tp.DG-set.ThreePrimeHairpinThreshold)*set.ThreePrimeHairpinWeight,
				"%s 3' hairpin ΔG %.2f below %.2f", s.Name, tp.DG, set.ThreePrimeHairpinThreshold)
		}

		// 3' end on the strand's full complement, the duplex it primes from
		end, err := sc.calc.EndStability(s.Sequence, seq.ReverseComplement(s.Sequence), set.ThreePrimeWindow)
		if err != nil {
			return Score{}, err
		}
		switch {
		case end.DG > set.StabilityCeiling:
			sheet.add(threePrimeStabilityPenalty, (end.DG-set.StabilityCeiling)*set.AboveCeilingWeight,
				"%s 3' end too weak: ΔG %.2f above %.2f", s.Name, end.DG, set.StabilityCeiling)
		case end.DG < set.StabilityFloor:
			sheet.add(threePrimeStabilityPenalty, math.Abs(end.DG-set.StabilityFloor)*set.BelowFloorWeight,
				"%s 3' end too strong: ΔG %.2f below %.2f", s.Name, end.DG, set.StabilityFloor)
		}
	}

	danger := sc.cross + set.WarningMargin
	for _, d := range dimers {
		switch {
		case d.DG < sc.cross:
			sheet.add(crossDimerPenalty, math.Abs(d.DG-sc.cross)*set.CriticalWeight,
				"critical cross-dimer %s/%s ΔG %.2f below %.2f", d.Strand1, d.Strand2, d.DG, sc.cross)
		case d.DG < danger:
			sheet.add(crossDimerPenalty, math.Abs(d.DG-danger)*set.WarningWeight,
				"cross-dimer warning %s/%s ΔG %.2f below %.2f", d.Strand1, d.Strand2, d.DG, danger)
		}
	}

	total := 0.0
	for category, p := range sheet.penalties {
		total += p
		sheet.penalties[category] = round2(p)
	}

	return Score{
		Total:     round2(math.Max(0, 100-total)),
		Penalties: sheet.penalties,
		Details:   sheet.details,
	}, nil
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
