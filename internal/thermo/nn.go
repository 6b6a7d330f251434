// Package thermo estimates the thermodynamics of single DNA strands and
// strand pairs: melting temperature, hairpin, dimer and 3' end stability.
//
// Units: ΔH in kcal/mol, ΔS in cal/(K·mol), ΔG in kcal/mol, temperatures in °C.
//
// Melting temperature follows the two-state nearest-neighbor model:
//  1. sum ΔH/ΔS over every adjacent dinucleotide stack
//  2. add a terminal correction for each end (A/T and G/C ends differ)
//  3. correct ΔS for monovalent salt: ΔS += 0.368·N·ln([Na+]/1000)
//  4. Tm = ΔH·1000 / (ΔS + R·ln(CT/4)) − 273.15, floored at 0
package thermo

import (
	"math"
)

const (
	// R is the gas constant in cal/(K·mol)
	R = 1.987

	// kelvin offset from °C
	kelvin = 273.15
)

// nn is a nearest-neighbor stacking parameter
type nn struct {
	dH float64 // kcal/mol
	dS float64 // cal/(K·mol)
}

// stacks holds the Watson-Crick nearest-neighbor parameters, keyed by the
// dinucleotide on the 5'→3' strand (the partner strand is implied)
var stacks = map[string]nn{
	"AA": {-7.9, -22.2}, "AT": {-7.2, -20.4}, "AG": {-7.8, -21.0}, "AC": {-8.4, -22.4},
	"TA": {-7.2, -21.3}, "TT": {-7.9, -22.2}, "TG": {-8.5, -22.7}, "TC": {-8.2, -22.2},
	"GA": {-8.2, -22.2}, "GT": {-8.4, -22.4}, "GG": {-8.0, -19.9}, "GC": {-9.8, -24.4},
	"CA": {-8.5, -22.7}, "CT": {-7.8, -21.0}, "CG": {-10.6, -27.2}, "CC": {-8.0, -19.9},
}

// terminal corrections, applied once per duplex end
var (
	termAT = nn{2.3, 4.1}
	termGC = nn{0.1, -2.8}
)

func terminal(b byte) nn {
	if b == 'A' || b == 'T' {
		return termAT
	}
	return termGC
}

// enthalpy and entropy of a perfectly paired duplex, top strand 5'→3',
// including both terminal corrections but no salt correction
func duplex(top string) (dH, dS float64) {
	for i := 0; i+1 < len(top); i++ {
		if p, ok := stacks[top[i:i+2]]; ok {
			dH += p.dH
			dS += p.dS
		}
	}

	if len(top) > 0 {
		start, end := terminal(top[0]), terminal(top[len(top)-1])
		dH += start.dH + end.dH
		dS += start.dS + end.dS
	}
	return
}

// gibbs converts ΔH/ΔS into ΔG at tempC
func gibbs(dH, dS, tempC float64) float64 {
	return dH - (tempC+kelvin)*dS/1000
}

// stackDG is the summed stacking free energy of a perfectly paired top strand
// at tempC, without end corrections
func stackDG(top string, tempC float64) float64 {
	dg := 0.0
	for i := 0; i+1 < len(top); i++ {
		if p, ok := stacks[top[i:i+2]]; ok {
			dg += gibbs(p.dH, p.dS, tempC)
		}
	}
	return dg
}

// endDG is the free energy of one helix end's terminal correction
func endDG(b byte, tempC float64) float64 {
	t := terminal(b)
	return gibbs(t.dH, t.dS, tempC)
}

// Tm returns the melting temperature (°C) of s against its perfect
// complement under the salt and oligo concentrations in c.
// Sequences shorter than 2bp have no stacks and return 0.
func Tm(s string, c Conditions) float64 {
	if len(s) < 2 || c.SaltConc <= 0 || c.OligoConc <= 0 {
		return 0
	}

	dH, dS := duplex(s)

	// salt correction to the entropy
	dS += 0.368 * float64(len(s)) * math.Log(c.SaltConc/1000.0)

	// oligo concentration is in nM; CT/4 for non-self-complementary duplexes
	denom := dS + R*math.Log(c.OligoConc/4e9)
	if denom == 0 {
		return 0
	}

	tm := (dH*1000)/denom - kelvin
	return math.Max(0, tm)
}
