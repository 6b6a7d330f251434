package thermo

import (
	"fmt"
	"math"
)

// Conditions are the reaction parameters shared by every thermodynamic
// calculation in a single design
type Conditions struct {
	// ReactionTemp is the reaction temperature in °C
	ReactionTemp float64 `json:"reaction_temp" yaml:"reaction_temp" mapstructure:"reaction-temp"`

	// SaltConc is the monovalent cation concentration in mM
	SaltConc float64 `json:"salt_conc" yaml:"salt_conc" mapstructure:"salt-conc"`

	// MgConc is the divalent cation concentration in mM
	MgConc float64 `json:"mg_conc" yaml:"mg_conc" mapstructure:"mg-conc"`

	// OligoConc is the strand concentration in nM
	OligoConc float64 `json:"oligo_conc" yaml:"oligo_conc" mapstructure:"oligo-conc"`
}

// DefaultConditions are a typical hybridization buffer at 37 °C
func DefaultConditions() Conditions {
	return Conditions{
		ReactionTemp: 37.0,
		SaltConc:     50.0,
		MgConc:       2.0,
		OligoConc:    250.0,
	}
}

// Validate returns an error if the conditions can't be used in a calculation
func (c Conditions) Validate() error {
	if c.SaltConc <= 0 {
		return fmt.Errorf("salt concentration must be > 0 mM, got %.2f", c.SaltConc)
	}
	if c.OligoConc <= 0 {
		return fmt.Errorf("oligo concentration must be > 0 nM, got %.2f", c.OligoConc)
	}
	if c.MgConc < 0 {
		return fmt.Errorf("Mg concentration must be >= 0 mM, got %.2f", c.MgConc)
	}
	if c.ReactionTemp <= -kelvin || c.ReactionTemp > 150 {
		return fmt.Errorf("reaction temperature %.1f °C is out of range", c.ReactionTemp)
	}
	return nil
}

// monovalentEquivalent folds Mg2+ into an equivalent Na+ concentration (mM)
// using Na_eq = Na + 120·sqrt(Mg)
func (c Conditions) monovalentEquivalent() Conditions {
	if c.MgConc > 0 {
		c.SaltConc += 120 * math.Sqrt(c.MgConc)
	}
	return c
}
