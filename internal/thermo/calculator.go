package thermo

// Calculator binds a Model to the reaction conditions of a single design
type Calculator struct {
	// Model scores hairpins and dimers
	Model Model

	// Conditions of the reaction
	Conditions Conditions

	// Divalent folds Mg2+ into the salt correction of Tm
	Divalent bool
}

// NewCalculator returns a Calculator using the linear model if m is nil
func NewCalculator(m Model, c Conditions) *Calculator {
	if m == nil {
		m = Linear{}
	}
	return &Calculator{Model: m, Conditions: c}
}

// Temp is the reaction temperature that ΔG estimates are made at
func (c *Calculator) Temp() float64 {
	return c.Conditions.ReactionTemp
}

// Tm is the melting temperature of s in °C
func (c *Calculator) Tm(s string) float64 {
	cond := c.Conditions
	if c.Divalent {
		cond = cond.monovalentEquivalent()
	}
	return Tm(s, cond)
}

// Hairpin is the ΔG of the most stable hairpin in s
func (c *Calculator) Hairpin(s string) (Estimate, error) {
	return c.Model.Hairpin(s, c.Temp())
}

// ThreePrimeHairpin is the ΔG of the most stable hairpin that ends at the
// 3' terminal base within the last window bases
func (c *Calculator) ThreePrimeHairpin(s string, window int) (Estimate, error) {
	return c.Model.ThreePrimeHairpin(s, window, c.Temp())
}

// SelfDimer is the ΔG of the most stable homodimer of s
func (c *Calculator) SelfDimer(s string) (Estimate, error) {
	return c.Model.Dimer(s, s, c.Temp())
}

// Dimer is the ΔG of the most stable heterodimer of a and b
func (c *Calculator) Dimer(a, b string) (Estimate, error) {
	return c.Model.Dimer(a, b, c.Temp())
}

// EndStability is the ΔG of a's 3' end (up to window bases) on b
func (c *Calculator) EndStability(a, b string, window int) (Estimate, error) {
	return EndStability(a, b, window, c.Temp())
}
