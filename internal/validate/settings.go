package validate

import "fmt"

// TmSettings bound the melting temperature relative to the reaction temp
type TmSettings struct {
	Enabled bool `mapstructure:"enabled" json:"enabled" yaml:"enabled"`

	// MinOffset is the lowest allowed Tm above the reaction temperature
	MinOffset float64 `mapstructure:"min-offset" json:"min_offset" yaml:"min_offset"`

	// MaxOffset is the highest allowed Tm above the reaction temperature
	MaxOffset float64 `mapstructure:"max-offset" json:"max_offset" yaml:"max_offset"`
}

// DGSettings are for checks on the ΔG of a structure
type DGSettings struct {
	Enabled bool `mapstructure:"enabled" json:"enabled" yaml:"enabled"`

	// MaxDG is the most stable ΔG (kcal/mol) that still passes
	MaxDG float64 `mapstructure:"max-dg" json:"max_dg" yaml:"max_dg"`
}

// WindowSettings are for checks restricted to the 3' end of a sequence
type WindowSettings struct {
	Enabled bool `mapstructure:"enabled" json:"enabled" yaml:"enabled"`

	// MaxDG is the most stable ΔG (kcal/mol) that still passes
	MaxDG float64 `mapstructure:"max-dg" json:"max_dg" yaml:"max_dg"`

	// Window is the number of 3' bases considered
	Window int `mapstructure:"window" json:"window" yaml:"window"`
}

// GCSettings bound the GC content, inclusive
type GCSettings struct {
	Enabled    bool    `mapstructure:"enabled" json:"enabled" yaml:"enabled"`
	MinPercent float64 `mapstructure:"min-percent" json:"min_percent" yaml:"min_percent"`
	MaxPercent float64 `mapstructure:"max-percent" json:"max_percent" yaml:"max_percent"`
}

// RepeatSettings limit homopolymer runs and dinucleotide repeats
type RepeatSettings struct {
	Enabled bool `mapstructure:"enabled" json:"enabled" yaml:"enabled"`

	// MaxRun is the longest allowed run of a single base
	MaxRun int `mapstructure:"max-run" json:"max_run" yaml:"max_run"`

	// MaxRepeats is the most back-to-back copies of a dinucleotide allowed
	MaxRepeats int `mapstructure:"max-repeats" json:"max_repeats" yaml:"max_repeats"`
}

// ClampSettings bound the number of G/C bases at the 3' end
type ClampSettings struct {
	Enabled bool `mapstructure:"enabled" json:"enabled" yaml:"enabled"`
	Window  int  `mapstructure:"window" json:"window" yaml:"window"`
	Min     int  `mapstructure:"min" json:"min" yaml:"min"`
	Max     int  `mapstructure:"max" json:"max" yaml:"max"`
}

// ComplexitySettings set the lowest normalized base entropy allowed
type ComplexitySettings struct {
	Enabled bool    `mapstructure:"enabled" json:"enabled" yaml:"enabled"`
	Min     float64 `mapstructure:"min" json:"min" yaml:"min"`
}

// Settings toggle and parameterize every check. Start from DefaultSettings
// and overlay user settings so omitted fields keep their defaults.
type Settings struct {
	MeltingTemp          TmSettings         `mapstructure:"melting-temp" json:"melting_temp" yaml:"melting_temp"`
	Hairpin              DGSettings         `mapstructure:"hairpin" json:"hairpin" yaml:"hairpin"`
	SelfDimer            DGSettings         `mapstructure:"self-dimer" json:"self_dimer" yaml:"self_dimer"`
	CrossDimer           DGSettings         `mapstructure:"cross-dimer" json:"cross_dimer" yaml:"cross_dimer"`
	GCContent            GCSettings         `mapstructure:"gc-content" json:"gc_content" yaml:"gc_content"`
	ThreePrimeHairpin    WindowSettings     `mapstructure:"three-prime-hairpin" json:"three_prime_hairpin" yaml:"three_prime_hairpin"`
	ThreePrimeSelfDimer  WindowSettings     `mapstructure:"three-prime-self-dimer" json:"three_prime_self_dimer" yaml:"three_prime_self_dimer"`
	ThreePrimeCrossDimer WindowSettings     `mapstructure:"three-prime-cross-dimer" json:"three_prime_cross_dimer" yaml:"three_prime_cross_dimer"`
	Repeats              RepeatSettings     `mapstructure:"repeats" json:"repeats" yaml:"repeats"`
	GCClamp              ClampSettings      `mapstructure:"gc-clamp" json:"gc_clamp" yaml:"gc_clamp"`
	Complexity           ComplexitySettings `mapstructure:"complexity" json:"complexity" yaml:"complexity"`
}

// DefaultSettings enable the five core checks. The 3' checks and the
// compositional checks are off.
func DefaultSettings() Settings {
	return Settings{
		MeltingTemp: TmSettings{Enabled: true, MinOffset: 5, MaxOffset: 25},
		Hairpin:     DGSettings{Enabled: true, MaxDG: -3},
		SelfDimer:   DGSettings{Enabled: true, MaxDG: -6},
		CrossDimer:  DGSettings{Enabled: true, MaxDG: -6},
		GCContent:   GCSettings{Enabled: true, MinPercent: 40, MaxPercent: 60},

		ThreePrimeHairpin:    WindowSettings{MaxDG: -2, Window: 5},
		ThreePrimeSelfDimer:  WindowSettings{MaxDG: -5, Window: 5},
		ThreePrimeCrossDimer: WindowSettings{MaxDG: -5, Window: 5},

		Repeats:    RepeatSettings{MaxRun: 4, MaxRepeats: 3},
		GCClamp:    ClampSettings{Window: 5, Min: 2, Max: 3},
		Complexity: ComplexitySettings{Min: 0.7},
	}
}

// Disabled turns every check off
func Disabled() Settings {
	s := DefaultSettings()
	s.MeltingTemp.Enabled = false
	s.Hairpin.Enabled = false
	s.SelfDimer.Enabled = false
	s.CrossDimer.Enabled = false
	s.GCContent.Enabled = false
	return s
}

// Validate returns an error for settings that can't pass any sequence
func (s Settings) Validate() error {
	if s.MeltingTemp.MinOffset > s.MeltingTemp.MaxOffset {
		return fmt.Errorf("melting_temp min_offset %.1f > max_offset %.1f", s.MeltingTemp.MinOffset, s.MeltingTemp.MaxOffset)
	}
	if s.GCContent.MinPercent > s.GCContent.MaxPercent {
		return fmt.Errorf("gc_content min_percent %.1f > max_percent %.1f", s.GCContent.MinPercent, s.GCContent.MaxPercent)
	}
	if s.GCClamp.Min > s.GCClamp.Max {
		return fmt.Errorf("gc_clamp min %d > max %d", s.GCClamp.Min, s.GCClamp.Max)
	}
	for name, w := range map[string]WindowSettings{
		"three_prime_hairpin":     s.ThreePrimeHairpin,
		"three_prime_self_dimer":  s.ThreePrimeSelfDimer,
		"three_prime_cross_dimer": s.ThreePrimeCrossDimer,
	} {
		if w.Enabled && w.Window <= 0 {
			return fmt.Errorf("%s window must be > 0", name)
		}
	}
	return nil
}
