// Package design assembles named domains into a full DNA strand and
// validates the result.
package design

import (
	"errors"
	"time"

	"github.com/jjtimmons/oligo/internal/seq"
	"github.com/jjtimmons/oligo/internal/validate"
)

var (
	// ErrInvalidInput is returned for a malformed domain or strand request
	ErrInvalidInput = errors.New("invalid design input")

	// ErrUnresolved is returned when a domain's sequence can't be resolved
	ErrUnresolved = errors.New("unresolved domain")
)

// DefaultTargetGC is the GC% of a domain that doesn't set one
const DefaultTargetGC = 50.0

// DomainSpec is a requested domain of a strand
type DomainSpec struct {
	// Name of the domain, "b*" is the reverse complement of "b"
	Name string `json:"name" yaml:"name"`

	// Length of the domain in bp
	Length int `json:"length" yaml:"length"`

	// FixedSequence is used verbatim if set
	FixedSequence string `json:"fixed_sequence,omitempty" yaml:"fixed_sequence,omitempty"`

	// TargetGC is the target GC%, DefaultTargetGC if nil
	TargetGC *float64 `json:"target_gc_content,omitempty" yaml:"target_gc_content,omitempty"`
}

// targetGC returns the requested GC target or the default
func (d DomainSpec) targetGC() float64 {
	if d.TargetGC == nil {
		return DefaultTargetGC
	}
	return *d.TargetGC
}

// Domain is a resolved domain of a designed strand
type Domain struct {
	Name          string  `json:"name"`
	Length        int     `json:"length"`
	FixedSequence string  `json:"fixed_sequence,omitempty"`
	TargetGC      float64 `json:"target_gc_content"`

	// Sequence resolved for the domain
	Sequence string `json:"generated_sequence"`

	// ValidationPassed is whether the domain alone passed its checks
	ValidationPassed bool `json:"validation_passed"`
}

// IsComplement returns whether the domain is the reverse complement of another
func (d Domain) IsComplement() bool {
	_, ok := seq.IsComplementName(d.Name)
	return ok
}

// Strand is a designed oligo, its domains in 5' to 3' order
type Strand struct {
	Name        string   `json:"name"`
	TotalLength int      `json:"total_length"`
	Sequence    string   `json:"sequence"`
	Domains     []Domain `json:"domains"`
}

// ReverseComplement returns the strand that hybridizes with s along its
// full length: domains reversed and each complemented
func (s Strand) ReverseComplement() Strand {
	rc := Strand{
		Name:        complementName(s.Name),
		TotalLength: s.TotalLength,
		Sequence:    seq.ReverseComplement(s.Sequence),
	}
	for i := len(s.Domains) - 1; i >= 0; i-- {
		d := s.Domains[i]
		rc.Domains = append(rc.Domains, Domain{
			Name:             complementName(d.Name),
			Length:           d.Length,
			TargetGC:         d.TargetGC,
			Sequence:         seq.ReverseComplement(d.Sequence),
			ValidationPassed: d.ValidationPassed,
		})
	}
	return rc
}

// complementName toggles the complement marker on a name
func complementName(name string) string {
	if base, ok := seq.IsComplementName(name); ok {
		return base
	}
	return name + seq.ComplementMarker
}

// Result of designing a single strand
type Result struct {
	// ID assigned by a Service, empty from a bare Designer
	ID string `json:"id,omitempty"`

	// Success is false if any domain failed to resolve or the input was invalid
	Success bool `json:"success"`

	// Strand designed, nil on failure
	Strand *Strand `json:"strand,omitempty"`

	// Validation of the full strand, nil on failure
	Validation *validate.Result `json:"validation,omitempty"`

	// GenerationTime is the number of seconds the design took
	GenerationTime float64 `json:"generation_time"`

	// GeneratedAt is when the design finished
	GeneratedAt time.Time `json:"generated_at"`

	// ErrorMessage explains a failed design
	ErrorMessage string `json:"error_message,omitempty"`
}
