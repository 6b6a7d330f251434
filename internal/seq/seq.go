// Package seq is for DNA sequence primitives shared by the rest of oligo:
// alphabet checks, complements, and compositional measures.
package seq

import (
	"errors"
	"fmt"
	"strings"

	"gonum.org/v1/gonum/stat"
)

// ErrInvalidBase is returned when a sequence has a character outside of {A,T,G,C}
var ErrInvalidBase = errors.New("invalid base")

// ComplementMarker is the suffix on a domain name that marks it as the
// reverse complement of the domain with the same name, ex: "b*" pairs with "b"
const ComplementMarker = "*"

// Alphabet of bases usable in a designed sequence
var Alphabet = []byte{'A', 'T', 'G', 'C'}

// Normalize trims and upper-cases a sequence and checks its alphabet
func Normalize(s string) (string, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if err := Check(s); err != nil {
		return "", err
	}
	return s, nil
}

// Check returns an error if the (already upper-cased) sequence has a non-ACGT base
func Check(s string) error {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case 'A', 'T', 'G', 'C':
		default:
			return fmt.Errorf("%w %q at position %d", ErrInvalidBase, s[i], i)
		}
	}
	return nil
}

// Complementary returns whether two bases form a Watson-Crick pair
func Complementary(a, b byte) bool {
	switch a {
	case 'A':
		return b == 'T'
	case 'T':
		return b == 'A'
	case 'G':
		return b == 'C'
	case 'C':
		return b == 'G'
	default:
		return false
	}
}

func complement(b byte) byte {
	switch b {
	case 'A':
		return 'T'
	case 'T':
		return 'A'
	case 'G':
		return 'C'
	case 'C':
		return 'G'
	default:
		return 'N'
	}
}

// Complement returns the base-wise complement of a sequence (not reversed)
func Complement(s string) string {
	out := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		out[i] = complement(s[i])
	}
	return string(out)
}

// ReverseComplement returns the Watson-Crick complement of s, reversed, so
// that it reads 5' to 3'
func ReverseComplement(s string) string {
	n := len(s)
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		out[n-1-i] = complement(s[i])
	}
	return string(out)
}

// IsPalindromic returns whether a sequence is its own reverse complement
func IsPalindromic(s string) bool {
	return s != "" && s == ReverseComplement(s)
}

// GCCount is the number of G and C bases in s
func GCCount(s string) int {
	return strings.Count(s, "G") + strings.Count(s, "C")
}

// GC returns the percentage of G and C bases in s, 0 for an empty sequence
func GC(s string) float64 {
	if len(s) == 0 {
		return 0
	}
	return float64(GCCount(s)) / float64(len(s)) * 100
}

// AT returns the percentage of A and T bases in s, 0 for an empty sequence
func AT(s string) float64 {
	if len(s) == 0 {
		return 0
	}
	at := strings.Count(s, "A") + strings.Count(s, "T")
	return float64(at) / float64(len(s)) * 100
}

// ThreePrime returns the last n bases of s (all of s if it's shorter)
func ThreePrime(s string, n int) string {
	if n <= 0 || n >= len(s) {
		return s
	}
	return s[len(s)-n:]
}

// MaxHomopolymerRun is the length of the longest run of a single base
func MaxHomopolymerRun(s string) int {
	longest, run := 0, 0
	for i := 0; i < len(s); i++ {
		if i > 0 && s[i] == s[i-1] {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}

// MaxDinucleotideRepeats is the largest number of back-to-back copies of
// any dinucleotide made of two different bases, ex: "ATATAT" is 3
func MaxDinucleotideRepeats(s string) (repeats int, dinucleotide string) {
	for i := 0; i+1 < len(s); i++ {
		if s[i] == s[i+1] {
			continue
		}
		count := 1
		for j := i + 2; j+1 < len(s) && s[j] == s[i] && s[j+1] == s[i+1]; j += 2 {
			count++
		}
		if count > repeats {
			repeats = count
			dinucleotide = s[i : i+2]
		}
	}
	return
}

// Complexity is the Shannon entropy of the base composition normalized to
// [0, 1]; 1 when all four bases are equally frequent
func Complexity(s string) float64 {
	if len(s) == 0 {
		return 0
	}

	freqs := make([]float64, len(Alphabet))
	for i, b := range Alphabet {
		freqs[i] = float64(strings.Count(s, string(b))) / float64(len(s))
	}

	// stat.Entropy is in nats, the maximum for four symbols is ln(4)
	return stat.Entropy(freqs) / stat.Entropy([]float64{0.25, 0.25, 0.25, 0.25})
}

// IsComplementName returns the name of the paired forward domain if name
// carries the complement marker
func IsComplementName(name string) (base string, ok bool) {
	if strings.HasSuffix(name, ComplementMarker) && len(name) > len(ComplementMarker) {
		return strings.TrimSuffix(name, ComplementMarker), true
	}
	return name, false
}

// BaseName strips the complement marker, if any, from a domain name
func BaseName(name string) string {
	base, _ := IsComplementName(name)
	return base
}
