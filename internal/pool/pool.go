// Package pool is the repository of curated domain sequences. A Pool is
// bucketed by length and immutable once built, so it can be read from many
// goroutines. A Sampler binds a Pool to a random source and is used by a
// single goroutine to draw sequences.
package pool

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jjtimmons/oligo/internal/seq"
)

var (
	// ErrNoSequence is returned when no sequence can be drawn or built
	ErrNoSequence = errors.New("no sequence available")

	// ErrInvalidLength is returned for a requested length <= 0
	ErrInvalidLength = errors.New("invalid sequence length")
)

// Pool is a set of curated sequences bucketed by length
type Pool struct {
	byLength map[int][]string
	lengths  []int // sorted ascending
	size     int
}

// New builds a pool from a list of sequences. Sequences are upper-cased and
// de-duplicated. An error is returned for the first invalid sequence.
func New(seqs []string) (*Pool, error) {
	p := &Pool{byLength: make(map[int][]string)}
	seen := make(map[string]bool)

	for i, s := range seqs {
		norm, err := seq.Normalize(s)
		if err != nil {
			return nil, fmt.Errorf("pool sequence %d: %w", i+1, err)
		}
		if norm == "" || seen[norm] {
			continue
		}
		seen[norm] = true
		p.byLength[len(norm)] = append(p.byLength[len(norm)], norm)
		p.size++
	}

	for l := range p.byLength {
		p.lengths = append(p.lengths, l)
	}
	sort.Ints(p.lengths)

	return p, nil
}

// Merge returns a new pool with the sequences of every pool passed
func Merge(pools ...*Pool) *Pool {
	var all []string
	for _, p := range pools {
		if p == nil {
			continue
		}
		for _, l := range p.lengths {
			all = append(all, p.byLength[l]...)
		}
	}

	merged, _ := New(all) // already validated
	return merged
}

// Len is the number of sequences in the pool
func (p *Pool) Len() int {
	return p.size
}

// Lengths are the distinct sequence lengths in the pool, ascending
func (p *Pool) Lengths() []int {
	return append([]int(nil), p.lengths...)
}

// Sequences returns a copy of the sequences with the given length
func (p *Pool) Sequences(length int) []string {
	return append([]string(nil), p.byLength[length]...)
}

// Contains returns whether the pool holds s
func (p *Pool) Contains(s string) bool {
	s = strings.ToUpper(s)
	for _, c := range p.byLength[len(s)] {
		if c == s {
			return true
		}
	}
	return false
}

// defaultSequences are curated sequences of common domain lengths
var defaultSequences = []string{
	"ATCGATCGAT", "GCTAGCTAGT", "TACGTACGTA", "CGATCGATCG",
	"AGTCAGTCAG", "TCGATCGATC", "GTACGTACGT", "CATGCATGCA",

	"ATCGATCGATCGATC", "GCTAGCTAGCTAGCT", "TACGTACGTACGTAC",
	"CGATCGATCGATCGA", "AGTCAGTCAGTCAGT", "TCGATCGATCGATCG",

	"ATCGATCGATCGATCGATCG", "GCTAGCTAGCTAGCTAGCTA",
	"TACGTACGTACGTACGTACG", "CGATCGATCGATCGATCGAT",
	"AGTCAGTCAGTCAGTCAGTC", "TCGATCGATCGATCGATCGA",

	"ATCGATCGATCGATCGATCGATCGA", "GCTAGCTAGCTAGCTAGCTAGCTAG",
	"TACGTACGTACGTACGTACGTACGT", "CGATCGATCGATCGATCGATCGATC",
}

// Default returns the built-in curated pool
func Default() *Pool {
	p, _ := New(defaultSequences)
	return p
}
