package design

import (
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jjtimmons/oligo/internal/seq"
	"github.com/jjtimmons/oligo/internal/thermo"
	"github.com/jjtimmons/oligo/internal/validate"
)

// Service designs strands and remembers them. Domains resolved in one design
// are reused by complement domains of later designs. It's safe for
// concurrent use.
type Service struct {
	designer *Designer
	log      *zap.Logger

	mu      sync.RWMutex
	domains map[string]string // base domain name to forward sequence
	strands map[string]Result // ID to successful result
	order   []string          // IDs in the order they were stored
}

// NewService returns a Service around a designer
func NewService(d *Designer, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		designer: d,
		log:      log,
		domains:  make(map[string]string),
		strands:  make(map[string]Result),
	}
}

// Design designs a strand, assigns it an ID, and stores it on success
func (s *Service) Design(name string, specs []DomainSpec, cond thermo.Conditions, settings validate.Settings) Result {
	s.mu.RLock()
	known := make(map[string]string, len(s.domains))
	for k, v := range s.domains {
		known[k] = v
	}
	s.mu.RUnlock()

	res, resolved := s.designer.design(name, specs, cond, settings, known)
	res.ID = uuid.NewString()
	if !res.Success {
		return res
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for base, fwd := range resolved {
		s.domains[base] = fwd
	}
	s.strands[res.ID] = res
	s.order = append(s.order, res.ID)

	s.log.Debug("stored strand", zap.String("id", res.ID), zap.String("strand", name))
	return res
}

// Strand returns a stored design by ID
func (s *Service) Strand(id string) (Result, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res, ok := s.strands[id]
	return res, ok
}

// Strands returns every stored design in the order they were made
func (s *Service) Strands() []Result {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Result, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.strands[id])
	}
	return out
}

// Domain returns the sequence of a resolved domain. Complement names,
// ex: "b*", return the reverse complement of "b".
func (s *Service) Domain(name string) (string, bool) {
	base, comp := seq.IsComplementName(name)

	s.mu.RLock()
	fwd, ok := s.domains[base]
	s.mu.RUnlock()

	if !ok {
		return "", false
	}
	if comp {
		return seq.ReverseComplement(fwd), true
	}
	return fwd, true
}

// Domains returns the names of every resolved base domain, sorted
func (s *Service) Domains() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.domains))
	for name := range s.domains {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
