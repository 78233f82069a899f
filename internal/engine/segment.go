package engine

import (
	"errors"
	"sync"

	"ascentra/internal/model"
)

// ErrSegmentExists is returned when defining a segment whose name is taken
// and replace was not requested. Redefinition is never implicit.
var ErrSegmentExists = errors.New("segment already defined")

// SegmentStore is the session-scoped segment registry and compiler. Specs are
// immutable once stored, so the segment name is a sufficient cache key for
// the compiled mask. The cache is the only shared mutable state in the
// engine: the mutex serialises check-compute-insert so each definition is
// compiled at most once regardless of request concurrency.
type SegmentStore struct {
	cat *Catalog
	ds  *model.Dataset

	mu    sync.Mutex
	specs map[string]model.SegmentSpec
	order []string
	masks map[string]Mask
}

// NewSegmentStore creates an empty registry bound to one session's catalog
// and dataset.
func NewSegmentStore(cat *Catalog, ds *model.Dataset) *SegmentStore {
	return &SegmentStore{
		cat:   cat,
		ds:    ds,
		specs: make(map[string]model.SegmentSpec),
		masks: make(map[string]Mask),
	}
}

// Define validates and stores a segment. The spec is stored only when the
// definition passes with zero errors; nothing invalid is ever registered,
// cached or compiled.
func (s *SegmentStore) Define(spec model.SegmentSpec, replace bool) ([]model.ValidationError, error) {
	if spec.Name == "" {
		return nil, model.Internalf("segment with empty name")
	}
	if errs := ValidatePredicate(spec.Definition.Pred, s.cat); len(errs) > 0 {
		return errs, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.specs[spec.Name]; taken {
		if !replace {
			return nil, ErrSegmentExists
		}
		delete(s.masks, spec.Name) // stale mask must not outlive the old definition
	} else {
		s.order = append(s.order, spec.Name)
	}
	s.specs[spec.Name] = spec
	return nil, nil
}

// Get returns a stored segment spec.
func (s *SegmentStore) Get(name string) (model.SegmentSpec, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	spec, ok := s.specs[name]
	return spec, ok
}

// Has reports whether a segment name is defined.
func (s *SegmentStore) Has(name string) bool {
	_, ok := s.Get(name)
	return ok
}

// Names returns the segment names in definition order.
func (s *SegmentStore) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Compile returns the segment's mask, computing it at most once per name.
// Repeated calls return the identical cached mask.
func (s *SegmentStore) Compile(name string) (Mask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if mask, ok := s.masks[name]; ok {
		return mask, nil
	}
	spec, ok := s.specs[name]
	if !ok {
		return nil, model.Internalf("segment %q is not defined", name)
	}
	mask, err := EvaluatePredicate(spec.Definition.Pred, s.ds)
	if err != nil {
		return nil, err
	}
	s.masks[name] = mask
	return mask, nil
}

// Complement returns the exact logical negation of the segment's mask: every
// row belongs to exactly one of {segment, complement}.
func (s *SegmentStore) Complement(name string) (Mask, error) {
	mask, err := s.Compile(name)
	if err != nil {
		return nil, err
	}
	return mask.Not(), nil
}
