package vocab

// ConceptResolver maps free-text terms to concept ids over a pre-built
// LookupIndex. Resolution is deterministic: normalise and look up, then try
// each correction in order; no fuzzy matching, no scoring. Corrections are
// conservative rewrites for known data-quality quirks (legacy codes,
// formatting drift), applied to the raw term before re-normalisation.
type ConceptResolver struct {
	index       *LookupIndex
	normalizer  Normalizer
	corrections []Normalizer
}

// NewConceptResolver wraps an index. normalizer defaults to
// NormalizeDefault and should be compatible with the one used at build time.
func NewConceptResolver(index *LookupIndex, normalizer Normalizer, corrections ...Normalizer) *ConceptResolver {
	if normalizer == nil {
		normalizer = NormalizeDefault
	}
	return &ConceptResolver{
		index:       index,
		normalizer:  normalizer,
		corrections: corrections,
	}
}

// Lookup resolves a term, trying the direct form first and then each
// correction pass. Unmatched terms return the index's unknown concept id.
func (r *ConceptResolver) Lookup(term string) int {
	id, _ := r.LookupOK(term)
	return id
}

// LookupOK resolves a term and reports whether it actually matched, letting
// callers distinguish "mapped to unknown" from "unmatched".
func (r *ConceptResolver) LookupOK(term string) (int, bool) {
	if term == "" {
		return r.index.Unknown, false
	}

	if id, ok := r.index.Mapping[r.normalizer(term)]; ok {
		return id, true
	}
	for _, corr := range r.corrections {
		if id, ok := r.index.Mapping[r.normalizer(corr(term))]; ok {
			return id, true
		}
	}
	return r.index.Unknown, false
}

// LookupExact bypasses correction passes: one normalised lookup. Useful for
// validation and debugging.
func (r *ConceptResolver) LookupExact(term string) int {
	if term == "" {
		return r.index.Unknown
	}
	if id, ok := r.index.Mapping[r.normalizer(term)]; ok {
		return id
	}
	return r.index.Unknown
}

// ContainsTerm reports whether the term resolves to something other than
// unknown.
func (r *ConceptResolver) ContainsTerm(term string) bool {
	_, ok := r.LookupOK(term)
	return ok
}

// ContainsConcept reports whether the concept id is reachable at all.
func (r *ConceptResolver) ContainsConcept(conceptID int) bool {
	return r.index.ContainsConcept(conceptID)
}

// AllConcepts returns the distinct concept ids reachable through the
// resolver.
func (r *ConceptResolver) AllConcepts() map[int]bool {
	return r.index.AllConcepts()
}

// Index exposes the underlying index, e.g. for cache persistence.
func (r *ConceptResolver) Index() *LookupIndex {
	return r.index
}
