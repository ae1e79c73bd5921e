package vocab

import (
	"context"
	"fmt"

	"omop-data/internal/repository"

	"github.com/go-playground/validator/v10"
)

// Index field names a LookupSpec may request.
const (
	IncludeConceptName = "concept_name"
	IncludeConceptCode = "concept_code"
)

// LookupSpec is the declarative definition of a vocabulary lookup: which
// concepts to include and which textual representations become resolvable
// keys. Specs encode semantic intent; the LookupIndex built from one encodes
// runtime state. Specs are stable configuration objects meant to be reviewed
// alongside ETL and phenotype definitions.
type LookupSpec struct {
	Name string `yaml:"name" validate:"required"`
	// Unknown is the concept id returned for unmatched terms. 0 is the
	// CDM convention for unknown/unmapped.
	Unknown int `yaml:"unknown"`

	DomainID        string   `yaml:"domain_id"`
	ConceptClassIDs []string `yaml:"concept_class_ids"`
	VocabularyIDs   []string `yaml:"vocabulary_ids"`
	StandardOnly    bool     `yaml:"standard_only"`
	// CodeFilter is a case-insensitive substring scoping on concept_code.
	CodeFilter string `yaml:"code_filter"`
	// Parents expands the lookup from ancestor concept ids through
	// concept_ancestor.
	Parents                       []int `yaml:"parents"`
	IncludeNonStandardDescendants bool  `yaml:"include_non_standard_descendants"`
	IncludeSynonyms               bool  `yaml:"include_synonyms"`

	// Include lists the ConceptRow fields indexed as keys.
	Include []string `yaml:"include" validate:"omitempty,dive,oneof=concept_name concept_code"`

	// Normalizer is applied to every indexed string at build time. Set in
	// code; YAML overlays name normalizers instead.
	Normalizer Normalizer `yaml:"-"`
	// NormalizerNames composes named normalizers for YAML-defined specs.
	NormalizerNames []string `yaml:"normalizers"`
}

var specValidate = validator.New()

// Validate checks the spec's structural constraints.
func (s LookupSpec) Validate() error {
	if err := specValidate.Struct(s); err != nil {
		return fmt.Errorf("lookup spec %q: %w", s.Name, err)
	}
	return nil
}

// normalizer resolves the effective build-time normalizer.
func (s LookupSpec) normalizer() Normalizer {
	if s.Normalizer != nil {
		return s.Normalizer
	}
	if len(s.NormalizerNames) > 0 {
		fns := make([]Normalizer, 0, len(s.NormalizerNames))
		for _, name := range s.NormalizerNames {
			n, _ := NormalizerByName(name)
			fns = append(fns, n)
		}
		return ComposeNormalizers(fns...)
	}
	return NormalizeDefault
}

// includeFields resolves the indexed fields, defaulting to name + code.
func (s LookupSpec) includeFields() []string {
	if len(s.Include) == 0 {
		return []string{IncludeConceptName, IncludeConceptCode}
	}
	return s.Include
}

// filter translates the spec into a repository concept filter.
func (s LookupSpec) filter() repository.ConceptFilter {
	return repository.ConceptFilter{
		DomainID:                      s.DomainID,
		ConceptClassIDs:               s.ConceptClassIDs,
		VocabularyIDs:                 s.VocabularyIDs,
		StandardOnly:                  s.StandardOnly,
		CodeFilter:                    s.CodeFilter,
		Parents:                       s.Parents,
		IncludeNonStandardDescendants: s.IncludeNonStandardDescendants,
	}
}

// LookupIndex is the materialised artifact of a LookupSpec: a flat map from
// normalised text keys to concept ids. Multiple keys may point at the same
// concept (name + code + synonyms). Serializable so registries can share
// built indexes through a KV store.
type LookupIndex struct {
	Name    string         `json:"name"`
	Unknown int            `json:"unknown"`
	Mapping map[string]int `json:"mapping"`
}

// Lookup returns the concept id for an already-normalised term, or Unknown.
func (ix *LookupIndex) Lookup(term string) int {
	if id, ok := ix.Mapping[term]; ok {
		return id
	}
	return ix.Unknown
}

// ContainsTerm reports whether the normalised term is indexed.
func (ix *LookupIndex) ContainsTerm(term string) bool {
	_, ok := ix.Mapping[term]
	return ok
}

// ContainsConcept reports whether any key resolves to the concept id.
func (ix *LookupIndex) ContainsConcept(conceptID int) bool {
	for _, id := range ix.Mapping {
		if id == conceptID {
			return true
		}
	}
	return false
}

// AllConcepts returns the distinct concept ids in the index.
func (ix *LookupIndex) AllConcepts() map[int]bool {
	out := make(map[int]bool, len(ix.Mapping))
	for _, id := range ix.Mapping {
		out[id] = true
	}
	return out
}

// BuildIndex materialises a spec against a concept source. Synonyms are only
// merged for concepts that survived the spec's own filter.
func BuildIndex(ctx context.Context, source repository.ConceptSource, spec LookupSpec) (*LookupIndex, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	rows, err := source.FetchConcepts(ctx, spec.filter())
	if err != nil {
		return nil, fmt.Errorf("build lookup %q: %w", spec.Name, err)
	}

	norm := spec.normalizer()
	fields := spec.includeFields()
	indexName := false
	indexCode := false
	for _, f := range fields {
		switch f {
		case IncludeConceptName:
			indexName = true
		case IncludeConceptCode:
			indexCode = true
		}
	}

	ids := make(map[int]bool, len(rows))
	mapping := make(map[string]int, len(rows)*len(fields))
	for _, r := range rows {
		ids[r.ConceptID] = true
		if indexName && r.ConceptName != "" {
			mapping[norm(r.ConceptName)] = r.ConceptID
		}
		if indexCode && r.ConceptCode != "" {
			mapping[norm(r.ConceptCode)] = r.ConceptID
		}
	}

	if spec.IncludeSynonyms {
		syns, err := source.FetchSynonyms(ctx)
		if err != nil {
			return nil, fmt.Errorf("build lookup %q synonyms: %w", spec.Name, err)
		}
		for _, s := range syns {
			if ids[s.ConceptID] && s.Name != "" {
				mapping[norm(s.Name)] = s.ConceptID
			}
		}
	}

	return &LookupIndex{Name: spec.Name, Unknown: spec.Unknown, Mapping: mapping}, nil
}
