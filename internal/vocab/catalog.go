package vocab

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Catalog is the set of known lookup specs, keyed by name.
type Catalog map[string]LookupSpec

// BuiltinCatalog returns the lookups shipped with the module. Site-specific
// additions and overrides come from a YAML overlay (see LoadOverlay).
func BuiltinCatalog() Catalog {
	specs := []LookupSpec{
		{Name: "gender", DomainID: "Gender", StandardOnly: true},
		{Name: "unit", DomainID: "Unit", StandardOnly: true},
		{Name: "race", DomainID: "Race", StandardOnly: true},
		{Name: "ethnicity", DomainID: "Ethnicity", StandardOnly: true},
		{
			Name:            "grading",
			DomainID:        "Measurement",
			ConceptClassIDs: []string{"Staging/Grading"},
			CodeFilter:      "grade",
			StandardOnly:    true,
		},
		{
			Name:            "icdo_condition",
			DomainID:        "Condition",
			ConceptClassIDs: []string{"ICDO Condition"},
			Normalizer:      ComposeNormalizers(NormalizeDefault, SiteToNOS),
		},
		{
			Name:            "icd10_condition",
			DomainID:        "Condition",
			ConceptClassIDs: []string{"ICD10 Hierarchy", "ICD10 code"},
			Normalizer:      ComposeNormalizers(NormalizeDefault, SiteToNOS),
		},
		{
			Name:          "relaxed_condition",
			DomainID:      "Condition",
			VocabularyIDs: []string{"ICD10", "ICD10CM", "ICD9CM"},
		},
	}

	cat := make(Catalog, len(specs))
	for _, s := range specs {
		cat[s.Name] = s
	}
	return cat
}

// overlayFile is the YAML shape of a spec overlay.
type overlayFile struct {
	Specs []LookupSpec `yaml:"specs"`
}

// LoadOverlay reads lookup specs from a YAML file. Overlay specs replace
// builtin specs with the same name.
func LoadOverlay(path string) ([]LookupSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read spec overlay: %w", err)
	}
	var f overlayFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse spec overlay %s: %w", path, err)
	}
	for _, s := range f.Specs {
		if err := s.Validate(); err != nil {
			return nil, err
		}
	}
	return f.Specs, nil
}

// Merge returns a copy of the catalog with the given specs applied on top.
func (c Catalog) Merge(specs []LookupSpec) Catalog {
	out := make(Catalog, len(c)+len(specs))
	for k, v := range c {
		out[k] = v
	}
	for _, s := range specs {
		out[s.Name] = s
	}
	return out
}
