package cdm

import "time"

// Vocabulary (reference) tables. These are shared, read-only data shipped by
// OHDSI vocabulary releases; this module only declares their shape.

// Concept is a standardized clinical term. Concept id 0 conventionally means
// "unknown/unmapped" and is a valid target for every concept FK.
type Concept struct {
	ConceptID       int        `db:"concept_id"`
	ConceptName     string     `db:"concept_name"`
	DomainID        string     `db:"domain_id"`
	VocabularyID    string     `db:"vocabulary_id"`
	ConceptClassID  string     `db:"concept_class_id"`
	StandardConcept *string    `db:"standard_concept"` // "S", "C" or NULL
	ConceptCode     string     `db:"concept_code"`
	ValidStartDate  time.Time  `db:"valid_start_date"`
	ValidEndDate    time.Time  `db:"valid_end_date"`
	InvalidReason   *string    `db:"invalid_reason"`
}

// IsStandard reports whether the concept is a standard concept ("S").
func (c Concept) IsStandard() bool {
	return c.StandardConcept != nil && *c.StandardConcept == "S"
}

// ConceptRow is the flat projection the vocabulary lookup subsystem works
// with. It deliberately drops the validity window: lookups index whatever
// the filter returned.
type ConceptRow struct {
	ConceptID       int
	ConceptName     string
	ConceptCode     string
	DomainID        string
	ConceptClassID  string
	VocabularyID    string
	StandardConcept string
}

type ConceptSynonym struct {
	ConceptID          int    `db:"concept_id"`
	ConceptSynonymName string `db:"concept_synonym_name"`
	LanguageConceptID  int    `db:"language_concept_id"`
}

type ConceptRelationship struct {
	ConceptID1     int       `db:"concept_id_1"`
	ConceptID2     int       `db:"concept_id_2"`
	RelationshipID string    `db:"relationship_id"`
	ValidStartDate time.Time `db:"valid_start_date"`
	ValidEndDate   time.Time `db:"valid_end_date"`
	InvalidReason  *string   `db:"invalid_reason"`
}

type ConceptAncestor struct {
	AncestorConceptID      int `db:"ancestor_concept_id"`
	DescendantConceptID    int `db:"descendant_concept_id"`
	MinLevelsOfSeparation  int `db:"min_levels_of_separation"`
	MaxLevelsOfSeparation  int `db:"max_levels_of_separation"`
}

type Vocabulary struct {
	VocabularyID        string  `db:"vocabulary_id"`
	VocabularyName      string  `db:"vocabulary_name"`
	VocabularyReference *string `db:"vocabulary_reference"`
	VocabularyVersion   *string `db:"vocabulary_version"`
	VocabularyConceptID int     `db:"vocabulary_concept_id"`
}

type Domain struct {
	DomainID        string `db:"domain_id"`
	DomainName      string `db:"domain_name"`
	DomainConceptID int    `db:"domain_concept_id"`
}

type ConceptClass struct {
	ConceptClassID        string `db:"concept_class_id"`
	ConceptClassName      string `db:"concept_class_name"`
	ConceptClassConceptID int    `db:"concept_class_concept_id"`
}

// DrugStrength links drug products to their ingredients and quantitative
// composition.
type DrugStrength struct {
	DrugConceptID            int       `db:"drug_concept_id"`
	IngredientConceptID      int       `db:"ingredient_concept_id"`
	AmountValue              *float64  `db:"amount_value"`
	AmountUnitConceptID      *int      `db:"amount_unit_concept_id"`
	NumeratorValue           *float64  `db:"numerator_value"`
	NumeratorUnitConceptID   *int      `db:"numerator_unit_concept_id"`
	DenominatorValue         *float64  `db:"denominator_value"`
	DenominatorUnitConceptID *int      `db:"denominator_unit_concept_id"`
	BoxSize                  *int      `db:"box_size"`
	ValidStartDate           time.Time `db:"valid_start_date"`
	ValidEndDate             time.Time `db:"valid_end_date"`
	InvalidReason            *string   `db:"invalid_reason"`
}

var ConceptTable = register(Table{
	Name: "concept",
	Kind: KindReference,
	Columns: append([]Column{
		{Name: "concept_id", Type: "integer", Primary: true},
		{Name: "concept_name", Type: "varchar(255)"},
		FK("domain_id", "domain", "domain_id", false),
		FK("vocabulary_id", "vocabulary", "vocabulary_id", false),
		FK("concept_class_id", "concept_class", "concept_class_id", false),
		{Name: "standard_concept", Type: "varchar(1)", Nullable: true},
		{Name: "concept_code", Type: "varchar(50)", Indexed: true},
	}, datedValidityColumns()...),
})

var ConceptSynonymTable = register(Table{
	Name: "concept_synonym",
	Kind: KindReference,
	Columns: []Column{
		RequiredConceptFK("concept_id"),
		{Name: "concept_synonym_name", Type: "varchar(1000)"},
		RequiredConceptFK("language_concept_id"),
	},
})

var ConceptRelationshipTable = register(Table{
	Name: "concept_relationship",
	Kind: KindReference,
	Columns: append([]Column{
		RequiredConceptFK("concept_id_1"),
		RequiredConceptFK("concept_id_2"),
		{Name: "relationship_id", Type: "varchar(20)", Indexed: true},
	}, datedValidityColumns()...),
})

var ConceptAncestorTable = register(Table{
	Name: "concept_ancestor",
	Kind: KindReference,
	Columns: []Column{
		RequiredConceptFK("ancestor_concept_id"),
		RequiredConceptFK("descendant_concept_id"),
		{Name: "min_levels_of_separation", Type: "integer"},
		{Name: "max_levels_of_separation", Type: "integer"},
	},
})

var VocabularyTable = register(Table{
	Name: "vocabulary",
	Kind: KindReference,
	Columns: []Column{
		{Name: "vocabulary_id", Type: "varchar(20)", Primary: true},
		{Name: "vocabulary_name", Type: "varchar(255)"},
		{Name: "vocabulary_reference", Type: "varchar(255)", Nullable: true},
		{Name: "vocabulary_version", Type: "varchar(255)", Nullable: true},
		RequiredConceptFK("vocabulary_concept_id"),
	},
})

var DomainTable = register(Table{
	Name: "domain",
	Kind: KindReference,
	Columns: []Column{
		{Name: "domain_id", Type: "varchar(20)", Primary: true},
		{Name: "domain_name", Type: "varchar(255)"},
		RequiredConceptFK("domain_concept_id"),
	},
})

var ConceptClassTable = register(Table{
	Name: "concept_class",
	Kind: KindReference,
	Columns: []Column{
		{Name: "concept_class_id", Type: "varchar(20)", Primary: true},
		{Name: "concept_class_name", Type: "varchar(255)"},
		RequiredConceptFK("concept_class_concept_id"),
	},
})

var DrugStrengthTable = register(Table{
	Name: "drug_strength",
	Kind: KindReference,
	Columns: append([]Column{
		{Name: "drug_concept_id", Type: "integer", Primary: true, RefTable: "concept", RefColumn: "concept_id"},
		{Name: "ingredient_concept_id", Type: "integer", Primary: true, RefTable: "concept", RefColumn: "concept_id"},
		{Name: "amount_value", Type: "numeric", Nullable: true},
		OptionalConceptFK("amount_unit_concept_id"),
		{Name: "numerator_value", Type: "numeric", Nullable: true},
		OptionalConceptFK("numerator_unit_concept_id"),
		{Name: "denominator_value", Type: "numeric", Nullable: true},
		OptionalConceptFK("denominator_unit_concept_id"),
		{Name: "box_size", Type: "integer", Nullable: true},
	}, datedValidityColumns()...),
	ExpectedDomains: map[string]ExpectedDomain{
		"drug_concept_id":            Expect("Drug"),
		"ingredient_concept_id":      Expect("Drug"),
		"amount_unit_concept_id":     Expect("Unit"),
		"numerator_unit_concept_id":  Expect("Unit"),
		"denominator_unit_concept_id": Expect("Unit"),
	},
})
