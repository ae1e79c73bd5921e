package cdm

import "time"

// Health-system structure tables: where and by whom care was delivered.

type Location struct {
	LocationID      int     `db:"location_id"`
	Address1        *string `db:"address_1"`
	Address2        *string `db:"address_2"`
	City            *string `db:"city"`
	State           *string `db:"state"`
	Zip             *string `db:"zip"`
	County          *string `db:"county"`
	LocationSourceValue *string `db:"location_source_value"`
}

type CareSite struct {
	CareSiteID              int     `db:"care_site_id"`
	CareSiteName            *string `db:"care_site_name"`
	PlaceOfServiceConceptID *int    `db:"place_of_service_concept_id"`
	LocationID              *int    `db:"location_id"`
	CareSiteSourceValue     *string `db:"care_site_source_value"`
	PlaceOfServiceSourceValue *string `db:"place_of_service_source_value"`
}

type Provider struct {
	ProviderID               int     `db:"provider_id"`
	ProviderName             *string `db:"provider_name"`
	NPI                      *string `db:"npi"`
	DEA                      *string `db:"dea"`
	SpecialtyConceptID       *int    `db:"specialty_concept_id"`
	CareSiteID               *int    `db:"care_site_id"`
	YearOfBirth              *int    `db:"year_of_birth"`
	GenderConceptID          *int    `db:"gender_concept_id"`
	ProviderSourceValue      *string `db:"provider_source_value"`
	SpecialtySourceValue     *string `db:"specialty_source_value"`
	SpecialtySourceConceptID *int    `db:"specialty_source_concept_id"`
	GenderSourceValue        *string `db:"gender_source_value"`
	GenderSourceConceptID    *int    `db:"gender_source_concept_id"`
}

// VisitOccurrence is one span of interaction between a person and the
// health system.
type VisitOccurrence struct {
	VisitOccurrenceID         int        `db:"visit_occurrence_id"`
	PersonID                  int        `db:"person_id"`
	VisitConceptID            int        `db:"visit_concept_id"`
	VisitStartDate            time.Time  `db:"visit_start_date"`
	VisitStartDatetime        *time.Time `db:"visit_start_datetime"`
	VisitEndDate              time.Time  `db:"visit_end_date"`
	VisitEndDatetime          *time.Time `db:"visit_end_datetime"`
	VisitTypeConceptID        int        `db:"visit_type_concept_id"`
	ProviderID                *int       `db:"provider_id"`
	CareSiteID                *int       `db:"care_site_id"`
	VisitSourceValue          *string    `db:"visit_source_value"`
	VisitSourceConceptID      *int       `db:"visit_source_concept_id"`
	AdmittedFromConceptID     *int       `db:"admitted_from_concept_id"`
	AdmittedFromSourceValue   *string    `db:"admitted_from_source_value"`
	DischargedToConceptID     *int       `db:"discharged_to_concept_id"`
	DischargedToSourceValue   *string    `db:"discharged_to_source_value"`
	PrecedingVisitOccurrenceID *int      `db:"preceding_visit_occurrence_id"`
}

var LocationTable = register(Table{
	Name: "location",
	Kind: KindHealthSystem,
	Columns: []Column{
		{Name: "location_id", Type: "integer", Primary: true},
		{Name: "address_1", Type: "varchar(50)", Nullable: true},
		{Name: "address_2", Type: "varchar(50)", Nullable: true},
		{Name: "city", Type: "varchar(50)", Nullable: true},
		{Name: "state", Type: "varchar(2)", Nullable: true},
		{Name: "zip", Type: "varchar(9)", Nullable: true},
		{Name: "county", Type: "varchar(20)", Nullable: true},
		sourceValueColumn("location_source_value"),
	},
})

var CareSiteTable = register(Table{
	Name: "care_site",
	Kind: KindHealthSystem,
	Columns: []Column{
		{Name: "care_site_id", Type: "integer", Primary: true},
		{Name: "care_site_name", Type: "varchar(255)", Nullable: true},
		OptionalConceptFK("place_of_service_concept_id"),
		FK("location_id", "location", "location_id", true),
		sourceValueColumn("care_site_source_value"),
		sourceValueColumn("place_of_service_source_value"),
	},
	ExpectedDomains: map[string]ExpectedDomain{
		"place_of_service_concept_id": Expect("Place of Service"),
	},
})

var ProviderTable = register(Table{
	Name: "provider",
	Kind: KindHealthSystem,
	Columns: []Column{
		{Name: "provider_id", Type: "integer", Primary: true},
		{Name: "provider_name", Type: "varchar(255)", Nullable: true},
		{Name: "npi", Type: "varchar(20)", Nullable: true},
		{Name: "dea", Type: "varchar(20)", Nullable: true},
		OptionalConceptFK("specialty_concept_id"),
		FK("care_site_id", "care_site", "care_site_id", true),
		{Name: "year_of_birth", Type: "integer", Nullable: true},
		OptionalConceptFK("gender_concept_id"),
		sourceValueColumn("provider_source_value"),
		sourceValueColumn("specialty_source_value"),
		OptionalConceptFK("specialty_source_concept_id"),
		sourceValueColumn("gender_source_value"),
		OptionalConceptFK("gender_source_concept_id"),
	},
	ExpectedDomains: map[string]ExpectedDomain{
		"specialty_concept_id": Expect("Provider"),
		"gender_concept_id":    Expect("Gender"),
	},
})

var VisitOccurrenceTable = register(Table{
	Name: "visit_occurrence",
	Kind: KindClinical,
	Columns: []Column{
		{Name: "visit_occurrence_id", Type: "integer", Primary: true},
		FK("person_id", "person", "person_id", false),
		RequiredConceptFK("visit_concept_id"),
		{Name: "visit_start_date", Type: "date"},
		{Name: "visit_start_datetime", Type: "timestamp", Nullable: true},
		{Name: "visit_end_date", Type: "date"},
		{Name: "visit_end_datetime", Type: "timestamp", Nullable: true},
		RequiredConceptFK("visit_type_concept_id"),
		FK("provider_id", "provider", "provider_id", true),
		FK("care_site_id", "care_site", "care_site_id", true),
		sourceValueColumn("visit_source_value"),
		OptionalConceptFK("visit_source_concept_id"),
		OptionalConceptFK("admitted_from_concept_id"),
		sourceValueColumn("admitted_from_source_value"),
		OptionalConceptFK("discharged_to_concept_id"),
		sourceValueColumn("discharged_to_source_value"),
		FK("preceding_visit_occurrence_id", "visit_occurrence", "visit_occurrence_id", true),
	},
	ExpectedDomains: map[string]ExpectedDomain{
		"visit_concept_id":         Expect("Visit"),
		"visit_type_concept_id":    Expect("Type Concept"),
		"admitted_from_concept_id": Expect("Visit"),
		"discharged_to_concept_id": Expect("Visit"),
	},
})
