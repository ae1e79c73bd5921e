package cdm

import "time"

// Clinical event tables: person-level facts keyed to vocabulary concepts.

type Person struct {
	PersonID                 int        `db:"person_id"`
	GenderConceptID          int        `db:"gender_concept_id"`
	YearOfBirth              int        `db:"year_of_birth"`
	MonthOfBirth             *int       `db:"month_of_birth"`
	DayOfBirth               *int       `db:"day_of_birth"`
	BirthDatetime            *time.Time `db:"birth_datetime"`
	RaceConceptID            int        `db:"race_concept_id"`
	EthnicityConceptID       int        `db:"ethnicity_concept_id"`
	LocationID               *int       `db:"location_id"`
	ProviderID               *int       `db:"provider_id"`
	CareSiteID               *int       `db:"care_site_id"`
	PersonSourceValue        *string    `db:"person_source_value"`
	GenderSourceValue        *string    `db:"gender_source_value"`
	GenderSourceConceptID    *int       `db:"gender_source_concept_id"`
	RaceSourceValue          *string    `db:"race_source_value"`
	RaceSourceConceptID      *int       `db:"race_source_concept_id"`
	EthnicitySourceValue     *string    `db:"ethnicity_source_value"`
	EthnicitySourceConceptID *int       `db:"ethnicity_source_concept_id"`
}

type ConditionOccurrence struct {
	ConditionOccurrenceID    int        `db:"condition_occurrence_id"`
	PersonID                 int        `db:"person_id"`
	ConditionConceptID       int        `db:"condition_concept_id"`
	ConditionStartDate       time.Time  `db:"condition_start_date"`
	ConditionStartDatetime   *time.Time `db:"condition_start_datetime"`
	ConditionEndDate         *time.Time `db:"condition_end_date"`
	ConditionEndDatetime     *time.Time `db:"condition_end_datetime"`
	ConditionTypeConceptID   int        `db:"condition_type_concept_id"`
	ConditionStatusConceptID *int       `db:"condition_status_concept_id"`
	StopReason               *string    `db:"stop_reason"`
	ProviderID               *int       `db:"provider_id"`
	VisitOccurrenceID        *int       `db:"visit_occurrence_id"`
	ConditionSourceValue     *string    `db:"condition_source_value"`
	ConditionSourceConceptID *int       `db:"condition_source_concept_id"`
	ConditionStatusSourceValue *string  `db:"condition_status_source_value"`
}

type ProcedureOccurrence struct {
	ProcedureOccurrenceID    int        `db:"procedure_occurrence_id"`
	PersonID                 int        `db:"person_id"`
	ProcedureConceptID       int        `db:"procedure_concept_id"`
	ProcedureDate            time.Time  `db:"procedure_date"`
	ProcedureDatetime        *time.Time `db:"procedure_datetime"`
	ProcedureTypeConceptID   int        `db:"procedure_type_concept_id"`
	ModifierConceptID        *int       `db:"modifier_concept_id"`
	Quantity                 *int       `db:"quantity"`
	ProviderID               *int       `db:"provider_id"`
	VisitOccurrenceID        *int       `db:"visit_occurrence_id"`
	ProcedureSourceValue     *string    `db:"procedure_source_value"`
	ProcedureSourceConceptID *int       `db:"procedure_source_concept_id"`
	ModifierSourceValue      *string    `db:"modifier_source_value"`
}

type DrugExposure struct {
	DrugExposureID           int        `db:"drug_exposure_id"`
	PersonID                 int        `db:"person_id"`
	DrugConceptID            int        `db:"drug_concept_id"`
	DrugExposureStartDate    time.Time  `db:"drug_exposure_start_date"`
	DrugExposureStartDatetime *time.Time `db:"drug_exposure_start_datetime"`
	DrugExposureEndDate      time.Time  `db:"drug_exposure_end_date"`
	DrugExposureEndDatetime  *time.Time `db:"drug_exposure_end_datetime"`
	DrugTypeConceptID        int        `db:"drug_type_concept_id"`
	StopReason               *string    `db:"stop_reason"`
	Refills                  *int       `db:"refills"`
	Quantity                 *float64   `db:"quantity"`
	DaysSupply               *int       `db:"days_supply"`
	Sig                      *string    `db:"sig"`
	RouteConceptID           *int       `db:"route_concept_id"`
	ProviderID               *int       `db:"provider_id"`
	VisitOccurrenceID        *int       `db:"visit_occurrence_id"`
	DrugSourceValue          *string    `db:"drug_source_value"`
	DrugSourceConceptID      *int       `db:"drug_source_concept_id"`
	RouteSourceValue         *string    `db:"route_source_value"`
	DoseUnitSourceValue      *string    `db:"dose_unit_source_value"`
}

type Measurement struct {
	MeasurementID            int        `db:"measurement_id"`
	PersonID                 int        `db:"person_id"`
	MeasurementConceptID     int        `db:"measurement_concept_id"`
	MeasurementDate          time.Time  `db:"measurement_date"`
	MeasurementDatetime      *time.Time `db:"measurement_datetime"`
	MeasurementTypeConceptID int        `db:"measurement_type_concept_id"`
	OperatorConceptID        *int       `db:"operator_concept_id"`
	ValueAsNumber            *float64   `db:"value_as_number"`
	ValueAsConceptID         *int       `db:"value_as_concept_id"`
	UnitConceptID            *int       `db:"unit_concept_id"`
	RangeLow                 *float64   `db:"range_low"`
	RangeHigh                *float64   `db:"range_high"`
	ProviderID               *int       `db:"provider_id"`
	VisitOccurrenceID        *int       `db:"visit_occurrence_id"`
	MeasurementSourceValue   *string    `db:"measurement_source_value"`
	MeasurementSourceConceptID *int     `db:"measurement_source_concept_id"`
	UnitSourceValue          *string    `db:"unit_source_value"`
	ValueSourceValue         *string    `db:"value_source_value"`
}

type Observation struct {
	ObservationID            int        `db:"observation_id"`
	PersonID                 int        `db:"person_id"`
	ObservationConceptID     int        `db:"observation_concept_id"`
	ObservationDate          time.Time  `db:"observation_date"`
	ObservationDatetime      *time.Time `db:"observation_datetime"`
	ObservationTypeConceptID int        `db:"observation_type_concept_id"`
	ValueAsNumber            *float64   `db:"value_as_number"`
	ValueAsString            *string    `db:"value_as_string"`
	ValueAsConceptID         *int       `db:"value_as_concept_id"`
	QualifierConceptID       *int       `db:"qualifier_concept_id"`
	UnitConceptID            *int       `db:"unit_concept_id"`
	ProviderID               *int       `db:"provider_id"`
	VisitOccurrenceID        *int       `db:"visit_occurrence_id"`
	ObservationSourceValue   *string    `db:"observation_source_value"`
	ObservationSourceConceptID *int     `db:"observation_source_concept_id"`
	UnitSourceValue          *string    `db:"unit_source_value"`
	QualifierSourceValue     *string    `db:"qualifier_source_value"`
}

type Death struct {
	PersonID            int        `db:"person_id"`
	DeathDate           time.Time  `db:"death_date"`
	DeathDatetime       *time.Time `db:"death_datetime"`
	DeathTypeConceptID  *int       `db:"death_type_concept_id"`
	CauseConceptID      *int       `db:"cause_concept_id"`
	CauseSourceValue    *string    `db:"cause_source_value"`
	CauseSourceConceptID *int      `db:"cause_source_concept_id"`
}

var PersonTable = register(Table{
	Name: "person",
	Kind: KindClinical,
	Columns: []Column{
		{Name: "person_id", Type: "integer", Primary: true},
		RequiredConceptFK("gender_concept_id"),
		{Name: "year_of_birth", Type: "integer"},
		{Name: "month_of_birth", Type: "integer", Nullable: true},
		{Name: "day_of_birth", Type: "integer", Nullable: true},
		{Name: "birth_datetime", Type: "timestamp", Nullable: true},
		RequiredConceptFK("race_concept_id"),
		RequiredConceptFK("ethnicity_concept_id"),
		FK("location_id", "location", "location_id", true),
		FK("provider_id", "provider", "provider_id", true),
		FK("care_site_id", "care_site", "care_site_id", true),
		sourceValueColumn("person_source_value"),
		sourceValueColumn("gender_source_value"),
		OptionalConceptFK("gender_source_concept_id"),
		sourceValueColumn("race_source_value"),
		OptionalConceptFK("race_source_concept_id"),
		sourceValueColumn("ethnicity_source_value"),
		OptionalConceptFK("ethnicity_source_concept_id"),
	},
	ExpectedDomains: map[string]ExpectedDomain{
		"gender_concept_id":    Expect("Gender"),
		"race_concept_id":      Expect("Race"),
		"ethnicity_concept_id": Expect("Ethnicity"),
	},
})

var ConditionOccurrenceTable = register(Table{
	Name: "condition_occurrence",
	Kind: KindClinical,
	Columns: []Column{
		{Name: "condition_occurrence_id", Type: "integer", Primary: true},
		FK("person_id", "person", "person_id", false),
		RequiredConceptFK("condition_concept_id"),
		{Name: "condition_start_date", Type: "date"},
		{Name: "condition_start_datetime", Type: "timestamp", Nullable: true},
		{Name: "condition_end_date", Type: "date", Nullable: true},
		{Name: "condition_end_datetime", Type: "timestamp", Nullable: true},
		RequiredConceptFK("condition_type_concept_id"),
		OptionalConceptFK("condition_status_concept_id"),
		{Name: "stop_reason", Type: "varchar(20)", Nullable: true},
		FK("provider_id", "provider", "provider_id", true),
		FK("visit_occurrence_id", "visit_occurrence", "visit_occurrence_id", true),
		sourceValueColumn("condition_source_value"),
		OptionalConceptFK("condition_source_concept_id"),
		sourceValueColumn("condition_status_source_value"),
	},
	ExpectedDomains: map[string]ExpectedDomain{
		"condition_concept_id":        Expect("Condition"),
		"condition_type_concept_id":   Expect("Type Concept"),
		"condition_status_concept_id": Expect("Condition Status"),
	},
})

var ProcedureOccurrenceTable = register(Table{
	Name: "procedure_occurrence",
	Kind: KindClinical,
	Columns: []Column{
		{Name: "procedure_occurrence_id", Type: "integer", Primary: true},
		FK("person_id", "person", "person_id", false),
		RequiredConceptFK("procedure_concept_id"),
		{Name: "procedure_date", Type: "date"},
		{Name: "procedure_datetime", Type: "timestamp", Nullable: true},
		RequiredConceptFK("procedure_type_concept_id"),
		OptionalConceptFK("modifier_concept_id"),
		{Name: "quantity", Type: "integer", Nullable: true},
		FK("provider_id", "provider", "provider_id", true),
		FK("visit_occurrence_id", "visit_occurrence", "visit_occurrence_id", true),
		sourceValueColumn("procedure_source_value"),
		OptionalConceptFK("procedure_source_concept_id"),
		sourceValueColumn("modifier_source_value"),
	},
	ExpectedDomains: map[string]ExpectedDomain{
		"procedure_concept_id":      Expect("Procedure"),
		"procedure_type_concept_id": Expect("Type Concept"),
	},
})

var DrugExposureTable = register(Table{
	Name: "drug_exposure",
	Kind: KindClinical,
	Columns: []Column{
		{Name: "drug_exposure_id", Type: "integer", Primary: true},
		FK("person_id", "person", "person_id", false),
		RequiredConceptFK("drug_concept_id"),
		{Name: "drug_exposure_start_date", Type: "date"},
		{Name: "drug_exposure_start_datetime", Type: "timestamp", Nullable: true},
		{Name: "drug_exposure_end_date", Type: "date"},
		{Name: "drug_exposure_end_datetime", Type: "timestamp", Nullable: true},
		RequiredConceptFK("drug_type_concept_id"),
		{Name: "stop_reason", Type: "varchar(20)", Nullable: true},
		{Name: "refills", Type: "integer", Nullable: true},
		{Name: "quantity", Type: "numeric", Nullable: true},
		{Name: "days_supply", Type: "integer", Nullable: true},
		{Name: "sig", Type: "text", Nullable: true},
		OptionalConceptFK("route_concept_id"),
		FK("provider_id", "provider", "provider_id", true),
		FK("visit_occurrence_id", "visit_occurrence", "visit_occurrence_id", true),
		sourceValueColumn("drug_source_value"),
		OptionalConceptFK("drug_source_concept_id"),
		sourceValueColumn("route_source_value"),
		sourceValueColumn("dose_unit_source_value"),
	},
	ExpectedDomains: map[string]ExpectedDomain{
		"drug_concept_id":      Expect("Drug"),
		"drug_type_concept_id": Expect("Type Concept"),
		"route_concept_id":     Expect("Route"),
	},
})

var MeasurementTable = register(Table{
	Name: "measurement",
	Kind: KindClinical,
	Columns: []Column{
		{Name: "measurement_id", Type: "integer", Primary: true},
		FK("person_id", "person", "person_id", false),
		RequiredConceptFK("measurement_concept_id"),
		{Name: "measurement_date", Type: "date"},
		{Name: "measurement_datetime", Type: "timestamp", Nullable: true},
		RequiredConceptFK("measurement_type_concept_id"),
		OptionalConceptFK("operator_concept_id"),
		{Name: "value_as_number", Type: "numeric", Nullable: true},
		OptionalConceptFK("value_as_concept_id"),
		OptionalConceptFK("unit_concept_id"),
		{Name: "range_low", Type: "numeric", Nullable: true},
		{Name: "range_high", Type: "numeric", Nullable: true},
		FK("provider_id", "provider", "provider_id", true),
		FK("visit_occurrence_id", "visit_occurrence", "visit_occurrence_id", true),
		sourceValueColumn("measurement_source_value"),
		OptionalConceptFK("measurement_source_concept_id"),
		sourceValueColumn("unit_source_value"),
		sourceValueColumn("value_source_value"),
	},
	ExpectedDomains: map[string]ExpectedDomain{
		"measurement_concept_id":      Expect("Measurement"),
		"measurement_type_concept_id": Expect("Type Concept"),
		"unit_concept_id":             Expect("Unit"),
	},
})

var ObservationTable = register(Table{
	Name: "observation",
	Kind: KindClinical,
	Columns: []Column{
		{Name: "observation_id", Type: "integer", Primary: true},
		FK("person_id", "person", "person_id", false),
		RequiredConceptFK("observation_concept_id"),
		{Name: "observation_date", Type: "date"},
		{Name: "observation_datetime", Type: "timestamp", Nullable: true},
		RequiredConceptFK("observation_type_concept_id"),
		{Name: "value_as_number", Type: "numeric", Nullable: true},
		{Name: "value_as_string", Type: "varchar(60)", Nullable: true},
		OptionalConceptFK("value_as_concept_id"),
		OptionalConceptFK("qualifier_concept_id"),
		OptionalConceptFK("unit_concept_id"),
		FK("provider_id", "provider", "provider_id", true),
		FK("visit_occurrence_id", "visit_occurrence", "visit_occurrence_id", true),
		sourceValueColumn("observation_source_value"),
		OptionalConceptFK("observation_source_concept_id"),
		sourceValueColumn("unit_source_value"),
		sourceValueColumn("qualifier_source_value"),
	},
	ExpectedDomains: map[string]ExpectedDomain{
		"observation_concept_id":      Expect("Observation"),
		"observation_type_concept_id": Expect("Type Concept"),
		"unit_concept_id":             Expect("Unit"),
	},
})

var DeathTable = register(Table{
	Name: "death",
	Kind: KindClinical,
	Columns: []Column{
		{Name: "person_id", Type: "integer", Primary: true, RefTable: "person", RefColumn: "person_id"},
		{Name: "death_date", Type: "date"},
		{Name: "death_datetime", Type: "timestamp", Nullable: true},
		OptionalConceptFK("death_type_concept_id"),
		OptionalConceptFK("cause_concept_id"),
		sourceValueColumn("cause_source_value"),
		OptionalConceptFK("cause_source_concept_id"),
	},
	ExpectedDomains: map[string]ExpectedDomain{
		"death_type_concept_id": Expect("Type Concept"),
		"cause_concept_id":      Expect("Condition"),
	},
})
