package cdm

// Reference contexts and views.
//
// A reference context is a read-only navigation declaration from a fact
// table to a shared reference table. Contexts never own their target and are
// never written through; repositories use them to build the LEFT JOINs that
// hydrate a view. A view is the analysis-facing composition of a structural
// row plus its loaded contexts; ingestion writes plain rows only.

// Reference declares a direct navigation: local FK column to the target
// table's PK column.
type Reference struct {
	Name     string
	Target   string
	LocalFK  string
	RemotePK string
}

// SecondaryReference declares a navigation routed through an intermediate
// fact table, e.g. visit -> providers via procedure_occurrence. LocalKey and
// RemoteKey are columns on the secondary table.
type SecondaryReference struct {
	Name      string
	Target    string
	TargetPK  string
	Secondary string
	LocalPK   string
	LocalKey  string
	RemoteKey string
}

// VisitReferences are the direct contexts of a visit.
var VisitReferences = []Reference{
	{Name: "person", Target: "person", LocalFK: "person_id", RemotePK: "person_id"},
	{Name: "provider", Target: "provider", LocalFK: "provider_id", RemotePK: "provider_id"},
	{Name: "care_site", Target: "care_site", LocalFK: "care_site_id", RemotePK: "care_site_id"},
}

// VisitProviderReferences collect every provider seen during the visit
// through its recorded events.
var VisitProviderReferences = []SecondaryReference{
	{
		Name:      "procedure_providers",
		Target:    "provider",
		TargetPK:  "provider_id",
		Secondary: "procedure_occurrence",
		LocalPK:   "visit_occurrence_id",
		LocalKey:  "visit_occurrence_id",
		RemoteKey: "provider_id",
	},
	{
		Name:      "observation_providers",
		Target:    "provider",
		TargetPK:  "provider_id",
		Secondary: "observation",
		LocalPK:   "visit_occurrence_id",
		LocalKey:  "visit_occurrence_id",
		RemoteKey: "provider_id",
	},
}

// PersonReferences are the direct contexts of a person.
var PersonReferences = []Reference{
	{Name: "gender_concept", Target: "concept", LocalFK: "gender_concept_id", RemotePK: "concept_id"},
	{Name: "race_concept", Target: "concept", LocalFK: "race_concept_id", RemotePK: "concept_id"},
	{Name: "ethnicity_concept", Target: "concept", LocalFK: "ethnicity_concept_id", RemotePK: "concept_id"},
	{Name: "location", Target: "location", LocalFK: "location_id", RemotePK: "location_id"},
}

// VisitView is a visit row with its reference contexts loaded.
type VisitView struct {
	VisitOccurrence
	Person   *Person
	Provider *Provider
	CareSite *CareSite
	// Providers reached through the visit's recorded events.
	ProcedureProviders   []Provider
	ObservationProviders []Provider
}

// AllProviders returns the distinct providers attached to the visit, both
// the visit-level provider and any reached through events.
func (v *VisitView) AllProviders() []Provider {
	seen := make(map[int]bool)
	var out []Provider
	add := func(p Provider) {
		if !seen[p.ProviderID] {
			seen[p.ProviderID] = true
			out = append(out, p)
		}
	}
	for _, p := range v.ProcedureProviders {
		add(p)
	}
	for _, p := range v.ObservationProviders {
		add(p)
	}
	if v.Provider != nil {
		add(*v.Provider)
	}
	return out
}

// HasProviderSpecialty reports whether any provider attached to the visit
// carries the given source specialty concept. Works over the loaded
// contexts; the repository offers the equivalent EXISTS query for filtering
// without hydration.
func (v *VisitView) HasProviderSpecialty(specialtyConceptID int) bool {
	for _, p := range v.AllProviders() {
		if p.SpecialtySourceConceptID != nil && *p.SpecialtySourceConceptID == specialtyConceptID {
			return true
		}
	}
	return false
}

// DurationDays is the inclusive day span of the visit.
func (v *VisitView) DurationDays() int {
	return int(v.VisitEndDate.Sub(v.VisitStartDate).Hours()/24) + 1
}

// PersonView is a person row with its demographic concept contexts loaded.
type PersonView struct {
	Person
	GenderConcept    *Concept
	RaceConcept      *Concept
	EthnicityConcept *Concept
	Location         *Location
}

// GenderName returns the loaded gender concept name, or the empty string
// when the context is absent or unmapped.
func (p *PersonView) GenderName() string {
	if p.GenderConcept == nil {
		return ""
	}
	return p.GenderConcept.ConceptName
}
