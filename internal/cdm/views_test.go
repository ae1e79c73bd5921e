package cdm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func intp(v int) *int { return &v }

func TestAllProvidersDeduplicates(t *testing.T) {
	attending := Provider{ProviderID: 1}
	surgeon := Provider{ProviderID: 2, SpecialtySourceConceptID: intp(903)}

	v := &VisitView{
		Provider:             &attending,
		ProcedureProviders:   []Provider{surgeon, attending},
		ObservationProviders: []Provider{surgeon},
	}

	all := v.AllProviders()
	assert.Len(t, all, 2)
}

func TestAllProvidersNoVisitProvider(t *testing.T) {
	v := &VisitView{
		ProcedureProviders: []Provider{{ProviderID: 7}},
	}
	all := v.AllProviders()
	assert.Len(t, all, 1)
	assert.Equal(t, 7, all[0].ProviderID)
}

func TestHasProviderSpecialty(t *testing.T) {
	v := &VisitView{
		ProcedureProviders: []Provider{
			{ProviderID: 2, SpecialtySourceConceptID: intp(903)},
			{ProviderID: 3}, // no specialty recorded
		},
	}

	assert.True(t, v.HasProviderSpecialty(903))
	assert.False(t, v.HasProviderSpecialty(555))
}

func TestVisitDurationDays(t *testing.T) {
	v := &VisitView{VisitOccurrence: VisitOccurrence{
		VisitStartDate: time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC),
		VisitEndDate:   time.Date(2023, 4, 3, 0, 0, 0, 0, time.UTC),
	}}
	assert.Equal(t, 3, v.DurationDays())
}

func TestPersonViewGenderName(t *testing.T) {
	p := &PersonView{}
	assert.Equal(t, "", p.GenderName())

	p.GenderConcept = &Concept{ConceptID: 8532, ConceptName: "FEMALE"}
	assert.Equal(t, "FEMALE", p.GenderName())
}

func TestConceptIsStandard(t *testing.T) {
	s := "S"
	assert.True(t, Concept{StandardConcept: &s}.IsStandard())
	c := "C"
	assert.False(t, Concept{StandardConcept: &c}.IsStandard())
	assert.False(t, Concept{}.IsStandard())
}
