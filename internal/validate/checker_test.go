package validate

import (
	"context"
	"database/sql"
	"testing"

	"omop-data/internal/cdm"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeDomains resolves concept domains from a fixed map.
type fakeDomains struct {
	domains map[int]string
}

func (f *fakeDomains) DomainsFor(_ context.Context, ids []int) (map[int]string, error) {
	out := make(map[int]string)
	for _, id := range ids {
		if d, ok := f.domains[id]; ok {
			out[id] = d
		}
	}
	return out, nil
}

func visitDomains() *fakeDomains {
	return &fakeDomains{domains: map[int]string{
		9201:  "Visit",        // inpatient visit
		32817: "Type Concept", // EHR
		8532:  "Gender",       // wrong domain for a visit column
	}}
}

func setupChecker(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *Checker) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return db, mock, NewChecker(db, visitDomains(), zap.NewNop())
}

func TestCheckFields_Conforming(t *testing.T) {
	_, _, c := setupChecker(t)
	visit := 9201
	typ := 32817

	findings, err := c.CheckFields(context.Background(), cdm.VisitOccurrenceTable, 10, map[string]*int{
		"visit_concept_id":      &visit,
		"visit_type_concept_id": &typ,
	})
	require.NoError(t, err)
	assert.Empty(t, findings)
}

func TestCheckFields_WrongDomain(t *testing.T) {
	_, _, c := setupChecker(t)
	wrong := 8532 // a Gender concept in a Visit column

	findings, err := c.CheckFields(context.Background(), cdm.VisitOccurrenceTable, 10, map[string]*int{
		"visit_concept_id": &wrong,
	})
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, "visit_occurrence", findings[0].Table)
	assert.Equal(t, "visit_concept_id", findings[0].Column)
	assert.Equal(t, "Visit", findings[0].Expected)
	assert.Equal(t, "Gender", findings[0].Actual)
}

func TestCheckFields_ZeroConceptAccepted(t *testing.T) {
	_, _, c := setupChecker(t)
	zero := 0

	findings, err := c.CheckFields(context.Background(), cdm.VisitOccurrenceTable, 10, map[string]*int{
		"admitted_from_concept_id": &zero,
	})
	require.NoError(t, err)
	assert.Empty(t, findings)
}

func TestCheckFields_UnresolvableConcept(t *testing.T) {
	_, _, c := setupChecker(t)
	ghost := 123456789

	findings, err := c.CheckFields(context.Background(), cdm.VisitOccurrenceTable, 10, map[string]*int{
		"visit_concept_id": &ghost,
	})
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, MissingDomain, findings[0].Actual)
}

func TestCheckTable(t *testing.T) {
	db, mock, c := setupChecker(t)
	defer db.Close()

	// columns in sorted order: admitted_from, discharged_to, visit, visit_type
	rows := sqlmock.NewRows([]string{
		"visit_occurrence_id",
		"admitted_from_concept_id", "discharged_to_concept_id",
		"visit_concept_id", "visit_type_concept_id",
	}).
		AddRow(10, nil, nil, 9201, 32817). // clean
		AddRow(11, nil, 0, 8532, 32817)    // gender concept in visit column, zero accepted

	mock.ExpectQuery(`SELECT visit_occurrence_id, admitted_from_concept_id, discharged_to_concept_id, visit_concept_id, visit_type_concept_id FROM visit_occurrence LIMIT 100`).
		WillReturnRows(rows)

	findings, checked, err := c.CheckTable(context.Background(), cdm.VisitOccurrenceTable, 100)
	require.NoError(t, err)

	assert.Equal(t, 2, checked)
	require.Len(t, findings, 1)
	assert.Equal(t, int64(11), findings[0].RowID)
	assert.Equal(t, "visit_concept_id", findings[0].Column)
	assert.Equal(t, "Gender", findings[0].Actual)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckTable_NoDeclaredDomains(t *testing.T) {
	db, _, c := setupChecker(t)
	defer db.Close()

	findings, checked, err := c.CheckTable(context.Background(), cdm.LocationTable, 0)
	require.NoError(t, err)
	assert.Zero(t, checked)
	assert.Empty(t, findings)
}

func TestFindingString(t *testing.T) {
	f := Finding{
		Table: "person", Column: "gender_concept_id", RowID: 1,
		ConceptID: 9201, Expected: "Gender", Actual: "Visit",
	}
	assert.Contains(t, f.String(), "person.gender_concept_id row 1")
	assert.Contains(t, f.String(), `expected "Gender"`)
}
