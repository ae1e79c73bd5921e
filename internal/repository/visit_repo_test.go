package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupVisitRepo(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *VisitRepo) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	repo := NewVisitRepo(db, zap.NewNop())
	return db, mock, repo
}

var visitColumns = []string{
	"visit_occurrence_id", "person_id", "visit_concept_id",
	"visit_start_date", "visit_start_datetime",
	"visit_end_date", "visit_end_datetime",
	"visit_type_concept_id", "provider_id", "care_site_id",
	"visit_source_value", "visit_source_concept_id",
	"admitted_from_concept_id", "admitted_from_source_value",
	"discharged_to_concept_id", "discharged_to_source_value",
	"preceding_visit_occurrence_id",
}

func TestGetVisit_Success(t *testing.T) {
	db, mock, repo := setupVisitRepo(t)
	defer db.Close()

	start := time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2023, 4, 3, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows(visitColumns).
		AddRow(10, 1, 9201, start, nil, end, nil, 32817, nil, nil,
			"INP", nil, nil, nil, nil, nil, nil)

	mock.ExpectQuery(`FROM visit_occurrence`).
		WithArgs(10).
		WillReturnRows(rows)

	v, err := repo.GetVisit(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, 10, v.VisitOccurrenceID)
	assert.Equal(t, 9201, v.VisitConceptID)
	assert.Nil(t, v.ProviderID)
	require.NotNil(t, v.VisitSourceValue)
	assert.Equal(t, "INP", *v.VisitSourceValue)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetVisit_NotFound(t *testing.T) {
	db, mock, repo := setupVisitRepo(t)
	defer db.Close()

	mock.ExpectQuery(`FROM visit_occurrence`).
		WithArgs(999).
		WillReturnRows(sqlmock.NewRows(visitColumns))

	_, err := repo.GetVisit(context.Background(), 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetView_LoadsReferenceContexts(t *testing.T) {
	db, mock, repo := setupVisitRepo(t)
	defer db.Close()

	start := time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2023, 4, 2, 0, 0, 0, 0, time.UTC)

	// visit row: no visit-level provider or care site
	mock.ExpectQuery(`FROM visit_occurrence`).
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows(visitColumns).
			AddRow(10, 1, 9201, start, nil, end, nil, 32817, nil, nil,
				nil, nil, nil, nil, nil, nil, nil))

	// person context
	mock.ExpectQuery(`FROM person`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(personColumns).
			AddRow(1, 8532, 1980, nil, nil, nil, 8527, 38003564,
				nil, nil, nil, nil, nil, nil, nil, nil, nil, nil))

	// providers via procedure_occurrence, then via observation
	mock.ExpectQuery(`JOIN procedure_occurrence`).
		WithArgs(10).
		WillReturnRows(providerMockRows().
			AddRow(2, "Dr Surgeon", nil, nil, nil, nil, nil, nil,
				nil, nil, 903, nil, nil))
	mock.ExpectQuery(`JOIN observation`).
		WithArgs(10).
		WillReturnRows(providerMockRows())

	view, err := repo.GetView(context.Background(), 10)
	require.NoError(t, err)

	require.NotNil(t, view.Person)
	assert.Equal(t, 1, view.Person.PersonID)
	assert.Nil(t, view.Provider)
	require.Len(t, view.ProcedureProviders, 1)
	assert.Empty(t, view.ObservationProviders)

	assert.True(t, view.HasProviderSpecialty(903))
	assert.False(t, view.HasProviderSpecialty(555))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListVisitIDsWithProviderSpecialty(t *testing.T) {
	db, mock, repo := setupVisitRepo(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"visit_occurrence_id"}).
		AddRow(10).
		AddRow(11)

	mock.ExpectQuery(`WHERE EXISTS`).
		WithArgs(903).
		WillReturnRows(rows)

	ids, err := repo.ListVisitIDsWithProviderSpecialty(context.Background(), 903)
	require.NoError(t, err)
	assert.Equal(t, []int{10, 11}, ids)
}

func providerMockRows() *sqlmock.Rows {
	return sqlmock.NewRows(providerColumns)
}
