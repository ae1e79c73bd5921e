package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupConceptRepo(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *PostgresConceptRepo) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	repo := NewPostgresConceptRepo(db, zap.NewNop())
	return db, mock, repo
}

func conceptRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"concept_id", "concept_name", "concept_code",
		"domain_id", "concept_class_id", "vocabulary_id", "standard_concept",
	})
}

func TestFetchConcepts_DomainFilter(t *testing.T) {
	db, mock, repo := setupConceptRepo(t)
	defer db.Close()

	rows := conceptRows().
		AddRow(8532, "FEMALE", "F", "Gender", "Gender", "Gender", "S").
		AddRow(8507, "MALE", "M", "Gender", "Gender", "Gender", "S")

	mock.ExpectQuery(`c\.domain_id = \$1 AND c\.standard_concept = 'S'`).
		WithArgs("Gender").
		WillReturnRows(rows)

	got, err := repo.FetchConcepts(context.Background(), ConceptFilter{
		DomainID:     "Gender",
		StandardOnly: true,
	})

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 8532, got[0].ConceptID)
	assert.Equal(t, "FEMALE", got[0].ConceptName)
	assert.Equal(t, "S", got[0].StandardConcept)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFetchConcepts_ParentsJoinAncestor(t *testing.T) {
	db, mock, repo := setupConceptRepo(t)
	defer db.Close()

	rows := conceptRows().
		AddRow(42, "Descendant", "D1", "Condition", "Clinical Finding", "SNOMED", "S")

	// Parents mode must expand through concept_ancestor and keep the
	// standard filter unless descendants are explicitly allowed.
	mock.ExpectQuery(`JOIN concept_ancestor ca ON ca\.descendant_concept_id = c\.concept_id`).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(rows)

	got, err := repo.FetchConcepts(context.Background(), ConceptFilter{
		Parents:      []int{100, 200},
		StandardOnly: true,
	})

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 42, got[0].ConceptID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFetchConcepts_CodeFilterILIKE(t *testing.T) {
	db, mock, repo := setupConceptRepo(t)
	defer db.Close()

	mock.ExpectQuery(`c\.concept_code ILIKE \$2`).
		WithArgs("Measurement", "%grade%").
		WillReturnRows(conceptRows())

	got, err := repo.FetchConcepts(context.Background(), ConceptFilter{
		DomainID:   "Measurement",
		CodeFilter: "grade",
	})

	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFetchSynonyms_SkipsEmptyNames(t *testing.T) {
	db, mock, repo := setupConceptRepo(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"concept_id", "concept_synonym_name"}).
		AddRow(1, "tumour grade").
		AddRow(2, "")

	mock.ExpectQuery(`FROM concept_synonym`).WillReturnRows(rows)

	got, err := repo.FetchSynonyms(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, Synonym{ConceptID: 1, Name: "tumour grade"}, got[0])
}

func TestDescendants_Deduplicates(t *testing.T) {
	db, mock, repo := setupConceptRepo(t)
	defer db.Close()

	rows := conceptRows().
		AddRow(42, "A", "A1", "Condition", "Clinical Finding", "SNOMED", "S").
		AddRow(42, "A", "A1", "Condition", "Clinical Finding", "SNOMED", "S").
		AddRow(43, "B", "B1", "Condition", "Clinical Finding", "SNOMED", "S")

	mock.ExpectQuery(`JOIN concept_ancestor`).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(rows)

	ids, err := repo.Descendants(context.Background(), []int{100}, false)
	require.NoError(t, err)
	assert.Equal(t, []int{42, 43}, ids)
}

func TestGetConcept_NotFound(t *testing.T) {
	db, mock, repo := setupConceptRepo(t)
	defer db.Close()

	mock.ExpectQuery(`FROM concept`).
		WithArgs(999).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetConcept(context.Background(), 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDomainsFor(t *testing.T) {
	db, mock, repo := setupConceptRepo(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"concept_id", "domain_id"}).
		AddRow(8532, "Gender").
		AddRow(9201, "Visit")

	mock.ExpectQuery(`SELECT concept_id, domain_id FROM concept`).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(rows)

	got, err := repo.DomainsFor(context.Background(), []int{8532, 9201, 12345})
	require.NoError(t, err)
	assert.Equal(t, map[int]string{8532: "Gender", 9201: "Visit"}, got)
}

func TestDomainsFor_EmptyInput(t *testing.T) {
	db, _, repo := setupConceptRepo(t)
	defer db.Close()

	got, err := repo.DomainsFor(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}
