package report

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"omop-data/internal/cdm"
	"omop-data/internal/validate"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

type fixedDomains struct {
	domains map[int]string
}

func (f *fixedDomains) DomainsFor(_ context.Context, ids []int) (map[int]string, error) {
	out := make(map[int]string)
	for _, id := range ids {
		if d, ok := f.domains[id]; ok {
			out[id] = d
		}
	}
	return out, nil
}

func TestRunAssemblesReport(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	domains := &fixedDomains{domains: map[int]string{
		9201:  "Visit",
		32817: "Type Concept",
		8532:  "Gender",
	}}
	checker := validate.NewChecker(db, domains, zap.NewNop())

	rows := sqlmock.NewRows([]string{
		"visit_occurrence_id",
		"admitted_from_concept_id", "discharged_to_concept_id",
		"visit_concept_id", "visit_type_concept_id",
	}).
		AddRow(10, nil, nil, 9201, 32817).
		AddRow(11, nil, nil, 8532, 32817)

	mock.ExpectQuery(`FROM visit_occurrence`).WillReturnRows(rows)

	rep, err := Run(context.Background(), checker, "omop",
		[]cdm.Table{cdm.VisitOccurrenceTable, cdm.LocationTable}, 0, zap.NewNop())
	require.NoError(t, err)

	assert.NotEmpty(t, rep.RunID)
	assert.Equal(t, "omop", rep.Database)
	assert.False(t, rep.FinishedAt.Before(rep.StartedAt))

	// location has no expected domains and is skipped entirely
	require.Len(t, rep.Summaries, 1)
	assert.Equal(t, "visit_occurrence", rep.Summaries[0].Table)
	assert.Equal(t, 2, rep.Summaries[0].RowsChecked)
	assert.Equal(t, 1, rep.TotalFindings())
}

func TestWriteXLSX(t *testing.T) {
	rep := &Report{
		RunID:      "test-run",
		Database:   "omop",
		StartedAt:  time.Now().UTC(),
		FinishedAt: time.Now().UTC(),
		Summaries: []TableSummary{
			{Table: "person", RowsChecked: 5, Findings: 1},
		},
		Findings: []validate.Finding{
			{Table: "person", Column: "gender_concept_id", RowID: 3,
				ConceptID: 9201, Expected: "Gender", Actual: "Visit"},
		},
	}

	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, rep.WriteXLSX(path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	runID, err := f.GetCellValue("Summary", "B1")
	require.NoError(t, err)
	assert.Equal(t, "test-run", runID)

	table, err := f.GetCellValue("Findings", "A2")
	require.NoError(t, err)
	assert.Equal(t, "person", table)

	actual, err := f.GetCellValue("Findings", "F2")
	require.NoError(t, err)
	assert.Equal(t, "Visit", actual)
}
