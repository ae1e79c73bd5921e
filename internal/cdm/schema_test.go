package cdm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTablesOrderedReferenceFirst(t *testing.T) {
	tables := Tables()
	require.NotEmpty(t, tables)

	lastKind := KindReference
	for _, tb := range tables {
		assert.GreaterOrEqual(t, int(tb.Kind), int(lastKind),
			"table %s out of bootstrap order", tb.Name)
		lastKind = tb.Kind
	}

	// concept must come before any clinical table
	assert.Equal(t, KindReference, tables[0].Kind)
}

func TestTableByName(t *testing.T) {
	tb, ok := TableByName("visit_occurrence")
	require.True(t, ok)
	assert.Equal(t, []string{"visit_occurrence_id"}, tb.PrimaryKey())

	_, ok = TableByName("no_such_table")
	assert.False(t, ok)
}

func TestConceptFKFactories(t *testing.T) {
	req := RequiredConceptFK("visit_concept_id")
	assert.False(t, req.Nullable)
	assert.True(t, req.Indexed)
	assert.Equal(t, "concept", req.RefTable)
	assert.Equal(t, "concept_id", req.RefColumn)

	opt := OptionalConceptFK("visit_source_concept_id")
	assert.True(t, opt.Nullable)
	assert.Equal(t, "concept", opt.RefTable)
}

func TestConceptColumns(t *testing.T) {
	cols := VisitOccurrenceTable.ConceptColumns()
	var names []string
	for _, c := range cols {
		names = append(names, c.Name)
	}
	assert.Contains(t, names, "visit_concept_id")
	assert.Contains(t, names, "visit_type_concept_id")
	assert.Contains(t, names, "admitted_from_concept_id")
	assert.NotContains(t, names, "person_id")
}

func TestExpectedDomainsDeclaredOnConceptColumns(t *testing.T) {
	// Every expected-domain declaration must point at a real concept FK.
	for _, tb := range Tables() {
		for col := range tb.ExpectedDomains {
			c, ok := tb.Column(col)
			require.True(t, ok, "%s.%s declared but column missing", tb.Name, col)
			assert.Equal(t, "concept", c.RefTable,
				"%s.%s expected-domain on non-concept column", tb.Name, col)
		}
	}
}

func TestCreateTableSQL(t *testing.T) {
	sql := CreateTableSQL(PersonTable)
	assert.Contains(t, sql, "CREATE TABLE IF NOT EXISTS person")
	assert.Contains(t, sql, "gender_concept_id integer NOT NULL")
	assert.Contains(t, sql, "month_of_birth integer,")
	assert.Contains(t, sql, "PRIMARY KEY (person_id)")
}

func TestCreateTableSQLCompositeKey(t *testing.T) {
	sql := CreateTableSQL(DrugStrengthTable)
	assert.Contains(t, sql, "PRIMARY KEY (drug_concept_id, ingredient_concept_id)")
}

func TestForeignKeySQL(t *testing.T) {
	stmts := ForeignKeySQL(VisitOccurrenceTable)
	joined := strings.Join(stmts, "\n")
	assert.Contains(t, joined, "FOREIGN KEY (person_id) REFERENCES person (person_id)")
	assert.Contains(t, joined, "FOREIGN KEY (visit_concept_id) REFERENCES concept (concept_id)")
	// self reference
	assert.Contains(t, joined, "FOREIGN KEY (preceding_visit_occurrence_id) REFERENCES visit_occurrence (visit_occurrence_id)")
}

func TestBootstrapSQLTablesBeforeConstraints(t *testing.T) {
	stmts := BootstrapSQL()
	firstAlter := -1
	lastCreate := -1
	for i, s := range stmts {
		if strings.HasPrefix(s, "CREATE TABLE") {
			lastCreate = i
		}
		if strings.HasPrefix(s, "ALTER TABLE") && firstAlter == -1 {
			firstAlter = i
		}
	}
	require.NotEqual(t, -1, firstAlter)
	assert.Less(t, lastCreate, firstAlter)
}
