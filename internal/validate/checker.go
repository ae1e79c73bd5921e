package validate

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"omop-data/internal/cdm"

	"go.uber.org/zap"
)

// MissingDomain marks a concept id that could not be resolved at all.
const MissingDomain = "<missing>"

// Finding is one advisory domain-conformance observation: a concept FK whose
// referenced concept does not live in the domain the schema declares for it.
// Findings never block anything; they are collected and reported.
type Finding struct {
	Table     string `json:"table"`
	Column    string `json:"column"`
	RowID     int64  `json:"row_id"`
	ConceptID int    `json:"concept_id"`
	Expected  string `json:"expected"`
	Actual    string `json:"actual"`
}

func (f Finding) String() string {
	return fmt.Sprintf("%s.%s row %d: concept %d in domain %q, expected %q",
		f.Table, f.Column, f.RowID, f.ConceptID, f.Actual, f.Expected)
}

// DomainResolver resolves the actual domain of concept ids in batch.
// Satisfied by repository.PostgresConceptRepo.
type DomainResolver interface {
	DomainsFor(ctx context.Context, conceptIDs []int) (map[int]string, error)
}

// Checker runs best-effort domain-conformance checks against a live CDM
// database. It is read-only by construction: it issues SELECTs and compares.
type Checker struct {
	db      *sql.DB
	domains DomainResolver
	logger  *zap.Logger
}

func NewChecker(db *sql.DB, domains DomainResolver, logger *zap.Logger) *Checker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Checker{db: db, domains: domains, logger: logger}
}

// checkedColumns returns the expected-domain columns of a table in a stable
// order.
func checkedColumns(t cdm.Table) []string {
	cols := make([]string, 0, len(t.ExpectedDomains))
	for c := range t.ExpectedDomains {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	return cols
}

// CheckFields checks one already-loaded row: field values keyed by column
// name, nil meaning SQL NULL. Used by callers holding a hydrated view.
func (c *Checker) CheckFields(ctx context.Context, t cdm.Table, rowID int64, fields map[string]*int) ([]Finding, error) {
	var ids []int
	for col, v := range fields {
		if _, declared := t.ExpectedDomains[col]; !declared || v == nil {
			continue
		}
		ids = append(ids, *v)
	}
	actual, err := c.domains.DomainsFor(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("check %s row %d: %w", t.Name, rowID, err)
	}

	var findings []Finding
	for _, col := range checkedColumns(t) {
		v, ok := fields[col]
		if !ok || v == nil {
			continue
		}
		if f := evaluate(t, col, rowID, *v, actual); f != nil {
			findings = append(findings, *f)
		}
	}
	return findings, nil
}

// CheckTable streams a table's concept FK columns and returns the findings
// plus the number of rows examined. limit <= 0 checks every row. Individual
// unresolvable concepts become findings, not errors.
func (c *Checker) CheckTable(ctx context.Context, t cdm.Table, limit int) ([]Finding, int, error) {
	cols := checkedColumns(t)
	if len(cols) == 0 {
		return nil, 0, nil
	}
	pk := t.PrimaryKey()
	if len(pk) == 0 {
		return nil, 0, fmt.Errorf("table %s has no primary key to report against", t.Name)
	}

	q := fmt.Sprintf("SELECT %s, %s FROM %s",
		pk[0], strings.Join(cols, ", "), t.Name)
	if limit > 0 {
		q += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := c.db.QueryContext(ctx, q)
	if err != nil {
		return nil, 0, fmt.Errorf("check %s: %w", t.Name, err)
	}
	defer rows.Close()

	type checkedRow struct {
		id     int64
		values []sql.NullInt64
	}
	var (
		checked []checkedRow
		idSet   = make(map[int]bool)
	)
	for rows.Next() {
		cr := checkedRow{values: make([]sql.NullInt64, len(cols))}
		dest := make([]any, 0, len(cols)+1)
		dest = append(dest, &cr.id)
		for i := range cr.values {
			dest = append(dest, &cr.values[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, 0, fmt.Errorf("scan %s: %w", t.Name, err)
		}
		for _, v := range cr.values {
			if v.Valid {
				idSet[int(v.Int64)] = true
			}
		}
		checked = append(checked, cr)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	ids := make([]int, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	actual, err := c.domains.DomainsFor(ctx, ids)
	if err != nil {
		return nil, 0, fmt.Errorf("check %s domains: %w", t.Name, err)
	}

	var findings []Finding
	for _, cr := range checked {
		for i, col := range cols {
			if !cr.values[i].Valid {
				continue
			}
			if f := evaluate(t, col, cr.id, int(cr.values[i].Int64), actual); f != nil {
				findings = append(findings, *f)
			}
		}
	}

	c.logger.Info("table checked",
		zap.String("table", t.Name),
		zap.Int("rows", len(checked)),
		zap.Int("findings", len(findings)),
	)
	return findings, len(checked), nil
}

// evaluate applies one expected-domain rule to one value. Returns nil when
// the value conforms.
func evaluate(t cdm.Table, col string, rowID int64, conceptID int, actual map[int]string) *Finding {
	expected := t.ExpectedDomains[col]
	if conceptID == 0 && expected.AcceptZero {
		return nil
	}
	domain, ok := actual[conceptID]
	if !ok {
		return &Finding{
			Table: t.Name, Column: col, RowID: rowID,
			ConceptID: conceptID, Expected: expected.Domain, Actual: MissingDomain,
		}
	}
	if domain != expected.Domain {
		return &Finding{
			Table: t.Name, Column: col, RowID: rowID,
			ConceptID: conceptID, Expected: expected.Domain, Actual: domain,
		}
	}
	return nil
}
