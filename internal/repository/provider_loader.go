package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"omop-data/internal/cdm"
)

// providerLoader hydrates provider reference contexts. Shared by the visit
// and person repositories; not exported because providers are only reached
// through a fact table's context, never managed directly.
type providerLoader struct {
	db *sql.DB
}

func newProviderLoader(db *sql.DB) *providerLoader { return &providerLoader{db: db} }

var providerColumns = []string{
	"provider_id", "provider_name", "npi", "dea",
	"specialty_concept_id", "care_site_id", "year_of_birth", "gender_concept_id",
	"provider_source_value", "specialty_source_value", "specialty_source_concept_id",
	"gender_source_value", "gender_source_concept_id",
}

func prefixed(prefix string, cols []string) string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = prefix + c
	}
	return strings.Join(out, ", ")
}

func scanProvider(scan func(dest ...any) error) (*cdm.Provider, error) {
	var (
		p       cdm.Provider
		name    sql.NullString
		npi     sql.NullString
		dea     sql.NullString
		spec    sql.NullInt64
		cs      sql.NullInt64
		yob     sql.NullInt64
		gender  sql.NullInt64
		src     sql.NullString
		specSrc sql.NullString
		specSC  sql.NullInt64
		gSrc    sql.NullString
		gSC     sql.NullInt64
	)
	err := scan(&p.ProviderID, &name, &npi, &dea, &spec, &cs, &yob, &gender,
		&src, &specSrc, &specSC, &gSrc, &gSC)
	if err != nil {
		return nil, err
	}
	p.ProviderName = nullStr(name)
	p.NPI = nullStr(npi)
	p.DEA = nullStr(dea)
	p.SpecialtyConceptID = nullInt(spec)
	p.CareSiteID = nullInt(cs)
	p.YearOfBirth = nullInt(yob)
	p.GenderConceptID = nullInt(gender)
	p.ProviderSourceValue = nullStr(src)
	p.SpecialtySourceValue = nullStr(specSrc)
	p.SpecialtySourceConceptID = nullInt(specSC)
	p.GenderSourceValue = nullStr(gSrc)
	p.GenderSourceConceptID = nullInt(gSC)
	return &p, nil
}

func (l *providerLoader) get(ctx context.Context, providerID int) (*cdm.Provider, error) {
	q := fmt.Sprintf("SELECT %s FROM provider WHERE provider_id = $1",
		prefixed("", providerColumns))
	p, err := scanProvider(l.db.QueryRowContext(ctx, q, providerID).Scan)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get provider %d: %w", providerID, err)
	}
	return p, nil
}

// throughSecondary loads the distinct providers reached from one fact row
// through a declared secondary reference (e.g. the procedures of a visit).
func (l *providerLoader) throughSecondary(ctx context.Context, ref cdm.SecondaryReference, localID int) ([]cdm.Provider, error) {
	q := fmt.Sprintf(`
		SELECT DISTINCT %s
		FROM %s p
		JOIN %s s ON s.%s = p.%s
		WHERE s.%s = $1
		ORDER BY p.%s`,
		prefixed("p.", providerColumns),
		ref.Target,
		ref.Secondary, ref.RemoteKey, ref.TargetPK,
		ref.LocalKey,
		ref.TargetPK,
	)
	rows, err := l.db.QueryContext(ctx, q, localID)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", ref.Name, err)
	}
	defer rows.Close()

	var out []cdm.Provider
	for rows.Next() {
		p, err := scanProvider(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", ref.Name, err)
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}
