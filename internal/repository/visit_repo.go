package repository

import (
	"context"
	"database/sql"
	"fmt"

	"omop-data/internal/cdm"

	"go.uber.org/zap"
)

// VisitRepo loads visit rows and hydrates VisitViews from the declared
// reference contexts. All navigation is read-only; nothing here writes.
type VisitRepo struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewVisitRepo(db *sql.DB, logger *zap.Logger) *VisitRepo {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VisitRepo{db: db, logger: logger}
}

const visitSelect = `
	SELECT
		visit_occurrence_id,
		person_id,
		visit_concept_id,
		visit_start_date,
		visit_start_datetime,
		visit_end_date,
		visit_end_datetime,
		visit_type_concept_id,
		provider_id,
		care_site_id,
		visit_source_value,
		visit_source_concept_id,
		admitted_from_concept_id,
		admitted_from_source_value,
		discharged_to_concept_id,
		discharged_to_source_value,
		preceding_visit_occurrence_id
	FROM visit_occurrence`

func scanVisit(row *sql.Row) (*cdm.VisitOccurrence, error) {
	var (
		v         cdm.VisitOccurrence
		startDT   sql.NullTime
		endDT     sql.NullTime
		provider  sql.NullInt64
		careSite  sql.NullInt64
		srcVal    sql.NullString
		srcCID    sql.NullInt64
		admCID    sql.NullInt64
		admSrc    sql.NullString
		disCID    sql.NullInt64
		disSrc    sql.NullString
		preceding sql.NullInt64
	)
	err := row.Scan(
		&v.VisitOccurrenceID,
		&v.PersonID,
		&v.VisitConceptID,
		&v.VisitStartDate,
		&startDT,
		&v.VisitEndDate,
		&endDT,
		&v.VisitTypeConceptID,
		&provider,
		&careSite,
		&srcVal,
		&srcCID,
		&admCID,
		&admSrc,
		&disCID,
		&disSrc,
		&preceding,
	)
	if err != nil {
		return nil, err
	}
	if startDT.Valid {
		v.VisitStartDatetime = &startDT.Time
	}
	if endDT.Valid {
		v.VisitEndDatetime = &endDT.Time
	}
	v.ProviderID = nullInt(provider)
	v.CareSiteID = nullInt(careSite)
	v.VisitSourceValue = nullStr(srcVal)
	v.VisitSourceConceptID = nullInt(srcCID)
	v.AdmittedFromConceptID = nullInt(admCID)
	v.AdmittedFromSourceValue = nullStr(admSrc)
	v.DischargedToConceptID = nullInt(disCID)
	v.DischargedToSourceValue = nullStr(disSrc)
	v.PrecedingVisitOccurrenceID = nullInt(preceding)
	return &v, nil
}

// GetVisit loads the structural visit row only.
func (r *VisitRepo) GetVisit(ctx context.Context, visitID int) (*cdm.VisitOccurrence, error) {
	v, err := scanVisit(r.db.QueryRowContext(ctx,
		visitSelect+" WHERE visit_occurrence_id = $1", visitID))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get visit %d: %w", visitID, err)
	}
	return v, nil
}

// GetView loads a visit and hydrates its reference contexts: person,
// provider, care site, and the providers reached through the visit's
// recorded procedures and observations.
func (r *VisitRepo) GetView(ctx context.Context, visitID int) (*cdm.VisitView, error) {
	visit, err := r.GetVisit(ctx, visitID)
	if err != nil {
		return nil, err
	}
	view := &cdm.VisitView{VisitOccurrence: *visit}

	persons := NewPersonRepo(r.db, r.logger)
	person, err := persons.GetPerson(ctx, visit.PersonID)
	if err != nil && err != ErrNotFound {
		return nil, err
	}
	view.Person = person

	providers := newProviderLoader(r.db)
	if visit.ProviderID != nil {
		p, err := providers.get(ctx, *visit.ProviderID)
		if err != nil && err != ErrNotFound {
			return nil, err
		}
		view.Provider = p
	}
	if visit.CareSiteID != nil {
		cs, err := r.getCareSite(ctx, *visit.CareSiteID)
		if err != nil && err != ErrNotFound {
			return nil, err
		}
		view.CareSite = cs
	}

	for _, ref := range cdm.VisitProviderReferences {
		ps, err := providers.throughSecondary(ctx, ref, visitID)
		if err != nil {
			return nil, err
		}
		switch ref.Name {
		case "procedure_providers":
			view.ProcedureProviders = ps
		case "observation_providers":
			view.ObservationProviders = ps
		}
	}

	r.logger.Debug("visit view loaded",
		zap.Int("visit_occurrence_id", visitID),
		zap.Int("procedure_providers", len(view.ProcedureProviders)),
		zap.Int("observation_providers", len(view.ObservationProviders)),
	)
	return view, nil
}

// ListVisitIDsWithProviderSpecialty is the query-side counterpart of
// VisitView.HasProviderSpecialty: visit ids where a provider with the given
// source specialty performed a procedure during the visit.
func (r *VisitRepo) ListVisitIDsWithProviderSpecialty(ctx context.Context, specialtyConceptID int) ([]int, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT v.visit_occurrence_id
		FROM visit_occurrence v
		WHERE EXISTS (
			SELECT 1
			FROM procedure_occurrence po
			JOIN provider p ON p.provider_id = po.provider_id
			WHERE po.visit_occurrence_id = v.visit_occurrence_id
			  AND p.specialty_source_concept_id = $1
		)
		ORDER BY v.visit_occurrence_id`, specialtyConceptID)
	if err != nil {
		return nil, fmt.Errorf("visits with provider specialty: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *VisitRepo) getCareSite(ctx context.Context, careSiteID int) (*cdm.CareSite, error) {
	var (
		cs      cdm.CareSite
		name    sql.NullString
		posCID  sql.NullInt64
		loc     sql.NullInt64
		src     sql.NullString
		posSrc  sql.NullString
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT care_site_id, care_site_name, place_of_service_concept_id,
		       location_id, care_site_source_value, place_of_service_source_value
		FROM care_site
		WHERE care_site_id = $1`, careSiteID).Scan(
		&cs.CareSiteID, &name, &posCID, &loc, &src, &posSrc)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get care site %d: %w", careSiteID, err)
	}
	cs.CareSiteName = nullStr(name)
	cs.PlaceOfServiceConceptID = nullInt(posCID)
	cs.LocationID = nullInt(loc)
	cs.CareSiteSourceValue = nullStr(src)
	cs.PlaceOfServiceSourceValue = nullStr(posSrc)
	return &cs, nil
}

func nullInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}

func nullStr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}
