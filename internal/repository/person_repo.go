package repository

import (
	"context"
	"database/sql"
	"fmt"

	"omop-data/internal/cdm"

	"go.uber.org/zap"
)

// PersonRepo loads person rows and hydrates PersonViews with their
// demographic concept contexts.
type PersonRepo struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewPersonRepo(db *sql.DB, logger *zap.Logger) *PersonRepo {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PersonRepo{db: db, logger: logger}
}

// GetPerson loads the structural person row only.
func (r *PersonRepo) GetPerson(ctx context.Context, personID int) (*cdm.Person, error) {
	var (
		p      cdm.Person
		month  sql.NullInt64
		day    sql.NullInt64
		birth  sql.NullTime
		loc    sql.NullInt64
		prov   sql.NullInt64
		cs     sql.NullInt64
		pSrc   sql.NullString
		gSrc   sql.NullString
		gSC    sql.NullInt64
		rSrc   sql.NullString
		rSC    sql.NullInt64
		eSrc   sql.NullString
		eSC    sql.NullInt64
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT person_id, gender_concept_id, year_of_birth, month_of_birth,
		       day_of_birth, birth_datetime, race_concept_id, ethnicity_concept_id,
		       location_id, provider_id, care_site_id, person_source_value,
		       gender_source_value, gender_source_concept_id,
		       race_source_value, race_source_concept_id,
		       ethnicity_source_value, ethnicity_source_concept_id
		FROM person
		WHERE person_id = $1`, personID).Scan(
		&p.PersonID, &p.GenderConceptID, &p.YearOfBirth, &month,
		&day, &birth, &p.RaceConceptID, &p.EthnicityConceptID,
		&loc, &prov, &cs, &pSrc,
		&gSrc, &gSC, &rSrc, &rSC, &eSrc, &eSC,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get person %d: %w", personID, err)
	}
	p.MonthOfBirth = nullInt(month)
	p.DayOfBirth = nullInt(day)
	if birth.Valid {
		p.BirthDatetime = &birth.Time
	}
	p.LocationID = nullInt(loc)
	p.ProviderID = nullInt(prov)
	p.CareSiteID = nullInt(cs)
	p.PersonSourceValue = nullStr(pSrc)
	p.GenderSourceValue = nullStr(gSrc)
	p.GenderSourceConceptID = nullInt(gSC)
	p.RaceSourceValue = nullStr(rSrc)
	p.RaceSourceConceptID = nullInt(rSC)
	p.EthnicitySourceValue = nullStr(eSrc)
	p.EthnicitySourceConceptID = nullInt(eSC)
	return &p, nil
}

// GetView loads a person and hydrates the demographic concept contexts and
// home location. Concept id 0 contexts are left nil rather than loading the
// "unknown" concept row.
func (r *PersonRepo) GetView(ctx context.Context, personID int) (*cdm.PersonView, error) {
	person, err := r.GetPerson(ctx, personID)
	if err != nil {
		return nil, err
	}
	view := &cdm.PersonView{Person: *person}

	concepts := NewPostgresConceptRepo(r.db, r.logger)
	loadConcept := func(conceptID int) (*cdm.Concept, error) {
		if conceptID == 0 {
			return nil, nil
		}
		c, err := concepts.GetConcept(ctx, conceptID)
		if err == ErrNotFound {
			return nil, nil
		}
		return c, err
	}

	if view.GenderConcept, err = loadConcept(person.GenderConceptID); err != nil {
		return nil, err
	}
	if view.RaceConcept, err = loadConcept(person.RaceConceptID); err != nil {
		return nil, err
	}
	if view.EthnicityConcept, err = loadConcept(person.EthnicityConceptID); err != nil {
		return nil, err
	}

	if person.LocationID != nil {
		loc, err := r.getLocation(ctx, *person.LocationID)
		if err != nil && err != ErrNotFound {
			return nil, err
		}
		view.Location = loc
	}

	return view, nil
}

func (r *PersonRepo) getLocation(ctx context.Context, locationID int) (*cdm.Location, error) {
	var (
		l                          cdm.Location
		a1, a2, city, state        sql.NullString
		zip, county, src           sql.NullString
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT location_id, address_1, address_2, city, state, zip, county,
		       location_source_value
		FROM location
		WHERE location_id = $1`, locationID).Scan(
		&l.LocationID, &a1, &a2, &city, &state, &zip, &county, &src)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get location %d: %w", locationID, err)
	}
	l.Address1 = nullStr(a1)
	l.Address2 = nullStr(a2)
	l.City = nullStr(city)
	l.State = nullStr(state)
	l.Zip = nullStr(zip)
	l.County = nullStr(county)
	l.LocationSourceValue = nullStr(src)
	return &l, nil
}
