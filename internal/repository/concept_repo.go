package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"omop-data/internal/cdm"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

// ErrNotFound is returned when a single-row lookup matches nothing.
var ErrNotFound = errors.New("not found")

// ConceptFilter constrains a vocabulary fetch. Two modes are supported:
// flat filtering by domain/class/vocabulary, and hierarchical expansion from
// parent concept ids through concept_ancestor. Zero values mean "no filter".
type ConceptFilter struct {
	DomainID        string
	ConceptClassIDs []string
	VocabularyIDs   []string
	// StandardOnly restricts to standard concepts. In parents mode it is
	// suppressed by IncludeNonStandardDescendants.
	StandardOnly bool
	// CodeFilter is a case-insensitive substring match on concept_code.
	CodeFilter string
	// Parents switches to hierarchical expansion: all descendants of the
	// given ancestor concept ids.
	Parents                       []int
	IncludeNonStandardDescendants bool
}

// Synonym is one concept synonym pair.
type Synonym struct {
	ConceptID int
	Name      string
}

// ConceptSource is the read surface the vocabulary subsystem builds lookup
// indexes from.
type ConceptSource interface {
	FetchConcepts(ctx context.Context, f ConceptFilter) ([]cdm.ConceptRow, error)
	FetchSynonyms(ctx context.Context) ([]Synonym, error)
	Descendants(ctx context.Context, parents []int, includeNonStandard bool) ([]int, error)
}

// PostgresConceptRepo is a thin adapter between the OMOP vocabulary tables
// and the lookup/validation layers. It performs no caching and no
// normalisation; both are deliberately left to higher layers.
type PostgresConceptRepo struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewPostgresConceptRepo(db *sql.DB, logger *zap.Logger) *PostgresConceptRepo {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostgresConceptRepo{db: db, logger: logger}
}

const conceptSelect = `
	SELECT
		c.concept_id,
		c.concept_name,
		c.concept_code,
		c.domain_id,
		c.concept_class_id,
		c.vocabulary_id,
		COALESCE(c.standard_concept, '')
	FROM concept c`

// FetchConcepts returns the concepts matching the filter.
func (r *PostgresConceptRepo) FetchConcepts(ctx context.Context, f ConceptFilter) ([]cdm.ConceptRow, error) {
	var (
		joins []string
		where []string
		args  []any
	)
	argN := 1

	if len(f.Parents) > 0 {
		joins = append(joins,
			"JOIN concept_ancestor ca ON ca.descendant_concept_id = c.concept_id")
		where = append(where, fmt.Sprintf("ca.ancestor_concept_id = ANY($%d)", argN))
		args = append(args, pq.Array(f.Parents))
		argN++
		if f.StandardOnly && !f.IncludeNonStandardDescendants {
			where = append(where, "c.standard_concept = 'S'")
		}
	}
	if f.DomainID != "" {
		where = append(where, fmt.Sprintf("c.domain_id = $%d", argN))
		args = append(args, f.DomainID)
		argN++
	}
	if len(f.ConceptClassIDs) > 0 {
		where = append(where, fmt.Sprintf("c.concept_class_id = ANY($%d)", argN))
		args = append(args, pq.Array(f.ConceptClassIDs))
		argN++
	}
	if len(f.VocabularyIDs) > 0 {
		where = append(where, fmt.Sprintf("c.vocabulary_id = ANY($%d)", argN))
		args = append(args, pq.Array(f.VocabularyIDs))
		argN++
	}
	if f.StandardOnly && len(f.Parents) == 0 {
		where = append(where, "c.standard_concept = 'S'")
	}
	if f.CodeFilter != "" {
		where = append(where, fmt.Sprintf("c.concept_code ILIKE $%d", argN))
		args = append(args, "%"+f.CodeFilter+"%")
		argN++
	}

	q := conceptSelect
	if len(joins) > 0 {
		q += "\n\t" + strings.Join(joins, "\n\t")
	}
	if len(where) > 0 {
		q += "\n\tWHERE " + strings.Join(where, " AND ")
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("fetch concepts: %w", err)
	}
	defer rows.Close()

	var out []cdm.ConceptRow
	for rows.Next() {
		var c cdm.ConceptRow
		if err := rows.Scan(
			&c.ConceptID,
			&c.ConceptName,
			&c.ConceptCode,
			&c.DomainID,
			&c.ConceptClassID,
			&c.VocabularyID,
			&c.StandardConcept,
		); err != nil {
			return nil, fmt.Errorf("scan concept: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// FetchSynonyms returns all (concept_id, synonym) pairs. Standard/domain
// filtering is intentionally left to the caller, which knows which concept
// ids survived its own filter.
func (r *PostgresConceptRepo) FetchSynonyms(ctx context.Context) ([]Synonym, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT concept_id, concept_synonym_name FROM concept_synonym`)
	if err != nil {
		return nil, fmt.Errorf("fetch synonyms: %w", err)
	}
	defer rows.Close()

	var out []Synonym
	for rows.Next() {
		var s Synonym
		if err := rows.Scan(&s.ConceptID, &s.Name); err != nil {
			return nil, fmt.Errorf("scan synonym: %w", err)
		}
		if s.Name != "" {
			out = append(out, s)
		}
	}
	return out, rows.Err()
}

// Descendants returns the distinct descendant concept ids of the given
// parents.
func (r *PostgresConceptRepo) Descendants(ctx context.Context, parents []int, includeNonStandard bool) ([]int, error) {
	rows, err := r.FetchConcepts(ctx, ConceptFilter{
		Parents:                       parents,
		StandardOnly:                  !includeNonStandard,
		IncludeNonStandardDescendants: includeNonStandard,
	})
	if err != nil {
		return nil, err
	}
	seen := make(map[int]bool, len(rows))
	var out []int
	for _, c := range rows {
		if !seen[c.ConceptID] {
			seen[c.ConceptID] = true
			out = append(out, c.ConceptID)
		}
	}
	return out, nil
}

// GetConcept loads one concept row by id.
func (r *PostgresConceptRepo) GetConcept(ctx context.Context, conceptID int) (*cdm.Concept, error) {
	var (
		c        cdm.Concept
		standard sql.NullString
		invalid  sql.NullString
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT concept_id, concept_name, domain_id, vocabulary_id,
		       concept_class_id, standard_concept, concept_code,
		       valid_start_date, valid_end_date, invalid_reason
		FROM concept
		WHERE concept_id = $1`, conceptID).Scan(
		&c.ConceptID, &c.ConceptName, &c.DomainID, &c.VocabularyID,
		&c.ConceptClassID, &standard, &c.ConceptCode,
		&c.ValidStartDate, &c.ValidEndDate, &invalid,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get concept %d: %w", conceptID, err)
	}
	if standard.Valid {
		c.StandardConcept = &standard.String
	}
	if invalid.Valid {
		c.InvalidReason = &invalid.String
	}
	return &c, nil
}

// DomainsFor resolves the actual domain_id of each given concept id.
// Missing ids are simply absent from the result; the conformance checker
// reports them as unresolvable rather than failing the run.
func (r *PostgresConceptRepo) DomainsFor(ctx context.Context, conceptIDs []int) (map[int]string, error) {
	if len(conceptIDs) == 0 {
		return map[int]string{}, nil
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT concept_id, domain_id FROM concept WHERE concept_id = ANY($1)`,
		pq.Array(conceptIDs))
	if err != nil {
		return nil, fmt.Errorf("domains for concepts: %w", err)
	}
	defer rows.Close()

	out := make(map[int]string, len(conceptIDs))
	for rows.Next() {
		var id int
		var domain string
		if err := rows.Scan(&id, &domain); err != nil {
			return nil, fmt.Errorf("scan concept domain: %w", err)
		}
		out[id] = domain
	}
	return out, rows.Err()
}
