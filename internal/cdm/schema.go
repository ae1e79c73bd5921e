package cdm

// Schema descriptors for the OMOP CDM tables this module maps.
//
// Tables are declared as static descriptors rather than discovered from the
// database: the CDM is a fixed external specification and the point of this
// layer is to state the shape we expect, generate DDL for it, and hang
// navigation and conformance metadata off it.

// TableKind orders bootstrap and tells validation which tables are shared
// reference data versus per-person facts.
type TableKind int

const (
	// KindReference marks shared vocabulary/reference tables. They are
	// created first and are never owned by a fact row.
	KindReference TableKind = iota
	// KindHealthSystem marks care-delivery structure tables.
	KindHealthSystem
	// KindClinical marks person-level event tables.
	KindClinical
)

// Column describes one column of a CDM table.
type Column struct {
	Name     string
	Type     string
	Nullable bool
	Primary  bool
	Indexed  bool
	// RefTable/RefColumn declare the foreign key target, if any.
	RefTable  string
	RefColumn string
}

// Table describes one CDM table: its columns in declaration order plus the
// primary key used when reporting row-level findings.
type Table struct {
	Name    string
	Kind    TableKind
	Columns []Column
	// ExpectedDomains maps concept-FK column names to the vocabulary
	// domain their referenced concepts are expected to belong to.
	// Advisory metadata only; nothing enforces it at write time.
	ExpectedDomains map[string]ExpectedDomain
}

// ExpectedDomain states the advisory semantic constraint on a concept FK.
type ExpectedDomain struct {
	Domain string
	// AcceptZero treats concept id 0 ("unknown/unmapped") as conforming.
	// True for every CDM field; kept explicit so a strict profile can
	// flip it per column.
	AcceptZero bool
}

// Expect is shorthand for the common case: named domain, zero accepted.
func Expect(domain string) ExpectedDomain {
	return ExpectedDomain{Domain: domain, AcceptZero: true}
}

// PrimaryKey returns the names of the primary key columns in order.
func (t Table) PrimaryKey() []string {
	var pk []string
	for _, c := range t.Columns {
		if c.Primary {
			pk = append(pk, c.Name)
		}
	}
	return pk
}

// Column returns the named column descriptor.
func (t Table) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// ConceptColumns returns the columns that reference concept.concept_id.
func (t Table) ConceptColumns() []Column {
	var out []Column
	for _, c := range t.Columns {
		if c.RefTable == "concept" {
			out = append(out, c)
		}
	}
	return out
}

// Column factories. The CDM references concept.concept_id from hundreds of
// places; these keep the declarations honest about required vs optional.

// RequiredConceptFK declares a NOT NULL, indexed concept reference.
func RequiredConceptFK(name string) Column {
	return Column{
		Name:      name,
		Type:      "integer",
		Nullable:  false,
		Indexed:   true,
		RefTable:  "concept",
		RefColumn: "concept_id",
	}
}

// OptionalConceptFK declares a nullable, indexed concept reference.
func OptionalConceptFK(name string) Column {
	return Column{
		Name:      name,
		Type:      "integer",
		Nullable:  true,
		Indexed:   true,
		RefTable:  "concept",
		RefColumn: "concept_id",
	}
}

// FK declares a reference to another CDM table's primary key.
func FK(name, refTable, refColumn string, nullable bool) Column {
	return Column{
		Name:      name,
		Type:      "integer",
		Nullable:  nullable,
		Indexed:   true,
		RefTable:  refTable,
		RefColumn: refColumn,
	}
}

// Mixin column blocks, appended into table declarations.

// datedValidityColumns is the vocabulary validity window carried by every
// dated reference table (concept, drug_strength, ...).
func datedValidityColumns() []Column {
	return []Column{
		{Name: "valid_start_date", Type: "date"},
		{Name: "valid_end_date", Type: "date"},
		{Name: "invalid_reason", Type: "varchar(1)", Nullable: true},
	}
}

// sourceValueColumn is the verbatim source string kept next to a mapped
// concept FK.
func sourceValueColumn(name string) Column {
	return Column{Name: name, Type: "varchar(50)", Nullable: true}
}

// registry holds every declared table in bootstrap order: reference tables
// first, then health-system structure, then clinical facts.
var registry []Table

func register(t Table) Table {
	registry = append(registry, t)
	return t
}

// Tables returns all declared tables in bootstrap order.
func Tables() []Table {
	ordered := make([]Table, 0, len(registry))
	for _, kind := range []TableKind{KindReference, KindHealthSystem, KindClinical} {
		for _, t := range registry {
			if t.Kind == kind {
				ordered = append(ordered, t)
			}
		}
	}
	return ordered
}

// TableByName looks a declared table up by its SQL name.
func TableByName(name string) (Table, bool) {
	for _, t := range registry {
		if t.Name == name {
			return t, true
		}
	}
	return Table{}, false
}
