package cdm

import (
	"fmt"
	"strings"
)

// DDL generation from the table descriptors. Used by the ddl subcommand and
// by test databases; a production CDM instance normally already carries the
// schema, so everything is IF NOT EXISTS.

// CreateTableSQL renders the CREATE TABLE statement for one table.
func CreateTableSQL(t Table) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s (\n", t.Name)

	for i, c := range t.Columns {
		fmt.Fprintf(&b, "    %s %s", c.Name, c.Type)
		if !c.Nullable && !c.Primary {
			b.WriteString(" NOT NULL")
		}
		if i < len(t.Columns)-1 || len(t.PrimaryKey()) > 0 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}

	if pk := t.PrimaryKey(); len(pk) > 0 {
		fmt.Fprintf(&b, "    PRIMARY KEY (%s)\n", strings.Join(pk, ", "))
	}

	b.WriteString(")")
	return b.String()
}

// CreateIndexSQL renders CREATE INDEX statements for the indexed,
// non-primary columns of one table.
func CreateIndexSQL(t Table) []string {
	var out []string
	for _, c := range t.Columns {
		if c.Indexed && !c.Primary {
			out = append(out, fmt.Sprintf(
				"CREATE INDEX IF NOT EXISTS idx_%s_%s ON %s (%s)",
				t.Name, c.Name, t.Name, c.Name))
		}
	}
	return out
}

// ForeignKeySQL renders ALTER TABLE statements adding the declared FKs.
// Emitted separately so all tables exist before constraints are applied.
// Self-referencing and concept FKs are included; vocabulary loads that
// predate constraint application should run with constraints deferred.
func ForeignKeySQL(t Table) []string {
	var out []string
	for _, c := range t.Columns {
		if c.RefTable == "" {
			continue
		}
		out = append(out, fmt.Sprintf(
			"ALTER TABLE %s ADD CONSTRAINT fk_%s_%s FOREIGN KEY (%s) REFERENCES %s (%s)",
			t.Name, t.Name, c.Name, c.Name, c.RefTable, c.RefColumn))
	}
	return out
}

// BootstrapSQL returns the full schema creation script in dependency order:
// tables (reference first), then indexes, then foreign keys.
func BootstrapSQL() []string {
	tables := Tables()
	var out []string
	for _, t := range tables {
		out = append(out, CreateTableSQL(t))
	}
	for _, t := range tables {
		out = append(out, CreateIndexSQL(t)...)
	}
	for _, t := range tables {
		out = append(out, ForeignKeySQL(t)...)
	}
	return out
}
