// Package catalog owns the process-wide set of databases plus the
// current-database selection (spec §3/§4.5) — the unit of persistence.
// A Catalog is passed explicitly into every command the executor runs;
// nothing here is held in a package-level global (spec §9).
package catalog

import (
	"fmt"

	"github.com/marshallshelly/miniql/pkg/table"
)

// Database is a mapping from table name (case-sensitive, spec §3) to
// Table, exclusively owned by its Catalog entry.
type Database struct {
	Name   string
	Tables map[string]*table.Table
}

// Catalog is the root of the serialized snapshot: every database plus the
// name of the one currently selected by USE (empty string if none).
type Catalog struct {
	Databases map[string]*Database
	Current   string
}

// New returns an empty Catalog, the starting state when no snapshot file
// is present or readable at startup (spec §4.5).
func New() *Catalog {
	return &Catalog{Databases: map[string]*Database{}}
}

// CreateDatabase adds name to the catalog. Returns an error (not a panic)
// when name already exists — the executor reports this as a diagnostic
// and does not switch the current database (spec §4.4).
func (c *Catalog) CreateDatabase(name string) error {
	if _, exists := c.Databases[name]; exists {
		return fmt.Errorf("database %q already exists", name)
	}
	c.Databases[name] = &Database{Name: name, Tables: map[string]*table.Table{}}
	return nil
}

// Use selects name as the current database, or returns an error if
// unknown (spec §4.4).
func (c *Catalog) Use(name string) error {
	if _, exists := c.Databases[name]; !exists {
		return fmt.Errorf("database %q does not exist", name)
	}
	c.Current = name
	return nil
}

// CurrentDatabase returns the database USE last selected, or an error if
// none has been selected yet or the selection is stale.
func (c *Catalog) CurrentDatabase() (*Database, error) {
	if c.Current == "" {
		return nil, fmt.Errorf("no database selected, run USE first")
	}
	db, ok := c.Databases[c.Current]
	if !ok {
		return nil, fmt.Errorf("current database %q no longer exists", c.Current)
	}
	return db, nil
}

// Table looks up name within db.
func (db *Database) Table(name string) (*table.Table, error) {
	t, ok := db.Tables[name]
	if !ok {
		return nil, fmt.Errorf("table %q does not exist", name)
	}
	return t, nil
}

// DropTable removes name from db, the executor-level effect of a WHERE-
// less DELETE (spec §4.4, §9 open question 3).
func (db *Database) DropTable(name string) error {
	if _, ok := db.Tables[name]; !ok {
		return fmt.Errorf("table %q does not exist", name)
	}
	delete(db.Tables, name)
	return nil
}
