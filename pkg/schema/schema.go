// Package schema defines a table's shape: an ordered list of attributes,
// each with a declared domain and an optional primary-key flag.
package schema

import (
	"fmt"
	"strings"

	"github.com/marshallshelly/miniql/pkg/value"
)

// Attribute is one column definition. Names compare case-insensitively but
// preserve the case they were declared with for display (§3).
type Attribute struct {
	Name       string
	Domain     value.Kind
	PrimaryKey bool
}

// Schema is the ordered list of Attributes that gives a table its shape.
type Schema []Attribute

// New validates attrs (at most one primary key) and returns a Schema.
func New(attrs []Attribute) (Schema, error) {
	keys := 0
	for _, a := range attrs {
		if a.PrimaryKey {
			keys++
		}
	}
	if keys > 1 {
		return nil, fmt.Errorf("schema declares %d primary keys, at most one is allowed", keys)
	}
	s := make(Schema, len(attrs))
	copy(s, attrs)
	return s, nil
}

// KeyIndex returns the position of the primary-key attribute, or -1 if the
// schema is unkeyed.
func (s Schema) KeyIndex() int {
	for i, a := range s {
		if a.PrimaryKey {
			return i
		}
	}
	return -1
}

// HasKey reports whether the schema declares a primary key.
func (s Schema) HasKey() bool { return s.KeyIndex() >= 0 }

// Lookup resolves name to its position using a case-insensitive match,
// returning ok=false when no attribute matches.
func (s Schema) Lookup(name string) (int, bool) {
	for i, a := range s {
		if strings.EqualFold(a.Name, name) {
			return i, true
		}
	}
	return -1, false
}

// Rename returns a copy of s with attribute names replaced positionally.
// names must have the same length as s; domains and the primary-key flag
// are left unchanged.
func (s Schema) Rename(names []string) (Schema, error) {
	if len(names) != len(s) {
		return nil, fmt.Errorf("RENAME expects %d names, got %d", len(s), len(names))
	}
	out := make(Schema, len(s))
	for i, a := range s {
		out[i] = Attribute{Name: names[i], Domain: a.Domain, PrimaryKey: a.PrimaryKey}
	}
	return out, nil
}

// Names returns the attribute names in schema order.
func (s Schema) Names() []string {
	out := make([]string, len(s))
	for i, a := range s {
		out[i] = a.Name
	}
	return out
}

// Qualify returns a copy of s with every attribute name prefixed
// "<tableName>.", used to build the combined schema for a multi-table
// SELECT/LET cross product (§4.4, "Combined schema" in the glossary).
func Qualify(tableName string, s Schema) Schema {
	out := make(Schema, len(s))
	for i, a := range s {
		out[i] = Attribute{Name: tableName + "." + a.Name, Domain: a.Domain, PrimaryKey: a.PrimaryKey}
	}
	return out
}

// Combine concatenates schemas in order, used when forming the cross
// product of several tables for a joined SELECT/LET.
func Combine(schemas ...Schema) Schema {
	var out Schema
	for _, s := range schemas {
		out = append(out, s...)
	}
	return out
}
