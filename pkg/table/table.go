// Package table implements the tuple store: schema-validated rows, driven
// by an optional primary-key index for ordered retrieval (spec §4.1).
package table

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/marshallshelly/miniql/pkg/condition"
	"github.com/marshallshelly/miniql/pkg/index"
	"github.com/marshallshelly/miniql/pkg/schema"
	"github.com/marshallshelly/miniql/pkg/value"
)

// Tuple is one row, positionally aligned to its owning Table's schema.
type Tuple []value.Value

// At implements condition.Row so a *Tuple can be evaluated directly.
func (t Tuple) At(i int) value.Value { return t[i] }

// Clone returns a copy of t that does not alias t's storage.
func (t Tuple) Clone() Tuple {
	out := make(Tuple, len(t))
	copy(out, t)
	return out
}

// Table owns a schema, its rows in insertion order, and — when the schema
// declares a primary key — an ordered index over that key (spec §3).
type Table struct {
	Name   string
	Schema schema.Schema
	Rows   []*Tuple
	Index  *index.Tree // nil when Schema has no primary key
}

// New creates an empty table for the given schema.
func New(name string, s schema.Schema) *Table {
	t := &Table{Name: name, Schema: s}
	if s.HasKey() {
		t.Index = index.New()
	}
	return t
}

// Insert validates raw (one textual literal per schema position) end to
// end and, on success, appends the tuple and updates the index. Returns
// false plus a single diagnostic describing the first validation failure
// (spec §4.1: "First failure terminates validation").
func (t *Table) Insert(raw []string) (bool, string) {
	if len(raw) != len(t.Schema) {
		return false, fmt.Sprintf("insert into %s: expected %d values, got %d", t.Name, len(t.Schema), len(raw))
	}

	row := make(Tuple, len(t.Schema))
	keyIdx := t.Schema.KeyIndex()

	for i, a := range t.Schema {
		if i == keyIdx && strings.TrimSpace(raw[i]) == "" {
			return false, fmt.Sprintf("insert into %s: primary key %q cannot be null or blank", t.Name, a.Name)
		}
		v, err := value.ParseForDomain(raw[i], a.Domain)
		if err != nil {
			return false, fmt.Sprintf("insert into %s: column %q: %v", t.Name, a.Name, err)
		}
		row[i] = v
	}

	if keyIdx >= 0 {
		if _, exists := t.Index.Lookup(row[keyIdx]); exists {
			return false, fmt.Sprintf("insert into %s: duplicate key %v", t.Name, row[keyIdx])
		}
	}

	ref := &row
	t.Rows = append(t.Rows, ref)
	if keyIdx >= 0 {
		// Insert cannot fail here: the Lookup above already ruled out a
		// duplicate, and keyIdx is only ever a concrete non-null value.
		_ = t.Index.Insert(row[keyIdx], ref)
	}
	return true, ""
}

// orderedRefs returns every row reference in the table's canonical
// sequential order: ascending key order when keyed (spec §4.1/§4.2),
// otherwise insertion order.
func (t *Table) orderedRefs() []*Tuple {
	if t.Index == nil {
		out := make([]*Tuple, len(t.Rows))
		copy(out, t.Rows)
		return out
	}
	refs := t.Index.InOrder()
	out := make([]*Tuple, len(refs))
	for i, r := range refs {
		out[i] = r.(*Tuple)
	}
	return out
}

// Select returns every tuple matching cond (or all tuples when cond is
// nil), in the table's canonical sequential order.
func (t *Table) Select(cond *condition.Condition, diag io.Writer) []*Tuple {
	ordered := t.orderedRefs()
	if cond == nil {
		return ordered
	}
	out := make([]*Tuple, 0, len(ordered))
	for _, r := range ordered {
		if condition.Eval(cond, *r, t.Schema, diag) {
			out = append(out, r)
		}
	}
	return out
}

// MatchesCondition evaluates cond against a specific tuple using this
// table's schema (spec §4.1): a thin wrapper over condition.Eval.
func (t *Table) MatchesCondition(tup *Tuple, cond *condition.Condition, diag io.Writer) bool {
	return condition.Eval(cond, *tup, t.Schema, diag)
}

// Update applies patch (schema position -> raw literal) to every tuple
// matching cond (or all tuples when cond is nil). A position that fails
// its per-position check (domain, blank key, duplicate key) is skipped
// and a diagnostic recorded; the owning tuple is still counted as
// updated (spec §4.1). A write to the primary-key position re-keys the
// index rather than leaving a dangling entry (spec §9, open question 1).
func (t *Table) Update(cond *condition.Condition, patch map[int]string, diag io.Writer) (int, []string) {
	var diagnostics []string
	matched := t.Select(cond, diag)

	positions := make([]int, 0, len(patch))
	for pos := range patch {
		positions = append(positions, pos)
	}
	sort.Ints(positions)

	keyIdx := t.Schema.KeyIndex()

	for _, tup := range matched {
		oldKey := value.Value{}
		if keyIdx >= 0 {
			oldKey = (*tup)[keyIdx]
		}
		newKey := oldKey
		keyChanged := false

		for _, pos := range positions {
			raw := patch[pos]
			a := t.Schema[pos]

			v, err := value.ParseForDomain(raw, a.Domain)
			if err != nil {
				diagnostics = append(diagnostics, fmt.Sprintf("update %s: column %q: %v", t.Name, a.Name, err))
				continue
			}

			if pos == keyIdx {
				if v.IsBlank() {
					diagnostics = append(diagnostics, fmt.Sprintf("update %s: primary key %q cannot be null or blank", t.Name, a.Name))
					continue
				}
				if !value.Equal(v, oldKey) {
					if _, exists := t.Index.Lookup(v); exists {
						diagnostics = append(diagnostics, fmt.Sprintf("update %s: duplicate key %v", t.Name, v))
						continue
					}
					newKey = v
					keyChanged = true
				}
			}

			(*tup)[pos] = v
		}

		if keyChanged {
			t.Index.Delete(oldKey)
			_ = t.Index.Insert(newKey, tup)
		}
	}

	return len(matched), diagnostics
}

// Delete removes every tuple matching cond and returns the count. A nil
// cond clears the table and replaces the index with a fresh empty one
// (spec §4.1); this is the in-place clear Table.Delete(nil) performs —
// the executor-level DELETE without WHERE instead drops the whole table
// (spec §9, open question 3).
func (t *Table) Delete(cond *condition.Condition, diag io.Writer) int {
	if cond == nil {
		n := len(t.Rows)
		t.Rows = nil
		if t.Schema.HasKey() {
			t.Index = index.New()
		}
		return n
	}

	keyIdx := t.Schema.KeyIndex()
	kept := t.Rows[:0:0]
	removed := 0
	for _, tup := range t.Rows {
		if condition.Eval(cond, *tup, t.Schema, diag) {
			removed++
			if keyIdx >= 0 {
				t.Index.Delete((*tup)[keyIdx])
			}
			continue
		}
		kept = append(kept, tup)
	}
	t.Rows = kept
	return removed
}

// RenameAttributes replaces attribute names positionally, leaving domains
// and the primary-key flag unchanged (spec §4.1).
func (t *Table) RenameAttributes(names []string) error {
	renamed, err := t.Schema.Rename(names)
	if err != nil {
		return err
	}
	t.Schema = renamed
	return nil
}
