package executor

import (
	"fmt"
	"strings"

	"github.com/marshallshelly/miniql/pkg/condition"
	"github.com/marshallshelly/miniql/pkg/schema"
	"github.com/marshallshelly/miniql/pkg/table"
	"github.com/marshallshelly/miniql/pkg/value"
)

// execInsert handles "INSERT table VALUES (v1, v2, ...)". The
// "INSERT INTO ..." spelling is explicitly rejected (spec §4.4).
func (e *Executor) execInsert(rest string) {
	tableName, tail := firstToken(rest)
	if strings.EqualFold(tableName, "INTO") {
		e.diagf("syntax error: INSERT INTO is not supported, use INSERT table VALUES (...)")
		return
	}

	kw, tail2 := firstWord(tail)
	if kw != "VALUES" {
		e.syntaxErrf("INSERT", "expected VALUES (...)")
		return
	}
	_, inside, _, ok := extractParenGroup(tail2)
	if !ok {
		e.syntaxErrf("INSERT", "malformed VALUES list")
		return
	}

	db, err := e.currentDB()
	if err != nil {
		e.diagf("error: %v", err)
		return
	}
	tbl, err := db.Table(tableName)
	if err != nil {
		e.diagf("error: %v", err)
		return
	}

	raw := splitArgsOnComma(inside)
	for i, v := range raw {
		raw[i] = stripQuotes(v)
	}

	// spec §6's literal lexicon caps a Text literal at 30 characters as it
	// appears in an INSERT command specifically — tighter than the 100
	// characters a Text value may occupy once stored (value.MaxTextLen),
	// which still governs UPDATE literals and reloaded snapshot rows.
	if len(raw) == len(tbl.Schema) {
		for i, a := range tbl.Schema {
			if a.Domain == value.KindText && len(raw[i]) > value.MaxInsertTextLen {
				e.constraintErrf(tableName, "column %q: text literal exceeds %d characters", a.Name, value.MaxInsertTextLen)
				return
			}
		}
	}

	if ok, diag := tbl.Insert(raw); !ok {
		e.constraintErrf(tableName, "%s", diag)
	}
}

// execUpdate handles "UPDATE table SET a=v [, a=v ...] [WHERE cond]".
func (e *Executor) execUpdate(rest string) {
	tableName, tail := firstToken(rest)
	db, err := e.currentDB()
	if err != nil {
		e.diagf("error: %v", err)
		return
	}
	tbl, err := db.Table(tableName)
	if err != nil {
		e.diagf("error: %v", err)
		return
	}

	kw, tail2 := firstWord(tail)
	if kw != "SET" {
		e.syntaxErrf("UPDATE", "expected SET")
		return
	}

	setsPart, wherePart, _ := splitKeyword(tail2, "WHERE")
	patch := map[int]string{}
	for _, assign := range splitArgsOnComma(setsPart) {
		eq := strings.IndexByte(assign, '=')
		if eq < 0 {
			e.syntaxErrf("UPDATE", "malformed assignment %q", assign)
			return
		}
		col := strings.TrimSpace(assign[:eq])
		raw := stripQuotes(strings.TrimSpace(assign[eq+1:]))
		idx, ok := tbl.Schema.Lookup(col)
		if !ok {
			e.diagf("error: unknown column %q", col)
			return
		}
		patch[idx] = raw
	}

	cond, err := condition.Parse(wherePart, tbl.Schema)
	if err != nil {
		e.diagf("syntax error: %v", err)
		return
	}
	_, diagnostics := tbl.Update(cond, patch, e.Out)
	for _, d := range diagnostics {
		e.diagf("%s", d)
	}
}

// execDelete handles "DELETE table [WHERE cond]". Without WHERE this
// drops the table from the database entirely (spec §4.4, §9 open
// question 3) — it is not the same as Table.Delete(nil), which merely
// clears the table in place.
func (e *Executor) execDelete(rest string) {
	tableName, tail := firstToken(rest)
	db, err := e.currentDB()
	if err != nil {
		e.diagf("error: %v", err)
		return
	}
	tbl, err := db.Table(tableName)
	if err != nil {
		e.diagf("error: %v", err)
		return
	}

	before, wherePart, hasWhere := splitKeyword(tail, "WHERE")
	if !hasWhere {
		if strings.TrimSpace(tail) != "" {
			e.diagf("syntax error: unexpected text after table name %q", tableName)
			return
		}
		if err := db.DropTable(tableName); err != nil {
			e.diagf("error: %v", err)
		}
		return
	}
	if strings.TrimSpace(before) != "" {
		e.diagf("syntax error: unexpected text before WHERE")
		return
	}
	cond, err := condition.Parse(wherePart, tbl.Schema)
	if err != nil {
		e.diagf("syntax error: %v", err)
		return
	}
	tbl.Delete(cond, e.Out)
}

// execSelectTop handles the top-level SELECT command.
func (e *Executor) execSelectTop(rest string) {
	colsPart, afterFrom, ok := splitKeyword(rest, "FROM")
	if !ok {
		e.diagf("syntax error: SELECT requires FROM")
		return
	}
	tablesPart, wherePart, _ := splitKeyword(afterFrom, "WHERE")

	cols := splitArgsOnComma(colsPart)
	tableNames := splitArgsOnComma(tablesPart)

	combined, rows, err := e.resolveSelect(tableNames, wherePart)
	if err != nil {
		e.diagf("error: %v", err)
		return
	}
	e.projectAndPrint(combined, rows, cols)
}

// execLet handles "LET name KEY attr <SELECT ...>" (spec §4.4; the
// angle-bracket form is the one accepted syntax, spec §9 open question 4).
func (e *Executor) execLet(rest string) {
	name, tail := firstToken(rest)
	kw, tail2 := firstWord(tail)
	if kw != "KEY" {
		e.diagf("syntax error: LET requires KEY attr <SELECT ...>")
		return
	}
	keyAttr, tail3 := firstToken(tail2)
	tail3 = strings.TrimSpace(tail3)

	if !strings.HasPrefix(tail3, "<") || !strings.HasSuffix(tail3, ">") {
		e.diagf("syntax error: LET requires the <SELECT ...> form")
		return
	}
	inner := strings.TrimSpace(tail3[1 : len(tail3)-1])
	innerVerb, innerRest := firstWord(inner)
	if innerVerb != "SELECT" {
		e.diagf("syntax error: LET body must be a SELECT")
		return
	}

	colsPart, afterFrom, ok := splitKeyword(innerRest, "FROM")
	if !ok {
		e.diagf("syntax error: SELECT requires FROM")
		return
	}
	tablesPart, wherePart, _ := splitKeyword(afterFrom, "WHERE")
	cols := splitArgsOnComma(colsPart)
	tableNames := splitArgsOnComma(tablesPart)

	combined, rows, err := e.resolveSelect(tableNames, wherePart)
	if err != nil {
		e.diagf("error: %v", err)
		return
	}

	keyBare := keyAttr
	if dot := strings.LastIndexByte(keyBare, '.'); dot >= 0 {
		keyBare = keyBare[dot+1:]
	}

	newAttrs := make([]schema.Attribute, len(cols))
	indices := make([]int, len(cols))
	keyFound := false
	for i, c := range cols {
		idx, ok := projectColumn(combined, c)
		if !ok {
			e.diagf("error: unknown column %q", c)
			return
		}
		displayName := combined[idx].Name
		if dot := strings.LastIndexByte(displayName, '.'); dot >= 0 {
			displayName = displayName[dot+1:]
		}
		isKey := strings.EqualFold(displayName, keyBare)
		if isKey {
			keyFound = true
		}
		newAttrs[i] = schema.Attribute{Name: displayName, Domain: combined[idx].Domain, PrimaryKey: isKey}
		indices[i] = idx
	}
	if !keyFound {
		e.diagf("error: LET key attribute %q does not appear in the projection", keyAttr)
		return
	}

	sch, err := schema.New(newAttrs)
	if err != nil {
		e.diagf("error: %v", err)
		return
	}

	db, err := e.currentDB()
	if err != nil {
		e.diagf("error: %v", err)
		return
	}
	if _, exists := db.Tables[name]; exists {
		e.diagf("error: table %q already exists", name)
		return
	}

	newTbl := table.New(name, sch)
	for _, row := range rows {
		raw := make([]string, len(indices))
		for i, idx := range indices {
			raw[i] = row[idx].String()
		}
		if ok, diag := newTbl.Insert(raw); !ok {
			e.diagf("error: %s", diag)
		}
	}
	db.Tables[name] = newTbl
}

// resolveSelect looks up tableNames in the current database, parses
// wherePart against the appropriate schema (the table's own schema for a
// single table, the qualified combined schema for a cross product — spec
// §4.4), and returns the matching rows in the table's/cross-product's
// canonical order.
func (e *Executor) resolveSelect(tableNames []string, wherePart string) (schema.Schema, []table.Tuple, error) {
	db, err := e.currentDB()
	if err != nil {
		return nil, nil, err
	}

	tbls := make([]*table.Table, len(tableNames))
	for i, n := range tableNames {
		tbls[i], err = db.Table(n)
		if err != nil {
			return nil, nil, err
		}
	}

	if len(tbls) == 1 {
		sch := tbls[0].Schema
		cond, err := condition.Parse(wherePart, sch)
		if err != nil {
			return nil, nil, err
		}
		refs := tbls[0].Select(cond, e.Out)
		out := make([]table.Tuple, len(refs))
		for i, r := range refs {
			out[i] = *r
		}
		return sch, out, nil
	}

	combined := buildJoinedSchema(tbls)
	cond, err := condition.Parse(wherePart, combined)
	if err != nil {
		return nil, nil, err
	}
	all := e.crossProductRows(tbls)
	out := make([]table.Tuple, 0, len(all))
	for _, row := range all {
		if condition.Eval(cond, row, combined, e.Out) {
			out = append(out, row)
		}
	}
	return combined, out, nil
}

func buildJoinedSchema(tables []*table.Table) schema.Schema {
	qs := make([]schema.Schema, len(tables))
	for i, t := range tables {
		qs[i] = schema.Qualify(t.Name, t.Schema)
	}
	return schema.Combine(qs...)
}

// crossProductRows forms the cross product of tables' row sequences in
// the order the tables appear (spec §4.4 "Multi-table form"). Each
// table contributes its rows in its own canonical order; a nil
// condition here never writes a diagnostic, so reusing e.Out is safe.
func (e *Executor) crossProductRows(tables []*table.Table) []table.Tuple {
	combos := []table.Tuple{{}}
	for _, t := range tables {
		refs := t.Select(nil, e.Out)
		var next []table.Tuple
		for _, combo := range combos {
			for _, r := range refs {
				merged := make(table.Tuple, 0, len(combo)+len(*r))
				merged = append(merged, combo...)
				merged = append(merged, (*r)...)
				next = append(next, merged)
			}
		}
		combos = next
	}
	return combos
}

// projectColumn resolves name against sch: first by exact
// case-insensitive match, then by suffix match against the part after
// "." — the fallback spec §4.4 describes for unqualified names in a
// multi-table projection.
func projectColumn(sch schema.Schema, name string) (int, bool) {
	if idx, ok := sch.Lookup(name); ok {
		return idx, true
	}
	for i, a := range sch {
		if dot := strings.LastIndexByte(a.Name, '.'); dot >= 0 {
			if strings.EqualFold(a.Name[dot+1:], name) {
				return i, true
			}
		}
	}
	return -1, false
}

// projectAndPrint resolves cols against sch, prints the tab-separated
// header, then one "N. ..." line per row, or "Nothing found." when rows
// is empty (spec §4.4/§6).
func (e *Executor) projectAndPrint(sch schema.Schema, rows []table.Tuple, cols []string) {
	indices := make([]int, len(cols))
	headers := make([]string, len(cols))
	for i, c := range cols {
		idx, ok := projectColumn(sch, c)
		if !ok {
			e.diagf("error: unknown column %q", c)
			return
		}
		indices[i] = idx
		headers[i] = sch[idx].Name
	}

	values := make([][]string, len(rows))
	for i, row := range rows {
		cells := make([]string, len(indices))
		for j, idx := range indices {
			cells[j] = row[idx].String()
		}
		values[i] = cells
	}
	e.printRows(headers, values)
}

func (e *Executor) printRows(header []string, rows [][]string) {
	fmt.Fprintln(e.Out, strings.Join(header, "\t"))
	if len(rows) == 0 {
		fmt.Fprintln(e.Out, "Nothing found.")
		return
	}
	for i, row := range rows {
		fmt.Fprintf(e.Out, "%d.\t%s\n", i+1, strings.Join(row, "\t"))
	}
}

func rowsToStrings(sch schema.Schema, refs []*table.Tuple) [][]string {
	out := make([][]string, len(refs))
	for i, r := range refs {
		vals := make([]string, len(sch))
		for j := range sch {
			vals[j] = (*r)[j].String()
		}
		out[i] = vals
	}
	return out
}
