package executor

import (
	"encoding/json"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/marshallshelly/miniql/pkg/catalog"
	"github.com/marshallshelly/miniql/pkg/schema"
	"github.com/marshallshelly/miniql/pkg/table"
	"github.com/marshallshelly/miniql/pkg/value"
)

func (e *Executor) currentDB() (*catalog.Database, error) {
	return e.Cat.CurrentDatabase()
}

// execCreate handles both "CREATE DATABASE name" and
// "CREATE TABLE name (attrDef, ...)" (spec §4.4).
func (e *Executor) execCreate(rest string) {
	kind, tail := firstWord(rest)
	switch kind {
	case "DATABASE":
		name := strings.TrimSpace(tail)
		if name == "" {
			e.diagf("syntax error: CREATE DATABASE requires a name")
			return
		}
		if err := e.Cat.CreateDatabase(name); err != nil {
			e.diagf("error: %v", err)
		}
	case "TABLE":
		e.execCreateTable(tail)
	default:
		e.diagf("syntax error: CREATE must be followed by DATABASE or TABLE")
	}
}

func (e *Executor) execCreateTable(tail string) {
	name, inside, _, ok := extractParenGroup(tail)
	if name == "" || !ok {
		e.diagf("syntax error: malformed CREATE TABLE, expected name (attr dom [PRIMARY KEY], ...)")
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

	var attrs []schema.Attribute
	for _, def := range splitArgsOnComma(inside) {
		toks := fields(def)
		if len(toks) < 2 {
			e.diagf("syntax error: malformed attribute definition %q", def)
			return
		}
		var domain value.Kind
		switch strings.ToUpper(toks[1]) {
		case "INTEGER":
			domain = value.KindInteger
		case "FLOAT":
			domain = value.KindFloat
		case "TEXT":
			domain = value.KindText
		default:
			e.diagf("syntax error: unknown domain %q for attribute %q", toks[1], toks[0])
			return
		}
		// Both PRIMARY and KEY are required (spec §9, open question 6's
		// stricter option): a bare PRIMARY never marks a key here.
		primaryKey := len(toks) >= 4 && strings.EqualFold(toks[2], "PRIMARY") && strings.EqualFold(toks[3], "KEY")
		attrs = append(attrs, schema.Attribute{Name: toks[0], Domain: domain, PrimaryKey: primaryKey})
	}

	sch, err := schema.New(attrs)
	if err != nil {
		e.diagf("error: %v", err)
		return
	}
	db.Tables[name] = table.New(name, sch)
}

func (e *Executor) execUse(rest string) {
	name := strings.TrimSpace(rest)
	if name == "" {
		e.diagf("syntax error: USE requires a database name")
		return
	}
	if err := e.Cat.Use(name); err != nil {
		e.diagf("error: %v", err)
	}
}

func (e *Executor) execDescribe(rest string) {
	name := strings.TrimSpace(rest)
	if name == "" {
		e.diagf("syntax error: DESCRIBE requires a table name or ALL")
		return
	}
	db, err := e.currentDB()
	if err != nil {
		e.diagf("error: %v", err)
		return
	}

	if strings.EqualFold(name, "ALL") {
		names := make([]string, 0, len(db.Tables))
		for n := range db.Tables {
			names = append(names, n)
		}
		sort.Strings(names)
		if e.JSON {
			all := make([]describeJSON, len(names))
			for i, n := range names {
				all[i] = describeTable(db.Tables[n])
			}
			e.writeJSON(all)
			return
		}
		for _, n := range names {
			e.printSchema(db.Tables[n])
		}
		return
	}

	tbl, err := db.Table(name)
	if err != nil {
		e.diagf("error: %v", err)
		return
	}
	if e.JSON {
		e.writeJSON(describeTable(tbl))
		return
	}
	e.printSchema(tbl)
}

// describeJSON/attrJSON mirror printSchema's content as a JSON-encodable
// shape for the --json output mode (SPEC_FULL.md §4.6).
type describeJSON struct {
	Table      string     `json:"table"`
	Attributes []attrJSON `json:"attributes"`
}

type attrJSON struct {
	Name       string `json:"name"`
	Domain     string `json:"domain"`
	PrimaryKey bool   `json:"primaryKey"`
}

func describeTable(tbl *table.Table) describeJSON {
	attrs := make([]attrJSON, len(tbl.Schema))
	for i, a := range tbl.Schema {
		attrs[i] = attrJSON{Name: a.Name, Domain: a.Domain.String(), PrimaryKey: a.PrimaryKey}
	}
	return describeJSON{Table: tbl.Name, Attributes: attrs}
}

func (e *Executor) writeJSON(v interface{}) {
	enc := json.NewEncoder(e.Out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		e.diagf("error: failed to encode JSON: %v", err)
	}
}

func (e *Executor) printSchema(tbl *table.Table) {
	w := tabwriter.NewWriter(e.Out, 0, 4, 2, ' ', 0)
	_, _ = w.Write([]byte("Table: " + tbl.Name + "\n"))
	for _, a := range tbl.Schema {
		line := a.Name + "\t" + a.Domain.String()
		if a.PrimaryKey {
			line += "\tPRIMARY KEY"
		}
		_, _ = w.Write([]byte(line + "\n"))
	}
	_ = w.Flush()
}

func (e *Executor) execRename(rest string) {
	name, inside, _, ok := extractParenGroup(rest)
	if name == "" || !ok {
		e.diagf("syntax error: malformed RENAME, expected name (n1, n2, ...)")
		return
	}
	db, err := e.currentDB()
	if err != nil {
		e.diagf("error: %v", err)
		return
	}
	tbl, err := db.Table(name)
	if err != nil {
		e.diagf("error: %v", err)
		return
	}
	names := splitArgsOnComma(inside)
	if err := tbl.RenameAttributes(names); err != nil {
		e.diagf("error: %v", err)
	}
}

func (e *Executor) execShow(rest string) {
	kind, tail := firstWord(rest)
	switch kind {
	case "DATABASES":
		names := make([]string, 0, len(e.Cat.Databases))
		for n := range e.Cat.Databases {
			names = append(names, n)
		}
		sort.Strings(names)
		if e.JSON {
			e.writeJSON(names)
			return
		}
		for _, n := range names {
			e.diagf("%s", n)
		}
	case "TABLES":
		db, err := e.currentDB()
		if err != nil {
			e.diagf("error: %v", err)
			return
		}
		names := make([]string, 0, len(db.Tables))
		for n := range db.Tables {
			names = append(names, n)
		}
		sort.Strings(names)
		if e.JSON {
			e.writeJSON(names)
			return
		}
		for _, n := range names {
			e.diagf("%s", n)
		}
	case "RECORDS":
		tableName := strings.TrimSpace(tail)
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
		rows := rowsToStrings(tbl.Schema, tbl.Select(nil, e.Out))
		if e.JSON {
			e.writeJSON(recordsJSON{Table: tbl.Name, Columns: tbl.Schema.Names(), Rows: rows})
			return
		}
		e.printRows(tbl.Schema.Names(), rows)
	default:
		e.diagf("syntax error: SHOW must be followed by DATABASES, TABLES, or RECORDS")
	}
}

// recordsJSON is SHOW RECORDS' --json shape.
type recordsJSON struct {
	Table   string     `json:"table"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}
