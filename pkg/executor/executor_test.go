package executor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/marshallshelly/miniql/pkg/catalog"
)

func runAll(e *Executor, cmds ...string) {
	for _, c := range cmds {
		e.Execute(c)
	}
}

func newTestExecutor(t *testing.T) (*Executor, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	e := New(catalog.New(), &out)
	e.SnapshotPath = filepath.Join(t.TempDir(), "dbms_state.ser")
	return e, &out
}

// S1: keyed insert + ordered select (spec §8).
func TestKeyedInsertOrderedSelect(t *testing.T) {
	e, out := newTestExecutor(t)
	runAll(e,
		"CREATE DATABASE d",
		"USE d",
		"CREATE TABLE t (id INTEGER PRIMARY KEY, n TEXT)",
		`INSERT t VALUES (3, "c")`,
		`INSERT t VALUES (1, "a")`,
		`INSERT t VALUES (2, "b")`,
	)
	out.Reset()
	e.Execute("SELECT id, n FROM t")

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Equal(t, []string{
		"id\tn",
		"1.\t1\ta",
		"2.\t2\tb",
		"3.\t3\tc",
	}, lines)
}

// S2: duplicate key rejection (spec §8).
func TestDuplicateKeyRejection(t *testing.T) {
	e, out := newTestExecutor(t)
	runAll(e,
		"CREATE DATABASE d",
		"USE d",
		"CREATE TABLE t (id INTEGER PRIMARY KEY, n TEXT)",
		`INSERT t VALUES (3, "c")`,
		`INSERT t VALUES (1, "a")`,
		`INSERT t VALUES (2, "b")`,
	)
	out.Reset()
	e.Execute(`INSERT t VALUES (1, "x")`)
	require.Contains(t, out.String(), "duplicate key")

	out.Reset()
	e.Execute("SELECT id FROM t")
	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Equal(t, []string{
		"id",
		"1.\t1",
		"2.\t2",
		"3.\t3",
	}, lines)
}

// S3: compound condition (spec §8).
func TestCompoundCondition(t *testing.T) {
	e, out := newTestExecutor(t)
	runAll(e,
		"CREATE DATABASE d",
		"USE d",
		"CREATE TABLE t (id INTEGER PRIMARY KEY, n TEXT)",
		`INSERT t VALUES (3, "c")`,
		`INSERT t VALUES (1, "a")`,
		`INSERT t VALUES (2, "b")`,
	)
	out.Reset()
	e.Execute(`SELECT id FROM t WHERE id >= 2 AND n != "c"`)

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Equal(t, []string{
		"id",
		"1.\t2",
	}, lines)
}

// S4: cross-product join projection (spec §8).
func TestCrossProductJoinProjection(t *testing.T) {
	e, out := newTestExecutor(t)
	runAll(e,
		"CREATE DATABASE d",
		"USE d",
		"CREATE TABLE a (x INTEGER PRIMARY KEY)",
		"CREATE TABLE b (y INTEGER)",
		"INSERT a VALUES (1)",
		"INSERT a VALUES (2)",
		"INSERT b VALUES (10)",
		"INSERT b VALUES (20)",
	)
	out.Reset()
	e.Execute("SELECT a.x, b.y FROM a, b WHERE a.x < b.y")

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Equal(t, []string{
		"a.x\tb.y",
		"1.\t1\t10",
		"2.\t1\t20",
		"3.\t2\t10",
		"4.\t2\t20",
	}, lines)
}

// S5: DELETE without WHERE drops the table (spec §8, §9 open question 3).
func TestDeleteWithoutWhereDropsTable(t *testing.T) {
	e, out := newTestExecutor(t)
	runAll(e,
		"CREATE DATABASE d",
		"USE d",
		"CREATE TABLE t (id INTEGER PRIMARY KEY, n TEXT)",
		`INSERT t VALUES (3, "c")`,
		`INSERT t VALUES (1, "a")`,
		`INSERT t VALUES (2, "b")`,
		"DELETE t",
	)
	out.Reset()
	e.Execute("DESCRIBE t")
	require.Contains(t, out.String(), `table "t" does not exist`)
}

// S6: persistence round-trip (spec §8).
func TestPersistenceRoundTrip(t *testing.T) {
	e, out := newTestExecutor(t)
	runAll(e,
		"CREATE DATABASE d",
		"USE d",
		"CREATE TABLE t (id INTEGER PRIMARY KEY, n TEXT)",
		`INSERT t VALUES (3, "c")`,
		`INSERT t VALUES (1, "a")`,
		`INSERT t VALUES (2, "b")`,
	)
	e.Execute("EXIT")
	require.True(t, e.Exited)
	require.Equal(t, 0, e.ExitCode)

	reloaded, found, err := catalog.Load(e.SnapshotPath)
	require.NoError(t, err)
	require.True(t, found)

	e2 := New(reloaded, out)
	out.Reset()
	e2.Execute("USE d")
	e2.Execute("SHOW TABLES")
	require.Contains(t, out.String(), "t")

	out.Reset()
	e2.Execute("SELECT id FROM t")
	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Equal(t, []string{
		"id",
		"1.\t1",
		"2.\t2",
		"3.\t3",
	}, lines)
}

func TestInsertIntoSpellingRejected(t *testing.T) {
	e, out := newTestExecutor(t)
	runAll(e, "CREATE DATABASE d", "USE d", "CREATE TABLE t (id INTEGER PRIMARY KEY)")
	out.Reset()
	e.Execute(`INSERT INTO t VALUES (1)`)
	require.Contains(t, out.String(), "INSERT INTO is not supported")
}

func TestInsertTextLiteralOverThirtyCharsRejected(t *testing.T) {
	e, out := newTestExecutor(t)
	runAll(e, "CREATE DATABASE d", "USE d", "CREATE TABLE t (id INTEGER PRIMARY KEY, n TEXT)")
	out.Reset()

	long := strings.Repeat("x", 31)
	e.Execute(fmt.Sprintf(`INSERT t VALUES (1, "%s")`, long))
	require.Contains(t, out.String(), "exceeds 30 characters")

	out.Reset()
	e.Execute("SELECT id FROM t")
	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Equal(t, []string{"id", "Nothing found."}, lines, "the rejected insert must not have added a row")
}

func TestUpdateAllowsTextLiteralOverThirtyCharsUpToStoredLimit(t *testing.T) {
	e, out := newTestExecutor(t)
	runAll(e,
		"CREATE DATABASE d",
		"USE d",
		"CREATE TABLE t (id INTEGER PRIMARY KEY, n TEXT)",
		`INSERT t VALUES (1, "a")`,
	)
	out.Reset()

	longButStorable := strings.Repeat("y", 60)
	e.Execute(fmt.Sprintf(`UPDATE t SET n=%q WHERE id = 1`, longButStorable))
	require.Empty(t, out.String(), "UPDATE must only enforce the 100-char stored limit, not the 30-char INSERT cap")

	out.Reset()
	e.Execute("SELECT n FROM t")
	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Equal(t, []string{"n", "1.\t" + longButStorable}, lines)
}

func TestLetMaterializesKeyedProjection(t *testing.T) {
	e, out := newTestExecutor(t)
	runAll(e,
		"CREATE DATABASE d",
		"USE d",
		"CREATE TABLE t (id INTEGER PRIMARY KEY, n TEXT)",
		`INSERT t VALUES (1, "a")`,
		`INSERT t VALUES (2, "b")`,
		"LET s KEY id <SELECT id, n FROM t WHERE id = 2>",
	)
	out.Reset()
	e.Execute("SELECT id, n FROM s")
	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Equal(t, []string{
		"id\tn",
		"1.\t2\tb",
	}, lines)
}

func TestUpdateReKeysIndex(t *testing.T) {
	e, out := newTestExecutor(t)
	runAll(e,
		"CREATE DATABASE d",
		"USE d",
		"CREATE TABLE t (id INTEGER PRIMARY KEY, n TEXT)",
		`INSERT t VALUES (1, "a")`,
		"UPDATE t SET id=9 WHERE id = 1",
	)
	out.Reset()
	e.Execute("SELECT id FROM t")
	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Equal(t, []string{
		"id",
		"1.\t9",
	}, lines)
}

func TestSelectOnEmptyResultPrintsNothingFound(t *testing.T) {
	e, out := newTestExecutor(t)
	runAll(e, "CREATE DATABASE d", "USE d", "CREATE TABLE t (id INTEGER PRIMARY KEY)")
	out.Reset()
	e.Execute("SELECT id FROM t")
	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Equal(t, []string{"id", "Nothing found."}, lines)
}

func TestDescribeAndShowJSONMode(t *testing.T) {
	e, out := newTestExecutor(t)
	e.JSON = true
	runAll(e,
		"CREATE DATABASE d",
		"USE d",
		"CREATE TABLE t (id INTEGER PRIMARY KEY, n TEXT)",
		`INSERT t VALUES (1, "a")`,
	)

	out.Reset()
	e.Execute("DESCRIBE t")
	var described struct {
		Table      string `json:"table"`
		Attributes []struct {
			Name       string `json:"name"`
			Domain     string `json:"domain"`
			PrimaryKey bool   `json:"primaryKey"`
		} `json:"attributes"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &described))
	require.Equal(t, "t", described.Table)
	require.Len(t, described.Attributes, 2)
	require.True(t, described.Attributes[0].PrimaryKey)

	out.Reset()
	e.Execute("SHOW TABLES")
	var tables []string
	require.NoError(t, json.Unmarshal(out.Bytes(), &tables))
	require.Equal(t, []string{"t"}, tables)

	out.Reset()
	e.Execute("SHOW RECORDS t")
	var records struct {
		Table   string     `json:"table"`
		Columns []string   `json:"columns"`
		Rows    [][]string `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &records))
	require.Equal(t, []string{"id", "n"}, records.Columns)
	require.Equal(t, [][]string{{"1", "a"}}, records.Rows)
}
