package condition

import (
	"bytes"
	"testing"

	"github.com/marshallshelly/miniql/pkg/schema"
	"github.com/marshallshelly/miniql/pkg/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row []value.Value

func (r row) At(i int) value.Value { return r[i] }

func testSchema(t *testing.T) schema.Schema {
	s, err := schema.New([]schema.Attribute{
		{Name: "id", Domain: value.KindInteger, PrimaryKey: true},
		{Name: "n", Domain: value.KindText},
	})
	require.NoError(t, err)
	return s
}

func TestParseSimpleComparison(t *testing.T) {
	s := testSchema(t)
	c, err := Parse(`id >= 2`, s)
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, KindCmp, c.Kind)
	assert.Equal(t, ">=", c.Op)
}

func TestWhitespaceInsensitiveOperators(t *testing.T) {
	s := testSchema(t)
	a, err := Parse(`id>=3`, s)
	require.NoError(t, err)
	b, err := Parse(`id >= 3`, s)
	require.NoError(t, err)
	assert.Equal(t, a.Op, b.Op)
	assert.Equal(t, a.RightLit, b.RightLit)
}

func TestAndOrPrecedence(t *testing.T) {
	s := testSchema(t)
	c, err := Parse(`id >= 2 AND n != "c" OR id = 9`, s)
	require.NoError(t, err)
	require.Equal(t, KindOr, c.Kind)
	assert.Equal(t, KindAnd, c.Left.Kind)
}

func TestCompoundEvaluation(t *testing.T) {
	s := testSchema(t)
	c, err := Parse(`id >= 2 AND n != "c"`, s)
	require.NoError(t, err)

	var diag bytes.Buffer
	assert.True(t, Eval(c, row{value.NewInt(2), value.NewText("b")}, s, &diag))
	assert.False(t, Eval(c, row{value.NewInt(2), value.NewText("c")}, s, &diag))
	assert.False(t, Eval(c, row{value.NewInt(1), value.NewText("b")}, s, &diag))
}

func TestDeMorganEquivalences(t *testing.T) {
	s := testSchema(t)
	r := row{value.NewInt(5), value.NewText("x")}
	var diag bytes.Buffer

	c1, err := Parse(`id > 1`, s)
	require.NoError(t, err)
	c2, err := Parse(`n = "x"`, s)
	require.NoError(t, err)

	and := &Condition{Kind: KindAnd, Left: c1, Right: c2}
	or := &Condition{Kind: KindOr, Left: c1, Right: c2}

	assert.Equal(t, Eval(c1, r, s, &diag) && Eval(c2, r, s, &diag), Eval(and, r, s, &diag))
	assert.Equal(t, Eval(c1, r, s, &diag) || Eval(c2, r, s, &diag), Eval(or, r, s, &diag))
}

func TestParenthesizationDoesNotChangeTruth(t *testing.T) {
	s := testSchema(t)
	r := row{value.NewInt(5), value.NewText("x")}
	var diag bytes.Buffer

	plain, err := Parse(`id > 1 AND n = "x"`, s)
	require.NoError(t, err)
	wrapped, err := Parse(`(id > 1 AND n = "x")`, s)
	require.NoError(t, err)
	doubleWrapped, err := Parse(`((id > 1) AND (n = "x"))`, s)
	require.NoError(t, err)

	assert.Equal(t, Eval(plain, r, s, &diag), Eval(wrapped, r, s, &diag))
	assert.Equal(t, Eval(plain, r, s, &diag), Eval(doubleWrapped, r, s, &diag))
}

func TestAttributeToAttributeComparison(t *testing.T) {
	s, err := schema.New([]schema.Attribute{
		{Name: "x", Domain: value.KindInteger},
		{Name: "y", Domain: value.KindInteger},
	})
	require.NoError(t, err)

	c, err := Parse(`x < y`, s)
	require.NoError(t, err)
	assert.True(t, c.RightIsAttr)

	var diag bytes.Buffer
	assert.True(t, Eval(c, row{value.NewInt(1), value.NewInt(10)}, s, &diag))
	assert.False(t, Eval(c, row{value.NewInt(20), value.NewInt(10)}, s, &diag))
}

func TestUnknownAttributeIsFalseWithDiagnostic(t *testing.T) {
	s := testSchema(t)
	c := &Condition{Kind: KindCmp, Attr: "nope", Op: "=", RightLit: "1"}
	var diag bytes.Buffer
	assert.False(t, Eval(c, row{value.NewInt(1), value.NewText("a")}, s, &diag))
	assert.Contains(t, diag.String(), "unknown attribute")
}

func TestEmptyConditionMatchesEverything(t *testing.T) {
	s := testSchema(t)
	c, err := Parse("", s)
	require.NoError(t, err)
	assert.Nil(t, c)

	var diag bytes.Buffer
	assert.True(t, Eval(c, row{value.NewInt(1), value.NewText("a")}, s, &diag))
}
