package grammar

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRejectsUndefinedRules(t *testing.T) {
	assert := assert.New(t)

	_, err := New("Start", Rule{Name: "Start", Expr: R("Missing")})
	assert.ErrorContains(err, `undefined rule "Missing"`)

	_, err = New("Nope", Rule{Name: "Start", Expr: L("a")})
	assert.ErrorContains(err, `start rule "Nope"`)

	_, err = New("Start", Rule{Name: "Start", Expr: L("a")}, Rule{Name: "Start", Expr: L("b")})
	assert.ErrorContains(err, "defined twice")
}

func TestMatchBuildsTree(t *testing.T) {
	assert := assert.New(t)
	g, err := New("List",
		Rule{Name: "List", Expr: S(R("Item"), Star(S(L(","), R("Item"))), EOF{})},
		Rule{Name: "Item", Expr: Plus(Class{Label: "digit", Ranges: [][2]rune{{'0', '9'}}})},
	)
	assert.NoError(err)

	n, err := g.Match("12,3,456")
	assert.NoError(err)
	assert.Equal(RuleName("List"), n.Rule)
	assert.Len(n.Children, 3)
	assert.Equal("456", n.Children[2].Text)
	assert.Equal(5, n.Children[2].Start)
	assert.Equal(8, n.Children[2].End)
	assert.Equal("12", n.Child("Item").Text)
	assert.Nil(n.Child("Other"))
}

func TestInlineRulesHoistChildren(t *testing.T) {
	g, err := New("Top",
		Rule{Name: "Top", Expr: S(R("Pair"), EOF{})},
		Rule{Name: "Pair", Inline: true, Expr: S(R("A"), R("B"))},
		Rule{Name: "A", Expr: L("a")},
		Rule{Name: "B", Expr: L("b")},
	)
	assert.NoError(t, err)
	n, err := g.Match("ab")
	assert.NoError(t, err)
	assert.Equal(t, []RuleName{"A", "B"}, []RuleName{n.Children[0].Rule, n.Children[1].Rule})
}

func TestChoiceIsOrdered(t *testing.T) {
	g, _ := New("Top",
		Rule{Name: "Top", Expr: S(C(R("Short"), R("Long")), EOF{})},
		Rule{Name: "Short", Expr: L("ab")},
		Rule{Name: "Long", Expr: L("abc")},
	)
	// the first alternative wins and there is no backtracking into the choice
	_, err := g.Match("abc")
	assert.Error(t, err)

	_, err = g.Match("ab")
	assert.NoError(t, err)
}

func TestLookahead(t *testing.T) {
	g, _ := New("Top",
		Rule{Name: "Top", Expr: S(Not{L("x")}, Any{}, And{L("!")}, L("!"), EOF{})},
	)
	_, err := g.Match("a!")
	assert.NoError(t, err)
	_, err = g.Match("x!")
	assert.Error(t, err)
	_, err = g.Match("aa")
	assert.Error(t, err)
}

func TestCaseFolding(t *testing.T) {
	g, _ := New("Top", Rule{Name: "Top", Expr: S(LI("sus"), EOF{})})
	for _, in := range []string{"sus", "SUS", "Sus"} {
		_, err := g.Match(in)
		assert.NoError(t, err, in)
	}
}

func TestMatchErrorReportsFurthestPosition(t *testing.T) {
	assert := assert.New(t)
	g, _ := New("Top",
		Rule{Name: "Top", Expr: S(Star(R("Line")), EOF{})},
		Rule{Name: "Line", Expr: S(C(L("ab"), L("ac")), L("\n"))},
	)
	_, err := g.Match("ab\nac\nax\n")

	var me *MatchError
	assert.True(errors.As(err, &me))
	assert.Equal(3, me.Line)
	assert.Equal(1, me.Column)
	assert.Equal(6, me.Offset)
	assert.Equal(`'a'`, me.Found)
	assert.Equal([]string{`"ab"`, `"ac"`, "end of input"}, me.Expected)
	assert.Equal(`line 3, column 1: expected "ab", "ac", or end of input but 'a' found`, me.Error())
}

func TestLabelsHideInnerTerminals(t *testing.T) {
	assert := assert.New(t)
	g, _ := New("Top",
		Rule{Name: "Top", Expr: S(R("Num"), L(";"), R("Num"), EOF{})},
		Rule{Name: "Num", Label: "number", Expr: Lits("1", "2", "3")},
	)
	_, err := g.Match("1;x")
	var me *MatchError
	assert.True(errors.As(err, &me))
	assert.Equal([]string{"number"}, me.Expected)
	assert.Equal(3, me.Column)
}

func TestPartialMatchExpectsEndOfInput(t *testing.T) {
	g, _ := New("Top", Rule{Name: "Top", Expr: L("a")})
	_, err := g.Match("ab")
	var me *MatchError
	assert.True(t, errors.As(err, &me))
	assert.Equal(t, 1, me.Offset)
	assert.Contains(t, me.Expected, "end of input")
}

func TestExtendReplacesRules(t *testing.T) {
	assert := assert.New(t)
	base, _ := New("Top",
		Rule{Name: "Top", Expr: S(R("Word"), EOF{})},
		Rule{Name: "Word", Expr: L("a")},
	)
	ext, err := base.Extend("Top", Rule{Name: "Word", Expr: L("b")})
	assert.NoError(err)

	_, err = ext.Match("b")
	assert.NoError(err)
	_, err = base.Match("b")
	assert.Error(err)

	_, err = base.Extend("Nowhere")
	assert.Error(err)
}

func TestRepeatBounds(t *testing.T) {
	g, _ := New("Top", Rule{Name: "Top", Expr: S(Repeat{Expr: L("a"), Min: 2, Max: 3}, EOF{})})
	for in, ok := range map[string]bool{"a": false, "aa": true, "aaa": true, "aaaa": false} {
		_, err := g.Match(in)
		assert.Equal(t, ok, err == nil, in)
	}
}

func TestMatchRuleUnknown(t *testing.T) {
	_, err := ChordGrammar.MatchRule("Nope", "C")
	assert.Error(t, err)
}
