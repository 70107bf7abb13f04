// Package grammar is a small PEG engine. A grammar is a table of named rules
// whose bodies are plain expression values; matching produces a tree of
// Nodes tagged with the rule that produced them.
package grammar

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"
)

type RuleName string

// Rule is one named production. Inline rules contribute their children to
// the enclosing node instead of producing a node of their own. A rule with
// a Label is reported by that label when it fails, rather than by the
// terminals inside it.
type Rule struct {
	Name   RuleName
	Expr   Expr
	Inline bool
	Label  string
}

type Grammar struct {
	Start RuleName
	rules map[RuleName]Rule
}

// New builds a grammar, checking that the start rule and every referenced
// rule are defined.
func New(start RuleName, rules ...Rule) (*Grammar, error) {
	g := &Grammar{Start: start, rules: make(map[RuleName]Rule, len(rules))}
	for _, r := range rules {
		if _, dup := g.rules[r.Name]; dup {
			return nil, fmt.Errorf("grammar: rule %q defined twice", r.Name)
		}
		g.rules[r.Name] = r
	}
	return g, g.validate()
}

// Extend returns a new grammar with g's rules plus rules, starting at start.
// Rules in the extension replace rules of the same name.
func (g *Grammar) Extend(start RuleName, rules ...Rule) (*Grammar, error) {
	ext := &Grammar{Start: start, rules: make(map[RuleName]Rule, len(g.rules)+len(rules))}
	for name, r := range g.rules {
		ext.rules[name] = r
	}
	for _, r := range rules {
		ext.rules[r.Name] = r
	}
	return ext, ext.validate()
}

func (g *Grammar) validate() error {
	if _, ok := g.rules[g.Start]; !ok {
		return fmt.Errorf("grammar: start rule %q is not defined", g.Start)
	}
	for _, r := range g.rules {
		for _, ref := range refs(r.Expr) {
			if _, ok := g.rules[ref]; !ok {
				return fmt.Errorf("grammar: rule %q references undefined rule %q", r.Name, ref)
			}
		}
	}
	return nil
}

// Node is one matched rule. Start and End are byte offsets into the input.
type Node struct {
	Rule       RuleName
	Start, End int
	Text       string
	Children   []*Node
}

// Child returns the first direct child produced by rule, or nil.
func (n *Node) Child(rule RuleName) *Node {
	for _, c := range n.Children {
		if c.Rule == rule {
			return c
		}
	}
	return nil
}

// MatchError is a failed match. It carries the furthest position any
// alternative reached and what was expected there.
type MatchError struct {
	Offset   int
	Line     int
	Column   int
	Expected []string
	Found    string
}

func (e *MatchError) Error() string {
	return fmt.Sprintf("line %d, column %d: expected %s but %s found", e.Line, e.Column, describe(e.Expected), e.Found)
}

func describe(expected []string) string {
	switch len(expected) {
	case 0:
		return "nothing"
	case 1:
		return expected[0]
	case 2:
		return expected[0] + " or " + expected[1]
	}
	return strings.Join(expected[:len(expected)-1], ", ") + ", or " + expected[len(expected)-1]
}

// Match matches all of input against the start rule.
func (g *Grammar) Match(input string) (*Node, error) {
	return g.MatchRule(g.Start, input)
}

// MatchRule matches all of input against rule. The rule itself must consume
// the whole input; use EOF at the end of start rules.
func (g *Grammar) MatchRule(rule RuleName, input string) (*Node, error) {
	if _, ok := g.rules[rule]; !ok {
		return nil, fmt.Errorf("grammar: rule %q is not defined", rule)
	}
	m := &matcher{
		g:        g,
		input:    input,
		memo:     make(map[memoKey]memoEntry),
		expected: make(map[string]bool),
	}
	end, nodes, ok := Ref(rule).match(m, 0)
	if ok && end == len(input) {
		if len(nodes) == 1 {
			return nodes[0], nil
		}
		return &Node{Rule: rule, End: end, Text: input, Children: nodes}, nil
	}
	if ok {
		m.fail(end, "end of input")
	}
	return nil, m.error()
}

type memoKey struct {
	rule RuleName
	pos  int
}

type memoEntry struct {
	end   int
	nodes []*Node
	ok    bool
}

type matcher struct {
	g        *Grammar
	input    string
	memo     map[memoKey]memoEntry
	farthest int
	expected map[string]bool
	quiet    int
}

// fail records what was expected at pos.
func (m *matcher) fail(pos int, what string) {
	if m.quiet > 0 {
		return
	}
	if pos > m.farthest {
		m.farthest = pos
		m.expected = make(map[string]bool)
	}
	if pos == m.farthest {
		m.expected[what] = true
	}
}

func (m *matcher) error() *MatchError {
	line, col := 1, 1
	for _, r := range m.input[:m.farthest] {
		if r == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	found := "end of input"
	if m.farthest < len(m.input) {
		r, _ := utf8.DecodeRuneInString(m.input[m.farthest:])
		found = fmt.Sprintf("%q", r)
	}
	expected := make([]string, 0, len(m.expected))
	for e := range m.expected {
		expected = append(expected, e)
	}
	sort.Strings(expected)
	return &MatchError{Offset: m.farthest, Line: line, Column: col, Expected: expected, Found: found}
}

// Expr is a parsing expression. The implementations in this package are the
// only ones.
type Expr interface {
	match(m *matcher, pos int) (int, []*Node, bool)
}

// Lit matches literal text, ASCII case-insensitively when Fold is set.
type Lit struct {
	Text string
	Fold bool
}

// Class matches one rune that is in Chars or within one of Ranges.
type Class struct {
	Label  string
	Chars  string
	Ranges [][2]rune
}

// Seq matches each expression in turn.
type Seq []Expr

// Choice matches the first expression that succeeds.
type Choice []Expr

// Repeat matches Expr at least Min times and at most Max times; Max of zero
// means no upper bound.
type Repeat struct {
	Expr     Expr
	Min, Max int
}

// Ref matches the named rule.
type Ref RuleName

// Not succeeds, consuming nothing, when Expr does not match.
type Not struct{ Expr Expr }

// And succeeds, consuming nothing, when Expr matches.
type And struct{ Expr Expr }

// Any matches one rune.
type Any struct{}

// EOF matches the end of input.
type EOF struct{}

func (l Lit) match(m *matcher, pos int) (int, []*Node, bool) {
	end := pos + len(l.Text)
	if end <= len(m.input) {
		s := m.input[pos:end]
		if s == l.Text || (l.Fold && strings.EqualFold(s, l.Text)) {
			return end, nil, true
		}
	}
	m.fail(pos, fmt.Sprintf("%q", l.Text))
	return pos, nil, false
}

func (c Class) match(m *matcher, pos int) (int, []*Node, bool) {
	if pos < len(m.input) {
		r, size := utf8.DecodeRuneInString(m.input[pos:])
		if strings.ContainsRune(c.Chars, r) {
			return pos + size, nil, true
		}
		for _, rg := range c.Ranges {
			if r >= rg[0] && r <= rg[1] {
				return pos + size, nil, true
			}
		}
	}
	m.fail(pos, c.Label)
	return pos, nil, false
}

func (s Seq) match(m *matcher, pos int) (int, []*Node, bool) {
	var nodes []*Node
	cur := pos
	for _, e := range s {
		end, children, ok := e.match(m, cur)
		if !ok {
			return pos, nil, false
		}
		nodes = append(nodes, children...)
		cur = end
	}
	return cur, nodes, true
}

func (c Choice) match(m *matcher, pos int) (int, []*Node, bool) {
	for _, e := range c {
		if end, nodes, ok := e.match(m, pos); ok {
			return end, nodes, true
		}
	}
	return pos, nil, false
}

func (r Repeat) match(m *matcher, pos int) (int, []*Node, bool) {
	var nodes []*Node
	cur := pos
	count := 0
	for r.Max == 0 || count < r.Max {
		end, children, ok := r.Expr.match(m, cur)
		if !ok || end == cur {
			break
		}
		nodes = append(nodes, children...)
		cur = end
		count++
	}
	if count < r.Min {
		return pos, nil, false
	}
	return cur, nodes, true
}

func (r Ref) match(m *matcher, pos int) (int, []*Node, bool) {
	key := memoKey{RuleName(r), pos}
	rule := m.g.rules[RuleName(r)]
	if e, ok := m.memo[key]; ok {
		if !e.ok && rule.Label != "" {
			m.fail(pos, rule.Label)
		}
		return e.end, e.nodes, e.ok
	}
	if rule.Label != "" {
		m.quiet++
	}
	end, children, ok := rule.Expr.match(m, pos)
	if rule.Label != "" {
		m.quiet--
		if !ok {
			m.fail(pos, rule.Label)
		}
	}

	var nodes []*Node
	switch {
	case !ok:
		end = pos
	case rule.Inline:
		nodes = children
	default:
		nodes = []*Node{{
			Rule:     rule.Name,
			Start:    pos,
			End:      end,
			Text:     m.input[pos:end],
			Children: children,
		}}
	}
	m.memo[key] = memoEntry{end: end, nodes: nodes, ok: ok}
	return end, nodes, ok
}

func (n Not) match(m *matcher, pos int) (int, []*Node, bool) {
	m.quiet++
	_, _, ok := n.Expr.match(m, pos)
	m.quiet--
	return pos, nil, !ok
}

func (a And) match(m *matcher, pos int) (int, []*Node, bool) {
	m.quiet++
	_, _, ok := a.Expr.match(m, pos)
	m.quiet--
	return pos, nil, ok
}

func (Any) match(m *matcher, pos int) (int, []*Node, bool) {
	if pos < len(m.input) {
		_, size := utf8.DecodeRuneInString(m.input[pos:])
		return pos + size, nil, true
	}
	m.fail(pos, "any character")
	return pos, nil, false
}

func (EOF) match(m *matcher, pos int) (int, []*Node, bool) {
	if pos == len(m.input) {
		return pos, nil, true
	}
	m.fail(pos, "end of input")
	return pos, nil, false
}

func refs(e Expr) []RuleName {
	switch e := e.(type) {
	case Ref:
		return []RuleName{RuleName(e)}
	case Seq:
		var res []RuleName
		for _, x := range e {
			res = append(res, refs(x)...)
		}
		return res
	case Choice:
		var res []RuleName
		for _, x := range e {
			res = append(res, refs(x)...)
		}
		return res
	case Repeat:
		return refs(e.Expr)
	case Not:
		return refs(e.Expr)
	case And:
		return refs(e.Expr)
	}
	return nil
}

// Shorthands for writing rule tables.

func L(text string) Lit { return Lit{Text: text} }
func LI(text string) Lit { return Lit{Text: text, Fold: true} }
func S(exprs ...Expr) Seq { return Seq(exprs) }
func C(exprs ...Expr) Choice { return Choice(exprs) }
func Star(e Expr) Repeat { return Repeat{Expr: e} }
func Plus(e Expr) Repeat { return Repeat{Expr: e, Min: 1} }
func Opt(e Expr) Repeat { return Repeat{Expr: e, Max: 1} }
func R(name RuleName) Ref { return Ref(name) }
func Chars(label, chars string) Class { return Class{Label: label, Chars: chars} }

// Lits is a choice between literals, tried in the order given.
func Lits(texts ...string) Choice {
	c := make(Choice, len(texts))
	for i, t := range texts {
		c[i] = L(t)
	}
	return c
}
