package element

import (
	"fmt"
	"math"
	"strconv"
	"unicode"

	"github.com/sarchlab/relaylogic/core"
	"github.com/sarchlab/relaylogic/timeval"
)

// Math evaluates a fixed arithmetic expression over N free variables
// x0..x(N-1), parsed once at construction time and re-evaluated every tick
// from the current input-port values. The grammar is small enough that a
// hand-written recursive-descent parser beats pulling in an expression
// dependency.
type Math struct {
	core.Base
	inputs []*core.Port
	out    *core.Port
	expr   exprNode
}

// NewMath parses expr (free variables named x0..x(numVars-1)) and
// constructs a Math element with numVars float input ports.
func NewMath(name string, expr string, numVars int) (*Math, error) {
	node, err := parseExpr(expr)
	if err != nil {
		return nil, fmt.Errorf("math: parsing %q: %w", expr, err)
	}
	m := &Math{Base: core.NewBase(name, core.TypeMath), expr: node}
	for i := 0; i < numVars; i++ {
		m.inputs = append(m.inputs, m.AddInput(m, fmt.Sprintf("x%d", i), core.KindFloat))
	}
	m.out = m.AddOutput(m, "out", core.KindFloat)
	return m, nil
}

// Update populates the expression's variables from the input ports and
// evaluates it to the output port.
func (m *Math) Update(timeval.Time) {
	vars := make([]float64, len(m.inputs))
	for i, in := range m.inputs {
		vars[i] = float64(in.GetFloat())
	}
	m.out.SetFloat(float32(m.expr.eval(vars)))
}

// --- expression grammar ------------------------------------------------
//
//   expr   := term (('+' | '-') term)*
//   term   := unary (('*' | '/') unary)*
//   unary  := '-' unary | primary
//   primary:= number | 'x' digits | '(' expr ')'

type exprNode interface {
	eval(vars []float64) float64
}

type constNode float64

func (c constNode) eval([]float64) float64 { return float64(c) }

type varNode int

func (v varNode) eval(vars []float64) float64 {
	if int(v) < 0 || int(v) >= len(vars) {
		return 0
	}
	return vars[v]
}

type binNode struct {
	op       byte
	lhs, rhs exprNode
}

func (b binNode) eval(vars []float64) float64 {
	l, r := b.lhs.eval(vars), b.rhs.eval(vars)
	switch b.op {
	case '+':
		return l + r
	case '-':
		return l - r
	case '*':
		return l * r
	case '/':
		if r == 0 {
			return math.NaN()
		}
		return l / r
	}
	return 0
}

type negNode struct{ operand exprNode }

func (n negNode) eval(vars []float64) float64 { return -n.operand.eval(vars) }

type exprParser struct {
	s   string
	pos int
}

func parseExpr(s string) (exprNode, error) {
	p := &exprParser{s: s}
	node, err := p.parseSum()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.s) {
		return nil, fmt.Errorf("unexpected trailing input at %d", p.pos)
	}
	return node, nil
}

func (p *exprParser) skipSpace() {
	for p.pos < len(p.s) && unicode.IsSpace(rune(p.s[p.pos])) {
		p.pos++
	}
}

func (p *exprParser) peek() byte {
	p.skipSpace()
	if p.pos >= len(p.s) {
		return 0
	}
	return p.s[p.pos]
}

func (p *exprParser) parseSum() (exprNode, error) {
	node, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		op := p.peek()
		if op != '+' && op != '-' {
			return node, nil
		}
		p.pos++
		rhs, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		node = binNode{op: op, lhs: node, rhs: rhs}
	}
}

func (p *exprParser) parseTerm() (exprNode, error) {
	node, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		op := p.peek()
		if op != '*' && op != '/' {
			return node, nil
		}
		p.pos++
		rhs, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		node = binNode{op: op, lhs: node, rhs: rhs}
	}
}

func (p *exprParser) parseUnary() (exprNode, error) {
	if p.peek() == '-' {
		p.pos++
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return negNode{operand: operand}, nil
	}
	return p.parsePrimary()
}

func (p *exprParser) parsePrimary() (exprNode, error) {
	c := p.peek()
	switch {
	case c == '(':
		p.pos++
		node, err := p.parseSum()
		if err != nil {
			return nil, err
		}
		if p.peek() != ')' {
			return nil, fmt.Errorf("expected ')' at %d", p.pos)
		}
		p.pos++
		return node, nil
	case c == 'x':
		p.pos++
		start := p.pos
		for p.pos < len(p.s) && p.s[p.pos] >= '0' && p.s[p.pos] <= '9' {
			p.pos++
		}
		if start == p.pos {
			return nil, fmt.Errorf("expected variable index at %d", p.pos)
		}
		n, err := strconv.Atoi(p.s[start:p.pos])
		if err != nil {
			return nil, err
		}
		return varNode(n), nil
	case c >= '0' && c <= '9', c == '.':
		start := p.pos
		for p.pos < len(p.s) && (p.s[p.pos] >= '0' && p.s[p.pos] <= '9' || p.s[p.pos] == '.') {
			p.pos++
		}
		f, err := strconv.ParseFloat(p.s[start:p.pos], 64)
		if err != nil {
			return nil, err
		}
		return constNode(f), nil
	default:
		return nil, fmt.Errorf("unexpected character %q at %d", c, p.pos)
	}
}
