// Package expr evaluates the plain arithmetic left after unit rewriting.
//
// Only numbers, + - * /, parentheses and unary signs are understood. Input is
// passed through Sanitize first, which drops every other character.
package expr

import (
	"math"
	"regexp"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/hpungsan/gauge/internal/errors"
)

// expression is a sum of terms.
//
//nolint:govet // participle grammar tags are not standard struct tags
type expression struct {
	Head *term     `@@`
	Tail []*opTerm `@@*`
}

//nolint:govet // participle grammar tags are not standard struct tags
type opTerm struct {
	Op   string `@("+" | "-")`
	Term *term  `@@`
}

// term is a product of factors.
//
//nolint:govet // participle grammar tags are not standard struct tags
type term struct {
	Head *factor     `@@`
	Tail []*opFactor `@@*`
}

//nolint:govet // participle grammar tags are not standard struct tags
type opFactor struct {
	Op     string  `@("*" | "/")`
	Factor *factor `@@`
}

//nolint:govet // participle grammar tags are not standard struct tags
type factor struct {
	Negated *factor     `  "-" @@`
	Plus    *factor     `| "+" @@`
	Number  *float64    `| @Number`
	Sub     *expression `| "(" @@ ")"`
}

var exprLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Number", Pattern: `\d*\.\d+|\d+\.?`},
	{Name: "Op", Pattern: `[-+*/()]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var exprParser = participle.MustBuild[expression](
	participle.Lexer(exprLexer),
	participle.Elide("Whitespace"),
)

var disallowed = regexp.MustCompile(`[^0-9+\-*/.()\s]`)

// Sanitize removes every character outside digits, '.', + - * / ( ) and whitespace.
// It is a filter, not a validator: if stripping changes the meaning of the
// input the result is simply wrong.
func Sanitize(s string) string {
	return disallowed.ReplaceAllString(s, "")
}

// Evaluate sanitizes s and computes its value with standard precedence.
func Evaluate(s string) (float64, error) {
	clean := strings.TrimSpace(Sanitize(s))
	if clean == "" {
		return 0, errors.NewInvalidExpression(s, "empty expression")
	}

	ast, err := exprParser.ParseString("", clean)
	if err != nil {
		return 0, errors.NewInvalidExpression(clean, err.Error())
	}

	v, err := ast.eval(clean)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.NewInvalidExpression(clean, "result is not a finite number")
	}
	return v, nil
}

func (e *expression) eval(src string) (float64, error) {
	acc, err := e.Head.eval(src)
	if err != nil {
		return 0, err
	}
	for _, t := range e.Tail {
		v, err := t.Term.eval(src)
		if err != nil {
			return 0, err
		}
		if t.Op == "+" {
			acc += v
		} else {
			acc -= v
		}
	}
	return acc, nil
}

func (t *term) eval(src string) (float64, error) {
	acc, err := t.Head.eval(src)
	if err != nil {
		return 0, err
	}
	for _, f := range t.Tail {
		v, err := f.Factor.eval(src)
		if err != nil {
			return 0, err
		}
		if f.Op == "*" {
			acc *= v
			continue
		}
		if v == 0 {
			return 0, errors.NewDivisionByZero(src)
		}
		acc /= v
	}
	return acc, nil
}

func (f *factor) eval(src string) (float64, error) {
	switch {
	case f.Negated != nil:
		v, err := f.Negated.eval(src)
		return -v, err
	case f.Plus != nil:
		return f.Plus.eval(src)
	case f.Number != nil:
		return *f.Number, nil
	case f.Sub != nil:
		return f.Sub.eval(src)
	}
	return 0, errors.NewInvalidExpression(src, "empty factor")
}
