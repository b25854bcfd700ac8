// Package rewrite implements the string passes that turn a measurement
// expression into plain arithmetic in a converter's base unit.
//
// Passes run in a fixed order: compound notation (FeetInches or
// PoundsOunces), then Fractions, then Units. Each pass is a pure
// string-to-string transformation and expects upper-cased input.
package rewrite

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/hpungsan/gauge/internal/errors"
	"github.com/hpungsan/gauge/internal/units"
)

// FormatNumber renders v as a plain decimal literal. Exponent notation is
// never produced because the evaluator's character filter would drop the 'e'.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// fractionPattern matches a simple fraction or a mixed number "W N/D".
// Operands with a decimal point are division and are consumed whole so the
// evaluator sees them untouched.
var fractionPattern = regexp.MustCompile(`(?:(\d+)\s+)?(\d*\.\d+|\d+)/(\d*\.\d+|\d+)`)

// Fractions replaces every integer fraction (optionally with a whole part)
// by its decimal quotient. A zero denominator is INVALID_FRACTION.
func Fractions(expression string) (string, error) {
	var firstErr error
	out := fractionPattern.ReplaceAllStringFunc(expression, func(match string) string {
		if firstErr != nil {
			return match
		}
		m := fractionPattern.FindStringSubmatch(match)
		whole, num, den := m[1], m[2], m[3]

		if strings.Contains(num, ".") || strings.Contains(den, ".") {
			return match
		}

		v, ok := quotient(num, den)
		if !ok {
			firstErr = errors.NewInvalidFraction(strings.TrimSpace(match))
			return match
		}
		if whole != "" {
			w, _ := strconv.ParseFloat(whole, 64)
			v += w
		}
		return FormatNumber(v)
	})
	if firstErr != nil {
		return "", firstErr
	}
	return out, nil
}

// quotient divides two integer literals, rejecting a zero denominator.
func quotient(num, den string) (float64, bool) {
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, false
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0, false
	}
	return n / d, true
}

// unitPattern matches a number followed by a whole word. The word is only
// rewritten when it is exactly a table symbol, so a symbol never matches a
// prefix of a longer symbol or a fragment of another word.
var unitPattern = regexp.MustCompile(`(\d*\.\d+|\d+)\s*([A-Z]+)`)

// Units replaces every "<number><symbol>" with number × ratio from table.
// Numbers without a recognized symbol are left alone (already base units).
func Units(expression string, table *units.Table) string {
	return unitPattern.ReplaceAllStringFunc(expression, func(match string) string {
		m := unitPattern.FindStringSubmatch(match)
		ratio, ok := table.Ratio(m[2])
		if !ok {
			return match
		}
		n, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return match
		}
		return FormatNumber(n * ratio)
	})
}
