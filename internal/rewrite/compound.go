package rewrite

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/hpungsan/gauge/internal/errors"
	"github.com/hpungsan/gauge/internal/units"
)

const (
	leadingCount   = `(\d*\.\d+|\d+)`
	compoundAmount = `\d+\s+\d+/\d+|\d+/\d+|\d*\.\d+|\d+`
)

var (
	inchesPerFoot = units.Length.MustRatio("FT")
	gramsPerPound = units.Weight.MustRatio("LB")
	gramsPerOunce = units.Weight.MustRatio("OZ")
)

// feetInchesPattern matches 4', .5', 4'3", 4' 3 7/8", 4' 7/8" and 4' 3.5".
var feetInchesPattern = regexp.MustCompile(leadingCount + `\s*'\s*(?:(` + compoundAmount + `)\s*"?)?`)

// poundsOuncesPattern matches "5 LB 8 OZ"; both counts are required.
var poundsOuncesPattern = regexp.MustCompile(leadingCount + `\s*LB\s*(` + compoundAmount + `)\s*OZ`)

var mixedAmount = regexp.MustCompile(`^(?:(\d+)\s+)?(\d+)/(\d+)$`)

// FeetInches collapses feet-inches shorthand into a total number of inches.
// A feet-only token converts to feet × 12.
func FeetInches(expression string) (string, error) {
	return replaceCompound(feetInchesPattern, expression, inchesPerFoot, 1)
}

// PoundsOunces collapses "<n> LB <m> OZ" into a total number of grams.
func PoundsOunces(expression string) (string, error) {
	return replaceCompound(poundsOuncesPattern, expression, gramsPerPound, gramsPerOunce)
}

func replaceCompound(re *regexp.Regexp, expression string, majorRatio, minorRatio float64) (string, error) {
	var firstErr error
	out := re.ReplaceAllStringFunc(expression, func(match string) string {
		if firstErr != nil {
			return match
		}
		m := re.FindStringSubmatch(match)

		major, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			firstErr = errors.NewInvalidCompoundNotation(match, "invalid leading count")
			return match
		}
		total := major * majorRatio

		if m[2] != "" {
			minor, reason := parseAmount(m[2])
			if reason != "" {
				firstErr = errors.NewInvalidCompoundNotation(strings.TrimSpace(match), reason)
				return match
			}
			total += minor * minorRatio
		}
		return FormatNumber(total)
	})
	if firstErr != nil {
		return "", firstErr
	}
	return out, nil
}

// parseAmount reads the secondary count of a compound token: a decimal,
// a fraction, or a mixed number. The returned reason is empty on success.
func parseAmount(s string) (float64, string) {
	if m := mixedAmount.FindStringSubmatch(s); m != nil {
		v, ok := quotient(m[2], m[3])
		if !ok {
			return 0, "denominator is zero"
		}
		if m[1] != "" {
			w, _ := strconv.ParseFloat(m[1], 64)
			v += w
		}
		return v, ""
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, "secondary count is not a number"
	}
	return v, ""
}
