// Package format renders base-unit values as human-friendly strings.
package format

import (
	"fmt"
	"math"
	"strconv"

	"github.com/hpungsan/gauge/internal/units"
)

// Denominators tried by ToFraction, in tie-break order.
var Denominators = []int{2, 4, 8, 16}

// closeEnough stops the denominator search early.
const closeEnough = 0.001

var (
	inchesPerFoot = units.Length.MustRatio("FT")
	gramsPerPound = units.Weight.MustRatio("LB")
	gramsPerOunce = units.Weight.MustRatio("OZ")
)

// ounceDecimals is the precision of the ounce part of PoundsOunces.
const ounceDecimals = 1000

// Precision is the fixed number of decimal places shown per unit name.
var Precision = map[string]int{
	"feet":        4,
	"inches":      3,
	"meters":      4,
	"centimeters": 2,
	"millimeters": 1,
	"pounds":      3,
	"ounces":      2,
	"kilograms":   4,
	"grams":       2,
}

// Fixed renders v with the precision registered for unit, or 3 places.
func Fixed(unit string, v float64) string {
	places, ok := Precision[unit]
	if !ok {
		places = 3
	}
	return strconv.FormatFloat(v, 'f', places, 64)
}

// mixed is a value split into a whole part and a reduced fraction.
type mixed struct {
	negative bool
	whole    int64
	num, den int
}

// closest approximates x by whole + num/den with den from Denominators.
// A fraction that rounds up to a whole unit is carried into the whole part.
// A remainder closer to zero than to every candidate is dropped.
func closest(x float64) mixed {
	m := mixed{negative: x < 0}
	x = math.Abs(x)

	whole := math.Floor(x)
	frac := x - whole
	m.whole = int64(whole)
	if frac == 0 {
		return m
	}

	bestNum, bestDen := 0, 1
	bestErr := frac
	for _, den := range Denominators {
		num := int(math.Round(frac * float64(den)))
		if num == 0 {
			continue
		}
		e := math.Abs(frac - float64(num)/float64(den))
		if e < bestErr {
			bestNum, bestDen, bestErr = num, den, e
		}
		if e < closeEnough {
			break
		}
	}

	switch {
	case bestNum == 0:
		return m
	case bestNum == bestDen:
		m.whole++
		return m
	}

	g := gcd(bestNum, bestDen)
	m.num, m.den = bestNum/g, bestDen/g
	return m
}

func (m mixed) String() string {
	sign := ""
	if m.negative && (m.whole != 0 || m.num != 0) {
		sign = "-"
	}
	switch {
	case m.num == 0:
		return sign + strconv.FormatInt(m.whole, 10)
	case m.whole == 0:
		return fmt.Sprintf("%s%d/%d", sign, m.num, m.den)
	default:
		return fmt.Sprintf("%s%d %d/%d", sign, m.whole, m.num, m.den)
	}
}

// ToFraction renders x as the closest simple fraction with a denominator
// of 2, 4, 8 or 16: "0", "3", "7/8", "3 7/8".
func ToFraction(x float64) string {
	return closest(x).String()
}

// FeetInches renders a length in inches as feet and fractional inches:
// 0", 1' 0", 4' 3 7/8". Negative lengths render as the signed magnitude.
func FeetInches(inches float64) string {
	sign := ""
	if inches < 0 {
		sign = "-"
		inches = -inches
	}

	feet, rem := split(inches, inchesPerFoot)
	rest := closest(rem)
	if rest.whole >= int64(inchesPerFoot) {
		feet++
		rest.whole -= int64(inchesPerFoot)
	}

	if feet == 0 {
		if rest.whole == 0 && rest.num == 0 {
			sign = ""
		}
		return fmt.Sprintf(`%s%s"`, sign, rest)
	}
	return fmt.Sprintf(`%s%d' %s"`, sign, feet, rest)
}

// PoundsOunces renders a weight in grams as pounds and decimal ounces:
// "8.000 oz", "5 lb 8.000 oz". Negative weights render as the signed magnitude.
func PoundsOunces(grams float64) string {
	sign := ""
	if grams < 0 {
		sign = "-"
		grams = -grams
	}

	pounds, rem := split(grams, gramsPerPound)
	ounces := roundOunces(rem)
	if ounces >= roundOunces(gramsPerPound) {
		pounds++
		ounces = 0
	}
	if pounds == 0 && ounces == 0 {
		sign = ""
	}

	if pounds == 0 {
		return fmt.Sprintf("%s%.3f oz", sign, ounces)
	}
	return fmt.Sprintf("%s%d lb %.3f oz", sign, pounds, ounces)
}

// roundOunces converts grams to ounces rounded to the displayed precision.
func roundOunces(grams float64) float64 {
	return math.Round(grams/gramsPerOunce*ounceDecimals) / ounceDecimals
}

// split divides x >= 0 into whole units of size and a remainder in [0, size),
// both taken from the same quotient.
func split(x, size float64) (int64, float64) {
	n := math.Floor(x / size)
	rem := x - n*size
	switch {
	case rem < 0:
		n--
		rem += size
	case rem >= size:
		n++
		rem -= size
	}
	return int64(n), rem
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
