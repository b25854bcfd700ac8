// Package units holds the fixed unit tables each converter resolves symbols against.
package units

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Unit is one row of a unit table.
type Unit struct {
	Symbol string  `json:"symbol"`
	Name   string  `json:"name"`
	Ratio  float64 `json:"ratio"` // base units per one of this unit
}

// Table maps unit symbols to their ratio against a base unit.
// A Table is immutable once built.
type Table struct {
	base    string
	units   []Unit
	index   map[string]int
	longest []string
}

var symbolPattern = regexp.MustCompile(`^[A-Z]+$`)

// New builds a table for the given base unit.
// Symbols must be upper-case letters, unique, and carry a positive ratio.
func New(base string, defs []Unit) (*Table, error) {
	t := &Table{
		base:  base,
		units: make([]Unit, 0, len(defs)),
		index: make(map[string]int, len(defs)),
	}
	for _, u := range defs {
		if !symbolPattern.MatchString(u.Symbol) {
			return nil, fmt.Errorf("invalid unit symbol %q", u.Symbol)
		}
		if u.Ratio <= 0 {
			return nil, fmt.Errorf("unit %s: ratio must be positive, got %v", u.Symbol, u.Ratio)
		}
		if _, dup := t.index[u.Symbol]; dup {
			return nil, fmt.Errorf("duplicate unit symbol %q", u.Symbol)
		}
		t.index[u.Symbol] = len(t.units)
		t.units = append(t.units, u)
	}

	// Longest symbol first; ties keep definition order.
	t.longest = make([]string, len(t.units))
	for i, u := range t.units {
		t.longest[i] = u.Symbol
	}
	sort.SliceStable(t.longest, func(i, j int) bool {
		return len(t.longest[i]) > len(t.longest[j])
	})

	return t, nil
}

// MustNew is like New but panics on an invalid definition.
func MustNew(base string, defs []Unit) *Table {
	t, err := New(base, defs)
	if err != nil {
		panic(err)
	}
	return t
}

// Base returns the name of the base unit.
func (t *Table) Base() string {
	return t.base
}

// Ratio returns the base-unit ratio for symbol. Lookup is case-insensitive.
func (t *Table) Ratio(symbol string) (float64, bool) {
	i, ok := t.index[strings.ToUpper(strings.TrimSpace(symbol))]
	if !ok {
		return 0, false
	}
	return t.units[i].Ratio, true
}

// MustRatio is like Ratio but panics when symbol is not in the table.
func (t *Table) MustRatio(symbol string) float64 {
	r, ok := t.Ratio(symbol)
	if !ok {
		panic(fmt.Sprintf("unit %q not in %s table", symbol, t.base))
	}
	return r
}

// Units returns the table rows in definition order.
func (t *Table) Units() []Unit {
	out := make([]Unit, len(t.units))
	copy(out, t.units)
	return out
}

// Symbols returns every symbol in matching order: longest first.
func (t *Table) Symbols() []string {
	out := make([]string, len(t.longest))
	copy(out, t.longest)
	return out
}

// Length is the length table, based on the inch.
var Length = MustNew("inch", []Unit{
	{Symbol: "FT", Name: "feet", Ratio: 12},
	{Symbol: "IN", Name: "inches", Ratio: 1},
	{Symbol: "M", Name: "meters", Ratio: 39.3701},
	{Symbol: "CM", Name: "centimeters", Ratio: 0.393701},
	{Symbol: "MM", Name: "millimeters", Ratio: 0.0393701},
	{Symbol: "YD", Name: "yards", Ratio: 36},
	{Symbol: "KM", Name: "kilometers", Ratio: 39370.1},
	{Symbol: "MI", Name: "miles", Ratio: 63360},
})

// Weight is the weight table, based on the gram.
var Weight = MustNew("gram", []Unit{
	{Symbol: "LB", Name: "pounds", Ratio: 453.592},
	{Symbol: "OZ", Name: "ounces", Ratio: 28.3495},
	{Symbol: "KG", Name: "kilograms", Ratio: 1000},
	{Symbol: "G", Name: "grams", Ratio: 1},
	{Symbol: "TON", Name: "tons", Ratio: 1000000},
	{Symbol: "ST", Name: "stones", Ratio: 6350.29},
	{Symbol: "CT", Name: "carats", Ratio: 0.2},
})
