// Package convert is the calculation entry point: it runs the rewrite passes,
// evaluates the result in the base unit, and formats it for display.
package convert

import (
	"strings"

	"github.com/hpungsan/gauge/internal/errors"
	"github.com/hpungsan/gauge/internal/expr"
	"github.com/hpungsan/gauge/internal/format"
	"github.com/hpungsan/gauge/internal/rewrite"
	"github.com/hpungsan/gauge/internal/units"
)

// Domain names a converter.
type Domain string

const (
	DomainLength Domain = "length"
	DomainWeight Domain = "weight"
)

// Domains lists every known domain in display order.
var Domains = []Domain{DomainLength, DomainWeight}

// Result is the outcome of one successful calculation.
type Result struct {
	Domain    Domain             `json:"domain"`
	Input     string             `json:"input"`
	Base      float64            `json:"base"`
	BaseUnit  string             `json:"base_unit"`
	Formatted string             `json:"formatted"`
	Breakdown map[string]float64 `json:"breakdown"`
	Display   map[string]string  `json:"display"`
}

// Step records the expression after one rewrite pass.
type Step struct {
	Pass   string `json:"pass"`
	Output string `json:"output"`
}

// Converter turns expressions of one domain into base-unit values.
type Converter struct {
	domain   Domain
	table    *units.Table
	compound func(string) (string, error)
	targets  []string
	render   func(float64) string
}

var (
	length = &Converter{
		domain:   DomainLength,
		table:    units.Length,
		compound: rewrite.FeetInches,
		targets:  []string{"FT", "IN", "M", "CM", "MM"},
		render:   format.FeetInches,
	}
	weight = &Converter{
		domain:   DomainWeight,
		table:    units.Weight,
		compound: rewrite.PoundsOunces,
		targets:  []string{"LB", "OZ", "KG", "G"},
		render:   format.PoundsOunces,
	}
)

// Length returns the length converter (base unit: inch).
func Length() *Converter { return length }

// Weight returns the weight converter (base unit: gram).
func Weight() *Converter { return weight }

// For returns the converter for domain.
func For(domain Domain) (*Converter, error) {
	switch Domain(strings.ToLower(strings.TrimSpace(string(domain)))) {
	case DomainLength:
		return length, nil
	case DomainWeight:
		return weight, nil
	}
	return nil, errors.NewInvalidRequest("domain must be one of: length, weight")
}

// Calculate runs raw through the converter for domain.
// Empty or whitespace-only input is a no-op and returns (nil, nil).
func Calculate(domain Domain, raw string) (*Result, error) {
	c, err := For(domain)
	if err != nil {
		return nil, err
	}
	return c.Calculate(raw)
}

// Domain returns the converter's domain.
func (c *Converter) Domain() Domain { return c.domain }

// Table returns the converter's unit table.
func (c *Converter) Table() *units.Table { return c.table }

// Targets returns the unit names of the breakdown in display order.
func (c *Converter) Targets() []string {
	names := make([]string, 0, len(c.targets))
	for _, u := range c.table.Units() {
		for _, sym := range c.targets {
			if u.Symbol == sym {
				names = append(names, u.Name)
			}
		}
	}
	return names
}

// Explain returns the expression after each rewrite pass, ending with the
// sanitized string handed to the evaluator.
func (c *Converter) Explain(raw string) ([]Step, error) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	steps := []Step{{Pass: "input", Output: s}}

	s, err := c.compound(s)
	if err != nil {
		return steps, err
	}
	steps = append(steps, Step{Pass: "compound", Output: s})

	s, err = rewrite.Fractions(s)
	if err != nil {
		return steps, err
	}
	steps = append(steps, Step{Pass: "fraction", Output: s})

	s = rewrite.Units(s, c.table)
	steps = append(steps, Step{Pass: "unit", Output: s})
	steps = append(steps, Step{Pass: "sanitize", Output: strings.TrimSpace(expr.Sanitize(s))})
	return steps, nil
}

// Parse evaluates raw to a value in the base unit.
func (c *Converter) Parse(raw string) (float64, error) {
	steps, err := c.Explain(raw)
	if err != nil {
		return 0, err
	}
	return expr.Evaluate(steps[len(steps)-1].Output)
}

// Calculate parses raw and formats the base value.
// Empty or whitespace-only input is a no-op and returns (nil, nil).
func (c *Converter) Calculate(raw string) (*Result, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	base, err := c.Parse(raw)
	if err != nil {
		return nil, err
	}
	return c.Format(raw, base), nil
}

// FromBase converts a base-unit value into every breakdown unit.
func (c *Converter) FromBase(base float64) map[string]float64 {
	out := make(map[string]float64, len(c.targets))
	for _, sym := range c.targets {
		ratio, _ := c.table.Ratio(sym)
		out[c.nameOf(sym)] = base / ratio
	}
	return out
}

// Format builds the Result for a base-unit value.
func (c *Converter) Format(input string, base float64) *Result {
	breakdown := c.FromBase(base)
	display := make(map[string]string, len(breakdown)+2)
	for name, v := range breakdown {
		display[name] = format.Fixed(name, v)
	}

	formatted := c.render(base)
	if c.domain == DomainLength {
		display["inches_fraction"] = format.ToFraction(base) + `"`
		display["feet_inches"] = formatted
	} else {
		display["pounds_ounces"] = formatted
	}

	return &Result{
		Domain:    c.domain,
		Input:     input,
		Base:      base,
		BaseUnit:  c.table.Base(),
		Formatted: formatted,
		Breakdown: breakdown,
		Display:   display,
	}
}

func (c *Converter) nameOf(symbol string) string {
	for _, u := range c.table.Units() {
		if u.Symbol == symbol {
			return u.Name
		}
	}
	return strings.ToLower(symbol)
}
