package ops

import (
	"github.com/hpungsan/gauge/internal/convert"
	"github.com/hpungsan/gauge/internal/units"
)

// UnitsInput contains parameters for the Units operation.
type UnitsInput struct {
	Domain string // optional: empty lists every domain
}

// DomainUnits describes the unit table of one domain.
type DomainUnits struct {
	Domain   string       `json:"domain"`
	BaseUnit string       `json:"base_unit"`
	Units    []units.Unit `json:"units"`
	Targets  []string     `json:"targets"`
}

// UnitsOutput contains the result of the Units operation.
type UnitsOutput struct {
	Domains []DomainUnits `json:"domains"`
}

// Units lists the recognized unit symbols of one or all domains.
func Units(input UnitsInput) (*UnitsOutput, error) {
	domains := convert.Domains
	if input.Domain != "" {
		d, err := ValidateDomain(input.Domain)
		if err != nil {
			return nil, err
		}
		domains = []convert.Domain{d}
	}

	out := &UnitsOutput{Domains: make([]DomainUnits, 0, len(domains))}
	for _, d := range domains {
		conv, err := convert.For(d)
		if err != nil {
			return nil, err
		}
		out.Domains = append(out.Domains, DomainUnits{
			Domain:   string(d),
			BaseUnit: conv.Table().Base(),
			Units:    conv.Table().Units(),
			Targets:  conv.Targets(),
		})
	}
	return out, nil
}
