package ops

import (
	"strings"

	"github.com/hpungsan/gauge/internal/convert"
	"github.com/hpungsan/gauge/internal/errors"
)

// HistoryCapacity is the number of history entries kept per domain.
const HistoryCapacity = 2

// ValidateDomain normalizes a domain name and rejects unknown ones.
// An empty domain is an INVALID_REQUEST.
func ValidateDomain(domain string) (convert.Domain, error) {
	d := convert.Domain(strings.ToLower(strings.TrimSpace(domain)))
	if d == "" {
		return "", errors.NewInvalidRequest("domain is required")
	}
	if _, err := convert.For(d); err != nil {
		return "", err
	}
	return d, nil
}
