package domain

import (
	"regexp"
	"strings"
)

var partNumberPattern = regexp.MustCompile(`^PS\d+$`)

// NormalizePartNumber trims surrounding whitespace and upper-cases the value.
func NormalizePartNumber(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// IsValidPartNumber reports whether an already normalized part number has the
// PS<digits> shape.
func IsValidPartNumber(pn string) bool {
	return partNumberPattern.MatchString(pn)
}

// ParsePartNumber normalizes raw and checks its format.
func ParsePartNumber(raw string) (string, error) {
	pn := NormalizePartNumber(raw)
	if !IsValidPartNumber(pn) {
		return "", ErrInvalidPartFormat
	}
	return pn, nil
}
