// Package classify derives a coarse property-type hint from a raw address
// string. The hints feed the resolver and the heuristic estimator; no
// external calls are made.
package classify

import (
	"regexp"
	"strings"

	"github.com/proppulse/proppulse/internal/model"
)

// Multifamily indicators take priority over commercial ones when both are
// present: "Apartment Plaza" is multifamily. The ordering is load-bearing
// for downstream unit and value estimates.
var multifamilyTerms = []string{
	"apt", "apartment", "unit", "suite", "complex",
	"tower", "manor", "court", "place", "#",
}

var commercialTerms = []string{
	"commercial", "office", "business", "plaza", "center",
}

var unitNumberPattern = regexp.MustCompile(`(?:unit|apt|#)\s*(\d+)`)

var whitespacePattern = regexp.MustCompile(`\s+`)

// Classify builds an Address from a raw string. An address with no lexical
// indicators classifies as Unknown; callers that need a guaranteed record
// get the single-family fallback from the estimator, not from here. An
// empty input is Unknown with no hints.
func Classify(raw string) model.Address {
	normalized := whitespacePattern.ReplaceAllString(strings.ToLower(strings.TrimSpace(raw)), " ")

	addr := model.Address{
		Raw:        raw,
		Normalized: normalized,
		Hint:       model.TypeUnknown,
	}
	if normalized == "" {
		return addr
	}

	if containsAny(normalized, multifamilyTerms) {
		addr.Hint = model.TypeMultifamily
		addr.UnitHint = largestUnitNumber(normalized)
		return addr
	}

	if containsAny(normalized, commercialTerms) {
		addr.Hint = model.TypeCommercial
	}

	return addr
}

func containsAny(s string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}

// largestUnitNumber returns the largest embedded unit number, which later
// bounds the estimator's unit count. Zero means no unit number was found.
func largestUnitNumber(normalized string) int {
	largest := 0
	for _, match := range unitNumberPattern.FindAllStringSubmatch(normalized, -1) {
		n := 0
		for _, r := range match[1] {
			n = n*10 + int(r-'0')
		}
		if n > largest {
			largest = n
		}
	}
	return largest
}
