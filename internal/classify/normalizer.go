package classify

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	trailingRef = regexp.MustCompile(`(#|\*|x{2,})\s*\d+\s*$`)
	multiSpace  = regexp.MustCompile(`\s{2,}`)
	titleCaser  = cases.Title(language.English)
)

// NormalizeMerchant cleans raw statement merchant text for display: strips
// trailing reference numbers, collapses whitespace and title-cases the
// result. Heuristic matching always runs on the raw lowercased text, never
// on this.
func NormalizeMerchant(raw string) string {
	s := strings.TrimSpace(raw)
	s = trailingRef.ReplaceAllString(s, "")
	s = multiSpace.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return titleCaser.String(strings.ToLower(s))
}
