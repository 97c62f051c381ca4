package document

import "strings"

// Matcher locates template sections and subsection keywords inside
// generated markdown. The interface exists so a stricter (exact) or
// smarter matcher can replace the default without touching the validator.
type Matcher interface {
	// MatchSection returns the body of the first heading matching the
	// section title, in document order.
	MatchSection(title string, headings []Heading) (body string, found bool)

	// ContainsKeyword reports whether keyword appears in body.
	ContainsKeyword(body, keyword string) bool
}

// SubstringMatcher is the default Matcher. After trimming and
// case-folding, a heading matches a title when the two are equal or either
// contains the other. Generated text rarely replicates template titles
// verbatim ("## Executive Summary & Overview"); substring matching
// tolerates that at the cost of occasional false positives.
type SubstringMatcher struct{}

// MatchSection implements Matcher.
func (SubstringMatcher) MatchSection(title string, headings []Heading) (string, bool) {
	want := fold(title)
	if want == "" {
		return "", false
	}
	for _, h := range headings {
		got := fold(h.Text)
		if got == "" {
			continue
		}
		if got == want || strings.Contains(got, want) || strings.Contains(want, got) {
			return h.Body, true
		}
	}
	return "", false
}

// ContainsKeyword implements Matcher with a case-insensitive substring
// search.
func (SubstringMatcher) ContainsKeyword(body, keyword string) bool {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return false
	}
	return strings.Contains(strings.ToLower(body), strings.ToLower(keyword))
}

func fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
