package document

// ValidationResult scores a generated artifact's structural conformance
// to its template. A failed validation is diagnostic, never fatal: the
// artifact is still returned to the caller together with this result.
type ValidationResult struct {
	// Valid is true iff every template section title was matched
	Valid bool `json:"valid"`

	// MissingSections lists section titles not found, in template order
	MissingSections []string `json:"missing_sections"`

	// SubsectionCoverage maps matched section title to the fraction of its
	// required subsections found in the section body (0.0-1.0). Sections
	// with no required subsections get coverage 1.0. Coverage is advisory
	// and does not affect Valid.
	SubsectionCoverage map[string]float64 `json:"subsection_coverage,omitempty"`

	// CoverageScore is matched sections / total sections, in [0,1]
	CoverageScore float64 `json:"coverage_score"`
}

// Validator checks content against the template registry.
type Validator struct {
	registry *Registry
	matcher  Matcher
}

// NewValidator creates a Validator. A nil matcher selects the default
// SubstringMatcher.
func NewValidator(registry *Registry, matcher Matcher) *Validator {
	if matcher == nil {
		matcher = SubstringMatcher{}
	}
	return &Validator{registry: registry, matcher: matcher}
}

// Registry returns the validator's template registry.
func (v *Validator) Registry() *Registry {
	return v.registry
}

// Validate scores content against the template for kind. It fails only
// when kind has no registered template; any well-formed content, including
// empty text, produces a result (empty content simply misses everything).
func (v *Validator) Validate(kind Kind, content string) (*ValidationResult, error) {
	tmpl, err := v.registry.Template(kind)
	if err != nil {
		return nil, err
	}

	headings := ParseHeadings(content)

	result := &ValidationResult{
		MissingSections:    []string{},
		SubsectionCoverage: make(map[string]float64, len(tmpl.Sections)),
	}

	matched := 0
	for _, section := range tmpl.Sections {
		body, found := v.matcher.MatchSection(section.Title, headings)
		if !found {
			result.MissingSections = append(result.MissingSections, section.Title)
			continue
		}
		matched++
		result.SubsectionCoverage[section.Title] = v.subsectionCoverage(section, body)
	}

	result.CoverageScore = float64(matched) / float64(len(tmpl.Sections))
	result.Valid = len(result.MissingSections) == 0
	return result, nil
}

// subsectionCoverage returns the fraction of required subsection keywords
// present in body. No required subsections means full coverage.
func (v *Validator) subsectionCoverage(section SectionSchema, body string) float64 {
	if len(section.RequiredSubsections) == 0 {
		return 1.0
	}
	found := 0
	for _, keyword := range section.RequiredSubsections {
		if v.matcher.ContainsKeyword(body, keyword) {
			found++
		}
	}
	return float64(found) / float64(len(section.RequiredSubsections))
}
