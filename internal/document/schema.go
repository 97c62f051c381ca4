package document

import (
	"fmt"

	"github.com/hpungsan/scribe/internal/errors"
)

// SectionSchema describes one required top-level section of a template.
type SectionSchema struct {
	// Title is the canonical section name (e.g., "Risk Assessment")
	Title string

	// Order is the 1-based position in the document
	Order int

	// Purpose documents what the section is for; it is not validated
	Purpose string

	// RequiredSubsections are keywords expected to appear in the section
	// body. Presence affects subsection coverage diagnostics only.
	RequiredSubsections []string
}

// TemplateSchema is the declarative shape for one generatable artifact kind.
type TemplateSchema struct {
	Kind     Kind
	Sections []SectionSchema
}

// SectionTitles returns the section titles in template order.
func (t *TemplateSchema) SectionTitles() []string {
	titles := make([]string, len(t.Sections))
	for i, s := range t.Sections {
		titles[i] = s.Title
	}
	return titles
}

// validate checks the schema invariants: orders unique and contiguous
// starting at 1, in slice order.
func (t *TemplateSchema) validate() error {
	for i, s := range t.Sections {
		if s.Order != i+1 {
			return fmt.Errorf("template %s: section %q has order %d, want %d", t.Kind, s.Title, s.Order, i+1)
		}
		if s.Title == "" {
			return fmt.Errorf("template %s: section %d has empty title", t.Kind, i+1)
		}
	}
	return nil
}

// Registry holds the canonical TemplateSchema for each generatable
// artifact kind. It is built once at startup and read-only afterwards, so
// it is safe to share across concurrent pipeline invocations.
type Registry struct {
	templates map[Kind]*TemplateSchema
}

// NewRegistry returns the default registry with the PRD and TRD templates.
// Transcripts and key points are free-form and have no template.
func NewRegistry() *Registry {
	r := &Registry{templates: make(map[Kind]*TemplateSchema)}
	for _, t := range []*TemplateSchema{prdTemplate(), trdTemplate()} {
		if err := t.validate(); err != nil {
			// Registry content is compiled in; a bad schema is a programming
			// error, not a runtime condition.
			panic(err)
		}
		r.templates[t.Kind] = t
	}
	return r
}

// Template returns the schema for kind, or UNKNOWN_TEMPLATE if kind has
// no registered schema.
func (r *Registry) Template(kind Kind) (*TemplateSchema, error) {
	t, ok := r.templates[kind]
	if !ok {
		return nil, errors.NewUnknownTemplate(string(kind))
	}
	return t, nil
}

// Has reports whether kind has a registered template.
func (r *Registry) Has(kind Kind) bool {
	_, ok := r.templates[kind]
	return ok
}

func prdTemplate() *TemplateSchema {
	return &TemplateSchema{
		Kind: KindPRD,
		Sections: []SectionSchema{
			{Title: "Executive Summary", Order: 1, Purpose: "Two to three sentence overview of the product"},
			{Title: "Problem Statement", Order: 2, Purpose: "The user or business problem being solved"},
			{Title: "Goals & Objectives", Order: 3, Purpose: "Measurable goals the product must achieve"},
			{Title: "User Stories/Requirements", Order: 4, Purpose: "Requirements expressed as user stories"},
			{Title: "Success Metrics", Order: 5, Purpose: "How success will be measured"},
			{Title: "Timeline/Milestones", Order: 6, Purpose: "Phases and delivery milestones"},
			{Title: "Technical Requirements", Order: 7, Purpose: "High-level technical constraints and stack"},
			{Title: "Risk Assessment", Order: 8, Purpose: "Known risks and their mitigations"},
		},
	}
}

func trdTemplate() *TemplateSchema {
	return &TemplateSchema{
		Kind: KindTRD,
		Sections: []SectionSchema{
			{
				Title:   "Architecture Overview",
				Order:   1,
				Purpose: "App architecture pattern and component breakdown",
				RequiredSubsections: []string{
					"architecture pattern", "core components", "data flow",
					"third-party libraries", "module structure",
				},
			},
			{
				Title:   "UI/UX Specifications",
				Order:   2,
				Purpose: "Screens, navigation, and interaction details",
				RequiredSubsections: []string{
					"screen hierarchy", "ui components", "navigation",
					"user interactions", "accessibility",
				},
			},
			{
				Title:   "API Requirements",
				Order:   3,
				Purpose: "External and internal API contracts",
				RequiredSubsections: []string{
					"endpoints", "request format", "response format",
					"authentication", "error handling",
				},
			},
			{
				Title:   "Database Schema",
				Order:   4,
				Purpose: "Local persistence design",
				RequiredSubsections: []string{
					"local database", "entities", "relationships",
					"data types", "migrations",
				},
			},
			{
				Title:   "Security Requirements",
				Order:   5,
				Purpose: "Data protection and platform security",
				RequiredSubsections: []string{
					"data encryption", "secure storage", "network security",
					"permissions",
				},
			},
			{
				Title:   "Performance Requirements",
				Order:   6,
				Purpose: "Responsiveness and resource budgets",
				RequiredSubsections: []string{
					"launch time", "memory usage", "battery",
					"network efficiency",
				},
			},
			{
				Title:   "Testing Strategy",
				Order:   7,
				Purpose: "How the implementation will be verified",
				RequiredSubsections: []string{
					"unit testing", "ui testing", "integration testing",
					"test coverage",
				},
			},
		},
	}
}
