package document

import (
	"math"
	"testing"
)

// completePRD contains all eight top-level PRD sections.
const completePRD = `## Executive Summary
A mobile app for tracking team decisions.

## Problem Statement
Meeting outcomes get lost.

## Goals & Objectives
Capture every decision within one minute.

## User Stories/Requirements
As a PM, I want past decisions searchable.

## Success Metrics
80% of meetings produce a stored summary.

## Timeline/Milestones
Phase 1 in Q2.

## Technical Requirements
Android, offline-first.

## Risk Assessment
Adoption risk: integrate with existing calendar tooling.
`

func newTestValidator() *Validator {
	return NewValidator(NewRegistry(), nil)
}

func TestValidate_CompletePRD(t *testing.T) {
	result, err := newTestValidator().Validate(KindPRD, completePRD)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	if !result.Valid {
		t.Errorf("Valid = false, missing = %v", result.MissingSections)
	}
	if len(result.MissingSections) != 0 {
		t.Errorf("MissingSections = %v, want empty", result.MissingSections)
	}
	if result.CoverageScore != 1.0 {
		t.Errorf("CoverageScore = %v, want 1.0", result.CoverageScore)
	}
	// PRD sections have no required subsections, so each matched section
	// reports full coverage.
	for title, cov := range result.SubsectionCoverage {
		if cov != 1.0 {
			t.Errorf("SubsectionCoverage[%q] = %v, want 1.0", title, cov)
		}
	}
}

func TestValidate_MissingSection(t *testing.T) {
	// Drop Risk Assessment entirely.
	md := `## Executive Summary
x

## Problem Statement
x

## Goals & Objectives
x

## User Stories/Requirements
x

## Success Metrics
x

## Timeline/Milestones
x

## Technical Requirements
x
`
	result, err := newTestValidator().Validate(KindPRD, md)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	if result.Valid {
		t.Error("Valid = true, want false")
	}
	if len(result.MissingSections) != 1 || result.MissingSections[0] != "Risk Assessment" {
		t.Errorf("MissingSections = %v, want [Risk Assessment]", result.MissingSections)
	}
	if want := 7.0 / 8.0; math.Abs(result.CoverageScore-want) > 1e-9 {
		t.Errorf("CoverageScore = %v, want %v", result.CoverageScore, want)
	}
}

func TestValidate_SubsectionCoverageAdvisory(t *testing.T) {
	// All seven TRD sections present; Architecture Overview covers only two
	// of its five required subsections. Valid must stay true regardless.
	md := `## Architecture Overview
- **Architecture Pattern**: MVVM
- **Core Components**: auth, sync, storage

## UI/UX Specifications
x

## API Requirements
x

## Database Schema
x

## Security Requirements
x

## Performance Requirements
x

## Testing Strategy
x
`
	result, err := newTestValidator().Validate(KindTRD, md)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	if !result.Valid {
		t.Errorf("Valid = false, missing = %v", result.MissingSections)
	}
	cov, ok := result.SubsectionCoverage["Architecture Overview"]
	if !ok {
		t.Fatal("SubsectionCoverage missing Architecture Overview")
	}
	if want := 2.0 / 5.0; math.Abs(cov-want) > 1e-9 {
		t.Errorf("Architecture Overview coverage = %v, want %v", cov, want)
	}
}

func TestValidate_EmptyContent(t *testing.T) {
	result, err := newTestValidator().Validate(KindPRD, "")
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	if result.Valid {
		t.Error("Valid = true for empty content, want false")
	}
	if len(result.MissingSections) != 8 {
		t.Errorf("MissingSections has %d entries, want 8", len(result.MissingSections))
	}
	if result.CoverageScore != 0.0 {
		t.Errorf("CoverageScore = %v, want 0.0", result.CoverageScore)
	}
}

func TestValidate_UnknownTemplate(t *testing.T) {
	_, err := newTestValidator().Validate(KindTranscript, "anything")
	if err == nil {
		t.Fatal("Validate() error = nil, want UNKNOWN_TEMPLATE")
	}
}

func TestValidate_MissingSectionsInTemplateOrder(t *testing.T) {
	md := `## Problem Statement
x

## Success Metrics
x
`
	result, err := newTestValidator().Validate(KindPRD, md)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	want := []string{
		"Executive Summary",
		"Goals & Objectives",
		"User Stories/Requirements",
		"Timeline/Milestones",
		"Technical Requirements",
		"Risk Assessment",
	}
	if len(result.MissingSections) != len(want) {
		t.Fatalf("MissingSections = %v, want %v", result.MissingSections, want)
	}
	for i, title := range want {
		if result.MissingSections[i] != title {
			t.Errorf("MissingSections[%d] = %q, want %q", i, result.MissingSections[i], title)
		}
	}
}
