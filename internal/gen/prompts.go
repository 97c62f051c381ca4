package gen

import (
	"fmt"

	"github.com/hpungsan/scribe/internal/document"
)

// systemPrompts are the per-stage system messages.
var systemPrompts = map[document.Kind]string{
	document.KindKeyPoints: "You are a helpful assistant that extracts key meeting points from transcriptions. Provide clear, structured summaries.",
	document.KindPRD:       "You are a senior product manager who writes precise, complete Product Requirements Documents in markdown.",
	document.KindTRD:       "You are a senior Android engineer who translates product requirements into detailed Technical Requirements Documents in markdown.",
}

// SystemPrompt returns the system message for a stage, or an empty string
// for kinds without one.
func SystemPrompt(kind document.Kind) string {
	return systemPrompts[kind]
}

// UserPrompt builds the user message for a stage from the source text.
// ok is false for kinds that are not generated (Transcript).
func UserPrompt(kind document.Kind, sourceText string) (string, bool) {
	switch kind {
	case document.KindKeyPoints:
		return keyPointsPrompt(sourceText), true
	case document.KindPRD:
		return prdPrompt(sourceText), true
	case document.KindTRD:
		return trdPrompt(sourceText), true
	default:
		return "", false
	}
}

func keyPointsPrompt(transcription string) string {
	return fmt.Sprintf(`Please analyze the following meeting transcription and extract key information in a structured format:

TRANSCRIPTION:
%s

Please provide the analysis in the following format:

## Meeting Summary
[2-3 sentence summary of the meeting]

## Key Topics Discussed
- [Topic 1]
- [Topic 2]

## Action Items
- [Action item - person responsible if mentioned]

## Decisions Made
- [Decision]

## Next Steps
- [Next step]

## Participants (if mentioned)
- [Participant names if clearly mentioned]

Focus on extracting concrete, actionable information. If certain sections don't apply or aren't clear from the transcription, you can omit them or note "Not specified in the transcription."`, transcription)
}

func prdPrompt(keyPoints string) string {
	return fmt.Sprintf(`Using the meeting key points below, write a complete Product Requirements Document in markdown. The document must contain exactly these top-level sections, in this order, each as a "##" heading:

1. Executive Summary
2. Problem Statement
3. Goals & Objectives
4. User Stories/Requirements
5. Success Metrics
6. Timeline/Milestones
7. Technical Requirements
8. Risk Assessment

Keep every section grounded in the key points; where the source is silent, state reasonable assumptions explicitly rather than omitting the section.

KEY MEETING POINTS:
%s`, keyPoints)
}

func trdPrompt(prd string) string {
	return fmt.Sprintf(`Using the Product Requirements Document below, write a Technical Requirements Document for an Android implementation, in markdown. The document must contain exactly these top-level sections, in this order, each as a "##" heading:

1. Architecture Overview - cover: architecture pattern, core components, data flow, third-party libraries, module structure
2. UI/UX Specifications - cover: screen hierarchy, UI components, navigation, user interactions, accessibility
3. API Requirements - cover: endpoints, request format, response format, authentication, error handling
4. Database Schema - cover: local database, entities, relationships, data types, migrations
5. Security Requirements - cover: data encryption, secure storage, network security, permissions
6. Performance Requirements - cover: launch time, memory usage, battery, network efficiency
7. Testing Strategy - cover: unit testing, UI testing, integration testing, test coverage

Use bold bullet labels for the covered topics inside each section (for example "- **Architecture Pattern**: MVVM"). Be concrete: name libraries, screens, entities, and limits.

PRODUCT REQUIREMENTS DOCUMENT:
%s`, prd)
}
