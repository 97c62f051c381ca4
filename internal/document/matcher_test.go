package document

import "testing"

func TestSubstringMatcher_MatchSection(t *testing.T) {
	headings := []Heading{
		{Level: 2, Text: "Executive Summary & Overview", Body: "first"},
		{Level: 2, Text: "risk assessment", Body: "second"},
		{Level: 2, Text: "Metrics", Body: "third"},
	}

	m := SubstringMatcher{}

	tests := []struct {
		name     string
		title    string
		wantBody string
		wantOK   bool
	}{
		{"title contained in heading", "Executive Summary", "first", true},
		{"case insensitive exact", "Risk Assessment", "second", true},
		{"heading contained in title", "Success Metrics", "third", true},
		{"no match", "Problem Statement", "", false},
		{"empty title", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, ok := m.MatchSection(tt.title, headings)
			if ok != tt.wantOK {
				t.Fatalf("MatchSection(%q) ok = %v, want %v", tt.title, ok, tt.wantOK)
			}
			if body != tt.wantBody {
				t.Errorf("MatchSection(%q) body = %q, want %q", tt.title, body, tt.wantBody)
			}
		})
	}
}

func TestSubstringMatcher_FirstMatchWins(t *testing.T) {
	headings := []Heading{
		{Level: 2, Text: "Summary", Body: "early"},
		{Level: 2, Text: "Executive Summary", Body: "late"},
	}

	body, ok := SubstringMatcher{}.MatchSection("Executive Summary", headings)
	if !ok {
		t.Fatal("MatchSection() ok = false, want true")
	}
	// "Summary" is contained in the wanted title, so the earlier heading wins.
	if body != "early" {
		t.Errorf("MatchSection() body = %q, want %q", body, "early")
	}
}

func TestSubstringMatcher_ContainsKeyword(t *testing.T) {
	m := SubstringMatcher{}
	body := "- **Architecture Pattern**: MVVM\n- **Core Components**: three modules\n"

	if !m.ContainsKeyword(body, "architecture pattern") {
		t.Error("ContainsKeyword() = false for present keyword")
	}
	if !m.ContainsKeyword(body, "Core Components") {
		t.Error("ContainsKeyword() should be case-insensitive")
	}
	if m.ContainsKeyword(body, "data flow") {
		t.Error("ContainsKeyword() = true for absent keyword")
	}
	if m.ContainsKeyword(body, "") {
		t.Error("ContainsKeyword() = true for empty keyword")
	}
}
