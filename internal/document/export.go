package document

import (
	"fmt"
	"strings"
	"time"
)

// filePrefixes are the per-kind export filename prefixes.
var filePrefixes = map[Kind]string{
	KindTranscript: "Transcription_",
	KindKeyPoints:  "KeyPoints_",
	KindPRD:        "PRD_",
	KindTRD:        "TRD_Android_",
}

// FilePrefix returns the export filename prefix for a kind.
func FilePrefix(kind Kind) string {
	if p, ok := filePrefixes[kind]; ok {
		return p
	}
	return "Document_"
}

// BuildFilename returns the deterministic export filename for a kind at a
// given time: "{prefix}{YYYY-MM-DD}_{HH-MM}.md". Two exports of the same
// kind within the same minute produce the same name; callers that need to
// avoid the collision pass an explicit path to the export operation.
func BuildFilename(kind Kind, t time.Time) string {
	return fmt.Sprintf("%s%s.md", FilePrefix(kind), t.Format("2006-01-02_15-04"))
}

// EnsureMetadataHeader prepends a metadata block (kind title plus
// generation timestamp) unless content already starts with one. The body
// is never altered.
func EnsureMetadataHeader(content string, kind Kind, t time.Time) string {
	if hasMetadataHeader(content) {
		return content
	}
	header := fmt.Sprintf("# %s\n*Generated on %s*\n\n", kind.DisplayName(), t.UTC().Format(time.RFC3339))
	return header + content
}

// hasMetadataHeader reports whether content begins with a recognizable
// metadata block: an H1 line followed by an emphasized "Generated" line.
func hasMetadataHeader(content string) bool {
	lines := strings.Split(content, "\n")
	i := 0
	for i < len(lines) && strings.TrimSpace(lines[i]) == "" {
		i++
	}
	if i >= len(lines) || !strings.HasPrefix(lines[i], "# ") {
		return false
	}
	i++
	for i < len(lines) && strings.TrimSpace(lines[i]) == "" {
		i++
	}
	return i < len(lines) && strings.HasPrefix(strings.TrimSpace(lines[i]), "*Generated")
}
