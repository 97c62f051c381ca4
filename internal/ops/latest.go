package ops

import (
	"database/sql"

	"github.com/hpungsan/scribe/internal/db"
)

// LatestInput contains parameters for the Latest operation.
type LatestInput struct {
	Kind        string // required
	IncludeText *bool  // default: true (nil means default)
}

// Latest retrieves the most recent active artifact of a kind.
func Latest(database *sql.DB, input LatestInput) (*FetchOutput, error) {
	kindPtr, err := parseKindArg(input.Kind, false)
	if err != nil {
		return nil, err
	}

	a, err := db.LatestByKind(database, *kindPtr)
	if err != nil {
		return nil, err
	}

	output := &FetchOutput{
		Artifact: *a,
	}

	includeText := true
	if input.IncludeText != nil {
		includeText = *input.IncludeText
	}
	if !includeText {
		output.Content = ""
	}

	return output, nil
}
