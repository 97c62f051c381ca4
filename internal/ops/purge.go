package ops

import (
	"database/sql"
	"fmt"

	"github.com/hpungsan/scribe/internal/db"
)

// PurgeInput contains parameters for the Purge operation.
type PurgeInput struct {
	OlderThanDays int // optional, only purge if deleted_at < (now - N days); 0 purges all
}

// PurgeOutput contains the result of the Purge operation.
type PurgeOutput struct {
	Purged  int    `json:"purged"`
	Message string `json:"message"`
}

// Purge permanently deletes soft-deleted artifacts.
func Purge(database *sql.DB, input PurgeInput) (*PurgeOutput, error) {
	count, err := db.Purge(database, input.OlderThanDays)
	if err != nil {
		return nil, err
	}

	return &PurgeOutput{
		Purged:  count,
		Message: formatPurgeMessage(count, input.OlderThanDays),
	}, nil
}

// formatPurgeMessage creates a human-readable message for the purge result.
func formatPurgeMessage(count, olderThanDays int) string {
	if count == 0 {
		return "No deleted artifacts to purge"
	}

	word := "artifact"
	if count > 1 {
		word = "artifacts"
	}

	msg := fmt.Sprintf("Permanently deleted %d %s", count, word)
	if olderThanDays > 0 {
		msg += fmt.Sprintf(" (deleted more than %d days ago)", olderThanDays)
	}
	return msg
}
