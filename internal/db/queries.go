package db

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/hpungsan/scribe/internal/document"
	"github.com/hpungsan/scribe/internal/errors"
)

// Insert stores a new artifact. Artifacts are immutable: there is no
// corresponding update statement, regeneration inserts a new row.
func Insert(db *sql.DB, a *document.Artifact) error {
	var validationJSON sql.NullString
	if a.Validation != nil {
		data, err := json.Marshal(a.Validation)
		if err != nil {
			return errors.NewInternal(err)
		}
		validationJSON = sql.NullString{String: string(data), Valid: true}
	}

	query := `
		INSERT INTO artifacts (
			id, kind, source_id, content, content_chars,
			tokens_estimate, model, validation_json, created_at, deleted_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, NULL)
	`

	_, err := db.Exec(query,
		a.ID, string(a.Kind), toNullString(a.SourceID), a.Content, a.ContentChars,
		a.TokensEstimate, toNullString(a.Model), validationJSON, a.CreatedAt,
	)
	if err != nil {
		return errors.NewInternal(err)
	}

	return nil
}

// GetByID retrieves an artifact by its ULID.
// If includeDeleted is false, soft-deleted artifacts are excluded.
func GetByID(db *sql.DB, id string, includeDeleted bool) (*document.Artifact, error) {
	query := selectColumns + ` FROM artifacts WHERE id = ?`
	if !includeDeleted {
		query += " AND deleted_at IS NULL"
	}

	a, err := scanArtifact(db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(id)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	return a, nil
}

// LatestByKind retrieves the most recently created active artifact of a kind.
func LatestByKind(db *sql.DB, kind document.Kind) (*document.Artifact, error) {
	query := selectColumns + `
		FROM artifacts
		WHERE kind = ? AND deleted_at IS NULL
		ORDER BY created_at DESC, id DESC
		LIMIT 1`

	a, err := scanArtifact(db.QueryRow(query, string(kind)))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound("latest " + string(kind))
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	return a, nil
}

// List retrieves artifact summaries, newest first, optionally filtered by
// kind. Returns the page plus the total matching count.
func List(db *sql.DB, kind *document.Kind, limit, offset int, includeDeleted bool) ([]document.ArtifactSummary, int, error) {
	where := "1=1"
	args := []any{}
	if kind != nil {
		where += " AND kind = ?"
		args = append(args, string(*kind))
	}
	if !includeDeleted {
		where += " AND deleted_at IS NULL"
	}

	var total int
	if err := db.QueryRow("SELECT COUNT(*) FROM artifacts WHERE "+where, args...).Scan(&total); err != nil {
		return nil, 0, errors.NewInternal(err)
	}

	query := selectColumns + ` FROM artifacts WHERE ` + where + `
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?`
	rows, err := db.Query(query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, errors.NewInternal(err)
	}
	defer rows.Close()

	var summaries []document.ArtifactSummary
	for rows.Next() {
		a, err := scanArtifactFromRows(rows)
		if err != nil {
			return nil, 0, errors.NewInternal(err)
		}
		summaries = append(summaries, a.ToSummary())
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.NewInternal(err)
	}

	return summaries, total, nil
}

// SoftDelete marks an artifact as deleted without removing the row.
func SoftDelete(db *sql.DB, id string) error {
	result, err := db.Exec(
		"UPDATE artifacts SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL",
		time.Now().Unix(), id,
	)
	if err != nil {
		return errors.NewInternal(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if affected == 0 {
		return errors.NewNotFound(id)
	}

	return nil
}

// Purge permanently removes soft-deleted artifacts. If olderThanDays is
// positive, only artifacts deleted at least that many days ago are
// removed. Returns the number of purged rows.
func Purge(db *sql.DB, olderThanDays int) (int, error) {
	query := "DELETE FROM artifacts WHERE deleted_at IS NOT NULL"
	args := []any{}
	if olderThanDays > 0 {
		cutoff := time.Now().AddDate(0, 0, -olderThanDays).Unix()
		query += " AND deleted_at <= ?"
		args = append(args, cutoff)
	}

	result, err := db.Exec(query, args...)
	if err != nil {
		return 0, errors.NewInternal(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, errors.NewInternal(err)
	}

	return int(affected), nil
}

const selectColumns = `
	SELECT id, kind, source_id, content, content_chars,
		tokens_estimate, model, validation_json, created_at, deleted_at`

// rowScanner abstracts over *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanArtifact(row rowScanner) (*document.Artifact, error) {
	var a document.Artifact
	var kind string
	var sourceID, model, validationJSON sql.NullString
	var deletedAt sql.NullInt64

	err := row.Scan(
		&a.ID, &kind, &sourceID, &a.Content, &a.ContentChars,
		&a.TokensEstimate, &model, &validationJSON, &a.CreatedAt, &deletedAt,
	)
	if err != nil {
		return nil, err
	}

	a.Kind = document.Kind(kind)
	a.SourceID = fromNullString(sourceID)
	a.Model = fromNullString(model)
	if deletedAt.Valid {
		a.DeletedAt = &deletedAt.Int64
	}
	if validationJSON.Valid {
		var v document.ValidationResult
		if err := json.Unmarshal([]byte(validationJSON.String), &v); err != nil {
			return nil, err
		}
		a.Validation = &v
	}

	return &a, nil
}

func scanArtifactFromRows(rows *sql.Rows) (*document.Artifact, error) {
	return scanArtifact(rows)
}

func toNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func fromNullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
