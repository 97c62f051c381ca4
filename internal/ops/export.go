package ops

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/hpungsan/scribe/internal/config"
	"github.com/hpungsan/scribe/internal/db"
	"github.com/hpungsan/scribe/internal/document"
	"github.com/hpungsan/scribe/internal/errors"
)

// ExportInput contains parameters for the Export operation.
// Provide ID to export a specific artifact, or Kind to export the latest
// artifact of that kind.
type ExportInput struct {
	ID   string
	Kind string
	Path string // optional, default: ~/.scribe/exports/<prefix><timestamp>.md
}

// ExportOutput contains the result of the Export operation.
type ExportOutput struct {
	ID         string `json:"id"`
	Kind       string `json:"kind"`
	Path       string `json:"path"`
	Filename   string `json:"filename"`
	ExportedAt int64  `json:"exported_at"`
}

// Export writes an artifact to a markdown file. The filename follows the
// kind's prefix plus a minute-resolution timestamp, and the content gains a
// metadata header when it does not already carry one.
func Export(database *sql.DB, cfg *config.Config, input ExportInput) (*ExportOutput, error) {
	a, err := resolveExportArtifact(database, input)
	if err != nil {
		return nil, err
	}

	now := time.Now()

	exportPath := input.Path
	if exportPath == "" {
		dir, err := DefaultExportsDir()
		if err != nil {
			return nil, err
		}
		exportPath = filepath.Join(dir, document.BuildFilename(a.Kind, now))
	}

	// Validate ALL paths (both user-provided and default) for security.
	if err := ValidateExportPath(exportPath, cfg); err != nil {
		return nil, err
	}

	// Ensure parent directory exists
	dir := filepath.Dir(exportPath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, errors.NewExportFailed(fmt.Errorf("failed to create export directory: %w", err))
	}

	content := document.EnsureMetadataHeader(a.Content, a.Kind, now)

	// Write to temp file first, then atomic rename to preserve existing file on failure
	randBytes := make([]byte, 8)
	if _, err := rand.Read(randBytes); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to generate temp file name: %w", err))
	}
	tempPath := exportPath + "." + hex.EncodeToString(randBytes) + ".tmp"
	file, err := openFileNoFollow(tempPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, errors.NewExportFailed(fmt.Errorf("failed to create export file: %w", err))
	}

	// Clean up temp file on failure (original file is preserved)
	success := false
	defer func() {
		if file != nil {
			file.Close()
		}
		if !success {
			os.Remove(tempPath)
		}
	}()

	if _, err := file.WriteString(content); err != nil {
		return nil, errors.NewExportFailed(err)
	}

	if err := file.Sync(); err != nil {
		return nil, errors.NewExportFailed(err)
	}

	// Close before atomic replace (required on Windows; fine elsewhere).
	if err := file.Close(); err != nil {
		return nil, errors.NewExportFailed(fmt.Errorf("failed to close export file: %w", err))
	}
	file = nil

	// Check if destination is a symlink (os.Rename would follow it)
	if info, err := os.Lstat(exportPath); err == nil && info.Mode()&os.ModeSymlink != 0 {
		return nil, errors.NewExportFailed(fmt.Errorf("export path is a symlink"))
	}

	// Finalize export by renaming temp file into place.
	//
	// Note: On Windows, os.Rename fails if the destination exists. We intentionally
	// fail safely (preserving the existing file) instead of doing a non-atomic
	// delete+rename that could lose the original if rename fails.
	if err := os.Rename(tempPath, exportPath); err != nil {
		if runtime.GOOS == "windows" {
			if _, statErr := os.Stat(exportPath); statErr == nil {
				return nil, errors.NewInvalidRequest("export destination already exists; overwriting is not supported on Windows yet (choose a new path or delete the existing file)")
			}
		}
		return nil, errors.NewExportFailed(fmt.Errorf("failed to finalize export: %w", err))
	}

	success = true
	return &ExportOutput{
		ID:         a.ID,
		Kind:       string(a.Kind),
		Path:       exportPath,
		Filename:   filepath.Base(exportPath),
		ExportedAt: now.Unix(),
	}, nil
}

// resolveExportArtifact loads the artifact to export: by ID when given,
// otherwise the latest of the requested kind.
func resolveExportArtifact(database *sql.DB, input ExportInput) (*document.Artifact, error) {
	if input.ID != "" {
		return db.GetByID(database, input.ID, false)
	}

	kindPtr, err := parseKindArg(input.Kind, true)
	if err != nil {
		return nil, err
	}
	if kindPtr == nil {
		return nil, errors.NewInvalidRequest("id or kind is required")
	}
	return db.LatestByKind(database, *kindPtr)
}
