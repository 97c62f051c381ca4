package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/hpungsan/scribe/internal/config"
	"github.com/hpungsan/scribe/internal/document"
	"github.com/hpungsan/scribe/internal/errors"
	"github.com/hpungsan/scribe/internal/ops"
	"github.com/hpungsan/scribe/internal/pipeline"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(db *sql.DB, cfg *config.Config, ctrl *pipeline.Controller, validator *document.Validator) *cli.App {
	app := &cli.App{
		Name:    "scribe",
		Usage:   "Transcript to PRD/TRD document pipeline",
		Version: Version,
		Commands: []*cli.Command{
			storeCmd(db),
			generateCmd(db, ctrl, "keypoints", document.KindKeyPoints, "Generate key meeting points from a transcript"),
			generateCmd(db, ctrl, "prd", document.KindPRD, "Generate a Product Requirements Document from key points"),
			generateCmd(db, ctrl, "trd", document.KindTRD, "Generate a Technical Requirements Document from a PRD"),
			validateCmd(db, validator),
			exportCmd(db, cfg),
			fetchCmd(db),
			listCmd(db),
			latestCmd(db),
			deleteCmd(db),
			purgeCmd(db),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// storeCmd creates the store command.
func storeCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "store",
		Usage: "Store a transcript (reads text from stdin)",
		Action: func(c *cli.Context) error {
			if !stdinHasData() {
				return outputError(errors.NewInvalidRequest("transcript text must be piped via stdin"))
			}

			text, err := readStdin()
			if err != nil {
				return outputError(errors.NewInternal(err))
			}

			output, err := ops.Ingest(db, ops.IngestInput{Text: text})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// generateCmd creates a generation command for one pipeline stage.
func generateCmd(db *sql.DB, ctrl *pipeline.Controller, name string, kind document.Kind, usage string) *cli.Command {
	return &cli.Command{
		Name:      name,
		Usage:     usage,
		ArgsUsage: "[source-id]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "model", Aliases: []string{"m"}, Usage: "Model override"},
			&cli.IntFlag{Name: "max-tokens", Usage: "Max tokens override"},
			&cli.Float64Flag{Name: "temperature", Usage: "Temperature override"},
		},
		Action: func(c *cli.Context) error {
			input := ops.GenerateInput{
				Kind:        string(kind),
				Model:       c.String("model"),
				MaxTokens:   c.Int("max-tokens"),
				Temperature: c.Float64("temperature"),
			}

			if c.NArg() > 0 {
				input.SourceID = c.Args().First()
			}

			output, err := ops.Generate(c.Context, db, ctrl, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// validateCmd creates the validate command.
func validateCmd(db *sql.DB, validator *document.Validator) *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "Validate a document against its template (stored ID, or stdin with --kind)",
		ArgsUsage: "[id]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "kind", Aliases: []string{"k"}, Usage: "Template kind for stdin content: prd|trd"},
		},
		Action: func(c *cli.Context) error {
			input := ops.ValidateInput{
				Kind: c.String("kind"),
			}

			if c.NArg() > 0 {
				input.ID = c.Args().First()
			} else if stdinHasData() {
				content, err := readStdin()
				if err != nil {
					return outputError(errors.NewInternal(err))
				}
				input.Content = content
			}

			output, err := ops.Validate(db, validator, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// exportCmd creates the export command.
func exportCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "Export an artifact to a markdown file",
		ArgsUsage: "[id]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "kind", Aliases: []string{"k"}, Usage: "Export the latest artifact of this kind"},
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Usage: "Destination path (default: ~/.scribe/exports/<prefix><timestamp>.md)"},
		},
		Action: func(c *cli.Context) error {
			input := ops.ExportInput{
				Kind: c.String("kind"),
				Path: c.String("path"),
			}

			if c.NArg() > 0 {
				input.ID = c.Args().First()
			}

			output, err := ops.Export(db, cfg, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// fetchCmd creates the fetch command.
func fetchCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "fetch",
		Usage:     "Fetch an artifact by ID",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "include-deleted", Usage: "Include soft-deleted artifacts"},
			&cli.BoolFlag{Name: "no-text", Usage: "Exclude content from output"},
		},
		Action: func(c *cli.Context) error {
			input := ops.FetchInput{
				ID:             c.Args().First(),
				IncludeDeleted: c.Bool("include-deleted"),
			}

			if c.Bool("no-text") {
				includeText := false
				input.IncludeText = &includeText
			}

			output, err := ops.Fetch(db, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// listCmd creates the list command.
func listCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List artifacts, newest first",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "kind", Aliases: []string{"k"}, Usage: "Filter by kind: transcript|key_points|prd|trd"},
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: 20, Usage: "Maximum items to return"},
			&cli.IntFlag{Name: "offset", Aliases: []string{"o"}, Value: 0, Usage: "Items to skip"},
			&cli.BoolFlag{Name: "include-deleted", Usage: "Include soft-deleted artifacts"},
		},
		Action: func(c *cli.Context) error {
			input := ops.ListInput{
				Kind:           c.String("kind"),
				Limit:          c.Int("limit"),
				Offset:         c.Int("offset"),
				IncludeDeleted: c.Bool("include-deleted"),
			}

			output, err := ops.List(db, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// latestCmd creates the latest command.
func latestCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "latest",
		Usage:     "Get the most recent artifact of a kind",
		ArgsUsage: "<kind>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "no-text", Usage: "Exclude content from output"},
		},
		Action: func(c *cli.Context) error {
			input := ops.LatestInput{
				Kind: c.Args().First(),
			}

			if c.Bool("no-text") {
				includeText := false
				input.IncludeText = &includeText
			}

			output, err := ops.Latest(db, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// deleteCmd creates the delete command.
func deleteCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Soft-delete an artifact",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			output, err := ops.Delete(db, ops.DeleteInput{ID: c.Args().First()})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// purgeCmd creates the purge command.
func purgeCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "purge",
		Usage: "Permanently delete soft-deleted artifacts",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "older-than", Usage: "Only purge if deleted more than N days ago (e.g., 7d)"},
		},
		Action: func(c *cli.Context) error {
			input := ops.PurgeInput{}

			if olderThan := c.String("older-than"); olderThan != "" {
				days, err := parseDuration(olderThan)
				if err != nil {
					return outputError(errors.NewInvalidRequest(err.Error()))
				}
				input.OlderThanDays = days
			}

			output, err := ops.Purge(db, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// Helper functions

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if sErr, ok := err.(*errors.ScribeError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", sErr.Code, sErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// stdinHasData returns true if stdin has piped data (not a terminal).
func stdinHasData() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// readStdin reads all content from stdin.
func readStdin() (string, error) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// parseDuration parses "7d" format to days.
func parseDuration(s string) (int, error) {
	if numStr, ok := strings.CutSuffix(s, "d"); ok {
		days, err := strconv.Atoi(numStr)
		if err != nil {
			return 0, fmt.Errorf("invalid duration: %s", s)
		}
		if days < 0 {
			return 0, fmt.Errorf("duration must be non-negative")
		}
		return days, nil
	}
	return 0, fmt.Errorf("duration must end with 'd' (days), e.g., 7d")
}
