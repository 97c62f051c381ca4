package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// Tool definitions for the document pipeline. Each tool maps 1:1 onto an
// ops function; argument names match the ops input fields.

var storeToolDef = mcp.NewTool("document_store",
	mcp.WithDescription("Store a raw meeting transcript as the root artifact of a document pipeline run. Returns the new artifact ID."),
	mcp.WithString("text",
		mcp.Required(),
		mcp.Description("Transcript text. Must not be blank."),
	),
)

var generateToolDef = mcp.NewTool("document_generate",
	mcp.WithDescription("Run one pipeline stage: key_points (from a transcript), prd (from key points), or trd (from a PRD). The source defaults to the latest artifact of the stage's source kind. Returns the generated artifact with its template validation result."),
	mcp.WithString("kind",
		mcp.Required(),
		mcp.Description("Stage to run: key_points, prd, or trd."),
	),
	mcp.WithString("source_id",
		mcp.Description("Artifact ID to use as the source. Defaults to the latest artifact of the stage's source kind."),
	),
	mcp.WithString("model",
		mcp.Description("Model override for this call."),
	),
	mcp.WithNumber("max_tokens",
		mcp.Description("Max tokens override for this call."),
	),
	mcp.WithNumber("temperature",
		mcp.Description("Temperature override for this call."),
	),
)

var validateToolDef = mcp.NewTool("document_validate",
	mcp.WithDescription("Validate a document against its template: all top-level sections must be present. Returns missing sections, per-section subsection coverage, and a coverage score. A failed validation is a normal result, not an error."),
	mcp.WithString("id",
		mcp.Description("Stored artifact ID to validate. Provide id or content, not both."),
	),
	mcp.WithString("kind",
		mcp.Description("Template kind for inline content: prd or trd. Required with content."),
	),
	mcp.WithString("content",
		mcp.Description("Inline markdown to validate instead of a stored artifact."),
	),
)

var exportToolDef = mcp.NewTool("document_export",
	mcp.WithDescription("Export an artifact to a markdown file named <prefix><YYYY-MM-DD>_<HH-MM>.md with a generation metadata header. Files are written under ~/.scribe/exports unless an allowed path is given."),
	mcp.WithString("id",
		mcp.Description("Artifact ID to export. Provide id or kind."),
	),
	mcp.WithString("kind",
		mcp.Description("Export the latest artifact of this kind: transcript, key_points, prd, or trd."),
	),
	mcp.WithString("path",
		mcp.Description("Destination path (.md, directly in an allowed directory). Defaults to ~/.scribe/exports with the standard filename."),
	),
)

var fetchToolDef = mcp.NewTool("document_fetch",
	mcp.WithDescription("Fetch an artifact by ID."),
	mcp.WithString("id",
		mcp.Required(),
		mcp.Description("Artifact ID."),
	),
	mcp.WithBoolean("include_deleted",
		mcp.Description("Include soft-deleted artifacts."),
	),
	mcp.WithBoolean("include_text",
		mcp.Description("Include full content in the response (default true)."),
	),
)

var listToolDef = mcp.NewTool("document_list",
	mcp.WithDescription("List artifact summaries, newest first."),
	mcp.WithString("kind",
		mcp.Description("Filter by kind: transcript, key_points, prd, or trd."),
	),
	mcp.WithNumber("limit",
		mcp.Description("Page size (default 20, max 100)."),
	),
	mcp.WithNumber("offset",
		mcp.Description("Pagination offset."),
	),
	mcp.WithBoolean("include_deleted",
		mcp.Description("Include soft-deleted artifacts."),
	),
)

var latestToolDef = mcp.NewTool("document_latest",
	mcp.WithDescription("Fetch the most recent active artifact of a kind."),
	mcp.WithString("kind",
		mcp.Required(),
		mcp.Description("Artifact kind: transcript, key_points, prd, or trd."),
	),
	mcp.WithBoolean("include_text",
		mcp.Description("Include full content in the response (default true)."),
	),
)

var deleteToolDef = mcp.NewTool("document_delete",
	mcp.WithDescription("Soft-delete an artifact by ID."),
	mcp.WithString("id",
		mcp.Required(),
		mcp.Description("Artifact ID."),
	),
)
