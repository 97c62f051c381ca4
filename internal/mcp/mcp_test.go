package mcp

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/scribe/internal/config"
	"github.com/hpungsan/scribe/internal/db"
	"github.com/hpungsan/scribe/internal/document"
	"github.com/hpungsan/scribe/internal/errors"
	"github.com/hpungsan/scribe/internal/gen"
	"github.com/hpungsan/scribe/internal/pipeline"
)

// cannedGenerator returns fixed content per stage so handler tests run
// without a network.
type cannedGenerator struct{}

func (cannedGenerator) Generate(_ context.Context, kind document.Kind, _ string, _ gen.Params) (string, error) {
	switch kind {
	case document.KindKeyPoints:
		return "# Key Points\n\n- decisions get lost\n- capture owner\n", nil
	case document.KindPRD:
		return testPRDText(), nil
	case document.KindTRD:
		return "## Architecture Overview\nMVVM.\n", nil
	}
	return "", &gen.Error{Kind: gen.Upstream, Message: "unexpected kind"}
}

// testSetup creates a temporary database, config, and controller for testing.
func testSetup(t *testing.T) (*sql.DB, *config.Config, *pipeline.Controller, func()) {
	t.Helper()

	database, err := db.Init(t.TempDir())
	if err != nil {
		t.Fatalf("failed to init db: %v", err)
	}

	cfg := config.DefaultConfig()
	cfg.AllowedPaths = []string{t.TempDir()}

	validator := document.NewValidator(document.NewRegistry(), nil)
	ctrl := pipeline.New(cannedGenerator{}, validator, cfg.PipelineConfig())

	cleanup := func() {
		database.Close()
	}

	return database, cfg, ctrl, cleanup
}

func newTestHandlers(database *sql.DB, cfg *config.Config, ctrl *pipeline.Controller) *Handlers {
	return NewHandlers(database, cfg, ctrl, document.NewValidator(document.NewRegistry(), nil))
}

// makeRequest creates a CallToolRequest with the given arguments.
func makeRequest(args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

// testPRDText returns a PRD with all required sections.
func testPRDText() string {
	return `## Executive Summary
A mobile app for tracking team decisions.

## Problem Statement
Meeting outcomes get lost.

## Goals & Objectives
Capture every decision.

## User Stories/Requirements
As a PM, I want past decisions searchable.

## Success Metrics
80% of meetings produce a summary.

## Timeline/Milestones
Phase 1 in Q2.

## Technical Requirements
Android, offline-first.

## Risk Assessment
Adoption risk.
`
}

func TestHandleStore(t *testing.T) {
	database, cfg, ctrl, cleanup := testSetup(t)
	defer cleanup()

	h := newTestHandlers(database, cfg, ctrl)
	ctx := context.Background()

	tests := []struct {
		name      string
		args      map[string]any
		wantError bool
		errorCode string
	}{
		{
			name:      "store transcript",
			args:      map[string]any{"text": "Alice: let's capture decisions.\nBob: agreed."},
			wantError: false,
		},
		{
			name:      "store without text",
			args:      map[string]any{},
			wantError: true,
			errorCode: "INVALID_REQUEST",
		},
		{
			name:      "store blank text",
			args:      map[string]any{"text": "   \n\t"},
			wantError: true,
			errorCode: "INVALID_REQUEST",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := h.HandleStore(ctx, makeRequest(tt.args))
			if err != nil {
				t.Fatalf("handler returned error: %v", err)
			}

			if tt.wantError {
				if !result.IsError {
					t.Errorf("expected error result, got success")
				}
				if tt.errorCode != "" {
					assertErrorCode(t, result, tt.errorCode)
				}
			} else {
				output := parseOutput(t, result)
				if output["kind"] != "transcript" {
					t.Errorf("kind = %v, want transcript", output["kind"])
				}
				if output["id"] == "" {
					t.Error("expected non-empty id")
				}
			}
		})
	}
}

func TestHandleGenerate(t *testing.T) {
	database, cfg, ctrl, cleanup := testSetup(t)
	defer cleanup()

	h := newTestHandlers(database, cfg, ctrl)
	ctx := context.Background()

	// No transcript yet: the key points stage has no source.
	result, err := h.HandleGenerate(ctx, makeRequest(map[string]any{"kind": "key_points"}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected error result for missing prerequisite")
	}
	assertErrorCode(t, result, "PREREQUISITE_MISSING")

	// Store a transcript, then generate key points and a PRD.
	result, err = h.HandleStore(ctx, makeRequest(map[string]any{"text": "Alice: capture decisions."}))
	if err != nil {
		t.Fatalf("store returned error: %v", err)
	}
	parseOutput(t, result)

	result, err = h.HandleGenerate(ctx, makeRequest(map[string]any{"kind": "key_points"}))
	if err != nil {
		t.Fatalf("generate returned error: %v", err)
	}
	kpOut := parseOutput(t, result)
	if kpOut["kind"] != "key_points" {
		t.Errorf("kind = %v, want key_points", kpOut["kind"])
	}
	if _, ok := kpOut["validation"]; ok {
		t.Error("key points output should not carry validation")
	}

	result, err = h.HandleGenerate(ctx, makeRequest(map[string]any{"kind": "prd", "model": "gpt-4o"}))
	if err != nil {
		t.Fatalf("generate returned error: %v", err)
	}
	prdOut := parseOutput(t, result)
	if prdOut["model"] != "gpt-4o" {
		t.Errorf("model = %v, want gpt-4o", prdOut["model"])
	}
	validation, ok := prdOut["validation"].(map[string]any)
	if !ok {
		t.Fatal("expected validation object in PRD output")
	}
	if validation["valid"] != true {
		t.Errorf("valid = %v, want true", validation["valid"])
	}

	// Unknown kind is rejected before any generation.
	result, err = h.HandleGenerate(ctx, makeRequest(map[string]any{"kind": "blueprint"}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	assertErrorCode(t, result, "INVALID_REQUEST")
}

func TestHandleValidate(t *testing.T) {
	database, cfg, ctrl, cleanup := testSetup(t)
	defer cleanup()

	h := newTestHandlers(database, cfg, ctrl)
	ctx := context.Background()

	// Inline content with a missing section.
	result, err := h.HandleValidate(ctx, makeRequest(map[string]any{
		"kind":    "prd",
		"content": "## Executive Summary\nshort\n",
	}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	output := parseOutput(t, result)
	resultObj, ok := output["result"].(map[string]any)
	if !ok {
		t.Fatal("expected result object")
	}
	if resultObj["valid"] != false {
		t.Errorf("valid = %v, want false", resultObj["valid"])
	}
	missing, ok := resultObj["missing_sections"].([]any)
	if !ok || len(missing) != 7 {
		t.Errorf("missing_sections = %v, want 7 entries", resultObj["missing_sections"])
	}

	// id and content together are rejected.
	result, err = h.HandleValidate(ctx, makeRequest(map[string]any{"id": "x", "content": "y"}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	assertErrorCode(t, result, "INVALID_REQUEST")

	// Unknown stored ID.
	result, err = h.HandleValidate(ctx, makeRequest(map[string]any{"id": "does-not-exist"}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	assertErrorCode(t, result, "NOT_FOUND")
}

func TestHandleExport(t *testing.T) {
	database, cfg, ctrl, cleanup := testSetup(t)
	defer cleanup()

	h := newTestHandlers(database, cfg, ctrl)
	ctx := context.Background()

	result, err := h.HandleStore(ctx, makeRequest(map[string]any{"text": "Alice: decisions."}))
	if err != nil {
		t.Fatalf("store returned error: %v", err)
	}
	stored := parseOutput(t, result)

	// Export to an explicit path inside the allowed directory.
	path := filepath.Join(cfg.AllowedPaths[0], "transcript.md")
	result, err = h.HandleExport(ctx, makeRequest(map[string]any{"id": stored["id"], "path": path}))
	if err != nil {
		t.Fatalf("export returned error: %v", err)
	}
	output := parseOutput(t, result)
	if output["path"] != path {
		t.Errorf("path = %v, want %v", output["path"], path)
	}

	// A path outside the allowed directories is rejected.
	outside := filepath.Join(t.TempDir(), "escape.md")
	result, err = h.HandleExport(ctx, makeRequest(map[string]any{"id": stored["id"], "path": outside}))
	if err != nil {
		t.Fatalf("export returned error: %v", err)
	}
	assertErrorCode(t, result, "INVALID_REQUEST")
}

func TestHandleFetchListLatestDelete(t *testing.T) {
	database, cfg, ctrl, cleanup := testSetup(t)
	defer cleanup()

	h := newTestHandlers(database, cfg, ctrl)
	ctx := context.Background()

	result, err := h.HandleStore(ctx, makeRequest(map[string]any{"text": "Alice: decisions."}))
	if err != nil {
		t.Fatalf("store returned error: %v", err)
	}
	stored := parseOutput(t, result)
	id := stored["id"].(string)

	// Fetch
	result, err = h.HandleFetch(ctx, makeRequest(map[string]any{"id": id}))
	if err != nil {
		t.Fatalf("fetch returned error: %v", err)
	}
	fetched := parseOutput(t, result)
	if fetched["id"] != id {
		t.Errorf("id = %v, want %v", fetched["id"], id)
	}
	if fetched["content"] == "" {
		t.Error("expected content in fetch output")
	}

	// Fetch without text
	result, err = h.HandleFetch(ctx, makeRequest(map[string]any{"id": id, "include_text": false}))
	if err != nil {
		t.Fatalf("fetch returned error: %v", err)
	}
	fetched = parseOutput(t, result)
	if _, ok := fetched["content"]; ok {
		t.Error("expected content omitted when include_text=false")
	}

	// List
	result, err = h.HandleList(ctx, makeRequest(map[string]any{"kind": "transcript"}))
	if err != nil {
		t.Fatalf("list returned error: %v", err)
	}
	listed := parseOutput(t, result)
	items, ok := listed["items"].([]any)
	if !ok || len(items) != 1 {
		t.Errorf("items = %v, want 1 entry", listed["items"])
	}

	// Latest
	result, err = h.HandleLatest(ctx, makeRequest(map[string]any{"kind": "transcript"}))
	if err != nil {
		t.Fatalf("latest returned error: %v", err)
	}
	latest := parseOutput(t, result)
	if latest["id"] != id {
		t.Errorf("latest id = %v, want %v", latest["id"], id)
	}

	// Delete, then fetch fails.
	result, err = h.HandleDelete(ctx, makeRequest(map[string]any{"id": id}))
	if err != nil {
		t.Fatalf("delete returned error: %v", err)
	}
	deleted := parseOutput(t, result)
	if deleted["deleted"] != true {
		t.Errorf("deleted = %v, want true", deleted["deleted"])
	}

	result, err = h.HandleFetch(ctx, makeRequest(map[string]any{"id": id}))
	if err != nil {
		t.Fatalf("fetch returned error: %v", err)
	}
	assertErrorCode(t, result, "NOT_FOUND")
}

func TestServerRegistration(t *testing.T) {
	database, cfg, ctrl, cleanup := testSetup(t)
	defer cleanup()

	s := NewServer(database, cfg, ctrl, document.NewValidator(document.NewRegistry(), nil), "test")
	tools := s.ListTools()
	if tools == nil {
		t.Fatal("expected tools to be registered, got nil")
	}

	expectedTools := []string{
		"document_store",
		"document_generate",
		"document_validate",
		"document_export",
		"document_fetch",
		"document_list",
		"document_latest",
		"document_delete",
	}

	if len(tools) != len(expectedTools) {
		t.Errorf("registered tool count = %d, want %d", len(tools), len(expectedTools))
	}

	for _, name := range expectedTools {
		if _, ok := tools[name]; !ok {
			t.Errorf("missing registered tool: %s", name)
		}
	}
}

func TestServerRegistration_WithDisabledTools(t *testing.T) {
	database, cfg, ctrl, cleanup := testSetup(t)
	defer cleanup()

	cfg.DisabledTools = []string{"document_delete", "document_export"}
	s := NewServer(database, cfg, ctrl, document.NewValidator(document.NewRegistry(), nil), "test")
	tools := s.ListTools()

	if len(tools) != 6 {
		t.Errorf("registered tool count = %d, want 6", len(tools))
	}

	for _, name := range []string{"document_delete", "document_export"} {
		if _, ok := tools[name]; ok {
			t.Errorf("disabled tool %q should not be registered", name)
		}
	}

	for _, name := range []string{"document_store", "document_generate", "document_fetch"} {
		if _, ok := tools[name]; !ok {
			t.Errorf("core tool %q should be registered", name)
		}
	}
}

func TestServerRegistration_DisabledType(t *testing.T) {
	database, cfg, ctrl, cleanup := testSetup(t)
	defer cleanup()

	cfg.DisabledTypes = []string{"document"}
	s := NewServer(database, cfg, ctrl, document.NewValidator(document.NewRegistry(), nil), "test")
	tools := s.ListTools()

	if len(tools) != 0 {
		t.Errorf("registered tool count = %d, want 0 (type disabled)", len(tools))
	}
}

func TestValidateDisabledTools(t *testing.T) {
	unknown := ValidateDisabledTools([]string{"document_store", "nope", "document_list"})
	if len(unknown) != 1 || unknown[0] != "nope" {
		t.Errorf("unknown = %v, want [nope]", unknown)
	}

	if got := ValidateDisabledTools(nil); len(got) != 0 {
		t.Errorf("unknown for nil input = %v, want empty", got)
	}
}

func TestValidateDisabledTypes(t *testing.T) {
	unknown := ValidateDisabledTypes([]string{"document", "notebook"})
	if len(unknown) != 1 || unknown[0] != "notebook" {
		t.Errorf("unknown = %v, want [notebook]", unknown)
	}
}

func TestExpandTypesToTools(t *testing.T) {
	tools := ExpandTypesToTools([]string{"document"})
	if len(tools) != len(toolRegistry) {
		t.Errorf("expanded tool count = %d, want %d", len(tools), len(toolRegistry))
	}

	if got := ExpandTypesToTools(nil); got != nil {
		t.Errorf("expanded for nil input = %v, want nil", got)
	}
}

func TestAllToolNames(t *testing.T) {
	names := AllToolNames()
	if len(names) != len(toolRegistry) {
		t.Errorf("tool name count = %d, want %d", len(names), len(toolRegistry))
	}
	for _, name := range names {
		if GetTypeForTool(name) != "document" {
			t.Errorf("tool %q has type %q, want document", name, GetTypeForTool(name))
		}
	}
}

func TestErrorResult_InternalDoesNotExposeDetails(t *testing.T) {
	r := errorResult(errors.NewInternal(fmt.Errorf("sql error: open /tmp/secret.db: permission denied")))
	if !r.IsError {
		t.Fatal("expected IsError=true")
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(r.Content[0].(mcp.TextContent).Text), &payload); err != nil {
		t.Fatalf("failed to unmarshal error payload: %v", err)
	}
	errObj := payload["error"].(map[string]any)

	if errObj["code"] != string(errors.ErrInternal) {
		t.Fatalf("code=%v, want %v", errObj["code"], errors.ErrInternal)
	}
	if _, ok := errObj["details"]; ok {
		t.Fatal("expected INTERNAL errors to omit details")
	}
}

func TestErrorResult_NonInternalIncludesDetails(t *testing.T) {
	r := errorResult(errors.NewNotFound("abc"))
	if !r.IsError {
		t.Fatal("expected IsError=true")
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(r.Content[0].(mcp.TextContent).Text), &payload); err != nil {
		t.Fatalf("failed to unmarshal error payload: %v", err)
	}
	errObj := payload["error"].(map[string]any)

	if errObj["code"] != string(errors.ErrNotFound) {
		t.Fatalf("code=%v, want %v", errObj["code"], errors.ErrNotFound)
	}
	if _, ok := errObj["details"]; !ok {
		t.Fatal("expected non-INTERNAL errors to include details when present")
	}
}

// Helper functions

// parseOutput extracts and unmarshals the JSON output from an MCP result.
func parseOutput(t *testing.T, result *mcp.CallToolResult) map[string]any {
	t.Helper()
	if result.IsError {
		t.Fatalf("expected success, got error: %v", extractErrorMessage(result))
	}
	var output map[string]any
	if err := json.Unmarshal([]byte(result.Content[0].(mcp.TextContent).Text), &output); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	return output
}

func assertErrorCode(t *testing.T, result *mcp.CallToolResult, expectedCode string) {
	t.Helper()

	if len(result.Content) == 0 {
		t.Errorf("no content in error result")
		return
	}

	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Errorf("content is not TextContent")
		return
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(text.Text), &payload); err != nil {
		t.Errorf("failed to unmarshal error payload: %v", err)
		return
	}

	errorObj, ok := payload["error"].(map[string]any)
	if !ok {
		t.Errorf("no error object in payload")
		return
	}

	code, ok := errorObj["code"].(string)
	if !ok {
		t.Errorf("no code in error object")
		return
	}

	if code != expectedCode {
		t.Errorf("got error code %q, want %q", code, expectedCode)
	}
}

func extractErrorMessage(result *mcp.CallToolResult) string {
	if len(result.Content) == 0 {
		return "<no content>"
	}

	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		return "<not text content>"
	}

	return text.Text
}
