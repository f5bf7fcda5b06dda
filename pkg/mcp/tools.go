package mcp

import (
	"context"
	"encoding/json"
)

// Tool argument structs.

type modelArgs struct {
	ModelID string `json:"model_id"`
}

type auditArgs struct {
	AuditID string `json:"audit_id"`
}

type compareArgs struct {
	AuditA string `json:"audit_a"`
	AuditB string `json:"audit_b"`
}

// toolHandler is a function that handles a tool call.
type toolHandler func(ctx context.Context, s *Server, args json.RawMessage) ToolCallResult

// toolHandlers maps tool names to their handlers.
var toolHandlers = map[string]toolHandler{
	"llmscope_models":       handleModels,
	"llmscope_audits":       handleAudits,
	"llmscope_audit_detail": handleAuditDetail,
	"llmscope_compare":      handleCompare,
	"llmscope_comparisons":  handleComparisons,
}

// allTools is the list of tool definitions exposed via tools/list.
var allTools = []ToolDefinition{
	{
		Name:        "llmscope_models",
		Description: "List all registered model endpoints with provider and version.",
		InputSchema: map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		},
	},
	{
		Name:        "llmscope_audits",
		Description: "List audit runs for a model, newest first, with status and summary counts.",
		InputSchema: map[string]any{
			"type":     "object",
			"required": []string{"model_id"},
			"properties": map[string]any{
				"model_id": map[string]any{
					"type":        "string",
					"description": "The model ID whose runs to list",
				},
			},
		},
	},
	{
		Name:        "llmscope_audit_detail",
		Description: "Show a single audit run: status, per-suite breakdown and aggregate summary.",
		InputSchema: map[string]any{
			"type":     "object",
			"required": []string{"audit_id"},
			"properties": map[string]any{
				"audit_id": map[string]any{
					"type":        "string",
					"description": "The audit run ID to inspect",
				},
			},
		},
	},
	{
		Name:        "llmscope_compare",
		Description: "Diff two completed audit runs and persist the comparison. Both runs must be in completed state.",
		InputSchema: map[string]any{
			"type":     "object",
			"required": []string{"audit_a", "audit_b"},
			"properties": map[string]any{
				"audit_a": map[string]any{
					"type":        "string",
					"description": "Baseline audit run ID",
				},
				"audit_b": map[string]any{
					"type":        "string",
					"description": "Candidate audit run ID",
				},
			},
		},
	},
	{
		Name:        "llmscope_comparisons",
		Description: "List stored comparisons involving a model.",
		InputSchema: map[string]any{
			"type":     "object",
			"required": []string{"model_id"},
			"properties": map[string]any{
				"model_id": map[string]any{
					"type":        "string",
					"description": "The model ID whose comparisons to list",
				},
			},
		},
	},
}

func textResult(text string) ToolCallResult {
	return ToolCallResult{
		Content: []ContentBlock{{Type: "text", Text: text}},
	}
}

func errorResult(text string) ToolCallResult {
	return ToolCallResult{
		Content: []ContentBlock{{Type: "text", Text: text}},
		IsError: true,
	}
}

func handleModels(ctx context.Context, s *Server, _ json.RawMessage) ToolCallResult {
	configs, err := s.engine.ListModels(ctx)
	if err != nil {
		return errorResult("Error listing models: " + err.Error())
	}
	return textResult(formatModels(configs))
}

func handleAudits(ctx context.Context, s *Server, rawArgs json.RawMessage) ToolCallResult {
	var args modelArgs
	if len(rawArgs) > 0 {
		_ = json.Unmarshal(rawArgs, &args)
	}
	if args.ModelID == "" {
		return errorResult("model_id is required")
	}
	runs, err := s.engine.ListAudits(ctx, args.ModelID)
	if err != nil {
		return errorResult("Error listing audits: " + err.Error())
	}
	return textResult(formatAudits(runs))
}

func handleAuditDetail(ctx context.Context, s *Server, rawArgs json.RawMessage) ToolCallResult {
	var args auditArgs
	if len(rawArgs) > 0 {
		_ = json.Unmarshal(rawArgs, &args)
	}
	if args.AuditID == "" {
		return errorResult("audit_id is required")
	}
	rec, err := s.engine.GetAudit(ctx, args.AuditID)
	if err != nil {
		return errorResult("Error fetching audit: " + err.Error())
	}
	return textResult(formatAuditDetail(rec))
}

func handleCompare(ctx context.Context, s *Server, rawArgs json.RawMessage) ToolCallResult {
	var args compareArgs
	if len(rawArgs) > 0 {
		_ = json.Unmarshal(rawArgs, &args)
	}
	if args.AuditA == "" || args.AuditB == "" {
		return errorResult("audit_a and audit_b are required")
	}
	rec, err := s.comparator.CompareAudits(ctx, args.AuditA, args.AuditB)
	if err != nil {
		return errorResult("Error comparing audits: " + err.Error())
	}
	return textResult(formatComparison(rec))
}

func handleComparisons(ctx context.Context, s *Server, rawArgs json.RawMessage) ToolCallResult {
	var args modelArgs
	if len(rawArgs) > 0 {
		_ = json.Unmarshal(rawArgs, &args)
	}
	if args.ModelID == "" {
		return errorResult("model_id is required")
	}
	recs, err := s.comparator.ListForModel(ctx, args.ModelID)
	if err != nil {
		return errorResult("Error listing comparisons: " + err.Error())
	}
	return textResult(formatComparisons(recs))
}
