package mcp

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hpungsan/gauge/internal/convert"
	"github.com/hpungsan/gauge/internal/errors"
	"github.com/hpungsan/gauge/internal/ops"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	db *sql.DB
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(db *sql.DB) *Handlers {
	return &Handlers{db: db}
}

// CalculateRequest represents the arguments for <domain>_calculate.
type CalculateRequest struct {
	Expression string `json:"expression"`
	Explain    bool   `json:"explain,omitempty"`
}

// HistoryRequest represents the arguments for <domain>_history.
type HistoryRequest struct {
	Clear bool `json:"clear,omitempty"`
}

func (h *Handlers) calculateHandler(domain convert.Domain) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return h.HandleCalculate(ctx, domain, req)
	}
}

func (h *Handlers) historyHandler(domain convert.Domain) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return h.HandleHistory(ctx, domain, req)
	}
}

// HandleCalculate handles the <domain>_calculate tool call.
func (h *Handlers) HandleCalculate(ctx context.Context, domain convert.Domain, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[CalculateRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Calculate(ctx, h.db, ops.CalculateInput{
		Domain:     string(domain),
		Expression: input.Expression,
		Explain:    input.Explain,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleHistory handles the <domain>_history tool call.
func (h *Handlers) HandleHistory(ctx context.Context, domain convert.Domain, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[HistoryRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	if input.Clear {
		result, err := ops.ClearHistory(ctx, h.db, ops.HistoryInput{Domain: string(domain)})
		if err != nil {
			return errorResult(err), nil
		}
		return successResult(result)
	}

	result, err := ops.History(ctx, h.db, ops.HistoryInput{Domain: string(domain)})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Internal error details are never exposed.
func errorResult(err error) *mcp.CallToolResult {
	calcErr := errors.As(err)
	errorObj := map[string]any{
		"code":    calcErr.Code,
		"message": calcErr.Message,
		"status":  calcErr.Status,
	}
	if calcErr.Code == errors.ErrInternal {
		errorObj["message"] = "an internal error occurred"
	} else if calcErr.Details != nil {
		errorObj["details"] = calcErr.Details
	}

	content, _ := json.Marshal(map[string]any{"error": errorObj})
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
