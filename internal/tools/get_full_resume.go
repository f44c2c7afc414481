package tools

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
)

// --------------------- get_full_resume ---------------------

type getFullResumeTool struct{ host Host }

func newGetFullResumeTool(h Host) *getFullResumeTool { return &getFullResumeTool{host: h} }

func (t *getFullResumeTool) Definition() mcp.Tool {
	return mcp.NewTool("get_full_resume",
		mcp.WithDescription("Read every registered resume section from the project. Returns a JSON object mapping logical section name to its LaTeX content. Fails if any section is unreadable."),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

func (t *getFullResumeTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if t.host.Service == nil {
		return mcp.NewToolResultError("get_full_resume: resume service not configured"), nil
	}
	sections, err := t.host.Service.ReadAll(ctx)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("get_full_resume", err), nil
	}
	out, err := json.Marshal(sections)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(out)), nil
}
