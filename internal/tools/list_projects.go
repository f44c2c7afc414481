package tools

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
)

// --------------------- list_projects ---------------------

type listProjectsTool struct{ host Host }

func newListProjectsTool(h Host) *listProjectsTool { return &listProjectsTool{host: h} }

func (t *listProjectsTool) Definition() mcp.Tool {
	return mcp.NewTool("list_projects",
		mcp.WithDescription("List the document projects visible to the authenticated session, with their names and ids."),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

func (t *listProjectsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if t.host.Projects == nil {
		return mcp.NewToolResultError("list_projects: no project listing client configured"), nil
	}
	projects, err := t.host.Projects.Projects(ctx)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("list_projects", err), nil
	}
	out, err := json.Marshal(projects)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(out)), nil
}
