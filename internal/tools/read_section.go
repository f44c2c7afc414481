package tools

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// --------------------- read_cv_section ---------------------

type readSectionTool struct{ host Host }

func newReadSectionTool(h Host) *readSectionTool { return &readSectionTool{host: h} }

type readSectionInput struct {
	LogicalName string `json:"logical_name"`
}

func (t *readSectionTool) Definition() mcp.Tool {
	names := t.host.sectionNames()
	return mcp.NewTool("read_cv_section",
		mcp.WithDescription("Read one canonical resume section by its logical name and return its raw LaTeX content."),
		mcp.WithString("logical_name",
			mcp.Required(),
			mcp.Description("Logical section name. One of: "+strings.Join(names, ", ")+"."),
			mcp.Enum(names...),
		),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

func (t *readSectionTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if t.host.Service == nil {
		return mcp.NewToolResultError("read_cv_section: resume service not configured"), nil
	}
	var in readSectionInput
	if err := req.BindArguments(&in); err != nil {
		return mcp.NewToolResultErrorFromErr("read_cv_section", err), nil
	}
	if strings.TrimSpace(in.LogicalName) == "" {
		return mcp.NewToolResultError("read_cv_section: logical_name is required"), nil
	}
	content, err := t.host.Service.ReadSection(ctx, in.LogicalName)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("read_cv_section", err), nil
	}
	return mcp.NewToolResultText(content), nil
}
