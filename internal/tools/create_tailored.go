package tools

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// --------------------- create_tailored_section ---------------------

type createTailoredTool struct{ host Host }

func newCreateTailoredTool(h Host) *createTailoredTool { return &createTailoredTool{host: h} }

type createTailoredInput struct {
	LogicalName string `json:"logical_name"`
	Slug        string `json:"slug"`
	NewContent  string `json:"new_content"`
}

type createTailoredOutput struct {
	Status      string `json:"status"`
	FilePath    string `json:"file_path"`
	Filename    string `json:"filename"`
	ProjectName string `json:"project_name"`
}

func (t *createTailoredTool) Definition() mcp.Tool {
	names := t.host.sectionNames()
	return mcp.NewTool("create_tailored_section",
		mcp.WithDescription("Write a tailored variant of one resume section as a new fragment file. The canonical file is never touched; filename collisions get a numeric suffix. Pass the returned filename to update_main_tex_with_new_sections to activate it."),
		mcp.WithString("logical_name",
			mcp.Required(),
			mcp.Description("Logical section to tailor. One of: "+strings.Join(names, ", ")+"."),
			mcp.Enum(names...),
		),
		mcp.WithString("slug",
			mcp.Required(),
			mcp.Description("Short tag naming the variant, e.g. \"acme_swe\". Whitespace becomes underscores; path separators are rejected."),
		),
		mcp.WithString("new_content",
			mcp.Required(),
			mcp.Description("Complete LaTeX body of the tailored fragment."),
		),
		mcp.WithDestructiveHintAnnotation(false),
	)
}

func (t *createTailoredTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if t.host.Service == nil {
		return mcp.NewToolResultError("create_tailored_section: resume service not configured"), nil
	}
	var in createTailoredInput
	if err := req.BindArguments(&in); err != nil {
		return mcp.NewToolResultErrorFromErr("create_tailored_section", err), nil
	}
	frag, err := t.host.Service.CreateTailored(ctx, in.LogicalName, in.Slug, in.NewContent)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("create_tailored_section", err), nil
	}
	out, err := json.Marshal(createTailoredOutput{
		Status:      "success",
		FilePath:    frag.Path,
		Filename:    frag.Filename,
		ProjectName: t.host.Project,
	})
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(out)), nil
}
