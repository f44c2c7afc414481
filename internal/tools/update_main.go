package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// --------------------- update_main_tex_with_new_sections ---------------------

type updateMainTool struct{ host Host }

func newUpdateMainTool(h Host) *updateMainTool { return &updateMainTool{host: h} }

type updateMainInput struct {
	Filenames []string `json:"filenames"`
}

type updateMainOutput struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (t *updateMainTool) Definition() mcp.Tool {
	return mcp.NewTool("update_main_tex_with_new_sections",
		mcp.WithDescription("Rewrite the master document so each supplied fragment filename becomes its section's active \\input directive. Filenames apply in order; later entries win on the same section. Filenames that do not map to a registered section are skipped."),
		mcp.WithArray("filenames",
			mcp.Required(),
			mcp.Description("Fragment filenames in apply order, e.g. [\"experience-acme_swe.tex\"]. Canonical names like \"experience.tex\" switch a section back."),
			mcp.Items(map[string]any{"type": "string"}),
		),
		mcp.WithIdempotentHintAnnotation(true),
	)
}

func (t *updateMainTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if t.host.Service == nil {
		return mcp.NewToolResultError("update_main_tex_with_new_sections: resume service not configured"), nil
	}
	var in updateMainInput
	if err := req.BindArguments(&in); err != nil {
		return mcp.NewToolResultErrorFromErr("update_main_tex_with_new_sections", err), nil
	}
	changed, err := t.host.Service.Repoint(ctx, in.Filenames)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("update_main_tex_with_new_sections", err), nil
	}
	master := t.host.Service.Registry().MasterPath()
	result := updateMainOutput{
		Status:  "success",
		Message: fmt.Sprintf("%s updated", master),
	}
	if !changed {
		result = updateMainOutput{
			Status:  "no_change",
			Message: fmt.Sprintf("%s already points at the requested fragments", master),
		}
	}
	out, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(out)), nil
}
