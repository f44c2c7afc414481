package tools

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/selensince1817/resume-mcp/internal/prompts"
)

// --------------------- assess_profile_similarity ---------------------

type assessSimilarityTool struct{ host Host }

func newAssessSimilarityTool(h Host) *assessSimilarityTool { return &assessSimilarityTool{host: h} }

type assessSimilarityInput struct {
	JobDescription string `json:"job_description"`
}

func (t *assessSimilarityTool) Definition() mcp.Tool {
	return mcp.NewTool("assess_profile_similarity",
		mcp.WithDescription("Compare the full resume against a job description using the configured language model. Returns a JSON object with \"strengths\" and \"gaps\" arrays."),
		mcp.WithString("job_description",
			mcp.Required(),
			mcp.Description("Full text of the job posting to compare the resume against."),
		),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

func (t *assessSimilarityTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if t.host.Service == nil {
		return mcp.NewToolResultError("assess_profile_similarity: resume service not configured"), nil
	}
	if t.host.LLM == nil {
		return mcp.NewToolResultError("assess_profile_similarity: no language model configured"), nil
	}
	var in assessSimilarityInput
	if err := req.BindArguments(&in); err != nil {
		return mcp.NewToolResultErrorFromErr("assess_profile_similarity", err), nil
	}
	if strings.TrimSpace(in.JobDescription) == "" {
		return mcp.NewToolResultError("assess_profile_similarity: job_description is required"), nil
	}
	sections, err := t.host.Service.ReadAll(ctx)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("assess_profile_similarity", err), nil
	}
	raw, err := t.host.LLM.GenerateJSON(ctx, prompts.ProfileSimilarity, prompts.SimilarityInput{
		Resume:         sections,
		JobDescription: in.JobDescription,
	})
	if err != nil {
		return mcp.NewToolResultErrorFromErr("assess_profile_similarity", err), nil
	}
	var verdict prompts.SimilarityVerdict
	if err := json.Unmarshal(raw, &verdict); err != nil {
		return mcp.NewToolResultErrorFromErr("assess_profile_similarity: unexpected model output", err), nil
	}
	out, err := json.Marshal(verdict)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(out)), nil
}
