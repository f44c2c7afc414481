package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/selensince1817/resume-mcp/internal/llm"
	"github.com/selensince1817/resume-mcp/internal/overleaf"
	"github.com/selensince1817/resume-mcp/internal/prompts"
	"github.com/selensince1817/resume-mcp/internal/resume"
)

const masterDoc = `\documentclass{article}
\begin{document}
\input{./sections/heading.tex}
\input{sections/education.tex}
\input{./sections/experience.tex}
\input{sections/additional_experience.tex}
\input{sections/skills.tex}
\end{document}
`

func setupHost(t *testing.T) (Host, *overleaf.MemoryProject) {
	t.Helper()
	ctx := context.Background()
	store := overleaf.NewMemoryProject()
	reg := resume.DefaultRegistry()
	for _, sec := range reg.Sections() {
		p, err := reg.PathFor(string(sec))
		if err != nil {
			t.Fatalf("path for %s: %v", sec, err)
		}
		if err := store.Write(ctx, p, []byte(fmt.Sprintf("\\section{%s}\n", sec))); err != nil {
			t.Fatalf("seed %s: %v", sec, err)
		}
	}
	if err := store.Write(ctx, reg.MasterPath(), []byte(masterDoc)); err != nil {
		t.Fatalf("seed master: %v", err)
	}
	svc, err := resume.NewService(store, reg, log.New(io.Discard, "", 0))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return Host{Service: svc, Project: "cv-xelatex"}, store
}

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func textResult(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if res == nil {
		t.Fatalf("nil tool result")
	}
	if len(res.Content) != 1 {
		t.Fatalf("expected 1 content block, got %d", len(res.Content))
	}
	tc, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", res.Content[0])
	}
	return tc.Text
}

func expectToolError(t *testing.T, res *mcp.CallToolResult, err error, fragment string) {
	t.Helper()
	if err != nil {
		t.Fatalf("expected in-band tool error, got transport error: %v", err)
	}
	if res == nil || !res.IsError {
		t.Fatalf("expected tool error containing %q", fragment)
	}
	if text := textResult(t, res); !strings.Contains(text, fragment) {
		t.Fatalf("tool error %q does not mention %q", text, fragment)
	}
}

func TestGetFullResumeTool(t *testing.T) {
	host, _ := setupHost(t)
	tool := newGetFullResumeTool(host)

	res, err := tool.Handle(context.Background(), callRequest("get_full_resume", nil))
	if err != nil {
		t.Fatalf("get_full_resume: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected tool error: %s", textResult(t, res))
	}
	var sections map[string]string
	if err := json.Unmarshal([]byte(textResult(t, res)), &sections); err != nil {
		t.Fatalf("decode sections: %v", err)
	}
	if len(sections) != 5 {
		t.Fatalf("expected 5 sections, got %d", len(sections))
	}
	if !strings.Contains(sections["skills"], `\section{skills}`) {
		t.Fatalf("unexpected skills content %q", sections["skills"])
	}
}

func TestGetFullResumeTool_MissingSection(t *testing.T) {
	host, store := setupHost(t)
	if err := store.Remove(context.Background(), "sections/skills.tex"); err != nil {
		t.Fatalf("remove skills: %v", err)
	}
	tool := newGetFullResumeTool(host)

	res, err := tool.Handle(context.Background(), callRequest("get_full_resume", nil))
	expectToolError(t, res, err, "skills")
}

func TestReadSectionTool(t *testing.T) {
	host, _ := setupHost(t)
	tool := newReadSectionTool(host)

	res, err := tool.Handle(context.Background(), callRequest("read_cv_section", map[string]any{
		"logical_name": "education",
	}))
	if err != nil {
		t.Fatalf("read_cv_section: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected tool error: %s", textResult(t, res))
	}
	if got := textResult(t, res); got != "\\section{education}\n" {
		t.Fatalf("unexpected content %q", got)
	}
}

func TestReadSectionTool_Unknown(t *testing.T) {
	host, _ := setupHost(t)
	tool := newReadSectionTool(host)

	res, err := tool.Handle(context.Background(), callRequest("read_cv_section", map[string]any{
		"logical_name": "hobbies",
	}))
	expectToolError(t, res, err, "unknown section")

	res, err = tool.Handle(context.Background(), callRequest("read_cv_section", map[string]any{}))
	expectToolError(t, res, err, "logical_name is required")
}

func TestCreateTailoredTool(t *testing.T) {
	host, store := setupHost(t)
	tool := newCreateTailoredTool(host)
	content := "\\section{Experience}\nAcme platform team.\n"

	res, err := tool.Handle(context.Background(), callRequest("create_tailored_section", map[string]any{
		"logical_name": "experience",
		"slug":         "acme swe",
		"new_content":  content,
	}))
	if err != nil {
		t.Fatalf("create_tailored_section: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected tool error: %s", textResult(t, res))
	}
	var out createTailoredOutput
	if err := json.Unmarshal([]byte(textResult(t, res)), &out); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if out.Status != "success" {
		t.Fatalf("expected status success, got %q", out.Status)
	}
	if out.Filename != "experience-acme_swe.tex" {
		t.Fatalf("unexpected filename %q", out.Filename)
	}
	if out.FilePath != "sections/experience-acme_swe.tex" {
		t.Fatalf("unexpected file path %q", out.FilePath)
	}
	if out.ProjectName != "cv-xelatex" {
		t.Fatalf("unexpected project name %q", out.ProjectName)
	}
	raw, err := store.Read(context.Background(), out.FilePath)
	if err != nil {
		t.Fatalf("read back fragment: %v", err)
	}
	if string(raw) != content {
		t.Fatalf("fragment content mismatch: %q", string(raw))
	}

	// Same arguments again must land on a fresh disambiguated name.
	res, err = tool.Handle(context.Background(), callRequest("create_tailored_section", map[string]any{
		"logical_name": "experience",
		"slug":         "acme swe",
		"new_content":  content,
	}))
	if err != nil {
		t.Fatalf("second create: %v", err)
	}
	if err := json.Unmarshal([]byte(textResult(t, res)), &out); err != nil {
		t.Fatalf("decode second output: %v", err)
	}
	if out.Filename != "experience-acme_swe_1.tex" {
		t.Fatalf("expected disambiguated filename, got %q", out.Filename)
	}
}

func TestCreateTailoredTool_Rejections(t *testing.T) {
	host, _ := setupHost(t)
	tool := newCreateTailoredTool(host)

	res, err := tool.Handle(context.Background(), callRequest("create_tailored_section", map[string]any{
		"logical_name": "experience",
		"slug":         "../../etc/passwd",
		"new_content":  "x",
	}))
	expectToolError(t, res, err, "invalid slug")

	res, err = tool.Handle(context.Background(), callRequest("create_tailored_section", map[string]any{
		"logical_name": "experience",
		"slug":         "acme",
		"new_content":  "   ",
	}))
	expectToolError(t, res, err, "empty content")

	res, err = tool.Handle(context.Background(), callRequest("create_tailored_section", map[string]any{
		"logical_name": "hobbies",
		"slug":         "acme",
		"new_content":  "x",
	}))
	expectToolError(t, res, err, "unknown section")
}

func TestUpdateMainTool(t *testing.T) {
	host, store := setupHost(t)
	tool := newUpdateMainTool(host)

	res, err := tool.Handle(context.Background(), callRequest("update_main_tex_with_new_sections", map[string]any{
		"filenames": []string{"experience-acme_swe.tex"},
	}))
	if err != nil {
		t.Fatalf("update_main_tex: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected tool error: %s", textResult(t, res))
	}
	var out updateMainOutput
	if err := json.Unmarshal([]byte(textResult(t, res)), &out); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if out.Status != "success" {
		t.Fatalf("expected status success, got %q", out.Status)
	}

	raw, err := store.Read(context.Background(), "main.tex")
	if err != nil {
		t.Fatalf("read master: %v", err)
	}
	text := string(raw)
	if !strings.Contains(text, `\input{sections/experience-acme_swe.tex}`) {
		t.Fatalf("master not repointed:\n%s", text)
	}
	if strings.Contains(text, `\input{./sections/experience.tex}`) {
		t.Fatalf("canonical experience include survived:\n%s", text)
	}
	if !strings.Contains(text, `\input{sections/skills.tex}`) {
		t.Fatalf("skills include was disturbed:\n%s", text)
	}

	// Second identical call is a no-op.
	res, err = tool.Handle(context.Background(), callRequest("update_main_tex_with_new_sections", map[string]any{
		"filenames": []string{"experience-acme_swe.tex"},
	}))
	if err != nil {
		t.Fatalf("second update: %v", err)
	}
	if err := json.Unmarshal([]byte(textResult(t, res)), &out); err != nil {
		t.Fatalf("decode second output: %v", err)
	}
	if out.Status != "no_change" {
		t.Fatalf("expected status no_change, got %q", out.Status)
	}
}

func TestUpdateMainTool_UnregisteredSkipped(t *testing.T) {
	host, store := setupHost(t)
	tool := newUpdateMainTool(host)

	res, err := tool.Handle(context.Background(), callRequest("update_main_tex_with_new_sections", map[string]any{
		"filenames": []string{"bogus_section-x.tex"},
	}))
	if err != nil {
		t.Fatalf("update_main_tex: %v", err)
	}
	var out updateMainOutput
	if err := json.Unmarshal([]byte(textResult(t, res)), &out); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if out.Status != "no_change" {
		t.Fatalf("expected status no_change, got %q", out.Status)
	}
	raw, err := store.Read(context.Background(), "main.tex")
	if err != nil {
		t.Fatalf("read master: %v", err)
	}
	if string(raw) != masterDoc {
		t.Fatalf("master changed by unregistered filename:\n%s", string(raw))
	}
}

func TestUpdateMainTool_MissingDirective(t *testing.T) {
	host, store := setupHost(t)
	tool := newUpdateMainTool(host)

	stripped := strings.Replace(masterDoc, "\\input{sections/skills.tex}\n", "", 1)
	if err := store.Write(context.Background(), "main.tex", []byte(stripped)); err != nil {
		t.Fatalf("rewrite master: %v", err)
	}

	res, err := tool.Handle(context.Background(), callRequest("update_main_tex_with_new_sections", map[string]any{
		"filenames": []string{"skills-acme.tex"},
	}))
	expectToolError(t, res, err, "skills")

	raw, err := store.Read(context.Background(), "main.tex")
	if err != nil {
		t.Fatalf("read master: %v", err)
	}
	if string(raw) != stripped {
		t.Fatalf("master was written despite failed repoint:\n%s", string(raw))
	}
}

func TestAssessSimilarityTool(t *testing.T) {
	host, _ := setupHost(t)
	fake := llm.NewFakeClient()
	host.LLM = fake
	tool := newAssessSimilarityTool(host)

	res, err := tool.Handle(context.Background(), callRequest("assess_profile_similarity", map[string]any{
		"job_description": "Senior Go engineer, Kubernetes platform team.",
	}))
	if err != nil {
		t.Fatalf("assess_profile_similarity: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected tool error: %s", textResult(t, res))
	}
	var verdict prompts.SimilarityVerdict
	if err := json.Unmarshal([]byte(textResult(t, res)), &verdict); err != nil {
		t.Fatalf("decode verdict: %v", err)
	}
	if len(verdict.Strengths) == 0 || len(verdict.Gaps) == 0 {
		t.Fatalf("expected non-empty verdict, got %+v", verdict)
	}
	if fake.Calls != 1 {
		t.Fatalf("expected 1 model call, got %d", fake.Calls)
	}
	if fake.LastPrompt != prompts.ProfileSimilarity {
		t.Fatalf("unexpected prompt sent to model")
	}
	in, ok := fake.LastInput.(prompts.SimilarityInput)
	if !ok {
		t.Fatalf("unexpected model input type %T", fake.LastInput)
	}
	if in.JobDescription != "Senior Go engineer, Kubernetes platform team." {
		t.Fatalf("job description not forwarded: %q", in.JobDescription)
	}
	if len(in.Resume) != 5 {
		t.Fatalf("expected 5 resume sections in model input, got %d", len(in.Resume))
	}
}

func TestAssessSimilarityTool_Failures(t *testing.T) {
	host, _ := setupHost(t)

	tool := newAssessSimilarityTool(host)
	res, err := tool.Handle(context.Background(), callRequest("assess_profile_similarity", map[string]any{
		"job_description": "anything",
	}))
	expectToolError(t, res, err, "no language model configured")

	fake := llm.NewFakeClient()
	host.LLM = fake
	tool = newAssessSimilarityTool(host)

	res, err = tool.Handle(context.Background(), callRequest("assess_profile_similarity", map[string]any{
		"job_description": "  ",
	}))
	expectToolError(t, res, err, "job_description is required")

	fake.Err = errors.New("model unavailable")
	res, err = tool.Handle(context.Background(), callRequest("assess_profile_similarity", map[string]any{
		"job_description": "anything",
	}))
	expectToolError(t, res, err, "model unavailable")
}

type fakeLister struct {
	projects []overleaf.Project
	err      error
}

func (f *fakeLister) Projects(context.Context) ([]overleaf.Project, error) {
	return f.projects, f.err
}

func TestListProjectsTool(t *testing.T) {
	host, _ := setupHost(t)
	host.Projects = &fakeLister{projects: []overleaf.Project{
		{ID: "64f1c0ffee", Name: "cv-xelatex"},
		{ID: "64f1c0ffef", Name: "thesis"},
	}}
	tool := newListProjectsTool(host)

	res, err := tool.Handle(context.Background(), callRequest("list_projects", nil))
	if err != nil {
		t.Fatalf("list_projects: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected tool error: %s", textResult(t, res))
	}
	var projects []overleaf.Project
	if err := json.Unmarshal([]byte(textResult(t, res)), &projects); err != nil {
		t.Fatalf("decode projects: %v", err)
	}
	if len(projects) != 2 || projects[0].Name != "cv-xelatex" {
		t.Fatalf("unexpected listing %+v", projects)
	}

	host.Projects = &fakeLister{err: errors.New("session expired")}
	tool = newListProjectsTool(host)
	res, err = tool.Handle(context.Background(), callRequest("list_projects", nil))
	expectToolError(t, res, err, "session expired")
}

func TestRegister(t *testing.T) {
	host, _ := setupHost(t)
	host.LLM = llm.NewFakeClient()
	host.Projects = &fakeLister{}

	s := server.NewMCPServer("cv_mcp_server", "0.0.0-test", server.WithToolCapabilities(true))
	Register(s, host)
	Register(nil, host) // must not panic

	raw := s.HandleMessage(context.Background(), json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	b, err := json.Marshal(raw)
	if err != nil {
		t.Fatalf("marshal tools/list response: %v", err)
	}
	for _, name := range []string{
		"get_full_resume",
		"read_cv_section",
		"create_tailored_section",
		"update_main_tex_with_new_sections",
		"assess_profile_similarity",
		"list_projects",
	} {
		if !strings.Contains(string(b), name) {
			t.Fatalf("tools/list missing %s: %s", name, string(b))
		}
	}
}

func TestRegister_OptionalToolsSkipped(t *testing.T) {
	host, _ := setupHost(t)

	s := server.NewMCPServer("cv_mcp_server", "0.0.0-test", server.WithToolCapabilities(true))
	Register(s, host)

	raw := s.HandleMessage(context.Background(), json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	b, err := json.Marshal(raw)
	if err != nil {
		t.Fatalf("marshal tools/list response: %v", err)
	}
	if strings.Contains(string(b), "assess_profile_similarity") {
		t.Fatalf("assess_profile_similarity registered without a model client")
	}
	if strings.Contains(string(b), "list_projects") {
		t.Fatalf("list_projects registered without a listing client")
	}
}
