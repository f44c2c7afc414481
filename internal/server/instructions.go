package server

import (
	"fmt"
	"strings"

	"github.com/selensince1817/resume-mcp/internal/resume"
)

// instructions tells the connected agent how to drive the tailoring
// workflow.
func instructions(reg *resume.Registry) string {
	secs := reg.Sections()
	names := make([]string, len(secs))
	for i, sec := range secs {
		names[i] = string(sec)
	}
	return fmt.Sprintf(`You are connected to %s, an MCP server for tailoring a LaTeX resume stored in a remote document project.

Registered sections: %s. The master document is %s.

Typical tailoring flow:
1. Call get_full_resume (or read_cv_section) to fetch the current content.
2. Rewrite one or more sections yourself, then save each rewrite with create_tailored_section. Canonical files are never modified; every variant gets its own file and the tool returns the filename.
3. Activate the variants with update_main_tex_with_new_sections, passing the returned filenames in order. Passing a canonical name like "experience.tex" switches that section back to the original.

Rules:
- Never invent facts that are not in the resume. Tailoring reorders, rephrases, and emphasizes; it does not fabricate.
- When assess_profile_similarity is available, use it to compare the resume against a job description before deciding which sections to rewrite.
- Tool failures name the section and path that caused them; report the failure to the user instead of retrying blindly.`,
		Name, strings.Join(names, ", "), reg.MasterPath())
}
