// Package tools exposes the résumé rewrite protocol as MCP tools. Each
// tool lives in its own file as a Definition/Handle pair over a shared
// Host; Register installs the set on a server.
package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/server"

	"github.com/selensince1817/resume-mcp/internal/llm"
	"github.com/selensince1817/resume-mcp/internal/overleaf"
	"github.com/selensince1817/resume-mcp/internal/resume"
)

// ProjectLister lists the projects visible to the authenticated
// session. *overleaf.Client satisfies it.
type ProjectLister interface {
	Projects(ctx context.Context) ([]overleaf.Project, error)
}

// Host wires the résumé service and its collaborators for tools.
type Host struct {
	Service *resume.Service

	// Project is the human-readable project name reported in tool
	// results.
	Project string

	// LLM powers assess_profile_similarity; nil leaves that tool
	// unregistered.
	LLM llm.Client

	// Projects powers list_projects; nil leaves that tool unregistered.
	Projects ProjectLister
}

// Register installs the résumé tool set on an MCP server. The
// similarity and project-listing tools are only registered when their
// collaborators are present.
func Register(s *server.MCPServer, h Host) {
	if s == nil {
		return
	}

	full := newGetFullResumeTool(h)
	s.AddTool(full.Definition(), full.Handle)

	read := newReadSectionTool(h)
	s.AddTool(read.Definition(), read.Handle)

	create := newCreateTailoredTool(h)
	s.AddTool(create.Definition(), create.Handle)

	update := newUpdateMainTool(h)
	s.AddTool(update.Definition(), update.Handle)

	if h.LLM != nil {
		assess := newAssessSimilarityTool(h)
		s.AddTool(assess.Definition(), assess.Handle)
	}
	if h.Projects != nil {
		list := newListProjectsTool(h)
		s.AddTool(list.Definition(), list.Handle)
	}
}

// sectionNames flattens the registered section names for tool schemas.
func (h Host) sectionNames() []string {
	if h.Service == nil {
		return nil
	}
	secs := h.Service.Registry().Sections()
	names := make([]string, len(secs))
	for i, sec := range secs {
		names[i] = string(sec)
	}
	return names
}
