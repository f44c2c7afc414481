package resume

import (
	"context"
	"fmt"
	"log"

	"github.com/selensince1817/resume-mcp/internal/overleaf"
)

// Service binds the section registry to a project store and carries the
// rewrite protocol's three operations: ReadAll/ReadSection,
// CreateTailored, and Repoint. It holds no mutable state; every call
// reads the store fresh.
type Service struct {
	store  overleaf.ProjectStore
	reg    *Registry
	logger *log.Logger
}

// NewService wires a project store to a registry. A nil logger falls
// back to the process default.
func NewService(store overleaf.ProjectStore, reg *Registry, logger *log.Logger) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("project store is nil")
	}
	if reg == nil {
		return nil, fmt.Errorf("registry is nil")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Service{store: store, reg: reg, logger: logger}, nil
}

// Registry exposes the immutable section registry.
func (s *Service) Registry() *Registry { return s.reg }

// ReadAll fetches every canonical fragment and returns them keyed by
// logical name. Any single failure aborts the whole read; callers never
// receive a snapshot with silently missing sections.
func (s *Service) ReadAll(ctx context.Context) (map[string]string, error) {
	if s == nil {
		return nil, fmt.Errorf("service is nil")
	}
	out := make(map[string]string, len(s.reg.names))
	for _, sec := range s.reg.Sections() {
		p := s.reg.canonical[sec]
		data, err := s.store.Read(ctx, p)
		if err != nil {
			return nil, &SectionReadError{Section: sec, Path: p, Err: err}
		}
		out[string(sec)] = string(data)
	}
	return out, nil
}

// ReadSection fetches one canonical fragment by logical name.
func (s *Service) ReadSection(ctx context.Context, name string) (string, error) {
	if s == nil {
		return "", fmt.Errorf("service is nil")
	}
	sec, err := s.reg.Parse(name)
	if err != nil {
		return "", err
	}
	p := s.reg.canonical[sec]
	data, err := s.store.Read(ctx, p)
	if err != nil {
		return "", &SectionReadError{Section: sec, Path: p, Err: err}
	}
	return string(data), nil
}
