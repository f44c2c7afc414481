package resume

import (
	"context"
	"fmt"
	"path"
	"regexp"
	"strings"
)

// TailoredFragment describes a freshly written alternate fragment.
type TailoredFragment struct {
	Section  Section
	Slug     string
	Path     string
	Filename string
}

// slugPattern is the shape a slug must have after whitespace folding:
// letters, digits, underscores and hyphens only. Anything that could
// change the path (separators, dots, traversal) is rejected outright.
var slugPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// sanitizeSlug folds inner whitespace to underscores and validates the
// result. The slug becomes part of a file path, so separators and
// traversal sequences are rejected rather than escaped.
func sanitizeSlug(slug string) (string, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidSlug)
	}
	slug = strings.Join(strings.Fields(slug), "_")
	if !slugPattern.MatchString(slug) {
		return "", fmt.Errorf("%w: %q", ErrInvalidSlug, slug)
	}
	return slug, nil
}

// CreateTailored writes a new fragment for the given section without
// touching the canonical one. The filename is
// <section>-<slug><ext>, with a numeric _n suffix appended when the
// name is already taken. Uniqueness is probed, not atomic: concurrent
// callers with the same slug can race.
func (s *Service) CreateTailored(ctx context.Context, name, slug, content string) (*TailoredFragment, error) {
	if s == nil {
		return nil, fmt.Errorf("service is nil")
	}
	sec, err := s.reg.Parse(name)
	if err != nil {
		return nil, err
	}
	cleanSlug, err := sanitizeSlug(slug)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}

	dir := s.reg.FragmentsDir()
	ext := s.reg.ext(sec)
	stem := fmt.Sprintf("%s-%s", sec, cleanSlug)

	filename := stem + ext
	target := path.Join(dir, filename)
	for n := 1; ; n++ {
		exists, err := s.store.Exists(ctx, target)
		if err != nil {
			return nil, &WriteError{Section: sec, Path: target, Err: err}
		}
		if !exists {
			break
		}
		filename = fmt.Sprintf("%s_%d%s", stem, n, ext)
		target = path.Join(dir, filename)
	}

	if err := s.store.Mkdir(ctx, dir); err != nil {
		return nil, &WriteError{Section: sec, Path: dir, Err: err}
	}
	if err := s.store.Write(ctx, target, []byte(content)); err != nil {
		return nil, &WriteError{Section: sec, Path: target, Err: err}
	}

	s.logger.Printf("resume: created tailored fragment %s", target)
	return &TailoredFragment{
		Section:  sec,
		Slug:     cleanSlug,
		Path:     target,
		Filename: filename,
	}, nil
}
