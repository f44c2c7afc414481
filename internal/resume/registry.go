// Package resume implements the section-targeted rewrite protocol: a
// registry of logical résumé sections backed by fragment files in a
// document project, an all-or-nothing reader, a tailored-fragment
// writer, and a master-document re-pointer that swaps inclusion
// directives between canonical and tailored fragments.
package resume

import (
	"fmt"
	"path"
	"sort"
	"strings"
)

// Section is the logical name of a résumé section. Values are validated
// against a Registry at the boundary; free-form strings never travel
// further in.
type Section string

// Registry is the immutable mapping from logical section name to the
// canonical fragment path, plus the master document path. All canonical
// fragments live under a single fragments directory.
type Registry struct {
	master    string
	dir       string
	canonical map[Section]string
	names     []Section
}

// DefaultMasterPath is the master document of the stock CV project.
const DefaultMasterPath = "main.tex"

// DefaultSections mirrors the stock CV project layout.
func DefaultSections() map[string]string {
	return map[string]string{
		"heading":               "sections/heading.tex",
		"education":             "sections/education.tex",
		"experience":            "sections/experience.tex",
		"additional_experience": "sections/additional_experience.tex",
		"skills":                "sections/skills.tex",
	}
}

// NewRegistry validates the section mapping and freezes it. Canonical
// paths must share one parent directory and carry an extension.
func NewRegistry(masterPath string, sections map[string]string) (*Registry, error) {
	masterPath = strings.TrimSpace(masterPath)
	if masterPath == "" {
		return nil, fmt.Errorf("master document path is required")
	}
	if len(sections) == 0 {
		return nil, fmt.Errorf("at least one section is required")
	}

	canonical := make(map[Section]string, len(sections))
	names := make([]Section, 0, len(sections))
	dir := ""
	for name, p := range sections {
		name = strings.TrimSpace(name)
		p = strings.TrimSpace(strings.TrimPrefix(p, "/"))
		if name == "" {
			return nil, fmt.Errorf("section name is required")
		}
		if p == "" {
			return nil, fmt.Errorf("section %q: canonical path is required", name)
		}
		if path.Ext(p) == "" {
			return nil, fmt.Errorf("section %q: canonical path %q has no extension", name, p)
		}
		d := path.Dir(p)
		if d == "." {
			return nil, fmt.Errorf("section %q: canonical path %q is not inside a fragments directory", name, p)
		}
		if dir == "" {
			dir = d
		} else if dir != d {
			return nil, fmt.Errorf("section %q: canonical path %q leaves the fragments directory %q", name, p, dir)
		}
		canonical[Section(name)] = p
		names = append(names, Section(name))
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })

	return &Registry{
		master:    masterPath,
		dir:       dir,
		canonical: canonical,
		names:     names,
	}, nil
}

// DefaultRegistry builds the registry for the stock CV project.
func DefaultRegistry() *Registry {
	reg, err := NewRegistry(DefaultMasterPath, DefaultSections())
	if err != nil {
		panic(err)
	}
	return reg
}

// MasterPath returns the master document path.
func (r *Registry) MasterPath() string { return r.master }

// FragmentsDir returns the directory holding every canonical fragment.
func (r *Registry) FragmentsDir() string { return r.dir }

// Sections returns the registered logical names in sorted order.
func (r *Registry) Sections() []Section {
	out := make([]Section, len(r.names))
	copy(out, r.names)
	return out
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.canonical[Section(name)]
	return ok
}

// Parse validates a free-form section name at the boundary.
func (r *Registry) Parse(name string) (Section, error) {
	name = strings.TrimSpace(name)
	if !r.Has(name) {
		return "", &UnknownSectionError{Name: name, Known: r.Sections()}
	}
	return Section(name), nil
}

// PathFor resolves the canonical fragment path of a logical section.
func (r *Registry) PathFor(name string) (string, error) {
	sec, err := r.Parse(name)
	if err != nil {
		return "", err
	}
	return r.canonical[sec], nil
}

// ext returns the fragment file extension of a registered section,
// including the leading dot.
func (r *Registry) ext(sec Section) string {
	return path.Ext(r.canonical[sec])
}
