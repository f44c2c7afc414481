package overleaf

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// MemoryProject is an in-memory ProjectStore used in tests and as a
// fallback when no remote backend is configured.
type MemoryProject struct {
	mu    sync.RWMutex
	files map[string][]byte
	dirs  map[string]struct{}
}

// NewMemoryProject creates an empty in-memory project. Initial files
// may be seeded with Write/Mkdir.
func NewMemoryProject() *MemoryProject {
	return &MemoryProject{
		files: make(map[string][]byte),
		dirs:  make(map[string]struct{}),
	}
}

func (p *MemoryProject) Listdir(_ context.Context, path string) ([]Entry, error) {
	if p == nil {
		return nil, fmt.Errorf("project store is nil")
	}
	path = normalizePath(path)
	p.mu.RLock()
	defer p.mu.RUnlock()
	if path != "" {
		if _, ok := p.dirs[path]; !ok {
			return nil, ErrNotFound
		}
	}
	prefix := path
	if prefix != "" {
		prefix += "/"
	}
	seen := map[string]Entry{}
	for name := range p.files {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		rest := strings.TrimPrefix(name, prefix)
		if rest == "" || strings.Contains(rest, "/") {
			continue
		}
		seen[rest] = Entry{Name: rest}
	}
	for name := range p.dirs {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		rest := strings.TrimPrefix(name, prefix)
		if rest == "" || strings.Contains(rest, "/") {
			continue
		}
		seen[rest] = Entry{Name: rest, IsDir: true}
	}
	out := make([]Entry, 0, len(seen))
	for _, e := range seen {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (p *MemoryProject) Exists(_ context.Context, path string) (bool, error) {
	if p == nil {
		return false, fmt.Errorf("project store is nil")
	}
	path = normalizePath(path)
	if path == "" {
		return true, nil
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	if _, ok := p.files[path]; ok {
		return true, nil
	}
	_, ok := p.dirs[path]
	return ok, nil
}

func (p *MemoryProject) Read(_ context.Context, path string) ([]byte, error) {
	if p == nil {
		return nil, fmt.Errorf("project store is nil")
	}
	path = normalizePath(path)
	if path == "" {
		return nil, fmt.Errorf("path is required")
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	raw, ok := p.files[path]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), raw...), nil
}

func (p *MemoryProject) Write(_ context.Context, path string, content []byte) error {
	if p == nil {
		return fmt.Errorf("project store is nil")
	}
	path = normalizePath(path)
	if path == "" {
		return fmt.Errorf("path is required")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.addParentsLocked(path)
	p.files[path] = append([]byte(nil), content...)
	return nil
}

func (p *MemoryProject) Mkdir(_ context.Context, path string) error {
	if p == nil {
		return fmt.Errorf("project store is nil")
	}
	path = normalizePath(path)
	if path == "" {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.addParentsLocked(path + "/.")
	p.dirs[path] = struct{}{}
	return nil
}

func (p *MemoryProject) Remove(_ context.Context, path string) error {
	if p == nil {
		return fmt.Errorf("project store is nil")
	}
	path = normalizePath(path)
	if path == "" {
		return fmt.Errorf("path is required")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.files[path]; ok {
		delete(p.files, path)
		return nil
	}
	if _, ok := p.dirs[path]; ok {
		prefix := path + "/"
		for name := range p.files {
			if strings.HasPrefix(name, prefix) {
				return fmt.Errorf("folder %q is not empty", path)
			}
		}
		for name := range p.dirs {
			if strings.HasPrefix(name, prefix) {
				return fmt.Errorf("folder %q is not empty", path)
			}
		}
		delete(p.dirs, path)
		return nil
	}
	return ErrNotFound
}

// addParentsLocked registers every ancestor folder of path. Callers
// hold the write lock.
func (p *MemoryProject) addParentsLocked(path string) {
	for {
		parent, _ := splitPath(path)
		if parent == "" {
			return
		}
		p.dirs[parent] = struct{}{}
		path = parent
	}
}
