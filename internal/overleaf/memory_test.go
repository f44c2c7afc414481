package overleaf

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryProjectWriteRead(t *testing.T) {
	ctx := context.Background()
	p := NewMemoryProject()

	if err := p.Write(ctx, "sections/experience.tex", []byte("\\section{Experience}")); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := p.Read(ctx, "sections/experience.tex")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != "\\section{Experience}" {
		t.Fatalf("read mismatch: %q", string(got))
	}

	// Parents appear implicitly.
	ok, err := p.Exists(ctx, "sections")
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if !ok {
		t.Fatalf("expected sections folder to exist after write")
	}
}

func TestMemoryProjectReadMissing(t *testing.T) {
	ctx := context.Background()
	p := NewMemoryProject()
	if _, err := p.Read(ctx, "main.tex"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryProjectListdir(t *testing.T) {
	ctx := context.Background()
	p := NewMemoryProject()
	files := []string{
		"main.tex",
		"sections/skills.tex",
		"sections/education.tex",
		"sections/old/heading.tex",
	}
	for _, f := range files {
		if err := p.Write(ctx, f, []byte("x")); err != nil {
			t.Fatalf("write %s: %v", f, err)
		}
	}

	entries, err := p.Listdir(ctx, "sections")
	if err != nil {
		t.Fatalf("listdir: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 direct children, got %d: %v", len(entries), entries)
	}
	// Sorted by name, folders flagged.
	if entries[0].Name != "education.tex" || entries[0].IsDir {
		t.Fatalf("unexpected first entry: %+v", entries[0])
	}
	if entries[1].Name != "old" || !entries[1].IsDir {
		t.Fatalf("unexpected folder entry: %+v", entries[1])
	}
	if entries[2].Name != "skills.tex" || entries[2].IsDir {
		t.Fatalf("unexpected last entry: %+v", entries[2])
	}

	if _, err := p.Listdir(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing folder, got %v", err)
	}

	root, err := p.Listdir(ctx, "")
	if err != nil {
		t.Fatalf("listdir root: %v", err)
	}
	if len(root) != 2 {
		t.Fatalf("expected main.tex and sections at root, got %v", root)
	}
}

func TestMemoryProjectRemove(t *testing.T) {
	ctx := context.Background()
	p := NewMemoryProject()
	if err := p.Write(ctx, "sections/skills.tex", []byte("x")); err != nil {
		t.Fatalf("write: %v", err)
	}

	if err := p.Remove(ctx, "sections"); err == nil {
		t.Fatalf("expected error removing non-empty folder")
	}
	if err := p.Remove(ctx, "sections/skills.tex"); err != nil {
		t.Fatalf("remove file: %v", err)
	}
	if err := p.Remove(ctx, "sections"); err != nil {
		t.Fatalf("remove empty folder: %v", err)
	}
	if err := p.Remove(ctx, "sections"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryProjectOverwrite(t *testing.T) {
	ctx := context.Background()
	p := NewMemoryProject()
	if err := p.Write(ctx, "main.tex", []byte("one")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := p.Write(ctx, "main.tex", []byte("two")); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, err := p.Read(ctx, "main.tex")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != "two" {
		t.Fatalf("expected overwritten content, got %q", string(got))
	}
}

func TestNormalizePath(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"/", ""},
		{"main.tex", "main.tex"},
		{"/sections/skills.tex", "sections/skills.tex"},
		{" sections/skills.tex ", "sections/skills.tex"},
		{"sections/", "sections"},
	}
	for _, tc := range cases {
		if got := normalizePath(tc.in); got != tc.want {
			t.Fatalf("normalizePath(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
