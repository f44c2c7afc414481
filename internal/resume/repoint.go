package resume

import (
	"context"
	"fmt"
	"path"
	"regexp"
	"strings"
)

// deriveSection maps a fragment filename back to its logical name: the
// extension is stripped and everything after the first hyphen (the
// tailoring suffix) is dropped. "experience-acme_swe.tex" and the
// canonical "experience.tex" both yield "experience".
func deriveSection(filename string) string {
	stem := strings.TrimSuffix(filename, path.Ext(filename))
	if i := strings.Index(stem, "-"); i >= 0 {
		stem = stem[:i]
	}
	return stem
}

// directivePattern matches the master document's inclusion directive
// for one logical section, canonical or tailored: an \input of
// <dir>/<name><ext> or <dir>/<name>-<anything><ext>, tolerating an
// optional ./ prefix and whitespace inside the braces, case-insensitive.
func directivePattern(dir string, sec Section, ext string) *regexp.Regexp {
	expr := `(?i)\\input\{\s*(?:\./)?` +
		regexp.QuoteMeta(dir) + `/` + regexp.QuoteMeta(string(sec)) +
		`(?:-[^}]*)?` + regexp.QuoteMeta(ext) + `\s*\}`
	return regexp.MustCompile(expr)
}

// Repoint rewrites the master document so each supplied fragment
// filename becomes its section's active include. Filenames are
// processed in order; on a duplicate section the later entry wins.
// Unregistered or extension-less names are skipped and logged. A
// section with no matching directive in the master document fails the
// whole operation before anything is written. The master is written
// back once, and only when the text actually changed.
func (s *Service) Repoint(ctx context.Context, filenames []string) (bool, error) {
	if s == nil {
		return false, fmt.Errorf("service is nil")
	}
	master := s.reg.MasterPath()
	raw, err := s.store.Read(ctx, master)
	if err != nil {
		return false, fmt.Errorf("read master document %q: %w", master, err)
	}
	original := string(raw)
	text := original
	dir := s.reg.FragmentsDir()

	applied := 0
	for _, fn := range filenames {
		base := path.Base(strings.TrimSpace(fn))
		if base == "." || base == "/" || base == "" {
			s.logger.Printf("repoint: skipping empty fragment name %q", fn)
			continue
		}
		if path.Ext(base) == "" {
			s.logger.Printf("repoint: skipping fragment %q without extension", fn)
			continue
		}
		name := deriveSection(base)
		if !s.reg.Has(name) {
			s.logger.Printf("repoint: skipping unregistered fragment %q", fn)
			continue
		}
		sec := Section(name)

		re := directivePattern(dir, sec, s.reg.ext(sec))
		if !re.MatchString(text) {
			return false, &RepointError{Section: sec, Master: master}
		}
		directive := fmt.Sprintf(`\input{%s/%s}`, dir, base)
		text = re.ReplaceAllLiteralString(text, directive)
		applied++
	}

	if text == original {
		return false, nil
	}
	if err := s.store.Write(ctx, master, []byte(text)); err != nil {
		return false, fmt.Errorf("write master document %q: %w", master, err)
	}
	s.logger.Printf("resume: repointed %d fragment(s) in %s", applied, master)
	return true, nil
}
