package resume

import (
	"errors"
	"fmt"
	"strings"
)

// Writer precondition sentinels.
var (
	ErrInvalidSlug  = errors.New("resume: invalid slug")
	ErrEmptyContent = errors.New("resume: empty content")
)

// UnknownSectionError reports a logical name missing from the registry.
type UnknownSectionError struct {
	Name  string
	Known []Section
}

func (e *UnknownSectionError) Error() string {
	known := make([]string, len(e.Known))
	for i, s := range e.Known {
		known[i] = string(s)
	}
	return fmt.Sprintf("unknown section %q (registered: %s)", e.Name, strings.Join(known, ", "))
}

// SectionReadError reports a canonical fragment that could not be read.
// The aggregation fails closed: callers never see a partial snapshot.
type SectionReadError struct {
	Section Section
	Path    string
	Err     error
}

func (e *SectionReadError) Error() string {
	return fmt.Sprintf("read section %q (%s): %v", e.Section, e.Path, e.Err)
}

func (e *SectionReadError) Unwrap() error { return e.Err }

// WriteError reports a failed fragment write or directory create.
type WriteError struct {
	Section Section
	Path    string
	Err     error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write section %q (%s): %v", e.Section, e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// RepointError reports a master document with no inclusion directive
// for a targeted section. The whole repoint fails before any write.
type RepointError struct {
	Section Section
	Master  string
}

func (e *RepointError) Error() string {
	return fmt.Sprintf("no inclusion directive for section %q in %s", e.Section, e.Master)
}
