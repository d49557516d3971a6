package pattern

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

// ErrInvalidSyntax is returned when a pattern fails to compile.
var ErrInvalidSyntax = errors.New("invalid pattern syntax")

// Pattern is a compiled applicability pattern. The source form is a
// comma-separated list of glob sub-patterns; a path matches the [Pattern] if
// it matches any sub-pattern. Within a sub-pattern, `**` matches zero or more
// path segments and `*` matches within a single segment. Matching is
// case-sensitive and anchored to the path relative to the project root.
type Pattern struct {
	raw  string
	subs [][]string
}

// Compile parses and validates a pattern. All syntax errors surface here, so
// matching itself never fails.
func Compile(raw string) (*Pattern, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("%w: empty pattern", ErrInvalidSyntax)
	}

	p := &Pattern{raw: raw}

	for sub := range strings.SplitSeq(raw, ",") {
		sub = strings.TrimSpace(sub)
		if sub == "" {
			return nil, fmt.Errorf("%w: %q: empty sub-pattern", ErrInvalidSyntax, raw)
		}
		if strings.HasPrefix(sub, "/") {
			return nil, fmt.Errorf("%w: %q: pattern must be relative", ErrInvalidSyntax, raw)
		}

		segs := strings.Split(sub, "/")
		for _, seg := range segs {
			err := validateSegment(seg)
			if err != nil {
				return nil, fmt.Errorf("%w: %q: %w", ErrInvalidSyntax, sub, err)
			}
		}

		p.subs = append(p.subs, segs)
	}

	return p, nil
}

// MustCompile compiles a pattern and panics on error.
func MustCompile(raw string) *Pattern {
	p, err := Compile(raw)
	if err != nil {
		panic(err)
	}

	return p
}

func validateSegment(seg string) error {
	if seg == "" {
		return errors.New("empty path segment")
	}

	// `**` must be a complete segment.
	if strings.Contains(seg, "**") && seg != "**" {
		return fmt.Errorf("%q: `**` must be its own segment", seg)
	}

	if seg == "**" {
		return nil
	}

	// Delegate single-segment validation to [path.Match], which reports
	// malformed patterns eagerly.
	_, err := path.Match(seg, "probe")
	if err != nil {
		return fmt.Errorf("%q: %w", seg, err)
	}

	return nil
}

// Matches reports whether the given root-relative path matches the pattern.
func (p *Pattern) Matches(filePath string) bool {
	filePath = strings.TrimPrefix(path.Clean(filePath), "./")
	if filePath == "" || filePath == "." {
		return false
	}

	segs := strings.Split(filePath, "/")
	for _, sub := range p.subs {
		if matchSegments(sub, segs) {
			return true
		}
	}

	return false
}

// String returns the original pattern source.
func (p *Pattern) String() string {
	return p.raw
}

func matchSegments(pat, segs []string) bool {
	if len(pat) == 0 {
		return len(segs) == 0
	}

	if pat[0] == "**" {
		// Zero segments consumed.
		if matchSegments(pat[1:], segs) {
			return true
		}
		// One or more segments consumed.
		if len(segs) > 0 {
			return matchSegments(pat, segs[1:])
		}

		return false
	}

	if len(segs) == 0 {
		return false
	}

	// Segment patterns are validated at compile time, so [path.Match] cannot
	// fail here.
	ok, _ := path.Match(pat[0], segs[0])
	if !ok {
		return false
	}

	return matchSegments(pat[1:], segs[1:])
}
