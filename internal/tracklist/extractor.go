// Package tracklist pulls now-playing track names out of a station's
// track-list script.
//
// The script is never evaluated. Extractor applies one pattern with a single
// capture group over the whole document and returns every captured literal in
// document order. Any line shaped like `name = "value"` matches, whether or
// not it is a track, and nothing is deduplicated.
package tracklist

import (
	"fmt"
	"regexp"

	"github.com/samber/lo"
)

// DefaultPattern matches `<anything> = "<literal>"` and captures the literal.
// The dot does not cross newlines, so each line yields at most one match.
const DefaultPattern = `.* = "(.*)"`

// Entry is one extracted track title.
type Entry = string

// PatternError rejects an extractor pattern at construction time.
type PatternError struct {
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid track-list pattern %q: %v", e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error {
	return e.Err
}

// Extractor applies a compiled single-capture pattern. It is safe for
// concurrent use.
type Extractor struct {
	re *regexp.Regexp
}

var defaultExtractor = &Extractor{re: regexp.MustCompile(DefaultPattern)}

// Default returns the extractor for DefaultPattern.
func Default() *Extractor {
	return defaultExtractor
}

// NewExtractor compiles pattern. The pattern must compile and contain exactly
// one capture group.
func NewExtractor(pattern string) (*Extractor, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, &PatternError{Pattern: pattern, Err: err}
	}
	if n := re.NumSubexp(); n != 1 {
		return nil, &PatternError{Pattern: pattern, Err: fmt.Errorf("want exactly one capture group, have %d", n)}
	}
	return &Extractor{re: re}, nil
}

// Pattern returns the source pattern.
func (e *Extractor) Pattern() string {
	return e.re.String()
}

// Extract returns the captured text of every match in document order. An
// empty document or one without matches yields an empty slice.
func (e *Extractor) Extract(doc string) []Entry {
	matches := e.re.FindAllStringSubmatch(doc, -1)
	return lo.Map(matches, func(m []string, _ int) Entry {
		return m[1]
	})
}
