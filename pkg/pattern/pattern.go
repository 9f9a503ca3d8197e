// Package pattern compiles and evaluates the semicolon-separated regular
// expression filters used to select files for synchronization.
package pattern

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrEmpty is returned when a pattern string contains no usable segments
// after splitting and trimming.
var ErrEmpty = errors.New("pattern string contains no patterns")

// Set is an ordered collection of compiled, case-insensitive regular
// expressions. A file name matches the set if it matches ANY one pattern.
type Set struct {
	patterns []*regexp.Regexp
	raw      []string
}

// Compile splits the input on ';', trims whitespace, drops empty segments,
// and compiles each remaining segment as a case-insensitive, unanchored
// regular expression. It fails if the resulting set would be empty or if
// any segment does not compile; the underlying regexp error is wrapped.
func Compile(patterns string) (*Set, error) {
	segments := strings.Split(patterns, ";")

	set := &Set{
		patterns: make([]*regexp.Regexp, 0, len(segments)),
		raw:      make([]string, 0, len(segments)),
	}
	for _, seg := range segments {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}

		// Case-insensitivity is applied via an inline flag rather than
		// lowercasing candidates, so patterns keep full regexp semantics.
		re, err := regexp.Compile("(?i)" + seg)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", seg, err)
		}
		set.patterns = append(set.patterns, re)
		set.raw = append(set.raw, seg)
	}

	if len(set.patterns) == 0 {
		return nil, ErrEmpty
	}
	return set, nil
}

// Matches reports whether the file name matches at least one pattern in the
// set. Matching is an unanchored substring search: patterns are not
// implicitly pinned to the whole name.
func (s *Set) Matches(name string) bool {
	for _, re := range s.patterns {
		if re.MatchString(name) {
			return true
		}
	}
	return false
}

// Len returns the number of compiled patterns.
func (s *Set) Len() int {
	return len(s.patterns)
}

// Strings returns the trimmed source text of each compiled pattern, in order.
func (s *Set) Strings() []string {
	out := make([]string, len(s.raw))
	copy(out, s.raw)
	return out
}
