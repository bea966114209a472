// Package artifilter implements the coordinate-pattern grammar used to include or ignore
// artifacts during classification.  A pattern has the form
//
//	[groupId]:[artifactId]:[type]:[version]
//
// where each segment is optional and supports full and partial "*" wildcards.  An empty
// segment is an implicit wildcard, as is a trailing run of omitted segments.  For example,
// "org.apache.*" matches every artifact whose group identifier starts with "org.apache.",
// and ":::*-SNAPSHOT" matches every snapshot artifact.
package artifilter

import (
	"fmt"
	"strings"
)

// maxSegments is the number of coordinate segments a pattern may address.
const maxSegments = 4

// A Filter is a compiled list of coordinate patterns.  An artifact matches the filter if it
// matches at least one of the patterns.  The zero-pattern filter matches nothing; use
// [Filter.Empty] to distinguish "no patterns configured" from "nothing matched".
type Filter struct {
	patterns [][maxSegments]string
}

// Compile parses the given patterns into a [Filter].  It returns an error if any pattern has
// more than four segments.
func Compile(patterns []string) (*Filter, error) {
	f := &Filter{}
	for _, p := range patterns {
		segs := strings.Split(p, ":")
		if len(segs) > maxSegments {
			return nil, fmt.Errorf("invalid pattern %q: want at most %v colon-separated segments, got %v",
				p, maxSegments, len(segs))
		}
		var compiled [maxSegments]string
		copy(compiled[:], segs)
		f.patterns = append(f.patterns, compiled)
	}
	return f, nil
}

// Empty reports whether the filter was compiled from zero patterns.
func (f *Filter) Empty() bool {
	return len(f.patterns) == 0
}

// Matches reports whether the given coordinate segments match any of the filter's patterns.
func (f *Filter) Matches(group, artifact, typ, version string) bool {
	coord := [maxSegments]string{group, artifact, typ, version}
	for _, p := range f.patterns {
		ok := true
		for i, seg := range p {
			if !matchSegment(seg, coord[i]) {
				ok = false
				break
			}
		}
		if ok {
			return true
		}
	}
	return false
}

// matchSegment reports whether s matches one pattern segment.  An empty segment is an
// implicit wildcard; otherwise "*" matches any (possibly empty) run of characters.
func matchSegment(pat, s string) bool {
	if pat == "" {
		return true
	}
	if !strings.Contains(pat, "*") {
		return pat == s
	}
	parts := strings.Split(pat, "*")
	if !strings.HasPrefix(s, parts[0]) {
		return false
	}
	s = s[len(parts[0]):]
	last := parts[len(parts)-1]
	for _, mid := range parts[1 : len(parts)-1] {
		i := strings.Index(s, mid)
		if i < 0 {
			return false
		}
		s = s[i+len(mid):]
	}
	return strings.HasSuffix(s, last)
}
