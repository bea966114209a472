package artifilter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatches(t *testing.T) {
	t.Parallel()
	for _, tc := range []struct {
		desc     string
		patterns []string
		group    string
		artifact string
		typ      string
		version  string
		want     bool
	}{
		{
			desc:     "exact group",
			patterns: []string{"org.apache.maven"},
			group:    "org.apache.maven", artifact: "maven-core", typ: "jar", version: "3.9.0",
			want: true,
		},
		{
			desc:     "exact group mismatch",
			patterns: []string{"org.apache.maven"},
			group:    "org.apache.maven.plugins", artifact: "x", typ: "jar", version: "1",
			want: false,
		},
		{
			desc:     "trailing wildcard on group",
			patterns: []string{"org.apache.*"},
			group:    "org.apache.maven.plugins", artifact: "x", typ: "jar", version: "1",
			want: true,
		},
		{
			desc:     "group and artifact",
			patterns: []string{"org.example:app"},
			group:    "org.example", artifact: "app", typ: "war", version: "0.1",
			want: true,
		},
		{
			desc:     "artifact mismatch",
			patterns: []string{"org.example:app"},
			group:    "org.example", artifact: "lib", typ: "jar", version: "0.1",
			want: false,
		},
		{
			desc:     "empty segment is a wildcard",
			patterns: []string{":app"},
			group:    "whatever", artifact: "app", typ: "jar", version: "1",
			want: true,
		},
		{
			desc:     "version suffix wildcard",
			patterns: []string{":::*-SNAPSHOT"},
			group:    "org.example", artifact: "app", typ: "jar", version: "2.0-SNAPSHOT",
			want: true,
		},
		{
			desc:     "version suffix wildcard mismatch",
			patterns: []string{":::*-SNAPSHOT"},
			group:    "org.example", artifact: "app", typ: "jar", version: "2.0",
			want: false,
		},
		{
			desc:     "inner wildcard",
			patterns: []string{"org.*.plugins"},
			group:    "org.apache.plugins", artifact: "x", typ: "jar", version: "1",
			want: true,
		},
		{
			desc:     "multiple wildcards ordered",
			patterns: []string{"*apache*maven*"},
			group:    "org.apache.maven.plugins", artifact: "x", typ: "jar", version: "1",
			want: true,
		},
		{
			desc:     "multiple wildcards out of order",
			patterns: []string{"*maven*apache*"},
			group:    "org.apache.maven.plugins", artifact: "x", typ: "jar", version: "1",
			want: false,
		},
		{
			desc:     "any pattern suffices",
			patterns: []string{"com.nomatch", "org.example"},
			group:    "org.example", artifact: "app", typ: "jar", version: "1",
			want: true,
		},
		{
			desc:     "bare wildcard matches everything",
			patterns: []string{"*"},
			group:    "org.example", artifact: "app", typ: "jar", version: "1",
			want: true,
		},
		{
			desc:     "type segment",
			patterns: []string{"::war"},
			group:    "org.example", artifact: "app", typ: "jar", version: "1",
			want: false,
		},
	} {
		t.Run(tc.desc, func(t *testing.T) {
			t.Parallel()
			f, err := Compile(tc.patterns)
			require.NoError(t, err)
			assert.Equal(t, tc.want, f.Matches(tc.group, tc.artifact, tc.typ, tc.version))
		})
	}
}

func TestCompile_TooManySegments(t *testing.T) {
	t.Parallel()
	_, err := Compile([]string{"g:a:t:v:extra"})
	assert.ErrorContains(t, err, "g:a:t:v:extra")
}

func TestEmpty(t *testing.T) {
	t.Parallel()
	f, err := Compile(nil)
	require.NoError(t, err)
	assert.True(t, f.Empty())
	assert.False(t, f.Matches("org.example", "app", "jar", "1"),
		"the zero-pattern filter matches nothing")
	f, err = Compile([]string{"org.example"})
	require.NoError(t, err)
	assert.False(t, f.Empty())
}
