package discover

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatcher_DefaultAndUserOverrides(t *testing.T) {
	m := NewMatcher([]string{
		"derivatives/**",
		"!derivatives/keep/sub-01/dwi/a.json",
		"*.tmp",
	})

	cases := []struct {
		path    string
		isDir   bool
		ignored bool
	}{
		{path: ".git/config", isDir: false, ignored: true},
		{path: ".datalad", isDir: true, ignored: true},
		{path: "derivatives/fsl/sub-01/dwi/a.json", isDir: false, ignored: true},
		{path: "derivatives/keep/sub-01/dwi/a.json", isDir: false, ignored: false},
		{path: "sub-01/dwi/cache.tmp", isDir: false, ignored: true},
		{path: "sub-01/dwi/sub-01_dwi.json", isDir: false, ignored: false},
	}

	for _, tc := range cases {
		got := m.ShouldIgnore(tc.path, tc.isDir)
		assert.Equal(t, tc.ignored, got, "path %s", tc.path)
	}
}

func TestMatcher_NegatedDirectoryRule(t *testing.T) {
	m := NewMatcher([]string{
		"sourcedata/",
		"!sourcedata/include/",
	})

	assert.True(t, m.ShouldIgnore("sourcedata/raw/file.json", false))
	assert.False(t, m.ShouldIgnore("sourcedata/include/file.json", false))
}

func TestMatcher_AnchoredDirectoryOnlyMatchesAtRoot(t *testing.T) {
	m := NewMatcher([]string{"/derivatives/"})

	assert.True(t, m.ShouldIgnore("derivatives", true))
	assert.True(t, m.ShouldIgnore("derivatives/pipe/sub-01/dwi/a.json", false))
	assert.False(t, m.ShouldIgnore("sub-01/derivatives/a.json", false))
}

func TestPattern_SidecarLayouts(t *testing.T) {
	p := CompilePattern(SidecarPattern("dwi"))

	cases := []struct {
		path  string
		match bool
	}{
		{path: "sub-01/dwi/sub-01_dwi.json", match: true},
		{path: "sub-01/ses-01/dwi/sub-01_ses-01_dwi.json", match: true},
		{path: "sub-01/ses-01/extra/dwi/x.json", match: true},
		{path: "derivatives/pipe/sub-01/dwi/x.json", match: true},
		{path: "sub-01/dwi/sub-01_dwi.nii.gz", match: false},
		{path: "sub-01/anat/sub-01_T1w.json", match: false},
		{path: "sub-01/dwi/nested/x.json", match: false},
		{path: "dwi/x.json", match: false},
		{path: "subject-01/dwi/x.json", match: false},
		{path: "sub-01/dwi.json", match: false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.match, p.Match(tc.path), "path %s", tc.path)
	}
}

func TestPattern_OtherModality(t *testing.T) {
	p := CompilePattern(SidecarPattern("fmap"))

	assert.True(t, p.Match("sub-01/ses-02/fmap/sub-01_ses-02_dir-AP_epi.json"))
	assert.False(t, p.Match("sub-01/dwi/sub-01_dwi.json"))
	assert.Equal(t, "sub-*/**/fmap/*.json", p.String())
}

func TestGlobToRegex(t *testing.T) {
	assert.Equal(t, `sub-[^/]*/(?:.*/)?dwi/[^/]*\.json`, globToRegex("sub-*/**/dwi/*.json"))
	assert.Equal(t, `a/.*`, globToRegex("a/**"))
	assert.Equal(t, `file[^/]\.txt`, globToRegex("file?.txt"))
}
