package discover

import (
	"path/filepath"
	"regexp"
	"strings"
)

type rule struct {
	pattern  string
	re       *regexp.Regexp
	negated  bool
	dirOnly  bool
	anchored bool
}

// Matcher applies gitignore-like exclusion rules with "last rule wins" behavior.
type Matcher struct {
	rules []rule
}

// DefaultExcludes are prepended to every matcher and can be overridden by
// negated user rules.
var DefaultExcludes = []string{
	".git/",
	".datalad/",
}

// NewMatcher builds a matcher from .bidsignore lines and configured excludes.
func NewMatcher(userRules []string) *Matcher {
	all := make([]string, 0, len(DefaultExcludes)+len(userRules))
	all = append(all, DefaultExcludes...)
	all = append(all, userRules...)

	rules := make([]rule, 0, len(all))
	for _, line := range all {
		if parsed, ok := parseRule(line); ok {
			rules = append(rules, parsed)
		}
	}

	return &Matcher{rules: rules}
}

// ShouldIgnore returns true when relPath should be excluded.
func (m *Matcher) ShouldIgnore(relPath string, isDir bool) bool {
	relPath = normalizePath(relPath)
	ignored := false
	for _, rule := range m.rules {
		if ruleMatches(rule, relPath, isDir) {
			ignored = !rule.negated
		}
	}
	return ignored
}

// Pattern is a compiled path glob matched against any trailing run of path
// segments, so it applies at every depth below the root.
type Pattern struct {
	glob string
	re   *regexp.Regexp
}

// CompilePattern compiles a slash-separated glob. "*" and "?" stay within one
// segment, "**" spans any number of segments including none.
func CompilePattern(glob string) *Pattern {
	glob = normalizePath(glob)
	return &Pattern{glob: glob, re: compileGlob(glob)}
}

func (p *Pattern) String() string {
	return p.glob
}

// Match reports whether relPath, or any suffix of it that starts at a segment
// boundary, matches the pattern.
func (p *Pattern) Match(relPath string) bool {
	parts := strings.Split(normalizePath(relPath), "/")
	for i := range parts {
		if p.re.MatchString(strings.Join(parts[i:], "/")) {
			return true
		}
	}
	return false
}

func parseRule(line string) (rule, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return rule{}, false
	}

	parsed := rule{}
	if strings.HasPrefix(line, "!") {
		parsed.negated = true
		line = strings.TrimPrefix(line, "!")
	}
	if strings.HasPrefix(line, "/") {
		parsed.anchored = true
		line = strings.TrimPrefix(line, "/")
	}
	if strings.HasSuffix(line, "/") {
		parsed.dirOnly = true
		line = strings.TrimSuffix(line, "/")
	}

	line = normalizePath(line)
	if line == "" {
		return rule{}, false
	}
	parsed.pattern = line
	parsed.re = compileGlob(line)
	return parsed, true
}

func ruleMatches(rule rule, relPath string, isDir bool) bool {
	if rule.dirOnly {
		if matchDirectoryPattern(rule, relPath) {
			return true
		}
		return isDir && rule.re.MatchString(filepath.Base(relPath))
	}

	if rule.anchored {
		return rule.re.MatchString(relPath)
	}

	if strings.Contains(rule.pattern, "/") {
		parts := strings.Split(relPath, "/")
		for i := range parts {
			if rule.re.MatchString(strings.Join(parts[i:], "/")) {
				return true
			}
		}
		return false
	}

	for _, segment := range strings.Split(relPath, "/") {
		if rule.re.MatchString(segment) {
			return true
		}
	}
	return false
}

func matchDirectoryPattern(rule rule, relPath string) bool {
	parts := strings.Split(relPath, "/")
	for i := range parts {
		if rule.re.MatchString(strings.Join(parts[:i+1], "/")) {
			return true
		}
		if !rule.anchored && rule.re.MatchString(parts[i]) {
			return true
		}
	}
	return false
}

func compileGlob(pattern string) *regexp.Regexp {
	re, err := regexp.Compile("^" + globToRegex(pattern) + "$")
	if err != nil {
		return regexp.MustCompile(`^` + regexp.QuoteMeta(pattern) + `$`)
	}
	return re
}

func globToRegex(pattern string) string {
	var b strings.Builder
	for i := 0; i < len(pattern); i++ {
		ch := pattern[i]

		if ch == '*' {
			if i+1 < len(pattern) && pattern[i+1] == '*' {
				// "**/" may match no directories at all.
				if i+2 < len(pattern) && pattern[i+2] == '/' {
					b.WriteString("(?:.*/)?")
					i += 2
					continue
				}
				b.WriteString(".*")
				i++
				continue
			}
			b.WriteString("[^/]*")
			continue
		}

		if ch == '?' {
			b.WriteString("[^/]")
			continue
		}

		if strings.ContainsRune(`.+()|[]{}^$\\`, rune(ch)) {
			b.WriteByte('\\')
		}
		b.WriteByte(ch)
	}
	return b.String()
}

func normalizePath(path string) string {
	path = filepath.ToSlash(path)
	path = strings.TrimPrefix(path, "./")
	path = strings.TrimPrefix(path, "/")
	return path
}
