// Package discover finds the JSON sidecars of one imaging modality inside a
// BIDS-style dataset tree.
package discover

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
)

const (
	DefaultModality = "dwi"
	IgnoreFile      = ".bidsignore"
)

// ErrNoSidecars is returned when a walk finishes without a single match.
var ErrNoSidecars = errors.New("no sidecar files found")

// Options controls a discovery walk.
type Options struct {
	// Modality is the directory name that must directly contain the sidecar.
	Modality string
	// Excludes are gitignore-style rules applied after .bidsignore.
	Excludes []string
	Logger   *zap.Logger
}

// SidecarPattern returns the glob used to select sidecars for a modality.
func SidecarPattern(modality string) string {
	if modality == "" {
		modality = DefaultModality
	}
	return "sub-*/**/" + modality + "/*.json"
}

// Find walks root and returns the sorted paths, joined onto root, of all files
// matching SidecarPattern at any depth. An empty result is reported as
// ErrNoSidecars.
func Find(root string, opts Options) ([]string, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to access path %q: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path %q is not a directory", root)
	}

	ignoreRules, err := LoadIgnoreRules(root)
	if err != nil {
		return nil, err
	}
	ignoreRules = append(ignoreRules, opts.Excludes...)
	matcher := NewMatcher(ignoreRules)
	pattern := CompilePattern(SidecarPattern(opts.Modality))

	var paths []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if path == root {
				return walkErr
			}
			logger.Warn("skipping unreadable path", zap.String("path", path), zap.Error(walkErr))
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if path == root {
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		if matcher.ShouldIgnore(relPath, d.IsDir()) {
			if d.IsDir() {
				logger.Debug("skipping ignored directory", zap.String("path", relPath))
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() || !pattern.Match(relPath) {
			return nil
		}

		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", root, err)
	}

	sort.Strings(paths)
	logger.Debug("discovery complete",
		zap.String("root", root),
		zap.String("pattern", pattern.String()),
		zap.Int("matches", len(paths)),
	)

	if len(paths) == 0 {
		return nil, fmt.Errorf("%w under %s (searched recursively for %s)", ErrNoSidecars, root, pattern)
	}
	return paths, nil
}

// LoadIgnoreRules reads the dataset's .bidsignore. A missing file yields no rules.
func LoadIgnoreRules(root string) ([]string, error) {
	ignorePath := filepath.Join(root, IgnoreFile)
	f, err := os.Open(ignorePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", IgnoreFile, err)
	}
	defer f.Close()

	rules := make([]string, 0)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		rules = append(rules, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", IgnoreFile, err)
	}

	return rules, nil
}
