package report

import (
	"fmt"
	"strings"

	"github.com/pedcheck-dev/pedcheck/internal/sidecar"
)

// RunSummary aggregates the outcomes of one run.
type RunSummary struct {
	Mode        string           `json:"mode"`
	RootPath    string           `json:"root_path"`
	Pattern     string           `json:"pattern"`
	Total       int              `json:"total"`
	Valid       int              `json:"valid"`
	Fixed       int              `json:"fixed"`
	Invalid     int              `json:"invalid"`
	Uninferable int              `json:"uninferable"`
	ParseErrors int              `json:"parse_errors"`
	WriteErrors int              `json:"write_errors"`
	DurationMS  int64            `json:"duration_ms"`
	Unresolved  []string         `json:"unresolved,omitempty"`
	Results     []sidecar.Result `json:"results,omitempty"`
}

// Mode names the kind of run for a fix and dry-run setting.
func Mode(fix, dryRun bool) string {
	switch {
	case dryRun:
		return "dry-run"
	case fix:
		return "fix"
	default:
		return "check"
	}
}

// Add counts one result. Fixed files count as valid.
func (s *RunSummary) Add(res sidecar.Result) {
	s.Total++
	s.Results = append(s.Results, res)

	switch res.Outcome {
	case sidecar.OutcomeFixed:
		s.Fixed++
	case sidecar.OutcomeInvalid:
		s.Invalid++
	case sidecar.OutcomeUninferable:
		s.Uninferable++
	case sidecar.OutcomeParseError:
		s.ParseErrors++
	case sidecar.OutcomeWriteError:
		s.WriteErrors++
	}

	if res.Outcome.OK() {
		s.Valid++
		return
	}
	s.Unresolved = append(s.Unresolved, res.Path)
}

// AllValid reports whether every examined file ended valid.
func (s *RunSummary) AllValid() bool {
	return s.Valid == s.Total
}

func SummarizePaths(paths []string, max int) string {
	if len(paths) <= max {
		return strings.Join(paths, ", ")
	}
	return fmt.Sprintf("%s ... (+%d more)", strings.Join(paths[:max], ", "), len(paths)-max)
}
