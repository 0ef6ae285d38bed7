// Package report renders per-file check results and the run summary.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pedcheck-dev/pedcheck/internal/fileutil"
	"github.com/pedcheck-dev/pedcheck/internal/sidecar"
)

type Options struct {
	Format Format
	// Quiet hides valid files in text output.
	Quiet  bool
	Fix    bool
	DryRun bool
}

// Reporter writes results as they arrive and the summary at the end.
type Reporter struct {
	out    io.Writer
	opts   Options
	styles Styles
}

func NewReporter(out io.Writer, opts Options) *Reporter {
	if opts.Format == "" {
		opts.Format = FormatText
	}
	return &Reporter{
		out:    out,
		opts:   opts,
		styles: NewStyles(lipgloss.NewRenderer(out)),
	}
}

// Begin announces the run. Only text output has a header.
func (r *Reporter) Begin(total int, root, modality string) {
	if r.opts.Format != FormatText {
		return
	}
	fmt.Fprintf(r.out, "Checking %d %s JSON files under %s\n", total, strings.ToUpper(modality), root)
}

// File reports one result. Non-streaming formats render everything in End.
func (r *Reporter) File(res sidecar.Result) error {
	switch r.opts.Format {
	case FormatText:
		r.printText(res)
	case FormatJSONL:
		return fileutil.WriteJSONL(r.out, []sidecar.Result{res})
	}
	return nil
}

// End prints the summary in the configured format.
func (r *Reporter) End(summary RunSummary) error {
	switch r.opts.Format {
	case FormatJSON:
		return fileutil.PrintJSON(r.out, summary)
	case FormatJSONL:
		summary.Results = nil
		return fileutil.WriteJSONL(r.out, []RunSummary{summary})
	case FormatTable:
		r.printTable(summary)
	}

	r.printSummary(summary)
	return nil
}

func (r *Reporter) printText(res sidecar.Result) {
	s := r.styles
	switch res.Outcome {
	case sidecar.OutcomeValid:
		if r.opts.Quiet {
			return
		}
		fmt.Fprintf(r.out, "%s %s: %s = %s\n", s.Valid.Render("✓"), res.Path, sidecar.FieldName, res.Direction)
		return
	case sidecar.OutcomeParseError:
		fmt.Fprintf(r.out, "%s %s: Invalid JSON (%s)\n", s.Error.Render("✗"), res.Path, res.Error)
		return
	}

	fmt.Fprintf(r.out, "  %s: invalid or missing %s (%s)\n", res.Path, sidecar.FieldName, res.Value)
	switch res.Outcome {
	case sidecar.OutcomeFixed:
		if r.opts.DryRun {
			fmt.Fprintf(r.out, "  %s Would set %s = '%s' (dry run)\n", s.Fixed.Render("→"), sidecar.FieldName, res.Direction)
			return
		}
		fmt.Fprintf(r.out, "  %s Fixed: set %s = '%s'\n", s.Fixed.Render("→"), sidecar.FieldName, res.Direction)
	case sidecar.OutcomeUninferable:
		fmt.Fprintf(r.out, "  %s Could not infer direction.\n", s.Warning.Render("→"))
	case sidecar.OutcomeWriteError:
		fmt.Fprintf(r.out, "  %s Could not write fix (%s)\n", s.Error.Render("→"), res.Error)
	}
}

func (r *Reporter) printTable(summary RunSummary) {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"File", "Outcome", "Found", "Direction", "Detail"})

	for _, res := range summary.Results {
		if r.opts.Quiet && res.Outcome == sidecar.OutcomeValid {
			continue
		}
		direction := string(res.Direction)
		if direction == "" {
			direction = "-"
		}
		detail := res.Error
		if detail == "" && res.Hint != "" {
			detail = "hint: " + res.Hint
		}
		t.AppendRow(table.Row{res.Path, string(res.Outcome), res.Value.String(), direction, detail})
	}

	t.AppendFooter(table.Row{"", "", "", "valid", fmt.Sprintf("%d/%d", summary.Valid, summary.Total)})
	t.Render()
}

func (r *Reporter) printSummary(summary RunSummary) {
	fmt.Fprintf(r.out, "\n%s %d/%d valid %s fields.\n", r.styles.Bold.Render("Summary:"), summary.Valid, summary.Total, sidecar.FieldName)
	if summary.Total > summary.Valid {
		fmt.Fprintf(r.out, "%s (%d): %s\n",
			r.styles.Warning.Render("needs attention"),
			len(summary.Unresolved),
			SummarizePaths(summary.Unresolved, 8),
		)
	}

	switch {
	case r.opts.DryRun:
		fmt.Fprintln(r.out, "Dry run: no files were modified.")
	case r.opts.Fix:
		fmt.Fprintln(r.out, "All missing or invalid fields were updated when possible.")
	}
}
