package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/term"
)

type checkProgressReporter struct {
	out     io.Writer
	enabled bool
	label   string
	total   int
	start   time.Time
	spinner int
	lastLen int
}

func newCheckProgressReporter(out io.Writer, label string, total int, enabled bool) *checkProgressReporter {
	return &checkProgressReporter{
		out:     out,
		enabled: enabled,
		label:   label,
		total:   total,
		start:   time.Now(),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (r *checkProgressReporter) Update(file string, count int) {
	if !r.enabled {
		return
	}
	frames := [4]string{"-", "\\", "|", "/"}
	frame := frames[r.spinner%len(frames)]
	r.spinner++
	file = strings.TrimSpace(file)
	if len(file) > 88 {
		file = "..." + file[len(file)-85:]
	}

	status := fmt.Sprintf("%s %s %d/%d %s", frame, r.label, count, r.total, file)
	r.printStatus(status)
}

func (r *checkProgressReporter) Done(count int) {
	if !r.enabled {
		return
	}
	elapsed := time.Since(r.start).Round(time.Millisecond)
	r.printStatus(fmt.Sprintf("%s complete (%d files in %s)", r.label, count, elapsed))
	fmt.Fprintln(r.out)
}

func (r *checkProgressReporter) printStatus(status string) {
	if r.lastLen > len(status) {
		status = status + strings.Repeat(" ", r.lastLen-len(status))
	}
	r.lastLen = len(status)
	fmt.Fprintf(r.out, "\r%s", status)
}
