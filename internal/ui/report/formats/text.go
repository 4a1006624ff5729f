package formats

import (
	"fmt"
	"strings"
	"time"

	"junitmig/internal/core/ports"
	"junitmig/internal/data/state"
)

// RenderSummary formats a run for the terminal. Verbose adds one line per
// rewritten call site.
func RenderSummary(res ports.RunResult, verbose bool) string {
	var buf strings.Builder

	verb := "changed"
	if !res.Mode.Writes() {
		verb = "would change"
	}

	for _, file := range res.Files {
		switch {
		case file.Err != nil:
			fmt.Fprintf(&buf, "ERROR %s: %v\n", file.Path, file.Err)
		case file.Changed:
			fmt.Fprintf(&buf, "%s %s (%d rewrites)\n", strings.ToUpper(verb[:1])+verb[1:], file.Path, len(file.Changes))
		}
		if verbose {
			for _, c := range file.Changes {
				fmt.Fprintf(&buf, "  %d:%d [%s] %s -> %s\n", c.Location.Line, c.Location.Column, c.Rule, c.Before, c.After)
			}
			for _, imp := range file.ImportsRemoved {
				fmt.Fprintf(&buf, "  - %s\n", imp)
			}
			for _, imp := range file.ImportsAdded {
				fmt.Fprintf(&buf, "  + %s\n", imp)
			}
		}
		for _, w := range file.Warnings {
			fmt.Fprintf(&buf, "WARN %s\n", w.String())
		}
	}

	fmt.Fprintf(&buf, "%d files scanned, %d skipped, %d %s, %d rewrites, %d warnings, %d errors\n",
		res.FilesScanned, res.FilesSkipped, res.FilesChanged, verb, res.Rewrites, res.Warnings, res.Errors)
	return buf.String()
}

// RenderRunsTSV lists past runs, newest first.
func RenderRunsTSV(runs []state.Run) []byte {
	var buf strings.Builder

	buf.WriteString("ID\tMode\tStarted\tDuration\tScanned\tChanged\tRewrites\tWarnings\tErrors\n")
	for _, run := range runs {
		buf.WriteString(fmt.Sprintf("%s\t%s\t%s\t%s\t%d\t%d\t%d\t%d\t%d\n",
			run.ID,
			run.Mode,
			run.StartedAt.Format("2006-01-02T15:04:05Z07:00"),
			run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond),
			run.FilesScanned,
			run.FilesChanged,
			run.Rewrites,
			run.Warnings,
			run.Errors,
		))
	}
	return []byte(buf.String())
}
