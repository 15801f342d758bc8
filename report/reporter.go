package report

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/networkteam/e2esuite/config"
)

// Reporter receives results while the suite runs.
// OnTestEnd may be called concurrently from several cases.
type Reporter interface {
	OnBegin(total int)
	OnTestEnd(result TestResult)
	OnEnd(summary Summary) error
}

// Multi fans out to several reporters in order.
type Multi []Reporter

func (m Multi) OnBegin(total int) {
	for _, r := range m {
		r.OnBegin(total)
	}
}

func (m Multi) OnTestEnd(result TestResult) {
	for _, r := range m {
		r.OnTestEnd(result)
	}
}

func (m Multi) OnEnd(summary Summary) error {
	var errs []error
	for _, r := range m {
		errs = append(errs, r.OnEnd(summary))
	}
	return errors.Join(errs...)
}

// New builds the reporters named in the configuration.
func New(cfg *config.Config) (Multi, error) {
	var reporters Multi
	for _, rc := range cfg.Reporters {
		switch rc.Name {
		case config.ReporterList:
			reporters = append(reporters, NewListReporter(os.Stdout))
		case config.ReporterHTML:
			reporters = append(reporters, NewHTMLReporter(HTMLOptions{
				OutputFolder: rc.OutputFolder,
				Open:         rc.Open,
			}))
		default:
			return nil, fmt.Errorf("unknown reporter %q", rc.Name)
		}
	}
	return reporters, nil
}

// ListReporter prints one line per finished test and a summary.
type ListReporter struct {
	w  io.Writer
	mu sync.Mutex
	n  int
}

func NewListReporter(w io.Writer) *ListReporter {
	return &ListReporter{w: w}
}

func (l *ListReporter) OnBegin(total int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.w, "\nRunning %d tests\n\n", total)
}

func (l *ListReporter) OnTestEnd(result TestResult) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.n++

	line := fmt.Sprintf("  %s %3d [%s] › %s", outcomeMark(result.Outcome), l.n, result.Project, FullTitle(result.Title, result.Tags))
	if retries := result.Retries(); retries > 0 {
		line += fmt.Sprintf(" (retry #%d)", retries)
	}
	fmt.Fprintf(l.w, "%s (%s)\n", line, formatDuration(result.Duration()))

	if result.Outcome != OutcomeUnexpected {
		return
	}
	final := result.Attempts[len(result.Attempts)-1]
	for _, e := range final.Errors {
		fmt.Fprintf(l.w, "\n    %s: %s\n", final.Status, indent(e.Message, "    "))
		if e.Location != nil {
			fmt.Fprintf(l.w, "      at %s:%d\n", e.Location.File, e.Location.Line)
		}
	}
	fmt.Fprintln(l.w)
}

func (l *ListReporter) OnEnd(summary Summary) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintln(l.w)
	if summary.Unexpected > 0 {
		fmt.Fprintf(l.w, "  %d failed\n", summary.Unexpected)
		for _, r := range summary.Results {
			if r.Outcome == OutcomeUnexpected {
				fmt.Fprintf(l.w, "    [%s] › %s\n", r.Project, FullTitle(r.Title, r.Tags))
			}
		}
	}
	if summary.Flaky > 0 {
		fmt.Fprintf(l.w, "  %d flaky\n", summary.Flaky)
	}
	if summary.Skipped > 0 {
		fmt.Fprintf(l.w, "  %d skipped\n", summary.Skipped)
	}
	fmt.Fprintf(l.w, "  %d passed (%s)\n", summary.Expected, formatDuration(summary.Duration))
	return nil
}

func outcomeMark(o Outcome) string {
	switch o {
	case OutcomeExpected:
		return "✓"
	case OutcomeFlaky:
		return "±"
	case OutcomeSkipped:
		return "-"
	}
	return "✘"
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

func indent(s, prefix string) string {
	return strings.ReplaceAll(s, "\n", "\n"+prefix)
}
