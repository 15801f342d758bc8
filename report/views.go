package report

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// errWriter keeps the first write error. Components write through it and return
// the error once rendering is done.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	e.err = err
	return n, err
}

// snippetContext is the number of source lines shown around a failing line.
const snippetContext = 3

type pageProps struct {
	Summary Summary
	// Attachments maps attempt attachments to paths relative to the report folder.
	Attachments map[string]string
}

func indexPage(props pageProps) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &errWriter{w: out}
		s := props.Summary
		io.WriteString(w, `<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><title>Test report</title>`)
		io.WriteString(w, reportStyle)
		if err := chromaStyles().Render(ctx, w); err != nil {
			return err
		}
		io.WriteString(w, `</head><body><header>`)
		fmt.Fprintf(w, `<h1>Test report</h1><p class="meta">Run %s · started %s · %s</p>`,
			templ.EscapeString(s.RunID.String()),
			templ.EscapeString(s.Start.Format(time.RFC3339)),
			templ.EscapeString(formatDuration(s.Duration)))
		io.WriteString(w, `<nav class="counts">`)
		fmt.Fprintf(w, `<span>All %d</span>`, s.Total())
		writeBadge(w, BadgeProps{Variant: BadgeVariantSuccess}, fmt.Sprintf("Passed %d", s.Expected))
		writeBadge(w, BadgeProps{Variant: BadgeVariantError}, fmt.Sprintf("Failed %d", s.Unexpected))
		writeBadge(w, BadgeProps{Variant: BadgeVariantWarning}, fmt.Sprintf("Flaky %d", s.Flaky))
		writeBadge(w, BadgeProps{Variant: BadgeVariantSecondary}, fmt.Sprintf("Skipped %d", s.Skipped))
		io.WriteString(w, `</nav></header><main>`)

		for _, r := range s.Results {
			if err := testResultView(r, props.Attachments).Render(ctx, w); err != nil {
				return err
			}
		}
		io.WriteString(w, `</main></body></html>`)
		return w.err
	})
}

func testResultView(r TestResult, attachments map[string]string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &errWriter{w: out}
		open := ""
		if r.Outcome == OutcomeUnexpected || r.Outcome == OutcomeFlaky {
			open = " open"
		}
		fmt.Fprintf(w, `<details class="test outcome-%s" id="%s"%s><summary>`,
			templ.EscapeString(string(r.Outcome)), templ.EscapeString(r.ID.String()), open)
		writeBadge(w, BadgeProps{Variant: outcomeVariant(r.Outcome)}, string(r.Outcome))
		fmt.Fprintf(w, ` <span class="project">%s</span> <span class="title">%s</span>`,
			templ.EscapeString(r.Project), templ.EscapeString(r.Title))
		for _, tag := range r.Tags {
			writeBadge(w, BadgeProps{Variant: BadgeVariantOutline}, tag)
		}
		fmt.Fprintf(w, ` <span class="duration">%s</span></summary>`, templ.EscapeString(formatDuration(r.Duration())))

		for _, a := range r.Attempts {
			if err := attemptView(r, a, attachments).Render(ctx, w); err != nil {
				return err
			}
		}
		io.WriteString(w, `</details>`)
		return w.err
	})
}

func attemptView(r TestResult, a Attempt, attachments map[string]string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &errWriter{w: out}
		label := "Run"
		if a.Retry > 0 {
			label = fmt.Sprintf("Retry #%d", a.Retry)
		}
		fmt.Fprintf(w, `<section class="attempt"><h3>%s `, templ.EscapeString(label))
		writeBadge(w, BadgeProps{Variant: statusVariant(a.Status)}, string(a.Status))
		fmt.Fprintf(w, ` <span class="duration">%s</span></h3>`, templ.EscapeString(formatDuration(a.Duration)))

		for _, e := range a.Errors {
			fmt.Fprintf(w, `<div class="error"><pre>%s</pre>`, templ.EscapeString(e.Message))
			if e.Location != nil {
				fmt.Fprintf(w, `<p class="location">%s:%d</p>`, templ.EscapeString(e.Location.File), e.Location.Line)
				if err := sourceSnippet(*e.Location).Render(ctx, w); err != nil {
					return err
				}
			}
			io.WriteString(w, `</div>`)
		}

		if len(a.Steps) > 0 {
			io.WriteString(w, `<ul class="steps">`)
			writeSteps(w, a.Steps)
			io.WriteString(w, `</ul>`)
		}

		if len(a.Attachments) > 0 {
			io.WriteString(w, `<ul class="attachments">`)
			for i, att := range a.Attachments {
				href, ok := attachments[attachmentKey(r, a, i)]
				if !ok {
					continue
				}
				if strings.HasPrefix(att.ContentType, "image/") {
					fmt.Fprintf(w, `<li>%s<br><a href="%s"><img src="%s" alt="%s"></a></li>`,
						templ.EscapeString(att.Name), templ.EscapeString(href), templ.EscapeString(href), templ.EscapeString(att.Name))
					continue
				}
				if strings.HasPrefix(att.ContentType, "video/") {
					fmt.Fprintf(w, `<li>%s<br><video controls src="%s"></video></li>`,
						templ.EscapeString(att.Name), templ.EscapeString(href))
					continue
				}
				fmt.Fprintf(w, `<li><a href="%s">%s</a></li>`, templ.EscapeString(href), templ.EscapeString(att.Name))
			}
			io.WriteString(w, `</ul>`)
		}

		if len(a.Logs) > 0 {
			fmt.Fprintf(w, `<details class="logs"><summary>Logs</summary><pre>%s</pre></details>`,
				templ.EscapeString(strings.Join(a.Logs, "\n")))
		}
		io.WriteString(w, `</section>`)
		return w.err
	})
}

func writeSteps(w io.Writer, steps []Step) {
	for _, s := range steps {
		class := "step"
		if s.Error != "" {
			class += " step-failed"
		}
		fmt.Fprintf(w, `<li class="%s">%s <span class="duration">%s</span>`,
			class, templ.EscapeString(s.Title), templ.EscapeString(formatDuration(s.Duration)))
		if len(s.Steps) > 0 {
			io.WriteString(w, `<ul>`)
			writeSteps(w, s.Steps)
			io.WriteString(w, `</ul>`)
		}
		io.WriteString(w, `</li>`)
	}
}

func writeBadge(w io.Writer, props BadgeProps, text string) {
	fmt.Fprintf(w, `<span class="%s">%s</span>`, templ.EscapeString(badgeClasses(props)), templ.EscapeString(text))
}

// sourceSnippet renders the lines around loc with the failing line highlighted.
// A missing source file renders nothing.
func sourceSnippet(loc Location) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		source, first, err := readLines(loc.File, loc.Line-snippetContext, loc.Line+snippetContext)
		if err != nil || source == "" {
			return nil
		}

		lexer := lexers.Match(loc.File)
		if lexer == nil {
			lexer = lexers.Fallback
		}
		iterator, err := lexer.Tokenise(nil, source)
		if err != nil {
			return err
		}

		formatter, style := chromaFormatterAndStyle(
			html.WithLineNumbers(true),
			html.BaseLineNumber(first),
			html.HighlightLines([][2]int{{loc.Line, loc.Line}}),
		)
		return formatter.Format(w, style, iterator)
	})
}

// readLines returns the lines from..to (1-based, inclusive) of a file and the number of the first returned line.
func readLines(path string, from, to int) (string, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, err
	}
	defer f.Close()

	from = max(from, 1)
	var b strings.Builder
	scanner := bufio.NewScanner(f)
	for n := 1; scanner.Scan() && n <= to; n++ {
		if n >= from {
			b.WriteString(scanner.Text())
			b.WriteByte('\n')
		}
	}
	return b.String(), from, scanner.Err()
}

func chromaFormatterAndStyle(options ...html.Option) (*html.Formatter, *chroma.Style) {
	formatter := html.New(append([]html.Option{
		html.Standalone(false),
		html.WithClasses(true),
		html.TabWidth(4),
	}, options...)...)

	style := styles.Get("github")
	if style == nil {
		style = styles.Fallback
	}

	return formatter, style
}

func chromaStyles() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &errWriter{w: out}
		io.WriteString(w, "<style>")
		formatter, style := chromaFormatterAndStyle()
		if err := formatter.WriteCSS(w, style); err != nil {
			return err
		}
		io.WriteString(w, ".chroma { white-space: pre-wrap; }\n")
		io.WriteString(w, "</style>")
		return w.err
	})
}

const reportStyle = `<style>
body { font-family: system-ui, sans-serif; margin: 0 auto; max-width: 1100px; padding: 1rem; color: #1f2328; }
header .meta { color: #656d76; }
.counts span { margin-right: .5rem; }
.test { border: 1px solid #d0d7de; border-radius: 6px; margin: .5rem 0; padding: .5rem .75rem; }
.test summary { cursor: pointer; }
.project { color: #656d76; }
.duration { color: #656d76; float: right; }
.attempt { border-top: 1px solid #eaeef2; margin-top: .5rem; }
.error pre { background: #fff1f0; padding: .5rem; white-space: pre-wrap; }
.location { font-family: monospace; color: #656d76; }
.step-failed { color: #cf222e; }
.attachments img { max-width: 100%; border: 1px solid #d0d7de; }
.attachments video { max-width: 100%; }
.badge { display: inline-block; border: 1px solid transparent; border-radius: 9999px; padding: 0 .5rem; font: 600 .75rem ui-monospace, monospace; }
.badge-secondary { background: #e5e5e5; color: #1f2328; }
.badge-success { background: #16a34a; color: #fff; }
.badge-warning { background: #fb923c; color: #fff; }
.badge-error { background: #ef4444; color: #fff; }
.badge-outline { border-color: #d4d4d4; color: #1f2328; }
</style>`
