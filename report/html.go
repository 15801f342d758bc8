package report

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/cli/browser"
	"github.com/samber/lo"
)

const (
	OpenNever     = "never"
	OpenAlways    = "always"
	OpenOnFailure = "on-failure"
)

type HTMLOptions struct {
	OutputFolder string
	// Open decides whether the report is opened in a browser after the run.
	Open string
}

// HTMLReporter writes a self-contained report folder with an index.html
// and a data directory holding copies of all attachments.
type HTMLReporter struct {
	options HTMLOptions

	mu          sync.Mutex
	attachments map[string]string
	err         error
}

func NewHTMLReporter(options HTMLOptions) *HTMLReporter {
	if options.OutputFolder == "" {
		options.OutputFolder = "playwright-report"
	}
	if options.Open == "" {
		options.Open = OpenNever
	}
	return &HTMLReporter{
		options:     options,
		attachments: make(map[string]string),
	}
}

// OnBegin clears the report folder of a previous run.
func (h *HTMLReporter) OnBegin(total int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := os.RemoveAll(h.options.OutputFolder); err != nil {
		h.err = fmt.Errorf("clearing report folder: %w", err)
		return
	}
	if err := os.MkdirAll(filepath.Join(h.options.OutputFolder, "data"), 0755); err != nil {
		h.err = fmt.Errorf("creating report folder: %w", err)
	}
}

// OnTestEnd copies the attachments of all attempts into the report folder.
func (h *HTMLReporter) OnTestEnd(result TestResult) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, a := range result.Attempts {
		for i, att := range a.Attachments {
			name := fmt.Sprintf("%s-%d-%d-%s", result.ID, a.Retry, i, attachmentFileName(att))
			if err := h.storeAttachment(att, name); err != nil {
				h.err = errors.Join(h.err, err)
				continue
			}
			h.attachments[attachmentKey(result, a, i)] = "data/" + name
		}
	}
}

func (h *HTMLReporter) storeAttachment(att Attachment, name string) error {
	dst := filepath.Join(h.options.OutputFolder, "data", name)
	if att.Path == "" {
		return os.WriteFile(dst, att.Body, 0644)
	}
	return copyFile(att.Path, dst)
}

func (h *HTMLReporter) OnEnd(summary Summary) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := os.MkdirAll(h.options.OutputFolder, 0755); err != nil {
		return fmt.Errorf("creating report folder: %w", err)
	}
	index := filepath.Join(h.options.OutputFolder, "index.html")
	if err := h.writeIndex(index, summary); err != nil {
		return err
	}

	if h.shouldOpen(summary) {
		if err := browser.OpenFile(index); err != nil {
			h.err = errors.Join(h.err, fmt.Errorf("opening report: %w", err))
		}
	}
	return h.err
}

func (h *HTMLReporter) writeIndex(path string, summary Summary) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating report index: %w", err)
	}

	err = indexPage(pageProps{
		Summary:     summary,
		Attachments: h.attachments,
	}).Render(context.Background(), f)
	if err != nil {
		f.Close()
		return fmt.Errorf("rendering report: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("writing report index: %w", err)
	}
	return nil
}

func (h *HTMLReporter) shouldOpen(summary Summary) bool {
	switch h.options.Open {
	case OpenAlways:
		return true
	case OpenOnFailure:
		return !summary.OK()
	}
	return false
}

func attachmentKey(r TestResult, a Attempt, index int) string {
	return fmt.Sprintf("%s/%d/%d", r.ID, a.Retry, index)
}

func attachmentFileName(att Attachment) string {
	if att.Path != "" {
		return filepath.Base(att.Path)
	}
	name := strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == ' ' {
			return '-'
		}
		return r
	}, att.Name)
	return lo.Ternary(name == "", "attachment", name)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening attachment: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("creating attachment copy: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copying attachment: %w", err)
	}
	return out.Close()
}
