// Package artifacts decides which diagnostics of an attempt are recorded and kept,
// and collects the browser console output of a page.
package artifacts

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/networkteam/e2esuite/config"
)

// ShouldStartTrace reports whether tracing is started for the attempt with the given retry index.
func ShouldStartTrace(mode config.TraceMode, retry int) bool {
	switch mode {
	case config.TraceOn, config.TraceRetainOnFailure:
		return true
	case config.TraceOnFirstRetry:
		return retry == 1
	case config.TraceOnAllRetries:
		return retry > 0
	}
	return false
}

// ShouldKeepTrace reports whether a recorded trace is written to the output directory.
func ShouldKeepTrace(mode config.TraceMode, failed bool, retry int) bool {
	if !ShouldStartTrace(mode, retry) {
		return false
	}
	if mode == config.TraceRetainOnFailure {
		return failed
	}
	return true
}

// ShouldScreenshot reports whether a screenshot is taken at the end of an attempt.
func ShouldScreenshot(mode config.ScreenshotMode, failed bool) bool {
	switch mode {
	case config.ScreenshotOn:
		return true
	case config.ScreenshotOnlyOnFailure:
		return failed
	}
	return false
}

// ShouldRecordVideo reports whether the browser context records video.
func ShouldRecordVideo(mode config.VideoMode, retry int) bool {
	switch mode {
	case config.VideoOn, config.VideoRetainOnFailure:
		return true
	case config.VideoOnFirstRetry:
		return retry == 1
	}
	return false
}

// ShouldKeepVideo reports whether a recorded video is kept after the context closed.
func ShouldKeepVideo(mode config.VideoMode, failed bool, retry int) bool {
	if !ShouldRecordVideo(mode, retry) {
		return false
	}
	if mode == config.VideoRetainOnFailure {
		return failed
	}
	return true
}

var unsafeChars = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// maxSlugLength keeps directory names well below common file name limits.
const maxSlugLength = 60

// Dir returns the output directory of one attempt, e.g. "test-results/open-main-page-sanity-chromium-retry1".
func Dir(outputDir, title, project string, retry int) string {
	slug := strings.Trim(unsafeChars.ReplaceAllString(strings.ToLower(title), "-"), "-")
	if r := []rune(slug); len(r) > maxSlugLength {
		slug = strings.TrimRight(string(r[:maxSlugLength]), "-")
	}
	if slug == "" {
		slug = "test"
	}
	name := slug + "-" + project
	if retry > 0 {
		name += fmt.Sprintf("-retry%d", retry)
	}
	return filepath.Join(outputDir, name)
}
