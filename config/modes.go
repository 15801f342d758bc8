package config

import "fmt"

type TraceMode string

const (
	TraceOff             TraceMode = "off"
	TraceOn              TraceMode = "on"
	TraceRetainOnFailure TraceMode = "retain-on-failure"
	TraceOnFirstRetry    TraceMode = "on-first-retry"
	TraceOnAllRetries    TraceMode = "on-all-retries"
)

type ScreenshotMode string

const (
	ScreenshotOff           ScreenshotMode = "off"
	ScreenshotOn            ScreenshotMode = "on"
	ScreenshotOnlyOnFailure ScreenshotMode = "only-on-failure"
)

type VideoMode string

const (
	VideoOff             VideoMode = "off"
	VideoOn              VideoMode = "on"
	VideoRetainOnFailure VideoMode = "retain-on-failure"
	VideoOnFirstRetry    VideoMode = "on-first-retry"
)

// ParseTraceMode returns the trace mode named s, an error for unknown names.
func ParseTraceMode(s string) (TraceMode, error) {
	switch m := TraceMode(s); m {
	case TraceOff, TraceOn, TraceRetainOnFailure, TraceOnFirstRetry, TraceOnAllRetries:
		return m, nil
	}
	return "", fmt.Errorf("unknown trace mode %q", s)
}

func ParseScreenshotMode(s string) (ScreenshotMode, error) {
	switch m := ScreenshotMode(s); m {
	case ScreenshotOff, ScreenshotOn, ScreenshotOnlyOnFailure:
		return m, nil
	}
	return "", fmt.Errorf("unknown screenshot mode %q", s)
}

func ParseVideoMode(s string) (VideoMode, error) {
	switch m := VideoMode(s); m {
	case VideoOff, VideoOn, VideoRetainOnFailure, VideoOnFirstRetry:
		return m, nil
	}
	return "", fmt.Errorf("unknown video mode %q", s)
}

const (
	ReporterHTML = "html"
	ReporterList = "list"
)

// Reporter configures one result reporter.
type Reporter struct {
	Name string `yaml:"name"`
	// Open controls whether the HTML report is opened after the run ("never", "always", "on-failure").
	Open string `yaml:"open,omitempty"`
	// OutputFolder is where file based reporters write to.
	OutputFolder string `yaml:"outputFolder,omitempty"`
}
