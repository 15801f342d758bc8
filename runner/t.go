package runner

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/networkteam/e2esuite/artifacts"
	"github.com/networkteam/e2esuite/config"
	"github.com/networkteam/e2esuite/report"
)

// T is handed to the body of a Case for one attempt. It implements require.TestingT,
// so assertions from testify and the page objects fail the attempt, not the process.
//
// FailNow, Fatalf, Setup and Skip stop the calling goroutine and must be called from
// the goroutine running the case body.
type T struct {
	title   string
	tags    []string
	project config.Project
	cfg     *config.Config
	browser playwright.Browser
	device  *playwright.DeviceDescriptor
	retry   int
	ctx     context.Context
	logger  *slog.Logger

	mu          sync.Mutex
	failed      bool
	setupFailed bool
	skipped     bool
	finished    bool
	tornDown    bool
	errors      []report.TestError
	logs        []string
	attachments []report.Attachment
	cleanups    []func()
	steps       []*stepNode
	stepStack   []*stepNode
}

type stepNode struct {
	step     report.Step
	children []*stepNode
}

// Name returns the case title including its tags.
func (t *T) Name() string {
	return report.FullTitle(t.title, t.tags)
}

// Title returns the case title without tags.
func (t *T) Title() string {
	return t.title
}

func (t *T) Project() config.Project {
	return t.project
}

func (t *T) Config() *config.Config {
	return t.cfg
}

// Browser returns the browser of the project, shared by all cases of the project.
func (t *T) Browser() playwright.Browser {
	return t.browser
}

// Device returns the device descriptor of the project, nil for none.
func (t *T) Device() *playwright.DeviceDescriptor {
	return t.device
}

// Retry returns the retry index of the attempt, 0 for the first run.
func (t *T) Retry() int {
	return t.retry
}

// Context is cancelled when the attempt times out.
func (t *T) Context() context.Context {
	return t.ctx
}

// OutputDir is the artifact directory of this attempt.
func (t *T) OutputDir() string {
	return artifacts.Dir(t.cfg.OutputDir, t.Name(), t.project.Name, t.retry)
}

func (t *T) Helper() {}

func (t *T) Errorf(format string, args ...any) {
	t.addError(fmt.Sprintf(format, args...))
}

func (t *T) Error(args ...any) {
	t.addError(fmt.Sprint(args...))
}

func (t *T) Fail() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.failed = true
}

// FailNow marks the attempt as failed and stops the case body.
func (t *T) FailNow() {
	t.Fail()
	runtime.Goexit()
}

func (t *T) Fatalf(format string, args ...any) {
	t.Errorf(format, args...)
	t.FailNow()
}

func (t *T) Fatal(args ...any) {
	t.Error(args...)
	t.FailNow()
}

func (t *T) Failed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.failed
}

// Setup aborts the attempt as errored if err is not nil. Fixtures use it to report
// that a stage could not provide its resource.
func (t *T) Setup(stage string, err error) {
	if err == nil {
		return
	}
	t.mu.Lock()
	t.setupFailed = true
	t.mu.Unlock()
	t.Fatalf("fixture %s: %v", stage, err)
}

// Skip marks the attempt as skipped and stops the case body.
func (t *T) Skip(reason string) {
	t.mu.Lock()
	t.skipped = true
	t.mu.Unlock()
	t.Log("skipped: " + reason)
	runtime.Goexit()
}

func (t *T) Logf(format string, args ...any) {
	t.Log(fmt.Sprintf(format, args...))
}

func (t *T) Log(msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.finished {
		return
	}
	t.logs = append(t.logs, msg)
	t.logger.Debug(msg, "test", t.Name(), "project", t.project.Name, "retry", t.retry)
}

// Cleanup registers fn to run after the attempt. Cleanups run in reverse order of
// registration, exactly once, whether the body passed, failed, panicked or timed out.
// A cleanup registered after teardown started, by a body that outlived its timeout,
// runs right away.
func (t *T) Cleanup(fn func()) {
	t.mu.Lock()
	if !t.tornDown {
		t.cleanups = append(t.cleanups, fn)
		t.mu.Unlock()
		return
	}
	t.mu.Unlock()
	t.runCleanup(fn)
}

// Attach adds an artifact to the attempt result.
func (t *T) Attach(a report.Attachment) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.attachments = append(t.attachments, a)
}

// Step runs fn as a named step. Steps nest and are shown in reports.
func (t *T) Step(title string, fn func()) {
	t.mu.Lock()
	node := &stepNode{step: report.Step{Title: title, Start: time.Now()}}
	if n := len(t.stepStack); n > 0 {
		parent := t.stepStack[n-1]
		parent.children = append(parent.children, node)
	} else {
		t.steps = append(t.steps, node)
	}
	t.stepStack = append(t.stepStack, node)
	errorsBefore := len(t.errors)
	t.mu.Unlock()

	defer func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		node.step.Duration = time.Since(node.step.Start)
		if len(t.errors) > errorsBefore {
			node.step.Error = t.errors[len(t.errors)-1].Message
		}
		if n := len(t.stepStack); n > 0 {
			t.stepStack = t.stepStack[:n-1]
		}
	}()

	fn()
}

func (t *T) addError(msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.finished {
		return
	}
	t.failed = true
	t.errors = append(t.errors, report.TestError{Message: msg, Location: callerLocation()})
}

func (t *T) recordPanic(p any) {
	t.addError(fmt.Sprintf("panic: %v\n\n%s", p, debug.Stack()))
}

func (t *T) markTimedOut(timeout time.Duration) {
	t.addError(fmt.Sprintf("Test timeout of %s exceeded.", timeout))
}

func (t *T) markInterrupted(err error) {
	t.addError(fmt.Sprintf("Test interrupted: %v", err))
}

// runCleanups runs all registered cleanups in reverse order. Each cleanup runs in its
// own goroutine so a failing cleanup cannot stop the runner.
// From then on Cleanup runs its function immediately.
func (t *T) runCleanups() {
	t.mu.Lock()
	cleanups := t.cleanups
	t.cleanups = nil
	t.tornDown = true
	t.mu.Unlock()

	for i := len(cleanups) - 1; i >= 0; i-- {
		t.runCleanup(cleanups[i])
	}
}

func (t *T) runCleanup(fn func()) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer func() {
			if p := recover(); p != nil {
				t.addError(fmt.Sprintf("cleanup panic: %v", p))
			}
		}()
		fn()
	}()
	<-done
}

// finish freezes the attempt; later calls from a body that outlived its timeout are ignored.
func (t *T) finish(start time.Time, timedOut bool) report.Attempt {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.finished = true

	return report.Attempt{
		Retry:       t.retry,
		Status:      t.status(timedOut),
		Start:       start,
		Duration:    time.Since(start),
		Errors:      append([]report.TestError(nil), t.errors...),
		Steps:       buildSteps(t.steps),
		Attachments: append([]report.Attachment(nil), t.attachments...),
		Logs:        append([]string(nil), t.logs...),
	}
}

func (t *T) status(timedOut bool) report.Status {
	switch {
	case timedOut:
		return report.StatusTimedOut
	case t.setupFailed:
		return report.StatusErrored
	case t.failed:
		return report.StatusFailed
	case t.skipped:
		return report.StatusSkipped
	}
	return report.StatusPassed
}

func buildSteps(nodes []*stepNode) []report.Step {
	if len(nodes) == 0 {
		return nil
	}
	steps := make([]report.Step, len(nodes))
	for i, n := range nodes {
		steps[i] = n.step
		steps[i].Steps = buildSteps(n.children)
	}
	return steps
}

// callerLocation finds the first frame in a test file, which is where the failing
// assertion of a case is written.
func callerLocation() *report.Location {
	pcs := make([]uintptr, 32)
	n := runtime.Callers(3, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := frames.Next()
		if strings.HasSuffix(frame.File, "_test.go") {
			return &report.Location{File: frame.File, Line: frame.Line}
		}
		if !more {
			return nil
		}
	}
}
