package report

import (
	"time"

	"github.com/gofrs/uuid"
	"github.com/samber/lo"
)

// Status is the result of a single attempt.
type Status string

const (
	StatusPassed   Status = "passed"
	StatusFailed   Status = "failed"
	StatusTimedOut Status = "timedOut"
	// StatusErrored marks an attempt whose fixture setup did not complete.
	StatusErrored Status = "errored"
	StatusSkipped Status = "skipped"
)

// Outcome summarizes all attempts of a test.
type Outcome string

const (
	OutcomeExpected   Outcome = "expected"
	OutcomeUnexpected Outcome = "unexpected"
	// OutcomeFlaky is a test that passed after at least one failed attempt.
	OutcomeFlaky   Outcome = "flaky"
	OutcomeSkipped Outcome = "skipped"
)

type Location struct {
	File string
	Line int
}

type TestError struct {
	Message  string
	Location *Location
}

// Step is a named section of a test body, possibly nested.
type Step struct {
	Title    string
	Start    time.Time
	Duration time.Duration
	Error    string
	Steps    []Step
}

// Attachment is an artifact of an attempt, stored at Path or inline in Body.
type Attachment struct {
	Name        string
	ContentType string
	Path        string
	Body        []byte
}

type Attempt struct {
	Retry       int
	Status      Status
	Start       time.Time
	Duration    time.Duration
	Errors      []TestError
	Steps       []Step
	Attachments []Attachment
	Logs        []string
}

type TestResult struct {
	ID       uuid.UUID
	Project  string
	Title    string
	Tags     []string
	Attempts []Attempt
	Outcome  Outcome
}

// NewTestResult builds a result from the attempts of one test and derives its outcome.
func NewTestResult(project, title string, tags []string, attempts []Attempt) TestResult {
	return TestResult{
		ID:       uuid.Must(uuid.NewV4()),
		Project:  project,
		Title:    title,
		Tags:     tags,
		Attempts: attempts,
		Outcome:  OutcomeOf(attempts),
	}
}

// OutcomeOf derives the outcome of a test from its attempts.
func OutcomeOf(attempts []Attempt) Outcome {
	if len(attempts) == 0 {
		return OutcomeSkipped
	}
	last := attempts[len(attempts)-1]
	switch last.Status {
	case StatusSkipped:
		return OutcomeSkipped
	case StatusPassed:
		if len(attempts) > 1 {
			return OutcomeFlaky
		}
		return OutcomeExpected
	}
	return OutcomeUnexpected
}

// Status returns the status of the last attempt.
func (r TestResult) Status() Status {
	if len(r.Attempts) == 0 {
		return StatusSkipped
	}
	return r.Attempts[len(r.Attempts)-1].Status
}

// Retries returns the number of attempts after the first one.
func (r TestResult) Retries() int {
	return max(len(r.Attempts)-1, 0)
}

// Duration returns the summed duration of all attempts.
func (r TestResult) Duration() time.Duration {
	return lo.SumBy(r.Attempts, func(a Attempt) time.Duration { return a.Duration })
}

// FullTitle is the title including tags, as matched by the grep filter.
func FullTitle(title string, tags []string) string {
	full := title
	for _, tag := range tags {
		full += " " + tag
	}
	return full
}

type Summary struct {
	RunID      uuid.UUID
	Start      time.Time
	Duration   time.Duration
	Expected   int
	Unexpected int
	Flaky      int
	Skipped    int
	Results    []TestResult
}

// NewSummary counts the outcomes of all results.
func NewSummary(runID uuid.UUID, start time.Time, duration time.Duration, results []TestResult) Summary {
	counts := lo.CountValuesBy(results, func(r TestResult) Outcome { return r.Outcome })
	return Summary{
		RunID:      runID,
		Start:      start,
		Duration:   duration,
		Expected:   counts[OutcomeExpected],
		Unexpected: counts[OutcomeUnexpected],
		Flaky:      counts[OutcomeFlaky],
		Skipped:    counts[OutcomeSkipped],
		Results:    results,
	}
}

// OK reports whether no test had an unexpected outcome.
func (s Summary) OK() bool {
	return s.Unexpected == 0
}

func (s Summary) Total() int {
	return len(s.Results)
}
