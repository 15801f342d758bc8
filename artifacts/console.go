package artifacts

import (
	"fmt"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
)

// DefaultConsoleCapacity is the number of console entries kept per page.
const DefaultConsoleCapacity = 200

type ConsoleEntry struct {
	Time time.Time
	// Type is the console message type ("log", "error", ...), "pageerror" or "requestfailed".
	Type string
	Text string
}

func (e ConsoleEntry) String() string {
	return fmt.Sprintf("%s [%s] %s", e.Time.Format("15:04:05.000"), e.Type, e.Text)
}

// ConsoleRecorder keeps the most recent console output of a page.
type ConsoleRecorder struct {
	buffer *RingBuffer[ConsoleEntry]
	now    func() time.Time
}

// NewConsoleRecorder keeps up to capacity entries and drops the oldest beyond that.
func NewConsoleRecorder(capacity uint64) *ConsoleRecorder {
	return &ConsoleRecorder{
		buffer: NewRingBuffer[ConsoleEntry](capacity),
		now:    time.Now,
	}
}

// Attach subscribes to console messages, uncaught page errors and failed requests of page.
func (c *ConsoleRecorder) Attach(page playwright.Page) {
	page.OnConsole(func(msg playwright.ConsoleMessage) {
		c.Add(msg.Type(), msg.Text())
	})
	page.OnPageError(func(err error) {
		c.Add("pageerror", err.Error())
	})
	page.OnRequestFailed(func(req playwright.Request) {
		reason := "failed"
		if err := req.Failure(); err != nil {
			reason = err.Error()
		}
		c.Add("requestfailed", fmt.Sprintf("%s %s: %s", req.Method(), req.URL(), reason))
	})
}

func (c *ConsoleRecorder) Add(typ, text string) {
	c.buffer.Add(ConsoleEntry{Time: c.now(), Type: typ, Text: text})
}

func (c *ConsoleRecorder) Entries() []ConsoleEntry {
	return c.buffer.GetRecords(c.buffer.Capacity())
}

// Lines formats all entries, noting how many older entries were dropped.
func (c *ConsoleRecorder) Lines() []string {
	entries := c.Entries()
	lines := make([]string, 0, len(entries)+1)
	if dropped := c.buffer.Dropped(); dropped > 0 {
		lines = append(lines, fmt.Sprintf("... %d earlier entries dropped", dropped))
	}
	for _, e := range entries {
		lines = append(lines, e.String())
	}
	return lines
}

// HasErrors reports whether an error level message, page error or failed request was recorded.
func (c *ConsoleRecorder) HasErrors() bool {
	for _, e := range c.Entries() {
		switch strings.ToLower(e.Type) {
		case "error", "pageerror", "requestfailed":
			return true
		}
	}
	return false
}
