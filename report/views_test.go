package report

import (
	"bytes"
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingWriter struct {
	limit int
	n     int
}

var errDiskFull = errors.New("disk full")

func (f *failingWriter) Write(p []byte) (int, error) {
	if f.n+len(p) > f.limit {
		return 0, errDiskFull
	}
	f.n += len(p)
	return len(p), nil
}

func sampleSummary() Summary {
	results := []TestResult{
		NewTestResult("chromium", "passes", []string{"@sanity"}, []Attempt{{Status: StatusPassed}}),
		NewTestResult("firefox", "flaky", nil, []Attempt{{Status: StatusFailed}, {Retry: 1, Status: StatusPassed}}),
		NewTestResult("webkit", "times out", nil, []Attempt{{Status: StatusTimedOut}}),
		NewTestResult("webkit", "skipped", nil, []Attempt{{Status: StatusSkipped}}),
	}
	return NewSummary(uuid.Must(uuid.NewV4()), time.Now(), time.Second, results)
}

func TestBadgeClassesAreStyled(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, indexPage(pageProps{Summary: sampleSummary()}).Render(context.Background(), &buf))

	badges := regexp.MustCompile(`<span class="(badge[^"]*)"`).FindAllStringSubmatch(buf.String(), -1)
	require.NotEmpty(t, badges)
	for _, m := range badges {
		for _, class := range strings.Fields(m[1]) {
			assert.Contains(t, reportStyle, "."+class+" {", "class %s has no style", class)
		}
	}
}

func TestBadgeClasses_UnknownVariant(t *testing.T) {
	assert.Equal(t, "badge badge-secondary", badgeClasses(BadgeProps{}))
	assert.Equal(t, "badge badge-error extra", badgeClasses(BadgeProps{Variant: BadgeVariantError, Class: "extra"}))
}

func TestIndexPage_ReturnsWriteErrors(t *testing.T) {
	for _, limit := range []int{0, 100} {
		err := indexPage(pageProps{Summary: sampleSummary()}).Render(context.Background(), &failingWriter{limit: limit})
		assert.ErrorIs(t, err, errDiskFull, "limit %d", limit)
	}
}
