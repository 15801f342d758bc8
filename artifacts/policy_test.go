package artifacts_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/networkteam/e2esuite/artifacts"
	"github.com/networkteam/e2esuite/config"
)

func TestTracePolicy(t *testing.T) {
	tests := []struct {
		mode      config.TraceMode
		retry     int
		failed    bool
		wantStart bool
		wantKeep  bool
	}{
		{mode: config.TraceOff, retry: 0, failed: true},
		{mode: config.TraceOn, retry: 0, wantStart: true, wantKeep: true},
		{mode: config.TraceOn, retry: 2, failed: true, wantStart: true, wantKeep: true},
		{mode: config.TraceRetainOnFailure, retry: 0, wantStart: true},
		{mode: config.TraceRetainOnFailure, retry: 0, failed: true, wantStart: true, wantKeep: true},
		{mode: config.TraceOnFirstRetry, retry: 0, failed: true},
		{mode: config.TraceOnFirstRetry, retry: 1, wantStart: true, wantKeep: true},
		{mode: config.TraceOnFirstRetry, retry: 2, failed: true},
		{mode: config.TraceOnAllRetries, retry: 0, failed: true},
		{mode: config.TraceOnAllRetries, retry: 2, wantStart: true, wantKeep: true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.wantStart, artifacts.ShouldStartTrace(tt.mode, tt.retry), "start %s retry=%d", tt.mode, tt.retry)
		assert.Equal(t, tt.wantKeep, artifacts.ShouldKeepTrace(tt.mode, tt.failed, tt.retry), "keep %s retry=%d failed=%v", tt.mode, tt.retry, tt.failed)
	}
}

func TestScreenshotPolicy(t *testing.T) {
	assert.False(t, artifacts.ShouldScreenshot(config.ScreenshotOff, true))
	assert.True(t, artifacts.ShouldScreenshot(config.ScreenshotOn, false))
	assert.True(t, artifacts.ShouldScreenshot(config.ScreenshotOnlyOnFailure, true))
	assert.False(t, artifacts.ShouldScreenshot(config.ScreenshotOnlyOnFailure, false))
}

func TestVideoPolicy(t *testing.T) {
	tests := []struct {
		mode       config.VideoMode
		retry      int
		failed     bool
		wantRecord bool
		wantKeep   bool
	}{
		{mode: config.VideoOff, failed: true},
		{mode: config.VideoOn, wantRecord: true, wantKeep: true},
		{mode: config.VideoRetainOnFailure, wantRecord: true},
		{mode: config.VideoRetainOnFailure, failed: true, wantRecord: true, wantKeep: true},
		{mode: config.VideoOnFirstRetry, retry: 0, failed: true},
		{mode: config.VideoOnFirstRetry, retry: 1, wantRecord: true, wantKeep: true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.wantRecord, artifacts.ShouldRecordVideo(tt.mode, tt.retry), "record %s retry=%d", tt.mode, tt.retry)
		assert.Equal(t, tt.wantKeep, artifacts.ShouldKeepVideo(tt.mode, tt.failed, tt.retry), "keep %s retry=%d failed=%v", tt.mode, tt.retry, tt.failed)
	}
}

func TestDir(t *testing.T) {
	assert.Equal(t, filepath.Join("test-results", "open-main-page-sanity-chromium"),
		artifacts.Dir("test-results", "Open main page @sanity", "chromium", 0))
	assert.Equal(t, filepath.Join("out", "open-auth-page-webkit-retry2"),
		artifacts.Dir("out", "open auth page", "webkit", 2))
	assert.Equal(t, filepath.Join("out", "עובדות-שחשוב-firefox"),
		artifacts.Dir("out", "עובדות / שחשוב!", "firefox", 0))
	assert.Equal(t, filepath.Join("out", "test-chromium"),
		artifacts.Dir("out", "???", "chromium", 0))

	long := artifacts.Dir("out", "a very long title that goes on and on and on and on and on and on and on", "chromium", 0)
	assert.LessOrEqual(t, len(filepath.Base(long)), 60+len("-chromium"))
}
