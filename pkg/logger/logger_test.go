package logger

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"instaviewer/pkg/config"
)

func newBufferLogger(t *testing.T) (Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	l, err := NewWithWriter(&config.LoggingConfig{Level: "debug"}, &buf)
	require.NoError(t, err)
	return l, &buf
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *config.LoggingConfig
		wantErr bool
	}{
		{"info level", &config.LoggingConfig{Level: "info"}, false},
		{"debug level", &config.LoggingConfig{Level: "debug"}, false},
		{"invalid level", &config.LoggingConfig{Level: "chatty"}, true},
		{"file output", &config.LoggingConfig{Level: "info", File: filepath.Join(t.TempDir(), "logs", "viewer.log")}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, l)
			if tt.cfg.File != "" {
				assert.FileExists(t, tt.cfg.File)
			}
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected zerolog.Level
		wantErr  bool
	}{
		{"debug", zerolog.DebugLevel, false},
		{"DEBUG", zerolog.DebugLevel, false},
		{"info", zerolog.InfoLevel, false},
		{"", zerolog.InfoLevel, false},
		{"warning", zerolog.WarnLevel, false},
		{"error", zerolog.ErrorLevel, false},
		{"disabled", zerolog.Disabled, false},
		{"trace-everything", zerolog.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			level, err := parseLogLevel(tt.level)
			if (err != nil) != tt.wantErr {
				t.Errorf("parseLogLevel() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if level != tt.expected {
				t.Errorf("parseLogLevel() = %v, want %v", level, tt.expected)
			}
		})
	}
}

func TestLoggerStampsApp(t *testing.T) {
	l, buf := newBufferLogger(t)
	l.Info("hello")

	output := buf.String()
	if !strings.Contains(output, `"app":"instaviewer"`) {
		t.Error("app field not found in output")
	}
	if !strings.Contains(output, `"message":"hello"`) {
		t.Error("message not found in output")
	}
}

func TestFieldChaining(t *testing.T) {
	l, buf := newBufferLogger(t)

	base := l.WithField("component", "viewer")
	base.
		WithField("username", "natgeo").
		WithFields(map[string]interface{}{"tab": "reels", "count": 4}).
		Info("chained fields")

	output := buf.String()
	for _, want := range []string{`"component":"viewer"`, `"username":"natgeo"`, `"tab":"reels"`, `"count":4`} {
		if !strings.Contains(output, want) {
			t.Errorf("%s not found in output", want)
		}
	}

	// Derived loggers must not leak fields back into their parent
	buf.Reset()
	base.Info("parent only")
	if strings.Contains(buf.String(), "natgeo") {
		t.Error("child field leaked into parent logger")
	}
}

func TestWithError(t *testing.T) {
	l, buf := newBufferLogger(t)

	if l.WithError(nil) != l {
		t.Error("WithError(nil) should return the same logger")
	}

	l.WithError(errors.New("upstream exploded")).Error("fetch failed")
	if !strings.Contains(buf.String(), "upstream exploded") {
		t.Error("error text not found in output")
	}
}

func TestFieldTypes(t *testing.T) {
	l, buf := newBufferLogger(t)

	l.InfoWithFields("typed", map[string]interface{}{
		"int64":    int64(456),
		"duration": 5 * time.Second,
		"strings":  []string{"a", "b"},
		"custom":   struct{ Name string }{Name: "x"},
	})

	output := buf.String()
	assert.Contains(t, output, `"int64":456`)
	assert.Contains(t, output, `"strings":["a","b"]`)
	assert.Contains(t, output, `"Name":"x"`)
}

func TestLogRequest(t *testing.T) {
	tl := NewTestLogger()

	LogRequest(tl, "GET", "https://example.test/api/profile/x", 200, 10*time.Millisecond)
	LogRequest(tl, "GET", "https://example.test/api/profile/x", 404, time.Millisecond)
	LogRequest(tl, "GET", "https://example.test/api/profile/x", 502, time.Millisecond)

	assert.Len(t, tl.GetMessagesByLevel("DEBUG"), 1)
	assert.Len(t, tl.GetMessagesByLevel("WARN"), 1)
	assert.Len(t, tl.GetMessagesByLevel("ERROR"), 1)
	assert.Equal(t, int64(10), tl.GetMessagesByLevel("DEBUG")[0].Fields["duration_ms"])
}

func TestLogDownload(t *testing.T) {
	tl := NewTestLogger()

	LogDownload(tl, "natgeo", "/tmp/a.jpg", 1024, false, nil)
	LogDownload(tl, "natgeo", "/tmp/a.jpg", 0, true, nil)
	LogDownload(tl, "natgeo", "/tmp/b.mp4", 0, false, errors.New("disk full"))

	assert.True(t, tl.HasMessage("Download completed"))
	assert.True(t, tl.HasMessage("Download skipped, file exists"))
	require.True(t, tl.HasError())
	assert.EqualError(t, tl.GetMessagesByLevel("ERROR")[0].Error, "disk full")
}

func TestTestLoggerSharesSink(t *testing.T) {
	tl := NewTestLogger()
	child := tl.WithField("session", "abc").WithError(errors.New("boom"))
	child.Warn("stale result")

	msgs := tl.GetMessages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "abc", msgs[0].Fields["session"])
	assert.EqualError(t, msgs[0].Error, "boom")
	assert.Contains(t, tl.String(), "[WARN] stale result session=abc error=boom")
	assert.True(t, tl.HasMessageContaining("stale"))

	tl.Clear()
	assert.Empty(t, tl.GetMessages())
}

func TestGlobalLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "global.log")
	require.NoError(t, Initialize(&config.LoggingConfig{Level: "debug", File: path}))

	Info("global info")
	WithField("key", "value").Warn("with field")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "global info")
	assert.Contains(t, string(data), `"key":"value"`)

	SetLogger(NewNopLogger())
	assert.NotPanics(t, func() { Error("discarded") })
}
