package logging

import (
	"encoding/json"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// captureLogOutput configures the process logger against a pipe, runs logFn, and
// returns the decoded JSON lines.
func captureLogOutput(t *testing.T, opts Options, logFn func(*zap.Logger)) []map[string]any {
	t.Helper()
	resetLoggerForTest(t)

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	defer func() { _ = r.Close() }()

	origStdout := os.Stdout
	os.Stdout = w
	err = Configure(opts)
	os.Stdout = origStdout
	if err != nil {
		t.Fatalf("configure: %v", err)
	}

	logFn(Logger())
	_ = Logger().Sync()
	if closeErr := w.Close(); closeErr != nil {
		t.Fatalf("failed to close writer: %v", closeErr)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("failed to read log output: %v", err)
	}

	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		if line == "" {
			continue
		}
		var payload map[string]any
		if err := json.Unmarshal([]byte(line), &payload); err != nil {
			t.Fatalf("failed to unmarshal log JSON %q: %v", line, err)
		}
		entries = append(entries, payload)
	}
	return entries
}

// resetLoggerForTest clears the process logger and restores it after the test.
func resetLoggerForTest(t *testing.T) {
	t.Helper()
	mu.Lock()
	prevLogger, prevProject, prevErr := baseLogger, projectID, loggerErr
	baseLogger, projectID, loggerErr = nil, "", nil
	mu.Unlock()
	t.Cleanup(func() {
		mu.Lock()
		baseLogger, projectID, loggerErr = prevLogger, prevProject, prevErr
		mu.Unlock()
	})
}

func TestLoggerStructuredOutput(t *testing.T) {
	entries := captureLogOutput(t, Options{}, func(l *zap.Logger) {
		l.Info("GET /")
	})
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	payload := entries[0]

	if got := payload["severity"]; got != "INFO" {
		t.Fatalf("expected severity INFO, got %v", got)
	}
	if got := payload["message"]; got != "GET /" {
		t.Fatalf("expected message 'GET /', got %v", got)
	}
	if _, ok := payload["level"]; ok {
		t.Fatalf("expected no level key, got %v", payload["level"])
	}
	if _, ok := payload["caller"]; !ok {
		t.Fatalf("expected caller field")
	}

	ts, ok := payload["timestamp"].(string)
	if !ok {
		t.Fatalf("expected timestamp string, got %v", payload["timestamp"])
	}
	if _, err := time.Parse(RFC3339Micros, ts); err != nil {
		t.Fatalf("timestamp %q does not match %s: %v", ts, RFC3339Micros, err)
	}
}

func TestConfigureAddsServiceAndVersion(t *testing.T) {
	entries := captureLogOutput(t, Options{Service: "cicd-greeter", Version: "1.2.3"}, func(l *zap.Logger) {
		l.Info("started")
	})
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if got := entries[0]["service"]; got != "cicd-greeter" {
		t.Fatalf("expected service cicd-greeter, got %v", got)
	}
	if got := entries[0]["version"]; got != "1.2.3" {
		t.Fatalf("expected version 1.2.3, got %v", got)
	}
}

func TestConfigureLevelFiltersDebug(t *testing.T) {
	entries := captureLogOutput(t, Options{Level: "warn"}, func(l *zap.Logger) {
		l.Debug("dropped")
		l.Info("dropped too")
		l.Warn("kept")
	})
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if got := entries[0]["severity"]; got != "WARNING" {
		t.Fatalf("expected WARNING, got %v", got)
	}
}

func TestConfigureDebugLevel(t *testing.T) {
	entries := captureLogOutput(t, Options{Level: "debug"}, func(l *zap.Logger) {
		l.Debug("visible")
	})
	if len(entries) != 1 || entries[0]["severity"] != "DEBUG" {
		t.Fatalf("expected one DEBUG entry, got %v", entries)
	}
}

func TestConfigureRejectsUnknownLevel(t *testing.T) {
	resetLoggerForTest(t)

	if err := Configure(Options{Level: "loud"}); err == nil {
		t.Fatal("expected error for unknown level")
	}
	mu.RLock()
	defer mu.RUnlock()
	if baseLogger != nil {
		t.Fatal("expected logger to stay unset after failed configure")
	}
}

func TestConfigureProjectID(t *testing.T) {
	resetLoggerForTest(t)
	t.Setenv("GOOGLE_CLOUD_PROJECT", "env-project")

	if err := Configure(Options{ProjectID: "flag-project"}); err != nil {
		t.Fatalf("configure: %v", err)
	}
	if got := currentProjectID(); got != "flag-project" {
		t.Fatalf("expected flag-project, got %q", got)
	}

	if err := Configure(Options{}); err != nil {
		t.Fatalf("configure: %v", err)
	}
	if got := currentProjectID(); got != "env-project" {
		t.Fatalf("expected env-project, got %q", got)
	}
}

func TestLoggerBuildsDefaultLazily(t *testing.T) {
	resetLoggerForTest(t)

	first := Logger()
	if first == nil {
		t.Fatal("expected non-nil logger")
	}
	if second := Logger(); second != first {
		t.Fatal("expected the same logger on repeated calls")
	}
	if err := Err(); err != nil {
		t.Fatalf("expected no init error, got %v", err)
	}
}

func TestProjectIDFromEnvPriority(t *testing.T) {
	t.Setenv("GOOGLE_CLOUD_PROJECT", "")
	t.Setenv("GCP_PROJECT", "")
	t.Setenv("GCLOUD_PROJECT", "gcloud")
	t.Setenv("PROJECT_ID", "plain")

	if got := projectIDFromEnv(); got != "gcloud" {
		t.Fatalf("expected gcloud, got %q", got)
	}

	t.Setenv("GOOGLE_CLOUD_PROJECT", "google")
	if got := projectIDFromEnv(); got != "google" {
		t.Fatalf("expected google, got %q", got)
	}
}

type captureArrayEncoder struct {
	zapcore.PrimitiveArrayEncoder
	values []string
}

func (c *captureArrayEncoder) AppendString(s string) { c.values = append(c.values, s) }

func TestEncodeSeverityMapping(t *testing.T) {
	tests := map[zapcore.Level]string{
		zapcore.DebugLevel:  "DEBUG",
		zapcore.InfoLevel:   "INFO",
		zapcore.WarnLevel:   "WARNING",
		zapcore.ErrorLevel:  "ERROR",
		zapcore.DPanicLevel: "CRITICAL",
		zapcore.PanicLevel:  "ALERT",
		zapcore.FatalLevel:  "EMERGENCY",
		zapcore.Level(42):   "DEFAULT",
	}
	for level, want := range tests {
		enc := &captureArrayEncoder{}
		encodeSeverity(level, enc)
		if len(enc.values) != 1 || enc.values[0] != want {
			t.Fatalf("level %v: expected %s, got %v", level, want, enc.values)
		}
	}
}

func TestEncodeTimeMicrosUsesUTC(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	ts := time.Date(2024, 1, 15, 13, 30, 0, 123456789, loc)

	enc := &captureArrayEncoder{}
	encodeTimeMicros(ts, enc)

	if len(enc.values) != 1 || enc.values[0] != "2024-01-15T10:30:00.123456Z" {
		t.Fatalf("unexpected timestamp encoding: %v", enc.values)
	}
}
