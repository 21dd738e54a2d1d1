package logger

import (
	"bytes"
	"encoding/json"
	"log"
	"strings"
	"testing"
	"time"
)

func TestLevelString(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{DebugLevel, "DEBUG"},
		{InfoLevel, "INFO"},
		{WarnLevel, "WARN"},
		{ErrorLevel, "ERROR"},
		{Level(999), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.level.String(); got != tt.expected {
			t.Errorf("Level.String() = %v, want %v", got, tt.expected)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  Level
	}{
		{"debug", DebugLevel},
		{"info", InfoLevel},
		{"warn", WarnLevel},
		{"warning", WarnLevel},
		{"error", ErrorLevel},
		{"nonsense", InfoLevel},
		{"", InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func testLogger(cfg Config, buf *bytes.Buffer) *Logger {
	return &Logger{config: cfg, out: log.New(buf, "", 0)}
}

func TestLevelThreshold(t *testing.T) {
	var buf bytes.Buffer
	l := testLogger(Config{Level: WarnLevel}, &buf)

	l.Log(InfoLevel, "suppressed")
	if buf.Len() != 0 {
		t.Errorf("info message leaked through warn threshold: %q", buf.String())
	}

	l.Log(ErrorLevel, "surfaced")
	if !strings.Contains(buf.String(), "surfaced") {
		t.Errorf("error message missing: %q", buf.String())
	}
}

func TestPrettyFormatting(t *testing.T) {
	var buf bytes.Buffer
	l := testLogger(Config{Level: DebugLevel}, &buf)

	l.Log(InfoLevel, "patched manifest", String("path", "project.pbxproj"), Int("files", 3))
	out := buf.String()

	for _, want := range []string{"[INFO]", "patched manifest", "path=project.pbxproj", "files=3"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}

func TestJSONFormatting(t *testing.T) {
	var buf bytes.Buffer
	l := testLogger(Config{Level: DebugLevel, JSON: true}, &buf)

	l.Log(WarnLevel, "dirty worktree", String("branch", "main"))

	var e struct {
		Time    time.Time              `json:"time"`
		Level   string                 `json:"level"`
		Message string                 `json:"message"`
		Fields  map[string]interface{} `json:"fields"`
	}
	if err := json.Unmarshal(buf.Bytes(), &e); err != nil {
		t.Fatalf("output is not valid JSON: %v (%q)", err, buf.String())
	}
	if e.Level != "WARN" || e.Message != "dirty worktree" {
		t.Errorf("entry = %+v", e)
	}
	if e.Fields["branch"] != "main" {
		t.Errorf("fields = %v", e.Fields)
	}
}
