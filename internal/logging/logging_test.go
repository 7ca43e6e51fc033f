package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type testStringer string

func (s testStringer) String() string { return string(s) }

// captureStderr swaps the stderr sink for the duration of a test.
func captureStderr(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := stderr
	stderr = &buf
	t.Cleanup(func() {
		_ = Close()
		stderr = prev
		log.SetOutput(prev)
		SetDebug(false)
	})
	return &buf
}

func TestInitAndLoggingToFile(t *testing.T) {
	buf := captureStderr(t)
	logPath := filepath.Join(t.TempDir(), "nested", "hubble-tool.log")

	if err := Init(logPath); err != nil {
		t.Fatalf("Init error: %v", err)
	}

	LogEvent("hello %s", "world")
	LogRequest("in", "generate_table", "abc", map[string]any{"data": 1})
	_ = Close()

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "hello world") {
		t.Fatalf("expected LogEvent content, got: %s", content)
	}
	if !strings.Contains(content, "[IN] tool=generate_table id=abc payload={\"data\":1}") {
		t.Fatalf("expected LogRequest content, got: %s", content)
	}
	if !strings.Contains(buf.String(), "hello world") {
		t.Fatalf("expected stderr copy, got: %s", buf.String())
	}
}

func TestInitAppends(t *testing.T) {
	captureStderr(t)
	logPath := filepath.Join(t.TempDir(), "app.log")

	for _, msg := range []string{"first", "second"} {
		if err := Init(logPath); err != nil {
			t.Fatalf("Init error: %v", err)
		}
		LogEvent(msg)
		_ = Close()
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "first") || !strings.Contains(string(data), "second") {
		t.Fatalf("expected both runs in log, got: %s", data)
	}
}

func TestInitStderrOnly(t *testing.T) {
	buf := captureStderr(t)
	if err := Init(""); err != nil {
		t.Fatalf("Init error: %v", err)
	}
	LogEvent("only stderr")
	if !strings.Contains(buf.String(), "only stderr") {
		t.Fatalf("expected stderr output, got: %s", buf.String())
	}
}

func TestLogDebug(t *testing.T) {
	buf := captureStderr(t)
	if err := Init(""); err != nil {
		t.Fatalf("Init error: %v", err)
	}

	LogDebug("hidden")
	if strings.Contains(buf.String(), "hidden") {
		t.Fatalf("debug output without debug enabled: %s", buf.String())
	}

	SetDebug(true)
	LogDebug("shown %d", 1)
	if !strings.Contains(buf.String(), "[DEBUG] shown 1") {
		t.Fatalf("expected debug output, got: %s", buf.String())
	}
}

func TestBuildRequestMessageDefaults(t *testing.T) {
	msg := buildRequestMessage(" out ", " ", "", map[string]any{"ok": true})
	if !strings.HasPrefix(msg, "[OUT]") {
		t.Fatalf("expected uppercased direction, got: %s", msg)
	}
	if !strings.Contains(msg, "tool=unknown") {
		t.Fatalf("expected default tool, got: %s", msg)
	}
	if strings.Contains(msg, "id=") {
		t.Fatalf("expected id to be omitted, got: %s", msg)
	}
	if !strings.Contains(msg, "payload={\"ok\":true}") {
		t.Fatalf("expected payload json, got: %s", msg)
	}
}

func TestBuildRequestMessageTruncatesPayload(t *testing.T) {
	msg := buildRequestMessage("out", "search-hubble", "1", strings.Repeat("x", maxPayloadRunes+10))
	if !strings.HasSuffix(msg, strings.Repeat("x", maxPayloadRunes)+"…") {
		t.Fatalf("expected truncated payload, got %d bytes", len(msg))
	}
}

func TestFormatPayloadVariants(t *testing.T) {
	if got := formatPayload(nil); got != "null" {
		t.Fatalf("nil payload: %s", got)
	}
	if got := formatPayload(" "); got != `""` {
		t.Fatalf("empty string payload: %s", got)
	}
	if got := formatPayload([]byte("hi")); got != "hi" {
		t.Fatalf("byte payload: %s", got)
	}
	if got := formatPayload(json.RawMessage(`{"a":1}`)); got != `{"a":1}` {
		t.Fatalf("raw payload: %s", got)
	}
	if got := formatPayload(errors.New("boom")); got != "boom" {
		t.Fatalf("error payload: %s", got)
	}
	if got := formatPayload(testStringer("ok")); got != "ok" {
		t.Fatalf("stringer payload: %s", got)
	}
}
