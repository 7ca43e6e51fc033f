package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/mwiater/hubble-tool/internal/util"
)

// maxPayloadRunes caps the payload portion of a request log line.
const maxPayloadRunes = 4096

var (
	mu      sync.Mutex
	logFile *os.File
	debug   bool

	// stderr is where log lines go besides the optional file. Stdout belongs
	// to the MCP protocol and is never written to.
	stderr io.Writer = os.Stderr
)

// Init routes the standard logger to stderr and, when logPath is set, to that
// file in append mode. Calling Init again closes the previous file.
func Init(logPath string) error {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}

	writers := []io.Writer{stderr}

	if logPath != "" {
		if dir := filepath.Dir(logPath); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
		}
		file, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return err
		}
		logFile = file
		writers = append(writers, logFile)
	}

	log.SetOutput(io.MultiWriter(writers...))
	return nil
}

func Close() error {
	mu.Lock()
	defer mu.Unlock()
	log.SetOutput(stderr)
	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	return err
}

// SetDebug toggles LogDebug output.
func SetDebug(enabled bool) {
	mu.Lock()
	debug = enabled
	mu.Unlock()
}

func debugEnabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return debug
}

func LogEvent(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	log.Println(msg)
}

func LogDebug(format string, args ...any) {
	if !debugEnabled() {
		return
	}
	log.Println("[DEBUG] " + fmt.Sprintf(format, args...))
}

// LogRequest records one side of a tool invocation.
func LogRequest(direction, tool, id string, payload any) {
	log.Println(buildRequestMessage(direction, tool, id, payload))
}

func buildRequestMessage(direction, tool, id string, payload any) string {
	dir := strings.ToUpper(strings.TrimSpace(direction))
	toolValue := strings.TrimSpace(tool)
	if toolValue == "" {
		toolValue = "unknown"
	}
	parts := []string{fmt.Sprintf("[%s]", dir)}
	parts = append(parts, fmt.Sprintf("tool=%s", toolValue))
	if id = strings.TrimSpace(id); id != "" {
		parts = append(parts, fmt.Sprintf("id=%s", id))
	}
	parts = append(parts, fmt.Sprintf("payload=%s", util.TruncateRunes(formatPayload(payload), maxPayloadRunes)))
	return strings.Join(parts, " ")
}

func formatPayload(payload any) string {
	switch v := payload.(type) {
	case nil:
		return "null"
	case string:
		if strings.TrimSpace(v) == "" {
			return `""`
		}
		return v
	case []byte:
		if len(v) == 0 {
			return "[]"
		}
		return string(v)
	case json.RawMessage:
		if len(v) == 0 {
			return "null"
		}
		return string(v)
	case error:
		return v.Error()
	case fmt.Stringer:
		return v.String()
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(data)
	}
}
