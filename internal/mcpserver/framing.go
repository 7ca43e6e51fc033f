package mcpserver

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// maxFrameBytes caps the body size a Content-Length header may announce.
const maxFrameBytes = 16 << 20

// framing is the wire format a message arrived in. A response is written back
// in the framing of the request it answers.
type framing int

const (
	// framingHeader is LSP-style "Content-Length: N\r\n\r\n" + body.
	framingHeader framing = iota
	// framingLine is one JSON document per line.
	framingLine
)

// malformedFrameError reports a frame that could be skipped without losing the
// stream position.
type malformedFrameError struct {
	cause error
}

func (e *malformedFrameError) Error() string { return "malformed frame: " + e.cause.Error() }
func (e *malformedFrameError) Unwrap() error { return e.cause }

func malformed(format string, args ...any) error {
	return &malformedFrameError{cause: errors.Newf(format, args...)}
}

func writeMessage(w *bufio.Writer, f framing, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if f == framingLine {
		if _, err := w.Write(data); err != nil {
			return err
		}
		if err := w.WriteByte('\n'); err != nil {
			return err
		}
		return w.Flush()
	}
	if _, err := fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", len(data)); err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	return w.Flush()
}

// readMessage returns the next message body and the framing it used. A body
// starting with '{' or '[' is read as a single line; anything else must be a
// header block carrying Content-Length.
func readMessage(r *bufio.Reader) ([]byte, framing, error) {
	for {
		b, err := r.Peek(1)
		if err != nil {
			return nil, framingLine, err
		}
		if b[0] == ' ' || b[0] == '\t' || b[0] == '\r' || b[0] == '\n' {
			_, _ = r.ReadByte()
			continue
		}
		if b[0] == '{' || b[0] == '[' {
			line, err := r.ReadBytes('\n')
			if err != nil && !(errors.Is(err, io.EOF) && len(line) > 0) {
				return nil, framingLine, err
			}
			return bytes.TrimSpace(line), framingLine, nil
		}
		break
	}

	headers := map[string]string{}
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return nil, framingHeader, err
		}
		s := strings.TrimRight(line, "\r\n")
		if s == "" {
			break
		}
		if i := strings.IndexByte(s, ':'); i >= 0 {
			key := strings.ToLower(strings.TrimSpace(s[:i]))
			headers[key] = strings.TrimSpace(s[i+1:])
		}
	}

	clStr, ok := headers["content-length"]
	if !ok {
		return nil, framingHeader, malformed("missing Content-Length")
	}
	length, err := strconv.Atoi(clStr)
	if err != nil || length < 0 {
		return nil, framingHeader, malformed("invalid Content-Length %q", clStr)
	}
	if length > maxFrameBytes {
		return nil, framingHeader, malformed("Content-Length %d exceeds limit", length)
	}
	body := make([]byte, length)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, framingHeader, err
	}
	return body, framingHeader, nil
}
