// Package mcpserver serves the tool registry over MCP: JSON-RPC 2.0 on a
// reader/writer pair, typically stdin and stdout.
package mcpserver

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/mwiater/hubble-tool/internal/logging"
	"github.com/mwiater/hubble-tool/internal/toolerr"
	"github.com/mwiater/hubble-tool/mcp/tools"
)

const (
	ServerName    = "hubble-tool"
	ServerVersion = "1.0.1"

	// DefaultProtocolVersion is answered when the client does not ask for one.
	DefaultProtocolVersion = "2024-11-05"
)

// JSON-RPC error codes.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
)

// --- Protocol data types ---

type jsonrpcRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type jsonrpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

type jsonrpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *jsonrpcError   `json:"error,omitempty"`
}

// errorData is attached to tool failures so clients can branch on the kind.
type errorData struct {
	Kind       string              `json:"kind"`
	Violations []toolerr.Violation `json:"violations,omitempty"`
}

type toolsCallParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

type initializeParams struct {
	ProtocolVersion string `json:"protocolVersion"`
}

var nullID = json.RawMessage("null")

// Dispatcher is the part of the tool registry the server needs.
type Dispatcher interface {
	Definitions() []tools.Definition
	Dispatch(ctx context.Context, name string, args map[string]any) (*tools.Result, error)
}

// Server answers MCP requests one at a time.
type Server struct {
	registry Dispatcher
}

func New(registry Dispatcher) *Server {
	return &Server{registry: registry}
}

// inbound is one result of readMessage handed from the reader goroutine.
type inbound struct {
	body  []byte
	frame framing
	err   error
}

// Serve reads requests from r and writes responses to w until r is exhausted
// or ctx is cancelled. Malformed frames are answered with a parse error and
// skipped; only I/O failures end the loop with an error.
//
// Reads happen on their own goroutine so a cancelled ctx ends Serve even while
// it is blocked waiting for input.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	if ctx.Err() != nil {
		return nil
	}
	bw := bufio.NewWriter(w)

	msgs := make(chan inbound)
	done := make(chan struct{})
	defer close(done)
	go readLoop(bufio.NewReader(r), msgs, done)

	for {
		var in inbound
		select {
		case <-ctx.Done():
			logging.LogEvent("mcp: stopping: %v", context.Cause(ctx))
			return nil
		case in = <-msgs:
		}

		if in.err != nil {
			if errors.Is(in.err, io.EOF) || errors.Is(in.err, io.ErrUnexpectedEOF) {
				return nil
			}
			var mf *malformedFrameError
			if errors.As(in.err, &mf) {
				logging.LogEvent("mcp: %v", in.err)
				if werr := writeMessage(bw, in.frame, makeError(nullID, CodeParseError, "Parse error", nil)); werr != nil {
					return werr
				}
				continue
			}
			return errors.Wrap(in.err, "read request")
		}

		resp := s.handle(ctx, in.body)
		if resp == nil {
			continue
		}
		if err := writeMessage(bw, in.frame, resp); err != nil {
			return errors.Wrap(err, "write response")
		}
	}
}

// readLoop feeds msgs until a read fails with anything other than a malformed
// frame, or done is closed.
func readLoop(br *bufio.Reader, msgs chan<- inbound, done <-chan struct{}) {
	for {
		body, frame, err := readMessage(br)
		select {
		case msgs <- inbound{body: body, frame: frame, err: err}:
		case <-done:
			return
		}
		var mf *malformedFrameError
		if err != nil && !errors.As(err, &mf) {
			return
		}
	}
}

// handle returns the response to one message body, or nil for notifications.
func (s *Server) handle(ctx context.Context, body []byte) *jsonrpcResponse {
	var req jsonrpcRequest
	if err := json.Unmarshal(body, &req); err != nil {
		logging.LogEvent("mcp: parse error: %v", err)
		resp := makeError(nullID, CodeParseError, "Parse error", nil)
		return &resp
	}
	if len(req.ID) == 0 {
		logging.LogDebug("mcp: notification %s", req.Method)
		return nil
	}
	if req.Method == "" {
		resp := makeError(req.ID, CodeInvalidRequest, "Invalid request", nil)
		return &resp
	}

	resp := s.handleRequest(ctx, &req)
	return &resp
}

// --- MCP Request Handler ---

func (s *Server) handleRequest(ctx context.Context, req *jsonrpcRequest) jsonrpcResponse {
	switch req.Method {
	case "initialize":
		var p initializeParams
		if len(req.Params) > 0 {
			_ = json.Unmarshal(req.Params, &p)
		}
		version := p.ProtocolVersion
		if version == "" {
			version = DefaultProtocolVersion
		}
		result := map[string]any{
			"protocolVersion": version,
			"serverInfo":      map[string]any{"name": ServerName, "version": ServerVersion},
			"capabilities":    map[string]any{"tools": map[string]any{}},
		}
		return makeResult(req.ID, result)

	case "ping":
		return makeResult(req.ID, map[string]any{})

	case "tools/list":
		return makeResult(req.ID, map[string]any{"tools": s.registry.Definitions()})

	case "tools/call":
		p, err := decodeCallParams(req.Params)
		if err != nil {
			return makeError(req.ID, CodeInvalidParams, "Invalid params", nil)
		}
		return s.callTool(ctx, req.ID, p)
	}

	return makeError(req.ID, CodeMethodNotFound, fmt.Sprintf("Method not found: %s", req.Method), nil)
}

func (s *Server) callTool(ctx context.Context, id json.RawMessage, p toolsCallParams) jsonrpcResponse {
	callID := uuid.NewString()
	logging.LogRequest("in", p.Name, callID, p.Arguments)

	res, err := s.registry.Dispatch(ctx, p.Name, p.Arguments)
	if err != nil {
		logging.LogRequest("error", p.Name, callID, err)
		return toolError(id, err)
	}
	logging.LogRequest("out", p.Name, callID, res)
	return makeResult(id, res)
}

// decodeCallParams keeps numbers as json.Number so they reach the tools with
// their original text.
func decodeCallParams(raw json.RawMessage) (toolsCallParams, error) {
	var p toolsCallParams
	if len(raw) > 0 {
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()
		if err := dec.Decode(&p); err != nil {
			return p, err
		}
	}
	if p.Name == "" {
		return p, errors.New("missing tool name")
	}
	if p.Arguments == nil {
		p.Arguments = map[string]any{}
	}
	return p, nil
}

func toolError(id json.RawMessage, err error) jsonrpcResponse {
	te := toolerr.Normalize(err, "Tool call failed")
	data := errorData{Kind: te.Kind.String(), Violations: te.Violations}
	return makeError(id, codeFor(te.Kind), te.Message, data)
}

func codeFor(kind toolerr.Kind) int {
	switch kind {
	case toolerr.InvalidArguments, toolerr.UnknownTool:
		return CodeInvalidParams
	default:
		return CodeInternalError
	}
}

// --- RPC Helpers ---

func makeResult(id json.RawMessage, result any) jsonrpcResponse {
	return jsonrpcResponse{JSONRPC: "2.0", ID: id, Result: result}
}

func makeError(id json.RawMessage, code int, msg string, data any) jsonrpcResponse {
	return jsonrpcResponse{JSONRPC: "2.0", ID: id, Error: &jsonrpcError{Code: code, Message: msg, Data: data}}
}
