package coordinator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync/atomic"
	"syscall"
	"time"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
)

// protocolVersion is the MCP revision offered during the handshake.
const protocolVersion = "2025-06-18"

// rpc is the slice of the MCP client a session needs. *client.Client
// satisfies it; tests substitute in-memory fakes.
type rpc interface {
	Initialize(ctx context.Context, request mcptypes.InitializeRequest) (*mcptypes.InitializeResult, error)
	ListTools(ctx context.Context, request mcptypes.ListToolsRequest) (*mcptypes.ListToolsResult, error)
	CallTool(ctx context.Context, request mcptypes.CallToolRequest) (*mcptypes.CallToolResult, error)
}

// Session is an initialized request/response channel to one worker.
// It multiplexes nothing: one exchange is in flight at a time. A
// timed-out or canceled exchange poisons the session for good, since a
// late reply on the pipe could otherwise surface as the answer to a
// later call; a broken pipe poisons it the same way.
type Session struct {
	worker      string
	rpc         rpc
	clientInfo  mcptypes.Implementation
	callTimeout time.Duration

	inFlight atomic.Bool
	dead     atomic.Bool
}

func newSession(worker string, rpc rpc, clientInfo mcptypes.Implementation, callTimeout time.Duration) *Session {
	return &Session{
		worker:      worker,
		rpc:         rpc,
		clientInfo:  clientInfo,
		callTimeout: callTimeout,
	}
}

// Worker returns the name of the worker this session talks to.
func (s *Session) Worker() string {
	return s.worker
}

// Initialize performs the MCP handshake.
func (s *Session) Initialize(ctx context.Context) error {
	initCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	initReq := mcptypes.InitializeRequest{
		Params: mcptypes.InitializeParams{
			ProtocolVersion: protocolVersion,
			Capabilities:    mcptypes.ClientCapabilities{},
			ClientInfo:      s.clientInfo,
		},
	}

	result, err := s.rpc.Initialize(initCtx, initReq)
	if err != nil {
		return &HandshakeError{Worker: s.worker, Err: err}
	}
	if result == nil || result.ProtocolVersion == "" {
		return &HandshakeError{Worker: s.worker, Err: errors.New("missing protocol version in initialize result")}
	}
	return nil
}

// ListTools asks the worker for its tool catalog.
func (s *Session) ListTools(ctx context.Context) ([]mcptypes.Tool, error) {
	listCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	result, err := s.rpc.ListTools(listCtx, mcptypes.ListToolsRequest{})
	if err != nil {
		return nil, &ProtocolError{Worker: s.worker, Op: "tools/list", Err: err}
	}
	if result == nil {
		return nil, &ProtocolError{Worker: s.worker, Op: "tools/list", Err: errors.New("empty result")}
	}
	return result.Tools, nil
}

// CallTool invokes one tool and returns the text of the first content
// item of the result ("" when the worker returned no content).
func (s *Session) CallTool(ctx context.Context, name string, args map[string]any) (string, error) {
	if s.dead.Load() {
		return "", &NotConnectedError{Worker: s.worker, Tool: name}
	}
	if !s.inFlight.CompareAndSwap(false, true) {
		return "", &ConcurrentCallError{Worker: s.worker}
	}
	defer s.inFlight.Store(false)

	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	req := mcptypes.CallToolRequest{
		Params: mcptypes.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}

	result, err := s.rpc.CallTool(callCtx, req)
	switch {
	case err != nil && errors.Is(err, context.DeadlineExceeded):
		s.dead.Store(true)
		return "", &TimeoutError{Worker: s.worker, Tool: name, Timeout: s.callTimeout}
	case err != nil && errors.Is(err, context.Canceled):
		s.dead.Store(true)
		return "", fmt.Errorf("worker %q: call to %q canceled: %w", s.worker, name, err)
	case err != nil && isTransportFailure(err):
		// The pipe died mid-exchange; the worker's state is unknown.
		s.dead.Store(true)
		return "", &ProtocolError{Worker: s.worker, Op: "tools/call", Err: err}
	case err != nil:
		// The worker answered with a JSON-RPC error for this call.
		return "", &ToolExecutionError{Worker: s.worker, Tool: name, Message: err.Error()}
	case result == nil:
		return "", &ProtocolError{Worker: s.worker, Op: "tools/call", Err: errors.New("empty result")}
	}

	if result.IsError {
		return "", &ToolExecutionError{Worker: s.worker, Tool: name, Message: firstText(result.Content)}
	}

	if len(result.Content) == 0 {
		return "", nil
	}
	text, ok := result.Content[0].(mcptypes.TextContent)
	if !ok {
		return "", &ProtocolError{Worker: s.worker, Op: "tools/call", Err: fmt.Errorf("first content item is %T, not text", result.Content[0])}
	}
	return text.Text, nil
}

// isTransportFailure reports whether err is the pipe dying rather than
// a worker-sent error response. mcp-go surfaces both as plain errors;
// the broken-pipe sentinels are the reliable tell for a crashed worker.
func isTransportFailure(err error) bool {
	return errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, io.ErrClosedPipe) ||
		errors.Is(err, os.ErrClosed) ||
		errors.Is(err, syscall.EPIPE)
}

func firstText(content []mcptypes.Content) string {
	if len(content) == 0 {
		return ""
	}
	if text, ok := content[0].(mcptypes.TextContent); ok {
		return text.Text
	}
	return ""
}
