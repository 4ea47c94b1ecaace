package coordinator

import (
	"fmt"
	"time"
)

// LaunchError reports that a worker subprocess could not be spawned.
type LaunchError struct {
	Worker string
	Err    error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("worker %q: launch failed: %v", e.Worker, e.Err)
}

func (e *LaunchError) Unwrap() error {
	return e.Err
}

// HandshakeError reports that a worker spawned but the initialize
// exchange failed: no response, malformed data, or an incompatible
// protocol marker.
type HandshakeError struct {
	Worker string
	Err    error
}

func (e *HandshakeError) Error() string {
	return fmt.Sprintf("worker %q: handshake failed: %v", e.Worker, e.Err)
}

func (e *HandshakeError) Unwrap() error {
	return e.Err
}

// ProtocolError reports a malformed or shape-violating response from a
// worker after the handshake completed. Op names the exchange that
// produced it (e.g. "tools/list", "tools/call").
type ProtocolError struct {
	Worker string
	Op     string
	Err    error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("worker %q: %s: %v", e.Worker, e.Op, e.Err)
}

func (e *ProtocolError) Unwrap() error {
	return e.Err
}

// TimeoutError reports that a worker produced no response within the
// per-call deadline. The session is considered dead afterwards: a late
// reply must never be delivered as the answer to a later call.
type TimeoutError struct {
	Worker  string
	Tool    string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("worker %q: tool %q: no response within %v", e.Worker, e.Tool, e.Timeout)
}

// ToolExecutionError reports a failure the worker itself signalled for
// a tool call. Message carries the worker's error text verbatim.
type ToolExecutionError struct {
	Worker  string
	Tool    string
	Message string
}

func (e *ToolExecutionError) Error() string {
	return fmt.Sprintf("worker %q: tool %q failed: %s", e.Worker, e.Tool, e.Message)
}

// ToolNotFoundError reports a call to a tool name no connected worker
// has declared.
type ToolNotFoundError struct {
	Tool string
}

func (e *ToolNotFoundError) Error() string {
	return fmt.Sprintf("tool %q not found on any connected worker", e.Tool)
}

// UnknownServerError reports a connect attempt for a worker name that
// was never registered.
type UnknownServerError struct {
	Worker string
}

func (e *UnknownServerError) Error() string {
	return fmt.Sprintf("worker %q is not registered", e.Worker)
}

// NotConnectedError reports a call routed to a worker that has no live
// session: registration happened but the connection never succeeded,
// was severed by re-registration, or the session died.
type NotConnectedError struct {
	Worker string
	Tool   string
}

func (e *NotConnectedError) Error() string {
	if e.Tool != "" {
		return fmt.Sprintf("tool %q: worker %q is not connected", e.Tool, e.Worker)
	}
	return fmt.Sprintf("worker %q is not connected", e.Worker)
}

// ConcurrentCallError reports a second call issued on a session while
// an earlier one is still in flight. Sessions multiplex nothing: one
// request/response exchange at a time.
type ConcurrentCallError struct {
	Worker string
}

func (e *ConcurrentCallError) Error() string {
	return fmt.Sprintf("worker %q: a call is already in flight", e.Worker)
}

// NotInitializedError reports an operation attempted outside a started
// coordinator scope.
type NotInitializedError struct {
	Op string
}

func (e *NotInitializedError) Error() string {
	return fmt.Sprintf("%s: coordinator is not started", e.Op)
}
