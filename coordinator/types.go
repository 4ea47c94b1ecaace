package coordinator

import (
	mcptypes "github.com/mark3labs/mcp-go/mcp"
)

// WorkerConfig describes how to spawn one worker subprocess. Env
// entries are appended to the coordinator's own environment.
type WorkerConfig struct {
	Name    string
	Command string
	Args    []string
	Env     map[string]string
}

// Connection is the registry entry for one registered worker. Session
// and Tools stay nil until a connect succeeds; re-registering the same
// name replaces the whole entry.
type Connection struct {
	Config  WorkerConfig
	Session *Session
	Tools   []mcptypes.Tool
}

// Connected reports whether the entry has a live session.
func (c Connection) Connected() bool {
	return c.Session != nil
}

// ToolRecord is one entry of the merged catalog: a tool a worker
// declared, tagged with the worker that owns it.
type ToolRecord struct {
	Name        string
	Description string
	InputSchema mcptypes.ToolInputSchema
	Worker      string
}
