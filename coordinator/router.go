package coordinator

import (
	"sync"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
)

// ToolRouter maps flat tool names to the worker that owns them. Names
// are not namespaced: when two workers declare the same tool, the one
// folded in last wins, silently shadowing the earlier owner.
type ToolRouter struct {
	mu     sync.RWMutex
	owners map[string]string
}

func NewToolRouter() *ToolRouter {
	return &ToolRouter{
		owners: make(map[string]string),
	}
}

// Fold adds every tool of a worker's catalog to the routing table.
func (t *ToolRouter) Fold(worker string, tools []mcptypes.Tool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, tool := range tools {
		t.owners[tool.Name] = worker
	}
}

// Resolve returns the worker owning a tool name.
func (t *ToolRouter) Resolve(tool string) (string, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	worker, exists := t.owners[tool]
	if !exists {
		return "", &ToolNotFoundError{Tool: tool}
	}
	return worker, nil
}

// Clear empties the routing table.
func (t *ToolRouter) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.owners = make(map[string]string)
}

// Len returns the number of routable tool names.
func (t *ToolRouter) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.owners)
}
