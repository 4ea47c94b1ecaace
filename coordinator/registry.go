package coordinator

import (
	"sync"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
)

// ConnectionRegistry holds one Connection per registered worker name,
// in registration order. Registering a name again replaces the entry
// with a fresh unconnected one; the order slot stays where it was.
type ConnectionRegistry struct {
	mu     sync.RWMutex
	order  []string
	byName map[string]*Connection
}

func NewConnectionRegistry() *ConnectionRegistry {
	return &ConnectionRegistry{
		byName: make(map[string]*Connection),
	}
}

// Add registers a worker config. An existing entry under the same name
// is overwritten, severing whatever session it held.
func (r *ConnectionRegistry) Add(cfg WorkerConfig) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[cfg.Name]; !exists {
		r.order = append(r.order, cfg.Name)
	}
	r.byName[cfg.Name] = &Connection{Config: cfg}
}

// Config returns the registered spawn config for a worker.
func (r *ConnectionRegistry) Config(name string) (WorkerConfig, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conn, exists := r.byName[name]
	if !exists {
		return WorkerConfig{}, false
	}
	return conn.Config, true
}

// Names returns registered worker names in registration order.
func (r *ConnectionRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// SetConnected records a live session and its discovered tools.
func (r *ConnectionRegistry) SetConnected(name string, session *Session, tools []mcptypes.Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	conn, exists := r.byName[name]
	if !exists {
		return
	}
	conn.Session = session
	conn.Tools = tools
}

// Get returns a snapshot of the connection entry for a worker.
func (r *ConnectionRegistry) Get(name string) (Connection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conn, exists := r.byName[name]
	if !exists {
		return Connection{}, false
	}
	return *conn, true
}

// ToolRecords merges every connected worker's catalog into one flat
// list: workers in registration order, tools in the order each worker
// declared them. Workers without a live session contribute nothing.
func (r *ConnectionRegistry) ToolRecords() []ToolRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var records []ToolRecord
	for _, name := range r.order {
		conn := r.byName[name]
		if conn == nil || conn.Session == nil {
			continue
		}
		for _, tool := range conn.Tools {
			records = append(records, ToolRecord{
				Name:        tool.Name,
				Description: tool.Description,
				InputSchema: tool.InputSchema,
				Worker:      name,
			})
		}
	}
	return records
}

// Reset drops every session and catalog but keeps the registrations,
// so a later connect pass can rebuild from the same roster.
func (r *ConnectionRegistry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, conn := range r.byName {
		conn.Session = nil
		conn.Tools = nil
	}
}

// Len returns the number of registered workers.
func (r *ConnectionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}
