// Package coordinator spawns MCP worker subprocesses, merges their
// tool catalogs into one flat namespace, and routes tool calls to the
// worker that owns each name. Workers live exactly as long as the
// coordinator scope that spawned them.
package coordinator

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	mcptypes "github.com/mark3labs/mcp-go/mcp"

	"toolmux/config"
	"toolmux/storage"
)

// terminateFunc releases one worker subprocess.
type terminateFunc func(ctx context.Context) error

// release is one entry of the teardown stack: workers are released in
// reverse acquisition order, like deferred closes.
type release struct {
	worker    string
	terminate terminateFunc
}

// spawnSession is swapped out by tests; production code spawns a real
// subprocess over stdio.
var spawnSession = spawnStdioSession

func spawnStdioSession(ctx context.Context, cfg WorkerConfig, info mcptypes.Implementation, callTimeout time.Duration) (*Session, terminateFunc, error) {
	handle, err := launch(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return newSession(cfg.Name, handle.Client(), info, callTimeout), handle.Terminate, nil
}

// Coordinator owns a set of worker subprocesses and the merged tool
// catalog they expose. All methods expect single-threaded use; the
// internal locking is a guard, not a concurrency feature.
type Coordinator struct {
	mu       sync.Mutex
	started  bool
	releases []release

	registry *ConnectionRegistry
	router   *ToolRouter

	clientInfo  mcptypes.Implementation
	callTimeout time.Duration

	callLog  *storage.CallLog
	catalogs *storage.CatalogStore
}

type Option func(*Coordinator)

// WithCallTimeout bounds every request/response exchange with a worker.
func WithCallTimeout(d time.Duration) Option {
	return func(c *Coordinator) {
		c.callTimeout = d
	}
}

// WithClientInfo sets the name and version the coordinator reports to
// workers during the handshake.
func WithClientInfo(name, version string) Option {
	return func(c *Coordinator) {
		c.clientInfo = mcptypes.Implementation{Name: name, Version: version}
	}
}

// WithCallLog records every dispatched tool call. The coordinator
// takes ownership and closes the log on Close.
func WithCallLog(log *storage.CallLog) Option {
	return func(c *Coordinator) {
		c.callLog = log
	}
}

// WithCatalogStore saves a snapshot of the merged catalog after each
// successful ConnectAll.
func WithCatalogStore(store *storage.CatalogStore) Option {
	return func(c *Coordinator) {
		c.catalogs = store
	}
}

func New(opts ...Option) *Coordinator {
	c := &Coordinator{
		registry:    NewConnectionRegistry(),
		router:      NewToolRouter(),
		clientInfo:  mcptypes.Implementation{Name: config.DefaultClientName, Version: config.DefaultClientVersion},
		callTimeout: config.DefaultCallTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start enters the coordinator scope. Connects and calls are refused
// until it runs; calling it on an already-started coordinator is a
// no-op.
func (c *Coordinator) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.started {
		return nil
	}
	c.started = true
	c.releases = nil

	if config.Debug && config.DebugLog != nil {
		config.DebugLog.Printf("[Coordinator] Start: scope opened (client %s/%s, call timeout %v)",
			c.clientInfo.Name, c.clientInfo.Version, c.callTimeout)
	}
	return nil
}

func (c *Coordinator) ensureStarted(op string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.started {
		return &NotInitializedError{Op: op}
	}
	return nil
}

// AddServer registers a worker under its name. Pure registration: no
// process is spawned and no traffic happens. Registering a name that
// already exists replaces the entry, severing any live session it held
// (the routing table keeps the stale tools, so calls to them now fail
// with NotConnectedError until a reconnect).
func (c *Coordinator) AddServer(cfg WorkerConfig) {
	c.registry.Add(cfg)

	if config.Debug && config.DebugLog != nil {
		config.DebugLog.Printf("[Coordinator] AddServer: registered worker '%s' (command '%s')", cfg.Name, cfg.Command)
	}
}

// ConnectServer spawns the registered worker, performs the handshake,
// discovers its tools, and folds them into the routing table. On any
// failure after the spawn, the subprocess is terminated before the
// error is returned; nothing half-connected is left behind.
func (c *Coordinator) ConnectServer(ctx context.Context, name string) error {
	if err := c.ensureStarted("connect"); err != nil {
		return err
	}

	cfg, ok := c.registry.Config(name)
	if !ok {
		return &UnknownServerError{Worker: name}
	}

	session, terminate, err := spawnSession(ctx, cfg, c.clientInfo, c.callTimeout)
	if err != nil {
		return err
	}

	if err := session.Initialize(ctx); err != nil {
		c.releaseNow(ctx, name, terminate)
		return err
	}

	tools, err := session.ListTools(ctx)
	if err != nil {
		c.releaseNow(ctx, name, terminate)
		return err
	}

	c.registry.SetConnected(name, session, tools)
	c.router.Fold(name, tools)
	c.pushRelease(name, terminate)

	if config.Debug && config.DebugLog != nil {
		config.DebugLog.Printf("[Coordinator] ConnectServer: worker '%s' connected with %d tools", name, len(tools))
	}
	return nil
}

// ConnectAll connects every registered worker in registration order.
// It stops at the first failure and returns that worker's error;
// workers connected before the failure stay connected and usable.
func (c *Coordinator) ConnectAll(ctx context.Context) error {
	if err := c.ensureStarted("connect"); err != nil {
		return err
	}

	for _, name := range c.registry.Names() {
		if err := c.ConnectServer(ctx, name); err != nil {
			return err
		}
	}

	c.snapshotCatalog()
	return nil
}

// ListAllTools returns the merged catalog: every connected worker's
// tools, workers in registration order, each worker's tools in the
// order it declared them.
func (c *Coordinator) ListAllTools() []ToolRecord {
	return c.registry.ToolRecords()
}

// Connection returns a snapshot of the registry entry for a worker.
func (c *Coordinator) Connection(name string) (Connection, bool) {
	return c.registry.Get(name)
}

// CallTool resolves the owning worker for a tool name and dispatches
// the call, returning the text of the first content item of the
// result.
func (c *Coordinator) CallTool(ctx context.Context, name string, args map[string]any) (string, error) {
	if err := c.ensureStarted("tools/call"); err != nil {
		return "", err
	}

	worker, err := c.router.Resolve(name)
	if err != nil {
		return "", err
	}

	conn, ok := c.registry.Get(worker)
	if !ok || conn.Session == nil {
		return "", &NotConnectedError{Worker: worker, Tool: name}
	}

	start := time.Now()
	result, callErr := conn.Session.CallTool(ctx, name, args)
	c.recordCall(worker, name, args, result, callErr, time.Since(start))

	return result, callErr
}

// DisconnectAll terminates every connected worker in reverse
// acquisition order. Termination failures are absorbed and logged so
// that one stuck worker never blocks the rest from being reclaimed.
// Registrations survive; a later connect pass rebuilds from the same
// roster. Safe to call repeatedly.
func (c *Coordinator) DisconnectAll(ctx context.Context) {
	c.mu.Lock()
	releases := c.releases
	c.releases = nil
	c.mu.Unlock()

	for i := len(releases) - 1; i >= 0; i-- {
		rel := releases[i]
		if err := rel.terminate(ctx); err != nil {
			if config.Debug && config.DebugLog != nil {
				config.DebugLog.Printf("[Coordinator] DisconnectAll: error terminating worker '%s': %v", rel.worker, err)
			}
		}
	}

	c.registry.Reset()
	c.router.Clear()

	if config.Debug && config.DebugLog != nil {
		config.DebugLog.Printf("[Coordinator] DisconnectAll: released %d workers", len(releases))
	}
}

// Close tears down every worker and exits the scope. After Close the
// coordinator refuses connects and calls until Start runs again.
func (c *Coordinator) Close(ctx context.Context) {
	c.DisconnectAll(ctx)

	c.mu.Lock()
	c.started = false
	callLog := c.callLog
	c.callLog = nil
	c.mu.Unlock()

	if callLog != nil {
		if err := callLog.Close(); err != nil && config.Debug && config.DebugLog != nil {
			config.DebugLog.Printf("[Coordinator] Close: error closing call log: %v", err)
		}
	}

	if config.Debug && config.DebugLog != nil {
		config.DebugLog.Printf("[Coordinator] Close: scope closed")
	}
}

func (c *Coordinator) pushRelease(worker string, terminate terminateFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.releases = append(c.releases, release{worker: worker, terminate: terminate})
}

// releaseNow terminates a partially-started worker that never made it
// onto the teardown stack.
func (c *Coordinator) releaseNow(ctx context.Context, worker string, terminate terminateFunc) {
	if terminate == nil {
		return
	}
	if err := terminate(ctx); err != nil && config.Debug && config.DebugLog != nil {
		config.DebugLog.Printf("[Coordinator] ConnectServer: error terminating partially-started worker '%s': %v", worker, err)
	}
}

// recordCall appends one dispatched call to the call log, when one is
// configured. Logging failures never fail the call itself.
func (c *Coordinator) recordCall(worker, tool string, args map[string]any, result string, callErr error, elapsed time.Duration) {
	if c.callLog == nil {
		return
	}

	argsJSON, err := json.Marshal(args)
	if err != nil {
		argsJSON = []byte("{}")
	}

	rec := storage.CallRecord{
		Worker:    worker,
		Tool:      tool,
		Arguments: string(argsJSON),
		Result:    result,
		Duration:  elapsed,
		CalledAt:  time.Now(),
	}
	if callErr != nil {
		rec.Error = callErr.Error()
	}

	if err := c.callLog.Record(rec); err != nil && config.Debug && config.DebugLog != nil {
		config.DebugLog.Printf("[Coordinator] CallTool: error recording call to '%s': %v", tool, err)
	}
}

// snapshotCatalog persists the merged catalog after a successful
// connect pass. Snapshot failures are absorbed: persistence is an
// observer of the catalog, never a gate on it.
func (c *Coordinator) snapshotCatalog() {
	if c.catalogs == nil {
		return
	}

	records := c.registry.ToolRecords()
	if len(records) == 0 {
		return
	}

	tools := make([]storage.CatalogTool, 0, len(records))
	for _, rec := range records {
		schema, err := json.Marshal(rec.InputSchema)
		if err != nil {
			schema = nil
		}
		tools = append(tools, storage.CatalogTool{
			Worker:      rec.Worker,
			Name:        rec.Name,
			Description: rec.Description,
			InputSchema: schema,
		})
	}

	snap, err := c.catalogs.Save(tools)
	if err != nil {
		if config.Debug && config.DebugLog != nil {
			config.DebugLog.Printf("[Coordinator] ConnectAll: error saving catalog snapshot: %v", err)
		}
		return
	}
	if config.Debug && config.DebugLog != nil {
		config.DebugLog.Printf("[Coordinator] ConnectAll: saved catalog snapshot %s (%d tools)", snap.ID, len(tools))
	}
}
