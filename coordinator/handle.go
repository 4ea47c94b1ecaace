package coordinator

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"sync/atomic"
	"time"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/client/transport"

	"toolmux/config"
)

// terminateCloseTimeout bounds the cooperative close of a worker's
// stdio pipes before the process is forcefully reclaimed.
const terminateCloseTimeout = 1 * time.Second

// Handle owns one worker subprocess and its stdio transport.
type Handle struct {
	worker     string
	client     *client.Client
	proc       *exec.Cmd
	terminated atomic.Bool
}

// launch spawns the worker subprocess and wires its stdin/stdout to an
// MCP client. The process is running when launch returns; no protocol
// traffic has happened yet.
func launch(ctx context.Context, cfg WorkerConfig) (*Handle, error) {
	env := mergeEnv(cfg.Env)
	var capturedCmd *exec.Cmd

	if config.Debug && config.DebugLog != nil {
		config.DebugLog.Printf("[Coordinator] launch: worker '%s' - Command='%s', Args=%v", cfg.Name, cfg.Command, cfg.Args)
	}

	cmdFunc := func(ctx context.Context, command string, env []string, args []string) (*exec.Cmd, error) {
		cmd := exec.CommandContext(ctx, command, args...)
		cmd.Env = env
		capturedCmd = cmd
		return cmd, nil
	}

	mcpClient, err := client.NewStdioMCPClientWithOptions(
		cfg.Command,
		env,
		cfg.Args,
		transport.WithCommandFunc(cmdFunc),
	)
	if err != nil {
		return nil, &LaunchError{Worker: cfg.Name, Err: err}
	}

	if capturedCmd != nil && capturedCmd.Process != nil && config.Debug && config.DebugLog != nil {
		config.DebugLog.Printf("[Coordinator] launch: worker '%s' started with PID %d", cfg.Name, capturedCmd.Process.Pid)
	}

	return &Handle{worker: cfg.Name, client: mcpClient, proc: capturedCmd}, nil
}

// Client returns the MCP client speaking to this worker.
func (h *Handle) Client() *client.Client {
	return h.client
}

// Terminate shuts the worker down: a cooperative close of the stdio
// transport with a bounded wait, then a kill if the close hung or
// failed. Safe to call more than once; only the first call acts.
func (h *Handle) Terminate(ctx context.Context) error {
	if !h.terminated.CompareAndSwap(false, true) {
		return nil
	}

	clientClosed := false
	if h.client != nil {
		closeCtx, cancel := context.WithTimeout(ctx, terminateCloseTimeout)
		defer cancel()

		if config.Debug && config.DebugLog != nil {
			config.DebugLog.Printf("[Coordinator] Terminate: closing client for '%s' (%v timeout)", h.worker, terminateCloseTimeout)
		}

		closeDone := make(chan error, 1)
		go func() {
			closeDone <- h.client.Close()
		}()

		select {
		case err := <-closeDone:
			if err != nil {
				if config.Debug && config.DebugLog != nil {
					config.DebugLog.Printf("[Coordinator] Terminate: error closing client for '%s': %v", h.worker, err)
				}
			} else {
				clientClosed = true
			}
		case <-closeCtx.Done():
			if config.Debug && config.DebugLog != nil {
				config.DebugLog.Printf("[Coordinator] Terminate: close timeout for '%s' - killing process", h.worker)
			}
		}
	}

	// Close failed or hung: reclaim the process forcefully.
	if !clientClosed && h.proc != nil && h.proc.Process != nil {
		if config.Debug && config.DebugLog != nil {
			config.DebugLog.Printf("[Coordinator] Terminate: killing process for '%s' (PID %d)", h.worker, h.proc.Process.Pid)
		}
		if err := h.proc.Process.Kill(); err != nil {
			return fmt.Errorf("failed to kill worker %q: %w", h.worker, err)
		}
	}

	if config.Debug && config.DebugLog != nil {
		config.DebugLog.Printf("[Coordinator] Terminate: worker '%s' stopped", h.worker)
	}
	return nil
}

func mergeEnv(overrides map[string]string) []string {
	// Start with the current process environment to preserve PATH and
	// other system vars
	env := os.Environ()

	for k, v := range overrides {
		env = append(env, fmt.Sprintf("%s=%s", k, v))
	}

	return env
}
