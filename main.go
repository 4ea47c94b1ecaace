package main

import (
	"context"
	"fmt"
	"os"

	"toolmux/config"
	"toolmux/coordinator"
	"toolmux/storage"
)

const Version = "v0.1.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize debug logging after config is loaded
	config.InitDebugLog(cfg.DataDir())

	roster, err := config.LoadWorkerRoster(cfg.WorkersFile)
	if err != nil {
		fmt.Printf("Failed to load worker roster: %v\n", err)
		os.Exit(1)
	}
	if len(roster.Workers) == 0 {
		fmt.Printf("Worker roster %s lists no workers\n", cfg.WorkersFile)
		os.Exit(1)
	}

	opts := []coordinator.Option{
		coordinator.WithClientInfo(cfg.ClientName, cfg.ClientVersion),
		coordinator.WithCallTimeout(cfg.CallTimeout),
	}

	if cfg.CallLogEnabled {
		callLog, err := storage.NewCallLog(cfg.DataDir())
		if err != nil {
			fmt.Printf("Failed to initialize call log: %v\n", err)
			os.Exit(1)
		}
		opts = append(opts, coordinator.WithCallLog(callLog))
	}

	if cfg.CatalogSnapshots {
		catalogs, err := storage.NewCatalogStore(cfg.DataDir())
		if err != nil {
			fmt.Printf("Failed to initialize catalog store: %v\n", err)
			os.Exit(1)
		}
		opts = append(opts, coordinator.WithCatalogStore(catalogs))
	}

	coord := coordinator.New(opts...)
	ctx := context.Background()

	if err := coord.Start(ctx); err != nil {
		fmt.Printf("Failed to start coordinator: %v\n", err)
		os.Exit(1)
	}

	for _, w := range roster.Workers {
		coord.AddServer(coordinator.WorkerConfig{
			Name:    w.Name,
			Command: w.Command,
			Args:    w.Args,
			Env:     w.Env,
		})
	}

	fmt.Printf("toolmux %s\n", Version)

	fmt.Println("\n[1] Connecting to workers...")
	if err := coord.ConnectAll(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect: %v\n", err)
		coord.Close(ctx)
		os.Exit(1)
	}
	fmt.Printf("    Connected to %d workers\n", len(roster.Workers))

	fmt.Println("\n[2] Discovering available tools...")
	for _, tool := range coord.ListAllTools() {
		fmt.Printf("    - %s (from %s)\n", tool.Name, tool.Worker)
		if tool.Description != "" {
			fmt.Printf("      %s\n", tool.Description)
		}
	}

	fmt.Println("\n[3] Executing demo workflow...")
	demoCalls := []struct {
		tool string
		args map[string]any
		show string
	}{
		{tool: "add", args: map[string]any{"a": 5, "b": 3}, show: "add(5, 3)"},
		{tool: "multiply", args: map[string]any{"a": 7, "b": 6}, show: "multiply(7, 6)"},
		{tool: "uppercase", args: map[string]any{"text": "hello world"}, show: "uppercase('hello world')"},
		{tool: "concat", args: map[string]any{"a": "Hello", "b": "MCP", "separator": ", "}, show: "concat('Hello', 'MCP', ', ')"},
		{tool: "concat", args: map[string]any{"a": "Hello", "b": "MCP"}, show: "concat('Hello', 'MCP')"},
	}

	failed := false
	for _, call := range demoCalls {
		result, err := coord.CallTool(ctx, call.tool, call.args)
		if err != nil {
			fmt.Fprintf(os.Stderr, "    %s failed: %v\n", call.show, err)
			failed = true
			continue
		}
		fmt.Printf("    %s = %s\n", call.show, result)
	}

	// A name no worker declared is rejected before any worker is touched
	if _, err := coord.CallTool(ctx, "unknown_tool", map[string]any{}); err != nil {
		fmt.Printf("\n[4] Unknown tool rejected: %v\n", err)
	} else {
		fmt.Fprintln(os.Stderr, "    expected unknown_tool to fail")
		failed = true
	}

	coord.Close(ctx)
	fmt.Println("\n[5] Disconnected from workers")

	if failed {
		os.Exit(1)
	}
}
