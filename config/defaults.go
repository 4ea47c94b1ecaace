package config

import "time"

const (
	// DefaultClientName and DefaultClientVersion identify the coordinator
	// to workers during the MCP handshake.
	DefaultClientName    = "toolmux"
	DefaultClientVersion = "0.1.0"

	// DefaultCallTimeout bounds every request/response exchange with a
	// worker (handshake, discovery, and tool calls alike).
	DefaultCallTimeout = 30 * time.Second
)

func DefaultSystemConfig() *SystemConfig {
	return &SystemConfig{
		DataDirectory: "~/.local/share/toolmux",
	}
}

func DefaultUserConfig() *UserConfig {
	return &UserConfig{
		Coordinator: CoordinatorConfig{
			ClientName:    DefaultClientName,
			ClientVersion: DefaultClientVersion,
			CallTimeout:   "30s",
		},
		CallLogEnabled:   true,
		CatalogSnapshots: true,
	}
}
