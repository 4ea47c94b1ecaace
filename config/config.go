package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"
)

type SystemConfig struct {
	DataDirectory string `toml:"data_directory"`
}

type CoordinatorConfig struct {
	ClientName    string `toml:"client_name"`
	ClientVersion string `toml:"client_version"`
	CallTimeout   string `toml:"call_timeout"`
}

type UserConfig struct {
	Coordinator      CoordinatorConfig `toml:"coordinator"`
	WorkersFile      string            `toml:"workers_file,omitempty"`
	CallLogEnabled   bool              `toml:"call_log_enabled"`
	CatalogSnapshots bool              `toml:"catalog_snapshots"`
}

type Config struct {
	DataDirectory    string
	ClientName       string
	ClientVersion    string
	CallTimeout      time.Duration
	WorkersFile      string
	CallLogEnabled   bool
	CatalogSnapshots bool
}

var Debug = false
var DebugLog *log.Logger

func (c *Config) DataDir() string {
	return ExpandPath(c.DataDirectory)
}

func (c *Config) applyUserConfig(userCfg *UserConfig) error {
	if userCfg.Coordinator.ClientName != "" {
		c.ClientName = userCfg.Coordinator.ClientName
	}
	if userCfg.Coordinator.ClientVersion != "" {
		c.ClientVersion = userCfg.Coordinator.ClientVersion
	}
	if userCfg.Coordinator.CallTimeout != "" {
		timeout, err := time.ParseDuration(userCfg.Coordinator.CallTimeout)
		if err != nil {
			return fmt.Errorf("invalid call_timeout %q: %w", userCfg.Coordinator.CallTimeout, err)
		}
		c.CallTimeout = timeout
	}
	c.WorkersFile = userCfg.WorkersFile
	c.CallLogEnabled = userCfg.CallLogEnabled
	c.CatalogSnapshots = userCfg.CatalogSnapshots
	return nil
}

func (c *Config) applyEnvOverrides() error {
	if dataDir := os.Getenv("TOOLMUX_DATA_DIR"); dataDir != "" {
		c.DataDirectory = dataDir
	}
	if timeout := os.Getenv("TOOLMUX_CALL_TIMEOUT"); timeout != "" {
		parsed, err := time.ParseDuration(timeout)
		if err != nil {
			return fmt.Errorf("invalid TOOLMUX_CALL_TIMEOUT %q: %w", timeout, err)
		}
		c.CallTimeout = parsed
	}
	if workersFile := os.Getenv("TOOLMUX_WORKERS_FILE"); workersFile != "" {
		c.WorkersFile = workersFile
	}
	return nil
}

func CheckDebug() bool {
	debug := os.Getenv("TOOLMUX_DEBUG")
	return debug == "true" || debug == "1"
}

func InitDebugLog(dataDir string) {
	if !CheckDebug() {
		return
	}

	Debug = true
	logPath := filepath.Join(dataDir, "debug.log")

	// 0600: the log records worker commands and call arguments
	f, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not open debug log at %s: %v\n", logPath, err)
		return
	}

	DebugLog = log.New(f, "", log.Ldate|log.Ltime|log.Lmicroseconds|log.Lshortfile)
	DebugLog.Printf("=== Debug logging started (TOOLMUX_DEBUG=%s) ===", os.Getenv("TOOLMUX_DEBUG"))
	DebugLog.Printf("Log path: %s", logPath)
}

func Load() (*Config, error) {
	cfg := &Config{
		DataDirectory: GetDefaultDataDir(),
		ClientName:    DefaultClientName,
		ClientVersion: DefaultClientVersion,
		CallTimeout:   DefaultCallTimeout,
	}

	settingsPath := GetSettingsFilePath()

	switch {
	case !FileExists(settingsPath) && os.Getenv("TOOLMUX_DATA_DIR") != "":
		// Pure environment mode: nothing is created under ~/.config.
		cfg.CallLogEnabled = true
		cfg.CatalogSnapshots = true
		if err := cfg.applyEnvOverrides(); err != nil {
			return nil, err
		}
	default:
		systemCfg, err := LoadSystemConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to load system config: %w", err)
		}
		// An empty data_directory falls back to the platform default.
		if systemCfg.DataDirectory != "" {
			cfg.DataDirectory = systemCfg.DataDirectory
		}

		userCfg, err := LoadUserConfig(cfg.DataDir())
		if err != nil {
			return nil, fmt.Errorf("failed to load user config: %w", err)
		}
		if err := cfg.applyUserConfig(userCfg); err != nil {
			return nil, err
		}

		// Environment variables win over both config files.
		if err := cfg.applyEnvOverrides(); err != nil {
			return nil, err
		}
	}

	dataDir := cfg.DataDir()
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	// Ensure data directory has correct permissions (fix if needed)
	if err := EnsureDataDirPermissions(dataDir); err != nil {
		return nil, fmt.Errorf("failed to set data directory permissions: %w", err)
	}

	if cfg.WorkersFile == "" {
		cfg.WorkersFile = filepath.Join(dataDir, "workers.toml")
	} else {
		cfg.WorkersFile = ExpandPath(cfg.WorkersFile)
	}

	return cfg, nil
}
