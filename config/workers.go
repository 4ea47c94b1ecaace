package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// WorkerEntry describes one worker subprocess in the roster file.
type WorkerEntry struct {
	Name    string            `toml:"name"`
	Command string            `toml:"command"`
	Args    []string          `toml:"args,omitempty"`
	Env     map[string]string `toml:"env,omitempty"`
}

// WorkerRoster is the parsed workers.toml. The [[workers]] array of
// tables is ordered: file order is registration (and connect) order.
// A duplicate name follows registration semantics - the later entry
// overwrites the earlier one when handed to the coordinator.
type WorkerRoster struct {
	Workers []WorkerEntry `toml:"workers"`
}

func LoadWorkerRoster(path string) (*WorkerRoster, error) {
	if !FileExists(path) {
		if err := CreateDefaultWorkerRoster(path); err != nil {
			return nil, fmt.Errorf("failed to create worker roster: %w", err)
		}
	}

	var roster WorkerRoster
	if _, err := toml.DecodeFile(path, &roster); err != nil {
		return nil, fmt.Errorf("failed to parse worker roster: %w", err)
	}

	if err := roster.Validate(); err != nil {
		return nil, fmt.Errorf("invalid worker roster: %w", err)
	}

	for i := range roster.Workers {
		roster.Workers[i].Command = ExpandPath(roster.Workers[i].Command)
	}

	return &roster, nil
}

func SaveWorkerRoster(path string, roster *WorkerRoster) error {
	// Create file with secure permissions (0600 - may contain env values)
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create worker roster file: %w", err)
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(roster); err != nil {
		return fmt.Errorf("failed to encode worker roster: %w", err)
	}

	return nil
}

func CreateDefaultWorkerRoster(path string) error {
	if FileExists(path) {
		return nil
	}

	content := GenerateWorkerRosterTemplate()
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write worker roster: %w", err)
	}

	return nil
}

// Validate checks that every entry can actually be spawned. Duplicate
// names are allowed and resolved by registration order.
func (r *WorkerRoster) Validate() error {
	for i, w := range r.Workers {
		switch {
		case w.Name == "":
			return fmt.Errorf("worker %d: name is required", i+1)
		case w.Command == "":
			return fmt.Errorf("worker %q: command is required", w.Name)
		}
	}
	return nil
}

func GenerateWorkerRosterTemplate() string {
	return `# toolmux Worker Roster
# Location: <data_directory>/workers.toml
# This file uses TOML format: https://toml.io
#
# Workers are registered and connected in file order. Each worker is an
# MCP server spawned as a subprocess and spoken to over stdin/stdout.

[[workers]]
name = "math-worker"
command = "mathworker"
args = []

[[workers]]
name = "string-worker"
command = "stringworker"
args = []
`
}
