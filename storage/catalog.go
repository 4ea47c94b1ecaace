package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CatalogTool is one merged-catalog entry as persisted: the flat tool
// name, the worker that owned it, and the declared input schema.
type CatalogTool struct {
	Worker      string          `json:"worker"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	InputSchema json.RawMessage `json:"input_schema,omitempty"`
}

// CatalogSnapshot is the merged tool catalog as it stood after one
// successful connect pass.
type CatalogSnapshot struct {
	ID        string        `json:"id"`
	CreatedAt time.Time     `json:"created_at"`
	Tools     []CatalogTool `json:"tools"`
}

// CatalogMetadata is a lightweight version of CatalogSnapshot for listing
type CatalogMetadata struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	ToolCount int       `json:"tool_count"`
}

// CatalogStore persists catalog snapshots as JSON files in the data
// directory.
type CatalogStore struct {
	catalogsDir string
}

func NewCatalogStore(dataDir string) (*CatalogStore, error) {
	catalogsDir := filepath.Join(dataDir, "catalogs")

	// Create catalogs directory if it doesn't exist (0700 - user-only access)
	if err := os.MkdirAll(catalogsDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create catalogs directory: %w", err)
	}

	return &CatalogStore{
		catalogsDir: catalogsDir,
	}, nil
}

// Save writes a new snapshot of the merged catalog.
func (s *CatalogStore) Save(tools []CatalogTool) (*CatalogSnapshot, error) {
	snapshot := &CatalogSnapshot{
		ID:        uuid.New().String(),
		CreatedAt: time.Now(),
		Tools:     tools,
	}

	filename := fmt.Sprintf("%s.json", snapshot.ID)
	path := filepath.Join(s.catalogsDir, filename)

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return nil, fmt.Errorf("failed to write snapshot file: %w", err)
	}

	return snapshot, nil
}

// Load reads one snapshot by ID.
func (s *CatalogStore) Load(id string) (*CatalogSnapshot, error) {
	filename := fmt.Sprintf("%s.json", id)
	path := filepath.Join(s.catalogsDir, filename)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot file: %w", err)
	}

	var snapshot CatalogSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}

	return &snapshot, nil
}

// List returns metadata for all snapshots, sorted by creation time
// (newest first). Corrupted files are skipped, not surfaced.
func (s *CatalogStore) List() ([]CatalogMetadata, error) {
	entries, err := os.ReadDir(s.catalogsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalogs directory: %w", err)
	}

	var snapshots []CatalogMetadata

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		path := filepath.Join(s.catalogsDir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			continue // Skip corrupted files
		}

		var snapshot CatalogSnapshot
		if err := json.Unmarshal(data, &snapshot); err != nil {
			continue // Skip corrupted files
		}

		snapshots = append(snapshots, CatalogMetadata{
			ID:        snapshot.ID,
			CreatedAt: snapshot.CreatedAt,
			ToolCount: len(snapshot.Tools),
		})
	}

	// Sort by CreatedAt (newest first)
	sort.Slice(snapshots, func(i, j int) bool {
		return snapshots[i].CreatedAt.After(snapshots[j].CreatedAt)
	})

	return snapshots, nil
}

// Delete removes one snapshot from disk.
func (s *CatalogStore) Delete(id string) error {
	filename := fmt.Sprintf("%s.json", id)
	path := filepath.Join(s.catalogsDir, filename)

	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to delete snapshot file: %w", err)
	}

	return nil
}

// Prune deletes all but the newest keep snapshots.
func (s *CatalogStore) Prune(keep int) error {
	if keep < 0 {
		keep = 0
	}

	snapshots, err := s.List()
	if err != nil {
		return err
	}

	for i := keep; i < len(snapshots); i++ {
		if err := s.Delete(snapshots[i].ID); err != nil {
			return err
		}
	}

	return nil
}
