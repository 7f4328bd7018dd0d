package data

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"minesite-model/internal/model"
)

// LoadSnapshot loads a previously saved network snapshot from a JSON file.
func LoadSnapshot(path string) (model.NetworkSnapshot, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return model.NetworkSnapshot{}, fmt.Errorf("failed to read snapshot file: %w", err)
	}

	var snap model.NetworkSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return model.NetworkSnapshot{}, fmt.Errorf("failed to parse snapshot file: %w", err)
	}

	return snap, nil
}

// SaveSnapshot saves a network snapshot to a JSON file.
func SaveSnapshot(snap model.NetworkSnapshot, path string) error {
	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	raw, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	if err := os.WriteFile(path, raw, 0644); err != nil {
		return fmt.Errorf("failed to write snapshot file: %w", err)
	}

	return nil
}

// GetDefaultSnapshotPath returns the default path for the snapshot file
func GetDefaultSnapshotPath() string {
	// Try environment variable first
	if path := os.Getenv("SNAPSHOT_FILE"); path != "" {
		return path
	}
	// Default to data/snapshot.json in project root
	return "./data/snapshot.json"
}
