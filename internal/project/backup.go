package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/piwi3910/StripCut/internal/model"
)

// BackupVersion is written into every backup file. Backups with a different
// major version are rejected on import.
const BackupVersion = "1.0.0"

// BackupData is the top-level structure of a backup file.
type BackupData struct {
	Version   string          `json:"version"`
	CreatedAt string          `json:"created_at"`
	Config    model.AppConfig `json:"config"`
	Inventory model.Inventory `json:"inventory"`
}

// ExportAllData writes the config and the inventory to a single JSON file.
func ExportAllData(exportPath string, config model.AppConfig, inv model.Inventory) error {
	backup := BackupData{
		Version:   BackupVersion,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Config:    config,
		Inventory: inv,
	}
	data, err := json.MarshalIndent(backup, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal backup data: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(exportPath), 0755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}
	if err := os.WriteFile(exportPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write backup file: %w", err)
	}
	return nil
}

// ImportAllData reads a backup file. Config fields missing from the backup
// take their defaults and the result is validated like a config file. The
// caller decides where to save the restored data.
func ImportAllData(importPath string) (BackupData, error) {
	data, err := os.ReadFile(importPath)
	if err != nil {
		return BackupData{}, fmt.Errorf("failed to read backup file: %w", err)
	}

	var raw struct {
		Version   string          `json:"version"`
		CreatedAt string          `json:"created_at"`
		Config    json.RawMessage `json:"config"`
		Inventory model.Inventory `json:"inventory"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return BackupData{}, fmt.Errorf("%w: failed to parse backup file: %v", model.ErrInvalidConfiguration, err)
	}
	if raw.Version == "" {
		return BackupData{}, fmt.Errorf("%w: backup file has no version field", model.ErrInvalidConfiguration)
	}
	if major(raw.Version) != major(BackupVersion) {
		return BackupData{}, fmt.Errorf("%w: backup version %s is not compatible with %s", model.ErrInvalidConfiguration, raw.Version, BackupVersion)
	}

	config := model.DefaultAppConfig()
	if len(raw.Config) > 0 {
		if config, err = decodeAppConfig(raw.Config); err != nil {
			return BackupData{}, fmt.Errorf("backup config: %w", err)
		}
	}
	return BackupData{
		Version:   raw.Version,
		CreatedAt: raw.CreatedAt,
		Config:    config,
		Inventory: raw.Inventory,
	}, nil
}

func major(version string) string {
	v, _, _ := strings.Cut(strings.TrimPrefix(version, "v"), ".")
	return v
}
