package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/piwi3910/StripCut/internal/model"
)

// DefaultInventoryPath returns the default file path for the inventory file.
// This is located at ~/.stripcut/inventory.json.
func DefaultInventoryPath() string {
	return filepath.Join(DefaultConfigDir(), "inventory.json")
}

// SaveInventory writes the inventory to the specified JSON file.
// It creates parent directories if they do not exist.
func SaveInventory(path string, inv model.Inventory) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(inv, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadInventory reads the inventory from the specified JSON file.
// If the file does not exist, it returns the default inventory and saves it.
func LoadInventory(path string) (model.Inventory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			inv := model.DefaultInventory()
			if saveErr := SaveInventory(path, inv); saveErr != nil {
				return inv, saveErr
			}
			return inv, nil
		}
		return model.Inventory{}, err
	}
	return decodeInventory(data)
}

// ImportInventory imports an inventory from a user-specified JSON file,
// merging it with the existing inventory. Duplicate IDs are skipped.
func ImportInventory(path string, existing model.Inventory) (model.Inventory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return existing, err
	}
	imported, err := decodeInventory(data)
	if err != nil {
		return existing, fmt.Errorf("%s: %w", path, err)
	}
	return MergeInventory(existing, imported), nil
}

func decodeInventory(data []byte) (model.Inventory, error) {
	var inv model.Inventory
	if err := json.Unmarshal(data, &inv); err != nil {
		return model.Inventory{}, fmt.Errorf("%w: %v", model.ErrInvalidConfiguration, err)
	}
	if err := ValidateInventory(inv); err != nil {
		return model.Inventory{}, err
	}
	return inv, nil
}

// ValidateInventory rejects strip profiles without a positive load per metre
// and supply presets without a positive capacity.
func ValidateInventory(inv model.Inventory) error {
	for _, s := range inv.Strips {
		if s.WattsPerMetre <= 0 {
			return fmt.Errorf("%w: strip %q has non-positive load %g W/m", model.ErrInvalidConfiguration, s.Name, s.WattsPerMetre)
		}
		if s.Voltage < 0 || s.ReelLength < 0 {
			return fmt.Errorf("%w: strip %q has a negative voltage or reel length", model.ErrInvalidConfiguration, s.Name)
		}
	}
	for _, s := range inv.Supplies {
		if s.Capacity <= 0 {
			return fmt.Errorf("%w: supply %q has non-positive capacity %g", model.ErrInvalidConfiguration, s.Name, s.Capacity)
		}
		if s.Price < 0 {
			return fmt.Errorf("%w: supply %q has negative price %g", model.ErrInvalidConfiguration, s.Name, s.Price)
		}
	}
	return nil
}

// MergeInventory appends the strips and supplies of imported whose IDs are
// not already in existing.
func MergeInventory(existing, imported model.Inventory) model.Inventory {
	stripIDs := make(map[string]bool, len(existing.Strips))
	for _, s := range existing.Strips {
		stripIDs[s.ID] = true
	}
	supplyIDs := make(map[string]bool, len(existing.Supplies))
	for _, s := range existing.Supplies {
		supplyIDs[s.ID] = true
	}

	for _, s := range imported.Strips {
		if !stripIDs[s.ID] {
			existing.Strips = append(existing.Strips, s)
			stripIDs[s.ID] = true
		}
	}
	for _, s := range imported.Supplies {
		if !supplyIDs[s.ID] {
			existing.Supplies = append(existing.Supplies, s)
			supplyIDs[s.ID] = true
		}
	}
	return existing
}
