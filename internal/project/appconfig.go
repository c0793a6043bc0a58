package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/piwi3910/StripCut/internal/model"
	"github.com/piwi3910/StripCut/internal/power"
)

// DefaultConfigDir returns ~/.stripcut, or ./.stripcut when the home
// directory is unknown.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".stripcut")
}

// DefaultConfigPath returns the default path for the application config file.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.json")
}

// SaveAppConfig validates config and writes it to path as JSON, creating
// parent directories.
func SaveAppConfig(path string, config model.AppConfig) error {
	if err := ValidateAppConfig(config); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// LoadAppConfig reads an AppConfig from path. A missing file yields
// DefaultAppConfig. Fields absent from the file keep their defaults, and an
// empty catalog is replaced by the default one.
func LoadAppConfig(path string) (model.AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.DefaultAppConfig(), nil
		}
		return model.AppConfig{}, err
	}
	config, err := decodeAppConfig(data)
	if err != nil {
		return model.AppConfig{}, fmt.Errorf("%s: %w", path, err)
	}
	return config, nil
}

// decodeAppConfig overlays JSON onto the defaults and validates the result.
func decodeAppConfig(data []byte) (model.AppConfig, error) {
	config := model.DefaultAppConfig()
	config.DefaultCatalog = nil
	if err := json.Unmarshal(data, &config); err != nil {
		return model.AppConfig{}, fmt.Errorf("%w: %v", model.ErrInvalidConfiguration, err)
	}
	if len(config.DefaultCatalog) == 0 {
		config.DefaultCatalog = model.DefaultCatalog()
	}
	if err := ValidateAppConfig(config); err != nil {
		return model.AppConfig{}, err
	}
	return config, nil
}

// ValidateAppConfig checks that the defaults in config could drive a plan:
// a positive roll length, valid power settings, a known strategy and a usable
// catalog.
func ValidateAppConfig(config model.AppConfig) error {
	if config.DefaultRollLength <= 0 {
		return fmt.Errorf("%w: default roll length must be positive, got %g", model.ErrInvalidConfiguration, config.DefaultRollLength)
	}
	if config.DefaultMinOffcut < 0 {
		return fmt.Errorf("%w: default minimum offcut must not be negative, got %g", model.ErrInvalidConfiguration, config.DefaultMinOffcut)
	}
	if config.DefaultRollPrice < 0 || config.DefaultPurchaseWaste < 0 {
		return fmt.Errorf("%w: default roll price and purchase waste must not be negative", model.ErrInvalidConfiguration)
	}
	var ps model.PowerSettings
	config.ApplyToSettings(nil, &ps)
	if err := ps.Validate(); err != nil {
		return err
	}
	if _, err := power.ParseStrategy(config.DefaultStrategy); err != nil {
		return err
	}
	if _, err := power.NewCatalog(config.DefaultCatalog); err != nil {
		return err
	}
	return nil
}
