package model

// AppConfig holds application-wide preferences and default settings.
type AppConfig struct {
	// Cutting defaults
	DefaultRollLength float64 `json:"default_roll_length"`
	DefaultMinOffcut  float64 `json:"default_min_offcut"`

	// Purchasing defaults
	DefaultRollPrice     float64 `json:"default_roll_price"`
	DefaultPurchaseWaste float64 `json:"default_purchase_waste"` // percent added to the estimate

	// Power defaults
	DefaultRate         float64      `json:"default_rate"`
	DefaultSafetyMargin float64      `json:"default_safety_margin"`
	DefaultVoltage      float64      `json:"default_voltage"`
	DefaultPrecision    int32        `json:"default_precision"`
	DefaultStrategy     string       `json:"default_strategy"` // "grouped" or "one-per-piece"
	DefaultCatalog      []SupplyTier `json:"default_catalog"`

	// Service preferences
	ListenAddr string `json:"listen_addr"`
	LogLevel   string `json:"log_level"` // "debug", "info", "warn", "error"
}

// DefaultCatalog is the stock supply catalog, in watts.
func DefaultCatalog() []SupplyTier {
	return []SupplyTier{
		{Label: "30W", Capacity: 30},
		{Label: "60W", Capacity: 60},
		{Label: "100W", Capacity: 100},
		{Label: "150W", Capacity: 150},
		{Label: "240W", Capacity: 240},
		{Label: "320W", Capacity: 320},
	}
}

// DefaultAppConfig returns an AppConfig populated with sensible defaults
// matching DefaultCutSettings and DefaultPowerSettings.
func DefaultAppConfig() AppConfig {
	cut := DefaultCutSettings()
	power := DefaultPowerSettings()
	return AppConfig{
		DefaultRollLength:    cut.RollLength,
		DefaultMinOffcut:     cut.MinOffcut,
		DefaultPurchaseWaste: 10,
		DefaultRate:          power.Rate,
		DefaultSafetyMargin:  power.SafetyMargin,
		DefaultVoltage:       power.Voltage,
		DefaultPrecision:     power.Precision,
		DefaultStrategy:      "grouped",
		DefaultCatalog:       DefaultCatalog(),
		ListenAddr:           ":8080",
		LogLevel:             "info",
	}
}

// ApplyToSettings copies the default values into cut and power settings.
// Either pointer may be nil.
func (c AppConfig) ApplyToSettings(cut *CutSettings, power *PowerSettings) {
	if cut != nil {
		cut.RollLength = c.DefaultRollLength
		cut.MinOffcut = c.DefaultMinOffcut
	}
	if power != nil {
		power.Rate = c.DefaultRate
		power.SafetyMargin = c.DefaultSafetyMargin
		power.Voltage = c.DefaultVoltage
		power.Precision = c.DefaultPrecision
	}
}

// Catalog returns a copy of the default catalog.
func (c AppConfig) Catalog() []SupplyTier {
	out := make([]SupplyTier, len(c.DefaultCatalog))
	copy(out, c.DefaultCatalog)
	return out
}
