package model

import "github.com/google/uuid"

// StripProfile represents a reusable LED strip definition.
type StripProfile struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	WattsPerMetre float64 `json:"watts_per_metre"`
	Voltage       float64 `json:"voltage"`
	ReelLength    float64 `json:"reel_length"` // metres per reel
}

// NewStripProfile creates a new StripProfile with a generated ID.
func NewStripProfile(name string, wattsPerMetre, voltage, reelLength float64) StripProfile {
	return StripProfile{
		ID:            uuid.New().String()[:8],
		Name:          name,
		WattsPerMetre: wattsPerMetre,
		Voltage:       voltage,
		ReelLength:    reelLength,
	}
}

// ApplyToSettings copies this strip's electrical and reel parameters into the
// given settings. The safety margin and precision are left untouched.
func (sp StripProfile) ApplyToSettings(cut *CutSettings, power *PowerSettings) {
	if cut != nil && sp.ReelLength > 0 {
		cut.RollLength = sp.ReelLength
	}
	if power != nil {
		power.Rate = sp.WattsPerMetre
		power.Voltage = sp.Voltage
	}
}

// SupplyPreset represents a power supply model that can be installed.
type SupplyPreset struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Capacity float64 `json:"capacity"` // watts
	Price    float64 `json:"price"`
}

// NewSupplyPreset creates a new SupplyPreset with a generated ID.
func NewSupplyPreset(name string, capacity, price float64) SupplyPreset {
	return SupplyPreset{
		ID:       uuid.New().String()[:8],
		Name:     name,
		Capacity: capacity,
		Price:    price,
	}
}

// ToTier converts a preset into a catalog tier.
func (sp SupplyPreset) ToTier() SupplyTier {
	return SupplyTier{Label: sp.Name, Capacity: sp.Capacity, Price: sp.Price}
}

// Inventory holds the user's saved strip profiles and supply presets.
type Inventory struct {
	Strips   []StripProfile `json:"strips"`
	Supplies []SupplyPreset `json:"supplies"`
}

// DefaultInventory returns an inventory populated with common defaults.
func DefaultInventory() Inventory {
	return Inventory{
		Strips: []StripProfile{
			NewStripProfile("2835 60LED/m 12V", 4.8, 12, 5),
			NewStripProfile("5050 30LED/m 12V", 7.2, 12, 5),
			NewStripProfile("5050 60LED/m 12V", 14.4, 12, 5),
			NewStripProfile("5050 60LED/m 24V", 14.4, 24, 10),
			NewStripProfile("COB 480LED/m 24V", 10.0, 24, 10),
		},
		Supplies: []SupplyPreset{
			NewSupplyPreset("30W", 30, 9.5),
			NewSupplyPreset("60W", 60, 14),
			NewSupplyPreset("100W", 100, 21),
			NewSupplyPreset("150W", 150, 27),
			NewSupplyPreset("240W", 240, 38),
			NewSupplyPreset("320W", 320, 49),
		},
	}
}

// Catalog returns the supply presets as catalog tiers, in inventory order.
func (inv *Inventory) Catalog() []SupplyTier {
	tiers := make([]SupplyTier, len(inv.Supplies))
	for i, s := range inv.Supplies {
		tiers[i] = s.ToTier()
	}
	return tiers
}

// FindStripByID returns a pointer to the strip with the given ID, or nil.
func (inv *Inventory) FindStripByID(id string) *StripProfile {
	for i := range inv.Strips {
		if inv.Strips[i].ID == id {
			return &inv.Strips[i]
		}
	}
	return nil
}

// FindStripByName returns a pointer to the first strip with the given name, or nil.
func (inv *Inventory) FindStripByName(name string) *StripProfile {
	for i := range inv.Strips {
		if inv.Strips[i].Name == name {
			return &inv.Strips[i]
		}
	}
	return nil
}

// StripNames returns the strip profile names in inventory order.
func (inv *Inventory) StripNames() []string {
	names := make([]string, len(inv.Strips))
	for i, s := range inv.Strips {
		names[i] = s.Name
	}
	return names
}
