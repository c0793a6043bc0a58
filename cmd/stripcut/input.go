package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/piwi3910/StripCut/internal/importer"
	"github.com/piwi3910/StripCut/internal/model"
	"github.com/piwi3910/StripCut/internal/planner"
	"github.com/piwi3910/StripCut/internal/project"
)

// inputOptions are the flags shared by plan and compare.
type inputOptions struct {
	roll      float64
	minOffcut float64
	price     float64
	waste     float64
	orders    []string
	file      string

	noPower   bool
	strategy  string
	catalog   string
	rate      float64
	margin    float64
	voltage   float64
	precision int32

	strip            string
	inventoryPath    string
	inventoryCatalog bool
}

func (o *inputOptions) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Float64VarP(&o.roll, "roll", "r", 0, "stock roll length in metres (default from config)")
	f.Float64Var(&o.minOffcut, "min-offcut", 0, "report remnants at least this long as reusable offcuts (default from config)")
	f.Float64Var(&o.price, "roll-price", 0, "price of one stock roll, for the purchase estimate (default from config)")
	f.Float64Var(&o.waste, "purchase-waste", 0, "percent added to the roll purchase estimate (default from config)")
	f.StringArrayVarP(&o.orders, "order", "o", nil, `order as [label=]length[xqty], e.g. "kitchen=2.4x2"; repeatable`)
	f.StringVarP(&o.file, "file", "f", "", "import orders from a CSV or Excel file")

	f.BoolVar(&o.noPower, "no-power", false, "skip power supply sizing")
	f.StringVarP(&o.strategy, "strategy", "s", "", "allocation strategy: grouped or one-per-piece (default from config)")
	f.StringVar(&o.catalog, "catalog", "", `supply capacities, optionally with prices, e.g. "30,60:14,100:21"`)
	f.Float64Var(&o.rate, "rate", 0, "load per metre, W/m (default from config)")
	f.Float64Var(&o.margin, "margin", 0, "safety margin as a fraction, e.g. 0.2 (default from config)")
	f.Float64Var(&o.voltage, "voltage", 0, "strip voltage, 0 skips current (default from config)")
	f.Int32Var(&o.precision, "precision", 0, "decimal places for demands (default from config)")

	f.StringVar(&o.strip, "strip", "", "apply a strip profile from the inventory by name")
	f.StringVar(&o.inventoryPath, "inventory", project.DefaultInventoryPath(), "path to the inventory file")
	f.BoolVar(&o.inventoryCatalog, "inventory-catalog", false, "use the inventory supply presets as the catalog")
}

// buildRequest merges config defaults, inventory, flags, positional lengths
// and imported orders into a planner request. Import warnings are returned
// alongside.
func (o *inputOptions) buildRequest(cmd *cobra.Command, cfg model.AppConfig, args []string) (planner.Request, []string, error) {
	req := planner.NewRequest(cfg)
	var warnings []string

	if o.strip != "" || o.inventoryCatalog {
		inv, err := project.LoadInventory(o.inventoryPath)
		if err != nil {
			return req, nil, fmt.Errorf("load inventory: %w", err)
		}
		if o.strip != "" {
			strip := inv.FindStripByName(o.strip)
			if strip == nil {
				return req, nil, fmt.Errorf("%w: no strip profile named %q (have: %s)",
					model.ErrInvalidConfiguration, o.strip, strings.Join(inv.StripNames(), ", "))
			}
			cut := model.CutSettings{RollLength: req.RollLength, MinOffcut: req.MinOffcut}
			strip.ApplyToSettings(&cut, &req.Power.Settings)
			req.RollLength = cut.RollLength
		}
		if o.inventoryCatalog {
			req.Power.Catalog = inv.Catalog()
		}
	}

	f := cmd.Flags()
	if f.Changed("roll") {
		req.RollLength = o.roll
	}
	if f.Changed("min-offcut") {
		req.MinOffcut = o.minOffcut
	}
	if f.Changed("roll-price") {
		req.RollPrice = o.price
	}
	if f.Changed("purchase-waste") {
		req.PurchaseWaste = o.waste
	}
	if o.noPower {
		req.Power.Enabled = false
	}
	if f.Changed("strategy") {
		req.Power.Strategy = o.strategy
	}
	if f.Changed("catalog") {
		tiers, err := parseCatalog(o.catalog)
		if err != nil {
			return req, nil, err
		}
		req.Power.Catalog = tiers
	}
	if f.Changed("rate") {
		req.Power.Settings.Rate = o.rate
	}
	if f.Changed("margin") {
		req.Power.Settings.SafetyMargin = o.margin
	}
	if f.Changed("voltage") {
		req.Power.Settings.Voltage = o.voltage
	}
	if f.Changed("precision") {
		req.Power.Settings.Precision = o.precision
	}

	for _, arg := range append(append([]string{}, o.orders...), args...) {
		ord, err := parseOrder(arg)
		if err != nil {
			return req, nil, err
		}
		req.Orders = append(req.Orders, ord)
	}

	if o.file != "" {
		result := importer.ImportFile(o.file)
		if len(result.Errors) > 0 {
			return req, result.Warnings, fmt.Errorf("%w: import %s: %s", model.ErrInvalidInput, o.file, strings.Join(result.Errors, "; "))
		}
		warnings = append(warnings, result.Warnings...)
		req.Orders = append(req.Orders, result.Orders...)
	}

	return req, warnings, nil
}

// parseOrder reads "[label=]length[xqty]".
func parseOrder(arg string) (model.Order, error) {
	s := strings.TrimSpace(arg)
	label := ""
	if i := strings.LastIndex(s, "="); i >= 0 {
		label = strings.TrimSpace(s[:i])
		s = s[i+1:]
	}

	lengthStr, qtyStr, hasQty := strings.Cut(strings.ToLower(s), "x")
	length, err := strconv.ParseFloat(strings.TrimSpace(lengthStr), 64)
	if err != nil {
		return model.Order{}, fmt.Errorf("%w: order %q: invalid length", model.ErrInvalidInput, arg)
	}
	qty := 1
	if hasQty {
		qty, err = strconv.Atoi(strings.TrimSpace(qtyStr))
		if err != nil {
			return model.Order{}, fmt.Errorf("%w: order %q: invalid quantity", model.ErrInvalidInput, arg)
		}
	}
	return model.Order{Label: label, Length: length, Quantity: qty}, nil
}

// parseCatalog reads a comma-separated list of "capacity[:price]".
func parseCatalog(s string) ([]model.SupplyTier, error) {
	var tiers []model.SupplyTier
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		capStr, priceStr, hasPrice := strings.Cut(part, ":")
		capacity, err := strconv.ParseFloat(strings.TrimSpace(capStr), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: catalog entry %q: invalid capacity", model.ErrInvalidConfiguration, part)
		}
		tier := model.SupplyTier{Label: fmt.Sprintf("%gW", capacity), Capacity: capacity}
		if hasPrice {
			tier.Price, err = strconv.ParseFloat(strings.TrimSpace(priceStr), 64)
			if err != nil {
				return nil, fmt.Errorf("%w: catalog entry %q: invalid price", model.ErrInvalidConfiguration, part)
			}
		}
		tiers = append(tiers, tier)
	}
	if len(tiers) == 0 {
		return nil, fmt.Errorf("%w: catalog %q has no entries", model.ErrInvalidConfiguration, s)
	}
	return tiers, nil
}
