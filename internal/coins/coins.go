package coins

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Features that cost coins.
const (
	FeatureReport = "report"
)

//go:embed catalog.yaml
var catalogYAML []byte

// Package is a purchasable bundle of coins. Purchases are simulated; no
// payment provider is involved.
type Package struct {
	ID         string `yaml:"id"          json:"id"`
	Name       string `yaml:"name"        json:"name"`
	Coins      int    `yaml:"coins"       json:"coins"`
	PriceCents int    `yaml:"price_cents" json:"price_cents"`
	Currency   string `yaml:"currency"    json:"currency"`
}

// Catalog holds feature prices and coin packages.
type Catalog struct {
	Features map[string]int `yaml:"features"`
	Packages []Package      `yaml:"packages"`
}

// LoadCatalog parses the embedded catalog.
func LoadCatalog() (*Catalog, error) {
	return ParseCatalog(catalogYAML)
}

func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse coin catalog: %w", err)
	}
	for name, cost := range c.Features {
		if cost < 0 {
			return nil, fmt.Errorf("feature %q has negative cost %d", name, cost)
		}
	}
	seen := make(map[string]bool, len(c.Packages))
	for _, p := range c.Packages {
		if p.ID == "" || p.Coins <= 0 {
			return nil, fmt.Errorf("invalid coin package %+v", p)
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("duplicate coin package %q", p.ID)
		}
		seen[p.ID] = true
	}
	return &c, nil
}

// Cost returns the price of a feature. Unknown features are free.
func (c *Catalog) Cost(feature string) int {
	return c.Features[feature]
}

func (c *Catalog) Package(id string) (Package, bool) {
	for _, p := range c.Packages {
		if p.ID == id {
			return p, true
		}
	}
	return Package{}, false
}
