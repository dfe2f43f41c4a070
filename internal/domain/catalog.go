package domain

// MasterCatalogEntry is one row of the authoritative product reference
// table (the DATABASE sheet). SKU is unique within the catalog.
type MasterCatalogEntry struct {
	SKU            string `json:"sku"`
	Name           string `json:"name"`
	NormalizedName string `json:"normalizedName"`
	Brand          string `json:"brand"`
	Category       string `json:"category"`
	LatestCost     int64  `json:"latestCost,omitempty"`  // optional cost basis
	AverageCost    int64  `json:"averageCost,omitempty"` // optional cost basis
}

// BrandAliasMap maps an uppercased alias string to its canonical brand.
// Aliases absent from the map pass through unchanged (uppercased).
type BrandAliasMap map[string]string

// Resolve returns the canonical brand for an alias already uppercased
// by the caller, or the alias itself when no mapping exists.
func (m BrandAliasMap) Resolve(alias string) string {
	if canonical, ok := m[alias]; ok {
		return canonical
	}
	return alias
}
