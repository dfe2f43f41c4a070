package usecase

import (
	"strings"

	"github.com/dbklik/recapdash/internal/domain"
)

// BrandUnknown is the canonical value assigned when no brand can be
// resolved. It matches the value existing workbooks already carry, so
// labels round-trip unchanged.
const BrandUnknown = "LAINNYA"

// BrandResolver maps raw or aliased brand strings to one canonical
// brand identity. Resolution is total: every listing ends up with a
// non-empty canonical brand, defaulting to BrandUnknown.
type BrandResolver struct {
	aliases     domain.BrandAliasMap
	knownBrands map[string]bool
}

// NewBrandResolver creates a resolver over an alias table and an
// optional known-brands reference list. Alias keys and known brands
// are matched case-insensitively.
func NewBrandResolver(aliases domain.BrandAliasMap, knownBrands []string) *BrandResolver {
	upper := make(domain.BrandAliasMap, len(aliases))
	for alias, canonical := range aliases {
		upper[strings.ToUpper(strings.TrimSpace(alias))] = canonical
	}

	known := make(map[string]bool, len(knownBrands))
	for _, b := range knownBrands {
		known[strings.ToUpper(strings.TrimSpace(b))] = true
	}

	return &BrandResolver{aliases: upper, knownBrands: known}
}

// Resolve canonicalizes a raw brand value. Blank input yields
// BrandUnknown; an alias present in the table yields its mapped
// canonical brand; anything else passes through uppercased.
func (r *BrandResolver) Resolve(rawBrand string) string {
	brand := strings.ToUpper(strings.TrimSpace(rawBrand))
	if brand == "" {
		return BrandUnknown
	}
	return r.aliases.Resolve(brand)
}

// FromName extracts a brand from a raw product name. Used only when a
// listing has no brand field at all. Scans the name for the first
// token present in the known-brands list (or the alias table), falling
// back to the first token of the name, then to BrandUnknown.
func (r *BrandResolver) FromName(rawName string) string {
	tokens := strings.Fields(rawName)
	if len(tokens) == 0 {
		return BrandUnknown
	}

	for _, token := range tokens {
		upper := strings.ToUpper(token)
		if r.knownBrands[upper] {
			return r.aliases.Resolve(upper)
		}
		if _, ok := r.aliases[upper]; ok {
			return r.aliases[upper]
		}
	}

	return r.Resolve(tokens[0])
}
