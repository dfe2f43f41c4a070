package workbook

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dbklik/recapdash/internal/domain"
	"github.com/dbklik/recapdash/internal/usecase"
)

// Recap sheet titles look like "DB KLIK - REKAP - READY"; the store
// name is everything before the first "- REKAP".
var recapSheetRegex = regexp.MustCompile(`(?i)^(.*?)\s*-\s*REKAP`)

var nonDigitRegex = regexp.MustCompile(`[^\d]`)

// Recap column headers, matched case-insensitively after trimming.
const (
	colName     = "NAMA"
	colPrice    = "HARGA"
	colUnits    = "TERJUAL/BLN"
	colDate     = "TANGGAL"
	colBrand    = "BRAND"
	colSKU      = "SKU"
	colCategory = "KATEGORI"
)

// dateLayouts covers the day-first forms the recap sheets use, plus
// ISO for exports that went through other tooling.
var dateLayouts = []string{
	"02-01-2006",
	"2-1-2006",
	"02/01/2006",
	"2/1/2006",
	"2006-01-02",
	"02-01-06",
	"2/1/06",
}

// storeFromSheet extracts the store name from a recap sheet title.
func storeFromSheet(sheet string) string {
	if m := recapSheetRegex.FindStringSubmatch(sheet); m != nil {
		if store := strings.TrimSpace(m[1]); store != "" {
			return store
		}
	}
	return "Toko Tak Dikenal"
}

// statusFromSheet derives stock status from the READY/HABIS suffix.
func statusFromSheet(sheet string) domain.StockStatus {
	if strings.Contains(strings.ToUpper(sheet), "READY") {
		return domain.StockAvailable
	}
	return domain.StockOutOfStock
}

// headerIndex maps normalized header names to their column positions.
func headerIndex(headers []string) map[string]int {
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		key := strings.ToUpper(strings.TrimSpace(h))
		if key == "" {
			continue
		}
		if _, taken := index[key]; !taken {
			index[key] = i
		}
	}
	return index
}

func cell(row []string, index map[string]int, key string) string {
	i, ok := index[key]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// coercePrice strips everything but digits and parses the remainder,
// so "Rp 1.250.000" and "1250000" both coerce to 1250000.
func coercePrice(raw string) (int64, bool) {
	digits := nonDigitRegex.ReplaceAllString(raw, "")
	if digits == "" {
		return 0, false
	}
	value, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// coerceUnits parses a units-sold figure, defaulting to zero for
// blank or malformed values.
func coerceUnits(raw string) int {
	digits := nonDigitRegex.ReplaceAllString(raw, "")
	if digits == "" {
		return 0
	}
	value, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return value
}

// parseDate tries the known day-first layouts.
func parseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// mapListing converts one recap sheet row into a typed listing.
// Rows missing a name, price, or date are dropped here, at the
// ingestion boundary, so the matching core never sees them. Brand
// resolution happens later, once the alias table is known.
func mapListing(row []string, index map[string]int, store string, status domain.StockStatus, sourceRow int) (domain.ProductListing, bool) {
	name := cell(row, index, colName)
	if name == "" {
		return domain.ProductListing{}, false
	}

	price, ok := coercePrice(cell(row, index, colPrice))
	if !ok {
		return domain.ProductListing{}, false
	}

	date, ok := parseDate(cell(row, index, colDate))
	if !ok {
		return domain.ProductListing{}, false
	}

	return domain.ProductListing{
		RawName:        name,
		NormalizedName: usecase.Normalize(name),
		Brand:          cell(row, index, colBrand), // raw; resolved after aliases load
		Price:          price,
		UnitsSold:      coerceUnits(cell(row, index, colUnits)),
		Status:         status,
		Store:          store,
		SnapshotDate:   date,
		SKU:            cell(row, index, colSKU),
		Category:       cell(row, index, colCategory),
		SourceRow:      sourceRow,
	}, true
}

// mapCatalogEntry converts one DATABASE sheet row. Entries without a
// SKU or name are skipped.
func mapCatalogEntry(row []string, index map[string]int) (domain.MasterCatalogEntry, bool) {
	sku := cell(row, index, colSKU)
	name := cell(row, index, colName)
	if sku == "" || name == "" {
		return domain.MasterCatalogEntry{}, false
	}

	entry := domain.MasterCatalogEntry{
		SKU:            sku,
		Name:           name,
		NormalizedName: usecase.Normalize(name),
		Brand:          cell(row, index, colBrand),
		Category:       cell(row, index, colCategory),
	}
	if v, ok := coercePrice(cell(row, index, "HARGA TERAKHIR")); ok {
		entry.LatestCost = v
	}
	if v, ok := coercePrice(cell(row, index, "HARGA RATA2")); ok {
		entry.AverageCost = v
	}
	return entry, true
}
