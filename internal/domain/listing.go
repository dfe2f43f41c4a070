package domain

import "time"

// StockStatus indicates whether a listing was in stock when the
// snapshot was taken. The values mirror the recap sheet vocabulary.
type StockStatus string

const (
	StockAvailable  StockStatus = "Tersedia"
	StockOutOfStock StockStatus = "Habis"
)

// ProductListing is one row of a store's catalog snapshot.
// Listings are immutable once ingested; a newer snapshot supersedes
// older rows with the same store+name+date key instead of mutating them.
type ProductListing struct {
	RawName        string      `json:"rawName"`
	NormalizedName string      `json:"normalizedName"` // derived, pure function of RawName
	Brand          string      `json:"brand"`          // canonical after resolution
	Price          int64       `json:"price"`          // rupiah, non-negative
	UnitsSold      int         `json:"unitsSold"`      // per period, >= 0
	Status         StockStatus `json:"status"`
	Store          string      `json:"store"`
	SnapshotDate   time.Time   `json:"snapshotDate"`
	SKU            string      `json:"sku,omitempty"`      // optional
	Category       string      `json:"category,omitempty"` // optional
	SourceRow      int         `json:"sourceRow,omitempty"` // 1-based row in the source sheet, for write-back
}

// Revenue returns price multiplied by units sold for the period.
func (l ProductListing) Revenue() int64 {
	return l.Price * int64(l.UnitsSold)
}

// Snapshot is an immutable view of all data loaded from one workbook
// read: listing rows, the master catalog, and the brand alias table.
type Snapshot struct {
	Listings []ProductListing
	Catalog  []MasterCatalogEntry
	Aliases  BrandAliasMap
	LoadedAt time.Time
}
