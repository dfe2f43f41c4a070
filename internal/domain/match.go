package domain

// PriceBand classifies a competitor price against the query's own price.
type PriceBand string

const (
	PriceEqual  PriceBand = "Sama"
	PriceHigher PriceBand = "Lebih Mahal"
	PriceLower  PriceBand = "Lebih Murah"
)

// ClassifyPrice bands a signed rupiah delta. Prices are integers after
// ingestion coercion, so exact equality is the "equal" test.
func ClassifyPrice(delta int64) PriceBand {
	switch {
	case delta == 0:
		return PriceEqual
	case delta > 0:
		return PriceHigher
	default:
		return PriceLower
	}
}

// LabelDecision is one Mode A outcome: the SKU and category propagated
// onto an unlabeled listing. Row identifies the listing by its position
// in the input sequence, so the write-back layer can address the same
// row in the source sheet.
type LabelDecision struct {
	Row      int     `json:"row"`
	SKU      string  `json:"sku"`
	Category string  `json:"category"`
	Score    float64 `json:"score"` // best cosine similarity, informational only
}

// ComparisonRow is one Mode B output row, shaped for display or
// persistence. The first row of every table is the query itself at 100%.
type ComparisonRow struct {
	ListedName   string      `json:"listedName"`
	Store        string      `json:"store"`
	Price        int64       `json:"price"`
	Status       StockStatus `json:"status"`
	ScorePercent int         `json:"scorePercent"` // floor(score*100), display only
	PriceDelta   int64       `json:"priceDelta"`   // candidate price minus query price
	Band         PriceBand   `json:"band"`
	IsSelf       bool        `json:"isSelf"`
}

// MatchRun records one full matching run for persistence: its
// parameters and the materialized result table. Result tables are
// regenerated wholesale; a run is never updated in place.
type MatchRun struct {
	ID       string          `json:"id"`
	Mode     string          `json:"mode"` // "compare" or "label"
	QuerySKU string          `json:"querySku,omitempty"`
	Cutoff   float64         `json:"cutoff,omitempty"`
	Rows     []ComparisonRow `json:"rows,omitempty"`
}
