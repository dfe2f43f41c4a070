package usecase

import "github.com/dbklik/recapdash/internal/domain"

// materializeSelfRow shapes the query listing into the baseline row
// that opens every comparison table.
func materializeSelfRow(query domain.ProductListing) domain.ComparisonRow {
	return domain.ComparisonRow{
		ListedName:   query.RawName,
		Store:        query.Store,
		Price:        query.Price,
		Status:       query.Status,
		ScorePercent: 100,
		PriceDelta:   0,
		Band:         domain.PriceEqual,
		IsSelf:       true,
	}
}

// materializeMatchRow shapes one accepted candidate into a flat result
// row. Missing optional fields on the candidate propagate as-is rather
// than excluding the row.
func materializeMatchRow(query, candidate domain.ProductListing, score float64) domain.ComparisonRow {
	delta := candidate.Price - query.Price
	return domain.ComparisonRow{
		ListedName:   candidate.RawName,
		Store:        candidate.Store,
		Price:        candidate.Price,
		Status:       candidate.Status,
		ScorePercent: percentScore(score),
		PriceDelta:   delta,
		Band:         domain.ClassifyPrice(delta),
	}
}
