package usecase

import (
	"context"
	"log"
	"math"
	"sort"

	"github.com/dbklik/recapdash/internal/domain"
)

// MatchPolicy selects between the two operating modes sharing the
// brand-partitioned vector-space mechanics.
type MatchPolicy int

const (
	// PolicyBestMatch always commits to the single highest-scoring
	// catalog entry, however low the score (Mode A labeling).
	PolicyBestMatch MatchPolicy = iota
	// PolicyThreshold collects every candidate at or above a
	// caller-supplied cutoff (Mode B comparison).
	PolicyThreshold
)

// LabelNotFound is written for both SKU and category when a listing's
// brand has no master-catalog entries at all. An explicit sentinel
// keeps the no-match case observable downstream instead of silently
// blank.
const LabelNotFound = "TIDAK DITEMUKAN"

// MatchConfig holds configuration for the matching service.
type MatchConfig struct {
	DefaultCutoff      float64
	EnableDebugLogging bool
}

// MatchingService reconciles product identities across stores. It
// never compares listings across brands: the brand-equality filter is
// a hard constraint, and partitioning by brand is also what keeps the
// comparison matrix bounded at catalog scale.
type MatchingService struct {
	defaultCutoff      float64
	enableDebugLogging bool
}

// NewMatchingService creates a matching service with the given
// configuration.
func NewMatchingService(config MatchConfig) *MatchingService {
	cutoff := config.DefaultCutoff
	if cutoff <= 0 || cutoff > 1 {
		cutoff = 0.65 // default minimum similarity
	}

	return &MatchingService{
		defaultCutoff:      cutoff,
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// DefaultCutoff returns the cutoff used when a caller passes none.
func (s *MatchingService) DefaultCutoff() float64 {
	return s.defaultCutoff
}

// LabelCatalog is Mode A: propagate SKU and category from the master
// catalog onto every listing, one decision per input row. Listings
// whose brand is absent from the catalog get the LabelNotFound
// sentinel. Ties on the best score break toward the lexicographically
// smaller SKU, which makes re-runs over identical input byte-identical.
func (s *MatchingService) LabelCatalog(
	ctx context.Context,
	listings []domain.ProductListing,
	catalog []domain.MasterCatalogEntry,
) ([]domain.LabelDecision, error) {
	if len(listings) == 0 || len(catalog) == 0 {
		return nil, domain.ErrInsufficientInput
	}

	listingsByBrand := make(map[string][]int)
	for i, l := range listings {
		listingsByBrand[l.Brand] = append(listingsByBrand[l.Brand], i)
	}
	catalogByBrand := make(map[string][]int)
	for i, e := range catalog {
		catalogByBrand[e.Brand] = append(catalogByBrand[e.Brand], i)
	}

	// Stable brand order so progress logging is reproducible.
	brands := make([]string, 0, len(listingsByBrand))
	for brand := range listingsByBrand {
		brands = append(brands, brand)
	}
	sort.Strings(brands)

	decisions := make([]domain.LabelDecision, len(listings))

	for _, brand := range brands {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		rows := listingsByBrand[brand]
		entries := catalogByBrand[brand]

		if len(entries) == 0 {
			for _, row := range rows {
				decisions[row] = domain.LabelDecision{
					Row:      row,
					SKU:      LabelNotFound,
					Category: LabelNotFound,
				}
			}
			if s.enableDebugLogging {
				log.Printf("[MATCH] brand %q: no catalog entries, %d listings marked not found", brand, len(rows))
			}
			continue
		}

		// One vector space per brand partition, fitted over the union
		// of catalog and listing names, and released when the brand is
		// done. Peak memory tracks the largest partition, not the
		// whole catalog.
		corpus := make([]string, 0, len(entries)+len(rows))
		for _, ci := range entries {
			corpus = append(corpus, catalog[ci].NormalizedName)
		}
		for _, row := range rows {
			corpus = append(corpus, listings[row].NormalizedName)
		}
		space := NewVectorSpace(corpus)

		candidateVecs := make([]map[string]float64, len(entries))
		for i, ci := range entries {
			candidateVecs[i] = space.Vectorize(catalog[ci].NormalizedName)
		}

		for _, row := range rows {
			name := listings[row].NormalizedName
			queryVec := space.Vectorize(name)

			best := -1.0
			bestIdx := -1
			for i, ci := range entries {
				score := dot(queryVec, candidateVecs[i])
				if name != "" && name == catalog[ci].NormalizedName {
					score = 1.0
				}
				if score > best || (score == best && catalog[ci].SKU < catalog[entries[bestIdx]].SKU) {
					best = score
					bestIdx = i
				}
			}

			chosen := catalog[entries[bestIdx]]
			decisions[row] = domain.LabelDecision{
				Row:      row,
				SKU:      chosen.SKU,
				Category: chosen.Category,
				Score:    best,
			}
		}

		if s.enableDebugLogging {
			log.Printf("[MATCH] brand %q: labeled %d listings against %d catalog entries", brand, len(rows), len(entries))
		}
	}

	return decisions, nil
}

// FindMatches is Mode B: every competitor listing of the same brand
// scoring at or above cutoff, with the query itself always first at
// 100%. A brand with zero competitor candidates yields the lone
// self-row, signaling "no competitor data" rather than an empty table.
func (s *MatchingService) FindMatches(
	ctx context.Context,
	query domain.ProductListing,
	homeListings []domain.ProductListing,
	competitors []domain.ProductListing,
	cutoff float64,
) ([]domain.ComparisonRow, error) {
	if cutoff < 0 || cutoff > 1 {
		return nil, domain.ErrInvalidRequest
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	var candidates []domain.ProductListing
	for _, c := range competitors {
		if c.Brand == query.Brand {
			candidates = append(candidates, c)
		}
	}

	rows := []domain.ComparisonRow{materializeSelfRow(query)}
	if len(candidates) == 0 {
		if s.enableDebugLogging {
			log.Printf("[MATCH] %q: no competitor listings for brand %q", query.RawName, query.Brand)
		}
		return rows, nil
	}

	corpus := make([]string, 0, len(homeListings)+len(candidates))
	for _, l := range homeListings {
		corpus = append(corpus, l.NormalizedName)
	}
	names := make([]string, len(candidates))
	for i, c := range candidates {
		names[i] = c.NormalizedName
	}
	corpus = append(corpus, names...)

	space := NewVectorSpace(corpus)
	scores := space.Score(query.NormalizedName, names)

	for i, score := range scores {
		// Acceptance compares the full-precision score; the integer
		// percentage exists for display only.
		if score >= cutoff {
			rows = append(rows, materializeMatchRow(query, candidates[i], score))
		}
	}

	if s.enableDebugLogging {
		log.Printf("[MATCH] %q: %d of %d same-brand candidates at cutoff %.2f",
			query.RawName, len(rows)-1, len(candidates), cutoff)
	}

	return rows, nil
}

// percentScore converts a fractional score to its display percentage,
// truncating toward zero the way the result tables always have.
func percentScore(score float64) int {
	return int(math.Floor(score*100 + 1e-9))
}
