package usecase

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/dbklik/recapdash/internal/domain"
)

// ComparisonService runs Mode B for a chosen home-store product:
// loads a snapshot, finds every sufficiently similar same-brand
// competitor listing, and persists the resulting table as a match run.
type ComparisonService struct {
	source    domain.SnapshotSource
	runs      domain.RunRepository
	tables    domain.MatchTableWriter
	matcher   *MatchingService
	homeStore string
}

// NewComparisonService wires a comparison service. tables may be nil
// when no workbook write-back is wanted.
func NewComparisonService(
	source domain.SnapshotSource,
	runs domain.RunRepository,
	tables domain.MatchTableWriter,
	matcher *MatchingService,
	homeStore string,
) *ComparisonService {
	return &ComparisonService{
		source:    source,
		runs:      runs,
		tables:    tables,
		matcher:   matcher,
		homeStore: homeStore,
	}
}

// CompareBySKU builds the competitor comparison table for one
// home-store SKU. A cutoff of 0 falls back to the configured default.
func (s *ComparisonService) CompareBySKU(ctx context.Context, sku string, cutoff float64) (*domain.MatchRun, error) {
	if sku == "" {
		return nil, domain.ErrInvalidRequest
	}
	if cutoff == 0 {
		cutoff = s.matcher.DefaultCutoff()
	}

	snap, err := s.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	home := s.homeCandidates(snap.Listings)
	if len(home) == 0 {
		return nil, domain.ErrInsufficientInput
	}

	var query *domain.ProductListing
	for i := range home {
		if home[i].SKU == sku {
			query = &home[i]
			break
		}
	}
	if query == nil {
		return nil, domain.ErrProductNotFound
	}

	var competitors []domain.ProductListing
	for _, l := range snap.Listings {
		if l.Store != s.homeStore {
			competitors = append(competitors, l)
		}
	}

	rows, err := s.matcher.FindMatches(ctx, *query, home, competitors, cutoff)
	if err != nil {
		return nil, err
	}

	run := &domain.MatchRun{
		ID:       uuid.NewString(),
		Mode:     "compare",
		QuerySKU: sku,
		Cutoff:   cutoff,
		Rows:     rows,
	}

	if s.runs != nil {
		if err := s.runs.SaveRun(ctx, run); err != nil {
			log.Printf("[MATCH] failed to record run %s: %v", run.ID, err)
		}
	}

	// The result sheet is a convenience view; failing to render it
	// does not fail the comparison.
	if s.tables != nil {
		if err := s.tables.WriteMatchTable(ctx, run); err != nil {
			log.Printf("[MATCH] failed to write result sheet for run %s: %v", run.ID, err)
		}
	}

	return run, nil
}

// homeCandidates returns the home store's available listings, one per
// SKU (first occurrence wins) and only where SKU and brand are known.
func (s *ComparisonService) homeCandidates(listings []domain.ProductListing) []domain.ProductListing {
	seen := make(map[string]bool)
	var out []domain.ProductListing
	for _, l := range listings {
		if l.Store != s.homeStore || l.Status != domain.StockAvailable {
			continue
		}
		if l.SKU == "" || l.Brand == "" || seen[l.SKU] {
			continue
		}
		seen[l.SKU] = true
		out = append(out, l)
	}
	return out
}
