package usecase

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/dbklik/recapdash/internal/domain"
)

// LabelingService runs Mode A over the whole workbook: loads a
// snapshot, labels the home store's ready and out-of-stock recap rows
// against the master catalog, writes the labels back to their source
// rows, and records the run.
type LabelingService struct {
	source    domain.SnapshotSource
	writer    domain.LabelWriter
	runs      domain.RunRepository
	matcher   *MatchingService
	homeStore string
}

// LabelResult summarizes one labeling run.
type LabelResult struct {
	RunID           string `json:"runId"`
	ReadyLabeled    int    `json:"readyLabeled"`
	OutOfStockLabeled int  `json:"outOfStockLabeled"`
}

// NewLabelingService wires a labeling service.
func NewLabelingService(
	source domain.SnapshotSource,
	writer domain.LabelWriter,
	runs domain.RunRepository,
	matcher *MatchingService,
	homeStore string,
) *LabelingService {
	return &LabelingService{
		source:    source,
		writer:    writer,
		runs:      runs,
		matcher:   matcher,
		homeStore: homeStore,
	}
}

// Run executes a full labeling pass. Every home-store listing receives
// a decision; the write-back addresses the original sheet rows.
func (s *LabelingService) Run(ctx context.Context) (*LabelResult, error) {
	snap, err := s.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	result := &LabelResult{RunID: uuid.NewString()}

	for _, status := range []domain.StockStatus{domain.StockAvailable, domain.StockOutOfStock} {
		group := s.collect(snap.Listings, status)
		if len(group) == 0 {
			continue
		}

		decisions, err := s.matcher.LabelCatalog(ctx, group, snap.Catalog)
		if err != nil {
			return nil, fmt.Errorf("label %s listings: %w", status, err)
		}

		// Translate slice positions into source sheet rows before
		// handing off to the writer.
		for i := range decisions {
			decisions[i].Row = group[decisions[i].Row].SourceRow
		}

		if err := s.writer.WriteLabels(ctx, s.homeStore, status, decisions); err != nil {
			return nil, fmt.Errorf("write labels: %w", err)
		}

		if status == domain.StockAvailable {
			result.ReadyLabeled = len(decisions)
		} else {
			result.OutOfStockLabeled = len(decisions)
		}
	}

	if result.ReadyLabeled == 0 && result.OutOfStockLabeled == 0 {
		return nil, domain.ErrInsufficientInput
	}

	if s.runs != nil {
		run := &domain.MatchRun{ID: result.RunID, Mode: "label"}
		if err := s.runs.SaveRun(ctx, run); err != nil {
			// Persistence is best effort; the labels are already in
			// the workbook.
			log.Printf("[LABEL] failed to record run %s: %v", run.ID, err)
		}
	}

	log.Printf("[LABEL] run %s: %d ready + %d out-of-stock listings labeled",
		result.RunID, result.ReadyLabeled, result.OutOfStockLabeled)
	return result, nil
}

func (s *LabelingService) collect(listings []domain.ProductListing, status domain.StockStatus) []domain.ProductListing {
	var out []domain.ProductListing
	for _, l := range listings {
		if l.Store == s.homeStore && l.Status == status {
			out = append(out, l)
		}
	}
	return out
}
