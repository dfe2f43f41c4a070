package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/dbklik/recapdash/internal/domain"
)

type fakeSource struct {
	snap *domain.Snapshot
	err  error
}

func (f *fakeSource) Load(ctx context.Context) (*domain.Snapshot, error) {
	return f.snap, f.err
}

type fakeWriter struct {
	calls map[domain.StockStatus][]domain.LabelDecision
	err   error
}

func (f *fakeWriter) WriteLabels(ctx context.Context, store string, status domain.StockStatus, decisions []domain.LabelDecision) error {
	if f.err != nil {
		return f.err
	}
	if f.calls == nil {
		f.calls = make(map[domain.StockStatus][]domain.LabelDecision)
	}
	f.calls[status] = decisions
	return nil
}

type fakeRunRepo struct {
	saved []*domain.MatchRun
}

func (f *fakeRunRepo) SaveSnapshot(ctx context.Context, snap *domain.Snapshot) error { return nil }
func (f *fakeRunRepo) SaveRun(ctx context.Context, run *domain.MatchRun) error {
	f.saved = append(f.saved, run)
	return nil
}
func (f *fakeRunRepo) GetRun(ctx context.Context, id string) (*domain.MatchRun, error) {
	for _, r := range f.saved {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, domain.ErrRunNotFound
}

func labelingSnapshot() *domain.Snapshot {
	ready := listing("Logitech G102 Lightsync Black", "LOGITECH", 200000)
	ready.SourceRow = 5

	habis := listing("Logitech MX Master 3S", "LOGITECH", 1400000)
	habis.Status = domain.StockOutOfStock
	habis.SourceRow = 3

	other := competitor("Logitech G102 Lightsync", "LOGITECH", "TOKO B", 195000)

	return &domain.Snapshot{
		Listings: []domain.ProductListing{ready, habis, other},
		Catalog: []domain.MasterCatalogEntry{
			entry("LOG-001", "Logitech G102 Lightsync", "LOGITECH", "Mouse"),
			entry("LOG-002", "Logitech MX Master 3S Graphite", "LOGITECH", "Mouse"),
		},
	}
}

func TestLabelingServiceRun(t *testing.T) {
	ctx := context.Background()
	matcher := NewMatchingService(MatchConfig{})

	t.Run("labels both stock groups and addresses source rows", func(t *testing.T) {
		writer := &fakeWriter{}
		runs := &fakeRunRepo{}
		svc := NewLabelingService(&fakeSource{snap: labelingSnapshot()}, writer, runs, matcher, "DB KLIK")

		result, err := svc.Run(ctx)
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if result.ReadyLabeled != 1 || result.OutOfStockLabeled != 1 {
			t.Errorf("result = %+v, want one label per stock group", result)
		}

		readyDecisions := writer.calls[domain.StockAvailable]
		if len(readyDecisions) != 1 || readyDecisions[0].SKU != "LOG-001" {
			t.Errorf("ready decisions = %+v, want LOG-001", readyDecisions)
		}
		if readyDecisions[0].Row != 5 {
			t.Errorf("ready decision row = %d, want source row 5", readyDecisions[0].Row)
		}

		habisDecisions := writer.calls[domain.StockOutOfStock]
		if len(habisDecisions) != 1 || habisDecisions[0].Row != 3 {
			t.Errorf("out-of-stock decisions = %+v, want source row 3", habisDecisions)
		}

		if len(runs.saved) != 1 || runs.saved[0].Mode != "label" {
			t.Errorf("saved runs = %+v, want one run in label mode", runs.saved)
		}
	})

	t.Run("competitor listings are never labeled", func(t *testing.T) {
		writer := &fakeWriter{}
		svc := NewLabelingService(&fakeSource{snap: labelingSnapshot()}, writer, nil, matcher, "DB KLIK")

		if _, err := svc.Run(ctx); err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		total := len(writer.calls[domain.StockAvailable]) + len(writer.calls[domain.StockOutOfStock])
		if total != 2 {
			t.Errorf("labeled %d listings, want 2 home-store rows only", total)
		}
	})

	t.Run("no home listings at all", func(t *testing.T) {
		snap := &domain.Snapshot{
			Listings: []domain.ProductListing{competitor("Mouse X", "ACME", "TOKO B", 100)},
			Catalog:  []domain.MasterCatalogEntry{entry("S1", "Mouse X", "ACME", "c")},
		}
		svc := NewLabelingService(&fakeSource{snap: snap}, &fakeWriter{}, nil, matcher, "DB KLIK")

		_, err := svc.Run(ctx)
		if !errors.Is(err, domain.ErrInsufficientInput) {
			t.Errorf("error = %v, want ErrInsufficientInput", err)
		}
	})

	t.Run("source failure propagates", func(t *testing.T) {
		svc := NewLabelingService(&fakeSource{err: domain.ErrSnapshotMissing}, &fakeWriter{}, nil, matcher, "DB KLIK")

		_, err := svc.Run(ctx)
		if !errors.Is(err, domain.ErrSnapshotMissing) {
			t.Errorf("error = %v, want ErrSnapshotMissing", err)
		}
	})

	t.Run("writer failure propagates", func(t *testing.T) {
		writer := &fakeWriter{err: errors.New("sheet locked")}
		svc := NewLabelingService(&fakeSource{snap: labelingSnapshot()}, writer, nil, matcher, "DB KLIK")

		if _, err := svc.Run(ctx); err == nil {
			t.Error("Run() error = nil, want writer failure")
		}
	})
}
