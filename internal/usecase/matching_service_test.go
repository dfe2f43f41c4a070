package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/dbklik/recapdash/internal/domain"
)

func listing(name, brand string, price int64) domain.ProductListing {
	return domain.ProductListing{
		RawName:        name,
		NormalizedName: Normalize(name),
		Brand:          brand,
		Price:          price,
		Status:         domain.StockAvailable,
		Store:          "DB KLIK",
	}
}

func competitor(name, brand, store string, price int64) domain.ProductListing {
	l := listing(name, brand, price)
	l.Store = store
	return l
}

func entry(sku, name, brand, category string) domain.MasterCatalogEntry {
	return domain.MasterCatalogEntry{
		SKU:            sku,
		Name:           name,
		NormalizedName: Normalize(name),
		Brand:          brand,
		Category:       category,
	}
}

func TestLabelCatalog(t *testing.T) {
	svc := NewMatchingService(MatchConfig{})
	ctx := context.Background()

	t.Run("empty input is rejected", func(t *testing.T) {
		_, err := svc.LabelCatalog(ctx, nil, []domain.MasterCatalogEntry{entry("S1", "x", "A", "c")})
		if !errors.Is(err, domain.ErrInsufficientInput) {
			t.Errorf("error = %v, want ErrInsufficientInput", err)
		}

		_, err = svc.LabelCatalog(ctx, []domain.ProductListing{listing("x", "A", 1)}, nil)
		if !errors.Is(err, domain.ErrInsufficientInput) {
			t.Errorf("error = %v, want ErrInsufficientInput", err)
		}
	})

	t.Run("every listing gets exactly one decision", func(t *testing.T) {
		listings := []domain.ProductListing{
			listing("Logitech G102 Lightsync Black", "LOGITECH", 200000),
			listing("Logitech MX Master 3S", "LOGITECH", 1400000),
			listing("Samsung Odyssey G5 27", "SAMSUNG", 4300000),
		}
		catalog := []domain.MasterCatalogEntry{
			entry("LOG-001", "Logitech G102 Lightsync", "LOGITECH", "Mouse"),
			entry("LOG-002", "Logitech MX Master 3S Graphite", "LOGITECH", "Mouse"),
			entry("SAM-001", "Samsung Odyssey G5 27 Inch", "SAMSUNG", "Monitor"),
		}

		decisions, err := svc.LabelCatalog(ctx, listings, catalog)
		if err != nil {
			t.Fatalf("LabelCatalog() error = %v", err)
		}
		if len(decisions) != len(listings) {
			t.Fatalf("got %d decisions, want %d", len(decisions), len(listings))
		}

		wantSKUs := []string{"LOG-001", "LOG-002", "SAM-001"}
		for i, d := range decisions {
			if d.Row != i {
				t.Errorf("decisions[%d].Row = %d, want %d", i, d.Row, i)
			}
			if d.SKU != wantSKUs[i] {
				t.Errorf("decisions[%d].SKU = %s, want %s", i, d.SKU, wantSKUs[i])
			}
		}
	})

	t.Run("brand absent from catalog gets the not-found sentinel", func(t *testing.T) {
		listings := []domain.ProductListing{
			listing("Acme Keyboard RGB", "ACME", 150000),
		}
		catalog := []domain.MasterCatalogEntry{
			entry("LOG-001", "Logitech G102 Lightsync", "LOGITECH", "Mouse"),
		}

		decisions, err := svc.LabelCatalog(ctx, listings, catalog)
		if err != nil {
			t.Fatalf("LabelCatalog() error = %v", err)
		}
		if decisions[0].SKU != LabelNotFound || decisions[0].Category != LabelNotFound {
			t.Errorf("decision = %+v, want both fields %q", decisions[0], LabelNotFound)
		}
	})

	t.Run("never matches across brands", func(t *testing.T) {
		// The catalog's LOGITECH entry is textually identical to the
		// listing, but the brands differ, so it must not be chosen.
		listings := []domain.ProductListing{
			listing("G102 Lightsync Gaming Mouse", "RAZER", 200000),
		}
		catalog := []domain.MasterCatalogEntry{
			entry("LOG-001", "G102 Lightsync Gaming Mouse", "LOGITECH", "Mouse"),
			entry("RZR-001", "Razer Viper Mini", "RAZER", "Mouse"),
		}

		decisions, err := svc.LabelCatalog(ctx, listings, catalog)
		if err != nil {
			t.Fatalf("LabelCatalog() error = %v", err)
		}
		if decisions[0].SKU != "RZR-001" {
			t.Errorf("SKU = %s, want RZR-001 (same brand only)", decisions[0].SKU)
		}
	})

	t.Run("identical name scores a full match", func(t *testing.T) {
		listings := []domain.ProductListing{
			listing("Logitech G102 Lightsync", "LOGITECH", 200000),
		}
		catalog := []domain.MasterCatalogEntry{
			entry("LOG-001", "Logitech G102 Lightsync", "LOGITECH", "Mouse"),
			entry("LOG-002", "Logitech MX Master 3S", "LOGITECH", "Mouse"),
		}

		decisions, err := svc.LabelCatalog(ctx, listings, catalog)
		if err != nil {
			t.Fatalf("LabelCatalog() error = %v", err)
		}
		if decisions[0].SKU != "LOG-001" {
			t.Errorf("SKU = %s, want LOG-001", decisions[0].SKU)
		}
		if decisions[0].Score != 1.0 {
			t.Errorf("Score = %v, want exactly 1.0", decisions[0].Score)
		}
	})

	t.Run("score ties break to the smaller SKU", func(t *testing.T) {
		// Two catalog entries with the same name tie at 1.0.
		listings := []domain.ProductListing{
			listing("Logitech G102 Lightsync", "LOGITECH", 200000),
		}
		catalog := []domain.MasterCatalogEntry{
			entry("LOG-900", "Logitech G102 Lightsync", "LOGITECH", "Mouse"),
			entry("LOG-100", "Logitech G102 Lightsync", "LOGITECH", "Mouse"),
		}

		decisions, err := svc.LabelCatalog(ctx, listings, catalog)
		if err != nil {
			t.Fatalf("LabelCatalog() error = %v", err)
		}
		if decisions[0].SKU != "LOG-100" {
			t.Errorf("SKU = %s, want LOG-100 on tie", decisions[0].SKU)
		}
	})

	t.Run("honors context cancellation", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := svc.LabelCatalog(cancelled,
			[]domain.ProductListing{listing("x y z", "A", 1)},
			[]domain.MasterCatalogEntry{entry("S1", "x y z", "A", "c")})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("error = %v, want context.Canceled", err)
		}
	})
}

func TestFindMatches(t *testing.T) {
	svc := NewMatchingService(MatchConfig{})
	ctx := context.Background()

	query := listing("Logitech G102 Lightsync Black", "LOGITECH", 200000)
	home := []domain.ProductListing{query}

	t.Run("invalid cutoff is rejected", func(t *testing.T) {
		for _, cutoff := range []float64{-0.1, 1.1} {
			_, err := svc.FindMatches(ctx, query, home, nil, cutoff)
			if !errors.Is(err, domain.ErrInvalidRequest) {
				t.Errorf("cutoff %v: error = %v, want ErrInvalidRequest", cutoff, err)
			}
		}
	})

	t.Run("self row opens every table at 100 percent", func(t *testing.T) {
		competitors := []domain.ProductListing{
			competitor("Logitech G102 Lightsync Hitam", "LOGITECH", "TOKO B", 195000),
		}

		rows, err := svc.FindMatches(ctx, query, home, competitors, 0.5)
		if err != nil {
			t.Fatalf("FindMatches() error = %v", err)
		}
		if len(rows) == 0 || !rows[0].IsSelf {
			t.Fatalf("first row = %+v, want the self row", rows[0])
		}
		if rows[0].ScorePercent != 100 || rows[0].PriceDelta != 0 || rows[0].Band != domain.PriceEqual {
			t.Errorf("self row = %+v, want 100%% at zero delta", rows[0])
		}
	})

	t.Run("no same-brand candidates yields the lone self row", func(t *testing.T) {
		competitors := []domain.ProductListing{
			competitor("Razer Viper Mini", "RAZER", "TOKO B", 250000),
		}

		rows, err := svc.FindMatches(ctx, query, home, competitors, 0.5)
		if err != nil {
			t.Fatalf("FindMatches() error = %v", err)
		}
		if len(rows) != 1 {
			t.Errorf("got %d rows, want only the self row", len(rows))
		}
	})

	t.Run("cutoff excludes weak candidates", func(t *testing.T) {
		competitors := []domain.ProductListing{
			competitor("Logitech G102 Lightsync Hitam", "LOGITECH", "TOKO B", 195000),
			competitor("Logitech Z120 Speaker Mini", "LOGITECH", "TOKO B", 120000),
		}

		loose, err := svc.FindMatches(ctx, query, home, competitors, 0.0)
		if err != nil {
			t.Fatalf("FindMatches() error = %v", err)
		}
		tight, err := svc.FindMatches(ctx, query, home, competitors, 0.6)
		if err != nil {
			t.Fatalf("FindMatches() error = %v", err)
		}

		if len(loose) <= len(tight) {
			t.Errorf("loose cutoff rows = %d, tight = %d, want loose > tight", len(loose), len(tight))
		}

		// The near-duplicate must survive the tight cutoff.
		found := false
		for _, r := range tight[1:] {
			if r.ListedName == "Logitech G102 Lightsync Hitam" {
				found = true
			}
			if r.ListedName == "Logitech Z120 Speaker Mini" {
				t.Errorf("unrelated product survived the 0.6 cutoff")
			}
		}
		if !found {
			t.Errorf("near-duplicate missing from tight-cutoff rows %+v", tight)
		}
	})

	t.Run("price deltas are candidate minus query", func(t *testing.T) {
		competitors := []domain.ProductListing{
			competitor("Logitech G102 Lightsync Black", "LOGITECH", "TOKO B", 195000),
		}

		rows, err := svc.FindMatches(ctx, query, home, competitors, 0.5)
		if err != nil {
			t.Fatalf("FindMatches() error = %v", err)
		}
		if len(rows) != 2 {
			t.Fatalf("got %d rows, want 2", len(rows))
		}
		if rows[1].PriceDelta != -5000 {
			t.Errorf("PriceDelta = %d, want -5000", rows[1].PriceDelta)
		}
		if rows[1].Band != domain.PriceLower {
			t.Errorf("Band = %s, want %s", rows[1].Band, domain.PriceLower)
		}
	})
}

func TestPercentScore(t *testing.T) {
	tests := []struct {
		score float64
		want  int
	}{
		{1.0, 100},
		{0.65, 65},
		{0.999, 99},
		{0.651, 65},
		{0.0, 0},
	}

	for _, tt := range tests {
		if got := percentScore(tt.score); got != tt.want {
			t.Errorf("percentScore(%v) = %d, want %d", tt.score, got, tt.want)
		}
	}
}

func TestClassifyPrice(t *testing.T) {
	tests := []struct {
		delta int64
		want  domain.PriceBand
	}{
		{0, domain.PriceEqual},
		{1, domain.PriceHigher},
		{-1, domain.PriceLower},
		{500000, domain.PriceHigher},
	}

	for _, tt := range tests {
		if got := domain.ClassifyPrice(tt.delta); got != tt.want {
			t.Errorf("ClassifyPrice(%d) = %s, want %s", tt.delta, got, tt.want)
		}
	}
}
