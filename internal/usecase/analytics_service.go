package usecase

import (
	"sort"
	"time"

	"github.com/dbklik/recapdash/internal/domain"
)

// AnalyticsService computes the sales views of the dashboard from a
// listing snapshot. All methods are pure functions over the slice they
// are given; the caller decides which snapshot and date range to feed.
type AnalyticsService struct {
	homeStore string
}

// NewAnalyticsService creates an analytics service for the given home
// store name.
func NewAnalyticsService(homeStore string) *AnalyticsService {
	return &AnalyticsService{homeStore: homeStore}
}

// HomeStore returns the configured home store name.
func (s *AnalyticsService) HomeStore() string { return s.homeStore }

// BrandShare is one brand's revenue within a store.
type BrandShare struct {
	Store   string `json:"store"`
	Brand   string `json:"brand"`
	Revenue int64  `json:"revenue"`
}

// WeeklyPoint is one store's revenue for one calendar week.
type WeeklyPoint struct {
	WeekStart time.Time `json:"weekStart"`
	Store     string    `json:"store"`
	Revenue   int64     `json:"revenue"`
}

// StockPoint is one store's stock-status counts for one calendar week.
type StockPoint struct {
	WeekStart  time.Time `json:"weekStart"`
	Store      string    `json:"store"`
	Available  int       `json:"available"`
	OutOfStock int       `json:"outOfStock"`
}

// FilterByDate keeps listings whose snapshot date falls in [from, to].
func (s *AnalyticsService) FilterByDate(listings []domain.ProductListing, from, to time.Time) []domain.ProductListing {
	var out []domain.ProductListing
	for _, l := range listings {
		if l.SnapshotDate.Before(from) || l.SnapshotDate.After(to) {
			continue
		}
		out = append(out, l)
	}
	return out
}

// LatestEntries reduces a snapshot to the newest row per
// (store, product name) pair, the view every per-product metric is
// computed from.
func (s *AnalyticsService) LatestEntries(listings []domain.ProductListing) []domain.ProductListing {
	type key struct{ store, name string }
	latest := make(map[key]int)
	order := make([]key, 0)

	for i, l := range listings {
		k := key{l.Store, l.RawName}
		prev, seen := latest[k]
		if !seen {
			latest[k] = i
			order = append(order, k)
			continue
		}
		if l.SnapshotDate.After(listings[prev].SnapshotDate) {
			latest[k] = i
		}
	}

	out := make([]domain.ProductListing, 0, len(order))
	for _, k := range order {
		out = append(out, listings[latest[k]])
	}
	return out
}

// TopProducts returns the home store's best sellers by units sold,
// computed over the latest entry per product.
func (s *AnalyticsService) TopProducts(listings []domain.ProductListing, n int) []domain.ProductListing {
	var home []domain.ProductListing
	for _, l := range s.LatestEntries(listings) {
		if l.Store == s.homeStore {
			home = append(home, l)
		}
	}

	sort.SliceStable(home, func(i, j int) bool {
		return home[i].UnitsSold > home[j].UnitsSold
	})

	if n > 0 && len(home) > n {
		home = home[:n]
	}
	return home
}

// BrandRevenue sums revenue per (store, brand) over the latest entry
// per product, sorted by store then revenue descending.
func (s *AnalyticsService) BrandRevenue(listings []domain.ProductListing) []BrandShare {
	type key struct{ store, brand string }
	totals := make(map[key]int64)

	for _, l := range s.LatestEntries(listings) {
		totals[key{l.Store, l.Brand}] += l.Revenue()
	}

	out := make([]BrandShare, 0, len(totals))
	for k, revenue := range totals {
		out = append(out, BrandShare{Store: k.store, Brand: k.brand, Revenue: revenue})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Store != out[j].Store {
			return out[i].Store < out[j].Store
		}
		if out[i].Revenue != out[j].Revenue {
			return out[i].Revenue > out[j].Revenue
		}
		return out[i].Brand < out[j].Brand
	})
	return out
}

// WeeklyRevenue sums revenue per store per calendar week, sorted by
// week then store.
func (s *AnalyticsService) WeeklyRevenue(listings []domain.ProductListing) []WeeklyPoint {
	type key struct {
		week  time.Time
		store string
	}
	totals := make(map[key]int64)

	for _, l := range listings {
		totals[key{WeekStart(l.SnapshotDate), l.Store}] += l.Revenue()
	}

	out := make([]WeeklyPoint, 0, len(totals))
	for k, revenue := range totals {
		out = append(out, WeeklyPoint{WeekStart: k.week, Store: k.store, Revenue: revenue})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].WeekStart.Equal(out[j].WeekStart) {
			return out[i].WeekStart.Before(out[j].WeekStart)
		}
		return out[i].Store < out[j].Store
	})
	return out
}

// StockTrend counts available and out-of-stock listings per store per
// calendar week.
func (s *AnalyticsService) StockTrend(listings []domain.ProductListing) []StockPoint {
	type key struct {
		week  time.Time
		store string
	}
	points := make(map[key]*StockPoint)

	for _, l := range listings {
		k := key{WeekStart(l.SnapshotDate), l.Store}
		p, ok := points[k]
		if !ok {
			p = &StockPoint{WeekStart: k.week, Store: k.store}
			points[k] = p
		}
		if l.Status == domain.StockAvailable {
			p.Available++
		} else {
			p.OutOfStock++
		}
	}

	out := make([]StockPoint, 0, len(points))
	for _, p := range points {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].WeekStart.Equal(out[j].WeekStart) {
			return out[i].WeekStart.Before(out[j].WeekStart)
		}
		return out[i].Store < out[j].Store
	})
	return out
}

// NewProducts returns, per store, the listings whose names appear in
// weekAfter but not in weekBefore. weekBefore must precede weekAfter.
func (s *AnalyticsService) NewProducts(listings []domain.ProductListing, weekBefore, weekAfter time.Time) (map[string][]domain.ProductListing, error) {
	weekBefore = WeekStart(weekBefore)
	weekAfter = WeekStart(weekAfter)
	if !weekBefore.Before(weekAfter) {
		return nil, domain.ErrInvalidRequest
	}

	type key struct{ store, name string }
	before := make(map[key]bool)
	for _, l := range listings {
		if WeekStart(l.SnapshotDate).Equal(weekBefore) {
			before[key{l.Store, l.RawName}] = true
		}
	}

	out := make(map[string][]domain.ProductListing)
	seen := make(map[key]bool)
	for _, l := range listings {
		if !WeekStart(l.SnapshotDate).Equal(weekAfter) {
			continue
		}
		k := key{l.Store, l.RawName}
		if before[k] || seen[k] {
			continue
		}
		seen[k] = true
		out[l.Store] = append(out[l.Store], l)
	}
	return out, nil
}

// WeekStart truncates a timestamp to the Monday of its calendar week.
func WeekStart(t time.Time) time.Time {
	t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -offset)
}
