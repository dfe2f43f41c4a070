package workbook

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/dbklik/recapdash/internal/domain"
	"github.com/dbklik/recapdash/internal/usecase"
)

// Sheet names with a fixed role in the workbook.
const (
	sheetDatabase   = "DATABASE"
	sheetBrandAlias = "BRAND_ALIAS"
	sheetMatchTable = "HASIL_MATCHING"
)

// Reader loads a full snapshot from a recap workbook: every
// "<STORE> - REKAP - …" sheet, the DATABASE sheet, and the optional
// BRAND_ALIAS sheet.
type Reader struct {
	path string
}

// NewReader creates a reader for the workbook at path.
func NewReader(path string) *Reader {
	return &Reader{path: path}
}

// Load implements domain.SnapshotSource.
func (r *Reader) Load(ctx context.Context) (*domain.Snapshot, error) {
	f, err := excelize.OpenFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	snap := &domain.Snapshot{
		Aliases:  domain.BrandAliasMap{},
		LoadedAt: time.Now(),
	}

	for _, sheet := range f.GetSheetList() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		rows, err := f.GetRows(sheet)
		if err != nil {
			log.Printf("[WORKBOOK] skipping sheet %q: %v", sheet, err)
			continue
		}
		if len(rows) < 2 {
			continue
		}

		upper := strings.ToUpper(strings.TrimSpace(sheet))
		switch {
		case upper == sheetDatabase:
			snap.Catalog = parseCatalog(rows)
		case upper == sheetBrandAlias:
			snap.Aliases = parseAliases(rows)
		case strings.Contains(upper, "REKAP"):
			snap.Listings = append(snap.Listings, parseRecap(sheet, rows)...)
		}
	}

	if len(snap.Listings) == 0 {
		return nil, fmt.Errorf("%w: no recap rows in %s", domain.ErrInsufficientInput, r.path)
	}

	resolveBrands(snap)

	log.Printf("[WORKBOOK] loaded %d listings, %d catalog entries, %d aliases from %s",
		len(snap.Listings), len(snap.Catalog), len(snap.Aliases), r.path)
	return snap, nil
}

// parseRecap maps one recap sheet into listings. The second sheet row
// is Excel row 2, hence the +2 offset on SourceRow.
func parseRecap(sheet string, rows [][]string) []domain.ProductListing {
	store := storeFromSheet(sheet)
	status := statusFromSheet(sheet)
	index := headerIndex(rows[0])

	listings := make([]domain.ProductListing, 0, len(rows)-1)
	dropped := 0
	for i, row := range rows[1:] {
		listing, ok := mapListing(row, index, store, status, i+2)
		if !ok {
			dropped++
			continue
		}
		listings = append(listings, listing)
	}

	if dropped > 0 {
		log.Printf("[WORKBOOK] sheet %q: dropped %d malformed rows", sheet, dropped)
	}
	return listings
}

func parseCatalog(rows [][]string) []domain.MasterCatalogEntry {
	index := headerIndex(rows[0])
	entries := make([]domain.MasterCatalogEntry, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if entry, ok := mapCatalogEntry(row, index); ok {
			entries = append(entries, entry)
		}
	}
	return entries
}

// parseAliases reads (alias, canonical) pairs from the first two
// columns, skipping the header row.
func parseAliases(rows [][]string) domain.BrandAliasMap {
	aliases := make(domain.BrandAliasMap)
	for _, row := range rows[1:] {
		if len(row) < 2 {
			continue
		}
		alias := strings.ToUpper(strings.TrimSpace(row[0]))
		canonical := strings.ToUpper(strings.TrimSpace(row[1]))
		if alias == "" || canonical == "" {
			continue
		}
		aliases[alias] = canonical
	}
	return aliases
}

// resolveBrands canonicalizes every brand in the snapshot. Catalog
// brands double as the known-brand list for listings that carry no
// brand column at all.
func resolveBrands(snap *domain.Snapshot) {
	known := make([]string, 0, len(snap.Catalog))
	for _, e := range snap.Catalog {
		known = append(known, e.Brand)
	}
	resolver := usecase.NewBrandResolver(snap.Aliases, known)

	for i := range snap.Catalog {
		snap.Catalog[i].Brand = resolver.Resolve(snap.Catalog[i].Brand)
	}
	for i := range snap.Listings {
		if strings.TrimSpace(snap.Listings[i].Brand) == "" {
			snap.Listings[i].Brand = resolver.FromName(snap.Listings[i].RawName)
		} else {
			snap.Listings[i].Brand = resolver.Resolve(snap.Listings[i].Brand)
		}
	}
}
