package workbook

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/dbklik/recapdash/internal/domain"
	"github.com/dbklik/recapdash/internal/usecase"
)

// Writer writes label decisions and match tables back into the
// workbook the snapshot was read from.
type Writer struct {
	path string
}

// NewWriter creates a writer for the workbook at path.
func NewWriter(path string) *Writer {
	return &Writer{path: path}
}

// WriteLabels implements domain.LabelWriter: each decision's SKU and
// category land in the SKU/KATEGORI columns of its source row. The
// target sheet must already carry both columns.
func (w *Writer) WriteLabels(ctx context.Context, store string, status domain.StockStatus, decisions []domain.LabelDecision) error {
	if len(decisions) == 0 {
		return nil
	}

	f, err := excelize.OpenFile(w.path)
	if err != nil {
		return fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet, err := findRecapSheet(f, store, status)
	if err != nil {
		return err
	}

	header, err := f.GetRows(sheet)
	if err != nil {
		return fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(header) == 0 {
		return fmt.Errorf("sheet %q has no header row", sheet)
	}

	index := headerIndex(header[0])
	skuCol, okSKU := index[colSKU]
	catCol, okCat := index[colCategory]
	if !okSKU || !okCat {
		return fmt.Errorf("sheet %q is missing the %s or %s column", sheet, colSKU, colCategory)
	}

	for _, d := range decisions {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		skuCell, err := excelize.CoordinatesToCellName(skuCol+1, d.Row)
		if err != nil {
			return err
		}
		catCell, err := excelize.CoordinatesToCellName(catCol+1, d.Row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, skuCell, d.SKU); err != nil {
			return fmt.Errorf("write %s: %w", skuCell, err)
		}
		if err := f.SetCellValue(sheet, catCell, d.Category); err != nil {
			return fmt.Errorf("write %s: %w", catCell, err)
		}
	}

	if err := f.Save(); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}

	log.Printf("[WORKBOOK] wrote %d labels to sheet %q", len(decisions), sheet)
	return nil
}

// WriteMatchTable replaces the HASIL_MATCHING sheet with the rows of
// one comparison run.
func (w *Writer) WriteMatchTable(ctx context.Context, run *domain.MatchRun) error {
	f, err := excelize.OpenFile(w.path)
	if err != nil {
		return fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	// Regenerated wholesale on every run.
	if idx, _ := f.GetSheetIndex(sheetMatchTable); idx >= 0 {
		if err := f.DeleteSheet(sheetMatchTable); err != nil {
			return fmt.Errorf("reset %s: %w", sheetMatchTable, err)
		}
	}
	if _, err := f.NewSheet(sheetMatchTable); err != nil {
		return fmt.Errorf("create %s: %w", sheetMatchTable, err)
	}

	header := []interface{}{
		"Nama Produk Tercantum", "Toko", "Harga", "Selisih Harga",
		"Status Stok", "Skor Kemiripan (%)",
	}
	if err := f.SetSheetRow(sheetMatchTable, "A1", &header); err != nil {
		return err
	}

	for i, row := range run.Rows {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		values := []interface{}{
			row.ListedName,
			row.Store,
			usecase.FormatRupiah(row.Price),
			usecase.FormatDelta(row.PriceDelta, row.IsSelf),
			string(row.Status),
			row.ScorePercent,
		}
		cellRef, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetMatchTable, cellRef, &values); err != nil {
			return err
		}
	}

	if err := f.Save(); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}

	log.Printf("[WORKBOOK] wrote match table for run %s (%d rows)", run.ID, len(run.Rows))
	return nil
}

// findRecapSheet locates the recap sheet for a store and stock status,
// tolerating case differences in the sheet title.
func findRecapSheet(f *excelize.File, store string, status domain.StockStatus) (string, error) {
	suffix := "READY"
	if status == domain.StockOutOfStock {
		suffix = "HABIS"
	}
	want := strings.ToUpper(fmt.Sprintf("%s - REKAP - %s", store, suffix))

	for _, sheet := range f.GetSheetList() {
		if strings.ToUpper(strings.TrimSpace(sheet)) == want {
			return sheet, nil
		}
	}
	return "", fmt.Errorf("recap sheet %q not found", want)
}
