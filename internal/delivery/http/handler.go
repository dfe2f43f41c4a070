package http

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dbklik/recapdash/internal/domain"
	"github.com/dbklik/recapdash/internal/usecase"
)

// SnapshotProvider serves workbook snapshots and can force a reload.
type SnapshotProvider interface {
	Load(ctx context.Context) (*domain.Snapshot, error)
	Refresh(ctx context.Context) (*domain.Snapshot, error)
}

// RunStore loads persisted match runs and archives refreshed snapshots.
type RunStore interface {
	GetRun(ctx context.Context, id string) (*domain.MatchRun, error)
	SaveSnapshot(ctx context.Context, snap *domain.Snapshot) error
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	snapshots  SnapshotProvider
	labeling   *usecase.LabelingService
	comparison *usecase.ComparisonService
	analytics  *usecase.AnalyticsService
	runs       RunStore
}

// NewHandler creates a new HTTP handler
func NewHandler(
	snapshots SnapshotProvider,
	labeling *usecase.LabelingService,
	comparison *usecase.ComparisonService,
	analytics *usecase.AnalyticsService,
	runs RunStore,
) *Handler {
	return &Handler{
		snapshots:  snapshots,
		labeling:   labeling,
		comparison: comparison,
		analytics:  analytics,
		runs:       runs,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "recapdash-backend",
		"version": "1.0.0",
	})
}

// CompareRequest is the body for POST /api/v1/match/compare.
type CompareRequest struct {
	SKU    string  `json:"sku" binding:"required"`
	Cutoff float64 `json:"cutoff"`
}

// CompareMatches builds the competitor price comparison table for one SKU.
func (h *Handler) CompareMatches(c *gin.Context) {
	var req CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sku is required"})
		return
	}

	run, err := h.comparison.CompareBySKU(c.Request.Context(), req.SKU, req.Cutoff)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, run)
}

// RunLabeling labels every home-store recap row with its best catalog match.
func (h *Handler) RunLabeling(c *gin.Context) {
	result, err := h.labeling.Run(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetRun returns a previously persisted match run.
func (h *Handler) GetRun(c *gin.Context) {
	run, err := h.runs.GetRun(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrRunNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, run)
}

// RefreshData invalidates the cached snapshot and reloads the workbook.
func (h *Handler) RefreshData(c *gin.Context) {
	snap, err := h.snapshots.Refresh(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	// Keep the archive in step with the workbook. A failed archive
	// does not fail the refresh.
	if err := h.runs.SaveSnapshot(c.Request.Context(), snap); err != nil {
		log.Printf("[DATA] snapshot archive failed: %v", err)
	}

	c.JSON(http.StatusOK, gin.H{
		"listings":       len(snap.Listings),
		"catalogEntries": len(snap.Catalog),
		"loadedAt":       snap.LoadedAt,
	})
}

// LatestEntries returns the newest recap row per store and product name.
func (h *Handler) LatestEntries(c *gin.Context) {
	listings, ok := h.filteredListings(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": h.analytics.LatestEntries(listings)})
}

// TopProducts returns the home store's best sellers by units sold.
func (h *Handler) TopProducts(c *gin.Context) {
	listings, ok := h.filteredListings(c)
	if !ok {
		return
	}

	n := 10
	if raw := c.Query("n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "n must be a positive integer"})
			return
		}
		n = parsed
	}

	c.JSON(http.StatusOK, gin.H{"products": h.analytics.TopProducts(listings, n)})
}

// BrandRevenue returns per-store revenue broken down by brand.
func (h *Handler) BrandRevenue(c *gin.Context) {
	listings, ok := h.filteredListings(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"brands": h.analytics.BrandRevenue(listings)})
}

// WeeklyRevenue returns per-store revenue per calendar week.
func (h *Handler) WeeklyRevenue(c *gin.Context) {
	listings, ok := h.filteredListings(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"weeks": h.analytics.WeeklyRevenue(listings)})
}

// StockTrend returns per-store ready/out-of-stock counts per calendar week.
func (h *Handler) StockTrend(c *gin.Context) {
	listings, ok := h.filteredListings(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"weeks": h.analytics.StockTrend(listings)})
}

// NewProducts returns listings that appear in one week but not the week before.
func (h *Handler) NewProducts(c *gin.Context) {
	snap, err := h.snapshots.Load(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	weekBefore, err := parseDateQuery(c, "before")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	weekAfter, err := parseDateQuery(c, "after")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	byStore, err := h.analytics.NewProducts(snap.Listings, weekBefore, weekAfter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"stores": byStore})
}

// filteredListings loads the snapshot and applies optional from/to
// date filters. On failure it writes the error response and returns
// ok=false.
func (h *Handler) filteredListings(c *gin.Context) ([]domain.ProductListing, bool) {
	snap, err := h.snapshots.Load(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return nil, false
	}

	listings := snap.Listings
	from, hasFrom, err := optionalDateQuery(c, "from")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	to, hasTo, err := optionalDateQuery(c, "to")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}

	if hasFrom || hasTo {
		if !hasTo {
			to = time.Now()
		}
		listings = h.analytics.FilterByDate(listings, from, to)
	}

	return listings, true
}

func parseDateQuery(c *gin.Context, key string) (time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return time.Time{}, errors.New(key + " query parameter is required (YYYY-MM-DD)")
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, errors.New(key + " must be a YYYY-MM-DD date")
	}
	return t, nil
}

func optionalDateQuery(c *gin.Context, key string) (time.Time, bool, error) {
	raw := c.Query(key)
	if raw == "" {
		return time.Time{}, false, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, false, errors.New(key + " must be a YYYY-MM-DD date")
	}
	return t, true, nil
}

// respondError maps domain errors onto HTTP status codes.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInsufficientInput):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
