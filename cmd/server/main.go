package main

import (
	"fmt"
	"log"
	"os"

	"github.com/dbklik/recapdash/config"
	httpDelivery "github.com/dbklik/recapdash/internal/delivery/http"
	"github.com/dbklik/recapdash/internal/infrastructure/cache"
	"github.com/dbklik/recapdash/internal/infrastructure/store"
	"github.com/dbklik/recapdash/internal/infrastructure/workbook"
	"github.com/dbklik/recapdash/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting RecapDash Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Workbook: %s", cfg.Data.WorkbookPath)
	log.Printf("Home store: %s", cfg.Data.HomeStore)

	// Initialize infrastructure dependencies
	snapshotCache := cache.NewSnapshotCache(cfg.Cache.TTL)
	log.Printf("Snapshot cache TTL: %s", cfg.Cache.TTL)

	reader := workbook.NewReader(cfg.Data.WorkbookPath)
	writer := workbook.NewWriter(cfg.Data.WorkbookPath)
	snapshots := cache.NewCachedSource(snapshotCache, reader)

	runStore, err := store.Open(cfg.Data.SQLitePath)
	if err != nil {
		log.Fatalf("Failed to open run store at %s: %v", cfg.Data.SQLitePath, err)
	}
	defer runStore.Close()
	log.Printf("Run store: %s", cfg.Data.SQLitePath)

	// Initialize usecase layer
	matcher := usecase.NewMatchingService(usecase.MatchConfig{
		DefaultCutoff:      cfg.Matching.DefaultCutoff,
		EnableDebugLogging: cfg.Matching.EnableDebugLogging,
	})
	log.Printf("Matching: cutoff=%.0f%%, debug=%v",
		cfg.Matching.DefaultCutoff*100, cfg.Matching.EnableDebugLogging)

	labeling := usecase.NewLabelingService(snapshots, writer, runStore, matcher, cfg.Data.HomeStore)
	comparison := usecase.NewComparisonService(snapshots, runStore, writer, matcher, cfg.Data.HomeStore)
	analytics := usecase.NewAnalyticsService(cfg.Data.HomeStore)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(snapshots, labeling, comparison, analytics, runStore)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
