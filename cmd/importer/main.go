package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/example/pharmstock/pkg/config"
	"github.com/example/pharmstock/pkg/database"
	"github.com/example/pharmstock/pkg/importer"
	"github.com/example/pharmstock/pkg/models"
	"github.com/example/pharmstock/pkg/repository"
)

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: importer [-config path] <mode> [file]

Modes:
  init                     create the schema and clear all data (destructive)
  import-products <file>   bulk-upsert the product catalog from a CSV export
  import-orders <file>     import the order history from a CSV export
  stats                    print row counts per table
`)
}

func main() {
	configPath := flag.String("config", "config/config.yaml", "Path to config file")
	flag.Parse()

	mode := flag.Arg(0)
	if mode == "" {
		usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	logger, err := zap.NewProduction()
	if err != nil {
		panic(fmt.Sprintf("Failed to create logger: %v", err))
	}
	defer logger.Sync()

	db, err := database.Connect(&cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("Failed to connect to store", zap.Error(err))
	}

	ctx := context.Background()

	switch mode {
	case "init":
		runInit(db, logger)
	case "import-products":
		runProductImport(ctx, db, cfg, logger, flag.Arg(1))
	case "import-orders":
		runOrderImport(ctx, db, cfg, logger, flag.Arg(1))
	case "stats":
		runStats(ctx, db, cfg, logger)
	default:
		usage()
		os.Exit(2)
	}
}

func runInit(db *gorm.DB, logger *zap.Logger) {
	if err := database.Init(db); err != nil {
		logger.Fatal("Schema initialization failed", zap.Error(err))
	}
	if err := database.Reset(db); err != nil {
		logger.Fatal("Schema reset failed", zap.Error(err))
	}
	logger.Info("Schema initialized and cleared")
}

func runProductImport(ctx context.Context, db *gorm.DB, cfg *config.Config, logger *zap.Logger, path string) {
	if path == "" {
		usage()
		os.Exit(2)
	}
	if err := database.Init(db); err != nil {
		logger.Fatal("Schema initialization failed", zap.Error(err))
	}

	table, err := importer.ReadTable(path)
	if err != nil {
		logger.Fatal("Failed to read product file", zap.String("file", path), zap.Error(err))
	}

	columns := importer.DefaultProductColumns().Merge(cfg.Import.ProductColumns)
	report, err := importer.NewCatalogImporter(db, logger, columns).Import(ctx, table)
	if err != nil {
		logger.Error("Catalog import failed",
			zap.Int("attempted", report.Attempted),
			zap.Int("imported", report.Imported),
			zap.Error(err))
		os.Exit(1)
	}

	// The catalog just changed; cached prices are stale now.
	if cfg.Redis.Addr != "" {
		redisRepo := repository.NewRedisRepository(&cfg.Redis)
		if err := redisRepo.Ping(ctx); err != nil {
			logger.Warn("Redis connection failed", zap.Error(err))
		} else if err := redisRepo.InvalidateMedicines(ctx); err != nil {
			logger.Warn("Failed to invalidate medicine cache", zap.Error(err))
		}
		redisRepo.Close()
	}

	auditRun(ctx, cfg, logger, "import-products", path, report)
	printSummary("products", path, report)
}

func runOrderImport(ctx context.Context, db *gorm.DB, cfg *config.Config, logger *zap.Logger, path string) {
	if path == "" {
		usage()
		os.Exit(2)
	}
	if err := database.Init(db); err != nil {
		logger.Fatal("Schema initialization failed", zap.Error(err))
	}

	table, err := importer.ReadTable(path)
	if err != nil {
		logger.Fatal("Failed to read order file", zap.String("file", path), zap.Error(err))
	}

	columns := importer.DefaultOrderColumns().Merge(cfg.Import.OrderColumns)
	report, err := importer.NewOrderImporter(db, logger, columns).Import(ctx, table)
	if err != nil {
		logger.Error("Order import aborted",
			zap.Int("attempted", report.Attempted),
			zap.Int("imported", report.Imported),
			zap.Error(err))
		os.Exit(1)
	}

	auditRun(ctx, cfg, logger, "import-orders", path, report)
	printSummary("orders", path, report)
}

func runStats(ctx context.Context, db *gorm.DB, cfg *config.Config, logger *zap.Logger) {
	tables := []struct {
		name  string
		model interface{}
	}{
		{"medicines", &models.Medicine{}},
		{"orders", &models.Order{}},
		{"order_items", &models.OrderItem{}},
		{"alerts", &models.Alert{}},
	}
	for _, t := range tables {
		var count int64
		if err := db.Model(t.model).Count(&count).Error; err != nil {
			logger.Fatal("Failed to count rows", zap.String("table", t.name), zap.Error(err))
		}
		fmt.Printf("%-12s %d\n", t.name, count)
	}

	if cfg.MongoDB.URI == "" {
		return
	}
	mongoRepo, err := repository.NewMongoRepository(&cfg.MongoDB)
	if err != nil {
		logger.Warn("Audit sink unavailable", zap.Error(err))
		return
	}
	defer mongoRepo.Close(ctx)
	if err := mongoRepo.Ping(ctx); err != nil {
		logger.Warn("Audit sink unreachable", zap.Error(err))
		return
	}
	runs, err := mongoRepo.RecentImportRuns(ctx, 10)
	if err != nil {
		logger.Warn("Failed to read import history", zap.Error(err))
		return
	}
	for _, run := range runs {
		fmt.Printf("%s  %-16s %-30s %v\n",
			run.CreatedAt.Format("2006-01-02 15:04:05"), run.Action, run.EntityID, run.Data)
	}
}

func auditRun(ctx context.Context, cfg *config.Config, logger *zap.Logger, mode, file string, report *importer.Report) {
	if cfg.MongoDB.URI == "" {
		return
	}
	mongoRepo, err := repository.NewMongoRepository(&cfg.MongoDB)
	if err != nil {
		logger.Warn("Audit sink unavailable", zap.Error(err))
		return
	}
	defer mongoRepo.Close(ctx)
	// Connecting is lazy; the ping is the actual reachability check.
	if err := mongoRepo.Ping(ctx); err != nil {
		logger.Warn("Audit sink unreachable", zap.Error(err))
		return
	}
	if err := mongoRepo.RecordImportRun(ctx, mode, file, report.Attempted, report.Imported, report.Skipped, report.Failed); err != nil {
		logger.Warn("Failed to record import run", zap.Error(err))
	}
}

func printSummary(kind, path string, report *importer.Report) {
	fmt.Printf("Imported %d/%d %s from %s (%d skipped, %d failed)\n",
		report.Imported, report.Attempted, kind, path, report.Skipped, report.Failed)
}
