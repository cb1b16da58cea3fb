package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/rajmukherjee207/SQL-Student-Loader/config"
	"github.com/rajmukherjee207/SQL-Student-Loader/internal/pipeline"
	"github.com/rajmukherjee207/SQL-Student-Loader/internal/synth"
)

func main() {
	_ = godotenv.Load()
	cfg := config.LoadConfig()

	zl, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Failed to build logger:", err)
	}
	defer zl.Sync()
	logger := zl.Sugar()

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		logger.Fatalw("database connection failed", "error", err)
	}

	if cfg.ExportDir != "" {
		if err := synth.New(cfg).WriteTemplates(cfg.ExportDir); err != nil {
			logger.Fatalw("template export failed", "dir", cfg.ExportDir, "error", err)
		}
		logger.Infow("sample templates written", "dir", cfg.ExportDir)
	}

	stats, err := pipeline.New(cfg, logger, db).Run(context.Background())
	if err != nil {
		logger.Errorw("load failed", "error", err)
		os.Exit(1)
	}

	var inserted, skipped int
	for _, s := range stats {
		inserted += s.Inserted
		skipped += s.Skipped
	}
	logger.Infow("load complete", "stages", len(stats), "inserted", inserted, "skipped", skipped)
}
